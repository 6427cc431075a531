package engine

import "fmt"

// IntegrityErrorKind enumerates the ways a GameState can fail its
// consistency check.
type IntegrityErrorKind uint8

const (
	InvalidPlayerIndex IntegrityErrorKind = iota
	DuplicateCardId
	NegativeHealth
	ManaOutOfRange
)

// IntegrityError reports a specific consistency violation found by
// GameState.IntegrityCheck.
type IntegrityError struct {
	Kind     IntegrityErrorKind
	PlayerId PlayerId
	CardId   CardId
	Value    int
}

func (e IntegrityError) Error() string {
	switch e.Kind {
	case InvalidPlayerIndex:
		return fmt.Sprintf("invalid player index: player %d", e.PlayerId)
	case DuplicateCardId:
		return fmt.Sprintf("duplicate card id %d", e.CardId)
	case NegativeHealth:
		return fmt.Sprintf("player %d health %d below floor", e.PlayerId, e.Value)
	case ManaOutOfRange:
		return fmt.Sprintf("player %d mana %d out of range", e.PlayerId, e.Value)
	default:
		return "integrity violation"
	}
}

// RuleErrorKind enumerates every way a rule engine operation can be
// rejected.
type RuleErrorKind uint8

const (
	GameFinished RuleErrorKind = iota
	NotPlayerTurn
	PlayerNotFound
	InvalidPhase
	CardNotFound
	InvalidTarget
	InsufficientMana
	CardTypeMismatch
	UnitExhausted
	InvalidAttackTarget
	AttackerNotFound
	ZeroAttackUnit
	BoardFull
	MulliganPhaseOnly
	MulliganAlreadyCompleted
	PendingDiscardNotFound
	IntegrityViolation
)

// RuleError is a tagged error carrying whatever payload its Kind needs.
// Embedding every possible field on one struct (rather than N error
// types) mirrors the closed, exhaustively-matched Rust enum this taxonomy
// was translated from, while staying a single type that satisfies the
// standard `error` interface.
type RuleError struct {
	Kind             RuleErrorKind
	PlayerId         PlayerId
	CardId           CardId
	ExpectedPhase    GamePhase
	ActualPhase      GamePhase
	Required         uint8
	Available        uint8
	ExpectedCardType CardType
	ActualCardType   CardType
	PendingId        uint64
	Integrity        *IntegrityError
}

// Is reports whether target is a *RuleError with the same Kind, ignoring
// every other field. This lets a caller match on error category via
// errors.Is(err, &RuleError{Kind: CardNotFound}) without needing to know
// or compare the specific card id, phase, or other payload the error was
// raised with.
func (e *RuleError) Is(target error) bool {
	other, ok := target.(*RuleError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func (e *RuleError) Error() string {
	switch e.Kind {
	case GameFinished:
		return "game already finished"
	case NotPlayerTurn:
		return "not this player's turn"
	case PlayerNotFound:
		return fmt.Sprintf("player %d not found", e.PlayerId)
	case InvalidPhase:
		return fmt.Sprintf("expected phase %s, got %s", e.ExpectedPhase, e.ActualPhase)
	case CardNotFound:
		return fmt.Sprintf("card %d not found", e.CardId)
	case InvalidTarget:
		return "invalid target"
	case InsufficientMana:
		return fmt.Sprintf("insufficient mana: need %d, have %d", e.Required, e.Available)
	case CardTypeMismatch:
		return fmt.Sprintf("expected card type %s, got %s", e.ExpectedCardType, e.ActualCardType)
	case UnitExhausted:
		return fmt.Sprintf("unit %d is exhausted", e.CardId)
	case InvalidAttackTarget:
		return "invalid attack target"
	case AttackerNotFound:
		return fmt.Sprintf("attacker %d not found", e.CardId)
	case ZeroAttackUnit:
		return fmt.Sprintf("unit %d has zero attack", e.CardId)
	case BoardFull:
		return "board full"
	case MulliganPhaseOnly:
		return "action only valid during mulligan phase"
	case MulliganAlreadyCompleted:
		return fmt.Sprintf("player %d already completed mulligan", e.PlayerId)
	case PendingDiscardNotFound:
		return fmt.Sprintf("no pending discard %d for player %d", e.PendingId, e.PlayerId)
	case IntegrityViolation:
		return fmt.Sprintf("integrity violation: %v", e.Integrity)
	default:
		return "rule error"
	}
}

func errGameFinished() *RuleError { return &RuleError{Kind: GameFinished} }
func errNotPlayerTurn() *RuleError { return &RuleError{Kind: NotPlayerTurn} }
func errPlayerNotFound(id PlayerId) *RuleError {
	return &RuleError{Kind: PlayerNotFound, PlayerId: id}
}
func errInvalidPhase(expected, actual GamePhase) *RuleError {
	return &RuleError{Kind: InvalidPhase, ExpectedPhase: expected, ActualPhase: actual}
}
func errCardNotFound(id CardId) *RuleError { return &RuleError{Kind: CardNotFound, CardId: id} }
func errInvalidTarget() *RuleError         { return &RuleError{Kind: InvalidTarget} }
func errInsufficientMana(required, available uint8) *RuleError {
	return &RuleError{Kind: InsufficientMana, Required: required, Available: available}
}
func errCardTypeMismatch(expected, actual CardType) *RuleError {
	return &RuleError{Kind: CardTypeMismatch, ExpectedCardType: expected, ActualCardType: actual}
}
func errUnitExhausted(id CardId) *RuleError {
	return &RuleError{Kind: UnitExhausted, CardId: id}
}
func errInvalidAttackTarget() *RuleError { return &RuleError{Kind: InvalidAttackTarget} }
func errAttackerNotFound(id CardId) *RuleError {
	return &RuleError{Kind: AttackerNotFound, CardId: id}
}
func errZeroAttackUnit(id CardId) *RuleError {
	return &RuleError{Kind: ZeroAttackUnit, CardId: id}
}
func errBoardFull() *RuleError        { return &RuleError{Kind: BoardFull} }
func errMulliganPhaseOnly() *RuleError { return &RuleError{Kind: MulliganPhaseOnly} }
func errMulliganAlreadyCompleted(id PlayerId) *RuleError {
	return &RuleError{Kind: MulliganAlreadyCompleted, PlayerId: id}
}
func errPendingDiscardNotFound(playerId PlayerId, pendingId uint64) *RuleError {
	return &RuleError{Kind: PendingDiscardNotFound, PlayerId: playerId, PendingId: pendingId}
}
func errIntegrityViolation(err IntegrityError) *RuleError {
	return &RuleError{Kind: IntegrityViolation, Integrity: &err}
}
