// Package engine implements the deterministic rules core: the card/player
// data model, the priority-ordered effect resolution stack, and the rule
// engine that validates and applies player actions against a GameState.
package engine

// CardId uniquely identifies a card within a single match.
type CardId = uint32

// PlayerId identifies one of the two seats in a match.
type PlayerId = uint8

// EffectId identifies a CardEffect definition, stable across copies of the
// card that defines it.
type EffectId = uint32

const (
	DefaultMaxHandSize  uint8 = 10
	DefaultMaxBoardSize uint8 = 7
)

// CardType distinguishes a permanent board unit from a one-shot spell.
type CardType uint8

const (
	CardTypeUnit CardType = iota
	CardTypeSpell
)

func (t CardType) String() string {
	switch t {
	case CardTypeUnit:
		return "unit"
	case CardTypeSpell:
		return "spell"
	default:
		return "unknown"
	}
}

// Card is the immutable-by-convention template plus mutable runtime state
// (health, exhausted) for a single card instance.
type Card struct {
	Id         CardId
	Name       string
	Cost       uint8
	Attack     int16
	Health     int16
	CardType   CardType
	Exhausted  bool
	Effects    []CardEffect
}

// NewCard builds a card in its construction-time state: units enter
// exhausted (summoning sickness), spells do not.
func NewCard(id CardId, name string, cost uint8, attack, health int16, cardType CardType, effects []CardEffect) Card {
	return Card{
		Id:        id,
		Name:      name,
		Cost:      cost,
		Attack:    attack,
		Health:    health,
		CardType:  cardType,
		Exhausted: cardType == CardTypeUnit,
		Effects:   effects,
	}
}

// CardEffect attaches a triggerable EffectKind to a card, gated by an
// optional EffectCondition and ordered among simultaneous triggers by
// Priority (higher resolves first).
type CardEffect struct {
	Id          EffectId
	Description string
	Trigger     EffectTrigger
	Priority    int8
	Kind        EffectKind
	Condition   *EffectCondition
}

func NewCardEffect(id EffectId, description string, trigger EffectTrigger, priority int8, kind EffectKind) CardEffect {
	return CardEffect{Id: id, Description: description, Trigger: trigger, Priority: priority, Kind: kind}
}

func (e CardEffect) WithCondition(condition EffectCondition) CardEffect {
	e.Condition = &condition
	return e
}

func DirectDamageEffect(id EffectId, description string, trigger EffectTrigger, priority int8, amount int16, target EffectTarget) CardEffect {
	return NewCardEffect(id, description, trigger, priority, EffectKind{Tag: EffectDirectDamage, Amount: amount, Target: target})
}

func HealEffect(id EffectId, description string, trigger EffectTrigger, priority int8, amount int16, target EffectTarget) CardEffect {
	return NewCardEffect(id, description, trigger, priority, EffectKind{Tag: EffectHeal, Amount: amount, Target: target})
}

func DrawCardEffect(id EffectId, description string, trigger EffectTrigger, priority int8, count uint8, target EffectTarget) CardEffect {
	return NewCardEffect(id, description, trigger, priority, EffectKind{Tag: EffectDrawCard, Count: count, Target: target})
}

// CanTrigger reports whether the effect's condition (if any) and kind both
// allow it to fire in the given context.
func (e CardEffect) CanTrigger(ctx EffectContext, state *GameState) bool {
	if e.Condition != nil && !e.Condition.IsSatisfied(ctx, state) {
		return false
	}
	return e.Kind.CanTrigger(ctx, state)
}

func (e CardEffect) Apply(ctx EffectContext, state *GameState) EffectResolution {
	return e.Kind.Apply(ctx, state)
}

// Player holds one seat's hero stats and card zones. Pending discards are
// tracked match-wide on GameState rather than per player; each entry
// records its PlayerId, and resolve_pending_discard looks one up by player
// id and pending id together.
type Player struct {
	Id     PlayerId
	Health int16
	Armor  uint8
	Mana   uint8
	Hand   []Card
	Board  []Card
	Deck   []Card
}

func NewPlayer(id PlayerId, health int16, armor, mana uint8, hand, board, deck []Card) Player {
	return Player{Id: id, Health: health, Armor: armor, Mana: mana, Hand: hand, Board: board, Deck: deck}
}

func (p *Player) FindCardInHandIndex(cardId CardId) int {
	for i := range p.Hand {
		if p.Hand[i].Id == cardId {
			return i
		}
	}
	return -1
}

func (p *Player) RemoveCardFromHand(cardId CardId) (Card, bool) {
	idx := p.FindCardInHandIndex(cardId)
	if idx < 0 {
		return Card{}, false
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card, true
}

func (p *Player) FindCardOnBoard(cardId CardId) *Card {
	for i := range p.Board {
		if p.Board[i].Id == cardId {
			return &p.Board[i]
		}
	}
	return nil
}

func (p *Player) ReadyBoard() {
	for i := range p.Board {
		p.Board[i].Exhausted = false
	}
}

// PendingDiscard represents a card drawn on the player's behalf, awaiting a
// resolve_pending_discard choice of what ultimately stays in hand.
type PendingDiscard struct {
	Id        uint64
	PlayerId  PlayerId
	DrawnCard Card
}

// GamePhase is the current stage of the active player's turn.
type GamePhase uint8

const (
	PhaseMulligan GamePhase = iota
	PhaseMain
	PhaseCombat
	PhaseEnd
)

func (p GamePhase) String() string {
	switch p {
	case PhaseMulligan:
		return "mulligan"
	case PhaseMain:
		return "main"
	case PhaseCombat:
		return "combat"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// VictoryReasonTag discriminates the VictoryReason tagged union.
type VictoryReasonTag uint8

const (
	VictoryHealthDepleted VictoryReasonTag = iota
	VictoryDeckOut
	VictorySpecial
)

// VictoryReason names why a match ended. Exactly one of Loser/Reason is
// meaningful depending on Tag.
type VictoryReason struct {
	Tag    VictoryReasonTag
	Loser  PlayerId
	Reason string
}

func HealthDepletedReason(loser PlayerId) VictoryReason {
	return VictoryReason{Tag: VictoryHealthDepleted, Loser: loser}
}

func DeckOutReason(loser PlayerId) VictoryReason {
	return VictoryReason{Tag: VictoryDeckOut, Loser: loser}
}

func SpecialReason(reason string) VictoryReason {
	return VictoryReason{Tag: VictorySpecial, Reason: reason}
}

// VictoryState is the recorded outcome of a finished match.
type VictoryState struct {
	Winner PlayerId
	Reason VictoryReason
}
