package engine

// PlayCardAction plays card_id from player_id's hand, optionally aimed at
// a target player and/or a target card on that player's board.
type PlayCardAction struct {
	PlayerId     PlayerId
	CardId       CardId
	TargetPlayer *PlayerId
	TargetCard   *CardId
}

// AttackAction declares attacker_id (owned by attacker_owner) attacking
// either defender_owner's hero (DefenderCard nil) or a specific board card.
type AttackAction struct {
	AttackerOwner PlayerId
	AttackerId    CardId
	DefenderOwner PlayerId
	DefenderCard  *CardId
}

// MulliganAction replaces zero or more starting hand cards with fresh
// draws before the match begins.
type MulliganAction struct {
	PlayerId     PlayerId
	Replacements []CardId
}

// DiscardCardAction resolves a PendingDiscard: either confirm discarding
// the newly drawn card, or keep it and discard a different named hand
// card instead.
type DiscardCardAction struct {
	PlayerId      PlayerId
	PendingId     uint64
	DiscardCardId CardId
}

// RuleResolution bundles the resulting state, the events produced by one
// operation, and the match outcome if the operation ended the game.
type RuleResolution struct {
	State   *GameState
	Events  []GameEvent
	Victory *VictoryState
}

// NewRuleResolution packages state+events into a RuleResolution, adding a
// synthetic GameWon event if state finished but events doesn't already
// contain one (covers mutators such as DamagePlayer and DrawCard, which
// declare victory onto the state's event log without returning a GameWon
// event to the caller).
func NewRuleResolution(state *GameState, events []GameEvent) RuleResolution {
	victory := state.Outcome
	if victory != nil {
		hasEvent := false
		for _, event := range events {
			if _, ok := event.(GameWon); ok {
				hasEvent = true
				break
			}
		}
		if !hasEvent {
			events = append(events, GameWon{Winner: victory.Winner, Reason: victory.Reason})
		}
	}
	return RuleResolution{State: state, Events: events, Victory: victory}
}

// RuleEngine validates and applies player actions against a GameState. It
// holds no state of its own beyond a scratch EffectEngine, so a fresh
// RuleEngine is cheap and safe to construct per call (the AI agent does
// exactly that for every simulated transition).
type RuleEngine struct {
	effectEngine EffectEngine
}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

func ensurePlayPhase(state *GameState) *RuleError {
	if state.Phase != PhaseMain {
		return errInvalidPhase(PhaseMain, state.Phase)
	}
	return nil
}

func ensureCombatPhase(state *GameState) *RuleError {
	if state.Phase != PhaseCombat {
		return errInvalidPhase(PhaseCombat, state.Phase)
	}
	return nil
}

func ensureMulliganPhase(state *GameState) *RuleError {
	if state.Phase != PhaseMulligan {
		return errMulliganPhaseOnly()
	}
	return nil
}

func ensureTurnOwner(state *GameState, playerId PlayerId) *RuleError {
	if state.CurrentPlayer != playerId {
		return errNotPlayerTurn()
	}
	return nil
}

func ensureIntegrity(state *GameState) *RuleError {
	if err := state.IntegrityCheck(); err != nil {
		return errIntegrityViolation(*err)
	}
	return nil
}

// requiresTarget reports whether any of card's effects need a
// caller-supplied ContextTarget to resolve.
func requiresTarget(card *Card) bool {
	for _, effect := range card.Effects {
		if effect.Kind.requiresContextTarget() {
			return true
		}
	}
	return false
}

func buildPlayContext(action PlayCardAction, state *GameState) EffectContext {
	ctx := NewEffectContext(TriggerOnPlay, action.PlayerId, state.CurrentPlayer).WithSourceCard(action.CardId)
	if action.TargetPlayer != nil {
		if action.TargetCard != nil {
			ctx = ctx.WithTargetCard(*action.TargetPlayer, *action.TargetCard)
		} else {
			ctx = ctx.WithTargetPlayer(*action.TargetPlayer)
		}
	}
	return ctx
}

// processTurnStart sets player_id as the current player in the Main
// phase, resolves that player's OnTurnStart effects, and then readies
// them (refreshes board, gains mana, draws). This is the single path that
// readies a player on a turn transition — EndTurn below delegates here
// instead of readying a second time itself.
func (r *RuleEngine) processTurnStart(state *GameState, playerId PlayerId) ([]GameEvent, *RuleError) {
	state.CurrentPlayer = playerId
	state.Phase = PhaseMain

	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}

	var events []GameEvent

	if index := state.PlayerIndex(playerId); index >= 0 {
		boardSnapshot := append([]Card(nil), state.Players[index].Board...)
		for i := range boardSnapshot {
			card := boardSnapshot[i]
			ctx := NewEffectContext(TriggerOnTurnStart, playerId, state.CurrentPlayer).WithSourceCard(card.Id)
			r.effectEngine.QueueCardEffects(&card, ctx)
		}
	}

	events = append(events, r.effectEngine.ResolveAll(state)...)

	if state.IsFinished() {
		return events, nil
	}

	state.ReadyPlayer(playerId)

	if outcome := state.EvaluateVictory(); outcome != nil {
		events = append(events, GameWon{Winner: outcome.Winner, Reason: outcome.Reason})
	}

	return events, nil
}

// PlayCard validates and applies a PlayCardAction. Target validity is
// checked before the card is removed from hand: a rejected action never
// costs the player their card.
func (r *RuleEngine) PlayCard(state *GameState, action PlayCardAction) (*RuleResolution, error) {
	events, err := r.playCard(state, action)
	if err != nil {
		return nil, err
	}
	resolution := NewRuleResolution(state, events)
	return &resolution, nil
}

func (r *RuleEngine) playCard(state *GameState, action PlayCardAction) ([]GameEvent, *RuleError) {
	if state.IsFinished() {
		return nil, errGameFinished()
	}
	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}
	if err := ensureTurnOwner(state, action.PlayerId); err != nil {
		return nil, err
	}
	if err := ensurePlayPhase(state); err != nil {
		return nil, err
	}

	if action.TargetCard != nil && action.TargetPlayer == nil {
		return nil, errInvalidTarget()
	}
	if action.TargetPlayer != nil {
		targetPlayer := state.GetPlayer(*action.TargetPlayer)
		if targetPlayer == nil {
			return nil, errInvalidTarget()
		}
		if action.TargetCard != nil {
			found := false
			for _, card := range targetPlayer.Board {
				if card.Id == *action.TargetCard {
					found = true
					break
				}
			}
			if !found {
				return nil, errInvalidTarget()
			}
		}
	}

	playerIndex := state.PlayerIndex(action.PlayerId)
	if playerIndex < 0 {
		return nil, errCardNotFound(action.CardId)
	}

	availableMana := state.Players[playerIndex].Mana
	handIndex := state.Players[playerIndex].FindCardInHandIndex(action.CardId)
	if handIndex < 0 {
		return nil, errCardNotFound(action.CardId)
	}

	card := state.Players[playerIndex].Hand[handIndex]
	if availableMana < card.Cost {
		return nil, errInsufficientMana(card.Cost, availableMana)
	}

	if card.CardType == CardTypeUnit && uint8(len(state.Players[playerIndex].Board)) >= state.MaxBoardSize {
		return nil, errBoardFull()
	}

	if requiresTarget(&card) && action.TargetPlayer == nil && action.TargetCard == nil {
		return nil, errInvalidTarget()
	}

	state.Players[playerIndex].Hand = append(state.Players[playerIndex].Hand[:handIndex], state.Players[playerIndex].Hand[handIndex+1:]...)
	state.Players[playerIndex].Mana -= card.Cost

	var events []GameEvent
	playEvent := CardPlayed{PlayerId: action.PlayerId, CardId: card.Id, TargetId: action.TargetCard}
	state.RecordEvent(playEvent)
	events = append(events, playEvent)

	context := buildPlayContext(action, state)

	switch card.CardType {
	case CardTypeUnit:
		card.Exhausted = true
		state.Players[playerIndex].Board = append(state.Players[playerIndex].Board, card)
		boardCard := &state.Players[playerIndex].Board[len(state.Players[playerIndex].Board)-1]
		r.effectEngine.QueueCardEffects(boardCard, context)
	case CardTypeSpell:
		r.effectEngine.QueueCardEffects(&card, context)
	}

	events = append(events, r.effectEngine.ResolveAll(state)...)

	if outcome := state.EvaluateVictory(); outcome != nil {
		events = append(events, GameWon{Winner: outcome.Winner, Reason: outcome.Reason})
	}

	return events, nil
}

// Attack validates and applies an AttackAction: a board unit hits either
// the defending hero or a specific defending card, taking retaliation
// damage if it attacked another unit.
func (r *RuleEngine) Attack(state *GameState, action AttackAction) (*RuleResolution, error) {
	events, err := r.attack(state, action)
	if err != nil {
		return nil, err
	}
	resolution := NewRuleResolution(state, events)
	return &resolution, nil
}

func (r *RuleEngine) attack(state *GameState, action AttackAction) ([]GameEvent, *RuleError) {
	if state.IsFinished() {
		return nil, errGameFinished()
	}
	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}
	if err := ensureTurnOwner(state, action.AttackerOwner); err != nil {
		return nil, err
	}
	if err := ensureCombatPhase(state); err != nil {
		return nil, err
	}

	if state.PlayerIndex(action.DefenderOwner) < 0 {
		return nil, errInvalidTarget()
	}
	if action.DefenderOwner == action.AttackerOwner {
		return nil, errInvalidAttackTarget()
	}

	attackerIndex := state.PlayerIndex(action.AttackerOwner)
	if attackerIndex < 0 {
		return nil, errAttackerNotFound(action.AttackerId)
	}

	attackerPos := -1
	for i, card := range state.Players[attackerIndex].Board {
		if card.Id == action.AttackerId {
			attackerPos = i
			break
		}
	}
	if attackerPos < 0 {
		return nil, errAttackerNotFound(action.AttackerId)
	}

	attackerInfo := state.Players[attackerIndex].Board[attackerPos]
	if attackerInfo.CardType != CardTypeUnit {
		return nil, errCardTypeMismatch(CardTypeUnit, attackerInfo.CardType)
	}
	if attackerInfo.Exhausted {
		return nil, errUnitExhausted(attackerInfo.Id)
	}
	if attackerInfo.Attack <= 0 {
		return nil, errZeroAttackUnit(attackerInfo.Id)
	}

	var events []GameEvent
	attackCtx := NewEffectContext(TriggerOnAttack, action.AttackerOwner, state.CurrentPlayer).WithSourceCard(attackerInfo.Id)
	if action.DefenderCard != nil {
		attackCtx = attackCtx.WithTargetCard(action.DefenderOwner, *action.DefenderCard)
	} else {
		attackCtx = attackCtx.WithTargetPlayer(action.DefenderOwner)
	}
	r.effectEngine.QueueCardEffects(&attackerInfo, attackCtx)

	attackEvent := AttackDeclared{
		AttackerOwner: action.AttackerOwner,
		AttackerId:    action.AttackerId,
		DefenderOwner: action.DefenderOwner,
		DefenderId:    action.DefenderCard,
	}
	state.RecordEvent(attackEvent)
	events = append(events, attackEvent)

	attackerAttack := attackerInfo.Attack
	state.Players[attackerIndex].Board[attackerPos].Exhausted = true

	if action.DefenderCard != nil {
		defenderIndex := state.PlayerIndex(action.DefenderOwner)
		if defenderIndex < 0 {
			return nil, errInvalidTarget()
		}
		var defenderCard *Card
		for i := range state.Players[defenderIndex].Board {
			if state.Players[defenderIndex].Board[i].Id == *action.DefenderCard {
				defenderCard = &state.Players[defenderIndex].Board[i]
				break
			}
		}
		if defenderCard == nil {
			return nil, errInvalidTarget()
		}
		defenderSnapshot := *defenderCard

		dmgEvents := state.DamageCard(action.AttackerOwner, &attackerInfo.Id, action.DefenderOwner, *action.DefenderCard, attackerAttack)
		for _, event := range dmgEvents {
			state.RecordEvent(event)
		}
		events = append(events, dmgEvents...)

		if defenderSnapshot.CardType == CardTypeUnit && defenderSnapshot.Attack > 0 {
			retaliateEvents := state.DamageCard(action.DefenderOwner, &defenderSnapshot.Id, action.AttackerOwner, action.AttackerId, defenderSnapshot.Attack)
			for _, event := range retaliateEvents {
				state.RecordEvent(event)
			}
			events = append(events, retaliateEvents...)
		}
	} else {
		if event, ok := state.DamagePlayer(action.AttackerOwner, &action.AttackerId, action.DefenderOwner, attackerAttack); ok {
			state.RecordEvent(event)
			events = append(events, event)
		}
	}

	events = append(events, r.effectEngine.ResolveAll(state)...)

	if outcome := state.EvaluateVictory(); outcome != nil {
		events = append(events, GameWon{Winner: outcome.Winner, Reason: outcome.Reason})
	}

	return events, nil
}

// ResolvePendingDiscard confirms or swaps a PendingDiscard created by an
// earlier draw. If discard_card_id names the pending draw itself, the
// drawn card is discarded and never enters the hand; otherwise the named
// hand card is discarded and the pending draw takes its place. On failure
// to find the named hand card, the pending discard is restored so the
// caller can retry with a different id.
func (r *RuleEngine) ResolvePendingDiscard(state *GameState, action DiscardCardAction) (*RuleResolution, error) {
	events, err := r.resolvePendingDiscard(state, action)
	if err != nil {
		return nil, err
	}
	resolution := NewRuleResolution(state, events)
	return &resolution, nil
}

func (r *RuleEngine) resolvePendingDiscard(state *GameState, action DiscardCardAction) ([]GameEvent, *RuleError) {
	if state.IsFinished() {
		return nil, errGameFinished()
	}
	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}

	playerIndex := state.PlayerIndex(action.PlayerId)
	if playerIndex < 0 {
		return nil, errPlayerNotFound(action.PlayerId)
	}

	pending, ok := state.takePendingDiscard(action.PlayerId, action.PendingId)
	if !ok {
		return nil, errPendingDiscardNotFound(action.PlayerId, action.PendingId)
	}

	var events []GameEvent

	if action.DiscardCardId == pending.DrawnCard.Id {
		discardEvent := CardDiscarded{PlayerId: action.PlayerId, Card: pending.DrawnCard}
		state.RecordEvent(discardEvent)
		events = append(events, discardEvent)
		return events, nil
	}

	player := &state.Players[playerIndex]
	if pos := player.FindCardInHandIndex(action.DiscardCardId); pos >= 0 {
		discarded := player.Hand[pos]
		player.Hand = append(player.Hand[:pos], player.Hand[pos+1:]...)
		discardEvent := CardDiscarded{PlayerId: action.PlayerId, Card: discarded}
		state.RecordEvent(discardEvent)
		events = append(events, discardEvent)

		player.Hand = append(player.Hand, pending.DrawnCard)
		drawEvent := CardDrawn{PlayerId: action.PlayerId, CardId: pending.DrawnCard.Id}
		state.RecordEvent(drawEvent)
		events = append(events, drawEvent)

		return events, nil
	}

	state.restorePendingDiscard(pending)
	return nil, errCardNotFound(action.DiscardCardId)
}

// Mulligan replaces action.Replacements (deduplicated) with fresh draws,
// bottoming the replaced cards into the deck, and marks player_id done
// with mulligan.
func (r *RuleEngine) Mulligan(state *GameState, action MulliganAction) (*RuleResolution, error) {
	events, err := r.mulligan(state, action)
	if err != nil {
		return nil, err
	}
	resolution := NewRuleResolution(state, events)
	return &resolution, nil
}

func (r *RuleEngine) mulligan(state *GameState, action MulliganAction) ([]GameEvent, *RuleError) {
	if state.IsFinished() {
		return nil, errGameFinished()
	}
	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}
	if err := ensureMulliganPhase(state); err != nil {
		return nil, err
	}

	playerIndex := state.PlayerIndex(action.PlayerId)
	if playerIndex < 0 {
		return nil, errPlayerNotFound(action.PlayerId)
	}
	if state.HasMulliganCompleted(action.PlayerId) {
		return nil, errMulliganAlreadyCompleted(action.PlayerId)
	}

	uniqueReplacements := uniqueSortedCardIds(action.Replacements)

	var replacedIds []CardId
	player := &state.Players[playerIndex]
	for _, cardId := range uniqueReplacements {
		pos := player.FindCardInHandIndex(cardId)
		if pos < 0 {
			return nil, errCardNotFound(cardId)
		}
		card := player.Hand[pos]
		player.Hand = append(player.Hand[:pos], player.Hand[pos+1:]...)
		player.Deck = append([]Card{card}, player.Deck...)
		replacedIds = append(replacedIds, cardId)
	}

	var events []GameEvent
	for range replacedIds {
		if event, ok := state.DrawCard(action.PlayerId); ok {
			state.RecordEvent(event)
			events = append(events, event)
		}
	}

	mulliganEvent := MulliganApplied{PlayerId: action.PlayerId, Replaced: replacedIds}
	state.MarkMulliganCompleted(action.PlayerId)
	state.RecordEvent(mulliganEvent)
	events = append(events, mulliganEvent)

	if state.AllMulligansCompleted() && state.Turn == 0 {
		state.Turn = 1
	}

	return events, nil
}

func uniqueSortedCardIds(ids []CardId) []CardId {
	seen := make(map[CardId]struct{}, len(ids))
	out := make([]CardId, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// StartTurn makes player_id the current player, resolves their
// OnTurnStart effects, and readies them.
func (r *RuleEngine) StartTurn(state *GameState, playerId PlayerId) (*RuleResolution, error) {
	events, err := r.startTurn(state, playerId)
	if err != nil {
		return nil, err
	}
	resolution := NewRuleResolution(state, events)
	return &resolution, nil
}

func (r *RuleEngine) startTurn(state *GameState, playerId PlayerId) ([]GameEvent, *RuleError) {
	if state.IsFinished() {
		return nil, errGameFinished()
	}
	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}
	if state.PlayerIndex(playerId) < 0 {
		return nil, errPlayerNotFound(playerId)
	}

	return r.processTurnStart(state, playerId)
}

// EndTurn resolves the current player's OnTurnEnd effects, hands the turn
// to the opponent, and processes their turn start. Unlike its Rust
// ancestor, it transitions turn/phase without readying the incoming
// player a second time: GameState.EndTurn only moves the turn marker, and
// processTurnStart is the sole place that calls ReadyPlayer.
func (r *RuleEngine) EndTurn(state *GameState) (*RuleResolution, error) {
	events, err := r.endTurn(state)
	if err != nil {
		return nil, err
	}
	resolution := NewRuleResolution(state, events)
	return &resolution, nil
}

func (r *RuleEngine) endTurn(state *GameState) ([]GameEvent, *RuleError) {
	if state.IsFinished() {
		return nil, errGameFinished()
	}
	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}

	current := state.CurrentPlayer
	var events []GameEvent

	if index := state.PlayerIndex(current); index >= 0 {
		boardSnapshot := append([]Card(nil), state.Players[index].Board...)
		for i := range boardSnapshot {
			card := boardSnapshot[i]
			ctx := NewEffectContext(TriggerOnTurnEnd, current, state.CurrentPlayer).WithSourceCard(card.Id)
			r.effectEngine.QueueCardEffects(&card, ctx)
		}
	}

	events = append(events, r.effectEngine.ResolveAll(state)...)

	endEvent := TurnEnded{PlayerId: current}
	state.RecordEvent(endEvent)
	events = append(events, endEvent)

	if outcome := state.EvaluateVictory(); outcome != nil {
		events = append(events, GameWon{Winner: outcome.Winner, Reason: outcome.Reason})
		return events, nil
	}

	nextPlayer, hasNext := state.opponentOf(current)
	state.EndTurn()

	if state.IsFinished() {
		return events, nil
	}

	if hasNext && state.PlayerIndex(nextPlayer) >= 0 {
		startEvents, err := r.processTurnStart(state, nextPlayer)
		if err != nil {
			return events, err
		}
		events = append(events, startEvents...)
	}

	return events, nil
}

// CheckVictory re-evaluates (and returns) the match outcome without
// otherwise mutating state.
func CheckVictory(state *GameState) *VictoryState {
	return state.EvaluateVictory()
}

// AdvancePhase moves state to the next phase in the Mulligan → Main →
// Combat → End → Main cycle.
func (r *RuleEngine) AdvancePhase(state *GameState) (*RuleResolution, error) {
	if state.IsFinished() {
		return nil, errGameFinished()
	}
	if err := ensureIntegrity(state); err != nil {
		return nil, err
	}
	state.AdvancePhase()
	resolution := NewRuleResolution(state, nil)
	return &resolution, nil
}
