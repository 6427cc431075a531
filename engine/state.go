package engine

// GameState is the complete state of one match: both players' zones, whose
// turn it is, the current phase, and the append-only event log. It is
// plain data — every mutation goes through a method here or through
// RuleEngine, never through a goroutine-shared reference.
type GameState struct {
	Players           []Player
	CurrentPlayer     PlayerId
	Turn              uint32
	Phase             GamePhase
	MaxHandSize       uint8
	MaxBoardSize      uint8
	MulliganCompleted []PlayerId
	EventLog          []GameEvent
	Outcome           *VictoryState
	PendingDiscards   []PendingDiscard
	nextPendingId     uint64
}

// NewGameState builds a fresh match in the mulligan phase with turn 1.
func NewGameState(players []Player, currentPlayer PlayerId) *GameState {
	return &GameState{
		Players:       players,
		CurrentPlayer: currentPlayer,
		Turn:          1,
		Phase:         PhaseMulligan,
		MaxHandSize:   DefaultMaxHandSize,
		MaxBoardSize:  DefaultMaxBoardSize,
	}
}

func (s *GameState) WithPhase(phase GamePhase) *GameState {
	s.Phase = phase
	return s
}

func (s *GameState) RecordEvent(event GameEvent) {
	s.EventLog = append(s.EventLog, event)
}

func (s *GameState) ResetForMulligan() {
	s.Phase = PhaseMulligan
	s.Turn = 0
	s.MulliganCompleted = nil
}

func (s *GameState) MarkMulliganCompleted(playerId PlayerId) {
	if !s.HasMulliganCompleted(playerId) {
		s.MulliganCompleted = append(s.MulliganCompleted, playerId)
	}
}

func (s *GameState) HasMulliganCompleted(playerId PlayerId) bool {
	for _, id := range s.MulliganCompleted {
		if id == playerId {
			return true
		}
	}
	return false
}

func (s *GameState) AllMulligansCompleted() bool {
	for _, player := range s.Players {
		if !s.HasMulliganCompleted(player.Id) {
			return false
		}
	}
	return true
}

func (s *GameState) GetPlayer(id PlayerId) *Player {
	for i := range s.Players {
		if s.Players[i].Id == id {
			return &s.Players[i]
		}
	}
	return nil
}

func (s *GameState) PlayerIndex(id PlayerId) int {
	for i := range s.Players {
		if s.Players[i].Id == id {
			return i
		}
	}
	return -1
}

func (s *GameState) opponentOf(playerId PlayerId) (PlayerId, bool) {
	for _, player := range s.Players {
		if player.Id != playerId {
			return player.Id, true
		}
	}
	return 0, false
}

// OpponentOf returns the other seat's id, if any. Exported for the AI
// agent and the embedding layer, which both need it outside this package.
func (s *GameState) OpponentOf(playerId PlayerId) (PlayerId, bool) {
	return s.opponentOf(playerId)
}

func (s *GameState) IsFinished() bool {
	return s.Outcome != nil
}

// DamagePlayer applies amount to target's armor then health, in that
// order, and declares victory for the opponent if health drops to zero or
// below. amount <= 0 is a no-op (no event, nothing recorded).
func (s *GameState) DamagePlayer(sourcePlayer PlayerId, sourceCard *CardId, targetPlayer PlayerId, amount int16) (GameEvent, bool) {
	player := s.GetPlayer(targetPlayer)
	if player == nil || amount <= 0 {
		return nil, false
	}

	remaining := amount
	if player.Armor > 0 {
		absorbed := remaining
		if absorbed > int16(player.Armor) {
			absorbed = int16(player.Armor)
		}
		player.Armor -= uint8(absorbed)
		remaining -= absorbed
	}
	if remaining > 0 {
		player.Health -= remaining
	}

	event := DamageResolved{
		SourcePlayer: sourcePlayer,
		SourceCard:   sourceCard,
		TargetPlayer: targetPlayer,
		Amount:       amount,
	}

	if player.Health <= 0 {
		if winner, ok := s.opponentOf(targetPlayer); ok {
			s.DeclareVictory(winner, HealthDepletedReason(targetPlayer))
		}
	}

	return event, true
}

// DamageCard applies amount to a board card's health and, if it dies,
// removes it and emits a CardDestroyed event. amount <= 0 is a no-op.
func (s *GameState) DamageCard(sourcePlayer PlayerId, sourceCard *CardId, targetPlayer PlayerId, targetCard CardId, amount int16) []GameEvent {
	var events []GameEvent
	if amount <= 0 {
		return events
	}

	player := s.GetPlayer(targetPlayer)
	if player == nil {
		return events
	}
	pos := -1
	for i := range player.Board {
		if player.Board[i].Id == targetCard {
			pos = i
			break
		}
	}
	if pos < 0 {
		return events
	}

	player.Board[pos].Health -= amount
	targetCardCopy := targetCard
	events = append(events, DamageResolved{
		SourcePlayer: sourcePlayer,
		SourceCard:   sourceCard,
		TargetPlayer: targetPlayer,
		TargetCard:   &targetCardCopy,
		Amount:       amount,
	})

	if player.Board[pos].Health <= 0 {
		dead := player.Board[pos]
		player.Board = append(player.Board[:pos], player.Board[pos+1:]...)
		events = append(events, CardDestroyed{PlayerId: targetPlayer, Card: dead})
	}

	return events
}

func (s *GameState) HealPlayer(playerId PlayerId, amount int16) (GameEvent, bool) {
	if amount <= 0 {
		return nil, false
	}
	player := s.GetPlayer(playerId)
	if player == nil {
		return nil, false
	}
	player.Health = saturatingAddI16(player.Health, amount)
	return CardHealed{PlayerId: playerId, Amount: amount}, true
}

func (s *GameState) HealCard(playerId PlayerId, cardId CardId, amount int16) (GameEvent, bool) {
	if amount <= 0 {
		return nil, false
	}
	player := s.GetPlayer(playerId)
	if player == nil {
		return nil, false
	}
	card := player.FindCardOnBoard(cardId)
	if card == nil {
		return nil, false
	}
	card.Health = saturatingAddI16(card.Health, amount)
	idCopy := cardId
	return CardHealed{PlayerId: playerId, CardId: &idCopy, Amount: amount}, true
}

// DrawCard pops the top of player's deck into their hand, burning it
// instead if the hand is already full, or declaring victory for the
// opponent if the deck is empty. The deck's "top" is its slice tail, so a
// draw pops from the end; cards put on the bottom (mulligan replacements,
// PutCardOnBottomOfDeck) go to the front of the slice and are drawn last.
func (s *GameState) DrawCard(playerId PlayerId) (GameEvent, bool) {
	player := s.GetPlayer(playerId)
	if player == nil {
		return nil, false
	}
	if len(player.Deck) == 0 {
		if winner, ok := s.opponentOf(playerId); ok {
			s.DeclareVictory(winner, DeckOutReason(playerId))
		}
		return nil, false
	}

	last := len(player.Deck) - 1
	card := player.Deck[last]
	player.Deck = player.Deck[:last]

	if uint8(len(player.Hand)) >= s.MaxHandSize {
		return CardBurned{PlayerId: playerId, Card: card}, true
	}
	player.Hand = append(player.Hand, card)
	return CardDrawn{PlayerId: playerId, CardId: card.Id}, true
}

// DrawCardPending pops the top of player's deck into a new PendingDiscard
// instead of committing it straight to hand, letting a caller resolve it
// later via RuleEngine.ResolvePendingDiscard. An empty deck ends the match
// exactly like DrawCard.
func (s *GameState) DrawCardPending(playerId PlayerId) (PendingDiscard, bool) {
	player := s.GetPlayer(playerId)
	if player == nil {
		return PendingDiscard{}, false
	}
	if len(player.Deck) == 0 {
		if winner, ok := s.opponentOf(playerId); ok {
			s.DeclareVictory(winner, DeckOutReason(playerId))
		}
		return PendingDiscard{}, false
	}

	last := len(player.Deck) - 1
	card := player.Deck[last]
	player.Deck = player.Deck[:last]

	s.nextPendingId++
	pending := PendingDiscard{Id: s.nextPendingId, PlayerId: playerId, DrawnCard: card}
	s.PendingDiscards = append(s.PendingDiscards, pending)
	return pending, true
}

func (s *GameState) PutCardOnBottomOfDeck(playerId PlayerId, card Card) {
	player := s.GetPlayer(playerId)
	if player == nil {
		return
	}
	player.Deck = append([]Card{card}, player.Deck...)
}

// DrawInitialHand draws `cards` rounds, each round giving every player one
// card in player order, recording every resulting event.
func (s *GameState) DrawInitialHand(cards uint8) []GameEvent {
	var events []GameEvent
	if cards == 0 {
		return events
	}
	playerIds := make([]PlayerId, len(s.Players))
	for i, player := range s.Players {
		playerIds[i] = player.Id
	}
	for i := uint8(0); i < cards; i++ {
		for _, playerId := range playerIds {
			if event, ok := s.DrawCard(playerId); ok {
				s.RecordEvent(event)
				events = append(events, event)
			}
		}
	}
	return events
}

// ReadyPlayer refreshes a player's board, advances mana (capped at 10),
// and draws one card if their deck isn't empty. This is the ONLY path
// that readies a player — RuleEngine.EndTurn hands off to StartTurn's
// internal turn-start processing instead of calling this a second time,
// so a turn transition never double-readies the incoming player.
func (s *GameState) ReadyPlayer(playerId PlayerId) {
	player := s.GetPlayer(playerId)
	if player == nil {
		return
	}
	player.ReadyBoard()
	player.Mana = minUint8(player.Mana+1, 10)
	if len(player.Deck) > 0 {
		if event, ok := s.DrawCard(playerId); ok {
			s.RecordEvent(event)
		}
	}
}

// EndTurn transitions the turn counter, active player, and phase to the
// next player's Main phase. Unlike its Rust ancestor, it does
// NOT ready the incoming player itself — RuleEngine.EndTurn hands that off
// to the same turn-start processing StartTurn uses, so a player is only
// ever readied once per turn transition.
func (s *GameState) EndTurn() {
	if next, ok := s.opponentOf(s.CurrentPlayer); ok {
		s.CurrentPlayer = next
		s.Turn++
		s.Phase = PhaseMain
	}
}

func (s *GameState) AdvancePhase() {
	switch s.Phase {
	case PhaseMulligan:
		s.Phase = PhaseMain
	case PhaseMain:
		s.Phase = PhaseCombat
	case PhaseCombat:
		s.Phase = PhaseEnd
	case PhaseEnd:
		s.Phase = PhaseMain
	}
}

func (s *GameState) EvaluateVictory() *VictoryState {
	if s.Outcome != nil {
		return s.Outcome
	}

	var defeated []PlayerId
	for _, player := range s.Players {
		if player.Health <= 0 {
			defeated = append(defeated, player.Id)
		}
	}

	if len(defeated) == 1 {
		loser := defeated[0]
		if winner, ok := s.opponentOf(loser); ok {
			victory := s.DeclareVictory(winner, HealthDepletedReason(loser))
			return &victory
		}
	} else if len(defeated) > 1 {
		if len(s.Players) > 0 {
			victory := s.DeclareVictory(s.Players[0].Id, SpecialReason("Simultaneous defeat"))
			return &victory
		}
	}

	return s.Outcome
}

func (s *GameState) DeclareVictory(winner PlayerId, reason VictoryReason) VictoryState {
	victory := VictoryState{Winner: winner, Reason: reason}
	if s.Outcome == nil {
		s.RecordEvent(GameWon{Winner: victory.Winner, Reason: victory.Reason})
		s.Outcome = &victory
	}
	return victory
}

// takePendingDiscard removes and returns the pending discard matching
// playerId and pendingId, if any.
func (s *GameState) takePendingDiscard(playerId PlayerId, pendingId uint64) (PendingDiscard, bool) {
	for i, pending := range s.PendingDiscards {
		if pending.PlayerId == playerId && pending.Id == pendingId {
			s.PendingDiscards = append(s.PendingDiscards[:i], s.PendingDiscards[i+1:]...)
			return pending, true
		}
	}
	return PendingDiscard{}, false
}

func (s *GameState) restorePendingDiscard(pending PendingDiscard) {
	s.PendingDiscards = append(s.PendingDiscards, pending)
}

// IntegrityCheck validates the structural invariants a GameState must
// hold regardless of how it was produced: current_player names a real
// seat, no two cards anywhere in the match share an id, no player's
// health is below -99, and no player's mana is above 20.
func (s *GameState) IntegrityCheck() *IntegrityError {
	found := false
	for _, player := range s.Players {
		if player.Id == s.CurrentPlayer {
			found = true
			break
		}
	}
	if !found {
		return &IntegrityError{Kind: InvalidPlayerIndex, PlayerId: s.CurrentPlayer}
	}

	seen := make(map[CardId]struct{})
	for _, player := range s.Players {
		if player.Health < -99 {
			return &IntegrityError{Kind: NegativeHealth, PlayerId: player.Id, Value: int(player.Health)}
		}
		if player.Mana > 20 {
			return &IntegrityError{Kind: ManaOutOfRange, PlayerId: player.Id, Value: int(player.Mana)}
		}
		for _, zone := range [][]Card{player.Hand, player.Board, player.Deck} {
			for _, card := range zone {
				if _, dup := seen[card.Id]; dup {
					return &IntegrityError{Kind: DuplicateCardId, CardId: card.Id}
				}
				seen[card.Id] = struct{}{}
			}
		}
	}

	return nil
}

// Clone deep-copies the entire state so a live GameState and any number
// of AI-search simulations can mutate independently with no aliasing.
func (s *GameState) Clone() *GameState {
	clone := &GameState{
		CurrentPlayer: s.CurrentPlayer,
		Turn:          s.Turn,
		Phase:         s.Phase,
		MaxHandSize:   s.MaxHandSize,
		MaxBoardSize:  s.MaxBoardSize,
		nextPendingId: s.nextPendingId,
	}

	clone.Players = make([]Player, len(s.Players))
	for i, player := range s.Players {
		clone.Players[i] = Player{
			Id:     player.Id,
			Health: player.Health,
			Armor:  player.Armor,
			Mana:   player.Mana,
			Hand:   cloneCards(player.Hand),
			Board:  cloneCards(player.Board),
			Deck:   cloneCards(player.Deck),
		}
	}

	clone.MulliganCompleted = append([]PlayerId(nil), s.MulliganCompleted...)
	clone.EventLog = append([]GameEvent(nil), s.EventLog...)
	clone.PendingDiscards = append([]PendingDiscard(nil), s.PendingDiscards...)
	if s.Outcome != nil {
		outcome := *s.Outcome
		clone.Outcome = &outcome
	}

	return clone
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	for i, card := range cards {
		out[i] = card
		if card.Effects != nil {
			out[i].Effects = append([]CardEffect(nil), card.Effects...)
		}
	}
	return out
}

func saturatingAddI16(a, b int16) int16 {
	sum := int32(a) + int32(b)
	if sum > 32767 {
		return 32767
	}
	return int16(sum)
}

func minUint8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
