package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func playerId(id PlayerId) *PlayerId { return &id }
func cardId(id CardId) *CardId       { return &id }

func freshMatch() *GameState {
	p1 := NewPlayer(0, 30, 0, 5,
		[]Card{NewCard(1, "Spell", 2, 0, 0, CardTypeSpell, nil)},
		[]Card{NewCard(2, "Ready Unit", 3, 3, 3, CardTypeUnit, nil)},
		[]Card{NewCard(3, "Deck Card", 1, 1, 1, CardTypeUnit, nil)},
	)
	p1.Board[0].Exhausted = false

	p2 := NewPlayer(1, 30, 0, 5,
		nil,
		[]Card{NewCard(4, "Wall", 1, 2, 4, CardTypeUnit, nil)},
		[]Card{NewCard(5, "Deck Card", 1, 1, 1, CardTypeUnit, nil)},
	)

	return NewGameState([]Player{p1, p2}, 0).WithPhase(PhaseMain)
}

func TestPlayCardRejectsWrongTurn(t *testing.T) {
	state := freshMatch()
	engine := NewRuleEngine()

	_, err := engine.PlayCard(state, PlayCardAction{PlayerId: 1, CardId: 4})
	require.Error(t, err)
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, NotPlayerTurn, ruleErr.Kind)
}

func TestPlayCardRejectsWrongPhase(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseCombat
	engine := NewRuleEngine()

	_, err := engine.PlayCard(state, PlayCardAction{PlayerId: 0, CardId: 1})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, InvalidPhase, ruleErr.Kind)
}

func TestPlayCardRejectsInsufficientMana(t *testing.T) {
	state := freshMatch()
	state.GetPlayer(0).Mana = 1
	engine := NewRuleEngine()

	_, err := engine.PlayCard(state, PlayCardAction{PlayerId: 0, CardId: 1})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, InsufficientMana, ruleErr.Kind)
	require.Len(t, state.GetPlayer(0).Hand, 1, "a rejected play must not cost the card")
}

func TestPlayCardRejectsMissingRequiredTargetWithoutRemovingCard(t *testing.T) {
	state := freshMatch()
	fireball := NewCard(50, "Fireball", 2, 0, 0, CardTypeSpell, []CardEffect{
		DirectDamageEffect(900, "burn", TriggerOnPlay, 5, 6, TargetContext),
	})
	state.GetPlayer(0).Hand = append(state.GetPlayer(0).Hand, fireball)
	engine := NewRuleEngine()

	_, err := engine.PlayCard(state, PlayCardAction{PlayerId: 0, CardId: 50})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, InvalidTarget, ruleErr.Kind)
	require.Len(t, state.GetPlayer(0).Hand, 2, "rejecting for a missing target must not remove the card from hand")
}

func TestPlayCardUnitEntersBoardExhausted(t *testing.T) {
	state := freshMatch()
	unit := NewCard(60, "Recruit", 1, 1, 1, CardTypeUnit, nil)
	state.GetPlayer(0).Hand = append(state.GetPlayer(0).Hand, unit)
	engine := NewRuleEngine()

	resolution, err := engine.PlayCard(state, PlayCardAction{PlayerId: 0, CardId: 60})
	require.NoError(t, err)
	require.NotNil(t, resolution)

	played := state.GetPlayer(0).FindCardOnBoard(60)
	require.NotNil(t, played)
	require.True(t, played.Exhausted)
}

func TestPlayCardRejectsBoardFull(t *testing.T) {
	state := freshMatch()
	player := state.GetPlayer(0)
	player.Board = nil
	for i := 0; i < int(state.MaxBoardSize); i++ {
		player.Board = append(player.Board, NewCard(CardId(100+i), "Filler", 1, 1, 1, CardTypeUnit, nil))
	}
	unit := NewCard(60, "Recruit", 1, 1, 1, CardTypeUnit, nil)
	player.Hand = append(player.Hand, unit)
	engine := NewRuleEngine()

	_, err := engine.PlayCard(state, PlayCardAction{PlayerId: 0, CardId: 60})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, BoardFull, ruleErr.Kind)
}

func TestAttackHeroDealsDamage(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseCombat
	engine := NewRuleEngine()

	resolution, err := engine.Attack(state, AttackAction{AttackerOwner: 0, AttackerId: 2, DefenderOwner: 1})
	require.NoError(t, err)
	require.NotNil(t, resolution)
	require.Equal(t, int16(27), state.GetPlayer(1).Health)

	attacker := state.GetPlayer(0).FindCardOnBoard(2)
	require.True(t, attacker.Exhausted)
}

func TestAttackRejectsExhaustedUnit(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseCombat
	state.GetPlayer(0).Board[0].Exhausted = true
	engine := NewRuleEngine()

	_, err := engine.Attack(state, AttackAction{AttackerOwner: 0, AttackerId: 2, DefenderOwner: 1})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, UnitExhausted, ruleErr.Kind)
}

func TestAttackRejectsOwnSide(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseCombat
	engine := NewRuleEngine()

	_, err := engine.Attack(state, AttackAction{AttackerOwner: 0, AttackerId: 2, DefenderOwner: 0})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, InvalidAttackTarget, ruleErr.Kind)
}

func TestAttackCardTradesBothWays(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseCombat
	engine := NewRuleEngine()

	resolution, err := engine.Attack(state, AttackAction{
		AttackerOwner: 0, AttackerId: 2,
		DefenderOwner: 1, DefenderCard: cardId(4),
	})
	require.NoError(t, err)
	require.NotNil(t, resolution)

	defender := state.GetPlayer(1).FindCardOnBoard(4)
	require.NotNil(t, defender)
	require.Equal(t, int16(1), defender.Health, "4hp wall takes 3 from the attacker")

	attacker := state.GetPlayer(0).FindCardOnBoard(2)
	require.NotNil(t, attacker)
	require.Equal(t, int16(1), attacker.Health, "3hp attacker takes 2 retaliation from the wall")
}

func TestMulliganReplacesAndBottomsCards(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseMulligan
	engine := NewRuleEngine()

	_, err := engine.Mulligan(state, MulliganAction{PlayerId: 0, Replacements: []CardId{1}})
	require.NoError(t, err)

	player := state.GetPlayer(0)
	require.Equal(t, -1, player.FindCardInHandIndex(1), "replaced card must leave the hand")
	require.True(t, state.HasMulliganCompleted(0))
}

func TestMulliganRejectsSecondAttempt(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseMulligan
	engine := NewRuleEngine()

	_, err := engine.Mulligan(state, MulliganAction{PlayerId: 0})
	require.NoError(t, err)

	_, err = engine.Mulligan(state, MulliganAction{PlayerId: 0})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, MulliganAlreadyCompleted, ruleErr.Kind)
}

func TestMulliganAllCompletedStartsTurnOne(t *testing.T) {
	state := freshMatch()
	state.ResetForMulligan()
	engine := NewRuleEngine()

	_, err := engine.Mulligan(state, MulliganAction{PlayerId: 0})
	require.NoError(t, err)
	require.Equal(t, uint32(0), state.Turn)

	_, err = engine.Mulligan(state, MulliganAction{PlayerId: 1})
	require.NoError(t, err)
	require.Equal(t, uint32(1), state.Turn)
}

func TestResolvePendingDiscardConfirmsDrawnCard(t *testing.T) {
	state := freshMatch()
	drawn := NewCard(77, "Pending", 1, 1, 1, CardTypeUnit, nil)
	state.GetPlayer(0).Deck = append(state.GetPlayer(0).Deck, drawn)
	pending, ok := state.DrawCardPending(0)
	require.True(t, ok)

	engine := NewRuleEngine()
	resolution, err := engine.ResolvePendingDiscard(state, DiscardCardAction{
		PlayerId: 0, PendingId: pending.Id, DiscardCardId: drawn.Id,
	})
	require.NoError(t, err)
	require.NotNil(t, resolution)
	require.Equal(t, -1, state.GetPlayer(0).FindCardInHandIndex(drawn.Id))
}

func TestResolvePendingDiscardSwapsHandCard(t *testing.T) {
	state := freshMatch()
	drawn := NewCard(77, "Pending", 1, 1, 1, CardTypeUnit, nil)
	state.GetPlayer(0).Deck = append(state.GetPlayer(0).Deck, drawn)
	pending, ok := state.DrawCardPending(0)
	require.True(t, ok)

	keptInHand := state.GetPlayer(0).Hand[0].Id
	engine := NewRuleEngine()
	_, err := engine.ResolvePendingDiscard(state, DiscardCardAction{
		PlayerId: 0, PendingId: pending.Id, DiscardCardId: keptInHand,
	})
	require.NoError(t, err)

	player := state.GetPlayer(0)
	require.Equal(t, -1, player.FindCardInHandIndex(keptInHand))
	require.NotEqual(t, -1, player.FindCardInHandIndex(drawn.Id))
}

func TestResolvePendingDiscardRestoresOnFailure(t *testing.T) {
	state := freshMatch()
	drawn := NewCard(77, "Pending", 1, 1, 1, CardTypeUnit, nil)
	state.GetPlayer(0).Deck = append(state.GetPlayer(0).Deck, drawn)
	pending, ok := state.DrawCardPending(0)
	require.True(t, ok)

	engine := NewRuleEngine()
	_, err := engine.ResolvePendingDiscard(state, DiscardCardAction{
		PlayerId: 0, PendingId: pending.Id, DiscardCardId: 9999,
	})
	require.Error(t, err)
	require.Len(t, state.PendingDiscards, 1, "a failed resolution restores the pending discard")
}

func TestEndTurnReadiesIncomingPlayerExactlyOnce(t *testing.T) {
	state := freshMatch()
	state.GetPlayer(1).Board[0].Exhausted = true
	engine := NewRuleEngine()

	resolution, err := engine.EndTurn(state)
	require.NoError(t, err)
	require.NotNil(t, resolution)
	require.Equal(t, PlayerId(1), state.CurrentPlayer)
	require.Equal(t, PhaseMain, state.Phase)
	require.False(t, state.GetPlayer(1).Board[0].Exhausted)

	drawCount := 0
	for _, event := range state.EventLog {
		if _, ok := event.(CardDrawn); ok {
			drawCount++
		}
	}
	require.Equal(t, 1, drawCount, "the incoming player should only be readied (and draw) once")
}

func TestAdvancePhaseRejectsFinishedGame(t *testing.T) {
	state := freshMatch()
	state.DeclareVictory(0, HealthDepletedReason(1))
	engine := NewRuleEngine()

	_, err := engine.AdvancePhase(state)
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	require.Equal(t, GameFinished, ruleErr.Kind)
}

func TestRuleResolutionIncludesGameWonOnLethalAttack(t *testing.T) {
	state := freshMatch()
	state.Phase = PhaseCombat
	state.GetPlayer(1).Health = 3
	engine := NewRuleEngine()

	resolution, err := engine.Attack(state, AttackAction{AttackerOwner: 0, AttackerId: 2, DefenderOwner: 1})
	require.NoError(t, err)
	require.NotNil(t, resolution.Victory)
	require.Equal(t, PlayerId(0), resolution.Victory.Winner)

	found := false
	for _, event := range resolution.Events {
		if _, ok := event.(GameWon); ok {
			found = true
		}
	}
	require.True(t, found)
}

// Sample-backed end-to-end scenarios.

func TestScenarioFireballNeedsTargetAndDealsDamage(t *testing.T) {
	state := Sample()
	engine := NewRuleEngine()

	resolution, err := engine.PlayCard(state, PlayCardAction{
		PlayerId: 0, CardId: 1, TargetPlayer: playerId(1),
	})
	require.NoError(t, err)
	require.Equal(t, int16(24), state.GetPlayer(1).Health)
	require.NotNil(t, resolution)
}

func TestScenarioArcaneScholarAlreadyDrewOnPlay(t *testing.T) {
	state := Sample()
	require.Equal(t, 1, len(state.GetPlayer(0).Deck), "sample's pre-resolved scholar draw should have consumed one deck card")
}

func TestScenarioShadowbladeBonusDamageOnAttack(t *testing.T) {
	state := Sample()
	player := state.GetPlayer(1)
	shadowblade, ok := player.RemoveCardFromHand(7)
	require.True(t, ok)
	shadowblade.Exhausted = false
	player.Board = append(player.Board, shadowblade)

	state.Phase = PhaseCombat
	state.CurrentPlayer = 1
	engine := NewRuleEngine()

	before := state.GetPlayer(0).Health
	resolution, err := engine.Attack(state, AttackAction{AttackerOwner: 1, AttackerId: 7, DefenderOwner: 0})
	require.NoError(t, err)
	require.NotNil(t, resolution)

	// 4 attack plus the bonus 2 from Shadow Lunge.
	require.Equal(t, before-6, state.GetPlayer(0).Health)
}

func TestScenarioBulwarkHealsOnTurnStart(t *testing.T) {
	state := Sample()
	state.GetPlayer(1).Health = 20
	engine := NewRuleEngine()

	resolution, err := engine.StartTurn(state, 1)
	require.NoError(t, err)
	require.NotNil(t, resolution)
	require.Equal(t, int16(22), state.GetPlayer(1).Health)
}

func TestScenarioGuardianGolemHealsOnDeath(t *testing.T) {
	state := Sample()
	player := state.GetPlayer(0)
	golemIdx := -1
	for i, card := range player.Deck {
		if card.Id == 4 {
			golemIdx = i
		}
	}
	require.GreaterOrEqual(t, golemIdx, 0)
	golemCard := player.Deck[golemIdx]
	player.Deck = append(player.Deck[:golemIdx], player.Deck[golemIdx+1:]...)
	golemCard.Exhausted = false
	player.Board = append(player.Board, golemCard)

	state.GetPlayer(0).Health = 10
	golem := state.GetPlayer(0).FindCardOnBoard(4)
	require.NotNil(t, golem)

	events := state.DamageCard(1, nil, 0, 4, golem.Health)
	for _, event := range events {
		state.RecordEvent(event)
	}
	var engineRef EffectEngine
	for _, event := range events {
		if destroyed, ok := event.(CardDestroyed); ok {
			ctx := NewEffectContext(TriggerOnDeath, destroyed.PlayerId, state.CurrentPlayer).WithSourceCard(destroyed.Card.Id)
			engineRef.QueueCardEffects(&destroyed.Card, ctx)
		}
	}
	engineRef.ResolveAll(state)

	require.Equal(t, int16(13), state.GetPlayer(0).Health)
}

func TestScenarioOracleOfForesightCreatesPendingDiscard(t *testing.T) {
	state := Sample()
	engine := NewRuleEngine()
	state.CurrentPlayer = 1
	state.GetPlayer(1).Mana = 5

	resolution, err := engine.PlayCard(state, PlayCardAction{PlayerId: 1, CardId: 9})
	require.NoError(t, err)
	require.NotNil(t, resolution)
	require.Len(t, state.PendingDiscards, 1)
	require.Equal(t, PlayerId(1), state.PendingDiscards[0].PlayerId)
}
