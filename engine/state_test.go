package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoPlayerState() *GameState {
	p1 := NewPlayer(0, 30, 0, 5, nil, nil, []Card{NewCard(10, "Filler", 1, 1, 1, CardTypeUnit, nil)})
	p2 := NewPlayer(1, 30, 0, 5, nil, nil, []Card{NewCard(11, "Filler", 1, 1, 1, CardTypeUnit, nil)})
	return NewGameState([]Player{p1, p2}, 0)
}

func TestDamagePlayerAbsorbsArmorFirst(t *testing.T) {
	state := twoPlayerState()
	state.GetPlayer(1).Armor = 3

	event, ok := state.DamagePlayer(0, nil, 1, 5)
	require.True(t, ok)
	require.Equal(t, DamageResolved{SourcePlayer: 0, TargetPlayer: 1, Amount: 5}, event)

	target := state.GetPlayer(1)
	require.Equal(t, uint8(0), target.Armor)
	require.Equal(t, int16(28), target.Health)
}

func TestDamagePlayerZeroOrNegativeIsNoOp(t *testing.T) {
	state := twoPlayerState()
	_, ok := state.DamagePlayer(0, nil, 1, 0)
	require.False(t, ok)
	_, ok = state.DamagePlayer(0, nil, 1, -4)
	require.False(t, ok)
	require.Equal(t, int16(30), state.GetPlayer(1).Health)
}

func TestDamagePlayerLethalDeclaresVictory(t *testing.T) {
	state := twoPlayerState()
	_, ok := state.DamagePlayer(0, nil, 1, 40)
	require.True(t, ok)
	require.True(t, state.IsFinished())
	require.Equal(t, PlayerId(0), state.Outcome.Winner)
	require.Equal(t, VictoryHealthDepleted, state.Outcome.Reason.Tag)
}

func TestDrawCardBurnsWhenHandFull(t *testing.T) {
	state := twoPlayerState()
	player := state.GetPlayer(0)
	player.Deck = []Card{NewCard(20, "Spare", 1, 1, 1, CardTypeUnit, nil)}
	player.Hand = make([]Card, state.MaxHandSize)

	event, ok := state.DrawCard(0)
	require.True(t, ok)
	_, burned := event.(CardBurned)
	require.True(t, burned)
	require.Len(t, state.GetPlayer(0).Hand, int(state.MaxHandSize))
}

func TestDrawCardEmptyDeckEndsMatch(t *testing.T) {
	state := twoPlayerState()
	state.GetPlayer(0).Deck = nil

	_, ok := state.DrawCard(0)
	require.False(t, ok)
	require.True(t, state.IsFinished())
	require.Equal(t, PlayerId(1), state.Outcome.Winner)
	require.Equal(t, VictoryDeckOut, state.Outcome.Reason.Tag)
}

func TestDrawCardPendingCreatesPendingDiscard(t *testing.T) {
	state := twoPlayerState()
	card := NewCard(99, "Drawn", 2, 2, 2, CardTypeUnit, nil)
	state.GetPlayer(0).Deck = []Card{card}

	pending, ok := state.DrawCardPending(0)
	require.True(t, ok)
	require.Equal(t, card.Id, pending.DrawnCard.Id)
	require.Equal(t, PlayerId(0), pending.PlayerId)
	require.Empty(t, state.GetPlayer(0).Hand)
	require.Len(t, state.PendingDiscards, 1)
	require.Equal(t, pending.Id, state.PendingDiscards[0].Id)
}

func TestDrawCardPendingEmptyDeckEndsMatch(t *testing.T) {
	state := twoPlayerState()
	state.GetPlayer(0).Deck = nil

	_, ok := state.DrawCardPending(0)
	require.False(t, ok)
	require.True(t, state.IsFinished())
}

func TestTakeAndRestorePendingDiscard(t *testing.T) {
	state := twoPlayerState()
	state.GetPlayer(0).Deck = []Card{NewCard(40, "Drawn", 1, 1, 1, CardTypeUnit, nil)}
	pending, _ := state.DrawCardPending(0)

	_, missing := state.takePendingDiscard(0, pending.Id+1)
	require.False(t, missing)

	taken, ok := state.takePendingDiscard(0, pending.Id)
	require.True(t, ok)
	require.Empty(t, state.PendingDiscards)

	state.restorePendingDiscard(taken)
	require.Len(t, state.PendingDiscards, 1)
}

func TestIntegrityCheckCatchesDuplicateCardId(t *testing.T) {
	state := twoPlayerState()
	state.GetPlayer(1).Hand = append(state.GetPlayer(1).Hand, NewCard(10, "Clash", 1, 1, 1, CardTypeUnit, nil))

	err := state.IntegrityCheck()
	require.NotNil(t, err)
	require.Equal(t, DuplicateCardId, err.Kind)
}

func TestIntegrityCheckCatchesInvalidCurrentPlayer(t *testing.T) {
	state := twoPlayerState()
	state.CurrentPlayer = 9

	err := state.IntegrityCheck()
	require.NotNil(t, err)
	require.Equal(t, InvalidPlayerIndex, err.Kind)
}

func TestCloneIsIndependent(t *testing.T) {
	state := Sample()
	clone := state.Clone()

	clone.GetPlayer(0).Health = 1
	clone.GetPlayer(0).Hand = append(clone.GetPlayer(0).Hand, NewCard(999, "New", 1, 1, 1, CardTypeUnit, nil))

	require.NotEqual(t, clone.GetPlayer(0).Health, state.GetPlayer(0).Health)
	require.NotEqual(t, len(clone.GetPlayer(0).Hand), len(state.GetPlayer(0).Hand))
}

func TestAdvancePhaseCycles(t *testing.T) {
	state := twoPlayerState()
	state.Phase = PhaseMulligan

	state.AdvancePhase()
	require.Equal(t, PhaseMain, state.Phase)
	state.AdvancePhase()
	require.Equal(t, PhaseCombat, state.Phase)
	state.AdvancePhase()
	require.Equal(t, PhaseEnd, state.Phase)
	state.AdvancePhase()
	require.Equal(t, PhaseMain, state.Phase)
}
