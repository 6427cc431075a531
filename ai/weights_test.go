package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/kestrelforge/duelcore/engine"
)

func TestWeightsForFixedStrategies(t *testing.T) {
	require.Equal(t, strategyWeights{hero: 3.0, board: 1.2, hand: 0.6, mana: 0.4, combo: 0.4}, weightsFor(StrategyAggressive, 0, 0))
	require.Equal(t, strategyWeights{hero: 1.2, board: 2.4, hand: 1.6, mana: 0.8, combo: 0.5}, weightsFor(StrategyControl, 0, 0))
	require.Equal(t, strategyWeights{hero: 1.0, board: 1.4, hand: 1.8, mana: 0.9, combo: 2.6}, weightsFor(StrategyCombo, 0, 0))
}

func TestAdaptiveWeightsLeanIntoDeficit(t *testing.T) {
	behindOnBoth := weightsFor(StrategyAdaptive, -5, -5)
	require.Equal(t, 2.6, behindOnBoth.hero)
	require.Equal(t, 2.8, behindOnBoth.board)

	aheadOnBoth := weightsFor(StrategyAdaptive, 5, 5)
	require.Equal(t, 1.4, aheadOnBoth.hero)
	require.Equal(t, 1.6, aheadOnBoth.board)
}

func TestBoardValueSumsAttackAndHealth(t *testing.T) {
	cards := []engine.Card{
		engine.NewCard(1, "A", 1, 3, 2, engine.CardTypeUnit, nil),
		engine.NewCard(2, "B", 1, -1, -1, engine.CardTypeUnit, nil),
	}
	// A: 3*1.6 + 2 = 6.8. B has negative attack/health clamped to 0.
	require.InDelta(t, 6.8, boardValue(cards), 1e-9)
}

func TestComboPotentialFavorsSpellsAndEffects(t *testing.T) {
	spell := engine.NewCard(1, "Spell", 1, 0, 0, engine.CardTypeSpell, []engine.CardEffect{
		engine.HealEffect(1, "x", engine.TriggerOnPlay, 1, 1, engine.TargetSource),
	})
	unit := engine.NewCard(2, "Unit", 1, 1, 1, engine.CardTypeUnit, nil)

	require.Greater(t, comboPotential([]engine.Card{spell}), comboPotential([]engine.Card{unit}))
}

func twoPlayerBaseState() *engine.GameState {
	p1 := engine.NewPlayer(0, 30, 0, 5, nil, nil, nil)
	p2 := engine.NewPlayer(1, 30, 0, 5, nil, nil, nil)
	return engine.NewGameState([]engine.Player{p1, p2}, 0)
}

func TestAggressiveScoreRewardsHeroDamageAndBoard(t *testing.T) {
	base := twoPlayerBaseState()
	after := base.Clone()
	after.GetPlayer(1).Health = 20
	after.GetPlayer(0).Board = append(after.GetPlayer(0).Board, engine.NewCard(9, "Unit", 1, 2, 2, engine.CardTypeUnit, nil))

	score := aggressiveScore(base, transition{state: after}, 0)
	// 10 damage + (2*1.6 + 2) board value.
	require.InDelta(t, 10+5.2, score, 1e-9)
}

func TestControlScoreRewardsNetBoardGrowth(t *testing.T) {
	base := twoPlayerBaseState()
	after := base.Clone()
	after.GetPlayer(0).Board = append(after.GetPlayer(0).Board, engine.NewCard(9, "Unit", 1, 2, 2, engine.CardTypeUnit, nil))
	after.GetPlayer(1).Board = append(after.GetPlayer(1).Board, engine.NewCard(10, "Enemy", 1, 1, 1, engine.CardTypeUnit, nil))

	score := controlScore(base, transition{state: after}, 0)
	require.InDelta(t, 5.2-2.6, score, 1e-9)
}

func TestComboScoreRewardsSpendingHandIntoBoard(t *testing.T) {
	base := twoPlayerBaseState()
	base.GetPlayer(0).Hand = []engine.Card{
		engine.NewCard(1, "Spell", 1, 0, 0, engine.CardTypeSpell, []engine.CardEffect{
			engine.HealEffect(1, "x", engine.TriggerOnPlay, 1, 1, engine.TargetSource),
		}),
	}
	after := base.Clone()
	after.GetPlayer(0).Hand = nil
	after.GetPlayer(0).Board = []engine.Card{
		engine.NewCard(1, "Spell", 1, 0, 0, engine.CardTypeSpell, []engine.CardEffect{
			engine.HealEffect(1, "x", engine.TriggerOnPlay, 1, 1, engine.TargetSource),
		}),
	}

	score := comboScore(base, transition{state: after}, 0)
	require.Greater(t, score, 0.0)
}
