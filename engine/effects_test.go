package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectStackResolvesHighestPriorityFirst(t *testing.T) {
	state := NewGameState([]Player{
		NewPlayer(0, 30, 0, 5, nil, nil, nil),
		NewPlayer(1, 30, 0, 5, nil, nil, nil),
	}, 0)

	var engine EffectEngine
	low := NewCardEffect(1, "low", TriggerOnPlay, 1, EffectKind{Tag: EffectHeal, Amount: 1, Target: TargetSource})
	high := NewCardEffect(2, "high", TriggerOnPlay, 9, EffectKind{Tag: EffectHeal, Amount: 2, Target: TargetSource})
	ctx := NewEffectContext(TriggerOnPlay, 0, 0)

	engine.QueueEffect(low, ctx)
	engine.QueueEffect(high, ctx)
	engine.ResolveAll(state)

	require.Len(t, state.EventLog, 2)
	firstHeal, ok := state.EventLog[0].(CardHealed)
	require.True(t, ok)
	require.Equal(t, int16(2), firstHeal.Amount, "the higher-priority heal should resolve first")
}

func TestEffectStackBreaksTiesByInsertionOrder(t *testing.T) {
	state := NewGameState([]Player{NewPlayer(0, 30, 0, 5, nil, nil, nil)}, 0)

	var engine EffectEngine
	first := NewCardEffect(1, "first", TriggerOnPlay, 5, EffectKind{Tag: EffectHeal, Amount: 1, Target: TargetSource})
	second := NewCardEffect(2, "second", TriggerOnPlay, 5, EffectKind{Tag: EffectHeal, Amount: 2, Target: TargetSource})
	ctx := NewEffectContext(TriggerOnPlay, 0, 0)

	engine.QueueEffect(first, ctx)
	engine.QueueEffect(second, ctx)
	engine.ResolveAll(state)

	firstHeal := state.EventLog[0].(CardHealed)
	require.Equal(t, int16(1), firstHeal.Amount)
}

func TestEffectEngineQueuesDeathCascade(t *testing.T) {
	state := NewGameState([]Player{
		NewPlayer(0, 30, 0, 5, nil, []Card{NewCard(1, "Victim", 1, 1, 1, CardTypeUnit, []CardEffect{
			HealEffect(10, "die-heal", TriggerOnDeath, 5, 4, TargetSource),
		})}, nil),
		NewPlayer(1, 30, 0, 5, nil, nil, nil),
	}, 0)
	state.GetPlayer(0).Health = 10

	var engine EffectEngine
	ctx := NewEffectContext(TriggerOnAttack, 1, 0).WithTargetCard(0, 1)
	damageEffect := NewCardEffect(20, "lethal", TriggerOnAttack, 5, EffectKind{Tag: EffectDirectDamage, Amount: 5, Target: TargetContext})
	engine.QueueEffect(damageEffect, ctx)
	engine.ResolveAll(state)

	require.Equal(t, int16(14), state.GetPlayer(0).Health, "death cascade should heal the owner after the card dies")
	require.Empty(t, state.GetPlayer(0).Board)
}

func TestConditionAnyAndAll(t *testing.T) {
	state := NewGameState([]Player{NewPlayer(0, 5, 0, 3, nil, nil, nil)}, 0)
	ctx := NewEffectContext(TriggerOnPlay, 0, 0)

	low := HealthBelowCondition(TargetSource, 10)
	mana := ManaAtLeastCondition(TargetSource, 10)

	require.True(t, AnyCondition(low, mana).IsSatisfied(ctx, state))
	require.False(t, AllCondition(low, mana).IsSatisfied(ctx, state))
	require.True(t, AllCondition(low).IsSatisfied(ctx, state))
}

func TestConditionalEffectOnlyAppliesWhenSatisfied(t *testing.T) {
	state := NewGameState([]Player{NewPlayer(0, 30, 0, 5, nil, nil, nil)}, 0)
	ctx := NewEffectContext(TriggerOnPlay, 0, 0)

	effect := ConditionalEffect(
		HealthBelowCondition(TargetSource, 10),
		EffectKind{Tag: EffectHeal, Amount: 5, Target: TargetSource},
	)

	require.False(t, effect.CanTrigger(ctx, state))
	resolution := effect.Apply(ctx, state)
	require.Empty(t, resolution.Events)

	state.GetPlayer(0).Health = 5
	require.True(t, effect.CanTrigger(ctx, state))
	resolution = effect.Apply(ctx, state)
	require.Len(t, resolution.Events, 1)
}

func TestCompositeEffectAppliesEveryChild(t *testing.T) {
	state := NewGameState([]Player{
		NewPlayer(0, 30, 0, 5, nil, nil, []Card{NewCard(1, "Deck", 1, 1, 1, CardTypeUnit, nil)}),
	}, 0)
	ctx := NewEffectContext(TriggerOnPlay, 0, 0)

	composite := CompositeEffect(
		EffectKind{Tag: EffectHeal, Amount: 3, Target: TargetSource},
		EffectKind{Tag: EffectDrawCard, Count: 1, Target: TargetSource},
	)

	resolution := composite.Apply(ctx, state)
	require.Len(t, resolution.Events, 2)
}

func TestRequiresContextTargetTraversesComposite(t *testing.T) {
	withTargeted := CompositeEffect(
		EffectKind{Tag: EffectHeal, Amount: 1, Target: TargetSource},
		EffectKind{Tag: EffectDirectDamage, Amount: 1, Target: TargetContext},
	)
	require.True(t, withTargeted.requiresContextTarget())

	withoutTargeted := CompositeEffect(
		EffectKind{Tag: EffectHeal, Amount: 1, Target: TargetSource},
		EffectKind{Tag: EffectDrawCard, Count: 1, Target: TargetSource},
	)
	require.False(t, withoutTargeted.requiresContextTarget())
}

func TestDrawPendingDiscardCanTriggerRequiresNonEmptyDeck(t *testing.T) {
	state := NewGameState([]Player{NewPlayer(0, 30, 0, 5, nil, nil, nil)}, 0)
	ctx := NewEffectContext(TriggerOnPlay, 0, 0)
	kind := DrawPendingDiscardEffect(TargetSource)

	require.False(t, kind.CanTrigger(ctx, state), "an empty deck must not be able to trigger a pending draw")

	state.GetPlayer(0).Deck = append(state.GetPlayer(0).Deck, NewCard(9, "Deck", 1, 1, 1, CardTypeUnit, nil))
	require.True(t, kind.CanTrigger(ctx, state))
}

func TestOpponentTargetResolution(t *testing.T) {
	state := NewGameState([]Player{
		NewPlayer(0, 30, 0, 5, nil, nil, nil),
		NewPlayer(1, 30, 0, 5, nil, nil, nil),
	}, 0)
	ctx := NewEffectContext(TriggerOnPlay, 0, 0)

	id, ok := TargetOpponent.resolvePlayer(ctx, state)
	require.True(t, ok)
	require.Equal(t, PlayerId(1), id)
}
