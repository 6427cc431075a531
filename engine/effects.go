package engine

// EffectTrigger names the game moment that queues a CardEffect.
type EffectTrigger uint8

const (
	TriggerOnPlay EffectTrigger = iota
	TriggerOnDeath
	TriggerOnTurnStart
	TriggerOnTurnEnd
	TriggerOnAttack
	TriggerPassive
)

// EffectTargetTag discriminates an EffectTarget's resolution rule.
type EffectTargetTag uint8

const (
	TargetContextTarget EffectTargetTag = iota
	TargetSourcePlayer
	TargetTargetPlayer
	TargetOpponentOfSource
)

// EffectTarget says which player an effect's amount applies to, resolved
// against an EffectContext at apply time.
type EffectTarget struct {
	Tag EffectTargetTag
}

var (
	TargetContext  = EffectTarget{Tag: TargetContextTarget}
	TargetSource   = EffectTarget{Tag: TargetSourcePlayer}
	TargetOfTarget = EffectTarget{Tag: TargetTargetPlayer}
	TargetOpponent = EffectTarget{Tag: TargetOpponentOfSource}
)

func (t EffectTarget) resolvePlayer(ctx EffectContext, state *GameState) (PlayerId, bool) {
	switch t.Tag {
	case TargetContextTarget:
		if ctx.TargetPlayer == nil {
			return 0, false
		}
		return *ctx.TargetPlayer, true
	case TargetSourcePlayer:
		return ctx.SourcePlayer, true
	case TargetTargetPlayer:
		if ctx.TargetPlayer == nil {
			return 0, false
		}
		return *ctx.TargetPlayer, true
	case TargetOpponentOfSource:
		return state.opponentOf(ctx.SourcePlayer)
	default:
		return 0, false
	}
}

// EffectConditionTag discriminates the EffectCondition tagged union.
type EffectConditionTag uint8

const (
	ConditionPlayerHealthBelow EffectConditionTag = iota
	ConditionPlayerManaAtLeast
	ConditionBoardCountAtLeast
	ConditionAny
	ConditionAll
)

// EffectCondition gates whether a CardEffect is allowed to fire.
type EffectCondition struct {
	Tag        EffectConditionTag
	Target     EffectTarget
	Threshold  int16
	Amount     uint8
	Min        int
	Conditions []EffectCondition
}

func HealthBelowCondition(target EffectTarget, threshold int16) EffectCondition {
	return EffectCondition{Tag: ConditionPlayerHealthBelow, Target: target, Threshold: threshold}
}

func ManaAtLeastCondition(target EffectTarget, amount uint8) EffectCondition {
	return EffectCondition{Tag: ConditionPlayerManaAtLeast, Target: target, Amount: amount}
}

func BoardCountAtLeastCondition(target EffectTarget, min int) EffectCondition {
	return EffectCondition{Tag: ConditionBoardCountAtLeast, Target: target, Min: min}
}

func AnyCondition(conditions ...EffectCondition) EffectCondition {
	return EffectCondition{Tag: ConditionAny, Conditions: conditions}
}

func AllCondition(conditions ...EffectCondition) EffectCondition {
	return EffectCondition{Tag: ConditionAll, Conditions: conditions}
}

func (c EffectCondition) IsSatisfied(ctx EffectContext, state *GameState) bool {
	switch c.Tag {
	case ConditionPlayerHealthBelow:
		id, ok := c.Target.resolvePlayer(ctx, state)
		if !ok {
			return false
		}
		player := state.GetPlayer(id)
		return player != nil && player.Health < c.Threshold
	case ConditionPlayerManaAtLeast:
		id, ok := c.Target.resolvePlayer(ctx, state)
		if !ok {
			return false
		}
		player := state.GetPlayer(id)
		return player != nil && player.Mana >= c.Amount
	case ConditionBoardCountAtLeast:
		id, ok := c.Target.resolvePlayer(ctx, state)
		if !ok {
			return false
		}
		player := state.GetPlayer(id)
		return player != nil && len(player.Board) >= c.Min
	case ConditionAny:
		for _, cond := range c.Conditions {
			if cond.IsSatisfied(ctx, state) {
				return true
			}
		}
		return false
	case ConditionAll:
		for _, cond := range c.Conditions {
			if !cond.IsSatisfied(ctx, state) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// EffectKindTag discriminates the EffectKind tagged union.
type EffectKindTag uint8

const (
	EffectDirectDamage EffectKindTag = iota
	EffectHeal
	EffectDrawCard
	EffectDrawPendingDiscard
	EffectComposite
	EffectConditional
)

// EffectKind is the polymorphic action a CardEffect performs, expressed as
// a flat tagged variant rather than an interface with dynamic dispatch —
// the set of kinds is closed and effects need to be inspected (e.g.
// requiresTarget) without invoking them.
type EffectKind struct {
	Tag       EffectKindTag
	Amount    int16
	Count     uint8
	Target    EffectTarget
	Effects   []EffectKind
	Condition *EffectCondition
	Effect    *EffectKind
}

func DrawPendingDiscardEffect(target EffectTarget) EffectKind {
	return EffectKind{Tag: EffectDrawPendingDiscard, Count: 1, Target: target}
}

func CompositeEffect(effects ...EffectKind) EffectKind {
	return EffectKind{Tag: EffectComposite, Effects: effects}
}

func ConditionalEffect(condition EffectCondition, effect EffectKind) EffectKind {
	return EffectKind{Tag: EffectConditional, Condition: &condition, Effect: &effect}
}

func (k EffectKind) CanTrigger(ctx EffectContext, state *GameState) bool {
	switch k.Tag {
	case EffectDirectDamage, EffectHeal:
		return true
	case EffectDrawCard, EffectDrawPendingDiscard:
		id, ok := k.Target.resolvePlayer(ctx, state)
		if !ok {
			return false
		}
		player := state.GetPlayer(id)
		return player != nil && len(player.Deck) > 0
	case EffectComposite:
		for _, effect := range k.Effects {
			if effect.CanTrigger(ctx, state) {
				return true
			}
		}
		return false
	case EffectConditional:
		return k.Condition.IsSatisfied(ctx, state) && k.Effect.CanTrigger(ctx, state)
	default:
		return false
	}
}

func (k EffectKind) Apply(ctx EffectContext, state *GameState) EffectResolution {
	switch k.Tag {
	case EffectDirectDamage:
		var res EffectResolution
		if ctx.TargetCard != nil && ctx.TargetPlayer != nil {
			res.Events = append(res.Events, state.DamageCard(ctx.SourcePlayer, ctx.SourceCard, *ctx.TargetPlayer, *ctx.TargetCard, k.Amount)...)
		} else if id, ok := k.Target.resolvePlayer(ctx, state); ok {
			if event, ok := state.DamagePlayer(ctx.SourcePlayer, ctx.SourceCard, id, k.Amount); ok {
				res.Events = append(res.Events, event)
			}
		}
		return res
	case EffectHeal:
		var res EffectResolution
		if ctx.TargetCard != nil && ctx.TargetPlayer != nil {
			if event, ok := state.HealCard(*ctx.TargetPlayer, *ctx.TargetCard, k.Amount); ok {
				res.Events = append(res.Events, event)
			}
		} else if id, ok := k.Target.resolvePlayer(ctx, state); ok {
			if event, ok := state.HealPlayer(id, k.Amount); ok {
				res.Events = append(res.Events, event)
			}
		}
		return res
	case EffectDrawCard:
		var res EffectResolution
		if id, ok := k.Target.resolvePlayer(ctx, state); ok {
			for i := uint8(0); i < k.Count; i++ {
				if event, ok := state.DrawCard(id); ok {
					res.Events = append(res.Events, event)
				}
			}
		}
		return res
	case EffectDrawPendingDiscard:
		// No event fires here: the drawn card isn't committed to hand
		// until ResolvePendingDiscard runs, so there's nothing yet to log.
		if id, ok := k.Target.resolvePlayer(ctx, state); ok {
			for i := uint8(0); i < k.Count; i++ {
				state.DrawCardPending(id)
			}
		}
		return EffectResolution{}
	case EffectComposite:
		var res EffectResolution
		for _, effect := range k.Effects {
			res.Extend(effect.Apply(ctx, state))
		}
		return res
	case EffectConditional:
		if k.Condition.IsSatisfied(ctx, state) {
			return k.Effect.Apply(ctx, state)
		}
		return EffectResolution{}
	default:
		return EffectResolution{}
	}
}

// requiresContextTarget reports whether resolving this effect needs a
// caller-supplied target (EffectTarget tagged ContextTarget anywhere in
// its tree), used by the rule engine to validate play_card actions before
// the card leaves the hand.
func (k EffectKind) requiresContextTarget() bool {
	switch k.Tag {
	case EffectDirectDamage, EffectHeal, EffectDrawCard, EffectDrawPendingDiscard:
		return k.Target.Tag == TargetContextTarget
	case EffectComposite:
		for _, effect := range k.Effects {
			if effect.requiresContextTarget() {
				return true
			}
		}
		return false
	case EffectConditional:
		return k.Effect.requiresContextTarget()
	default:
		return false
	}
}

// EffectContext carries the trigger, source, and resolved targets for one
// queued effect application.
type EffectContext struct {
	Trigger       EffectTrigger
	SourcePlayer  PlayerId
	SourceCard    *CardId
	TargetPlayer  *PlayerId
	TargetCard    *CardId
	CurrentPlayer PlayerId
}

func NewEffectContext(trigger EffectTrigger, sourcePlayer, currentPlayer PlayerId) EffectContext {
	return EffectContext{Trigger: trigger, SourcePlayer: sourcePlayer, CurrentPlayer: currentPlayer}
}

func (c EffectContext) WithSourceCard(cardId CardId) EffectContext {
	c.SourceCard = &cardId
	return c
}

func (c EffectContext) WithTargetPlayer(playerId PlayerId) EffectContext {
	c.TargetPlayer = &playerId
	return c
}

func (c EffectContext) WithTargetCard(playerId PlayerId, cardId CardId) EffectContext {
	c.TargetPlayer = &playerId
	c.TargetCard = &cardId
	return c
}

// EffectResolution accumulates the events produced while applying one or
// more effects.
type EffectResolution struct {
	Events []GameEvent
}

func (r *EffectResolution) Extend(other EffectResolution) {
	r.Events = append(r.Events, other.Events...)
}
