package engine

import "container/heap"

// stackItem is one queued effect application, ordered by Priority
// (descending) and then by insertion Order (ascending) among ties.
type stackItem struct {
	priority int8
	order    uint64
	effect   CardEffect
	context  EffectContext
}

// itemHeap implements container/heap.Interface so Pop always returns the
// highest-priority item, breaking ties in favor of whichever was pushed
// first.
type itemHeap []stackItem

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].order < h[j].order
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(stackItem))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// EffectStack is the priority-ordered queue of not-yet-resolved effect
// applications.
type EffectStack struct {
	items itemHeap
	order uint64
}

func (s *EffectStack) Push(effect CardEffect, context EffectContext) {
	s.order++
	heap.Push(&s.items, stackItem{priority: effect.Priority, order: s.order, effect: effect, context: context})
}

func (s *EffectStack) pop() (stackItem, bool) {
	if len(s.items) == 0 {
		return stackItem{}, false
	}
	return heap.Pop(&s.items).(stackItem), true
}

func (s *EffectStack) IsEmpty() bool {
	return len(s.items) == 0
}

// EffectEngine resolves a stack of queued CardEffects against a GameState,
// re-queuing OnDeath triggers as board cards die mid-resolution.
type EffectEngine struct {
	stack EffectStack
}

// QueueCardEffects pushes every effect on card whose Trigger matches the
// context's trigger.
func (e *EffectEngine) QueueCardEffects(card *Card, baseContext EffectContext) {
	for _, effect := range card.Effects {
		if effect.Trigger == baseContext.Trigger {
			e.stack.Push(effect, baseContext)
		}
	}
}

func (e *EffectEngine) QueueEffect(effect CardEffect, context EffectContext) {
	e.stack.Push(effect, context)
}

// ResolveAll drains the stack, applying each effect that can still trigger
// and recording every resulting event onto state. A CardDestroyed event
// queues that card's OnDeath effects before resolution continues, so
// death cascades interleave with whatever else is already queued at equal
// or lower priority.
func (e *EffectEngine) ResolveAll(state *GameState) []GameEvent {
	var events []GameEvent
	for {
		item, ok := e.stack.pop()
		if !ok {
			break
		}
		if !item.effect.CanTrigger(item.context, state) {
			continue
		}

		resolution := item.effect.Apply(item.context, state)
		for _, event := range resolution.Events {
			state.RecordEvent(event)
			if destroyed, ok := event.(CardDestroyed); ok {
				deathCtx := NewEffectContext(TriggerOnDeath, destroyed.PlayerId, state.CurrentPlayer).
					WithSourceCard(destroyed.Card.Id)
				e.QueueCardEffects(&destroyed.Card, deathCtx)
			}
		}
		events = append(events, resolution.Events...)
	}
	return events
}
