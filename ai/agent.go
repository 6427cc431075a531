package ai

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/kestrelforge/duelcore/engine"
)

// Decision is everything a caller might want to know about one search:
// the chosen action (nil if none was available), the evaluation score it
// reached, how deep the search actually got before stopping, how many
// nodes it visited, whether it ran out of time, how long it took, and the
// resolution produced by applying the chosen action to a clone of the
// searched state.
type Decision struct {
	Action       *GameAction
	Evaluation   float64
	DepthReached uint8
	Nodes        uint64
	TimedOut     bool
	Duration     time.Duration
	Resolution   *engine.RuleResolution
	Strategy     Strategy
}

type searchStats struct {
	nodes        uint64
	depthReached uint8
	timedOut     bool
}

// Agent runs a minimax search, scoped to one Config and holding its own
// PRNG so concurrent agents (one per simulated match, in the CLI driver's
// worker pool) never share random state.
type Agent struct {
	config Config
	rng    *rand.Rand
}

func NewAgent(config Config) *Agent {
	return &Agent{config: config, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func NewAgentWithSeed(config Config, seed int64) *Agent {
	return &Agent{config: config, rng: rand.New(rand.NewSource(seed))}
}

// transition pairs a candidate action with the state it produces, so move
// ordering and recursion can both look at the resulting position without
// re-simulating it.
type transition struct {
	action GameAction
	state  *engine.GameState
}

// Decide runs the configured search from state and returns the best
// action found for playerId (who need not be state's current player —
// every position is scored from playerId's point of view, maximized on
// playerId's plies and minimized on the opponent's).
func (a *Agent) Decide(state *engine.GameState, playerId engine.PlayerId) Decision {
	start := time.Now()
	var deadline time.Time
	hasDeadline := a.config.TimeLimit > 0
	if hasDeadline {
		deadline = start.Add(a.config.TimeLimit)
	}

	strategy := a.config.Strategy
	if strategy == StrategyRandom {
		return a.randomDecision(state, playerId, start, deadline, hasDeadline)
	}

	if state.IsFinished() {
		return Decision{
			Evaluation: a.evaluate(state, playerId),
			Duration:   time.Since(start),
			Strategy:   strategy,
		}
	}

	var stats searchStats
	depth := uint8(0)
	if a.config.Depth > 0 {
		depth = a.config.Depth - 1
	}
	maximizing := state.CurrentPlayer == playerId

	transitions := a.generateTransitions(state, state.CurrentPlayer, deadline, hasDeadline)
	a.prioritizeActions(state, transitions, strategy, playerId)

	if len(transitions) == 0 {
		return Decision{
			Evaluation:   a.evaluate(state, playerId),
			DepthReached: stats.depthReached,
			Nodes:        stats.nodes,
			TimedOut:     stats.timedOut,
			Duration:     time.Since(start),
			Strategy:     strategy,
		}
	}

	alpha := math.Inf(-1)
	beta := math.Inf(1)

	var bestAction *GameAction
	bestScore := math.Inf(-1)
	bestCmp := math.Inf(-1)

	for _, candidate := range transitions {
		score := a.minimaxRec(candidate.state, depth, alpha, beta, playerId, deadline, hasDeadline, &stats)

		if stats.timedOut {
			break
		}

		if maximizing {
			alpha = math.Max(alpha, score)
		} else {
			beta = math.Min(beta, score)
		}

		comparisonScore := score
		if a.config.Randomness > 0 {
			comparisonScore = score + a.randomNoise()
		}

		if comparisonScore > bestCmp {
			bestCmp = comparisonScore
			bestScore = score
			action := candidate.action
			bestAction = &action
		}

		if alpha >= beta {
			break
		}
	}

	var resolution *engine.RuleResolution
	if bestAction != nil {
		resolution, _ = a.simulateResolution(state, *bestAction)
	} else {
		bestScore = a.evaluate(state, playerId)
	}

	return Decision{
		Action:       bestAction,
		Evaluation:   bestScore,
		DepthReached: stats.depthReached,
		Nodes:        stats.nodes,
		TimedOut:     stats.timedOut,
		Duration:     time.Since(start),
		Resolution:   resolution,
		Strategy:     strategy,
	}
}

func (a *Agent) randomDecision(state *engine.GameState, playerId engine.PlayerId, start, deadline time.Time, hasDeadline bool) Decision {
	transitions := a.generateTransitions(state, state.CurrentPlayer, deadline, hasDeadline)
	if len(transitions) == 0 {
		return Decision{
			Evaluation: a.evaluate(state, playerId),
			Duration:   time.Since(start),
			Strategy:   StrategyRandom,
		}
	}

	a.rng.Shuffle(len(transitions), func(i, j int) { transitions[i], transitions[j] = transitions[j], transitions[i] })
	chosen := transitions[0]
	resolution, _ := a.simulateResolution(state, chosen.action)

	action := chosen.action
	return Decision{
		Action:       &action,
		Evaluation:   a.evaluate(chosen.state, playerId),
		DepthReached: 1,
		Nodes:        1,
		Duration:     time.Since(start),
		Resolution:   resolution,
		Strategy:     StrategyRandom,
	}
}

func (a *Agent) minimaxRec(state *engine.GameState, depthRemaining uint8, alpha, beta float64, rootPlayer engine.PlayerId, deadline time.Time, hasDeadline bool, stats *searchStats) float64 {
	stats.nodes++
	depthExplored := a.config.Depth - depthRemaining
	if depthExplored > stats.depthReached {
		stats.depthReached = depthExplored
	}

	if hasDeadline && !time.Now().Before(deadline) {
		stats.timedOut = true
		return a.evaluate(state, rootPlayer)
	}

	if depthRemaining == 0 || state.IsFinished() {
		return a.evaluate(state, rootPlayer)
	}

	actor := state.CurrentPlayer
	maximizing := actor == rootPlayer
	transitions := a.generateTransitions(state, actor, deadline, hasDeadline)
	a.prioritizeActions(state, transitions, a.config.Strategy, rootPlayer)
	if len(transitions) == 0 {
		return a.evaluate(state, rootPlayer)
	}

	nextDepth := uint8(0)
	if depthRemaining > 0 {
		nextDepth = depthRemaining - 1
	}

	if maximizing {
		value := math.Inf(-1)
		for _, candidate := range transitions {
			score := a.minimaxRec(candidate.state, nextDepth, alpha, beta, rootPlayer, deadline, hasDeadline, stats)
			value = math.Max(value, score)
			alpha = math.Max(alpha, value)
			if stats.timedOut || beta <= alpha {
				break
			}
		}
		return value
	}

	value := math.Inf(1)
	for _, candidate := range transitions {
		score := a.minimaxRec(candidate.state, nextDepth, alpha, beta, rootPlayer, deadline, hasDeadline, stats)
		value = math.Min(value, score)
		beta = math.Min(beta, value)
		if stats.timedOut || beta <= alpha {
			break
		}
	}
	return value
}

const maxConsideredTargets = 4

// generateTransitions enumerates every legal action actor can take from
// state, simulating each one to get its resulting GameState. If it isn't
// actor's turn (a nested call exploring the opponent's ply), only EndTurn
// is offered. Candidate actions are deduped by identity before
// simulating, and an EndTurn fallback is always appended if not already
// present. Shuffling the whole list (when randomness > 0) happens here,
// not just at the root, so every recursive call sees randomized ordering
// too.
func (a *Agent) generateTransitions(state *engine.GameState, actor engine.PlayerId, deadline time.Time, hasDeadline bool) []transition {
	var seen []GameAction
	var transitions []transition

	if hasDeadline && !time.Now().Before(deadline) {
		return transitions
	}

	if state.CurrentPlayer != actor {
		if next, ok := a.simulateState(state, EndTurnGameAction()); ok {
			transitions = append(transitions, transition{action: EndTurnGameAction(), state: next})
		}
		return transitions
	}

	player := state.GetPlayer(actor)
	if player != nil {
		for _, card := range player.Hand {
			if hasDeadline && !time.Now().Before(deadline) {
				break
			}
			if card.Cost > player.Mana {
				continue
			}

			candidates := []engine.PlayCardAction{{PlayerId: actor, CardId: card.Id}}

			if opponentId, ok := state.OpponentOf(actor); ok {
				opponent := opponentId
				candidates = append(candidates, engine.PlayCardAction{PlayerId: actor, CardId: card.Id, TargetPlayer: &opponent})

				if opponentPlayer := state.GetPlayer(opponentId); opponentPlayer != nil {
					for i, target := range opponentPlayer.Board {
						if i >= maxConsideredTargets {
							break
						}
						targetId := target.Id
						candidates = append(candidates, engine.PlayCardAction{PlayerId: actor, CardId: card.Id, TargetPlayer: &opponent, TargetCard: &targetId})
					}
				}
			}

			for _, candidate := range candidates {
				playAction := PlayCardGameAction(candidate)
				if containsAction(seen, playAction) {
					continue
				}
				if next, ok := a.simulateState(state, playAction); ok {
					seen = append(seen, playAction)
					transitions = append(transitions, transition{action: playAction, state: next})
				}
			}
		}

		if opponentId, ok := state.OpponentOf(actor); ok {
			var defenderBoard []engine.CardId
			if opponentPlayer := state.GetPlayer(opponentId); opponentPlayer != nil {
				for _, card := range opponentPlayer.Board {
					defenderBoard = append(defenderBoard, card.Id)
				}
			}

			for _, card := range player.Board {
				if hasDeadline && !time.Now().Before(deadline) {
					break
				}
				if card.Exhausted || card.Attack <= 0 {
					continue
				}

				candidates := []engine.AttackAction{{AttackerOwner: actor, AttackerId: card.Id, DefenderOwner: opponentId}}
				for i, defenderId := range defenderBoard {
					if i >= maxConsideredTargets {
						break
					}
					id := defenderId
					candidates = append(candidates, engine.AttackAction{AttackerOwner: actor, AttackerId: card.Id, DefenderOwner: opponentId, DefenderCard: &id})
				}

				for _, candidate := range candidates {
					attackAction := AttackGameAction(candidate)
					if containsAction(seen, attackAction) {
						continue
					}
					if next, ok := a.simulateState(state, attackAction); ok {
						seen = append(seen, attackAction)
						transitions = append(transitions, transition{action: attackAction, state: next})
					}
				}
			}
		}
	}

	if !containsAction(seen, EndTurnGameAction()) {
		if next, ok := a.simulateState(state, EndTurnGameAction()); ok {
			transitions = append(transitions, transition{action: EndTurnGameAction(), state: next})
		}
	}

	if a.config.Randomness > 0 {
		a.rng.Shuffle(len(transitions), func(i, j int) { transitions[i], transitions[j] = transitions[j], transitions[i] })
	}

	return transitions
}

func containsAction(seen []GameAction, action GameAction) bool {
	key := action.key()
	for _, other := range seen {
		if other.key() == key {
			return true
		}
	}
	return false
}

// prioritizeActions reorders transitions in place, best-first by the
// strategy's cheap move-ordering heuristic (or the full evaluation for
// Adaptive), so alpha-beta pruning cuts more branches early.
func (a *Agent) prioritizeActions(base *engine.GameState, transitions []transition, strategy Strategy, playerId engine.PlayerId) {
	if len(transitions) <= 1 {
		return
	}

	switch strategy {
	case StrategyRandom:
		return
	case StrategyAggressive:
		sort.SliceStable(transitions, func(i, j int) bool {
			return aggressiveScore(base, transitions[i], playerId) > aggressiveScore(base, transitions[j], playerId)
		})
	case StrategyControl:
		sort.SliceStable(transitions, func(i, j int) bool {
			return controlScore(base, transitions[i], playerId) > controlScore(base, transitions[j], playerId)
		})
	case StrategyCombo:
		sort.SliceStable(transitions, func(i, j int) bool {
			return comboScore(base, transitions[i], playerId) > comboScore(base, transitions[j], playerId)
		})
	case StrategyAdaptive:
		sort.SliceStable(transitions, func(i, j int) bool {
			return a.evaluate(transitions[i].state, playerId) > a.evaluate(transitions[j].state, playerId)
		})
	}
}

// simulateState clones state, applies action through a fresh RuleEngine,
// and returns the resulting state (nil, false on a rejected action). The
// clone means no simulated branch ever aliases the caller's state or any
// sibling branch.
func (a *Agent) simulateState(state *engine.GameState, action GameAction) (*engine.GameState, bool) {
	next := state.Clone()
	ruleEngine := engine.NewRuleEngine()
	if _, err := applyAction(ruleEngine, next, action); err != nil {
		return nil, false
	}
	return next, true
}

func (a *Agent) simulateResolution(state *engine.GameState, action GameAction) (*engine.RuleResolution, error) {
	next := state.Clone()
	ruleEngine := engine.NewRuleEngine()
	return applyAction(ruleEngine, next, action)
}

func applyAction(ruleEngine *engine.RuleEngine, state *engine.GameState, action GameAction) (*engine.RuleResolution, error) {
	switch action.Tag {
	case ActionPlayCard:
		return ruleEngine.PlayCard(state, action.PlayCard)
	case ActionMulligan:
		return ruleEngine.Mulligan(state, action.Mulligan)
	case ActionAttack:
		return ruleEngine.Attack(state, action.Attack)
	case ActionEndTurn:
		return ruleEngine.EndTurn(state)
	default:
		return nil, nil
	}
}

// ApplyMove applies a previously-decided action to state via a fresh
// RuleEngine, the idiomatic equivalent of the original engine's
// apply_ai_move entry point.
func ApplyMove(state *engine.GameState, action GameAction) (*engine.RuleResolution, error) {
	return applyAction(engine.NewRuleEngine(), state, action)
}

// Think runs Decide on a goroutine and returns its result, or ctx's error
// if ctx is done first, letting a caller stop waiting on a slow search
// instead of blocking forever — the idiomatic replacement for the original
// engine's wasm_bindgen_futures-based deferred compute call. Cancelling
// ctx does not stop the search goroutine; it runs until Decide returns.
func (a *Agent) Think(ctx context.Context, state *engine.GameState, playerId engine.PlayerId) (Decision, error) {
	result := make(chan Decision, 1)
	go func() {
		result <- a.Decide(state, playerId)
	}()

	select {
	case decision := <-result:
		return decision, nil
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}

func (a *Agent) evaluate(state *engine.GameState, playerId engine.PlayerId) float64 {
	if state.Outcome != nil {
		if state.Outcome.Winner == playerId {
			return 1_000_000.0
		}
		return -1_000_000.0
	}

	player := state.GetPlayer(playerId)
	if player == nil {
		return -1_000_000.0
	}
	opponentId, _ := state.OpponentOf(playerId)
	opponent := state.GetPlayer(opponentId)

	heroDiff, boardDiff, handDiff, manaDiff, comboValue := evaluationComponents(state, playerId)
	weights := weightsFor(a.config.Strategy, heroDiff, boardDiff)

	opponentArmor := 0.0
	if opponent != nil {
		opponentArmor = float64(opponent.Armor)
	}
	armorBonus := (float64(player.Armor) - opponentArmor) * 0.6

	turnBonus := -0.3
	if state.CurrentPlayer == playerId {
		turnBonus = 0.3
	}

	return heroDiff*weights.hero +
		boardDiff*weights.board +
		handDiff*weights.hand +
		manaDiff*weights.mana +
		comboValue*weights.combo +
		armorBonus +
		turnBonus
}

func (a *Agent) randomNoise() float64 {
	if a.config.Randomness <= 0 {
		return 0
	}
	return (a.rng.Float64() - 0.5) * 2.0 * a.config.Randomness
}
