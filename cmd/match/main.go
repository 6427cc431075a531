// Package main provides the duelcore-match CLI for running one or more
// simulated matches, seat-by-seat AI vs AI, and printing one summary of
// wins, forfeits and errors across all of them (with -verbose, each
// applied action's events are also logged at debug level).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/kestrelforge/duelcore/ai"
	"github.com/kestrelforge/duelcore/config"
	"github.com/kestrelforge/duelcore/engine"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// CLI flags
var (
	matches      int
	maxTurns     int
	scenarioPath string
	strategyP1   string
	strategyP2   string
	difficultyP1 string
	difficultyP2 string
	seed         int64
	workers      int
	verbose      bool
	showVersion  bool
)

func init() {
	flag.IntVar(&matches, "matches", 1, "Number of matches to simulate")
	flag.IntVar(&maxTurns, "max-turns", 200, "Forfeit a match that exceeds this many EndTurns")
	flag.StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file (default: the built-in sample match)")
	flag.StringVar(&strategyP1, "p1-strategy", "", "Override seat 0's AI strategy (aggressive, control, combo, random, adaptive)")
	flag.StringVar(&strategyP2, "p2-strategy", "", "Override seat 1's AI strategy")
	flag.StringVar(&difficultyP1, "p1-difficulty", "", "Override seat 0's AI difficulty (easy, normal, hard, expert; default normal or the scenario's setting)")
	flag.StringVar(&difficultyP2, "p2-difficulty", "", "Override seat 1's AI difficulty")
	flag.Int64Var(&seed, "seed", 0, "Random seed for agent tie-breaking (0 = use current time)")
	flag.IntVar(&workers, "workers", 0, "Number of worker goroutines (0 = auto-detect CPU count)")
	flag.BoolVar(&verbose, "verbose", false, "Print every event as it resolves, for every match")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

var log slog.Logger

func main() {
	flag.Parse()

	backend := slog.NewBackend(os.Stderr)
	log = backend.Logger("match")
	if verbose {
		log.SetLevel(slog.LevelDebug)
	} else {
		log.SetLevel(slog.LevelInfo)
	}

	if showVersion {
		fmt.Printf("duelcore-match %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	setup, err := loadMatchSetup()
	if err != nil {
		log.Errorf("loading match setup: %v", err)
		os.Exit(1)
	}

	if matches < 1 {
		matches = 1
	}
	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > matches {
		numWorkers = matches
	}

	startTime := time.Now()
	results := runMatches(setup, numWorkers)
	elapsed := time.Since(startTime)

	printSummary(results, elapsed)
}

// matchSetup is everything needed to start a fresh copy of one match: a
// state factory (so every worker gets its own clone, never a shared
// pointer) and the AI config for each of the two seats.
type matchSetup struct {
	newState func() *engine.GameState
	configs  [2]ai.Config
	seatIds  [2]engine.PlayerId
}

func loadMatchSetup() (matchSetup, error) {
	var setup matchSetup
	setup.configs[0] = ai.ConfigFromDifficulty(ai.DifficultyNormal)
	setup.configs[1] = ai.ConfigFromDifficulty(ai.DifficultyNormal)

	if scenarioPath != "" {
		scenario, err := config.LoadScenario(scenarioPath)
		if err != nil {
			return setup, err
		}
		setup.newState = func() *engine.GameState {
			state, err := scenario.Build()
			if err != nil {
				// Build is validated once below, before this closure is
				// ever called; a second failure
				// here would mean the scenario mutated between calls, which
				// never happens since Build reads from immutable fields.
				panic(err)
			}
			return state
		}
		if _, err := scenario.Build(); err != nil {
			return setup, err
		}
		setup.configs[0] = scenario.SeatAgentConfig(0, setup.configs[0])
		setup.configs[1] = scenario.SeatAgentConfig(1, setup.configs[1])
	} else {
		setup.newState = engine.Sample
	}

	if difficulty, ok := ai.ParseDifficulty(difficultyP1); ok {
		setup.configs[0] = ai.ConfigFromDifficulty(difficulty)
	}
	if difficulty, ok := ai.ParseDifficulty(difficultyP2); ok {
		setup.configs[1] = ai.ConfigFromDifficulty(difficulty)
	}
	if strategyP1 != "" {
		if strategy, ok := ai.ParseStrategy(strategyP1); ok {
			setup.configs[0] = setup.configs[0].WithStrategy(strategy)
		}
	}
	if strategyP2 != "" {
		if strategy, ok := ai.ParseStrategy(strategyP2); ok {
			setup.configs[1] = setup.configs[1].WithStrategy(strategy)
		}
	}

	probe := setup.newState()
	setup.seatIds[0] = probe.Players[0].Id
	setup.seatIds[1] = probe.Players[1].Id

	return setup, nil
}

// matchTask is one match to run, identified for result correlation the
// way the teacher's evolution package correlates genome-evaluation tasks
// by index.
type matchTask struct {
	Index int
	ID    uuid.UUID
}

type matchResult struct {
	Index     int
	ID        uuid.UUID
	Outcome   *engine.VictoryState
	SeatIds   [2]engine.PlayerId
	Turns     uint32
	Forfeited bool
	Err       error
}

// runMatches fans matches tasks out across numWorkers goroutines, each
// pulling from a shared task channel and pushing onto a shared result
// channel — the same task/result-channel/WaitGroup shape the teacher's
// evolution.ParallelEvaluator uses for genome fitness evaluation.
func runMatches(setup matchSetup, numWorkers int) []matchResult {
	tasks := make(chan matchTask, matches)
	results := make(chan matchResult, matches)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go matchWorker(setup, tasks, results, &wg)
	}

	for i := 0; i < matches; i++ {
		tasks <- matchTask{Index: i, ID: uuid.New()}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]matchResult, matches)
	for result := range results {
		ordered[result.Index] = result
	}
	return ordered
}

func matchWorker(setup matchSetup, tasks <-chan matchTask, results chan<- matchResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range tasks {
		results <- playMatch(setup, task)
	}
}

// playMatch drives one match to completion (or forfeit), alternating
// Agent.Think calls for whichever seat currently holds the turn.
func playMatch(setup matchSetup, task matchTask) matchResult {
	state := setup.newState()

	agents := [2]*ai.Agent{
		ai.NewAgentWithSeed(setup.configs[0], seed+int64(task.Index)*2+1),
		ai.NewAgentWithSeed(setup.configs[1], seed+int64(task.Index)*2+2),
	}
	seatIndex := map[engine.PlayerId]int{setup.seatIds[0]: 0, setup.seatIds[1]: 1}

	turns := uint32(0)
	for !state.IsFinished() {
		if turns >= uint32(maxTurns) {
			log.Warnf("match %s forfeited after %d turns", task.ID, turns)
			return matchResult{Index: task.Index, ID: task.ID, SeatIds: setup.seatIds, Turns: turns, Forfeited: true}
		}

		actor := state.CurrentPlayer
		idx, ok := seatIndex[actor]
		if !ok {
			return matchResult{Index: task.Index, ID: task.ID, SeatIds: setup.seatIds, Turns: turns, Err: fmt.Errorf("unknown current player %d", actor)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		decision, err := agents[idx].Think(ctx, state, actor)
		cancel()
		if err != nil {
			return matchResult{Index: task.Index, ID: task.ID, SeatIds: setup.seatIds, Turns: turns, Err: err}
		}
		if decision.Action == nil {
			log.Warnf("match %s: seat %d had no legal action, ending as a draw", task.ID, actor)
			break
		}

		resolution, err := ai.ApplyMove(state, *decision.Action)
		if err != nil {
			return matchResult{Index: task.Index, ID: task.ID, SeatIds: setup.seatIds, Turns: turns, Err: fmt.Errorf("applying %s: %w", decision.Action, err)}
		}

		if verbose {
			for _, event := range resolution.Events {
				log.Debugf("match %s turn %d: %s acted %s -> %T", task.ID, turns, playerLabel(actor), decision.Action, event)
			}
		}

		if decision.Action.Tag == ai.ActionEndTurn {
			turns++
		}
	}

	return matchResult{Index: task.Index, ID: task.ID, SeatIds: setup.seatIds, Outcome: state.Outcome, Turns: turns}
}

func playerLabel(id engine.PlayerId) string {
	return fmt.Sprintf("seat %d", id)
}

func printSummary(results []matchResult, elapsed time.Duration) {
	var wins [2]int
	var forfeits, errored int

	for _, result := range results {
		if result.Err != nil {
			errored++
			log.Errorf("match %s failed: %v", result.ID, result.Err)
			continue
		}
		if result.Forfeited {
			forfeits++
			continue
		}
		if result.Outcome != nil {
			for i, seatId := range result.SeatIds {
				if result.Outcome.Winner == seatId {
					wins[i]++
				}
			}
		}
	}

	fmt.Println()
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("                       MATCH SUMMARY")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Printf("  Matches:         %d\n", len(results))
	fmt.Printf("  Seat 0 wins:     %d\n", wins[0])
	fmt.Printf("  Seat 1 wins:     %d\n", wins[1])
	if forfeits > 0 {
		fmt.Printf("  Forfeited:       %d\n", forfeits)
	}
	if errored > 0 {
		fmt.Printf("  Errored:         %d\n", errored)
	}
	fmt.Printf("  Total Time:      %s\n", elapsed.Round(time.Millisecond))
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println()
}
