// Package config loads match scenarios from YAML files: starting hero
// stats, hand/board/deck contents, and per-seat AI configuration. It is
// the CLI driver's alternative to always starting from engine.Sample().
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kestrelforge/duelcore/ai"
	"github.com/kestrelforge/duelcore/engine"
)

// EffectEntry describes one CardEffect in a scenario file: a trigger, a
// kind-specific amount/count, and which side of the action it targets.
// Composite and conditional effects aren't expressible in YAML — a
// scenario needing one should build its state with engine.Sample or a
// hand-written Go helper instead.
type EffectEntry struct {
	Id          engine.EffectId `yaml:"id"`
	Description string          `yaml:"description"`
	Trigger     string          `yaml:"trigger"`
	Priority    int8            `yaml:"priority"`
	Kind        string          `yaml:"kind"`
	Amount      int16           `yaml:"amount"`
	Count       uint8           `yaml:"count"`
	Target      string          `yaml:"target"`
}

// CardEntry describes one card instance placed into a hand, board, or
// deck zone.
type CardEntry struct {
	Id      engine.CardId `yaml:"id"`
	Name    string        `yaml:"name"`
	Cost    uint8         `yaml:"cost"`
	Attack  int16         `yaml:"attack"`
	Health  int16         `yaml:"health"`
	Type    string        `yaml:"type"`
	Effects []EffectEntry `yaml:"effects"`
}

// SeatEntry describes one player's starting stats, zones, and (for the
// CLI driver) which AI difficulty/strategy controls that seat.
type SeatEntry struct {
	Id         engine.PlayerId `yaml:"id"`
	Health     int16           `yaml:"health"`
	Armor      uint8           `yaml:"armor"`
	Mana       uint8           `yaml:"mana"`
	Hand       []CardEntry     `yaml:"hand"`
	Board      []CardEntry     `yaml:"board"`
	Deck       []CardEntry     `yaml:"deck"`
	Strategy   string          `yaml:"strategy"`
	Difficulty string          `yaml:"difficulty"`
}

// Scenario is the root of a match configuration file: two seats plus
// which one acts first.
type Scenario struct {
	Name          string          `yaml:"name"`
	CurrentPlayer engine.PlayerId `yaml:"current_player"`
	Phase         string          `yaml:"phase"`
	Seats         []SeatEntry     `yaml:"seats"`
}

// LoadScenario reads and parses a scenario file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read scenario %s: %w", path, err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("config: parse scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// Build converts a parsed Scenario into a ready-to-play GameState.
func (s *Scenario) Build() (*engine.GameState, error) {
	if len(s.Seats) != 2 {
		return nil, fmt.Errorf("config: scenario %q needs exactly 2 seats, got %d", s.Name, len(s.Seats))
	}

	players := make([]engine.Player, len(s.Seats))
	for i, seat := range s.Seats {
		hand, err := buildCards(seat.Hand)
		if err != nil {
			return nil, fmt.Errorf("config: seat %d hand: %w", seat.Id, err)
		}
		board, err := buildCards(seat.Board)
		if err != nil {
			return nil, fmt.Errorf("config: seat %d board: %w", seat.Id, err)
		}
		for j := range board {
			board[j].Exhausted = false
		}
		deck, err := buildCards(seat.Deck)
		if err != nil {
			return nil, fmt.Errorf("config: seat %d deck: %w", seat.Id, err)
		}

		players[i] = engine.NewPlayer(seat.Id, seat.Health, seat.Armor, seat.Mana, hand, board, deck)
	}

	state := engine.NewGameState(players, s.CurrentPlayer)
	if phase, ok := parsePhase(s.Phase); ok {
		state = state.WithPhase(phase)
	}
	return state, nil
}

// SeatAgentConfig returns the AI config a CLI driver should use for seat
// index i, falling back to defaultConfig when the scenario leaves
// strategy/difficulty unset.
func (s *Scenario) SeatAgentConfig(i int, defaultConfig ai.Config) ai.Config {
	if i < 0 || i >= len(s.Seats) {
		return defaultConfig
	}
	seat := s.Seats[i]

	config := defaultConfig
	if seat.Difficulty != "" {
		if difficulty, ok := ai.ParseDifficulty(seat.Difficulty); ok {
			config = ai.ConfigFromDifficulty(difficulty)
		}
	}
	if seat.Strategy != "" {
		if strategy, ok := ai.ParseStrategy(seat.Strategy); ok {
			config = config.WithStrategy(strategy)
		}
	}
	return config
}

func buildCards(entries []CardEntry) ([]engine.Card, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	cards := make([]engine.Card, len(entries))
	for i, entry := range entries {
		cardType, ok := parseCardType(entry.Type)
		if !ok {
			return nil, fmt.Errorf("unknown card type %q for card %d", entry.Type, entry.Id)
		}

		effects := make([]engine.CardEffect, len(entry.Effects))
		for j, effectEntry := range entry.Effects {
			effect, err := buildEffect(effectEntry)
			if err != nil {
				return nil, fmt.Errorf("card %d effect %d: %w", entry.Id, j, err)
			}
			effects[j] = effect
		}

		cards[i] = engine.NewCard(entry.Id, entry.Name, entry.Cost, entry.Attack, entry.Health, cardType, effects)
	}
	return cards, nil
}

func buildEffect(entry EffectEntry) (engine.CardEffect, error) {
	trigger, ok := parseTrigger(entry.Trigger)
	if !ok {
		return engine.CardEffect{}, fmt.Errorf("unknown trigger %q", entry.Trigger)
	}
	target, ok := parseTarget(entry.Target)
	if !ok {
		return engine.CardEffect{}, fmt.Errorf("unknown target %q", entry.Target)
	}

	switch entry.Kind {
	case "damage":
		return engine.DirectDamageEffect(entry.Id, entry.Description, trigger, entry.Priority, entry.Amount, target), nil
	case "heal":
		return engine.HealEffect(entry.Id, entry.Description, trigger, entry.Priority, entry.Amount, target), nil
	case "draw":
		return engine.DrawCardEffect(entry.Id, entry.Description, trigger, entry.Priority, entry.Count, target), nil
	default:
		return engine.CardEffect{}, fmt.Errorf("unknown effect kind %q", entry.Kind)
	}
}

func parseCardType(s string) (engine.CardType, bool) {
	switch s {
	case "unit":
		return engine.CardTypeUnit, true
	case "spell":
		return engine.CardTypeSpell, true
	default:
		return 0, false
	}
}

func parsePhase(s string) (engine.GamePhase, bool) {
	switch s {
	case "mulligan":
		return engine.PhaseMulligan, true
	case "main":
		return engine.PhaseMain, true
	case "combat":
		return engine.PhaseCombat, true
	case "end":
		return engine.PhaseEnd, true
	default:
		return 0, false
	}
}

func parseTrigger(s string) (engine.EffectTrigger, bool) {
	switch s {
	case "on_play":
		return engine.TriggerOnPlay, true
	case "on_attack":
		return engine.TriggerOnAttack, true
	case "on_death":
		return engine.TriggerOnDeath, true
	case "on_turn_start":
		return engine.TriggerOnTurnStart, true
	case "on_turn_end":
		return engine.TriggerOnTurnEnd, true
	default:
		return 0, false
	}
}

func parseTarget(s string) (engine.EffectTarget, bool) {
	switch s {
	case "source":
		return engine.TargetSource, true
	case "opponent":
		return engine.TargetOpponent, true
	case "context":
		return engine.TargetContext, true
	default:
		return engine.EffectTarget{}, false
	}
}
