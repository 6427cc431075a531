package ai

import (
	"encoding/json"
	"fmt"

	"github.com/kestrelforge/duelcore/engine"
)

// GameActionTag discriminates the GameAction tagged union.
type GameActionTag uint8

const (
	ActionPlayCard GameActionTag = iota
	ActionMulligan
	ActionAttack
	ActionEndTurn
)

// GameAction is every shape of move the agent can propose or apply,
// mirroring the rule engine's action structs behind one discriminated
// type so search and serialization can treat them uniformly.
type GameAction struct {
	Tag      GameActionTag
	PlayCard engine.PlayCardAction
	Mulligan engine.MulliganAction
	Attack   engine.AttackAction
}

func PlayCardGameAction(action engine.PlayCardAction) GameAction {
	return GameAction{Tag: ActionPlayCard, PlayCard: action}
}

func MulliganGameAction(action engine.MulliganAction) GameAction {
	return GameAction{Tag: ActionMulligan, Mulligan: action}
}

func AttackGameAction(action engine.AttackAction) GameAction {
	return GameAction{Tag: ActionAttack, Attack: action}
}

func EndTurnGameAction() GameAction {
	return GameAction{Tag: ActionEndTurn}
}

// actionKey flattens the fields of a GameAction that generateTransitions
// actually produces (PlayCard, Attack, EndTurn — Mulligan never appears
// as a search transition) into a plain comparable struct, standing in for
// the derived PartialEq the action enum uses on the other side to dedup
// candidate actions without touching the resulting GameState.
type actionKey struct {
	tag             GameActionTag
	cardId          engine.CardId
	hasTargetPlayer bool
	targetPlayer    engine.PlayerId
	hasTargetCard   bool
	targetCard      engine.CardId
	defenderOwner   engine.PlayerId
	hasDefenderCard bool
	defenderCard    engine.CardId
}

func (a GameAction) key() actionKey {
	switch a.Tag {
	case ActionPlayCard:
		k := actionKey{tag: ActionPlayCard, cardId: a.PlayCard.CardId}
		if a.PlayCard.TargetPlayer != nil {
			k.hasTargetPlayer = true
			k.targetPlayer = *a.PlayCard.TargetPlayer
		}
		if a.PlayCard.TargetCard != nil {
			k.hasTargetCard = true
			k.targetCard = *a.PlayCard.TargetCard
		}
		return k
	case ActionAttack:
		k := actionKey{tag: ActionAttack, cardId: a.Attack.AttackerId, defenderOwner: a.Attack.DefenderOwner}
		if a.Attack.DefenderCard != nil {
			k.hasDefenderCard = true
			k.defenderCard = *a.Attack.DefenderCard
		}
		return k
	case ActionEndTurn:
		return actionKey{tag: ActionEndTurn}
	default:
		return actionKey{tag: a.Tag}
	}
}

func (a GameAction) String() string {
	switch a.Tag {
	case ActionPlayCard:
		return fmt.Sprintf("PlayCard(card=%d)", a.PlayCard.CardId)
	case ActionMulligan:
		return fmt.Sprintf("Mulligan(player=%d)", a.Mulligan.PlayerId)
	case ActionAttack:
		return fmt.Sprintf("Attack(attacker=%d)", a.Attack.AttackerId)
	case ActionEndTurn:
		return "EndTurn"
	default:
		return "Unknown"
	}
}

type taggedAction struct {
	Type   string `json:"type"`
	Action any    `json:"action,omitempty"`
}

// MarshalJSON emits the same {"type": "...", "action": {...}} shape the
// original engine's serde-tagged enum produces, with EndTurn carrying no
// action payload.
func (a GameAction) MarshalJSON() ([]byte, error) {
	switch a.Tag {
	case ActionPlayCard:
		return json.Marshal(taggedAction{Type: "PlayCard", Action: a.PlayCard})
	case ActionMulligan:
		return json.Marshal(taggedAction{Type: "Mulligan", Action: a.Mulligan})
	case ActionAttack:
		return json.Marshal(taggedAction{Type: "Attack", Action: a.Attack})
	case ActionEndTurn:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: "EndTurn"})
	default:
		return nil, fmt.Errorf("ai: unknown action tag %d", a.Tag)
	}
}

func (a *GameAction) UnmarshalJSON(data []byte) error {
	var tagged struct {
		Type   string          `json:"type"`
		Action json.RawMessage `json:"action"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}

	switch tagged.Type {
	case "PlayCard":
		var action engine.PlayCardAction
		if err := json.Unmarshal(tagged.Action, &action); err != nil {
			return err
		}
		*a = PlayCardGameAction(action)
	case "Mulligan":
		var action engine.MulliganAction
		if err := json.Unmarshal(tagged.Action, &action); err != nil {
			return err
		}
		*a = MulliganGameAction(action)
	case "Attack":
		var action engine.AttackAction
		if err := json.Unmarshal(tagged.Action, &action); err != nil {
			return err
		}
		*a = AttackGameAction(action)
	case "EndTurn":
		*a = EndTurnGameAction()
	default:
		return fmt.Errorf("ai: unknown action type %q", tagged.Type)
	}
	return nil
}
