package ai

import "github.com/kestrelforge/duelcore/engine"

// strategyWeights scales the five evaluation components into one score.
type strategyWeights struct {
	hero  float64
	board float64
	hand  float64
	mana  float64
	combo float64
}

func weightsFor(strategy Strategy, heroDiff, boardDiff float64) strategyWeights {
	switch strategy {
	case StrategyAggressive:
		return strategyWeights{hero: 3.0, board: 1.2, hand: 0.6, mana: 0.4, combo: 0.4}
	case StrategyControl:
		return strategyWeights{hero: 1.2, board: 2.4, hand: 1.6, mana: 0.8, combo: 0.5}
	case StrategyCombo:
		return strategyWeights{hero: 1.0, board: 1.4, hand: 1.8, mana: 0.9, combo: 2.6}
	case StrategyAdaptive:
		return adaptiveWeights(heroDiff, boardDiff)
	default:
		return strategyWeights{hero: 1.0, board: 1.0, hand: 1.0, mana: 0.5, combo: 0.3}
	}
}

// adaptiveWeights leans harder on whichever axis (hero health or board
// presence) the player is currently behind on.
func adaptiveWeights(heroDiff, boardDiff float64) strategyWeights {
	heroWeight := 1.4
	if heroDiff < 0 {
		heroWeight = 2.6
	}
	boardWeight := 1.6
	if boardDiff < 0 {
		boardWeight = 2.8
	}
	return strategyWeights{hero: heroWeight, board: boardWeight, hand: 1.3, mana: 0.9, combo: 1.1}
}

func boardValue(cards []engine.Card) float64 {
	var total float64
	for _, card := range cards {
		atk := card.Attack
		if atk < 0 {
			atk = 0
		}
		hp := card.Health
		if hp < 0 {
			hp = 0
		}
		total += float64(atk)*1.6 + float64(hp)
	}
	return total
}

func comboPotential(cards []engine.Card) float64 {
	var total float64
	for _, card := range cards {
		effectScore := float64(len(card.Effects))
		spellBonus := 0.0
		if card.CardType == engine.CardTypeSpell {
			spellBonus = 1.0
		}
		total += effectScore*0.8 + spellBonus
	}
	return total
}

// evaluationComponents returns (heroDiff, boardDiff, handDiff, manaDiff,
// comboValue) for playerId relative to its opponent.
func evaluationComponents(state *engine.GameState, playerId engine.PlayerId) (float64, float64, float64, float64, float64) {
	player := state.GetPlayer(playerId)
	if player == nil {
		return 0, 0, 0, 0, 0
	}
	opponentId, _ := state.OpponentOf(playerId)
	opponent := state.GetPlayer(opponentId)

	opponentHero := 0.0
	opponentBoard := 0.0
	opponentHand := 0.0
	opponentMana := 0.0
	if opponent != nil {
		opponentHero = float64(opponent.Health) + float64(opponent.Armor)
		opponentBoard = boardValue(opponent.Board)
		opponentHand = float64(len(opponent.Hand))
		opponentMana = float64(opponent.Mana)
	}

	heroDiff := float64(player.Health) + float64(player.Armor) - opponentHero
	boardDiff := boardValue(player.Board) - opponentBoard
	handDiff := float64(len(player.Hand)) - opponentHand
	manaDiff := float64(player.Mana) - opponentMana
	comboValue := comboPotential(player.Hand)

	return heroDiff, boardDiff, handDiff, manaDiff, comboValue
}

// aggressiveScore favors actions that deal the most damage to the
// opponent's hero plus leave the biggest board behind.
func aggressiveScore(base *engine.GameState, candidate transition, playerId engine.PlayerId) float64 {
	opponentBefore := 0.0
	if opponentId, ok := base.OpponentOf(playerId); ok {
		if player := base.GetPlayer(opponentId); player != nil {
			opponentBefore = float64(player.Health) + float64(player.Armor)
		}
	}
	opponentAfter := 0.0
	if opponentId, ok := candidate.state.OpponentOf(playerId); ok {
		if player := candidate.state.GetPlayer(opponentId); player != nil {
			opponentAfter = float64(player.Health) + float64(player.Armor)
		}
	}
	damage := opponentBefore - opponentAfter

	attackerBoard := 0.0
	if player := candidate.state.GetPlayer(playerId); player != nil {
		attackerBoard = boardValue(player.Board)
	}

	return damage + attackerBoard
}

// controlScore favors actions that grow the player's own board relative
// to its starting value while denying the opponent's.
func controlScore(base *engine.GameState, candidate transition, playerId engine.PlayerId) float64 {
	boardBefore := 0.0
	if player := base.GetPlayer(playerId); player != nil {
		boardBefore = boardValue(player.Board)
	}
	boardAfter := 0.0
	if player := candidate.state.GetPlayer(playerId); player != nil {
		boardAfter = boardValue(player.Board)
	}
	opponentBoard := 0.0
	if opponentId, ok := candidate.state.OpponentOf(playerId); ok {
		if player := candidate.state.GetPlayer(opponentId); player != nil {
			opponentBoard = boardValue(player.Board)
		}
	}
	return (boardAfter - boardBefore) - opponentBoard
}

// comboScore favors actions that spend hand potential into board
// potential rather than leaving synergy sitting in hand.
func comboScore(base *engine.GameState, candidate transition, playerId engine.PlayerId) float64 {
	comboBefore := 0.0
	if player := base.GetPlayer(playerId); player != nil {
		comboBefore = comboPotential(player.Hand)
	}
	comboAfter := 0.0
	boardCombo := 0.0
	if player := candidate.state.GetPlayer(playerId); player != nil {
		comboAfter = comboPotential(player.Hand)
		boardCombo = comboPotential(player.Board)
	}
	return comboBefore - comboAfter + boardCombo
}
