package engine

// Sample builds a fixed demo match state used by tests, CLI scenarios, and
// anywhere else a ready-to-play board is needed without wiring up a full
// deck-builder. It mirrors a specific hand-authored seed rather than
// anything randomly generated, down to the exact card ids, so test
// expectations can assert on concrete values.
func Sample() *GameState {
	fireballEffect := DirectDamageEffect(101, "Ignite: deal 6 damage to a chosen target", TriggerOnPlay, 5, 6, TargetContext)
	drawEffect := DrawCardEffect(102, "Insight: draw a card", TriggerOnPlay, 4, 1, TargetSource)
	blessingEffect := HealEffect(103, "Blessing: restore 5 health to the target", TriggerOnPlay, 5, 5, TargetContext)
	footmanEffect := HealEffect(201, "Sentry: at turn end restore 1 health to your hero", TriggerOnTurnEnd, 3, 1, TargetSource)
	guardianDeathEffect := HealEffect(202, "Last Stand: on death restore 3 health to your hero", TriggerOnDeath, 4, 3, TargetSource)
	meteorEffect := NewCardEffect(203, "Meteor Strike: deal 3 to opposing hero and draw a card", TriggerOnPlay, 5,
		CompositeEffect(
			EffectKind{Tag: EffectDirectDamage, Amount: 3, Target: TargetOpponent},
			EffectKind{Tag: EffectDrawCard, Count: 1, Target: TargetSource},
		))
	shadowbladeEffect := DirectDamageEffect(204, "Shadow Lunge: on attack deal 2 additional damage to the target", TriggerOnAttack, 4, 2, TargetContext)
	bulwarkEffect := HealEffect(205, "Bulwark: at turn start restore 2 health to your hero", TriggerOnTurnStart, 3, 2, TargetSource)
	oracleEffect := NewCardEffect(206, "Foresight: draw a card, then choose what to discard", TriggerOnPlay, 4, DrawPendingDiscardEffect(TargetSource))

	fireballHandP1 := NewCard(1, "Fireball", 4, 0, 0, CardTypeSpell, []CardEffect{fireballEffect})

	footmanBoardP1 := NewCard(2, "Vanguard Footman", 1, 1, 2, CardTypeUnit, []CardEffect{footmanEffect})
	footmanBoardP1.Exhausted = false

	arcaneScholarHandP1 := NewCard(3, "Arcane Scholar", 2, 2, 3, CardTypeUnit, []CardEffect{drawEffect})

	guardianGolemDeckP1 := NewCard(4, "Guardian Golem", 5, 5, 6, CardTypeUnit, []CardEffect{guardianDeathEffect})

	celestialBlessingDeckP1 := NewCard(5, "Celestial Blessing", 3, 0, 0, CardTypeSpell, []CardEffect{blessingEffect})

	meteorStrikeDeckP2 := NewCard(6, "Meteor Strike", 4, 0, 0, CardTypeSpell, []CardEffect{meteorEffect})

	shadowbladeHandP2 := NewCard(7, "Shadowblade Adept", 3, 4, 2, CardTypeUnit, []CardEffect{shadowbladeEffect})

	bulwarkBoardP2 := NewCard(8, "Steel Bulwark", 2, 2, 4, CardTypeUnit, []CardEffect{bulwarkEffect})
	bulwarkBoardP2.Exhausted = false

	oracleHandP2 := NewCard(9, "Oracle of Foresight", 2, 0, 0, CardTypeSpell, []CardEffect{oracleEffect})

	playerOne := NewPlayer(0, 30, 0, 5,
		[]Card{fireballHandP1, arcaneScholarHandP1},
		[]Card{footmanBoardP1},
		[]Card{guardianGolemDeckP1, celestialBlessingDeckP1},
	)

	playerTwo := NewPlayer(1, 30, 0, 4,
		[]Card{shadowbladeHandP2, oracleHandP2},
		[]Card{bulwarkBoardP2},
		[]Card{meteorStrikeDeckP2},
	)

	state := NewGameState([]Player{playerOne, playerTwo}, 0).WithPhase(PhaseMain)

	state.RecordEvent(CardDrawn{PlayerId: 0, CardId: arcaneScholarHandP1.Id})
	state.RecordEvent(CardPlayed{PlayerId: 0, CardId: arcaneScholarHandP1.Id})
	state.RecordEvent(CardPlayed{PlayerId: 1, CardId: shadowbladeHandP2.Id})

	var effectEngine EffectEngine
	context := NewEffectContext(TriggerOnPlay, 0, state.CurrentPlayer).WithSourceCard(arcaneScholarHandP1.Id)
	effectEngine.QueueCardEffects(&arcaneScholarHandP1, context)
	effectEngine.ResolveAll(state)

	return state
}
