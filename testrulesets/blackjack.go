// Package testrulesets builds reference rulesets in Go: one
// constructor per named game, used by the reducer's own test suites.
package testrulesets

import "github.com/cardforge/ruleforge/ruleset"

// Blackjack is the dealer-vs-hand game the reducer's end-to-end
// scenario tests are written against: a dealer role with a single
// face-up/face-down opening hand, hit/stand declarations, and
// automatic dealer play down to a soft 17 cutoff.
func Blackjack() *ruleset.Ruleset {
	cardValues := map[string]ruleset.CardValue{
		"A": ruleset.DualValue(1, 11),
		"2": ruleset.FixedValue(2),
		"3": ruleset.FixedValue(3),
		"4": ruleset.FixedValue(4),
		"5": ruleset.FixedValue(5),
		"6": ruleset.FixedValue(6),
		"7": ruleset.FixedValue(7),
		"8": ruleset.FixedValue(8),
		"9": ruleset.FixedValue(9),
		"10": ruleset.FixedValue(10),
		"J": ruleset.FixedValue(10),
		"Q": ruleset.FixedValue(10),
		"K": ruleset.FixedValue(10),
	}

	return &ruleset.Ruleset{
		Meta: ruleset.Meta{
			Name:    "Blackjack",
			Slug:    "blackjack",
			Version: "1.0.0",
			Players: ruleset.PlayerRange{Min: 1, Max: 6},
		},
		Deck: ruleset.DeckConfig{
			Preset:     ruleset.DeckPresetStandard52,
			Copies:     1,
			CardValues: cardValues,
		},
		Zones: []ruleset.ZoneDefinition{
			{Name: "draw_pile"},
			{Name: "hand", Owners: []string{"player"}},
			{Name: "dealer_hand", Owners: []string{"dealer"}},
		},
		Roles: []ruleset.Role{
			{Name: "player", IsHuman: true, Count: ruleset.PerPlayerCount()},
			{Name: "dealer", IsHuman: false, Count: ruleset.FixedCount(1)},
		},
		Phases: []ruleset.PhaseDefinition{
			{
				Name: "dealing",
				Kind: ruleset.PhaseAutomatic,
				AutomaticSequence: []string{
					`shuffle("draw_pile")`,
					`deal("draw_pile", "hand", 2)`,
					`deal("draw_pile", "dealer_hand", 2)`,
					`set_face_up("dealer_hand", 0, true)`,
				},
				Transitions: []ruleset.Transition{
					{To: "player_turns", When: "true"},
				},
			},
			{
				Name: "player_turns",
				Kind: ruleset.PhaseTurnBased,
				Actions: []ruleset.PhaseAction{
					{
						Name:      "hit",
						Label:     "Hit",
						Condition: `hand_value(current_player.hand) < 21`,
						Effects:   []string{`draw("draw_pile", "hand", 1)`},
					},
					{
						Name:    "stand",
						Label:   "Stand",
						Effects: []string{`end_turn()`},
					},
				},
				Transitions: []ruleset.Transition{
					{To: "dealer_turn", When: "all_players_done()"},
				},
			},
			{
				Name: "dealer_turn",
				Kind: ruleset.PhaseAutomatic,
				AutomaticSequence: []string{
					`reveal_all("dealer_hand")`,
					`while(hand_value("dealer_hand") < 17, draw("draw_pile", "dealer_hand", 1))`,
				},
				Transitions: []ruleset.Transition{
					{To: "scoring", When: "true"},
				},
			},
			{
				Name: "scoring",
				Kind: ruleset.PhaseAutomatic,
				AutomaticSequence: []string{
					`calculate_scores()`,
					`determine_winners()`,
					`end_game()`,
				},
				Transitions: []ruleset.Transition{
					{To: "scoring", When: "false"},
				},
			},
		},
		Scoring: ruleset.ScoringConfig{
			Method:               `hand_value(current_player.hand)`,
			WinCondition:         `my_score <= 21 && my_score > dealer_score`,
			BustCondition:        `my_score > 21`,
			TieCondition:         `my_score == dealer_score`,
			AutoEndTurnCondition: `hand_value(current_player.hand) > 21`,
		},
	}
}
