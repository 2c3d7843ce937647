package testrulesets

import "github.com/cardforge/ruleforge/ruleset"

// Hearts is a four-player trick-taking fixture: every played card
// closes the acting player's turn, trick_winner/collect_trick settle
// each trick into the winner's own pile, and scoring counts hearts
// plus the queen of spades out of that pile. Follow-suit is not
// enforced here — the engine's declared-action conditions see
// current_player.hand/played, but a phase action can't pick a
// specific card by suit out of a zone, only move_top, so there is no
// builtin to condition a "must match led suit" rule on.
func Hearts() *ruleset.Ruleset {
	cardValues := map[string]ruleset.CardValue{
		"2": ruleset.FixedValue(1), "3": ruleset.FixedValue(1), "4": ruleset.FixedValue(1),
		"5": ruleset.FixedValue(1), "6": ruleset.FixedValue(1), "7": ruleset.FixedValue(1),
		"8": ruleset.FixedValue(1), "9": ruleset.FixedValue(1), "10": ruleset.FixedValue(1),
		"J": ruleset.FixedValue(1), "Q": ruleset.FixedValue(1), "K": ruleset.FixedValue(1),
		"A": ruleset.FixedValue(1),
	}

	return &ruleset.Ruleset{
		Meta: ruleset.Meta{
			Name:    "Hearts",
			Slug:    "hearts",
			Version: "1.0.0",
			Players: ruleset.PlayerRange{Min: 4, Max: 4},
		},
		Deck: ruleset.DeckConfig{
			Preset:     ruleset.DeckPresetStandard52,
			Copies:     1,
			CardValues: cardValues,
		},
		Zones: []ruleset.ZoneDefinition{
			{Name: "draw_pile"},
			{Name: "hand", Owners: []string{"player"}},
			{Name: "played", Owners: []string{"player"}},
			{Name: "won_tricks", Owners: []string{"player"}},
		},
		Roles: []ruleset.Role{
			{Name: "player", IsHuman: true, Count: ruleset.PerPlayerCount()},
		},
		Phases: []ruleset.PhaseDefinition{
			{
				Name: "dealing",
				Kind: ruleset.PhaseAutomatic,
				AutomaticSequence: []string{
					`shuffle("draw_pile")`,
					`deal("draw_pile", "hand", 13)`,
					`set_lead_player(0)`,
				},
				Transitions: []ruleset.Transition{
					{To: "trick", When: "true"},
				},
			},
			{
				Name: "trick",
				Kind: ruleset.PhaseTurnBased,
				Actions: []ruleset.PhaseAction{
					{
						Name:    "play_card",
						Label:   "Play top card",
						Effects: []string{`move_top(current_player.hand, current_player.played, 1)`},
					},
				},
				Transitions: []ruleset.Transition{
					{To: "resolve", When: "all_players_done()"},
				},
			},
			{
				Name: "resolve",
				Kind: ruleset.PhaseAutomatic,
				AutomaticSequence: []string{
					`set_lead_player(trick_winner("played"))`,
					`collect_trick("played", concat("won_tricks:", trick_winner("played")))`,
				},
				Transitions: []ruleset.Transition{
					{To: "scoring", When: `card_count("hand:0") == 0`},
					{To: "trick", When: "true"},
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
			Method:               `sum_zone_values_by_suit(current_player.won_tricks, "hearts") + if(has_card_with(current_player.won_tricks, "Q", "spades"), 13, 0)`,
			WinCondition:         `my_score <= 5`,
			AutoEndTurnCondition: "true",
		},
	}
}
