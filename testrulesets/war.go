package testrulesets

import "github.com/cardforge/ruleforge/ruleset"

// War is a two-player tableau-capture fixture: each player's stock
// pile feeds a single played card per round, and once either stock
// runs dry every remaining zone is swept into one shared pile via
// collect_all_to. It exists to exercise collect_all_to's
// sort-the-other-zone-names determinism, not to reproduce War's full
// rule set (there is no war-on-ties escalation here).
func War() *ruleset.Ruleset {
	cardValues := map[string]ruleset.CardValue{
		"2": ruleset.FixedValue(2), "3": ruleset.FixedValue(3), "4": ruleset.FixedValue(4),
		"5": ruleset.FixedValue(5), "6": ruleset.FixedValue(6), "7": ruleset.FixedValue(7),
		"8": ruleset.FixedValue(8), "9": ruleset.FixedValue(9), "10": ruleset.FixedValue(10),
		"J": ruleset.FixedValue(11), "Q": ruleset.FixedValue(12), "K": ruleset.FixedValue(13),
		"A": ruleset.FixedValue(14),
	}

	return &ruleset.Ruleset{
		Meta: ruleset.Meta{
			Name:    "War",
			Slug:    "war",
			Version: "1.0.0",
			Players: ruleset.PlayerRange{Min: 2, Max: 2},
		},
		Deck: ruleset.DeckConfig{
			Preset:     ruleset.DeckPresetStandard52,
			Copies:     1,
			CardValues: cardValues,
		},
		Zones: []ruleset.ZoneDefinition{
			{Name: "draw_pile"},
			{Name: "stock", Owners: []string{"player"}},
			{Name: "played", Owners: []string{"player"}},
			{Name: "winnings"},
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
					`deal("draw_pile", "stock", 26)`,
				},
				Transitions: []ruleset.Transition{
					{To: "battle", When: "true"},
				},
			},
			{
				Name: "battle",
				Kind: ruleset.PhaseAutomatic,
				AutomaticSequence: []string{
					`move_top("stock:0", "played:0", 1)`,
					`move_top("stock:1", "played:1", 1)`,
				},
				Transitions: []ruleset.Transition{
					{To: "game_over", When: `card_count("stock:0") == 0 || card_count("stock:1") == 0`},
					{To: "battle", When: "true"},
				},
			},
			{
				Name: "game_over",
				Kind: ruleset.PhaseAutomatic,
				AutomaticSequence: []string{
					`collect_all_to("winnings")`,
				},
				Transitions: []ruleset.Transition{
					{To: "game_over", When: "false"},
				},
			},
		},
	}
}
