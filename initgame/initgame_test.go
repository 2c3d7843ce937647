package initgame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/ruleforge/ruleset"
)

func testRuleset() *ruleset.Ruleset {
	return &ruleset.Ruleset{
		Meta: ruleset.Meta{Name: "Test", Slug: "test", Players: ruleset.PlayerRange{Min: 1, Max: 4}},
		Deck: ruleset.DeckConfig{Preset: ruleset.DeckPresetStandard52, Copies: 1},
		Zones: []ruleset.ZoneDefinition{
			{Name: "draw_pile"},
			{Name: "hand", Owners: []string{"player"}},
			{Name: "discard"},
		},
		Roles: []ruleset.Role{
			{Name: "player", IsHuman: true, Count: ruleset.PerPlayerCount()},
		},
		Phases: []ruleset.PhaseDefinition{
			{Name: "dealing", Kind: ruleset.PhaseAutomatic},
		},
		InitialVariables: map[string]float64{"lead_player": 0},
	}
}

func TestNewBuildsDeckAndExpandsPerPlayerZones(t *testing.T) {
	rs := testRuleset()
	state, err := New(rs, Options{
		Seed:    42,
		Players: []ruleset.Player{{ID: "p0"}, {ID: "p1"}},
	})
	require.NoError(t, err)
	require.Len(t, state.Zones["draw_pile"].Cards, 52)
	require.Contains(t, state.Zones, "hand:0")
	require.Contains(t, state.Zones, "hand:1")
	require.NotContains(t, state.Zones, "hand")
	require.Equal(t, ruleset.StatusWaitingForPlayers, state.Status.Kind)
	require.Equal(t, 0.0, state.Variables["lead_player"])
	require.Equal(t, "dealing", state.CurrentPhase)
}

func TestNewCardIDsAreDeterministicForSameSeed(t *testing.T) {
	rs := testRuleset()
	s1, err := New(rs, Options{Seed: 7, Players: []ruleset.Player{{ID: "p0"}}})
	require.NoError(t, err)
	s2, err := New(rs, Options{Seed: 7, Players: []ruleset.Player{{ID: "p0"}}})
	require.NoError(t, err)
	require.Equal(t, s1.Zones["draw_pile"].Cards, s2.Zones["draw_pile"].Cards)
}

func TestNewRejectsTooManyPlayers(t *testing.T) {
	rs := testRuleset()
	_, err := New(rs, Options{Seed: 1, Players: []ruleset.Player{{ID: "p0"}, {ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}}})
	require.Error(t, err)
}

func TestExpandZonesForPlayerAddsEmptyHand(t *testing.T) {
	rs := testRuleset()
	state, err := New(rs, Options{Seed: 1, Players: []ruleset.Player{{ID: "p0"}}})
	require.NoError(t, err)
	ExpandZonesForPlayer(rs, state.Zones, 1)
	require.Contains(t, state.Zones, "hand:1")
	require.Empty(t, state.Zones["hand:1"].Cards)
}
