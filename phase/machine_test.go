package phase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
	"github.com/cardforge/ruleforge/rng"
)

func testPhases() []ruleset.PhaseDefinition {
	return []ruleset.PhaseDefinition{
		{
			Name: "dealing",
			Kind: ruleset.PhaseAutomatic,
			AutomaticSequence: []string{
				"deal(\"deck\", \"hand\", 2)",
			},
			Transitions: []ruleset.Transition{
				{To: "betting", When: "true"},
			},
		},
		{
			Name:        "betting",
			Kind:        ruleset.PhaseTurnBased,
			Transitions: []ruleset.Transition{{To: "dealing", When: "false"}},
		},
	}
}

func testState() *ruleset.CardGameState {
	return &ruleset.CardGameState{
		Ruleset:      &ruleset.Ruleset{},
		CurrentPhase: "dealing",
		Zones: map[string]ruleset.ZoneState{
			"deck":   {Cards: []ruleset.Card{{Rank: "A", Suit: "spades"}, {Rank: "K", Suit: "hearts"}, {Rank: "Q", Suit: "clubs"}, {Rank: "J", Suit: "diamonds"}}},
			"hand:0": {},
			"hand:1": {},
		},
		Scores:        map[string]float64{},
		Variables:     map[string]float64{},
		Players:       []ruleset.Player{{ID: "p0"}, {ID: "p1"}},
		TurnDirection: 1,
		RNG:           rng.New(1),
	}
}

func TestNewMachineRejectsDuplicateNames(t *testing.T) {
	_, err := NewMachine([]ruleset.PhaseDefinition{
		{Name: "a", Transitions: []ruleset.Transition{}},
		{Name: "a", Transitions: []ruleset.Transition{}},
	})
	require.Error(t, err)
}

func TestNewMachineRejectsUnknownTransitionTarget(t *testing.T) {
	_, err := NewMachine([]ruleset.PhaseDefinition{
		{Name: "a", Transitions: []ruleset.Transition{{To: "nope", When: "true"}}},
	})
	require.Error(t, err)
}

func TestEvaluateTransitionsFirstTrueWins(t *testing.T) {
	m, err := NewMachine([]ruleset.PhaseDefinition{
		{Name: "a", Transitions: []ruleset.Transition{
			{To: "b", When: "false"},
			{To: "c", When: "true"},
			{To: "a", When: "true"},
		}},
		{Name: "b", Transitions: nil},
		{Name: "c", Transitions: nil},
	})
	require.NoError(t, err)
	state := &ruleset.CardGameState{CurrentPhase: "a", Scores: map[string]float64{}, Variables: map[string]float64{}}
	result, err := EvaluateTransitions(state, m, registry.NewDefaultRegistry())
	require.NoError(t, err)
	require.True(t, result.Advance)
	require.Equal(t, "c", result.Next)
}

func TestEvaluateTransitionsStaysWhenNoneMatch(t *testing.T) {
	m, err := NewMachine([]ruleset.PhaseDefinition{
		{Name: "a", Transitions: []ruleset.Transition{{To: "a", When: "false"}}},
	})
	require.NoError(t, err)
	state := &ruleset.CardGameState{CurrentPhase: "a", Scores: map[string]float64{}, Variables: map[string]float64{}}
	result, err := EvaluateTransitions(state, m, registry.NewDefaultRegistry())
	require.NoError(t, err)
	require.False(t, result.Advance)
}

func TestEvaluateTransitionsLogsExpressionErrorAndContinues(t *testing.T) {
	m, err := NewMachine([]ruleset.PhaseDefinition{
		{Name: "a", Transitions: []ruleset.Transition{
			{To: "a", When: "unknown_identifier_xyz"},
			{To: "b", When: "true"},
		}},
		{Name: "b", Transitions: nil},
	})
	require.NoError(t, err)
	state := &ruleset.CardGameState{CurrentPhase: "a", Scores: map[string]float64{}, Variables: map[string]float64{}}
	result, err := EvaluateTransitions(state, m, registry.NewDefaultRegistry())
	require.NoError(t, err)
	require.True(t, result.Advance)
	require.Equal(t, "b", result.Next)
}

func TestExecuteAutomaticFailsOnNonAutomaticPhase(t *testing.T) {
	m, err := NewMachine(testPhases())
	require.NoError(t, err)
	state := testState()
	state.CurrentPhase = "betting"
	_, _, err = ExecuteAutomatic(state, m, registry.NewDefaultRegistry(), time.Time{})
	require.Error(t, err)
}

func TestExecuteAutomaticRunsSequenceAndReturnsTrailingEffects(t *testing.T) {
	m, err := NewMachine(testPhases())
	require.NoError(t, err)
	state := testState()
	newState, effects, err := ExecuteAutomatic(state, m, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.NotNil(t, newState)
	require.Len(t, effects, 1)
	require.Equal(t, "deal", effects[0].Kind)
}

func TestIsAutomaticAndValidActionsFor(t *testing.T) {
	m, err := NewMachine(testPhases())
	require.NoError(t, err)
	require.True(t, m.IsAutomatic("dealing"))
	require.False(t, m.IsAutomatic("betting"))
	require.Nil(t, m.ValidActionsFor("dealing"))
}
