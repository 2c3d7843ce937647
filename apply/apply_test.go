package apply

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
	"github.com/cardforge/ruleforge/rng"
)

func card(rank, suit string) ruleset.Card {
	return ruleset.Card{Rank: rank, Suit: suit, FaceUp: false}
}

func baseState(zones map[string]ruleset.ZoneState) *ruleset.CardGameState {
	return &ruleset.CardGameState{
		Ruleset: &ruleset.Ruleset{
			Deck: ruleset.DeckConfig{
				CardValues: map[string]ruleset.CardValue{
					"A": ruleset.DualValue(1, 11),
					"K": ruleset.FixedValue(10),
				},
			},
			Scoring: ruleset.ScoringConfig{
				Method:       "hand_value(current_player.hand)",
				WinCondition: "my_score == 21",
				BustCondition: "my_score > 21",
			},
		},
		Zones:     zones,
		Scores:    map[string]float64{},
		Variables: map[string]float64{},
		Players: []ruleset.Player{
			{ID: "p0", Name: "Alice", Role: "player"},
			{ID: "p1", Name: "Bob", Role: "player"},
		},
		TurnDirection: 1,
		RNG:           rng.New(42),
	}
}

func TestApplyDealSpreadsToPerPlayerZones(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{
		"deck":    {Cards: []ruleset.Card{card("A", "spades"), card("K", "hearts"), card("A", "clubs"), card("K", "diamonds")}},
		"hand:0":  {},
		"hand:1":  {},
	})
	next, err := ApplyEffects(s, []registry.EffectDescription{
		{Kind: "deal", Params: map[string]any{"from": "deck", "to": "hand", "count": 2}},
	}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Len(t, next.Zones["hand:0"].Cards, 2)
	require.Len(t, next.Zones["hand:1"].Cards, 2)
	require.Len(t, next.Zones["deck"].Cards, 0)
	// original untouched
	require.Len(t, s.Zones["deck"].Cards, 4)
}

func TestApplyShuffleDoesNotMutateInput(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{
		"deck": {Cards: []ruleset.Card{card("A", "spades"), card("K", "hearts"), card("A", "clubs")}},
	})
	orig := append([]ruleset.Card(nil), s.Zones["deck"].Cards...)
	_, err := ApplyEffects(s, []registry.EffectDescription{
		{Kind: "shuffle", Params: map[string]any{"zone": "deck"}},
	}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, orig, s.Zones["deck"].Cards)
}

func TestApplyUnknownEffectKindIsIgnored(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{"deck": {}})
	next, err := ApplyEffects(s, []registry.EffectDescription{
		{Kind: "some_future_effect", Params: map[string]any{"x": 1}},
	}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.NotNil(t, next)
}

func TestApplyEndTurnAdvancesPlayerAndWraps(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{})
	s.CurrentPlayerIndex = 1
	next, err := ApplyEffects(s, []registry.EffectDescription{{Kind: "end_turn"}}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 0, next.CurrentPlayerIndex)
	require.Equal(t, 1, next.TurnsTakenThisPhase)
}

func TestApplyCollectAllToIsDeterministicAcrossZoneOrder(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{
		"discard": {},
		"hand:1":  {Cards: []ruleset.Card{card("K", "diamonds")}},
		"hand:0":  {Cards: []ruleset.Card{card("A", "spades")}},
	})
	next, err := ApplyEffects(s, []registry.EffectDescription{
		{Kind: "collect_all_to", Params: map[string]any{"to": "discard"}},
	}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Len(t, next.Zones["discard"].Cards, 2)
	require.Equal(t, "A", next.Zones["discard"].Cards[0].Rank)
	require.Equal(t, "K", next.Zones["discard"].Cards[1].Rank)
	for _, c := range next.Zones["discard"].Cards {
		require.False(t, c.FaceUp)
	}
}

func TestApplyCollectTrickGathersInPlayerOrder(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{
		"trick":      {},
		"played:1":   {Cards: []ruleset.Card{card("K", "diamonds")}},
		"played:0":   {Cards: []ruleset.Card{card("A", "spades")}},
	})
	next, err := ApplyEffects(s, []registry.EffectDescription{
		{Kind: "collect_trick", Params: map[string]any{"prefix": "played", "target": "trick"}},
	}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Len(t, next.Zones["trick"].Cards, 2)
	require.Equal(t, "A", next.Zones["trick"].Cards[0].Rank)
	require.Equal(t, "K", next.Zones["trick"].Cards[1].Rank)
}

func TestApplyCalculateScoresAndDetermineWinners(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{
		"hand:0": {Cards: []ruleset.Card{card("A", "spades"), card("K", "hearts")}},
		"hand:1": {Cards: []ruleset.Card{card("K", "hearts"), card("K", "clubs"), card("A", "diamonds")}},
	})
	next, err := ApplyEffects(s, []registry.EffectDescription{
		{Kind: "calculate_scores"},
		{Kind: "determine_winners"},
	}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 21.0, next.Scores["player_score:0"])
	require.Equal(t, 1.0, next.Scores["result:0"])
	require.Equal(t, 1.0, next.Scores["result:1"])
}

func TestApplyAccumulateScoresAddsToCumulative(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{})
	s.Scores["player_score:0"] = 10
	s.Scores["cumulative_score_0"] = 5
	next, err := ApplyEffects(s, []registry.EffectDescription{{Kind: "accumulate_scores"}}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 15.0, next.Scores["cumulative_score_0"])
}

func TestApplyResetRoundPreservesOnlyCumulativeScores(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{})
	s.Ruleset.InitialVariables = map[string]float64{"lead_player": 0}
	s.Scores["cumulative_score_0"] = 7
	s.Scores["player_score:0"] = 21
	s.Variables["lead_player"] = 1

	next, err := ApplyEffects(s, []registry.EffectDescription{{Kind: "reset_round"}}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 7.0, next.Scores["cumulative_score_0"])
	_, ok := next.Scores["player_score:0"]
	require.False(t, ok)
	require.Equal(t, 0.0, next.Variables["lead_player"])
}

func TestApplyEndGameSetsFinishedStatusWithFirstWinner(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{})
	s.Scores["result:0"] = -1
	s.Scores["result:1"] = 1
	now := time.Now()
	next, err := ApplyEffects(s, []registry.EffectDescription{{Kind: "end_game"}}, registry.NewDefaultRegistry(), now)
	require.NoError(t, err)
	require.Equal(t, ruleset.StatusFinished, next.Status.Kind)
	require.True(t, next.Status.HasWinner)
	require.Equal(t, "p1", next.Status.WinnerID)
}

func TestApplyResetRoundAdvancesTurnNumberAndResetsDirection(t *testing.T) {
	s := baseState(map[string]ruleset.ZoneState{})
	s.TurnNumber = 3
	s.TurnDirection = -1
	s.CurrentPlayerIndex = 1
	s.TurnsTakenThisPhase = 5

	next, err := ApplyEffects(s, []registry.EffectDescription{{Kind: "reset_round"}}, registry.NewDefaultRegistry(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 4, next.TurnNumber)
	require.Equal(t, 1, next.TurnDirection)
	require.Equal(t, 0, next.CurrentPlayerIndex)
	require.Equal(t, 0, next.TurnsTakenThisPhase)
}
