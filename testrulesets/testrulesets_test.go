package testrulesets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/ruleforge/initgame"
	"github.com/cardforge/ruleforge/phase"
	"github.com/cardforge/ruleforge/ruleset"
)

func TestBlackjackFormsAValidPhaseMachine(t *testing.T) {
	rs := Blackjack()
	_, err := phase.NewMachine(rs.Phases)
	require.NoError(t, err)
}

func TestWarFormsAValidPhaseMachine(t *testing.T) {
	rs := War()
	_, err := phase.NewMachine(rs.Phases)
	require.NoError(t, err)
}

func TestHeartsFormsAValidPhaseMachine(t *testing.T) {
	rs := Hearts()
	_, err := phase.NewMachine(rs.Phases)
	require.NoError(t, err)
}

func TestBlackjackInitialStateDealsTwoPlayersAndDealer(t *testing.T) {
	rs := Blackjack()
	state, err := initgame.New(rs, initgame.Options{
		Seed:    42,
		Players: []ruleset.Player{{ID: "p0"}, {ID: "p1"}},
	})
	require.NoError(t, err)
	require.Equal(t, "dealing", state.CurrentPhase)
	require.Len(t, state.Zones["draw_pile"].Cards, 52)
	require.Contains(t, state.Zones, "hand:0")
	require.Contains(t, state.Zones, "hand:1")
	require.Contains(t, state.Zones, "dealer_hand")
	require.NotContains(t, state.Zones, "dealer_hand:0")
}

func TestWarInitialStateSplitsDeckIntoTwoStocks(t *testing.T) {
	rs := War()
	state, err := initgame.New(rs, initgame.Options{
		Seed:    7,
		Players: []ruleset.Player{{ID: "p0"}, {ID: "p1"}},
	})
	require.NoError(t, err)
	require.Len(t, state.Zones["draw_pile"].Cards, 52)
	require.Contains(t, state.Zones, "stock:0")
	require.Contains(t, state.Zones, "stock:1")
	require.Contains(t, state.Zones, "winnings")
	require.NotContains(t, state.Zones, "winnings:0")
}

func TestHeartsInitialStateDealsFourHands(t *testing.T) {
	rs := Hearts()
	state, err := initgame.New(rs, initgame.Options{
		Seed: 3,
		Players: []ruleset.Player{
			{ID: "p0"}, {ID: "p1"}, {ID: "p2"}, {ID: "p3"},
		},
	})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("hand:%d", i)
		require.Contains(t, state.Zones, name)
		require.Contains(t, state.Zones, fmt.Sprintf("won_tricks:%d", i))
	}
}
