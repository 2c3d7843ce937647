package reduce

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/ruleforge/initgame"
	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
	"github.com/cardforge/ruleforge/testrulesets"
)

var now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newBlackjack(t *testing.T, seed uint32, playerIDs ...string) (*Reducer, *ruleset.CardGameState) {
	t.Helper()
	rs := testrulesets.Blackjack()
	reg := registry.NewDefaultRegistry()
	r, err := New(rs, reg)
	require.NoError(t, err)

	players := make([]ruleset.Player, len(playerIDs))
	for i, id := range playerIDs {
		players[i] = ruleset.Player{ID: id, Role: "player", Connected: true}
	}
	state, err := initgame.New(rs, initgame.Options{Seed: seed, Players: players})
	require.NoError(t, err)
	return r, state
}

// Scenario 1: after start_game, dealing has run once and player_turns
// is the active phase with the first player to act.
func TestBlackjackStartGameDealsAndEntersPlayerTurns(t *testing.T) {
	r, state := newBlackjack(t, 42, "p0", "p1")

	next, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	require.Len(t, next.Zones["draw_pile"].Cards, 46)
	require.Len(t, next.Zones["hand:0"].Cards, 2)
	require.Len(t, next.Zones["hand:1"].Cards, 2)
	require.True(t, next.Zones["dealer_hand"].Cards[0].FaceUp)
	require.False(t, next.Zones["dealer_hand"].Cards[1].FaceUp)
	require.Equal(t, "player_turns", next.CurrentPhase)
	require.Equal(t, 0, next.CurrentPlayerIndex)
	require.Equal(t, ruleset.StatusInProgress, next.Status.Kind)
}

// Scenario 2: a rigged 20-value hand that draws a 10 busts, and the
// auto_end_turn_condition fires exactly once to advance the turn.
func TestBlackjackHitBustAutoEndsTurn(t *testing.T) {
	r, state := newBlackjack(t, 42, "p0", "p1")
	started, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	rigged := started.Clone()
	hand := rigged.Zones["hand:0"]
	hand.Cards = []ruleset.Card{
		{ID: "rig-k-spades", Suit: "spades", Rank: "K"},
		{ID: "rig-q-hearts", Suit: "hearts", Rank: "Q"},
	}
	rigged.Zones["hand:0"] = hand
	drawPile := rigged.Zones["draw_pile"]
	drawPile.Cards = append([]ruleset.Card{{ID: "rig-10-clubs", Suit: "clubs", Rank: "10"}}, drawPile.Cards...)
	rigged.Zones["draw_pile"] = drawPile

	next, err := r.Reduce(rigged, ruleset.DeclareAction{PlayerID: "p0", Declaration: "hit"}, now)
	require.NoError(t, err)

	require.Len(t, next.Zones["hand:0"].Cards, 3)
	require.Equal(t, 1, next.CurrentPlayerIndex)
	require.Equal(t, "player_turns", next.CurrentPhase)
}

// Scenario 3: stand advances to the next player exactly once, with no
// double-apply of end_turn (stand's own effect and auto_end_turn_condition
// must not both fire).
func TestBlackjackStandEndsTurnExactlyOnce(t *testing.T) {
	r, state := newBlackjack(t, 42, "p0", "p1")
	started, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	next, err := r.Reduce(started, ruleset.DeclareAction{PlayerID: "p0", Declaration: "stand"}, now)
	require.NoError(t, err)

	require.Equal(t, 1, next.CurrentPlayerIndex)
	require.Equal(t, 1, next.TurnsTakenThisPhase)
	require.Equal(t, "player_turns", next.CurrentPhase)
}

// Scenario 4: start_game is idempotent once the game is already in
// progress — a second call is a true no-op, returning the same pointer.
func TestBlackjackSecondStartGameIsNoOp(t *testing.T) {
	r, state := newBlackjack(t, 42, "p0", "p1")
	started, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	again, err := r.Reduce(started, ruleset.StartGameAction{}, now)
	require.NoError(t, err)
	require.Same(t, started, again)
}

// Scenario 5: replaying the same seed through start_game twice,
// independently, produces byte-identical card sequences in every zone.
func TestBlackjackReplayIsDeterministic(t *testing.T) {
	r1, s1 := newBlackjack(t, 123, "p0", "p1")
	first, err := r1.Reduce(s1, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	r2, s2 := newBlackjack(t, 123, "p0", "p1")
	second, err := r2.Reduce(s2, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	require.Equal(t, first.Zones["draw_pile"].Cards, second.Zones["draw_pile"].Cards)
	require.Equal(t, first.Zones["hand:0"].Cards, second.Zones["hand:0"].Cards)
	require.Equal(t, first.Zones["hand:1"].Cards, second.Zones["hand:1"].Cards)
	require.Equal(t, first.Zones["dealer_hand"].Cards, second.Zones["dealer_hand"].Cards)
}

// An invalid action is a reference-identical no-op: declaring an
// action that isn't legal for the acting player returns state
// unchanged.
func TestBlackjackInvalidDeclareIsNoOp(t *testing.T) {
	r, state := newBlackjack(t, 42, "p0", "p1")
	started, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	next, err := r.Reduce(started, ruleset.DeclareAction{PlayerID: "p1", Declaration: "hit"}, now)
	require.NoError(t, err)
	require.Same(t, started, next)
}

func newWar(t *testing.T, seed uint32, playerIDs ...string) (*Reducer, *ruleset.CardGameState) {
	t.Helper()
	rs := testrulesets.War()
	reg := registry.NewDefaultRegistry()
	r, err := New(rs, reg)
	require.NoError(t, err)

	players := make([]ruleset.Player, len(playerIDs))
	for i, id := range playerIDs {
		players[i] = ruleset.Player{ID: id, Role: "player", Connected: true}
	}
	state, err := initgame.New(rs, initgame.Options{Seed: seed, Players: players})
	require.NoError(t, err)
	return r, state
}

// The War fixture plays every card in both stocks automatically via
// the "battle" self-transition loop, then sweeps every remaining zone
// into "winnings" with collect_all_to once a stock empties.
func TestWarCollectsAllZonesOnceAStockEmpties(t *testing.T) {
	r, state := newWar(t, 7, "p0", "p1")

	next, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	require.Equal(t, "game_over", next.CurrentPhase)
	require.Empty(t, next.Zones["stock:0"].Cards)
	require.Empty(t, next.Zones["stock:1"].Cards)
	require.Empty(t, next.Zones["played:0"].Cards)
	require.Empty(t, next.Zones["played:1"].Cards)
	require.Len(t, next.Zones["winnings"].Cards, 52)
}

func newHearts(t *testing.T, seed uint32, playerIDs ...string) (*Reducer, *ruleset.CardGameState) {
	t.Helper()
	rs := testrulesets.Hearts()
	reg := registry.NewDefaultRegistry()
	r, err := New(rs, reg)
	require.NoError(t, err)

	players := make([]ruleset.Player, len(playerIDs))
	for i, id := range playerIDs {
		players[i] = ruleset.Player{ID: id, Role: "player", Connected: true}
	}
	state, err := initgame.New(rs, initgame.Options{Seed: seed, Players: players})
	require.NoError(t, err)
	return r, state
}

// After start_game, dealing has run once: every hand has 13 cards and
// the first trick is awaiting declared play_card actions.
func TestHeartsStartGameDealsThirteenEach(t *testing.T) {
	r, state := newHearts(t, 9, "p0", "p1", "p2", "p3")

	next, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)

	require.Equal(t, "trick", next.CurrentPhase)
	for i := 0; i < 4; i++ {
		require.Len(t, next.Zones[handZone(i)].Cards, 13)
	}
}

func handZone(i int) string {
	return "hand:" + strconv.Itoa(i)
}

// Playing one full trick resolves it via trick_winner/collect_trick:
// the lead player for the next trick becomes whoever won this one,
// and every played card lands in that winner's own won_tricks pile.
func TestHeartsResolvesATrickIntoTheWinnersPile(t *testing.T) {
	r, state := newHearts(t, 9, "p0", "p1", "p2", "p3")
	started, err := r.Reduce(state, ruleset.StartGameAction{}, now)
	require.NoError(t, err)
	require.Equal(t, "trick", started.CurrentPhase)

	current := started
	for i := 0; i < 4; i++ {
		playerID := started.Players[current.CurrentPlayerIndex].ID
		next, err := r.Reduce(current, ruleset.DeclareAction{PlayerID: playerID, Declaration: "play_card"}, now)
		require.NoError(t, err)
		current = next
	}

	require.Equal(t, "trick", current.CurrentPhase)
	totalWon := 0
	for i := 0; i < 4; i++ {
		totalWon += len(current.Zones["won_tricks:"+strconv.Itoa(i)].Cards)
	}
	require.Equal(t, 4, totalWon)
	for i := 0; i < 4; i++ {
		require.Empty(t, current.Zones["played:"+strconv.Itoa(i)].Cards)
	}
}
