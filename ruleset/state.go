package ruleset

import (
	"github.com/google/uuid"

	"github.com/cardforge/ruleforge/rng"
)

// SessionID identifies one played-out game. Generated by initgame.New
// when the caller supplies none; carried in the state and its JSON
// snapshots (ResolvedAction entries do not record it).
type SessionID = uuid.UUID

// CardGameState is the reducer's subject: a fully value-typed snapshot
// of one game in progress. Every state-producing operation returns a
// new CardGameState with Version bumped; the previous value is never
// mutated.
type CardGameState struct {
	SessionID SessionID
	Ruleset   *Ruleset // frozen reference; never mutated by the engine

	Status GameStatus

	Players []Player
	Zones   map[string]ZoneState

	CurrentPhase       string
	CurrentPlayerIndex int
	TurnNumber         int
	TurnDirection      int // +1 or -1

	TurnsTakenThisPhase int

	// Scores holds well-known keys: player_score:i, {role}_score,
	// result:i (-1 | 0 | 1), cumulative_score_i.
	Scores map[string]float64

	// Variables holds ruleset-defined named integers/floats (e.g.
	// trump_suit, lead_player), keyed by name.
	Variables map[string]float64

	ActionLog []ResolvedAction

	Version int

	// RNG is the generator card ids and shuffle draw from. It advances
	// as a value (see rng.RNG) so that replaying the same action
	// sequence from the same seed reproduces identical draws.
	RNG rng.RNG
}

// HumanPlayerCount returns the number of connected-or-not players
// holding a human role (i.e. len(Players), since non-human roles such
// as a dealer never occupy a Players slot).
func (s *CardGameState) HumanPlayerCount() int {
	return len(s.Players)
}

// Clone returns a deep-enough copy for the applier to mutate safely:
// top-level slices/maps are fresh, so callers never observe partial
// mutation of the input state.
func (s *CardGameState) Clone() *CardGameState {
	next := *s

	next.Players = append([]Player(nil), s.Players...)

	next.Zones = make(map[string]ZoneState, len(s.Zones))
	for name, zs := range s.Zones {
		cards := append([]Card(nil), zs.Cards...)
		next.Zones[name] = ZoneState{Definition: zs.Definition, Cards: cards}
	}

	next.Scores = make(map[string]float64, len(s.Scores))
	for k, v := range s.Scores {
		next.Scores[k] = v
	}

	next.Variables = make(map[string]float64, len(s.Variables))
	for k, v := range s.Variables {
		next.Variables[k] = v
	}

	next.ActionLog = append([]ResolvedAction(nil), s.ActionLog...)

	return &next
}
