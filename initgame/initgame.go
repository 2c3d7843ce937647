// Package initgame builds the initial CardGameState for a ruleset:
// validating the player roster, building the physical deck from the
// RNG, and expanding per-player zones.
package initgame

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cardforge/ruleforge/ruleset"
	"github.com/cardforge/ruleforge/rng"
)

// Options configures New. SessionID and Seed are both optional: a
// zero SessionID is replaced with a freshly generated uuid, and Seed
// always seeds the RNG explicitly (0 is a valid, reproducible seed).
type Options struct {
	SessionID ruleset.SessionID
	Seed      uint32
	Players   []ruleset.Player
}

// New validates the player roster against the ruleset's maximum player
// count and builds a fresh, dealt-but-not-started CardGameState: deck built
// and card ids assigned from the seed, per-player zones expanded,
// variables set to initial_variables, status waiting_for_players,
// version 0.
func New(rs *ruleset.Ruleset, opts Options) (*ruleset.CardGameState, error) {
	if len(opts.Players) > rs.Meta.Players.Max {
		return nil, fmt.Errorf("initgame: %d players exceeds max of %d", len(opts.Players), rs.Meta.Players.Max)
	}

	sessionID := opts.SessionID
	if sessionID == (uuid.UUID{}) {
		sessionID = uuid.New()
	}

	r := rng.New(opts.Seed)

	templates, err := ruleset.DeckTemplates(rs.Deck)
	if err != nil {
		return nil, fmt.Errorf("initgame: %w", err)
	}
	copies := rs.Deck.Copies
	if copies <= 0 {
		copies = 1
	}

	var cards []ruleset.Card
	for c := 0; c < copies; c++ {
		for _, t := range templates {
			id, err := newCardID(&r)
			if err != nil {
				return nil, fmt.Errorf("initgame: %w", err)
			}
			cards = append(cards, ruleset.Card{ID: id, Suit: t.Suit, Rank: t.Rank, FaceUp: false})
		}
	}

	zones := make(map[string]ruleset.ZoneState)
	for _, def := range rs.Zones {
		if zoneIsPerPlayer(rs, def) {
			for i := range opts.Players {
				zones[fmt.Sprintf("%s:%d", def.Name, i)] = ruleset.ZoneState{Definition: def}
			}
		} else {
			zones[def.Name] = ruleset.ZoneState{Definition: def}
		}
	}

	target := drawPileZoneName(rs)
	if target != "" {
		z := zones[target]
		z.Cards = cards
		zones[target] = z
	}

	variables := make(map[string]float64, len(rs.InitialVariables))
	for k, v := range rs.InitialVariables {
		variables[k] = v
	}

	initialPhase := ""
	if len(rs.Phases) > 0 {
		initialPhase = rs.Phases[0].Name
	}

	return &ruleset.CardGameState{
		SessionID:     sessionID,
		Ruleset:       rs,
		Status:        ruleset.WaitingForPlayers(),
		Players:       append([]ruleset.Player(nil), opts.Players...),
		Zones:         zones,
		CurrentPhase:  initialPhase,
		TurnDirection: 1,
		Scores:        map[string]float64{},
		Variables:     variables,
		Version:       0,
		RNG:           r,
	}, nil
}

func newCardID(r *rng.RNG) (string, error) {
	hi, err := r.NextInt(0, 1<<32)
	if err != nil {
		return "", err
	}
	lo, err := r.NextInt(0, 1<<32)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("card-%08x-%08x", hi, lo), nil
}

// zoneIsPerPlayer reports whether def is owned by a human (per-player
// count) role, and so must be expanded into one zone per roster
// player, connected or not, rather than kept as a single shared zone.
func zoneIsPerPlayer(rs *ruleset.Ruleset, def ruleset.ZoneDefinition) bool {
	for _, owner := range def.Owners {
		role := rs.RoleByName(owner)
		if role != nil && role.IsHuman && role.Count.Kind == ruleset.RoleCountPerPlayer {
			return true
		}
	}
	return false
}

// drawPileZoneName returns "draw_pile" if declared, else the first
// zone with no declared owners.
func drawPileZoneName(rs *ruleset.Ruleset) string {
	for _, z := range rs.Zones {
		if z.Name == "draw_pile" {
			return z.Name
		}
	}
	for _, z := range rs.Zones {
		if len(z.Owners) == 0 {
			return z.Name
		}
	}
	return ""
}

// ExpandZonesForPlayer adds empty {base}:{index} entries for every
// per-player zone template, for a player joining after initial state
// construction.
func ExpandZonesForPlayer(rs *ruleset.Ruleset, zones map[string]ruleset.ZoneState, index int) {
	for _, def := range rs.Zones {
		if !zoneIsPerPlayer(rs, def) {
			continue
		}
		name := fmt.Sprintf("%s:%d", def.Name, index)
		if _, ok := zones[name]; !ok {
			zones[name] = ruleset.ZoneState{Definition: def}
		}
	}
}
