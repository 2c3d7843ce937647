// Package apply interprets effect descriptions into a new game state.
// It is the only place in the engine that constructs a CardGameState
// from a set of mutations; every builtin in registry only ever
// describes what should happen, never performs it directly.
package apply

import (
	"fmt"
	"sort"
	"time"

	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
	"github.com/cardforge/ruleforge/rng"
)

// ApplyEffects folds effects onto state in order, returning a new
// state. The input state is never mutated: the fold clones it exactly
// once up front, and every per-kind handler below mutates only that
// owned copy.
func ApplyEffects(state *ruleset.CardGameState, effects []registry.EffectDescription, reg *registry.Registry, now time.Time) (*ruleset.CardGameState, error) {
	next := state.Clone()
	for _, eff := range effects {
		var err error
		next, err = applyOne(next, eff, reg, now)
		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", eff.Kind, err)
		}
	}
	return next, nil
}

// applyOne dispatches a single effect. Unknown kinds are silently
// ignored for forward compatibility: a ruleset compiled against a
// newer registry can still be replayed against an older applier
// without aborting.
func applyOne(s *ruleset.CardGameState, eff registry.EffectDescription, reg *registry.Registry, now time.Time) (*ruleset.CardGameState, error) {
	switch eff.Kind {
	case "shuffle":
		return applyShuffle(s, eff.Params)
	case "deal":
		return applyDeal(s, eff.Params)
	case "draw":
		return applyDraw(s, eff.Params)
	case "set_face_up":
		return applySetFaceUp(s, eff.Params)
	case "reveal_all":
		return applyRevealAll(s, eff.Params)
	case "move_top":
		return applyMoveTop(s, eff.Params)
	case "flip_top":
		return applyFlipTop(s, eff.Params)
	case "move_all":
		return applyMoveAll(s, eff.Params)
	case "collect_all_to":
		return applyCollectAllTo(s, eff.Params)
	case "collect_trick":
		return applyCollectTrick(s, eff.Params)
	case "set_lead_player":
		return applySetLeadPlayer(s, eff.Params)
	case "end_turn":
		return applyEndTurn(s), nil
	case "reverse_turn_order":
		return applyReverseTurnOrder(s), nil
	case "skip_next_player":
		return applySkipNextPlayer(s), nil
	case "set_next_player":
		return applySetNextPlayer(s, eff.Params)
	case "calculate_scores":
		return applyCalculateScores(s, reg)
	case "determine_winners":
		return applyDetermineWinners(s, reg)
	case "accumulate_scores":
		return applyAccumulateScores(s), nil
	case "set_var":
		return applySetVar(s, eff.Params)
	case "inc_var":
		return applyIncVar(s, eff.Params)
	case "end_game":
		return applyEndGame(s, now), nil
	case "reset_round":
		return applyResetRound(s), nil
	default:
		return s, nil
	}
}

func paramString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func paramInt(params map[string]any, key string) int {
	n, _ := params[key].(int)
	return n
}

func paramBool(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

func applyShuffle(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	name := paramString(params, "zone")
	z, ok := s.Zones[name]
	if !ok {
		return nil, fmt.Errorf("shuffle: unknown zone %q", name)
	}
	z.Cards = rng.Shuffle(&s.RNG, z.Cards)
	s.Zones[name] = z
	return s, nil
}

// dealTargets returns the exact-match zone (if present) followed by
// every per-player expansion to:0, to:1, ... in player-index order, so
// deal fans out deterministically.
func dealTargets(s *ruleset.CardGameState, to string) []string {
	var targets []string
	if _, ok := s.Zones[to]; ok {
		targets = append(targets, to)
	}
	for i := 0; i < s.HumanPlayerCount(); i++ {
		name := fmt.Sprintf("%s:%d", to, i)
		if _, ok := s.Zones[name]; ok {
			targets = append(targets, name)
		}
	}
	return targets
}

func applyDeal(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	from := paramString(params, "from")
	to := paramString(params, "to")
	count := paramInt(params, "count")

	fromZone, ok := s.Zones[from]
	if !ok {
		return nil, fmt.Errorf("deal: unknown zone %q", from)
	}
	targets := dealTargets(s, to)
	if len(targets) == 0 {
		return nil, fmt.Errorf("deal: no target zone matches %q", to)
	}
	for _, target := range targets {
		n := count
		if n > len(fromZone.Cards) {
			n = len(fromZone.Cards)
		}
		moved := fromZone.Cards[:n]
		fromZone.Cards = fromZone.Cards[n:]
		tz := s.Zones[target]
		tz.Cards = append(append([]ruleset.Card(nil), moved...), tz.Cards...)
		s.Zones[target] = tz
	}
	s.Zones[from] = fromZone
	return s, nil
}

func applyDraw(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	from := paramString(params, "from")
	to := paramString(params, "to")
	count := paramInt(params, "count")

	if _, ok := s.Zones[to]; !ok {
		to = fmt.Sprintf("%s:%d", to, s.CurrentPlayerIndex)
	}
	fromZone, ok := s.Zones[from]
	if !ok {
		return nil, fmt.Errorf("draw: unknown zone %q", from)
	}
	toZone, ok := s.Zones[to]
	if !ok {
		return nil, fmt.Errorf("draw: unknown zone %q", to)
	}
	n := count
	if n > len(fromZone.Cards) {
		n = len(fromZone.Cards)
	}
	moved := fromZone.Cards[:n]
	fromZone.Cards = fromZone.Cards[n:]
	toZone.Cards = append(append([]ruleset.Card(nil), moved...), toZone.Cards...)
	s.Zones[from] = fromZone
	s.Zones[to] = toZone
	return s, nil
}

func applySetFaceUp(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	name := paramString(params, "zone")
	index := paramInt(params, "index")
	faceUp := paramBool(params, "face_up")
	z, ok := s.Zones[name]
	if !ok {
		return nil, fmt.Errorf("set_face_up: unknown zone %q", name)
	}
	if index >= 0 && index < len(z.Cards) {
		z.Cards[index].FaceUp = faceUp
		s.Zones[name] = z
	}
	return s, nil
}

func applyRevealAll(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	name := paramString(params, "zone")
	z, ok := s.Zones[name]
	if !ok {
		return nil, fmt.Errorf("reveal_all: unknown zone %q", name)
	}
	for i := range z.Cards {
		z.Cards[i].FaceUp = true
	}
	s.Zones[name] = z
	return s, nil
}

func moveCards(s *ruleset.CardGameState, from, to string, count int) error {
	fromZone, ok := s.Zones[from]
	if !ok {
		return fmt.Errorf("unknown zone %q", from)
	}
	toZone, ok := s.Zones[to]
	if !ok {
		return fmt.Errorf("unknown zone %q", to)
	}
	n := count
	if n > len(fromZone.Cards) {
		n = len(fromZone.Cards)
	}
	moved := fromZone.Cards[:n]
	fromZone.Cards = fromZone.Cards[n:]
	toZone.Cards = append(append([]ruleset.Card(nil), moved...), toZone.Cards...)
	s.Zones[from] = fromZone
	s.Zones[to] = toZone
	return nil
}

func applyMoveTop(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	from := paramString(params, "from")
	to := paramString(params, "to")
	count := paramInt(params, "count")
	if err := moveCards(s, from, to, count); err != nil {
		return nil, fmt.Errorf("move_top: %w", err)
	}
	return s, nil
}

func applyMoveAll(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	from := paramString(params, "from")
	to := paramString(params, "to")
	fromZone, ok := s.Zones[from]
	if !ok {
		return nil, fmt.Errorf("move_all: unknown zone %q", from)
	}
	if err := moveCards(s, from, to, len(fromZone.Cards)); err != nil {
		return nil, fmt.Errorf("move_all: %w", err)
	}
	return s, nil
}

func applyFlipTop(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	name := paramString(params, "zone")
	count := paramInt(params, "count")
	z, ok := s.Zones[name]
	if !ok {
		return nil, fmt.Errorf("flip_top: unknown zone %q", name)
	}
	n := count
	if n > len(z.Cards) {
		n = len(z.Cards)
	}
	for i := 0; i < n; i++ {
		z.Cards[i].FaceUp = !z.Cards[i].FaceUp
	}
	s.Zones[name] = z
	return s, nil
}

func applyCollectAllTo(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	target := paramString(params, "to")
	tz, ok := s.Zones[target]
	if !ok {
		return nil, fmt.Errorf("collect_all_to: unknown zone %q", target)
	}
	names := make([]string, 0, len(s.Zones))
	for name := range s.Zones {
		if name == target {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		z := s.Zones[name]
		if len(z.Cards) == 0 {
			continue
		}
		for i := range z.Cards {
			z.Cards[i].FaceUp = false
		}
		tz.Cards = append(tz.Cards, z.Cards...)
		z.Cards = nil
		s.Zones[name] = z
	}
	s.Zones[target] = tz
	return s, nil
}

func applyCollectTrick(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	prefix := paramString(params, "prefix")
	target := paramString(params, "target")
	tz, ok := s.Zones[target]
	if !ok {
		return nil, fmt.Errorf("collect_trick: unknown zone %q", target)
	}
	for i := 0; i < s.HumanPlayerCount(); i++ {
		name := fmt.Sprintf("%s:%d", prefix, i)
		z, ok := s.Zones[name]
		if !ok || len(z.Cards) == 0 {
			continue
		}
		for j := range z.Cards {
			z.Cards[j].FaceUp = false
		}
		tz.Cards = append(tz.Cards, z.Cards...)
		z.Cards = nil
		s.Zones[name] = z
	}
	s.Zones[target] = tz
	return s, nil
}

func applySetLeadPlayer(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	index := paramInt(params, "index")
	s.Variables["lead_player"] = float64(index)
	return s, nil
}

func applyEndTurn(s *ruleset.CardGameState) *ruleset.CardGameState {
	h := s.HumanPlayerCount()
	if h > 0 {
		s.CurrentPlayerIndex = ((s.CurrentPlayerIndex+s.TurnDirection)%h + h) % h
	}
	s.TurnsTakenThisPhase++
	return s
}

func applyReverseTurnOrder(s *ruleset.CardGameState) *ruleset.CardGameState {
	s.TurnDirection = -s.TurnDirection
	return s
}

func applySkipNextPlayer(s *ruleset.CardGameState) *ruleset.CardGameState {
	h := s.HumanPlayerCount()
	if h > 0 {
		s.CurrentPlayerIndex = ((s.CurrentPlayerIndex+s.TurnDirection)%h + h) % h
	}
	return s
}

func applySetNextPlayer(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	index := paramInt(params, "index")
	if index >= 0 && index < s.HumanPlayerCount() {
		s.CurrentPlayerIndex = index
	}
	return s, nil
}

func applySetVar(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	name := paramString(params, "name")
	value, _ := params["value"].(float64)
	s.Variables[name] = value
	return s, nil
}

func applyIncVar(s *ruleset.CardGameState, params map[string]any) (*ruleset.CardGameState, error) {
	name := paramString(params, "name")
	delta, _ := params["delta"].(float64)
	s.Variables[name] += delta
	return s, nil
}
