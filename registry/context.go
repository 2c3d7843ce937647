package registry

import (
	"fmt"
	"strings"

	"github.com/cardforge/ruleforge/dslexpr"
	"github.com/cardforge/ruleforge/ruleset"
)

// Context is the registry package's implementation of dslexpr.Env. One
// Context is built fresh per evaluation call and never held long-term,
// so synthetic objects like current_player never go stale across
// mutations.
type Context struct {
	State    *ruleset.CardGameState
	Registry *Registry

	// PlayerIndex is set when evaluating a phase-action condition or
	// effect list on behalf of a specific human player.
	PlayerIndex    int
	HasPlayerIndex bool

	// RoleOverride redirects current_player's zone shortcuts to an
	// NPC role's zones (e.g. the dealer) instead of a human player's.
	RoleOverride    string
	HasRoleOverride bool

	Bindings     map[string]dslexpr.Value
	ActionParams map[string]float64

	// Mutable marks a context built to run an effect list (phase
	// actions, automatic_sequence). Contexts built only to evaluate a
	// condition (transitions, get_valid_actions) leave this false, and
	// every effect builtin rejects a call against such a context.
	Mutable bool

	// Effects accumulates effect-builtin pushes for this evaluation.
	Effects []EffectDescription

	// ApplyEffectsFn, when set, lets the while() special form flush
	// Effects into State between iterations. phase.ExecuteAutomatic and
	// validate.ExecutePhaseAction wire this to apply.ApplyEffects; a
	// read-only Context (used by
	// get_valid_actions and transition evaluation) leaves it nil.
	ApplyEffectsFn func(effects []EffectDescription) (*ruleset.CardGameState, error)
}

func (c *Context) Special(name string) (any, bool, error) {
	switch name {
	case "current_player_index":
		return dslexpr.Num(float64(c.State.CurrentPlayerIndex)), true, nil
	case "turn_number":
		return dslexpr.Num(float64(c.State.TurnNumber)), true, nil
	case "player_count":
		return dslexpr.Num(float64(c.State.HumanPlayerCount())), true, nil
	case "current_player":
		obj, err := c.currentPlayerObject()
		if err != nil {
			return nil, true, err
		}
		return obj, true, nil
	default:
		return nil, false, nil
	}
}

func (c *Context) currentPlayerObject() (dslexpr.Object, error) {
	index := c.State.CurrentPlayerIndex
	if c.HasPlayerIndex {
		index = c.PlayerIndex
	}

	obj := dslexpr.Object{
		"index": dslexpr.Num(float64(index)),
	}

	if c.HasRoleOverride {
		obj["role"] = dslexpr.Str(c.RoleOverride)
		obj["name"] = dslexpr.Str(c.RoleOverride)
		for short, zone := range roleZoneShortcuts(c.State.Ruleset, c.RoleOverride) {
			obj[short] = dslexpr.Str(zone)
		}
		return obj, nil
	}

	if index < 0 || index >= len(c.State.Players) {
		return nil, fmt.Errorf("current_player: player index %d out of range", index)
	}
	player := c.State.Players[index]
	obj["role"] = dslexpr.Str(player.Role)
	obj["name"] = dslexpr.Str(player.Name)
	for base := range perPlayerZoneBases(c.State) {
		obj[base] = dslexpr.Str(fmt.Sprintf("%s:%d", base, index))
	}
	return obj, nil
}

// roleZoneShortcuts finds every zone owned by role and maps its
// "{role}_" stripped name to the concrete zone name, the same
// convention calculate_scores uses for NPC scoring.
func roleZoneShortcuts(rs *ruleset.Ruleset, role string) map[string]string {
	out := make(map[string]string)
	if rs == nil {
		return out
	}
	prefix := role + "_"
	for _, z := range rs.Zones {
		for _, owner := range z.Owners {
			if owner != role {
				continue
			}
			short := strings.TrimPrefix(z.Name, prefix)
			out[short] = z.Name
		}
	}
	return out
}

// perPlayerZoneBases returns every zone base name that has at least
// one "{base}:{i}" expansion present in state.
func perPlayerZoneBases(s *ruleset.CardGameState) map[string]bool {
	bases := make(map[string]bool)
	for name := range s.Zones {
		idx := strings.LastIndex(name, ":")
		if idx <= 0 {
			continue
		}
		bases[name[:idx]] = true
	}
	return bases
}

func (c *Context) Binding(name string) (dslexpr.Value, bool) {
	v, ok := c.Bindings[name]
	return v, ok
}

func (c *Context) ZoneExists(name string) bool {
	_, ok := c.State.Zones[name]
	return ok
}

func (c *Context) ZoneTemplateBase(name string) bool {
	prefix := name + ":"
	for zoneName := range c.State.Zones {
		if strings.HasPrefix(zoneName, prefix) {
			return true
		}
	}
	return false
}

func (c *Context) Score(name string) (dslexpr.Value, bool) {
	v, ok := c.State.Scores[name]
	if !ok {
		return dslexpr.Value{}, false
	}
	return dslexpr.Num(v), true
}

func (c *Context) Variable(name string) (dslexpr.Value, bool) {
	v, ok := c.State.Variables[name]
	if !ok {
		return dslexpr.Value{}, false
	}
	return dslexpr.Num(v), true
}

func (c *Context) CallBuiltin(name string, args []dslexpr.Value) (dslexpr.Value, error) {
	if fn, ok := c.Registry.query(name); ok {
		return fn(c, args)
	}
	if fn, ok := c.Registry.effect(name); ok {
		if err := fn(c, args); err != nil {
			return dslexpr.Value{}, err
		}
		return dslexpr.Bool(true), nil
	}
	return dslexpr.Value{}, fmt.Errorf("unknown builtin %q", name)
}

func (c *Context) BuiltinExists(name string) bool {
	return c.Registry.has(name)
}

func (c *Context) FlushPendingEffects() error {
	if len(c.Effects) == 0 || c.ApplyEffectsFn == nil {
		return nil
	}
	next, err := c.ApplyEffectsFn(c.Effects)
	if err != nil {
		return err
	}
	c.State = next
	c.Effects = nil
	return nil
}

// pushEffect appends an effect description after checking the context
// allows effects at all; effect builtins use this instead of touching
// c.State directly.
func (c *Context) pushEffect(kind string, params map[string]any) error {
	if !c.Mutable {
		return fmt.Errorf("%s: called without a mutable context", kind)
	}
	c.Effects = append(c.Effects, EffectDescription{Kind: kind, Params: params})
	return nil
}
