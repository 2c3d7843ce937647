// Package validate implements the action validator: deciding whether
// a proposed action is legal against the current state, and running a
// declared phase action's effect expressions once it has been
// accepted.
package validate

import (
	"fmt"
	"time"

	"github.com/cardforge/ruleforge/apply"
	"github.com/cardforge/ruleforge/dslexpr"
	"github.com/cardforge/ruleforge/phase"
	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
)

// Result is validate_action's outcome: either valid, or invalid with a
// human-readable reason.
type Result struct {
	Valid  bool
	Reason string
}

func valid() Result { return Result{Valid: true} }

func invalid(format string, args ...any) Result {
	return Result{Valid: false, Reason: fmt.Sprintf(format, args...)}
}

// FindPlayerIndex returns the index of the player with the given id,
// or -1 if absent.
func FindPlayerIndex(state *ruleset.CardGameState, playerID string) int {
	for i, p := range state.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func turnCheck(state *ruleset.CardGameState, m *phase.Machine, playerIndex int) Result {
	p, err := m.GetPhase(state.CurrentPhase)
	if err != nil {
		return invalid("unknown phase %q", state.CurrentPhase)
	}
	if p.Kind == ruleset.PhaseTurnBased && playerIndex != state.CurrentPlayerIndex {
		return invalid("it is not player index %d's turn", playerIndex)
	}
	return valid()
}

// ValidateAction checks action against state using a per-action-kind
// rule table.
func ValidateAction(state *ruleset.CardGameState, action ruleset.Action, m *phase.Machine, reg *registry.Registry) (Result, error) {
	switch a := action.(type) {
	case ruleset.JoinAction:
		return valid(), nil

	case ruleset.LeaveAction:
		return valid(), nil

	case ruleset.StartGameAction:
		if state.Status.Kind != ruleset.StatusWaitingForPlayers {
			return invalid("start_game is only valid while waiting for players"), nil
		}
		return valid(), nil

	case ruleset.AdvancePhaseAction:
		if state.Status.Kind != ruleset.StatusInProgress {
			return invalid("advance_phase requires a game in progress"), nil
		}
		return valid(), nil

	case ruleset.ResetRoundAction:
		if state.Status.Kind != ruleset.StatusInProgress {
			return invalid("reset_round requires a game in progress"), nil
		}
		return valid(), nil

	case ruleset.DeclareAction:
		if state.Status.Kind != ruleset.StatusInProgress {
			return invalid("declare requires a game in progress"), nil
		}
		if m.IsAutomatic(state.CurrentPhase) {
			return invalid("declare is not valid during an automatic phase"), nil
		}
		playerIndex := FindPlayerIndex(state, a.PlayerID)
		if playerIndex < 0 {
			return invalid("unknown player %q", a.PlayerID), nil
		}
		if r := turnCheck(state, m, playerIndex); !r.Valid {
			return r, nil
		}
		actions := m.ValidActionsFor(state.CurrentPhase)
		var decl *ruleset.PhaseAction
		for i := range actions {
			if actions[i].Name == a.Declaration {
				decl = &actions[i]
				break
			}
		}
		if decl == nil {
			return invalid("declaration %q is not valid in phase %q", a.Declaration, state.CurrentPhase), nil
		}
		if decl.Condition != "" {
			ok, err := evalActionCondition(state, decl.Condition, playerIndex, a.Params, reg)
			if err != nil {
				return Result{}, err
			}
			if !ok {
				return invalid("condition %q was not met", decl.Condition), nil
			}
		}
		return valid(), nil

	case ruleset.PlayCardAction:
		if state.Status.Kind != ruleset.StatusInProgress {
			return invalid("play_card requires a game in progress"), nil
		}
		playerIndex := FindPlayerIndex(state, a.PlayerID)
		if playerIndex < 0 {
			return invalid("unknown player %q", a.PlayerID), nil
		}
		if r := turnCheck(state, m, playerIndex); !r.Valid {
			return r, nil
		}
		fromZone, ok := state.Zones[a.From]
		if !ok {
			return invalid("unknown zone %q", a.From), nil
		}
		if _, ok := state.Zones[a.To]; !ok {
			return invalid("unknown zone %q", a.To), nil
		}
		found := false
		for _, c := range fromZone.Cards {
			if c.ID == a.CardID {
				found = true
				break
			}
		}
		if !found {
			return invalid("card %q is not in zone %q", a.CardID, a.From), nil
		}
		return valid(), nil

	case ruleset.DrawCardAction:
		if state.Status.Kind != ruleset.StatusInProgress {
			return invalid("draw_card requires a game in progress"), nil
		}
		playerIndex := FindPlayerIndex(state, a.PlayerID)
		if playerIndex < 0 {
			return invalid("unknown player %q", a.PlayerID), nil
		}
		if r := turnCheck(state, m, playerIndex); !r.Valid {
			return r, nil
		}
		fromZone, ok := state.Zones[a.From]
		if !ok {
			return invalid("unknown zone %q", a.From), nil
		}
		if len(fromZone.Cards) < a.Count {
			return invalid("zone %q has fewer than %d cards", a.From, a.Count), nil
		}
		to := a.To
		if _, ok := state.Zones[to]; !ok {
			to = fmt.Sprintf("%s:%d", to, playerIndex)
			if _, ok := state.Zones[to]; !ok {
				return invalid("unknown zone %q", a.To), nil
			}
		}
		return valid(), nil

	case ruleset.EndTurnAction:
		if state.Status.Kind != ruleset.StatusInProgress {
			return invalid("end_turn requires a game in progress"), nil
		}
		playerIndex := FindPlayerIndex(state, a.PlayerID)
		if playerIndex < 0 {
			return invalid("unknown player %q", a.PlayerID), nil
		}
		return turnCheck(state, m, playerIndex), nil

	default:
		return invalid("unknown action kind %q", action.Kind()), nil
	}
}

func evalActionCondition(state *ruleset.CardGameState, expr string, playerIndex int, params map[string]float64, reg *registry.Registry) (bool, error) {
	ctx := &registry.Context{
		State:          state,
		Registry:       reg,
		PlayerIndex:    playerIndex,
		HasPlayerIndex: true,
		Bindings:       map[string]dslexpr.Value{},
		ActionParams:   params,
	}
	v, err := dslexpr.EvalAST(expr, ctx)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// ActionInfo describes one action available in the current phase,
// annotated with whether its condition currently holds.
type ActionInfo struct {
	ruleset.PhaseAction
	Enabled bool
}

// GetValidActions returns the current phase's declared actions for
// playerID, each annotated with whether its condition currently
// holds. Returns nil whenever the game isn't in progress, the current
// phase is automatic, the player is unknown, or (in a turn_based
// phase) playerID is not the current player.
func GetValidActions(state *ruleset.CardGameState, playerID string, m *phase.Machine, reg *registry.Registry) []ActionInfo {
	if state.Status.Kind != ruleset.StatusInProgress {
		return nil
	}
	if m.IsAutomatic(state.CurrentPhase) {
		return nil
	}
	playerIndex := FindPlayerIndex(state, playerID)
	if playerIndex < 0 {
		return nil
	}
	p, err := m.GetPhase(state.CurrentPhase)
	if err != nil {
		return nil
	}
	if p.Kind == ruleset.PhaseTurnBased && playerIndex != state.CurrentPlayerIndex {
		return nil
	}

	infos := make([]ActionInfo, 0, len(p.Actions))
	for _, a := range p.Actions {
		enabled := true
		if a.Condition != "" {
			ok, err := evalActionCondition(state, a.Condition, playerIndex, nil, reg)
			enabled = err == nil && ok
		}
		infos = append(infos, ActionInfo{PhaseAction: a, Enabled: enabled})
	}
	return infos
}

// ExecutePhaseAction runs the named phase action's effect expressions
// in order against a mutable context, returning the state updated by
// any internal while() flushes plus the trailing effect list the
// caller still needs to apply. Fails if the phase has no such action.
func ExecutePhaseAction(state *ruleset.CardGameState, name string, playerIndex int, params map[string]float64, m *phase.Machine, reg *registry.Registry, now time.Time) (*ruleset.CardGameState, []registry.EffectDescription, error) {
	p, err := m.GetPhase(state.CurrentPhase)
	if err != nil {
		return nil, nil, err
	}
	var action *ruleset.PhaseAction
	for i := range p.Actions {
		if p.Actions[i].Name == name {
			action = &p.Actions[i]
			break
		}
	}
	if action == nil {
		return nil, nil, fmt.Errorf("validate: phase %q has no action %q", p.Name, name)
	}

	ctx := &registry.Context{
		State:          state,
		Registry:       reg,
		PlayerIndex:    playerIndex,
		HasPlayerIndex: true,
		Bindings:       map[string]dslexpr.Value{},
		ActionParams:   params,
		Mutable:        true,
	}
	ctx.ApplyEffectsFn = func(effects []registry.EffectDescription) (*ruleset.CardGameState, error) {
		return apply.ApplyEffects(ctx.State, effects, reg, now)
	}

	for _, expr := range action.Effects {
		if _, err := dslexpr.EvalAST(expr, ctx); err != nil {
			return nil, nil, fmt.Errorf("validate: effect %q in action %q: %w", expr, name, err)
		}
	}

	return ctx.State, ctx.Effects, nil
}
