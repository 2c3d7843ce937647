// Package reduce implements the top-level reducer: (state, action) ->
// state', dispatching on action kind and driving the automatic-phase
// loop after every accepted action.
package reduce

import (
	"fmt"
	"time"

	"github.com/cardforge/ruleforge/apply"
	"github.com/cardforge/ruleforge/dslexpr"
	"github.com/cardforge/ruleforge/initgame"
	"github.com/cardforge/ruleforge/phase"
	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
	"github.com/cardforge/ruleforge/validate"
)

// MaxPhaseIterations bounds the automatic-phase loop so a
// misconfigured ruleset (every phase automatic, no transition ever
// fires "stay") cannot hang the reducer.
const MaxPhaseIterations = 50

// Reducer is built once per ruleset and reused across an entire game
// session.
type Reducer struct {
	Ruleset  *ruleset.Ruleset
	Registry *registry.Registry
	Machine  *phase.Machine
}

// New builds a Reducer, failing if the ruleset's phases don't form a
// valid machine (duplicate names, dangling transition targets).
func New(rs *ruleset.Ruleset, reg *registry.Registry) (*Reducer, error) {
	m, err := phase.NewMachine(rs.Phases)
	if err != nil {
		return nil, err
	}
	return &Reducer{Ruleset: rs, Registry: reg, Machine: m}, nil
}

// Reduce dispatches action against state and returns the resulting
// state. An invalid action is a true no-op: the same pointer is
// returned, unmodified, with no version bump and no log entry.
func (r *Reducer) Reduce(state *ruleset.CardGameState, action ruleset.Action, now time.Time) (*ruleset.CardGameState, error) {
	switch a := action.(type) {
	case ruleset.JoinAction:
		return r.reduceJoin(state, a, now)
	case ruleset.LeaveAction:
		return r.reduceLeave(state, a, now)
	case ruleset.StartGameAction:
		return r.reduceStartGame(state, now)
	case ruleset.DeclareAction:
		return r.reduceDeclare(state, a, now)
	case ruleset.PlayCardAction:
		return r.reducePlayCard(state, a, now)
	case ruleset.DrawCardAction:
		return r.reduceDrawCard(state, a, now)
	case ruleset.EndTurnAction:
		return r.reduceEndTurn(state, a, now)
	case ruleset.AdvancePhaseAction:
		return r.reduceAdvancePhase(state, now)
	case ruleset.ResetRoundAction:
		return r.reduceResetRound(state, now)
	default:
		return state, fmt.Errorf("reduce: unknown action kind %q", action.Kind())
	}
}

func (r *Reducer) commit(state *ruleset.CardGameState, action ruleset.Action, now time.Time) *ruleset.CardGameState {
	state.Version++
	state.ActionLog = append(state.ActionLog, ruleset.ResolvedAction{
		Action:    action,
		Timestamp: now.Unix(),
		Version:   state.Version,
	})
	return state
}

func (r *Reducer) reduceJoin(state *ruleset.CardGameState, a ruleset.JoinAction, now time.Time) (*ruleset.CardGameState, error) {
	next := state.Clone()
	idx := indexOfPlayer(next, a.PlayerID)
	if idx >= 0 {
		next.Players[idx].Connected = true
	} else {
		role := defaultHumanRole(r.Ruleset)
		next.Players = append(next.Players, ruleset.Player{ID: a.PlayerID, Name: a.Name, Role: role, Connected: true})
		initgame.ExpandZonesForPlayer(r.Ruleset, next.Zones, len(next.Players)-1)
	}
	return r.commit(next, a, now), nil
}

func (r *Reducer) reduceLeave(state *ruleset.CardGameState, a ruleset.LeaveAction, now time.Time) (*ruleset.CardGameState, error) {
	next := state.Clone()
	idx := indexOfPlayer(next, a.PlayerID)
	if idx < 0 {
		return state, nil
	}
	next.Players[idx].Connected = false
	return r.commit(next, a, now), nil
}

func indexOfPlayer(state *ruleset.CardGameState, playerID string) int {
	for i, p := range state.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func defaultHumanRole(rs *ruleset.Ruleset) string {
	for _, role := range rs.Roles {
		if role.IsHuman {
			return role.Name
		}
	}
	return ""
}

func (r *Reducer) reduceStartGame(state *ruleset.CardGameState, now time.Time) (*ruleset.CardGameState, error) {
	if state.Status.Kind != ruleset.StatusWaitingForPlayers {
		return state, nil
	}
	if len(state.Players) < r.Ruleset.Meta.Players.Min {
		return state, nil
	}

	next := state.Clone()
	next.Status = ruleset.InProgress(now)
	next = r.commit(next, ruleset.StartGameAction{}, now)

	return r.driveAutomaticPhases(next, now)
}

func (r *Reducer) reduceDeclare(state *ruleset.CardGameState, a ruleset.DeclareAction, now time.Time) (*ruleset.CardGameState, error) {
	return r.reduceDeclaredAction(state, a, a.PlayerID, a.Declaration, a.Params, now)
}

// reduceDeclaredAction runs the shared declare-flow: validate,
// execute the phase action, apply its effects, fire
// auto_end_turn_condition if eligible, commit, then drive transitions
// and any automatic phases that follow.
func (r *Reducer) reduceDeclaredAction(state *ruleset.CardGameState, action ruleset.Action, playerID, declaration string, params map[string]float64, now time.Time) (*ruleset.CardGameState, error) {
	result, err := validate.ValidateAction(state, action, r.Machine, r.Registry)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return state, nil
	}

	playerIndex := indexOfPlayer(state, playerID)
	updated, trailing, err := validate.ExecutePhaseAction(state, declaration, playerIndex, params, r.Machine, r.Registry, now)
	if err != nil {
		return nil, err
	}
	applied, err := apply.ApplyEffects(updated, trailing, r.Registry, now)
	if err != nil {
		return nil, err
	}

	applied, err = r.maybeAutoEndTurn(state, applied, now)
	if err != nil {
		return nil, err
	}

	applied = r.commit(applied, action, now)
	return r.advanceAndRunAutomatic(applied, now)
}

// maybeAutoEndTurn applies scoring.auto_end_turn_condition's end_turn
// only when the action didn't already advance current_player_index
// itself, so (e.g.) a blackjack "stand" action's own end_turn() isn't
// doubled.
func (r *Reducer) maybeAutoEndTurn(before, after *ruleset.CardGameState, now time.Time) (*ruleset.CardGameState, error) {
	cond := r.Ruleset.Scoring.AutoEndTurnCondition
	if cond == "" || after.CurrentPlayerIndex != before.CurrentPlayerIndex {
		return after, nil
	}
	ctx := &registry.Context{
		State:        after,
		Registry:     r.Registry,
		Bindings:     map[string]dslexpr.Value{},
		ActionParams: map[string]float64{},
	}
	v, err := dslexpr.EvalAST(cond, ctx)
	if err != nil {
		return nil, fmt.Errorf("reduce: auto_end_turn_condition: %w", err)
	}
	ok, err := v.AsBool()
	if err != nil {
		return nil, err
	}
	if !ok {
		return after, nil
	}
	return apply.ApplyEffects(after, []registry.EffectDescription{{Kind: "end_turn"}}, r.Registry, now)
}

func (r *Reducer) reducePlayCard(state *ruleset.CardGameState, a ruleset.PlayCardAction, now time.Time) (*ruleset.CardGameState, error) {
	result, err := validate.ValidateAction(state, a, r.Machine, r.Registry)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return state, nil
	}

	next := state.Clone()
	if err := movePlayedCard(next, a.From, a.To, a.CardID); err != nil {
		return nil, fmt.Errorf("reduce: play_card: %w", err)
	}
	next = r.commit(next, a, now)
	return r.advanceAndRunAutomatic(next, now)
}

func movePlayedCard(state *ruleset.CardGameState, from, to, cardID string) error {
	fromZone, ok := state.Zones[from]
	if !ok {
		return fmt.Errorf("unknown zone %q", from)
	}
	toZone, ok := state.Zones[to]
	if !ok {
		return fmt.Errorf("unknown zone %q", to)
	}
	index := -1
	for i, c := range fromZone.Cards {
		if c.ID == cardID {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("card %q not found in zone %q", cardID, from)
	}
	card := fromZone.Cards[index]
	fromZone.Cards = append(append([]ruleset.Card(nil), fromZone.Cards[:index]...), fromZone.Cards[index+1:]...)
	toZone.Cards = append([]ruleset.Card{card}, toZone.Cards...)
	state.Zones[from] = fromZone
	state.Zones[to] = toZone
	return nil
}

func (r *Reducer) reduceDrawCard(state *ruleset.CardGameState, a ruleset.DrawCardAction, now time.Time) (*ruleset.CardGameState, error) {
	result, err := validate.ValidateAction(state, a, r.Machine, r.Registry)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return state, nil
	}

	playerIndex := indexOfPlayer(state, a.PlayerID)
	next := state.Clone()
	drawCards(next, a.From, a.To, a.Count, playerIndex)
	next = r.commit(next, a, now)
	return r.advanceAndRunAutomatic(next, now)
}

func drawCards(state *ruleset.CardGameState, from, to string, count, playerIndex int) {
	if _, ok := state.Zones[to]; !ok {
		to = fmt.Sprintf("%s:%d", to, playerIndex)
	}
	fromZone := state.Zones[from]
	toZone := state.Zones[to]
	n := count
	if n > len(fromZone.Cards) {
		n = len(fromZone.Cards)
	}
	moved := fromZone.Cards[:n]
	fromZone.Cards = fromZone.Cards[n:]
	toZone.Cards = append(append([]ruleset.Card(nil), moved...), toZone.Cards...)
	state.Zones[from] = fromZone
	state.Zones[to] = toZone
}

func (r *Reducer) reduceEndTurn(state *ruleset.CardGameState, a ruleset.EndTurnAction, now time.Time) (*ruleset.CardGameState, error) {
	result, err := validate.ValidateAction(state, a, r.Machine, r.Registry)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return state, nil
	}

	applied, err := apply.ApplyEffects(state, []registry.EffectDescription{{Kind: "end_turn"}}, r.Registry, now)
	if err != nil {
		return nil, err
	}
	applied = r.commit(applied, a, now)
	return r.advanceAndRunAutomatic(applied, now)
}

func (r *Reducer) reduceAdvancePhase(state *ruleset.CardGameState, now time.Time) (*ruleset.CardGameState, error) {
	if state.Status.Kind != ruleset.StatusInProgress {
		return state, nil
	}
	next := r.commit(state.Clone(), ruleset.AdvancePhaseAction{}, now)
	result, err := phase.EvaluateTransitions(next, r.Machine, r.Registry)
	if err != nil {
		return nil, err
	}
	if !result.Advance {
		return next, nil
	}
	advanced := next.Clone()
	advanced.CurrentPhase = result.Next
	advanced.TurnsTakenThisPhase = 0
	return r.driveAutomaticPhases(advanced, now)
}

func (r *Reducer) reduceResetRound(state *ruleset.CardGameState, now time.Time) (*ruleset.CardGameState, error) {
	if state.Status.Kind != ruleset.StatusInProgress {
		return state, nil
	}
	applied, err := apply.ApplyEffects(state, []registry.EffectDescription{{Kind: "reset_round"}}, r.Registry, now)
	if err != nil {
		return nil, err
	}
	applied = r.commit(applied, ruleset.ResetRoundAction{}, now)
	return r.advanceAndRunAutomatic(applied, now)
}

// advanceAndRunAutomatic evaluates the current phase's transitions
// once (the action that just committed may have satisfied one), then
// drives the automatic-phase loop.
func (r *Reducer) advanceAndRunAutomatic(state *ruleset.CardGameState, now time.Time) (*ruleset.CardGameState, error) {
	result, err := phase.EvaluateTransitions(state, r.Machine, r.Registry)
	if err != nil {
		return nil, err
	}
	if result.Advance {
		next := state.Clone()
		next.CurrentPhase = result.Next
		next.TurnsTakenThisPhase = 0
		state = next
	}
	return r.driveAutomaticPhases(state, now)
}

// driveAutomaticPhases runs automatic_sequence/transition-evaluate
// rounds while the current phase is automatic. A "stay" result ends
// the loop without re-running the sequence; an "advance" result
// updates the phase and loops again.
func (r *Reducer) driveAutomaticPhases(state *ruleset.CardGameState, now time.Time) (*ruleset.CardGameState, error) {
	for i := 0; i < MaxPhaseIterations; i++ {
		if !r.Machine.IsAutomatic(state.CurrentPhase) {
			return state, nil
		}
		newState, trailing, err := phase.ExecuteAutomatic(state, r.Machine, r.Registry, now)
		if err != nil {
			return nil, err
		}
		applied, err := apply.ApplyEffects(newState, trailing, r.Registry, now)
		if err != nil {
			return nil, err
		}

		result, err := phase.EvaluateTransitions(applied, r.Machine, r.Registry)
		if err != nil {
			return nil, err
		}
		if !result.Advance {
			return applied, nil
		}
		next := applied.Clone()
		next.CurrentPhase = result.Next
		next.TurnsTakenThisPhase = 0
		state = next
	}
	return nil, fmt.Errorf("reduce: exceeded max phase iterations (%d)", MaxPhaseIterations)
}
