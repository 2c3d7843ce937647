// Package phase implements the phase machine: a thin wrapper over a
// ruleset's ordered phase list that resolves transitions and drives a
// phase's automatic_sequence.
package phase

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cardforge/ruleforge/apply"
	"github.com/cardforge/ruleforge/dslexpr"
	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
)

// Machine is built once from a ruleset's phase list and held alongside
// it for the lifetime of a Reducer.
type Machine struct {
	phases map[string]*ruleset.PhaseDefinition
	order  []string
}

// NewMachine fails on a duplicate phase name or a transition whose
// target does not name a declared phase.
func NewMachine(phases []ruleset.PhaseDefinition) (*Machine, error) {
	m := &Machine{phases: make(map[string]*ruleset.PhaseDefinition, len(phases))}
	for i := range phases {
		p := &phases[i]
		if _, dup := m.phases[p.Name]; dup {
			return nil, fmt.Errorf("phase: duplicate phase name %q", p.Name)
		}
		m.phases[p.Name] = p
		m.order = append(m.order, p.Name)
	}
	for _, p := range m.phases {
		for _, t := range p.Transitions {
			if _, ok := m.phases[t.To]; !ok {
				return nil, fmt.Errorf("phase: transition in %q targets unknown phase %q", p.Name, t.To)
			}
		}
	}
	return m, nil
}

// GetPhase fails on an unknown phase name.
func (m *Machine) GetPhase(name string) (*ruleset.PhaseDefinition, error) {
	p, ok := m.phases[name]
	if !ok {
		return nil, fmt.Errorf("phase: unknown phase %q", name)
	}
	return p, nil
}

func (m *Machine) IsAutomatic(name string) bool {
	p, ok := m.phases[name]
	return ok && p.Kind == ruleset.PhaseAutomatic
}

// ValidActionsFor returns the phase's declared actions, or nil for an
// unknown phase.
func (m *Machine) ValidActionsFor(name string) []ruleset.PhaseAction {
	p, ok := m.phases[name]
	if !ok {
		return nil
	}
	return p.Actions
}

// TransitionResult is evaluate_transitions' outcome: either stay in
// the current phase, or advance to Next.
type TransitionResult struct {
	Advance bool
	Next    string
}

// EvaluateTransitions walks state.current_phase's transitions in
// declaration order. The first whose `when` evaluates true wins.
// Expression errors are logged at warning level and treated as "not
// met"; any other error propagates.
func EvaluateTransitions(state *ruleset.CardGameState, machine *Machine, reg *registry.Registry) (TransitionResult, error) {
	p, err := machine.GetPhase(state.CurrentPhase)
	if err != nil {
		return TransitionResult{}, err
	}

	ctx := &registry.Context{
		State:        state,
		Registry:     reg,
		Bindings:     map[string]dslexpr.Value{},
		ActionParams: map[string]float64{},
	}

	for _, t := range p.Transitions {
		v, err := dslexpr.EvalAST(t.When, ctx)
		if err != nil {
			if _, isExprErr := err.(*dslexpr.ExpressionError); isExprErr {
				log.Warn().Str("phase", p.Name).Str("to", t.To).Err(err).Msg("transition condition failed to evaluate")
				continue
			}
			return TransitionResult{}, err
		}
		if v.IsBoolean() && v.B {
			return TransitionResult{Advance: true, Next: t.To}, nil
		}
	}
	return TransitionResult{}, nil
}

// ExecuteAutomatic runs an automatic phase's automatic_sequence in
// order against a mutable context. Pending effects are flushed only
// between while() iterations, not between top-level expressions. It
// fails unless the phase's kind is automatic.
// The returned state already reflects every flush; the returned effect
// list holds whatever was pushed after the last flush and still needs
// applying by the caller.
func ExecuteAutomatic(state *ruleset.CardGameState, machine *Machine, reg *registry.Registry, now time.Time) (*ruleset.CardGameState, []registry.EffectDescription, error) {
	p, err := machine.GetPhase(state.CurrentPhase)
	if err != nil {
		return nil, nil, err
	}
	if p.Kind != ruleset.PhaseAutomatic {
		return nil, nil, fmt.Errorf("phase: %q is not automatic", p.Name)
	}

	ctx := &registry.Context{
		State:        state,
		Registry:     reg,
		Bindings:     map[string]dslexpr.Value{},
		ActionParams: map[string]float64{},
		Mutable:      true,
	}
	ctx.ApplyEffectsFn = func(effects []registry.EffectDescription) (*ruleset.CardGameState, error) {
		return apply.ApplyEffects(ctx.State, effects, reg, now)
	}

	// Only while()'s own loop calls ctx.ApplyEffectsFn (via
	// FlushPendingEffects) between its iterations; top-level
	// automatic_sequence expressions accumulate into ctx.Effects and
	// are applied once by the caller after the whole sequence runs, so
	// effect ordering across expressions is preserved without extra
	// intermediate clones.
	for _, expr := range p.AutomaticSequence {
		if _, err := dslexpr.EvalAST(expr, ctx); err != nil {
			return nil, nil, fmt.Errorf("phase: automatic_sequence in %q: %w", p.Name, err)
		}
	}

	return ctx.State, ctx.Effects, nil
}
