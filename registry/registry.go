package registry

import "github.com/cardforge/ruleforge/dslexpr"

// QueryFunc is a read-only builtin: a pure function of (context, args).
type QueryFunc func(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error)

// EffectFunc is a mutating-context builtin: it validates its
// arguments and pushes one or more EffectDescription records onto
// ctx.Effects; it never touches ctx.State directly.
type EffectFunc func(ctx *Context, args []dslexpr.Value) error

// Registry is an immutable value holding every builtin a ruleset's
// expressions may call — the "cleaner choice" of spec §5: rather than
// process-wide mutable state, the registry is built once by
// NewDefaultRegistry and threaded through the evaluation context.
type Registry struct {
	queries map[string]QueryFunc
	effects map[string]EffectFunc
}

// NewRegistry builds an empty registry; tests that need a reduced
// builtin surface can start from this instead of the default set.
func NewRegistry() *Registry {
	return &Registry{
		queries: make(map[string]QueryFunc),
		effects: make(map[string]EffectFunc),
	}
}

// WithQuery and WithEffect return a new Registry with the named
// builtin added, leaving the receiver untouched.
func (r *Registry) WithQuery(name string, fn QueryFunc) *Registry {
	next := r.clone()
	next.queries[name] = fn
	return next
}

func (r *Registry) WithEffect(name string, fn EffectFunc) *Registry {
	next := r.clone()
	next.effects[name] = fn
	return next
}

func (r *Registry) clone() *Registry {
	next := &Registry{
		queries: make(map[string]QueryFunc, len(r.queries)),
		effects: make(map[string]EffectFunc, len(r.effects)),
	}
	for k, v := range r.queries {
		next.queries[k] = v
	}
	for k, v := range r.effects {
		next.effects[k] = v
	}
	return next
}

func (r *Registry) query(name string) (QueryFunc, bool) {
	fn, ok := r.queries[name]
	return fn, ok
}

func (r *Registry) effect(name string) (EffectFunc, bool) {
	fn, ok := r.effects[name]
	return fn, ok
}

func (r *Registry) has(name string) bool {
	if _, ok := r.queries[name]; ok {
		return true
	}
	_, ok := r.effects[name]
	return ok
}

// NewDefaultRegistry returns the registry carrying every built-in
// query and effect the engine ships.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r = registerQueries(r)
	r = registerEffects(r)
	return r
}
