package dslexpr

// Object is a raw, pre-Value shape that Member access walks until a
// scalar is reached, then wraps it. A property maps to either a
// nested Object or a scalar Value.
type Object map[string]any

// Env is implemented by the caller (the registry package's evaluation
// context) to give the evaluator access to ruleset state without
// dslexpr importing anything about zones, scores, or rulesets
// directly. Every method should be side-effect free except
// FlushPendingEffects, which exists solely to support the while()
// flush pattern.
type Env interface {
	// Special resolves current_player / current_player_index /
	// turn_number / player_count. ok is false if name is not a
	// special name; the evaluator then continues down the resolution
	// order. The returned value is either a Value (scalar) or an
	// Object (current_player).
	Special(name string) (value any, ok bool, err error)

	// Binding resolves an explicit binding passed in for this
	// evaluation (e.g. my_score in win/tie/bust conditions).
	Binding(name string) (Value, bool)

	// ZoneExists reports whether name is a zone in the current state.
	ZoneExists(name string) bool

	// ZoneTemplateBase reports whether name is the base of a
	// per-player zone template with at least one expansion present
	// (e.g. "hand" matches when "hand:0" exists).
	ZoneTemplateBase(name string) bool

	// Score resolves a scores-map key.
	Score(name string) (Value, bool)

	// Variable resolves a variables-map key.
	Variable(name string) (Value, bool)

	// CallBuiltin invokes a registered query or effect builtin by
	// name with already-evaluated arguments. A void-returning effect
	// builtin should return Bool(true).
	CallBuiltin(name string, args []Value) (Value, error)

	// BuiltinExists reports whether name is registered, used by the
	// bare-identifier builtin-call fallback.
	BuiltinExists(name string) bool

	// FlushPendingEffects applies any effects accumulated so far into
	// the working state, so the next while() condition observes
	// updated zones. It is a no-op for Envs that are not carrying a
	// mutable effects accumulator.
	FlushPendingEffects() error
}
