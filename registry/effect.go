package registry

// EffectDescription is a record describing one atomic state mutation,
// produced by effect builtins and consumed only by the apply package.
// Builtins never mutate state directly — this is what keeps the
// evaluator pure and makes the while() flush pattern possible.
type EffectDescription struct {
	Kind   string
	Params map[string]any
}
