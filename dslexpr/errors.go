package dslexpr

import "fmt"

// ExpressionError is the error taxonomy entry for every tokenizer,
// parser, and evaluator failure. Callers that need to distinguish
// "ruleset is misbehaving" from "I/O failed" can errors.As against
// this type.
type ExpressionError struct {
	Stage string // "tokenize", "parse", or "eval"
	Msg   string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Stage, e.Msg)
}

func tokenizeErr(format string, args ...any) error {
	return &ExpressionError{Stage: "tokenize", Msg: fmt.Sprintf(format, args...)}
}

func parseErr(format string, args ...any) error {
	return &ExpressionError{Stage: "parse", Msg: fmt.Sprintf(format, args...)}
}

func evalErr(format string, args ...any) error {
	return &ExpressionError{Stage: "eval", Msg: fmt.Sprintf(format, args...)}
}
