package ruleset

import (
	"fmt"
	"strings"
)

// RulesetParseError carries every structural problem found while
// loading a ruleset, each formatted as a dotted issue path (e.g.
// "meta.slug: required"). Loading fails atomically: no engine state
// is ever created from a ruleset that produced one of these.
type RulesetParseError struct {
	Issues []string
}

func (e *RulesetParseError) Error() string {
	return fmt.Sprintf("ruleset parse error: %s", strings.Join(e.Issues, "; "))
}

func newParseError(issues ...string) *RulesetParseError {
	return &RulesetParseError{Issues: issues}
}
