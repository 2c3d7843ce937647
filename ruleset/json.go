package ruleset

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// cardValueJSON mirrors CardValue's tagged-union shape: either
// {"n": 10} for a fixed value or {"low": 1, "high": 11} for a dual
// value, via a JSON-mirror-struct-plus-custom-UnmarshalJSON pair.
type cardValueJSON struct {
	N    *int `json:"n,omitempty"`
	Low  *int `json:"low,omitempty"`
	High *int `json:"high,omitempty"`
}

func (v CardValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case CardValueFixed:
		return json.Marshal(cardValueJSON{N: &v.N})
	case CardValueDual:
		return json.Marshal(cardValueJSON{Low: &v.Low, High: &v.High})
	default:
		return nil, fmt.Errorf("unknown card value kind %d", v.Kind)
	}
}

func (v *CardValue) UnmarshalJSON(data []byte) error {
	var raw cardValueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "card_values entry")
	}
	if raw.Low != nil || raw.High != nil {
		low, high := 0, 0
		if raw.Low != nil {
			low = *raw.Low
		}
		if raw.High != nil {
			high = *raw.High
		}
		*v = DualValue(low, high)
		return nil
	}
	n := 0
	if raw.N != nil {
		n = *raw.N
	}
	*v = FixedValue(n)
	return nil
}

type zoneVisibilityJSON struct {
	Kind string `json:"kind"`
	Rule string `json:"rule,omitempty"`
}

func (v ZoneVisibility) MarshalJSON() ([]byte, error) {
	return json.Marshal(zoneVisibilityJSON{Kind: v.Kind, Rule: v.Rule})
}

func (v *ZoneVisibility) UnmarshalJSON(data []byte) error {
	// Accept both {"kind":"public"} and the bare string "public".
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		v.Kind = asString
		return nil
	}
	var raw zoneVisibilityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "zone visibility")
	}
	v.Kind = raw.Kind
	v.Rule = raw.Rule
	return nil
}

type roleJSON struct {
	Name    string `json:"name"`
	IsHuman bool   `json:"is_human"`
	Count   json.RawMessage `json:"count"`
}

func (r Role) MarshalJSON() ([]byte, error) {
	var countRaw json.RawMessage
	var err error
	if r.Count.Kind == RoleCountPerPlayer {
		countRaw, err = json.Marshal("per_player")
	} else {
		countRaw, err = json.Marshal(r.Count.Fixed)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(roleJSON{Name: r.Name, IsHuman: r.IsHuman, Count: countRaw})
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var raw roleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "role")
	}
	r.Name = raw.Name
	r.IsHuman = raw.IsHuman

	var asString string
	if err := json.Unmarshal(raw.Count, &asString); err == nil && asString == "per_player" {
		r.Count = PerPlayerCount()
		return nil
	}
	var asInt int
	if err := json.Unmarshal(raw.Count, &asInt); err == nil {
		r.Count = FixedCount(asInt)
		return nil
	}
	return fmt.Errorf("role %q: count must be \"per_player\" or an integer", raw.Name)
}

// rulesetJSON is the on-the-wire document shape for a ruleset file.
type rulesetJSON struct {
	Meta    Meta                `json:"meta"`
	Deck    DeckConfig          `json:"deck"`
	Zones   []ZoneDefinition    `json:"zones"`
	Roles   []Role              `json:"roles"`
	Phases  []PhaseDefinition   `json:"phases"`
	Scoring ScoringConfig       `json:"scoring"`
	InitialVariables map[string]float64 `json:"initial_variables,omitempty"`
}

// LoadRulesetJSON parses and structurally validates ruleset JSON,
// returning *RulesetParseError (never a partial Ruleset) on any
// structural problem.
func LoadRulesetJSON(data []byte) (*Ruleset, error) {
	var raw rulesetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newParseError(fmt.Sprintf("document: %v", err))
	}

	var issues []string
	if raw.Meta.Slug == "" {
		issues = append(issues, "meta.slug: required")
	}
	if raw.Meta.Name == "" {
		issues = append(issues, "meta.name: required")
	}
	if raw.Meta.Players.Min <= 0 {
		issues = append(issues, "meta.players.min: must be positive")
	}
	if raw.Meta.Players.Max < raw.Meta.Players.Min {
		issues = append(issues, "meta.players.max: must be >= meta.players.min")
	}
	if len(raw.Zones) == 0 {
		issues = append(issues, "zones: required, at least one")
	}
	if len(raw.Phases) == 0 {
		issues = append(issues, "phases: required, at least one")
	}
	if raw.Scoring.Method == "" {
		issues = append(issues, "scoring.method: required")
	}
	if raw.Scoring.WinCondition == "" {
		issues = append(issues, "scoring.win_condition: required")
	}

	seenPhase := make(map[string]bool, len(raw.Phases))
	for i, p := range raw.Phases {
		if p.Name == "" {
			issues = append(issues, fmt.Sprintf("phases[%d].name: required", i))
			continue
		}
		if seenPhase[p.Name] {
			issues = append(issues, fmt.Sprintf("phases[%d].name: duplicate phase name %q", i, p.Name))
		}
		seenPhase[p.Name] = true
	}
	for i, p := range raw.Phases {
		for j, tr := range p.Transitions {
			if _, ok := seenPhase[tr.To]; !ok {
				issues = append(issues, fmt.Sprintf("phases[%d].transitions[%d].to: unknown phase %q", i, j, tr.To))
			}
		}
	}

	if len(issues) > 0 {
		return nil, newParseError(issues...)
	}

	rs := &Ruleset{
		Meta:             raw.Meta,
		Deck:             raw.Deck,
		Zones:            raw.Zones,
		Roles:            raw.Roles,
		Phases:           raw.Phases,
		Scoring:          raw.Scoring,
		InitialVariables: raw.InitialVariables,
	}
	return rs, nil
}

// MarshalJSON round-trips a Ruleset back to the wire format.
func (r *Ruleset) MarshalJSON() ([]byte, error) {
	return json.Marshal(rulesetJSON{
		Meta:             r.Meta,
		Deck:             r.Deck,
		Zones:            r.Zones,
		Roles:            r.Roles,
		Phases:           r.Phases,
		Scoring:          r.Scoring,
		InitialVariables: r.InitialVariables,
	})
}
