package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cardforge/ruleforge/dslexpr"
	"github.com/cardforge/ruleforge/ruleset"
)

// preferHighUnderPrefix tags a sum_card_values strategy string built by
// prefer_high_under, so sum_card_values can recover the target and run
// the same dual-downgrade algorithm as hand_value.
const preferHighUnderPrefix = "prefer_high_under:"

func formatPreferHighUnder(target float64) string {
	return preferHighUnderPrefix + strconv.FormatFloat(target, 'g', -1, 64)
}

func parsePreferHighUnder(strategy string) (float64, bool) {
	rest, ok := strings.CutPrefix(strategy, preferHighUnderPrefix)
	if !ok {
		return 0, false
	}
	target, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, false
	}
	return target, true
}

func argString(args []dslexpr.Value, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s: missing argument %d", name, i)
	}
	return args[i].AsString()
}

func argNumber(args []dslexpr.Value, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%s: missing argument %d", name, i)
	}
	return args[i].AsNumber()
}

func argInt(args []dslexpr.Value, i int, name string) (int, error) {
	n, err := argNumber(args, i, name)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func optionalNumber(args []dslexpr.Value, i int, def float64) float64 {
	if i >= len(args) {
		return def
	}
	if args[i].IsNumber() {
		return args[i].N
	}
	return def
}

func (c *Context) zone(name string) (ruleset.ZoneState, error) {
	z, ok := c.State.Zones[name]
	if !ok {
		return ruleset.ZoneState{}, fmt.Errorf("unknown zone %q", name)
	}
	return z, nil
}

func (c *Context) cardValue(rank string) ruleset.CardValue {
	if c.State.Ruleset != nil {
		if v, ok := c.State.Ruleset.Deck.CardValues[rank]; ok {
			return v
		}
	}
	return ruleset.FixedValue(0)
}

// rankValues returns every numeric value a rank can contribute: one
// for a fixed value, two (low and high) for a dual value, letting
// straight/run detection try both positions for e.g. an ace.
func (c *Context) rankValues(rank string) []int {
	cv := c.cardValue(rank)
	if cv.Kind == ruleset.CardValueDual {
		return []int{cv.Low, cv.High}
	}
	return []int{cv.N}
}

// rankHighValue returns the dual-high (or fixed) numeric value of a
// rank, used by card_rank/top_card_rank/max_card_rank.
func (c *Context) rankHighValue(rank string) int {
	cv := c.cardValue(rank)
	if cv.Kind == ruleset.CardValueDual {
		return cv.High
	}
	return cv.N
}

// handValue implements the hand_value rule: dual-value cards start
// high and downgrade one at a time, in hand order, while the running
// total exceeds target.
func handValue(cards []ruleset.Card, valueOf func(rank string) ruleset.CardValue, target float64) float64 {
	if len(cards) == 0 {
		return 0
	}
	values := make([]float64, len(cards))
	var duals []int
	sum := 0.0
	for i, card := range cards {
		cv := valueOf(card.Rank)
		if cv.Kind == ruleset.CardValueDual {
			values[i] = float64(cv.High)
			duals = append(duals, i)
		} else {
			values[i] = float64(cv.N)
		}
		sum += values[i]
	}
	for _, i := range duals {
		if sum <= target {
			break
		}
		cv := valueOf(cards[i].Rank)
		sum -= float64(cv.High - cv.Low)
	}
	return sum
}

func rankGroups(cards []ruleset.Card) map[string]int {
	counts := make(map[string]int)
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

func suitGroups(cards []ruleset.Card) map[string]int {
	counts := make(map[string]int)
	for _, c := range cards {
		counts[c.Suit]++
	}
	return counts
}

// consecutiveRuns collapses every candidate numeric value present in
// cards (both sides of a dual rank) into sorted-unique integers, then
// returns the lengths of every maximal run of consecutive integers.
func (c *Context) consecutiveRuns(cards []ruleset.Card) []int {
	seen := make(map[int]bool)
	for _, card := range cards {
		for _, v := range c.rankValues(card.Rank) {
			seen[v] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	values := make([]int, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Ints(values)

	var runs []int
	runLen := 1
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1]+1 {
			runLen++
			continue
		}
		runs = append(runs, runLen)
		runLen = 1
	}
	runs = append(runs, runLen)
	return runs
}
