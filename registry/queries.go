package registry

import (
	"fmt"

	"github.com/cardforge/ruleforge/dslexpr"
	"github.com/cardforge/ruleforge/ruleset"
)

func registerQueries(r *Registry) *Registry {
	r = r.WithQuery("hand_value", queryHandValue)
	r = r.WithQuery("card_count", queryCardCount)
	r = r.WithQuery("card_rank", queryCardRank)
	r = r.WithQuery("card_suit", queryCardSuit)
	r = r.WithQuery("card_rank_name", queryCardRankName)
	r = r.WithQuery("top_card_rank", queryTopCardRank)
	r = r.WithQuery("top_card_suit", queryTopCardSuit)
	r = r.WithQuery("top_card_rank_name", queryTopCardRankName)
	r = r.WithQuery("max_card_rank", queryMaxCardRank)
	r = r.WithQuery("count_rank", queryCountRank)
	r = r.WithQuery("has_card_matching_suit", queryHasCardMatchingSuit)
	r = r.WithQuery("has_card_matching_rank", queryHasCardMatchingRank)
	r = r.WithQuery("card_matches_top", queryCardMatchesTop)
	r = r.WithQuery("has_playable_card", queryHasPlayableCard)
	r = r.WithQuery("count_sets", queryCountSets)
	r = r.WithQuery("max_set_size", queryMaxSetSize)
	r = r.WithQuery("has_flush", queryHasFlush)
	r = r.WithQuery("has_straight", queryHasStraight)
	r = r.WithQuery("count_runs", queryCountRuns)
	r = r.WithQuery("max_run_length", queryMaxRunLength)
	r = r.WithQuery("trick_winner", queryTrickWinner)
	r = r.WithQuery("led_card_suit", queryLedCardSuit)
	r = r.WithQuery("trick_card_count", queryTrickCardCount)
	r = r.WithQuery("count_cards_by_suit", queryCountCardsBySuit)
	r = r.WithQuery("sum_zone_values_by_suit", querySumZoneValuesBySuit)
	r = r.WithQuery("has_card_with", queryHasCardWith)
	r = r.WithQuery("get_var", queryGetVar)
	r = r.WithQuery("get_param", queryGetParam)
	r = r.WithQuery("all_players_done", queryAllPlayersDone)
	r = r.WithQuery("all_hands_dealt", querySentinelTrue)
	r = r.WithQuery("scores_calculated", querySentinelTrue)
	r = r.WithQuery("continue_game", querySentinelTrue)
	r = r.WithQuery("turn_direction", queryTurnDirection)
	r = r.WithQuery("concat", queryConcat)
	r = r.WithQuery("sum_card_values", querySumCardValues)
	r = r.WithQuery("prefer_high_under", queryPreferHighUnder)
	return r
}

func queryHandValue(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "hand_value")
	if err != nil {
		return dslexpr.Value{}, err
	}
	target := optionalNumber(args, 1, 21)
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	v := handValue(z.Cards, ctx.cardValue, target)
	return dslexpr.Num(v), nil
}

func queryCardCount(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "card_count")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	return dslexpr.Num(float64(len(z.Cards))), nil
}

func queryCardRank(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "card_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	index, err := argInt(args, 1, "card_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if index < 0 || index >= len(z.Cards) {
		return dslexpr.Value{}, fmt.Errorf("card_rank: index %d out of range for zone %q", index, zoneName)
	}
	return dslexpr.Num(float64(ctx.rankHighValue(z.Cards[index].Rank))), nil
}

func queryCardSuit(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "card_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	index, err := argInt(args, 1, "card_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if index < 0 || index >= len(z.Cards) {
		return dslexpr.Value{}, fmt.Errorf("card_suit: index %d out of range for zone %q", index, zoneName)
	}
	return dslexpr.Str(z.Cards[index].Suit), nil
}

func queryCardRankName(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "card_rank_name")
	if err != nil {
		return dslexpr.Value{}, err
	}
	index, err := argInt(args, 1, "card_rank_name")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if index < 0 || index >= len(z.Cards) {
		return dslexpr.Value{}, fmt.Errorf("card_rank_name: index %d out of range for zone %q", index, zoneName)
	}
	return dslexpr.Str(z.Cards[index].Rank), nil
}

func queryTopCardRank(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "top_card_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if len(z.Cards) == 0 {
		return dslexpr.Value{}, fmt.Errorf("top_card_rank: zone %q is empty", zoneName)
	}
	return dslexpr.Num(float64(ctx.rankHighValue(z.Cards[0].Rank))), nil
}

func queryTopCardSuit(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "top_card_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if len(z.Cards) == 0 {
		return dslexpr.Value{}, fmt.Errorf("top_card_suit: zone %q is empty", zoneName)
	}
	return dslexpr.Str(z.Cards[0].Suit), nil
}

func queryTopCardRankName(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "top_card_rank_name")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if len(z.Cards) == 0 {
		return dslexpr.Value{}, fmt.Errorf("top_card_rank_name: zone %q is empty", zoneName)
	}
	return dslexpr.Str(z.Cards[0].Rank), nil
}

func queryMaxCardRank(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "max_card_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	max := 0
	for _, card := range z.Cards {
		if v := ctx.rankHighValue(card.Rank); v > max {
			max = v
		}
	}
	return dslexpr.Num(float64(max)), nil
}

func queryCountRank(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "count_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	rank, err := argString(args, 1, "count_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	n := 0
	for _, card := range z.Cards {
		if card.Rank == rank {
			n++
		}
	}
	return dslexpr.Num(float64(n)), nil
}

func queryHasCardMatchingSuit(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "has_card_matching_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	suit, err := argString(args, 1, "has_card_matching_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	for _, card := range z.Cards {
		if card.Suit == suit {
			return dslexpr.Bool(true), nil
		}
	}
	return dslexpr.Bool(false), nil
}

func queryHasCardMatchingRank(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "has_card_matching_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	rank, err := argString(args, 1, "has_card_matching_rank")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	for _, card := range z.Cards {
		if card.Rank == rank {
			return dslexpr.Bool(true), nil
		}
	}
	return dslexpr.Bool(false), nil
}

func queryCardMatchesTop(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	handZone, err := argString(args, 0, "card_matches_top")
	if err != nil {
		return dslexpr.Value{}, err
	}
	index, err := argInt(args, 1, "card_matches_top")
	if err != nil {
		return dslexpr.Value{}, err
	}
	targetZone, err := argString(args, 2, "card_matches_top")
	if err != nil {
		return dslexpr.Value{}, err
	}
	hand, err := ctx.zone(handZone)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if index < 0 || index >= len(hand.Cards) {
		return dslexpr.Value{}, fmt.Errorf("card_matches_top: index %d out of range for zone %q", index, handZone)
	}
	target, err := ctx.zone(targetZone)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if len(target.Cards) == 0 {
		return dslexpr.Bool(false), nil
	}
	candidate := hand.Cards[index]
	top := target.Cards[0]
	return dslexpr.Bool(candidate.Suit == top.Suit || candidate.Rank == top.Rank), nil
}

func queryHasPlayableCard(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	handZone, err := argString(args, 0, "has_playable_card")
	if err != nil {
		return dslexpr.Value{}, err
	}
	targetZone, err := argString(args, 1, "has_playable_card")
	if err != nil {
		return dslexpr.Value{}, err
	}
	hand, err := ctx.zone(handZone)
	if err != nil {
		return dslexpr.Value{}, err
	}
	target, err := ctx.zone(targetZone)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if len(target.Cards) == 0 {
		return dslexpr.Bool(len(hand.Cards) > 0), nil
	}
	top := target.Cards[0]
	for _, card := range hand.Cards {
		if card.Suit == top.Suit || card.Rank == top.Rank {
			return dslexpr.Bool(true), nil
		}
	}
	return dslexpr.Bool(false), nil
}

func queryCountSets(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "count_sets")
	if err != nil {
		return dslexpr.Value{}, err
	}
	k, err := argInt(args, 1, "count_sets")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	n := 0
	for _, count := range rankGroups(z.Cards) {
		if count >= k {
			n++
		}
	}
	return dslexpr.Num(float64(n)), nil
}

func queryMaxSetSize(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "max_set_size")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	max := 0
	for _, count := range rankGroups(z.Cards) {
		if count > max {
			max = count
		}
	}
	return dslexpr.Num(float64(max)), nil
}

func queryHasFlush(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "has_flush")
	if err != nil {
		return dslexpr.Value{}, err
	}
	k, err := argInt(args, 1, "has_flush")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	for _, count := range suitGroups(z.Cards) {
		if count >= k {
			return dslexpr.Bool(true), nil
		}
	}
	return dslexpr.Bool(false), nil
}

func queryHasStraight(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "has_straight")
	if err != nil {
		return dslexpr.Value{}, err
	}
	length, err := argInt(args, 1, "has_straight")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	for _, run := range ctx.consecutiveRuns(z.Cards) {
		if run >= length {
			return dslexpr.Bool(true), nil
		}
	}
	return dslexpr.Bool(false), nil
}

func queryCountRuns(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "count_runs")
	if err != nil {
		return dslexpr.Value{}, err
	}
	k, err := argInt(args, 1, "count_runs")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	n := 0
	for _, run := range ctx.consecutiveRuns(z.Cards) {
		if run >= k {
			n++
		}
	}
	return dslexpr.Num(float64(n)), nil
}

func queryMaxRunLength(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "max_run_length")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	max := 0
	for _, run := range ctx.consecutiveRuns(z.Cards) {
		if run > max {
			max = run
		}
	}
	return dslexpr.Num(float64(max)), nil
}

func queryTrickWinner(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	prefix, err := argString(args, 0, "trick_winner")
	if err != nil {
		return dslexpr.Value{}, err
	}
	humanCount := ctx.State.HumanPlayerCount()

	leadPlayer, ok := ctx.State.Variables["lead_player"]
	if !ok {
		return dslexpr.Num(-1), nil
	}
	leadZone, err := ctx.zone(fmt.Sprintf("%s:%d", prefix, int(leadPlayer)))
	if err != nil || len(leadZone.Cards) == 0 {
		return dslexpr.Num(-1), nil
	}
	ledSuit := leadZone.Cards[0].Suit

	trumpSuit := ""
	hasTrump := false
	if suits := ctx.rulesetSuits(); len(suits) > 0 {
		if idx, ok := ctx.State.Variables["trump_suit"]; ok {
			i := int(idx)
			if i >= 0 && i < len(suits) {
				trumpSuit = suits[i]
				hasTrump = true
			}
		}
	}

	best := -1
	bestValue := -1
	bestIsTrump := false
	for i := 0; i < humanCount; i++ {
		z, err := ctx.zone(fmt.Sprintf("%s:%d", prefix, i))
		if err != nil || len(z.Cards) == 0 {
			continue
		}
		card := z.Cards[0]
		isTrump := hasTrump && card.Suit == trumpSuit
		followsSuit := card.Suit == ledSuit
		if !isTrump && !followsSuit {
			continue
		}
		value := ctx.rankHighValue(card.Rank)
		if best == -1 || (isTrump && !bestIsTrump) || (isTrump == bestIsTrump && value > bestValue) {
			best = i
			bestValue = value
			bestIsTrump = isTrump
		}
	}
	return dslexpr.Num(float64(best)), nil
}

func (ctx *Context) rulesetSuits() []string {
	if ctx.State.Ruleset == nil {
		return nil
	}
	return ruleset.DistinctSuits(ctx.State.Ruleset.Deck)
}

func queryLedCardSuit(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	prefix, err := argString(args, 0, "led_card_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	leadPlayer, ok := ctx.State.Variables["lead_player"]
	if !ok {
		return dslexpr.Value{}, fmt.Errorf("led_card_suit: variables.lead_player is not set")
	}
	z, err := ctx.zone(fmt.Sprintf("%s:%d", prefix, int(leadPlayer)))
	if err != nil || len(z.Cards) == 0 {
		return dslexpr.Value{}, fmt.Errorf("led_card_suit: no card led yet for prefix %q", prefix)
	}
	return dslexpr.Str(z.Cards[0].Suit), nil
}

func queryTrickCardCount(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	prefix, err := argString(args, 0, "trick_card_count")
	if err != nil {
		return dslexpr.Value{}, err
	}
	n := 0
	for i := 0; i < ctx.State.HumanPlayerCount(); i++ {
		z, err := ctx.zone(fmt.Sprintf("%s:%d", prefix, i))
		if err == nil && len(z.Cards) > 0 {
			n++
		}
	}
	return dslexpr.Num(float64(n)), nil
}

func queryCountCardsBySuit(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "count_cards_by_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	suit, err := argString(args, 1, "count_cards_by_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	n := 0
	for _, card := range z.Cards {
		if card.Suit == suit {
			n++
		}
	}
	return dslexpr.Num(float64(n)), nil
}

func querySumZoneValuesBySuit(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "sum_zone_values_by_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	suit, err := argString(args, 1, "sum_zone_values_by_suit")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	sum := 0.0
	for _, card := range z.Cards {
		if card.Suit == suit {
			sum += float64(ctx.rankHighValue(card.Rank))
		}
	}
	return dslexpr.Num(sum), nil
}

func queryHasCardWith(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "has_card_with")
	if err != nil {
		return dslexpr.Value{}, err
	}
	rank, err := argString(args, 1, "has_card_with")
	if err != nil {
		return dslexpr.Value{}, err
	}
	suit, err := argString(args, 2, "has_card_with")
	if err != nil {
		return dslexpr.Value{}, err
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	for _, card := range z.Cards {
		if card.Rank == rank && card.Suit == suit {
			return dslexpr.Bool(true), nil
		}
	}
	return dslexpr.Bool(false), nil
}

func queryGetVar(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	name, err := argString(args, 0, "get_var")
	if err != nil {
		return dslexpr.Value{}, err
	}
	v, ok := ctx.State.Variables[name]
	if !ok {
		return dslexpr.Value{}, fmt.Errorf("get_var: unknown variable %q", name)
	}
	return dslexpr.Num(v), nil
}

func queryGetParam(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	name, err := argString(args, 0, "get_param")
	if err != nil {
		return dslexpr.Value{}, err
	}
	v, ok := ctx.ActionParams[name]
	if !ok {
		return dslexpr.Num(0), nil
	}
	return dslexpr.Num(v), nil
}

func queryAllPlayersDone(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	return dslexpr.Bool(ctx.State.TurnsTakenThisPhase >= ctx.State.HumanPlayerCount()), nil
}

func querySentinelTrue(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	return dslexpr.Bool(true), nil
}

func queryTurnDirection(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	return dslexpr.Num(float64(ctx.State.TurnDirection)), nil
}

func queryConcat(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	out := ""
	for _, a := range args {
		out += a.CoerceToString()
	}
	return dslexpr.Str(out), nil
}

func querySumCardValues(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	zoneName, err := argString(args, 0, "sum_card_values")
	if err != nil {
		return dslexpr.Value{}, err
	}
	strategy := ""
	if len(args) > 1 {
		strategy, err = argString(args, 1, "sum_card_values")
		if err != nil {
			return dslexpr.Value{}, err
		}
	}
	z, err := ctx.zone(zoneName)
	if err != nil {
		return dslexpr.Value{}, err
	}
	if target, ok := parsePreferHighUnder(strategy); ok {
		return dslexpr.Num(handValue(z.Cards, ctx.cardValue, target)), nil
	}
	sum := 0.0
	for _, card := range z.Cards {
		sum += float64(ctx.rankHighValue(card.Rank))
	}
	return dslexpr.Num(sum), nil
}

func queryPreferHighUnder(ctx *Context, args []dslexpr.Value) (dslexpr.Value, error) {
	target, err := argNumber(args, 0, "prefer_high_under")
	if err != nil {
		return dslexpr.Value{}, err
	}
	return dslexpr.Str(formatPreferHighUnder(target)), nil
}
