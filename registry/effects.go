package registry

import (
	"fmt"

	"github.com/cardforge/ruleforge/dslexpr"
)

func registerEffects(r *Registry) *Registry {
	r = r.WithEffect("shuffle", effectShuffle)
	r = r.WithEffect("deal", effectDeal)
	r = r.WithEffect("draw", effectDraw)
	r = r.WithEffect("set_face_up", effectSetFaceUp)
	r = r.WithEffect("reveal_all", effectRevealAll)
	r = r.WithEffect("move_top", effectMoveTop)
	r = r.WithEffect("flip_top", effectFlipTop)
	r = r.WithEffect("move_all", effectMoveAll)
	r = r.WithEffect("collect_all_to", effectCollectAllTo)
	r = r.WithEffect("collect_trick", effectCollectTrick)
	r = r.WithEffect("set_lead_player", effectSetLeadPlayer)
	r = r.WithEffect("end_turn", effectEndTurn)
	r = r.WithEffect("reverse_turn_order", effectReverseTurnOrder)
	r = r.WithEffect("skip_next_player", effectSkipNextPlayer)
	r = r.WithEffect("set_next_player", effectSetNextPlayer)
	r = r.WithEffect("calculate_scores", effectCalculateScores)
	r = r.WithEffect("determine_winners", effectDetermineWinners)
	r = r.WithEffect("accumulate_scores", effectAccumulateScores)
	r = r.WithEffect("set_var", effectSetVar)
	r = r.WithEffect("inc_var", effectIncVar)
	r = r.WithEffect("end_game", effectEndGame)
	r = r.WithEffect("reset_round", effectResetRound)
	return r
}

func effectShuffle(ctx *Context, args []dslexpr.Value) error {
	zoneName, err := argString(args, 0, "shuffle")
	if err != nil {
		return err
	}
	return ctx.pushEffect("shuffle", map[string]any{"zone": zoneName})
}

func effectDeal(ctx *Context, args []dslexpr.Value) error {
	from, err := argString(args, 0, "deal")
	if err != nil {
		return err
	}
	to, err := argString(args, 1, "deal")
	if err != nil {
		return err
	}
	count, err := argInt(args, 2, "deal")
	if err != nil {
		return err
	}
	return ctx.pushEffect("deal", map[string]any{"from": from, "to": to, "count": count})
}

func effectDraw(ctx *Context, args []dslexpr.Value) error {
	from, err := argString(args, 0, "draw")
	if err != nil {
		return err
	}
	to, err := argString(args, 1, "draw")
	if err != nil {
		return err
	}
	count := int(optionalNumber(args, 2, 1))
	return ctx.pushEffect("draw", map[string]any{"from": from, "to": to, "count": count})
}

func effectSetFaceUp(ctx *Context, args []dslexpr.Value) error {
	zoneName, err := argString(args, 0, "set_face_up")
	if err != nil {
		return err
	}
	index, err := argInt(args, 1, "set_face_up")
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("set_face_up: missing argument 2")
	}
	faceUp, err := args[2].AsBool()
	if err != nil {
		return err
	}
	return ctx.pushEffect("set_face_up", map[string]any{"zone": zoneName, "index": index, "face_up": faceUp})
}

func effectRevealAll(ctx *Context, args []dslexpr.Value) error {
	zoneName, err := argString(args, 0, "reveal_all")
	if err != nil {
		return err
	}
	return ctx.pushEffect("reveal_all", map[string]any{"zone": zoneName})
}

func effectMoveTop(ctx *Context, args []dslexpr.Value) error {
	from, err := argString(args, 0, "move_top")
	if err != nil {
		return err
	}
	to, err := argString(args, 1, "move_top")
	if err != nil {
		return err
	}
	count := int(optionalNumber(args, 2, 1))
	return ctx.pushEffect("move_top", map[string]any{"from": from, "to": to, "count": count})
}

func effectFlipTop(ctx *Context, args []dslexpr.Value) error {
	zoneName, err := argString(args, 0, "flip_top")
	if err != nil {
		return err
	}
	count := int(optionalNumber(args, 1, 1))
	return ctx.pushEffect("flip_top", map[string]any{"zone": zoneName, "count": count})
}

func effectMoveAll(ctx *Context, args []dslexpr.Value) error {
	from, err := argString(args, 0, "move_all")
	if err != nil {
		return err
	}
	to, err := argString(args, 1, "move_all")
	if err != nil {
		return err
	}
	return ctx.pushEffect("move_all", map[string]any{"from": from, "to": to})
}

func effectCollectAllTo(ctx *Context, args []dslexpr.Value) error {
	zoneName, err := argString(args, 0, "collect_all_to")
	if err != nil {
		return err
	}
	return ctx.pushEffect("collect_all_to", map[string]any{"to": zoneName})
}

func effectCollectTrick(ctx *Context, args []dslexpr.Value) error {
	prefix, err := argString(args, 0, "collect_trick")
	if err != nil {
		return err
	}
	target, err := argString(args, 1, "collect_trick")
	if err != nil {
		return err
	}
	return ctx.pushEffect("collect_trick", map[string]any{"prefix": prefix, "target": target})
}

func effectSetLeadPlayer(ctx *Context, args []dslexpr.Value) error {
	index, err := argInt(args, 0, "set_lead_player")
	if err != nil {
		return err
	}
	return ctx.pushEffect("set_lead_player", map[string]any{"index": index})
}

func effectEndTurn(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("end_turn", nil)
}

func effectReverseTurnOrder(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("reverse_turn_order", nil)
}

func effectSkipNextPlayer(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("skip_next_player", nil)
}

func effectSetNextPlayer(ctx *Context, args []dslexpr.Value) error {
	index, err := argInt(args, 0, "set_next_player")
	if err != nil {
		return err
	}
	return ctx.pushEffect("set_next_player", map[string]any{"index": index})
}

func effectCalculateScores(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("calculate_scores", nil)
}

func effectDetermineWinners(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("determine_winners", nil)
}

func effectAccumulateScores(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("accumulate_scores", nil)
}

func effectSetVar(ctx *Context, args []dslexpr.Value) error {
	name, err := argString(args, 0, "set_var")
	if err != nil {
		return err
	}
	value, err := argNumber(args, 1, "set_var")
	if err != nil {
		return err
	}
	return ctx.pushEffect("set_var", map[string]any{"name": name, "value": value})
}

func effectIncVar(ctx *Context, args []dslexpr.Value) error {
	name, err := argString(args, 0, "inc_var")
	if err != nil {
		return err
	}
	delta := optionalNumber(args, 1, 1)
	return ctx.pushEffect("inc_var", map[string]any{"name": name, "delta": delta})
}

func effectEndGame(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("end_game", nil)
}

func effectResetRound(ctx *Context, args []dslexpr.Value) error {
	return ctx.pushEffect("reset_round", nil)
}
