package apply

import (
	"fmt"
	"strings"
	"time"

	"github.com/cardforge/ruleforge/dslexpr"
	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
)

// scoringContext builds a read-only evaluation context for a human
// player (playerIndex >= 0) or an NPC role (role != ""), following the
// same current_player synthesis registry.Context already provides for
// phase-action conditions.
func scoringContext(s *ruleset.CardGameState, reg *registry.Registry, playerIndex int, role string) *registry.Context {
	ctx := &registry.Context{
		State:        s,
		Registry:     reg,
		Bindings:     map[string]dslexpr.Value{},
		ActionParams: map[string]float64{},
	}
	if role != "" {
		ctx.RoleOverride = role
		ctx.HasRoleOverride = true
	} else {
		ctx.PlayerIndex = playerIndex
		ctx.HasPlayerIndex = true
	}
	return ctx
}

func applyCalculateScores(s *ruleset.CardGameState, reg *registry.Registry) (*ruleset.CardGameState, error) {
	method := s.Ruleset.Scoring.Method
	for i := 0; i < s.HumanPlayerCount(); i++ {
		ctx := scoringContext(s, reg, i, "")
		v, err := dslexpr.EvalAST(method, ctx)
		if err != nil {
			return nil, fmt.Errorf("calculate_scores: player %d: %w", i, err)
		}
		n, err := v.AsNumber()
		if err != nil {
			return nil, fmt.Errorf("calculate_scores: player %d: %w", i, err)
		}
		s.Scores[fmt.Sprintf("player_score:%d", i)] = n
	}
	for _, role := range s.Ruleset.Roles {
		if role.IsHuman {
			continue
		}
		ctx := scoringContext(s, reg, 0, role.Name)
		v, err := dslexpr.EvalAST(method, ctx)
		if err != nil {
			return nil, fmt.Errorf("calculate_scores: role %s: %w", role.Name, err)
		}
		n, err := v.AsNumber()
		if err != nil {
			return nil, fmt.Errorf("calculate_scores: role %s: %w", role.Name, err)
		}
		s.Scores[fmt.Sprintf("%s_score", role.Name)] = n
	}
	return s, nil
}

// evalConditionBool evaluates an optional condition string; an empty
// condition is treated as never-true, matching how ruleset.go leaves
// BustCondition/TieCondition/AutoEndTurnCondition optional.
func evalConditionBool(expr string, ctx *registry.Context) (bool, error) {
	if expr == "" {
		return false, nil
	}
	v, err := dslexpr.EvalAST(expr, ctx)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func applyDetermineWinners(s *ruleset.CardGameState, reg *registry.Registry) (*ruleset.CardGameState, error) {
	scoring := s.Ruleset.Scoring
	for i := 0; i < s.HumanPlayerCount(); i++ {
		myScore := s.Scores[fmt.Sprintf("player_score:%d", i)]
		ctx := scoringContext(s, reg, i, "")
		ctx.Bindings["my_score"] = dslexpr.Num(myScore)

		result := -1.0
		busted, err := evalConditionBool(scoring.BustCondition, ctx)
		if err != nil {
			return nil, fmt.Errorf("determine_winners: player %d: %w", i, err)
		}
		switch {
		case busted:
			result = -1
		default:
			won, err := evalConditionBool(scoring.WinCondition, ctx)
			if err != nil {
				return nil, fmt.Errorf("determine_winners: player %d: %w", i, err)
			}
			if won {
				result = 1
			} else {
				tied, err := evalConditionBool(scoring.TieCondition, ctx)
				if err != nil {
					return nil, fmt.Errorf("determine_winners: player %d: %w", i, err)
				}
				if tied {
					result = 0
				}
			}
		}
		s.Scores[fmt.Sprintf("result:%d", i)] = result
	}
	return s, nil
}

func applyAccumulateScores(s *ruleset.CardGameState) *ruleset.CardGameState {
	for i := 0; i < s.HumanPlayerCount(); i++ {
		key := fmt.Sprintf("player_score:%d", i)
		cumKey := fmt.Sprintf("cumulative_score_%d", i)
		s.Scores[cumKey] += s.Scores[key]
	}
	return s
}

// applyEndGame scans result:* in player-index order for the first
// winner and marks the game finished.
func applyEndGame(s *ruleset.CardGameState, now time.Time) *ruleset.CardGameState {
	winnerID := ""
	hasWinner := false
	for i := 0; i < s.HumanPlayerCount(); i++ {
		if s.Scores[fmt.Sprintf("result:%d", i)] == 1 {
			winnerID = s.Players[i].ID
			hasWinner = true
			break
		}
	}
	s.Status = ruleset.Finished(now, winnerID, hasWinner)
	return s
}

const cumulativeScorePrefix = "cumulative_score_"

// applyResetRound drops every score except the running cumulative_score_*
// totals, restores variables to their ruleset-declared initial values,
// and resets the turn/phase counters to the start of a fresh round.
func applyResetRound(s *ruleset.CardGameState) *ruleset.CardGameState {
	next := map[string]float64{}
	for k, v := range s.Scores {
		if strings.HasPrefix(k, cumulativeScorePrefix) {
			next[k] = v
		}
	}
	s.Scores = next

	vars := map[string]float64{}
	for k, v := range s.Ruleset.InitialVariables {
		vars[k] = v
	}
	s.Variables = vars

	s.CurrentPlayerIndex = 0
	s.TurnNumber++
	s.TurnsTakenThisPhase = 0
	s.TurnDirection = 1
	return s
}
