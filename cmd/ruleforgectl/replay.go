package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardforge/ruleforge/initgame"
	"github.com/cardforge/ruleforge/reduce"
	"github.com/cardforge/ruleforge/registry"
	"github.com/cardforge/ruleforge/ruleset"
)

// logEntry is the on-disk shape of one action-log line: ruleset.Action
// is a tagged-union interface with no JSON tags of its own, so replay
// input files name the action kind explicitly and carry only the
// fields that kind uses.
type logEntry struct {
	Kind        string             `json:"kind"`
	PlayerID    string             `json:"player_id,omitempty"`
	Name        string             `json:"name,omitempty"`
	Declaration string             `json:"declaration,omitempty"`
	Params      map[string]float64 `json:"params,omitempty"`
	CardID      string             `json:"card_id,omitempty"`
	From        string             `json:"from,omitempty"`
	To          string             `json:"to,omitempty"`
	Count       int                `json:"count,omitempty"`
}

func (e logEntry) toAction() (ruleset.Action, error) {
	switch e.Kind {
	case "join":
		return ruleset.JoinAction{PlayerID: e.PlayerID, Name: e.Name}, nil
	case "leave":
		return ruleset.LeaveAction{PlayerID: e.PlayerID}, nil
	case "start_game":
		return ruleset.StartGameAction{}, nil
	case "declare":
		return ruleset.DeclareAction{PlayerID: e.PlayerID, Declaration: e.Declaration, Params: e.Params}, nil
	case "play_card":
		return ruleset.PlayCardAction{PlayerID: e.PlayerID, CardID: e.CardID, From: e.From, To: e.To}, nil
	case "draw_card":
		return ruleset.DrawCardAction{PlayerID: e.PlayerID, From: e.From, To: e.To, Count: e.Count}, nil
	case "end_turn":
		return ruleset.EndTurnAction{PlayerID: e.PlayerID}, nil
	case "advance_phase":
		return ruleset.AdvancePhaseAction{}, nil
	case "reset_round":
		return ruleset.ResetRoundAction{}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", e.Kind)
	}
}

// replayInput is the whole file passed to `replay`: a player roster,
// a seed, and the ordered action log to feed through the reducer.
type replayInput struct {
	Seed    uint32           `json:"seed"`
	Players []ruleset.Player `json:"players"`
	Actions []logEntry       `json:"actions"`
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <ruleset.json> <actions.json>",
		Short: "Replay an action log against a freshly dealt state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)

			rsData, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			rs, err := ruleset.LoadRulesetJSON(rsData)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			logData, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			var input replayInput
			if err := json.Unmarshal(logData, &input); err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			state, err := initgame.New(rs, initgame.Options{Seed: input.Seed, Players: input.Players})
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			r, err := reduce.New(rs, registry.NewDefaultRegistry())
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			now := time.Now()
			for i, entry := range input.Actions {
				action, err := entry.toAction()
				if err != nil {
					return fmt.Errorf("replay: action %d: %w", i, err)
				}
				next, err := r.Reduce(state, action, now)
				if err != nil {
					return fmt.Errorf("replay: action %d (%s): %w", i, entry.Kind, err)
				}
				log.Debug().Int("index", i).Str("kind", entry.Kind).Int("version", next.Version).Msg("applied action")
				state = next
			}

			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
