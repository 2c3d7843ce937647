package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardforge/ruleforge/phase"
	"github.com/cardforge/ruleforge/ruleset"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <ruleset.json>",
		Short: "Load a ruleset document and report structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			rs, err := ruleset.LoadRulesetJSON(data)
			if err != nil {
				if perr, ok := err.(*ruleset.RulesetParseError); ok {
					for _, issue := range perr.Issues {
						log.Error().Str("issue", issue).Msg("ruleset validation failed")
					}
					return fmt.Errorf("validate: %d issue(s) found", len(perr.Issues))
				}
				return fmt.Errorf("validate: %w", err)
			}

			if _, err := phase.NewMachine(rs.Phases); err != nil {
				log.Error().Err(err).Msg("phase machine construction failed")
				return fmt.Errorf("validate: %w", err)
			}

			log.Info().Str("slug", rs.Meta.Slug).Int("phases", len(rs.Phases)).Int("zones", len(rs.Zones)).Msg("ruleset is valid")
			fmt.Printf("%s (%s) is valid: %d phases, %d zones, %d roles\n",
				rs.Meta.Name, rs.Meta.Version, len(rs.Phases), len(rs.Zones), len(rs.Roles))
			return nil
		},
	}
}
