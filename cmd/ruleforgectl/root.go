package main

import (
	"github.com/spf13/cobra"
)

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ruleforgectl",
		Short:   "Inspect and drive ruleforge card-game rulesets",
		Version: Version,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newReplayCmd())
	return cmd
}
