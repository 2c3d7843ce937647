// Command ruleforgectl is a thin local CLI for driving the ruleset
// engine: validating a ruleset document, inspecting its structure, and
// replaying an action log against it. It holds no network listener —
// lobby/transport concerns live in a separate server, not this CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Version is set by build flags; "dev" otherwise.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the zerolog console logger shared by every
// subcommand, leveled by the root command's --verbose flag.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}
