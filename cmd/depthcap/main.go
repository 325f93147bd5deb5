// Package main provides the depthcap CLI entrypoint.
//
// Usage:
//
//	depthcap <command> [subcommand] [options]
//
// Exit codes for `run`:
//   - 0: every captured frame was saved
//   - 1: no frame was saved, or at least one frame failed
//   - 2: configuration or setup error
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/depthcap/cli/cmd"
	"github.com/justapithecus/depthcap/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "depthcap",
		Usage:          "Capture color and depth frames to storage",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.RunCommand(),
			cmd.InspectCommand(),
			cmd.ListCommand(),
			cmd.RecordCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already exited for cli.ExitCoder errors.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}
	os.Exit(reportExit(os.Stderr, err))
}

// reportExit prints the user-facing part of err to w and returns the
// process exit code.
func reportExit(w io.Writer, err error) int {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() is "exit status N"; nothing worth printing.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(w, msg)
		}
		return code
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
