package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/depthcap/cli/reader"
	"github.com/justapithecus/depthcap/cli/render"
)

// listWarningThreshold is the number of items above which we warn about using --limit.
const listWarningThreshold = 100

// isStderrTTY returns true if stderr is a TTY.
func isStderrTTY() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// ListCommand returns the list command.
// List returns saved artifacts, newest first.
func ListCommand() *cli.Command {
	flags := append(ReadOnlyFlags(),
		ConfigFlag,
		&cli.StringFlag{
			Name:  "kind",
			Usage: "Filter by kind: image or depth_table",
		},
		&cli.StringFlag{
			Name:  "session",
			Usage: "Filter by session ID",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of artifacts to return (0 = no limit)",
			Value: 0,
		},
	)
	flags = append(flags, StorageFlags()...)

	return &cli.Command{
		Name:   "list",
		Usage:  "List saved capture artifacts",
		Flags:  flags,
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	// TUI not supported for list
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for list command", 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	ctx := context.Background()
	browser, err := buildBrowser(ctx, resolveStorageChoice(c, cfg))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open storage: %v", err), exitConfigError)
	}

	opts := reader.ListArtifactsOptions{
		Kind:    c.String("kind"),
		Session: c.String("session"),
		Limit:   c.Int("limit"),
	}
	results, err := reader.New(browser).ListArtifacts(ctx, opts)
	if err != nil {
		return err
	}

	// Warn if output is large and --limit was not specified (TTY only to avoid noise in pipelines)
	if len(results) > listWarningThreshold && opts.Limit == 0 && isStderrTTY() {
		fmt.Fprintf(os.Stderr, "Warning: returning %d results. Consider using --limit to reduce output.\n\n", len(results))
	}

	return r.Render(results)
}
