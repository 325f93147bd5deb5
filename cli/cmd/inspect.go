package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/depthcap/cli/reader"
	"github.com/justapithecus/depthcap/cli/render"
	"github.com/justapithecus/depthcap/cli/tui"
)

// InspectCommand returns the inspect command with subcommands.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect a saved artifact",
		Subcommands: []*cli.Command{
			inspectDepthCommand(),
		},
	}
}

func inspectDepthCommand() *cli.Command {
	flags := append(ReadOnlyFlags(), ConfigFlag)
	flags = append(flags, StorageFlags()...)

	return &cli.Command{
		Name:      "depth",
		Usage:     "Summarize a depth table (local file or stored path from list)",
		ArgsUsage: "<file.csv>",
		Flags:     flags,
		Action:    inspectDepthAction,
	}
}

func inspectDepthAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: depthcap inspect depth <file.csv>", 1)
	}
	ref := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	// A store is optional here: local files are read directly
	ctx := context.Background()
	var rd *reader.Reader
	if browser, err := buildBrowser(ctx, resolveStorageChoice(c, cfg)); err == nil {
		rd = reader.New(browser)
	} else {
		rd = reader.New(nil)
	}

	resp, err := rd.InspectDepth(ctx, ref)
	if err != nil {
		return cli.Exit(fmt.Sprintf("inspect failed: %v", err), 1)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewInspectDepth, resp)
	}
	return r.Render(resp)
}
