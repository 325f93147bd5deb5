// Package cmd provides CLI commands for the depthcap binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for run and inspect depth.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (run, inspect depth only)",
	}

	// ConfigFlag points at a depthcap.yaml file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to depthcap.yaml (flags override config values)",
		EnvVars: []string{"DEPTHCAP_CONFIG"},
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// StorageFlags returns the flags selecting a capture store.
// Shared by run (writes) and list/inspect (reads).
func StorageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "storage-backend",
			Usage: "Storage backend: fs or s3",
			Value: "fs",
		},
		&cli.StringFlag{
			Name:  "storage-path",
			Usage: "Storage path (fs: directory, s3: bucket/prefix)",
			Value: defaultStoragePath,
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Usage: "AWS region for S3 backend (optional, uses default chain)",
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "Custom S3 endpoint for S3-compatible providers (R2, MinIO)",
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "Force path-style S3 addressing",
		},
	}
}
