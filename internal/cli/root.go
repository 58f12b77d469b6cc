// Package cli implements the mangapanel command-line interface.
//
// The main commands are:
//   - extract: detect, order and crop the panels of full page scans
//   - clean: remove the frame border from individual panel images
//   - order: print the reading order of a panel rectangle list
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a TOML settings file. Loggers and the loaded configuration are passed
// through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"manga-panel-extractor/internal/config"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Values are
// injected by the main package via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

const configKey ctxKey = 1

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the loaded configuration from ctx, falling
// back to the defaults.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// Execute runs the mangapanel CLI and returns an error if any command fails.
// The context carries cancellation from the caller's signal handling.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "mangapanel",
		Short:        "Mangapanel extracts clean panel images from scanned comic pages",
		Long:         `Mangapanel detects the panels of scanned comic and manga pages, orders them into natural reading sequence, and crops each panel to the inside of its drawn frame.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("mangapanel %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML configuration file")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newOrderCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
