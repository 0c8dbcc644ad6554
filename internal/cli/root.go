package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/virtlist/internal/config"
	"github.com/rshade/virtlist/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the virtlist CLI.
// It wires up configuration, logging, tracing and the subcommands
// (view, render, image, config).
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:          "virtlist",
		Short:        "Windowed terminal list for large record sets",
		Long:         "virtlist: browse, render and export large record sets through a virtualized list that only draws the rows in view",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				if err := config.InitGlobalConfigFrom(path); err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
			}

			result := setupLogging(cmd, lookupEnv)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $VIRTLIST_HOME/config.yaml)")
	cmd.AddCommand(NewViewCmd(), NewRenderCmd(), newImageCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Browse a JSON Lines file interactively
  virtlist view contacts.jsonl

  # Browse 100000 generated records with the tcell backend
  virtlist view --demo 100000 --backend tcell

  # Render the window at scroll offset 205 of a 20-row viewport
  virtlist render --demo 1000 --offset 205 --height 20

  # Export page 3 as JSON
  virtlist render contacts.yaml --page 3 --page-size 50 --output json --out page3.json

  # Shrink photos for upload
  virtlist image shrink photos/*.png --out-dir upload

  # Initialize configuration
  virtlist config init`

// newImageCmd creates the image command group.
func newImageCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "image", Short: "Image preparation commands"}
	cmd.AddCommand(NewImageShrinkCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigGetCmd(), NewConfigValidateCmd())
	return cmd
}
