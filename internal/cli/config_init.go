package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/virtlist/internal/config"
	"github.com/rshade/virtlist/internal/errmsg"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates $VIRTLIST_HOME/config.yaml (default ~/.virtlist/config.yaml) with
default values, together with the logs directory.

If the file exists you are asked before it is replaced; --force skips the question.`,
		Example: `  # Create configuration
  virtlist config init

  # Create configuration, overwriting existing
  virtlist config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force, isTerminal(os.Stdin))
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force, interactive bool) error {
	handler := errmsg.NewHandler(logger, func(msg string) { cmd.PrintErrln(msg) })

	dir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	cfg := config.Defaults()
	cfg.SetConfigPath(filepath.Join(dir, "config.yaml"))

	if !force {
		_, statErr := os.Stat(cfg.ConfigPath())
		switch {
		case statErr == nil:
			answer := ConfirmOverwrite(cmd.OutOrStdout(), cmd.InOrStdin(), cfg.ConfigPath(), interactive)
			if !answer.Accepted {
				return errors.New("configuration file already exists, use --force to overwrite")
			}
		case !os.IsNotExist(statErr):
			return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), statErr)
		}
	}

	if err = config.EnsureSubDirs(); err != nil {
		handler.Handle(err, errmsg.ContextDataSave)
		return err
	}
	if err = cfg.Save(); err != nil {
		handler.Handle(err, errmsg.ContextDataSave)
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Info().Ctx(cmd.Context()).Str("path", cfg.ConfigPath()).Msg("configuration initialized")
	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}
