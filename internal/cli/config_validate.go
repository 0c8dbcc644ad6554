package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rshade/virtlist/internal/config"
	"github.com/rshade/virtlist/internal/errmsg"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file for syntax and semantic correctness.

This includes:
- YAML syntax
- Schema version compatibility
- List settings (item height, throttle, error policy, backend)
- Record rule names
- Image limits and MIME types
- Logging level and format`,
		Example: `  # Validate current configuration
  virtlist config validate

  # Validate another file and show detailed information
  virtlist config validate --config ./virtlist.yaml --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	handler := errmsg.NewHandler(logger, func(msg string) { cmd.PrintErrln(msg) })

	cfg, err := loadForValidation()
	if err != nil {
		handler.Handle(err, errmsg.ContextConfig)
		return fmt.Errorf("configuration could not be read: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		handler.Handle(err, errmsg.ContextConfig)
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// loadForValidation reads the active config file strictly, so syntax errors
// surface instead of falling back to defaults.
func loadForValidation() (*config.Config, error) {
	path := config.GetGlobalConfig().ConfigPath()
	if path == "" {
		return config.GetGlobalConfig(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.GetGlobalConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Version: %s\n", cfg.Version)
	cmd.Printf("  List backend: %s\n", cfg.List.Backend)
	cmd.Printf("  Item height: %d\n", cfg.List.ItemHeight)
	cmd.Printf("  Throttle: %s\n", cfg.List.ThrottleInterval())
	cmd.Printf("  Error policy: %s\n", cfg.List.ErrorPolicy)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	if len(cfg.Records.Rules) == 0 {
		cmd.Println("  Record rules: none")
		return
	}
	fields := make([]string, 0, len(cfg.Records.Rules))
	for field := range cfg.Records.Rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	cmd.Printf("  Record rules: %d\n", len(fields))
	for _, field := range fields {
		cmd.Printf("    - %s: %v\n", field, cfg.Records.Rules[field])
	}
}
