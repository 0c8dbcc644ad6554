package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/virtlist/internal/config"
)

// NewConfigGetCmd creates the config get command, which prints one setting.
func NewConfigGetCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "get [KEY]",
		Short: "Print a configuration value",
		Example: `  # Print one value
  virtlist config get list.throttle_ms

  # Print a whole section
  virtlist config get image

  # List every key
  virtlist config get --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()
			if list || len(args) == 0 {
				for _, key := range cfg.Keys() {
					cmd.Println(key)
				}
				return nil
			}

			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			if m, ok := v.(map[string]any); ok {
				out, marshalErr := yaml.Marshal(m)
				if marshalErr != nil {
					return marshalErr
				}
				cmd.Print(string(out))
				return nil
			}
			if items, ok := v.([]any); ok {
				parts := make([]string, len(items))
				for i, item := range items {
					parts[i] = fmt.Sprint(item)
				}
				cmd.Println(strings.Join(parts, ","))
				return nil
			}
			cmd.Println(v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list every key")

	return cmd
}
