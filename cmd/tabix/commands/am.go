package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tabix/am"
	"github.com/teranos/tabix/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage tabix configuration",
	Long: `am — Manage tabix configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (TABIX_* prefix)
3. Project config (nearest tabix.toml, searching up from the working directory)
4. User config (~/.tabix/tabix.toml)
5. System config (/etc/tabix/tabix.toml)
6. Default values

Examples:
  tabix am show                          # Show current configuration
  tabix am show --format json            # Show configuration in JSON format
  tabix am get rating.left_factor        # Get specific config value
  tabix am set rating.left_factor 5      # Write a value to the project config
  tabix am where                         # Show where each value comes from
  tabix am validate                      # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, rating.unique_factor)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a configuration value",
	Long:  "Write a value to ./tabix.toml, or to ~/.tabix/tabix.toml with --user",
	Args:  cobra.ExactArgs(2),
	RunE:  runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value is loaded from",
	RunE:  runAmWhere,
}

var (
	configFormat string
	setUser      bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amSetCmd.Flags().BoolVar(&setUser, "user", false, "Write to the user config instead of the project config")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	return writeConfig(cmd.OutOrStdout(), configFormat, cfg)
}

func writeConfig(w io.Writer, format string, cfg *am.Config) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# tabix configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# tabix configuration\n%s", data)

	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.Wrapf(errors.ErrNotFound, "configuration key %q", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path := am.ConfigFileName
	if setUser {
		path = am.UserConfigPath()
		if path == "" {
			return errors.New("could not determine home directory")
		}
	}

	if err := am.SetValue(path, args[0], parseValue(args[1])); err != nil {
		return err
	}
	am.Reset()

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", pterm.LightGreen("✓"), args[0], args[1], path)
	return nil
}

// parseValue reads a CLI value as bool, int or float before falling back to string
func parseValue(s string) interface{} {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings, err := am.Settings()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(w, "  2. [SYSTEM]   /etc/tabix/tabix.toml")
	fmt.Fprintln(w, "  3. [USER]     ~/.tabix/tabix.toml")
	fmt.Fprintln(w, "  4. [PROJECT]  ./tabix.toml (searches up directories)")
	fmt.Fprintln(w, "  5. [ENV]      TABIX_* environment variables")
	fmt.Fprintln(w)

	data := pterm.TableData{{"key", "value", "source", "from"}}
	for _, s := range settings {
		value := fmt.Sprintf("%v", s.Value)
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		data = append(data, []string{s.Key, value, string(s.Source), s.SourcePath})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render settings")
	}
	fmt.Fprintln(w, rendered)
	return nil
}
