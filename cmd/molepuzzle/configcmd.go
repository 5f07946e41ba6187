package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/molepuzzle/internal/config"
)

const userConfigPath = "~/.molepuzzle/config.yaml"

var flagConfigFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the game configuration",
	Long: `Show, validate and change the game configuration.

The configuration is read from --config, or ~/.molepuzzle/config.yaml,
~/.molepuzzle/config.toml, ./configs/molepuzzle.yaml and finally the
built-in defaults. 'config set' writes to --config or
~/.molepuzzle/config.yaml.

Keys for 'config set':
  game_duration_sec, grid_rows, grid_cols, mole_appearance_interval_ms,
  mole_display_duration_ms, points_per_hit, miss_penalty,
  time_bonus_multiplier, area_width, area_height, mole_size, piece_size,
  theme_color, level_threshold, speedup_per_level

Examples:
  molepuzzle config show
  molepuzzle config show --format toml
  molepuzzle config validate
  molepuzzle config set game_duration_sec=90 grid_rows=4 grid_cols=4
  molepuzzle config set theme_color=#FF5722`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigValidate,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change configuration values",
	Args:  cobra.MinimumNArgs(1),
	Run:   runConfigSet,
}

func init() {
	configShowCmd.Flags().StringVar(&flagConfigFormat, "format", "yaml", "Output format: yaml or toml")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fail("%v", err)
	}

	switch flagConfigFormat {
	case "yaml":
		data, encErr := yaml.Marshal(cfg)
		if encErr != nil {
			fail("%v", encErr)
		}
		fmt.Print(string(data))
	case "toml":
		if encErr := toml.NewEncoder(os.Stdout).Encode(cfg); encErr != nil {
			fail("%v", encErr)
		}
	default:
		fail("unknown format %q (use yaml or toml)", flagConfigFormat)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fail("%v", err)
	}
	res := config.Validate(cfg)
	if res.Valid {
		fmt.Println("Configuration is valid.")
		return
	}
	for _, e := range res.Errors {
		fmt.Printf("  %s\n", e)
	}
	os.Exit(1)
}

// parseUpdate turns key=value pairs into a partial update. Numbers are
// passed through, anything else is a string. Unknown keys are rejected.
func parseUpdate(pairs []string) (config.Update, error) {
	var doc strings.Builder
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return config.Update{}, fmt.Errorf("expected key=value, got %q", pair)
		}
		value = strings.TrimSpace(value)
		if _, numErr := strconv.ParseFloat(value, 64); numErr == nil {
			fmt.Fprintf(&doc, "%s: %s\n", strings.TrimSpace(key), value)
		} else {
			fmt.Fprintf(&doc, "%s: %q\n", strings.TrimSpace(key), value)
		}
	}

	var u config.Update
	dec := yaml.NewDecoder(bytes.NewBufferString(doc.String()))
	dec.KnownFields(true)
	if err := dec.Decode(&u); err != nil {
		return config.Update{}, fmt.Errorf("invalid setting: %w", err)
	}
	return u, nil
}

func runConfigSet(cmd *cobra.Command, args []string) {
	u, err := parseUpdate(args)
	if err != nil {
		fail("%v", err)
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fail("%v", err)
	}

	next, res := config.Apply(cfg, u)
	if !res.Valid {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		fail("configuration not changed")
	}

	path := flagConfigPath
	if path == "" {
		path = userConfigPath
	}
	if err := config.Save(path, next); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Saved %s.\n", config.ExpandHome(path))
}
