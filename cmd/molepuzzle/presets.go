package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/molepuzzle/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage difficulty presets",
	Long: `List, inspect, save and delete difficulty presets.

Built-in presets (Easy, Medium, Hard) are always available and cannot be
changed. User presets live in the presets file (see --presets).

Examples:
  molepuzzle presets list
  molepuzzle presets show Hard
  molepuzzle presets save Party --from ./party.yaml
  molepuzzle presets delete Party
  molepuzzle presets validate ./party.yaml`,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available presets",
	Args:  cobra.NoArgs,
	Run:   runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a preset as YAML",
	Args:  cobra.ExactArgs(1),
	Run:   runPresetsShow,
}

var flagPresetFrom string

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a user preset",
	Long: `Save the current configuration (or the file given by --from) as a user
preset. An existing user preset with the same name is replaced.`,
	Args: cobra.ExactArgs(1),
	Run:  runPresetsSave,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a user preset",
	Args:  cobra.ExactArgs(1),
	Run:   runPresetsDelete,
}

var presetsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	Run:   runPresetsValidate,
}

func init() {
	presetsSaveCmd.Flags().StringVar(&flagPresetFrom, "from", "", "Config file to save (default: current config)")

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	presetsCmd.AddCommand(presetsSaveCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)
	presetsCmd.AddCommand(presetsValidateCmd)
}

func runPresetsList(cmd *cobra.Command, args []string) {
	book, err := loadPresets()
	if err != nil {
		fail("%v", err)
	}

	fmt.Println("Presets:")
	fmt.Println()
	for _, p := range book.All() {
		kind := "user"
		if p.BuiltIn {
			kind = "built-in"
		}
		fmt.Printf("  %-12s %-9s %s\n", p.Name, kind, p.Description)
		fmt.Printf("  %-12s %-9s %ds, %dx%d puzzle, moles every %dms\n", "", "",
			p.Config.GameDurationSec, p.Config.Grid.Rows, p.Config.Grid.Cols, p.Config.MoleAppearanceIntervalMs)
	}
	fmt.Println()
	fmt.Println("Use 'molepuzzle play --preset <name>' to play one.")
}

func runPresetsShow(cmd *cobra.Command, args []string) {
	p, err := resolvePreset(args[0])
	if err != nil {
		fail("%v", err)
	}
	data, err := yaml.Marshal(p.Config)
	if err != nil {
		fail("encoding preset: %v", err)
	}
	fmt.Printf("# %s - %s\n", p.Name, p.Description)
	fmt.Print(string(data))
}

func runPresetsSave(cmd *cobra.Command, args []string) {
	book, err := loadPresets()
	if err != nil {
		fail("%v", err)
	}

	path := flagConfigPath
	if flagPresetFrom != "" {
		path = flagPresetFrom
	}
	cfg, err := config.Load(path)
	if err != nil {
		fail("%v", err)
	}

	if res := book.Save(args[0], cfg); !res.Valid {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		fail("preset %q not saved", args[0])
	}
	if err := config.SavePresets(flagPresetsPath, book); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Saved preset %q.\n", args[0])
}

func runPresetsDelete(cmd *cobra.Command, args []string) {
	name := args[0]
	if config.IsBuiltIn(name) {
		fail("%q is a built-in preset and cannot be deleted", name)
	}

	book, err := loadPresets()
	if err != nil {
		fail("%v", err)
	}
	if !book.Delete(name) {
		fail("no user preset named %q", name)
	}
	if err := config.SavePresets(flagPresetsPath, book); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Deleted preset %q.\n", name)
}

func runPresetsValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(args[0])
	if err != nil {
		fail("%v", err)
	}
	res := config.Validate(cfg)
	if res.Valid {
		fmt.Printf("%s is valid.\n", args[0])
		return
	}
	fmt.Printf("%s has %d problem(s):\n", args[0], len(res.Errors))
	for _, e := range res.Errors {
		fmt.Printf("  %s\n", e)
	}
	os.Exit(1)
}
