// molepuzzle is a terminal whack-a-mole game that rewards every hit with a
// piece of a jigsaw puzzle.
//
// Usage:
//
//	molepuzzle play                 - Pick a preset and play
//	molepuzzle scores               - Browse high scores and history
//	molepuzzle achievements         - List achievements
//	molepuzzle presets ...          - Manage difficulty presets
//	molepuzzle config ...           - Inspect and edit the configuration
//	molepuzzle generate <prompt>    - Generate a puzzle image
//	molepuzzle cleanup              - Sweep old records from the database
//	molepuzzle serve                - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.molepuzzle/molepuzzle.db)
//	--config <path>     - Use a specific config file (YAML or TOML)
//	--presets <path>    - Set user presets file
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS         int
	flagSeed        int64
	flagDBPath      string
	flagConfigPath  string
	flagPresetsPath string
	flagLogLevel    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "molepuzzle",
	Short: "Mole Puzzle - whack moles, collect pieces, solve the puzzle",
	Long: `Mole Puzzle is a terminal mini-game. Click the moles as they pop up to
earn points; every hit also wins a piece of a generated picture. When time
runs out, put the picture back together.

Examples:
  molepuzzle play
  molepuzzle play --preset Hard --prompt "a fox in the snow"
  molepuzzle scores
  molepuzzle presets list
  molepuzzle config set game_duration_sec=90
  molepuzzle serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.molepuzzle/molepuzzle.db", "Path to the database")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to a config file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagPresetsPath, "presets", "~/.molepuzzle/presets.yaml", "Path to the user presets file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(serveCmd)
}
