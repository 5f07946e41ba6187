package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/molepuzzle/internal/config"
	"github.com/vovakirdan/molepuzzle/internal/core"
	"github.com/vovakirdan/molepuzzle/internal/platform/tui"
	"github.com/vovakirdan/molepuzzle/internal/puzzle"
	"github.com/vovakirdan/molepuzzle/internal/whack"
)

var (
	flagPreset string
	flagPrompt string
	flagExport string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round",
	Long: `Start a round of Mole Puzzle.

Without --preset (and without --config) a preset picker is shown first.
With --config the file's settings are used as they are.

Controls:
  Mouse      - Whack moles, pick pieces from the tray, drop them on the board
  Enter      - Finish assembling
  B/Esc      - Put the selected piece back
  P/Space    - Pause
  R          - Restart (after the round)
  Q/Ctrl+C   - Quit
  Ctrl+S     - Save a text screenshot

Examples:
  molepuzzle play
  molepuzzle play --preset Easy
  molepuzzle play --preset Hard --prompt "a robot mole with a hard hat"
  molepuzzle play --config ./party.toml --seed 42
  molepuzzle play --export ./solved.png`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Preset name (Easy, Medium, Hard or a saved preset)")
	playCmd.Flags().StringVar(&flagPrompt, "prompt", "", "Prompt for the puzzle picture (default: last used)")
	playCmd.Flags().StringVar(&flagExport, "export", "", "Write the assembled picture to this PNG file after the round")
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// openLogFile opens the play log; the game owns the terminal while it runs.
func openLogFile() (*os.File, error) {
	path := config.ExpandHome("~/.molepuzzle/molepuzzle.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func runPlay(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logFile, err := openLogFile()
	if err != nil {
		fail("cannot open log file: %v", err)
	}
	defer logFile.Close()

	a, err := openApp(ctx, newLogger(logFile, "molepuzzle"))
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	width, height := terminalSize()
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	cfg := a.cfg
	switch {
	case flagPreset != "":
		p, presetErr := resolvePreset(flagPreset)
		if presetErr != nil {
			fail("%v", presetErr)
		}
		cfg = p.Config

	case flagConfigPath == "":
		book, bookErr := loadPresets()
		if bookErr != nil {
			fail("%v", bookErr)
		}
		choice, menuErr := tui.RunMenu(book.All(), rc)
		if menuErr != nil {
			fail("%v", menuErr)
		}
		rc = choice.Config
		switch {
		case choice.Quit:
			return
		case choice.WantsScoreboard:
			data, dataErr := loadScoreboard(ctx, a)
			if dataErr != nil {
				fail("%v", dataErr)
			}
			if sbErr := tui.RunScoreboard(data, rc.ScreenW, rc.ScreenH); sbErr != nil {
				fail("%v", sbErr)
			}
			return
		}
		cfg = choice.Preset.Config
	}

	game, err := a.newGame(ctx, cfg, flagPrompt)
	if err != nil {
		fail("cannot prepare puzzle: %v", err)
	}

	if runErr := tui.Run(game, rc); runErr != nil {
		fail("running game: %v", runErr)
	}

	printResult(game.Result())

	if flagExport != "" {
		if err := exportBoard(flagExport, cfg, game.Pieces()); err != nil {
			fail("exporting puzzle: %v", err)
		}
		fmt.Printf("  Picture written to %s\n", flagExport)
	}
}

// exportBoard renders the correctly placed pieces into a PNG at path.
// Unsolved slots stay transparent.
func exportBoard(path string, cfg config.Config, pieces []puzzle.Piece) error {
	placed := make([]puzzle.Piece, 0, len(pieces))
	for _, p := range pieces {
		if p.Correct {
			placed = append(placed, p)
		}
	}
	data, err := puzzle.Reassemble(placed, cfg.Grid.Rows, cfg.Grid.Cols, cfg.Visual.PieceSize)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// printResult summarizes the last round on stdout.
func printResult(res whack.Result) {
	s := res.Session
	if s.ID == "" {
		return
	}
	fmt.Printf("Round %s: %s\n", s.Status, s.ID)
	fmt.Printf("  Score:    %d (level %d)\n", s.Score, s.Level)
	fmt.Printf("  Hits:     %d / %d moles, %d misses (%.0f%%)\n", s.Hits, s.MolesSpawned, s.Misses, s.Accuracy()*100)
	fmt.Printf("  Puzzle:   %d / %d pieces placed\n", s.CompletedPieces, s.TotalPieces)
	if s.PuzzleComplete {
		fmt.Printf("  Solved in %s\n", s.Duration().Round(time.Second))
	}
	if res.Rank > 0 {
		fmt.Printf("  New high score! Rank #%d\n", res.Rank)
	}
	for _, ach := range res.Unlocked {
		fmt.Printf("  %s Achievement unlocked: %s\n", ach.Icon, ach.Name)
	}
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", res.Err)
	}
}
