package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/molepuzzle/internal/platform/tui"
)

const recentLimit = 20

var flagPlain bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and recent rounds",
	Long: `Browse the high-score table, recent rounds and achievements.

Examples:
  molepuzzle scores
  molepuzzle scores --plain`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the tables instead of opening the browser")
}

// loadScoreboard collects everything the scoreboard shows.
func loadScoreboard(ctx context.Context, a *app) (tui.ScoreboardData, error) {
	recent, err := a.store.RecentScores(ctx, recentLimit)
	if err != nil {
		return tui.ScoreboardData{}, err
	}
	return tui.ScoreboardData{
		HighScores:   a.highScores.Entries(),
		Recent:       recent,
		Achievements: a.achievements.All(),
		Stats:        a.achievements.Stats(),
		Now:          time.Now(),
	}, nil
}

func runScores(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	a, err := openApp(ctx, newLogger(cmd.ErrOrStderr(), "molepuzzle"))
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	data, err := loadScoreboard(ctx, a)
	if err != nil {
		fail("retrieving scores: %v", err)
	}

	if !flagPlain {
		width, height := terminalSize()
		if sbErr := tui.RunScoreboard(data, width, height); sbErr != nil {
			fail("%v", sbErr)
		}
		return
	}

	fmt.Println("High Scores - Mole Puzzle")
	fmt.Println()

	if len(data.HighScores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'molepuzzle play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, e := range data.HighScores {
		fmt.Printf("  %-4d  %-10s  %s\n", i+1, humanize.Comma(int64(e.Score)), e.Time().Format("2006-01-02 15:04"))
	}

	if best, ok := a.highScores.At(1); ok {
		fmt.Println()
		fmt.Printf("Best: %s, set %s\n", humanize.Comma(int64(best.Score)), humanize.Time(best.Time()))
	}

	if stats, statsErr := a.store.ScoreStats(ctx); statsErr == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Games: %d  Average: %.0f  Last played %s\n",
			stats.GamesCount, stats.AvgScore, humanize.Time(stats.LastPlayed))
	}

	fastest, err := a.store.FastestTimes(ctx, 5)
	if err == nil && len(fastest) > 0 {
		fmt.Println()
		fmt.Println("Fastest Puzzles")
		for i, r := range fastest {
			fmt.Printf("  %-4d  %-10s  score %s\n", i+1, r.CompletionTime.Round(100*time.Millisecond), humanize.Comma(int64(r.Score)))
		}
	}
}
