package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagResetAchievements bool
	flagResetStats        bool
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and player stats",
	Long: `Show every achievement, whether it is unlocked, and the cumulative stats
they are based on.

Examples:
  molepuzzle achievements
  molepuzzle achievements --reset
  molepuzzle achievements --reset --reset-stats`,
	Args: cobra.NoArgs,
	Run:  runAchievements,
}

func init() {
	achievementsCmd.Flags().BoolVar(&flagResetAchievements, "reset", false, "Lock every achievement again")
	achievementsCmd.Flags().BoolVar(&flagResetStats, "reset-stats", false, "Clear the cumulative stats")
}

func runAchievements(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	a, err := openApp(ctx, newLogger(cmd.ErrOrStderr(), "molepuzzle"))
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	if flagResetAchievements {
		if resetErr := a.achievements.ResetAchievements(ctx); resetErr != nil {
			fail("resetting achievements: %v", resetErr)
		}
		fmt.Println("Achievements reset.")
	}
	if flagResetStats {
		if resetErr := a.achievements.ResetStats(ctx); resetErr != nil {
			fail("resetting stats: %v", resetErr)
		}
		fmt.Println("Stats reset.")
	}

	all := a.achievements.All()
	unlocked := 0
	for _, p := range all {
		mark := "  "
		if p.Unlocked {
			mark = p.Icon
			unlocked++
		}
		fmt.Printf("%s  %-18s %s\n", mark, p.Name, p.Description)
	}
	fmt.Println()
	fmt.Printf("Unlocked %d of %d\n", unlocked, len(all))

	s := a.achievements.Stats()
	fmt.Println()
	fmt.Printf("Total hits:        %s of %s moles\n", humanize.Comma(int64(s.TotalHits)), humanize.Comma(int64(s.TotalMoles)))
	fmt.Printf("Best score:        %s\n", humanize.Comma(int64(s.MaxScore)))
	fmt.Printf("Highest level:     %d\n", s.MaxLevel)
	fmt.Printf("Puzzles completed: %d\n", s.PuzzlesCompleted)
	if s.Fastest5HitsMs > 0 {
		fmt.Printf("Fastest 5 hits:    %s\n", time.Duration(s.Fastest5HitsMs)*time.Millisecond)
	}
}
