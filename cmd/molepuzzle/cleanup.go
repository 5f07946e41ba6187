package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/molepuzzle/internal/storage"
)

var flagCleanupAll bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old records from the database",
	Long: `Delete finished sessions older than 30 days, scores and pictures older
than 90 days, and puzzle pieces whose session is gone.

With --all every table is emptied, including settings, achievements and
high scores.

Examples:
  molepuzzle cleanup
  molepuzzle cleanup --all`,
	Args: cobra.NoArgs,
	Run:  runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&flagCleanupAll, "all", false, "Delete everything")
}

func runCleanup(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	if flagCleanupAll {
		if err := store.ClearAll(ctx); err != nil {
			fail("clearing database: %v", err)
		}
		fmt.Println("All data removed.")
		return
	}

	res, err := store.Sweep(ctx, time.Now())
	if err != nil {
		fail("sweeping database: %v", err)
	}
	if res.Total() == 0 {
		fmt.Println("Nothing to clean up.")
		return
	}
	fmt.Printf("Removed %d session(s), %d piece(s), %d score(s), %d picture(s).\n",
		res.Sessions, res.Pieces, res.Scores, res.Characters)
}
