package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/molepuzzle/internal/core"
	"github.com/vovakirdan/molepuzzle/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServePreset string
	flagServePrompt string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Mole Puzzle SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own round and session. Scores, achievements
and puzzles are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.molepuzzle/host_key

Examples:
  molepuzzle serve                           # Listen on :23234 with auto-generated key
  molepuzzle serve --ssh :2222               # Listen on port 2222
  molepuzzle serve --preset Hard             # Everyone plays the Hard preset
  molepuzzle serve --host-key ./my_host_key  # Use specific host key
  molepuzzle serve --db ./molepuzzle.db      # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServePreset, "preset", "", "Preset every player gets (default: current config)")
	serveCmd.Flags().StringVar(&flagServePrompt, "prompt", "", "Prompt for the puzzle picture (default: last used)")
}

func runServe(cmd *cobra.Command, _ []string) {
	ctx := context.Background()
	logger := newLogger(os.Stderr, "molepuzzle-ssh")

	a, err := openApp(ctx, logger)
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	gameCfg := a.cfg
	if flagServePreset != "" {
		p, presetErr := resolvePreset(flagServePreset)
		if presetErr != nil {
			fail("%v", presetErr)
		}
		gameCfg = p.Config
	}

	factory := func(user string) (core.Game, error) {
		logger.Debug("preparing round", "user", user)
		return a.newGame(ctx, gameCfg, flagServePrompt)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, factory, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting Mole Puzzle SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
