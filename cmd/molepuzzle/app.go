package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
	"github.com/vovakirdan/molepuzzle/internal/config"
	"github.com/vovakirdan/molepuzzle/internal/imagegen"
	"github.com/vovakirdan/molepuzzle/internal/progress"
	"github.com/vovakirdan/molepuzzle/internal/puzzle"
	"github.com/vovakirdan/molepuzzle/internal/session"
	"github.com/vovakirdan/molepuzzle/internal/storage"
	"github.com/vovakirdan/molepuzzle/internal/whack"
)

const (
	defaultPrompt = "a friendly mole peeking out of a flower garden"
	journalSize   = 100
)

// app bundles the collaborators shared by the commands.
type app struct {
	cfg          config.Config
	store        *storage.Store
	recorder     *session.AsyncRecorder
	journal      *apperr.Journal
	logger       *log.Logger
	achievements *progress.Tracker
	highScores   *progress.HighScores
	images       *imagegen.Client
}

// newLogger builds the command logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// openApp loads the configuration, opens the database and restores
// achievements and high scores.
func openApp(ctx context.Context, logger *log.Logger) (*app, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, err
	}
	if res := config.Validate(cfg); !res.Valid {
		return nil, res.Err()
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}

	journal := apperr.NewJournal(journalSize, logger)
	a := &app{
		cfg:          cfg,
		store:        store,
		recorder:     session.NewAsyncRecorder(store, session.DefaultQueueSize, journal, logger),
		journal:      journal,
		logger:       logger,
		achievements: progress.NewTracker(store),
		highScores:   progress.NewHighScores(store),
		images:       imagegen.NewClient(imagegen.ConfigFromEnv(), journal, logger),
	}

	if err := a.achievements.Load(ctx); err != nil {
		journal.Record("app.achievements", err)
	}
	if err := a.highScores.Load(ctx); err != nil {
		journal.Record("app.highscores", err)
	}
	return a, nil
}

// Close flushes pending writes and closes the database.
func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Warn("cannot flush sessions", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("cannot close database", "error", err)
	}
}

// loadPresets reads the user preset book.
func loadPresets() (*config.PresetBook, error) {
	return config.LoadPresets(flagPresetsPath)
}

// resolvePreset finds a preset by name among built-in and user presets.
func resolvePreset(name string) (config.Preset, error) {
	book, err := loadPresets()
	if err != nil {
		return config.Preset{}, err
	}
	p, ok := book.Get(name)
	if !ok {
		return config.Preset{}, fmt.Errorf("unknown preset %q (try 'molepuzzle presets list')", name)
	}
	return p, nil
}

// pickPrompt returns prompt, or the most recent one from history, or the
// default.
func (a *app) pickPrompt(ctx context.Context, prompt string) string {
	if p := strings.TrimSpace(prompt); p != "" {
		return p
	}
	if history, err := a.store.Prompts(ctx); err == nil && len(history) > 0 {
		return history[0]
	}
	return defaultPrompt
}

// createCharacter generates an image for prompt and stores it.
func (a *app) createCharacter(ctx context.Context, prompt string, opts imagegen.Options) (storage.Character, error) {
	img, err := a.images.Generate(ctx, prompt, opts)
	if err != nil {
		return storage.Character{}, err
	}

	c := storage.Character{
		ID:          uuid.NewString(),
		Prompt:      img.Prompt,
		Image:       img.Data,
		Width:       img.Width,
		Height:      img.Height,
		Format:      img.Format,
		Placeholder: img.IsPlaceholder,
		CreatedAt:   time.Now(),
	}
	if err := a.store.PutCharacter(ctx, c); err != nil {
		a.journal.Record("app.character", err)
	}
	if err := a.store.AddPrompt(ctx, prompt); err != nil {
		a.journal.Record("app.prompt", err)
	}
	return c, nil
}

// newGame prepares a round: the puzzle image is generated and sliced for
// cfg's grid, then a game is wired to the shared stores.
func (a *app) newGame(ctx context.Context, cfg config.Config, prompt string) (*whack.Game, error) {
	opts := imagegen.Options{
		Width:  cfg.Grid.Cols * cfg.Visual.PieceSize,
		Height: cfg.Grid.Rows * cfg.Visual.PieceSize,
		Format: "png",
	}
	c, err := a.createCharacter(ctx, a.pickPrompt(ctx, prompt), opts)
	if err != nil {
		return nil, err
	}

	pieces, err := puzzle.SliceBytes(c.Image, cfg.Grid.Rows, cfg.Grid.Cols, cfg.Visual.PieceSize)
	if err != nil {
		return nil, fmt.Errorf("cannot slice puzzle image: %w", err)
	}

	return whack.New(whack.Options{
		Config:      cfg,
		Pieces:      pieces,
		CharacterID: c.ID,
		Manager: session.NewManager(session.Options{
			Recorder: a.recorder,
			Journal:  a.journal,
			Logger:   a.logger,
		}),
		Achievements: a.achievements,
		HighScores:   a.highScores,
		Scores:       a.store,
		PieceStore:   a.store,
		Journal:      a.journal,
		Logger:       a.logger,
	}), nil
}

// fail prints err and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
