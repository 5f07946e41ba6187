// Package whack ties the mole, scoring, puzzle and session engines into one
// playable game driven by the platform's tick loop.
package whack

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
	"github.com/vovakirdan/molepuzzle/internal/config"
	"github.com/vovakirdan/molepuzzle/internal/core"
	"github.com/vovakirdan/molepuzzle/internal/mole"
	"github.com/vovakirdan/molepuzzle/internal/progress"
	"github.com/vovakirdan/molepuzzle/internal/puzzle"
	"github.com/vovakirdan/molepuzzle/internal/scoring"
	"github.com/vovakirdan/molepuzzle/internal/session"
	"github.com/vovakirdan/molepuzzle/internal/storage"
)

// Game identity.
const (
	GameID    = "molepuzzle"
	GameTitle = "Mole Puzzle"
)

// Layout constants.
const (
	hudHeight    = 1
	footerHeight = 1
	trayWidth    = 24
	flashFor     = 1500 * time.Millisecond
)

// Phase is the stage of a game.
type Phase int

const (
	PhasePlaying    Phase = iota // Moles are popping up
	PhaseAssembling              // Placing the collected pieces
	PhaseOver                    // Session ended
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseAssembling:
		return "assembling"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// ScoreSink stores the summary of a finished session.
type ScoreSink interface {
	AddScore(ctx context.Context, r storage.ScoreRecord) (int64, error)
}

// PieceSink stores a session's puzzle pieces.
type PieceSink interface {
	PutPieces(ctx context.Context, pieces []puzzle.Piece) error
}

// Options wires a Game to its collaborators. Only Config and Pieces are
// required; nil collaborators are skipped.
type Options struct {
	Config      config.Config
	Pieces      []puzzle.Piece
	CharacterID string

	Manager      *session.Manager
	Achievements *progress.Tracker
	HighScores   *progress.HighScores
	Scores       ScoreSink
	PieceStore   PieceSink
	Journal      *apperr.Journal
	Logger       *log.Logger
}

// Result describes how the last session ended.
type Result struct {
	Session  session.Session
	Unlocked []progress.Achievement
	Rank     int // High-score rank, 0 when not ranked
	Err      error
}

// Game is one whack-a-mole round followed by puzzle assembly.
type Game struct {
	opts Options
	cfg  config.Config
	rc   core.RuntimeConfig
	now  func() time.Time

	// Screen mapping, recomputed on every Reset
	screenW, screenH int
	area             core.Viewport // Mole area cells to pixels
	grid             core.Viewport // Assembly grid cells to pixels
	tray             core.Rect     // Tray list cells

	phase     Phase
	paused    bool
	pausedAt  time.Time
	pausedFor time.Duration

	startedAt     time.Time
	nextSpawn     time.Time
	assembleStart time.Time
	level         int
	score         int
	remaining     time.Duration // Frozen when the whack phase ends

	field   *mole.Field
	tracker *scoring.Tracker
	board   *puzzle.Board

	selected     string // Piece picked from the tray
	message      string
	messageUntil time.Time

	result Result
}

// New creates a game. Call Reset before the first Step.
func New(opts Options) *Game {
	if opts.Manager == nil {
		opts.Manager = session.NewManager(session.Options{Journal: opts.Journal, Logger: opts.Logger})
	}
	return &Game{
		opts:  opts,
		cfg:   opts.Config,
		phase: PhaseOver,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return GameID }

// Title returns the display name.
func (g *Game) Title() string { return GameTitle }

// Reset abandons any live session and starts a new one.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.rc = rc
	g.now = rc.Clock()
	now := g.now()
	ctx := context.Background()

	if cur, ok := g.opts.Manager.Current(); ok && cur.Status == session.InProgress {
		g.opts.Manager.End(ctx, session.Abandoned)
	}

	g.screenW, g.screenH = rc.ScreenW, rc.ScreenH
	g.layout()

	g.phase = PhasePlaying
	g.paused = false
	g.pausedFor = 0
	g.startedAt = now
	g.nextSpawn = now
	g.assembleStart = time.Time{}
	g.level = 1
	g.score = 0
	g.remaining = g.cfg.GameDuration()
	g.selected = ""
	g.message = ""
	g.result = Result{}

	seed := rc.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	g.field = mole.NewField(mole.Options{
		Seed:    seed,
		AreaW:   g.cfg.Visual.AreaWidth,
		AreaH:   g.cfg.Visual.AreaHeight,
		Size:    g.cfg.Visual.MoleSize,
		Display: g.cfg.DisplayDuration(),
	})
	g.tracker = scoring.NewTracker()
	g.board = puzzle.NewBoard(g.opts.Pieces)

	sess, err := g.opts.Manager.Start(ctx, g.cfg, g.opts.CharacterID)
	if err != nil {
		g.report("whack.reset", err)
		g.phase = PhaseOver
		g.result.Err = err
		return
	}
	g.board.AssignSession(sess.ID)
	g.logf("session started", "session", sess.ID, "pieces", g.board.Len())
}

// layout splits the screen into the HUD, the play area and the footer.
// During assembly the play area is shared between the grid and the tray.
func (g *Game) layout() {
	inner := core.NewRect(1, hudHeight+1, max(1, g.screenW-2), max(1, g.screenH-hudHeight-footerHeight-2))
	g.area = core.Viewport{
		Cells:  inner,
		PixelW: g.cfg.Visual.AreaWidth,
		PixelH: g.cfg.Visual.AreaHeight,
	}

	gridW := max(1, g.screenW-trayWidth-2)
	g.grid = core.Viewport{
		Cells:  core.NewRect(1, inner.Y, gridW, inner.H),
		PixelW: g.cfg.Grid.Cols * g.cfg.Visual.PieceSize,
		PixelH: g.cfg.Grid.Rows * g.cfg.Visual.PieceSize,
	}
	g.tray = core.NewRect(g.screenW-trayWidth+1, inner.Y, trayWidth-2, inner.H)
}

// Resize adapts the layout to a new screen size. Game state is kept since
// moles and pieces live in pixel space.
func (g *Game) Resize(width, height int) {
	g.rc.ScreenW, g.rc.ScreenH = width, height
	g.screenW, g.screenH = width, height
	g.layout()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.now == nil {
		return core.StepResult{State: g.State()}
	}
	now := g.now()

	if g.phase == PhaseOver {
		if in.Has(core.ActionRestart) {
			g.Reset(g.rc)
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionQuit) {
		g.Abandon()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.togglePause(now)
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	switch g.phase {
	case PhasePlaying:
		g.stepPlaying(now, in)
	case PhaseAssembling:
		g.stepAssembling(now, in)
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) togglePause(now time.Time) {
	if g.paused {
		paused := now.Sub(g.pausedAt)
		g.pausedFor += paused
		if g.phase == PhasePlaying {
			g.nextSpawn = g.nextSpawn.Add(paused)
			g.field.Shift(paused)
		}
		g.paused = false
		return
	}
	g.paused = true
	g.pausedAt = now
}

// elapsed is the playing time, excluding pauses.
func (g *Game) elapsed(now time.Time) time.Duration {
	return now.Sub(g.startedAt) - g.pausedFor
}

func (g *Game) stepPlaying(now time.Time, in core.InputFrame) {
	g.remaining = max(0, g.cfg.GameDuration()-g.elapsed(now))
	if g.remaining == 0 {
		g.endWhack(now)
		return
	}

	// Moles that went terminal last tick have been rendered once; drop them.
	g.field.Prune()

	if !now.Before(g.nextSpawn) {
		g.field.Spawn(now)
		g.opts.Manager.RecordSpawn()
		g.nextSpawn = now.Add(g.cfg.SpawnInterval(g.level))
	}
	g.field.Tick(now)

	for _, c := range in.Clicks {
		g.click(now, c)
	}

	if g.board.AllCollected() {
		g.endWhack(now)
	}
}

// click resolves one click in the mole area. Clicks outside it are ignored.
func (g *Game) click(now time.Time, c core.Click) {
	p, ok := g.area.ToPixel(c.X, c.Y)
	if !ok {
		return
	}

	if _, hit := g.field.ResolveHit(p.X, p.Y, now); hit {
		g.tracker.Hit(now)
		g.opts.Manager.RecordHit()
		if piece, ok := g.board.Collect(); ok {
			g.opts.Manager.CollectPiece()
			g.flash(now, fmt.Sprintf("Piece %d,%d collected!", piece.Row+1, piece.Col+1))
		}
	} else {
		g.tracker.Miss()
		g.opts.Manager.RecordMiss()
	}
	g.updateScore(now, 0)
}

// updateScore recomputes the score and applies any level-up.
func (g *Game) updateScore(now time.Time, remainingSec float64) {
	g.score = g.tracker.Score(remainingSec, g.cfg.Scoring)
	g.opts.Manager.SetScore(g.score)
	g.opts.Manager.SetFastest5(g.tracker.Fastest5())

	lu := g.cfg.Progression.CheckLevelUp(g.level, g.score)
	if lu.LeveledUp {
		g.level = lu.NewLevel
		g.opts.Manager.SetLevel(g.level)
		g.flash(now, fmt.Sprintf("Level %d!", g.level))
	}
}

// endWhack closes the timed phase. Unused time is converted into bonus
// points, then the player assembles whatever was collected.
func (g *Game) endWhack(now time.Time) {
	g.updateScore(now, g.remaining.Seconds())
	g.logf("whack phase over", "score", g.score, "hits", g.tracker.Hits(), "misses", g.tracker.Misses())

	if g.board.Status().Collected == 0 {
		g.finish(now, session.Completed)
		return
	}
	g.phase = PhaseAssembling
	g.assembleStart = now
	g.opts.Manager.Save(context.Background())
	g.selected = ""
	g.flash(now, "Assemble the puzzle!")
}

func (g *Game) stepAssembling(now time.Time, in core.InputFrame) {
	if in.Has(core.ActionBack) {
		g.selected = ""
	}
	if in.Has(core.ActionConfirm) {
		g.finish(now, session.Completed)
		return
	}

	for _, c := range in.Clicks {
		if g.tray.Contains(c.X, c.Y) {
			g.selectFromTray(c.Y - g.tray.Y)
			continue
		}
		g.drop(now, c)
		if g.board.Complete() {
			g.finish(now, session.Completed)
			return
		}
	}
}

func (g *Game) selectFromTray(row int) {
	tray := g.board.Tray()
	if row < 0 || row >= len(tray) {
		return
	}
	if tray[row].ID == g.selected {
		g.selected = ""
		return
	}
	g.selected = tray[row].ID
}

// drop places the selected piece so that it is centred on the clicked cell.
func (g *Game) drop(now time.Time, c core.Click) {
	if g.selected == "" {
		return
	}
	p, ok := g.grid.ToPixel(c.X, c.Y)
	if !ok {
		return
	}
	half := float64(g.cfg.Visual.PieceSize) / 2
	pl, err := g.board.Place(g.selected, p.X-half, p.Y-half)
	if err != nil {
		g.report("whack.drop", err)
		g.selected = ""
		return
	}
	if !pl.Changed {
		return
	}

	g.opts.Manager.PlacePiece(pl.Correct && g.board.Complete())
	if pl.Correct {
		g.selected = ""
		g.flash(now, "Snap!")
	} else {
		g.flash(now, "Not quite, try another slot")
	}
}

// Abandon ends a live session without counting it towards stats.
func (g *Game) Abandon() {
	if g.phase == PhaseOver || g.now == nil {
		return
	}
	g.finish(g.now(), session.Abandoned)
}

// finish ends the session. Completed sessions then update stats, the
// high-score table and the score history, in that order.
func (g *Game) finish(now time.Time, status session.Status) {
	ctx := context.Background()
	g.phase = PhaseOver
	g.paused = false

	sess, ok := g.opts.Manager.End(ctx, status)
	if !ok {
		return
	}
	g.result.Session = sess
	g.logf("session ended", "session", sess.ID, "status", status, "score", sess.Score)

	if g.opts.PieceStore != nil && g.board.Len() > 0 {
		g.report("whack.pieces", g.opts.PieceStore.PutPieces(ctx, g.board.Pieces()))
	}
	if status != session.Completed {
		return
	}

	if g.opts.Achievements != nil {
		unlocked, err := g.opts.Achievements.Update(ctx, progress.SessionStats{
			Hits:            sess.Hits,
			Moles:           sess.MolesSpawned,
			Score:           sess.Score,
			Level:           sess.Level,
			PuzzleCompleted: sess.PuzzleComplete,
			Fastest5:        sess.Fastest5Hits,
		})
		g.report("whack.achievements", err)
		g.result.Unlocked = unlocked
	}

	if g.opts.HighScores != nil {
		rank, err := g.opts.HighScores.Insert(ctx, sess.Score, now)
		g.report("whack.highscores", err)
		g.result.Rank = rank
	}

	if g.opts.Scores != nil {
		rec := storage.ScoreRecord{
			SessionID:      sess.ID,
			Score:          sess.Score,
			Hits:           sess.Hits,
			Misses:         sess.Misses,
			Level:          sess.Level,
			PuzzleComplete: sess.PuzzleComplete,
			CreatedAt:      now,
		}
		if sess.PuzzleComplete {
			rec.CompletionTime = sess.Duration()
		}
		_, err := g.opts.Scores.AddScore(ctx, rec)
		g.report("whack.scores", err)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.phase == PhaseOver,
		Paused:   g.paused,
	}
}

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Result returns the outcome of the last finished session.
func (g *Game) Result() Result { return g.result }

// Pieces returns a copy of the puzzle pieces with their placement state.
func (g *Game) Pieces() []puzzle.Piece {
	if g.board == nil {
		return nil
	}
	return g.board.Pieces()
}

// Level returns the current level.
func (g *Game) Level() int { return g.level }

// Remaining returns the time left in the whack phase.
func (g *Game) Remaining() time.Duration { return g.remaining }

func (g *Game) flash(now time.Time, msg string) {
	g.message = msg
	g.messageUntil = now.Add(flashFor)
}

func (g *Game) report(op string, err error) {
	if err == nil {
		return
	}
	if g.opts.Journal != nil {
		g.opts.Journal.Record(op, err)
		return
	}
	if g.opts.Logger != nil {
		g.opts.Logger.Error("operation failed", "op", op, "err", err)
	}
}

func (g *Game) logf(msg string, keyvals ...any) {
	if g.opts.Logger != nil {
		g.opts.Logger.Info(msg, keyvals...)
	}
}
