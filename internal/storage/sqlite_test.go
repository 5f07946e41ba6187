package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/config"
	"github.com/vovakirdan/molepuzzle/internal/puzzle"
	"github.com/vovakirdan/molepuzzle/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, ok, err := store.GetValue(ctx, "missing"); err != nil || ok {
		t.Errorf("missing key: ok=%v err=%v", ok, err)
	}

	store.SetValue(ctx, "theme", "dark")
	store.SetValue(ctx, "theme", "light")
	v, ok, err := store.GetValue(ctx, "theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("GetValue = %q %v %v, expected light", v, ok, err)
	}

	if err := store.RemoveValue(ctx, "theme"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.GetValue(ctx, "theme"); ok {
		t.Error("key should be gone")
	}
}

func TestPromptHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < MaxPrompts+5; i++ {
		if err := store.AddPrompt(ctx, fmt.Sprintf("prompt %d", i)); err != nil {
			t.Fatal(err)
		}
	}
	store.AddPrompt(ctx, "prompt 20")
	store.AddPrompt(ctx, "   ")

	prompts, err := store.Prompts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(prompts) != MaxPrompts {
		t.Fatalf("expected %d prompts, got %d", MaxPrompts, len(prompts))
	}
	if prompts[0] != "prompt 20" || prompts[1] != "prompt 54" {
		t.Errorf("unexpected order: %v", prompts[:3])
	}
}

func testSession(id string, started time.Time, status session.Status) session.Session {
	return session.Session{
		ID:           id,
		StartedAt:    started,
		Status:       status,
		Score:        120,
		Hits:         12,
		Misses:       3,
		Level:        2,
		Fastest5Hits: 4200 * time.Millisecond,
		TotalPieces:  9,
		Config:       config.Default(),
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.UnixMilli(1_700_000_000_000)

	s := testSession("a", now, session.InProgress)
	if err := store.AddSession(ctx, s); err != nil {
		t.Fatalf("AddSession() failed: %v", err)
	}
	if err := store.AddSession(ctx, s); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate add = %v, expected ErrExists", err)
	}

	s.Status = session.Completed
	s.EndedAt = now.Add(time.Minute)
	s.PuzzleComplete = true
	if err := store.SaveSession(ctx, s); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	got, err := store.Session(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("Session() = %v, %v", got, err)
	}
	if got.Status != session.Completed || !got.PuzzleComplete || got.Duration() != time.Minute {
		t.Errorf("upsert not applied: %+v", got)
	}
	if got.Fastest5Hits != 4200*time.Millisecond || got.Config != config.Default() {
		t.Errorf("fields lost in round trip: %+v", got)
	}

	store.SaveSession(ctx, testSession("b", now.Add(time.Hour), session.InProgress))
	live, err := store.SessionsByStatus(ctx, session.InProgress)
	if err != nil || len(live) != 1 || live[0].ID != "b" {
		t.Errorf("SessionsByStatus = %v, %v", live, err)
	}
	all, _ := store.Sessions(ctx)
	if len(all) != 2 || all[0].ID != "b" {
		t.Errorf("Sessions() should list newest first: %v", all)
	}

	if missing, err := store.Session(ctx, "zzz"); missing != nil || err != nil {
		t.Errorf("missing session = %v, %v", missing, err)
	}

	store.DeleteSession(ctx, "a")
	if all, _ := store.Sessions(ctx); len(all) != 1 {
		t.Error("DeleteSession did not remove the row")
	}
	store.ClearSessions(ctx)
	if all, _ := store.Sessions(ctx); len(all) != 0 {
		t.Error("ClearSessions left rows")
	}
}

func TestPieces(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	var batch []puzzle.Piece
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			batch = append(batch, puzzle.Piece{
				ID: fmt.Sprintf("piece-%d-%d", r, c), SessionID: "s1",
				Row: r, Col: c, Image: []byte{1, 2, 3}, Size: 100,
				CorrectX: c * 100, CorrectY: r * 100, SnapTolerance: 30,
			})
		}
	}
	if err := store.PutPieces(ctx, batch); err != nil {
		t.Fatalf("PutPieces() failed: %v", err)
	}

	other := batch[0]
	other.SessionID = "s2"
	if err := store.AddPiece(ctx, other); err != nil {
		t.Fatalf("same piece ID in another session should be allowed: %v", err)
	}
	if err := store.AddPiece(ctx, other); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate piece = %v, expected ErrExists", err)
	}

	p := batch[3]
	p.Collected, p.Placed, p.Correct = true, true, true
	p.DropX, p.DropY = 101.5, 99
	store.PutPiece(ctx, p)

	pieces, err := store.PiecesBySession(ctx, "s1")
	if err != nil || len(pieces) != 4 {
		t.Fatalf("PiecesBySession = %d, %v", len(pieces), err)
	}
	last := pieces[3]
	if !last.Correct || last.DropX != 101.5 || string(last.Image) != "\x01\x02\x03" {
		t.Errorf("piece round trip: %+v", last)
	}

	got, _ := store.Piece(ctx, "s2", "piece-0-0")
	if got == nil || got.Collected {
		t.Errorf("Piece() = %+v", got)
	}

	store.DeletePiece(ctx, "s1", "piece-0-0")
	if all, _ := store.Pieces(ctx); len(all) != 4 {
		t.Errorf("expected 4 pieces after delete, got %d", len(all))
	}
}

func TestCharacters(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.UnixMilli(1_700_000_000_000)

	c := Character{ID: "c1", Prompt: "a cat", Image: []byte("png"), Width: 512, Height: 512, Format: "png", Placeholder: true, CreatedAt: now}
	if err := store.AddCharacter(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := store.AddCharacter(ctx, c); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate character = %v", err)
	}

	c.Prompt = "a dog"
	store.PutCharacter(ctx, c)
	got, err := store.Character(ctx, "c1")
	if err != nil || got == nil || got.Prompt != "a dog" || !got.Placeholder || !got.CreatedAt.Equal(now) {
		t.Errorf("Character() = %+v, %v", got, err)
	}

	store.DeleteCharacter(ctx, "c1")
	if all, _ := store.Characters(ctx); len(all) != 0 {
		t.Error("DeleteCharacter did not remove the row")
	}
}

func TestScores(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.UnixMilli(1_700_000_000_000)

	records := []ScoreRecord{
		{SessionID: "a", Score: 100, CreatedAt: base},
		{SessionID: "b", Score: 300, CompletionTime: 40 * time.Second, PuzzleComplete: true, CreatedAt: base.Add(time.Minute)},
		{SessionID: "c", Score: 200, CompletionTime: 25 * time.Second, PuzzleComplete: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		if _, err := store.AddScore(ctx, r); err != nil {
			t.Fatalf("AddScore() failed: %v", err)
		}
	}

	top, _ := store.TopScores(ctx, 2)
	if len(top) != 2 || top[0].Score != 300 || top[1].Score != 200 {
		t.Errorf("TopScores = %+v", top)
	}
	recent, _ := store.RecentScores(ctx, 10)
	if len(recent) != 3 || recent[0].SessionID != "c" {
		t.Errorf("RecentScores = %+v", recent)
	}
	fastest, _ := store.FastestTimes(ctx, 10)
	if len(fastest) != 2 || fastest[0].SessionID != "c" {
		t.Errorf("FastestTimes = %+v", fastest)
	}
	bySession, _ := store.ScoresBySession(ctx, "b")
	if len(bySession) != 1 || !bySession[0].PuzzleComplete {
		t.Errorf("ScoresBySession = %+v", bySession)
	}

	stats, err := store.ScoreStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesCount != 3 || stats.HighScore != 300 || stats.AvgScore != 200 {
		t.Errorf("ScoreStats = %+v", stats)
	}

	store.ClearScores(ctx)
	if all, _ := store.AllScores(ctx); len(all) != 0 {
		t.Error("ClearScores left rows")
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	store.SaveSession(ctx, testSession("old-done", now.Add(-31*day), session.Completed))
	store.SaveSession(ctx, testSession("old-live", now.Add(-31*day), session.InProgress))
	store.SaveSession(ctx, testSession("fresh", now.Add(-day), session.Abandoned))

	for _, sid := range []string{"old-done", "old-live", "fresh", "ghost"} {
		store.AddPiece(ctx, puzzle.Piece{ID: "p", SessionID: sid, Image: []byte{0}})
	}

	store.AddScore(ctx, ScoreRecord{SessionID: "x", Score: 1, CreatedAt: now.Add(-91 * day)})
	store.AddScore(ctx, ScoreRecord{SessionID: "y", Score: 2, CreatedAt: now.Add(-45 * day)})

	store.AddCharacter(ctx, Character{ID: "old", Image: []byte{0}, Format: "png", CreatedAt: now.Add(-100 * day)})
	store.AddCharacter(ctx, Character{ID: "new", Image: []byte{0}, Format: "png", CreatedAt: now.Add(-10 * day)})

	res, err := store.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}
	expected := SweepResult{Sessions: 1, Pieces: 2, Scores: 1, Characters: 1}
	if res != expected {
		t.Errorf("Sweep() = %+v, expected %+v", res, expected)
	}
	if res.Total() != 5 {
		t.Errorf("Total() = %d", res.Total())
	}

	if s, _ := store.Session(ctx, "old-live"); s == nil {
		t.Error("in-progress session must never be swept")
	}
	if p, _ := store.PiecesBySession(ctx, "old-live"); len(p) != 1 {
		t.Error("pieces of an in-progress session must survive")
	}
	if p, _ := store.PiecesBySession(ctx, "ghost"); len(p) != 0 {
		t.Error("orphaned pieces should be swept")
	}

	again, _ := store.Sweep(ctx, now)
	if again.Total() != 0 {
		t.Errorf("second sweep removed %+v", again)
	}
}
