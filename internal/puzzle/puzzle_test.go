package puzzle

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
)

// gridImage returns an image split into rows×cols solid cells whose colors
// encode their position.
func gridImage(rows, cols, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, cols*cell, rows*cell))
	for y := 0; y < rows*cell; y++ {
		for x := 0; x < cols*cell; x++ {
			img.Set(x, y, cellColor(y/cell, x/cell))
		}
	}
	return img
}

func cellColor(row, col int) color.NRGBA {
	return color.NRGBA{R: uint8(40 + row*60), G: uint8(40 + col*60), B: 100, A: 255}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func TestSliceGrid(t *testing.T) {
	pieces, err := Slice(gridImage(3, 3, 30), 3, 3, 60)
	if err != nil {
		t.Fatalf("Slice() failed: %v", err)
	}
	if len(pieces) != 9 {
		t.Fatalf("expected 9 pieces, got %d", len(pieces))
	}

	var target Piece
	for _, p := range pieces {
		if p.Row == 1 && p.Col == 2 {
			target = p
		}
	}
	if target.ID != "piece-1-2" {
		t.Fatalf("piece (1,2) missing, got %+v", target.ID)
	}
	if target.CorrectX != 120 || target.CorrectY != 60 {
		t.Errorf("correct position = (%d,%d), expected (120,60)", target.CorrectX, target.CorrectY)
	}
	if target.SnapTolerance != DefaultSnapTolerance || target.Size != 60 {
		t.Errorf("unexpected defaults: %+v", target)
	}

	img, err := png.Decode(bytes.NewReader(target.Image))
	if err != nil {
		t.Fatalf("piece image is not PNG: %v", err)
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 60 {
		t.Errorf("piece size = %v, expected 60x60", img.Bounds())
	}

	got := color.NRGBAModel.Convert(img.At(30, 30)).(color.NRGBA)
	want := cellColor(1, 2)
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) {
		t.Errorf("piece centre = %v, expected %v", got, want)
	}
}

func TestSliceRejectsBadInput(t *testing.T) {
	if _, err := Slice(gridImage(2, 2, 10), 0, 2, 50); err == nil {
		t.Error("zero rows should fail")
	}
	if _, err := Slice(gridImage(1, 1, 2), 3, 3, 50); err == nil {
		t.Error("image smaller than the grid should fail")
	}
	if _, err := SliceBytes([]byte("not an image"), 2, 2, 50); err == nil {
		t.Error("garbage bytes should fail to decode")
	}
}

func TestSliceBytesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gridImage(2, 2, 20)); err != nil {
		t.Fatal(err)
	}
	pieces, err := SliceBytes(buf.Bytes(), 2, 2, 50)
	if err != nil {
		t.Fatalf("SliceBytes() failed: %v", err)
	}
	if len(pieces) != 4 {
		t.Errorf("expected 4 pieces, got %d", len(pieces))
	}
}

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	pieces, err := Slice(gridImage(3, 3, 10), 3, 3, 50)
	if err != nil {
		t.Fatal(err)
	}
	// Reverse to prove the board imposes its own order.
	for i, j := 0, len(pieces)-1; i < j; i, j = i+1, j-1 {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	}
	return NewBoard(pieces)
}

func TestCollectFIFO(t *testing.T) {
	b := newTestBoard(t)

	seen := make(map[string]bool)
	for i := 0; i < 9; i++ {
		p, ok := b.Collect()
		if !ok {
			t.Fatalf("collect %d failed", i)
		}
		if p.Row != i/3 || p.Col != i%3 {
			t.Errorf("collect %d got (%d,%d), expected row-major order", i, p.Row, p.Col)
		}
		if seen[p.ID] {
			t.Fatalf("piece %s collected twice", p.ID)
		}
		seen[p.ID] = true
	}

	if _, ok := b.Collect(); ok {
		t.Error("collecting beyond the batch must fail")
	}
	if !b.AllCollected() {
		t.Error("AllCollected should be true")
	}
}

func TestCollectIDSkipsInQueue(t *testing.T) {
	b := newTestBoard(t)

	if _, ok := b.CollectID("piece-0-0"); !ok {
		t.Fatal("CollectID failed")
	}
	if _, ok := b.CollectID("piece-0-0"); ok {
		t.Error("same piece must not be collected twice")
	}

	p, _ := b.Collect()
	if p.ID != "piece-0-1" {
		t.Errorf("queue should skip explicitly collected pieces, got %s", p.ID)
	}
	if st := b.Status(); st.Collected != 2 {
		t.Errorf("Collected = %d, expected 2", st.Collected)
	}
}

func TestPlace(t *testing.T) {
	b := newTestBoard(t)

	if _, err := b.Place("piece-1-2", 100, 50); !apperr.Is(err, apperr.KindGame) {
		t.Errorf("placing an uncollected piece should be a game error, got %v", err)
	}
	if _, err := b.Place("nope", 0, 0); err == nil {
		t.Error("unknown piece should fail")
	}

	b.CollectID("piece-1-2") // slot at (100, 50)

	res, err := b.Place("piece-1-2", 140, 50)
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct || !res.Piece.Placed {
		t.Errorf("drop 40px away should be placed but wrong: %+v", res)
	}

	res, _ = b.Place("piece-1-2", 120, 70) // distance ~28.3
	if !res.Correct || !res.Changed {
		t.Errorf("drop within tolerance should be correct: %+v", res)
	}

	res, _ = b.Place("piece-1-2", 400, 400)
	if !res.Correct || res.Changed {
		t.Errorf("correct piece must stay locked: %+v", res)
	}

	st := b.Status()
	if st.Placed != 1 || st.Correct != 1 {
		t.Errorf("status = %+v", st)
	}
}

func TestCompleteIdempotent(t *testing.T) {
	b := newTestBoard(t)
	if b.Complete() {
		t.Fatal("fresh board cannot be complete")
	}

	for i := 0; i < 9; i++ {
		p, _ := b.Collect()
		if b.Complete() {
			t.Fatalf("complete after only %d placements", i)
		}
		b.Place(p.ID, float64(p.CorrectX), float64(p.CorrectY))
	}

	if !b.Complete() {
		t.Fatal("all pieces placed correctly, expected complete")
	}
	for _, p := range b.Pieces() {
		b.Place(p.ID, -500, -500)
	}
	if !b.Complete() {
		t.Error("completion must not revert")
	}
	if len(b.Tray()) != 0 {
		t.Error("tray should be empty once complete")
	}
}

func TestEmptyBoard(t *testing.T) {
	b := NewBoard(nil)
	if b.AllCollected() || b.Complete() {
		t.Error("empty board is neither collected nor complete")
	}
}

func TestReassemble(t *testing.T) {
	pieces, err := Slice(gridImage(2, 2, 25), 2, 2, 50)
	if err != nil {
		t.Fatal(err)
	}

	data, err := Reassemble(pieces, 2, 2, 50)
	if err != nil {
		t.Fatalf("Reassemble() failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("size = %v, expected 100x100", img.Bounds())
	}

	got := color.NRGBAModel.Convert(img.At(75, 25)).(color.NRGBA)
	want := cellColor(0, 1)
	if !near(got.R, want.R) || !near(got.G, want.G) {
		t.Errorf("slot (0,1) = %v, expected %v", got, want)
	}
}
