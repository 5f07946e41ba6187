// Package puzzle slices an image into jigsaw pieces and tracks their
// collection and placement on the assembly grid.
package puzzle

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	// Register decoders accepted by SliceBytes.
	_ "image/jpeg"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/vovakirdan/molepuzzle/internal/core"
)

// DefaultSnapTolerance is the maximum distance in pixels between a drop
// point and a piece's slot that still counts as correct.
const DefaultSnapTolerance = 30.0

// Piece is one tile of the puzzle image.
type Piece struct {
	ID            string
	SessionID     string
	Row, Col      int
	Image         []byte // PNG
	Size          int    // Display size in pixels (square)
	CorrectX      int
	CorrectY      int
	SnapTolerance float64

	Collected bool
	Placed    bool
	Correct   bool
	DropX     float64
	DropY     float64
}

// Slot returns the piece's target point on the assembly grid.
func (p Piece) Slot() core.Point {
	return core.Pt(p.CorrectX, p.CorrectY)
}

// Fits reports whether a drop at (x, y) is within snap tolerance of the slot.
func (p Piece) Fits(x, y float64) bool {
	return core.Distance(core.Point{X: x, Y: y}, p.Slot()) <= p.SnapTolerance
}

var borderColor = color.NRGBA{A: 128}

// Slice cuts src into rows×cols cells of equal source size, scales each cell
// to pieceSize×pieceSize and encodes it as PNG. Pieces are returned in
// row-major order.
func Slice(src image.Image, rows, cols, pieceSize int) ([]Piece, error) {
	if rows <= 0 || cols <= 0 || pieceSize <= 0 {
		return nil, fmt.Errorf("puzzle: invalid grid %dx%d with piece size %d", rows, cols, pieceSize)
	}
	b := src.Bounds()
	if b.Dx() < cols || b.Dy() < rows {
		return nil, fmt.Errorf("puzzle: image %dx%d too small for %dx%d grid", b.Dx(), b.Dy(), rows, cols)
	}

	pieces := make([]Piece, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := image.Rect(
				b.Min.X+col*b.Dx()/cols,
				b.Min.Y+row*b.Dy()/rows,
				b.Min.X+(col+1)*b.Dx()/cols,
				b.Min.Y+(row+1)*b.Dy()/rows,
			)

			data, err := renderPiece(src, cell, pieceSize)
			if err != nil {
				return nil, fmt.Errorf("puzzle: encode piece %d,%d: %w", row, col, err)
			}

			pieces = append(pieces, Piece{
				ID:            fmt.Sprintf("piece-%d-%d", row, col),
				Row:           row,
				Col:           col,
				Image:         data,
				Size:          pieceSize,
				CorrectX:      col * pieceSize,
				CorrectY:      row * pieceSize,
				SnapTolerance: DefaultSnapTolerance,
			})
		}
	}
	return pieces, nil
}

// SliceBytes decodes a PNG, JPEG or WebP image and slices it.
func SliceBytes(data []byte, rows, cols, pieceSize int) ([]Piece, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("puzzle: decode image: %w", err)
	}
	return Slice(src, rows, cols, pieceSize)
}

func renderPiece(src image.Image, cell image.Rectangle, size int) ([]byte, error) {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, cell, draw.Src, nil)
	strokeBorder(dst, 2)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// strokeBorder darkens a frame of width w around the image edge.
func strokeBorder(img *image.NRGBA, w int) {
	b := img.Bounds()
	edge := image.NewUniform(borderColor)
	frames := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+w),
		image.Rect(b.Min.X, b.Max.Y-w, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, b.Min.Y+w, b.Min.X+w, b.Max.Y-w),
		image.Rect(b.Max.X-w, b.Min.Y+w, b.Max.X, b.Max.Y-w),
	}
	for _, r := range frames {
		draw.Draw(img, r.Intersect(b), edge, image.Point{}, draw.Over)
	}
}
