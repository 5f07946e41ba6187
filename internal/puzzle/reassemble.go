package puzzle

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Reassemble draws every piece into its grid slot and returns the result as
// PNG. Missing pieces leave transparent holes.
func Reassemble(pieces []Piece, rows, cols, pieceSize int) ([]byte, error) {
	if rows <= 0 || cols <= 0 || pieceSize <= 0 {
		return nil, fmt.Errorf("puzzle: invalid grid %dx%d with piece size %d", rows, cols, pieceSize)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, cols*pieceSize, rows*pieceSize))
	for _, p := range pieces {
		if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
			continue
		}
		img, err := png.Decode(bytes.NewReader(p.Image))
		if err != nil {
			return nil, fmt.Errorf("puzzle: decode piece %s: %w", p.ID, err)
		}
		slot := image.Rect(p.Col*pieceSize, p.Row*pieceSize, (p.Col+1)*pieceSize, (p.Row+1)*pieceSize)
		draw.ApproxBiLinear.Scale(canvas, slot, img, img.Bounds(), draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("puzzle: encode: %w", err)
	}
	return buf.Bytes(), nil
}
