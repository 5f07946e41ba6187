package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"unicode/utf16"

	"golang.org/x/image/draw"
)

// Hue derives a stable hue in [0, 360) from prompt text.
func Hue(prompt string) int {
	var h int32
	for _, c := range utf16.Encode([]rune(prompt)) {
		h = h*31 + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs % 360)
}

// HSL converts hue (degrees), saturation and lightness (0..1) to RGB.
func HSL(hue, s, l float64) color.NRGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(hue, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g = c, x
	case hp < 2:
		r, g = x, c
	case hp < 3:
		g, b = c, x
	case hp < 4:
		g, b = x, c
	case hp < 5:
		r, b = x, c
	default:
		r, b = c, x
	}

	m := l - c/2
	to8 := func(v float64) uint8 {
		return uint8(math.Round((v + m) * 255))
	}
	return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}

var crossColor = image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 77})

// Placeholder renders a solid image colored by the prompt hash with a faint
// diagonal cross, encoded as PNG.
func Placeholder(prompt string, width, height int) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(HSL(float64(Hue(prompt)), 0.7, 0.5)), image.Point{}, draw.Src)

	steps := max(width, height)
	for i := 0; i <= steps; i++ {
		x := i * width / max(steps, 1)
		y := i * height / max(steps, 1)
		dot(img, x, y)
		dot(img, width-x, y)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imagegen: encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// dot paints a 2px stroke segment centred on (x, y).
func dot(img *image.NRGBA, x, y int) {
	r := image.Rect(x-1, y-1, x+1, y+1).Intersect(img.Bounds())
	draw.Draw(img, r, crossColor, image.Point{}, draw.Over)
}
