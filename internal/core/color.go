package core

// Color is the foreground of a screen cell. The terminal layer decides the
// actual escape codes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// greyBand is the channel spread below which a colour counts as grey.
const greyBand = 48

// NearestColor picks the basic hue closest to an RGB value. Greys map to
// white; otherwise every channel above the midpoint of the brightest and
// darkest channel contributes to the hue.
func NearestColor(r, g, b uint8) Color {
	hi, lo := max(r, g, b), min(r, g, b)
	if int(hi)-int(lo) < greyBand {
		return ColorWhite
	}
	mid := (int(hi) + int(lo)) / 2
	red, green, blue := int(r) > mid, int(g) > mid, int(b) > mid
	switch {
	case red && green:
		return ColorYellow
	case green && blue:
		return ColorCyan
	case red && blue:
		return ColorMagenta
	case red:
		return ColorRed
	case green:
		return ColorGreen
	default:
		return ColorBlue
	}
}
