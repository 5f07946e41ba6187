// Package core provides the primitives shared by the game engines and the
// terminal front end: geometry, the screen buffer and per-tick input.
// It has no external dependencies (especially no Bubble Tea) so game logic
// stays pure and testable.
package core

import "math"

// Point is a position in game-area pixels.
type Point struct {
	X, Y float64
}

// Pt is shorthand for constructing a Point from integer pixels.
func Pt(x, y int) Point {
	return Point{X: float64(x), Y: float64(y)}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Rect represents an axis-aligned box, in pixels or in screen cells
// depending on the caller.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Square creates a size×size rectangle at (x, y).
func Square(x, y, size int) Rect {
	return Rect{X: x, Y: y, W: size, H: size}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
// Right and bottom edges are exclusive, which is what cell grids want.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsPoint reports whether p lies inside the rectangle with all four
// edges inclusive. Hit boxes use this so a click on the border still counts.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= float64(r.X) && p.X <= float64(r.Right()) &&
		p.Y >= float64(r.Y) && p.Y <= float64(r.Bottom())
}

// Center returns the exact center of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: float64(r.X) + float64(r.W)/2,
		Y: float64(r.Y) + float64(r.H)/2,
	}
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

// Viewport maps a pixel-space area onto a block of screen cells.
type Viewport struct {
	Cells  Rect // Screen cells the area occupies
	PixelW int  // Width of the pixel area
	PixelH int  // Height of the pixel area
}

// ToPixel converts a screen cell to the pixel at the center of that cell.
// ok is false when the cell is outside the viewport.
func (v Viewport) ToPixel(cx, cy int) (Point, bool) {
	if !v.Cells.Contains(cx, cy) || v.Cells.W == 0 || v.Cells.H == 0 {
		return Point{}, false
	}
	sx := float64(v.PixelW) / float64(v.Cells.W)
	sy := float64(v.PixelH) / float64(v.Cells.H)
	return Point{
		X: (float64(cx-v.Cells.X) + 0.5) * sx,
		Y: (float64(cy-v.Cells.Y) + 0.5) * sy,
	}, true
}

// ToCells converts a pixel rectangle to the screen cells covering it.
// The result is at least one cell wide and tall.
func (v Viewport) ToCells(px Rect) Rect {
	if v.PixelW == 0 || v.PixelH == 0 {
		return Rect{}
	}
	x0 := v.Cells.X + px.X*v.Cells.W/v.PixelW
	y0 := v.Cells.Y + px.Y*v.Cells.H/v.PixelH
	x1 := v.Cells.X + px.Right()*v.Cells.W/v.PixelW
	y1 := v.Cells.Y + px.Bottom()*v.Cells.H/v.PixelH
	return Rect{X: x0, Y: y0, W: max(1, x1-x0), H: max(1, y1-y0)}
}
