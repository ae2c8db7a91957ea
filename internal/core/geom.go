// Package core provides fundamental types and utilities for the clicker's
// terminal front end. It contains no external dependencies (especially no
// Bubble Tea) so layout and drawing stay pure and testable.
package core

// Rect represents an axis-aligned area of the terminal.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
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

// Viewport maps image pixels onto terminal cells. Each pixel is CellWidth
// columns wide and one row tall, so pixels look roughly square.
type Viewport struct {
	Origin    Rect // Terminal area covered by the whole image
	Clip      Rect // Visible part of Origin; empty when nothing fits
	CellWidth int
}

// NewViewport centers a gridW x gridH image inside area. If the image is
// larger than the area it is anchored at the area's top-left corner and
// the overflow is clipped.
func NewViewport(area Rect, gridW, gridH, cellWidth int) Viewport {
	cellWidth = max(cellWidth, 1)
	w, h := gridW*cellWidth, gridH

	x := area.X + max((area.W-w)/2, 0)
	y := area.Y + max((area.H-h)/2, 0)
	origin := NewRect(x, y, w, h)
	return Viewport{Origin: origin, Clip: origin.Intersect(area), CellWidth: cellWidth}
}

// Intersect returns the overlap of r and o, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x, y := max(r.X, o.X), max(r.Y, o.Y)
	right, bottom := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if right <= x || bottom <= y {
		return Rect{}
	}
	return NewRect(x, y, right-x, bottom-y)
}

// Visible returns the terminal area where pixels are actually drawn.
func (v Viewport) Visible() Rect {
	return v.Clip
}

// PixelAt converts a terminal position to image coordinates.
// ok is false when the position is outside the visible image.
func (v Viewport) PixelAt(col, row int) (x, y int, ok bool) {
	if !v.Origin.Contains(col, row) || !v.Clip.Contains(col, row) {
		return 0, 0, false
	}
	return (col - v.Origin.X) / v.CellWidth, row - v.Origin.Y, true
}

// CellOf returns the terminal column and row of pixel (x, y)'s left edge.
func (v Viewport) CellOf(x, y int) (col, row int) {
	return v.Origin.X + x*v.CellWidth, v.Origin.Y + y
}
