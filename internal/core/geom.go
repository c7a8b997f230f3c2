// Package core provides the screen buffer, colors, input frames and runtime
// config shared by the games and the terminal layer. It has no external
// dependencies so game logic stays testable without a terminal.
package core

// Rect is a screen region in cells.
type Rect struct {
	X, Y int // top-left corner
	W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Centered returns a w by h rectangle centered in r. Sizes larger than r
// are clamped to it.
func (r Rect) Centered(w, h int) Rect {
	w = Clamp(w, 0, r.W)
	h = Clamp(h, 0, r.H)
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
