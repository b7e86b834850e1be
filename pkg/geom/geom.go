// Package geom provides the small amount of planar geometry the drag engine
// needs: points, axis-aligned rectangles, screen-to-canvas conversion and
// grid snapping.
//
// Screen coordinates grow right and down, matching pointer events. Canvas
// coordinates are relative to the canvas origin and divided by the canvas
// zoom factor.
package geom

import "math"

// Point is a position in screen or canvas coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// MidX returns the horizontal center.
func (r Rect) MidX() float64 { return r.Left + r.Width/2 }

// MidY returns the vertical center.
func (r Rect) MidY() float64 { return r.Top + r.Height/2 }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right() && p.Y >= r.Top && p.Y < r.Bottom()
}

// ToCanvas converts r from screen coordinates into the coordinate space of
// canvas at the given zoom.
func (r Rect) ToCanvas(canvas Rect, zoom float64) Rect {
	z := normZoom(zoom)
	return Rect{
		Left:   (r.Left - canvas.Left) / z,
		Top:    (r.Top - canvas.Top) / z,
		Width:  r.Width / z,
		Height: r.Height / z,
	}
}

// ScreenToCanvas converts a screen point into canvas coordinates. A zoom of
// zero or less is treated as 1.
func ScreenToCanvas(p Point, canvas Rect, zoom float64) Point {
	z := normZoom(zoom)
	return Point{X: (p.X - canvas.Left) / z, Y: (p.Y - canvas.Top) / z}
}

func normZoom(z float64) float64 {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return 1
	}
	return z
}

// SnapToGrid rounds v to the nearest multiple of grid. A grid of 1 or less
// disables snapping and returns v unchanged. Halfway values round away from
// zero.
func SnapToGrid(v float64, grid int) float64 {
	if grid <= 1 {
		return v
	}
	g := float64(grid)
	return math.Round(v/g) * g
}

// Snap applies [SnapToGrid] to both coordinates of p.
func Snap(p Point, grid int) Point {
	return Point{X: SnapToGrid(p.X, grid), Y: SnapToGrid(p.Y, grid)}
}
