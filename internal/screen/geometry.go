// Package screen holds the screen-space types shared by the matcher, the
// executor and the OCR collaborator: rectangles, recognized words, quadrants
// and tie-break directions.
package screen

import (
	"fmt"
	"image"
)

// Point is an absolute screen coordinate in pixels.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// RectFromImage converts an image.Rectangle (Min inclusive, Max exclusive).
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Image returns r as an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns Width*Height, or 0 for degenerate rectangles.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether r has no interior.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Offset returns r translated by p.
func (r Rect) Offset(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, Width: r.Width, Height: r.Height}
}

// Intersect returns the overlap of r and o. The result is Empty when the
// rectangles only touch along an edge or do not meet at all.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Intersects reports a positive-area overlap.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Center is the integer midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.X + r.Right()) / 2, Y: (r.Y + r.Bottom()) / 2}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// TextRegion is one recognized word and its bounding box.
type TextRegion struct {
	Text   string `json:"text" yaml:"text"`
	Bounds Rect   `json:"bounds" yaml:"bounds"`
}

// FilterRegions keeps the regions whose bounds overlap area, preserving order.
func FilterRegions(regions []TextRegion, area Rect) []TextRegion {
	out := make([]TextRegion, 0, len(regions))
	for _, r := range regions {
		if r.Bounds.Intersects(area) {
			out = append(out, r)
		}
	}
	return out
}
