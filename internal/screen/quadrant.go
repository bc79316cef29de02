package screen

import "strings"

// Quadrant numbers a quarter of the screen: 1 top-left, 2 top-right,
// 3 bottom-left, 4 bottom-right. The zero value means "whole screen".
type Quadrant int

const (
	NoQuadrant Quadrant = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

// Valid reports whether q names one of the four quadrants.
func (q Quadrant) Valid() bool { return q >= TopLeft && q <= BottomRight }

// Quadrants splits bounds into its four quadrants, indexed 0..3 for
// quadrants 1..4. Half sizes use integer division; an odd remainder row or
// column belongs to the second half.
func Quadrants(bounds Rect) [4]Rect {
	hw, hh := bounds.Width/2, bounds.Height/2
	return [4]Rect{
		{X: bounds.X, Y: bounds.Y, Width: hw, Height: hh},
		{X: bounds.X + hw, Y: bounds.Y, Width: bounds.Width - hw, Height: hh},
		{X: bounds.X, Y: bounds.Y + hh, Width: hw, Height: bounds.Height - hh},
		{X: bounds.X + hw, Y: bounds.Y + hh, Width: bounds.Width - hw, Height: bounds.Height - hh},
	}
}

// QuadrantRect returns the rectangle for q, or false when q is not 1..4.
func QuadrantRect(bounds Rect, q Quadrant) (Rect, bool) {
	if !q.Valid() {
		return Rect{}, false
	}
	return Quadrants(bounds)[q-1], true
}

// Direction picks one candidate among several: leftmost, rightmost,
// topmost or bottommost. The zero value keeps scan order.
type Direction byte

const (
	NoDirection Direction = 0
	Left        Direction = 'L'
	Right       Direction = 'R'
	Top         Direction = 'T'
	Bottom      Direction = 'B'
)

// ParseDirection maps a direction letter, case-insensitively.
func ParseDirection(r rune) (Direction, bool) {
	switch r {
	case 'L', 'l':
		return Left, true
	case 'R', 'r':
		return Right, true
	case 'T', 't':
		return Top, true
	case 'B', 'b':
		return Bottom, true
	}
	return NoDirection, false
}

// MarshalText renders the direction letter.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d Direction) String() string {
	if d == NoDirection {
		return ""
	}
	return strings.ToUpper(string(rune(d)))
}
