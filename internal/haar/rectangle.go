// Package haar implements the integral-image and rectangle primitives that
// Haar-like features are evaluated against.
package haar

import "math"

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Rectangle is an axis-aligned box described by its top-left and
// bottom-right corners (inclusive), with TopLeft <= BotRight componentwise.
// It is used both as a feature sub-region in canonical window coordinates
// and as a detection window in image coordinates.
type Rectangle struct {
	TopLeft  Point
	BotRight Point
}

// NewRectangle builds a Rectangle from an origin and size. The resulting
// BotRight is inclusive: (x+w-1, y+h-1).
func NewRectangle(x, y, w, h int) Rectangle {
	return Rectangle{
		TopLeft:  Point{X: x, Y: y},
		BotRight: Point{X: x + w - 1, Y: y + h - 1},
	}
}

// Width returns the rectangle's width in pixels.
func (r Rectangle) Width() int { return r.BotRight.X - r.TopLeft.X + 1 }

// Height returns the rectangle's height in pixels.
func (r Rectangle) Height() int { return r.BotRight.Y - r.TopLeft.Y + 1 }

// Contains reports whether p lies within the rectangle, inclusive.
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.TopLeft.X && p.X <= r.BotRight.X &&
		p.Y >= r.TopLeft.Y && p.Y <= r.BotRight.Y
}

// Translate returns a copy of r shifted by (dx, dy).
func (r Rectangle) Translate(dx, dy int) Rectangle {
	return Rectangle{
		TopLeft:  Point{X: r.TopLeft.X + dx, Y: r.TopLeft.Y + dy},
		BotRight: Point{X: r.BotRight.X + dx, Y: r.BotRight.Y + dy},
	}
}

// Window is a rectangle expressed in the canonical WL x WH training window.
type Window = Rectangle

// ScaledWindow anchors a detection window at TopLeft in image coordinates
// and records the integer scale factor applied to it relative to the
// canonical training window. A nil *ScaledWindow means "evaluate at scale 1
// with no translation" (training-time evaluation).
type ScaledWindow struct {
	TopLeft Point
	Scale   int
}

// OrderedReal is a float64 with a NaN-tolerant total order: NaN compares as
// strictly greater than every finite value so that a degenerate (NaN) error
// never wins an argmin over candidate features.
type OrderedReal float64

// Less reports whether o is ordered before other under the NaN-maximal
// total order.
func (o OrderedReal) Less(other OrderedReal) bool {
	aNaN, bNaN := math.IsNaN(float64(o)), math.IsNaN(float64(other))
	switch {
	case aNaN && bNaN:
		return false
	case aNaN:
		return false
	case bNaN:
		return true
	default:
		return o < other
	}
}
