// Package feature implements Haar-like rectangle features: enumeration of
// every placement of the five canonical feature kinds inside a W_L x W_H
// detection window, and the per-round weighted threshold/polarity search
// that AdaBoost uses to turn one such feature into a weak classifier
// (spec §4.4).
package feature

import "github.com/mwg2202/facial-recognition/internal/haar"

// Kind identifies one of the five rectangle-feature layouts.
type Kind int

const (
	TwoHorizontal Kind = iota
	TwoVertical
	ThreeHorizontal
	ThreeVertical
	FourDiagonal
)

func (k Kind) String() string {
	switch k {
	case TwoHorizontal:
		return "2h"
	case TwoVertical:
		return "2v"
	case ThreeHorizontal:
		return "3h"
	case ThreeVertical:
		return "3v"
	case FourDiagonal:
		return "4d"
	default:
		return "unknown"
	}
}

// layout returns the composite footprint of a feature of kind k built from
// cw x ch cells, and the white/black sub-rectangles making it up, each
// relative to the feature's own top-left corner (not yet placed at an
// (x,y) offset inside the window).
func (k Kind) layout(cw, ch int) (compositeW, compositeH int, white, black []haar.Rectangle) {
	r := haar.NewRectangle
	switch k {
	case TwoHorizontal:
		// white | black, side by side
		return 2 * cw, ch,
			[]haar.Rectangle{r(0, 0, cw, ch)},
			[]haar.Rectangle{r(cw, 0, cw, ch)}
	case TwoVertical:
		// white over black
		return cw, 2 * ch,
			[]haar.Rectangle{r(0, 0, cw, ch)},
			[]haar.Rectangle{r(0, ch, cw, ch)}
	case ThreeHorizontal:
		// black | white | black
		return 3 * cw, ch,
			[]haar.Rectangle{r(cw, 0, cw, ch)},
			[]haar.Rectangle{r(0, 0, cw, ch), r(2*cw, 0, cw, ch)}
	case ThreeVertical:
		// black over white over black
		return cw, 3 * ch,
			[]haar.Rectangle{r(0, ch, cw, ch)},
			[]haar.Rectangle{r(0, 0, cw, ch), r(0, 2*ch, cw, ch)}
	case FourDiagonal:
		// checkerboard: white on the rising diagonal, black on the falling one
		return 2 * cw, 2 * ch,
			[]haar.Rectangle{r(0, ch, cw, ch), r(cw, 0, cw, ch)},
			[]haar.Rectangle{r(0, 0, cw, ch), r(cw, ch, cw, ch)}
	default:
		return 0, 0, nil, nil
	}
}

// AllKinds lists every feature kind, in the fixed enumeration order used to
// break ties between features of equal training error.
var AllKinds = [5]Kind{TwoHorizontal, TwoVertical, ThreeHorizontal, ThreeVertical, FourDiagonal}
