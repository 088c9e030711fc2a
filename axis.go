package histogram

import (
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/vetlewi/histogram/internal/platform/errors"
)

// ErrInvalidAxis indicates axis parameters that cannot define a binning.
var ErrInvalidAxis = apperrors.New(apperrors.CodeInvalidAxisDefinition, "invalid axis definition")

// Axis maps a continuous coordinate onto a fixed, regularly spaced binning.
//
// An axis with N channels spans [Left, Right) in N bins of equal width. Bin
// indices 1..N address the regular bins; index 0 is the underflow bin and
// index N+1 the overflow bin. An Axis is immutable after construction.
type Axis struct {
	channels int
	left     float64
	right    float64
	width    float64
	title    string
}

// NewAxis validates the binning parameters and builds an axis. channels must
// be at least 1 and right must be strictly greater than left; both bounds
// must be finite.
func NewAxis(channels int, left, right float64, title string) (Axis, error) {
	if channels < 1 {
		return Axis{}, apperrors.WithMetadata(apperrors.CodeInvalidAxisDefinition,
			fmt.Sprintf("axis %q: channels must be at least 1, got %d", title, channels),
			map[string]string{"channels": strconv.Itoa(channels)})
	}
	if math.IsNaN(left) || math.IsInf(left, 0) || math.IsNaN(right) || math.IsInf(right, 0) {
		return Axis{}, apperrors.New(apperrors.CodeInvalidAxisDefinition,
			fmt.Sprintf("axis %q: bounds must be finite, got [%v, %v)", title, left, right))
	}
	if right <= left {
		return Axis{}, apperrors.WithMetadata(apperrors.CodeInvalidAxisDefinition,
			fmt.Sprintf("axis %q: right bound %v must exceed left bound %v", title, right, left),
			map[string]string{
				"left":  strconv.FormatFloat(left, 'g', -1, 64),
				"right": strconv.FormatFloat(right, 'g', -1, 64),
			})
	}
	return Axis{
		channels: channels,
		left:     left,
		right:    right,
		width:    (right - left) / float64(channels),
		title:    title,
	}, nil
}

// FindBin maps a coordinate to a bin index in [0, Channels()+1].
//
// Values below Left map to 0, values at or above Right (NaN included) map to
// Channels()+1, and values inside [Left, Right) map to 1..Channels(). Every
// input yields an addressable index; FindBin has no failure path.
func (a Axis) FindBin(value float64) int {
	if value < a.left {
		return 0
	}
	if value >= a.right || math.IsNaN(value) {
		return a.channels + 1
	}
	bin := int((value-a.left)/a.width) + 1
	// Rounding near the right edge must not escape the regular range.
	if bin > a.channels {
		bin = a.channels
	}
	if bin < 1 {
		bin = 1
	}
	return bin
}

// BinCountAll returns the total cell count along the axis, edge bins included.
func (a Axis) BinCountAll() int { return a.channels + 2 }

// Compatible reports whether two axes share the exact channel count and
// bounds, the precondition for summing the histograms that own them.
func (a Axis) Compatible(other Axis) bool {
	return a.channels == other.channels && a.left == other.left && a.right == other.right
}

// Channels returns the number of regular bins.
func (a Axis) Channels() int { return a.channels }

// Left returns the lower edge of the lowest regular bin.
func (a Axis) Left() float64 { return a.left }

// Right returns the upper edge of the highest regular bin.
func (a Axis) Right() float64 { return a.right }

// BinWidth returns the width of one regular bin.
func (a Axis) BinWidth() float64 { return a.width }

// Title returns the display label. It has no behavioral effect.
func (a Axis) Title() string { return a.title }
