package histogram

import (
	"fmt"
	"strconv"

	apperrors "github.com/vetlewi/histogram/internal/platform/errors"
)

// ErrBinningMismatch indicates two histograms whose axis definitions differ,
// which forbids summing them.
var ErrBinningMismatch = apperrors.New(apperrors.CodeBinningMismatch, "histogram binnings differ")

// ErrIndexOutOfRange indicates a bin index outside [0, channels+1] for its axis.
var ErrIndexOutOfRange = apperrors.New(apperrors.CodeIndexOutOfRange, "bin index out of range")

// ErrDimensionMismatch indicates a bin-index tuple whose arity differs from
// the histogram's dimensionality.
var ErrDimensionMismatch = apperrors.New(apperrors.CodeDimensionMismatch, "wrong number of bin indices")

// Histogram accumulates weighted event counts into a dense, regularly-binned
// N-dimensional cell block. It owns one Axis per dimension and a storage
// block of prod(channels+2) cells, zero-initialized at construction and never
// resized. See the package documentation for the concurrency contract.
type Histogram struct {
	Named

	axes    []Axis
	strides []int
	cells   cellBlock
	entries uint64

	layout Layout
	bufCap int
	buf    *fillBuffer
}

// Option configures histogram construction.
type Option func(*Histogram)

// WithPath sets the hierarchical location an exporter files the histogram
// under.
func WithPath(path string) Option {
	return func(h *Histogram) {
		h.Named = NewNamed(h.Name(), h.Title(), path)
	}
}

// WithLayout selects the internal storage layout. The default is LayoutRows.
func WithLayout(layout Layout) Option {
	return func(h *Histogram) {
		h.layout = layout
	}
}

// WithBuffer enables batched fills: Fill appends tuples to a queue that is
// applied to storage whenever it reaches capacity, on Flush, and never
// otherwise. capacity values below 1 select DefaultBufferCapacity. Pending
// tuples are invisible to GetBinContent and ForEach until flushed.
func WithBuffer(capacity int) Option {
	return func(h *Histogram) {
		if capacity < 1 {
			capacity = DefaultBufferCapacity
		}
		h.bufCap = capacity
	}
}

// New builds an N-dimensional histogram over the given axes. At least one
// axis is required and every axis must be valid per NewAxis. The cell block
// is allocated once, zero-filled, with the first axis fastest-varying in
// row-major cell order.
func New(name, title string, axes []Axis, opts ...Option) (*Histogram, error) {
	if len(axes) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidAxisDefinition,
			fmt.Sprintf("histogram %q: at least one axis is required", name))
	}
	for i, a := range axes {
		if a.channels < 1 {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidAxisDefinition,
				fmt.Sprintf("histogram %q: axis %d is not a constructed Axis", name, i),
				map[string]string{"axis": strconv.Itoa(i)})
		}
	}

	h := &Histogram{
		Named: NewNamed(name, title, ""),
		axes:  append([]Axis(nil), axes...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	h.strides = make([]int, len(h.axes))
	cells := 1
	for i, a := range h.axes {
		h.strides[i] = cells
		cells *= a.BinCountAll()
	}
	h.cells = newCellBlock(h.layout, cells, h.axes[0].BinCountAll())
	if h.bufCap > 0 {
		h.buf = newFillBuffer(len(h.axes), h.bufCap)
	}
	return h, nil
}

// Dimensions returns the number of axes.
func (h *Histogram) Dimensions() int { return len(h.axes) }

// Axes returns a copy of the axis definitions in declaration order.
func (h *Histogram) Axes() []Axis { return append([]Axis(nil), h.axes...) }

// Axis returns the axis for one dimension.
func (h *Histogram) Axis(dim int) Axis { return h.axes[dim] }

// Entries returns the number of fills applied to storage. Buffered fills
// count once they flush; SetBinContent and Add(scale != 1) never count.
func (h *Histogram) Entries() uint64 { return h.entries }

// NumCells returns the total cell count, edge bins included.
func (h *Histogram) NumCells() int { return h.cells.size() }

// Buffered reports whether fills are batched through a buffer.
func (h *Histogram) Buffered() bool { return h.buf != nil }

// Fill records one event at the given coordinates with weight 1.
func (h *Histogram) Fill(coords ...float64) {
	h.FillW(1, coords...)
}

// FillW records one event at the given coordinates with the given weight.
// Coordinates outside an axis range land in its under/overflow bin; FillW
// never fails on values. It panics if the coordinate count differs from
// Dimensions, which is a programming error, not an event property.
func (h *Histogram) FillW(weight float64, coords ...float64) {
	h.checkArity(len(coords))
	if h.buf != nil {
		if h.buf.push(coords, weight) {
			h.flushBuffer()
		}
		return
	}
	h.fillDirect(weight, coords)
}

// FillDirect records one event straight into storage, bypassing the buffer.
// The buffered and direct paths produce identical final storage state for
// the same fill sequence.
func (h *Histogram) FillDirect(weight float64, coords ...float64) {
	h.checkArity(len(coords))
	h.fillDirect(weight, coords)
}

// Flush applies every pending buffered fill to storage in FIFO order. It is
// a no-op on unbuffered histograms. Call it before reading bin contents of a
// buffered histogram and before the histogram goes out of scope.
func (h *Histogram) Flush() {
	if h.buf == nil {
		return
	}
	h.flushBuffer()
}

// GetBinContent returns the raw content of one cell. Edge bins are
// addressed like any other: pass 0 or channels+1 for an axis to read its
// under/overflow cell. Indices outside [0, channels+1] yield
// ErrIndexOutOfRange; a wrong index count yields ErrDimensionMismatch.
func (h *Histogram) GetBinContent(bins ...int) (float64, error) {
	cell, err := h.cellIndex(bins)
	if err != nil {
		return 0, err
	}
	return h.cells.get(cell), nil
}

// SetBinContent overwrites one cell, bypassing entry accounting. Together
// with SetEntries it is the seam a persistence layer uses to restore saved
// state. Index validation matches GetBinContent.
func (h *Histogram) SetBinContent(value float64, bins ...int) error {
	cell, err := h.cellIndex(bins)
	if err != nil {
		return err
	}
	h.cells.set(cell, value)
	return nil
}

// SetEntries overwrites the fill counter, bypassing fill accounting. For
// restoring persisted state only.
func (h *Histogram) SetEntries(entries uint64) { h.entries = entries }

// Reset zero-fills every cell in place, zeroes the entry counter, and
// discards any pending buffered fills. The allocation is reused.
func (h *Histogram) Reset() {
	h.cells.reset()
	h.entries = 0
	if h.buf != nil {
		h.buf.clear()
	}
}

// Add accumulates scale times every cell of other into the receiver.
//
// The two histograms must agree on dimensionality and on every axis's
// channel count and bounds; otherwise Add returns ErrBinningMismatch and
// leaves the receiver untouched. Only flushed storage is read from other.
// When scale is exactly 1 the entry counters are merged; any other scale
// leaves the receiver's counter unchanged, since scaled fills have no
// meaningful event count.
func (h *Histogram) Add(other *Histogram, scale float64) error {
	if other == nil {
		return apperrors.New(apperrors.CodeBinningMismatch, "cannot add a nil histogram")
	}
	if len(other.axes) != len(h.axes) {
		return apperrors.WithMetadata(apperrors.CodeBinningMismatch,
			fmt.Sprintf("histogram %q: dimensionality %d differs from %q's %d",
				h.Name(), len(h.axes), other.Name(), len(other.axes)),
			map[string]string{
				"dims":       strconv.Itoa(len(h.axes)),
				"other_dims": strconv.Itoa(len(other.axes)),
			})
	}
	for d := range h.axes {
		if !h.axes[d].Compatible(other.axes[d]) {
			return apperrors.WithMetadata(apperrors.CodeBinningMismatch,
				fmt.Sprintf("histogram %q: axis %d binning differs from %q's", h.Name(), d, other.Name()),
				map[string]string{"axis": strconv.Itoa(d)})
		}
	}

	// Same shape, same row-major numbering: walk cells in lockstep even if
	// the layouts differ.
	for cell, n := 0, h.cells.size(); cell < n; cell++ {
		if v := other.cells.get(cell); v != 0 {
			h.cells.add(cell, scale*v)
		}
	}
	if scale == 1 {
		h.entries += other.entries
	}
	return nil
}

// ForEach visits every cell, edge bins included, in row-major order with the
// first axis fastest-varying, the order an exporter persists.
// The bins slice is reused between calls; copy it if retained. Traversal
// stops at the first error from fn and returns it.
func (h *Histogram) ForEach(fn func(bins []int, content float64) error) error {
	bins := make([]int, len(h.axes))
	for cell, n := 0, h.cells.size(); cell < n; cell++ {
		if err := fn(bins, h.cells.get(cell)); err != nil {
			return err
		}
		for d := range bins {
			bins[d]++
			if bins[d] < h.axes[d].BinCountAll() {
				break
			}
			bins[d] = 0
		}
	}
	return nil
}

func (h *Histogram) fillDirect(weight float64, coords []float64) {
	cell := 0
	for d, a := range h.axes {
		cell += h.strides[d] * a.FindBin(coords[d])
	}
	h.cells.add(cell, weight)
	h.entries++
}

func (h *Histogram) flushBuffer() {
	h.buf.drain(func(coords []float64, weight float64) {
		h.fillDirect(weight, coords)
	})
}

func (h *Histogram) checkArity(n int) {
	if n != len(h.axes) {
		panic(fmt.Sprintf("histogram %q: got %d coordinates, want %d", h.Name(), n, len(h.axes)))
	}
}

func (h *Histogram) cellIndex(bins []int) (int, error) {
	if len(bins) != len(h.axes) {
		return 0, apperrors.WithMetadata(apperrors.CodeDimensionMismatch,
			fmt.Sprintf("histogram %q: got %d bin indices, want %d", h.Name(), len(bins), len(h.axes)),
			map[string]string{
				"got":  strconv.Itoa(len(bins)),
				"want": strconv.Itoa(len(h.axes)),
			})
	}
	cell := 0
	for d, b := range bins {
		if b < 0 || b >= h.axes[d].BinCountAll() {
			return 0, apperrors.WithMetadata(apperrors.CodeIndexOutOfRange,
				fmt.Sprintf("histogram %q: bin %d out of range [0, %d] on axis %d",
					h.Name(), b, h.axes[d].Channels()+1, d),
				map[string]string{
					"axis": strconv.Itoa(d),
					"bin":  strconv.Itoa(b),
				})
		}
		cell += h.strides[d] * b
	}
	return cell, nil
}
