package histogram

// Layout selects the internal arrangement of the dense cell block. Both
// layouts expose identical row-major cell addressing (x fastest-varying);
// the choice only affects allocation shape, never observable behavior.
type Layout int

const (
	// LayoutRows stores one contiguous row per combination of the higher
	// axes' bins, each row spanning the x axis. This is the default.
	LayoutRows Layout = iota
	// LayoutFlat stores every cell in a single contiguous block.
	LayoutFlat
)

// cellBlock is the storage strategy behind a Histogram. Cells are addressed
// by their row-major ordinal; implementations must agree on that numbering so
// Add can walk two histograms of different layouts in lockstep.
type cellBlock interface {
	add(cell int, weight float64)
	get(cell int) float64
	set(cell int, value float64)
	// reset zero-fills every cell in place without reallocating.
	reset()
	size() int
}

func newCellBlock(layout Layout, cells, rowLen int) cellBlock {
	if layout == LayoutFlat {
		return make(flatBlock, cells)
	}
	return newRowsBlock(cells, rowLen)
}

// flatBlock keeps all cells in one zero-initialized slice.
type flatBlock []float64

func (b flatBlock) add(cell int, weight float64) { b[cell] += weight }
func (b flatBlock) get(cell int) float64         { return b[cell] }
func (b flatBlock) set(cell int, value float64)  { b[cell] = value }
func (b flatBlock) size() int                    { return len(b) }

func (b flatBlock) reset() {
	for i := range b {
		b[i] = 0
	}
}

// rowsBlock keeps cells as an array of contiguous x-axis rows.
type rowsBlock struct {
	rows   [][]float64
	rowLen int
	cells  int
}

func newRowsBlock(cells, rowLen int) *rowsBlock {
	rows := make([][]float64, cells/rowLen)
	for i := range rows {
		rows[i] = make([]float64, rowLen)
	}
	return &rowsBlock{rows: rows, rowLen: rowLen, cells: cells}
}

func (b *rowsBlock) add(cell int, weight float64) { b.rows[cell/b.rowLen][cell%b.rowLen] += weight }
func (b *rowsBlock) get(cell int) float64         { return b.rows[cell/b.rowLen][cell%b.rowLen] }
func (b *rowsBlock) set(cell int, value float64)  { b.rows[cell/b.rowLen][cell%b.rowLen] = value }
func (b *rowsBlock) size() int                    { return b.cells }

func (b *rowsBlock) reset() {
	for _, row := range b.rows {
		for i := range row {
			row[i] = 0
		}
	}
}
