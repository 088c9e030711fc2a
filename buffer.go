package histogram

// DefaultBufferCapacity is the number of pending fills a buffered histogram
// accumulates before flushing them into storage.
const DefaultBufferCapacity = 4096

// fillBuffer queues raw (coordinates, weight) tuples so a buffered histogram
// can apply them in one batch. Coordinates are packed flat, one dims-sized
// stride per tuple, so appending never allocates per fill once the backing
// slices reach capacity.
type fillBuffer struct {
	dims     int
	capacity int
	coords   []float64
	weights  []float64
}

func newFillBuffer(dims, capacity int) *fillBuffer {
	return &fillBuffer{
		dims:     dims,
		capacity: capacity,
		coords:   make([]float64, 0, capacity*dims),
		weights:  make([]float64, 0, capacity),
	}
}

// push appends one tuple and reports whether the buffer reached capacity.
func (b *fillBuffer) push(coords []float64, weight float64) bool {
	b.coords = append(b.coords, coords...)
	b.weights = append(b.weights, weight)
	return len(b.weights) >= b.capacity
}

func (b *fillBuffer) pending() int { return len(b.weights) }

// drain applies every pending tuple in FIFO order and clears the buffer. The
// coords slice passed to apply aliases the buffer backing and is only valid
// for the duration of the call.
func (b *fillBuffer) drain(apply func(coords []float64, weight float64)) {
	for i, w := range b.weights {
		apply(b.coords[i*b.dims:(i+1)*b.dims], w)
	}
	b.clear()
}

func (b *fillBuffer) clear() {
	b.coords = b.coords[:0]
	b.weights = b.weights[:0]
}
