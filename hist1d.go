package histogram

// Hist1D is a one-dimensional histogram with fixed-arity accessors over the
// N-dimensional engine.
type Hist1D struct {
	*Histogram
}

// New1D builds a one-dimensional histogram.
func New1D(name, title string, channels int, left, right float64, xtitle string, opts ...Option) (Hist1D, error) {
	xaxis, err := NewAxis(channels, left, right, xtitle)
	if err != nil {
		return Hist1D{}, err
	}
	h, err := New(name, title, []Axis{xaxis}, opts...)
	if err != nil {
		return Hist1D{}, err
	}
	return Hist1D{h}, nil
}

// Fill records one event with weight 1.
func (h Hist1D) Fill(x float64) { h.Histogram.Fill(x) }

// FillW records one event with the given weight.
func (h Hist1D) FillW(weight, x float64) { h.Histogram.FillW(weight, x) }

// GetBinContent returns the content of one cell; bin 0 and Channels()+1 are
// the edge bins.
func (h Hist1D) GetBinContent(xbin int) (float64, error) {
	return h.Histogram.GetBinContent(xbin)
}

// SetBinContent overwrites one cell, bypassing entry accounting.
func (h Hist1D) SetBinContent(value float64, xbin int) error {
	return h.Histogram.SetBinContent(value, xbin)
}

// AxisX returns the x axis.
func (h Hist1D) AxisX() Axis { return h.Axis(0) }

// Add accumulates scale times every cell of other into the receiver; see
// Histogram.Add.
func (h Hist1D) Add(other Hist1D, scale float64) error {
	return h.Histogram.Add(other.Histogram, scale)
}
