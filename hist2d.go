package histogram

// Hist2D is a two-dimensional histogram with fixed-arity accessors over the
// N-dimensional engine. Cell order is row-major with x fastest-varying.
type Hist2D struct {
	*Histogram
}

// New2D builds a two-dimensional histogram.
func New2D(name, title string,
	xchannels int, xleft, xright float64, xtitle string,
	ychannels int, yleft, yright float64, ytitle string,
	opts ...Option,
) (Hist2D, error) {
	xaxis, err := NewAxis(xchannels, xleft, xright, xtitle)
	if err != nil {
		return Hist2D{}, err
	}
	yaxis, err := NewAxis(ychannels, yleft, yright, ytitle)
	if err != nil {
		return Hist2D{}, err
	}
	h, err := New(name, title, []Axis{xaxis, yaxis}, opts...)
	if err != nil {
		return Hist2D{}, err
	}
	return Hist2D{h}, nil
}

// Fill records one event with weight 1.
func (h Hist2D) Fill(x, y float64) { h.Histogram.Fill(x, y) }

// FillW records one event with the given weight.
func (h Hist2D) FillW(weight, x, y float64) { h.Histogram.FillW(weight, x, y) }

// GetBinContent returns the content of one cell; bin 0 and channels+1 per
// axis are the edge bins.
func (h Hist2D) GetBinContent(xbin, ybin int) (float64, error) {
	return h.Histogram.GetBinContent(xbin, ybin)
}

// SetBinContent overwrites one cell, bypassing entry accounting.
func (h Hist2D) SetBinContent(value float64, xbin, ybin int) error {
	return h.Histogram.SetBinContent(value, xbin, ybin)
}

// AxisX returns the x axis.
func (h Hist2D) AxisX() Axis { return h.Axis(0) }

// AxisY returns the y axis.
func (h Hist2D) AxisY() Axis { return h.Axis(1) }

// Add accumulates scale times every cell of other into the receiver; see
// Histogram.Add.
func (h Hist2D) Add(other Hist2D, scale float64) error {
	return h.Histogram.Add(other.Histogram, scale)
}
