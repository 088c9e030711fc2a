package histogram

// Hist3D is a three-dimensional histogram with fixed-arity accessors over
// the N-dimensional engine. Cell order is row-major with x fastest-varying
// and z slowest.
type Hist3D struct {
	*Histogram
}

// New3D builds a three-dimensional histogram.
func New3D(name, title string,
	xchannels int, xleft, xright float64, xtitle string,
	ychannels int, yleft, yright float64, ytitle string,
	zchannels int, zleft, zright float64, ztitle string,
	opts ...Option,
) (Hist3D, error) {
	xaxis, err := NewAxis(xchannels, xleft, xright, xtitle)
	if err != nil {
		return Hist3D{}, err
	}
	yaxis, err := NewAxis(ychannels, yleft, yright, ytitle)
	if err != nil {
		return Hist3D{}, err
	}
	zaxis, err := NewAxis(zchannels, zleft, zright, ztitle)
	if err != nil {
		return Hist3D{}, err
	}
	h, err := New(name, title, []Axis{xaxis, yaxis, zaxis}, opts...)
	if err != nil {
		return Hist3D{}, err
	}
	return Hist3D{h}, nil
}

// Fill records one event with weight 1.
func (h Hist3D) Fill(x, y, z float64) { h.Histogram.Fill(x, y, z) }

// FillW records one event with the given weight.
func (h Hist3D) FillW(weight, x, y, z float64) { h.Histogram.FillW(weight, x, y, z) }

// GetBinContent returns the content of one cell; bin 0 and channels+1 per
// axis are the edge bins.
func (h Hist3D) GetBinContent(xbin, ybin, zbin int) (float64, error) {
	return h.Histogram.GetBinContent(xbin, ybin, zbin)
}

// SetBinContent overwrites one cell, bypassing entry accounting.
func (h Hist3D) SetBinContent(value float64, xbin, ybin, zbin int) error {
	return h.Histogram.SetBinContent(value, xbin, ybin, zbin)
}

// AxisX returns the x axis.
func (h Hist3D) AxisX() Axis { return h.Axis(0) }

// AxisY returns the y axis.
func (h Hist3D) AxisY() Axis { return h.Axis(1) }

// AxisZ returns the z axis.
func (h Hist3D) AxisZ() Axis { return h.Axis(2) }

// Add accumulates scale times every cell of other into the receiver; see
// Histogram.Add.
func (h Hist3D) Add(other Hist3D, scale float64) error {
	return h.Histogram.Add(other.Histogram, scale)
}
