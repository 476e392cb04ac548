package ggchart

// Mapper converts between data coordinates and device pixels for one domain
// and canvas size. It is a plain value; build a new one whenever the domain
// or the canvas changes.
type Mapper struct {
	Domain Domain
	// Width and Height are the canvas size in pixels.
	Width, Height float64
	// Padding is the fraction of the value range added above and below the
	// visible values.
	Padding float64
}

// NewMapper creates a Mapper. Negative canvas sizes are a programming error.
func NewMapper(d Domain, width, height, padding float64) Mapper {
	if width < 0 || height < 0 {
		panic("ggchart: negative canvas size")
	}
	return Mapper{Domain: d, Width: width, Height: height, Padding: padding}
}

// valueBand returns the padded value range drawn between the bottom and the
// top of the canvas.
func (m Mapper) valueBand() (lo, hi float64) {
	b := m.Domain.ValueBound()
	pad := (b.Max - b.Min) * m.Padding
	return b.Min - pad, b.Max + pad
}

// ToPixels maps a data point to canvas pixels. A degenerate axis maps every
// coordinate to the far edge (right for index, top for value).
func (m Mapper) ToPixels(p DataPoint) Point {
	ib := m.Domain.IndexBound()
	lo, hi := m.valueBand()

	nx := 1.0
	if ib.Min != ib.Max {
		nx = (p.Index - float64(ib.Min)) / float64(ib.Max-ib.Min)
	}

	ny := 1.0
	if lo != hi {
		ny = (p.Value - lo) / (hi - lo)
	}

	return Point{
		X: m.Width * nx,
		Y: m.Height - m.Height*ny,
	}
}

// ToValue maps canvas pixels back to data coordinates. It is the inverse of
// ToPixels for non-degenerate domains. A zero-sized canvas maps to the lower
// bounds.
func (m Mapper) ToValue(p Point) DataPoint {
	ib := m.Domain.IndexBound()
	lo, hi := m.valueBand()

	nx := 0.0
	if m.Width != 0 {
		nx = p.X / m.Width
	}

	ny := 1.0
	if m.Height != 0 {
		ny = p.Y / m.Height
	}

	return DataPoint{
		Index: float64(ib.Min) + float64(ib.Max-ib.Min)*nx,
		Value: hi - (hi-lo)*ny,
	}
}

// X returns the horizontal pixel position of index.
func (m Mapper) X(index float64) float64 {
	return m.ToPixels(DataPoint{Index: index}).X
}

// Y returns the vertical pixel position of value.
func (m Mapper) Y(value float64) float64 {
	return m.ToPixels(DataPoint{Value: value}).Y
}

// IndexWidth returns the width in pixels of one index step, or the full
// canvas width for a degenerate window.
func (m Mapper) IndexWidth() float64 {
	ib := m.Domain.IndexBound()
	if ib.Degenerate() {
		return m.Width
	}
	return m.Width / float64(ib.Max-ib.Min)
}

// Transform returns the affine coefficients of ToPixels:
//
//	x = sx*index + tx
//	y = sy*value + ty
//
// ok is false when either axis is degenerate and the mapping is not affine.
func (m Mapper) Transform() (sx, tx, sy, ty float64, ok bool) {
	ib := m.Domain.IndexBound()
	lo, hi := m.valueBand()
	if ib.Degenerate() || lo == hi {
		return 0, 0, 0, 0, false
	}

	sx = m.Width / float64(ib.Max-ib.Min)
	tx = -sx * float64(ib.Min)
	sy = -m.Height / (hi - lo)
	ty = m.Height - sy*lo

	return sx, tx, sy, ty, true
}
