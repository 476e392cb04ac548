package ggchart

import (
	"image/color"
	"math"
)

// Direction colors used when a shape has no explicit color.
var (
	upColor   = color.RGBA{R: 0, G: 150, B: 100, A: 255}
	downColor = color.RGBA{R: 200, G: 50, B: 50, A: 255}
)

func colored(c color.RGBA) Style {
	if c.A == 0 {
		return shapeStyle
	}
	return shapeStyle.WithColor(c)
}

// valueOf returns the closing value of a single-value shape.
func valueOf(s Shape) (float64, bool) {
	switch v := s.(type) {
	case Line:
		return v.Value, true
	case Area:
		return v.Value, true
	case Bar:
		return v.Value, true
	case Circle:
		return v.Value, true
	case Arrow:
		return v.Value, true
	case Candle:
		return v.Close, true
	}
	return 0, false
}

func point(v float64) (Bound[float64], bool) {
	if !isFinite(v) {
		return Bound[float64]{}, false
	}
	return Bound[float64]{Min: v, Max: v}, true
}

func withZero(v float64) (Bound[float64], bool) {
	if !isFinite(v) {
		return Bound[float64]{}, false
	}
	return Bound[float64]{Min: math.Min(0, v), Max: math.Max(0, v)}, true
}

// Line is a point of a polyline. It draws the segment from the previous
// item's value to its own.
type Line struct {
	Value float64
	Color color.RGBA
}

// Extent returns the single point Value.
func (l Line) Extent() (Bound[float64], bool) { return point(l.Value) }

// Draw draws the segment from prev to l. The first item of a series, which
// has no single-value predecessor, draws nothing.
func (l Line) Draw(dc *DrawContext, index int, prev Shape) {
	pv, ok := valueOf(prev)
	if !ok {
		return
	}
	i := float64(index)
	dc.Engine.DrawLine([]Point{dc.At(i-1, pv), dc.At(i, l.Value)}, colored(l.Color))
}

// Area is a point of a filled area. It fills the band between zero and the
// segment from the previous item's value to its own.
type Area struct {
	Value float64
	Color color.RGBA
}

// Extent spans zero and Value.
func (a Area) Extent() (Bound[float64], bool) { return withZero(a.Value) }

// Draw fills the quadrilateral under the segment from prev to a.
func (a Area) Draw(dc *DrawContext, index int, prev Shape) {
	pv, ok := valueOf(prev)
	if !ok {
		return
	}
	i := float64(index)
	dc.Engine.DrawShape([]Point{
		dc.At(i-1, pv),
		dc.At(i, a.Value),
		dc.At(i, 0),
		dc.At(i-1, 0),
		dc.At(i-1, pv),
	}, colored(a.Color))
}

// Box fills the range [Low, High] over the item width.
type Box struct {
	Low, High float64
	Color     color.RGBA
}

// Extent returns [Low, High], ordered.
func (b Box) Extent() (Bound[float64], bool) {
	if !isFinite(b.Low) || !isFinite(b.High) {
		return Bound[float64]{}, false
	}
	return Bound[float64]{Min: math.Min(b.Low, b.High), Max: math.Max(b.Low, b.High)}, true
}

// Draw fills the box over the item width.
func (b Box) Draw(dc *DrawContext, index int, _ Shape) {
	drawBox(dc, index, b.Low, b.High, colored(b.Color))
}

func drawBox(dc *DrawContext, index int, lo, hi float64, s Style) {
	hw := dc.HalfWidth()
	a := dc.At(float64(index), lo)
	b := dc.At(float64(index), hi)
	dc.Engine.DrawBox([]Point{{X: a.X - hw, Y: a.Y}, {X: b.X + hw, Y: b.Y}}, s)
}

// Bar is a box drawn from zero to Value.
type Bar struct {
	Value float64
	Color color.RGBA
}

// Extent spans zero and Value.
func (b Bar) Extent() (Bound[float64], bool) { return withZero(b.Value) }

// Draw fills the bar from zero to Value.
func (b Bar) Draw(dc *DrawContext, index int, _ Shape) {
	drawBox(dc, index, 0, b.Value, colored(b.Color))
}

// Circle is a round marker at Value.
type Circle struct {
	Value float64
	Color color.RGBA
}

// Extent returns the single point Value.
func (c Circle) Extent() (Bound[float64], bool) { return point(c.Value) }

// Draw draws a circle as wide as the item.
func (c Circle) Draw(dc *DrawContext, index int, _ Shape) {
	dc.Engine.DrawCircle(dc.At(float64(index), c.Value), dc.HalfWidth(), colored(c.Color))
}

// Arrow is a triangular marker with its tip at Value. Up points the tip
// upwards; otherwise it points down.
type Arrow struct {
	Value float64
	Up    bool
	Color color.RGBA
}

// Extent returns the tip value.
func (a Arrow) Extent() (Bound[float64], bool) { return point(a.Value) }

// Draw draws the triangle, green when pointing up and red otherwise unless
// Color is set.
func (a Arrow) Draw(dc *DrawContext, index int, _ Shape) {
	hw := dc.HalfWidth()
	tip := dc.At(float64(index), a.Value)
	base := tip.Y - 2*hw
	if a.Up {
		base = tip.Y + 2*hw
	}

	s := colored(a.Color)
	if a.Color.A == 0 {
		s = s.WithColor(downColor)
		if a.Up {
			s = s.WithColor(upColor)
		}
	}
	dc.Engine.DrawShape([]Point{tip, {X: tip.X + hw, Y: base}, {X: tip.X - hw, Y: base}, tip}, s)
}

// Candle is an OHLC bar: a body between Open and Close and a wick between
// Low and High.
type Candle struct {
	Open, High, Low, Close float64
	Color                  color.RGBA
}

// Extent covers all four prices.
func (c Candle) Extent() (Bound[float64], bool) {
	lo := math.Min(math.Min(c.Low, c.High), math.Min(c.Open, c.Close))
	hi := math.Max(math.Max(c.Low, c.High), math.Max(c.Open, c.Close))
	if !isFinite(lo) || !isFinite(hi) {
		return Bound[float64]{}, false
	}
	return Bound[float64]{Min: lo, Max: hi}, true
}

// Draw draws the wick and the body. Without an explicit Color rising
// candles are green and falling ones red.
func (c Candle) Draw(dc *DrawContext, index int, _ Shape) {
	s := colored(c.Color)
	if c.Color.A == 0 {
		s = s.WithColor(downColor)
		if c.Close >= c.Open {
			s = s.WithColor(upColor)
		}
	}

	i := float64(index)
	dc.Engine.DrawLine([]Point{dc.At(i, c.Low), dc.At(i, c.High)}, s)
	drawBox(dc, index, c.Open, c.Close, s)
}
