package ggchart

import (
	"math"
)

// Default reducer tuning: a value zoom step is 1% of the visible range, and
// neither axis zooms in past twice the step (value) or twice the tick count
// (index).
const (
	DefaultValueSteps = 100
	DefaultGuard      = 2.0
)

// ExtentProvider answers the per-index extent query used by auto-scale.
// ok is false when nothing is plotted at index.
type ExtentProvider interface {
	ExtentAt(index int) (extent Bound[float64], ok bool)
}

// ExtentFunc adapts a function to ExtentProvider.
type ExtentFunc func(index int) (Bound[float64], bool)

// ExtentAt calls f(index).
func (f ExtentFunc) ExtentAt(index int) (Bound[float64], bool) {
	return f(index)
}

// Reducer derives new domains from zoom and pan deltas. It is a plain value;
// all methods are pure and never modify the domain passed in.
//
// The zero Reducer uses DefaultValueSteps and DefaultGuard with no index
// tick floor; the index window then narrows down to a single item but never
// inverts.
type Reducer struct {
	// IndexTicks is the index tick count; the index window does not zoom in
	// below Guard*IndexTicks items.
	IndexTicks int
	// ValueSteps divides the value range into zoom increments.
	ValueSteps float64
	// Guard scales the minimum span each axis keeps when zooming in.
	Guard float64
}

func (r Reducer) valueSteps() float64 {
	if r.ValueSteps == 0 {
		return DefaultValueSteps
	}
	return r.ValueSteps
}

func (r Reducer) guard() float64 {
	if r.Guard == 0 {
		return DefaultGuard
	}
	return r.Guard
}

// ZoomValue returns the value range after one zoom step. A positive delta
// zooms out (both bounds move outwards by 1/ValueSteps of the range), a
// negative delta zooms in while the range stays wider than Guard steps.
// Degenerate ranges and a zero delta are returned unchanged.
func (r Reducer) ZoomValue(d Domain, delta int) Bound[float64] {
	b := d.ValueBound()
	if b.Degenerate() {
		return b
	}

	increment := math.Abs((b.Max - b.Min) / r.valueSteps())
	inRange := b.Max-b.Min > increment*r.guard()

	switch {
	case delta > 0:
		b.Min -= increment
		b.Max += increment
	case delta < 0 && inRange:
		b.Min += increment
		b.Max -= increment
	}

	return b
}

// ZoomIndex returns the index window after one zoom step. A positive delta
// narrows the window by one item on each side as long as it spans more than
// Guard*IndexTicks items and would not invert; a negative delta widens it
// by one item per side.
func (r Reducer) ZoomIndex(d Domain, delta int) Bound[int] {
	b := d.IndexBound()
	if b.Degenerate() {
		return b
	}

	increment := sign(delta)
	if increment == 0 {
		return b
	}

	span := b.Max - b.Min
	if float64(span) > r.guard()*float64(r.IndexTicks*increment) && span-2*increment >= 0 {
		b.Min += increment
		b.Max -= increment
	}

	return b
}

// PanIndex returns the index window shifted by one item in the direction
// of delta. The window size never changes.
func (r Reducer) PanIndex(d Domain, delta int) Bound[int] {
	b := d.IndexBound()
	if b.Degenerate() {
		return b
	}

	increment := sign(delta)
	b.Min += increment
	b.Max += increment

	return b
}

// AutoScale scans the items in [minIndex, maxIndex) and returns the value
// range that fits them:
//   - nothing plotted: ok is false and the caller keeps its current range
//   - flat data at v: [min(0,v), max(0,v)], so zero stays on screen
//   - data straddling zero: [-e, e] with e the largest magnitude
//   - otherwise the exact [min, max]
func AutoScale(p ExtentProvider, minIndex, maxIndex int) (Bound[float64], bool) {
	lo := math.MaxFloat64
	hi := -math.MaxFloat64

	if p != nil {
		for i := minIndex; i < maxIndex; i++ {
			e, ok := p.ExtentAt(i)
			if !ok {
				continue
			}
			lo = math.Min(lo, e.Min)
			hi = math.Max(hi, e.Max)
		}
	}

	switch {
	case lo > hi:
		return Bound[float64]{}, false
	case lo == hi:
		return Bound[float64]{Min: math.Min(0, lo), Max: math.Max(0, hi)}, true
	case lo < 0 && hi > 0:
		extreme := math.Max(math.Abs(lo), math.Abs(hi))
		return Bound[float64]{Min: -extreme, Max: extreme}, true
	}

	return Bound[float64]{Min: lo, Max: hi}, true
}

// Compose refreshes the computed parts of d: the auto index window covers
// count items and the auto value range fits the items inside the resolved
// index window. When no item contributes, the previous auto value range is
// kept.
func Compose(d Domain, p ExtentProvider, count int) Domain {
	if count < 0 {
		panic("ggchart: negative item count")
	}

	d.AutoIndex = Bound[int]{Min: 0, Max: count}

	ib := d.IndexBound()
	if v, ok := AutoScale(p, ib.Min, ib.Max); ok {
		d.AutoValue = v
	}

	return d
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
