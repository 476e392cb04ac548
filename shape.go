package ggchart

import (
	"math"
	"slices"
)

// Shape is a drawable item. Item i of a Composer is drawn at index i.
//
// Extent reports the value range the shape covers, for auto-scale; ok is
// false when the shape has nothing to plot. Draw renders the shape at index
// through dc. prev is the item at index-1 (nil at the first index or when
// absent) so that connected shapes such as lines and areas can join the
// previous point.
type Shape interface {
	Extent() (extent Bound[float64], ok bool)
	Draw(dc *DrawContext, index int, prev Shape)
}

// DrawContext carries everything a shape needs to draw one frame.
type DrawContext struct {
	Engine Engine
	Mapper Mapper
	// ItemSize is the fraction of one index step covered by box shapes.
	ItemSize float64
}

// At maps a data point to canvas pixels.
func (dc *DrawContext) At(index, value float64) Point {
	return dc.Mapper.ToPixels(DataPoint{Index: index, Value: value})
}

// HalfWidth returns half the pixel width of a box shape.
func (dc *DrawContext) HalfWidth() float64 {
	return dc.Mapper.IndexWidth() * dc.ItemSize / 2
}

// Items is the ordered item sequence of a chart. It implements
// ExtentProvider: out-of-range and nil items are absent.
type Items []Shape

// ExtentAt returns the extent of the item at index.
func (items Items) ExtentAt(index int) (Bound[float64], bool) {
	if index < 0 || index >= len(items) || items[index] == nil {
		return Bound[float64]{}, false
	}
	return items[index].Extent()
}

// GroupShape is a composite item holding named child shapes, e.g. a price
// candle and a trade arrow at the same index. Children keep insertion
// order and are drawn in that order. A group owns its children; it is a
// tree, never a graph. The zero value is an empty group.
type GroupShape struct {
	names    []string
	children map[string]Shape
}

// NewGroupShape creates an empty group.
func NewGroupShape() *GroupShape {
	return &GroupShape{children: make(map[string]Shape)}
}

// Set adds or replaces the child called name and returns g for chaining.
// A nil shape removes the child.
func (g *GroupShape) Set(name string, s Shape) *GroupShape {
	if s == nil {
		if _, ok := g.children[name]; ok {
			delete(g.children, name)
			g.names = slices.DeleteFunc(g.names, func(n string) bool { return n == name })
		}
		return g
	}
	if g.children == nil {
		g.children = make(map[string]Shape)
	}
	if _, ok := g.children[name]; !ok {
		g.names = append(g.names, name)
	}
	g.children[name] = s
	return g
}

// Child returns the child called name.
func (g *GroupShape) Child(name string) (Shape, bool) {
	if g == nil {
		return nil, false
	}
	s, ok := g.children[name]
	return s, ok
}

// Names returns the child names in drawing order.
func (g *GroupShape) Names() []string {
	return slices.Clone(g.names)
}

// Len returns the number of children.
func (g *GroupShape) Len() int {
	return len(g.names)
}

// Extent returns the union of the children extents.
func (g *GroupShape) Extent() (Bound[float64], bool) {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, name := range g.names {
		e, ok := g.children[name].Extent()
		if !ok {
			continue
		}
		lo = math.Min(lo, e.Min)
		hi = math.Max(hi, e.Max)
	}
	if lo > hi {
		return Bound[float64]{}, false
	}
	return Bound[float64]{Min: lo, Max: hi}, true
}

// Draw draws every child, pairing it with the same-named child of prev.
func (g *GroupShape) Draw(dc *DrawContext, index int, prev Shape) {
	pg, _ := prev.(*GroupShape)
	for _, name := range g.names {
		var p Shape
		if s, ok := pg.Child(name); ok {
			p = s
		}
		g.children[name].Draw(dc, index, p)
	}
}
