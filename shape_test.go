package ggchart

import (
	"math"
	"slices"
	"testing"
)

func TestShapeExtents(t *testing.T) {
	tests := []struct {
		name   string
		s      Shape
		want   Bound[float64]
		wantOK bool
	}{
		{"line", Line{Value: 3}, B(3.0, 3.0), true},
		{"circle", Circle{Value: -2}, B(-2.0, -2.0), true},
		{"arrow", Arrow{Value: 7, Up: true}, B(7.0, 7.0), true},
		{"bar from zero", Bar{Value: 4}, B(0.0, 4.0), true},
		{"negative bar", Bar{Value: -4}, B(-4.0, 0.0), true},
		{"area from zero", Area{Value: 2}, B(0.0, 2.0), true},
		{"box", Box{Low: 5, High: 1}, B(1.0, 5.0), true},
		{"candle", Candle{Open: 3, High: 9, Low: 1, Close: 4}, B(1.0, 9.0), true},
		{"nan line", Line{Value: math.NaN()}, Bound[float64]{}, false},
		{"inf bar", Bar{Value: math.Inf(1)}, Bound[float64]{}, false},
		{"empty group", NewGroupShape(), Bound[float64]{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.s.Extent()
			if ok != tt.wantOK {
				t.Fatalf("Extent() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Extent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemsExtentAt(t *testing.T) {
	items := Items{Line{Value: 1}, nil, Line{Value: 2}}

	tests := []struct {
		index int
		ok    bool
	}{
		{-1, false},
		{0, true},
		{1, false},
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		if _, ok := items.ExtentAt(tt.index); ok != tt.ok {
			t.Errorf("ExtentAt(%d) ok = %v, want %v", tt.index, ok, tt.ok)
		}
	}
}

func TestGroupShape(t *testing.T) {
	g := NewGroupShape().
		Set("price", Candle{Open: 10, High: 12, Low: 9, Close: 11}).
		Set("signal", Arrow{Value: 13, Up: false}).
		Set("volume", Bar{Value: 1})

	if got := g.Names(); !slices.Equal(got, []string{"price", "signal", "volume"}) {
		t.Errorf("Names() = %v, want insertion order", got)
	}
	if got, _ := g.Extent(); got != B(0.0, 13.0) {
		t.Errorf("Extent() = %v, want [0, 13]", got)
	}

	g.Set("volume", nil)
	if g.Len() != 2 {
		t.Errorf("Len() = %d after removal, want 2", g.Len())
	}
	if got, _ := g.Extent(); got != B(9.0, 13.0) {
		t.Errorf("Extent() = %v after removal, want [9, 13]", got)
	}

	// Replacing keeps the position.
	g.Set("price", Line{Value: 10})
	if got := g.Names(); !slices.Equal(got, []string{"price", "signal"}) {
		t.Errorf("Names() = %v after replace", got)
	}
}

func TestGroupShapeZeroValue(t *testing.T) {
	var g GroupShape
	if _, ok := g.Extent(); ok {
		t.Error("empty group has an extent")
	}
	g.Set("gone", nil)
	g.Set("a", Line{Value: 1})
	if s, ok := g.Child("a"); !ok || s != (Line{Value: 1}) {
		t.Errorf("Child(a) = %v, %v", s, ok)
	}
	if got, _ := g.Extent(); got != B(1.0, 1.0) {
		t.Errorf("Extent() = %v, want [1, 1]", got)
	}
}

func TestGroupShapeDrawPairsChildren(t *testing.T) {
	e := newFakeEngine(100, 100)
	dc := &DrawContext{
		Engine:   e,
		Mapper:   NewMapper(Domain{}.WithIndex(B(0, 10)).WithValue(B(0.0, 10.0)), 100, 100, 0),
		ItemSize: 0.5,
	}

	prev := NewGroupShape().Set("x", Line{Value: 1}).Set("area", Area{Value: 2})
	cur := NewGroupShape().Set("x", Line{Value: 3}).Set("area", Area{Value: 4}).Set("y", Line{Value: 5})

	cur.Draw(dc, 1, prev)

	// "x" joins its predecessor, "area" fills to zero, "y" has nothing to
	// join.
	if e.lines != 1 || e.shapes != 1 {
		t.Errorf("lines = %d, shapes = %d; want 1 and 1", e.lines, e.shapes)
	}

	// A group after a plain shape has no predecessors.
	cur.Draw(dc, 1, Line{Value: 1})
	if e.lines != 1 || e.shapes != 1 {
		t.Errorf("drawing after a non-group drew %d lines, %d shapes", e.lines, e.shapes)
	}
}

func TestBoxGeometry(t *testing.T) {
	var boxes [][]Point
	e := &boxEngine{fakeEngine: newFakeEngine(100, 100), boxes: &boxes}
	dc := &DrawContext{
		Engine:   e,
		Mapper:   NewMapper(Domain{}.WithIndex(B(0, 10)).WithValue(B(0.0, 10.0)), 100, 100, 0),
		ItemSize: 0.5,
	}

	Bar{Value: 5}.Draw(dc, 4, nil)

	if len(boxes) != 1 {
		t.Fatalf("DrawBox called %d times, want 1", len(boxes))
	}
	// One index step is 10px, so the bar is 5px wide around x = 40.
	want := []Point{Pt(37.5, 100), Pt(42.5, 50)}
	for i := range want {
		if !near(boxes[0][i].X, want[i].X) || !near(boxes[0][i].Y, want[i].Y) {
			t.Errorf("corner %d = %v, want %v", i, boxes[0][i], want[i])
		}
	}
}

// boxEngine records box corners.
type boxEngine struct {
	*fakeEngine
	boxes *[][]Point
}

func (b *boxEngine) DrawBox(points []Point, _ Style) {
	*b.boxes = append(*b.boxes, slices.Clone(points))
}

func TestCandleColors(t *testing.T) {
	var styles []Style
	e := &styleEngine{fakeEngine: newFakeEngine(100, 100), styles: &styles}
	dc := &DrawContext{
		Engine:   e,
		Mapper:   NewMapper(Domain{}.WithIndex(B(0, 2)).WithValue(B(0.0, 10.0)), 100, 100, 0),
		ItemSize: 0.5,
	}

	Candle{Open: 1, High: 5, Low: 0, Close: 4}.Draw(dc, 0, nil)
	Candle{Open: 4, High: 5, Low: 0, Close: 1}.Draw(dc, 1, nil)

	if len(styles) != 2 {
		t.Fatalf("DrawBox called %d times, want 2", len(styles))
	}
	if styles[0].Color != upColor || styles[1].Color != downColor {
		t.Errorf("candle colors = %v, %v; want up then down", styles[0].Color, styles[1].Color)
	}
}

// styleEngine records box styles.
type styleEngine struct {
	*fakeEngine
	styles *[]Style
}

func (s *styleEngine) DrawBox(_ []Point, st Style) {
	*s.styles = append(*s.styles, st)
}
