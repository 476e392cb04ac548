package ggchart

import "iter"

// Grid decorates a frame with dashed reference lines at the tick positions
// and the tick labels along the right and bottom edges.
type Grid struct {
	// Labels enables the tick labels. Engines without text support
	// measure every label as zero and skip them.
	Labels bool
}

// Draw draws the grid for the given ticks.
func (g Grid) Draw(dc *DrawContext, index, value iter.Seq[Tick]) {
	w, h := dc.Mapper.Width, dc.Mapper.Height

	for t := range index {
		dc.Engine.DrawLine([]Point{{X: t.Position, Y: 0}, {X: t.Position, Y: h}}, gridStyle)
	}
	for t := range value {
		dc.Engine.DrawLine([]Point{{X: 0, Y: t.Position}, {X: w, Y: t.Position}}, gridStyle)
	}

	if !g.Labels {
		return
	}

	for t := range index {
		g.label(dc, t.Label, Point{X: t.Position, Y: h}, Point{X: 0.5, Y: 1})
	}
	for t := range value {
		g.label(dc, t.Label, Point{X: w, Y: t.Position}, Point{X: 1, Y: 0.5})
	}
}

func (g Grid) label(dc *DrawContext, text string, at, anchor Point) {
	size := dc.Engine.MeasureText(text, labelStyle.Size)
	if size.X == 0 {
		return
	}

	// Box behind the label, then the label itself.
	topLeft := Point{X: at.X - size.X*anchor.X, Y: at.Y - size.Y*anchor.Y}
	bg := labelStyle.WithColor(labelStyle.Background)
	dc.Engine.DrawBox([]Point{topLeft, topLeft.Add(size)}, bg)

	s := labelStyle
	s.Anchor = anchor
	dc.Engine.DrawText(at, text, s)
}
