package ggchart

import (
	"context"
	"image/color"
)

// Engine is a rendering backend. It draws primitives in pixel coordinates;
// everything it receives has already been mapped by a Mapper.
//
// Engines are created by name through the registry (see Register) so that
// a Composer can be pointed at a backend without importing it.
type Engine interface {
	// Name returns the backend identifier (e.g. "raster", "term").
	Name() string

	// Size returns the canvas size in pixels.
	Size() (width, height int)

	// Resize changes the canvas size. The content is discarded.
	Resize(width, height int) error

	// Clear erases the canvas.
	Clear()

	// DrawLine strokes a polyline through points.
	DrawLine(points []Point, s Style)

	// DrawBox fills the axis-aligned rectangle spanned by the first two
	// points (any two opposite corners).
	DrawBox(points []Point, s Style)

	// DrawCircle fills a circle.
	DrawCircle(center Point, radius float64, s Style)

	// DrawShape fills the closed polygon through points.
	DrawShape(points []Point, s Style)

	// DrawText draws text with its anchor (see Style.Anchor) at p.
	DrawText(p Point, text string, s Style)

	// MeasureText returns the width and height of text at the given size.
	MeasureText(text string, size float64) Point

	// Close releases backend resources.
	Close() error
}

// Composition selects how a line is stroked.
type Composition uint8

const (
	// Solid strokes a continuous line.
	Solid Composition = iota
	// Dashes strokes a dashed line.
	Dashes
)

// Style describes how a primitive is drawn.
type Style struct {
	Color      color.RGBA
	Background color.RGBA
	// Size is the line width for strokes and the font size for text.
	Size        float64
	Composition Composition
	// Anchor positions text relative to the point: (0,0) top-left,
	// (0.5,0.5) center, (1,1) bottom-right.
	Anchor Point
}

// WithColor returns a copy of s drawn in c.
func (s Style) WithColor(c color.RGBA) Style {
	s.Color = c
	return s
}

// Presenter receives the engine after each completed frame, e.g. to encode
// and stream it. Present runs inside the render and blocks the next one.
type Presenter interface {
	Present(ctx context.Context, e Engine) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, e Engine) error

// Present calls f(ctx, e).
func (f PresenterFunc) Present(ctx context.Context, e Engine) error {
	return f(ctx, e)
}

// Default component styles.
var (
	shapeStyle = Style{Size: 1, Color: color.RGBA{R: 50, G: 50, B: 50, A: 255}}
	gridStyle  = Style{Size: 1, Color: color.RGBA{R: 50, G: 50, B: 50, A: 255}, Composition: Dashes}
	labelStyle = Style{
		Size:       10,
		Color:      color.RGBA{R: 50, G: 50, B: 50, A: 255},
		Background: color.RGBA{R: 200, G: 200, B: 200, A: 255},
		Anchor:     Point{X: 0.5, Y: 0.5},
	}
)
