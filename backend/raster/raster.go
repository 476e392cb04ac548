// Package raster provides a software rasterizing engine built on gg.
//
// Frames are drawn into an RGBA image with anti-aliased strokes and fills
// and can be encoded as PNG or JPEG. Labels use the Go Regular font unless
// another TrueType font is supplied.
//
// The engine registers itself as "raster":
//
//	import _ "github.com/gogpu/ggchart/backend/raster"
//
//	err := composer.Create("raster", 800, 600)
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggchart"
)

// Name is the registry name of the raster engine.
const Name = "raster"

func init() {
	ggchart.Register(Name, func(width, height int) (ggchart.Engine, error) {
		return New(width, height)
	})
}

// dashPattern is the stroke pattern of ggchart.Dashes lines.
var dashPattern = []float64{4, 4}

// Engine draws onto a gg.Context. It is safe for concurrent use; calls are
// serialized.
type Engine struct {
	mu         sync.Mutex
	dc         *gg.Context
	source     *text.FontSource
	faces      map[float64]text.Face
	background color.RGBA
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	font       []byte
	background color.RGBA
}

// WithFont sets the TrueType font used for labels.
func WithFont(ttf []byte) Option {
	return func(o *options) {
		o.font = ttf
	}
}

// WithBackground sets the color the canvas is cleared to.
func WithBackground(c color.RGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// New creates a raster engine with the given canvas size.
func New(width, height int, opts ...Option) (*Engine, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", width, height)
	}

	o := options{
		font:       goregular.TTF,
		background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
	for _, opt := range opts {
		opt(&o)
	}

	source, err := text.NewFontSource(o.font)
	if err != nil {
		return nil, fmt.Errorf("raster: load font: %w", err)
	}

	e := &Engine{
		dc:         gg.NewContext(width, height),
		source:     source,
		faces:      make(map[float64]text.Face),
		background: o.background,
	}
	e.dc.ClearWithColor(gg.FromColor(e.background))

	ggchart.Logger().Debug("raster: engine created", "width", width, "height", height)
	return e, nil
}

// Name implements ggchart.Engine.
func (e *Engine) Name() string {
	return Name
}

// Size implements ggchart.Engine.
func (e *Engine) Size() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dc.Width(), e.dc.Height()
}

// Resize implements ggchart.Engine.
func (e *Engine) Resize(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.dc.Resize(width, height); err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	e.dc.ClearWithColor(gg.FromColor(e.background))
	return nil
}

// Clear implements ggchart.Engine.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dc.ClearWithColor(gg.FromColor(e.background))
}

// DrawLine implements ggchart.Engine.
func (e *Engine) DrawLine(points []ggchart.Point, s ggchart.Style) {
	if len(points) < 2 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stroke(s)
	e.path(points)
	e.check("line", e.dc.Stroke())
	e.dc.ClearDash()
}

// DrawBox implements ggchart.Engine.
func (e *Engine) DrawBox(points []ggchart.Point, s ggchart.Style) {
	if len(points) < 2 {
		return
	}
	a, b := points[0], points[1]
	x, y := min(a.X, b.X), min(a.Y, b.Y)
	w, h := max(a.X, b.X)-x, max(a.Y, b.Y)-y

	e.mu.Lock()
	defer e.mu.Unlock()

	e.dc.SetColor(s.Color)
	// Keep hairline boxes visible.
	e.dc.DrawRectangle(x, y, max(w, 1), max(h, 1))
	e.check("box", e.dc.Fill())
}

// DrawCircle implements ggchart.Engine.
func (e *Engine) DrawCircle(center ggchart.Point, radius float64, s ggchart.Style) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dc.SetColor(s.Color)
	e.dc.DrawCircle(center.X, center.Y, max(radius, 1))
	e.check("circle", e.dc.Fill())
}

// DrawShape implements ggchart.Engine.
func (e *Engine) DrawShape(points []ggchart.Point, s ggchart.Style) {
	if len(points) < 3 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dc.SetColor(s.Color)
	e.path(points)
	e.dc.ClosePath()
	e.check("shape", e.dc.Fill())
}

// DrawText implements ggchart.Engine.
func (e *Engine) DrawText(at ggchart.Point, label string, s ggchart.Style) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dc.SetFont(e.face(s.Size))
	e.dc.SetColor(s.Color)
	e.dc.DrawStringAnchored(label, at.X, at.Y, s.Anchor.X, s.Anchor.Y)
}

// MeasureText implements ggchart.Engine.
func (e *Engine) MeasureText(label string, size float64) ggchart.Point {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dc.SetFont(e.face(size))
	w, h := e.dc.MeasureString(label)
	return ggchart.Point{X: w, Y: h}
}

// Close implements ggchart.Engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return errors.Join(e.dc.Close(), e.source.Close())
}

// Image returns the current frame.
func (e *Engine) Image() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dc.Image()
}

// EncodePNG writes the current frame as PNG.
func (e *Engine) EncodePNG(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dc.EncodePNG(w)
}

// EncodeJPEG writes the current frame as JPEG with the given quality (1-100).
func (e *Engine) EncodeJPEG(w io.Writer, quality int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dc.EncodeJPEG(w, quality)
}

func (e *Engine) stroke(s ggchart.Style) {
	e.dc.SetColor(s.Color)
	e.dc.SetLineWidth(max(s.Size, 1))
	if s.Composition == ggchart.Dashes {
		e.dc.SetDash(dashPattern...)
	}
}

func (e *Engine) path(points []ggchart.Point) {
	e.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		e.dc.LineTo(p.X, p.Y)
	}
}

// face returns the cached font face for size. Callers hold e.mu.
func (e *Engine) face(size float64) text.Face {
	if size <= 0 {
		size = 10
	}
	f, ok := e.faces[size]
	if !ok {
		f = e.source.Face(size)
		e.faces[size] = f
	}
	return f
}

func (e *Engine) check(op string, err error) {
	if err != nil {
		ggchart.Logger().Warn("raster: draw failed", "op", op, "err", err)
	}
}
