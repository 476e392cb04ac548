// Package term provides an engine that draws charts as terminal cells.
//
// One canvas unit is one character cell, so a Composer created with
// Create("term", cols, rows) maps its domain straight onto the terminal
// grid. Lines use box-drawing runes, boxes and circles use block runes and
// filled polygons use a light shade. The result is a styled string suitable
// for a bubbletea View.
package term

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"sync"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gogpu/ggchart"
)

// Name is the registry name of the terminal engine.
const Name = "term"

// Runes used for primitives without a line-drawing equivalent.
const (
	DotRune    = '·'
	CircleRune = '●'
	ShadeRune  = '░'
)

func init() {
	ggchart.Register(Name, func(width, height int) (ggchart.Engine, error) {
		return New(width, height)
	})
}

// Engine draws onto an ntcharts canvas. It is safe for concurrent use;
// calls are serialized.
type Engine struct {
	mu     sync.Mutex
	canvas canvas.Model
	styles map[color.RGBA]lipgloss.Style
}

// New creates a terminal engine with the given size in cells.
func New(cols, rows int) (*Engine, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("term: invalid size %dx%d", cols, rows)
	}
	ggchart.Logger().Debug("term: engine created", "cols", cols, "rows", rows)
	return &Engine{
		canvas: canvas.New(cols, rows),
		styles: make(map[color.RGBA]lipgloss.Style),
	}, nil
}

// Name implements ggchart.Engine.
func (e *Engine) Name() string {
	return Name
}

// Size implements ggchart.Engine.
func (e *Engine) Size() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Width(), e.canvas.Height()
}

// Resize implements ggchart.Engine.
func (e *Engine) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("term: invalid size %dx%d", cols, rows)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canvas.Resize(cols, rows)
	e.canvas.ViewWidth, e.canvas.ViewHeight = cols, rows
	e.canvas.Clear()
	return nil
}

// Clear implements ggchart.Engine.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canvas.Clear()
}

// DrawLine implements ggchart.Engine. Dashed lines are dotted.
func (e *Engine) DrawLine(points []ggchart.Point, s ggchart.Style) {
	if len(points) < 2 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var cells []canvas.Point
	for i := 1; i < len(points); i++ {
		from := cell(points[i-1])
		seg := graph.GetLinePoints(from, cell(points[i]))
		// Segments come back ordered left to right or top to bottom.
		if len(seg) > 0 && seg[0] != from {
			slices.Reverse(seg)
		}
		if len(cells) > 0 && len(seg) > 0 && seg[0] == cells[len(cells)-1] {
			seg = seg[1:]
		}
		cells = append(cells, seg...)
	}

	st := e.style(s.Color)
	if s.Composition == ggchart.Dashes {
		for i, p := range cells {
			if i%2 == 0 {
				e.canvas.SetRuneWithStyle(p, DotRune, st)
			}
		}
		return
	}
	if len(cells) == 1 {
		e.canvas.SetRuneWithStyle(cells[0], DotRune, st)
		return
	}
	graph.DrawLinePoints(&e.canvas, cells, runes.ArcLineStyle, st)
}

// DrawBox implements ggchart.Engine. A box always covers at least one cell.
func (e *Engine) DrawBox(points []ggchart.Point, s ggchart.Style) {
	if len(points) < 2 {
		return
	}
	a, b := cell(points[0]), cell(points[1])
	r := image.Rect(a.X, a.Y, b.X, b.Y)
	r.Max = r.Max.Add(image.Pt(1, 1))

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.style(s.Color)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			e.canvas.SetRuneWithStyle(canvas.Point{X: x, Y: y}, runes.FullBlock, st)
		}
	}
}

// DrawCircle implements ggchart.Engine. Circles with a radius under half a
// cell are drawn as a single rune.
func (e *Engine) DrawCircle(center ggchart.Point, radius float64, s ggchart.Style) {
	c := cell(center)
	r := int(math.Round(radius))

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.style(s.Color)
	if r < 1 {
		e.canvas.SetRuneWithStyle(c, CircleRune, st)
		return
	}
	for _, p := range graph.GetFullCirclePoints(c, r) {
		e.canvas.SetRuneWithStyle(p, runes.FullBlock, st)
	}
}

// DrawShape implements ggchart.Engine. A cell is filled when its center lies
// inside the polygon.
func (e *Engine) DrawShape(points []ggchart.Point, s ggchart.Style) {
	if len(points) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.style(s.Color)
	filled := 0
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		for x := int(math.Floor(minX)); x <= int(math.Ceil(maxX)); x++ {
			if inside(points, float64(x), float64(y)) {
				e.canvas.SetRuneWithStyle(canvas.Point{X: x, Y: y}, ShadeRune, st)
				filled++
			}
		}
	}
	// Keep slivers visible along their outline.
	if filled == 0 {
		for i := range points {
			e.canvas.SetRuneWithStyle(cell(points[i]), ShadeRune, st)
		}
	}
}

// DrawText implements ggchart.Engine. The text occupies one row; the anchor
// is applied to its display width.
func (e *Engine) DrawText(at ggchart.Point, label string, s ggchart.Style) {
	w := runewidth.StringWidth(label)
	p := cell(ggchart.Point{
		X: at.X - s.Anchor.X*float64(w),
		Y: at.Y - s.Anchor.Y,
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.style(s.Color)
	if s.Background.A > 0 {
		st = st.Background(hex(s.Background))
	}
	x := p.X
	for _, r := range label {
		e.canvas.SetRuneWithStyle(canvas.Point{X: x, Y: p.Y}, r, st)
		x += runewidth.RuneWidth(r)
	}
}

// MeasureText implements ggchart.Engine. Font size has no effect on a
// terminal: text is as wide as its display cells and one row tall.
func (e *Engine) MeasureText(label string, _ float64) ggchart.Point {
	w := runewidth.StringWidth(label)
	if w == 0 {
		return ggchart.Point{}
	}
	return ggchart.Point{X: float64(w), Y: 1}
}

// Close implements ggchart.Engine. The canvas holds no external resources.
func (e *Engine) Close() error {
	return nil
}

// View renders the canvas as styled text, one line per row.
func (e *Engine) View() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.View()
}

// Rune returns the rune at a cell, or 0 when the cell is empty or outside
// the canvas.
func (e *Engine) Rune(x, y int) rune {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Cell(canvas.Point{X: x, Y: y}).Rune
}

// style returns the cached foreground style for c. Callers hold e.mu.
func (e *Engine) style(c color.RGBA) lipgloss.Style {
	st, ok := e.styles[c]
	if !ok {
		st = lipgloss.NewStyle().Foreground(hex(c))
		e.styles[c] = st
	}
	return st
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// cell returns the cell containing p.
func cell(p ggchart.Point) canvas.Point {
	return canvas.Point{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// inside reports whether the center of cell (x, y) is inside the polygon,
// using the even-odd rule.
func inside(poly []ggchart.Point, x, y float64) bool {
	x, y = x+0.5, y+0.5
	in := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
		j = i
	}
	return in
}
