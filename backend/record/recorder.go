package record

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/ggchart"
	"github.com/mattn/go-runewidth"
)

// Name is the registry name of the recording engine.
const Name = "record"

func init() {
	ggchart.Register(Name, func(width, height int) (ggchart.Engine, error) {
		return New(width, height), nil
	})
}

// glyphAspect is the advance of one text cell relative to the font size.
const glyphAspect = 0.6

// Recorder is an engine that captures drawing operations as commands.
// A Clear starts a new frame; Frame returns the commands since the last
// Clear. The Recorder is safe for concurrent use.
type Recorder struct {
	mu            sync.Mutex
	width, height int
	commands      []Command
	frames        int
	closed        bool
}

// New creates a Recorder for the given canvas size.
func New(width, height int) *Recorder {
	return &Recorder{
		width:    width,
		height:   height,
		commands: make([]Command, 0, 256),
	}
}

// Name implements ggchart.Engine.
func (r *Recorder) Name() string {
	return Name
}

// Size implements ggchart.Engine.
func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Resize implements ggchart.Engine.
func (r *Recorder) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("record: invalid size %dx%d", width, height)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.commands = r.commands[:0]
	return nil
}

// Clear implements ggchart.Engine. It discards the previous frame.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands[:0], ClearCommand{})
	r.frames++
}

// DrawLine implements ggchart.Engine.
func (r *Recorder) DrawLine(points []ggchart.Point, s ggchart.Style) {
	r.record(LineCommand{Points: slices.Clone(points), Style: s})
}

// DrawBox implements ggchart.Engine.
func (r *Recorder) DrawBox(points []ggchart.Point, s ggchart.Style) {
	r.record(BoxCommand{Points: slices.Clone(points), Style: s})
}

// DrawCircle implements ggchart.Engine.
func (r *Recorder) DrawCircle(center ggchart.Point, radius float64, s ggchart.Style) {
	r.record(CircleCommand{Center: center, Radius: radius, Style: s})
}

// DrawShape implements ggchart.Engine.
func (r *Recorder) DrawShape(points []ggchart.Point, s ggchart.Style) {
	r.record(ShapeCommand{Points: slices.Clone(points), Style: s})
}

// DrawText implements ggchart.Engine.
func (r *Recorder) DrawText(at ggchart.Point, text string, s ggchart.Style) {
	r.record(TextCommand{At: at, Text: text, Style: s})
}

// MeasureText implements ggchart.Engine with monospace metrics: each
// terminal cell of text is 0.6 of the font size wide.
func (r *Recorder) MeasureText(text string, size float64) ggchart.Point {
	return ggchart.Point{
		X: float64(runewidth.StringWidth(text)) * size * glyphAspect,
		Y: size,
	}
}

// Close implements ggchart.Engine.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Frames returns the number of frames started with Clear.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Frame returns an immutable copy of the current frame.
func (r *Recorder) Frame() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Frame{
		width:    r.width,
		height:   r.height,
		commands: slices.Clone(r.commands),
	}
}

func (r *Recorder) record(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

// Frame is an immutable container for the commands of one frame.
type Frame struct {
	width, height int
	commands      []Command
}

// Width returns the width of the recorded canvas.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the height of the recorded canvas.
func (f *Frame) Height() int {
	return f.height
}

// Commands returns the recorded commands.
func (f *Frame) Commands() []Command {
	return f.commands
}

// Count returns the number of commands of type t.
func (f *Frame) Count(t CommandType) int {
	n := 0
	for _, cmd := range f.commands {
		if cmd.Type() == t {
			n++
		}
	}
	return n
}

// Texts returns the labels drawn in the frame, in drawing order.
func (f *Frame) Texts() []string {
	var texts []string
	for _, cmd := range f.commands {
		if c, ok := cmd.(TextCommand); ok {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

// Playback replays the frame onto e, resizing it to the recorded canvas
// first when the sizes differ.
func (f *Frame) Playback(e ggchart.Engine) error {
	if w, h := e.Size(); w != f.width || h != f.height {
		if err := e.Resize(f.width, f.height); err != nil {
			return fmt.Errorf("record: playback resize: %w", err)
		}
	}

	for _, cmd := range f.commands {
		switch c := cmd.(type) {
		case ClearCommand:
			e.Clear()
		case LineCommand:
			e.DrawLine(c.Points, c.Style)
		case BoxCommand:
			e.DrawBox(c.Points, c.Style)
		case CircleCommand:
			e.DrawCircle(c.Center, c.Radius, c.Style)
		case ShapeCommand:
			e.DrawShape(c.Points, c.Style)
		case TextCommand:
			e.DrawText(c.At, c.Text, c.Style)
		}
	}

	return nil
}
