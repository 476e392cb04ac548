// Package record provides an engine that records drawing commands instead
// of rasterizing them.
//
// A Recorder captures every primitive a Composer draws as a typed command.
// Frames can be inspected in tests, or replayed onto any other engine
// (e.g. to render the same frame as PNG and in a terminal).
//
// # Example
//
//	rec := record.New(800, 600)
//	c := ggchart.NewComposer(ggchart.WithEngine(rec))
//	c.SetItems(items)
//	_ = c.Update(ctx, nil, "").Wait(ctx)
//
//	frame := rec.Frame()
//	_ = frame.Playback(rasterEngine)
//
// The engine registers itself as "record".
package record

import "github.com/gogpu/ggchart"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdClear  CommandType = iota // Erase the canvas
	CmdLine                      // Stroke a polyline
	CmdBox                       // Fill a rectangle
	CmdCircle                    // Fill a circle
	CmdShape                     // Fill a polygon
	CmdText                      // Draw a label
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdClear:  "Clear",
	CmdLine:   "Line",
	CmdBox:    "Box",
	CmdCircle: "Circle",
	CmdShape:  "Shape",
	CmdText:   "Text",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// ClearCommand erases the canvas.
type ClearCommand struct{}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// LineCommand strokes a polyline.
type LineCommand struct {
	Points []ggchart.Point
	Style  ggchart.Style
}

// Type implements Command.
func (LineCommand) Type() CommandType { return CmdLine }

// BoxCommand fills the rectangle spanned by two corners.
type BoxCommand struct {
	Points []ggchart.Point
	Style  ggchart.Style
}

// Type implements Command.
func (BoxCommand) Type() CommandType { return CmdBox }

// CircleCommand fills a circle.
type CircleCommand struct {
	Center ggchart.Point
	Radius float64
	Style  ggchart.Style
}

// Type implements Command.
func (CircleCommand) Type() CommandType { return CmdCircle }

// ShapeCommand fills a closed polygon.
type ShapeCommand struct {
	Points []ggchart.Point
	Style  ggchart.Style
}

// Type implements Command.
func (ShapeCommand) Type() CommandType { return CmdShape }

// TextCommand draws a label anchored at a point.
type TextCommand struct {
	At    ggchart.Point
	Text  string
	Style ggchart.Style
}

// Type implements Command.
func (TextCommand) Type() CommandType { return CmdText }
