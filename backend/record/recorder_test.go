package record_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/backend/record"
)

func TestRegistered(t *testing.T) {
	assert.True(t, ggchart.IsRegistered(record.Name))

	e, err := ggchart.NewEngine(record.Name, 640, 480)
	require.NoError(t, err)

	w, h := e.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.Equal(t, record.Name, e.Name())
}

func TestRecorderFrame(t *testing.T) {
	rec := record.New(100, 100)
	style := ggchart.Style{Size: 1}

	rec.DrawLine([]ggchart.Point{{X: 0, Y: 0}}, style)
	rec.Clear()
	rec.DrawLine([]ggchart.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, style)
	rec.DrawBox([]ggchart.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, style)
	rec.DrawCircle(ggchart.Point{X: 1, Y: 1}, 2, style)
	rec.DrawShape([]ggchart.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, style)
	rec.DrawText(ggchart.Point{X: 3, Y: 3}, "label", style)

	frame := rec.Frame()
	assert.Equal(t, 1, rec.Frames())
	assert.Len(t, frame.Commands(), 6, "Clear discards the previous frame")
	assert.Equal(t, record.CmdClear, frame.Commands()[0].Type())
	assert.Equal(t, 1, frame.Count(record.CmdLine))
	assert.Equal(t, 1, frame.Count(record.CmdBox))
	assert.Equal(t, 1, frame.Count(record.CmdCircle))
	assert.Equal(t, 1, frame.Count(record.CmdShape))
	assert.Equal(t, []string{"label"}, frame.Texts())
}

func TestRecorderCopiesPoints(t *testing.T) {
	rec := record.New(10, 10)
	points := []ggchart.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}
	rec.DrawLine(points, ggchart.Style{})
	points[0].X = 99

	line := rec.Frame().Commands()[0].(record.LineCommand)
	assert.Equal(t, 1.0, line.Points[0].X)
}

func TestCommandTypeString(t *testing.T) {
	assert.Equal(t, "Line", record.CmdLine.String())
	assert.Equal(t, "Text", record.CmdText.String())
	assert.Equal(t, "Unknown", record.CommandType(200).String())
}

func TestMeasureText(t *testing.T) {
	rec := record.New(10, 10)
	got := rec.MeasureText("abcd", 10)
	assert.InDelta(t, 24.0, got.X, 1e-9)
	assert.InDelta(t, 10.0, got.Y, 1e-9)

	// Wide runes take two cells.
	assert.InDelta(t, 12.0, rec.MeasureText("世", 10).X, 1e-9)
}

func TestPlayback(t *testing.T) {
	src := record.New(200, 100)
	c := ggchart.NewComposer(ggchart.WithEngine(src))
	c.SetItems(ggchart.Items{
		ggchart.Line{Value: 1},
		ggchart.Line{Value: 3},
		ggchart.Candle{Open: 1, High: 4, Low: 0, Close: 2},
	})
	require.NoError(t, c.Update(context.Background(), nil, "").Wait(context.Background()))

	frame := src.Frame()
	require.NotEmpty(t, frame.Commands())

	dst := record.New(1, 1)
	require.NoError(t, frame.Playback(dst))

	w, h := dst.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, frame.Commands(), dst.Frame().Commands())
}

func TestResizeRejectsNegative(t *testing.T) {
	rec := record.New(10, 10)
	assert.Error(t, rec.Resize(-1, 5))
	assert.NoError(t, rec.Resize(20, 5))

	w, h := rec.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 5, h)
}

func TestClose(t *testing.T) {
	rec := record.New(10, 10)
	require.NoError(t, rec.Close())
	assert.True(t, rec.Closed())
}
