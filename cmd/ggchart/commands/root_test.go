package commands

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggchart"
)

// run executes the root command with args on fs and returns its output.
func run(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { ggchart.SetLogger(nil) })

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(fs)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderPNG(t *testing.T) {
	fs := afero.NewMemMapFs()
	out, _, err := run(t, fs, "render", "-o", "chart.png", "--width", "200", "--height", "100", "--candles", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote chart.png")

	f, err := fs.Open("chart.png")
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestRenderJPEG(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, _, err := run(t, fs, "render", "-o", "volume.JPG", "--pane", "indicators", "--width", "120", "--height", "80", "--quality", "70")
	require.NoError(t, err)

	f, err := fs.Open("volume.JPG")
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown pane", []string{"render", "--pane", "orders"}},
		{"quality", []string{"render", "--quality", "0"}},
		{"size", []string{"render", "--width", "0"}},
		{"negative candles", []string{"render", "--candles", "-1"}},
		{"log level", []string{"render", "--log-level", "loud"}},
		{"missing config", []string{"render", "--config", "missing.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			_, _, err := run(t, fs, tt.args...)
			assert.Error(t, err)

			exists, _ := afero.Exists(fs, "chart.png")
			assert.False(t, exists, "no file on failure")
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "chart.yaml", []byte("index_ticks: -1\n"), 0o644))

	_, _, err := run(t, fs, "--config", "chart.yaml", "render")
	assert.ErrorIs(t, err, ggchart.ErrInvalidConfig)
}

func TestConfigAndLogging(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "chart.yaml", []byte("padding: 0.1\nzoom_modifier: alt\n"), 0o644))

	_, stderr, err := run(t, fs, "--config", "chart.yaml", "--log-level", "debug", "render", "--width", "100", "--height", "60", "--candles", "10")
	require.NoError(t, err)
	assert.Contains(t, stderr, "frame written")
	assert.Contains(t, stderr, "level=DEBUG")
}
