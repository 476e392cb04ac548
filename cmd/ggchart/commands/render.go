package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/backend/raster"
	"github.com/gogpu/ggchart/internal/sample"
)

// encoder is implemented by engines that can write their frame as an image.
type encoder interface {
	EncodePNG(w io.Writer) error
	EncodeJPEG(w io.Writer, quality int) error
}

type renderOptions struct {
	out     string
	pane    string
	width   int
	height  int
	quality int
}

func renderCmd(a *app) *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one pane of the sample chart to a PNG or JPEG file",
		Long: "Render generates the sample feed, draws the newest candles of one pane\n" +
			"with the raster engine and writes the frame. The format follows the\n" +
			"file extension: .jpg and .jpeg write JPEG, anything else PNG.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.render(cmd.Context(), o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", o.out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.out, "out", "o", "chart.png", "output file")
	cmd.Flags().StringVar(&o.pane, "pane", sample.PaneAssets, "pane to draw ("+strings.Join(sample.Panes, ", ")+")")
	cmd.Flags().IntVar(&o.width, "width", 800, "image width in pixels")
	cmd.Flags().IntVar(&o.height, "height", 400, "image height in pixels")
	cmd.Flags().IntVar(&o.quality, "quality", 90, "JPEG quality (1-100)")
	return cmd
}

func (a *app) render(ctx context.Context, o renderOptions) (err error) {
	if !slices.Contains(sample.Panes, o.pane) {
		return fmt.Errorf("unknown pane %q, want one of %s", o.pane, strings.Join(sample.Panes, ", "))
	}
	if o.quality < 1 || o.quality > 100 {
		return fmt.Errorf("quality %d outside [1, 100]", o.quality)
	}

	feed := a.newFeed()
	cfg := a.cfg
	cfg.Name = o.pane
	c := ggchart.NewComposer(ggchart.WithConfig(cfg), ggchart.WithFormatters(feed.Formatter("01/02 15:04"), nil))
	if err := c.Create(raster.Name, o.width, o.height); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, c.Close())
	}()

	c.SetItems(sample.Items(feed.Candles(), o.pane))
	window := ggchart.Domain{}.WithIndex(sample.Window(feed.Len(), sample.Visible))
	if err := c.Update(ctx, &window, "render").Wait(ctx); err != nil {
		return err
	}

	enc, ok := c.Engine().(encoder)
	if !ok {
		return fmt.Errorf("engine %s cannot encode images", c.Engine().Name())
	}

	f, err := a.fs.Create(o.out)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	switch strings.ToLower(filepath.Ext(o.out)) {
	case ".jpg", ".jpeg":
		err = enc.EncodeJPEG(f, o.quality)
	default:
		err = enc.EncodePNG(f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", o.out, err)
	}

	ggchart.Logger().Info("frame written", "path", o.out, "pane", o.pane, "candles", feed.Len())
	return nil
}
