package commands

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/backend/raster"
	"github.com/gogpu/ggchart/internal/sample"
	"github.com/gogpu/ggchart/internal/telemetry"
)

//go:embed ui/index.html
var indexHTML []byte

type serveOptions struct {
	addr     string
	width    int
	height   int
	interval time.Duration
	gestures float64
}

func serveCmd(a *app) *cobra.Command {
	var o serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream the sample chart to a browser",
		Long: "Serve renders the linked sample panes with the raster engine and\n" +
			"announces every new frame over server-sent events. The page posts\n" +
			"wheel and drag gestures back as JSON. Metrics are exported on /metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, o)
		},
	}
	cmd.Flags().StringVar(&o.addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&o.width, "width", 960, "pane width in pixels")
	cmd.Flags().IntVar(&o.height, "height", 240, "pane height in pixels")
	cmd.Flags().DurationVar(&o.interval, "interval", time.Second, "time between new candles")
	cmd.Flags().Float64Var(&o.gestures, "gestures", 60, "gestures accepted per second")
	return cmd
}

func (a *app) serve(ctx context.Context, o serveOptions) error {
	s, err := newServer(ctx, a.cfg, a.newFeed(), o)
	if err != nil {
		return err
	}
	defer s.close()

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              o.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		// Ends event streams on shutdown.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		ggchart.Logger().Info("serve: listening", "addr", o.addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	g.Go(func() error {
		err := s.dash.feed.Run(gctx, o.interval, func(sample.Candle) {
			s.dash.refresh(gctx, sourceFeed)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := waitAll(ctx, s.dash.refresh(ctx, sourceFeed)); err != nil {
		ggchart.Logger().Warn("serve: first frame failed", "err", err)
	}
	return g.Wait()
}

// server streams the dashboard over HTTP.
type server struct {
	dash    *dashboard
	hub     *hub
	limiter *rate.Limiter
	metrics *telemetry.Metrics

	seq    atomic.Uint64
	mu     sync.RWMutex
	frames map[string][]byte
}

func newServer(ctx context.Context, cfg ggchart.Config, feed *sample.Feed, o serveOptions) (*server, error) {
	s := &server{
		hub:     newHub(),
		limiter: rate.NewLimiter(rate.Limit(o.gestures), max(int(o.gestures), 1)),
		metrics: telemetry.New(),
		frames:  make(map[string][]byte),
	}

	setup := func(name string) []ggchart.Option {
		return []ggchart.Option{ggchart.WithPresenter(s.metrics.Presenter(name, s.presenter(name)))}
	}
	dash, err := newDashboard(ctx, cfg, feed, raster.Name, o.width, o.height, s.metrics, setup)
	if err != nil {
		return nil, err
	}
	s.dash = dash
	return s, nil
}

func (s *server) close() error {
	return s.dash.close()
}

// presenter encodes each frame of pane as PNG, keeps it for /frames and
// announces it to event clients.
func (s *server) presenter(pane string) ggchart.Presenter {
	return ggchart.PresenterFunc(func(_ context.Context, e ggchart.Engine) error {
		enc, ok := e.(encoder)
		if !ok {
			return fmt.Errorf("engine %s cannot encode images", e.Name())
		}
		var buf bytes.Buffer
		if err := enc.EncodePNG(&buf); err != nil {
			return err
		}

		s.mu.Lock()
		s.frames[pane] = buf.Bytes()
		s.mu.Unlock()

		s.hub.broadcast(frameEvent{Pane: pane, Frame: s.seq.Add(1)})
		return nil
	})
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /frames/{pane}", s.handleFrame)
	mux.HandleFunc("GET /domain/{pane}", s.handleDomain)
	mux.HandleFunc("GET /events", s.hub.subscribe)
	mux.HandleFunc("POST /gesture", s.handleGesture)
	mux.HandleFunc("PUT /follow", s.handleFollow)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "clients": s.hub.clientCount()})
	})
	return mux
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frame, ok := s.frames[r.PathValue("pane")]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}

func (s *server) handleDomain(w http.ResponseWriter, r *http.Request) {
	c, ok := s.dash.pane(r.PathValue("pane"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.domainOf(c))
}

// gestureRequest is a pointer event posted by the page.
type gestureRequest struct {
	Pane string `json:"pane"`
	// Kind is one of wheel, move, down, leave or scale.
	Kind      string   `json:"kind"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	DeltaY    float64  `json:"delta_y"`
	Buttons   []string `json:"buttons"`
	Modifiers []string `json:"modifiers"`
	// Axis is the scaled axis of a scale gesture: index or value.
	Axis string `json:"axis"`
}

func (g gestureRequest) event() (ggchart.Event, error) {
	e := ggchart.Event{Position: ggchart.Pt(g.X, g.Y), Delta: ggchart.Pt(0, g.DeltaY)}
	for _, b := range g.Buttons {
		switch b {
		case "primary":
			e.Buttons |= ggchart.ButtonPrimary
		case "secondary":
			e.Buttons |= ggchart.ButtonSecondary
		case "middle":
			e.Buttons |= ggchart.ButtonMiddle
		default:
			return e, fmt.Errorf("unknown button %q", b)
		}
	}
	for _, name := range g.Modifiers {
		m, err := ggchart.ParseModifier(name)
		if err != nil {
			return e, err
		}
		e.Modifiers |= m
	}
	return e, nil
}

// domainResponse describes the visible window of a pane.
type domainResponse struct {
	Pane      string     `json:"pane"`
	Index     [2]int     `json:"index"`
	Value     [2]float64 `json:"value"`
	AutoValue bool       `json:"auto_value"`
	Follow    bool       `json:"follow"`
}

func (s *server) domainOf(c *ggchart.Composer) domainResponse {
	d := c.Domain()
	ib, vb := d.IndexBound(), d.ValueBound()
	return domainResponse{
		Pane:      c.Name(),
		Index:     [2]int{ib.Min, ib.Max},
		Value:     [2]float64{vb.Min, vb.Max},
		AutoValue: d.Value.IsAuto(),
		Follow:    s.dash.follow.Load(),
	}
}

func (s *server) handleGesture(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, errors.New("too many gestures"))
		return
	}

	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, ok := s.dash.pane(req.Pane)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown pane %q", req.Pane))
		return
	}
	e, err := req.event()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	var gesture func() *ggchart.Pending
	switch req.Kind {
	case "wheel":
		gesture = func() *ggchart.Pending { return c.OnWheel(ctx, e) }
	case "move":
		gesture = func() *ggchart.Pending { return c.OnMouseMove(ctx, e) }
	case "down":
		gesture = func() *ggchart.Pending { return c.OnMouseDown(ctx, e) }
	case "scale":
		axis := ggchart.AxisIndex
		if req.Axis == ggchart.AxisValue.String() {
			axis = ggchart.AxisValue
		}
		gesture = func() *ggchart.Pending { return c.OnScale(ctx, e, axis) }
	case "leave":
		gesture = func() *ggchart.Pending {
			c.OnMouseLeave(ctx, e)
			return nil
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown gesture %q", req.Kind))
		return
	}

	if p := s.dash.track(c, gesture); p != nil {
		if err := p.Wait(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.domainOf(c))
}

func (s *server) handleFollow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.dash.setFollow(req.On)
	if err := waitAll(r.Context(), s.dash.refresh(r.Context(), sourceFeed)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.domainOf(s.dash.panes[0]))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
