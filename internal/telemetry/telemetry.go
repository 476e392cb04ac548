// Package telemetry exports chart activity as Prometheus metrics.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/ggchart"
)

// Metrics holds the chart collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	updates  *prometheus.CounterVec
	frames   *prometheus.CounterVec
	failures *prometheus.CounterVec
	present  *prometheus.HistogramVec
	span     *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ggchart",
			Name:      "domain_updates_total",
			Help:      "Domain updates per chart, by whether a gesture caused them.",
		}, []string{"chart", "origin"}),
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ggchart",
			Name:      "frames_total",
			Help:      "Frames presented per chart.",
		}, []string{"chart", "engine"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ggchart",
			Name:      "present_failures_total",
			Help:      "Frames the presenter failed to deliver.",
		}, []string{"chart", "engine"}),
		present: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ggchart",
			Name:      "present_duration_seconds",
			Help:      "Time spent presenting a frame.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"chart", "engine"}),
		span: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ggchart",
			Name:      "visible_items",
			Help:      "Number of index positions in the visible window.",
		}, []string{"chart"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe counts the domain updates of c. Updates tagged with the chart's
// own name came from a gesture on it; all others are "update".
func (m *Metrics) Observe(c *ggchart.Composer) {
	name := c.Name()
	c.Observe(func(d ggchart.Domain, source string) {
		origin := "update"
		if source != "" && source == name {
			origin = "gesture"
		}
		m.updates.WithLabelValues(name, origin).Inc()
		m.span.WithLabelValues(name).Set(float64(d.IndexBound().Span()))
	})
}

// Presenter wraps next, timing each frame and counting successes and
// failures. A nil next only counts frames.
func (m *Metrics) Presenter(chart string, next ggchart.Presenter) ggchart.Presenter {
	return ggchart.PresenterFunc(func(ctx context.Context, e ggchart.Engine) error {
		start := time.Now()
		var err error
		if next != nil {
			err = next.Present(ctx, e)
		}
		m.present.WithLabelValues(chart, e.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			m.failures.WithLabelValues(chart, e.Name()).Inc()
			return err
		}
		m.frames.WithLabelValues(chart, e.Name()).Inc()
		return nil
	})
}
