package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggchart"
)

func newTestServer(t *testing.T, gestures float64) (*server, *httptest.Server) {
	t.Helper()
	ctx := context.Background()
	s, err := newServer(ctx, ggchart.DefaultConfig(), newTestFeed(150), serveOptions{
		width:    160,
		height:   80,
		gestures: gestures,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.close() })

	require.NoError(t, waitAll(ctx, s.dash.refresh(ctx, sourceFeed)))

	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func postGesture(t *testing.T, ts *httptest.Server, body string) (*http.Response, domainResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/gesture", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var d domainResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	}
	return resp, d
}

func TestServeFrames(t *testing.T) {
	_, ts := newTestServer(t, 100)

	resp, err := http.Get(ts.URL + "/frames/assets")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())

	missing, err := http.Get(ts.URL + "/frames/orders")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestServeIndexAndHealth(t *testing.T) {
	_, ts := newTestServer(t, 100)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "EventSource")

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	var health struct {
		OK      bool `json:"ok"`
		Clients int  `json:"clients"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.True(t, health.OK)
	assert.Zero(t, health.Clients)
}

func TestServeDomain(t *testing.T) {
	_, ts := newTestServer(t, 100)

	resp, err := http.Get(ts.URL + "/domain/lines")
	require.NoError(t, err)
	defer resp.Body.Close()

	var d domainResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, "lines", d.Pane)
	assert.Equal(t, [2]int{50, 150}, d.Index)
	assert.True(t, d.AutoValue)
	assert.True(t, d.Follow)
	assert.Less(t, d.Value[0], d.Value[1])
}

func TestServeGesture(t *testing.T) {
	s, ts := newTestServer(t, 100)

	resp, d := postGesture(t, ts, `{"pane":"indicators","kind":"wheel","delta_y":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, [2]int{51, 151}, d.Index)
	assert.False(t, d.Follow)

	// Linked panes follow the wheel.
	c, _ := s.dash.pane("performance")
	assert.Equal(t, ggchart.B(51, 151), c.Domain().IndexBound())

	// Zoom with the configured modifier.
	resp, d = postGesture(t, ts, `{"pane":"assets","kind":"wheel","delta_y":-1,"modifiers":["shift"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, [2]int{52, 150}, d.Index)

	// A drag anchors on the first move and pans on the second.
	postGesture(t, ts, `{"pane":"assets","kind":"move","x":100,"y":40}`)
	_, d = postGesture(t, ts, `{"pane":"assets","kind":"move","x":80,"y":40,"buttons":["primary"]}`)
	assert.Equal(t, [2]int{53, 151}, d.Index)

	// Value scaling stays on the pane.
	postGesture(t, ts, `{"pane":"assets","kind":"scale","axis":"value","x":5,"y":40}`)
	_, d = postGesture(t, ts, `{"pane":"assets","kind":"scale","axis":"value","x":5,"y":30,"buttons":["primary"]}`)
	assert.False(t, d.AutoValue)
	other, _ := s.dash.pane("lines")
	assert.True(t, other.Domain().Value.IsAuto())

	_, d = postGesture(t, ts, `{"pane":"assets","kind":"down","modifiers":["ctrl"]}`)
	assert.True(t, d.AutoValue)

	resp, _ = postGesture(t, ts, `{"pane":"assets","kind":"leave"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeGestureErrors(t *testing.T) {
	_, ts := newTestServer(t, 100)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"pane":`, http.StatusBadRequest},
		{"unknown pane", `{"pane":"orders","kind":"wheel"}`, http.StatusNotFound},
		{"unknown kind", `{"pane":"assets","kind":"pinch"}`, http.StatusBadRequest},
		{"unknown button", `{"pane":"assets","kind":"move","buttons":["fourth"]}`, http.StatusBadRequest},
		{"unknown modifier", `{"pane":"assets","kind":"wheel","modifiers":["hyper"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postGesture(t, ts, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServeGestureRateLimit(t *testing.T) {
	_, ts := newTestServer(t, 1)

	resp, _ := postGesture(t, ts, `{"pane":"assets","kind":"leave"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postGesture(t, ts, `{"pane":"assets","kind":"leave"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestServeHoverKeepsFollowing(t *testing.T) {
	s, ts := newTestServer(t, 100)

	for _, body := range []string{
		`{"pane":"assets","kind":"move","x":100,"y":40,"buttons":[]}`,
		`{"pane":"assets","kind":"move","x":60,"y":20}`,
		`{"pane":"assets","kind":"scale","axis":"value","x":5,"y":40}`,
		`{"pane":"assets","kind":"scale","axis":"value","x":5,"y":30,"buttons":["primary"]}`,
		`{"pane":"assets","kind":"down"}`,
		`{"pane":"assets","kind":"leave"}`,
	} {
		resp, d := postGesture(t, ts, body)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.True(t, d.Follow, body)
		assert.Equal(t, [2]int{50, 150}, d.Index, body)
	}
	assert.True(t, s.dash.follow.Load())

	_, d := postGesture(t, ts, `{"pane":"assets","kind":"move","x":40,"y":20,"buttons":["primary"]}`)
	assert.False(t, d.Follow, "dragging moves the window")
}

func TestServeFollow(t *testing.T) {
	s, ts := newTestServer(t, 100)

	postGesture(t, ts, `{"pane":"assets","kind":"wheel","delta_y":1}`)
	require.False(t, s.dash.follow.Load())

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/follow", strings.NewReader(`{"on":true}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var d domainResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.True(t, d.Follow)
	assert.Equal(t, [2]int{50, 150}, d.Index)
}

func TestServeMetrics(t *testing.T) {
	_, ts := newTestServer(t, 100)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `ggchart_frames_total{chart="assets",engine="raster"}`)
	assert.Contains(t, string(body), `ggchart_domain_updates_total{chart="assets",origin="update"}`)
}

func TestServeEvents(t *testing.T) {
	s, ts := newTestServer(t, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: status\n", line)
	require.Eventually(t, func() bool { return s.hub.clientCount() == 1 }, time.Second, 10*time.Millisecond)

	c, _ := s.dash.pane("indicators")
	require.NoError(t, c.Update(ctx, nil, sourceFeed).Wait(ctx))

	for {
		line, err = r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {\"pane\"") {
			break
		}
	}
	var ev frameEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &ev))
	assert.Equal(t, "indicators", ev.Pane)
	assert.NotZero(t, ev.Frame)
}
