package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/hexgrid/pkg/cache"
	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/observability"
	"github.com/matzehuels/hexgrid/pkg/pipeline"
)

const entitiesBody = `{
  "entities": [
    {"id": "A", "longitude": 0, "latitude": 0, "color": "#ff0000"},
    {"id": "B", "longitude": 10, "latitude": 10},
    {"id": "C", "longitude": 4, "latitude": 6},
    {"id": "D", "longitude": 4, "latitude": 6}
  ],
  "options": {"columns": 3, "rows": 3, "formats": ["svg", "geojson"]}
}`

const geojsonBody = `{
  "geojson": {
    "type": "FeatureCollection",
    "features": [
      {"type": "Feature", "properties": {"name": "west"}, "geometry": {"type": "Point", "coordinates": [0, 0]}},
      {"type": "Feature", "properties": {"name": "east"}, "geometry": {"type": "Point", "coordinates": [10, 5]}}
    ]
  },
  "options": {"formats": ["json"]}
}`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "api:"), logger)
	srv := httptest.NewServer(New(runner, logger, opts).Handler())
	t.Cleanup(func() {
		srv.Close()
		runner.Close()
	})
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/layouts", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t, Options{})

	for _, path := range []string{"/healthz", "/version"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
		if _, err := uuid.Parse(resp.Header.Get(HeaderRequestID)); err != nil {
			t.Errorf("GET %s request id %q is not a UUID", path, resp.Header.Get(HeaderRequestID))
		}
	}
}

func TestClientRequestIDIsKept(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(HeaderRequestID, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got == "not-a-uuid" {
		t.Error("invalid client request id should be replaced")
	}
}

func TestCreateLayout(t *testing.T) {
	srv := newTestServer(t, Options{RequestTimeout: 10 * time.Second})

	resp := post(t, srv, entitiesBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[LayoutResponse](t, resp)

	if body.RequestID != resp.Header.Get(HeaderRequestID) {
		t.Errorf("body request id %q != header %q", body.RequestID, resp.Header.Get(HeaderRequestID))
	}
	want := map[string][2]int{"A": {0, 3}, "B": {3, 0}, "C": {1, 1}, "D": {2, 1}}
	for id, xy := range want {
		c, ok := body.Layout.Lookup(id)
		if !ok || c.X != xy[0] || c.Y != xy[1] {
			t.Errorf("%s at (%d,%d), want %v", id, c.X, c.Y, xy)
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(body.Artifacts["svg"]), "<?xml") {
		t.Errorf("svg artifact = %.40q", body.Artifacts["svg"])
	}
	if !strings.Contains(body.Artifacts["geojson"], "FeatureCollection") {
		t.Error("geojson artifact missing")
	}
	if body.Cached.Layout || body.Cached.Artifacts {
		t.Errorf("first request cached = %+v", body.Cached)
	}

	again := decode[LayoutResponse](t, post(t, srv, entitiesBody))
	if !again.Cached.Layout || !again.Cached.Artifacts {
		t.Errorf("second request cached = %+v", again.Cached)
	}
}

func TestCreateLayoutFromGeoJSON(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, geojsonBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[LayoutResponse](t, resp)
	if len(body.Layout.Cells) != 2 || body.Layout.Columns != 2 {
		t.Errorf("layout = %+v", body.Layout)
	}
	if _, ok := body.Layout.Lookup("west"); !ok {
		t.Error("feature ids should come from the name property")
	}
	if !strings.Contains(body.Artifacts["json"], `"cells"`) {
		t.Error("json artifact should be a layout document")
	}
}

func TestCreateLayoutErrors(t *testing.T) {
	srv := newTestServer(t, Options{MaxBodyBytes: 4096})

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", `{"entities": [`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"entites": []}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"both inputs", `{"entities":[{"id":"a"}],"geojson":{"type":"FeatureCollection","features":[]}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty id", `{"entities":[{"id":"","longitude":1,"latitude":1}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad color", `{"entities":[{"id":"a","color":"#12"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"duplicate id", `{"entities":[{"id":"a","longitude":0,"latitude":0},{"id":"a","longitude":1,"latitude":1}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", `{"entities":[{"id":"a"}],"options":{"formats":["pdf"]}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"columns only", `{"entities":[{"id":"a"}],"options":{"columns":3}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"grid too small", `{"entities":[{"id":"a","longitude":0,"latitude":0},{"id":"b","longitude":1,"latitude":1}],"options":{"columns":1,"rows":2}}`, http.StatusUnprocessableEntity, errors.ErrCodeInsufficientGridSize},
		{"degenerate", `{"entities":[{"id":"a","longitude":3,"latitude":0},{"id":"b","longitude":3,"latitude":1}]}`, http.StatusUnprocessableEntity, errors.ErrCodeDegenerateExtent},
		{"too large", `{"entities":[` + strings.Repeat(`{"id":"x","longitude":0,"latitude":0},`, 200) + `]}`, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[ErrorResponse](t, resp)
			if body.Code != string(tt.code) {
				t.Errorf("code = %s, want %s (%s)", body.Code, tt.code, body.Message)
			}
			if body.RequestID == "" {
				t.Error("error response should carry the request id")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotConverged, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeInvariantViolation, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHTTP struct {
	mu       sync.Mutex
	requests int
	statuses []int
}

func (h *recordingHTTP) OnRequest(context.Context, string, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTP) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTP{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	post(t, srv, `{"entities": [`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 2 || len(hooks.statuses) != 2 {
		t.Fatalf("hooks = %+v", hooks)
	}
	if hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
