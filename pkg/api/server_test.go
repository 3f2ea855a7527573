package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flamekit/pkg/cache"
	"github.com/matzehuels/flamekit/pkg/errors"
	"github.com/matzehuels/flamekit/pkg/pipeline"
)

const tinyFlame = `
width  = 16
height = 12

[camera]
pixels_per_unit = 6

[sampling]
density = 4

[[xform]]
coefs = [0.5, 0, 0, 0.5, -0.5, 0]
  [[xform.variation]]
  name   = "pie"
  amount = 1
  params = { num = 4 }

[[xform]]
color = 1
coefs = [0.5, 0, 0, 0.5, 0.5, 0]
  [[xform.variation]]
  name   = "linear"
  amount = 1
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	srv := httptest.NewServer(NewServer(pipeline.NewRunner(c, nil, logger), nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q, want 200 ok", resp.StatusCode, body)
	}
}

func TestVariations(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/variations")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []VariationInfo
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var pie *VariationInfo
	for i := range got {
		if got[i].Name == "pie" {
			pie = &got[i]
		}
	}
	if pie == nil {
		t.Fatalf("pie missing from %+v", got)
	}
	want := []ParamInfo{{"a", 0.2}, {"num", 1}}
	if len(pie.Params) != len(want) {
		t.Fatalf("pie params = %+v, want %+v", pie.Params, want)
	}
	for i := range want {
		if pie.Params[i] != want[i] {
			t.Errorf("pie param %d = %+v, want %+v", i, pie.Params[i], want[i])
		}
	}
}

func postRender(t *testing.T, url, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/render"+query, "application/toml", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRender(t *testing.T) {
	srv := newTestServer(t)

	resp := postRender(t, srv.URL, "?width=32&seed=3", tinyFlame)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST /render = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", resp.Header.Get("X-Cache"))
	}
	if resp.Header.Get("X-Run-ID") == "" {
		t.Error("X-Run-ID missing")
	}

	data, _ := io.ReadAll(resp.Body)
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("image size = %dx%d, want 32x24", b.Dx(), b.Dy())
	}

	again := postRender(t, srv.URL, "?width=32&seed=3", tinyFlame)
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("second X-Cache = %q, want hit", again.Header.Get("X-Cache"))
	}
}

func TestRenderJPEG(t *testing.T) {
	srv := newTestServer(t)

	resp := postRender(t, srv.URL, "?format=jpg&quality=70", tinyFlame)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /render = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
}

func TestRenderErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad width", "?width=abc", tinyFlame, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad seed", "?seed=-1", tinyFlame, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", "?format=gif", tinyFlame, http.StatusBadRequest, "INVALID_FORMAT"},
		{"malformed toml", "", "width = ", http.StatusBadRequest, "INVALID_FLAME"},
		{"unknown variation", "", "[[xform]]\n[[xform.variation]]\nname = \"swirl\"\namount = 1", http.StatusBadRequest, "UNKNOWN_VARIATION"},
		{"no xforms", "", "width = 10", http.StatusBadRequest, "INVALID_FLAME"},
		{"diverged", "", "width = 4\nheight = 4\n[[xform]]\n[[xform.variation]]\nname = \"pie\"\namount = 1\nparams = { num = 0 }", http.StatusBadRequest, "DIVERGED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postRender(t, srv.URL, tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func TestRenderBodyTooLarge(t *testing.T) {
	c := cache.NewNullCache()
	s := NewServer(pipeline.NewRunner(c, nil, log.New(io.Discard)), nil)
	s.MaxBodyBytes = 16

	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(tinyFlame))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge && rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 413 or 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/render")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /render = %d, want 405", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/flames")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /flames = %d, want 404", resp.StatusCode)
	}
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != string(errors.ErrCodeNotFound) {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeNotFound)
	}
}

func TestListenAndServeShutsDown(t *testing.T) {
	s := NewServer(pipeline.NewRunner(nil, nil, log.New(io.Discard)), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("ListenAndServe() error = %v, want nil after cancel", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_FLAME", http.StatusBadRequest},
		{"UNKNOWN_VARIATION", http.StatusBadRequest},
		{"FILE_NOT_FOUND", http.StatusNotFound},
		{"TIMEOUT", http.StatusGatewayTimeout},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(errors.Code(tt.code)); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
