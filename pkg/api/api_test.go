package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/sliced/pkg/cache"
	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/observability"
	"github.com/matzehuels/sliced/pkg/observability/prom"
	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/render"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), logger)
	srv := httptest.NewServer(New(runner, logger, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"images": [
			{"ratio": 0.7, "allow_wrap": true},
			{"ratio": 0.7, "allow_wrap": true},
			{"ratio": 0.7, "allow_wrap": true},
			{"ratio": 0.7, "allow_wrap": true}
		],
		"options": {"paper": "a4", "margin": 10}
	}`
	resp := post(t, srv.URL+"/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Pages, []int{2, 2}) {
		t.Errorf("pages = %v, want [2 2]", got.Pages)
	}
	if got.PageCount != 2 || got.ImageCount != 4 {
		t.Errorf("counts = %d pages, %d images", got.PageCount, got.ImageCount)
	}
}

func TestLayoutExplicitPageHeight(t *testing.T) {
	srv := newTestServer(t)

	// Only the last image may wrap, so everything lands on one page.
	body := `{
		"images": [
			{"ratio": 0.5, "allow_wrap": false},
			{"ratio": 0.5, "allow_wrap": false},
			{"ratio": 0.5}
		],
		"page_height": 1.0
	}`
	resp := post(t, srv.URL+"/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Pages, []int{3}) {
		t.Errorf("pages = %v, want [3]", got.Pages)
	}
	if got.PageHeight != 1.0 {
		t.Errorf("page_height = %v, want 1", got.PageHeight)
	}
}

func TestRenderJSON(t *testing.T) {
	srv := newTestServer(t)

	req := RenderRequest{
		Format: pipeline.FormatJSON,
		Images: []RenderImage{
			{Name: "a", Data: pngBase64(t, 100, 70)},
			{Name: "b", Data: pngBase64(t, 100, 70)},
		},
	}
	data, _ := json.Marshal(req)
	resp := post(t, srv.URL+"/v1/render", string(data))
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, b)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var doc render.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.ImageCount != 2 {
		t.Errorf("image_count = %d, want 2", doc.ImageCount)
	}
	if doc.PageCount != len(doc.Pages) || doc.PageCount == 0 {
		t.Errorf("page_count = %d, pages = %d", doc.PageCount, len(doc.Pages))
	}
	if resp.Header.Get("X-Page-Count") == "" {
		t.Error("missing X-Page-Count header")
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", "/v1/layout", `{`, 400, errors.ErrCodeInvalidInput},
		{"unknown field", "/v1/layout", `{"imgs": []}`, 400, errors.ErrCodeInvalidInput},
		{"no images", "/v1/layout", `{"images": []}`, 400, errors.ErrCodeInvalidInput},
		{"bad ratio", "/v1/layout", `{"images": [{"ratio": -1}]}`, 400, errors.ErrCodeInvalidImage},
		{"bad paper", "/v1/layout", `{"images": [{"ratio": 1}], "options": {"paper": "b7"}}`, 400, errors.ErrCodeInvalidConfig},
		{"bad format", "/v1/render", `{"images": [], "format": "png"}`, 400, errors.ErrCodeUnsupportedFormat},
		{"bad base64", "/v1/render", `{"images": [{"data": "%%%"}], "format": "json"}`, 400, errors.ErrCodeInvalidImage},
		{"not an image", "/v1/render", `{"images": [{"data": "aGVsbG8="}], "format": "json"}`, 400, errors.ErrCodeUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var got errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", got.Code, tt.code, got.Message)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidConfig, "x"), 400},
		{errors.New(errors.ErrCodeNotFound, "x"), 404},
		{errors.New(errors.ErrCodeRenderFailed, "x"), 500},
		{io.EOF, 500},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	t.Cleanup(observability.Reset)

	m := prom.New(prometheus.NewRegistry())
	m.Register()
	srv := newTestServer(t, WithMetrics(m.Handler()))

	post(t, srv.URL+"/v1/layout", `{"images": [{"ratio": 0.5}]}`)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`sliced_http_requests_total{method="POST",route="/v1/layout",status="200"} 1`,
		`sliced_layouts_total{result="ok"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
