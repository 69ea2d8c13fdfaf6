package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliced/pkg/cache"
	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/render"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"pdf", false},
		{"svg", false},
		{"json", false},
		{"png", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr errors.Code
		check   func(*testing.T, Options)
	}{
		{
			name:   "defaults",
			mutate: func(o *Options) {},
			check: func(t *testing.T, o Options) {
				if o.Paper != "a4" || o.Margin != 20 || !o.Padding || !slices.Equal(o.Formats, []string{"pdf"}) {
					t.Errorf("defaults = %+v", o)
				}
			},
		},
		{
			name: "negatives clamp to zero",
			mutate: func(o *Options) {
				o.Margin, o.MaxScaling, o.PageLimit = -5, -1.5, -3
			},
			check: func(t *testing.T, o Options) {
				if o.Margin != 0 || o.MaxScaling != 0 || o.PageLimit != 0 {
					t.Errorf("not clamped: %+v", o)
				}
			},
		},
		{
			name:   "paper is case-insensitive",
			mutate: func(o *Options) { o.Paper = "Letter" },
			check: func(t *testing.T, o Options) {
				if o.Paper != "letter" {
					t.Errorf("Paper = %q", o.Paper)
				}
			},
		},
		{"unknown paper", func(o *Options) { o.Paper = "b5" }, errors.ErrCodeInvalidConfig, nil},
		{"margin too large", func(o *Options) { o.Margin = 200 }, errors.ErrCodeInvalidConfig, nil},
		{"bad format", func(o *Options) { o.Formats = []string{"png"} }, errors.ErrCodeUnsupportedFormat, nil},
		{"bad title", func(o *Options) { o.Title = "a/b" }, errors.ErrCodeInvalidInput, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if tt.check != nil {
				tt.check(t, o)
			}
		})
	}
}

func TestPageHeight(t *testing.T) {
	o := DefaultOptions()
	o.Margin = 10
	h, err := o.PageHeight()
	if err != nil {
		t.Fatal(err)
	}
	if want := 277.0 / 190.0; math.Abs(h-want) > 1e-12 {
		t.Errorf("PageHeight = %v, want %v", h, want)
	}
}

func TestParseOptions(t *testing.T) {
	data := []byte(`
title = "Nocturne"
paper = "a5"
page_limit = 4
optimize_worst_page = true
formats = ["pdf", "json"]
`)
	opts, err := ParseOptions(data, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if opts.Title != "Nocturne" || opts.Paper != "a5" || opts.PageLimit != 4 || !opts.OptimizeWorstPage {
		t.Errorf("decoded = %+v", opts)
	}
	if opts.Margin != DefaultMargin || !opts.Padding {
		t.Errorf("missing keys should keep defaults: %+v", opts)
	}

	if _, err := ParseOptions([]byte(`colour = "red"`), DefaultOptions()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key error = %v", err)
	}
	if _, err := ParseOptions([]byte(`margin = `), DefaultOptions()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("syntax error = %v", err)
	}
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sliced.toml")
	if err := os.WriteFile(path, []byte("margin = 12.5\npadding = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptionsFile(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if opts.Margin != 12.5 || opts.Padding {
		t.Errorf("decoded = %+v", opts)
	}
	if _, err := LoadOptionsFile(path+".missing", DefaultOptions()); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func ratioImage(id int, ratio float64, wrap bool) render.Image {
	return render.Image{
		ID: id, Data: []byte{byte(id)}, MIME: "image/png",
		Width: 1000, Height: int(math.Round(ratio * 1000)), AllowWrap: wrap,
	}
}

func TestGlue(t *testing.T) {
	images := []render.Image{ratioImage(0, .3, true), ratioImage(1, .3, true), ratioImage(2, .3, true)}
	if err := Glue(images, []int{1, 3}); err != nil {
		t.Fatal(err)
	}
	got := []bool{images[0].AllowWrap, images[1].AllowWrap, images[2].AllowWrap}
	if !slices.Equal(got, []bool{false, true, true}) {
		t.Errorf("wraps = %v, want [false true true]", got)
	}
	if err := Glue(images, []int{4}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("out of range error = %v", err)
	}
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "a.png", 100, 30),
		writePNG(t, dir, "b.png", 100, 50),
		writePNG(t, dir, "c.png", 100, 70),
	}
	images, err := LoadImages(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	for i, img := range images {
		if img.ID != i || !img.AllowWrap || img.MIME != "image/png" {
			t.Errorf("image %d = %+v", i, img)
		}
	}
	if images[1].Name != "b.png" || images[1].Height != 50 {
		t.Errorf("order not preserved: %+v", images[1])
	}

	_, err = LoadImages(context.Background(), append(paths, filepath.Join(dir, "nope.png")))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestRunnerLayoutCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())

	// A4 with 10mm margin: relative height 277/190 ≈ 1.458
	opts := DefaultOptions()
	opts.Margin = 10
	images := []render.Image{
		ratioImage(0, .7, true), ratioImage(1, .7, true),
		ratioImage(2, .7, true), ratioImage(3, .7, true),
	}

	pages, _, hit, err := r.LayoutWithCacheInfo(ctx, images, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first layout should miss the cache")
	}
	if !slices.Equal(pages, []int{2, 2}) {
		t.Errorf("pages = %v, want [2 2]", pages)
	}

	// same ratios, different pixels: still a hit
	rescaled := slices.Clone(images)
	rescaled[0].Width, rescaled[0].Height = 2000, 1400
	again, _, hit, err := r.LayoutWithCacheInfo(ctx, rescaled, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit || !slices.Equal(again, pages) {
		t.Errorf("second layout hit = %v pages = %v", hit, again)
	}

	opts.PageLimit = 1
	limited, _, hit, _ := r.LayoutWithCacheInfo(ctx, images, opts)
	if hit {
		t.Error("changed options must not hit the cache")
	}
	if !slices.Equal(limited, []int{4}) {
		t.Errorf("limited pages = %v, want [4]", limited)
	}
}

func TestRenderFromLayoutMismatch(t *testing.T) {
	opts := DefaultOptions()
	_ = opts.Validate()
	images := []render.Image{ratioImage(0, .5, true)}
	if _, err := RenderFromLayout(context.Background(), images, []int{2}, 1.4, opts); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("mismatch error = %v", err)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, quietLogger())

	opts := DefaultOptions()
	opts.Margin = 0
	opts.Formats = []string{FormatSVG, FormatJSON}
	images := []render.Image{
		ratioImage(0, .5, false), ratioImage(1, .5, true),
		ratioImage(2, .5, true), ratioImage(3, .5, true),
	}

	res, err := r.Execute(ctx, images, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.ImageCount != 4 || res.Stats.PageCount != len(res.Pages) {
		t.Errorf("stats = %+v", res.Stats)
	}
	if got := len(res.Artifacts[FormatSVG]); got != len(res.Pages) {
		t.Errorf("svg files = %d, want one per page (%d)", got, len(res.Pages))
	}
	var doc render.Document
	if err := json.Unmarshal(res.Artifacts[FormatJSON][0], &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ImageCount != 4 || doc.PageCount != len(res.Pages) {
		t.Errorf("json document = %+v", doc)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG][0]), `id="img-0"`) {
		t.Error("first page should contain the first image")
	}

	again, err := r.Execute(ctx, images, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts[FormatJSON][0], res.Artifacts[FormatJSON][0]) {
		t.Error("cached artifact differs from rendered one")
	}

	opts.Refresh = true
	fresh, _ := r.Execute(ctx, images, opts)
	if fresh.CacheInfo.LayoutHit || fresh.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass cache: %+v", fresh.CacheInfo)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	opts := DefaultOptions()
	opts.Paper = "tabloid"
	if _, err := r.Execute(context.Background(), nil, opts); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute error = %v", err)
	}
}
