// Package pipeline runs the layout → render pipeline behind the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: aggregate glued images into blocks and partition them into
//     pages for the relative page height of the chosen paper and margin
//  2. Render: place the images on each page and write PDF, SVG or JSON
//
// Both stages are cached. Layout results are keyed by the image ratios and
// page-break flags, not by file contents, so re-scanning a page at a
// different resolution with the same aspect reuses the cached layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Paper = "letter"
//	opts.Formats = []string{pipeline.FormatPDF}
//	images, err := pipeline.LoadImages(ctx, paths)
//	result, err := runner.Execute(ctx, images, opts)
//	pdf := result.Artifacts[pipeline.FormatPDF][0]
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliced/pkg/cache"
	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/layout"
	"github.com/matzehuels/sliced/pkg/paper"
	"github.com/matzehuels/sliced/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTitle is the document title and output file stem.
	DefaultTitle = "sheet-music"

	// DefaultMargin is the page margin in millimetres.
	DefaultMargin = render.DefaultMargin
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// It is read from TOML option files and JSON API requests.
type Options struct {
	// Document options
	Title  string  `json:"title,omitempty" toml:"title"`
	Paper  string  `json:"paper,omitempty" toml:"paper"`
	Margin float64 `json:"margin" toml:"margin"`

	// Layout options
	MaxScaling               float64 `json:"max_scaling" toml:"max_scaling"`
	PageLimit                int     `json:"page_limit" toml:"page_limit"`
	OptimizeWorstPage        bool    `json:"optimize_worst_page" toml:"optimize_worst_page"`
	MinimizeHeightDifference bool    `json:"minimize_height_difference" toml:"minimize_height_difference"`

	// Render options
	Padding bool     `json:"padding" toml:"padding"`
	Formats []string `json:"formats,omitempty" toml:"formats"`

	// Runtime options (not serialized)
	Logger  *log.Logger `json:"-" toml:"-"`
	Refresh bool        `json:"-" toml:"-"`
}

// DefaultOptions returns options with every default applied. Decoders start
// from this value so omitted fields keep their defaults.
func DefaultOptions() Options {
	return Options{
		Title:   DefaultTitle,
		Paper:   paper.Default.Name,
		Margin:  DefaultMargin,
		Padding: true,
		Formats: []string{FormatPDF},
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pages is the number of images on each page.
	Pages []int

	// PageHeight is the relative page height used for the layout.
	PageHeight float64

	// Artifacts contains rendered files keyed by format. PDF and JSON
	// produce one file, SVG one file per page.
	Artifacts map[string][][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ImageCount int
	PageCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the page assignment came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupportedFormat,
			"invalid format: %q (must be one of: pdf, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills empty string and slice fields. Numeric and boolean
// fields are left alone because zero is a meaningful value for them.
func (o *Options) SetDefaults() {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Paper == "" {
		o.Paper = paper.Default.Name
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
}

// Validate applies defaults, clamps negative numbers to zero and rejects
// unknown paper sizes, formats and margins that leave no printable area.
func (o *Options) Validate() error {
	o.SetDefaults()
	o.Margin = max(0, o.Margin)
	o.MaxScaling = max(0, o.MaxScaling)
	o.PageLimit = max(0, o.PageLimit)
	o.Paper = strings.ToLower(o.Paper)

	if err := errors.ValidateTitle(o.Title); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := o.PageHeight(); err != nil {
		return err
	}
	return nil
}

// PaperSize resolves the paper name.
func (o *Options) PaperSize() (paper.Size, error) {
	return paper.Lookup(o.Paper)
}

// PageHeight returns the relative page height of the printable area.
func (o *Options) PageHeight() (float64, error) {
	size, err := o.PaperSize()
	if err != nil {
		return 0, err
	}
	return size.RelativeHeight(o.Margin)
}

// LayoutConfig returns the optimizer configuration.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		MaxScaling:               o.MaxScaling,
		PageLimit:                o.PageLimit,
		OptimizeWorstPage:        o.OptimizeWorstPage,
		MinimizeHeightDifference: o.MinimizeHeightDifference,
	}.Clamp()
}

// RenderOptions returns the renderer options. The paper must be valid.
func (o *Options) RenderOptions() []render.Option {
	size, _ := o.PaperSize()
	return []render.Option{
		render.WithPaper(size),
		render.WithMargin(o.Margin),
		render.WithPadding(o.Padding),
		render.WithTitle(o.Title),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(pageHeight float64) cache.LayoutKeyOpts {
	cfg := o.LayoutConfig()
	return cache.LayoutKeyOpts{
		PageHeight:               pageHeight,
		MaxScaling:               cfg.MaxScaling,
		PageLimit:                cfg.PageLimit,
		OptimizeWorstPage:        cfg.OptimizeWorstPage,
		MinimizeHeightDifference: cfg.MinimizeHeightDifference,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Paper:   o.Paper,
		Margin:  o.Margin,
		Padding: o.Padding,
		Title:   o.Title,
	}
}

// String summarizes the layout-relevant options for log output.
func (o Options) String() string {
	return fmt.Sprintf("paper=%s margin=%gmm max_scaling=%g page_limit=%d worst=%t height_diff=%t",
		o.Paper, o.Margin, o.MaxScaling, o.PageLimit, o.OptimizeWorstPage, o.MinimizeHeightDifference)
}
