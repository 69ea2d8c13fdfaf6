package render

import "github.com/matzehuels/sliced/pkg/paper"

// DefaultMargin is the page margin in millimetres used when none is set.
const DefaultMargin = 20

// Options controls page geometry and document metadata.
type Options struct {
	Paper   paper.Size
	Margin  float64
	Padding bool
	Title   string
}

// Option configures rendering.
type Option func(*Options)

// WithPaper sets the paper size (default A4).
func WithPaper(s paper.Size) Option { return func(o *Options) { o.Paper = s } }

// WithMargin sets the margin on every side in millimetres.
func WithMargin(mm float64) Option { return func(o *Options) { o.Margin = mm } }

// WithPadding enables or disables spreading blank space between systems
// (default enabled).
func WithPadding(on bool) Option { return func(o *Options) { o.Padding = on } }

// WithTitle sets the document title.
func WithTitle(title string) Option { return func(o *Options) { o.Title = title } }

func newOptions(opts ...Option) Options {
	o := Options{Paper: paper.Default, Margin: DefaultMargin, Padding: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
