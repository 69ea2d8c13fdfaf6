package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/sliced/pkg/paper"
	"github.com/matzehuels/sliced/pkg/pipeline"
)

// optionFlags binds the layout and render flags shared by several commands.
// Flags override the options file, which overrides the defaults.
type optionFlags struct {
	opts      pipeline.Options
	config    string
	noPadding bool
	noCache   bool
}

func newOptionFlags() *optionFlags {
	return &optionFlags{opts: pipeline.DefaultOptions()}
}

// register adds the flags to cmd. withFormats also adds --format.
func (f *optionFlags) register(cmd *cobra.Command, withFormats bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "TOML options file")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")

	fs.StringVar(&f.opts.Paper, "paper", f.opts.Paper, "paper size: "+strings.Join(paper.Names(), ", "))
	fs.Float64Var(&f.opts.Margin, "margin", f.opts.Margin, "page margin in millimetres")
	fs.Float64Var(&f.opts.MaxScaling, "max-scaling", 0, "scaling penalty threshold (0 disables)")
	fs.IntVar(&f.opts.PageLimit, "page-limit", 0, "maximum number of pages (0 for no limit)")
	fs.BoolVar(&f.opts.OptimizeWorstPage, "optimize-worst", false, "minimize the worst page instead of the total")
	fs.BoolVar(&f.opts.MinimizeHeightDifference, "height-diff", false, "penalize pages shorter than the page height too")
	fs.BoolVar(&f.noPadding, "no-padding", false, "do not spread blank space between snippets")
	fs.StringVar(&f.opts.Title, "title", f.opts.Title, "document title")
	if withFormats {
		fs.StringSliceVarP(&f.opts.Formats, "format", "f", f.opts.Formats, "output formats: pdf, svg, json")
	}
}

// resolve returns the effective options: defaults, then the --config file
// (or base when given), then every flag set explicitly on the command line.
func (f *optionFlags) resolve(cmd *cobra.Command, base *pipeline.Options) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if base != nil {
		opts = *base
	}
	if f.config != "" {
		loaded, err := pipeline.LoadOptionsFile(f.config, opts)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	cmd.Flags().Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "paper":
			opts.Paper = f.opts.Paper
		case "margin":
			opts.Margin = f.opts.Margin
		case "max-scaling":
			opts.MaxScaling = f.opts.MaxScaling
		case "page-limit":
			opts.PageLimit = f.opts.PageLimit
		case "optimize-worst":
			opts.OptimizeWorstPage = f.opts.OptimizeWorstPage
		case "height-diff":
			opts.MinimizeHeightDifference = f.opts.MinimizeHeightDifference
		case "no-padding":
			opts.Padding = !f.noPadding
		case "title":
			opts.Title = f.opts.Title
		case "format":
			opts.Formats = f.opts.Formats
		}
	})

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
