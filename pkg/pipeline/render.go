package pipeline

import (
	"context"

	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/layout"
	"github.com/matzehuels/sliced/pkg/render"
)

// =============================================================================
// Rendering
// =============================================================================

// RenderFromLayout renders images grouped by pages into every requested
// format. opts must be validated.
func RenderFromLayout(ctx context.Context, images []render.Image, pages []int, pageHeight float64, opts Options) (map[string][][]byte, error) {
	if sum(pages) != len(images) {
		return nil, errors.New(errors.ErrCodeInternal,
			"page assignment covers %d images, have %d", sum(pages), len(images))
	}
	grouped := layout.GroupByPage(images, pages)
	renderOpts := opts.RenderOptions()

	artifacts := make(map[string][][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		files, err := renderFormat(ctx, format, grouped, pageHeight, renderOpts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = files
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, pages [][]render.Image, pageHeight float64, opts []render.Option) ([][]byte, error) {
	switch format {
	case FormatPDF:
		pdf, err := render.RenderPDF(ctx, pages, opts...)
		if err != nil {
			return nil, err
		}
		return [][]byte{pdf}, nil
	case FormatSVG:
		return render.RenderSVG(pages, opts...), nil
	case FormatJSON:
		data, err := render.RenderJSON(render.NewDocument(pages, pageHeight, opts...))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
		}
		return [][]byte{data}, nil
	default:
		return nil, ValidateFormat(format)
	}
}

func sum(pages []int) int {
	n := 0
	for _, p := range pages {
		n += p
	}
	return n
}
