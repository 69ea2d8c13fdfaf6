package pipeline

import (
	"github.com/matzehuels/sliced/pkg/layout"
	"github.com/matzehuels/sliced/pkg/render"
)

// ComputeLayout partitions images into pages without caching.
// opts must be validated.
func ComputeLayout(images []render.Image, opts Options) ([]int, float64, error) {
	pageHeight, err := opts.PageHeight()
	if err != nil {
		return nil, 0, err
	}
	return layout.Layout(images, pageHeight, opts.LayoutConfig()), pageHeight, nil
}

// layoutInput is the part of an image the optimizer sees. It is hashed for
// the layout cache key.
type layoutInput struct {
	Ratio float64 `json:"r"`
	Wrap  bool    `json:"w"`
}

func layoutInputs(images []render.Image) []layoutInput {
	out := make([]layoutInput, len(images))
	for i, img := range images {
		out[i] = layoutInput{Ratio: img.HeightToWidthRatio(), Wrap: img.AllowWrap}
	}
	return out
}
