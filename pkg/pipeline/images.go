package pipeline

import (
	"context"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/imagefile"
	"github.com/matzehuels/sliced/pkg/render"
)

// LoadImage reads and probes one image file.
func LoadImage(path string, id int, allowWrap bool) (render.Image, error) {
	info, data, err := imagefile.Read(path)
	if err != nil {
		return render.Image{}, err
	}
	return render.Image{
		ID:        id,
		Name:      filepath.Base(path),
		Data:      data,
		MIME:      info.MIME,
		Width:     info.Width,
		Height:    info.Height,
		AllowWrap: allowWrap,
	}, nil
}

// LoadImages reads paths concurrently and returns the images in argument
// order with ids 0..n-1. Every image allows a page break.
func LoadImages(ctx context.Context, paths []string) ([]render.Image, error) {
	images := make([]render.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := LoadImage(path, i, true)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// Glue disables the page break after the images at the given 1-based
// positions, so each is kept on the same page as the image that follows.
// The last image always keeps its break.
func Glue(images []render.Image, positions []int) error {
	for _, p := range positions {
		if p < 1 || p > len(images) {
			return errors.New(errors.ErrCodeInvalidInput,
				"glue position %d out of range (1-%d)", p, len(images))
		}
		images[p-1].AllowWrap = false
	}
	if n := len(images); n > 0 {
		images[n-1].AllowWrap = true
	}
	return nil
}
