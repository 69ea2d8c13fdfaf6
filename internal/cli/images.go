package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/project"
	"github.com/matzehuels/sliced/pkg/render"
)

// loadImages reads the image files given on the command line and disables
// the page break after each 1-based position in glue.
func (c *CLI) loadImages(ctx context.Context, paths []string, glue []int) ([]render.Image, error) {
	prog := newProgress(c.Logger, "loaded images")
	images, err := pipeline.LoadImages(ctx, paths)
	if err != nil {
		return nil, err
	}
	if err := pipeline.Glue(images, glue); err != nil {
		return nil, err
	}
	prog.done("count", len(images))
	return images, nil
}

// projectImages reads the files referenced by a project state, keeping the
// state's ids and break flags.
func (c *CLI) projectImages(ctx context.Context, st project.State) ([]render.Image, error) {
	paths := make([]string, len(st.Images))
	for i, img := range st.Images {
		paths[i] = img.Path
	}
	images, err := c.loadImages(ctx, paths, nil)
	if err != nil {
		return nil, err
	}
	for i, img := range st.Images {
		images[i].ID = img.ID
		images[i].AllowWrap = img.AllowWrap
	}
	return images, nil
}

func imageNames(images []render.Image) []string {
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = img.Name
	}
	return names
}

// =============================================================================
// Artifact Output
// =============================================================================

// writeArtifacts writes rendered files next to output and returns their
// paths. PDF and JSON produce <base>.<format>; SVG produces one
// <base>-NNN.svg per page. A single-file format written to an output with
// that extension uses output as is.
func writeArtifacts(output string, artifacts map[string][][]byte) ([]string, error) {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
		}
	}

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	var written []string
	for _, format := range formats {
		files := artifacts[format]
		for i, data := range files {
			path := base + "." + format
			switch {
			case len(files) > 1:
				path = fmt.Sprintf("%s-%03d.%s", base, i+1, format)
			case filepath.Ext(output) == "."+format:
				path = output
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}
