package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/render"
)

// renderCommand creates the render command, which lays out images and
// writes the document.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		glue   []int
	)
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "render <image>...",
		Short: "Lay out images and write PDF, SVG or JSON",
		Long: `Lay out images and write the resulting document.

PDF output requires rsvg-convert (librsvg) on PATH. SVG output writes one
file per page; JSON describes the placement of every image.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, nil)
			if err != nil {
				return err
			}
			images, err := c.loadImages(cmd.Context(), args, glue)
			if err != nil {
				return err
			}
			if output == "" {
				output = opts.Title
			}
			_, err = c.runRender(cmd.Context(), images, opts, output, flags.noCache)
			return err
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or base path (default: <title>)")
	cmd.Flags().IntSliceVar(&glue, "glue", nil, "1-based positions of images that must not end a page")

	return cmd
}

// runRender executes the pipeline and writes its artifacts.
func (c *CLI) runRender(ctx context.Context, images []render.Image, opts pipeline.Options, output string, noCache bool) (*pipeline.Result, error) {
	if slices.Contains(opts.Formats, pipeline.FormatPDF) && !render.Available() {
		printWarning("rsvg-convert not found; PDF output will fail")
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, images, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	paths, err := writeArtifacts(output, result.Artifacts)
	if err != nil {
		return nil, err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printLayoutStats(result.Stats.ImageCount, result.Stats.PageCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return result, nil
}
