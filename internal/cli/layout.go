package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/render"
)

// layoutResult is the --json output of the layout command.
type layoutResult struct {
	Pages      []int    `json:"pages"`
	PageCount  int      `json:"page_count"`
	ImageCount int      `json:"image_count"`
	PageHeight float64  `json:"page_height"`
	Files      []string `json:"files"`
	Cached     bool     `json:"cached"`
}

// layoutCommand creates the layout command, which prints the page assignment
// without rendering.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		glue   []int
		asJSON bool
	)
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "layout <image>...",
		Short: "Compute how images are distributed over pages",
		Long: `Compute how images are distributed over pages.

Images are laid out in argument order. A page break may follow any image
unless its 1-based position is passed to --glue, in which case it stays on
the same page as the next image.

Layouts are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, nil)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args, glue, opts, flags.noCache, asJSON)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().IntSliceVar(&glue, "glue", nil, "1-based positions of images that must not end a page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, out io.Writer, paths []string, glue []int, opts pipeline.Options, noCache, asJSON bool) error {
	images, err := c.loadImages(ctx, paths, glue)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	pages, pageHeight, cached, err := runner.LayoutWithCacheInfo(ctx, images, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(layoutResult{
			Pages:      pages,
			PageCount:  len(pages),
			ImageCount: len(images),
			PageHeight: pageHeight,
			Files:      paths,
			Cached:     cached,
		})
	}

	printLayout(images, pages, cached)
	return nil
}

func printLayout(images []render.Image, pages []int, cached bool) {
	fmt.Println(pageTable(imageNames(images), pages))
	printLayoutStats(len(images), len(pages), cached)
}
