package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sliced/pkg/errors"
	"github.com/matzehuels/sliced/pkg/imagefile"
	"github.com/matzehuels/sliced/pkg/layout"
	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/project"
)

// projectCommand creates the project command group. Every subcommand that
// changes a project goes through a state action and saves the result.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage saved projects",
		Long: `Manage saved projects.

A project is an ordered list of image files with a page break flag per image
and the options it was last rendered with. Projects are referenced by name,
id, or an id prefix of at least four characters.

Projects are stored in the user config directory, or in Redis when
` + envRedisURL + ` is set.`,
	}

	cmd.AddCommand(c.projectNewCommand())
	cmd.AddCommand(c.projectListCommand())
	cmd.AddCommand(c.projectShowCommand())
	cmd.AddCommand(c.projectAddCommand())
	cmd.AddCommand(c.projectRemoveCommand())
	cmd.AddCommand(c.projectMoveCommand())
	cmd.AddCommand(c.projectWrapCommand())
	cmd.AddCommand(c.projectClearCommand())
	cmd.AddCommand(c.projectRenderCommand())
	cmd.AddCommand(c.projectDeleteCommand())

	return cmd
}

// =============================================================================
// Store Helpers
// =============================================================================

// withProject resolves ref, calls fn and saves the project if fn returns
// save=true.
func (c *CLI) withProject(ctx context.Context, ref string, fn func(store project.Store, p *project.Project) (save bool, err error)) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}
	defer store.Close()

	p, err := project.Resolve(ctx, store, ref)
	if err != nil {
		return err
	}
	save, err := fn(store, p)
	if err != nil || !save {
		return err
	}
	return store.Put(ctx, p)
}

// applyAction is the common body of the editing subcommands.
func (c *CLI) applyAction(ctx context.Context, ref string, action project.Action) (*project.Project, error) {
	var result *project.Project
	err := c.withProject(ctx, ref, func(_ project.Store, p *project.Project) (bool, error) {
		p.Apply(action)
		result = p
		return true, nil
	})
	return result, err
}

// projectOptions decodes the options saved with p, falling back to the
// defaults.
func projectOptions(p *project.Project) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if len(p.Options) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(p.Options, &opts); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode options of project %s", p.Name)
	}
	return opts, nil
}

func setProjectOptions(p *project.Project, opts pipeline.Options) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode options")
	}
	p.Options = data
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid image id %q", s)
	}
	return id, nil
}

// =============================================================================
// Subcommands
// =============================================================================

func (c *CLI) projectNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return fmt.Errorf("open project store: %w", err)
			}
			defer store.Close()

			if _, err := project.Resolve(ctx, store, args[0]); err == nil {
				return errors.New(errors.ErrCodeInvalidInput, "project %q already exists", args[0])
			}
			p, err := project.New(args[0])
			if err != nil {
				return err
			}
			if err := store.Put(ctx, p); err != nil {
				return err
			}

			printSuccess("Created project %s", StyleValue.Render(p.Name))
			printDetail("id %s", p.ID)
			printNewline()
			printNextStep("Add images", fmt.Sprintf("%s project add %q <image>...", appName, p.Name))
			return nil
		},
	}
}

func (c *CLI) projectListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, most recently changed first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return fmt.Errorf("open project store: %w", err)
			}
			defer store.Close()

			projects, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				printInfo("No projects")
				return nil
			}
			for _, p := range projects {
				fmt.Printf("%s  %s  %s\n",
					StyleDim.Render(p.ID[:8]),
					StyleValue.Render(p.Name),
					StyleDim.Render(fmt.Sprintf("%s · %s", plural(p.State.Len(), "image"), relativeTime(p.UpdatedAt))))
			}
			return nil
		},
	}
}

func (c *CLI) projectShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project>",
		Short: "Show the images of a project and their page layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), args[0], func(_ project.Store, p *project.Project) (bool, error) {
				opts, err := projectOptions(p)
				if err != nil {
					return false, err
				}
				printKeyValue("Project", p.Name)
				printKeyValue("ID", p.ID)
				printKeyValue("Updated", relativeTime(p.UpdatedAt))
				printKeyValue("Options", opts.String())
				printNewline()

				if p.State.Len() == 0 {
					printInfo("No images")
					return false, nil
				}
				for _, img := range p.State.Images {
					brk := StyleDim.Render("glued")
					if img.AllowWrap {
						brk = StyleNumber.Render("break")
					}
					fmt.Printf("  %s  %s  %s\n", StyleNumber.Render(fmt.Sprintf("%3d", img.ID)), brk, img.Path)
				}
				printNewline()

				pageHeight, err := opts.PageHeight()
				if err != nil {
					return false, err
				}
				pages := layout.Layout(p.State.Images, pageHeight, opts.LayoutConfig())
				names := make([]string, p.State.Len())
				for i, img := range p.State.Images {
					names[i] = strconv.Itoa(img.ID)
				}
				fmt.Println(pageTable(names, pages))
				printLayoutStats(p.State.Len(), len(pages), false)
				return false, nil
			})
		},
	}
}

func (c *CLI) projectAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <project> <image>...",
		Short: "Append images to a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			images := make([]project.Image, 0, len(args)-1)
			for _, path := range args[1:] {
				abs, err := filepath.Abs(path)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
				}
				info, err := imagefile.Probe(abs)
				if err != nil {
					return err
				}
				images = append(images, project.Image{
					Path:   abs,
					Width:  info.Width,
					Height: info.Height,
					MIME:   info.MIME,
				})
			}

			p, err := c.applyAction(cmd.Context(), args[0], func(s project.State) project.State {
				for _, img := range images {
					s = project.AddImage(img)(s)
				}
				return s
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s to %s", plural(len(images), "image"), p.Name)
			return nil
		},
	}
}

func (c *CLI) projectRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project> <id>",
		Short: "Remove an image from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			p, err := c.applyAction(cmd.Context(), args[0], project.RemoveImage(id))
			if err != nil {
				return err
			}
			printSuccess("Removed image %d (%s left)", id, plural(p.State.Len(), "image"))
			return nil
		},
	}
}

func (c *CLI) projectMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <project> <id> <by>",
		Short: "Move an image by a number of positions (negative moves up)",
		Example: `  sliced project mv etudes 3 2
  sliced project mv etudes -- 3 -1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			by, err := strconv.Atoi(args[2])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid offset %q", args[2])
			}
			p, err := c.applyAction(cmd.Context(), args[0], project.MoveImage(id, by))
			if err != nil {
				return err
			}
			printSuccess("Image %d is now at position %d", id, p.State.Index(id)+1)
			return nil
		},
	}
}

func (c *CLI) projectWrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wrap <project> <id> <true|false>",
		Short: "Allow or forbid a page break after an image",
		Long: `Allow or forbid a page break after an image.

The last image of a project always allows a break.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			allow, err := strconv.ParseBool(args[2])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid wrap value %q", args[2])
			}
			if _, err := c.applyAction(cmd.Context(), args[0], project.SetAllowWrap(id, allow)); err != nil {
				return err
			}
			printSuccess("Page break after image %d: %v", id, allow)
			return nil
		},
	}
}

func (c *CLI) projectClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <project>",
		Short: "Remove all images from a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.applyAction(cmd.Context(), args[0], project.ClearImages())
			if err != nil {
				return err
			}
			printSuccess("Cleared %s", p.Name)
			return nil
		},
	}
}

func (c *CLI) projectRenderCommand() *cobra.Command {
	var output string
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "render <project>",
		Short: "Render a project with its saved options",
		Long: `Render a project with its saved options.

Flags given on the command line override the saved options and are saved
with the project for the next run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withProject(ctx, args[0], func(_ project.Store, p *project.Project) (bool, error) {
				if p.State.Len() == 0 {
					return false, errors.New(errors.ErrCodeInvalidInput, "project %s has no images", p.Name)
				}
				saved, err := projectOptions(p)
				if err != nil {
					return false, err
				}
				opts, err := flags.resolve(cmd, &saved)
				if err != nil {
					return false, err
				}
				images, err := c.projectImages(ctx, p.State)
				if err != nil {
					return false, err
				}
				out := output
				if out == "" {
					out = opts.Title
				}
				if _, err := c.runRender(ctx, images, opts, out, flags.noCache); err != nil {
					return false, err
				}
				return true, setProjectOptions(p, opts)
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or base path (default: <title>)")

	return cmd
}

func (c *CLI) projectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProject(cmd.Context(), args[0], func(store project.Store, p *project.Project) (bool, error) {
				if err := store.Delete(cmd.Context(), p.ID); err != nil {
					return false, err
				}
				printSuccess("Deleted project %s", p.Name)
				return false, nil
			})
		},
	}
}

// relativeTime formats t relative to now for listings.
func relativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
