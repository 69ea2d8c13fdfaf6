package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sliced/pkg/project"
)

// editCommand opens the interactive editor for a project.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <project>",
		Short: "Reorder images and page breaks interactively",
		Long: `Reorder images and page breaks interactively.

The page layout is recomputed after every change. Press s to save the
project, q to discard the changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withProject(ctx, args[0], func(_ project.Store, p *project.Project) (bool, error) {
				opts, err := projectOptions(p)
				if err != nil {
					return false, err
				}

				prog := tea.NewProgram(NewEditorModel(p.Name, p.State, opts), tea.WithContext(ctx))
				final, err := prog.Run()
				if err != nil {
					return false, err
				}
				m := final.(EditorModel)
				if !m.Saved || !m.Dirty {
					printInfo("No changes saved")
					return false, nil
				}

				p.State = m.State()
				p.UpdatedAt = time.Now().UTC()
				if err := setProjectOptions(p, m.Options()); err != nil {
					return false, err
				}
				printSuccess("Saved %s", p.Name)
				printLayoutStats(p.State.Len(), len(m.Pages()), false)
				return true, nil
			})
		},
	}
}
