package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sliced/pkg/layout"
	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/project"
)

var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editPageStyle     = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// EditorModel - Interactive project editor
// =============================================================================

// preview holds the layout options and the layout derived from the
// container state. The container observer refreshes it after every action.
type preview struct {
	opts  pipeline.Options
	pages []int
	err   error
}

func (p *preview) refresh(s project.State) {
	pageHeight, err := p.opts.PageHeight()
	if err != nil {
		p.pages, p.err = nil, err
		return
	}
	p.pages, p.err = layout.Layout(s.Images, pageHeight, p.opts.LayoutConfig()), nil
}

// EditorModel is the bubbletea model of the project editor. All edits go
// through the project container.
type EditorModel struct {
	Name   string
	Cursor int
	Saved  bool
	Dirty  bool

	container *project.Container
	preview   *preview
}

// NewEditorModel creates an editor for state using opts for the live layout.
func NewEditorModel(name string, state project.State, opts pipeline.Options) EditorModel {
	p := &preview{opts: opts}
	c := project.NewContainer(state)
	c.Observe(func(_, next project.State) { p.refresh(next) })
	p.refresh(c.State())
	return EditorModel{Name: name, container: c, preview: p}
}

// State returns the edited state.
func (m EditorModel) State() project.State { return m.container.State() }

// Pages returns the current page assignment.
func (m EditorModel) Pages() []int { return m.preview.pages }

// Options returns the layout options, including changes made in the editor.
func (m EditorModel) Options() pipeline.Options { return m.preview.opts }

func (m EditorModel) selected() (project.Image, bool) {
	s := m.container.State()
	if m.Cursor < 0 || m.Cursor >= s.Len() {
		return project.Image{}, false
	}
	return s.Images[m.Cursor], true
}

func (m EditorModel) apply(action project.Action) EditorModel {
	s := m.container.Apply(action)
	m.Dirty = true
	m.Cursor = min(max(m.Cursor, 0), max(s.Len()-1, 0))
	return m
}

// withOptions changes a layout option and re-runs the layout.
func (m EditorModel) withOptions(change func(*pipeline.Options)) EditorModel {
	change(&m.preview.opts)
	m.container.Apply(project.Noop())
	m.Dirty = true
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := m.container.State().Len()

	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.Saved = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < n-1 {
			m.Cursor++
		}
	case "shift+up", "K":
		if img, ok := m.selected(); ok {
			m = m.apply(project.MoveImage(img.ID, -1))
			m.Cursor = m.container.State().Index(img.ID)
		}
	case "shift+down", "J":
		if img, ok := m.selected(); ok {
			m = m.apply(project.MoveImage(img.ID, 1))
			m.Cursor = m.container.State().Index(img.ID)
		}
	case " ", "space", "w":
		if img, ok := m.selected(); ok {
			m = m.apply(project.SetAllowWrap(img.ID, !img.AllowWrap))
		}
	case "d", "x":
		if img, ok := m.selected(); ok {
			m = m.apply(project.RemoveImage(img.ID))
		}
	case "+":
		m = m.withOptions(func(o *pipeline.Options) { o.PageLimit++ })
	case "-":
		m = m.withOptions(func(o *pipeline.Options) { o.PageLimit = max(0, o.PageLimit-1) })
	case "o":
		m = m.withOptions(func(o *pipeline.Options) { o.OptimizeWorstPage = !o.OptimizeWorstPage })
	case "h":
		m = m.withOptions(func(o *pipeline.Options) { o.MinimizeHeightDifference = !o.MinimizeHeightDifference })
	}
	return m, nil
}

func (m EditorModel) View() string {
	var b strings.Builder
	s := m.container.State()

	title := "Edit " + m.Name
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(editDimStyle.Render("↑/↓ select  J/K move  space break  d remove  +/- page limit  o worst  h height  s save  q quit"))
	b.WriteString("\n\n")

	if s.Len() == 0 {
		b.WriteString(editDimStyle.Render("  no images"))
		b.WriteString("\n")
	}

	i := 0
	for page, count := range m.preview.pages {
		b.WriteString(editPageStyle.Render(fmt.Sprintf("── page %d ──", page+1)))
		b.WriteString("\n")
		for range count {
			if i >= s.Len() {
				break
			}
			b.WriteString(m.imageLine(i, s.Images[i]))
			b.WriteString("\n")
			i++
		}
	}
	// Images the layout did not place (only possible on error).
	for ; i < s.Len(); i++ {
		b.WriteString(m.imageLine(i, s.Images[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.preview.err != nil {
		b.WriteString(StyleWarning.Render(m.preview.err.Error()))
	} else {
		b.WriteString(StyleDim.Render(summary(s.Len(), len(m.preview.pages))))
		if m.preview.opts.PageLimit > 0 {
			b.WriteString(StyleDim.Render(fmt.Sprintf(" · limit %d", m.preview.opts.PageLimit)))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m EditorModel) imageLine(i int, img project.Image) string {
	cursor := "  "
	if i == m.Cursor {
		cursor = "▸ "
	}
	brk := "↵"
	if !img.AllowWrap {
		brk = "⋯"
	}
	line := fmt.Sprintf("%s%3d %s %s", cursor, img.ID, brk, filepath.Base(img.Path))
	if i == m.Cursor {
		return editSelectedStyle.Render(line)
	}
	return editNormalStyle.Render(line)
}
