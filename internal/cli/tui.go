package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wrightline/panelplan/pkg/layout"
	"github.com/wrightline/panelplan/pkg/manifest"
	"github.com/wrightline/panelplan/pkg/recompute"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
)

// Editor styles
var (
	editorHintStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorStatusStyle = lipgloss.NewStyle().Foreground(colorYellow)
	editorModeStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// tuiCommand creates the tui command, the interactive schedule editor.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [manifest.toml]",
		Short: "Edit a panel schedule interactively",
		Long: `Edit a panel schedule interactively.

With a manifest the editor starts from its wall and replays its saved
edits; without one it opens a 12' × 9' wall with 3' panels. Splits and
width overrides recompute the schedule live and are rolled back when
the result would be invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runTUI(cmd.Context(), input)
		},
	}
}

// runTUI resolves the starting wall, runs the editor, and prints the
// final schedule after the session ends.
func (c *CLI) runTUI(ctx context.Context, input string) error {
	name := "Untitled wall"
	params := wall.Parameters{
		Width:      units.FromInches(144),
		Height:     units.FromInches(108),
		PanelWidth: units.FromInches(36),
	}
	var edits wall.Edits

	if input != "" {
		m, err := manifest.Load(input)
		if err != nil {
			return err
		}
		params = m.Params()
		edits, err = m.Edits(params)
		if err != nil {
			return err
		}
		if m.Wall.Name != "" {
			name = m.Wall.Name
		}
	}

	model, err := NewEditorModel(ctx, name, params, edits)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	fm, ok := finalModel.(EditorModel)
	if !ok {
		return nil
	}

	printNewline()
	fmt.Println(renderPanelTable(fm.state.params, fm.state.schedule, -1))
	if fm.state.edits.HasEdits() {
		printInfo("Session edits: %s", editsSummary(fm.state.edits))
	}

	return nil
}

// =============================================================================
// EditorModel - Interactive schedule editing
// =============================================================================

// editorState is the wall being edited. The bubbletea runtime calls
// Update from a single goroutine, and the coordinator runs its pass
// synchronously on that goroutine, so no locking is needed here.
type editorState struct {
	params   wall.Parameters
	edits    wall.Edits
	schedule wall.Schedule
	err      error
}

// EditorModel is the bubbletea model for the schedule editor. Edits go
// through the recompute coordinator so every path into the schedule is
// the same: mutate the edit set, trigger, read the result.
type EditorModel struct {
	ctx    context.Context
	state  *editorState
	coord  *recompute.Coordinator
	name   string
	cursor int
	width  int
	status string
}

// NewEditorModel builds the editor around an initial wall. Saved edits
// replay through the coordinator as a bulk load, so the schedule is
// computed once no matter how many edits the manifest carries.
func NewEditorModel(ctx context.Context, name string, params wall.Parameters, edits wall.Edits) (EditorModel, error) {
	st := &editorState{params: params}
	coord := recompute.New(func(context.Context) {
		st.schedule, st.err = layout.Compute(st.params, st.edits)
	})

	m := EditorModel{
		ctx:   ctx,
		state: st,
		coord: coord,
		name:  name,
		width: 72,
	}
	m.loadEdits(edits)

	if st.err != nil {
		return EditorModel{}, st.err
	}
	return m, nil
}

// loadEdits replays saved edits into the shared state. Bulk load
// swallows the per-edit triggers; EndBulkLoad forces the single pass
// that also covers the no-edits case.
func (m EditorModel) loadEdits(edits wall.Edits) {
	m.coord.BeginBulkLoad()
	for id, inches := range edits.Overrides {
		m.state.edits.SetOverride(id, inches)
		m.coord.Trigger(m.ctx)
	}
	for _, rec := range edits.Splits {
		m.state.edits.RecordSplit(rec)
		m.coord.Trigger(m.ctx)
	}
	m.coord.EndBulkLoad(m.ctx)
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.state.schedule.Panels)-1 {
				m.cursor++
			}
		case "s":
			panel, ok := m.selectedPanel()
			if !ok {
				return m, nil
			}
			m = m.applyEdit(func(e *wall.Edits) error {
				// Split's own schedule is discarded; the trigger
				// recomputes from the recorded edit so splits made here
				// and splits replayed from a manifest take one path.
				_, _, err := layout.Split(m.state.schedule.Panels, []int{panel.ID}, m.state.params, e)
				return err
			})
		case "+", "=":
			m = m.nudgeWidth(1)
		case "-", "_":
			m = m.nudgeWidth(-1)
		case "u":
			m = m.applyEdit(func(e *wall.Edits) error {
				e.Overrides = nil
				return nil
			})
		case "c":
			m = m.applyEdit(func(e *wall.Edits) error {
				e.Clear()
				return nil
			})
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < 24 {
			m.width = 24
		}
	}
	return m, nil
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString("\n")
	b.WriteString(editorHintStyle.Render("←/→ select  s split  +/- width  u unpin  c clear  q quit"))
	b.WriteString("\n\n")

	b.WriteString(renderWallStrip(m.state.schedule, m.width-4, m.cursor))
	b.WriteString("\n")
	b.WriteString(renderPanelTable(m.state.params, m.state.schedule, m.cursor))
	b.WriteString("\n")

	b.WriteString(editorModeStyle.Render(fmt.Sprintf("mode: %s · edits: %s",
		m.state.schedule.Mode, editsSummary(m.state.edits))))
	b.WriteString("\n")
	if m.state.schedule.SeamFallback {
		b.WriteString(editorStatusStyle.Render("! seam position not honored"))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(editorStatusStyle.Render("! " + m.status))
		b.WriteString("\n")
	}

	return b.String()
}

// applyEdit mutates the edit set through fn and recomputes. Both a
// rejected mutation and a failed recompute restore the previous edits,
// leaving the rejection reason on the status line.
func (m EditorModel) applyEdit(fn func(*wall.Edits) error) EditorModel {
	prev := m.state.edits.Clone()

	if err := fn(&m.state.edits); err != nil {
		m.state.edits = prev
		m.status = err.Error()
		return m
	}

	m.coord.Trigger(m.ctx)
	if m.state.err != nil {
		m.status = m.state.err.Error()
		m.state.edits = prev
		m.coord.Trigger(m.ctx)
		return m.clampCursor()
	}

	m.status = ""
	return m.clampCursor()
}

// nudgeWidth grows or shrinks the selected panel by delta inches. Every
// panel is pinned at its current width first, because the override
// layout is built from the pinned set alone; rescaling then fills the
// wall exactly, so the nudged panel changes at its neighbors' expense.
// Pinning absorbs split records into plain widths.
func (m EditorModel) nudgeWidth(delta float64) EditorModel {
	panel, ok := m.selectedPanel()
	if !ok {
		return m
	}
	next := panel.ActualWidth.ToInches() + delta
	if next < 1 {
		m.status = "panel width must stay above 1\""
		return m
	}
	panels := m.state.schedule.Panels
	return m.applyEdit(func(e *wall.Edits) error {
		for _, p := range panels {
			e.SetOverride(p.ID, p.ActualWidth.ToInches())
		}
		e.SetOverride(panel.ID, next)
		return nil
	})
}

// selectedPanel returns the panel under the cursor.
func (m EditorModel) selectedPanel() (wall.Panel, bool) {
	panels := m.state.schedule.Panels
	if m.cursor < 0 || m.cursor >= len(panels) {
		return wall.Panel{}, false
	}
	return panels[m.cursor], true
}

// clampCursor keeps the cursor on a panel after splits and clears
// change the panel count.
func (m EditorModel) clampCursor() EditorModel {
	if n := len(m.state.schedule.Panels); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}
