package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints schedule statistics on a single line.
func printStats(panelCount, objectCount int, cached bool) {
	var parts []string
	if panelCount > 0 {
		parts = append(parts, fmt.Sprintf("%d panels", panelCount))
	}
	if objectCount > 0 {
		parts = append(parts, fmt.Sprintf("%d objects", objectCount))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Schedule Rendering
// =============================================================================

// renderPanelTable renders a computed schedule as a table. Panel positions
// are converted from percent back to shop dimensions against the wall
// width. selected highlights one row by index; pass -1 for none.
func renderPanelTable(params wall.Parameters, sched wall.Schedule, selected int) string {
	wallW := params.Width.ToInches()

	rows := make([][]string, 0, len(sched.Panels))
	for _, p := range sched.Panels {
		start := units.FromInches(p.X / 100 * wallW)
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			fmt.Sprintf("%.1f%%", p.Width),
			p.ActualWidth.String(),
			start.String(),
			p.Height.String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("#", "Width", "Actual", "Start", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row == selected {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}

// renderObjectTable renders anchored objects as a table.
func renderObjectTable(objects []wall.Object) string {
	rows := make([][]string, 0, len(objects))
	for _, o := range objects {
		name := o.Name
		if name == "" {
			name = "—"
		}
		panels := "—"
		if len(o.AffectedPanels) > 0 {
			ids := make([]string, len(o.AffectedPanels))
			for i, id := range o.AffectedPanels {
				ids[i] = strconv.Itoa(id)
			}
			panels = strings.Join(ids, ", ")
		}
		rows = append(rows, []string{
			name,
			o.Width.String() + " × " + o.Height.String(),
			fmt.Sprintf("%.1f%%", o.XPercent),
			fmt.Sprintf("%.1f%%", o.YPercent),
			panels,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Object", "Size", "X", "Y", "Panels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}

// renderWallStrip draws the schedule as a one-line strip of proportional
// cells labeled with panel ids. selected highlights one cell by index;
// pass -1 for none.
func renderWallStrip(sched wall.Schedule, width, selected int) string {
	if len(sched.Panels) == 0 || width <= 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range sched.Panels {
		w := int(p.Width/100*float64(width) + 0.5)
		if w < 4 {
			w = 4
		}
		label := strconv.Itoa(p.ID)
		if len(label) > w-2 {
			label = ""
		}
		pad := w - 2 - len(label)
		left := pad / 2
		cell := "[" + strings.Repeat(" ", left) + label + strings.Repeat(" ", pad-left) + "]"

		if i == selected {
			b.WriteString(StyleHighlight.Bold(true).Render(cell))
		} else {
			b.WriteString(StyleDim.Render(cell))
		}
	}
	return b.String()
}

// editsSummary describes recorded edits in one short phrase.
func editsSummary(e wall.Edits) string {
	if !e.HasEdits() {
		return "none"
	}
	var parts []string
	if n := len(e.Overrides); n == 1 {
		parts = append(parts, "1 override")
	} else if n > 1 {
		parts = append(parts, fmt.Sprintf("%d overrides", n))
	}
	if n := len(e.Splits); n == 1 {
		parts = append(parts, "1 split")
	} else if n > 1 {
		parts = append(parts, fmt.Sprintf("%d splits", n))
	}
	return strings.Join(parts, ", ")
}

// formatRelativeTime renders a timestamp relative to now for list views.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

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
		return t.Format("Jan 2, 2006")
	}
}
