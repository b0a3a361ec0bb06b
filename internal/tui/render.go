package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tensorflow/tensorboard-sub001/internal/selection"
	"github.com/tensorflow/tensorboard-sub001/internal/slicing"
	"github.com/tensorflow/tensorboard-sub001/internal/widget"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleCursor = lipgloss.NewStyle().
			Reverse(true).
			Bold(true)

	styleFocused = lipgloss.NewStyle().
			Reverse(true).
			Foreground(colorGreen)

	styleViewing = lipgloss.NewStyle().
			Foreground(colorCyan)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderMain renders the tensor header, the slicing controls, the value
// grid and the status bar
func (m *Model) renderMain() string {
	f := m.currentFrame()

	header := styleTitle.Render(f.Header())
	if n := len(m.collection.Tensors); n > 1 {
		header += styleSubtle.Render(fmt.Sprintf("  (%d/%d)", m.tensorIndex+1, n))
	}

	borderColor := colorGray
	if m.mode == ModeGrid {
		borderColor = colorGreen
	}
	grid := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(m.width - GridBorderWidth).
		Height(m.height - GridBorderHeight - HeaderLines - StatusBarLines).
		Render(m.renderGrid(f))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.renderControls(f.Controls),
		grid,
		m.renderStatusBar(f),
	)
}

// renderControls renders one label per dimension. The focused dimension
// is highlighted while the controls have focus.
func (m *Model) renderControls(controls []slicing.DimControl) string {
	if len(controls) == 0 {
		return styleSubtle.Render("scalar")
	}

	labels := make([]string, len(controls))
	for i, c := range controls {
		label := c.Label()
		switch {
		case (m.mode == ModeDimension || m.mode == ModeIndexEdit) && c.Dim == m.dimFocus:
			labels[i] = styleFocused.Render(label)
		case c.Role != slicing.RoleSliced:
			labels[i] = styleViewing.Render(label)
		default:
			labels[i] = label
		}
	}
	return truncateLine(strings.Join(labels, "  "), m.width)
}

// renderGrid renders the visible values with their row and column indices
func (m *Model) renderGrid(f widget.Frame) string {
	switch {
	case f.Stale && f.Tensor.Shape.IsEmpty():
		return styleSubtle.Render("(no values)")
	case f.Stale:
		return styleSubtle.Render("Loading...")
	case f.Cells == nil:
		return styleSubtle.Render("(empty)")
	}

	cellWidth := m.settings.CellWidth
	gap := strings.Repeat(" ", m.settings.ColumnGap)
	labelWidth := len(strconv.Itoa(maxRowIndex(m.widget)))
	labelPad := strings.Repeat(" ", RowLabelPadding)
	cursorRow, cursorCol := m.widget.Cursor()

	var b strings.Builder

	if len(f.ColIndices) > 0 {
		b.WriteString(strings.Repeat(" ", labelWidth))
		b.WriteString(labelPad)
		for _, col := range f.ColIndices {
			b.WriteString(gap)
			b.WriteString(styleSubtle.Render(fitCell(strconv.Itoa(col), cellWidth)))
		}
		b.WriteByte('\n')
	}

	for i, row := range f.Cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := ""
		if i < len(f.RowIndices) {
			label = strconv.Itoa(f.RowIndices[i])
		}
		b.WriteString(styleSubtle.Render(runewidth.FillLeft(label, labelWidth)))
		b.WriteString(labelPad)
		for _, c := range row {
			b.WriteString(gap)
			b.WriteString(cellStyle(c, cursorRow, cursorCol).Render(fitCell(c.Text, cellWidth)))
		}
	}

	return b.String()
}

// cellStyle picks the style of one value cell
func cellStyle(c widget.Cell, cursorRow, cursorCol int) lipgloss.Style {
	switch {
	case c.Row == cursorRow && c.Col == cursorCol:
		return styleCursor
	case c.Status.Has(selection.Selected):
		return styleSelected
	case math.IsNaN(c.Value) || math.IsInf(c.Value, 0):
		return styleWarning
	}
	return lipgloss.NewStyle()
}

// fitCell right-aligns text in a cell, truncating it when too wide
func fitCell(text string, width int) string {
	return runewidth.FillLeft(runewidth.Truncate(text, width, "…"), width)
}

// truncateLine cuts a styled line to width terminal cells
func truncateLine(line string, width int) string {
	if lipgloss.Width(line) <= width {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// renderStatusBar renders the mode, messages and cursor position
func (m *Model) renderStatusBar(f widget.Frame) string {
	mode := styleTitle.Render("[" + m.mode.String() + "]")

	var message string
	switch {
	case m.mode == ModeIndexEdit:
		message = m.indexInput.View()
	case m.errorMsg != "":
		message = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		message = styleSuccess.Render(m.statusMsg)
	case m.keybinds.Pending(contextOf(m.mode)) != "":
		message = styleWarning.Render(m.keybinds.Pending(contextOf(m.mode)))
	}

	var right []string
	if m.fetch.IsLoading() {
		right = append(right, styleWarning.Render("loading"))
	}
	if f.RowsCutoff {
		right = append(right, "↓")
	}
	if f.ColsCutoff {
		right = append(right, "→")
	}
	row, col := m.widget.Cursor()
	box := m.widget.SelectionBox()
	position := fmt.Sprintf("%d,%d", row, col)
	if box.RowCount > 1 || box.ColCount > 1 {
		position += fmt.Sprintf(" (%dx%d)", box.RowCount, box.ColCount)
	}
	right = append(right, position, styleSubtle.Render("?:help"))

	left := mode + " " + message
	rightText := strings.Join(right, " ")
	padding := m.width - lipgloss.Width(left) - lipgloss.Width(rightText)
	if padding < 1 {
		return truncateLine(left, m.width)
	}
	return left + strings.Repeat(" ", padding) + rightText
}
