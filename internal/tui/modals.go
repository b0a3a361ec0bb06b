package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	log "github.com/sirupsen/logrus"

	"github.com/tensorflow/tensorboard-sub001/internal/highlight"
	"github.com/tensorflow/tensorboard-sub001/internal/keybinds"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// renderModal draws content in a centered box with a title and footer
func (m *Model) renderModal(title, content, footer string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width - ModalWidthMargin).
		Height(m.height - ModalHeightMargin).
		Padding(1, 2).
		Render(styleTitle.Render(title) + "\n\n" + content + "\n\n" + styleSubtle.Render(footer))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

// modalFooter describes the keys of the read-only modals
func (m *Model) modalFooter() string {
	return fmt.Sprintf("%s: scroll | %s: close",
		m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionNavigateDown),
		m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionCloseModal))
}

// updateModalSizes fits the modal viewports to the terminal
func (m *Model) updateModalSizes() {
	width := max(m.width-ModalWidthMargin-4, 10)
	height := max(m.height-ModalHeightMargin-ModalOverheadLines, 3)
	m.modalView.Width = width
	m.modalView.Height = height
	m.helpView.Width = width
	m.helpView.Height = height
	m.picker.SetSize(min(PickerWidth, m.width), min(PickerHeight, m.height-2))
}

// renderHelp renders the keybinding reference
func (m *Model) renderHelp() string {
	return m.renderModal("Keyboard Shortcuts", m.helpView.View(), m.modalFooter())
}

// helpContexts are shown in the help screen, in this order
var helpContexts = []struct {
	context keybinds.Context
	title   string
}{
	{keybinds.ContextGrid, "Grid"},
	{keybinds.ContextDimension, "Slicing controls"},
	{keybinds.ContextIndexEdit, "Index input"},
	{keybinds.ContextSwap, "Swap menu"},
	{keybinds.ContextPicker, "Tensor picker"},
	{keybinds.ContextModal, "Dialogs"},
}

// updateHelpView lists the bindings of every context from the registry
func (m *Model) updateHelpView() {
	var b strings.Builder
	for i, hc := range helpContexts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleViewing.Render(hc.title) + "\n")

		var order []keybinds.Action
		keys := make(map[keybinds.Action][]string)
		for _, binding := range m.keybinds.ListBindings(hc.context) {
			if binding.Action == keybinds.ActionNoOp {
				continue
			}
			if _, seen := keys[binding.Action]; !seen {
				order = append(order, binding.Action)
			}
			keys[binding.Action] = append(keys[binding.Action], binding.Key)
		}

		for _, action := range order {
			info := keybinds.GetActionInfo(action)
			fmt.Fprintf(&b, "  %-22s %s\n", strings.Join(keys[action], "/"), info.Description)
		}
	}
	m.helpView.SetContent(b.String())
	m.helpView.GotoTop()
}

// renderStats renders the health pill of the current tensor
func (m *Model) renderStats() string {
	return m.renderModal("Health pill: "+m.widget.Name(), m.modalView.View(), m.modalFooter())
}

// updateStatsView renders the health pill into the modal viewport
func (m *Model) updateStatsView() {
	if m.pill == nil || m.pillName != m.widget.Name() {
		m.modalView.SetContent(styleSubtle.Render("Computing..."))
		return
	}

	p := *m.pill
	format := func(v float64) string {
		return tensor.FormatValue(v, tensor.Float64, m.settings.Precision)
	}
	rows := [][]string{
		{"Elements", fmt.Sprint(p.Elements)},
		{"NaN", fmt.Sprint(p.NaN)},
		{"-Inf", fmt.Sprint(p.NegInf)},
		{"+Inf", fmt.Sprint(p.PosInf)},
		{"Negative", fmt.Sprint(p.Negative)},
		{"Zero", fmt.Sprint(p.Zero)},
		{"Positive", fmt.Sprint(p.Positive)},
		{"Min", format(p.Min)},
		{"Max", format(p.Max)},
		{"Mean", format(p.Mean)},
		{"Stddev", format(p.Stddev)},
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleSubtle).
		Rows(rows...)

	spec := m.widget.TensorSpec()
	m.modalView.SetContent(fmt.Sprintf("%s %s\n\n%s", spec.DType, shape.FormatShapeForDisplay(spec.Shape), t.Render()))
	m.modalView.GotoTop()
}

// renderInspect renders the slicing spec inspector
func (m *Model) renderInspect() string {
	return m.renderModal("Slicing spec: "+m.widget.Name(), m.modalView.View(), m.modalFooter())
}

// inspectDocument is what the spec inspector shows
type inspectDocument struct {
	Tensor      string            `json:"tensor"`
	DType       tensor.DType      `json:"dtype"`
	Shape       shape.Shape       `json:"shape"`
	SlicingSpec shape.SlicingSpec `json:"slicing_spec"`
	Controls    []string          `json:"controls"`
}

// updateInspectView renders the current slicing spec as highlighted JSON
func (m *Model) updateInspectView() {
	spec := m.widget.TensorSpec()
	controls := m.widget.Controls()
	doc := inspectDocument{
		Tensor:      m.widget.Name(),
		DType:       spec.DType,
		Shape:       spec.Shape,
		SlicingSpec: m.widget.SlicingSpec(),
		Controls:    make([]string, len(controls)),
	}
	for i, c := range controls {
		doc.Controls[i] = c.Label()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		m.modalView.SetContent(styleError.Render(err.Error()))
		return
	}

	content := string(data)
	if colored, err := highlight.JSON(content, highlight.DefaultStyle); err != nil {
		log.Debugf("highlighting failed: %v", err)
	} else {
		content = colored
	}
	m.modalView.SetContent(content)
	m.modalView.GotoTop()
}

// renderSwapMenu renders the list of dimensions that can be swapped in
func (m *Model) renderSwapMenu() string {
	spec := m.widget.SlicingSpec()
	s := m.widget.TensorSpec().Shape

	var b strings.Builder
	for i, option := range m.swapOptions {
		current := spec.ViewingDims[option.pos]
		line := fmt.Sprintf("%s: d%d (%d) -> d%d (%d)",
			positionName(option.pos), current, s[current], option.dim, s[option.dim])
		if i == m.swapIndex {
			b.WriteString(styleSelected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%s: choose | %s: cancel",
		m.keybinds.GetBindingString(keybinds.ContextSwap, keybinds.ActionSelect),
		m.keybinds.GetBindingString(keybinds.ContextSwap, keybinds.ActionCancel))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(SwapMenuWidth).
		Padding(1, 2).
		Render(styleTitle.Render("Swap viewing dimension") + "\n\n" + b.String() + "\n" + styleSubtle.Render(footer))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderPicker renders the tensor picker
func (m *Model) renderPicker() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.picker.View())
}

// pickerItem is one tensor in the picker
type pickerItem struct {
	index int
	name  string
	spec  tensor.Spec
}

func (i pickerItem) FilterValue() string { return i.name }

func (i pickerItem) Title() string {
	return fmt.Sprintf("%s %s %s", i.name, i.spec.DType, shape.FormatShapeForDisplay(i.spec.Shape))
}

func (i pickerItem) Description() string { return "" }

// newPicker builds the tensor list of col
func newPicker(col *tensor.Collection) list.Model {
	items := make([]list.Item, len(col.Tensors))
	for i, t := range col.Tensors {
		items[i] = pickerItem{index: i, name: t.Name, spec: t.View.Spec()}
	}

	l := list.New(items, pickerDelegate{}, PickerWidth, PickerHeight)
	l.Title = "Tensors"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = styleTitle
	return l
}

// pickerDelegate renders picker items on one line
type pickerDelegate struct{}

func (d pickerDelegate) Height() int                             { return 1 }
func (d pickerDelegate) Spacing() int                            { return 0 }
func (d pickerDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d pickerDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(pickerItem)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, styleSelected.Render("> "+i.Title()))
		return
	}
	fmt.Fprint(w, "  "+i.Title())
}
