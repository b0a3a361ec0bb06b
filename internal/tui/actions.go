package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/slicing"
	gridview "github.com/tensorflow/tensorboard-sub001/internal/viewport"
	"github.com/tensorflow/tensorboard-sub001/internal/widget"
)

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// gridSize is the space left for value cells once the header, borders,
// row labels and status bar are drawn.
func (m *Model) gridSize() gridview.Size {
	labelWidth := len(fmt.Sprint(maxRowIndex(m.widget))) + RowLabelPadding
	return gridview.Size{
		Width:  max(m.width-GridBorderWidth-labelWidth, 0),
		Height: max(m.height-GridBorderHeight-HeaderLines-ColumnIndexLines-StatusBarLines, 0),
	}
}

// maxRowIndex is the largest row index the grid can show
func maxRowIndex(w *widget.Widget) int {
	rowDim, ok := w.SlicingSpec().RowDim()
	if !ok {
		return 0
	}
	return max(w.TensorSpec().Shape[rowDim]-1, 0)
}

// requestFetch lays the widget out for the current terminal size and
// fetches the visible values in the background. A fetch started earlier
// is cancelled and its result dropped.
func (m *Model) requestFetch() tea.Cmd {
	if m.width == 0 {
		return nil
	}
	if err := m.widget.Layout(m.gridSize()); err != nil {
		return m.setErrorMessage(err.Error())
	}
	ticket, err := m.widget.BeginFetch()
	if err != nil {
		return m.setErrorMessage(err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.fetch.Start(ticket.Generation(), cancel)

	w := m.widget
	return func() tea.Msg {
		block, err := w.Fetch(ctx, ticket)
		return fetchedMsg{widget: w, ticket: ticket, block: block, err: err}
	}
}

// completeFetch stores fetched values unless a newer fetch replaced them
// or they belong to a tensor that is no longer shown
func (m *Model) completeFetch(msg fetchedMsg) tea.Cmd {
	if msg.widget != m.widget {
		log.Debugf("dropping fetch of %s, showing %s", msg.widget.Name(), m.widget.Name())
		return nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		return m.setErrorMessage(msg.err.Error())
	}
	if err := m.widget.CompleteFetch(msg.ticket, msg.block); err != nil {
		if errors.Is(err, widget.ErrStaleFetch) {
			return nil
		}
		return m.setErrorMessage(err.Error())
	}
	m.lastFrame = m.widget.Frame()
	return nil
}

// currentFrame is the frame to draw. While values are being fetched the
// last frame with values stands in.
func (m *Model) currentFrame() widget.Frame {
	f := m.widget.Frame()
	if f.Stale && m.lastFrame.Cells != nil && m.lastFrame.Name == f.Name {
		return m.lastFrame
	}
	return f
}

// afterChange refetches after err-free navigation, or reports err
func (m *Model) afterChange(err error) tea.Cmd {
	if err != nil {
		return m.setErrorMessage(err.Error())
	}
	return m.requestFetch()
}

// activeSlicedDim is the dimension the grid's index keys step: the focused
// dimension when it is pinned, else the first pinned one. It returns -1
// when no dimension is pinned.
func (m *Model) activeSlicedDim() int {
	spec := m.widget.SlicingSpec()
	if spec.IsSliced(m.dimFocus) {
		return m.dimFocus
	}
	if dims := spec.SlicingDims(); len(dims) > 0 {
		return dims[0]
	}
	return -1
}

// stepIndex moves the pinned index of dim by delta
func (m *Model) stepIndex(dim, delta int) tea.Cmd {
	if dim < 0 || !m.widget.SlicingSpec().IsSliced(dim) {
		return m.setStatusMessage("No pinned dimension to step")
	}
	return m.afterChange(m.widget.StepSlicedIndex(dim, delta))
}

// buildSwapOptions lists the swaps available from the focused dimension.
// From the grid every swap is offered.
func (m *Model) buildSwapOptions(fromGrid bool) []swapOption {
	spec := m.widget.SlicingSpec()
	var options []swapOption

	for pos := range spec.ViewingDims {
		for _, dim := range slicing.SwapCandidates(spec, pos) {
			switch {
			case fromGrid:
			case spec.IsSliced(m.dimFocus) && dim != m.dimFocus:
				continue
			case !spec.IsSliced(m.dimFocus) && spec.ViewingDims[pos] != m.dimFocus:
				continue
			}
			options = append(options, swapOption{pos: pos, dim: dim})
		}
	}
	return options
}

// openSwapMenu shows the swap menu, or a message when nothing can be swapped
func (m *Model) openSwapMenu(fromGrid bool) tea.Cmd {
	options := m.buildSwapOptions(fromGrid)
	if len(options) == 0 {
		return m.setStatusMessage("No dimension to swap in")
	}
	m.swapOptions = options
	m.swapIndex = 0
	m.mode = ModeSwap
	return nil
}

// applySwap performs the chosen swap
func (m *Model) applySwap(option swapOption) tea.Cmd {
	if err := m.widget.SwapViewingDimension(option.pos, option.dim); err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.dimFocus = firstSlicedDim(m.widget.SlicingSpec())
	return tea.Batch(
		m.requestFetch(),
		m.setStatusMessage(fmt.Sprintf("Viewing d%d as %s", option.dim, positionName(option.pos))),
	)
}

// positionName names a viewing position
func positionName(pos int) string {
	if pos == slicing.RowPos {
		return "rows"
	}
	return "cols"
}

// beginIndexEdit opens the index input for the focused dimension
func (m *Model) beginIndexEdit() tea.Cmd {
	index, ok := m.widget.SlicingSpec().SlicedIndex(m.dimFocus)
	if !ok {
		return m.setStatusMessage(fmt.Sprintf("d%d is a viewing dimension, press s to swap", m.dimFocus))
	}
	value := ""
	if index != shape.NoIndex {
		value = fmt.Sprint(index)
	}
	m.indexInput.SetValue(value)
	m.indexInput.CursorEnd()
	m.mode = ModeIndexEdit
	return m.indexInput.Focus()
}

// submitIndexEdit applies the typed index. Invalid input keeps the spec.
func (m *Model) submitIndexEdit() tea.Cmd {
	m.indexInput.Blur()
	m.mode = ModeDimension
	text := strings.TrimSpace(m.indexInput.Value())
	if err := m.widget.EditSlicedIndex(m.dimFocus, text); err != nil {
		return m.setErrorMessage(fmt.Sprintf("d%d: %v", m.dimFocus, err))
	}
	return m.requestFetch()
}

// resetSpec returns the tensor to its default slicing
func (m *Model) resetSpec() tea.Cmd {
	spec := shape.DefaultSlicingSpec(m.widget.TensorSpec().Shape)
	if err := m.widget.SetSlicingSpec(spec); err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.specChanges.Push(m.widget.SlicingSpec())
	m.dimFocus = firstSlicedDim(spec)
	return tea.Batch(m.requestFetch(), m.setStatusMessage("Slicing reset"))
}

// switchTensor shows the tensor at index
func (m *Model) switchTensor(index int) tea.Cmd {
	if index == m.tensorIndex {
		return nil
	}
	if err := m.openTensor(index); err != nil {
		return m.setErrorMessage(err.Error())
	}
	return tea.Batch(m.requestFetch(), m.setStatusMessage("Showing "+m.widget.Name()))
}

// copySelection copies the selected values as TSV
func (m *Model) copySelection() tea.Cmd {
	w := m.widget
	box := w.SelectionBox()
	return func() tea.Msg {
		tsv, err := w.SelectionTSV(context.Background())
		if err != nil {
			return copiedMsg{err: err}
		}
		if tsv == "" {
			return copiedMsg{summary: "Nothing to copy"}
		}
		if err := clipboardWrite(tsv); err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{summary: fmt.Sprintf("Copied %dx%d values", box.RowCount, box.ColCount)}
	}
}

// computeHealthPill summarizes the current tensor in the background
func (m *Model) computeHealthPill() tea.Cmd {
	w := m.widget
	return func() tea.Msg {
		pill, err := w.HealthPill(context.Background())
		return healthPillMsg{name: w.Name(), pill: pill, err: err}
	}
}

// saveSpec writes spec to the spec store
func (m *Model) saveSpec(spec shape.SlicingSpec) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	source := m.source
	name := m.widget.Name()
	s := m.widget.TensorSpec().Shape
	return func() tea.Msg {
		err := store.Save(source, name, s, spec)
		if err == nil {
			log.Debugf("saved slicing spec of %s", name)
		}
		return specSavedMsg{name: name, err: err}
	}
}
