package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tensorflow/tensorboard-sub001/internal/keybinds"
	gridview "github.com/tensorflow/tensorboard-sub001/internal/viewport"
)

// keyString returns the registry name of a key press
func keyString(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return "space"
	}
	return msg.String()
}

// contextOf returns the keybinding context of a mode
func contextOf(mode Mode) keybinds.Context {
	switch mode {
	case ModeDimension:
		return keybinds.ContextDimension
	case ModeIndexEdit:
		return keybinds.ContextIndexEdit
	case ModeSwap:
		return keybinds.ContextSwap
	case ModePicker:
		return keybinds.ContextPicker
	case ModeStats, ModeInspect, ModeHelp:
		return keybinds.ContextModal
	}
	return keybinds.ContextGrid
}

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Global keys (work in all modes)
	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, keyString(msg)); ok && action == keybinds.ActionQuitForce {
		m.Cleanup()
		return tea.Quit
	}

	// Mode-specific handling
	switch m.mode {
	case ModeGrid:
		return m.handleGridKeys(msg)
	case ModeDimension:
		return m.handleDimensionKeys(msg)
	case ModeIndexEdit:
		return m.handleIndexEditKeys(msg)
	case ModeSwap:
		return m.handleSwapKeys(msg)
	case ModePicker:
		return m.handlePickerKeys(msg)
	case ModeStats, ModeInspect:
		return m.handleModalKeys(msg, &m.modalView)
	case ModeHelp:
		return m.handleModalKeys(msg, &m.helpView)
	}

	return nil
}

// handleGridKeys handles keyboard input while the value grid has focus
func (m *Model) handleGridKeys(msg tea.KeyMsg) tea.Cmd {
	action, complete, partial := m.keybinds.MatchMultiKey(keybinds.ContextGrid, keyString(msg))
	if partial || !complete {
		return nil
	}

	switch action {
	case keybinds.ActionQuit:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionMoveUp:
		return m.afterChange(m.widget.MoveSelection(gridview.Up))
	case keybinds.ActionMoveDown:
		return m.afterChange(m.widget.MoveSelection(gridview.Down))
	case keybinds.ActionMoveLeft:
		return m.afterChange(m.widget.MoveSelection(gridview.Left))
	case keybinds.ActionMoveRight:
		return m.afterChange(m.widget.MoveSelection(gridview.Right))

	case keybinds.ActionExtendUp:
		return m.afterChange(m.widget.ExtendSelection(gridview.Up))
	case keybinds.ActionExtendDown:
		return m.afterChange(m.widget.ExtendSelection(gridview.Down))
	case keybinds.ActionExtendLeft:
		return m.afterChange(m.widget.ExtendSelection(gridview.Left))
	case keybinds.ActionExtendRight:
		return m.afterChange(m.widget.ExtendSelection(gridview.Right))

	case keybinds.ActionPageUp:
		return m.afterChange(m.widget.Page(gridview.Up))
	case keybinds.ActionPageDown:
		return m.afterChange(m.widget.Page(gridview.Down))
	case keybinds.ActionPageLeft:
		return m.afterChange(m.widget.Page(gridview.Left))
	case keybinds.ActionPageRight:
		return m.afterChange(m.widget.Page(gridview.Right))

	case keybinds.ActionGoToTop:
		return m.afterChange(m.widget.ScrollToEdge(gridview.Up))
	case keybinds.ActionGoToBottom:
		return m.afterChange(m.widget.ScrollToEdge(gridview.Down))
	case keybinds.ActionGoToLeftEdge:
		return m.afterChange(m.widget.ScrollToEdge(gridview.Left))
	case keybinds.ActionGoToRightEdge:
		return m.afterChange(m.widget.ScrollToEdge(gridview.Right))

	case keybinds.ActionFocusDimensions:
		if len(m.widget.TensorSpec().Shape) == 0 {
			return m.setStatusMessage("A scalar has no dimensions")
		}
		m.mode = ModeDimension

	case keybinds.ActionIncrementIndex:
		return m.stepIndex(m.activeSlicedDim(), 1)
	case keybinds.ActionDecrementIndex:
		return m.stepIndex(m.activeSlicedDim(), -1)

	case keybinds.ActionOpenSwap:
		return m.openSwapMenu(true)
	case keybinds.ActionResetSpec:
		return m.resetSpec()
	case keybinds.ActionCopySelection:
		return m.copySelection()

	case keybinds.ActionOpenPicker:
		m.picker.Select(m.tensorIndex)
		m.mode = ModePicker
	case keybinds.ActionOpenStats:
		m.mode = ModeStats
		m.updateStatsView()
		if m.pill == nil {
			return m.computeHealthPill()
		}
	case keybinds.ActionOpenInspect:
		m.mode = ModeInspect
		m.updateInspectView()
	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.updateHelpView()
	case keybinds.ActionRefresh:
		return m.requestFetch()
	}

	return nil
}

// handleDimensionKeys handles keyboard input while the slicing controls
// have focus
func (m *Model) handleDimensionKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextDimension, keyString(msg))
	if !ok {
		return nil
	}

	rank := len(m.widget.TensorSpec().Shape)

	switch action {
	case keybinds.ActionQuit:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionFocusGrid:
		m.mode = ModeGrid

	case keybinds.ActionPrevDimension:
		m.dimFocus = (m.dimFocus - 1 + rank) % rank
	case keybinds.ActionNextDimension:
		m.dimFocus = (m.dimFocus + 1) % rank

	case keybinds.ActionIncrementIndex:
		return m.stepIndex(m.dimFocus, 1)
	case keybinds.ActionDecrementIndex:
		return m.stepIndex(m.dimFocus, -1)

	case keybinds.ActionEditIndex:
		return m.beginIndexEdit()

	case keybinds.ActionOpenSwap:
		return m.openSwapMenu(false)

	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.updateHelpView()
	}

	return nil
}

// handleIndexEditKeys passes keys to the index input until it is submitted
// or cancelled
func (m *Model) handleIndexEditKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextIndexEdit, keyString(msg)); ok {
		switch action {
		case keybinds.ActionSubmit:
			return m.submitIndexEdit()
		case keybinds.ActionCancel:
			m.indexInput.Blur()
			m.mode = ModeDimension
			return nil
		}
	}

	var cmd tea.Cmd
	m.indexInput, cmd = m.indexInput.Update(msg)
	return cmd
}

// handleSwapKeys handles keyboard input in the swap menu
func (m *Model) handleSwapKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextSwap, keyString(msg))
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionNavigateUp:
		if m.swapIndex > 0 {
			m.swapIndex--
		}
	case keybinds.ActionNavigateDown:
		if m.swapIndex < len(m.swapOptions)-1 {
			m.swapIndex++
		}
	case keybinds.ActionSelect:
		option := m.swapOptions[m.swapIndex]
		m.mode = ModeGrid
		m.swapOptions = nil
		return m.applySwap(option)
	case keybinds.ActionCancel:
		m.mode = ModeGrid
		m.swapOptions = nil
	}

	return nil
}

// handlePickerKeys handles keyboard input in the tensor picker. While the
// list is filtering every key goes to it.
func (m *Model) handlePickerKeys(msg tea.KeyMsg) tea.Cmd {
	if m.picker.FilterState() != list.Filtering {
		if action, ok := m.keybinds.Match(keybinds.ContextPicker, keyString(msg)); ok {
			switch action {
			case keybinds.ActionSelect:
				m.mode = ModeGrid
				if item, ok := m.picker.SelectedItem().(pickerItem); ok {
					return m.switchTensor(item.index)
				}
				return nil
			case keybinds.ActionCancel:
				if m.picker.FilterState() == list.FilterApplied {
					m.picker.ResetFilter()
					return nil
				}
				m.mode = ModeGrid
				return nil
			}
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return cmd
}

// handleModalKeys scrolls a read-only modal until it is closed
func (m *Model) handleModalKeys(msg tea.KeyMsg, view *viewport.Model) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextModal, keyString(msg))
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCloseModal:
		m.mode = ModeGrid
	case keybinds.ActionNavigateUp:
		view.ScrollUp(1)
	case keybinds.ActionNavigateDown:
		view.ScrollDown(1)
	case keybinds.ActionPageUp:
		view.PageUp()
	case keybinds.ActionPageDown:
		view.PageDown()
	}

	return nil
}
