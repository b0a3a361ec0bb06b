package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/tensorflow/tensorboard-sub001/internal/config"
	"github.com/tensorflow/tensorboard-sub001/internal/history"
	"github.com/tensorflow/tensorboard-sub001/internal/keybinds"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
	"github.com/tensorflow/tensorboard-sub001/internal/widget"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeGrid Mode = iota
	ModeDimension
	ModeIndexEdit
	ModeSwap
	ModePicker
	ModeStats
	ModeInspect
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "GRID"
	case ModeDimension:
		return "SLICE"
	case ModeIndexEdit:
		return "INDEX"
	case ModeSwap:
		return "SWAP"
	case ModePicker:
		return "TENSORS"
	case ModeStats:
		return "STATS"
	case ModeInspect:
		return "INSPECT"
	case ModeHelp:
		return "HELP"
	}
	return "?"
}

// swapOption is one entry of the swap menu: make dim the viewing dimension
// at pos.
type swapOption struct {
	pos int
	dim int
}

// Model represents the TUI state
type Model struct {
	// Core state
	settings   config.Settings
	keybinds   *keybinds.Registry
	store      *history.Manager
	collection *tensor.Collection
	source     string // spec store key of the collection
	mode       Mode

	// Current tensor
	tensorIndex int
	widget      *widget.Widget
	lastFrame   widget.Frame // last frame with values, shown while fetching

	// Background work
	fetch       *FetchState
	specChanges *SpecChangeState

	// Slicing controls
	dimFocus    int // focused dimension in ModeDimension
	indexInput  textinput.Model
	swapOptions []swapOption
	swapIndex   int

	// Modals
	picker    list.Model
	modalView viewport.Model
	helpView  viewport.Model
	pill      *tensor.HealthPill
	pillName  string

	// UI state
	width         int
	height        int
	statusMsg     string
	fullStatusMsg string
	errorMsg      string
	fullErrorMsg  string
}

// Init starts the first fetch once the terminal size is known
func (m *Model) Init() tea.Cmd {
	return nil
}

// Cleanup cancels background work
func (m *Model) Cleanup() {
	m.fetch.Cancel()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg))

	// Mouse events are captured so the terminal does not scroll; navigation
	// stays keyboard-only
	case tea.MouseMsg:

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateModalSizes()
		cmds = append(cmds, m.requestFetch())

	case fetchedMsg:
		m.fetch.Done(msg.ticket.Generation())
		cmds = append(cmds, m.completeFetch(msg))

	case healthPillMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setErrorMessage("Health pill failed: "+msg.err.Error()))
			break
		}
		if msg.name == m.widget.Name() {
			pill := msg.pill
			m.pill = &pill
			m.pillName = msg.name
			m.updateStatsView()
		}

	case copiedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setErrorMessage("Copy failed: "+msg.err.Error()))
		} else {
			cmds = append(cmds, m.setStatusMessage(msg.summary))
		}

	case specSavedMsg:
		if msg.err != nil {
			log.Warnf("failed to save slicing spec of %s: %v", msg.name, msg.err)
			cmds = append(cmds, m.setErrorMessage("Failed to save slicing spec: "+msg.err.Error()))
		}

	case clearStatusMsg:
		m.statusMsg = ""
		m.fullStatusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	case errorMsg:
		cmds = append(cmds, m.setErrorMessage(string(msg)))
	}

	// Transitions queue the new spec; persist it once per update
	if spec := m.specChanges.Take(); spec != nil {
		cmds = append(cmds, m.saveSpec(*spec))
	}

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeStats:
		return m.renderStats()
	case ModeInspect:
		return m.renderInspect()
	case ModePicker:
		return m.renderPicker()
	case ModeSwap:
		return m.renderSwapMenu()
	default:
		return m.renderMain()
	}
}

// Custom message types
type fetchedMsg struct {
	widget *widget.Widget // widget that issued the ticket
	ticket widget.Ticket
	block  *tensor.Block
	err    error
}

type healthPillMsg struct {
	name string
	pill tensor.HealthPill
	err  error
}

type copiedMsg struct {
	summary string
	err     error
}

type specSavedMsg struct {
	name string
	err  error
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

type errorMsg string

// messageTimeout is how long status and error messages stay in the footer
var messageTimeout = 5 * time.Second

// Helper methods for setting messages with timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.fullStatusMsg = msg
	m.statusMsg = truncateMessage(msg)
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	m.errorMsg = truncateMessage(msg)
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// truncateMessage shortens a message for footer display
func truncateMessage(msg string) string {
	if len(msg) > StatusMaxLength {
		return msg[:StatusMaxLength-3] + "..."
	}
	return msg
}
