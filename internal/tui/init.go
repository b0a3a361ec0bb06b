package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/tensorflow/tensorboard-sub001/internal/config"
	"github.com/tensorflow/tensorboard-sub001/internal/history"
	"github.com/tensorflow/tensorboard-sub001/internal/keybinds"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
	gridview "github.com/tensorflow/tensorboard-sub001/internal/viewport"
	"github.com/tensorflow/tensorboard-sub001/internal/widget"
)

// Options configure the TUI
type Options struct {
	// Path is the tensor file to open
	Path string
	// Tensor names the tensor shown first; empty shows the first one
	Tensor string
	// Query selects arrays in JSON and YAML files
	Query string

	Settings config.Settings
	// Keybinds defaults to the built-in bindings when nil
	Keybinds *keybinds.Registry
	// Store restores and saves slicing specs; nil disables both
	Store *history.Manager
}

// New creates a new TUI model showing the tensors of col
func New(col *tensor.Collection, opts Options) (Model, error) {
	if len(col.Tensors) == 0 {
		return Model{}, fmt.Errorf("%w: %s holds no tensors", tensor.ErrTensorNotFound, col.Source)
	}
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}

	input := textinput.New()
	input.Prompt = "index: "
	input.CharLimit = 20
	input.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		settings:    opts.Settings,
		keybinds:    opts.Keybinds,
		store:       opts.Store,
		collection:  col,
		source:      history.SourceKey(col.Source),
		mode:        ModeGrid,
		fetch:       &FetchState{},
		specChanges: &SpecChangeState{},
		indexInput:  input,
		picker:      newPicker(col),
		modalView:   viewport.New(80, 20),
		helpView:    viewport.New(80, 20),
	}

	index := 0
	if opts.Tensor != "" {
		named, err := col.Find(opts.Tensor)
		if err != nil {
			return Model{}, err
		}
		for i, t := range col.Tensors {
			if t.Name == named.Name {
				index = i
			}
		}
	}
	if err := m.openTensor(index); err != nil {
		return Model{}, err
	}

	return m, nil
}

// Run loads the file and starts the TUI
func Run(opts Options) error {
	col, err := tensor.Load(opts.Path, tensor.LoadOptions{Query: opts.Query})
	if err != nil {
		return err
	}
	log.Infof("opened %s with %d tensors", opts.Path, len(col.Tensors))

	m, err := New(col, opts)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	// Start TUI (pass pointer since Update uses pointer receiver)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

// measurer sizes value cells from the display settings
func (m *Model) measurer() gridview.Uniform {
	return gridview.Uniform{Row: 1, Column: m.settings.CellWidth + m.settings.ColumnGap}
}

// openTensor makes the tensor at index current. The stored slicing spec of
// the tensor is restored when there is one for the same shape.
func (m *Model) openTensor(index int) error {
	named := m.collection.Tensors[index]

	w, err := widget.New(named.View, widget.Options{
		Name:      named.Name,
		Precision: m.settings.Precision,
		Measurer:  m.measurer(),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", named.Name, err)
	}

	if m.store != nil {
		spec, err := m.store.Load(m.source, named.Name, named.View.Spec().Shape)
		if err != nil {
			log.Warnf("failed to load slicing spec of %s: %v", named.Name, err)
		} else if spec != nil {
			if err := w.SetSlicingSpec(*spec); err != nil {
				log.Warnf("ignoring stored slicing spec of %s: %v", named.Name, err)
			} else {
				log.Debugf("restored slicing spec of %s", named.Name)
			}
		}
	}

	changes := m.specChanges
	w.OnSlicingSpecChange(func(spec shape.SlicingSpec) {
		changes.Push(spec)
	})

	if m.widget != nil {
		m.fetch.Cancel()
	}
	m.tensorIndex = index
	m.widget = w
	m.lastFrame = widget.Frame{}
	m.pill = nil
	m.dimFocus = firstSlicedDim(w.SlicingSpec())
	return nil
}

// firstSlicedDim returns the first pinned dimension, or 0
func firstSlicedDim(spec shape.SlicingSpec) int {
	if dims := spec.SlicingDims(); len(dims) > 0 {
		return dims[0]
	}
	return 0
}
