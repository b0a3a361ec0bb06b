// Package widget ties the slicing, viewport and selection models to a tensor
// data source. A Widget owns the navigation state of one tensor and turns it
// into Frames the terminal UI draws.
//
// Values are fetched in two steps so the UI can run the fetch off its event
// loop: BeginFetch hands out a Ticket, Fetch reads the block, CompleteFetch
// stores it. Tickets carry a generation; completing a ticket older than the
// latest one fails with ErrStaleFetch and the result is dropped.
// Generations are unique across widgets, so a ticket issued by one widget
// never completes on another.
package widget

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/slicing"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
	"github.com/tensorflow/tensorboard-sub001/internal/viewport"
)

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrStaleFetch     = errors.New("stale fetch discarded")
	ErrNotLaidOut     = errors.New("widget has not been laid out")
)

// fetchGenerations numbers tickets of every widget
var fetchGenerations atomic.Uint64

// DefaultMeasurer sizes every row one line high and every column ten
// cells wide.
var DefaultMeasurer = viewport.Uniform{Row: 1, Column: 10}

// Options configure a Widget.
type Options struct {
	Name      string
	Precision int
	Measurer  viewport.Measurer
}

// Ticket identifies one fetch.
type Ticket struct {
	generation uint64
	spec       shape.SlicingSpec
}

// Generation returns the fetch generation of the ticket.
func (t Ticket) Generation() uint64 { return t.generation }

// Spec returns the slicing spec the fetch reads.
func (t Ticket) Spec() shape.SlicingSpec { return t.spec.Clone() }

// Widget is safe for concurrent use. Change listeners run outside the lock
// and may call back into the widget.
type Widget struct {
	mu sync.RWMutex

	name      string
	view      tensor.View
	spec      tensor.Spec
	precision int
	measurer  viewport.Measurer

	state   viewport.State
	laidOut bool
	avail   viewport.Size
	pending *shape.SlicingSpec

	block      *tensor.Block
	blockSpec  shape.SlicingSpec
	generation uint64

	cursorRow, cursorCol int
	anchorRow, anchorCol int

	listeners []func(shape.SlicingSpec)
}

// New creates a widget for view. Nothing is fetched until the first
// Render or BeginFetch.
func New(view tensor.View, opts Options) (*Widget, error) {
	spec := view.Spec()
	if err := spec.Shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tensor shape: %w", err)
	}
	if opts.Measurer == nil {
		opts.Measurer = DefaultMeasurer
	}
	if opts.Precision <= 0 {
		opts.Precision = tensor.DefaultPrecision
	}
	return &Widget{
		name:      opts.Name,
		view:      view,
		spec:      spec,
		precision: opts.Precision,
		measurer:  opts.Measurer,
	}, nil
}

// Name returns the display name of the tensor.
func (w *Widget) Name() string {
	return w.name
}

// TensorSpec returns the dtype and shape of the tensor.
func (w *Widget) TensorSpec() tensor.Spec {
	return tensor.Spec{DType: w.spec.DType, Shape: w.spec.Shape.Clone()}
}

// SlicingSpec returns a deep copy of the current spec. Before the first
// layout it is the spec that layout will start from.
func (w *Widget) SlicingSpec() shape.SlicingSpec {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentSpecLocked()
}

func (w *Widget) currentSpecLocked() shape.SlicingSpec {
	switch {
	case w.laidOut:
		return w.state.Spec()
	case w.pending != nil:
		return w.pending.Clone()
	}
	return shape.DefaultSlicingSpec(w.spec.Shape)
}

// Controls describes every dimension for the slicing control header.
func (w *Widget) Controls() []slicing.DimControl {
	return slicing.Describe(w.spec.Shape, w.SlicingSpec())
}

// HealthPill summarizes the whole tensor.
func (w *Widget) HealthPill(ctx context.Context) (tensor.HealthPill, error) {
	return w.view.HealthPill(ctx)
}

// OnSlicingSpecChange registers fn to be called with a copy of the spec
// after every successful dimension swap or pinned index change.
func (w *Widget) OnSlicingSpecChange(fn func(shape.SlicingSpec)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Layout fits the viewport to avail. The first call initializes the layout,
// later calls only recompute it when the size changed.
func (w *Widget) Layout(avail viewport.Size) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layoutLocked(avail)
}

func (w *Widget) layoutLocked(avail viewport.Size) error {
	switch {
	case !w.laidOut:
		st, err := viewport.Initialize(w.spec.Shape, w.pending, avail, w.measurer)
		if err != nil {
			return err
		}
		w.state, w.laidOut, w.pending = st, true, nil
	case avail != w.avail:
		w.state = w.state.Relayout(avail, w.measurer)
	}
	w.avail = avail
	return nil
}

// Render lays the widget out for avail, fetches the visible values and
// returns the frame. Calling it again with the same state yields the same
// frame.
func (w *Widget) Render(ctx context.Context, avail viewport.Size) (Frame, error) {
	if err := w.Layout(avail); err != nil {
		return Frame{}, err
	}
	ticket, err := w.BeginFetch()
	if err != nil {
		return Frame{}, err
	}
	block, err := w.Fetch(ctx, ticket)
	if err != nil {
		return Frame{}, err
	}
	if err := w.CompleteFetch(ticket, block); err != nil {
		return Frame{}, err
	}
	return w.Frame(), nil
}

// BeginFetch starts a fetch of the current window. Any fetch begun earlier
// becomes stale.
func (w *Widget) BeginFetch() (Ticket, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.laidOut {
		return Ticket{}, ErrNotLaidOut
	}
	w.generation = fetchGenerations.Add(1)
	return Ticket{generation: w.generation, spec: w.state.Spec()}, nil
}

// Fetch reads the block of values for a ticket. It does not touch widget
// state and may run on any goroutine.
func (w *Widget) Fetch(ctx context.Context, t Ticket) (*tensor.Block, error) {
	block, err := w.view.View(ctx, t.spec)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch values: %w", err)
	}
	return block, nil
}

// CompleteFetch stores the result of a fetch unless a newer one was begun.
func (w *Widget) CompleteFetch(t Ticket, block *tensor.Block) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t.generation != w.generation {
		log.Debugf("dropping fetch %d of %s, latest is %d", t.generation, w.name, w.generation)
		return fmt.Errorf("%w: generation %d, latest %d", ErrStaleFetch, t.generation, w.generation)
	}
	w.block = block
	w.blockSpec = t.spec.Clone()
	return nil
}

// ScrollVertically moves the row window to start at index.
func (w *Widget) ScrollVertically(index int) error {
	return w.scroll(func(st viewport.State) (viewport.State, error) {
		return st.ScrollVertically(index)
	})
}

// ScrollHorizontally moves the column window to start at index.
func (w *Widget) ScrollHorizontally(index int) error {
	return w.scroll(func(st viewport.State) (viewport.State, error) {
		return st.ScrollHorizontally(index)
	})
}

// ScrollStep moves the window by one row or column.
func (w *Widget) ScrollStep(dir viewport.Direction) error {
	return w.scroll(func(st viewport.State) (viewport.State, error) {
		return st.ScrollStep(dir)
	})
}

// Page moves the window by one page.
func (w *Widget) Page(dir viewport.Direction) error {
	return w.scroll(func(st viewport.State) (viewport.State, error) {
		return st.Page(dir)
	})
}

// ScrollToEdge jumps to the first or last page of an axis.
func (w *Widget) ScrollToEdge(dir viewport.Direction) error {
	return w.scroll(func(st viewport.State) (viewport.State, error) {
		return st.ScrollToEdge(dir)
	})
}

func (w *Widget) scroll(fn func(viewport.State) (viewport.State, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.laidOut {
		return ErrNotLaidOut
	}
	st, err := fn(w.state)
	if err != nil {
		return err
	}
	w.state = st
	return nil
}

// NavigateToIndices would scroll to and select the element at indices. It
// is not supported.
func (w *Widget) NavigateToIndices(indices []int) error {
	return fmt.Errorf("navigate to %v: %w", indices, ErrNotImplemented)
}

// SwapViewingDimension makes the sliced dimension dim the row (pos 0) or
// column (pos 1) dimension. The window and the selection start over.
func (w *Widget) SwapViewingDimension(pos, dim int) error {
	return w.transition(true, func(s shape.Shape, cur shape.SlicingSpec) (shape.SlicingSpec, error) {
		return slicing.SwapViewingDimension(s, cur, pos, dim)
	})
}

// ChangeSlicedIndex pins dim to index, keeping the visible window.
func (w *Widget) ChangeSlicedIndex(dim, index int) error {
	return w.transition(false, func(s shape.Shape, cur shape.SlicingSpec) (shape.SlicingSpec, error) {
		return slicing.ChangeSlicedIndex(s, cur, dim, index)
	})
}

// EditSlicedIndex applies the text of an index edit field. Invalid text
// leaves the spec unchanged.
func (w *Widget) EditSlicedIndex(dim int, text string) error {
	index, err := slicing.ParseIndex(text)
	if err != nil {
		return err
	}
	return w.ChangeSlicedIndex(dim, index)
}

// StepSlicedIndex moves the pinned index of dim by delta, clamped to the
// dimension.
func (w *Widget) StepSlicedIndex(dim, delta int) error {
	return w.transition(false, func(s shape.Shape, cur shape.SlicingSpec) (shape.SlicingSpec, error) {
		return slicing.StepSlicedIndex(s, cur, dim, delta)
	})
}

// transition applies fn to the current spec, lays the result out and
// notifies listeners. A transition that leaves the spec as it was notifies
// nobody.
func (w *Widget) transition(resetCursor bool, fn func(shape.Shape, shape.SlicingSpec) (shape.SlicingSpec, error)) error {
	w.mu.Lock()
	if !w.laidOut {
		w.mu.Unlock()
		return ErrNotLaidOut
	}

	cur := w.state.Spec()
	next, err := fn(w.spec.Shape, cur)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if reflect.DeepEqual(cur, next) {
		w.mu.Unlock()
		return nil
	}

	st, err := w.state.WithSpec(next, w.avail, w.measurer)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.state = st
	if resetCursor {
		w.cursorRow, w.cursorCol, w.anchorRow, w.anchorCol = 0, 0, 0, 0
	}
	changed := st.Spec()
	listeners := make([]func(shape.SlicingSpec), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	log.WithFields(log.Fields{
		"tensor":  w.name,
		"viewing": changed.ViewingDims,
		"sliced":  changed.SlicingDimsAndIndices,
	}).Debug("slicing spec changed")
	for _, listener := range listeners {
		listener(changed.Clone())
	}
	return nil
}

// SetSlicingSpec adopts a spec from outside, such as one restored from the
// spec store. A spec compatible with the current one keeps the current
// window where it has none of its own; any other spec lays the widget out
// again. Listeners are not notified.
func (w *Widget) SetSlicingSpec(spec shape.SlicingSpec) error {
	if spec.DepthDim != nil {
		return fmt.Errorf("depth dimension: %w", ErrNotImplemented)
	}
	if err := spec.Validate(w.spec.Shape); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.laidOut {
		pending := spec.Clone()
		w.pending = &pending
		return nil
	}

	cur := w.state.Spec()
	if shape.AreSlicingSpecsCompatible(cur, spec) {
		next := spec.Clone()
		if next.VerticalRange == nil {
			next.VerticalRange = cur.VerticalRange
		}
		if next.HorizontalRange == nil {
			next.HorizontalRange = cur.HorizontalRange
		}
		st, err := w.state.WithSpec(next, w.avail, w.measurer)
		if err != nil {
			return err
		}
		w.state = st
		w.clampCursorLocked()
		return nil
	}

	st, err := viewport.Initialize(w.spec.Shape, &spec, w.avail, w.measurer)
	if err != nil {
		return err
	}
	w.state = st
	w.cursorRow, w.cursorCol, w.anchorRow, w.anchorCol = 0, 0, 0, 0
	return nil
}

// Cutoff reports whether rows and columns extend past the window.
func (w *Widget) Cutoff() (rows, cols bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.RowsCutoff(), w.state.ColsCutoff()
}
