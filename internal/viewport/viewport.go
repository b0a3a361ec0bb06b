// Package viewport decides how many rows and columns of a tensor's viewing
// dimensions fit on screen and moves that window in response to scrolling.
//
// The available space is injected as a Size plus a Measurer, so the package
// works for any rendering surface. A State is a value: every operation
// returns a new State and leaves the receiver untouched.
package viewport

import (
	"errors"
	"fmt"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

var (
	// ErrMissingRange is returned when scrolling before the layout filled in
	// the visible ranges.
	ErrMissingRange = errors.New("missing range")

	// ErrOutOfBounds is returned for scroll targets outside the dimension.
	ErrOutOfBounds = errors.New("scroll index out of bounds")
)

// Direction of a step or page scroll.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Size is the space available for value cells, in the units the Measurer
// reports (terminal cells for the TUI).
type Size struct {
	Width  int
	Height int
}

// Measurer reports how much space one row or column takes.
type Measurer interface {
	RowHeight(row int) int
	ColumnWidth(col int) int
}

// Uniform is a Measurer where every row and column has the same size.
type Uniform struct {
	Row    int
	Column int
}

func (u Uniform) RowHeight(int) int   { return u.Row }
func (u Uniform) ColumnWidth(int) int { return u.Column }

// State is the laid-out navigation state of one widget.
type State struct {
	shape shape.Shape
	spec  shape.SlicingSpec

	rowsFit, colsFit       int
	rowsCutoff, colsCutoff bool
}

// Initialize lays out a tensor. When prior is non-nil and valid for s it is
// reused (deep-copied), keeping its range begins; otherwise the default spec
// is used.
func Initialize(s shape.Shape, prior *shape.SlicingSpec, avail Size, m Measurer) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, err
	}

	spec := shape.DefaultSlicingSpec(s)
	if prior != nil {
		if err := prior.Validate(s); err != nil {
			return State{}, fmt.Errorf("prior slicing spec: %w", err)
		}
		spec = prior.Clone()
	}

	st := State{shape: s.Clone(), spec: spec}
	return st.layout(avail, m), nil
}

// Relayout recomputes how many rows and columns fit, keeping the current
// range begins where possible. Use it after a resize or after a transition
// that reset the ranges.
func (st State) Relayout(avail Size, m Measurer) State {
	out := st.clone()
	return out.layout(avail, m)
}

// WithSpec replaces the spec and lays it out again. The spec must be valid
// for the state's shape.
func (st State) WithSpec(spec shape.SlicingSpec, avail Size, m Measurer) (State, error) {
	if err := spec.Validate(st.shape); err != nil {
		return st, err
	}
	out := st.clone()
	out.spec = spec.Clone()
	return out.layout(avail, m), nil
}

func (st State) layout(avail Size, m Measurer) State {
	switch len(st.spec.ViewingDims) {
	case 0:
		st.spec.VerticalRange = nil
		st.spec.HorizontalRange = nil
		st.rowsFit, st.colsFit = 0, 0
		st.rowsCutoff, st.colsCutoff = false, false
	case 1:
		st.spec.VerticalRange, st.rowsFit, st.rowsCutoff =
			fit(st.shape[st.spec.ViewingDims[0]], st.spec.VerticalRange, avail.Height, m.RowHeight)
		st.spec.HorizontalRange = nil
		st.colsFit, st.colsCutoff = 0, false
	default:
		st.spec.VerticalRange, st.rowsFit, st.rowsCutoff =
			fit(st.shape[st.spec.ViewingDims[0]], st.spec.VerticalRange, avail.Height, m.RowHeight)
		st.spec.HorizontalRange, st.colsFit, st.colsCutoff =
			fit(st.shape[st.spec.ViewingDims[1]], st.spec.HorizontalRange, avail.Width, m.ColumnWidth)
	}
	return st
}

// fit measures entries of a dimension of the given size, starting at the
// previous range begin, until they exceed the available space. At least one
// entry is shown for a non-empty dimension. The returned range may start
// earlier than prev so the window stays full near the end of the dimension.
func fit(size int, prev *shape.Range, avail int, measure func(int) int) (*shape.Range, int, bool) {
	if size == 0 {
		return &shape.Range{}, 0, false
	}

	begin := 0
	if prev != nil {
		begin = min(prev.Begin, size-1)
	}

	count, used := 0, 0
	for i := begin; i < size; i++ {
		used += measure(i)
		if used > avail && count > 0 {
			break
		}
		count++
	}
	// Fill the window backwards when it ran out of entries before space.
	for begin > 0 {
		next := used + measure(begin-1)
		if next > avail {
			break
		}
		begin--
		count++
		used = next
	}

	return &shape.Range{Begin: begin, End: begin + count}, count, count < size
}

// Shape returns a copy of the laid-out shape.
func (st State) Shape() shape.Shape {
	return st.shape.Clone()
}

// Spec returns a deep copy of the current spec.
func (st State) Spec() shape.SlicingSpec {
	return st.spec.Clone()
}

// RowsFit returns how many rows the layout shows.
func (st State) RowsFit() int { return st.rowsFit }

// ColsFit returns how many columns the layout shows.
func (st State) ColsFit() int { return st.colsFit }

// RowsCutoff reports whether some rows do not fit, enabling vertical scrolling.
func (st State) RowsCutoff() bool { return st.rowsCutoff }

// ColsCutoff reports whether some columns do not fit, enabling horizontal scrolling.
func (st State) ColsCutoff() bool { return st.colsCutoff }

// ScrollVertically moves the row window to start at index.
func (st State) ScrollVertically(index int) (State, error) {
	if len(st.spec.ViewingDims) == 0 {
		return st, nil
	}
	return st.scroll(0, index)
}

// ScrollHorizontally moves the column window to start at index.
func (st State) ScrollHorizontally(index int) (State, error) {
	if len(st.spec.ViewingDims) < 2 {
		return st, nil
	}
	return st.scroll(1, index)
}

func (st State) scroll(pos, index int) (State, error) {
	r, fitCount, name := st.axis(pos)
	if r == nil {
		return st, fmt.Errorf("%w: %s range not initialized", ErrMissingRange, name)
	}
	size := st.shape[st.spec.ViewingDims[pos]]
	if index < 0 || index >= size {
		return st, fmt.Errorf("%w: %s index %d not in [0, %d)", ErrOutOfBounds, name, index, size)
	}

	out := st.clone()
	nr := &shape.Range{Begin: index, End: min(index+fitCount, size)}
	if pos == 0 {
		out.spec.VerticalRange = nr
	} else {
		out.spec.HorizontalRange = nr
	}
	return out, nil
}

// ScrollStep moves the window one row or column. It does nothing when the
// axis does not exist, everything already fits, or the window is at the
// boundary.
func (st State) ScrollStep(dir Direction) (State, error) {
	pos, delta := axisOf(dir)
	if pos >= len(st.spec.ViewingDims) {
		return st, nil
	}
	r, _, name := st.axis(pos)
	if r == nil {
		return st, fmt.Errorf("%w: %s range not initialized", ErrMissingRange, name)
	}
	cutoff := st.rowsCutoff
	if pos == 1 {
		cutoff = st.colsCutoff
	}
	if !cutoff {
		return st, nil
	}

	size := st.shape[st.spec.ViewingDims[pos]]
	if (delta < 0 && r.Begin == 0) || (delta > 0 && r.End >= size) {
		return st, nil
	}
	return st.scroll(pos, r.Begin+delta)
}

// Page moves the window by a whole page, stopping so the last page is full.
func (st State) Page(dir Direction) (State, error) {
	pos, delta := axisOf(dir)
	if pos >= len(st.spec.ViewingDims) {
		return st, nil
	}
	r, fitCount, name := st.axis(pos)
	if r == nil {
		return st, fmt.Errorf("%w: %s range not initialized", ErrMissingRange, name)
	}
	size := st.shape[st.spec.ViewingDims[pos]]
	if size == 0 {
		return st, nil
	}
	begin := r.Begin + delta*max(fitCount, 1)
	begin = min(max(begin, 0), max(size-fitCount, 0))
	return st.scroll(pos, begin)
}

// ScrollToEdge moves the window to the first (Up, Left) or last (Down, Right)
// page of an axis.
func (st State) ScrollToEdge(dir Direction) (State, error) {
	pos, delta := axisOf(dir)
	if pos >= len(st.spec.ViewingDims) {
		return st, nil
	}
	r, fitCount, name := st.axis(pos)
	if r == nil {
		return st, fmt.Errorf("%w: %s range not initialized", ErrMissingRange, name)
	}
	size := st.shape[st.spec.ViewingDims[pos]]
	if size == 0 {
		return st, nil
	}
	if delta < 0 {
		return st.scroll(pos, 0)
	}
	return st.scroll(pos, max(size-fitCount, 0))
}

// EnsureVisible scrolls the least amount needed for the cell at row, col to
// be inside the window. Coordinates of axes that do not exist are ignored.
func (st State) EnsureVisible(row, col int) (State, error) {
	out := st
	var err error
	if len(st.spec.ViewingDims) >= 1 {
		out, err = out.ensureAxis(0, row)
		if err != nil {
			return st, err
		}
	}
	if len(st.spec.ViewingDims) >= 2 {
		out, err = out.ensureAxis(1, col)
		if err != nil {
			return st, err
		}
	}
	return out, nil
}

func (st State) ensureAxis(pos, index int) (State, error) {
	r, fitCount, name := st.axis(pos)
	if r == nil {
		return st, fmt.Errorf("%w: %s range not initialized", ErrMissingRange, name)
	}
	if st.shape[st.spec.ViewingDims[pos]] == 0 {
		return st, nil
	}
	switch {
	case index < r.Begin:
		return st.scroll(pos, index)
	case index >= r.End:
		return st.scroll(pos, max(index-fitCount+1, 0))
	}
	return st, nil
}

func (st State) axis(pos int) (*shape.Range, int, string) {
	if pos == 0 {
		return st.spec.VerticalRange, st.rowsFit, "vertical"
	}
	return st.spec.HorizontalRange, st.colsFit, "horizontal"
}

func axisOf(dir Direction) (pos, delta int) {
	switch dir {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return 1, -1
	default:
		return 1, 1
	}
}

func (st State) clone() State {
	out := st
	out.shape = st.shape.Clone()
	out.spec = st.spec.Clone()
	return out
}
