package widget

import (
	"fmt"
	"reflect"

	"github.com/tensorflow/tensorboard-sub001/internal/selection"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/slicing"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// Cell is one value of a frame. Row and Col are indices into the viewing
// dimensions, not into the window.
type Cell struct {
	Row    int
	Col    int
	Value  float64
	Text   string
	Status selection.Statuses
}

// Frame is everything needed to draw the widget once.
type Frame struct {
	Name        string
	Tensor      tensor.Spec
	SlicingSpec shape.SlicingSpec
	Controls    []slicing.DimControl

	// RowIndices and ColIndices label the visible rows and columns. A 1D
	// tensor has no column indices, a scalar has neither.
	RowIndices []int
	ColIndices []int
	Cells      [][]Cell

	RowsCutoff bool
	ColsCutoff bool

	// Stale is set when the values shown were fetched for another spec and
	// Cells is empty.
	Stale bool
}

// Header is the one-line tensor description, e.g. "weights float32 [4,8]".
func (f Frame) Header() string {
	header := fmt.Sprintf("%s %s", f.Tensor.DType, shape.FormatShapeForDisplay(f.Tensor.Shape))
	if f.Name != "" {
		header = f.Name + " " + header
	}
	return header
}

// Frame builds a frame from the current layout and the last completed
// fetch.
func (w *Widget) Frame() Frame {
	w.mu.RLock()
	defer w.mu.RUnlock()

	spec := w.currentSpecLocked()
	f := Frame{
		Name:        w.name,
		Tensor:      tensor.Spec{DType: w.spec.DType, Shape: w.spec.Shape.Clone()},
		SlicingSpec: spec,
		Controls:    slicing.Describe(w.spec.Shape, spec),
		RowsCutoff:  w.state.RowsCutoff(),
		ColsCutoff:  w.state.ColsCutoff(),
	}
	if !w.laidOut {
		f.Stale = true
		return f
	}

	f.RowIndices = rangeIndices(spec.VerticalRange)
	f.ColIndices = rangeIndices(spec.HorizontalRange)

	if w.block == nil || !reflect.DeepEqual(w.blockSpec, spec) {
		f.Stale = true
		return f
	}

	rows, cols := f.RowIndices, f.ColIndices
	if len(spec.ViewingDims) == 0 {
		rows = []int{0}
	}
	if len(spec.ViewingDims) < 2 {
		cols = []int{0}
	}
	if len(w.block.Values) < len(rows)*len(cols) {
		// Pinned empty dimension: nothing to show.
		return f
	}

	sel := w.selectionLocked()
	f.Cells = make([][]Cell, len(rows))
	for i, row := range rows {
		f.Cells[i] = make([]Cell, len(cols))
		for j, col := range cols {
			v := w.block.At(i, j)
			cell := Cell{
				Row:   row,
				Col:   col,
				Value: v,
				Text:  tensor.FormatValue(v, w.spec.DType, w.precision),
			}
			if sel != nil {
				cell.Status, _ = sel.ClassifyCell(row, col)
			}
			f.Cells[i][j] = cell
		}
	}
	return f
}

func rangeIndices(r *shape.Range) []int {
	if r == nil {
		return nil
	}
	indices := make([]int, 0, r.Len())
	for i := r.Begin; i < r.End; i++ {
		indices = append(indices, i)
	}
	return indices
}
