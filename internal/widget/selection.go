package widget

import (
	"context"
	"strings"

	"github.com/tensorflow/tensorboard-sub001/internal/selection"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
	"github.com/tensorflow/tensorboard-sub001/internal/viewport"
)

// Cursor returns the row and column of the selection cursor.
func (w *Widget) Cursor() (row, col int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cursorRow, w.cursorCol
}

// MoveSelection moves the cursor one cell and collapses the selection onto
// it. The window follows the cursor.
func (w *Widget) MoveSelection(dir viewport.Direction) error {
	return w.moveCursor(dir, false)
}

// ExtendSelection moves the cursor one cell, growing the selection from its
// anchor.
func (w *Widget) ExtendSelection(dir viewport.Direction) error {
	return w.moveCursor(dir, true)
}

func (w *Widget) moveCursor(dir viewport.Direction, extend bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.laidOut {
		return ErrNotLaidOut
	}

	switch dir {
	case viewport.Up:
		w.cursorRow--
	case viewport.Down:
		w.cursorRow++
	case viewport.Left:
		w.cursorCol--
	case viewport.Right:
		w.cursorCol++
	}
	w.clampCursorLocked()
	if !extend {
		w.anchorRow, w.anchorCol = w.cursorRow, w.cursorCol
	}

	st, err := w.state.EnsureVisible(w.cursorRow, w.cursorCol)
	if err != nil {
		return err
	}
	w.state = st
	return nil
}

func (w *Widget) clampCursorLocked() {
	rows, cols := w.extentLocked()
	w.cursorRow = min(max(w.cursorRow, 0), max(rows-1, 0))
	w.cursorCol = min(max(w.cursorCol, 0), max(cols-1, 0))
	w.anchorRow = min(max(w.anchorRow, 0), max(rows-1, 0))
	w.anchorCol = min(max(w.anchorCol, 0), max(cols-1, 0))
}

// extentLocked returns the sizes of the row and column dimensions. Missing
// viewing dimensions count as size 1.
func (w *Widget) extentLocked() (rows, cols int) {
	rows, cols = 1, 1
	viewing := w.state.Spec().ViewingDims
	if len(viewing) > 0 {
		rows = w.spec.Shape[viewing[0]]
	}
	if len(viewing) > 1 {
		cols = w.spec.Shape[viewing[1]]
	}
	return rows, cols
}

// SelectionBox returns the rectangle between the anchor and the cursor.
func (w *Widget) SelectionBox() selection.Box {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.boxLocked()
}

func (w *Widget) boxLocked() selection.Box {
	return selection.Box{
		RowStart: min(w.anchorRow, w.cursorRow),
		ColStart: min(w.anchorCol, w.cursorCol),
		RowCount: abs(w.anchorRow-w.cursorRow) + 1,
		ColCount: abs(w.anchorCol-w.cursorCol) + 1,
	}
}

// selectionLocked builds the selection for the current spec. It is nil for
// empty tensors, which have nothing to select.
func (w *Widget) selectionLocked() *selection.Selection {
	sel, err := selection.New(w.spec.Shape, w.state.Spec(), w.boxLocked())
	if err != nil {
		return nil
	}
	return sel
}

// CellStatus classifies the cell at row, col of the viewing dimensions.
func (w *Widget) CellStatus(row, col int) selection.Statuses {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.laidOut {
		return nil
	}
	sel := w.selectionLocked()
	if sel == nil {
		return nil
	}
	status, err := sel.ClassifyCell(row, col)
	if err != nil {
		return nil
	}
	return status
}

// SelectionTSV returns the selected values as tab-separated rows.
func (w *Widget) SelectionTSV(ctx context.Context) (string, error) {
	w.mu.RLock()
	if !w.laidOut {
		w.mu.RUnlock()
		return "", ErrNotLaidOut
	}
	sel := w.selectionLocked()
	w.mu.RUnlock()
	if sel == nil {
		return "", nil
	}

	box := sel.Box()
	var b strings.Builder
	for r := box.RowStart; r < box.RowEnd(); r++ {
		for c := box.ColStart; c < box.ColEnd(); c++ {
			v, err := w.view.Get(ctx, sel.Indices(r, c)...)
			if err != nil {
				return "", err
			}
			if c > box.ColStart {
				b.WriteByte('\t')
			}
			b.WriteString(tensor.FormatValue(v, w.spec.DType, w.precision))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
