// Package selection classifies tensor elements against a rectangular
// selection drawn over the visible rows and columns of a slicing spec.
package selection

import (
	"errors"
	"fmt"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

var (
	// ErrEmptyTensor is returned when a selection is made over a tensor with
	// a zero-sized dimension.
	ErrEmptyTensor = errors.New("cannot select in an empty tensor")

	// ErrNotImplemented is returned for depth-dimension selections.
	ErrNotImplemented = errors.New("not implemented")

	// ErrRankMismatch is returned when an index tuple does not match the rank.
	ErrRankMismatch = errors.New("index rank mismatch")
)

// CellStatus describes how an element relates to the selection.
type CellStatus int

const (
	Selected CellStatus = iota
	TopEdge
	BottomEdge
	LeftEdge
	RightEdge
)

func (s CellStatus) String() string {
	switch s {
	case Selected:
		return "SELECTED"
	case TopEdge:
		return "TOP_EDGE"
	case BottomEdge:
		return "BOTTOM_EDGE"
	case LeftEdge:
		return "LEFT_EDGE"
	case RightEdge:
		return "RIGHT_EDGE"
	}
	return fmt.Sprintf("CellStatus(%d)", int(s))
}

// Statuses is the classification of one element. A nil Statuses means the
// element is outside the selection.
type Statuses []CellStatus

// Has reports whether status is present.
func (s Statuses) Has(status CellStatus) bool {
	for _, st := range s {
		if st == status {
			return true
		}
	}
	return false
}

// Box is a rectangular selection in viewing-dimension coordinates.
type Box struct {
	RowStart int `json:"rowStart"`
	ColStart int `json:"colStart"`
	RowCount int `json:"rowCount"`
	ColCount int `json:"colCount"`
}

// RowEnd returns one past the last selected row.
func (b Box) RowEnd() int { return b.RowStart + b.RowCount }

// ColEnd returns one past the last selected column.
func (b Box) ColEnd() int { return b.ColStart + b.ColCount }

// Selection is a read-only view over a shape, a slicing spec and a box.
type Selection struct {
	shape shape.Shape
	spec  shape.SlicingSpec
	box   Box
}

// New creates a selection. The spec is copied.
func New(s shape.Shape, spec shape.SlicingSpec, box Box) (*Selection, error) {
	if s.IsEmpty() {
		return nil, fmt.Errorf("%w: shape %s", ErrEmptyTensor, shape.FormatShapeForDisplay(s))
	}
	if spec.DepthDim != nil {
		return nil, fmt.Errorf("depth dimension selection: %w", ErrNotImplemented)
	}
	if box.RowStart < 0 || box.ColStart < 0 || box.RowCount < 0 || box.ColCount < 0 {
		return nil, fmt.Errorf("invalid selection box %+v: fields must be non-negative", box)
	}
	return &Selection{
		shape: s.Clone(),
		spec:  spec.Clone(),
		box:   box,
	}, nil
}

// Box returns the selection rectangle.
func (s *Selection) Box() Box {
	return s.box
}

// Classify returns the statuses of the element at indices, or nil if the
// element is not selected. Edge statuses are only reported for selected
// elements.
func (s *Selection) Classify(indices []int) (Statuses, error) {
	if len(indices) != s.shape.Rank() {
		return nil, fmt.Errorf("%w: got %d indices for rank %d", ErrRankMismatch, len(indices), s.shape.Rank())
	}

	for _, di := range s.spec.SlicingDimsAndIndices {
		if indices[di.Dim] != di.Index {
			return nil, nil
		}
	}

	var status Statuses
	switch len(s.spec.ViewingDims) {
	case 0:
		status = Statuses{Selected, TopEdge, BottomEdge, LeftEdge, RightEdge}

	case 1:
		row := indices[s.spec.ViewingDims[0]]
		if row >= s.box.RowStart && row < s.box.RowEnd() {
			status = append(status, Selected)
			if row == s.box.RowStart {
				status = append(status, TopEdge)
			}
			if row == s.box.RowEnd()-1 {
				status = append(status, BottomEdge)
			}
			status = append(status, LeftEdge, RightEdge)
		}

	case 2:
		row := indices[s.spec.ViewingDims[0]]
		col := indices[s.spec.ViewingDims[1]]
		if row >= s.box.RowStart && row < s.box.RowEnd() &&
			col >= s.box.ColStart && col < s.box.ColEnd() {
			status = append(status, Selected)
			if row == s.box.RowStart {
				status = append(status, TopEdge)
			}
			if row == s.box.RowEnd()-1 {
				status = append(status, BottomEdge)
			}
			if col == s.box.ColStart {
				status = append(status, LeftEdge)
			}
			if col == s.box.ColEnd()-1 {
				status = append(status, RightEdge)
			}
		}

	default:
		return nil, fmt.Errorf("%w: %d", shape.ErrTooManyViewingDims, len(s.spec.ViewingDims))
	}

	if len(status) == 0 {
		return nil, nil
	}
	return status, nil
}

// ClassifyCell classifies the element shown at a row/column position of the
// viewing dimensions, filling pinned dimensions from the spec.
func (s *Selection) ClassifyCell(row, col int) (Statuses, error) {
	return s.Classify(s.Indices(row, col))
}

// Indices expands a row/column position into a full index tuple.
func (s *Selection) Indices(row, col int) []int {
	indices := make([]int, s.shape.Rank())
	for _, di := range s.spec.SlicingDimsAndIndices {
		indices[di.Dim] = di.Index
	}
	if len(s.spec.ViewingDims) > 0 {
		indices[s.spec.ViewingDims[0]] = row
	}
	if len(s.spec.ViewingDims) > 1 {
		indices[s.spec.ViewingDims[1]] = col
	}
	return indices
}

// Contains reports whether the element at indices is selected.
func (s *Selection) Contains(indices []int) bool {
	status, err := s.Classify(indices)
	return err == nil && status.Has(Selected)
}
