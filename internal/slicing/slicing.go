// Package slicing implements the transitions of a slicing spec driven by
// user interaction: swapping which dimension is viewed as rows or columns
// and changing the index a sliced dimension is pinned to.
//
// Every transition takes a spec by value and returns a new one. The input
// is never modified, so callers can keep the previous spec around when a
// transition is rejected.
package slicing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

// Viewing positions.
const (
	RowPos = 0
	ColPos = 1
)

var (
	// ErrInvalidSwap is returned when a dimension swap would break the
	// row-before-column ordering or names a dimension that is not sliced.
	ErrInvalidSwap = errors.New("invalid dimension swap")

	// ErrNotSliced is returned when changing the index of a dimension that
	// is not pinned.
	ErrNotSliced = errors.New("dimension is not sliced")

	// ErrIndexOutOfRange is returned for a pinned index outside the dimension.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMalformedIndex is returned when index text is not an integer.
	ErrMalformedIndex = errors.New("malformed index")
)

// SwapCandidates returns the sliced dimensions that may replace the viewing
// dimension at viewingPos. The row dimension must precede the column
// dimension in the tensor, so rows can only take a sliced
// dimension below the current column dimension and columns only one above
// the current row dimension.
func SwapCandidates(spec shape.SlicingSpec, viewingPos int) []int {
	if viewingPos < 0 || viewingPos >= len(spec.ViewingDims) {
		return nil
	}

	var candidates []int
	for _, dim := range spec.SlicingDims() {
		switch {
		case len(spec.ViewingDims) == 1:
			candidates = append(candidates, dim)
		case viewingPos == RowPos && dim < spec.ViewingDims[ColPos]:
			candidates = append(candidates, dim)
		case viewingPos == ColPos && dim > spec.ViewingDims[RowPos]:
			candidates = append(candidates, dim)
		}
	}
	return candidates
}

// SwapViewingDimension makes newDim the viewing dimension at viewingPos. The
// dimension it replaces becomes sliced and pinned to index 0 (NoIndex if it
// is empty). Both ranges are reset; the viewport must lay the spec out again.
func SwapViewingDimension(s shape.Shape, spec shape.SlicingSpec, viewingPos, newDim int) (shape.SlicingSpec, error) {
	if viewingPos < 0 || viewingPos >= len(spec.ViewingDims) {
		return spec, fmt.Errorf("%w: no viewing dimension at position %d", ErrInvalidSwap, viewingPos)
	}
	if !containsInt(SwapCandidates(spec, viewingPos), newDim) {
		return spec, fmt.Errorf("%w: dimension %d cannot replace viewing dimension %d",
			ErrInvalidSwap, newDim, spec.ViewingDims[viewingPos])
	}

	out := spec.Clone()
	oldDim := out.ViewingDims[viewingPos]
	out.ViewingDims[viewingPos] = newDim

	slicing := make([]shape.DimAndIndex, 0, len(out.SlicingDimsAndIndices))
	for _, di := range out.SlicingDimsAndIndices {
		if di.Dim != newDim {
			slicing = append(slicing, di)
		}
	}
	index := 0
	if s[oldDim] == 0 {
		index = shape.NoIndex
	}
	slicing = append(slicing, shape.DimAndIndex{Dim: oldDim, Index: index})
	sort.Slice(slicing, func(i, j int) bool {
		return slicing[i].Dim < slicing[j].Dim
	})

	out.SlicingDimsAndIndices = slicing
	out.VerticalRange = nil
	out.HorizontalRange = nil
	return out, nil
}

// ChangeSlicedIndex pins dim to newIndex.
func ChangeSlicedIndex(s shape.Shape, spec shape.SlicingSpec, dim, newIndex int) (shape.SlicingSpec, error) {
	pos := slicingPosition(spec, dim)
	if pos < 0 {
		return spec, fmt.Errorf("%w: %d", ErrNotSliced, dim)
	}
	if newIndex < 0 || newIndex >= s[dim] {
		return spec, fmt.Errorf("%w: %d not in [0, %d) for dimension %d", ErrIndexOutOfRange, newIndex, s[dim], dim)
	}

	out := spec.Clone()
	out.SlicingDimsAndIndices[pos].Index = newIndex
	return out, nil
}

// StepSlicedIndex moves the pinned index of dim by delta, stopping at the
// ends of the dimension.
func StepSlicedIndex(s shape.Shape, spec shape.SlicingSpec, dim, delta int) (shape.SlicingSpec, error) {
	current, ok := spec.SlicedIndex(dim)
	if !ok {
		return spec, fmt.Errorf("%w: %d", ErrNotSliced, dim)
	}
	if s[dim] == 0 {
		return spec, fmt.Errorf("%w: dimension %d is empty", ErrIndexOutOfRange, dim)
	}
	next := min(max(current+delta, 0), s[dim]-1)
	return ChangeSlicedIndex(s, spec, dim, next)
}

// ParseIndex parses the text of an index edit field. Only plain integers
// are accepted.
func ParseIndex(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: empty", ErrMalformedIndex)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedIndex, text)
	}
	return n, nil
}

func slicingPosition(spec shape.SlicingSpec, dim int) int {
	for i, di := range spec.SlicingDimsAndIndices {
		if di.Dim == dim {
			return i
		}
	}
	return -1
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
