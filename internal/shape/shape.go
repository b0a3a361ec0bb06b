package shape

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape represents the dimensions of a tensor. Dimension i has size Shape[i].
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// ErrTooLarge is returned for shapes whose element count does not fit in an int.
var ErrTooLarge = errors.New("too many elements")

// NumElements returns the total number of elements in the tensor. It
// returns math.MaxInt when the count overflows; Validate reports that case.
func (s Shape) NumElements() int {
	n, ok := s.numElements()
	if !ok {
		return math.MaxInt
	}
	return n
}

func (s Shape) numElements() (int, bool) {
	n := 1
	for _, dim := range s {
		if dim == 0 {
			return 0, true
		}
	}
	for _, dim := range s {
		if dim < 0 || n > math.MaxInt/dim {
			return 0, false
		}
		n *= dim
	}
	return n, true
}

// IsEmpty reports whether any dimension has size 0.
func (s Shape) IsEmpty() bool {
	for _, dim := range s {
		if dim == 0 {
			return true
		}
	}
	return false
}

// Validate checks that every dimension is non-negative and that the
// element count fits in an int.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	if _, ok := s.numElements(); !ok {
		return fmt.Errorf("%w: shape %s", ErrTooLarge, FormatShapeForDisplay(s))
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Strides calculates row-major strides for the shape.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// FormatShapeForDisplay renders a shape for the widget header: "scalar" for
// rank 0, "[4,8]" otherwise.
func FormatShapeForDisplay(s Shape) string {
	if len(s) == 0 {
		return "scalar"
	}
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
