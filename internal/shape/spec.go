package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// NoIndex is the pinned index of a sliced dimension that has size 0.
const NoIndex = -1

var (
	// ErrTooManyViewingDims is returned when a spec views more than two dimensions.
	ErrTooManyViewingDims = errors.New("more than two viewing dimensions")

	// ErrInvalidSpec is returned when a spec does not fit the shape it is used with.
	ErrInvalidSpec = errors.New("invalid slicing spec")
)

// DimAndIndex pins dimension Dim to a single Index.
type DimAndIndex struct {
	Dim   int
	Index int
}

type dimAndIndexJSON struct {
	Dim   int  `json:"dim"`
	Index *int `json:"index"`
}

// MarshalJSON encodes NoIndex as null.
func (d DimAndIndex) MarshalJSON() ([]byte, error) {
	out := dimAndIndexJSON{Dim: d.Dim}
	if d.Index != NoIndex {
		index := d.Index
		out.Index = &index
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null index as NoIndex.
func (d *DimAndIndex) UnmarshalJSON(data []byte) error {
	var in dimAndIndexJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	d.Dim = in.Dim
	d.Index = NoIndex
	if in.Index != nil {
		d.Index = *in.Index
	}
	return nil
}

// Range is a half-open [Begin, End) interval into a viewing dimension.
type Range struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int {
	return r.End - r.Begin
}

// Contains reports whether i lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Begin && i < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Begin, r.End)
}

// SlicingSpec describes how an n-dimensional tensor is shown as a table:
// which dimensions are pinned to a single index, which one or two are shown
// as rows and columns, and which window of those rows and columns is visible.
//
// SlicingSpec is a value. Use Clone before handing it to code that may keep
// it, since the range and depth fields are pointers.
type SlicingSpec struct {
	SlicingDimsAndIndices []DimAndIndex `json:"slicingDimsAndIndices"`
	ViewingDims           []int         `json:"viewingDims"`
	VerticalRange         *Range        `json:"verticalRange"`
	HorizontalRange       *Range        `json:"horizontalRange"`
	DepthDim              *int          `json:"depthDim,omitempty"`
}

// Clone returns a deep copy of the spec.
func (s SlicingSpec) Clone() SlicingSpec {
	out := SlicingSpec{
		SlicingDimsAndIndices: make([]DimAndIndex, len(s.SlicingDimsAndIndices)),
		ViewingDims:           make([]int, len(s.ViewingDims)),
	}
	copy(out.SlicingDimsAndIndices, s.SlicingDimsAndIndices)
	copy(out.ViewingDims, s.ViewingDims)
	if s.VerticalRange != nil {
		r := *s.VerticalRange
		out.VerticalRange = &r
	}
	if s.HorizontalRange != nil {
		r := *s.HorizontalRange
		out.HorizontalRange = &r
	}
	if s.DepthDim != nil {
		d := *s.DepthDim
		out.DepthDim = &d
	}
	return out
}

// RowDim returns the dimension shown as rows, if any.
func (s SlicingSpec) RowDim() (int, bool) {
	if len(s.ViewingDims) < 1 {
		return 0, false
	}
	return s.ViewingDims[0], true
}

// ColDim returns the dimension shown as columns, if any.
func (s SlicingSpec) ColDim() (int, bool) {
	if len(s.ViewingDims) < 2 {
		return 0, false
	}
	return s.ViewingDims[1], true
}

// SlicedIndex returns the index dimension dim is pinned to.
func (s SlicingSpec) SlicedIndex(dim int) (int, bool) {
	for _, di := range s.SlicingDimsAndIndices {
		if di.Dim == dim {
			return di.Index, true
		}
	}
	return 0, false
}

// IsSliced reports whether dim is pinned to a single index.
func (s SlicingSpec) IsSliced(dim int) bool {
	_, ok := s.SlicedIndex(dim)
	return ok
}

// SlicingDims returns the pinned dimensions in ascending order.
func (s SlicingSpec) SlicingDims() []int {
	dims := make([]int, len(s.SlicingDimsAndIndices))
	for i, di := range s.SlicingDimsAndIndices {
		dims[i] = di.Dim
	}
	sort.Ints(dims)
	return dims
}

// Validate checks the spec against shape: at most two viewing dimensions,
// slicing and viewing dimensions disjoint and covering [0, rank), pinned
// indices and ranges inside the dimension bounds.
func (s SlicingSpec) Validate(shape Shape) error {
	rank := shape.Rank()
	if len(s.ViewingDims) > 2 {
		return fmt.Errorf("%w: got %d", ErrTooManyViewingDims, len(s.ViewingDims))
	}
	if len(s.ViewingDims)+len(s.SlicingDimsAndIndices) != rank {
		return fmt.Errorf("%w: %d viewing + %d slicing dims for rank %d",
			ErrInvalidSpec, len(s.ViewingDims), len(s.SlicingDimsAndIndices), rank)
	}

	seen := make(map[int]bool, rank)
	claim := func(dim int) error {
		if dim < 0 || dim >= rank {
			return fmt.Errorf("%w: dimension %d out of range for rank %d", ErrInvalidSpec, dim, rank)
		}
		if seen[dim] {
			return fmt.Errorf("%w: dimension %d used twice", ErrInvalidSpec, dim)
		}
		seen[dim] = true
		return nil
	}

	for _, dim := range s.ViewingDims {
		if err := claim(dim); err != nil {
			return err
		}
	}
	for _, di := range s.SlicingDimsAndIndices {
		if err := claim(di.Dim); err != nil {
			return err
		}
		size := shape[di.Dim]
		if size == 0 {
			if di.Index != NoIndex {
				return fmt.Errorf("%w: empty dimension %d pinned to %d", ErrInvalidSpec, di.Dim, di.Index)
			}
			continue
		}
		if di.Index < 0 || di.Index >= size {
			return fmt.Errorf("%w: index %d out of bounds for dimension %d of size %d",
				ErrInvalidSpec, di.Index, di.Dim, size)
		}
	}

	if len(s.ViewingDims) == 2 && s.ViewingDims[0] >= s.ViewingDims[1] {
		return fmt.Errorf("%w: row dimension %d must precede column dimension %d",
			ErrInvalidSpec, s.ViewingDims[0], s.ViewingDims[1])
	}

	if err := checkRange("vertical", s.VerticalRange, s.ViewingDims, 0, shape); err != nil {
		return err
	}
	return checkRange("horizontal", s.HorizontalRange, s.ViewingDims, 1, shape)
}

func checkRange(name string, r *Range, viewingDims []int, pos int, shape Shape) error {
	if r == nil {
		return nil
	}
	if pos >= len(viewingDims) {
		return fmt.Errorf("%w: %s range set without a viewing dimension", ErrInvalidSpec, name)
	}
	size := shape[viewingDims[pos]]
	if r.Begin < 0 || r.Begin > r.End || r.End > size {
		return fmt.Errorf("%w: %s range %s outside [0, %d]", ErrInvalidSpec, name, r, size)
	}
	return nil
}

// DefaultSlicingSpec computes the initial spec for a tensor of the given
// shape. The last two dimensions are viewed as rows and columns, every
// earlier dimension is pinned to index 0 (NoIndex when it is empty). Ranges
// are left nil for the viewport to fill in.
func DefaultSlicingSpec(s Shape) SlicingSpec {
	spec := SlicingSpec{
		SlicingDimsAndIndices: []DimAndIndex{},
		ViewingDims:           []int{},
	}
	rank := s.Rank()
	switch {
	case rank == 0:
	case rank == 1:
		spec.ViewingDims = []int{0}
	default:
		for dim := 0; dim < rank-2; dim++ {
			index := 0
			if s[dim] == 0 {
				index = NoIndex
			}
			spec.SlicingDimsAndIndices = append(spec.SlicingDimsAndIndices, DimAndIndex{Dim: dim, Index: index})
		}
		spec.ViewingDims = []int{rank - 2, rank - 1}
	}
	return spec
}

// AreSlicingSpecsCompatible reports whether two specs view the same row and
// column dimensions and pin the same set of dimensions. Pinned index values
// and ranges are ignored. Compatible specs can be re-rendered without
// rebuilding the layout.
func AreSlicingSpecsCompatible(a, b SlicingSpec) bool {
	for pos := 0; pos < 2; pos++ {
		if !sameViewingDim(a.ViewingDims, b.ViewingDims, pos) {
			return false
		}
	}

	aDims, bDims := a.SlicingDims(), b.SlicingDims()
	if len(aDims) != len(bDims) {
		return false
	}
	for i := range aDims {
		if aDims[i] != bDims[i] {
			return false
		}
	}
	return true
}

func sameViewingDim(a, b []int, pos int) bool {
	aHas, bHas := pos < len(a), pos < len(b)
	if aHas != bHas {
		return false
	}
	return !aHas || a[pos] == b[pos]
}
