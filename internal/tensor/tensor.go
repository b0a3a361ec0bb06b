// Package tensor provides the data sources the tensor widget reads from: an
// in-memory dense tensor, slicing of a tensor into the block of values a
// slicing spec makes visible, summary statistics, and loaders for
// safetensors and JSON/YAML files.
package tensor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

var (
	ErrNotImplemented   = errors.New("not implemented")
	ErrMissingRange     = errors.New("missing range")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrShapeMismatch    = errors.New("data does not match shape")
	ErrUnsupportedDType = errors.New("unsupported dtype")
	ErrTensorNotFound   = errors.New("tensor not found")
)

// Spec is the static description of a tensor.
type Spec struct {
	DType DType       `json:"dtype"`
	Shape shape.Shape `json:"shape"`
}

// View is read access to one tensor. Implementations must be safe for
// concurrent use.
type View interface {
	Spec() Spec
	// Get returns the element at the given indices, one per dimension.
	Get(ctx context.Context, indices ...int) (float64, error)
	// View returns the block of values made visible by spec.
	View(ctx context.Context, spec shape.SlicingSpec) (*Block, error)
	HealthPill(ctx context.Context) (HealthPill, error)
}

// Block is the row-major sub-array a slicing spec selects. Dims is the
// number of viewing dimensions: a scalar block has one value, a 1D block
// has Cols == 1.
type Block struct {
	Dims   int
	Rows   int
	Cols   int
	Values []float64
}

// At returns the value at row r and column c of the block, relative to the
// start of the visible ranges.
func (b *Block) At(r, c int) float64 {
	return b.Values[r*b.Cols+c]
}

// Dense is an immutable in-memory tensor stored in row-major order.
type Dense struct {
	spec    Spec
	data    []float64
	strides []int
}

// NewDense wraps data, which must have exactly s.NumElements() values. The
// slice is not copied.
func NewDense(dtype DType, s shape.Shape, data []float64) (*Dense, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(data) != s.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %s", ErrShapeMismatch, len(data), shape.FormatShapeForDisplay(s))
	}
	return &Dense{
		spec:    Spec{DType: dtype, Shape: s.Clone()},
		data:    data,
		strides: s.Strides(),
	}, nil
}

func (d *Dense) Spec() Spec {
	return Spec{DType: d.spec.DType, Shape: d.spec.Shape.Clone()}
}

func (d *Dense) Get(ctx context.Context, indices ...int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	offset, err := d.offset(indices)
	if err != nil {
		return 0, err
	}
	return d.data[offset], nil
}

func (d *Dense) offset(indices []int) (int, error) {
	s := d.spec.Shape
	if len(indices) != s.Rank() {
		return 0, fmt.Errorf("%w: %d indices for rank %d", ErrIndexOutOfRange, len(indices), s.Rank())
	}
	offset := 0
	for dim, i := range indices {
		if i < 0 || i >= s[dim] {
			return 0, fmt.Errorf("%w: index %d for dimension %d of size %d", ErrIndexOutOfRange, i, dim, s[dim])
		}
		offset += i * d.strides[dim]
	}
	return offset, nil
}

func (d *Dense) View(ctx context.Context, spec shape.SlicingSpec) (*Block, error) {
	s := d.spec.Shape
	if spec.DepthDim != nil {
		return nil, fmt.Errorf("%w: depth dimension", ErrNotImplemented)
	}
	if err := spec.Validate(s); err != nil {
		return nil, err
	}

	base := 0
	for _, di := range spec.SlicingDimsAndIndices {
		if di.Index == shape.NoIndex {
			// A pinned empty dimension leaves nothing to show.
			return &Block{Dims: len(spec.ViewingDims)}, nil
		}
		base += di.Index * d.strides[di.Dim]
	}

	switch len(spec.ViewingDims) {
	case 0:
		return &Block{Dims: 0, Rows: 1, Cols: 1, Values: []float64{d.data[base]}}, nil
	case 1:
		if spec.VerticalRange == nil {
			return nil, fmt.Errorf("%w: vertical", ErrMissingRange)
		}
		r := *spec.VerticalRange
		stride := d.strides[spec.ViewingDims[0]]
		values := make([]float64, r.Len())
		for i := range values {
			values[i] = d.data[base+(r.Begin+i)*stride]
		}
		return &Block{Dims: 1, Rows: r.Len(), Cols: 1, Values: values}, nil
	}

	if spec.VerticalRange == nil || spec.HorizontalRange == nil {
		return nil, fmt.Errorf("%w: vertical and horizontal ranges are required", ErrMissingRange)
	}
	rows, cols := *spec.VerticalRange, *spec.HorizontalRange
	rowStride := d.strides[spec.ViewingDims[0]]
	colStride := d.strides[spec.ViewingDims[1]]

	values := make([]float64, 0, rows.Len()*cols.Len())
	for r := rows.Begin; r < rows.End; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowBase := base + r*rowStride
		for c := cols.Begin; c < cols.End; c++ {
			values = append(values, d.data[rowBase+c*colStride])
		}
	}
	return &Block{Dims: 2, Rows: rows.Len(), Cols: cols.Len(), Values: values}, nil
}

func (d *Dense) HealthPill(ctx context.Context) (HealthPill, error) {
	return ComputeHealthPill(ctx, d.data)
}

// Named is a tensor together with the name it has in its source file.
type Named struct {
	Name string
	View View
}

// Collection holds the tensors loaded from one source.
type Collection struct {
	Source  string
	Tensors []Named
}

// Names returns the tensor names in load order.
func (c *Collection) Names() []string {
	names := make([]string, len(c.Tensors))
	for i, t := range c.Tensors {
		names[i] = t.Name
	}
	return names
}

// Find looks up a tensor by name. An empty name selects the first tensor.
func (c *Collection) Find(name string) (Named, error) {
	if len(c.Tensors) == 0 {
		return Named{}, fmt.Errorf("%w: %s contains no tensors", ErrTensorNotFound, c.Source)
	}
	if name == "" {
		return c.Tensors[0], nil
	}
	for _, t := range c.Tensors {
		if t.Name == name {
			return t, nil
		}
	}
	return Named{}, fmt.Errorf("%w: %q in %s", ErrTensorNotFound, name, c.Source)
}

func sortNamed(tensors []Named) {
	sort.Slice(tensors, func(i, j int) bool {
		return tensors[i].Name < tensors[j].Name
	})
}
