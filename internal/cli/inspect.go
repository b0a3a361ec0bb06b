package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tensorflow/tensorboard-sub001/internal/filter"
	"github.com/tensorflow/tensorboard-sub001/internal/highlight"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// InspectOptions contains options for the inspect command
type InspectOptions struct {
	Path   string
	Query  string // JMESPath selecting arrays in JSON and YAML sources
	Filter string // JMESPath applied to the output
	Color  bool
	Out    io.Writer
}

// TensorInfo is the inspect output for one tensor
type TensorInfo struct {
	Name        string            `json:"name"`
	DType       tensor.DType      `json:"dtype"`
	Shape       shape.Shape       `json:"shape"`
	Elements    int               `json:"elements"`
	SlicingSpec shape.SlicingSpec `json:"slicingSpec"`
}

// Describe lists the tensors of col with their default slicing spec
func Describe(col *tensor.Collection) []TensorInfo {
	infos := make([]TensorInfo, 0, len(col.Tensors))
	for _, t := range col.Tensors {
		spec := t.View.Spec()
		s := spec.Shape.Clone()
		if s == nil {
			s = shape.Shape{}
		}
		infos = append(infos, TensorInfo{
			Name:        t.Name,
			DType:       spec.DType,
			Shape:       s,
			Elements:    s.NumElements(),
			SlicingSpec: shape.DefaultSlicingSpec(s),
		})
	}
	return infos
}

// Inspect prints the tensors of a file as JSON
func Inspect(opts InspectOptions) error {
	col, err := loadCollection(opts.Path, opts.Query)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(Describe(col), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tensors: %w", err)
	}
	output := string(data)

	if opts.Filter != "" {
		output, err = filter.Apply(output, opts.Filter)
		if err != nil {
			return fmt.Errorf("filter failed: %w", err)
		}
	}

	if opts.Color {
		output, err = highlight.JSON(output, highlight.DefaultStyle)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(opts.Out, output)
	return err
}
