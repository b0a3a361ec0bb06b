package tensor

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tensorflow/tensorboard-sub001/internal/filter"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

// ErrRagged is returned for nested arrays whose rows differ in length.
var ErrRagged = errors.New("ragged array")

// LoadArrays reads nested numeric arrays from a JSON or YAML file.
func LoadArrays(path, query string) ([]Named, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseArrays(data, query)
}

// ParseArrays decodes a JSON or YAML document of nested arrays. query is an
// optional JMESPath expression selecting the part of the document to load.
// An array (or a single number) yields one tensor; an object yields one
// tensor per key whose value is an array or a number.
func ParseArrays(data []byte, query string) ([]Named, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}

	selected, err := filter.Search(doc, query)
	if err != nil {
		return nil, err
	}

	name := "tensor"
	if query != "" {
		name = query
	}

	obj, ok := selected.(map[string]interface{})
	if !ok {
		view, err := denseFromNested(selected)
		if err != nil {
			return nil, err
		}
		return []Named{{Name: name, View: view}}, nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tensors []Named
	for _, k := range keys {
		switch obj[k].(type) {
		case []interface{}, int, int64, uint64, float64, bool:
		default:
			continue
		}
		view, err := denseFromNested(obj[k])
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}
		tensors = append(tensors, Named{Name: k, View: view})
	}
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: no arrays found", ErrMalformedFile)
	}
	return tensors, nil
}

// denseFromNested converts nested slices into a dense tensor. The shape is
// taken from the first element at every depth; any mismatch is ErrRagged.
func denseFromNested(v interface{}) (*Dense, error) {
	var s shape.Shape
	for cur := v; ; {
		list, ok := cur.([]interface{})
		if !ok {
			break
		}
		s = append(s, len(list))
		if len(list) == 0 {
			break
		}
		cur = list[0]
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	b := &nestedBuilder{values: make([]float64, 0, s.NumElements())}
	if err := b.walk(v, s, 0); err != nil {
		return nil, err
	}
	return NewDense(b.dtype(), s, b.values)
}

type nestedBuilder struct {
	values              []float64
	ints, floats, bools int
}

func (b *nestedBuilder) walk(v interface{}, s shape.Shape, depth int) error {
	if depth < len(s) {
		list, ok := v.([]interface{})
		if !ok || len(list) != s[depth] {
			return fmt.Errorf("%w: expected %d entries at depth %d", ErrRagged, s[depth], depth)
		}
		for _, item := range list {
			if err := b.walk(item, s, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	switch x := v.(type) {
	case int:
		b.ints++
		b.values = append(b.values, float64(x))
	case int64:
		b.ints++
		b.values = append(b.values, float64(x))
	case uint64:
		b.ints++
		b.values = append(b.values, float64(x))
	case float64:
		b.floats++
		b.values = append(b.values, x)
	case bool:
		b.bools++
		if x {
			b.values = append(b.values, 1)
		} else {
			b.values = append(b.values, 0)
		}
	case string:
		// JSON has no literal for non-finite floats.
		f, ok := parseSpecialFloat(x)
		if !ok {
			return fmt.Errorf("%w: non-numeric value %q", ErrUnsupportedDType, x)
		}
		b.floats++
		b.values = append(b.values, f)
	case []interface{}:
		return fmt.Errorf("%w: unexpected nested array at depth %d", ErrRagged, depth)
	default:
		return fmt.Errorf("%w: value of type %T", ErrUnsupportedDType, v)
	}
	if b.bools > 0 && b.ints+b.floats > 0 {
		return fmt.Errorf("%w: mixed booleans and numbers", ErrUnsupportedDType)
	}
	return nil
}

func (b *nestedBuilder) dtype() DType {
	switch {
	case b.bools > 0:
		return Bool
	case b.floats == 0 && b.ints > 0:
		return Int64
	}
	return Float64
}

func parseSpecialFloat(s string) (float64, bool) {
	switch s {
	case "NaN", "nan":
		return math.NaN(), true
	case "Infinity", "inf", "+inf", "+Infinity":
		return math.Inf(1), true
	case "-Infinity", "-inf":
		return math.Inf(-1), true
	}
	return 0, false
}
