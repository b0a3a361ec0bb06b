package tensor

import "fmt"

// DType names the element type of a tensor.
type DType string

const (
	Float64  DType = "float64"
	Float32  DType = "float32"
	Float16  DType = "float16"
	BFloat16 DType = "bfloat16"
	Int8     DType = "int8"
	Int16    DType = "int16"
	Int32    DType = "int32"
	Int64    DType = "int64"
	Uint8    DType = "uint8"
	Uint16   DType = "uint16"
	Uint32   DType = "uint32"
	Uint64   DType = "uint64"
	Bool     DType = "bool"
)

// IsInteger reports whether values of d are whole numbers.
func (d DType) IsInteger() bool {
	switch d {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsBool reports whether d is the boolean type.
func (d DType) IsBool() bool {
	return d == Bool
}

// IsFloat reports whether d is a floating point type.
func (d DType) IsFloat() bool {
	switch d {
	case Float64, Float32, Float16, BFloat16:
		return true
	}
	return false
}

// safetensors dtype codes and their element sizes in bytes
var safetensorsDTypes = map[string]struct {
	dtype DType
	size  int
}{
	"F64":  {Float64, 8},
	"F32":  {Float32, 4},
	"F16":  {Float16, 2},
	"BF16": {BFloat16, 2},
	"I64":  {Int64, 8},
	"I32":  {Int32, 4},
	"I16":  {Int16, 2},
	"I8":   {Int8, 1},
	"U64":  {Uint64, 8},
	"U32":  {Uint32, 4},
	"U16":  {Uint16, 2},
	"U8":   {Uint8, 1},
	"BOOL": {Bool, 1},
}

func parseSafetensorsDType(code string) (DType, int, error) {
	info, ok := safetensorsDTypes[code]
	if !ok {
		return "", 0, fmt.Errorf("%w: safetensors dtype %q", ErrUnsupportedDType, code)
	}
	return info.dtype, info.size, nil
}
