package tensor

import (
	"math"
	"strconv"
)

// DefaultPrecision is the number of decimals shown for float values.
const DefaultPrecision = 3

// FormatValue renders one element for display. Floats switch to exponent
// notation when they are very large or very small.
func FormatValue(v float64, dtype DType, precision int) string {
	switch {
	case dtype.IsBool():
		if v != 0 {
			return "True"
		}
		return "False"
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case dtype.IsInteger():
		return strconv.FormatFloat(v, 'f', 0, 64)
	}

	if precision < 0 {
		precision = DefaultPrecision
	}
	abs := math.Abs(v)
	if abs >= 1e5 || (abs > 0 && abs < 1e-3) {
		return strconv.FormatFloat(v, 'e', precision, 64)
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
