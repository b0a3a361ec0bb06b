package tensor

import (
	"context"
	"math"
)

// HealthPill summarizes the values of a tensor. Min, Max, Mean and Stddev
// are computed over finite values only and are NaN when there are none.
type HealthPill struct {
	Elements int
	NaN      int
	NegInf   int
	PosInf   int
	Negative int
	Zero     int
	Positive int
	Min      float64
	Max      float64
	Mean     float64
	Stddev   float64
}

// Finite returns the number of finite elements.
func (h HealthPill) Finite() int {
	return h.Negative + h.Zero + h.Positive
}

// checkEvery is how many elements are scanned between context checks.
const checkEvery = 1 << 16

// ComputeHealthPill scans values once, using Welford's method for the
// variance.
func ComputeHealthPill(ctx context.Context, values []float64) (HealthPill, error) {
	h := HealthPill{
		Elements: len(values),
		Min:      math.Inf(1),
		Max:      math.Inf(-1),
	}

	var mean, m2 float64
	for i, v := range values {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return HealthPill{}, err
			}
		}

		switch {
		case math.IsNaN(v):
			h.NaN++
			continue
		case math.IsInf(v, -1):
			h.NegInf++
			continue
		case math.IsInf(v, 1):
			h.PosInf++
			continue
		case v < 0:
			h.Negative++
		case v == 0:
			h.Zero++
		default:
			h.Positive++
		}

		h.Min = math.Min(h.Min, v)
		h.Max = math.Max(h.Max, v)
		n := float64(h.Finite())
		delta := v - mean
		mean += delta / n
		m2 += delta * (v - mean)
	}

	if h.Finite() == 0 {
		h.Min, h.Max, h.Mean, h.Stddev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return h, nil
	}
	h.Mean = mean
	h.Stddev = math.Sqrt(m2 / float64(h.Finite()))
	return h, nil
}
