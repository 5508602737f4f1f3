package timeseries

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Zeros returns an hourly series of zeros.
func Zeros() []float64 {
	return make([]float64, HoursPerYear)
}

// Sum returns the total of series, ignoring NaN.
func Sum(series []float64) float64 {
	return floats.Sum(clean(series))
}

// Peak returns the largest value of series, ignoring NaN. An empty series peaks at 0.
func Peak(series []float64) float64 {
	c := clean(series)
	if len(c) == 0 {
		return 0
	}
	return floats.Max(c)
}

// Add returns the element-wise sum of a and b. Both must be the same length.
func Add(a, b []float64) []float64 {
	dst := make([]float64, len(a))
	floats.AddTo(dst, clean(a), clean(b))
	return dst
}

// Scale returns series multiplied by c.
func Scale(c float64, series []float64) []float64 {
	dst := clean(series)
	floats.Scale(c, dst)
	return dst
}

// DurationCurve returns a copy of series sorted from highest to lowest.
func DurationCurve(series []float64) []float64 {
	dst := clean(series)
	sort.Sort(sort.Reverse(sort.Float64Slice(dst)))
	return dst
}

// clean copies series with NaN replaced by zero.
func clean(series []float64) []float64 {
	dst := make([]float64, len(series))
	for i, v := range series {
		if !math.IsNaN(v) {
			dst[i] = v
		}
	}
	return dst
}
