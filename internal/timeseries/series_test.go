package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationCurve(t *testing.T) {
	in := []float64{3, 1, math.NaN(), 7, 2}
	out := DurationCurve(in)

	assert.Equal(t, []float64{7, 3, 2, 1, 0}, out)
	assert.Equal(t, 3.0, in[0], "input must not be reordered")
}

func TestSeriesHelpers(t *testing.T) {
	a := []float64{1, 2, math.NaN()}
	b := []float64{10, 20, 30}

	assert.Equal(t, []float64{11, 22, 30}, Add(a, b))
	assert.Equal(t, []float64{2, 4, 0}, Scale(2, a))
	assert.Equal(t, 3.0, Sum(a))
	assert.Equal(t, 30.0, Peak(b))
	assert.Equal(t, 0.0, Peak(nil))
}
