package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplan/server/internal/models"
)

func TestFitRegressionLinear(t *testing.T) {
	x := make([]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = float64(i) - 25
		y[i] = 2 + 3*x[i]
	}

	fit, err := FitRegression(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fit.Intercept, 1e-9)
	assert.InDelta(t, 3.0, fit.Slope, 1e-9)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
	assert.Equal(t, 50, fit.N)
	assert.InDelta(t, 32.0, fit.At(10), 1e-9)
}

func TestFitRegressionDropsNaN(t *testing.T) {
	x := []float64{0, 1, math.NaN(), 3}
	y := []float64{1, 3, 100, 7}

	fit, err := FitRegression(x, y)
	require.NoError(t, err)
	assert.Equal(t, 3, fit.N)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-9)
	assert.InDelta(t, 2.0, fit.Slope, 1e-9)
}

func TestFitRegressionErrors(t *testing.T) {
	tests := []struct {
		name       string
		x, y       []float64
		degenerate bool
	}{
		{"constant temperature", []float64{5, 5, 5, 5}, []float64{1, 2, 3, 4}, true},
		{"single point", []float64{1}, []float64{1}, true},
		{"empty", nil, nil, true},
		{"length mismatch", []float64{1, 2}, []float64{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitRegression(tt.x, tt.y)
			require.Error(t, err)

			var degenerate *models.NumericDegeneracyError
			var shape *models.DataShapeError
			if tt.degenerate {
				assert.True(t, errors.As(err, &degenerate))
			} else {
				assert.True(t, errors.As(err, &shape))
			}
		})
	}
}
