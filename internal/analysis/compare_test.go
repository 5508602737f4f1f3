package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplan/server/internal/models"
)

func TestReductionPercent(t *testing.T) {
	tests := []struct {
		name      string
		reference float64
		scenario  float64
		expected  int
	}{
		{"twenty percent", 1000, 800, 20},
		{"no change", 500, 500, 0},
		{"increase", 100, 130, -30},
		{"rounds to nearest", 300, 100, 67},
		{"half rounds to even", 200, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReductionPercent("test", tt.reference, tt.scenario)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReductionPercentZeroReference(t *testing.T) {
	_, err := ReductionPercent("test", 0, 10)
	var degenerate *models.NumericDegeneracyError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, "test", degenerate.Op)
}

func TestReductionPercentOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		reference float64
		scenario  float64
	}{
		{"tiny reference", 1e-300, 1e10},
		{"tiny negative reference", -1e-300, 1e10},
		{"infinite scenario", 1, math.Inf(1)},
		{"nan scenario", 1, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReductionPercent("energy comparison", tt.reference, tt.scenario)
			var degenerate *models.NumericDegeneracyError
			require.ErrorAs(t, err, &degenerate)
			assert.Equal(t, "energy comparison", degenerate.Op)
		})
	}
}

func TestCompare(t *testing.T) {
	reference := []float64{100, 400, 500}
	scenario := []float64{100, 200, 500}

	c, err := Compare(reference, scenario)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, c.ReferenceTotal)
	assert.Equal(t, 800.0, c.ScenarioTotal)
	assert.Equal(t, 500.0, c.ReferencePeak)
	assert.Equal(t, 500.0, c.ScenarioPeak)
	assert.Equal(t, 20, c.EnergyReduction)
	assert.Equal(t, 0, c.PeakReduction)
}

func TestCompareErrors(t *testing.T) {
	var degenerate *models.NumericDegeneracyError
	_, err := Compare([]float64{0, 0}, []float64{1, 1})
	assert.True(t, errors.As(err, &degenerate))

	var shape *models.DataShapeError
	_, err = Compare([]float64{1, 2}, []float64{1})
	assert.True(t, errors.As(err, &shape))
}
