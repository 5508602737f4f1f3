package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplan/server/internal/models"
)

func TestEconomics(t *testing.T) {
	before := []float64{600, 400}
	after := []float64{300, 200}
	buildings := []models.Building{
		{WellMeters: 450, SolarProduction: 1000.6},
		{WellMeters: 300},
	}

	e, err := Economics(before, after, buildings, 1.5)
	require.NoError(t, err)
	assert.Equal(t, "1500", e.CostBefore.String())
	assert.Equal(t, "750", e.CostAfter.String())
	assert.Equal(t, 50, e.CostReduction)
	assert.Equal(t, 750.0, e.WellMeters)
	assert.Equal(t, 2, e.Wells)
	assert.Equal(t, "450000", e.WellInvestment.String())
	assert.InDelta(t, 1000.6, e.SolarProduction, 1e-9)
	assert.Equal(t, "14000", e.SolarInvestment.String())
}

func TestEconomicsValidation(t *testing.T) {
	tests := []struct {
		name  string
		price float64
	}{
		{"too cheap", 0.5},
		{"too expensive", 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Economics([]float64{1}, []float64{1}, nil, tt.price)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
		})
	}

	_, err := Economics([]float64{0}, []float64{1}, nil, 1)
	var degenerate *models.NumericDegeneracyError
	assert.True(t, errors.As(err, &degenerate))
}

func TestEmissions(t *testing.T) {
	before := []float64{1_000_000}
	after := []float64{250_000}

	e, err := EmissionsFor(before, after, 17)
	require.NoError(t, err)
	assert.InDelta(t, 17.0, e.TonnesBefore, 1e-9)
	assert.InDelta(t, 4.25, e.TonnesAfter, 1e-9)
	assert.Equal(t, 75, e.Reduction)

	_, err = EmissionsFor(before, after, 0)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestCountMeasures(t *testing.T) {
	counts := CountMeasures([]models.Building{
		{GroundSource: true, Solar: true},
		{DistrictHeating: true},
		{AirToAir: true, Retrofit: true},
		{},
		{},
	})
	assert.Equal(t, models.MeasureCounts{
		GroundSource:    1,
		DistrictHeating: 1,
		Solar:           1,
		AirToAir:        1,
		Retrofit:        1,
		None:            2,
	}, counts)
}
