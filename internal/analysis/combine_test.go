package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

func TestCombineSumsBuildings(t *testing.T) {
	table := fullTable("A", map[string]float64{"1": 1, "2": 2})

	agg, err := Combine(table, []string{"1", "2"})
	require.NoError(t, err)

	require.Len(t, agg, len(models.Categories))
	for _, c := range models.Categories {
		require.Len(t, agg[c], timeseries.HoursPerYear)
		assert.Equal(t, constantSeries(3), agg[c], "category %s", c)
	}
}

func TestCombineSkipsMissingBuildings(t *testing.T) {
	table := fullTable("A", map[string]float64{"1": 1})

	agg, err := Combine(table, []string{"1", "not-in-scenario"})
	require.NoError(t, err)
	assert.Equal(t, constantSeries(1), agg[models.CategoryGridExchange])

	agg, err = Combine(table, nil)
	require.NoError(t, err)
	assert.Equal(t, timeseries.Zeros(), agg[models.CategorySpaceHeating])
}

func TestCombinePreservesHourOrder(t *testing.T) {
	table := fullTable("A", map[string]float64{})
	ramp := timeseries.Zeros()
	for i := range ramp {
		ramp[i] = float64(i)
	}
	for _, c := range models.Categories {
		table.Put(c, "1", ramp)
		table.Put(c, "2", ramp)
	}

	agg, err := Combine(table, []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg[models.CategoryThermalDelivered][0])
	assert.Equal(t, 2.0*8759, agg[models.CategoryThermalDelivered][8759])
}

func TestCombineDataShapeErrors(t *testing.T) {
	short := fullTable("A", map[string]float64{"1": 1})
	short.Put(models.CategoryHotWater, "1", make([]float64, 10))

	missing := fullTable("A", map[string]float64{"1": 1})
	delete(missing.Series, models.CategoryGridExchange)

	tests := []struct {
		name  string
		table *models.HourlyTable
	}{
		{"short series", short},
		{"missing category", missing},
		{"no table", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Combine(tt.table, []string{"1"})
			var shape *models.DataShapeError
			assert.True(t, errors.As(err, &shape))
		})
	}
}
