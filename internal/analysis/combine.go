package analysis

import (
	"fmt"
	"math"

	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

// Combine sums the hourly series of the selected buildings per category.
// Ids that the scenario has no series for are skipped. Every category is
// present in the result.
func Combine(table *models.HourlyTable, ids []string) (models.Aggregate, error) {
	if table == nil {
		return nil, &models.DataShapeError{What: "no hourly table for scenario"}
	}

	agg := make(models.Aggregate, len(models.Categories))
	for _, c := range models.Categories {
		byID, ok := table.Series[c]
		if !ok {
			return nil, &models.DataShapeError{What: fmt.Sprintf("scenario %s has no %s series", table.Scenario, c)}
		}

		sum := timeseries.Zeros()
		for _, id := range ids {
			values, ok := byID[id]
			if !ok {
				continue
			}
			if err := timeseries.CheckLength(fmt.Sprintf("%s %s building %s", table.Scenario, c, id), values); err != nil {
				return nil, err
			}
			for i, v := range values {
				if !math.IsNaN(v) {
					sum[i] += v
				}
			}
		}
		agg[c] = sum
	}
	return agg, nil
}

// Delivered is thermal plus electric delivered energy, the demand before any
// on-site production or storage.
func Delivered(agg models.Aggregate) []float64 {
	return timeseries.Add(agg[models.CategoryThermalDelivered], agg[models.CategoryElectricDelivered])
}
