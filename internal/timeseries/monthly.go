package timeseries

import (
	"math"

	"energyplan/server/internal/models"
)

// HoursPerYear is the length of every hourly series (non-leap year).
const HoursPerYear = 8760

// MonthBoundaries are the hour indices at which a month is closed. A month
// ends just before its boundary, except the last one which includes 8759.
var MonthBoundaries = [12]int{744, 1416, 2160, 2880, 3624, 4344, 5088, 5832, 6552, 7296, 8016, 8759}

type reducer func(acc, v float64) float64

// MonthlySum sums each month of an hourly series. NaN counts as zero.
func MonthlySum(series []float64) (models.MonthlyProfile, error) {
	return reduceMonthly(series, func(acc, v float64) float64 { return acc + v })
}

// MonthlyMax returns the peak of each month of an hourly series. The
// running maximum starts at zero for every month.
func MonthlyMax(series []float64) (models.MonthlyProfile, error) {
	return reduceMonthly(series, math.Max)
}

func reduceMonthly(series []float64, fn reducer) (models.MonthlyProfile, error) {
	var out models.MonthlyProfile
	if err := CheckLength("hourly series", series); err != nil {
		return out, err
	}

	month := 0
	acc := 0.0
	for i, v := range series {
		if month < len(MonthBoundaries)-1 && i == MonthBoundaries[month] {
			out[month] = acc
			acc = 0
			month++
		}
		if math.IsNaN(v) {
			v = 0
		}
		acc = fn(acc, v)
	}
	out[month] = acc
	return out, nil
}

// CheckLength fails with a DataShapeError unless series has one value per hour.
func CheckLength(what string, series []float64) error {
	if len(series) != HoursPerYear {
		return &models.DataShapeError{What: what, Expected: HoursPerYear, Got: len(series)}
	}
	return nil
}
