package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"energyplan/server/internal/models"
)

// Regression is the least-squares line power = Intercept + Slope*temperature.
type Regression struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`
}

// At evaluates the fitted line.
func (r Regression) At(x float64) float64 {
	return r.Intercept + r.Slope*x
}

// FitRegression fits power against outdoor temperature by ordinary least
// squares. Pairs with a NaN on either side are dropped.
func FitRegression(temperature, power []float64) (Regression, error) {
	if len(temperature) != len(power) {
		return Regression{}, &models.DataShapeError{What: "regression power series", Expected: len(temperature), Got: len(power)}
	}

	x := make([]float64, 0, len(temperature))
	y := make([]float64, 0, len(power))
	for i := range temperature {
		if math.IsNaN(temperature[i]) || math.IsNaN(power[i]) {
			continue
		}
		x = append(x, temperature[i])
		y = append(y, power[i])
	}

	if len(x) < 2 {
		return Regression{}, &models.NumericDegeneracyError{Op: "regression", Reason: "fewer than two points"}
	}
	if constant(x) {
		return Regression{}, &models.NumericDegeneracyError{Op: "regression", Reason: "temperature has zero variance"}
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	// constant power leaves R² undefined
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	return Regression{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  r2,
		N:         len(x),
	}, nil
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
