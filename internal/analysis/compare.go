package analysis

import (
	"fmt"
	"math"

	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

// Comparison holds totals and peaks of a reference and a scenario series
// and how much the scenario reduces each, in whole percent.
type Comparison struct {
	ReferenceTotal  float64 `json:"reference_total"`
	ScenarioTotal   float64 `json:"scenario_total"`
	ReferencePeak   float64 `json:"reference_peak"`
	ScenarioPeak    float64 `json:"scenario_peak"`
	EnergyReduction int     `json:"energy_reduction_percent"`
	PeakReduction   int     `json:"peak_reduction_percent"`
}

// Compare derives the comparison of scenario against reference.
func Compare(reference, scenario []float64) (Comparison, error) {
	if len(reference) != len(scenario) {
		return Comparison{}, &models.DataShapeError{What: "compared series", Expected: len(reference), Got: len(scenario)}
	}

	c := Comparison{
		ReferenceTotal: timeseries.Sum(reference),
		ScenarioTotal:  timeseries.Sum(scenario),
		ReferencePeak:  timeseries.Peak(reference),
		ScenarioPeak:   timeseries.Peak(scenario),
	}

	var err error
	if c.EnergyReduction, err = ReductionPercent("energy comparison", c.ReferenceTotal, c.ScenarioTotal); err != nil {
		return Comparison{}, err
	}
	if c.PeakReduction, err = ReductionPercent("peak comparison", c.ReferencePeak, c.ScenarioPeak); err != nil {
		return Comparison{}, err
	}
	return c, nil
}

// ReductionPercent is 100 - round(100 * scenario / reference). Halves round
// to even.
func ReductionPercent(op string, reference, scenario float64) (int, error) {
	if reference == 0 {
		return 0, &models.NumericDegeneracyError{Op: op, Reason: "reference is zero"}
	}
	ratio := math.RoundToEven(100 * scenario / reference)
	if math.IsNaN(ratio) || ratio >= math.MaxInt32 || ratio <= math.MinInt32 {
		return 0, &models.NumericDegeneracyError{Op: op, Reason: fmt.Sprintf("ratio %g out of range", ratio)}
	}
	return 100 - int(ratio), nil
}
