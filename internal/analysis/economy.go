package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

const (
	// WellDepth is the depth of one energy well in meters.
	WellDepth = 300.0
	// WellCostPerMeter is the drilling cost in kr per well meter.
	WellCostPerMeter = 600
	// SolarCostPerKWh is the solar investment in kr per kWh of yearly production.
	SolarCostPerKWh = 14

	MinPrice          = 0.8
	MaxPrice          = 10.0
	MinEmissionFactor = 1.0
	MaxEmissionFactor = 200.0
)

// Economy compares electricity cost before and after a scenario and
// estimates its investments. Amounts are in kr.
type Economy struct {
	Price           float64         `json:"price"`
	CostBefore      decimal.Decimal `json:"cost_before"`
	CostAfter       decimal.Decimal `json:"cost_after"`
	CostReduction   int             `json:"cost_reduction_percent"`
	WellMeters      float64         `json:"well_meters"`
	Wells           int             `json:"wells"`
	WellInvestment  decimal.Decimal `json:"well_investment"`
	SolarProduction float64         `json:"solar_production"`
	SolarInvestment decimal.Decimal `json:"solar_investment"`
}

// Economics prices the before and after series at price kr/kWh and sums
// the investments implied by the scenario's buildings.
func Economics(before, after []float64, buildings []models.Building, price float64) (Economy, error) {
	if err := ValidatePrice(price); err != nil {
		return Economy{}, err
	}

	p := decimal.NewFromFloat(price)
	costBefore := decimal.NewFromFloat(timeseries.Sum(before)).Mul(p)
	costAfter := decimal.NewFromFloat(timeseries.Sum(after)).Mul(p)

	reduction, err := ReductionPercent("cost comparison", costBefore.InexactFloat64(), costAfter.InexactFloat64())
	if err != nil {
		return Economy{}, err
	}

	e := Economy{
		Price:         price,
		CostBefore:    costBefore.Round(2),
		CostAfter:     costAfter.Round(2),
		CostReduction: reduction,
	}
	for _, b := range buildings {
		e.WellMeters += b.WellMeters
		e.SolarProduction += b.SolarProduction
	}
	e.Wells = int(e.WellMeters / WellDepth)
	e.WellInvestment = decimal.NewFromFloat(e.WellMeters).Mul(decimal.NewFromInt(WellCostPerMeter)).Floor()
	e.SolarInvestment = decimal.NewFromFloat(e.SolarProduction).Floor().Mul(decimal.NewFromInt(SolarCostPerKWh))
	return e, nil
}

// Emissions compares CO2 from grid electricity before and after a scenario.
type Emissions struct {
	FactorGramsPerKWh float64 `json:"factor_g_per_kwh"`
	TonnesBefore      float64 `json:"tonnes_before"`
	TonnesAfter       float64 `json:"tonnes_after"`
	Reduction         int     `json:"reduction_percent"`
}

// EmissionsFor converts both series to tonnes CO2 with factor g/kWh.
func EmissionsFor(before, after []float64, factor float64) (Emissions, error) {
	if err := ValidateEmissionFactor(factor); err != nil {
		return Emissions{}, err
	}

	e := Emissions{
		FactorGramsPerKWh: factor,
		TonnesBefore:      timeseries.Sum(before) * factor / 1e6,
		TonnesAfter:       timeseries.Sum(after) * factor / 1e6,
	}
	var err error
	if e.Reduction, err = ReductionPercent("emission comparison", e.TonnesBefore, e.TonnesAfter); err != nil {
		return Emissions{}, err
	}
	return e, nil
}

// ValidatePrice checks an electricity price in kr/kWh.
func ValidatePrice(price float64) error {
	if price < MinPrice || price > MaxPrice {
		return fmt.Errorf("%w: price %.2f outside [%.1f, %.1f]", ErrInvalidParameter, price, MinPrice, MaxPrice)
	}
	return nil
}

// ValidateEmissionFactor checks an emission factor in g/kWh.
func ValidateEmissionFactor(factor float64) error {
	if factor < MinEmissionFactor || factor > MaxEmissionFactor {
		return fmt.Errorf("%w: emission factor %.1f outside [%.0f, %.0f]", ErrInvalidParameter, factor, MinEmissionFactor, MaxEmissionFactor)
	}
	return nil
}

// CountMeasures tallies the measures applied to buildings.
func CountMeasures(buildings []models.Building) models.MeasureCounts {
	var c models.MeasureCounts
	for _, b := range buildings {
		if b.GroundSource {
			c.GroundSource++
		}
		if b.DistrictHeating {
			c.DistrictHeating++
		}
		if b.Solar {
			c.Solar++
		}
		if b.AirToAir {
			c.AirToAir++
		}
		if b.Retrofit {
			c.Retrofit++
		}
		if !b.HasMeasure() {
			c.None++
		}
	}
	return c
}
