package analysis

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"energyplan/server/internal/geometry"
	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

var (
	ErrUnknownScenario  = errors.New("unknown scenario")
	ErrUnknownView      = errors.New("unknown view")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// View is one of the per-scenario report panels.
type View string

const (
	ViewMonthly   View = "monthly"
	ViewHourly    View = "hourly"
	ViewMeasures  View = "measures"
	ViewET        View = "et"
	ViewEconomy   View = "economy"
	ViewEmissions View = "emissions"
)

// Views lists the report panels in menu order.
var Views = []View{ViewMonthly, ViewHourly, ViewMeasures, ViewET, ViewEmissions, ViewEconomy}

// SeriesSummary describes one aggregate series for charting.
type SeriesSummary struct {
	Total      float64               `json:"total"`
	Peak       float64               `json:"peak"`
	MonthlySum models.MonthlyProfile `json:"monthly_sum"`
	MonthlyMax models.MonthlyProfile `json:"monthly_max"`
}

// Summarize reduces an hourly series to totals and monthly bins.
func Summarize(series []float64) (SeriesSummary, error) {
	sum, err := timeseries.MonthlySum(series)
	if err != nil {
		return SeriesSummary{}, err
	}
	peak, err := timeseries.MonthlyMax(series)
	if err != nil {
		return SeriesSummary{}, err
	}
	return SeriesSummary{
		Total:      timeseries.Sum(series),
		Peak:       timeseries.Peak(series),
		MonthlySum: sum,
		MonthlyMax: peak,
	}, nil
}

// SelectionResult is the outcome of a spatial selection in one building area.
type SelectionResult struct {
	Area      string            `json:"area"`
	IDs       []string          `json:"ids"`
	Buildings []models.Building `json:"-"`
}

// Overview describes the reference scenario over a selection.
type Overview struct {
	Scenario          string                  `json:"scenario"`
	BuildingCount     int                     `json:"building_count"`
	ThermalDelivered  SeriesSummary           `json:"thermal_delivered"`
	ElectricDelivered SeriesSummary           `json:"electric_delivered"`
	Delivered         SeriesSummary           `json:"delivered"`
	SpaceHeating      SeriesSummary           `json:"space_heating"`
	HotWater          SeriesSummary           `json:"domestic_hot_water"`
	ElectricSpecific  SeriesSummary           `json:"electric_specific"`
	Demand            SeriesSummary           `json:"demand"`
	FloorAreas        []models.FloorAreaShare `json:"floor_areas"`
}

// MonthlyView compares delivered energy before and grid exchange after.
type MonthlyView struct {
	Before SeriesSummary `json:"before"`
	After  SeriesSummary `json:"after"`
}

// HourlyView holds the before and after series, optionally as duration curves.
type HourlyView struct {
	DurationCurve bool       `json:"duration_curve"`
	Before        []float64  `json:"before"`
	After         []float64  `json:"after"`
	Comparison    Comparison `json:"comparison"`
}

// ETView is the power signature of the grid exchange against outdoor temperature.
type ETView struct {
	Regression  Regression `json:"regression"`
	Temperature []float64  `json:"temperature"`
	Power       []float64  `json:"power"`
}

// ReportOptions selects and parameterises a report view.
type ReportOptions struct {
	View           View
	Price          float64
	EmissionFactor float64
	DurationCurve  bool
}

// Report is one scenario's panel. Only the requested view is set.
type Report struct {
	Scenario      string                `json:"scenario"`
	View          View                  `json:"view"`
	BuildingCount int                   `json:"building_count"`
	Monthly       *MonthlyView          `json:"monthly,omitempty"`
	Hourly        *HourlyView           `json:"hourly,omitempty"`
	Measures      *models.MeasureCounts `json:"measures,omitempty"`
	ET            *ETView               `json:"et,omitempty"`
	Economy       *Economy              `json:"economy,omitempty"`
	Emissions     *Emissions            `json:"emissions,omitempty"`
}

// ReferenceComparison compares one category of a scenario with the reference.
type ReferenceComparison struct {
	Reference        string          `json:"reference"`
	Scenario         string          `json:"scenario"`
	Category         models.Category `json:"category"`
	Comparison       Comparison      `json:"comparison"`
	ReferenceSummary SeriesSummary   `json:"reference_summary"`
	ScenarioSummary  SeriesSummary   `json:"scenario_summary"`
}

// Analyzer runs the selection -> combine -> reduce pipeline over a loaded
// dataset. It holds no per-request state.
type Analyzer struct {
	data      *models.Dataset
	reference string
	logger    *logrus.Logger
}

// NewAnalyzer creates an analyzer over data with reference as the baseline scenario.
func NewAnalyzer(data *models.Dataset, reference string, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Analyzer{
		data:      data,
		reference: reference,
		logger:    logger,
	}
}

// Dataset returns the data the analyzer reads.
func (a *Analyzer) Dataset() *models.Dataset {
	return a.data
}

// Reference returns the baseline scenario name.
func (a *Analyzer) Reference() string {
	return a.reference
}

// Scenarios returns the selectable scenarios: every loaded one except the reference.
func (a *Analyzer) Scenarios() []string {
	out := make([]string, 0, len(a.data.Scenarios))
	for _, s := range a.data.Scenarios {
		if s != a.reference {
			out = append(out, s)
		}
	}
	return out
}

// Select narrows the buildings of area to those inside sel. An empty
// result is reported as an EmptySelectionError.
func (a *Analyzer) Select(areaID string, sel geometry.Selection) (*SelectionResult, error) {
	selected := geometry.Select(a.data.BuildingsFor("", areaID), sel)
	if len(selected) == 0 {
		return nil, &models.EmptySelectionError{Area: areaID}
	}
	return &SelectionResult{
		Area:      areaID,
		IDs:       geometry.UniqueIDs(selected),
		Buildings: selected,
	}, nil
}

// Aggregate combines the hourly series of ids for scenario.
func (a *Analyzer) Aggregate(scenario string, ids []string) (models.Aggregate, error) {
	if !a.data.HasScenario(scenario) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, scenario)
	}
	return Combine(a.data.Hourly[scenario], ids)
}

// scenarioBuildings returns the rows of scenario among the selection.
func scenarioBuildings(sel *SelectionResult, scenario string) []models.Building {
	var out []models.Building
	for _, b := range sel.Buildings {
		if b.Scenario == scenario {
			out = append(out, b)
		}
	}
	return out
}

// Overview summarizes the reference scenario over the selection.
func (a *Analyzer) Overview(areaID string, sel geometry.Selection) (*Overview, error) {
	selection, err := a.Select(areaID, sel)
	if err != nil {
		return nil, err
	}
	agg, err := a.Aggregate(a.reference, selection.IDs)
	if err != nil {
		return nil, err
	}

	o := &Overview{Scenario: a.reference}
	summaries := []struct {
		dst    *SeriesSummary
		series []float64
	}{
		{&o.ThermalDelivered, agg[models.CategoryThermalDelivered]},
		{&o.ElectricDelivered, agg[models.CategoryElectricDelivered]},
		{&o.Delivered, Delivered(agg)},
		{&o.SpaceHeating, agg[models.CategorySpaceHeating]},
		{&o.HotWater, agg[models.CategoryHotWater]},
		{&o.ElectricSpecific, agg[models.CategoryElectricSpecific]},
		{&o.Demand, timeseries.Add(timeseries.Add(agg[models.CategorySpaceHeating], agg[models.CategoryHotWater]), agg[models.CategoryElectricSpecific])},
	}
	for _, s := range summaries {
		if *s.dst, err = Summarize(s.series); err != nil {
			return nil, err
		}
	}

	buildings := scenarioBuildings(selection, a.reference)
	o.BuildingCount = len(buildings)
	o.FloorAreas = floorAreas(buildings)
	return o, nil
}

func floorAreas(buildings []models.Building) []models.FloorAreaShare {
	byAddress := make(map[string]float64)
	for _, b := range buildings {
		byAddress[b.Address] += b.FloorArea
	}
	out := make([]models.FloorAreaShare, 0, len(byAddress))
	for address, area := range byAddress {
		out = append(out, models.FloorAreaShare{Address: address, FloorArea: area})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FloorArea == out[j].FloorArea {
			return out[i].Address < out[j].Address
		}
		return out[i].FloorArea > out[j].FloorArea
	})
	return out
}

// Report computes one view for scenario over the selection.
func (a *Analyzer) Report(scenario, areaID string, sel geometry.Selection, opts ReportOptions) (*Report, error) {
	if opts.View == "" {
		opts.View = ViewMonthly
	}
	if !validView(opts.View) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, opts.View)
	}

	selection, err := a.Select(areaID, sel)
	if err != nil {
		return nil, err
	}
	agg, err := a.Aggregate(scenario, selection.IDs)
	if err != nil {
		return nil, err
	}

	buildings := scenarioBuildings(selection, scenario)
	before := Delivered(agg)
	after := agg[models.CategoryGridExchange]

	r := &Report{Scenario: scenario, View: opts.View, BuildingCount: len(buildings)}
	switch opts.View {
	case ViewMonthly:
		var m MonthlyView
		if m.Before, err = Summarize(before); err != nil {
			return nil, err
		}
		if m.After, err = Summarize(after); err != nil {
			return nil, err
		}
		r.Monthly = &m
	case ViewHourly:
		c, err := Compare(before, after)
		if err != nil {
			return nil, err
		}
		h := HourlyView{DurationCurve: opts.DurationCurve, Before: before, After: after, Comparison: c}
		if opts.DurationCurve {
			h.Before = timeseries.DurationCurve(before)
			h.After = timeseries.DurationCurve(after)
		}
		r.Hourly = &h
	case ViewMeasures:
		counts := CountMeasures(buildings)
		r.Measures = &counts
	case ViewET:
		if err := timeseries.CheckLength("outdoor temperature", a.data.Temperature); err != nil {
			return nil, err
		}
		fit, err := FitRegression(a.data.Temperature, after)
		if err != nil {
			return nil, err
		}
		r.ET = &ETView{Regression: fit, Temperature: a.data.Temperature, Power: after}
	case ViewEconomy:
		e, err := Economics(before, after, buildings, opts.Price)
		if err != nil {
			return nil, err
		}
		r.Economy = &e
	case ViewEmissions:
		e, err := EmissionsFor(before, after, opts.EmissionFactor)
		if err != nil {
			return nil, err
		}
		r.Emissions = &e
	}

	a.logger.WithFields(logrus.Fields{
		"scenario":  scenario,
		"view":      opts.View,
		"area":      areaID,
		"buildings": len(buildings),
	}).Debug("Computed scenario report")
	return r, nil
}

// CompareToReference compares category of scenario with the same category of
// the reference scenario over the selection.
func (a *Analyzer) CompareToReference(scenario, areaID string, sel geometry.Selection, category models.Category) (*ReferenceComparison, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: category %s", ErrInvalidParameter, category)
	}
	selection, err := a.Select(areaID, sel)
	if err != nil {
		return nil, err
	}
	ref, err := a.Aggregate(a.reference, selection.IDs)
	if err != nil {
		return nil, err
	}
	scen, err := a.Aggregate(scenario, selection.IDs)
	if err != nil {
		return nil, err
	}

	c, err := Compare(ref[category], scen[category])
	if err != nil {
		return nil, err
	}
	rc := &ReferenceComparison{
		Reference:  a.reference,
		Scenario:   scenario,
		Category:   category,
		Comparison: c,
	}
	if rc.ReferenceSummary, err = Summarize(ref[category]); err != nil {
		return nil, err
	}
	if rc.ScenarioSummary, err = Summarize(scen[category]); err != nil {
		return nil, err
	}
	return rc, nil
}

func validView(v View) bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}
