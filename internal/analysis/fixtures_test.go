package analysis

import (
	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

func constantSeries(v float64) []float64 {
	s := timeseries.Zeros()
	for i := range s {
		s[i] = v
	}
	return s
}

// fullTable fills every category of every id with the same constant.
func fullTable(scenario string, values map[string]float64) *models.HourlyTable {
	t := models.NewHourlyTable(scenario)
	for _, c := range models.Categories {
		t.Series[c] = make(map[string][]float64)
		for id, v := range values {
			t.Put(c, id, constantSeries(v))
		}
	}
	return t
}

// testDataset has two buildings inside the unit square and one outside,
// for a reference scenario and a heat pump scenario.
func testDataset() *models.Dataset {
	buildings := []models.Building{
		{ObjectID: "1", Scenario: "Referansesituasjon", X: 0.25, Y: 0.25, AreaID: "E", Address: "Vei 1", FloorArea: 100},
		{ObjectID: "2", Scenario: "Referansesituasjon", X: 0.75, Y: 0.75, AreaID: "E", Address: "Vei 2", FloorArea: 300},
		{ObjectID: "3", Scenario: "Referansesituasjon", X: 5, Y: 5, AreaID: "E", Address: "Vei 3", FloorArea: 50},
		{ObjectID: "1", Scenario: "Bergvarme", X: 0.25, Y: 0.25, AreaID: "E", Address: "Vei 1", FloorArea: 100, GroundSource: true, WellMeters: 450},
		{ObjectID: "2", Scenario: "Bergvarme", X: 0.75, Y: 0.75, AreaID: "E", Address: "Vei 2", FloorArea: 300, Solar: true, SolarProduction: 1000.6, WellMeters: 300},
		{ObjectID: "3", Scenario: "Bergvarme", X: 5, Y: 5, AreaID: "E", Address: "Vei 3", FloorArea: 50},
		{ObjectID: "9", Scenario: "Bergvarme", X: 0.5, Y: 0.5, AreaID: "P1"},
	}

	ref := fullTable("Referansesituasjon", map[string]float64{"1": 1, "2": 2, "3": 100})
	hp := fullTable("Bergvarme", map[string]float64{"1": 1, "2": 2, "3": 100})
	// the heat pump scenario halves grid exchange
	for id, s := range hp.Series[models.CategoryGridExchange] {
		hp.Series[models.CategoryGridExchange][id] = timeseries.Scale(0.5, s)
	}

	temperature := timeseries.Zeros()
	for i := range temperature {
		temperature[i] = float64(i%48) - 20
	}

	return &models.Dataset{
		Buildings:   buildings,
		Hourly:      map[string]*models.HourlyTable{"Referansesituasjon": ref, "Bergvarme": hp},
		Temperature: temperature,
		Scenarios:   []string{"Bergvarme", "Referansesituasjon"},
	}
}
