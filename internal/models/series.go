package models

// Category names one of the per-building hourly series groups.
type Category string

const (
	CategoryThermalDelivered  Category = "thermal_delivered"
	CategoryElectricDelivered Category = "electric_delivered"
	CategorySpaceHeating      Category = "space_heating"
	CategoryHotWater          Category = "domestic_hot_water"
	CategoryElectricSpecific  Category = "electric_specific"
	CategoryGridExchange      Category = "grid_exchange"
)

// Categories lists every tracked category in presentation order.
var Categories = []Category{
	CategoryThermalDelivered,
	CategoryElectricDelivered,
	CategorySpaceHeating,
	CategoryHotWater,
	CategoryElectricSpecific,
	CategoryGridExchange,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// HourlyTable holds one scenario's hourly series, keyed by category and
// then by building id. Every series is one value per hour of the year.
type HourlyTable struct {
	Scenario string
	Series   map[Category]map[string][]float64
}

// NewHourlyTable returns an empty table for scenario.
func NewHourlyTable(scenario string) *HourlyTable {
	return &HourlyTable{
		Scenario: scenario,
		Series:   make(map[Category]map[string][]float64),
	}
}

// Put stores the series of building id for category c.
func (t *HourlyTable) Put(c Category, id string, values []float64) {
	byID, ok := t.Series[c]
	if !ok {
		byID = make(map[string][]float64)
		t.Series[c] = byID
	}
	byID[id] = values
}

// BuildingIDs returns the ids present under any category.
func (t *HourlyTable) BuildingIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range Categories {
		for id := range t.Series[c] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Aggregate maps each category to the hourly sum over a building selection.
type Aggregate map[Category][]float64

// MonthlyProfile is one value per calendar month, January first.
type MonthlyProfile [12]float64

// MonthNames labels a MonthlyProfile.
var MonthNames = [12]string{"jan", "feb", "mar", "apr", "mai", "jun", "jul", "aug", "sep", "okt", "nov", "des"}

// Dataset is everything the analysis needs, loaded once and read-only afterwards.
type Dataset struct {
	Buildings   []Building
	Hourly      map[string]*HourlyTable
	Temperature []float64
	Scenarios   []string
}

// BuildingsFor returns the buildings of scenario inside building area areaID.
// An empty scenario or area matches everything.
func (d *Dataset) BuildingsFor(scenario, areaID string) []Building {
	var out []Building
	for _, b := range d.Buildings {
		if scenario != "" && b.Scenario != scenario {
			continue
		}
		if areaID != "" && b.AreaID != areaID {
			continue
		}
		out = append(out, b)
	}
	return out
}

// HasScenario reports whether name was loaded.
func (d *Dataset) HasScenario(name string) bool {
	for _, s := range d.Scenarios {
		if s == name {
			return true
		}
	}
	return false
}
