package models

import (
	"encoding/json"
	"math"
)

// StoredValues is an hourly series as kept in the database. Missing hours
// (NaN) are written as JSON null and read back as NaN.
type StoredValues []float64

func (v StoredValues) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(v))
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			continue
		}
		out[i] = &v[i]
	}
	return json.Marshal(out)
}

func (v *StoredValues) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*v = nil
		return nil
	}
	out := make(StoredValues, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	*v = out
	return nil
}

// SeriesRecord is the stored form of one building's hourly series.
type SeriesRecord struct {
	Scenario   string       `gorm:"primaryKey"`
	Category   Category     `gorm:"primaryKey"`
	BuildingID string       `gorm:"primaryKey"`
	Values     StoredValues `gorm:"serializer:json"`
}

func (SeriesRecord) TableName() string {
	return "hourly_series"
}

// TemperatureRecord is the outdoor temperature of one hour of the year.
type TemperatureRecord struct {
	Hour  int `gorm:"primaryKey;autoIncrement:false"`
	Value float64
}

func (TemperatureRecord) TableName() string {
	return "temperature"
}

// StagingPrefix marks rows of a scenario import that has not been
// committed yet. Readers skip them.
const StagingPrefix = "~staging/"

// StagingScenario is the scenario key rows of one import are written under
// until the import commits.
func StagingScenario(scenario, importID string) string {
	return StagingPrefix + importID + "/" + scenario
}

// ScenarioCommit swaps a fully staged scenario in for the stored one. The
// counts are the rows the import staged; a stage holding fewer rows is
// discarded and the stored scenario is left alone.
type ScenarioCommit struct {
	Scenario  string
	Stage     string
	Buildings int
	Series    int
}

// ImportBatch is one unit of work of the import pipeline. A batch carries
// building rows, series rows, temperature rows or any mix of them, or the
// commit of a staged scenario.
type ImportBatch struct {
	ID          string
	Scenario    string
	Buildings   []Building
	Series      []SeriesRecord
	Temperature []TemperatureRecord
	Commit      *ScenarioCommit
}

// Size is the number of rows the batch writes.
func (b *ImportBatch) Size() int {
	return len(b.Buildings) + len(b.Series) + len(b.Temperature)
}

// SeriesRecords flattens a table into stored rows, ordered by category.
func (t *HourlyTable) SeriesRecords() []SeriesRecord {
	var out []SeriesRecord
	for _, c := range Categories {
		for id, values := range t.Series[c] {
			out = append(out, SeriesRecord{Scenario: t.Scenario, Category: c, BuildingID: id, Values: values})
		}
	}
	return out
}
