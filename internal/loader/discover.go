package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"energyplan/server/internal/models"
)

// ScenarioFiles are the two tables one scenario run writes.
type ScenarioFiles struct {
	Name          string
	BuildingsFile string
	HourlyFile    string
}

// Discover finds scenario outputs in dir. A building table is named
// "<scenario>_..._unfiltered.csv" and its hourly table "<scenario>_timedata.csv".
func Discover(dir string) ([]ScenarioFiles, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}

	var found []ScenarioFiles
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "unfiltered.csv") {
			continue
		}
		name := strings.SplitN(e.Name(), "_", 2)[0]
		found = append(found, ScenarioFiles{
			Name:          name,
			BuildingsFile: filepath.Join(dir, e.Name()),
			HourlyFile:    filepath.Join(dir, name+"_timedata.csv"),
		})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// LoadScenario reads both tables of one scenario.
func LoadScenario(sf ScenarioFiles) ([]models.Building, *models.HourlyTable, error) {
	bf, err := os.Open(sf.BuildingsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open building table: %w", err)
	}
	defer bf.Close()

	buildings, err := ReadBuildings(bf, sf.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario %s buildings: %w", sf.Name, err)
	}

	hf, err := os.Open(sf.HourlyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open hourly table: %w", err)
	}
	defer hf.Close()

	table, err := ReadHourly(hf, sf.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario %s hourly data: %w", sf.Name, err)
	}

	if err := CheckIDs(buildings, table); err != nil {
		return nil, nil, err
	}
	return buildings, table, nil
}

// CheckIDs fails when the hourly table has series for ids the building
// table of the same scenario does not list.
func CheckIDs(buildings []models.Building, table *models.HourlyTable) error {
	known := make(map[string]struct{}, len(buildings))
	for _, b := range buildings {
		known[b.ObjectID] = struct{}{}
	}
	var unknown []string
	for _, id := range table.BuildingIDs() {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &models.DataShapeError{What: fmt.Sprintf("scenario %s has hourly series for unknown buildings %v", table.Scenario, unknown)}
	}
	return nil
}

// Load reads every scenario in dir plus the temperature file into a Dataset.
func Load(dir, temperatureFile string) (*models.Dataset, error) {
	files, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario output found in %s", dir)
	}

	data := &models.Dataset{Hourly: make(map[string]*models.HourlyTable, len(files))}
	for _, sf := range files {
		buildings, table, err := LoadScenario(sf)
		if err != nil {
			return nil, err
		}
		data.Buildings = append(data.Buildings, buildings...)
		data.Hourly[sf.Name] = table
		data.Scenarios = append(data.Scenarios, sf.Name)
	}

	if data.Temperature, err = ReadTemperature(temperatureFile); err != nil {
		return nil, err
	}
	return data, nil
}
