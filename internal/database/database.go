package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"energyplan/server/internal/models"
)

var stagingPattern = models.StagingPrefix + "%"

// Database reads the imported simulation output. Writes go through the gorm
// handle returned by Gorm, which shares the same connection pool.
type Database struct {
	db   *sql.DB
	gorm *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.New(sqlite.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return &Database{db: db, gorm: gdb}, nil
}

// Gorm returns the handle the import pipeline writes through.
func (d *Database) Gorm() *gorm.DB {
	return d.gorm
}

func (d *Database) Close() error {
	return d.db.Close()
}

// ListScenarios returns the names of every imported scenario.
func (d *Database) ListScenarios() ([]string, error) {
	rows, err := d.db.Query(`
        SELECT DISTINCT scenario FROM buildings
        WHERE scenario NOT LIKE ?
        ORDER BY scenario
    `, stagingPattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

// GetBuildings returns the buildings of scenario, or of every committed
// scenario when scenario is empty.
func (d *Database) GetBuildings(scenario string) ([]models.Building, error) {
	query := `
        SELECT
            object_id,
            scenario,
            x,
            y,
            COALESCE(area_id, '') as area_id,
            ground_source,
            district_heating,
            solar,
            air_to_air,
            retrofit,
            COALESCE(floor_area, 0) as floor_area,
            COALESCE(address, '') as address,
            COALESCE(building_type, '') as building_type,
            COALESCE(well_meters, 0) as well_meters,
            COALESCE(solar_production, 0) as solar_production
        FROM buildings
        WHERE ((? = '' AND scenario NOT LIKE ?) OR scenario = ?)
        ORDER BY scenario, object_id
    `
	rows, err := d.db.Query(query, scenario, stagingPattern, scenario)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buildings []models.Building
	for rows.Next() {
		var b models.Building
		err := rows.Scan(
			&b.ObjectID,
			&b.Scenario,
			&b.X,
			&b.Y,
			&b.AreaID,
			&b.GroundSource,
			&b.DistrictHeating,
			&b.Solar,
			&b.AirToAir,
			&b.Retrofit,
			&b.FloorArea,
			&b.Address,
			&b.BuildingType,
			&b.WellMeters,
			&b.SolarProduction,
		)
		if err != nil {
			return nil, err
		}
		buildings = append(buildings, b)
	}
	return buildings, rows.Err()
}

// GetHourlyTable reads every stored series of scenario.
func (d *Database) GetHourlyTable(scenario string) (*models.HourlyTable, error) {
	rows, err := d.db.Query(`
        SELECT category, building_id, "values"
        FROM hourly_series
        WHERE scenario = ?
    `, scenario)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := models.NewHourlyTable(scenario)
	for rows.Next() {
		var category, id string
		var raw []byte
		if err := rows.Scan(&category, &id, &raw); err != nil {
			return nil, err
		}
		var values models.StoredValues
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("failed to decode series %s/%s/%s: %w", scenario, category, id, err)
		}
		table.Put(models.Category(category), id, []float64(values))
	}
	return table, rows.Err()
}

// GetTemperature returns the stored outdoor temperature in hour order.
func (d *Database) GetTemperature() ([]float64, error) {
	rows, err := d.db.Query(`SELECT value FROM temperature ORDER BY hour`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// LoadDataset reads everything the analysis needs into memory.
func (d *Database) LoadDataset() (*models.Dataset, error) {
	scenarios, err := d.ListScenarios()
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	data := &models.Dataset{
		Hourly:    make(map[string]*models.HourlyTable, len(scenarios)),
		Scenarios: scenarios,
	}
	if data.Buildings, err = d.GetBuildings(""); err != nil {
		return nil, fmt.Errorf("failed to read buildings: %w", err)
	}
	for _, s := range scenarios {
		if data.Hourly[s], err = d.GetHourlyTable(s); err != nil {
			return nil, fmt.Errorf("failed to read hourly series of %s: %w", s, err)
		}
	}
	if data.Temperature, err = d.GetTemperature(); err != nil {
		return nil, fmt.Errorf("failed to read temperature: %w", err)
	}
	return data, nil
}
