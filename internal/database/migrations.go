package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"energyplan/server/internal/models"
)

// ErrIncompleteStage is returned when a staged scenario holds fewer rows
// than its import wrote.
var ErrIncompleteStage = errors.New("staged scenario is incomplete")

func (d *Database) RunMigrations() error {
	if err := MigrateSchema(d.gorm); err != nil {
		return err
	}

	// Coordinate index for area and extent lookups
	_, err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_buildings_coordinates
		ON buildings(x, y);
	`)
	if err != nil {
		return fmt.Errorf("failed to create coordinate index: %w", err)
	}
	return nil
}

// MigrateSchema creates or updates the tables of the stored models.
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Building{}, &models.SeriesRecord{}, &models.TemperatureRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// UpsertBuildings inserts buildings, replacing rows with the same scenario and object id.
func UpsertBuildings(tx *gorm.DB, buildings []models.Building, batchSize int) error {
	if len(buildings) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(buildings, batchSize).Error
}

// UpsertSeries inserts hourly series, replacing existing ones.
func UpsertSeries(tx *gorm.DB, records []models.SeriesRecord, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(records, batchSize).Error
}

// UpsertTemperature inserts hourly temperatures, replacing existing hours.
func UpsertTemperature(tx *gorm.DB, records []models.TemperatureRecord, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(records, batchSize).Error
}

// DeleteScenario removes every row of scenario so a re-import starts clean.
func DeleteScenario(tx *gorm.DB, scenario string) error {
	if err := tx.Where("scenario = ?", scenario).Delete(&models.SeriesRecord{}).Error; err != nil {
		return err
	}
	return tx.Where("scenario = ?", scenario).Delete(&models.Building{}).Error
}

// CommitScenario replaces the stored rows of c.Scenario with the rows staged
// under c.Stage. Run it inside a transaction so readers never see a partial
// scenario.
func CommitScenario(tx *gorm.DB, c *models.ScenarioCommit) error {
	var buildings, series int64
	if err := tx.Model(&models.Building{}).Where("scenario = ?", c.Stage).Count(&buildings).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.SeriesRecord{}).Where("scenario = ?", c.Stage).Count(&series).Error; err != nil {
		return err
	}
	if int(buildings) != c.Buildings || int(series) != c.Series {
		return fmt.Errorf("%w: %s has %d/%d buildings and %d/%d series",
			ErrIncompleteStage, c.Scenario, buildings, c.Buildings, series, c.Series)
	}

	if err := DeleteScenario(tx, c.Scenario); err != nil {
		return fmt.Errorf("failed to clear scenario: %w", err)
	}
	if err := tx.Model(&models.Building{}).Where("scenario = ?", c.Stage).Update("scenario", c.Scenario).Error; err != nil {
		return fmt.Errorf("failed to commit buildings: %w", err)
	}
	if err := tx.Model(&models.SeriesRecord{}).Where("scenario = ?", c.Stage).Update("scenario", c.Scenario).Error; err != nil {
		return fmt.Errorf("failed to commit hourly series: %w", err)
	}
	return nil
}
