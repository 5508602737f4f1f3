package processor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"energyplan/server/internal/models"
	"energyplan/server/internal/queue"
)

// Progress is told how many rows a batch carried once it was queued.
type Progress interface {
	Add(int) int
}

type noProgress struct{}

func (noProgress) Add(n int) int { return n }

// Importer reads the simulation output folder and feeds it to a queue in
// batches of at most batchSize rows.
type Importer struct {
	queue     *queue.BatchQueue
	batchSize int
	logger    *logrus.Logger
	progress  Progress
}

func NewImporter(q *queue.BatchQueue, batchSize int, logger *logrus.Logger) *Importer {
	if logger == nil {
		logger = logrus.New()
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Importer{queue: q, batchSize: batchSize, logger: logger, progress: noProgress{}}
}

// WithProgress reports queued rows to p.
func (im *Importer) WithProgress(p Progress) *Importer {
	if p != nil {
		im.progress = p
	}
	return im
}

// CountRows returns the number of building and series rows Import queues
// for data, so a progress bar can be sized beforehand.
func CountRows(data *models.Dataset) int {
	n := len(data.Buildings)
	for _, table := range data.Hourly {
		for _, byID := range table.Series {
			n += len(byID)
		}
	}
	return n
}

// Import queues every scenario of data plus the temperature series and
// waits until the queue has handled all of them.
func (im *Importer) Import(ctx context.Context, data *models.Dataset) error {
	for _, scenario := range data.Scenarios {
		table, ok := data.Hourly[scenario]
		if !ok {
			return &models.DataShapeError{What: fmt.Sprintf("scenario %s has no hourly table", scenario)}
		}
		if err := im.ImportScenario(ctx, scenario, data.BuildingsFor(scenario, ""), table); err != nil {
			return err
		}
	}
	if err := im.ImportTemperature(ctx, data.Temperature); err != nil {
		return err
	}
	im.queue.Wait()
	return nil
}

// ImportScenario queues one scenario. Rows are staged under a temporary key
// and a final batch swaps them in for the stored scenario, so a failed batch
// leaves the previous import untouched.
func (im *Importer) ImportScenario(ctx context.Context, scenario string, buildings []models.Building, table *models.HourlyTable) error {
	stage := models.StagingScenario(scenario, uuid.NewString())

	staged := make([]models.Building, len(buildings))
	for i, b := range buildings {
		b.Scenario = stage
		staged[i] = b
	}
	for start := 0; start < len(staged); start += im.batchSize {
		end := min(start+im.batchSize, len(staged))
		batch := &models.ImportBatch{ID: uuid.NewString(), Scenario: scenario, Buildings: staged[start:end]}
		if err := im.push(ctx, batch); err != nil {
			return err
		}
	}

	records := table.SeriesRecords()
	for i := range records {
		records[i].Scenario = stage
	}
	for start := 0; start < len(records); start += im.batchSize {
		end := min(start+im.batchSize, len(records))
		batch := &models.ImportBatch{ID: uuid.NewString(), Scenario: scenario, Series: records[start:end]}
		if err := im.push(ctx, batch); err != nil {
			return err
		}
	}

	commit := &models.ImportBatch{
		ID:       uuid.NewString(),
		Scenario: scenario,
		Commit: &models.ScenarioCommit{
			Scenario:  scenario,
			Stage:     stage,
			Buildings: len(staged),
			Series:    len(records),
		},
	}
	if err := im.push(ctx, commit); err != nil {
		return err
	}

	im.logger.WithFields(logrus.Fields{
		"scenario":  scenario,
		"buildings": len(buildings),
		"series":    len(records),
	}).Info("Queued scenario for import")
	return nil
}

// ImportTemperature queues the hourly outdoor temperature.
func (im *Importer) ImportTemperature(ctx context.Context, temperature []float64) error {
	records := make([]models.TemperatureRecord, len(temperature))
	for i, v := range temperature {
		records[i] = models.TemperatureRecord{Hour: i, Value: v}
	}
	for start := 0; start < len(records); start += im.batchSize {
		end := min(start+im.batchSize, len(records))
		if err := im.push(ctx, &models.ImportBatch{ID: uuid.NewString(), Temperature: records[start:end]}); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) push(ctx context.Context, batch *models.ImportBatch) error {
	if err := im.queue.PushWait(ctx, batch); err != nil {
		return fmt.Errorf("failed to queue batch %s: %w", batch.ID, err)
	}
	im.progress.Add(len(batch.Buildings) + len(batch.Series))
	return nil
}
