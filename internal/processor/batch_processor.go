package processor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"energyplan/server/config"
	"energyplan/server/internal/database"
	"energyplan/server/internal/metrics"
	"energyplan/server/internal/models"
	"energyplan/server/internal/queue"
)

// Transactor is the part of *gorm.DB the processor needs.
type Transactor interface {
	Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error
}

// Stats counts the batches a processor has handled.
type Stats struct {
	Processed int
	Failed    int
	Rows      int
}

// BatchProcessor persists import batches
type BatchProcessor struct {
	db      Transactor
	logger  *logrus.Logger
	config  *config.Config
	queue   *queue.BatchQueue
	metrics *metrics.Metrics
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once

	mu      sync.Mutex
	stats   Stats
	lastErr error
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.BatchQueue, config *config.Config, logger *logrus.Logger, m *metrics.Metrics) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:      db,
		queue:   queue,
		config:  config,
		logger:  logger,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start subscribes the processor to its queue. Calling it again is a no-op.
func (p *BatchProcessor) Start() {
	p.once.Do(func() {
		p.queue.Subscribe(p.processBatch)
	})
}

// Stop cancels pending retries. Batches handled afterwards fail immediately.
func (p *BatchProcessor) Stop() {
	p.cancel()
}

// Stats returns the counters so far.
func (p *BatchProcessor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Err returns the error of the last failed batch, if any.
func (p *BatchProcessor) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *BatchProcessor) batchSize() int {
	if p.config.BatchProcessing.MaxBatchSize > 0 {
		return p.config.BatchProcessing.MaxBatchSize
	}
	return 100
}

// processBatch writes a single batch in one transaction, retrying on failure
func (p *BatchProcessor) processBatch(batch *models.ImportBatch) error {
	log := p.logger.WithFields(logrus.Fields{
		"batch_id": batch.ID,
		"scenario": batch.Scenario,
	})

	var err error
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Infof("Retrying batch processing, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			select {
			case <-p.ctx.Done():
				return p.fail(batch, fmt.Errorf("batch %s abandoned: %w", batch.ID, p.ctx.Err()))
			case <-time.After(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second):
			}
		}
		if p.ctx.Err() != nil {
			return p.fail(batch, fmt.Errorf("batch %s abandoned: %w", batch.ID, p.ctx.Err()))
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertBuildings(tx, batch.Buildings, p.batchSize()); err != nil {
				return fmt.Errorf("failed to upsert buildings: %w", err)
			}
			if err := database.UpsertSeries(tx, batch.Series, p.batchSize()); err != nil {
				return fmt.Errorf("failed to upsert hourly series: %w", err)
			}
			if err := database.UpsertTemperature(tx, batch.Temperature, p.batchSize()); err != nil {
				return fmt.Errorf("failed to upsert temperature: %w", err)
			}
			if batch.Commit != nil {
				if err := database.CommitScenario(tx, batch.Commit); err != nil {
					return fmt.Errorf("failed to commit scenario: %w", err)
				}
			}
			return nil
		})

		if err == nil {
			log.WithField("rows", batch.Size()).Debug("Successfully processed batch")
			p.mu.Lock()
			p.stats.Processed++
			p.stats.Rows += batch.Size()
			p.mu.Unlock()
			p.metrics.ImportBatch(batch.Size(), true)
			return nil
		}

		log.WithError(err).Error("Batch processing failed")
	}

	if batch.Commit != nil {
		p.discardStage(batch.Commit)
	}
	return p.fail(batch, fmt.Errorf("failed to process batch after %d attempts: %w", p.config.BatchProcessing.MaxRetries, err))
}

// discardStage drops the staged rows of a scenario that could not be committed.
func (p *BatchProcessor) discardStage(c *models.ScenarioCommit) {
	err := p.db.Transaction(func(tx *gorm.DB) error {
		return database.DeleteScenario(tx, c.Stage)
	})
	if err != nil {
		p.logger.WithError(err).WithField("stage", c.Stage).Warn("Failed to discard staged scenario")
	}
}

func (p *BatchProcessor) fail(batch *models.ImportBatch, err error) error {
	p.mu.Lock()
	p.stats.Failed++
	p.lastErr = err
	p.mu.Unlock()
	p.metrics.ImportBatch(batch.Size(), false)
	return err
}
