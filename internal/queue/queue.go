package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"energyplan/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// BatchQueue represents an in-memory queue for import batches
type BatchQueue struct {
	items    chan *models.ImportBatch
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	hmu      sync.RWMutex
	pending  sync.WaitGroup
	logger   *logrus.Logger
	handlers []func(*models.ImportBatch) error
}

// NewBatchQueue creates a new batch queue with the specified buffer size
func NewBatchQueue(bufferSize int, logger *logrus.Logger) *BatchQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchQueue{
		items:    make(chan *models.ImportBatch, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(*models.ImportBatch) error, 0),
	}
}

// Push adds a batch to the queue without blocking
func (q *BatchQueue) Push(batch *models.ImportBatch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	q.pending.Add(1)
	select {
	case q.items <- batch:
		q.logger.WithFields(logrus.Fields{
			"batch_id":   batch.ID,
			"batch_size": batch.Size(),
		}).Debug("Pushed batch to queue")
		return nil
	default:
		q.pending.Done()
		return ErrQueueFull
	}
}

// PushWait adds a batch to the queue, waiting for room until ctx is done
func (q *BatchQueue) PushWait(ctx context.Context, batch *models.ImportBatch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	q.pending.Add(1)
	select {
	case q.items <- batch:
		return nil
	case <-ctx.Done():
		q.pending.Done()
		return ctx.Err()
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *BatchQueue) Subscribe(handler func(*models.ImportBatch) error) {
	q.hmu.Lock()
	defer q.hmu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *BatchQueue) Start() {
	go q.process()
}

// process handles the queue processing loop
func (q *BatchQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch, ok := <-q.items:
			if !ok {
				return
			}
			q.processBatch(batch)
			q.pending.Done()
		}
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *BatchQueue) processBatch(batch *models.ImportBatch) {
	q.hmu.RLock()
	handlers := q.handlers
	q.hmu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).WithField("batch_id", batch.ID).Error("Handler failed to process batch")
		}
	}
}

// Wait blocks until every pushed batch has been handled. It must be called
// after Start and before Close.
func (q *BatchQueue) Wait() {
	q.pending.Wait()
}

// Close stops the queue and prevents new items from being added
func (q *BatchQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	return nil
}

// Len returns the current number of batches in the queue
func (q *BatchQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *BatchQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
