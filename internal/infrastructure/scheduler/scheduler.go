package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds worker pool configuration
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// DefaultConfig returns default worker pool configuration
func DefaultConfig() Config {
	return Config{
		Workers:    4,
		QueueSize:  256,
		JobTimeout: 30 * time.Second,
	}
}

// Stats counts jobs handled since start
type Stats struct {
	Succeeded int64
	Failed    int64
}

// Scheduler runs export jobs on an in-process worker pool.
// Jobs are kept in memory only; a failed job is logged and dropped.
type Scheduler struct {
	config  Config
	handler integration.ExportJobHandler
	logger  *zap.Logger

	jobs      chan integration.ExportJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	isRunning bool

	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, handler integration.ExportJobHandler, logger *zap.Logger) *Scheduler {
	defaults := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	return &Scheduler{
		config:  config,
		handler: handler,
		logger:  logger,
		jobs:    make(chan integration.ExportJob, config.QueueSize),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Export scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Int("queue_size", s.config.QueueSize),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop stops accepting jobs, lets workers drain the queue and waits for them
// until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	close(s.jobs)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		s.logger.Info("Export scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.cancel()
		s.logger.Warn("Export scheduler stop timed out")
		return ctx.Err()
	}
}

// Schedule implements integration.JobScheduler. It never blocks: a full queue
// rejects the job.
func (s *Scheduler) Schedule(ctx context.Context, channelID uuid.UUID, connector string, payload integration.PriceExportPayload) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	job := integration.NewExportJob(channelID, connector, payload)
	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("connector", connector),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// Stats returns job counters
func (s *Scheduler) Stats() Stats {
	return Stats{
		Succeeded: s.succeeded.Load(),
		Failed:    s.failed.Load(),
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for job := range s.jobs {
		s.processJob(ctx, job, workerID)
	}
}

func (s *Scheduler) processJob(ctx context.Context, job integration.ExportJob, workerID int) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.handler.Handle(jobCtx, job); err != nil {
		s.failed.Add(1)
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("channel_id", job.ChannelID.String()),
			zap.String("sku", job.Payload.SKUFilter),
			zap.Error(err),
		)
		return
	}

	s.succeeded.Add(1)
	s.logger.Debug("Job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
	)
}

var _ integration.JobScheduler = (*Scheduler)(nil)
