package meeting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
	"github.com/johnquangdev/meeting-analyzer/pkg/jobcontext"
)

const jobTypePipeline = "meeting_pipeline"

// Processor runs one pipeline job
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// Pool is a fixed set of workers reading pipeline jobs from a bounded queue.
// Each submitted meeting runs once.
type Pool struct {
	processor Processor
	meetings  repositories.MeetingRepository
	workers   int
	timeout   time.Duration
	queue     chan Job
	logger    *zap.Logger

	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPool creates a worker pool sized from cfg
func NewPool(processor Processor, meetings repositories.MeetingRepository, cfg *config.PipelineConfig, logger *zap.Logger) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	return &Pool{
		processor: processor,
		meetings:  meetings,
		workers:   workers,
		timeout:   cfg.JobTimeout,
		queue:     make(chan Job, size),
		logger:    logger,
	}
}

// Start launches the workers
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("worker pool already running")
	}
	p.isRunning = true
	p.stopChan = make(chan struct{})

	if p.logger != nil {
		p.logger.Info("🚀 Starting pipeline worker pool",
			zap.Int("worker_count", p.workers),
			zap.Int("queue_size", cap(p.queue)),
		)
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	return nil
}

// Stop waits for running jobs to finish. Jobs still queued are marked failed.
func (p *Pool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return fmt.Errorf("worker pool not running")
	}

	if p.logger != nil {
		p.logger.Info("🛑 Stopping pipeline worker pool...")
	}

	close(p.stopChan)
	p.wg.Wait()
	p.isRunning = false

	for {
		select {
		case job := <-p.queue:
			p.markFailed(context.Background(), job, "service stopped before processing started")
		default:
			if p.logger != nil {
				p.logger.Info("✅ Pipeline worker pool stopped")
			}
			return nil
		}
	}
}

// Submit enqueues job without blocking. A full queue marks the meeting
// transcribe_failed and returns ErrQueueFull.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case p.queue <- job:
		return nil
	default:
	}

	if p.logger != nil {
		p.logger.Warn("⚠️ Pipeline queue full, rejecting meeting",
			zap.String("meeting_id", job.MeetingID.String()),
		)
	}
	p.markFailed(ctx, job, "processing queue is full")
	return apperrors.ErrQueueFull()
}

func (p *Pool) worker(parentCtx context.Context, workerID int) {
	defer p.wg.Done()

	if p.logger != nil {
		p.logger.Info("👷 Worker started", zap.Int("worker_id", workerID))
	}

	for {
		select {
		case <-p.stopChan:
			if p.logger != nil {
				p.logger.Info("👷 Worker stopping", zap.Int("worker_id", workerID))
			}
			return
		case <-parentCtx.Done():
			return
		case job := <-p.queue:
			p.run(parentCtx, workerID, job)
		}
	}
}

func (p *Pool) run(parentCtx context.Context, workerID int, job Job) {
	if p.logger != nil {
		p.logger.Info("👷 Worker picked up meeting",
			zap.Int("worker_id", workerID),
			zap.String("meeting_id", job.MeetingID.String()),
		)
	}

	jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.MeetingID.String(), jobTypePipeline, workerID, p.timeout)
	meta := jobcontext.GetJobMetadata(jobCtx)
	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return p.processor.Process(ctx, job)
	})
	cancel()

	if err == nil {
		if p.logger != nil {
			p.logger.Info("✅ Meeting processed",
				zap.Int("worker_id", meta.WorkerID),
				zap.String("meeting_id", meta.MeetingID),
				zap.Duration("elapsed", time.Since(meta.StartTime)),
			)
		}
		return
	}

	if p.logger != nil {
		p.logger.Error("❌ Meeting pipeline failed",
			zap.Int("worker_id", meta.WorkerID),
			zap.String("meeting_id", meta.MeetingID),
			zap.String("job_type", meta.JobType),
			zap.Duration("elapsed", time.Since(meta.StartTime)),
			zap.Error(err),
		)
	}
	p.markFailed(parentCtx, job, err.Error())
}

// markFailed moves a meeting that is not yet terminal onto the failure track
func (p *Pool) markFailed(ctx context.Context, job Job, reason string) {
	if p.meetings == nil {
		return
	}
	m, err := p.meetings.GetByID(ctx, job.MeetingID)
	if err != nil || m == nil || m.Status.IsTerminal() {
		return
	}

	status := entities.MeetingStatusTranscribeFailed
	if m.Status == entities.MeetingStatusAnalyzing {
		status = entities.MeetingStatusAnalyzeFailed
	}
	err = p.meetings.UpdateStatus(ctx, job.MeetingID, status, entities.StringPtr(reason))
	if err != nil && !errors.Is(err, entities.ErrMeetingNotFound) && p.logger != nil {
		p.logger.Error("❌ Failed to mark meeting as failed",
			zap.String("meeting_id", job.MeetingID.String()),
			zap.Error(err),
		)
	}
}
