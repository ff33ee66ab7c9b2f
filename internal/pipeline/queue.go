package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/structcost/takeoff/internal/common"
	"github.com/structcost/takeoff/internal/ocr"
)

// Job is one document's worth of OCR blocks queued for processing.
type Job struct {
	JobID       uuid.UUID
	DocID       string
	Blocks      []ocr.RawBlock
	SubmittedAt time.Time
}

// NewJob stamps a fresh job id and submission time.
func NewJob(docID string, blocks []ocr.RawBlock) Job {
	return Job{
		JobID:       uuid.New(),
		DocID:       docID,
		Blocks:      blocks,
		SubmittedAt: time.Now().UTC(),
	}
}

// Queue runs document jobs on a fixed worker pool. Each document is
// independent, so workers share one Processor.
type Queue struct {
	proc     *Processor
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
	onResult func(Job, Result)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type QueueOption func(*Queue)

func WithWorkers(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) QueueOption {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithResultHandler registers a callback invoked after each processed job.
func WithResultHandler(fn func(Job, Result)) QueueOption {
	return func(q *Queue) {
		q.onResult = fn
	}
}

func NewQueue(proc *Processor, logger *slog.Logger, opts ...QueueOption) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := common.WithTimeout(context.Background(), q.timeout)
					ctx = common.WithRequestID(ctx, job.JobID.String())
					res := q.proc.ProcessBlocks(ctx, job.DocID, job.Blocks)
					cancel()

					q.logger.Info("processed document",
						"worker_id", workerID, "job_id", job.JobID,
						"doc_id", job.DocID, "total", res.Estimate.Total)
					if q.onResult != nil {
						q.onResult(job, res)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue submits a job. A full queue blocks the caller rather than dropping
// the document.
func (q *Queue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "doc_id", job.DocID)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued document for processing", "job_id", job.JobID, "doc_id", job.DocID)
	default:
		q.logger.Warn("queue full, applying backpressure", "doc_id", job.DocID)
		q.ch <- job
	}
	return nil
}

// Shutdown stops intake and waits for in-flight jobs, up to ctx's deadline.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-done:
		q.logger.Info("queue drained")
	case <-ctx.Done():
		q.logger.Warn("shutdown timed out with jobs in flight")
	}
}
