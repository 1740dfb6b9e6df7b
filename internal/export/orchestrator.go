package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned by Submit when no more exports can wait.
var ErrQueueFull = errors.New("export queue is full")

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("export pipeline stopped")

type Config struct {
	QueueSize int
	JobTTL    time.Duration
	Options   Options
}

// Orchestrator runs exports on a single worker, so at most one export is in
// flight; the rest wait in a bounded queue.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *Stats
	log   *slog.Logger
	cfg   Config

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewOrchestrator(cfg Config, stats *Stats, log *slog.Logger) *Orchestrator {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.QueueSize),
		stats: stats,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches the worker and the job cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		w := NewWorker(o.stats, o.log, o.cfg.Options)
		for {
			select {
			case <-workerCtx.Done():
				o.drain(workerCtx.Err())
				return
			case job := <-o.queue:
				w.Process(workerCtx, job)
			}
		}
	}()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// drain fails every job still waiting so nobody blocks on Done forever.
func (o *Orchestrator) drain(err error) {
	for {
		select {
		case job := <-o.queue:
			job.Fail(err)
		default:
			return
		}
	}
}

// Stop cancels the running export, fails queued ones and waits for the
// goroutines to exit.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
	o.drain(ErrStopped)
}

// Submit queues a job for export.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.Fail(ErrStopped)
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		err := fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.QueueSize)
		job.Fail(err)
		return err
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
