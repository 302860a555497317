package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chaali03/KomplekKita-sub001/pkg/logger"
)

// Job is a unit of background work. It receives the worker's context and
// should return early when that context is cancelled.
type Job func(ctx context.Context) error

// Worker runs queued jobs on a fixed pool and periodic jobs on tickers.
// The billing scheduler (denda refresh, monthly generation, token cleanup)
// and async side effects such as notifikasi fan-out all go through here.
type Worker struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	queue    chan Job
	asyncSem chan struct{}

	active    int64
	completed int64
	failed    int64
}

// WorkerStats is a point-in-time snapshot exposed on the admin API.
// CompletedJobs counts every finished job; FailedJobs is the failed subset.
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker starts numWorkers queue processors. Async jobs get their own
// goroutines bounded by a semaphore sized at twice the pool (minimum 10).
func NewWorker(numWorkers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	w := &Worker{
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan Job, 100),
		asyncSem: make(chan struct{}, asyncLimit),
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.drainQueue()
	}

	return w
}

// Enqueue hands a job to the pool. A full queue degrades to running the job
// inline so nothing is silently dropped.
func (w *Worker) Enqueue(job Job) {
	select {
	case w.queue <- job:
	default:
		logger.Warn("Antrian job penuh, menjalankan langsung")
		w.run("inline", job)
	}
}

// EnqueueAsync runs a job fire-and-forget in its own goroutine, bounded by
// the async semaphore. Used for side effects that must not delay a request.
func (w *Worker) EnqueueAsync(job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.run("async", job)
	}()
}

func (w *Worker) drainQueue() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run("queue", job)
		}
	}
}

// run executes one job with panic recovery and stats accounting. Every code
// path that executes a Job funnels through here.
func (w *Worker) run(source string, job Job) {
	atomic.AddInt64(&w.active, 1)
	start := time.Now()

	defer func() {
		atomic.AddInt64(&w.active, -1)
		atomic.AddInt64(&w.completed, 1)
		if r := recover(); r != nil {
			atomic.AddInt64(&w.failed, 1)
			logger.Error("Job panic", "source", source, "panic", r)
		}
	}()

	if err := job(w.ctx); err != nil {
		atomic.AddInt64(&w.failed, 1)
		logger.Error("Job gagal", "source", source, "error", err)
		return
	}
	logger.Info("Job selesai", "source", source, "durasi", time.Since(start))
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after
// one full interval.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.schedule(interval, false, job)
}

// ScheduleEveryImmediate runs a job once right away and then at fixed
// intervals. Use this for jobs that must not wait out a full interval after
// a redeploy, such as the denda refresh.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, job Job) {
	w.schedule(interval, true, job)
}

func (w *Worker) schedule(interval time.Duration, immediate bool, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if immediate {
			w.run("scheduler", job)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("scheduler", job)
			}
		}
	}()
}

// ScheduleAt runs a job once at a specific time
func (w *Worker) ScheduleAt(at time.Time, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		timer := time.NewTimer(time.Until(at))
		defer timer.Stop()

		select {
		case <-w.ctx.Done():
			return
		case <-timer.C:
			w.run("timer", job)
		}
	}()
}

// Shutdown cancels the context and waits for in-flight jobs to finish
func (w *Worker) Shutdown() {
	w.cancel()
	close(w.queue)
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns a snapshot of the worker counters
func (w *Worker) GetStats() WorkerStats {
	return WorkerStats{
		ActiveJobs:    int(atomic.LoadInt64(&w.active)),
		CompletedJobs: atomic.LoadInt64(&w.completed),
		FailedJobs:    atomic.LoadInt64(&w.failed),
		QueueLength:   len(w.queue),
		MaxConcurrent: cap(w.asyncSem),
	}
}
