// Package worker scores queued jobs and records their outcome.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/confscore/internal/domain/model"
	"github.com/okian/confscore/pkg/logger"
	"github.com/okian/confscore/pkg/metrics"
)

const defaultShutdownTimeout = 30 * time.Second

// Executor scores a job.
type Executor interface {
	Execute(ctx context.Context, job model.Job) (model.Result, error)
}

// Recorder stores job outcomes.
type Recorder interface {
	Complete(ctx context.Context, id string, res model.Result) error
	Fail(ctx context.Context, id string, reason string) error
}

// Queue is where workers take jobs from.
type Queue interface {
	Next(ctx context.Context) (model.Job, error)
}

// Worker takes jobs off a queue one at a time until the queue is closed and
// drained or its context ends.
type Worker struct {
	queue    Queue
	executor Executor
	recorder Recorder

	name       string
	jobTimeout time.Duration
	logger     logger.Logger

	busy  *atomic.Int64
	total int
	done  chan struct{}
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, exec Executor, rec Recorder, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		executor: exec,
		recorder: rec,
		name:     "worker",
		logger:   logger.Get().Named("worker"),
		busy:     new(atomic.Int64),
		total:    1,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logger.String("worker", w.name))
	return w
}

// Name returns the worker name.
func (w *Worker) Name() string { return w.name }

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Run processes jobs until the queue reports closed or ctx is done.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		job, err := w.queue.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				w.logger.Debug(ctx, "queue drained", logger.Error(err))
			}
			return
		}
		w.process(ctx, job)
	}
}

// process scores one job and records the outcome. Store writes use the
// worker context so an expired job deadline still gets recorded.
func (w *Worker) process(ctx context.Context, job model.Job) {
	start := time.Now()
	w.markBusy(1)
	defer func() {
		w.markBusy(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	res, err := w.executor.Execute(jobCtx, job)
	if err != nil {
		kind := "scoring"
		if errors.Is(err, context.DeadlineExceeded) {
			kind = "timeout"
		}
		metrics.RecordJobFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", kind)
		metrics.RecordErrorLatency("worker", kind, float64(time.Since(start).Microseconds())/1000)
		w.logger.Warn(ctx, "job failed",
			logger.String("job_id", job.ID),
			logger.String("scorer", job.Scorer),
			logger.Error(err),
		)
		if ferr := w.recorder.Fail(ctx, job.ID, err.Error()); ferr != nil {
			w.logger.Error(ctx, "failed to record job failure", logger.String("job_id", job.ID), logger.Error(ferr))
		}
		return
	}

	if err := w.recorder.Complete(ctx, job.ID, res); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store")
		w.logger.Error(ctx, "failed to record job result", logger.String("job_id", job.ID), logger.Error(err))
		return
	}
	metrics.RecordJobCompleted()
	w.logger.Debug(ctx, "job done",
		logger.String("job_id", job.ID),
		logger.Int("rows", len(res.Confidence)),
		logger.Duration("took", time.Since(start)),
	)
}

func (w *Worker) markBusy(delta int64) {
	busy := int(w.busy.Add(delta))
	metrics.UpdateWorkerActiveCount(busy)
	metrics.UpdateWorkerIdleCount(w.total - busy)
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	queue   Queue
	cancel  context.CancelFunc
	logger  logger.Logger
}

// NewPool creates workerCount workers sharing q. A count below one defaults
// to runtime.NumCPU(). opts apply to every worker; names are assigned here.
func NewPool(workerCount int, q Queue, exec Executor, rec Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	busy := new(atomic.Int64)
	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		w := NewWorker(q, exec, rec, append(opts, WithName("worker-"+strconv.Itoa(i)))...)
		w.busy = busy
		w.total = workerCount
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. Workers stop when ctx is done.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue when it supports Close and waits for workers to
// drain it. Workers still running when ctx ends are cancelled.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
		defer cancel()
	}

	var err error
	for _, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			err = fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
		}
		if err != nil {
			break
		}
	}
	if p.cancel != nil {
		p.cancel()
	}
	return err
}
