// Package service wires the scorer registry, job queue, worker pool and job
// store into the operations the HTTP API and CLI depend on.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/confscore/internal/adapters/mq/queue"
	"github.com/okian/confscore/internal/adapters/mq/worker"
	"github.com/okian/confscore/internal/adapters/repository"
	"github.com/okian/confscore/internal/domain/model"
	"github.com/okian/confscore/internal/domain/options"
	"github.com/okian/confscore/internal/domain/scoring"
	"github.com/okian/confscore/pkg/logger"
	"github.com/okian/confscore/pkg/matrix"
	"github.com/okian/confscore/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 10_000
	defaultStoreSize   = 100_000
	defaultShardCount  = 8
	defaultJobTimeout  = 30 * time.Second
	stopTimeout        = 30 * time.Second
	requestOptionsName = "request"
)

// Service scores prediction matrices synchronously and as queued jobs.
type Service struct {
	mu sync.RWMutex

	registry *scoring.Registry
	store    *repository.MemoryStore
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	workerCount   int
	queueSize     int
	storeSize     int
	shardCount    int
	rowWorkers    int
	defaultScorer string
	jobTimeout    time.Duration

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		registry:      scoring.Default(),
		workerCount:   runtime.NumCPU(),
		queueSize:     defaultQueueSize,
		storeSize:     defaultStoreSize,
		shardCount:    defaultShardCount,
		rowWorkers:    1,
		defaultScorer: scoring.NameBoltzman,
		jobTimeout:    defaultJobTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store, queue and worker pool and starts the workers.
// Starting a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if !s.registry.Has(s.defaultScorer) {
		return fmt.Errorf("default scorer: %w: %q", scoring.ErrUnknownScorer, s.defaultScorer)
	}

	s.store = repository.NewMemoryStore(ctx,
		repository.WithCapacity(s.storeSize),
		repository.WithShardCount(s.shardCount),
	)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.store,
		worker.WithJobTimeout(s.jobTimeout),
		worker.WithLogger(s.logger.Named("worker")),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "confidence scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("store_size", s.storeSize),
		logger.String("default_scorer", s.defaultScorer),
	)
	return nil
}

// Stop closes the queue, lets workers drain it and releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping confidence scoring service")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	_ = s.store.Close()

	s.started = false
	s.logger.Info(ctx, "confidence scoring service stopped")
}

// Score runs the named scorer over pred. An empty name selects the default
// scorer.
func (s *Service) Score(ctx context.Context, name string, pred *matrix.Dense) (model.Result, error) {
	if name == "" {
		name = s.defaultScorer
	}
	sc, err := s.registry.New(name, scoring.WithRowWorkers(s.rowWorkers))
	if err != nil {
		metrics.RecordScoringError(name, errorKind(err))
		return model.Result{}, err
	}

	in := options.New(requestOptionsName)
	in.SetMatrix(scoring.KeyPred, pred)

	start := time.Now()
	out, err := sc.Execute(ctx, nil, nil, in)
	if err != nil {
		metrics.RecordScoringError(name, errorKind(err))
		return model.Result{}, err
	}
	res, err := toResult(name, out)
	if err != nil {
		metrics.RecordScoringError(name, errorKind(err))
		return model.Result{}, err
	}
	metrics.RecordScoring(name, len(res.Confidence), float64(time.Since(start).Microseconds())/1000)
	return res, nil
}

// Execute scores a queued job. It is the worker pool's executor.
func (s *Service) Execute(ctx context.Context, job model.Job) (model.Result, error) {
	return s.Score(ctx, job.Scorer, job.Pred)
}

// Submit queues job for asynchronous scoring. A missing id is replaced by a
// random UUID and a missing scorer by the default. For an id already known
// the job is not queued again and duplicate is true.
func (s *Service) Submit(ctx context.Context, job model.Job) (id string, duplicate bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", false, ErrNotStarted
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Scorer == "" {
		job.Scorer = s.defaultScorer
	}
	if !s.registry.Has(job.Scorer) {
		return job.ID, false, fmt.Errorf("%w: %q", scoring.ErrUnknownScorer, job.Scorer)
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	ok, err := s.store.Reserve(ctx, job)
	if err != nil {
		return job.ID, false, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	if !ok {
		metrics.RecordJobDuplicate()
		s.logger.Debug(ctx, "duplicate job", logger.String("job_id", job.ID))
		return job.ID, true, nil
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.store.Release(ctx, job.ID)
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			return job.ID, false, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return job.ID, false, err
	}
	metrics.RecordJobSubmitted()
	return job.ID, false, nil
}

// Job returns the stored state of a job.
func (s *Service) Job(ctx context.Context, id string) (model.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.JobRecord{}, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// Scorers returns the registered scorer names.
func (s *Service) Scorers() []string {
	return s.registry.Names()
}

// DefaultScorer returns the scorer used when a request names none.
func (s *Service) DefaultScorer() string {
	return s.defaultScorer
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"storeSize":     s.storeSize,
		"rowWorkers":    s.rowWorkers,
		"defaultScorer": s.defaultScorer,
	}
	if s.started {
		ctx := context.Background()
		queueLen := s.queue.Len(ctx)
		jobs := s.store.Count(ctx)
		stats["queueLength"] = queueLen
		stats["storedJobs"] = jobs

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreRecordsTotal(jobs)
	}
	return stats
}

// toResult unpacks a scorer result list.
func toResult(name string, out *options.List) (model.Result, error) {
	conf, err := out.GetMatrix(scoring.KeyConfidence)
	if err != nil {
		return model.Result{}, err
	}
	lab, err := out.GetMatrix(scoring.KeyLabels)
	if err != nil {
		return model.Result{}, err
	}

	res := model.Result{
		Scorer:     name,
		Confidence: append([]float64(nil), conf.RawData()...),
		Labels:     make([]int, len(lab.RawData())),
	}
	for i, v := range lab.RawData() {
		res.Labels[i] = int(math.Round(v))
	}
	return res, nil
}

// errorKind maps an error to a short metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, scoring.ErrValidation):
		return "validation"
	case errors.Is(err, scoring.ErrConfiguration):
		return "configuration"
	case errors.Is(err, scoring.ErrUnknownScorer):
		return "unknown_scorer"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
