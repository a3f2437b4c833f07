package service

import (
	"time"

	"github.com/okian/confscore/internal/domain/scoring"
	"github.com/okian/confscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of job workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreSize bounds the number of retained jobs.
func WithStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.storeSize = size
		}
	}
}

// WithShardCount sets the number of job store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithRowWorkers sets the per-request row parallelism handed to scorers.
func WithRowWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rowWorkers = n
		}
	}
}

// WithDefaultScorer names the scorer used when a request names none.
func WithDefaultScorer(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultScorer = name
		}
	}
}

// WithJobTimeout bounds the time a worker spends on one job.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// WithRegistry replaces the process-wide scorer registry.
func WithRegistry(r *scoring.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
