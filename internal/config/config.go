// Package config defines service configuration and its loading from
// defaults, an optional YAML file and CONFSCORE_ environment variables.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/confscore/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of job workers.
	WorkerCount int `koanf:"worker_count"`

	// StoreSize bounds the number of retained jobs.
	StoreSize int `koanf:"store_size"`

	// ShardCount configures the number of shards in the job store.
	ShardCount int `koanf:"shard_count"`

	// DefaultScorer is used when a request names no scorer.
	DefaultScorer string `koanf:"default_scorer"`

	// RowWorkers splits large matrices into concurrently scored row chunks.
	RowWorkers int `koanf:"row_workers"`

	// MaxRows and MaxClasses bound HTTP prediction matrices. Zero disables.
	MaxRows    int `koanf:"max_rows"`
	MaxClasses int `koanf:"max_classes"`

	// JobTimeoutMS bounds the time spent scoring one queued job.
	JobTimeoutMS int `koanf:"job_timeout_ms"`
}

// New returns a Config holding the defaults. The context is reserved for
// future loaders.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		QueueSize:     10_000,
		WorkerCount:   runtime.NumCPU(),
		StoreSize:     100_000,
		ShardCount:    8,
		DefaultScorer: scoring.NameBoltzman,
		RowWorkers:    1,
		MaxRows:       100_000,
		MaxClasses:    10_000,
		JobTimeoutMS:  30_000,
	}
}

// JobTimeout returns JobTimeoutMS as a duration.
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.StoreSize < 1:
		return fmt.Errorf("%w: store_size must be positive, got %d", ErrInvalidConfig, c.StoreSize)
	case c.ShardCount < 1:
		return fmt.Errorf("%w: shard_count must be positive, got %d", ErrInvalidConfig, c.ShardCount)
	case c.RowWorkers < 1:
		return fmt.Errorf("%w: row_workers must be positive, got %d", ErrInvalidConfig, c.RowWorkers)
	case c.MaxRows < 0 || c.MaxClasses < 0:
		return fmt.Errorf("%w: max_rows and max_classes must not be negative", ErrInvalidConfig)
	case c.JobTimeoutMS < 1:
		return fmt.Errorf("%w: job_timeout_ms must be positive, got %d", ErrInvalidConfig, c.JobTimeoutMS)
	case !scoring.Default().Has(c.DefaultScorer):
		return fmt.Errorf("%w: default_scorer %q is not registered", ErrInvalidConfig, c.DefaultScorer)
	}
	return nil
}
