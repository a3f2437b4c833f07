// Package scoring defines the confidence scoring extension point and its
// built-in implementations.
//
// A Scorer reads the prediction matrix stored under KeyPred in an option list
// and returns a new list holding a confidence and a label per row.
package scoring

import (
	"context"

	"github.com/okian/confscore/internal/domain/options"
	"github.com/okian/confscore/pkg/matrix"
)

// Option keys read and written by scorers.
const (
	KeyPred       = "pred"
	KeyConfidence = "confidence"
	KeyLabels     = "labels"

	// ResultName names the list returned by Execute.
	ResultName = "confidence"
)

// Scorer turns per-class prediction scores into a confidence and a 1-based
// label per sample.
type Scorer interface {
	// Name returns the registry identifier of the implementation.
	Name() string

	// Execute scores opt[KeyPred]. x and y are accepted for interface
	// uniformity with other pipeline tasks and are ignored by confidence
	// scorers. The returned list is owned by the caller.
	Execute(ctx context.Context, x, y *matrix.Dense, opt *options.List) (*options.List, error)

	// Clone returns an independent copy configured like the receiver.
	Clone() Scorer
}

// Option applies a configuration option to a built-in scorer.
type Option func(*config)

type config struct {
	rowWorkers int
}

func newConfig(opts []Option) config {
	c := config{rowWorkers: 1}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithRowWorkers splits large inputs into n row chunks scored concurrently.
// Values below 2 keep scoring on the calling goroutine.
func WithRowWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.rowWorkers = n
		}
	}
}
