package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/confscore/internal/domain/options"
	"github.com/okian/confscore/pkg/matrix"
	"golang.org/x/sync/errgroup"
)

const (
	parallelRowThreshold = 256  // below this a single goroutine is faster
	cancelCheckInterval  = 1024 // rows between ctx checks
)

// rowFunc scores one row. scratch has the row's length and may be
// overwritten. The returned label is 1-based.
type rowFunc func(row, scratch []float64) (confidence float64, label int)

// execute validates opt, applies score to every prediction row and packs the
// outputs into a fresh result list.
func execute(ctx context.Context, opt *options.List, cfg config, minClasses int, score rowFunc) (*options.List, error) {
	if opt == nil {
		return nil, fmt.Errorf("%w: nil option list", ErrConfiguration)
	}
	pred, err := opt.GetMatrix(KeyPred)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	n, t := pred.Dims()
	if t < minClasses {
		return nil, fmt.Errorf("%w: prediction has %d classes, need at least %d", ErrValidation, t, minClasses)
	}

	conf, err := matrix.New(n, 1, nil)
	if err != nil {
		return nil, err
	}
	labels, err := matrix.New(n, 1, nil)
	if err != nil {
		return nil, err
	}
	if err := scoreRows(ctx, pred, cfg.rowWorkers, score, conf.RawData(), labels.RawData()); err != nil {
		return nil, err
	}

	out := options.New(ResultName)
	out.SetMatrix(KeyConfidence, conf)
	out.SetMatrix(KeyLabels, labels)
	return out, nil
}

func scoreRows(ctx context.Context, pred *matrix.Dense, workers int, score rowFunc, conf, labels []float64) error {
	n := pred.Rows()
	if workers < 2 || n < parallelRowThreshold {
		return scoreRange(ctx, pred, 0, n, score, conf, labels)
	}

	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return scoreRange(gctx, pred, lo, hi, score, conf, labels)
		})
	}
	return g.Wait()
}

// scoreRange scores rows [lo, hi). Each call owns its scratch buffer and
// writes disjoint indices of conf and labels.
func scoreRange(ctx context.Context, pred *matrix.Dense, lo, hi int, score rowFunc, conf, labels []float64) error {
	scratch := make([]float64, pred.Cols())
	for i := lo; i < hi; i++ {
		if (i-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("scoring cancelled: %w", err)
			}
		}
		row := pred.RawRow(i)
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d column %d is %v", ErrValidation, i, j, v)
			}
		}
		c, l := score(row, scratch)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: row %d confidence overflows float64", ErrValidation, i)
		}
		conf[i] = c
		labels[i] = float64(l)
	}
	return nil
}
