package scoring

import (
	"context"
	"math"

	"github.com/okian/confscore/internal/domain/options"
	"github.com/okian/confscore/pkg/matrix"
	"gonum.org/v1/gonum/floats"
)

// MaxScore reports the raw score of the highest scoring class.
type MaxScore struct {
	cfg config
}

// NewMaxScore creates a raw maximum scorer.
func NewMaxScore(opts ...Option) *MaxScore {
	return &MaxScore{cfg: newConfig(opts)}
}

// Name implements Scorer.
func (m *MaxScore) Name() string { return NameMaxScore }

// Clone implements Scorer.
func (m *MaxScore) Clone() Scorer {
	c := *m
	return &c
}

// Execute implements Scorer.
func (m *MaxScore) Execute(ctx context.Context, _, _ *matrix.Dense, opt *options.List) (*options.List, error) {
	return execute(ctx, opt, m.cfg, 1, maxScoreRow)
}

func maxScoreRow(row, _ []float64) (float64, int) {
	best := floats.MaxIdx(row)
	return row[best], best + 1
}

// Gap reports the margin between the two highest raw scores.
type Gap struct {
	cfg config
}

// NewGap creates a raw margin scorer. Inputs need at least two classes.
func NewGap(opts ...Option) *Gap {
	return &Gap{cfg: newConfig(opts)}
}

// Name implements Scorer.
func (g *Gap) Name() string { return NameGap }

// Clone implements Scorer.
func (g *Gap) Clone() Scorer {
	c := *g
	return &c
}

// Execute implements Scorer.
func (g *Gap) Execute(ctx context.Context, _, _ *matrix.Dense, opt *options.List) (*options.List, error) {
	return execute(ctx, opt, g.cfg, 2, gapRow)
}

func gapRow(row, _ []float64) (float64, int) {
	best := floats.MaxIdx(row)
	return row[best] - runnerUp(row, best), best + 1
}

// BoltzmanGap reports the margin between the two highest softmax
// probabilities.
type BoltzmanGap struct {
	cfg config
}

// NewBoltzmanGap creates a probability margin scorer. Inputs need at least
// two classes.
func NewBoltzmanGap(opts ...Option) *BoltzmanGap {
	return &BoltzmanGap{cfg: newConfig(opts)}
}

// Name implements Scorer.
func (b *BoltzmanGap) Name() string { return NameBoltzmanGap }

// Clone implements Scorer.
func (b *BoltzmanGap) Clone() Scorer {
	c := *b
	return &c
}

// Execute implements Scorer.
func (b *BoltzmanGap) Execute(ctx context.Context, _, _ *matrix.Dense, opt *options.List) (*options.List, error) {
	return execute(ctx, opt, b.cfg, 2, boltzmanGapRow)
}

func boltzmanGapRow(row, scratch []float64) (float64, int) {
	copy(scratch, row)
	softmax(scratch)
	best := floats.MaxIdx(row)
	return scratch[best] - runnerUp(scratch, best), best + 1
}

// runnerUp returns the largest value of s at an index other than best.
func runnerUp(s []float64, best int) float64 {
	second := math.Inf(-1)
	for i, v := range s {
		if i != best && v > second {
			second = v
		}
	}
	return second
}
