package scoring

import (
	"context"
	"math"

	"github.com/okian/confscore/internal/domain/options"
	"github.com/okian/confscore/pkg/matrix"
	"gonum.org/v1/gonum/floats"
)

// Boltzman reports the probability of the highest scoring class, with scores
// turned into probabilities by the Boltzmann (softmax) distribution.
type Boltzman struct {
	cfg config
}

// NewBoltzman creates a softmax confidence scorer.
func NewBoltzman(opts ...Option) *Boltzman {
	return &Boltzman{cfg: newConfig(opts)}
}

// Name implements Scorer.
func (b *Boltzman) Name() string { return NameBoltzman }

// Clone implements Scorer.
func (b *Boltzman) Clone() Scorer {
	c := *b
	return &c
}

// Execute implements Scorer.
func (b *Boltzman) Execute(ctx context.Context, _, _ *matrix.Dense, opt *options.List) (*options.List, error) {
	return execute(ctx, opt, b.cfg, 1, boltzmanRow)
}

func boltzmanRow(row, scratch []float64) (float64, int) {
	copy(scratch, row)
	softmax(scratch)
	// exp is monotonic, so the first raw maximum is the first probability maximum.
	best := floats.MaxIdx(row)
	return scratch[best], best + 1
}

// softmax overwrites s with exp(s-max(s)) normalised to sum to one.
// Subtracting the maximum keeps every exponent <= 0, so the sum is in [1, len(s)].
func softmax(s []float64) {
	floats.AddConst(-floats.Max(s), s)
	for i, v := range s {
		s[i] = math.Exp(v)
	}
	floats.Scale(1/floats.Sum(s), s)
}
