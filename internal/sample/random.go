// Package sample implements stochastic topology sampling over a subsplit
// DAG: a biased random walk that explores rootward and leafward from a start
// vertex and reconstructs the explored substructure as a bifurcating tree.
package sample

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoRoot        = errors.New("no root found")
	ErrMalformedTree = errors.New("malformed tree")
)

// RandomSource owns a single seedable random stream used for discrete draws.
// It is not safe to drive one source from multiple goroutines; interleaved
// draws corrupt reproducibility.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource seeds the stream from the process clock. Callers that need
// reproducible output must call SetSeed before drawing.
func NewRandomSource() *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// SetSeed deterministically reinitializes the stream.
func (rs *RandomSource) SetSeed(seed int64) {
	rs.rng = rand.New(rand.NewSource(seed))
}

// Draw selects an index i with probability weights[i] / sum(weights).
// Weights must be non-negative with a strictly positive sum.
func (rs *RandomSource) Draw(weights []float64) (int, error) {
	if len(weights) == 0 {
		return 0, fmt.Errorf("%w, empty weight vector", ErrInvalidInput)
	}
	for i, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("%w, negative weight %g at index %d", ErrInvalidInput, w, i)
		}
	}
	sum := floats.Sum(weights)
	if sum <= 0 {
		return 0, fmt.Errorf("%w, weights sum to %g (positive sum required)", ErrInvalidInput, sum)
	}
	r := rs.rng.Float64() * sum
	acc := float64(0)
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i, nil
		}
	}
	// floating point rounding can leave r marginally above the total
	return last, nil
}
