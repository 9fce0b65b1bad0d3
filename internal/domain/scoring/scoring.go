// Package scoring combines extracted signals into one transition likelihood.
//
// score = base + Σ(weight_i × signal_i) over present signals. Absent or
// disabled signals contribute zero and never renormalize the remaining
// weights: turning a signal off lowers achievable scores instead of
// inflating the others. Confidence is a pure threshold lookup on the score.
package scoring

import (
	"math"

	"github.com/okian/phase3/internal/domain/model"
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithBaseScore sets the score floor applied to every scored pair.
func WithBaseScore(base float64) Option {
	return func(s *Scorer) {
		if base >= 0 && base <= 1 {
			s.base = base
		}
	}
}

// WithWeights sets the per-signal weights. The caller (config) has already
// validated that weights are non-negative and sum within budget.
func WithWeights(weights map[string]float64) Option {
	return func(s *Scorer) {
		s.weights = make(map[string]float64, len(weights))
		for name, w := range weights {
			s.weights[name] = w
		}
	}
}

// WithThresholds sets the confidence band boundaries.
func WithThresholds(likely, high float64) Option {
	return func(s *Scorer) {
		if likely >= 0 && likely < high && high <= 1 {
			s.likely = likely
			s.high = high
		}
	}
}

// Scorer computes likelihood scores and confidence bands from signals.
type Scorer struct {
	base    float64
	weights map[string]float64
	likely  float64
	high    float64
}

// New creates a Scorer with configuration options. Defaults match the
// balanced preset's thresholds with zero weights; real callers always pass
// options derived from a validated config.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights: make(map[string]float64),
		likely:  0.55,
		high:    0.80,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score combines signals into a likelihood in [0,1]. Signals with no
// configured weight and absent signals contribute nothing.
func (s *Scorer) Score(signals []model.Signal) float64 {
	score := s.base
	for _, sig := range signals {
		if !sig.Present {
			continue
		}
		score += s.weights[sig.Name] * sig.Score
	}
	return math.Max(0, math.Min(1, score))
}

// Classify maps a score to its confidence band. Pure and deterministic:
// re-deriving the band from a stored score always reproduces it.
func (s *Scorer) Classify(score float64) model.Confidence {
	switch {
	case score >= s.high:
		return model.ConfidenceHigh
	case score >= s.likely:
		return model.ConfidenceLikely
	default:
		return model.ConfidencePossible
	}
}
