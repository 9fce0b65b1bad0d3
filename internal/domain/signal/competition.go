package signal

import (
	"strings"

	"github.com/okian/phase3/internal/domain/model"
)

// CompetitionOption applies a configuration option to the CompetitionExtractor.
type CompetitionOption func(*CompetitionExtractor)

// WithCompetitionScores overrides the per-band sub-scores.
func WithCompetitionScores(scores map[string]float64) CompetitionOption {
	return func(e *CompetitionExtractor) {
		if len(scores) == 0 {
			return
		}
		e.scores = make(map[string]float64, len(scores))
		for band, s := range scores {
			e.scores[strings.ToLower(band)] = s
		}
	}
}

// CompetitionExtractor scores the contract's competition type. A sole-source
// award to an SBIR alum is strong transition evidence; a fully competed one
// is weak.
type CompetitionExtractor struct {
	scores map[string]float64
}

// NewCompetitionExtractor creates the competition type extractor.
func NewCompetitionExtractor(opts ...CompetitionOption) *CompetitionExtractor {
	e := &CompetitionExtractor{
		scores: map[string]float64{
			model.CompetitionSoleSource: 1.0,
			model.CompetitionLimited:    0.6,
			model.CompetitionFull:       0.3,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Extractor.
func (e *CompetitionExtractor) Name() string { return model.SignalCompetition }

// Extract implements Extractor. An unknown competition type is treated as
// absent rather than scored at zero.
func (e *CompetitionExtractor) Extract(pair Pair) model.Signal {
	comp := strings.ToLower(strings.TrimSpace(pair.Contract.Competition))
	score, ok := e.scores[comp]
	if !ok {
		return model.Absent(e.Name())
	}
	return model.Signal{
		Name:    e.Name(),
		Present: true,
		Score:   score,
		Facts: map[string]any{
			"competition": comp,
		},
	}
}
