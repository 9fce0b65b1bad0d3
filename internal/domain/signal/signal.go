// Package signal implements the independent extractors that score one
// candidate award/contract pair from different angles: agency continuity,
// timing proximity, competition type, patent backing and technology
// alignment.
//
// Extractors degrade gracefully: when an optional data source is missing
// they return an absent signal, never an error. A sub-score of zero from a
// present signal is a real observation; absence means "could not observe".
package signal

import (
	"github.com/okian/phase3/internal/domain/model"
)

// Pair is one resolved award/contract candidate being scored.
type Pair struct {
	Award    model.Award
	Contract model.Contract
	Match    model.VendorMatch
}

// Extractor computes one named sub-score for a candidate pair.
type Extractor interface {
	// Name returns the signal name used in weights tables and evidence.
	Name() string

	// Extract computes the signal. Missing optional data yields an absent
	// signal; Extract never fails.
	Extract(pair Pair) model.Signal
}

// Extract runs every extractor over the pair, in the given order.
func Extract(extractors []Extractor, pair Pair) []model.Signal {
	out := make([]model.Signal, 0, len(extractors))
	for _, e := range extractors {
		out = append(out, e.Extract(pair))
	}
	return out
}
