// Package resolve matches award recipients to contract recipients across
// datasets. Resolution is a prioritized identifier cascade; the first
// identifier type that matches wins and sets the confidence. The cascade is
// fully deterministic so audits reproduce across runs.
package resolve

import (
	"github.com/okian/phase3/internal/domain/model"
)

// Cascade confidence levels by identifier type.
const (
	ueiConfidence  = 0.99
	cageConfidence = 0.95
	dunsConfidence = 0.90

	defaultFuzzyThreshold = 0.90
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithFuzzyThreshold sets the minimum accepted name similarity.
func WithFuzzyThreshold(t float64) Option {
	return func(r *Resolver) {
		if t > 0 && t <= 1 {
			r.fuzzyThreshold = t
		}
	}
}

// WithStopWords sets the stop-word list used for name normalization.
func WithStopWords(words []string) Option {
	return func(r *Resolver) {
		r.normalizer = NewNormalizer(words)
	}
}

// Resolver resolves vendor identity between awards and contracts.
type Resolver struct {
	fuzzyThreshold float64
	normalizer     *Normalizer
}

// New creates a Resolver with configuration options.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fuzzyThreshold: defaultFuzzyThreshold,
		normalizer:     NewNormalizer(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Match resolves an award recipient against a contract recipient. A nil
// result means the pair could not be resolved and must be excluded from
// scoring entirely; it is not a zero-confidence match.
func (r *Resolver) Match(award model.Award, contract model.Contract) *model.VendorMatch {
	if award.UEI != "" && award.UEI == contract.UEI {
		return &model.VendorMatch{Method: model.MatchUEIExact, Confidence: ueiConfidence, Matched: award.UEI}
	}
	if award.CAGE != "" && award.CAGE == contract.CAGE {
		return &model.VendorMatch{Method: model.MatchCAGEExact, Confidence: cageConfidence, Matched: award.CAGE}
	}
	if award.DUNS != "" && award.DUNS == contract.DUNS {
		return &model.VendorMatch{Method: model.MatchDUNSExact, Confidence: dunsConfidence, Matched: award.DUNS}
	}

	na := r.normalizer.Normalize(award.RecipientName)
	nc := r.normalizer.Normalize(contract.RecipientName)
	if na == "" || nc == "" {
		return nil
	}
	if sim := Similarity(na, nc); sim >= r.fuzzyThreshold {
		return &model.VendorMatch{Method: model.MatchNameFuzzy, Confidence: sim, Matched: nc}
	}
	return nil
}

// CompanyKey derives the stable company identity used for profile
// aggregation: the strongest available identifier, falling back to the
// normalized recipient name.
func (r *Resolver) CompanyKey(uei, cage, duns, name string) string {
	switch {
	case uei != "":
		return "uei:" + uei
	case cage != "":
		return "cage:" + cage
	case duns != "":
		return "duns:" + duns
	default:
		return "name:" + r.normalizer.Normalize(name)
	}
}
