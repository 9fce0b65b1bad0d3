// Package evidence assembles the audit bundle attached to every detected
// transition: the vendor match, all signals with their raw facts, contract
// summary fields and versioning metadata.
//
// Bundles are bounded in serialized size. An over-budget bundle is truncated
// by dropping its lowest-priority free-text facts and flagged, never failed.
package evidence

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/okian/phase3/internal/domain/model"
	"github.com/okian/phase3/internal/domain/signal"
)

// defaultMaxBytes caps the serialized bundle size.
const defaultMaxBytes = 5 * 1024

// truncationOrder lists free-text fact keys from most to least expendable.
var truncationOrder = []string{"abstract_excerpt", "rationale", "best_similar_patent"}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithMaxBytes overrides the serialized size cap.
func WithMaxBytes(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxBytes = n
		}
	}
}

// Generator builds evidence bundles.
type Generator struct {
	maxBytes int
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{maxBytes: defaultMaxBytes}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Bundle assembles the audit record for one scored pair. Signals are copied
// and sorted by name so serialization is byte-stable across runs.
func (g *Generator) Bundle(pair signal.Pair, signals []model.Signal, meta model.EvidenceMeta) (model.EvidenceBundle, error) {
	sorted := make([]model.Signal, len(signals))
	copy(sorted, signals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	b := model.EvidenceBundle{
		Match:   pair.Match,
		Signals: sorted,
		Contract: model.ContractSummary{
			PIID:        pair.Contract.PIID,
			Agency:      pair.Contract.Agency,
			Amount:      pair.Contract.ObligatedAmount,
			StartDate:   pair.Contract.StartDate,
			Competition: pair.Contract.Competition,
		},
		Meta: meta,
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return model.EvidenceBundle{}, fmt.Errorf("marshal evidence bundle: %w", err)
	}
	if len(raw) <= g.maxBytes {
		return b, nil
	}
	return g.truncate(b)
}

// truncate drops free-text facts in priority order until the bundle fits.
// If even the stripped form is over budget the bundle is returned truncated
// anyway; detection must not fail on evidence size.
func (g *Generator) truncate(b model.EvidenceBundle) (model.EvidenceBundle, error) {
	b.Truncated = true
	for _, key := range truncationOrder {
		for i := range b.Signals {
			if b.Signals[i].Facts == nil {
				continue
			}
			if _, ok := b.Signals[i].Facts[key]; !ok {
				continue
			}
			facts := make(map[string]any, len(b.Signals[i].Facts))
			for k, v := range b.Signals[i].Facts {
				if k != key {
					facts[k] = v
				}
			}
			b.Signals[i].Facts = facts
		}
		raw, err := json.Marshal(b)
		if err != nil {
			return model.EvidenceBundle{}, fmt.Errorf("marshal evidence bundle: %w", err)
		}
		if len(raw) <= g.maxBytes {
			return b, nil
		}
	}
	return b, nil
}

// Size returns the serialized length of a bundle, for tests and metrics.
func (g *Generator) Size(b model.EvidenceBundle) int {
	raw, err := json.Marshal(b)
	if err != nil {
		return 0
	}
	return len(raw)
}

// NewMeta builds the fixed metadata block stamped on every bundle.
func NewMeta(runID, configVersion string, at time.Time) model.EvidenceMeta {
	return model.EvidenceMeta{RunID: runID, ConfigVersion: configVersion, GeneratedAt: at}
}
