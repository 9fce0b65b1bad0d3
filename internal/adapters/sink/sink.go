// Package sink accumulates detection output for the persistence
// collaborator. Transitions are appended per batch and deduplicated on
// their natural key (award_id, contract_piid); the highest contiguous
// completed batch index is the resume checkpoint.
package sink

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/phase3/internal/domain/model"
)

// Store receives per-batch detection output.
type Store interface {
	// AppendBatch records a completed batch. At most one transition per
	// (award, contract) pair survives; a later append for a seen pair
	// replaces the earlier one.
	AppendBatch(ctx context.Context, batch int, transitions []model.Transition) error

	// Checkpoint returns the highest batch index N such that all batches
	// 0..N completed, or -1 when none have.
	Checkpoint(ctx context.Context) int

	// Transitions returns the accumulated output ordered by
	// (award_id, contract_piid) so serialization is deterministic.
	Transitions(ctx context.Context) []model.Transition

	// Count returns the number of accumulated transitions.
	Count(ctx context.Context) int
}

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithPrior seeds the store with a previous run's transitions so a resumed
// run starts from what is already persisted.
func WithPrior(prior []model.Transition) Option {
	return func(s *MemoryStore) {
		for _, t := range prior {
			s.byKey[pairKey{t.AwardID, t.ContractPIID}] = t
		}
	}
}

// WithCheckpoint seeds the resume point, typically read back from a
// previous interrupted run's summary.
func WithCheckpoint(batch int) Option {
	return func(s *MemoryStore) {
		if batch >= 0 {
			for i := 0; i <= batch; i++ {
				s.completed[i] = true
			}
		}
	}
}

type pairKey struct {
	awardID string
	piid    string
}

// MemoryStore implements Store in memory.
type MemoryStore struct {
	mu        sync.RWMutex
	byKey     map[pairKey]model.Transition
	completed map[int]bool
}

// NewMemoryStore creates an empty store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byKey:     make(map[pairKey]model.Transition),
		completed: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendBatch implements Store. A rerun batch overwrites its pairs: the
// new score and evidence replace the old while DetectedAt preservation is
// the detector's job.
func (s *MemoryStore) AppendBatch(ctx context.Context, batch int, transitions []model.Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range transitions {
		s.byKey[pairKey{t.AwardID, t.ContractPIID}] = t
	}
	s.completed[batch] = true
	return nil
}

// Checkpoint implements Store.
func (s *MemoryStore) Checkpoint(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := -1
	for s.completed[n+1] {
		n++
	}
	return n
}

// Transitions implements Store.
func (s *MemoryStore) Transitions(ctx context.Context) []model.Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Transition, 0, len(s.byKey))
	for _, t := range s.byKey {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AwardID != out[j].AwardID {
			return out[i].AwardID < out[j].AwardID
		}
		return out[i].ContractPIID < out[j].ContractPIID
	})
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
