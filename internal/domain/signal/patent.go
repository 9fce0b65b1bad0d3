package signal

import (
	"github.com/okian/phase3/internal/domain/model"
	"github.com/okian/phase3/internal/domain/resolve"
)

// Patent component weights within the signal's own sub-score.
const (
	hasPatentComponent    = 0.4
	filedBeforeComponent  = 0.3
	abstractSimComponent  = 0.3
	defaultSimilarityGate = 0.30
)

// PatentOption applies a configuration option to the PatentExtractor.
type PatentOption func(*PatentExtractor)

// WithSimilarityThreshold sets the abstract-similarity gate.
func WithSimilarityThreshold(t float64) PatentOption {
	return func(e *PatentExtractor) {
		if t >= 0 && t <= 1 {
			e.similarityGate = t
		}
	}
}

// PatentExtractor scores patent activity between award completion and
// contract start. It is optional: without a patent corpus every pair gets
// an absent signal.
type PatentExtractor struct {
	byAssignee     map[string][]model.Patent
	similarityGate float64
	normalizer     *resolve.Normalizer
}

// NewPatentExtractor indexes the corpus by assignee. A nil or empty corpus
// produces an extractor that always reports absence.
func NewPatentExtractor(corpus []model.Patent, stopWords []string, opts ...PatentOption) *PatentExtractor {
	e := &PatentExtractor{
		similarityGate: defaultSimilarityGate,
		normalizer:     resolve.NewNormalizer(stopWords),
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(corpus) == 0 {
		return e
	}
	e.byAssignee = make(map[string][]model.Patent)
	for _, p := range corpus {
		for _, key := range e.assigneeKeys(p) {
			e.byAssignee[key] = append(e.byAssignee[key], p)
		}
	}
	return e
}

// Name implements Extractor.
func (e *PatentExtractor) Name() string { return model.SignalPatent }

// Extract implements Extractor. The sub-score combines three components:
// a relevant patent exists in the transition window, it was filed before
// the contract started, and its abstract resembles the award's.
func (e *PatentExtractor) Extract(pair Pair) model.Signal {
	if e.byAssignee == nil {
		return model.Absent(e.Name())
	}

	patents := e.vendorPatents(pair.Award)
	completion := pair.Award.CompletionDate
	start := pair.Contract.StartDate

	var (
		relevant     []model.Patent
		filedBefore  bool
		bestSim      float64
		bestPatentID string
	)
	for _, p := range patents {
		// Relevancy window is (completion, start]: a patent filed on the
		// award's completion date predates the transition.
		if !p.FilingDate.After(completion) || p.FilingDate.After(start) {
			continue
		}
		relevant = append(relevant, p)
		if p.FilingDate.Before(start) {
			filedBefore = true
		}
		if sim := abstractSimilarity(pair.Award.Abstract, p.Abstract); sim > bestSim {
			bestSim = sim
			bestPatentID = p.PatentID
		}
	}

	score := 0.0
	if len(relevant) > 0 {
		score += hasPatentComponent
		if filedBefore {
			score += filedBeforeComponent
		}
		if bestSim >= e.similarityGate {
			score += abstractSimComponent
		}
	}

	facts := map[string]any{
		"patent_count":        len(relevant),
		"filed_before_start":  filedBefore,
		"best_similarity":     bestSim,
		"similarity_gate":     e.similarityGate,
		"best_similar_patent": bestPatentID,
	}
	if ex := excerpt(pair.Award.Abstract, abstractExcerptLen); ex != "" {
		facts["abstract_excerpt"] = ex
	}
	return model.Signal{Name: e.Name(), Present: true, Score: score, Facts: facts}
}

// vendorPatents returns patents attributed to the award recipient by UEI
// or by normalized assignee name.
func (e *PatentExtractor) vendorPatents(award model.Award) []model.Patent {
	if award.UEI != "" {
		if ps, ok := e.byAssignee["uei:"+award.UEI]; ok {
			return ps
		}
	}
	if name := e.normalizer.Normalize(award.RecipientName); name != "" {
		return e.byAssignee["name:"+name]
	}
	return nil
}

// abstractExcerptLen bounds the award abstract excerpt kept as raw evidence.
const abstractExcerptLen = 400

func excerpt(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}

func (e *PatentExtractor) assigneeKeys(p model.Patent) []string {
	var keys []string
	if p.AssigneeUEI != "" {
		keys = append(keys, "uei:"+p.AssigneeUEI)
	}
	if name := e.normalizer.Normalize(p.AssigneeName); name != "" {
		keys = append(keys, "name:"+name)
	}
	return keys
}
