package signal

import (
	"strings"

	"github.com/okian/phase3/internal/domain/model"
)

// TechAlignExtractor scores technology-area alignment between an award's
// primary classification and the contract's inferred area. Optional: when
// either side is unclassified the signal is absent.
type TechAlignExtractor struct{}

// NewTechAlignExtractor creates the technology alignment extractor.
func NewTechAlignExtractor() *TechAlignExtractor { return &TechAlignExtractor{} }

// Name implements Extractor.
func (e *TechAlignExtractor) Name() string { return model.SignalTechAlign }

// Extract implements Extractor. A match scores the award classifier's own
// confidence, so a shaky classification cannot manufacture a strong signal.
func (e *TechAlignExtractor) Extract(pair Pair) model.Signal {
	cls := pair.Award.Classification
	contractArea := strings.TrimSpace(pair.Contract.TechArea)
	if cls == nil || cls.TechArea == "" || contractArea == "" {
		return model.Absent(e.Name())
	}

	aligned := strings.EqualFold(cls.TechArea, contractArea)
	score := 0.0
	if aligned {
		score = cls.Confidence
	}
	return model.Signal{
		Name:    e.Name(),
		Present: true,
		Score:   score,
		Facts: map[string]any{
			"award_tech_area":    cls.TechArea,
			"contract_tech_area": contractArea,
			"aligned":            aligned,
			"classifier_score":   cls.Confidence,
		},
	}
}
