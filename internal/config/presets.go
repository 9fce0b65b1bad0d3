package config

import "github.com/okian/phase3/internal/domain/model"

// Preset names shipped with the engine.
const (
	PresetBalanced       = "balanced"
	PresetHighPrecision  = "high-precision"
	PresetBroadDiscovery = "broad-discovery"
)

// defaultStopWords are corporate suffixes and articles dropped during
// vendor name normalization.
var defaultStopWords = []string{
	"INC", "INCORPORATED", "LLC", "LLP", "LTD", "CORP", "CORPORATION",
	"CO", "COMPANY", "THE", "A", "AN",
}

func defaultCompetitionScores() map[string]float64 {
	return map[string]float64{
		"sole_source": 1.0,
		"limited":     0.6,
		"full":        0.3,
	}
}

// Presets returns the built-in weight/threshold presets. Each call returns
// fresh maps so callers may layer overrides without aliasing.
func Presets() map[string]Detection {
	return map[string]Detection{
		// balanced trades recall for precision evenly; the reference preset.
		PresetBalanced: {
			BaseScore: 0.15,
			Weights: map[string]float64{
				SignalAgency:      0.25,
				SignalTiming:      0.15,
				SignalCompetition: 0.20,
				SignalPatent:      0.15,
				SignalTechAlign:   0.10,
			},
			HighThreshold:               0.80,
			LikelyThreshold:             0.55,
			ConfidenceFloor:             string(model.ConfidencePossible),
			WindowMonths:                24,
			FuzzyNameThreshold:          0.90,
			NameStopWords:               append([]string(nil), defaultStopWords...),
			AbstractSimilarityThreshold: 0.30,
			CompetitionScores:           defaultCompetitionScores(),
			MaxEvidenceBytes:            5 * 1024,
		},
		// high-precision excludes the Possible band and leans on agency
		// continuity and timing; for audit-grade output.
		PresetHighPrecision: {
			BaseScore: 0.10,
			Weights: map[string]float64{
				SignalAgency:      0.30,
				SignalTiming:      0.20,
				SignalCompetition: 0.20,
				SignalPatent:      0.15,
				SignalTechAlign:   0.05,
			},
			HighThreshold:               0.85,
			LikelyThreshold:             0.65,
			ConfidenceFloor:             string(model.ConfidenceLikely),
			WindowMonths:                24,
			FuzzyNameThreshold:          0.93,
			NameStopWords:               append([]string(nil), defaultStopWords...),
			AbstractSimilarityThreshold: 0.40,
			CompetitionScores:           defaultCompetitionScores(),
			MaxEvidenceBytes:            5 * 1024,
		},
		// broad-discovery favors recall for exploratory analysis.
		PresetBroadDiscovery: {
			BaseScore: 0.20,
			Weights: map[string]float64{
				SignalAgency:      0.20,
				SignalTiming:      0.15,
				SignalCompetition: 0.15,
				SignalPatent:      0.20,
				SignalTechAlign:   0.10,
			},
			HighThreshold:               0.75,
			LikelyThreshold:             0.45,
			ConfidenceFloor:             string(model.ConfidencePossible),
			WindowMonths:                36,
			FuzzyNameThreshold:          0.85,
			NameStopWords:               append([]string(nil), defaultStopWords...),
			AbstractSimilarityThreshold: 0.25,
			CompetitionScores:           defaultCompetitionScores(),
			MaxEvidenceBytes:            5 * 1024,
		},
	}
}
