// Package config defines detection configuration structures and loading hooks.
//
// Conventions:
// - Presets are data: a named preset selects weights and thresholds,
//   free-form overrides layer on top (file, then env).
// - Validation is eager and fatal; detection never sees an invalid config.
// - External errors are wrapped via this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/okian/phase3/internal/domain/model"
)

// Signal names, aliased from the data model for use in weights tables.
const (
	SignalAgency      = model.SignalAgency
	SignalTiming      = model.SignalTiming
	SignalCompetition = model.SignalCompetition
	SignalPatent      = model.SignalPatent
	SignalTechAlign   = model.SignalTechAlign
)

// algorithmVersion tags every emitted transition; bump when scoring
// semantics change.
const algorithmVersion = "td1"

// Detection holds the tunable scoring and matching parameters.
type Detection struct {
	// BaseScore is added to every scored pair before weighted signals.
	BaseScore float64 `koanf:"base_score"`

	// Weights maps signal names to their score contribution at sub-score 1.0.
	Weights map[string]float64 `koanf:"weights"`

	// HighThreshold and LikelyThreshold split scores into confidence bands.
	// Must satisfy 0 <= likely < high <= 1.
	HighThreshold   float64 `koanf:"high_threshold"`
	LikelyThreshold float64 `koanf:"likely_threshold"`

	// ConfidenceFloor is the weakest band still emitted as a Transition.
	ConfidenceFloor string `koanf:"confidence_floor"`

	// WindowMonths bounds how long after award completion a contract may
	// start and still be considered.
	WindowMonths int `koanf:"window_months"`

	// FuzzyNameThreshold is the minimum accepted name similarity.
	FuzzyNameThreshold float64 `koanf:"fuzzy_name_threshold"`

	// NameStopWords are dropped during vendor name normalization.
	NameStopWords []string `koanf:"name_stop_words"`

	// AbstractSimilarityThreshold gates the patent text-similarity component.
	AbstractSimilarityThreshold float64 `koanf:"abstract_similarity_threshold"`

	// CompetitionScores maps competition types to sub-scores.
	CompetitionScores map[string]float64 `koanf:"competition_scores"`

	// DisabledSignals lists extractors to turn off for this run.
	DisabledSignals []string `koanf:"disabled_signals"`

	// MaxEvidenceBytes caps the serialized size of an evidence bundle.
	MaxEvidenceBytes int `koanf:"max_evidence_bytes"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr exposes /metrics and /healthz while a run executes.
	// Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// Preset names the weight/threshold preset detection starts from.
	Preset string `koanf:"preset"`

	// WorkerCount bounds concurrent award batches.
	WorkerCount int `koanf:"worker_count"`

	// BatchSize sets how many awards form one checkpointable batch.
	BatchSize int `koanf:"batch_size"`

	// QueueSize bounds the in-memory batch queue.
	QueueSize int `koanf:"queue_size"`

	Detection Detection `koanf:"detection"`
}

// New creates a Config from the named preset with process defaults.
func New(preset string) (*Config, error) {
	d, ok := Presets()[preset]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q (have: %s)",
			ErrInvalidConfig, preset, strings.Join(PresetNames(), ", "))
	}
	return &Config{
		LogLevel:    "info",
		Preset:      preset,
		WorkerCount: runtime.NumCPU(),
		BatchSize:   500,
		QueueSize:   1024,
		Detection:   d,
	}, nil
}

// Version derives the algorithm/config version string stamped onto every
// transition and evidence bundle.
func (c *Config) Version() string {
	return algorithmVersion + "/" + c.Preset
}

// SignalEnabled reports whether the named extractor is active.
func (c *Config) SignalEnabled(name string) bool {
	for _, d := range c.Detection.DisabledSignals {
		if d == name {
			return false
		}
	}
	return true
}

// Validate enforces all startup invariants. A failure here is fatal; it is
// never deferred to per-record handling.
func (c *Config) Validate() error {
	d := c.Detection
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be >= 1, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be >= 1, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if d.WindowMonths < 1 {
		return fmt.Errorf("%w: window_months must be >= 1, got %d", ErrInvalidConfig, d.WindowMonths)
	}
	if d.BaseScore < 0 || d.BaseScore > 1 {
		return fmt.Errorf("%w: base_score must be in [0,1], got %g", ErrInvalidConfig, d.BaseScore)
	}
	var sum float64
	for name, w := range d.Weights {
		if !knownSignal(name) {
			return fmt.Errorf("%w: weight for unknown signal %q", ErrInvalidConfig, name)
		}
		if w < 0 {
			return fmt.Errorf("%w: weight for %s must be >= 0, got %g", ErrInvalidConfig, name, w)
		}
		sum += w
	}
	if sum > 1.0 {
		return fmt.Errorf("%w: signal weights sum to %.3f, must be <= 1.0", ErrInvalidConfig, sum)
	}
	if d.BaseScore+sum > 1.0 {
		return fmt.Errorf("%w: base_score + weights sum to %.3f, must be <= 1.0", ErrInvalidConfig, d.BaseScore+sum)
	}
	if d.LikelyThreshold < 0 || d.HighThreshold > 1 || d.LikelyThreshold >= d.HighThreshold {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= likely < high <= 1, got likely=%g high=%g",
			ErrInvalidConfig, d.LikelyThreshold, d.HighThreshold)
	}
	if model.Confidence(d.ConfidenceFloor).Rank() == 0 {
		return fmt.Errorf("%w: confidence_floor must be one of High, Likely, Possible, got %q",
			ErrInvalidConfig, d.ConfidenceFloor)
	}
	if d.FuzzyNameThreshold <= 0 || d.FuzzyNameThreshold > 1 {
		return fmt.Errorf("%w: fuzzy_name_threshold must be in (0,1], got %g", ErrInvalidConfig, d.FuzzyNameThreshold)
	}
	if d.AbstractSimilarityThreshold < 0 || d.AbstractSimilarityThreshold > 1 {
		return fmt.Errorf("%w: abstract_similarity_threshold must be in [0,1], got %g",
			ErrInvalidConfig, d.AbstractSimilarityThreshold)
	}
	for comp, s := range d.CompetitionScores {
		if s < 0 || s > 1 {
			return fmt.Errorf("%w: competition score for %s must be in [0,1], got %g", ErrInvalidConfig, comp, s)
		}
	}
	if d.MaxEvidenceBytes < 512 {
		return fmt.Errorf("%w: max_evidence_bytes must be >= 512, got %d", ErrInvalidConfig, d.MaxEvidenceBytes)
	}
	for _, name := range d.DisabledSignals {
		if !knownSignal(name) {
			return fmt.Errorf("%w: disabled_signals contains unknown signal %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

func knownSignal(name string) bool {
	switch name {
	case SignalAgency, SignalTiming, SignalCompetition, SignalPatent, SignalTechAlign:
		return true
	}
	return false
}

// PresetNames returns the registered preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(Presets()))
	for name := range Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
