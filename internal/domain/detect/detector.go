// Package detect orchestrates transition detection: for every award it
// enumerates candidate contracts inside the timing window, resolves vendor
// identity, extracts signals, scores the pair and emits a Transition with
// its evidence bundle.
//
// Detection is deterministic and idempotent: identical inputs and
// configuration reproduce identical transitions, run identifier included.
// The clock is injectable so tests can compare serialized output byte for
// byte.
package detect

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/phase3/internal/config"
	"github.com/okian/phase3/internal/domain/evidence"
	"github.com/okian/phase3/internal/domain/model"
	"github.com/okian/phase3/internal/domain/resolve"
	"github.com/okian/phase3/internal/domain/scoring"
	"github.com/okian/phase3/internal/domain/signal"
	"github.com/okian/phase3/pkg/logger"
	"github.com/okian/phase3/pkg/metrics"
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithClock injects the detection timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// WithRunID overrides the derived run identifier, for operators who want
// explicit run naming.
func WithRunID(id string) Option {
	return func(d *Detector) {
		if id != "" {
			d.runID = id
		}
	}
}

// WithPriorTransitions supplies the previous run's transitions. A rerun of
// an unchanged (award, contract) identity keeps its original DetectedAt;
// everything else is recomputed. This makes reruns updates, not duplicates.
func WithPriorTransitions(prior []model.Transition) Option {
	return func(d *Detector) {
		d.prior = make(map[string]time.Time, len(prior))
		for _, t := range prior {
			d.prior[pairKey(t.AwardID, t.ContractPIID)] = t.DetectedAt
		}
	}
}

// WithLogger sets a custom logger for the detector.
func WithLogger(log logger.Logger) Option {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// Detector runs the per-award detection pipeline. It holds only read-only
// state and is safe for concurrent use across awards.
type Detector struct {
	resolver   *resolve.Resolver
	timing     *signal.TimingExtractor
	extractors []signal.Extractor
	scorer     *scoring.Scorer
	evidence   *evidence.Generator
	floor      model.Confidence

	configVersion string
	runID         string
	now           func() time.Time
	prior         map[string]time.Time

	log logger.Logger
}

// New wires a Detector from a validated config plus the optional patent
// corpus. Disabled or data-less signals degrade to absence, never errors.
func New(cfg *config.Config, patents []model.Patent, opts ...Option) *Detector {
	det := cfg.Detection

	var extractors []signal.Extractor
	if cfg.SignalEnabled(config.SignalAgency) {
		extractors = append(extractors, signal.NewAgencyExtractor())
	}
	timing := signal.NewTimingExtractor(signal.WithWindowMonths(det.WindowMonths))
	if cfg.SignalEnabled(config.SignalTiming) {
		extractors = append(extractors, timing)
	}
	if cfg.SignalEnabled(config.SignalCompetition) {
		extractors = append(extractors, signal.NewCompetitionExtractor(
			signal.WithCompetitionScores(det.CompetitionScores),
		))
	}
	if cfg.SignalEnabled(config.SignalPatent) {
		extractors = append(extractors, signal.NewPatentExtractor(patents, det.NameStopWords,
			signal.WithSimilarityThreshold(det.AbstractSimilarityThreshold),
		))
	}
	if cfg.SignalEnabled(config.SignalTechAlign) {
		extractors = append(extractors, signal.NewTechAlignExtractor())
	}

	d := &Detector{
		resolver: resolve.New(
			resolve.WithFuzzyThreshold(det.FuzzyNameThreshold),
			resolve.WithStopWords(det.NameStopWords),
		),
		timing:     timing,
		extractors: extractors,
		scorer: scoring.New(
			scoring.WithBaseScore(det.BaseScore),
			scoring.WithWeights(det.Weights),
			scoring.WithThresholds(det.LikelyThreshold, det.HighThreshold),
		),
		evidence:      evidence.New(evidence.WithMaxBytes(det.MaxEvidenceBytes)),
		floor:         model.Confidence(det.ConfidenceFloor),
		configVersion: cfg.Version(),
		runID:         deriveRunID(cfg.Version(), patents),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Get().Named("detect")
	}
	return d
}

// RunID returns the identifier stamped onto this run's evidence bundles.
func (d *Detector) RunID() string { return d.runID }

// DetectAward evaluates one award against all candidate contracts and
// returns the qualifying transitions. Zero candidates is a normal outcome,
// not an error. Contracts are assumed pre-validated by the runner.
func (d *Detector) DetectAward(award model.Award, contracts []model.Contract) []model.Transition {
	var out []model.Transition
	for _, contract := range contracts {
		if !d.timing.InWindow(award, contract) {
			continue
		}

		match := d.resolver.Match(award, contract)
		if match == nil {
			metrics.RecordPairUnresolved()
			continue
		}
		metrics.RecordPairResolved(match.Method)

		pair := signal.Pair{Award: award, Contract: contract, Match: *match}
		signals := signal.Extract(d.extractors, pair)
		score := d.scorer.Score(signals)
		band := d.scorer.Classify(score)
		if band.Rank() < d.floor.Rank() {
			metrics.RecordPairBelowFloor()
			continue
		}

		detectedAt := d.now().UTC()
		if prior, ok := d.prior[pairKey(award.AwardID, contract.PIID)]; ok {
			detectedAt = prior
		}

		bundle, err := d.evidence.Bundle(pair, signals, evidence.NewMeta(d.runID, d.configVersion, detectedAt))
		if err != nil {
			// Evidence assembly failing on plain structs means a programming
			// error; skip the pair but keep the run alive.
			d.log.Error(context.Background(), "evidence bundle failed",
				logger.String("award_id", award.AwardID),
				logger.String("piid", contract.PIID),
				logger.Error(err),
			)
			continue
		}
		if bundle.Truncated {
			metrics.RecordEvidenceTruncated()
		}

		out = append(out, model.Transition{
			AwardID:       award.AwardID,
			ContractPIID:  contract.PIID,
			CompanyKey:    d.resolver.CompanyKey(award.UEI, award.CAGE, award.DUNS, award.RecipientName),
			Score:         score,
			Confidence:    band,
			DetectedAt:    detectedAt,
			ConfigVersion: d.configVersion,
			Evidence:      bundle,
		})
		metrics.RecordTransition(string(band))
	}
	return out
}

// CompanyKey exposes the resolver's company identity derivation for
// analytics, which must bucket awards the same way detection does.
func (d *Detector) CompanyKey(uei, cage, duns, name string) string {
	return d.resolver.CompanyKey(uei, cage, duns, name)
}

func pairKey(awardID, piid string) string {
	return awardID + "\x00" + piid
}

// runIDNamespace scopes the name-based UUIDs used as run identifiers.
var runIDNamespace = uuid.MustParse("5d3c1f0a-97b4-4f6e-8c2d-41a6e0b7f9d2")

// deriveRunID builds the run identifier from the config version and the
// patent corpus. Reruns over identical configuration and inputs get the
// same ID, which keeps serialized evidence bundles byte-stable.
func deriveRunID(configVersion string, patents []model.Patent) string {
	var b strings.Builder
	b.WriteString(configVersion)
	for _, p := range patents {
		b.WriteByte(0)
		b.WriteString(p.PatentID)
	}
	return uuid.NewSHA1(runIDNamespace, []byte(b.String())).String()
}
