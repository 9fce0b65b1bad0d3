package signal

import (
	"time"

	"github.com/okian/phase3/internal/domain/model"
)

// Timing bands: contracts starting soon after award completion are the
// strongest transition evidence, decaying in steps across the window.
const (
	immediateMonths = 3
	shortMonths     = 12

	immediateScore = 1.0
	shortScore     = 0.75
	mediumScore    = 0.5

	defaultWindowMonths = 24
)

// TimingOption applies a configuration option to the TimingExtractor.
type TimingOption func(*TimingExtractor)

// WithWindowMonths overrides the timing window.
func WithWindowMonths(months int) TimingOption {
	return func(e *TimingExtractor) {
		if months > 0 {
			e.windowMonths = months
		}
	}
}

// TimingExtractor scores the proximity between award completion and
// contract start. Pairs outside the window are excluded from detection
// entirely; InWindow is the detector's pre-filter.
type TimingExtractor struct {
	windowMonths int
}

// NewTimingExtractor creates the timing proximity extractor.
func NewTimingExtractor(opts ...TimingOption) *TimingExtractor {
	e := &TimingExtractor{windowMonths: defaultWindowMonths}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Extractor.
func (e *TimingExtractor) Name() string { return model.SignalTiming }

// InWindow reports whether the contract starts within [completion,
// completion + window]. Calendar-month arithmetic keeps the boundary exact:
// with a 24-month window, a start 25 months out is excluded.
func (e *TimingExtractor) InWindow(award model.Award, contract model.Contract) bool {
	if contract.StartDate.Before(award.CompletionDate) {
		return false
	}
	return !contract.StartDate.After(award.CompletionDate.AddDate(0, e.windowMonths, 0))
}

// Extract implements Extractor, applying banded decay within the window.
func (e *TimingExtractor) Extract(pair Pair) model.Signal {
	completion := pair.Award.CompletionDate
	start := pair.Contract.StartDate
	days := int(start.Sub(completion) / (24 * time.Hour))

	score := 0.0
	band := "out_of_window"
	if e.InWindow(pair.Award, pair.Contract) {
		switch {
		case !start.After(completion.AddDate(0, immediateMonths, 0)):
			score, band = immediateScore, "immediate"
		case !start.After(completion.AddDate(0, shortMonths, 0)):
			score, band = shortScore, "short_term"
		default:
			score, band = mediumScore, "medium_term"
		}
	}

	return model.Signal{
		Name:    e.Name(),
		Present: true,
		Score:   score,
		Facts: map[string]any{
			"days_between":  days,
			"band":          band,
			"window_months": e.windowMonths,
		},
	}
}
