// Package analytics aggregates a run's detection set into award-level and
// company-level effectiveness metrics plus technology-area breakdowns.
//
// Everything is computed in one pass over fully materialized slices; there
// is no streaming state. Ratios over empty segments are "not applicable",
// never a division error.
package analytics

import (
	"sort"

	"github.com/okian/phase3/internal/domain/model"
)

// Rate is a ratio that distinguishes "zero" from "not applicable".
type Rate struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

func rate(num, den int) Rate {
	if den == 0 {
		return Rate{}
	}
	return Rate{Value: float64(num) / float64(den), Valid: true}
}

// TechAreaStats is the per-technology-area breakdown.
type TechAreaStats struct {
	TechArea           string `json:"tech_area"`
	Awards             int    `json:"awards"`
	AwardsTransitioned int    `json:"awards_transitioned"`
	TransitionRate     Rate   `json:"transition_rate"`
	PatentBacked       int    `json:"patent_backed"`
	PatentBackedRate   Rate   `json:"patent_backed_rate"`
}

// PhaseStats compares transition effectiveness across SBIR phases.
type PhaseStats struct {
	Phase          string `json:"phase"`
	Awards         int    `json:"awards"`
	Transitioned   int    `json:"transitioned"`
	TransitionRate Rate   `json:"transition_rate"`
}

// Report is the run-level analytics output.
type Report struct {
	TotalAwards         int             `json:"total_awards"`
	AwardsTransitioned  int             `json:"awards_transitioned"`
	AwardTransitionRate Rate            `json:"award_transition_rate"`
	TotalCompanies      int             `json:"total_companies"`
	SustainedCompanies  int             `json:"sustained_companies"`
	SustainedRate       Rate            `json:"sustained_rate"`
	Phases              []PhaseStats    `json:"phases"`
	TechAreas           []TechAreaStats `json:"tech_areas"`
}

// CompanyKeyFunc derives the company identity for an award; it must match
// the derivation the detector used so profiles and transitions line up.
type CompanyKeyFunc func(uei, cage, duns, name string) string

// BuildReport computes the run report from the full award set and the full
// detection set.
func BuildReport(awards []model.Award, transitions []model.Transition, companyKey CompanyKeyFunc) Report {
	awardsByID := make(map[string]model.Award, len(awards))
	for _, a := range awards {
		awardsByID[a.AwardID] = a
	}

	transitionedAwards := make(map[string]bool)
	patentBackedAwards := make(map[string]bool)
	transitionsByCompany := make(map[string]int)
	for _, t := range transitions {
		transitionedAwards[t.AwardID] = true
		transitionsByCompany[t.CompanyKey]++
		if patentBacked(t) {
			patentBackedAwards[t.AwardID] = true
		}
	}

	r := Report{
		TotalAwards:        len(awards),
		AwardsTransitioned: len(transitionedAwards),
	}
	r.AwardTransitionRate = rate(r.AwardsTransitioned, r.TotalAwards)

	// Company-level: companies with >= 1 award form the denominator;
	// sustained commercialization means >= 2 transitions.
	companies := make(map[string]bool)
	for _, a := range awards {
		companies[companyKey(a.UEI, a.CAGE, a.DUNS, a.RecipientName)] = true
	}
	r.TotalCompanies = len(companies)
	for key := range companies {
		if transitionsByCompany[key] >= 2 {
			r.SustainedCompanies++
		}
	}
	r.SustainedRate = rate(r.SustainedCompanies, r.TotalCompanies)

	r.Phases = phaseStats(awards, transitionedAwards)
	r.TechAreas = techAreaStats(awards, transitionedAwards, patentBackedAwards)
	return r
}

func phaseStats(awards []model.Award, transitioned map[string]bool) []PhaseStats {
	byPhase := make(map[string]*PhaseStats)
	for _, a := range awards {
		phase := a.Phase
		if phase == "" {
			phase = "unknown"
		}
		ps, ok := byPhase[phase]
		if !ok {
			ps = &PhaseStats{Phase: phase}
			byPhase[phase] = ps
		}
		ps.Awards++
		if transitioned[a.AwardID] {
			ps.Transitioned++
		}
	}

	out := make([]PhaseStats, 0, len(byPhase))
	for _, ps := range byPhase {
		ps.TransitionRate = rate(ps.Transitioned, ps.Awards)
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phase < out[j].Phase })
	return out
}

func techAreaStats(awards []model.Award, transitioned, patentBacked map[string]bool) []TechAreaStats {
	byArea := make(map[string]*TechAreaStats)
	for _, a := range awards {
		if a.Classification == nil || a.Classification.TechArea == "" {
			continue
		}
		area := a.Classification.TechArea
		ts, ok := byArea[area]
		if !ok {
			ts = &TechAreaStats{TechArea: area}
			byArea[area] = ts
		}
		ts.Awards++
		if transitioned[a.AwardID] {
			ts.AwardsTransitioned++
		}
		if patentBacked[a.AwardID] {
			ts.PatentBacked++
		}
	}

	out := make([]TechAreaStats, 0, len(byArea))
	for _, ts := range byArea {
		ts.TransitionRate = rate(ts.AwardsTransitioned, ts.Awards)
		ts.PatentBackedRate = rate(ts.PatentBacked, ts.Awards)
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TechArea < out[j].TechArea })
	return out
}

// patentBacked reports whether a transition's patent signal contributed.
func patentBacked(t model.Transition) bool {
	for _, s := range t.Evidence.Signals {
		if s.Name == model.SignalPatent && s.Present && s.Score > 0 {
			return true
		}
	}
	return false
}
