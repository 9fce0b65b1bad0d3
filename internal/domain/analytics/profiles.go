package analytics

import (
	"sort"

	"github.com/okian/phase3/internal/domain/model"
)

// daysPerMonth converts day spans to approximate months for averaging.
const daysPerMonth = 30.44

// BuildProfiles recomputes the per-company TransitionProfile set wholesale
// from the run's awards and transitions.
func BuildProfiles(awards []model.Award, transitions []model.Transition, companyKey CompanyKeyFunc) []model.TransitionProfile {
	type acc struct {
		name        string
		awards      int
		awardIDs    map[string]model.Award
		transitions []model.Transition
	}

	byCompany := make(map[string]*acc)
	for _, a := range awards {
		key := companyKey(a.UEI, a.CAGE, a.DUNS, a.RecipientName)
		c, ok := byCompany[key]
		if !ok {
			c = &acc{name: a.RecipientName, awardIDs: make(map[string]model.Award)}
			byCompany[key] = c
		}
		c.awards++
		c.awardIDs[a.AwardID] = a
	}
	for _, t := range transitions {
		if c, ok := byCompany[t.CompanyKey]; ok {
			c.transitions = append(c.transitions, t)
		}
	}

	profiles := make([]model.TransitionProfile, 0, len(byCompany))
	for key, c := range byCompany {
		p := model.TransitionProfile{
			CompanyKey:                 key,
			CompanyName:                c.name,
			TotalAwards:                c.awards,
			TotalTransitions:           len(c.transitions),
			SustainedCommercialization: len(c.transitions) >= 2,
		}

		transitionedAwards := make(map[string]bool)
		var scoreSum, monthsSum float64
		var monthsN int
		for _, t := range c.transitions {
			transitionedAwards[t.AwardID] = true
			scoreSum += t.Score
			if a, ok := c.awardIDs[t.AwardID]; ok {
				days := t.Evidence.Contract.StartDate.Sub(a.CompletionDate).Hours() / 24
				monthsSum += days / daysPerMonth
				monthsN++
			}
		}
		if len(c.transitions) > 0 {
			p.AvgScore = scoreSum / float64(len(c.transitions))
		}
		if monthsN > 0 {
			p.AvgMonthsToTransition = monthsSum / float64(monthsN)
		}
		if c.awards > 0 {
			p.SuccessRate = float64(len(transitionedAwards)) / float64(c.awards)
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].CompanyKey < profiles[j].CompanyKey })
	return profiles
}
