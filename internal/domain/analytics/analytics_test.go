package analytics_test

import (
	"testing"
	"time"

	"github.com/okian/phase3/internal/domain/analytics"
	"github.com/okian/phase3/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// testCompanyKey mirrors the resolver's derivation closely enough for
// aggregation: identifier first, raw name otherwise.
func testCompanyKey(uei, cage, duns, name string) string {
	switch {
	case uei != "":
		return "uei:" + uei
	case cage != "":
		return "cage:" + cage
	case duns != "":
		return "duns:" + duns
	default:
		return "name:" + name
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func award(id, uei, phase, area string) model.Award {
	a := model.Award{
		AwardID:        id,
		Phase:          phase,
		RecipientName:  "Vendor " + uei,
		UEI:            uei,
		CompletionDate: date(2023, time.March, 15),
	}
	if area != "" {
		a.Classification = &model.Classification{TechArea: area, Confidence: 0.8}
	}
	return a
}

func transition(awardID, piid, uei string, score float64, patent bool) model.Transition {
	t := model.Transition{
		AwardID:      awardID,
		ContractPIID: piid,
		CompanyKey:   "uei:" + uei,
		Score:        score,
		Confidence:   model.ConfidenceLikely,
	}
	t.Evidence.Contract.StartDate = date(2023, time.September, 15)
	if patent {
		t.Evidence.Signals = []model.Signal{
			{Name: model.SignalPatent, Present: true, Score: 0.7},
		}
	} else {
		t.Evidence.Signals = []model.Signal{model.Absent(model.SignalPatent)}
	}
	return t
}

func TestBuildReport(t *testing.T) {
	Convey("Given awards across two companies and two tech areas", t, func() {
		awards := []model.Award{
			award("A-1", "U1", "I", "autonomy"),
			award("A-2", "U1", "II", "autonomy"),
			award("A-3", "U2", "II", "hypersonics"),
			award("A-4", "U2", "", ""),
		}
		transitions := []model.Transition{
			transition("A-1", "C-1", "U1", 0.75, true),
			transition("A-2", "C-2", "U1", 0.60, false),
			transition("A-3", "C-3", "U2", 0.80, false),
		}

		Convey("When the report is built", func() {
			r := analytics.BuildReport(awards, transitions, testCompanyKey)

			Convey("Then award-perspective rates count awards, not transitions", func() {
				So(r.TotalAwards, ShouldEqual, 4)
				So(r.AwardsTransitioned, ShouldEqual, 3)
				So(r.AwardTransitionRate.Valid, ShouldBeTrue)
				So(r.AwardTransitionRate.Value, ShouldAlmostEqual, 0.75)
			})

			Convey("Then sustained commercialization needs at least two transitions", func() {
				So(r.TotalCompanies, ShouldEqual, 2)
				So(r.SustainedCompanies, ShouldEqual, 1)
				So(r.SustainedRate.Value, ShouldAlmostEqual, 0.5)
			})

			Convey("Then phases are split with unlabeled awards under unknown", func() {
				So(r.Phases, ShouldHaveLength, 3)
				So(r.Phases[0].Phase, ShouldEqual, "I")
				So(r.Phases[0].TransitionRate.Value, ShouldAlmostEqual, 1.0)
				So(r.Phases[1].Phase, ShouldEqual, "II")
				So(r.Phases[1].Awards, ShouldEqual, 2)
				So(r.Phases[2].Phase, ShouldEqual, "unknown")
				So(r.Phases[2].Transitioned, ShouldEqual, 0)
			})

			Convey("Then tech areas track patent-backed transitions", func() {
				So(r.TechAreas, ShouldHaveLength, 2)
				autonomy := r.TechAreas[0]
				So(autonomy.TechArea, ShouldEqual, "autonomy")
				So(autonomy.Awards, ShouldEqual, 2)
				So(autonomy.AwardsTransitioned, ShouldEqual, 2)
				So(autonomy.PatentBacked, ShouldEqual, 1)
				So(autonomy.PatentBackedRate.Value, ShouldAlmostEqual, 0.5)
			})
		})

		Convey("When no awards exist", func() {
			r := analytics.BuildReport(nil, nil, testCompanyKey)

			Convey("Then rates are not applicable instead of dividing by zero", func() {
				So(r.AwardTransitionRate.Valid, ShouldBeFalse)
				So(r.SustainedRate.Valid, ShouldBeFalse)
				So(r.Phases, ShouldBeEmpty)
				So(r.TechAreas, ShouldBeEmpty)
			})
		})

		Convey("When awards exist but nothing transitioned", func() {
			r := analytics.BuildReport(awards, nil, testCompanyKey)

			Convey("Then rates are a valid zero", func() {
				So(r.AwardTransitionRate.Valid, ShouldBeTrue)
				So(r.AwardTransitionRate.Value, ShouldAlmostEqual, 0)
				So(r.SustainedCompanies, ShouldEqual, 0)
			})
		})
	})
}

func TestBuildProfiles(t *testing.T) {
	Convey("Given two companies with different outcomes", t, func() {
		awards := []model.Award{
			award("A-1", "U1", "II", ""),
			award("A-2", "U1", "II", ""),
			award("A-3", "U2", "I", ""),
		}
		transitions := []model.Transition{
			transition("A-1", "C-1", "U1", 0.75, false),
			transition("A-1", "C-2", "U1", 0.85, false),
		}

		Convey("When profiles are built", func() {
			profiles := analytics.BuildProfiles(awards, transitions, testCompanyKey)

			Convey("Then output is sorted by company key", func() {
				So(profiles, ShouldHaveLength, 2)
				So(profiles[0].CompanyKey, ShouldEqual, "uei:U1")
				So(profiles[1].CompanyKey, ShouldEqual, "uei:U2")
			})

			Convey("Then the active company's profile aggregates its transitions", func() {
				p := profiles[0]
				So(p.TotalAwards, ShouldEqual, 2)
				So(p.TotalTransitions, ShouldEqual, 2)
				So(p.SustainedCommercialization, ShouldBeTrue)
				So(p.AvgScore, ShouldAlmostEqual, 0.80)
				// one of two awards transitioned, even though twice
				So(p.SuccessRate, ShouldAlmostEqual, 0.5)
				// Mar 15 to Sep 15 is six calendar months
				So(p.AvgMonthsToTransition, ShouldAlmostEqual, 6, 0.1)
			})

			Convey("Then the inactive company still gets a profile", func() {
				p := profiles[1]
				So(p.TotalAwards, ShouldEqual, 1)
				So(p.TotalTransitions, ShouldEqual, 0)
				So(p.SustainedCommercialization, ShouldBeFalse)
				So(p.AvgScore, ShouldAlmostEqual, 0)
				So(p.SuccessRate, ShouldAlmostEqual, 0)
			})
		})
	})
}
