package signal_test

import (
	"testing"
	"time"

	"github.com/okian/phase3/internal/domain/model"
	"github.com/okian/phase3/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pairAt(completion, start time.Time) signal.Pair {
	return signal.Pair{
		Award:    model.Award{AwardID: "A-1", RecipientName: "Acme", CompletionDate: completion},
		Contract: model.Contract{PIID: "C-1", RecipientName: "Acme", StartDate: start},
	}
}

func TestAgencyExtractor(t *testing.T) {
	Convey("Given the agency continuity extractor", t, func() {
		e := signal.NewAgencyExtractor()

		Convey("When award and contract share the agency", func() {
			s := e.Extract(signal.Pair{
				Award:    model.Award{Agency: "NAVY"},
				Contract: model.Contract{Agency: "navy"},
			})
			So(s.Present, ShouldBeTrue)
			So(s.Score, ShouldAlmostEqual, 1.0)
			So(s.Facts["same_agency"], ShouldBeTrue)
		})

		Convey("When agencies differ but sit under the same department", func() {
			s := e.Extract(signal.Pair{
				Award:    model.Award{Agency: "ARMY"},
				Contract: model.Contract{Agency: "NAVY"},
			})
			So(s.Present, ShouldBeTrue)
			So(s.Score, ShouldAlmostEqual, 0.5)
			So(s.Facts["same_department"], ShouldBeTrue)
		})

		Convey("When agencies are unrelated", func() {
			s := e.Extract(signal.Pair{
				Award:    model.Award{Agency: "NASA"},
				Contract: model.Contract{Agency: "NIH"},
			})
			So(s.Present, ShouldBeTrue)
			So(s.Score, ShouldAlmostEqual, 0.0)
		})

		Convey("When either agency is missing the signal is absent", func() {
			s := e.Extract(signal.Pair{Award: model.Award{Agency: "NAVY"}})
			So(s.Present, ShouldBeFalse)
			So(s.Score, ShouldAlmostEqual, 0.0)
		})
	})
}

func TestTimingExtractor(t *testing.T) {
	Convey("Given a timing extractor with a 24 month window", t, func() {
		e := signal.NewTimingExtractor(signal.WithWindowMonths(24))
		completion := day(2023, time.March, 15)

		Convey("When the contract starts within three months", func() {
			s := e.Extract(pairAt(completion, day(2023, time.May, 1)))
			So(s.Present, ShouldBeTrue)
			So(s.Score, ShouldAlmostEqual, 1.0)
			So(s.Facts["band"], ShouldEqual, "immediate")
		})

		Convey("When the contract starts within twelve months", func() {
			s := e.Extract(pairAt(completion, day(2023, time.December, 1)))
			So(s.Score, ShouldAlmostEqual, 0.75)
			So(s.Facts["band"], ShouldEqual, "short_term")
		})

		Convey("When the contract starts later but inside the window", func() {
			s := e.Extract(pairAt(completion, day(2024, time.September, 1)))
			So(s.Score, ShouldAlmostEqual, 0.5)
			So(s.Facts["band"], ShouldEqual, "medium_term")
		})

		Convey("When the contract starts exactly at the window boundary", func() {
			boundary := completion.AddDate(0, 24, 0)
			So(e.InWindow(model.Award{CompletionDate: completion}, model.Contract{StartDate: boundary}), ShouldBeTrue)
		})

		Convey("When the contract starts 25 months after completion", func() {
			start := completion.AddDate(0, 25, 0)
			So(e.InWindow(model.Award{CompletionDate: completion}, model.Contract{StartDate: start}), ShouldBeFalse)

			s := e.Extract(pairAt(completion, start))
			So(s.Score, ShouldAlmostEqual, 0.0)
			So(s.Facts["band"], ShouldEqual, "out_of_window")
		})

		Convey("When the contract predates the award completion", func() {
			So(e.InWindow(
				model.Award{CompletionDate: completion},
				model.Contract{StartDate: day(2023, time.January, 1)},
			), ShouldBeFalse)
		})
	})
}

func TestCompetitionExtractor(t *testing.T) {
	Convey("Given the competition type extractor", t, func() {
		e := signal.NewCompetitionExtractor()

		score := func(comp string) model.Signal {
			return e.Extract(signal.Pair{Contract: model.Contract{Competition: comp}})
		}

		Convey("Then sole source outranks limited outranks full", func() {
			sole := score(model.CompetitionSoleSource)
			limited := score(model.CompetitionLimited)
			full := score(model.CompetitionFull)

			So(sole.Score, ShouldAlmostEqual, 1.0)
			So(limited.Score, ShouldAlmostEqual, 0.6)
			So(full.Score, ShouldAlmostEqual, 0.3)
			So(sole.Score, ShouldBeGreaterThan, limited.Score)
			So(limited.Score, ShouldBeGreaterThan, full.Score)
		})

		Convey("Then casing does not matter", func() {
			So(score("Sole_Source").Score, ShouldAlmostEqual, 1.0)
		})

		Convey("Then an unknown competition type is absent, not zero", func() {
			s := score("mystery")
			So(s.Present, ShouldBeFalse)
		})

		Convey("Given overridden band scores", func() {
			custom := signal.NewCompetitionExtractor(signal.WithCompetitionScores(map[string]float64{
				model.CompetitionSoleSource: 0.9,
			}))
			s := custom.Extract(signal.Pair{Contract: model.Contract{Competition: model.CompetitionSoleSource}})
			So(s.Score, ShouldAlmostEqual, 0.9)
		})
	})
}

func TestTechAlignExtractor(t *testing.T) {
	Convey("Given the technology alignment extractor", t, func() {
		e := signal.NewTechAlignExtractor()

		Convey("When both sides are classified and agree", func() {
			s := e.Extract(signal.Pair{
				Award:    model.Award{Classification: &model.Classification{TechArea: "autonomy", Confidence: 0.82}},
				Contract: model.Contract{TechArea: "Autonomy"},
			})
			So(s.Present, ShouldBeTrue)
			So(s.Score, ShouldAlmostEqual, 0.82)
			So(s.Facts["aligned"], ShouldBeTrue)
		})

		Convey("When the areas disagree the signal is present at zero", func() {
			s := e.Extract(signal.Pair{
				Award:    model.Award{Classification: &model.Classification{TechArea: "autonomy", Confidence: 0.82}},
				Contract: model.Contract{TechArea: "hypersonics"},
			})
			So(s.Present, ShouldBeTrue)
			So(s.Score, ShouldAlmostEqual, 0.0)
		})

		Convey("When the award is unclassified the signal is absent", func() {
			s := e.Extract(signal.Pair{Contract: model.Contract{TechArea: "autonomy"}})
			So(s.Present, ShouldBeFalse)
		})

		Convey("When the contract has no inferred area the signal is absent", func() {
			s := e.Extract(signal.Pair{
				Award: model.Award{Classification: &model.Classification{TechArea: "autonomy", Confidence: 0.82}},
			})
			So(s.Present, ShouldBeFalse)
		})
	})
}

func TestPatentExtractor(t *testing.T) {
	completion := day(2023, time.March, 15)
	start := day(2024, time.February, 1)
	award := model.Award{
		AwardID:        "A-1",
		RecipientName:  "Acme Robotics Inc",
		UEI:            "UEI-ACME",
		CompletionDate: completion,
		Abstract:       "autonomous underwater robotics for mine countermeasure inspection",
	}
	contract := model.Contract{PIID: "C-1", RecipientName: "Acme Robotics", StartDate: start}

	Convey("Given a patent corpus with a relevant filing", t, func() {
		corpus := []model.Patent{
			{
				PatentID:     "P-1",
				AssigneeUEI:  "UEI-ACME",
				AssigneeName: "Acme Robotics Inc",
				FilingDate:   day(2023, time.August, 1),
				Abstract:     "autonomous underwater robotics vehicle for subsea inspection",
			},
		}
		e := signal.NewPatentExtractor(corpus, []string{"INC", "LLC"})

		Convey("When the vendor filed inside the transition window", func() {
			s := e.Extract(signal.Pair{Award: award, Contract: contract})

			Convey("Then all three components add up", func() {
				So(s.Present, ShouldBeTrue)
				So(s.Score, ShouldAlmostEqual, 1.0)
				So(s.Facts["patent_count"], ShouldEqual, 1)
				So(s.Facts["filed_before_start"], ShouldBeTrue)
				So(s.Facts["best_similar_patent"], ShouldEqual, "P-1")
			})
		})

		Convey("When the abstract similarity gate is raised past the match", func() {
			strict := signal.NewPatentExtractor(corpus, []string{"INC", "LLC"},
				signal.WithSimilarityThreshold(0.99))
			s := strict.Extract(signal.Pair{Award: award, Contract: contract})

			Convey("Then only the existence and timing components score", func() {
				So(s.Score, ShouldAlmostEqual, 0.7)
			})
		})

		Convey("When the vendor is matched by normalized assignee name", func() {
			anon := award
			anon.UEI = ""
			s := e.Extract(signal.Pair{Award: anon, Contract: contract})
			So(s.Facts["patent_count"], ShouldEqual, 1)
		})
	})

	Convey("Given filings on the window boundaries", t, func() {
		corpus := []model.Patent{
			{PatentID: "P-DAY0", AssigneeUEI: "UEI-ACME", FilingDate: completion},
			{PatentID: "P-LAST", AssigneeUEI: "UEI-ACME", FilingDate: start},
		}
		e := signal.NewPatentExtractor(corpus, nil)
		s := e.Extract(signal.Pair{Award: award, Contract: contract})

		Convey("Then the completion-day filing is excluded and the start-day one counts", func() {
			So(s.Facts["patent_count"], ShouldEqual, 1)
			So(s.Facts["best_similar_patent"], ShouldNotEqual, "P-DAY0")
			So(s.Facts["filed_before_start"], ShouldBeFalse)
		})
	})

	Convey("Given a filing outside the transition window", t, func() {
		corpus := []model.Patent{
			{
				PatentID:    "P-2",
				AssigneeUEI: "UEI-ACME",
				FilingDate:  day(2022, time.January, 1),
			},
		}
		e := signal.NewPatentExtractor(corpus, nil)
		s := e.Extract(signal.Pair{Award: award, Contract: contract})

		Convey("Then the signal is present with a zero score", func() {
			So(s.Present, ShouldBeTrue)
			So(s.Score, ShouldAlmostEqual, 0.0)
			So(s.Facts["patent_count"], ShouldEqual, 0)
		})
	})

	Convey("Given no patent corpus at all", t, func() {
		e := signal.NewPatentExtractor(nil, nil)
		s := e.Extract(signal.Pair{Award: award, Contract: contract})

		Convey("Then the signal is absent", func() {
			So(s.Present, ShouldBeFalse)
		})
	})
}
