package resolve_test

import (
	"testing"

	"github.com/okian/phase3/internal/domain/model"
	"github.com/okian/phase3/internal/domain/resolve"
	. "github.com/smartystreets/goconvey/convey"
)

var stopWords = []string{"INC", "LLC", "CORP", "CORPORATION", "THE", "A", "AN"}

func TestMatchCascade(t *testing.T) {
	Convey("Given a resolver with default settings", t, func() {
		r := resolve.New(resolve.WithStopWords(stopWords))

		award := model.Award{
			AwardID:       "SBIR-1",
			RecipientName: "Acme Robotics Inc",
			UEI:           "ABC123XYZ",
			CAGE:          "1A2B3",
			DUNS:          "123456789",
		}

		Convey("When the contract shares the UEI", func() {
			contract := model.Contract{PIID: "C-1", RecipientName: "Acme Robotics LLC", UEI: "ABC123XYZ", CAGE: "1A2B3"}
			m := r.Match(award, contract)

			Convey("Then UEI wins the cascade at 0.99", func() {
				So(m, ShouldNotBeNil)
				So(m.Method, ShouldEqual, model.MatchUEIExact)
				So(m.Confidence, ShouldAlmostEqual, 0.99)
				So(m.Matched, ShouldEqual, "ABC123XYZ")
			})
		})

		Convey("When only the CAGE code matches", func() {
			contract := model.Contract{PIID: "C-2", RecipientName: "Unrelated Name Co", UEI: "OTHER", CAGE: "1A2B3"}
			m := r.Match(award, contract)

			Convey("Then CAGE resolves at 0.95", func() {
				So(m, ShouldNotBeNil)
				So(m.Method, ShouldEqual, model.MatchCAGEExact)
				So(m.Confidence, ShouldAlmostEqual, 0.95)
			})
		})

		Convey("When only DUNS matches", func() {
			contract := model.Contract{PIID: "C-3", RecipientName: "Unrelated Name Co", DUNS: "123456789"}
			m := r.Match(award, contract)

			Convey("Then DUNS resolves at 0.90", func() {
				So(m, ShouldNotBeNil)
				So(m.Method, ShouldEqual, model.MatchDUNSExact)
				So(m.Confidence, ShouldAlmostEqual, 0.90)
			})
		})

		Convey("When no identifier matches but the names normalize equal", func() {
			contract := model.Contract{PIID: "C-4", RecipientName: "ACME ROBOTICS, LLC"}
			m := r.Match(award, contract)

			Convey("Then the fuzzy method resolves with the similarity as confidence", func() {
				So(m, ShouldNotBeNil)
				So(m.Method, ShouldEqual, model.MatchNameFuzzy)
				So(m.Confidence, ShouldBeGreaterThanOrEqualTo, 0.90)
			})
		})

		Convey("When nothing matches", func() {
			contract := model.Contract{PIID: "C-5", RecipientName: "Zenith Aerospace Group"}
			m := r.Match(award, contract)

			Convey("Then the pair is excluded, not scored at zero", func() {
				So(m, ShouldBeNil)
			})
		})

		Convey("Then resolution is deterministic across repeated calls", func() {
			contract := model.Contract{PIID: "C-6", RecipientName: "ACME ROBOTICS, LLC"}
			first := r.Match(award, contract)
			for i := 0; i < 10; i++ {
				again := r.Match(award, contract)
				So(again.Method, ShouldEqual, first.Method)
				So(again.Confidence, ShouldAlmostEqual, first.Confidence)
			}
		})
	})
}

func TestMatchInitialism(t *testing.T) {
	Convey("Given the resolver with a 0.90 fuzzy threshold", t, func() {
		r := resolve.New(
			resolve.WithStopWords(stopWords),
			resolve.WithFuzzyThreshold(0.90),
		)

		Convey("When comparing a full name against its acronym form", func() {
			award := model.Award{AwardID: "A", RecipientName: "International Business Machines Corp"}
			contract := model.Contract{PIID: "C", RecipientName: "IBM Corporation"}
			m := r.Match(award, contract)

			Convey("Then the initialism clears the threshold", func() {
				So(m, ShouldNotBeNil)
				So(m.Method, ShouldEqual, model.MatchNameFuzzy)
				So(m.Confidence, ShouldBeGreaterThanOrEqualTo, 0.90)
			})
		})

		Convey("When similarity stays below the threshold", func() {
			award := model.Award{AwardID: "A", RecipientName: "International Business Machines Corp"}
			contract := model.Contract{PIID: "C", RecipientName: "Integrated Biomedical Supplies"}
			m := r.Match(award, contract)

			Convey("Then the pair is excluded", func() {
				So(m, ShouldBeNil)
			})
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer with the default stop words", t, func() {
		n := resolve.NewNormalizer(stopWords)

		cases := map[string]string{
			"Acme Robotics, Inc.":    "ACME ROBOTICS",
			"THE  Acme   Robotics":   "ACME ROBOTICS",
			"Acme-Robotics LLC":      "ACME ROBOTICS",
			"Café Automation Corp":   "CAFE AUTOMATION",
			"International Business": "INTERNATIONAL BUSINESS",
		}

		Convey("Then punctuation, case, suffixes and diacritics normalize away", func() {
			for in, want := range cases {
				So(n.Normalize(in), ShouldEqual, want)
			}
		})

		Convey("Then a name of only stop words normalizes to empty", func() {
			So(n.Normalize("The Inc LLC"), ShouldEqual, "")
		})
	})
}

func TestCompanyKey(t *testing.T) {
	Convey("Given the resolver", t, func() {
		r := resolve.New(resolve.WithStopWords(stopWords))

		Convey("Then identifiers take priority over names", func() {
			So(r.CompanyKey("U1", "C1", "D1", "Acme"), ShouldEqual, "uei:U1")
			So(r.CompanyKey("", "C1", "D1", "Acme"), ShouldEqual, "cage:C1")
			So(r.CompanyKey("", "", "D1", "Acme"), ShouldEqual, "duns:D1")
			So(r.CompanyKey("", "", "", "Acme Robotics Inc"), ShouldEqual, "name:ACME ROBOTICS")
		})
	})
}
