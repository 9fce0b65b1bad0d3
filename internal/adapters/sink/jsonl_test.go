package sink_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/okian/phase3/internal/adapters/sink"
	"github.com/okian/phase3/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJSONLRoundTrip(t *testing.T) {
	Convey("Given a detection set", t, func() {
		transitions := []model.Transition{
			{
				AwardID:       "A-1",
				ContractPIID:  "C-1",
				CompanyKey:    "uei:U1",
				Score:         0.75,
				Confidence:    model.ConfidenceLikely,
				DetectedAt:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
				ConfigVersion: "td1/balanced",
			},
			{AwardID: "A-2", ContractPIID: "C-2", Confidence: model.ConfidenceHigh},
		}

		Convey("When written as JSONL", func() {
			var buf bytes.Buffer
			So(sink.WriteJSONL(&buf, transitions), ShouldBeNil)

			Convey("Then each transition is one line", func() {
				lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
				So(lines, ShouldHaveLength, 2)
				So(lines[0], ShouldContainSubstring, `"award_id":"A-1"`)
			})

			Convey("Then reading it back restores the set", func() {
				got, err := sink.ReadJSONL(&buf)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Score, ShouldAlmostEqual, 0.75)
				So(got[0].Confidence, ShouldEqual, model.ConfidenceLikely)
				So(got[0].DetectedAt.Equal(transitions[0].DetectedAt), ShouldBeTrue)
			})
		})

		Convey("When reading malformed input", func() {
			_, err := sink.ReadJSONL(strings.NewReader("{not json}\n"))
			So(err, ShouldNotBeNil)
		})

		Convey("When reading empty input", func() {
			got, err := sink.ReadJSONL(strings.NewReader(""))
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}
