// Package fixtures generates a deterministic synthetic corpus of awards,
// contracts and patents for local runs and demos. The generator is seeded:
// two invocations with the same seed produce identical datasets, which is
// what makes it usable for exercising the detector's idempotence end to end.
package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/phase3/internal/domain/model"
)

// Corpus shape constants.
const (
	transitionShare = 0.4 // share of awards given a plausible follow-on contract
	patentShare     = 0.5 // share of transitioning vendors that also file a patent
	decoyPerAward   = 1   // unrelated contracts per award, noise for the resolver
)

var agencies = []string{"ARMY", "NAVY", "USAF", "DARPA", "NIH", "DOE", "NASA", "NSF", "DHS"}

var techAreas = []string{
	"autonomy", "advanced_materials", "biotech", "hypersonics",
	"microelectronics", "quantum", "space", "cyber",
}

var namePrefixes = []string{
	"Apex", "Cobalt", "Meridian", "Northstar", "Quantum", "Redline",
	"Sable", "Talon", "Vanguard", "Zephyr",
}

var nameSuffixes = []string{
	"Dynamics", "Systems", "Technologies", "Labs", "Research", "Analytics",
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed fixes the random source.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) } //nolint:gosec // synthetic data only
}

// WithEpoch sets the base date award completions are scattered around.
func WithEpoch(t time.Time) Option {
	return func(g *Generator) {
		if !t.IsZero() {
			g.epoch = t
		}
	}
}

// Generator produces the synthetic corpus.
type Generator struct {
	rng   *rand.Rand
	epoch time.Time
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:   rand.New(rand.NewSource(1)), //nolint:gosec // synthetic data only
		epoch: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Corpus holds one generated dataset.
type Corpus struct {
	Awards    []model.Award
	Contracts []model.Contract
	Patents   []model.Patent
}

// Generate builds n awards with a mix of transitioning and non-transitioning
// vendors, decoy contracts, and a patent trail for some transitions.
func (g *Generator) Generate(n int) Corpus {
	var c Corpus
	for i := 0; i < n; i++ {
		vendor := g.vendorName()
		uei := fmt.Sprintf("UEI%09d", g.rng.Intn(1_000_000_000))
		agency := agencies[g.rng.Intn(len(agencies))]
		area := techAreas[g.rng.Intn(len(techAreas))]
		completion := g.epoch.AddDate(0, g.rng.Intn(36), g.rng.Intn(28))

		award := model.Award{
			AwardID:        fmt.Sprintf("SBIR-%04d", i),
			Phase:          []string{"I", "II"}[g.rng.Intn(2)],
			RecipientName:  vendor,
			UEI:            uei,
			Agency:         agency,
			CompletionDate: completion,
			Abstract:       g.abstract(area),
			Classification: &model.Classification{TechArea: area, Confidence: 0.7 + 0.3*g.rng.Float64()},
		}
		c.Awards = append(c.Awards, award)

		if g.rng.Float64() < transitionShare {
			lagMonths := 1 + g.rng.Intn(20)
			start := completion.AddDate(0, lagMonths, 0)
			c.Contracts = append(c.Contracts, model.Contract{
				PIID:            fmt.Sprintf("W%04d-%02d-C-%04d", 9000+i, start.Year()%100, g.rng.Intn(10000)),
				RecipientName:   vendor,
				UEI:             uei,
				Agency:          agency,
				StartDate:       start,
				ObligatedAmount: float64(250_000 + g.rng.Intn(20_000_000)),
				Competition:     []string{model.CompetitionSoleSource, model.CompetitionLimited, model.CompetitionFull}[g.rng.Intn(3)],
				TechArea:        area,
			})
			if g.rng.Float64() < patentShare {
				c.Patents = append(c.Patents, model.Patent{
					PatentID:     fmt.Sprintf("US%07dB2", 10_000_000+g.rng.Intn(900_000)),
					AssigneeName: vendor,
					AssigneeUEI:  uei,
					FilingDate:   completion.AddDate(0, lagMonths/2, 0),
					Abstract:     g.abstract(area),
				})
			}
		}

		// Decoy: an unrelated vendor's contract in the same window, which
		// the resolver must refuse to match.
		for d := 0; d < decoyPerAward; d++ {
			start := completion.AddDate(0, 1+g.rng.Intn(20), 0)
			c.Contracts = append(c.Contracts, model.Contract{
				PIID:            fmt.Sprintf("N%04d-%02d-D-%04d", 1000+i, start.Year()%100, g.rng.Intn(10000)),
				RecipientName:   g.vendorName(),
				UEI:             fmt.Sprintf("UEI%09d", g.rng.Intn(1_000_000_000)),
				Agency:          agencies[g.rng.Intn(len(agencies))],
				StartDate:       start,
				ObligatedAmount: float64(100_000 + g.rng.Intn(5_000_000)),
				Competition:     model.CompetitionFull,
			})
		}
	}
	return c
}

func (g *Generator) vendorName() string {
	return namePrefixes[g.rng.Intn(len(namePrefixes))] + " " +
		nameSuffixes[g.rng.Intn(len(nameSuffixes))] + " Inc"
}

func (g *Generator) abstract(area string) string {
	return fmt.Sprintf("Development of novel %s capabilities for defense and "+
		"civilian applications, including prototyping, integration and "+
		"field evaluation of the resulting system.", area)
}
