// Package synthetic produces the seeded demo dataset: patient-level
// records across all states, years, and demographic buckets, with disease
// risks shaped so that realistic disparities (and minable associations)
// emerge at the aggregate level.
package synthetic

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/xam-health/equity-atlas/pkg/models/store"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb/observation"
)

var states = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var ageGroups = []string{"0-17", "18-34", "35-49", "50-64", "65+"}
var sexes = []string{"Female", "Male", "Other"}
var races = []string{"White", "Black", "Hispanic", "Asian", "Other"}
var incomes = []string{"Low", "Middle", "High"}

// Elevated-risk states for chronic disease.
var hotspots = map[string]bool{"MS": true, "WV": true, "AL": true, "LA": true, "KY": true}

type Options struct {
	Records   int
	Seed      int64
	BatchSize int
	YearFrom  int
	YearTo    int
}

type Generator struct {
	store observation.Store
	opts  Options
}

func NewGenerator(store observation.Store, opts Options) *Generator {
	if opts.Records <= 0 {
		opts.Records = 100000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5000
	}
	if opts.YearFrom == 0 {
		opts.YearFrom = 2015
	}
	if opts.YearTo == 0 {
		opts.YearTo = 2023
	}
	return &Generator{store: store, opts: opts}
}

// Generate writes the full synthetic dataset into the store in batches.
// The same seed always yields the same dataset.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	rng := rand.New(rand.NewSource(g.opts.Seed))

	batch := make([]store.HealthRecord, 0, g.opts.BatchSize)
	written := 0
	for i := 0; i < g.opts.Records; i++ {
		batch = append(batch, g.record(rng, i+1))
		if len(batch) == g.opts.BatchSize {
			if err := g.store.Add(ctx, batch); err != nil {
				return written, fmt.Errorf("write batch: %w", err)
			}
			written += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := g.store.Add(ctx, batch); err != nil {
			return written, fmt.Errorf("write final batch: %w", err)
		}
		written += len(batch)
	}
	return written, nil
}

func (g *Generator) record(rng *rand.Rand, seq int) store.HealthRecord {
	state := states[rng.Intn(len(states))]
	year := g.opts.YearFrom + rng.Intn(g.opts.YearTo-g.opts.YearFrom+1)
	age := weightedChoice(rng, ageGroups, []float64{0.22, 0.27, 0.2, 0.18, 0.13})
	sex := weightedChoice(rng, sexes, []float64{0.5, 0.49, 0.01})
	race := weightedChoice(rng, races, []float64{0.6, 0.13, 0.15, 0.08, 0.04})
	income := weightedChoice(rng, incomes, []float64{0.3, 0.5, 0.2})

	risk := baseRisk(state, age, race, income)

	heart := bernoulli(rng, min(0.6, risk+0.05))
	diabetesRisk := risk
	if income == "Low" {
		diabetesRisk += 0.03
	}
	diabetes := bernoulli(rng, min(0.5, diabetesRisk))
	cancer := bernoulli(rng, min(0.15, risk*0.7))

	// Sequential IDs keep the dataset byte-identical for a fixed seed.
	return store.HealthRecord{
		ID:            fmt.Sprintf("p%08d", seq),
		State:         state,
		Year:          year,
		AgeGroup:      age,
		Sex:           sex,
		RaceEthnicity: race,
		IncomeGroup:   income,
		HeartDisease:  heart,
		Diabetes:      diabetes,
		Cancer:        cancer,
	}
}

func baseRisk(state, age, race, income string) float64 {
	risk := 0.01

	switch age {
	case "50-64":
		risk += 0.08
	case "65+":
		risk += 0.15
	case "35-49":
		risk += 0.03
	}

	if income == "Low" {
		risk += 0.02
	}

	switch race {
	case "Black":
		risk += 0.02
	case "Hispanic":
		risk += 0.01
	case "Asian":
		risk -= 0.005
	}

	if hotspots[state] {
		risk += 0.03
	}

	return risk
}

func weightedChoice(rng *rand.Rand, values []string, weights []float64) string {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func bernoulli(rng *rand.Rand, p float64) int {
	if rng.Float64() < p {
		return 1
	}
	return 0
}
