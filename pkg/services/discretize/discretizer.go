// Package discretize binarizes suppressed incidence rates into "high rate"
// indicator items. The threshold is derived from the scope's own rate
// distribution, so "high" always means high relative to the rest of the
// selection.
package discretize

import (
	"sort"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

// Discretizer classifies demographic rates against a quantile threshold
// computed over all disclosable rates in the scope.
type Discretizer struct {
	quantile float64
}

func NewDiscretizer(quantile float64) *Discretizer {
	if quantile <= 0 || quantile >= 1 {
		quantile = 0.75
	}
	return &Discretizer{quantile: quantile}
}

// Threshold computes the quantile cut over the non-null rates. With fewer
// than 2 disclosable rates the threshold is undefined and the second
// return value is false: no items may be generated for the scope.
func (d *Discretizer) Threshold(rates []domain.DemographicRate) (float64, bool) {
	values := make([]float64, 0, len(rates))
	for _, r := range rates {
		if r.Rate != nil {
			values = append(values, *r.Rate)
		}
	}
	if len(values) < 2 {
		return 0, false
	}

	sort.Float64s(values)
	return quantileAt(values, d.quantile), true
}

// Classify assigns each state its high-rate items: one item per
// (category, subCategory) cell whose rate clears the scope threshold.
// Suppressed cells produce no item at all: they are absent rather than
// "not high", so a missing item never reveals which side of the threshold
// a suppressed rate falls on.
func (d *Discretizer) Classify(rates []domain.DemographicRate) map[string][]domain.Item {
	threshold, ok := d.Threshold(rates)
	if !ok {
		return map[string][]domain.Item{}
	}

	items := make(map[string][]domain.Item)
	for _, r := range rates {
		if r.Rate == nil {
			continue
		}
		if *r.Rate >= threshold {
			items[r.State] = append(items[r.State], domain.NewItem(r.Category, r.SubCategory))
		}
	}
	return items
}

// quantileAt returns the q-quantile of sorted values using linear
// interpolation between closest ranks.
func quantileAt(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
