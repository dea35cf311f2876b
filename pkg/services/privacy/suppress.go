// Package privacy enforces the Rule of 11: no cell with fewer than 11
// individuals may leave the service tier in any form. Every raw count must
// pass through Suppress (or MaskAggregate) before other components see it.
package privacy

import (
	"fmt"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/models/store"
)

// Suppress returns nil for any count strictly below the disclosure
// threshold, and the count unchanged otherwise. Total over non-negative
// inputs; negative counts are treated as suppressed.
func Suppress(count int64) *int64 {
	if count < domain.DisclosureThreshold {
		return nil
	}
	return &count
}

// MaskAggregate converts a raw per-state aggregate into its suppressed
// form. A cell is suppressed when either its case count or its population
// falls below the threshold; suppressed cells carry no rate.
func MaskAggregate(raw store.StateCount) domain.StateAggregate {
	agg := domain.StateAggregate{
		State:      raw.State,
		Year:       raw.Year,
		Population: raw.Population,
	}

	cases := Suppress(raw.Cases)
	population := Suppress(raw.Population)
	if cases == nil || population == nil {
		agg.Suppressed = true
		return agg
	}

	agg.Cases = cases
	rate := float64(*cases) / float64(*population)
	agg.Rate = &rate
	return agg
}

// MaskDemographicCount suppresses one (state, subCategory) cell the same
// way. The returned rate is nil for suppressed cells.
func MaskDemographicCount(category domain.DemographicCategory, raw store.DemographicCount) domain.DemographicRate {
	dr := domain.DemographicRate{
		State:       raw.State,
		Category:    category,
		SubCategory: raw.SubCategory,
	}

	cases := Suppress(raw.Cases)
	population := Suppress(raw.Population)
	if cases == nil || population == nil {
		return dr
	}

	rate := float64(*cases) / float64(*population)
	dr.Rate = &rate
	return dr
}

// GuardAggregate is the defensive check applied before an aggregate is
// serialized: a non-nil rate backed by a below-threshold count means some
// path skipped suppression, and the response must fail closed.
func GuardAggregate(agg domain.StateAggregate) error {
	if agg.Suppressed {
		if agg.Cases != nil || agg.Rate != nil {
			return &domain.DisclosureGuardError{
				Context: fmt.Sprintf("suppressed cell for state %s still carries a value", agg.State),
			}
		}
		return nil
	}
	if agg.Cases != nil && *agg.Cases < domain.DisclosureThreshold {
		return &domain.DisclosureGuardError{
			Context: fmt.Sprintf("state %s exposes a count below the disclosure threshold", agg.State),
		}
	}
	return nil
}
