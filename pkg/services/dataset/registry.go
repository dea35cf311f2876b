// Package dataset serves immutable, suppression-applied per-scope views of
// the health observation store, cached by scope key.
package dataset

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/services/privacy"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb/observation"
)

// Explorer resolves a scope into its suppressed dataset view.
type Explorer interface {
	GetScopeDataset(ctx context.Context, scope domain.Scope) (*domain.ScopeDataset, error)
}

type registry struct {
	store observation.Store

	mu    sync.RWMutex
	cache map[string]*domain.ScopeDataset
}

func NewRegistry(store observation.Store) Explorer {
	return &registry{
		store: store,
		cache: make(map[string]*domain.ScopeDataset),
	}
}

// GetScopeDataset returns the cached view for the scope, loading it on
// first access. Cached values are immutable after construction, so they are
// safe to hand to concurrent readers without copying.
func (r *registry) GetScopeDataset(ctx context.Context, scope domain.Scope) (*domain.ScopeDataset, error) {
	key := scope.Key()

	r.mu.RLock()
	if ds, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return ds, nil
	}
	r.mu.RUnlock()

	ds, err := r.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A concurrent loader may have won the race; keep the first entry so
	// repeated requests observe one snapshot.
	if existing, ok := r.cache[key]; ok {
		return existing, nil
	}
	r.cache[key] = ds

	zerolog.Ctx(ctx).Debug().
		Str("scope", key).
		Int("states", len(ds.States)).
		Int("rates", len(ds.Rates)).
		Msg("scope dataset cached")

	return ds, nil
}

func (r *registry) load(ctx context.Context, scope domain.Scope) (*domain.ScopeDataset, error) {
	stateCounts, err := r.store.GetStateCounts(ctx, scope)
	if err != nil {
		return nil, err
	}

	states := make([]domain.StateAggregate, 0, len(stateCounts))
	for _, c := range stateCounts {
		agg := privacy.MaskAggregate(c)
		if err := privacy.GuardAggregate(agg); err != nil {
			return nil, err
		}
		states = append(states, agg)
	}

	rates := make([]domain.DemographicRate, 0)
	for _, category := range domain.DemographicCategories() {
		// A filtered category has a single fixed value; its rates carry no
		// contrast worth discretizing.
		if _, filtered := scope.Demographics[category]; filtered {
			continue
		}
		counts, err := r.store.GetDemographicCounts(ctx, scope, category)
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			rates = append(rates, privacy.MaskDemographicCount(category, c))
		}
	}

	return &domain.ScopeDataset{Scope: scope, States: states, Rates: rates}, nil
}

// Disparity computes the extremal non-suppressed state rates and their
// relative gap. Returns nil when fewer than one disclosable rate exists.
func Disparity(states []domain.StateAggregate) *domain.DisparitySummary {
	var summary *domain.DisparitySummary
	for _, s := range states {
		if s.Rate == nil {
			continue
		}
		if summary == nil {
			summary = &domain.DisparitySummary{
				MinState: s.State, MinRate: *s.Rate,
				MaxState: s.State, MaxRate: *s.Rate,
			}
			continue
		}
		if *s.Rate < summary.MinRate {
			summary.MinState, summary.MinRate = s.State, *s.Rate
		}
		if *s.Rate > summary.MaxRate {
			summary.MaxState, summary.MaxRate = s.State, *s.Rate
		}
	}
	if summary != nil && summary.MaxRate > 0 {
		summary.DisparityIndex = (summary.MaxRate - summary.MinRate) / summary.MaxRate
	}
	return summary
}
