// Package mining turns a suppressed scope dataset into ranked association
// rules: discretized high-rate items become per-state transactions, a
// level-wise Apriori pass finds frequent itemsets, and qualifying splits
// become rules.
package mining

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/services/dataset"
	"github.com/xam-health/equity-atlas/pkg/services/discretize"
)

type Miner interface {
	Mine(ctx context.Context, scope domain.Scope, params domain.MiningParams) (*domain.MiningResult, error)
}

type miner struct {
	datasets    dataset.Explorer
	discretizer *discretize.Discretizer
	cfg         domain.MiningConfig
}

func NewMiner(datasets dataset.Explorer, cfg domain.MiningConfig) Miner {
	return &miner{
		datasets:    datasets,
		discretizer: discretize.NewDiscretizer(cfg.Quantile),
		cfg:         cfg,
	}
}

func (m *miner) Mine(ctx context.Context, scope domain.Scope, params domain.MiningParams) (*domain.MiningResult, error) {
	logger := zerolog.Ctx(ctx)

	if params.MinSupport <= 0 {
		params.MinSupport = m.cfg.DefaultMinSupport
	}
	if params.MinConfidence <= 0 {
		params.MinConfidence = m.cfg.DefaultMinConfidence
	}
	if params.TopN <= 0 {
		params.TopN = m.cfg.TopN
	}

	ds, err := m.datasets.GetScopeDataset(ctx, scope)
	if err != nil {
		return nil, err
	}

	result := &domain.MiningResult{
		Scope:     scope,
		Rules:     []domain.Rule{},
		Disparity: dataset.Disparity(ds.States),
		Source:    domain.SourceMLOnly,
	}

	disclosable := 0
	for _, r := range ds.Rates {
		if r.Rate != nil {
			disclosable++
		}
	}
	if disclosable < 2 {
		result.Summary = "Not enough disclosable data in this selection to mine patterns. Broaden the filters and try again."
		return result, nil
	}

	itemsByState := m.discretizer.Classify(ds.Rates)

	states := make([]string, 0, len(ds.States))
	for _, s := range ds.States {
		states = append(states, s.State)
	}
	txs := BuildTransactions(states, itemsByState)
	result.Transactions = len(txs)

	universe := itemUniverse(txs)
	if len(universe) > m.cfg.MaxItems {
		return nil, &domain.InputError{
			Field:   "demographics",
			Message: fmt.Sprintf("selection produces %d distinct indicators (limit %d); narrow the filters", len(universe), m.cfg.MaxItems),
		}
	}

	itemsets, err := MineFrequentItemsets(ctx, txs, params.MinSupport)
	if err != nil {
		var insufficient *domain.InsufficientDataError
		if errors.As(err, &insufficient) {
			result.Summary = "No transactions could be formed for this selection. Broaden the filters and try again."
			return result, nil
		}
		return nil, err
	}

	rules := GenerateRules(itemsets, params.MinConfidence)
	if len(rules) > params.TopN {
		rules = rules[:params.TopN]
	}
	result.Rules = rules
	result.Summary = summarize(result)

	logger.Info().
		Str("scope", scope.Key()).
		Int("transactions", result.Transactions).
		Int("itemsets", len(itemsets)).
		Int("rules", len(rules)).
		Msg("mining completed")

	return result, nil
}

func summarize(result *domain.MiningResult) string {
	if len(result.Rules) == 0 {
		return "No association patterns met the support and confidence thresholds for this selection."
	}
	top := result.Rules[0]
	return fmt.Sprintf(
		"Found %d association patterns across %d state transactions; strongest: %s => %s (confidence %.0f%%).",
		len(result.Rules), result.Transactions,
		antecedentLabel(top), consequentLabel(top), top.Confidence*100,
	)
}

func consequentLabel(r domain.Rule) string {
	return domain.ItemsetKey(r.Consequent)
}
