package mining

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) GetScopeDataset(ctx context.Context, scope domain.Scope) (*domain.ScopeDataset, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScopeDataset), args.Error(1)
}

func ratePtr(v float64) *float64 { return &v }

func scopeFixture() domain.Scope {
	return domain.Scope{Disease: domain.DiseaseDiabetes, Year: 2023}
}

func datasetFixture() *domain.ScopeDataset {
	states := []domain.StateAggregate{
		{State: "AL", Year: 2023, Rate: ratePtr(0.30), Population: 1000},
		{State: "CA", Year: 2023, Rate: ratePtr(0.10), Population: 5000},
		{State: "MS", Year: 2023, Rate: ratePtr(0.35), Population: 800},
		{State: "NY", Year: 2023, Rate: ratePtr(0.12), Population: 4000},
	}
	// AL and MS sit at the shared top of the pooled distribution, so both
	// their income and age cells clear the 75th-percentile threshold.
	rates := []domain.DemographicRate{
		{State: "AL", Category: domain.CategoryIncome, SubCategory: "Low", Rate: ratePtr(0.50)},
		{State: "CA", Category: domain.CategoryIncome, SubCategory: "Low", Rate: ratePtr(0.12)},
		{State: "MS", Category: domain.CategoryIncome, SubCategory: "Low", Rate: ratePtr(0.50)},
		{State: "NY", Category: domain.CategoryIncome, SubCategory: "Low", Rate: ratePtr(0.15)},
		{State: "AL", Category: domain.CategoryAge, SubCategory: "65+", Rate: ratePtr(0.50)},
		{State: "CA", Category: domain.CategoryAge, SubCategory: "65+", Rate: ratePtr(0.20)},
		{State: "MS", Category: domain.CategoryAge, SubCategory: "65+", Rate: ratePtr(0.50)},
		{State: "NY", Category: domain.CategoryAge, SubCategory: "65+", Rate: ratePtr(0.22)},
	}
	return &domain.ScopeDataset{Scope: scopeFixture(), States: states, Rates: rates}
}

func TestMine_FindsCooccurringHighRates(t *testing.T) {
	explorer := new(mockExplorer)
	explorer.On("GetScopeDataset", mock.Anything, scopeFixture()).Return(datasetFixture(), nil)

	m := NewMiner(explorer, domain.DefaultMiningConfig())
	result, err := m.Mine(context.Background(), scopeFixture(), domain.MiningParams{
		MinSupport:    0.2,
		MinConfidence: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Transactions)
	require.NotEmpty(t, result.Rules)

	// AL and MS are jointly high on both predicates; the rule set must tie
	// the two indicators together in both directions.
	keys := make([]string, 0, len(result.Rules))
	for _, r := range result.Rules {
		keys = append(keys, domain.ItemsetKey(r.Antecedent)+"=>"+domain.ItemsetKey(r.Consequent))
		assert.GreaterOrEqual(t, r.Confidence, 0.5)
	}
	assert.Contains(t, keys, "age_group=65+=>income_group=Low")
	assert.Contains(t, keys, "income_group=Low=>age_group=65+")

	require.NotNil(t, result.Disparity)
	assert.Equal(t, "MS", result.Disparity.MaxState)
	assert.Equal(t, "CA", result.Disparity.MinState)
	assert.Equal(t, domain.SourceMLOnly, result.Source)
}

func TestMine_EmptyRuleListIsValid(t *testing.T) {
	explorer := new(mockExplorer)
	explorer.On("GetScopeDataset", mock.Anything, scopeFixture()).Return(datasetFixture(), nil)

	m := NewMiner(explorer, domain.DefaultMiningConfig())
	// Impossible support threshold: nothing qualifies, but the outcome is a
	// valid empty result, not an error.
	result, err := m.Mine(context.Background(), scopeFixture(), domain.MiningParams{
		MinSupport:    0.99,
		MinConfidence: 0.3,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Rules)
	assert.NotEmpty(t, result.Summary)
}

func TestMine_InsufficientDisclosableRates(t *testing.T) {
	ds := &domain.ScopeDataset{
		Scope: scopeFixture(),
		States: []domain.StateAggregate{
			{State: "WY", Year: 2023, Suppressed: true},
			{State: "VT", Year: 2023, Suppressed: true},
		},
		Rates: []domain.DemographicRate{
			{State: "WY", Category: domain.CategoryIncome, SubCategory: "Low"},
			{State: "VT", Category: domain.CategoryIncome, SubCategory: "Low"},
		},
	}
	explorer := new(mockExplorer)
	explorer.On("GetScopeDataset", mock.Anything, scopeFixture()).Return(ds, nil)

	m := NewMiner(explorer, domain.DefaultMiningConfig())
	result, err := m.Mine(context.Background(), scopeFixture(), domain.MiningParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Rules)
	assert.Contains(t, result.Summary, "Not enough disclosable data")
}

func TestMine_OversizedItemUniverseRejected(t *testing.T) {
	explorer := new(mockExplorer)
	explorer.On("GetScopeDataset", mock.Anything, scopeFixture()).Return(datasetFixture(), nil)

	cfg := domain.DefaultMiningConfig()
	cfg.MaxItems = 1

	m := NewMiner(explorer, cfg)
	_, err := m.Mine(context.Background(), scopeFixture(), domain.MiningParams{MinSupport: 0.2})
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestMine_DefaultsAppliedFromConfig(t *testing.T) {
	explorer := new(mockExplorer)
	explorer.On("GetScopeDataset", mock.Anything, scopeFixture()).Return(datasetFixture(), nil)

	m := NewMiner(explorer, domain.DefaultMiningConfig())
	result, err := m.Mine(context.Background(), scopeFixture(), domain.MiningParams{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Rules), domain.DefaultMiningConfig().TopN)
}
