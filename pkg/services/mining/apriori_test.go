package mining

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

func tx(state string, items ...domain.Item) domain.Transaction {
	m := make(map[domain.Item]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return domain.Transaction{State: state, Items: m}
}

func supports(itemsets []domain.Itemset) map[string]float64 {
	out := make(map[string]float64, len(itemsets))
	for _, is := range itemsets {
		out[domain.ItemsetKey(is.Items)] = is.Support
	}
	return out
}

func TestMineFrequentItemsets_PruningScenario(t *testing.T) {
	// 4 transactions; {A} in 3 (support 0.75), {A,B} in 1 (support 0.25).
	// With min_support=0.5, {A} survives, {A,B} is pruned, and no superset
	// of {A,B} is ever reported.
	txs := []domain.Transaction{
		tx("s1", "A", "B", "C"),
		tx("s2", "A", "C"),
		tx("s3", "A"),
		tx("s4", "C"),
	}

	itemsets, err := MineFrequentItemsets(context.Background(), txs, 0.5)
	require.NoError(t, err)

	got := supports(itemsets)
	assert.InDelta(t, 0.75, got["A"], 1e-12)
	assert.InDelta(t, 0.75, got["C"], 1e-12)
	assert.InDelta(t, 0.5, got["A&C"], 1e-12)
	assert.NotContains(t, got, "B")
	assert.NotContains(t, got, "A&B")
	assert.NotContains(t, got, "A&B&C")
}

func TestMineFrequentItemsets_AntiMonotonicity(t *testing.T) {
	txs := []domain.Transaction{
		tx("s1", "A", "B"),
		tx("s2", "A", "B"),
		tx("s3", "A"),
		tx("s4", "B"),
		tx("s5"),
	}

	itemsets, err := MineFrequentItemsets(context.Background(), txs, 0.1)
	require.NoError(t, err)

	got := supports(itemsets)
	for key, support := range got {
		assert.GreaterOrEqual(t, support, 0.1, "itemset %s below min_support", key)
	}
	// Empty transaction contributes to denominators: {A} appears 3/5.
	assert.InDelta(t, 0.6, got["A"], 1e-12)
	assert.InDelta(t, 0.4, got["A&B"], 1e-12)
}

func TestMineFrequentItemsets_ZeroTransactions(t *testing.T) {
	_, err := MineFrequentItemsets(context.Background(), nil, 0.5)
	var insufficient *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
}

func TestMineFrequentItemsets_Deterministic(t *testing.T) {
	txs := []domain.Transaction{
		tx("s1", "A", "B", "C", "D"),
		tx("s2", "A", "B", "C"),
		tx("s3", "A", "B", "D"),
		tx("s4", "B", "C", "D"),
		tx("s5", "A", "C", "D"),
	}

	first, err := MineFrequentItemsets(context.Background(), txs, 0.4)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := MineFrequentItemsets(context.Background(), txs, 0.4)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildTransactions_EmptyStatesIncluded(t *testing.T) {
	items := map[string][]domain.Item{
		"CA": {"income_group=Low"},
	}
	txs := BuildTransactions([]string{"TX", "CA", "WY"}, items)

	require.Len(t, txs, 3)
	// Sorted by state; states without items still form (empty) transactions.
	assert.Equal(t, "CA", txs[0].State)
	assert.True(t, txs[0].Items["income_group=Low"])
	assert.Empty(t, txs[1].Items)
	assert.Empty(t, txs[2].Items)
}
