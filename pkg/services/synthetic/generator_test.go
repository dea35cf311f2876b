package synthetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/models/store"
	"github.com/xam-health/equity-atlas/pkg/store/duckdb/observation"
)

type capturingStore struct {
	mock.Mock
	records []store.HealthRecord
}

var _ observation.Store = (*capturingStore)(nil)

func (c *capturingStore) Add(ctx context.Context, records []store.HealthRecord) error {
	c.records = append(c.records, records...)
	return nil
}

func (c *capturingStore) GetStateCounts(ctx context.Context, scope domain.Scope) ([]store.StateCount, error) {
	return nil, nil
}

func (c *capturingStore) GetDemographicCounts(
	ctx context.Context,
	scope domain.Scope,
	category domain.DemographicCategory,
) ([]store.DemographicCount, error) {
	return nil, nil
}

func (c *capturingStore) GetStats(ctx context.Context) (*store.DatasetStats, error) {
	return nil, nil
}

func TestGenerate_WritesRequestedCount(t *testing.T) {
	s := &capturingStore{}
	g := NewGenerator(s, Options{Records: 1200, Seed: 42, BatchSize: 500})

	written, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, written)
	assert.Len(t, s.records, 1200)
}

func TestGenerate_Deterministic(t *testing.T) {
	first := &capturingStore{}
	second := &capturingStore{}

	_, err := NewGenerator(first, Options{Records: 500, Seed: 42}).Generate(context.Background())
	require.NoError(t, err)
	_, err = NewGenerator(second, Options{Records: 500, Seed: 42}).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.records, second.records)
}

func TestGenerate_RecordsAreWellFormed(t *testing.T) {
	s := &capturingStore{}
	_, err := NewGenerator(s, Options{Records: 300, Seed: 7}).Generate(context.Background())
	require.NoError(t, err)

	for _, r := range s.records {
		assert.NotEmpty(t, r.ID)
		assert.Contains(t, states, r.State)
		assert.Contains(t, ageGroups, r.AgeGroup)
		assert.Contains(t, incomes, r.IncomeGroup)
		assert.GreaterOrEqual(t, r.Year, 2015)
		assert.LessOrEqual(t, r.Year, 2023)
		for _, flag := range []int{r.HeartDisease, r.Diabetes, r.Cancer} {
			assert.Contains(t, []int{0, 1}, flag)
		}
	}
}
