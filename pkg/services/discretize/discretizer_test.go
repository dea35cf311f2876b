package discretize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

func rate(state string, category domain.DemographicCategory, sub string, v float64) domain.DemographicRate {
	return domain.DemographicRate{State: state, Category: category, SubCategory: sub, Rate: &v}
}

func suppressedRate(state string, category domain.DemographicCategory, sub string) domain.DemographicRate {
	return domain.DemographicRate{State: state, Category: category, SubCategory: sub}
}

func TestThreshold(t *testing.T) {
	d := NewDiscretizer(0.75)

	t.Run("75th percentile with interpolation", func(t *testing.T) {
		rates := []domain.DemographicRate{
			rate("A", domain.CategoryIncome, "Low", 0.10),
			rate("B", domain.CategoryIncome, "Low", 0.20),
			rate("C", domain.CategoryIncome, "Low", 0.30),
			rate("D", domain.CategoryIncome, "Low", 0.40),
		}
		// pos = 0.75*3 = 2.25 -> 0.30 + 0.25*(0.40-0.30)
		threshold, ok := d.Threshold(rates)
		require.True(t, ok)
		assert.InDelta(t, 0.325, threshold, 1e-12)
	})

	t.Run("suppressed rates are excluded from the distribution", func(t *testing.T) {
		rates := []domain.DemographicRate{
			rate("A", domain.CategoryIncome, "Low", 0.10),
			suppressedRate("B", domain.CategoryIncome, "Low"),
			rate("C", domain.CategoryIncome, "Low", 0.50),
		}
		threshold, ok := d.Threshold(rates)
		require.True(t, ok)
		assert.InDelta(t, 0.40, threshold, 1e-12)
	})

	t.Run("fewer than two disclosable rates means no threshold", func(t *testing.T) {
		rates := []domain.DemographicRate{
			rate("A", domain.CategoryIncome, "Low", 0.10),
			suppressedRate("B", domain.CategoryIncome, "Low"),
		}
		_, ok := d.Threshold(rates)
		assert.False(t, ok)
	})
}

func TestClassify(t *testing.T) {
	d := NewDiscretizer(0.75)

	t.Run("three states, income subcategories, pooled threshold", func(t *testing.T) {
		// Hand-traceable scenario: Low=[50,48,52], Medium=[20,22,21],
		// High=[5,6,4] (per 100). All nine rates pooled and sorted give a
		// 75th percentile of exactly 48, so every Low cell clears it.
		rates := []domain.DemographicRate{
			rate("s1", domain.CategoryIncome, "Low", 0.50),
			rate("s2", domain.CategoryIncome, "Low", 0.48),
			rate("s3", domain.CategoryIncome, "Low", 0.52),
			rate("s1", domain.CategoryIncome, "Medium", 0.20),
			rate("s2", domain.CategoryIncome, "Medium", 0.22),
			rate("s3", domain.CategoryIncome, "Medium", 0.21),
			rate("s1", domain.CategoryIncome, "High", 0.05),
			rate("s2", domain.CategoryIncome, "High", 0.06),
			rate("s3", domain.CategoryIncome, "High", 0.04),
		}

		threshold, ok := d.Threshold(rates)
		require.True(t, ok)
		assert.InDelta(t, 0.48, threshold, 1e-12)

		items := d.Classify(rates)
		assert.Equal(t, []domain.Item{"income_group=Low"}, items["s1"])
		assert.Equal(t, []domain.Item{"income_group=Low"}, items["s2"])
		assert.Equal(t, []domain.Item{"income_group=Low"}, items["s3"])
	})

	t.Run("suppressed cell yields no item either way", func(t *testing.T) {
		rates := []domain.DemographicRate{
			rate("s1", domain.CategoryRace, "Black", 0.60),
			rate("s2", domain.CategoryRace, "Black", 0.10),
			rate("s3", domain.CategoryRace, "Black", 0.20),
			suppressedRate("s4", domain.CategoryRace, "Black"),
		}

		items := d.Classify(rates)
		_, present := items["s4"]
		assert.False(t, present)
		assert.Contains(t, items["s1"], domain.Item("race_ethnicity=Black"))
	})

	t.Run("undefined threshold produces no items at all", func(t *testing.T) {
		rates := []domain.DemographicRate{
			rate("s1", domain.CategorySex, "Other", 0.9),
			suppressedRate("s2", domain.CategorySex, "Other"),
			suppressedRate("s3", domain.CategorySex, "Other"),
		}
		items := d.Classify(rates)
		assert.Empty(t, items)
	})
}
