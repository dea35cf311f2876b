package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DisclosureThreshold is the minimum publishable cell size ("Rule of 11").
// Counts below it are never exposed outside the privacy layer.
const DisclosureThreshold = 11

type Disease string

const (
	DiseaseHeartDisease Disease = "heart_disease"
	DiseaseDiabetes     Disease = "diabetes"
	DiseaseCancer       Disease = "cancer"
)

func Diseases() []Disease {
	return []Disease{DiseaseHeartDisease, DiseaseDiabetes, DiseaseCancer}
}

// ParseDisease maps both canonical column names and display labels
// ("Heart Disease") onto a known disease.
func ParseDisease(s string) (Disease, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "_")
	for _, d := range Diseases() {
		if normalized == string(d) {
			return d, nil
		}
	}
	return "", &InputError{Field: "disease", Message: fmt.Sprintf("unknown disease %q", s)}
}

// DemographicCategory is a canonical demographic axis of the dataset.
type DemographicCategory string

const (
	CategoryAge    DemographicCategory = "age_group"
	CategorySex    DemographicCategory = "sex"
	CategoryRace   DemographicCategory = "race_ethnicity"
	CategoryIncome DemographicCategory = "income_group"
)

func DemographicCategories() []DemographicCategory {
	return []DemographicCategory{CategoryAge, CategorySex, CategoryRace, CategoryIncome}
}

// displayToCategory maps frontend display labels onto canonical columns.
var displayToCategory = map[string]DemographicCategory{
	"age":            CategoryAge,
	"agegroup":       CategoryAge,
	"age group":      CategoryAge,
	"age_group":      CategoryAge,
	"sex":            CategorySex,
	"race":           CategoryRace,
	"race ethnicity": CategoryRace,
	"race_ethnicity": CategoryRace,
	"income":         CategoryIncome,
	"income level":   CategoryIncome,
	"income_group":   CategoryIncome,
}

// ParseDemographicCategory accepts display labels like "Income Level" as
// well as canonical column names.
func ParseDemographicCategory(s string) (DemographicCategory, error) {
	key := strings.TrimSpace(strings.ToLower(s))
	if c, ok := displayToCategory[key]; ok {
		return c, nil
	}
	allowed := make([]string, 0, len(displayToCategory))
	for k := range displayToCategory {
		allowed = append(allowed, k)
	}
	sort.Strings(allowed)
	return "", &InputError{
		Field:   "demographics",
		Message: fmt.Sprintf("unknown demographic filter key %q (allowed: %s)", s, strings.Join(allowed, ", ")),
	}
}

// Scope identifies one mining/query selection. Demographics narrows the
// underlying population (e.g. income_group=Low) before aggregation.
type Scope struct {
	Disease      Disease
	Year         int
	Demographics map[DemographicCategory]string
}

// Key returns a stable cache key for the scope. Demographic filters are
// sorted so equal scopes always produce equal keys.
func (s Scope) Key() string {
	parts := make([]string, 0, len(s.Demographics))
	for c, v := range s.Demographics {
		parts = append(parts, fmt.Sprintf("%s=%s", c, v))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s|%d|%s", s.Disease, s.Year, strings.Join(parts, ","))
}

// StateAggregate is one suppressed per-state cell: Cases and Rate are nil
// when the underlying counts fall below DisclosureThreshold.
type StateAggregate struct {
	State      string
	Year       int
	Cases      *int64
	Population int64
	Rate       *float64
	Suppressed bool
}

// DemographicRate is a suppressed incidence rate for one
// (state, category, subCategory) cell within a scope.
type DemographicRate struct {
	State       string
	Category    DemographicCategory
	SubCategory string
	Rate        *float64
}

// ScopeDataset is the immutable per-scope view served from the cache. It is
// never mutated after construction, so concurrent readers need no locking.
type ScopeDataset struct {
	Scope  Scope
	States []StateAggregate
	Rates  []DemographicRate
}

// DisparitySummary captures the extremal non-suppressed state rates and the
// relative gap between them.
type DisparitySummary struct {
	MinState       string
	MinRate        float64
	MaxState       string
	MaxRate        float64
	DisparityIndex float64
}
