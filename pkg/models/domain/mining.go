package domain

import (
	"sort"
	"strings"
)

// Item is a binary "high rate" indicator for one demographic cell, labelled
// like "income_group=Low". Items only exist inside the transaction that
// produced them.
type Item string

func NewItem(category DemographicCategory, subCategory string) Item {
	return Item(string(category) + "=" + subCategory)
}

// Transaction is the set of high-rate items attributed to one state for a
// fixed (disease, year). Empty transactions are valid and count towards
// support denominators.
type Transaction struct {
	State string
	Items map[Item]bool
}

func (t Transaction) Contains(items []Item) bool {
	for _, it := range items {
		if !t.Items[it] {
			return false
		}
	}
	return true
}

// Itemset is a sorted set of items with its exact support over the
// transaction collection.
type Itemset struct {
	Items        []Item
	SupportCount int
	Support      float64
}

// Key returns the canonical identity of the itemset (items sorted,
// joined). Used for deduplication and support lookups.
func ItemsetKey(items []Item) string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = string(it)
	}
	sort.Strings(labels)
	return strings.Join(labels, "&")
}

// Rule is one mined association: antecedent and consequent are disjoint and
// their union is a frequent itemset.
type Rule struct {
	Antecedent []Item
	Consequent []Item
	Support    float64
	Confidence float64
	Lift       float64
}

// MiningParams are the caller-supplied thresholds for one request.
type MiningParams struct {
	MinSupport    float64
	MinConfidence float64
	TopN          int
}

// MiningSource discriminates how a mining response was produced.
type MiningSource string

const (
	SourceMLOnly   MiningSource = "ml_only"
	SourceGeminiAI MiningSource = "gemini_ai"
)

// MiningResult is the tagged outcome consumed by the API boundary: the
// mined rules, the summary facts they were derived from, and (for the
// insights path) the narrator's text and source tag.
type MiningResult struct {
	Scope        Scope
	Rules        []Rule
	Transactions int
	Disparity    *DisparitySummary
	Summary      string
	Source       MiningSource
	Insights     string
}
