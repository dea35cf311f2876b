package mining

import (
	"sort"
	"strings"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

// GenerateRules derives antecedent -> consequent rules from every frequent
// itemset of size >= 2. Both sides are non-empty and disjoint; confidence
// is support(itemset) / support(antecedent). Every proper subset of a
// frequent itemset is itself frequent, so antecedent support lookups always
// resolve.
func GenerateRules(itemsets []domain.Itemset, minConfidence float64) []domain.Rule {
	supportByKey := make(map[string]float64, len(itemsets))
	for _, is := range itemsets {
		supportByKey[domain.ItemsetKey(is.Items)] = is.Support
	}

	seen := make(map[string]bool)
	rules := make([]domain.Rule, 0)

	for _, is := range itemsets {
		n := len(is.Items)
		if n < 2 {
			continue
		}

		// Enumerate non-trivial splits via bitmask over the itemset's
		// fixed (sorted) item order.
		for mask := 1; mask < (1<<n)-1; mask++ {
			antecedent := make([]domain.Item, 0, n-1)
			consequent := make([]domain.Item, 0, n-1)
			for i, it := range is.Items {
				if mask&(1<<i) != 0 {
					antecedent = append(antecedent, it)
				} else {
					consequent = append(consequent, it)
				}
			}

			key := domain.ItemsetKey(antecedent) + "=>" + domain.ItemsetKey(consequent)
			if seen[key] {
				continue
			}
			seen[key] = true

			anteSupport, ok := supportByKey[domain.ItemsetKey(antecedent)]
			if !ok || anteSupport == 0 {
				continue
			}
			confidence := is.Support / anteSupport
			if confidence < minConfidence {
				continue
			}

			rule := domain.Rule{
				Antecedent: antecedent,
				Consequent: consequent,
				Support:    is.Support,
				Confidence: confidence,
			}
			if consSupport, ok := supportByKey[domain.ItemsetKey(consequent)]; ok && consSupport > 0 {
				rule.Lift = confidence / consSupport
			}
			rules = append(rules, rule)
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		if rules[i].Support != rules[j].Support {
			return rules[i].Support > rules[j].Support
		}
		return antecedentLabel(rules[i]) < antecedentLabel(rules[j])
	})

	return rules
}

func antecedentLabel(r domain.Rule) string {
	labels := make([]string, len(r.Antecedent))
	for i, it := range r.Antecedent {
		labels[i] = string(it)
	}
	sort.Strings(labels)
	return strings.Join(labels, "&")
}
