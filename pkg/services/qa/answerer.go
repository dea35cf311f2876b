// Package qa answers a small closed set of aggregate questions against the
// suppressed dataset. Anything outside the supported shapes degrades to a
// generic explanatory answer; a numeric claim is never fabricated, and
// suppressed cells never influence an answer.
package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
	"github.com/xam-health/equity-atlas/pkg/services/dataset"
	"github.com/xam-health/equity-atlas/pkg/services/privacy"
)

const insufficientDataAnswer = "There is not enough disclosable data to answer this question without violating privacy rules. Try broadening the selection."

const genericAnswer = "I can answer questions like \"which state has the highest rate?\", \"which state has the lowest rate?\", or \"compare X and Y\" for the selected disease and year."

type Answerer interface {
	Answer(ctx context.Context, scope domain.Scope, query string) (string, error)
}

type answerer struct {
	datasets dataset.Explorer
}

func NewAnswerer(datasets dataset.Explorer) Answerer {
	return &answerer{datasets: datasets}
}

func (a *answerer) Answer(ctx context.Context, scope domain.Scope, query string) (string, error) {
	ds, err := a.datasets.GetScopeDataset(ctx, scope)
	if err != nil {
		return "", err
	}

	// Only non-suppressed cells may contribute to an answer; re-check the
	// invariant before using any value.
	disclosable := make([]domain.StateAggregate, 0, len(ds.States))
	for _, s := range ds.States {
		if err := privacy.GuardAggregate(s); err != nil {
			return "", err
		}
		if s.Rate != nil {
			disclosable = append(disclosable, s)
		}
	}

	intent := classify(query)
	if intent == intentUnknown {
		return genericAnswer, nil
	}
	if len(disclosable) == 0 {
		return insufficientDataAnswer, nil
	}

	switch intent {
	case intentHighest:
		best := disclosable[0]
		for _, s := range disclosable[1:] {
			if *s.Rate > *best.Rate {
				best = s
			}
		}
		return fmt.Sprintf("%s has the highest %s rate in %d: %.2f%%.",
			best.State, displayDisease(scope.Disease), scope.Year, *best.Rate*100), nil

	case intentLowest:
		best := disclosable[0]
		for _, s := range disclosable[1:] {
			if *s.Rate < *best.Rate {
				best = s
			}
		}
		return fmt.Sprintf("%s has the lowest %s rate in %d: %.2f%%.",
			best.State, displayDisease(scope.Disease), scope.Year, *best.Rate*100), nil

	case intentCompare:
		first, second, ok := matchStates(query, disclosable)
		if !ok {
			return "I could not match two states with disclosable data in that question. Name two states, e.g. \"compare CA and TX\".", nil
		}
		return compareAnswer(scope, first, second), nil
	}

	return genericAnswer, nil
}

type intent int

const (
	intentUnknown intent = iota
	intentHighest
	intentLowest
	intentCompare
)

func classify(query string) intent {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "compare") || strings.Contains(q, " vs ") || strings.Contains(q, "versus"):
		return intentCompare
	case strings.Contains(q, "highest") || strings.Contains(q, "most") || strings.Contains(q, "worst") || strings.Contains(q, "maximum"):
		return intentHighest
	case strings.Contains(q, "lowest") || strings.Contains(q, "least") || strings.Contains(q, "best") || strings.Contains(q, "minimum"):
		return intentLowest
	default:
		return intentUnknown
	}
}

// matchStates finds the first two state codes from the query among the
// disclosable aggregates, scanning in dataset order for determinism.
func matchStates(query string, disclosable []domain.StateAggregate) (domain.StateAggregate, domain.StateAggregate, bool) {
	upper := strings.ToUpper(query)
	tokens := strings.FieldsFunc(upper, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z')
	})
	mentioned := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		mentioned[tok] = true
	}

	matched := make([]domain.StateAggregate, 0, 2)
	for _, s := range disclosable {
		if mentioned[strings.ToUpper(s.State)] {
			matched = append(matched, s)
			if len(matched) == 2 {
				return matched[0], matched[1], true
			}
		}
	}
	var zero domain.StateAggregate
	return zero, zero, false
}

func compareAnswer(scope domain.Scope, first, second domain.StateAggregate) string {
	disease := displayDisease(scope.Disease)
	if *first.Rate == *second.Rate {
		return fmt.Sprintf("%s and %s have the same %s rate in %d: %.2f%%.",
			first.State, second.State, disease, scope.Year, *first.Rate*100)
	}
	higher, lower := first, second
	if *second.Rate > *first.Rate {
		higher, lower = second, first
	}
	return fmt.Sprintf("%s has a higher %s rate than %s in %d: %.2f%% vs %.2f%%.",
		higher.State, disease, lower.State, scope.Year, *higher.Rate*100, *lower.Rate*100)
}

func displayDisease(d domain.Disease) string {
	return strings.ReplaceAll(string(d), "_", " ")
}
