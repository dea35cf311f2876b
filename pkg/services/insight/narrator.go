// Package insight phrases mined results as natural-language summaries. The
// ML-only narrator is the default and always available; the generative
// narrator is an optional decorator that callers fall back from on any
// upstream failure.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

// Narrator turns a mining result into prose. Implementations must never
// contradict the rules they are given and must never introduce numbers
// absent from the result.
type Narrator interface {
	Narrate(ctx context.Context, result *domain.MiningResult) (string, domain.MiningSource, error)
}

type mlOnlyNarrator struct{}

// NewMLOnlyNarrator returns the deterministic, template-based narrator.
func NewMLOnlyNarrator() Narrator {
	return &mlOnlyNarrator{}
}

func (n *mlOnlyNarrator) Narrate(_ context.Context, result *domain.MiningResult) (string, domain.MiningSource, error) {
	var b strings.Builder

	disease := strings.ReplaceAll(string(result.Scope.Disease), "_", " ")
	fmt.Fprintf(&b, "Association analysis for %s in %d.\n", disease, result.Scope.Year)

	if result.Disparity != nil {
		d := result.Disparity
		fmt.Fprintf(&b, "Across disclosable states, %s shows the highest rate (%.2f%%) and %s the lowest (%.2f%%), a disparity index of %.2f.\n",
			d.MaxState, d.MaxRate*100, d.MinState, d.MinRate*100, d.DisparityIndex)
	}

	if len(result.Rules) == 0 {
		b.WriteString("No association patterns met the configured thresholds for this selection.")
		return b.String(), domain.SourceMLOnly, nil
	}

	fmt.Fprintf(&b, "Top patterns across %d state transactions:\n", result.Transactions)
	for i, r := range result.Rules {
		fmt.Fprintf(&b, "%d. States high on %s also tend to be high on %s (support %.2f, confidence %.0f%%).\n",
			i+1, joinItems(r.Antecedent), joinItems(r.Consequent), r.Support, r.Confidence*100)
	}

	return b.String(), domain.SourceMLOnly, nil
}

func joinItems(items []domain.Item) string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = strings.ReplaceAll(string(it), "_", " ")
	}
	return strings.Join(labels, " and ")
}
