package mining

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

// countingParallelism bounds the goroutines used for per-level support
// counting. Results are written by candidate index, so the merge order is
// identical regardless of scheduling.
const countingParallelism = 4

// MineFrequentItemsets runs level-wise Apriori over the transactions.
// Candidates at level k+1 are generated only from frequent level-k itemsets
// (anti-monotonicity: no superset of an infrequent itemset is ever
// evaluated). Output ordering is deterministic: levels ascending, itemsets
// in generation order, which is lexicographic within each level.
func MineFrequentItemsets(ctx context.Context, txs []domain.Transaction, minSupport float64) ([]domain.Itemset, error) {
	total := len(txs)
	if total == 0 {
		return nil, &domain.InsufficientDataError{Reason: "zero transactions in scope"}
	}

	universe := itemUniverse(txs)

	frequent := make([]domain.Itemset, 0)
	current := make([][]domain.Item, 0, len(universe))
	for _, it := range universe {
		current = append(current, []domain.Item{it})
	}

	for level := 1; len(current) > 0 && level <= len(universe); level++ {
		counts, err := countSupport(ctx, txs, current)
		if err != nil {
			return nil, err
		}

		surviving := make([][]domain.Item, 0, len(current))
		for i, candidate := range current {
			support := float64(counts[i]) / float64(total)
			if support < minSupport {
				continue
			}
			frequent = append(frequent, domain.Itemset{
				Items:        candidate,
				SupportCount: counts[i],
				Support:      support,
			})
			surviving = append(surviving, candidate)
		}

		current = nextCandidates(surviving)
	}

	return frequent, nil
}

// countSupport scans transactions for every candidate, fanned out across a
// bounded worker group. counts[i] always belongs to candidates[i].
func countSupport(ctx context.Context, txs []domain.Transaction, candidates [][]domain.Item) ([]int, error) {
	counts := make([]int, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(countingParallelism)

	for i, candidate := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := 0
			for _, tx := range txs {
				if tx.Contains(candidate) {
					n++
				}
			}
			counts[i] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// nextCandidates joins frequent k-itemsets sharing a (k-1)-prefix and
// prunes any candidate with an infrequent k-subset. Inputs arrive sorted
// lexicographically, so the generated candidates are too.
func nextCandidates(frequent [][]domain.Item) [][]domain.Item {
	if len(frequent) < 2 {
		return nil
	}

	frequentKeys := make(map[string]bool, len(frequent))
	for _, items := range frequent {
		frequentKeys[domain.ItemsetKey(items)] = true
	}

	k := len(frequent[0])
	candidates := make([][]domain.Item, 0)
	for i := 0; i < len(frequent); i++ {
		for j := i + 1; j < len(frequent); j++ {
			a, b := frequent[i], frequent[j]
			if !samePrefix(a, b, k-1) {
				continue
			}
			// Sorted input with a shared prefix guarantees a[k-1] < b[k-1].
			candidate := make([]domain.Item, 0, k+1)
			candidate = append(candidate, a...)
			candidate = append(candidate, b[k-1])
			if allSubsetsFrequent(candidate, frequentKeys) {
				candidates = append(candidates, candidate)
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return domain.ItemsetKey(candidates[i]) < domain.ItemsetKey(candidates[j])
	})
	return candidates
}

func samePrefix(a, b []domain.Item, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(candidate []domain.Item, frequentKeys map[string]bool) bool {
	subset := make([]domain.Item, 0, len(candidate)-1)
	for skip := range candidate {
		subset = subset[:0]
		for i, it := range candidate {
			if i != skip {
				subset = append(subset, it)
			}
		}
		if !frequentKeys[domain.ItemsetKey(subset)] {
			return false
		}
	}
	return true
}
