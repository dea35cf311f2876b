package mining

import (
	"sort"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

// BuildTransactions assembles one transaction per state from the
// discretized items. Every state in the scope gets a transaction, including
// states with no items: empty transactions still count towards support
// denominators.
func BuildTransactions(states []string, itemsByState map[string][]domain.Item) []domain.Transaction {
	ordered := append([]string(nil), states...)
	sort.Strings(ordered)

	txs := make([]domain.Transaction, 0, len(ordered))
	for _, state := range ordered {
		items := make(map[domain.Item]bool, len(itemsByState[state]))
		for _, it := range itemsByState[state] {
			items[it] = true
		}
		txs = append(txs, domain.Transaction{State: state, Items: items})
	}
	return txs
}

// itemUniverse returns the distinct items across all transactions in
// lexicographic order. The fixed ordering anchors candidate generation and
// makes the whole pipeline deterministic.
func itemUniverse(txs []domain.Transaction) []domain.Item {
	seen := make(map[domain.Item]bool)
	for _, tx := range txs {
		for it := range tx.Items {
			seen[it] = true
		}
	}
	universe := make([]domain.Item, 0, len(seen))
	for it := range seen {
		universe = append(universe, it)
	}
	sort.Slice(universe, func(i, j int) bool { return universe[i] < universe[j] })
	return universe
}
