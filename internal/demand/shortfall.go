package demand

import "github.com/andresuchdata/vendas-ops/backend-go/internal/catalog"

// ComputeShortfalls resolves on-hand from the catalog for every entry and
// recomputes shortfall = max(0, required - on_hand). It must run after the
// last ingest before reporting; the report emitters invoke it implicitly.
func (l *Ledger) ComputeShortfalls(cat *catalog.Store) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		onHand := 0
		if cat != nil {
			onHand = int(cat.OnHand(entry.SKU))
		}
		if onHand < 0 {
			onHand = 0
		}
		entry.OnHandQty = onHand
		shortfall := entry.RequiredQty - onHand
		if shortfall < 0 {
			shortfall = 0
		}
		entry.ShortfallQty = shortfall
	}
}
