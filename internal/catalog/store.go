// Package catalog holds the in-memory view of the three reference tables
// (products, kits, inventory). Tables are immutable after load and replaced
// wholesale on refresh.
package catalog

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/normalize"
	"github.com/andresuchdata/vendas-ops/backend-go/pkg/logger"
)

// Store is the process-wide catalog singleton. Lookups key on canonical
// SKUs; raw forms are kept on the values for display.
type Store struct {
	mu        sync.RWMutex
	products  map[string]Product
	kits      map[string]Kit
	inventory map[string]InventoryRow
}

// NewStore returns an empty store. An empty store degrades gracefully:
// every SKU is treated as base and on-hand defaults to 0.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]Product),
		kits:      make(map[string]Kit),
		inventory: make(map[string]InventoryRow),
	}
}

// LoadProducts replaces the product table from a catalog frame.
func (s *Store) LoadProducts(f *frame.Frame) {
	products := make(map[string]Product)
	if f != nil {
		skuIdx := normalize.ResolveColumn(f.Headers, normalize.RoleInvSKU)
		nameIdx := normalize.ResolveColumn(f.Headers, normalize.RoleProductName)
		costIdx := normalize.ResolveColumn(f.Headers, normalize.RoleInvCost)

		for i := range f.Rows {
			raw := f.Cell(i, skuIdx)
			sku := normalize.Canonical(raw)
			if sku == "" {
				continue
			}
			products[sku] = Product{
				SKU:      sku,
				RawSKU:   raw,
				Name:     f.Cell(i, nameIdx),
				UnitCost: decimal.NewFromFloat(normalize.ParseDecimal(f.Cell(i, costIdx))),
			}
		}
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	logger.Log.Info().Int("products", len(products)).Msg("catalog: products loaded")
}

// LoadKits replaces the kit table from a kit catalog frame. Components come
// from two parallel ";"-delimited cells; a length mismatch makes the kit
// inert and logs a warning.
func (s *Store) LoadKits(f *frame.Frame) {
	kits := make(map[string]Kit)
	if f != nil {
		skuIdx := normalize.ResolveColumn(f.Headers, normalize.RoleKitSKU)
		compIdx := normalize.ResolveColumn(f.Headers, normalize.RoleKitComponents)
		qtyIdx := normalize.ResolveColumn(f.Headers, normalize.RoleKitQuantities)

		for i := range f.Rows {
			raw := f.Cell(i, skuIdx)
			sku := normalize.Canonical(raw)
			if sku == "" {
				continue
			}

			kit := Kit{SKU: sku, RawSKU: raw}
			components := splitList(f.Cell(i, compIdx))
			quantities := splitList(f.Cell(i, qtyIdx))

			if len(components) != len(quantities) {
				logger.Log.Warn().
					Str("kit", raw).
					Int("components", len(components)).
					Int("quantities", len(quantities)).
					Msg("catalog: malformed kit, component and quantity lists differ; kit is inert")
				kits[sku] = kit
				continue
			}

			for j, comp := range components {
				qty := normalize.ParseQty(quantities[j])
				if qty < 1 {
					qty = 1
				}
				kit.Components = append(kit.Components, Component{
					SKU:    normalize.Canonical(comp),
					RawSKU: comp,
					QtyPer: qty,
				})
			}
			kits[sku] = kit
		}
	}

	s.mu.Lock()
	s.kits = kits
	s.mu.Unlock()
	logger.Log.Info().Int("kits", len(kits)).Msg("catalog: kits loaded")
}

// LoadInventory replaces the inventory table from an inventory snapshot
// frame. Numeric cells are locale-parsed and degrade to 0 on garbage.
func (s *Store) LoadInventory(f *frame.Frame) {
	inventory := make(map[string]InventoryRow)
	if f != nil {
		skuIdx := normalize.ResolveColumn(f.Headers, normalize.RoleInvSKU)
		nameIdx := normalize.ResolveColumn(f.Headers, normalize.RoleProductName)
		onHandIdx := normalize.ResolveColumn(f.Headers, normalize.RoleInvOnHand)
		costIdx := normalize.ResolveColumn(f.Headers, normalize.RoleInvCost)
		minIdx := containsColumn(f.Headers, "min")
		maxIdx := containsColumn(f.Headers, "max")
		catIdx := containsColumn(f.Headers, "categoria")
		kitIdx := containsColumn(f.Headers, "kit")

		for i := range f.Rows {
			raw := f.Cell(i, skuIdx)
			sku := normalize.Canonical(raw)
			if sku == "" {
				continue
			}
			inventory[sku] = InventoryRow{
				SKU:      sku,
				RawSKU:   raw,
				Name:     f.Cell(i, nameIdx),
				Category: f.Cell(i, catIdx),
				OnHand:   normalize.ParseDecimal(f.Cell(i, onHandIdx)),
				Min:      normalize.ParseDecimal(f.Cell(i, minIdx)),
				Max:      normalize.ParseDecimal(f.Cell(i, maxIdx)),
				UnitCost: decimal.NewFromFloat(normalize.ParseDecimal(f.Cell(i, costIdx))),
				IsKit:    normalize.IsTruthy(f.Cell(i, kitIdx)),
			}
		}
	}

	s.mu.Lock()
	s.inventory = inventory
	s.mu.Unlock()
	logger.Log.Info().Int("rows", len(inventory)).Msg("catalog: inventory loaded")
}

// IsKit reports whether the SKU appears in the kit table. The lookup key is
// canonicalized so accent or case drift in the sales feed cannot miss kits.
func (s *Store) IsKit(sku string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.kits[normalize.Canonical(sku)]
	return ok
}

// ExplodeKit returns the kit's components in source order, or nil for an
// unknown or inert kit. Callers must guard with IsKit for non-kit SKUs.
func (s *Store) ExplodeKit(sku string) []Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kit, ok := s.kits[normalize.Canonical(sku)]
	if !ok {
		return nil
	}
	return kit.Components
}

// OnHand returns the current on-hand quantity for a SKU, 0 when unknown.
func (s *Store) OnHand(sku string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventory[normalize.Canonical(sku)].OnHand
}

// UnitCost returns the inventory unit cost for a SKU, zero when unknown.
func (s *Store) UnitCost(sku string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.inventory[normalize.Canonical(sku)]
	if !ok {
		return decimal.Zero
	}
	return row.UnitCost
}

// InventoryRows returns a copy of the loaded inventory table.
func (s *Store) InventoryRows() []InventoryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]InventoryRow, 0, len(s.inventory))
	for _, row := range s.inventory {
		rows = append(rows, row)
	}
	return rows
}

// Stats computes summary statistics over the loaded tables.
func (s *Store) Stats() InventoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := InventoryStats{
		SKUCount:    len(s.inventory),
		LoadedKits:  len(s.kits),
		LoadedItems: len(s.products),
		StockValue:  decimal.Zero,
	}
	categories := make(map[string]struct{})
	for _, row := range s.inventory {
		stats.TotalUnits += row.OnHand
		stats.StockValue = stats.StockValue.Add(row.UnitCost.Mul(decimal.NewFromFloat(row.OnHand)))
		if row.IsKit {
			stats.KitCount++
		}
		if row.OnHand <= 0 {
			stats.ZeroOnHand++
		} else if row.OnHand < row.Min {
			stats.BelowMin++
		}
		if row.Category != "" {
			categories[normalize.Canonical(row.Category)] = struct{}{}
		}
	}
	stats.Categories = len(categories)
	return stats
}

func splitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// containsColumn is the loose fallback for columns without a fixed role:
// first header containing the keyword after trim+lower.
func containsColumn(headers []string, keyword string) int {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(strings.TrimSpace(h)), keyword) {
			return i
		}
	}
	return -1
}
