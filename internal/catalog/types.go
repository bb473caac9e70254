package catalog

import "github.com/shopspring/decimal"

// Product is a base SKU from the product catalog feed.
type Product struct {
	SKU      string // canonical form
	RawSKU   string
	Name     string
	Category string
	UnitCost decimal.Decimal
}

// Component is one line of a kit's bill of components.
type Component struct {
	SKU    string // canonical form
	RawSKU string
	QtyPer int
}

// Kit is a composite SKU that decomposes into a fixed ordered list of
// components. A kit with mismatched component/quantity lists is kept but
// inert: Components is nil and explosion yields nothing.
type Kit struct {
	SKU        string // canonical form
	RawSKU     string
	Components []Component
}

// InventoryRow is one SKU's snapshot from the inventory feed. OnHand is kept
// as a float because the feed carries locale decimals; it is truncated at
// the ledger boundary.
type InventoryRow struct {
	SKU      string // canonical form
	RawSKU   string
	Name     string
	Category string
	OnHand   float64
	Min      float64
	Max      float64
	UnitCost decimal.Decimal
	IsKit    bool
}

// InventoryStats summarizes the loaded inventory snapshot.
type InventoryStats struct {
	SKUCount    int             `json:"sku_count"`
	KitCount    int             `json:"kit_count"`
	TotalUnits  float64         `json:"total_units"`
	StockValue  decimal.Decimal `json:"stock_value"`
	BelowMin    int             `json:"below_min"`
	ZeroOnHand  int             `json:"zero_on_hand"`
	Categories  int             `json:"categories"`
	LoadedKits  int             `json:"loaded_kits"`
	LoadedItems int             `json:"loaded_products"`
}
