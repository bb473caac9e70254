package demand

import (
	"errors"
	"sort"
	"time"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/catalog"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/normalize"
	"github.com/andresuchdata/vendas-ops/backend-go/pkg/logger"
)

// ErrSchemaMissing signals a sales frame whose product or quantity column
// could not be resolved. The ledger is left unchanged.
var ErrSchemaMissing = errors.New("sales frame is missing a resolvable product or quantity column")

// SalesRow is one cleaned sales record. RawSKU is the value as seen in the
// feed; lookups canonicalize it.
type SalesRow struct {
	RawSKU  string
	Qty     int
	Date    time.Time
	HasDate bool
}

var salesDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	time.RFC3339,
}

func parseSalesDate(s string) (time.Time, bool) {
	for _, layout := range salesDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeSales resolves the sales frame columns and cleans the rows:
// non-positive or unparseable quantities are dropped, exact duplicate rows
// are dropped, and rows are date-sorted when a date column resolves.
func NormalizeSales(f *frame.Frame) ([]SalesRow, error) {
	if f == nil {
		return nil, ErrSchemaMissing
	}

	skuIdx := normalize.ResolveColumn(f.Headers, normalize.RoleSalesSKU)
	qtyIdx := normalize.ResolveColumn(f.Headers, normalize.RoleSalesQty)
	if skuIdx < 0 || qtyIdx < 0 {
		return nil, ErrSchemaMissing
	}
	dateIdx := normalize.ResolveColumn(f.Headers, normalize.RoleSalesDate)

	type rowKey struct {
		sku  string
		qty  int
		date string
	}
	seen := make(map[rowKey]struct{})

	var rows []SalesRow
	for i := range f.Rows {
		raw := f.Cell(i, skuIdx)
		if raw == "" {
			continue
		}
		qty := normalize.ParseQty(f.Cell(i, qtyIdx))
		if qty <= 0 {
			continue
		}

		row := SalesRow{RawSKU: raw, Qty: qty}
		dateCell := ""
		if dateIdx >= 0 {
			dateCell = f.Cell(i, dateIdx)
			if t, ok := parseSalesDate(dateCell); ok {
				row.Date = t
				row.HasDate = true
			}
		}

		key := rowKey{sku: raw, qty: qty, date: dateCell}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}

	if dateIdx >= 0 {
		sort.SliceStable(rows, func(a, b int) bool {
			if rows[a].HasDate != rows[b].HasDate {
				return !rows[a].HasDate
			}
			return rows[a].Date.Before(rows[b].Date)
		})
	}

	return rows, nil
}

// Ingest folds a sales frame into the ledger under the given channel. Kit
// rows are exploded into base components via the catalog; everything else
// accumulates as a base SKU. Ingest deliberately accumulates on every call:
// re-uploading the same feed doubles demand, which is what supports multiple
// partial feeds per channel per day. Single-shot callers must Reset first.
func (l *Ledger) Ingest(f *frame.Frame, channel string, cat *catalog.Store) ([]ProductNeed, error) {
	rows, err := NormalizeSales(f)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, row := range rows {
		if cat != nil && cat.IsKit(row.RawSKU) {
			for _, comp := range cat.ExplodeKit(row.RawSKU) {
				l.add(comp.SKU, row.Qty*comp.QtyPer, channel)
			}
			continue
		}
		l.add(normalize.Canonical(row.RawSKU), row.Qty, channel)
	}

	logger.Log.Info().
		Str("channel", channel).
		Str("day", l.dayKey).
		Int("rows", len(rows)).
		Int("skus", len(l.entries)).
		Msg("demand: feed ingested")

	return l.snapshotLocked(), nil
}
