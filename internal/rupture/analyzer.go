// Package rupture projects stock-out risk by joining historical sales
// velocity with the current inventory snapshot.
package rupture

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/catalog"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/normalize"
)

// NoSalesCover is the days-of-cover sentinel for SKUs without any
// historical sales.
const NoSalesCover = 999

// assumedPeriodDays is the denominator when the sales feed has no date
// column.
const assumedPeriodDays = 30

// Tier classifies how urgent a SKU's coverage is.
type Tier string

const (
	TierCritical Tier = "CRITICAL"
	TierWarning  Tier = "WARNING"
	TierOK       Tier = "OK"
	TierNoSales  Tier = "NO_SALES"
)

var tierRank = map[Tier]int{
	TierCritical: 0,
	TierWarning:  1,
	TierOK:       2,
	TierNoSales:  3,
}

// Coverage is the per-SKU join of velocity and on-hand.
type Coverage struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	OnHand      float64         `json:"on_hand"`
	Velocity    float64         `json:"daily_velocity"`
	DaysOfCover float64         `json:"days_of_cover"`
	Tier        Tier            `json:"tier"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// Analyzer is pure with respect to its inputs; Now is injectable so
// projections are reproducible in tests.
type Analyzer struct {
	Now func() time.Time
}

// NewAnalyzer returns an analyzer using wall-clock time.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Now: time.Now}
}

// DailyVelocity groups the historical sales frame by canonical SKU and
// divides each total by max(1, daysSpan). Without a date column the span
// falls back to a 30-day assumed period. Missing or unresolvable input
// yields an empty map.
func (a *Analyzer) DailyVelocity(sales *frame.Frame) map[string]float64 {
	rows, err := demand.NormalizeSales(sales)
	if err != nil || len(rows) == 0 {
		return map[string]float64{}
	}

	totals := make(map[string]float64)
	var minDate, maxDate time.Time
	dated := false
	for _, row := range rows {
		totals[normalize.Canonical(row.RawSKU)] += float64(row.Qty)
		if !row.HasDate {
			continue
		}
		if !dated {
			minDate, maxDate = row.Date, row.Date
			dated = true
			continue
		}
		if row.Date.Before(minDate) {
			minDate = row.Date
		}
		if row.Date.After(maxDate) {
			maxDate = row.Date
		}
	}

	span := assumedPeriodDays
	if dated {
		span = int(maxDate.Sub(minDate).Hours()/24) + 1
	}
	if span < 1 {
		span = 1
	}

	velocity := make(map[string]float64, len(totals))
	for sku, total := range totals {
		velocity[sku] = total / float64(span)
	}
	return velocity
}

// Coverage joins velocity with the inventory rows and classifies each SKU.
// Results are sorted CRITICAL, WARNING, OK, NO_SALES; within a tier by
// days-of-cover ascending with SKU as tie-break.
func (a *Analyzer) Coverage(sales *frame.Frame, inventory []catalog.InventoryRow) []Coverage {
	velocity := a.DailyVelocity(sales)

	out := make([]Coverage, 0, len(inventory))
	for _, row := range inventory {
		cov := Coverage{
			SKU:      row.SKU,
			Name:     row.Name,
			OnHand:   row.OnHand,
			UnitCost: row.UnitCost,
		}
		if v := velocity[row.SKU]; v > 0 {
			cov.Velocity = v
			cov.DaysOfCover = row.OnHand / v
		} else {
			cov.DaysOfCover = NoSalesCover
		}
		cov.Tier = ClassifyCover(cov.DaysOfCover)
		out = append(out, cov)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if tierRank[out[i].Tier] != tierRank[out[j].Tier] {
			return tierRank[out[i].Tier] < tierRank[out[j].Tier]
		}
		if out[i].DaysOfCover != out[j].DaysOfCover {
			return out[i].DaysOfCover < out[j].DaysOfCover
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}

// ClassifyCover maps days-of-cover to an alert tier. The 999 sentinel means
// the SKU had no historical sales at all.
func ClassifyCover(daysOfCover float64) Tier {
	switch {
	case daysOfCover == NoSalesCover:
		return TierNoSales
	case daysOfCover < 3:
		return TierCritical
	case daysOfCover < 7:
		return TierWarning
	default:
		return TierOK
	}
}
