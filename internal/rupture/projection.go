package rupture

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/normalize"
)

// ErrNoDateColumn signals a trend comparison over a sales frame without a
// resolvable date column.
var ErrNoDateColumn = errors.New("trend comparison requires a sales date column")

// Projection is one SKU expected to rupture inside the horizon.
type Projection struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	OnHand       float64         `json:"on_hand"`
	Velocity     float64         `json:"daily_velocity"`
	DaysOfCover  float64         `json:"days_of_cover"`
	Tier         Tier            `json:"tier"`
	StockoutDate time.Time       `json:"expected_stockout_date"`
	ReorderQty   int             `json:"reorder_qty_30d"`
	ReorderValue decimal.Decimal `json:"reorder_value"`
}

// ProjectRupture filters coverage to SKUs whose days-of-cover fall inside
// the horizon (the no-sales sentinel is excluded) and computes the expected
// stock-out date plus a 30-day reorder suggestion.
func (a *Analyzer) ProjectRupture(coverage []Coverage, horizonDays int) []Projection {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	now := a.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var out []Projection
	for _, cov := range coverage {
		if cov.DaysOfCover >= float64(horizonDays) || cov.DaysOfCover >= NoSalesCover {
			continue
		}
		qty := int(math.Round(cov.Velocity * 30))
		out = append(out, Projection{
			SKU:          cov.SKU,
			Name:         cov.Name,
			OnHand:       cov.OnHand,
			Velocity:     cov.Velocity,
			DaysOfCover:  cov.DaysOfCover,
			Tier:         cov.Tier,
			StockoutDate: today.AddDate(0, 0, int(math.Floor(cov.DaysOfCover))),
			ReorderQty:   qty,
			ReorderValue: cov.UnitCost.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return out
}

// TrendTier classifies the sales delta between two windows.
type TrendTier string

const (
	TrendStrongUp   TrendTier = "STRONG_UP"
	TrendUp         TrendTier = "UP"
	TrendFlat       TrendTier = "FLAT"
	TrendDown       TrendTier = "DOWN"
	TrendStrongDown TrendTier = "STRONG_DOWN"
)

// Trend is one SKU's recent-vs-prior window comparison.
type Trend struct {
	SKU       string    `json:"sku"`
	RecentQty int       `json:"recent_qty"`
	PriorQty  int       `json:"prior_qty"`
	DeltaPct  float64   `json:"delta_pct"`
	Tier      TrendTier `json:"tier"`
}

// ComparePeriods sums sales per SKU over a recent window (T-recent, T] and
// the prior window (T-recent-prior, T-recent], where T is the latest date
// in the frame, then classifies the percentage delta.
func (a *Analyzer) ComparePeriods(sales *frame.Frame, recentDays, priorDays int) ([]Trend, error) {
	if recentDays <= 0 {
		recentDays = 7
	}
	if priorDays <= 0 {
		priorDays = 7
	}

	rows, err := demand.NormalizeSales(sales)
	if err != nil {
		return nil, err
	}

	var t time.Time
	dated := false
	for _, row := range rows {
		if row.HasDate && (!dated || row.Date.After(t)) {
			t = row.Date
			dated = true
		}
	}
	if !dated {
		return nil, ErrNoDateColumn
	}

	recentStart := t.AddDate(0, 0, -recentDays)
	priorStart := t.AddDate(0, 0, -recentDays-priorDays)

	recent := make(map[string]int)
	prior := make(map[string]int)
	var order []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		if !row.HasDate {
			continue
		}
		sku := normalize.Canonical(row.RawSKU)
		if _, ok := seen[sku]; !ok {
			seen[sku] = struct{}{}
			order = append(order, sku)
		}
		switch {
		case row.Date.After(recentStart) && !row.Date.After(t):
			recent[sku] += row.Qty
		case row.Date.After(priorStart) && !row.Date.After(recentStart):
			prior[sku] += row.Qty
		}
	}

	out := make([]Trend, 0, len(order))
	for _, sku := range order {
		r, p := recent[sku], prior[sku]
		denom := p
		if denom < 1 {
			denom = 1
		}
		delta := float64(r-p) / float64(denom) * 100
		out = append(out, Trend{
			SKU:       sku,
			RecentQty: r,
			PriorQty:  p,
			DeltaPct:  delta,
			Tier:      classifyTrend(delta),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DeltaPct > out[j].DeltaPct })
	return out, nil
}

func classifyTrend(deltaPct float64) TrendTier {
	switch {
	case deltaPct > 50:
		return TrendStrongUp
	case deltaPct > 20:
		return TrendUp
	case deltaPct >= -20:
		return TrendFlat
	case deltaPct >= -50:
		return TrendDown
	default:
		return TrendStrongDown
	}
}

// Summary is the executive rollup of a coverage analysis.
type Summary struct {
	CriticalCount     int             `json:"critical_count"`
	WarningCount      int             `json:"warning_count"`
	OKCount           int             `json:"ok_count"`
	NoSalesCount      int             `json:"no_sales_count"`
	MeanDaysOfCover   float64         `json:"mean_days_of_cover"`
	ProjectedRuptures int             `json:"projected_ruptures_30d"`
	TotalReorderValue decimal.Decimal `json:"total_reorder_value"`
}

// Summarize counts tiers, averages days-of-cover over SKUs that actually
// sell, and totals the 30-day reorder value.
func (a *Analyzer) Summarize(coverage []Coverage) Summary {
	summary := Summary{TotalReorderValue: decimal.Zero}

	selling := 0
	var coverSum float64
	for _, cov := range coverage {
		switch cov.Tier {
		case TierCritical:
			summary.CriticalCount++
		case TierWarning:
			summary.WarningCount++
		case TierOK:
			summary.OKCount++
		case TierNoSales:
			summary.NoSalesCount++
		}
		if cov.Tier != TierNoSales {
			selling++
			coverSum += cov.DaysOfCover
		}
	}
	if selling > 0 {
		summary.MeanDaysOfCover = coverSum / float64(selling)
	}

	projections := a.ProjectRupture(coverage, 30)
	summary.ProjectedRuptures = len(projections)
	for _, p := range projections {
		summary.TotalReorderValue = summary.TotalReorderValue.Add(p.ReorderValue)
	}
	return summary
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
