package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/normalize"
)

// HistoryRepository persists the sales history used by the rupture analyzer
// and archives emitted production orders. It never writes to the inventory
// source of record.
type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertDailySales appends cleaned sales rows under (day, channel).
func (r *HistoryRepository) InsertDailySales(ctx context.Context, dayKey, channel string, rows []demand.SalesRow) error {
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO daily_sales (sale_date, channel, sku, qty) VALUES ($1, $2, $3, $4)")
		if err != nil {
			return fmt.Errorf("prepare daily_sales insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			saleDate := dayKey
			if row.HasDate {
				saleDate = row.Date.Format(demand.DayKeyLayout)
			}
			sku := normalize.Canonical(row.RawSKU)
			if _, err := stmt.ExecContext(ctx, saleDate, channel, sku, row.Qty); err != nil {
				return fmt.Errorf("insert daily sale %s: %w", sku, err)
			}
		}
		return nil
	})
}

// ArchiveProductionOrder stores the consolidated shortfall snapshot for a
// day. Re-archiving a day replaces the previous snapshot.
func (r *HistoryRepository) ArchiveProductionOrder(ctx context.Context, dayKey string, needs []demand.ProductNeed) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM production_orders WHERE order_date = $1", dayKey); err != nil {
			return fmt.Errorf("clear production_orders for %s: %w", dayKey, err)
		}

		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO production_orders (order_date, sku, required_qty, on_hand_qty, shortfall_qty, channels) "+
				"VALUES ($1, $2, $3, $4, $5, $6)")
		if err != nil {
			return fmt.Errorf("prepare production_orders insert: %w", err)
		}
		defer stmt.Close()

		for _, n := range needs {
			_, err := stmt.ExecContext(ctx, dayKey, n.SKU,
				n.RequiredQty, n.OnHandQty, n.ShortfallQty, strings.Join(n.SourceChannels, ","))
			if err != nil {
				return fmt.Errorf("insert production order %s: %w", n.SKU, err)
			}
		}
		return nil
	})
}

// SalesHistory loads the last N days of sales as a frame shaped for the
// rupture analyzer (codigo, quantidade, data).
func (r *HistoryRepository) SalesHistory(ctx context.Context, days int) (*frame.Frame, error) {
	if days <= 0 {
		days = 90
	}
	since := time.Now().AddDate(0, 0, -days).Format(demand.DayKeyLayout)

	rows, err := r.db.QueryxContext(ctx,
		"SELECT sale_date, sku, qty FROM daily_sales WHERE sale_date >= $1 ORDER BY sale_date", since)
	if err != nil {
		return nil, fmt.Errorf("query sales history: %w", err)
	}
	defer rows.Close()

	fr := frame.New([]string{"codigo", "quantidade", "data"}, nil)
	for rows.Next() {
		var saleDate time.Time
		var sku string
		var qty int
		if err := rows.Scan(&saleDate, &sku, &qty); err != nil {
			return nil, fmt.Errorf("scan sales history row: %w", err)
		}
		fr.Rows = append(fr.Rows, []string{sku, strconv.Itoa(qty), saleDate.Format(demand.DayKeyLayout)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales history: %w", err)
	}

	return fr, nil
}
