package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/normalize"
)

// runHistorySeed walks data-dir/CHANNEL/YYYY-MM-DD.csv files and loads each
// row into daily_sales. Existing rows for a (date, channel) pair are replaced
// so reruns stay consistent.
func runHistorySeed(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	dataDir := c.String("data-dir")
	channels, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read data dir: %w", err)
	}

	var files, rows int
	for _, channelDir := range channels {
		if !channelDir.IsDir() {
			continue
		}
		channel := channelDir.Name()

		entries, err := os.ReadDir(filepath.Join(dataDir, channel))
		if err != nil {
			return err
		}
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, ".csv") {
				continue
			}
			day := strings.TrimSuffix(name, ".csv")
			if _, err := time.Parse(demand.DayKeyLayout, day); err != nil {
				log.Printf("skipping %s/%s: file name is not a day key", channel, name)
				continue
			}

			n, err := seedFeedFile(c, db, filepath.Join(dataDir, channel, name), channel, day)
			if err != nil {
				return fmt.Errorf("seed %s/%s: %w", channel, name, err)
			}
			files++
			rows += n
			log.Printf("seeded %s/%s: %d rows", channel, name, n)
		}
	}

	log.Printf("done: %d files, %d rows", files, rows)
	return nil
}

func seedFeedFile(c *cli.Context, db *sql.DB, path, channel, day string) (int, error) {
	fr, err := frame.ReadFile(path)
	if err != nil {
		return 0, err
	}
	salesRows, err := demand.NormalizeSales(fr)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(c.Context,
		`DELETE FROM daily_sales WHERE sale_date = $1 AND channel = $2`, day, channel); err != nil {
		return 0, err
	}

	for _, row := range salesRows {
		saleDate := day
		if row.HasDate {
			saleDate = row.Date.Format(demand.DayKeyLayout)
		}
		if _, err := tx.ExecContext(c.Context,
			`INSERT INTO daily_sales (sale_date, channel, sku, qty) VALUES ($1, $2, $3, $4)`,
			saleDate, channel, normalize.Canonical(row.RawSKU), row.Qty); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(salesRows), nil
}
