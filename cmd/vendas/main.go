package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/catalog"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/rupture"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "vendas",
		Usage: "Back-office production planning from local spreadsheet files",
		Commands: []*cli.Command{
			{
				Name:  "produce",
				Usage: "Ingest marketplace feeds and emit the production workbooks",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "products", Usage: "Product catalog CSV/XLSX"},
					&cli.StringFlag{Name: "kits", Usage: "Kit catalog CSV/XLSX"},
					&cli.StringFlag{Name: "inventory", Usage: "Inventory snapshot CSV/XLSX"},
					&cli.StringSliceFlag{
						Name:     "feed",
						Usage:    "Sales feed as CHANNEL=path (repeatable)",
						Required: true,
					},
					&cli.StringFlag{Name: "day", Usage: "Business day key (YYYY-MM-DD), defaults to today"},
					&cli.StringFlag{Name: "out", Value: "./data/reports", Usage: "Output directory"},
				},
				Action: runProduce,
			},
			{
				Name:  "rupture",
				Usage: "Project rupture risk from a historical sales file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sales", Required: true, Usage: "Historical sales CSV/XLSX"},
					&cli.StringFlag{Name: "inventory", Required: true, Usage: "Inventory snapshot CSV/XLSX"},
					&cli.IntFlag{Name: "horizon", Value: 30, Usage: "Projection horizon in days"},
				},
				Action: runRupture,
			},
			{
				Name:  "history",
				Usage: "Seed the sales history database from daily feed CSVs",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Value:   "./data/feeds",
						Usage:   "Directory of CHANNEL/YYYY-MM-DD.csv feed files",
						EnvVars: []string{"FEED_DATA_DIR"},
					},
				},
				Action: runHistorySeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func loadOptionalFrame(path string) (*frame.Frame, error) {
	if path == "" {
		return &frame.Frame{}, nil
	}
	return frame.ReadFile(path)
}

func runProduce(c *cli.Context) error {
	svc := service.NewProductionService(service.ProductionServiceOptions{})

	products, err := loadOptionalFrame(c.String("products"))
	if err != nil {
		return err
	}
	kits, err := loadOptionalFrame(c.String("kits"))
	if err != nil {
		return err
	}
	inventory, err := loadOptionalFrame(c.String("inventory"))
	if err != nil {
		return err
	}
	svc.LoadCatalogFrames(products, kits, inventory)
	svc.ResetDay(c.String("day"))

	channels := make([]string, 0)
	for _, spec := range c.StringSlice("feed") {
		parts := strings.SplitN(spec, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid --feed %q, expected CHANNEL=path", spec)
		}
		channel, path := parts[0], parts[1]

		fr, err := frame.ReadFile(path)
		if err != nil {
			return err
		}
		message, err := svc.IngestFeed(c.Context, fr, channel)
		if err != nil {
			return fmt.Errorf("feed %s: %w", path, err)
		}
		log.Println(message)
		channels = append(channels, channel)
	}

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	for _, channel := range channels {
		data, name, err := svc.ChannelReport(c.Context, channel)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0644); err != nil {
			return err
		}
		log.Printf("wrote %s", name)
	}

	data, name, err := svc.ConsolidatedReport(c.Context)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, name), data, 0644); err != nil {
		return err
	}
	log.Printf("wrote %s", name)

	return nil
}

func runRupture(c *cli.Context) error {
	sales, err := frame.ReadFile(c.String("sales"))
	if err != nil {
		return err
	}
	invFrame, err := frame.ReadFile(c.String("inventory"))
	if err != nil {
		return err
	}

	store := catalog.NewStore()
	store.LoadInventory(invFrame)

	analyzer := rupture.NewAnalyzer()
	coverage := analyzer.Coverage(sales, store.InventoryRows())
	summary := analyzer.Summarize(coverage)

	fmt.Printf("critical=%d warning=%d ok=%d no_sales=%d mean_cover=%.1f\n",
		summary.CriticalCount, summary.WarningCount, summary.OKCount,
		summary.NoSalesCount, summary.MeanDaysOfCover)

	for _, p := range analyzer.ProjectRupture(coverage, c.Int("horizon")) {
		fmt.Printf("%-24s cover=%5.1fd stockout=%s reorder=%d (%s)\n",
			p.SKU, p.DaysOfCover, p.StockoutDate.Format("2006-01-02"),
			p.ReorderQty, p.ReorderValue.StringFixed(2))
	}

	return nil
}
