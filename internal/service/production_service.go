package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/cache"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/catalog"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/config"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/report"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/sheets"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/storage"
)

// ProductionService drives the production requirement pipeline: catalog
// refresh, feed ingestion, shortfall computation and report emission. The
// catalog store and demand ledger are process-wide singletons owned here;
// the host serializes uploads, and the ledger's own lock covers the rest.
type ProductionService struct {
	catalog *catalog.Store
	ledger  *demand.Ledger
	fetcher *sheets.Fetcher
	cache   cache.CatalogCache
	store   storage.ObjectStorage
	history *postgres.HistoryRepository
	sheets  config.SheetsConfig
}

type ProductionServiceOptions struct {
	Fetcher *sheets.Fetcher
	Cache   cache.CatalogCache
	Storage storage.ObjectStorage
	History *postgres.HistoryRepository
	Sheets  config.SheetsConfig
}

func NewProductionService(opts ProductionServiceOptions) *ProductionService {
	if opts.Fetcher == nil {
		opts.Fetcher = sheets.NewFetcher()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopCatalogCache()
	}
	return &ProductionService{
		catalog: catalog.NewStore(),
		ledger:  demand.NewLedger(),
		fetcher: opts.Fetcher,
		cache:   opts.Cache,
		store:   opts.Storage,
		history: opts.History,
		sheets:  opts.Sheets,
	}
}

// Catalog exposes the store for read-only consumers (stats, rupture joins).
func (s *ProductionService) Catalog() *catalog.Store {
	return s.catalog
}

// Ledger exposes the current demand ledger.
func (s *ProductionService) Ledger() *demand.Ledger {
	return s.ledger
}

// RefreshCatalog fetches the three reference tables and replaces the store
// wholesale. An unavailable source leaves that table empty and degrades the
// pipeline (kits treated as base SKUs, on-hand 0) rather than blocking
// ingestion; the error is still reported to the host.
func (s *ProductionService) RefreshCatalog(ctx context.Context) error {
	var firstErr error

	products := s.fetchTable(ctx, s.sheets.ProductsGID, &firstErr)
	kits := s.fetchTable(ctx, s.sheets.KitsGID, &firstErr)
	inventory := s.fetchTable(ctx, s.sheets.InventoryGID, &firstErr)

	s.catalog.LoadProducts(products)
	s.catalog.LoadKits(kits)
	s.catalog.LoadInventory(inventory)

	if firstErr != nil {
		log.Warn().Err(firstErr).Msg("production: catalog refresh degraded")
	}
	return firstErr
}

func (s *ProductionService) fetchTable(ctx context.Context, gid string, firstErr *error) *frame.Frame {
	if s.sheets.SpreadsheetID == "" || gid == "" {
		return &frame.Frame{}
	}

	if fr, ok, err := s.cache.GetFrame(ctx, s.sheets.SpreadsheetID, gid); err == nil && ok {
		return fr
	} else if err != nil {
		log.Warn().Err(err).Str("gid", gid).Msg("production: catalog cache get failed")
	}

	fr, err := s.fetcher.FetchCSV(ctx, s.sheets.SpreadsheetID, gid)
	if err != nil {
		if *firstErr == nil {
			*firstErr = err
		}
		return &frame.Frame{}
	}

	if err := s.cache.SetFrame(ctx, s.sheets.SpreadsheetID, gid, fr); err != nil {
		log.Warn().Err(err).Str("gid", gid).Msg("production: catalog cache set failed")
	}
	return fr
}

// LoadCatalogFrames loads the reference tables from already-parsed frames,
// used by the CLI with local files.
func (s *ProductionService) LoadCatalogFrames(products, kits, inventory *frame.Frame) {
	s.catalog.LoadProducts(products)
	s.catalog.LoadKits(kits)
	s.catalog.LoadInventory(inventory)
}

// IngestFeed folds one sales feed into the ledger under a channel and
// returns a human-readable outcome message. The ledger accumulates; the
// host owns any file-level dedup.
func (s *ProductionService) IngestFeed(ctx context.Context, fr *frame.Frame, channel string) (string, error) {
	entries, err := s.ledger.Ingest(fr, channel, s.catalog)
	if err != nil {
		if errors.Is(err, demand.ErrSchemaMissing) {
			return "planilha de vendas sem coluna de código ou quantidade", err
		}
		return "falha ao processar planilha de vendas", err
	}

	if s.history != nil {
		if rows, nerr := demand.NormalizeSales(fr); nerr == nil {
			if herr := s.history.InsertDailySales(ctx, s.ledger.DayKey(), channel, rows); herr != nil {
				log.Warn().Err(herr).Msg("production: sales history insert failed")
			}
		}
	}

	return fmt.Sprintf("%d SKUs acumulados para %s em %s", len(entries), channel, s.ledger.DayKey()), nil
}

// ResetDay atomically starts a new business day.
func (s *ProductionService) ResetDay(dayKey string) string {
	s.ledger.Reset(dayKey)
	return fmt.Sprintf("dia de produção reiniciado: %s", s.ledger.DayKey())
}

// Needs returns the current ledger snapshot with fresh shortfalls.
func (s *ProductionService) Needs() []demand.ProductNeed {
	s.ledger.ComputeShortfalls(s.catalog)
	return s.ledger.Snapshot()
}

// ChannelReport emits the per-channel production workbook and archives it
// best-effort.
func (s *ProductionService) ChannelReport(ctx context.Context, channel string) ([]byte, string, error) {
	s.ledger.ComputeShortfalls(s.catalog)
	dayKey := s.ledger.DayKey()

	data, err := report.BuildChannelWorkbook(dayKey, channel, s.ledger.Snapshot())
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("producao_%s_%s.xlsx", dayKey, channel)
	s.archive(ctx, dayKey, name, data)
	return data, name, nil
}

// ConsolidatedReport emits the day-consolidated workbook, archives it and
// records the production order snapshot in history.
func (s *ProductionService) ConsolidatedReport(ctx context.Context) ([]byte, string, error) {
	s.ledger.ComputeShortfalls(s.catalog)
	dayKey := s.ledger.DayKey()
	needs := s.ledger.Snapshot()

	data, err := report.BuildConsolidatedWorkbook(dayKey, needs, s.ledger.Channels())
	if err != nil {
		return nil, "", err
	}

	if s.history != nil {
		if err := s.history.ArchiveProductionOrder(ctx, dayKey, needs); err != nil {
			log.Warn().Err(err).Msg("production: order archive failed")
		}
	}

	name := fmt.Sprintf("consolidado_%s.xlsx", dayKey)
	s.archive(ctx, dayKey, name, data)
	return data, name, nil
}

// MissingReport builds the missing-from-inventory workbook for an uploaded
// reference frame.
func (s *ProductionService) MissingReport(fr *frame.Frame) ([]byte, string, error) {
	missing := s.catalog.MissingFromInventory(fr)
	data, err := s.catalog.ExportMissingWorkbook(missing)
	if err != nil {
		return nil, "", err
	}
	return data, "produtos_faltantes.xlsx", nil
}

// Stats returns the loaded inventory statistics.
func (s *ProductionService) Stats() catalog.InventoryStats {
	return s.catalog.Stats()
}

func (s *ProductionService) archive(ctx context.Context, dayKey, name string, data []byte) {
	if s.store == nil {
		return
	}
	key := fmt.Sprintf("reports/%s/%s", dayKey, name)
	if err := s.store.UploadObject(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("production: report archive upload failed")
	}
}
