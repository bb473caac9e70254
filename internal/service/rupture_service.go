package service

import (
	"context"
	"errors"
	"sync"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/catalog"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/rupture"
)

// ErrNoSalesHistory signals a rupture request before any sales history has
// been uploaded or archived.
var ErrNoSalesHistory = errors.New("no sales history available for rupture analysis")

// RuptureService joins sales history with the catalog's inventory snapshot.
// History comes from the last uploaded frame, or from the postgres archive
// when one is configured.
type RuptureService struct {
	analyzer *rupture.Analyzer
	catalog  *catalog.Store
	history  *postgres.HistoryRepository

	mu       sync.Mutex
	uploaded *frame.Frame
}

func NewRuptureService(cat *catalog.Store, history *postgres.HistoryRepository) *RuptureService {
	return &RuptureService{
		analyzer: rupture.NewAnalyzer(),
		catalog:  cat,
		history:  history,
	}
}

// SetSalesFrame records an uploaded historical sales frame for analysis.
func (s *RuptureService) SetSalesFrame(fr *frame.Frame) {
	s.mu.Lock()
	s.uploaded = fr
	s.mu.Unlock()
}

func (s *RuptureService) salesFrame(ctx context.Context) (*frame.Frame, error) {
	s.mu.Lock()
	uploaded := s.uploaded
	s.mu.Unlock()
	if uploaded != nil && !uploaded.Empty() {
		return uploaded, nil
	}

	if s.history != nil {
		fr, err := s.history.SalesHistory(ctx, 90)
		if err != nil {
			return nil, err
		}
		if !fr.Empty() {
			return fr, nil
		}
	}

	return nil, ErrNoSalesHistory
}

// Coverage computes per-SKU days-of-cover sorted by criticality.
func (s *RuptureService) Coverage(ctx context.Context) ([]rupture.Coverage, error) {
	sales, err := s.salesFrame(ctx)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Coverage(sales, s.catalog.InventoryRows()), nil
}

// Projection lists SKUs expected to rupture within the horizon.
func (s *RuptureService) Projection(ctx context.Context, horizonDays int) ([]rupture.Projection, error) {
	coverage, err := s.Coverage(ctx)
	if err != nil {
		return nil, err
	}
	return s.analyzer.ProjectRupture(coverage, horizonDays), nil
}

// Trend compares the recent sales window against the prior one.
func (s *RuptureService) Trend(ctx context.Context, recentDays, priorDays int) ([]rupture.Trend, error) {
	sales, err := s.salesFrame(ctx)
	if err != nil {
		return nil, err
	}
	return s.analyzer.ComparePeriods(sales, recentDays, priorDays)
}

// Summary returns the executive rollup.
func (s *RuptureService) Summary(ctx context.Context) (rupture.Summary, error) {
	coverage, err := s.Coverage(ctx)
	if err != nil {
		return rupture.Summary{}, err
	}
	return s.analyzer.Summarize(coverage), nil
}
