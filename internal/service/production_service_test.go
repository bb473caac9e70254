package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/config"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/sheets"
)

func loadedService() *ProductionService {
	svc := NewProductionService(ProductionServiceOptions{})
	svc.LoadCatalogFrames(
		&frame.Frame{},
		frame.New(
			[]string{"codigo_kit", "sku_componentes", "qtd_componentes"},
			[][]string{{"kit-1", "prod-a;prod-b", "2;1"}},
		),
		frame.New(
			[]string{"codigo", "estoque_atual"},
			[][]string{{"prod-a", "5"}, {"prod-b", "3"}},
		),
	)
	svc.ResetDay("2026-03-02")
	return svc
}

func feedFrame(rows ...[]string) *frame.Frame {
	return frame.New([]string{"codigo", "quantidade"}, rows)
}

func TestIngestFeedAndNeeds(t *testing.T) {
	svc := loadedService()

	msg, err := svc.IngestFeed(context.Background(), feedFrame([]string{"kit-1", "4"}), "ML")
	require.NoError(t, err)
	assert.Contains(t, msg, "ML")

	needs := svc.Needs()
	require.Len(t, needs, 2)
	assert.Equal(t, "prod-a", needs[0].SKU)
	assert.Equal(t, 8, needs[0].RequiredQty)
	assert.Equal(t, 3, needs[0].ShortfallQty)
}

func TestIngestFeedSchemaMissing(t *testing.T) {
	svc := loadedService()

	_, err := svc.IngestFeed(context.Background(), frame.New([]string{"foo"}, [][]string{{"x"}}), "ML")
	assert.ErrorIs(t, err, demand.ErrSchemaMissing)
	assert.Empty(t, svc.Needs())
}

func TestReportNames(t *testing.T) {
	svc := loadedService()
	_, err := svc.IngestFeed(context.Background(), feedFrame([]string{"prod-a", "10"}), "ML")
	require.NoError(t, err)

	data, name, err := svc.ChannelReport(context.Background(), "ML")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "producao_2026-03-02_ML.xlsx", name)

	data, name, err = svc.ConsolidatedReport(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "consolidado_2026-03-02.xlsx", name)
}

func TestResetDay(t *testing.T) {
	svc := loadedService()
	_, err := svc.IngestFeed(context.Background(), feedFrame([]string{"prod-a", "10"}), "ML")
	require.NoError(t, err)

	msg := svc.ResetDay("2026-03-03")
	assert.Contains(t, msg, "2026-03-03")
	assert.Empty(t, svc.Needs())
	assert.Equal(t, "2026-03-03", svc.Ledger().DayKey())
}

func TestRefreshCatalogUnconfigured(t *testing.T) {
	svc := NewProductionService(ProductionServiceOptions{})
	assert.NoError(t, svc.RefreshCatalog(context.Background()))
}

func TestRefreshCatalogFromFetcher(t *testing.T) {
	tables := map[string]string{
		"1": "codigo,produto\nprod-a,Produto A\n",
		"2": "codigo_kit,sku_componentes,qtd_componentes\nkit-1,prod-a,3\n",
		"3": "codigo,estoque_atual\nprod-a,7\n",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tables[r.URL.Query().Get("gid")])
	}))
	defer srv.Close()

	svc := NewProductionService(ProductionServiceOptions{
		Fetcher: sheets.NewFetcherWithBase(srv.URL),
		Sheets: config.SheetsConfig{
			SpreadsheetID: "sheet-id",
			ProductsGID:   "1",
			KitsGID:       "2",
			InventoryGID:  "3",
		},
	})

	require.NoError(t, svc.RefreshCatalog(context.Background()))
	assert.True(t, svc.Catalog().IsKit("kit-1"))
	assert.InDelta(t, 7, svc.Catalog().OnHand("prod-a"), 1e-9)
}

func TestRefreshCatalogDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	svc := NewProductionService(ProductionServiceOptions{
		Fetcher: sheets.NewFetcherWithBase(srv.URL),
		Sheets: config.SheetsConfig{
			SpreadsheetID: "sheet-id",
			ProductsGID:   "1",
			KitsGID:       "2",
			InventoryGID:  "3",
		},
	})

	err := svc.RefreshCatalog(context.Background())
	assert.ErrorIs(t, err, sheets.ErrCatalogUnavailable)

	// The store stays usable as an empty catalog.
	assert.False(t, svc.Catalog().IsKit("kit-1"))
	_, ierr := svc.IngestFeed(context.Background(), feedFrame([]string{"prod-a", "2"}), "ML")
	assert.NoError(t, ierr)
}
