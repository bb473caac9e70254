package catalog

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
)

func kitFrame(rows ...[]string) *frame.Frame {
	return frame.New([]string{"codigo_kit", "sku_componentes", "qtd_componentes"}, rows)
}

func inventoryFrame(rows ...[]string) *frame.Frame {
	return frame.New([]string{
		"codigo", "descricao", "categoria",
		"estoque_atual", "estoque_min", "estoque_max",
		"custo_unitario", "eh_kit",
	}, rows)
}

func TestLoadKitsAndExplode(t *testing.T) {
	s := NewStore()
	s.LoadKits(kitFrame(
		[]string{"KIT-1", "prod-a; prod-b", "2;1"},
	))

	assert.True(t, s.IsKit("KIT-1"))
	assert.True(t, s.IsKit("kit-1"))
	assert.False(t, s.IsKit("prod-a"))

	comps := s.ExplodeKit("KIT-1")
	require.Len(t, comps, 2)
	assert.Equal(t, "prod-a", comps[0].SKU)
	assert.Equal(t, 2, comps[0].QtyPer)
	assert.Equal(t, "prod-b", comps[1].SKU)
	assert.Equal(t, 1, comps[1].QtyPer)
}

func TestLoadKitsMalformedIsInert(t *testing.T) {
	s := NewStore()
	s.LoadKits(kitFrame(
		[]string{"KIT-2", "prod-x;prod-y", "1"},
	))

	// The kit stays in the table so sales rows still resolve it as a kit,
	// but explosion yields nothing.
	assert.True(t, s.IsKit("KIT-2"))
	assert.Empty(t, s.ExplodeKit("KIT-2"))
}

func TestLoadKitsQuantityFloorAndAccents(t *testing.T) {
	s := NewStore()
	s.LoadKits(kitFrame(
		[]string{"KIT-CAFÉ", "Café;prod-b", "0;3,9"},
	))

	assert.True(t, s.IsKit("kit-cafe"))
	comps := s.ExplodeKit("KIT-CAFÉ")
	require.Len(t, comps, 2)
	assert.Equal(t, "cafe", comps[0].SKU)
	assert.Equal(t, 1, comps[0].QtyPer, "zero quantity floors to 1")
	assert.Equal(t, 3, comps[1].QtyPer, "fractional quantity truncates")
}

func TestLoadInventoryLocaleNumbers(t *testing.T) {
	s := NewStore()
	s.LoadInventory(inventoryFrame(
		[]string{"PROD-A", "Produto A", "Bebidas", "1.234,5", "10", "100", "14,90", "nao"},
		[]string{"Café", "Café Torrado", "Bebidas", "7", "2", "20", "1,234.56", "nao"},
		[]string{"PROD-N", "Produto N", "Bebidas", "-5", "0", "0", "-14,90", "nao"},
	))

	assert.InDelta(t, 1234.5, s.OnHand("PROD-A"), 1e-9)
	assert.True(t, s.UnitCost("prod-a").Equal(decimal.NewFromFloat(14.9)))

	// Lookups canonicalize, so accent and case drift still hit.
	assert.InDelta(t, 7, s.OnHand("CAFE"), 1e-9)
	assert.True(t, s.UnitCost("café").Equal(decimal.NewFromFloat(1234.56)))

	// Negative feed values floor at zero instead of leaking downstream.
	assert.InDelta(t, 0, s.OnHand("PROD-N"), 1e-9)
	assert.True(t, s.UnitCost("prod-n").IsZero())

	assert.InDelta(t, 0, s.OnHand("unknown"), 1e-9)
	assert.True(t, s.UnitCost("unknown").IsZero())
}

func TestLoadInventoryReplacesWholesale(t *testing.T) {
	s := NewStore()
	s.LoadInventory(inventoryFrame(
		[]string{"PROD-A", "Produto A", "", "5", "", "", "", ""},
	))
	s.LoadInventory(inventoryFrame(
		[]string{"PROD-B", "Produto B", "", "3", "", "", "", ""},
	))

	assert.InDelta(t, 0, s.OnHand("PROD-A"), 1e-9)
	assert.InDelta(t, 3, s.OnHand("PROD-B"), 1e-9)
	assert.Len(t, s.InventoryRows(), 1)
}

func TestStats(t *testing.T) {
	s := NewStore()
	s.LoadInventory(inventoryFrame(
		[]string{"PROD-A", "Produto A", "Bebidas", "10", "5", "50", "2,00", "nao"},
		[]string{"PROD-B", "Produto B", "Doces", "0", "5", "50", "3,00", "nao"},
		[]string{"KIT-1", "Kit Misto", "Bebidas", "2", "5", "50", "0", "sim"},
	))
	s.LoadKits(kitFrame([]string{"KIT-1", "prod-a;prod-b", "1;1"}))

	stats := s.Stats()
	assert.Equal(t, 3, stats.SKUCount)
	assert.Equal(t, 1, stats.KitCount)
	assert.Equal(t, 1, stats.LoadedKits)
	assert.InDelta(t, 12, stats.TotalUnits, 1e-9)
	assert.True(t, stats.StockValue.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 1, stats.ZeroOnHand)
	assert.Equal(t, 1, stats.BelowMin, "only the kit row is above zero and below min")
	assert.Equal(t, 2, stats.Categories)
}

func TestMissingFromInventory(t *testing.T) {
	s := NewStore()
	s.LoadInventory(inventoryFrame(
		[]string{"PROD-A", "Produto A", "", "5", "", "", "", ""},
	))

	input := frame.New(
		[]string{"codigo", "produto", "custo"},
		[][]string{
			{"prod-a", "Produto A", "1,00"},
			{"PROD-Z", "Produto Z", "9,90"},
			{"", "sem codigo", ""},
		},
	)

	missing := s.MissingFromInventory(input)
	require.Equal(t, 1, missing.Len())
	assert.Equal(t, "codigo_canonico", missing.Headers[len(missing.Headers)-1])
	assert.Equal(t, "PROD-Z", missing.Cell(0, 0))
	assert.Equal(t, "prod-z", missing.Cell(0, 3))
}

func TestMissingFromInventoryUnresolvable(t *testing.T) {
	s := NewStore()
	missing := s.MissingFromInventory(frame.New([]string{"foo"}, [][]string{{"x"}}))
	assert.True(t, missing.Empty())
}

func TestExportMissingWorkbook(t *testing.T) {
	s := NewStore()
	missing := frame.New(
		[]string{"codigo", "produto", "custo", "codigo_canonico"},
		[][]string{{"PROD-Z", "Produto Z", "9,90", "prod-z"}},
	)

	data, err := s.ExportMissingWorkbook(missing)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	require.Contains(t, wb.GetSheetList(), "Produtos_Faltantes")

	get := func(cell string) string {
		v, err := wb.GetCellValue("Produtos_Faltantes", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "codigo", get("A1"))
	assert.Equal(t, "quantidades", get("J1"))

	styleID, err := wb.GetCellStyle("Produtos_Faltantes", "A1")
	require.NoError(t, err)
	assert.NotZero(t, styleID, "header row carries the fill style")
	assert.Equal(t, "PROD-Z", get("A2"))
	assert.Equal(t, "Produto Z", get("B2"))
	assert.Equal(t, "Produtos BCG", get("C2"))
	assert.Equal(t, "0", get("D2"))
	assert.Equal(t, "9.9", get("G2"))
}
