package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
)

func sampleNeeds() []demand.ProductNeed {
	return []demand.ProductNeed{
		{SKU: "prod-a", RequiredQty: 9, OnHandQty: 5, ShortfallQty: 4, SourceChannels: []string{"ML", "SHOPEE"}},
		{SKU: "prod-b", RequiredQty: 4, OnHandQty: 3, ShortfallQty: 1, SourceChannels: []string{"ML"}},
		{SKU: "prod-c", RequiredQty: 2, OnHandQty: 10, ShortfallQty: 0, SourceChannels: []string{"SHOPEE"}},
		{SKU: "prod-d", RequiredQty: 4, OnHandQty: 0, ShortfallQty: 4, SourceChannels: []string{"SHOPEE"}},
	}
}

func TestChannelRowsSelectionAndOrder(t *testing.T) {
	rows := ChannelRows(sampleNeeds(), "ML")

	require.Len(t, rows, 2)
	assert.Equal(t, "prod-a", rows[0].SKU)
	assert.Equal(t, 4, rows[0].Qty)
	assert.Equal(t, "prod-b", rows[1].SKU)
	assert.Equal(t, 1, rows[1].Qty)
}

func TestChannelRowsMatchCaseSensitively(t *testing.T) {
	assert.Empty(t, ChannelRows(sampleNeeds(), "ml"))
	assert.Empty(t, ChannelRows(sampleNeeds(), "Shopee"))
}

func TestChannelRowsTieBreakBySKU(t *testing.T) {
	needs := []demand.ProductNeed{
		{SKU: "zz", ShortfallQty: 5, SourceChannels: []string{"ML"}},
		{SKU: "aa", ShortfallQty: 5, SourceChannels: []string{"ML"}},
	}
	rows := ChannelRows(needs, "ML")

	require.Len(t, rows, 2)
	assert.Equal(t, "aa", rows[0].SKU)
	assert.Equal(t, "zz", rows[1].SKU)
}

func TestConsolidatedRows(t *testing.T) {
	rows := ConsolidatedRows(sampleNeeds())

	require.Len(t, rows, 3)
	// prod-a and prod-d tie at 4; SKU ascending breaks it.
	assert.Equal(t, "prod-a", rows[0].SKU)
	assert.Equal(t, []string{"ML", "SHOPEE"}, rows[0].Channels)
	assert.Equal(t, "prod-d", rows[1].SKU)
	assert.Equal(t, "prod-b", rows[2].SKU)
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(sampleNeeds(), []string{"ML", "SHOPEE"})

	require.Len(t, summaries, 2)
	assert.Equal(t, ChannelSummary{Channel: "ML", Items: 2, Units: 5}, summaries[0])
	assert.Equal(t, ChannelSummary{Channel: "SHOPEE", Items: 2, Units: 8}, summaries[1])
}

func openSheet(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func cell(t *testing.T, wb *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := wb.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestBuildChannelWorkbook(t *testing.T) {
	data, err := BuildChannelWorkbook("2026-03-02", "ML", sampleNeeds())
	require.NoError(t, err)

	wb := openSheet(t, data)
	require.Contains(t, wb.GetSheetList(), "Produção")

	assert.Equal(t, "RELATÓRIO DE PRODUÇÃO - ML", cell(t, wb, "Produção", "A1"))
	assert.Equal(t, "Data: 2026-03-02", cell(t, wb, "Produção", "A2"))
	assert.Equal(t, "PRODUTOS FALTANTES", cell(t, wb, "Produção", "A4"))

	assert.Equal(t, "Item", cell(t, wb, "Produção", "A6"))
	assert.Equal(t, "Quantidade", cell(t, wb, "Produção", "B6"))
	assert.Equal(t, "Check", cell(t, wb, "Produção", "C6"))

	styleID, err := wb.GetCellStyle("Produção", "A6")
	require.NoError(t, err)
	assert.NotZero(t, styleID, "header row carries the fill style")

	assert.Equal(t, "prod-a", cell(t, wb, "Produção", "A7"))
	assert.Equal(t, "4", cell(t, wb, "Produção", "B7"))
	assert.Equal(t, "prod-b", cell(t, wb, "Produção", "A8"))
}

func TestBuildChannelWorkbookEmpty(t *testing.T) {
	data, err := BuildChannelWorkbook("2026-03-02", "ML", nil)
	require.NoError(t, err)

	wb := openSheet(t, data)
	assert.Equal(t, "PRODUTOS FALTANTES", cell(t, wb, "Produção", "A4"))
	assert.Equal(t, "Item", cell(t, wb, "Produção", "A6"))
	assert.Equal(t, "", cell(t, wb, "Produção", "A7"))
}

func TestBuildConsolidatedWorkbook(t *testing.T) {
	data, err := BuildConsolidatedWorkbook("2026-03-02", sampleNeeds(), []string{"ML", "SHOPEE"})
	require.NoError(t, err)

	wb := openSheet(t, data)
	require.Contains(t, wb.GetSheetList(), "Consolidado")

	assert.Equal(t, "RELATÓRIO CONSOLIDADO DE PRODUÇÃO DO DIA", cell(t, wb, "Consolidado", "A1"))
	assert.Equal(t, "Data: 2026-03-02", cell(t, wb, "Consolidado", "A2"))
	assert.Equal(t, "Marketplaces: ML, SHOPEE", cell(t, wb, "Consolidado", "A3"))
	assert.Equal(t, "PRODUTOS FALTANTES - ORDEM DE PRODUÇÃO", cell(t, wb, "Consolidado", "A5"))

	assert.Equal(t, "Item", cell(t, wb, "Consolidado", "A7"))
	assert.Equal(t, "Marketplaces", cell(t, wb, "Consolidado", "C7"))

	assert.Equal(t, "prod-a", cell(t, wb, "Consolidado", "A8"))
	assert.Equal(t, "ML, SHOPEE", cell(t, wb, "Consolidado", "C8"))
	assert.Equal(t, "prod-d", cell(t, wb, "Consolidado", "A9"))
	assert.Equal(t, "prod-b", cell(t, wb, "Consolidado", "A10"))

	// Three data rows end at row 10; the summary block starts three below.
	assert.Equal(t, "RESUMO POR MARKETPLACE", cell(t, wb, "Consolidado", "A13"))
	assert.Equal(t, "Marketplace", cell(t, wb, "Consolidado", "A14"))
	assert.Equal(t, "ML", cell(t, wb, "Consolidado", "A15"))
	assert.Equal(t, "2", cell(t, wb, "Consolidado", "B15"))
	assert.Equal(t, "5", cell(t, wb, "Consolidado", "C15"))
	assert.Equal(t, "SHOPEE", cell(t, wb, "Consolidado", "A16"))
	assert.Equal(t, "8", cell(t, wb, "Consolidado", "C16"))
}

func TestBuildConsolidatedWorkbookEmpty(t *testing.T) {
	data, err := BuildConsolidatedWorkbook("2026-03-02", nil, nil)
	require.NoError(t, err)

	wb := openSheet(t, data)
	// No data rows: the summary block lands right below the header row.
	assert.Equal(t, "RESUMO POR MARKETPLACE", cell(t, wb, "Consolidado", "A10"))
}
