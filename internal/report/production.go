// Package report renders the demand ledger into the production-order
// workbooks handed to the manufacturing team.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/demand"
)

const (
	channelSheetName      = "Produção"
	consolidatedSheetName = "Consolidado"
)

// Row is one emitted shortfall line.
type Row struct {
	SKU      string
	Qty      int
	Channels []string
}

// ChannelRows selects and orders the rows of the per-channel sheet: SKUs
// with a positive shortfall sourced from the channel, sorted by shortfall
// descending with SKU ascending as tie-break.
func ChannelRows(needs []demand.ProductNeed, channel string) []Row {
	var rows []Row
	for i := range needs {
		n := &needs[i]
		if n.ShortfallQty <= 0 || !n.HasChannel(channel) {
			continue
		}
		rows = append(rows, Row{SKU: n.SKU, Qty: n.ShortfallQty})
	}
	sortRows(rows)
	return rows
}

// ConsolidatedRows selects every SKU with a positive shortfall regardless of
// channel, in the same order.
func ConsolidatedRows(needs []demand.ProductNeed) []Row {
	var rows []Row
	for i := range needs {
		n := &needs[i]
		if n.ShortfallQty <= 0 {
			continue
		}
		rows = append(rows, Row{
			SKU:      n.SKU,
			Qty:      n.ShortfallQty,
			Channels: append([]string{}, n.SourceChannels...),
		})
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Qty != rows[b].Qty {
			return rows[a].Qty > rows[b].Qty
		}
		return rows[a].SKU < rows[b].SKU
	})
}

// ChannelSummary is one line of the consolidated per-channel footer.
type ChannelSummary struct {
	Channel string
	Items   int
	Units   int
}

// Summarize computes, for each channel, the count of shortfall SKUs and the
// sum of shortfall units over entries sourced from that channel.
func Summarize(needs []demand.ProductNeed, channels []string) []ChannelSummary {
	out := make([]ChannelSummary, 0, len(channels))
	for _, ch := range channels {
		summary := ChannelSummary{Channel: ch}
		for i := range needs {
			n := &needs[i]
			if n.ShortfallQty <= 0 || !n.HasChannel(ch) {
				continue
			}
			summary.Items++
			summary.Units += n.ShortfallQty
		}
		out = append(out, summary)
	}
	return out
}

// BuildChannelWorkbook emits the per-channel production workbook.
// Sheet "Produção": title rows 1-4, header at row 6, data from row 7.
// An empty selection still gets the full title block.
func BuildChannelWorkbook(dayKey, channel string, needs []demand.ProductNeed) ([]byte, error) {
	rows := ChannelRows(needs, channel)

	wb := excelize.NewFile()
	defer wb.Close()
	wb.SetSheetName(wb.GetSheetName(0), channelSheetName)

	titleStyle, headerStyle, err := makeStyles(wb)
	if err != nil {
		return nil, err
	}

	setCell(wb, channelSheetName, 1, 1, fmt.Sprintf("RELATÓRIO DE PRODUÇÃO - %s", strings.ToUpper(channel)))
	setCell(wb, channelSheetName, 1, 2, fmt.Sprintf("Data: %s", dayKey))
	setCell(wb, channelSheetName, 1, 4, "PRODUTOS FALTANTES")
	wb.SetCellStyle(channelSheetName, "A1", "A1", titleStyle)

	headers := []string{"Item", "Quantidade", "Check"}
	for i, h := range headers {
		setCell(wb, channelSheetName, i+1, 6, h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 6)
	wb.SetCellStyle(channelSheetName, "A6", endHeader, headerStyle)

	for i, row := range rows {
		setCell(wb, channelSheetName, 1, 7+i, row.SKU)
		setCell(wb, channelSheetName, 2, 7+i, row.Qty)
		setCell(wb, channelSheetName, 3, 7+i, "")
	}

	wb.SetColWidth(channelSheetName, "A", "A", 28)
	wb.SetColWidth(channelSheetName, "B", "C", 14)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize channel workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildConsolidatedWorkbook emits the day-consolidated workbook.
// Sheet "Consolidado": title rows 1-5, header at row 7, data from row 8,
// per-channel summary block starting three rows after the last data row.
func BuildConsolidatedWorkbook(dayKey string, needs []demand.ProductNeed, channels []string) ([]byte, error) {
	rows := ConsolidatedRows(needs)
	summaries := Summarize(needs, channels)

	wb := excelize.NewFile()
	defer wb.Close()
	wb.SetSheetName(wb.GetSheetName(0), consolidatedSheetName)

	titleStyle, headerStyle, err := makeStyles(wb)
	if err != nil {
		return nil, err
	}

	setCell(wb, consolidatedSheetName, 1, 1, "RELATÓRIO CONSOLIDADO DE PRODUÇÃO DO DIA")
	setCell(wb, consolidatedSheetName, 1, 2, fmt.Sprintf("Data: %s", dayKey))
	setCell(wb, consolidatedSheetName, 1, 3, fmt.Sprintf("Marketplaces: %s", strings.Join(channels, ", ")))
	setCell(wb, consolidatedSheetName, 1, 5, "PRODUTOS FALTANTES - ORDEM DE PRODUÇÃO")
	wb.SetCellStyle(consolidatedSheetName, "A1", "A1", titleStyle)

	headers := []string{"Item", "Quantidade", "Marketplaces", "Check"}
	for i, h := range headers {
		setCell(wb, consolidatedSheetName, i+1, 7, h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 7)
	wb.SetCellStyle(consolidatedSheetName, "A7", endHeader, headerStyle)

	lastDataRow := 7
	for i, row := range rows {
		lastDataRow = 8 + i
		setCell(wb, consolidatedSheetName, 1, lastDataRow, row.SKU)
		setCell(wb, consolidatedSheetName, 2, lastDataRow, row.Qty)
		setCell(wb, consolidatedSheetName, 3, lastDataRow, strings.Join(row.Channels, ", "))
		setCell(wb, consolidatedSheetName, 4, lastDataRow, "")
	}

	summaryRow := lastDataRow + 3
	setCell(wb, consolidatedSheetName, 1, summaryRow, "RESUMO POR MARKETPLACE")
	wb.SetCellStyle(consolidatedSheetName,
		mustCell(1, summaryRow), mustCell(1, summaryRow), headerStyle)
	setCell(wb, consolidatedSheetName, 1, summaryRow+1, "Marketplace")
	setCell(wb, consolidatedSheetName, 2, summaryRow+1, "Itens")
	setCell(wb, consolidatedSheetName, 3, summaryRow+1, "Unidades")
	for i, s := range summaries {
		setCell(wb, consolidatedSheetName, 1, summaryRow+2+i, s.Channel)
		setCell(wb, consolidatedSheetName, 2, summaryRow+2+i, s.Items)
		setCell(wb, consolidatedSheetName, 3, summaryRow+2+i, s.Units)
	}

	wb.SetColWidth(consolidatedSheetName, "A", "A", 28)
	wb.SetColWidth(consolidatedSheetName, "B", "B", 14)
	wb.SetColWidth(consolidatedSheetName, "C", "C", 30)
	wb.SetColWidth(consolidatedSheetName, "D", "D", 10)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize consolidated workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func makeStyles(wb *excelize.File) (title int, header int, err error) {
	title, err = wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create title style: %w", err)
	}
	header, err = wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return title, header, nil
}

func setCell(wb *excelize.File, sheet string, col, row int, value interface{}) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	wb.SetCellValue(sheet, cell, value)
}

func mustCell(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
