package catalog

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/normalize"
)

const missingSheetName = "Produtos_Faltantes"

var missingHeaders = []string{
	"codigo", "nome", "categoria",
	"estoque_atual", "estoque_min", "estoque_max",
	"custo_unitario", "eh_kit", "componentes", "quantidades",
}

// MissingFromInventory returns the rows of the input frame whose canonical
// SKU does not appear in the inventory table. The result carries the input
// columns plus a trailing canonical-SKU column.
func (s *Store) MissingFromInventory(f *frame.Frame) *frame.Frame {
	if f == nil || f.Empty() {
		return &frame.Frame{}
	}

	skuIdx := normalize.ResolveColumn(f.Headers, normalize.RoleSalesSKU)
	if skuIdx < 0 {
		return &frame.Frame{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	headers := append(append([]string{}, f.Headers...), "codigo_canonico")
	var rows [][]string
	for i, row := range f.Rows {
		sku := normalize.Canonical(f.Cell(i, skuIdx))
		if sku == "" {
			continue
		}
		if _, ok := s.inventory[sku]; ok {
			continue
		}
		rows = append(rows, append(append([]string{}, row...), sku))
	}

	return frame.New(headers, rows)
}

// ExportMissingWorkbook materializes a missing-from-inventory frame as a
// fixed-schema workbook ready to paste into the inventory sheet: zeroed
// stock columns, category "Produtos BCG" and blank kit fields.
func (s *Store) ExportMissingWorkbook(missing *frame.Frame) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	wb.SetSheetName(wb.GetSheetName(0), missingSheetName)

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range missingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellValue(missingSheetName, cell, h); err != nil {
			return nil, err
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(missingHeaders), 1)
	if err := wb.SetCellStyle(missingSheetName, "A1", endHeader, headerStyle); err != nil {
		return nil, err
	}

	widths := []float64{18, 40, 16, 14, 14, 14, 16, 10, 24, 24}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := wb.SetColWidth(missingSheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	if missing != nil {
		skuIdx := normalize.ResolveColumn(missing.Headers, normalize.RoleSalesSKU)
		nameIdx := normalize.ResolveColumn(missing.Headers, normalize.RoleProductName)
		costIdx := normalize.ResolveColumn(missing.Headers, normalize.RoleInvCost)

		for i := range missing.Rows {
			values := []interface{}{
				missing.Cell(i, skuIdx),
				missing.Cell(i, nameIdx),
				"Produtos BCG",
				0, 0, 0,
				normalize.ParseDecimal(missing.Cell(i, costIdx)),
				"", "", "",
			}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				if err := wb.SetCellValue(missingSheetName, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize missing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
