package service

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"directum-studio/models"
	"directum-studio/utils"
)

const (
	quoteSheet      = "Quote"
	decorationSheet = "Decorations"
)

var quoteHeaders = []string{"Product", "Qty", "Blank", "Decoration / pc", "Unit", "Setup", "Extended", "Warnings"}

var decorationHeaders = []string{"Product", "Method", "Cost / pc", "Setup", "Matched", "Matrix row"}

// ExportQuoteXLSX writes priced quote lines to a workbook with a totals row
// and a second sheet listing every decoration
func ExportQuoteXLSX(quoteID string, lines []models.QuoteLine) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", quoteSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := wb.NewSheet(decorationSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	money, err := wb.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if quoteID != "" {
		if err := wb.SetDocProps(&excelize.DocProperties{Title: "Quote " + quoteID}); err != nil {
			return nil, fmt.Errorf("failed to set properties: %w", err)
		}
	}

	if err := writeRow(wb, quoteSheet, 1, toAny(quoteHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(wb, decorationSheet, 1, toAny(decorationHeaders)); err != nil {
		return nil, err
	}

	var total, setups float64
	decoRow := 2
	for i, l := range lines {
		row := i + 2
		if err := writeRow(wb, quoteSheet, row, []any{
			l.ProductID, l.Qty, l.UnitBlankCost, l.DecorUnit, l.Unit, l.SetupFees, l.Extended, strings.Join(l.Warnings, "; "),
		}); err != nil {
			return nil, err
		}
		total += l.Extended
		setups += l.SetupFees

		for _, d := range l.Decorations {
			rowIndex := ""
			if d.RowIndex != nil {
				rowIndex = fmt.Sprint(*d.RowIndex)
			}
			if err := writeRow(wb, decorationSheet, decoRow, []any{
				l.ProductID, d.Method, d.CostEach, d.Setup, d.Matched, rowIndex,
			}); err != nil {
				return nil, err
			}
			decoRow++
		}
	}

	totalRow := len(lines) + 2
	if err := writeRow(wb, quoteSheet, totalRow, []any{
		"Total", nil, nil, nil, nil, utils.Round2(setups), utils.Round2(total),
	}); err != nil {
		return nil, err
	}

	last, _ := excelize.CoordinatesToCellName(len(quoteHeaders), 1)
	if err := wb.SetCellStyle(quoteSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	first, _ := excelize.CoordinatesToCellName(1, totalRow)
	last, _ = excelize.CoordinatesToCellName(len(quoteHeaders), totalRow)
	if err := wb.SetCellStyle(quoteSheet, first, last, bold); err != nil {
		return nil, fmt.Errorf("failed to style totals: %w", err)
	}
	last, _ = excelize.CoordinatesToCellName(7, totalRow)
	if err := wb.SetCellStyle(quoteSheet, "C2", last, money); err != nil {
		return nil, fmt.Errorf("failed to style amounts: %w", err)
	}
	if err := wb.SetColWidth(quoteSheet, "A", "A", 18); err != nil {
		return nil, fmt.Errorf("failed to size column: %w", err)
	}
	if err := wb.SetColWidth(quoteSheet, "H", "H", 40); err != nil {
		return nil, fmt.Errorf("failed to size column: %w", err)
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(wb *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
