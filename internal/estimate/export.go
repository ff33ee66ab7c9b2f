package estimate

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders an estimate as an XLSX workbook: a header row, one row
// per line, and a totals block underneath.
func ExportXLSX(out Output, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()
	const sheet = "Estimate"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook only carries ours
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Description",
		"Qty",
		"Weight (lb)",
		"Price ($/lb)",
		"Material Cost",
		"Labor Hours",
		"Labor Cost",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	for _, line := range out.Lines {
		write(1, row, line.Desc)
		write(2, row, line.Qty)
		write(3, row, line.WeightLb)
		write(4, row, line.PricePerLb)
		write(5, row, line.MaterialCost)
		write(6, row, line.LaborHours)
		write(7, row, line.LaborCost)
		row++
	}

	row++ // blank spacer
	write(1, row, "Material Subtotal")
	write(5, row, out.MaterialSubtotal)
	row++
	write(1, row, "Labor Subtotal")
	write(7, row, out.LaborSubtotal)
	row++
	write(1, row, "Total")
	write(7, row, out.Total)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	logger.Info("estimate.export.ok", "lines", len(out.Lines), "bytes", buf.Len())
	return buf.Bytes(), nil
}
