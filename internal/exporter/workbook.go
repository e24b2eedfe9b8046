package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

// WorkbookWriter produces the formatted Excel report for an analysis run:
// a summary sheet with the share tables, then one sheet per pivot.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer. A nil logger falls back to
// slog.Default().
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write renders the result into an xlsx file at path.
func (w *WorkbookWriter) Write(path string, result *domain.AnalysisResult) error {
	if result == nil {
		return apperrors.NewValidationError("nil analysis result")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return apperrors.NewStorageError("create title style", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}},
	})
	if err != nil {
		return apperrors.NewStorageError("create header style", err)
	}

	if err := w.writeSummarySheet(f, result, titleStyle, headerStyle); err != nil {
		return err
	}
	for column, table := range result.Pivots {
		if err := w.writePivotSheet(f, column, table, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("save workbook %s", path), err)
	}
	w.logger.Info("analysis workbook written",
		slog.String("path", path),
		slog.String("category", result.Category),
		slog.Int("pivot_sheets", len(result.Pivots)))
	return nil
}

func (w *WorkbookWriter) writeSummarySheet(f *excelize.File, result *domain.AnalysisResult, titleStyle, headerStyle int) error {
	sheet := fmt.Sprintf("%s_Summary", sanitizeName(result.Category))
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return apperrors.NewStorageError("rename summary sheet", err)
	}

	setCell := func(cell string, value interface{}) {
		// SetCellValue only fails on malformed cell references, which are
		// all constants below.
		_ = f.SetCellValue(sheet, cell, value)
	}

	setCell("A1", fmt.Sprintf("Market Analysis Results - %s", result.Category))
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	row := 3
	setCell(fmt.Sprintf("A%d", row), "Volume Market Share")
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
	row++
	for _, share := range result.MarketShare {
		setCell(fmt.Sprintf("A%d", row), share.Brand)
		setCell(fmt.Sprintf("B%d", row), fmt.Sprintf("%.1f%%", share.Share))
		setCell(fmt.Sprintf("C%d", row), share.Volume)
		row++
	}

	if len(result.BrandValues) > 0 {
		row++
		setCell(fmt.Sprintf("A%d", row), "Value Market Share")
		_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
		row++
		for _, share := range result.MarketShare {
			setCell(fmt.Sprintf("A%d", row), share.Brand)
			setCell(fmt.Sprintf("B%d", row), result.BrandValues[share.Brand])
			row++
		}
	}

	row++
	setCell(fmt.Sprintf("A%d", row), "Summary")
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
	row++
	setCell(fmt.Sprintf("A%d", row), "Sites")
	setCell(fmt.Sprintf("B%d", row), result.Summary.Sites)
	row++
	setCell(fmt.Sprintf("A%d", row), "Total Yearly Volume")
	setCell(fmt.Sprintf("B%d", row), result.Summary.TotalVolume)
	row++
	setCell(fmt.Sprintf("A%d", row), "Top Brand")
	if result.Summary.HasTopBrand {
		setCell(fmt.Sprintf("B%d", row), result.Summary.TopBrand)
	} else {
		setCell(fmt.Sprintf("B%d", row), "n/a")
	}
	return nil
}

func (w *WorkbookWriter) writePivotSheet(f *excelize.File, column string, table *domain.PivotTable, headerStyle int) error {
	sheet := fmt.Sprintf("%s_Analysis", sanitizeName(column))
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create pivot sheet %s", sheet), err)
	}

	brands := table.Brands()
	_ = f.SetCellValue(sheet, "A1", column)
	for j, brand := range brands {
		cell, err := excelize.CoordinatesToCellName(j+2, 1)
		if err != nil {
			return apperrors.NewStorageError("compute header cell", err)
		}
		_ = f.SetCellValue(sheet, cell, brand)
	}
	endHeader, err := excelize.CoordinatesToCellName(len(brands)+1, 1)
	if err != nil {
		return apperrors.NewStorageError("compute header range", err)
	}
	_ = f.SetCellStyle(sheet, "A1", endHeader, headerStyle)

	values := table.Values()
	matrix := table.Matrix(brands)
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("compute row cell", err)
		}
		_ = f.SetCellValue(sheet, cell, value)
		for j, volume := range matrix[i] {
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return apperrors.NewStorageError("compute data cell", err)
			}
			_ = f.SetCellValue(sheet, cell, volume)
		}
	}
	return nil
}
