package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

// Reader loads survey records from Excel workbooks.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a workbook reader. A nil logger falls back to
// slog.Default().
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// SheetNames lists the sheets in a workbook, in workbook order.
func (r *Reader) SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("open workbook %s", path), err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadSheet materializes one sheet as survey records. The header row is the
// first row with at least two non-blank cells; every following non-empty
// row becomes one Record keyed by the header. Cells are trimmed; blank
// header cells and columns beyond the header width are discarded. An empty
// sheet name means the workbook's first sheet.
func (r *Reader) ReadSheet(ctx context.Context, path, sheet string) ([]domain.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("open workbook %s", path), err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read sheet %q", sheet), err)
	}

	headerRow, header := findHeader(rows)
	if headerRow < 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %q has no header row", sheet), nil)
	}

	records := make([]domain.Record, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		record := buildRecord(header, rows[i])
		if record == nil {
			continue
		}
		records = append(records, record)
	}

	r.logger.InfoContext(ctx, "survey sheet loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("header_row", headerRow),
		slog.Int("columns", len(header)),
		slog.Int("records", len(records)))

	return records, nil
}

// findHeader locates the first plausible header row: the survey templates
// sometimes carry a title or export banner above the real header, so rows
// with fewer than two non-blank cells are skipped.
func findHeader(rows [][]string) (int, []string) {
	for i, row := range rows {
		filled := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
		if filled >= 2 {
			header := make([]string, len(row))
			for j, cell := range row {
				header[j] = strings.TrimSpace(cell)
			}
			return i, header
		}
	}
	return -1, nil
}

// buildRecord maps one data row onto the header. Rows whose cells are all
// blank yield nil.
func buildRecord(header []string, row []string) domain.Record {
	record := make(domain.Record, len(header))
	hasData := false
	for j, column := range header {
		if column == "" || j >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[j])
		if value == "" {
			continue
		}
		record[column] = value
		hasData = true
	}
	if !hasData {
		return nil
	}
	return record
}

// FilterByColumn keeps the records whose trimmed cell in the given column
// equals value. An empty value (or the conventional "All") disables the
// filter and returns the input unchanged.
func FilterByColumn(records []domain.Record, column, value string) []domain.Record {
	if value == "" || strings.EqualFold(value, "All") || column == "" {
		return records
	}
	filtered := make([]domain.Record, 0, len(records))
	for _, record := range records {
		if record.Get(column) == value {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
