package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

// CSVWriter writes analysis outputs as CSV files under a base directory.
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at baseDir. A nil logger falls
// back to slog.Default().
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{baseDir: baseDir, logger: logger}
}

// WriteOptions configures one CSV write.
type WriteOptions struct {
	Headers []string
	Rows    [][]string
	// BOMPrefix adds a UTF-8 byte-order mark so Excel opens the file with
	// the right encoding.
	BOMPrefix bool
}

// Write writes a CSV file relative to the base directory, creating parent
// directories as needed.
func (w *CSVWriter) Write(name string, options WriteOptions) error {
	path := filepath.Join(w.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create CSV file %s", name), err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("write CSV header row", err)
		}
	}
	for i, row := range options.Rows {
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("write CSV row %d", i), err)
		}
	}

	w.logger.Info("CSV file written",
		slog.String("path", path),
		slog.Int("rows", len(options.Rows)))

	return writer.Error()
}

// WriteResult writes one analysis run as a set of CSV files named after the
// category: a market-share table, an optional brand-values table, and one
// pivot file per computed category column.
func (w *CSVWriter) WriteResult(result *domain.AnalysisResult) error {
	if result == nil {
		return apperrors.NewValidationError("nil analysis result")
	}

	shareRows := make([][]string, 0, len(result.MarketShare))
	for _, s := range result.MarketShare {
		shareRows = append(shareRows, []string{
			s.Brand,
			formatFloat(s.Volume),
			formatFloat(s.Share),
		})
	}
	name := fmt.Sprintf("%s_market_share.csv", result.Category)
	if err := w.Write(name, WriteOptions{
		Headers:   []string{"Brand", "YearlyVolume", "SharePercent"},
		Rows:      shareRows,
		BOMPrefix: true,
	}); err != nil {
		return err
	}

	if len(result.BrandValues) > 0 {
		valueRows := make([][]string, 0, len(result.MarketShare))
		for _, s := range result.MarketShare {
			valueRows = append(valueRows, []string{
				s.Brand,
				formatFloat(result.BrandValues[s.Brand]),
			})
		}
		name := fmt.Sprintf("%s_brand_values.csv", result.Category)
		if err := w.Write(name, WriteOptions{
			Headers:   []string{"Brand", "YearlyValue"},
			Rows:      valueRows,
			BOMPrefix: true,
		}); err != nil {
			return err
		}
	}

	for column, pivotTable := range result.Pivots {
		if err := w.writePivot(result.Category, column, pivotTable); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writePivot(category, column string, table *domain.PivotTable) error {
	brands := table.Brands()
	headers := append([]string{column}, brands...)

	values := table.Values()
	matrix := table.Matrix(brands)
	rows := make([][]string, len(values))
	for i, value := range values {
		row := make([]string, 0, len(brands)+1)
		row = append(row, value)
		for _, volume := range matrix[i] {
			row = append(row, formatFloat(volume))
		}
		rows[i] = row
	}

	name := fmt.Sprintf("%s_pivot_%s.csv", category, sanitizeName(column))
	return w.Write(name, WriteOptions{Headers: headers, Rows: rows, BOMPrefix: true})
}
