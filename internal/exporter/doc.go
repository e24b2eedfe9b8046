// Package exporter writes analysis results to disk: per-run CSV files for
// downstream tooling and a formatted Excel workbook mirroring the report
// layout analysts expect (summary sheet plus one sheet per pivot).
package exporter
