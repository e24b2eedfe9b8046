// Package ingest reads laboratory survey workbooks into the engine's record
// model. It owns sheet discovery, header-row detection and raw-row
// materialization; brand normalization and numeric coercion stay in the
// engine so a record round-trips the sheet's raw text.
package ingest
