// Package exporter renders analytics snapshots into persisted report files.
//
// The Engine validates a snapshot, assembles it into a report.Report and
// hands that to one Serializer per format:
//
// DocumentSerializer: A4 portrait PDF with fixed page breaks after the
// Top Products table and before the Key Insights list.
//
// WorkbookSerializer: six-sheet XLSX workbook written through an injected
// WorkbookBuilder. The default builder is backed by excelize.
//
// CSVSerializer: every section in one UTF-8 CSV file with a BOM for Excel.
//
// Rendering completes in memory before the Store is called, so a failed
// export never leaves a file behind. Files are named Reports<YYYYMMDD>.<ext>
// from the engine clock and a second export on the same day replaces the
// first.
//
// Example usage:
//
//	store, _ := storage.NewLocalStore("data/reports", logger)
//	engine := exporter.NewEngine(store, exporter.WithLogger(logger))
//
//	artifact, err := engine.ExportWorkbook(ctx, &snapshot)
package exporter
