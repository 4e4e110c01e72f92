package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"newsprep/internal/errors"
	"newsprep/pkg/contracts/domain"
)

// CSVWriter writes cleaned datasets and diagnostic tables to CSV files.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create file", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV writer", err)
	}
	return nil
}

// WriteDataset writes a dataset to a CSV file, one row per record with
// the column names as header. Missing values render as empty cells.
func (w *CSVWriter) WriteDataset(path string, ds *domain.Dataset) error {
	columns := ds.Columns()
	records := make([][]string, ds.NumRows())
	for row := 0; row < ds.NumRows(); row++ {
		record := make([]string, len(columns))
		for i, col := range columns {
			v, _ := ds.At(row, col)
			record[i] = v.String()
		}
		records[row] = record
	}

	return w.WriteCSV(path, WriteOptions{
		Headers:   columns,
		Records:   records,
		BOMPrefix: true,
	})
}
