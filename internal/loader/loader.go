package loader

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"newsprep/internal/dataprocessing"
	"newsprep/internal/errors"
	"newsprep/internal/validation"
	"newsprep/pkg/contracts/domain"
)

// DateColumn is the column the loader coerces to timestamps.
const DateColumn = "date"

// Loader reads a delimited news file into a Dataset, optionally validates
// it against the required schema, and types the date column.
type Loader struct {
	logger    *slog.Logger
	files     *validation.FileValidator
	validator *validation.DatasetValidator
}

// NewLoader creates a loader with the standard schema validator.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		files:     validation.NewFileValidator(logger),
		validator: validation.NewDatasetValidator(logger),
	}
}

// Load reads the file at path into a dataset. CSV is the primary format;
// .xlsx/.xls files are decoded from their first sheet and other
// extensions are rejected. When validate is
// true the dataset must satisfy the required news schema. The date column
// is always coerced to timezone-naive timestamps after validation, with
// unparseable values becoming missing, so callers that skip validation
// still get typed dates. Every failure is logged before it is returned.
func (l *Loader) Load(ctx context.Context, path string, validate bool) (*domain.Dataset, error) {
	l.logger.InfoContext(ctx, "loading data", slog.String("path", path))

	if err := l.files.ValidateFile(path); err != nil {
		appErr := errors.NewFileNotFoundError(path, err)
		l.logger.ErrorContext(ctx, "error loading data",
			slog.String("path", path),
			slog.String("error", appErr.Error()))
		return nil, appErr
	}

	ds, err := l.read(path)
	if err != nil {
		l.logger.ErrorContext(ctx, "error loading data",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	if ds.Empty() {
		appErr := errors.NewEmptyDataError("the loaded file is empty")
		l.logger.ErrorContext(ctx, "error loading data",
			slog.String("path", path),
			slog.String("error", appErr.Error()))
		return nil, appErr
	}

	if validate {
		if ok, reason := l.validator.Validate(ds); !ok {
			appErr := errors.NewValidationError(reason)
			l.logger.ErrorContext(ctx, "error loading data",
				slog.String("path", path),
				slog.String("error", appErr.Error()))
			return nil, appErr
		}
	}

	if err := l.coerceDates(ds); err != nil {
		l.logger.ErrorContext(ctx, "error loading data",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.InfoContext(ctx, "successfully loaded data",
		slog.String("path", path),
		slog.Int("rows", ds.NumRows()),
		slog.Int("columns", ds.NumCols()))
	return ds, nil
}

// read decodes the file into a dataset based on its extension.
func (l *Loader) read(path string) (*domain.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xls" {
		return l.readExcel(path)
	}
	return l.readCSV(path)
}

// readCSV decodes a comma-separated file, first row as header. Empty
// cells become the missing marker.
func (l *Loader) readCSV(path string) (*domain.Dataset, error) {
	if err := l.files.ValidateCSVFile(path); err != nil {
		return nil, errors.NewFileNotFoundError(path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileNotFoundError(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewEmptyDataError("the loaded file is empty")
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV header", err)
	}

	ds := domain.NewDataset(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read CSV record", err)
		}
		if err := ds.AppendRow(cellValues(record, len(header))); err != nil {
			return nil, errors.NewParsingError("failed to append CSV record", err)
		}
	}

	return ds, nil
}

// readExcel decodes the first sheet of an Excel workbook, first row as
// header. Short rows are padded with missing values.
func (l *Loader) readExcel(path string) (*domain.Dataset, error) {
	if err := l.files.ValidateExcelFile(path); err != nil {
		return nil, errors.NewFileNotFoundError(path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open Excel file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewEmptyDataError("the loaded file is empty")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError("failed to read Excel sheet", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewEmptyDataError("the loaded file is empty")
	}

	header := rows[0]
	ds := domain.NewDataset(header)
	for _, row := range rows[1:] {
		if err := ds.AppendRow(cellValues(row, len(header))); err != nil {
			return nil, errors.NewParsingError("failed to append Excel row", err)
		}
	}

	return ds, nil
}

// cellValues converts raw string cells to values, padding or truncating
// to width. Empty cells are the missing marker.
func cellValues(record []string, width int) []domain.Value {
	values := make([]domain.Value, width)
	for i := 0; i < width; i++ {
		if i >= len(record) || record[i] == "" {
			values[i] = domain.MissingValue()
			continue
		}
		values[i] = domain.StringValue(record[i])
	}
	return values
}

// coerceDates leniently types the date column in place. The column must
// exist even for unvalidated loads.
func (l *Loader) coerceDates(ds *domain.Dataset) error {
	if !ds.HasColumn(DateColumn) {
		return errors.NewColumnNotFoundError(DateColumn)
	}

	for row := 0; row < ds.NumRows(); row++ {
		v, _ := ds.At(row, DateColumn)
		coerced, _ := dataprocessing.CoerceTimestamp(v)
		ds.SetAt(row, DateColumn, coerced)
	}
	return nil
}
