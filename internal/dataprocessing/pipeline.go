package dataprocessing

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"newsprep/internal/errors"
	"newsprep/pkg/contracts/domain"
)

// HeadlineLengthColumn is the derived column appended by Preprocess.
const HeadlineLengthColumn = "headline_length"

// Preprocessor cleans a raw news dataset: standardized column names,
// timezone-naive date timestamps, rows with missing critical fields
// removed, and a derived headline-length column.
type Preprocessor struct {
	logger          *slog.Logger
	dateColumn      string
	requiredColumns []string
}

// PreprocessorConfig holds configuration options for the Preprocessor.
type PreprocessorConfig struct {
	DateColumn      string   // Column parsed to timestamps; defaults to "date"
	RequiredColumns []string // Columns that must be non-missing; defaults to date, headline, stock
}

// DefaultPreprocessorConfig returns the standard pipeline defaults.
func DefaultPreprocessorConfig() PreprocessorConfig {
	return PreprocessorConfig{
		DateColumn:      "date",
		RequiredColumns: []string{"date", "headline", "stock"},
	}
}

// NewPreprocessor creates a preprocessor with the given configuration.
func NewPreprocessor(logger *slog.Logger, config PreprocessorConfig) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DateColumn == "" {
		config.DateColumn = "date"
	}
	if len(config.RequiredColumns) == 0 {
		config.RequiredColumns = []string{"date", "headline", "stock"}
	}

	return &Preprocessor{
		logger:          logger,
		dateColumn:      config.DateColumn,
		requiredColumns: config.RequiredColumns,
	}
}

// Preprocess runs the full cleaning pipeline over a defensive copy of ds:
// standardize column names, parse the date column strictly, drop rows
// with missing required values, then append the headline-length column.
// The caller's dataset is never mutated. A step failure aborts the whole
// operation; the error is re-logged and returned with its kind unchanged.
func (p *Preprocessor) Preprocess(ctx context.Context, ds *domain.Dataset) (*domain.Dataset, error) {
	if ds == nil || ds.Empty() {
		err := errors.NewEmptyInputError("input dataset is empty")
		p.logger.ErrorContext(ctx, "error during preprocessing",
			slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.InfoContext(ctx, "starting data preprocessing",
		slog.Int("rows", ds.NumRows()),
		slog.Int("columns", ds.NumCols()))

	out := ds.Copy()

	out = p.StandardizeColumnNames(out)

	out, err := p.ParseDates(ctx, out, p.dateColumn, ParseStrict)
	if err != nil {
		p.logger.ErrorContext(ctx, "error during preprocessing",
			slog.String("step", "parse_dates"),
			slog.String("error", err.Error()))
		return nil, err
	}

	out = p.DropIncomplete(ctx, out, nil)

	if err := p.appendHeadlineLength(ctx, out); err != nil {
		p.logger.ErrorContext(ctx, "error during preprocessing",
			slog.String("step", "headline_length"),
			slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.InfoContext(ctx, "data preprocessing completed",
		slog.Int("rows", out.NumRows()),
		slog.Int("columns", out.NumCols()))
	return out, nil
}

// appendHeadlineLength derives the character count of the headline column.
// Datasets without a headline column are left unchanged.
func (p *Preprocessor) appendHeadlineLength(ctx context.Context, ds *domain.Dataset) error {
	headlines, ok := ds.Column("headline")
	if !ok {
		p.logger.DebugContext(ctx, "no headline column, skipping derived length column")
		return nil
	}

	lengths := make([]domain.Value, len(headlines))
	for i, h := range headlines {
		if h.IsMissing() {
			lengths[i] = domain.MissingValue()
			continue
		}
		lengths[i] = domain.NumberValue(float64(utf8.RuneCountInString(h.Str())))
	}

	// Recompute in place when the column is already there.
	if ds.HasColumn(HeadlineLengthColumn) {
		for i, v := range lengths {
			ds.SetAt(i, HeadlineLengthColumn, v)
		}
		return nil
	}
	return ds.AddColumn(HeadlineLengthColumn, lengths)
}
