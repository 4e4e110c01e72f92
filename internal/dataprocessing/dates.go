package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"newsprep/internal/errors"
	"newsprep/pkg/contracts/domain"
)

// ParsePolicy controls how unparseable date values are handled.
type ParsePolicy int

const (
	// ParseStrict aborts the whole operation on the first unparseable value.
	ParseStrict ParsePolicy = iota
	// ParseCoerce replaces unparseable values with the missing marker and
	// never fails.
	ParseCoerce
)

// ParseTimestamp parses an arbitrary date string to a timezone-naive
// timestamp. Any timezone offset in the input is stripped, keeping the
// wall-clock reading of the original zone.
func ParseTimestamp(raw string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return stripZone(t), nil
}

// stripZone drops the zone while keeping the wall-clock reading.
func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// CoerceTimestamp leniently coerces a cell to a timestamp. Missing values
// stay missing and already-typed timestamps pass through; both count as
// coercible. The second return is false only for values no date parser
// can make sense of.
func CoerceTimestamp(v domain.Value) (domain.Value, bool) {
	switch v.Kind() {
	case domain.KindMissing:
		return v, true
	case domain.KindTime:
		return domain.TimeValue(stripZone(v.Time())), true
	case domain.KindString:
		t, err := ParseTimestamp(v.Str())
		if err != nil {
			return domain.MissingValue(), false
		}
		return domain.TimeValue(t), true
	default:
		return domain.MissingValue(), false
	}
}

// ParseDates parses the named column to timezone-naive timestamps in
// place and returns the dataset. The column must exist; that is checked
// before any parsing work. Under ParseStrict the first unparseable value
// fails the whole operation and the dataset is left untouched; parsed
// values are committed only after every row has parsed. Under
// ParseCoerce unparseable values become missing and the call always
// succeeds.
func (p *Preprocessor) ParseDates(ctx context.Context, ds *domain.Dataset, column string, policy ParsePolicy) (*domain.Dataset, error) {
	if !ds.HasColumn(column) {
		err := errors.NewColumnNotFoundError(column)
		p.logger.ErrorContext(ctx, "date column not found",
			slog.String("column", column))
		return nil, err
	}

	parsed := make([]domain.Value, ds.NumRows())
	coerced := 0
	for row := 0; row < ds.NumRows(); row++ {
		v, _ := ds.At(row, column)
		out, ok := CoerceTimestamp(v)
		if !ok && policy == ParseStrict {
			err := errors.NewParsingError(
				fmt.Sprintf("unparseable date %q in column %q", v.String(), column), nil).
				WithContext("row", row)
			p.logger.ErrorContext(ctx, "error parsing dates",
				slog.String("column", column),
				slog.Int("row", row),
				slog.String("value", v.String()))
			return nil, err
		}
		if !ok {
			coerced++
		}
		parsed[row] = out
	}
	for row, v := range parsed {
		ds.SetAt(row, column, v)
	}

	if coerced > 0 {
		p.logger.WarnContext(ctx, "coerced unparseable dates to missing",
			slog.String("column", column),
			slog.Int("count", coerced))
	}
	p.logger.InfoContext(ctx, "parsed column to timestamps",
		slog.String("column", column))
	return ds, nil
}
