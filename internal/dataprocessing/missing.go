package dataprocessing

import (
	"context"
	"log/slog"

	"newsprep/pkg/contracts/domain"
)

// DropIncomplete removes every row with a missing value in any of the
// required columns and returns the filtered dataset. Column set and the
// order of retained rows are unchanged. A nil required slice means the
// configured defaults. Required columns absent from the dataset are
// ignored. The number of dropped rows is logged when greater than zero.
func (p *Preprocessor) DropIncomplete(ctx context.Context, ds *domain.Dataset, required []string) *domain.Dataset {
	if required == nil {
		required = p.requiredColumns
	}

	present := make([]string, 0, len(required))
	for _, col := range required {
		if ds.HasColumn(col) {
			present = append(present, col)
		}
	}

	before := ds.NumRows()
	out := ds.Filter(func(row int) bool {
		for _, col := range present {
			if v, _ := ds.At(row, col); v.IsMissing() {
				return false
			}
		}
		return true
	})

	if dropped := before - out.NumRows(); dropped > 0 {
		p.logger.WarnContext(ctx, "dropped rows with missing values in required columns",
			slog.Int("rows_dropped", dropped),
			slog.Any("required_columns", required))
	}

	return out
}
