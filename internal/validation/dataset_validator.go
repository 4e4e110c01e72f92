package validation

import (
	"fmt"
	"log/slog"
	"strings"

	"newsprep/internal/dataprocessing"
	"newsprep/pkg/contracts/domain"
)

// RequiredColumns is the schema every validated news dataset must carry.
var RequiredColumns = []string{"headline", "url", "publisher", "date", "stock"}

// maxBadDateSample caps how many distinct unparseable date values are
// quoted in a validation reason.
const maxBadDateSample = 5

// DatasetValidator checks a loaded dataset against the required news
// schema. It never mutates its input and reports data-quality problems
// as a negative result rather than an error.
type DatasetValidator struct {
	logger          *slog.Logger
	requiredColumns []string
}

// NewDatasetValidator creates a validator for the standard news schema.
func NewDatasetValidator(logger *slog.Logger) *DatasetValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetValidator{
		logger:          logger,
		requiredColumns: RequiredColumns,
	}
}

// Validate checks required-column presence, null values in required
// columns, and date parseability, in that order. It returns (true, "")
// for a valid dataset, otherwise (false, reason). Only the first failing
// check contributes to the reason, but that check reports every offender
// it found.
func (v *DatasetValidator) Validate(ds *domain.Dataset) (bool, string) {
	if ds == nil {
		return false, "dataset is nil"
	}

	if missing := v.missingColumns(ds); len(missing) > 0 {
		return false, fmt.Sprintf("missing required columns: [%s]", strings.Join(missing, " "))
	}

	if counts := v.nullCounts(ds); len(counts) > 0 {
		return false, fmt.Sprintf("found null values in columns: {%s}", strings.Join(counts, ", "))
	}

	if bad, truncated := v.unparseableDates(ds); len(bad) > 0 {
		reason := fmt.Sprintf("some dates could not be parsed: [%s]", strings.Join(bad, " "))
		if truncated {
			reason += "..."
		}
		return false, reason
	}

	return true, ""
}

// missingColumns returns the required columns absent from the dataset,
// in schema order.
func (v *DatasetValidator) missingColumns(ds *domain.Dataset) []string {
	var missing []string
	for _, col := range v.requiredColumns {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// nullCounts returns "column: count" entries for every required column
// with at least one missing value, in schema order.
func (v *DatasetValidator) nullCounts(ds *domain.Dataset) []string {
	var counts []string
	for _, col := range v.requiredColumns {
		values, _ := ds.Column(col)
		n := 0
		for _, val := range values {
			if val.IsMissing() {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, fmt.Sprintf("%s: %d", col, n))
		}
	}
	return counts
}

// unparseableDates returns up to maxBadDateSample distinct raw date
// values that a lenient coercion cannot parse, and whether more exist.
func (v *DatasetValidator) unparseableDates(ds *domain.Dataset) ([]string, bool) {
	values, _ := ds.Column("date")

	seen := make(map[string]bool)
	var bad []string
	truncated := false
	for _, val := range values {
		if _, ok := dataprocessing.CoerceTimestamp(val); ok {
			continue
		}
		raw := val.String()
		if seen[raw] {
			continue
		}
		seen[raw] = true
		if len(bad) == maxBadDateSample {
			truncated = true
			break
		}
		bad = append(bad, raw)
	}

	if len(bad) > 0 {
		v.logger.Debug("date validation found unparseable values",
			slog.Int("distinct_shown", len(bad)),
			slog.Bool("truncated", truncated))
	}
	return bad, truncated
}
