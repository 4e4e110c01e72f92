package dataprocessing

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"newsprep/internal/errors"
	"newsprep/pkg/contracts/domain"
)

// Analyzer produces summary diagnostics over a cleaned news dataset:
// headline-length distribution, most active publishers and article counts
// per day. It consolidates the post-cleaning reporting in one place so
// the CLI and tests share the same numbers.
type Analyzer struct {
	logger        *slog.Logger
	topPublishers int
	dateFormat    string
}

// AnalyzerConfig holds configuration options for the Analyzer.
type AnalyzerConfig struct {
	TopPublishers int    // Number of publishers to report; defaults to 10
	DateFormat    string // Format for date bucket labels; defaults to 2006-01-02
}

// HeadlineStats describes the distribution of headline lengths.
type HeadlineStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// PublisherCount is the number of articles attributed to one publisher.
type PublisherCount struct {
	Publisher string `json:"publisher"`
	Articles  int    `json:"articles"`
}

// DailyCount is the number of articles published on one calendar day.
type DailyCount struct {
	Date     string `json:"date"`
	Articles int    `json:"articles"`
}

// DatasetSummary bundles all diagnostics for JSON output.
type DatasetSummary struct {
	Rows            int              `json:"rows"`
	HeadlineLengths HeadlineStats    `json:"headline_lengths"`
	TopPublishers   []PublisherCount `json:"top_publishers"`
	DailyCounts     []DailyCount     `json:"daily_counts"`
	GeneratedAt     string           `json:"generated_at"`
}

// NewAnalyzer creates a new dataset analyzer with the given configuration.
func NewAnalyzer(logger *slog.Logger, config AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopPublishers <= 0 {
		config.TopPublishers = 10
	}
	if config.DateFormat == "" {
		config.DateFormat = "2006-01-02"
	}

	return &Analyzer{
		logger:        logger,
		topPublishers: config.TopPublishers,
		dateFormat:    config.DateFormat,
	}
}

// Summarize computes all diagnostics for a cleaned dataset.
func (a *Analyzer) Summarize(ctx context.Context, ds *domain.Dataset) DatasetSummary {
	summary := DatasetSummary{
		Rows:            ds.NumRows(),
		HeadlineLengths: a.HeadlineLengthStats(ds),
		TopPublishers:   a.TopPublishers(ds),
		DailyCounts:     a.DailyArticleCounts(ds),
		GeneratedAt:     time.Now().Format(time.RFC3339),
	}

	a.logger.InfoContext(ctx, "dataset summary generated",
		slog.Int("rows", summary.Rows),
		slog.Int("publishers", len(summary.TopPublishers)),
		slog.Int("days", len(summary.DailyCounts)))
	return summary
}

// HeadlineLengthStats computes describe-style statistics over the
// headline_length column. Missing values are skipped.
func (a *Analyzer) HeadlineLengthStats(ds *domain.Dataset) HeadlineStats {
	values, ok := ds.Column(HeadlineLengthColumn)
	if !ok {
		return HeadlineStats{}
	}

	var lengths []float64
	for _, v := range values {
		if v.Kind() == domain.KindNumber {
			lengths = append(lengths, v.Num())
		}
	}
	if len(lengths) == 0 {
		return HeadlineStats{}
	}
	sort.Float64s(lengths)

	var sum float64
	for _, l := range lengths {
		sum += l
	}
	mean := sum / float64(len(lengths))

	var sqDiff float64
	for _, l := range lengths {
		sqDiff += (l - mean) * (l - mean)
	}
	std := 0.0
	if len(lengths) > 1 {
		// Sample standard deviation, matching the usual describe output.
		std = math.Sqrt(sqDiff / float64(len(lengths)-1))
	}

	return HeadlineStats{
		Count:  len(lengths),
		Mean:   mean,
		Std:    std,
		Min:    lengths[0],
		Q25:    quantile(lengths, 0.25),
		Median: quantile(lengths, 0.5),
		Q75:    quantile(lengths, 0.75),
		Max:    lengths[len(lengths)-1],
	}
}

// quantile computes a linearly-interpolated quantile of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// TopPublishers counts articles per publisher and returns the most
// active ones, ties broken alphabetically for stable output.
func (a *Analyzer) TopPublishers(ds *domain.Dataset) []PublisherCount {
	values, ok := ds.Column("publisher")
	if !ok {
		return nil
	}

	byPublisher := make(map[string]int)
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		byPublisher[v.Str()]++
	}

	counts := make([]PublisherCount, 0, len(byPublisher))
	for publisher, n := range byPublisher {
		counts = append(counts, PublisherCount{Publisher: publisher, Articles: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Articles != counts[j].Articles {
			return counts[i].Articles > counts[j].Articles
		}
		return counts[i].Publisher < counts[j].Publisher
	})

	if len(counts) > a.topPublishers {
		counts = counts[:a.topPublishers]
	}
	return counts
}

// DailyArticleCounts buckets rows by the calendar day of the date column,
// sorted chronologically. Rows whose date is not a timestamp are skipped.
func (a *Analyzer) DailyArticleCounts(ds *domain.Dataset) []DailyCount {
	values, ok := ds.Column("date")
	if !ok {
		return nil
	}

	byDay := make(map[string]int)
	for _, v := range values {
		if v.Kind() != domain.KindTime {
			continue
		}
		byDay[v.Time().Format(a.dateFormat)]++
	}

	counts := make([]DailyCount, 0, len(byDay))
	for day, n := range byDay {
		counts = append(counts, DailyCount{Date: day, Articles: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Date < counts[j].Date
	})
	return counts
}

// WriteJSON writes a dataset summary to a JSON file.
func (a *Analyzer) WriteJSON(ctx context.Context, path string, summary DatasetSummary) error {
	a.logger.InfoContext(ctx, "writing dataset summary to JSON",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for JSON output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON file for dataset summary", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(summary); err != nil {
		return errors.NewStorageError("failed to encode dataset summary to JSON", err)
	}

	return nil
}
