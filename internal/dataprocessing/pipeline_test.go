package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "newsprep/internal/errors"
	"newsprep/pkg/contracts/domain"
)

func rawNewsDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	ds := domain.NewDataset([]string{"Headline", "URL", "Publisher", "Date", "Stock"})
	require.NoError(t, ds.AppendRow([]domain.Value{
		domain.StringValue("Test headline 1"),
		domain.StringValue("http://test1.com"),
		domain.StringValue("Publisher 1"),
		domain.StringValue("2023-01-01 10:00:00-04:00"),
		domain.StringValue("AAPL"),
	}))
	require.NoError(t, ds.AppendRow([]domain.Value{
		domain.StringValue("Test headline 2"),
		domain.StringValue("http://test2.com"),
		domain.StringValue("Publisher 2"),
		domain.StringValue("2023-01-02 11:00:00-04:00"),
		domain.StringValue("GOOGL"),
	}))
	return ds
}

func TestPreprocessEmptyInput(t *testing.T) {
	p := NewPreprocessor(nil, DefaultPreprocessorConfig())

	tests := []struct {
		name string
		ds   *domain.Dataset
	}{
		{"nil dataset", nil},
		{"zero rows", domain.NewDataset([]string{"headline"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Preprocess(context.Background(), tt.ds)

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptyInput))
		})
	}
}

func TestPreprocessFullPipeline(t *testing.T) {
	p := NewPreprocessor(nil, DefaultPreprocessorConfig())
	raw := rawNewsDataset(t)

	out, err := p.Preprocess(context.Background(), raw)
	require.NoError(t, err)

	// all column names lowercase, derived column appended
	assert.Equal(t, []string{"headline", "url", "publisher", "date", "stock", "headline_length"}, out.Columns())

	// date column is timezone-naive timestamps
	for row := 0; row < out.NumRows(); row++ {
		v, _ := out.At(row, "date")
		require.Equal(t, domain.KindTime, v.Kind())
		assert.Equal(t, time.UTC, v.Time().Location())
	}

	// fully populated input keeps its row count and has no missing values
	require.Equal(t, raw.NumRows(), out.NumRows())
	for row := 0; row < out.NumRows(); row++ {
		for _, col := range out.Columns() {
			v, _ := out.At(row, col)
			assert.False(t, v.IsMissing(), "row %d column %s", row, col)
		}
	}

	length, _ := out.At(0, "headline_length")
	assert.Equal(t, float64(len("Test headline 1")), length.Num())
}

func TestPreprocessDoesNotMutateCaller(t *testing.T) {
	p := NewPreprocessor(nil, DefaultPreprocessorConfig())
	raw := rawNewsDataset(t)

	_, err := p.Preprocess(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Headline", "URL", "Publisher", "Date", "Stock"}, raw.Columns())
	v, _ := raw.At(0, "Date")
	assert.Equal(t, domain.KindString, v.Kind())
	assert.Equal(t, "2023-01-01 10:00:00-04:00", v.Str())
}

func TestPreprocessPropagatesStepFailure(t *testing.T) {
	p := NewPreprocessor(nil, DefaultPreprocessorConfig())

	t.Run("no date column", func(t *testing.T) {
		ds := domain.NewDataset([]string{"Headline", "Stock"})
		require.NoError(t, ds.AppendRow([]domain.Value{
			domain.StringValue("Test"),
			domain.StringValue("AAPL"),
		}))

		_, err := p.Preprocess(context.Background(), ds)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeColumnNotFound))
	})

	t.Run("unparseable date in strict mode", func(t *testing.T) {
		ds := domain.NewDataset([]string{"Headline", "Date", "Stock"})
		require.NoError(t, ds.AppendRow([]domain.Value{
			domain.StringValue("Test"),
			domain.StringValue("garbage"),
			domain.StringValue("AAPL"),
		}))

		_, err := p.Preprocess(context.Background(), ds)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})
}

func TestDropIncomplete(t *testing.T) {
	p := NewPreprocessor(nil, DefaultPreprocessorConfig())

	ds := domain.NewDataset([]string{"date", "headline", "stock"})
	require.NoError(t, ds.AppendRow([]domain.Value{
		domain.StringValue("2023-01-01"),
		domain.StringValue("Test"),
		domain.StringValue("AAPL"),
	}))
	require.NoError(t, ds.AppendRow([]domain.Value{
		domain.MissingValue(),
		domain.StringValue("Test"),
		domain.StringValue("GOOGL"),
	}))

	out := p.DropIncomplete(context.Background(), ds, nil)

	require.Equal(t, 1, out.NumRows())
	v, _ := out.At(0, "date")
	assert.False(t, v.IsMissing())
	assert.Equal(t, "2023-01-01", v.Str())
	// input keeps both rows
	assert.Equal(t, 2, ds.NumRows())
}

func TestDropIncompleteCustomColumns(t *testing.T) {
	p := NewPreprocessor(nil, DefaultPreprocessorConfig())

	ds := domain.NewDataset([]string{"headline", "url"})
	require.NoError(t, ds.AppendRow([]domain.Value{
		domain.StringValue("Test"),
		domain.MissingValue(),
	}))

	t.Run("missing url drops row", func(t *testing.T) {
		out := p.DropIncomplete(context.Background(), ds, []string{"url"})
		assert.Equal(t, 0, out.NumRows())
	})

	t.Run("absent required column is ignored", func(t *testing.T) {
		out := p.DropIncomplete(context.Background(), ds, []string{"headline", "stock"})
		assert.Equal(t, 1, out.NumRows())
	})
}
