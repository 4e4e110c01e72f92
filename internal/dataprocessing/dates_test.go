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

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "plain date",
			raw:  "2023-01-01",
			want: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "datetime with offset keeps wall clock",
			raw:  "2023-01-01 10:00:00-04:00",
			want: time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339",
			raw:  "2023-06-15T08:30:00Z",
			want: time.Date(2023, 6, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name: "slash format",
			raw:  "2023/02/03",
			want: time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			raw:     "not-a-date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestCoerceTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		value    domain.Value
		wantOK   bool
		wantKind domain.Kind
	}{
		{
			name:     "missing stays missing and is coercible",
			value:    domain.MissingValue(),
			wantOK:   true,
			wantKind: domain.KindMissing,
		},
		{
			name:     "parseable string becomes time",
			value:    domain.StringValue("2023-01-01"),
			wantOK:   true,
			wantKind: domain.KindTime,
		},
		{
			name:     "already a timestamp passes through",
			value:    domain.TimeValue(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantOK:   true,
			wantKind: domain.KindTime,
		},
		{
			name:     "unparseable string becomes missing",
			value:    domain.StringValue("garbage"),
			wantOK:   false,
			wantKind: domain.KindMissing,
		},
		{
			name:     "number is not coercible",
			value:    domain.NumberValue(42),
			wantOK:   false,
			wantKind: domain.KindMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceTimestamp(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, got.Kind())
		})
	}
}

func TestPreprocessorParseDates(t *testing.T) {
	ctx := context.Background()
	p := NewPreprocessor(nil, DefaultPreprocessorConfig())

	t.Run("missing column fails before parsing", func(t *testing.T) {
		ds := domain.NewDataset([]string{"wrong_col"})
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("2023-01-01")}))

		_, err := p.ParseDates(ctx, ds, "date", ParseStrict)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeColumnNotFound))
		// the other column is untouched
		v, _ := ds.At(0, "wrong_col")
		assert.Equal(t, domain.KindString, v.Kind())
	})

	t.Run("strict fails on unparseable value", func(t *testing.T) {
		ds := domain.NewDataset([]string{"date"})
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("2023-01-01")}))
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("garbage")}))

		_, err := p.ParseDates(ctx, ds, "date", ParseStrict)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})

	t.Run("strict failure leaves the dataset untouched", func(t *testing.T) {
		ds := domain.NewDataset([]string{"date"})
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("2023-01-01")}))
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("garbage")}))

		_, err := p.ParseDates(ctx, ds, "date", ParseStrict)

		require.Error(t, err)
		// rows before the failing one must not have been converted
		first, _ := ds.At(0, "date")
		require.Equal(t, domain.KindString, first.Kind())
		assert.Equal(t, "2023-01-01", first.Str())
		second, _ := ds.At(1, "date")
		assert.Equal(t, "garbage", second.Str())
	})

	t.Run("strict parses all values to naive timestamps", func(t *testing.T) {
		ds := domain.NewDataset([]string{"date"})
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("2023-01-01 10:00:00-04:00")}))
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("2023-01-02 11:00:00-04:00")}))

		out, err := p.ParseDates(ctx, ds, "date", ParseStrict)

		require.NoError(t, err)
		for row := 0; row < out.NumRows(); row++ {
			v, _ := out.At(row, "date")
			require.Equal(t, domain.KindTime, v.Kind())
			assert.Equal(t, time.UTC, v.Time().Location())
		}
		first, _ := out.At(0, "date")
		assert.Equal(t, 10, first.Time().Hour())
	})

	t.Run("coerce never fails and marks bad cells missing", func(t *testing.T) {
		ds := domain.NewDataset([]string{"date"})
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("2023-01-01")}))
		require.NoError(t, ds.AppendRow([]domain.Value{domain.StringValue("garbage")}))

		out, err := p.ParseDates(ctx, ds, "date", ParseCoerce)

		require.NoError(t, err)
		good, _ := out.At(0, "date")
		bad, _ := out.At(1, "date")
		assert.Equal(t, domain.KindTime, good.Kind())
		assert.True(t, bad.IsMissing())
	})
}
