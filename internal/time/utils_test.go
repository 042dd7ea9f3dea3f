package timeutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/nnresults/internal/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{" 2024-01-02 ", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-02 10:30", time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-02T10:30:15Z", time.Date(2024, 1, 2, 10, 30, 15, 0, time.UTC), true},
		{"2024/01/02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestAlignTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 10, 37, 0, 0, time.UTC)

	tests := []struct {
		resolution, alignment string
		want                  time.Time
	}{
		{"1m", "floor", ts},
		{"5m", "floor", time.Date(2024, 1, 2, 10, 35, 0, 0, time.UTC)},
		{"5m", "ceil", time.Date(2024, 1, 2, 10, 40, 0, 0, time.UTC)},
		{"5m", "round", time.Date(2024, 1, 2, 10, 35, 0, 0, time.UTC)},
		{"1h", "round", time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)},
		{"1d", "floor", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"1d", "ceil", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.resolution+"/"+tt.alignment, func(t *testing.T) {
			got, err := AlignTimestamp(ts, tt.resolution, tt.alignment)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := AlignTimestamp(ts, "2h", "floor")
	assert.Error(t, err)
	_, err = AlignTimestamp(ts, "1h", "nearest")
	assert.Error(t, err)
}

func TestBuildHistory(t *testing.T) {
	points := []models.SeriesPoint{
		{Date: "2024-01-01", Value: 0.5},
		{Date: "not a date", Value: 0.4},
		{Date: "2024-01-04", Value: 0.2},
	}
	fallback := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	t.Run("auto", func(t *testing.T) {
		got, err := BuildHistory("loss", points, models.TimeConfig{Resolution: "1d", Alignment: "floor", StepMode: "auto"}, fallback)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "loss", got[0].Key)
		assert.True(t, day(1).Equal(got[0].Timestamp))
		assert.Equal(t, int64(0), got[0].Step)

		assert.True(t, fallback.Equal(got[1].Timestamp))
		assert.Equal(t, int64(1), got[1].Step)

		assert.True(t, day(4).Equal(got[2].Timestamp))
		assert.Equal(t, int64(3), got[2].Step)
		assert.Equal(t, 0.2, got[2].Value)
	})

	t.Run("sequence", func(t *testing.T) {
		got, err := BuildHistory("loss", points, models.TimeConfig{Resolution: "1d", Alignment: "floor", StepMode: "sequence"}, fallback)
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 1, 2}, []int64{got[0].Step, got[1].Step, got[2].Step})
	})

	t.Run("timestamp", func(t *testing.T) {
		got, err := BuildHistory("loss", points, models.TimeConfig{Resolution: "1d", Alignment: "floor", StepMode: "timestamp"}, fallback)
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 31, 3}, []int64{got[0].Step, got[1].Step, got[2].Step})
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := BuildHistory("loss", points, models.TimeConfig{Resolution: "1d", Alignment: "floor", StepMode: "random"}, fallback)
		assert.Error(t, err)

		_, err = BuildHistory("loss", points, models.TimeConfig{Resolution: "1w", Alignment: "floor", StepMode: "auto"}, fallback)
		assert.Error(t, err)
	})
}
