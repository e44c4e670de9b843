package features

import (
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPctChange(t *testing.T) {
	got := PctChange([]float64{10, 11, 9.9, 0, 5})

	require.Len(t, got, 5)
	assert.False(t, got[0].Valid, "first return is undefined")
	assert.InDelta(t, 0.1, got[1].Float64, 1e-12)
	assert.InDelta(t, -0.1, got[2].Float64, 1e-12)
	assert.InDelta(t, -1.0, got[3].Float64, 1e-12)
	assert.False(t, got[4].Valid, "zero base yields no return")
}

func TestPctChangeEmpty(t *testing.T) {
	assert.Empty(t, PctChange(nil))
	got := PctChange([]float64{42})
	require.Len(t, got, 1)
	assert.False(t, got[0].Valid)
}

func TestMeanStd(t *testing.T) {
	mean, std, ok := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.True(t, ok)
	assert.InDelta(t, 5.0, mean, 1e-12)
	// sample stddev: sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), std, 1e-12)

	_, _, ok = MeanStd([]float64{1})
	assert.False(t, ok)
}

func TestRollingStd(t *testing.T) {
	series := []sql.NullFloat64{
		{},
		{Float64: 1, Valid: true},
		{Float64: 2, Valid: true},
		{Float64: 3, Valid: true},
		{Float64: 5, Valid: true},
	}
	got := RollingStd(series, 3)

	require.Len(t, got, 5)
	assert.False(t, got[0].Valid)
	assert.False(t, got[1].Valid)
	assert.False(t, got[2].Valid, "window containing an undefined value stays undefined")
	assert.InDelta(t, 1.0, got[3].Float64, 1e-12)
	assert.True(t, got[3].Valid)
	assert.InDelta(t, math.Sqrt(7.0/3.0), got[4].Float64, 1e-12)
}

func TestRollingCount(t *testing.T) {
	flags := []bool{true, false, true, true, false, false, true}
	assert.Equal(t, []int{1, 1, 2, 2, 2, 1, 1}, RollingCount(flags, 3))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestSMAAlignment(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)

	require.Len(t, got, 5)
	assert.False(t, got[0].Valid)
	assert.False(t, got[1].Valid)
	assert.InDelta(t, 2.0, got[2].Float64, 1e-12)
	assert.InDelta(t, 3.0, got[3].Float64, 1e-12)
	assert.InDelta(t, 4.0, got[4].Float64, 1e-12)

	short := SMA([]float64{1, 2}, 3)
	for _, v := range short {
		assert.False(t, v.Valid)
	}
}
