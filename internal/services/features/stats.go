package features

import (
	"database/sql"
	"math"
	"sort"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"gonum.org/v1/gonum/stat"
)

// MeanStd returns the mean and sample (n-1) standard deviation of values.
// ok is false when fewer than two values are given.
func MeanStd(values []float64) (mean, std float64, ok bool) {
	if len(values) < 2 {
		return 0, 0, false
	}
	mean, std = stat.MeanStdDev(values, nil)
	return mean, std, true
}

// RollingStd computes the trailing sample standard deviation over window rows.
// A position is defined only when every value in its window is defined.
func RollingStd(series []sql.NullFloat64, window int) []sql.NullFloat64 {
	out := make([]sql.NullFloat64, len(series))
	if window < 2 {
		return out
	}
	buf := make([]float64, window)
	for i := window - 1; i < len(series); i++ {
		full := true
		for j := 0; j < window; j++ {
			v := series[i-window+1+j]
			if !v.Valid {
				full = false
				break
			}
			buf[j] = v.Float64
		}
		if !full {
			continue
		}
		out[i] = sql.NullFloat64{Float64: stat.StdDev(buf, nil), Valid: true}
	}
	return out
}

// RollingCount counts true flags in the trailing window ending at each row,
// using however many rows exist near the start of the series.
func RollingCount(flags []bool, window int) []int {
	out := make([]int, len(flags))
	n := 0
	for i, f := range flags {
		if f {
			n++
		}
		if i >= window && flags[i-window] {
			n--
		}
		out[i] = n
	}
	return out
}

// Median returns the median of values, averaging the two middle elements for
// even-length input. NaN is returned for empty input.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// SMA computes a simple moving average aligned to the input: the first
// period-1 positions are invalid.
func SMA(values []float64, period int) []sql.NullFloat64 {
	out := make([]sql.NullFloat64, len(values))
	if period < 1 || len(values) < period {
		return out
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	avg := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	offset := len(values) - len(avg)
	for i, v := range avg {
		out[offset+i] = sql.NullFloat64{Float64: v, Valid: true}
	}
	return out
}
