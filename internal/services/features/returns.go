package features

import (
	"database/sql"
	"math"
)

// PctChange computes simple one-step returns r_t = (v_t - v_{t-1}) / v_{t-1}.
// The first element is always invalid, as is any step whose base is zero or
// whose inputs are not finite.
func PctChange(values []float64) []sql.NullFloat64 {
	out := make([]sql.NullFloat64, len(values))
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if prev == 0 || !finite(prev) || !finite(cur) {
			continue
		}
		out[i] = sql.NullFloat64{Float64: (cur - prev) / prev, Valid: true}
	}
	return out
}

// Valid returns the defined values of series, in order.
func Valid(series []sql.NullFloat64) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
