package analytics

import (
	"database/sql"
	"math"

	"NavScan/internal/domain/models"
	"NavScan/internal/services/features"
)

// TagTicker marks outliers and burst clusters on one ticker's ordered rows.
//
// The z-score of every row is taken against the mean and sample stddev of the
// ticker's whole Return series. When that stddev is zero or undefined no row
// is an outlier. A row is a cluster member when it is an outlier and at least
// MinHits outliers fall in the trailing Window rows ending at it.
func TagTicker(rows []models.PriceRecord, p Params) []models.TaggedRecord {
	out := make([]models.TaggedRecord, len(rows))
	returns := make([]sql.NullFloat64, len(rows))
	for i, r := range rows {
		out[i].PriceRecord = r
		returns[i] = r.Return
	}

	mean, std, ok := features.MeanStd(features.Valid(returns))
	if ok && std > 0 && !math.IsNaN(std) {
		for i, r := range returns {
			if !r.Valid {
				continue
			}
			z := (r.Float64 - mean) / std
			out[i].ZScore = sql.NullFloat64{Float64: z, Valid: true}
			out[i].Outlier = math.Abs(z) > p.ZThresh
		}
	}

	flags := make([]bool, len(out))
	for i := range out {
		flags[i] = out[i].Outlier
	}
	hits := features.RollingCount(flags, p.Window)
	for i := range out {
		out[i].Cluster = out[i].Outlier && hits[i] >= p.MinHits
	}
	return out
}

// GroupByTicker splits the flat table into per-ticker row sequences. Tickers
// are returned in order of first appearance and rows keep their input order.
func GroupByTicker(rows []models.PriceRecord) ([]string, map[string][]models.PriceRecord) {
	order := make([]string, 0)
	groups := make(map[string][]models.PriceRecord)
	for _, r := range rows {
		if _, seen := groups[r.Ticker]; !seen {
			order = append(order, r.Ticker)
		}
		groups[r.Ticker] = append(groups[r.Ticker], r)
	}
	return order, groups
}

// CountFlags returns the number of cluster and outlier rows.
func CountFlags(rows []models.TaggedRecord) (bursts, outliers int) {
	for _, r := range rows {
		if r.Cluster {
			bursts++
		}
		if r.Outlier {
			outliers++
		}
	}
	return bursts, outliers
}

// Bursts returns the cluster rows in date order.
func Bursts(rows []models.TaggedRecord) []models.TaggedRecord {
	out := make([]models.TaggedRecord, 0)
	for _, r := range rows {
		if r.Cluster {
			out = append(out, r)
		}
	}
	return out
}
