package analytics

import (
	"database/sql"
	"time"

	"NavScan/internal/domain/models"
)

var day0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// seriesFromReturns builds a ticker's rows from returns[1:]; returns[0] is
// ignored because the first row never carries a return.
func seriesFromReturns(ticker string, returns []float64) []models.PriceRecord {
	rows := make([]models.PriceRecord, len(returns))
	nav := 100.0
	for i := range returns {
		r := models.PriceRecord{Ticker: ticker, Date: day0.AddDate(0, 0, i)}
		if i > 0 {
			nav *= 1 + returns[i]
			r.Return = sql.NullFloat64{Float64: returns[i], Valid: true}
		}
		r.NAV = nav
		rows[i] = r
	}
	return rows
}

func flat(n int) []float64 {
	return make([]float64, n)
}
