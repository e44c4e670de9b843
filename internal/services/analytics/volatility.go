package analytics

import (
	"database/sql"
	"sort"
	"time"

	"NavScan/internal/domain/models"
	"NavScan/internal/services/features"
)

// RollingVolatility computes the trailing sample stddev of Return over window
// rows of a single ticker, indexed by that ticker's dates.
func RollingVolatility(ticker string, rows []models.PriceRecord, window int) models.VolatilitySeries {
	returns := make([]sql.NullFloat64, len(rows))
	for i, r := range rows {
		returns[i] = r.Return
	}
	sigma := features.RollingStd(returns, window)

	points := make([]models.VolPoint, len(rows))
	for i, r := range rows {
		points[i] = models.VolPoint{Date: r.Date, Sigma: sigma[i].Float64, Valid: sigma[i].Valid}
	}
	return models.VolatilitySeries{Ticker: ticker, Points: points}
}

// Panel aligns several volatility series on the sorted union of their dates.
type Panel struct {
	Dates   []time.Time
	Tickers []string

	index  map[int64]int
	values map[string][]sql.NullFloat64
}

// NewPanel builds the date × ticker alignment. Tickers keep the given order.
func NewPanel(series []models.VolatilitySeries) *Panel {
	p := &Panel{
		index:  make(map[int64]int),
		values: make(map[string][]sql.NullFloat64, len(series)),
	}

	seen := make(map[int64]time.Time)
	for _, s := range series {
		for _, pt := range s.Points {
			seen[pt.Date.Unix()] = pt.Date
		}
	}
	p.Dates = make([]time.Time, 0, len(seen))
	for _, d := range seen {
		p.Dates = append(p.Dates, d)
	}
	sort.Slice(p.Dates, func(i, j int) bool { return p.Dates[i].Before(p.Dates[j]) })
	for i, d := range p.Dates {
		p.index[d.Unix()] = i
	}

	for _, s := range series {
		col := make([]sql.NullFloat64, len(p.Dates))
		for _, pt := range s.Points {
			if pt.Valid {
				col[p.index[pt.Date.Unix()]] = sql.NullFloat64{Float64: pt.Sigma, Valid: true}
			}
		}
		p.Tickers = append(p.Tickers, s.Ticker)
		p.values[s.Ticker] = col
	}
	return p
}

// Value returns ticker's volatility on date d.
func (p *Panel) Value(ticker string, d time.Time) (float64, bool) {
	i, ok := p.index[d.Unix()]
	if !ok {
		return 0, false
	}
	v := p.values[ticker][i]
	return v.Float64, v.Valid
}

// PeerMedian is the per-date median over every ticker with a defined value.
func (p *Panel) PeerMedian() []models.VolPoint {
	return p.median("")
}

// PeerMedianExcluding is the per-date median over every ticker but the given one.
func (p *Panel) PeerMedianExcluding(ticker string) []models.VolPoint {
	return p.median(ticker)
}

func (p *Panel) median(exclude string) []models.VolPoint {
	out := make([]models.VolPoint, len(p.Dates))
	buf := make([]float64, 0, len(p.Tickers))
	for i, d := range p.Dates {
		buf = buf[:0]
		for _, t := range p.Tickers {
			if t == exclude {
				continue
			}
			if v := p.values[t][i]; v.Valid {
				buf = append(buf, v.Float64)
			}
		}
		out[i] = models.VolPoint{Date: d}
		if len(buf) > 0 {
			out[i].Sigma = features.Median(buf)
			out[i].Valid = true
		}
	}
	return out
}

// SmoothAlerts flags, per row of ticker, the days on which its volatility is
// below gap times the median volatility of the other tickers while the day's
// return is positive. Rows without both volatilities defined, or with a
// non-positive peer median, are never flagged.
func (p *Panel) SmoothAlerts(ticker string, rows []models.PriceRecord, gap float64) []bool {
	out := make([]bool, len(rows))
	peer := p.PeerMedianExcluding(ticker)
	for i, r := range rows {
		if !r.Return.Valid || r.Return.Float64 <= 0 {
			continue
		}
		idx, ok := p.index[r.Date.Unix()]
		if !ok {
			continue
		}
		own := p.values[ticker][idx]
		med := peer[idx]
		if !own.Valid || !med.Valid || med.Sigma <= 0 {
			continue
		}
		out[i] = own.Float64/med.Sigma < gap
	}
	return out
}
