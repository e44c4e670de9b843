package analytics

import (
	"fmt"

	"NavScan/internal/domain/models"
)

// TickerResult is everything derived for one ticker.
type TickerResult struct {
	Ticker     string
	Rows       []models.TaggedRecord
	Volatility models.VolatilitySeries
	Smooth     []bool
	Counts     Counts
	Label      models.Label
}

// Summary flattens the result for reporting and publishing.
func (r TickerResult) Summary() models.TickerSummary {
	s := models.TickerSummary{
		Ticker:     r.Ticker,
		Rows:       len(r.Rows),
		BurstDays:  r.Counts.BurstDays,
		Outliers:   r.Counts.Outliers,
		SmoothDays: r.Counts.SmoothDays,
		Label:      r.Label,
	}
	if n := len(r.Rows); n > 0 {
		s.From = r.Rows[0].Date
		s.To = r.Rows[n-1].Date
	}
	return s
}

// Result is the output of one analysis pass over the flat dataset.
type Result struct {
	Tickers    []TickerResult
	Panel      *Panel
	PeerMedian []models.VolPoint
}

// Analyze tags and volatility-scores each ticker independently, then reduces
// the volatility series into the peer medians used for the smooth alerts.
func Analyze(rows []models.PriceRecord, p Params) (*Result, error) {
	if p.Window < 1 || p.MinHits < 1 || p.VolWindow < 2 {
		return nil, fmt.Errorf("invalid analysis params: window=%d min_hits=%d vol_window=%d", p.Window, p.MinHits, p.VolWindow)
	}

	order, groups := GroupByTicker(rows)

	results := make([]TickerResult, len(order))
	series := make([]models.VolatilitySeries, len(order))
	for i, t := range order {
		g := groups[t]
		results[i] = TickerResult{
			Ticker:     t,
			Rows:       TagTicker(g, p),
			Volatility: RollingVolatility(t, g, p.VolWindow),
		}
		series[i] = results[i].Volatility
	}

	panel := NewPanel(series)
	for i := range results {
		r := &results[i]
		r.Smooth = panel.SmoothAlerts(r.Ticker, groups[r.Ticker], p.VolGap)

		bursts, outliers := CountFlags(r.Rows)
		r.Counts = Counts{BurstDays: bursts, Outliers: outliers, SmoothDays: countTrue(r.Smooth)}
		r.Label = Classify(r.Counts, p)
	}

	return &Result{
		Tickers:    results,
		Panel:      panel,
		PeerMedian: panel.PeerMedian(),
	}, nil
}

// SeriesByTicker indexes the per-ticker volatility series.
func (r *Result) SeriesByTicker() map[string]models.VolatilitySeries {
	out := make(map[string]models.VolatilitySeries, len(r.Tickers))
	for _, t := range r.Tickers {
		out[t.Ticker] = t.Volatility
	}
	return out
}

// TickerNames returns the tickers in analysis order.
func (r *Result) TickerNames() []string {
	out := make([]string, len(r.Tickers))
	for i, t := range r.Tickers {
		out[i] = t.Ticker
	}
	return out
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
