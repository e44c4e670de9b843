package usecase

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"NavScan/internal/domain/models"
	domrepo "NavScan/internal/domain/repository"
	"NavScan/internal/services/features"
	applogger "NavScan/pkg/logger"
	"NavScan/pkg/util"
)

// Fetcher downloads closing prices for each ticker and persists the flat
// dataset consumed by the analyzer.
type Fetcher struct {
	provider domrepo.PriceProvider
	store    domrepo.DatasetStore
	metrics  domrepo.Metrics
	l        *applogger.Logger
	out      io.Writer
}

func NewFetcher(p domrepo.PriceProvider, s domrepo.DatasetStore, m domrepo.Metrics, l *applogger.Logger, out io.Writer) *Fetcher {
	return &Fetcher{provider: p, store: s, metrics: m, l: l, out: out}
}

type FetchParams struct {
	Tickers []string
	Start   time.Time
	End     time.Time
}

// BuildRecords turns a provider series into dataset rows: sorted by date,
// non-finite closes dropped, and Return derived from consecutive NAVs.
func BuildRecords(ticker string, closes []models.ClosePoint) []models.PriceRecord {
	pts := make([]models.ClosePoint, 0, len(closes))
	for _, c := range closes {
		if math.IsNaN(c.Close) || math.IsInf(c.Close, 0) {
			continue
		}
		pts = append(pts, models.ClosePoint{Date: util.Day(c.Date), Close: c.Close})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	navs := make([]float64, len(pts))
	for i, p := range pts {
		navs[i] = p.Close
	}
	rets := features.PctChange(navs)

	out := make([]models.PriceRecord, len(pts))
	for i, p := range pts {
		out[i] = models.PriceRecord{Ticker: ticker, Date: p.Date, NAV: p.Close, Return: rets[i]}
	}
	return out
}

// FetchAll fetches tickers one after another and concatenates them in
// request order. The first failure aborts.
func (f *Fetcher) FetchAll(ctx context.Context, p FetchParams) ([]models.PriceRecord, error) {
	var all []models.PriceRecord
	for _, t := range p.Tickers {
		start := time.Now()
		closes, err := f.provider.FetchCloses(ctx, t, p.Start, p.End)
		f.metrics.RecordLatency("fetch_ticker", time.Since(start).Seconds())
		if err != nil {
			f.metrics.RecordError("fetch")
			return nil, fmt.Errorf("fetch %s: %w", t, err)
		}

		recs := BuildRecords(t, closes)
		f.metrics.RecordRows("fetch", t, len(recs))
		f.l.Info("fetched ticker",
			applogger.String("ticker", t),
			applogger.Int("rows", len(recs)),
			applogger.Strings("columns", []string{"Ticker", "Date", "NAV", "Return"}),
			applogger.Duration("duration_ms", time.Since(start)),
		)
		all = append(all, recs...)
	}
	return all, nil
}

// Run executes the fetch stage end to end.
func (f *Fetcher) Run(ctx context.Context, p FetchParams) (int, error) {
	start := time.Now()
	f.l.Info("fetch stage started",
		applogger.Strings("tickers", p.Tickers),
		applogger.String("start", util.FormatDate(p.Start)),
		applogger.String("end", util.FormatDate(p.End)),
	)

	recs, err := f.FetchAll(ctx, p)
	if err != nil {
		return 0, err
	}
	if err := f.store.Save(ctx, recs); err != nil {
		f.metrics.RecordError("save")
		return 0, fmt.Errorf("save dataset: %w", err)
	}

	f.metrics.RecordLatency("fetch_stage", time.Since(start).Seconds())
	f.l.Info("fetch stage finished",
		applogger.String("dataset", f.store.Location()),
		applogger.Int("rows", len(recs)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	fmt.Fprintf(f.out, "%s written with %d rows.\n", f.store.Location(), len(recs))
	return len(recs), nil
}
