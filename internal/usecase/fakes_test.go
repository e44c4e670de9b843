package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"NavScan/internal/domain/models"
)

type fakeProvider struct {
	series map[string][]models.ClosePoint
	err    map[string]error
	calls  []string
}

func (f *fakeProvider) FetchCloses(_ context.Context, ticker string, _, _ time.Time) ([]models.ClosePoint, error) {
	f.calls = append(f.calls, ticker)
	if err := f.err[ticker]; err != nil {
		return nil, err
	}
	return f.series[ticker], nil
}

type memStore struct {
	rows    []models.PriceRecord
	saveErr error
	loadErr error
}

func (m *memStore) Save(_ context.Context, r []models.PriceRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows = append([]models.PriceRecord(nil), r...)
	return nil
}

func (m *memStore) Load(context.Context) ([]models.PriceRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.rows, nil
}

func (m *memStore) Location() string { return "all_funds_nav.csv" }

type fakeMetrics struct {
	mu      sync.Mutex
	rows    map[string]int
	tickers []models.TickerSummary
	errs    []string
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{rows: map[string]int{}} }

func (f *fakeMetrics) RecordRows(stage, ticker string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[stage+"/"+ticker] = n
}

func (f *fakeMetrics) RecordTicker(s models.TickerSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickers = append(f.tickers, s)
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, kind)
}

func (f *fakeMetrics) RecordLatency(string, float64) {}

type fakeReporter struct {
	bursts  map[string]int
	navs    []string
	volSeen []string
	navErr  error
}

func (f *fakeReporter) WriteBursts(ticker string, rows []models.TaggedRecord) (string, error) {
	if f.bursts == nil {
		f.bursts = map[string]int{}
	}
	n := 0
	for _, r := range rows {
		if r.Cluster {
			n++
		}
	}
	f.bursts[ticker] = n
	return ticker + "_bursts.csv", nil
}

func (f *fakeReporter) RenderNAV(ticker string, _ []models.TaggedRecord) (string, error) {
	if f.navErr != nil {
		return "", f.navErr
	}
	f.navs = append(f.navs, ticker)
	return ticker + "_nav_plot.png", nil
}

func (f *fakeReporter) RenderVolatility(tickers []string, _ map[string]models.VolatilitySeries, _ []models.VolPoint) (string, error) {
	f.volSeen = tickers
	return "all_vol_plot.png", nil
}

type fakePublisher struct {
	got []models.TickerSummary
	err error
}

func (f *fakePublisher) Publish(_ context.Context, s []models.TickerSummary) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, s...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

var errBoom = errors.New("boom")

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func closes(vals ...float64) []models.ClosePoint {
	out := make([]models.ClosePoint, len(vals))
	for i, v := range vals {
		out[i] = models.ClosePoint{Date: day0.AddDate(0, 0, i), Close: v}
	}
	return out
}
