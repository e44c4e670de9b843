package usecase

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NavScan/internal/domain/models"
	applogger "NavScan/pkg/logger"
)

func TestBuildRecords(t *testing.T) {
	in := []models.ClosePoint{
		{Date: day0.AddDate(0, 0, 2), Close: 11},
		{Date: day0, Close: 10},
		{Date: day0.AddDate(0, 0, 1), Close: math.NaN()},
		{Date: day0.AddDate(0, 0, 3), Close: 22},
	}

	got := BuildRecords("DSU", in)
	require.Len(t, got, 3)

	assert.Equal(t, day0, got[0].Date)
	assert.False(t, got[0].Return.Valid)

	assert.Equal(t, 11.0, got[1].NAV)
	require.True(t, got[1].Return.Valid)
	assert.InDelta(t, 0.1, got[1].Return.Float64, 1e-12)

	require.True(t, got[2].Return.Valid)
	assert.InDelta(t, 1.0, got[2].Return.Float64, 1e-12)
	for _, r := range got {
		assert.Equal(t, "DSU", r.Ticker)
	}
}

func TestBuildRecordsEmpty(t *testing.T) {
	assert.Empty(t, BuildRecords("X", nil))
}

func TestFetcherRunConcatenatesInOrder(t *testing.T) {
	prov := &fakeProvider{series: map[string][]models.ClosePoint{
		"KIO": closes(1, 2, 3),
		"DSU": closes(5, 5),
	}}
	store := &memStore{}
	m := newFakeMetrics()
	var out bytes.Buffer

	f := NewFetcher(prov, store, m, applogger.Nop(), &out)
	n, err := f.Run(context.Background(), FetchParams{Tickers: []string{"KIO", "DSU"}, Start: day0, End: day0.AddDate(1, 0, 0)})
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"KIO", "DSU"}, prov.calls)
	require.Len(t, store.rows, 5)
	assert.Equal(t, "KIO", store.rows[0].Ticker)
	assert.Equal(t, "DSU", store.rows[3].Ticker)
	assert.False(t, store.rows[3].Return.Valid, "first row of each ticker has no return")
	assert.Equal(t, 3, m.rows["fetch/KIO"])
	assert.Equal(t, "all_funds_nav.csv written with 5 rows.\n", out.String())
}

func TestFetcherRunAbortsOnProviderError(t *testing.T) {
	prov := &fakeProvider{
		series: map[string][]models.ClosePoint{"A": closes(1, 2)},
		err:    map[string]error{"B": errBoom},
	}
	store := &memStore{}
	m := newFakeMetrics()
	var out bytes.Buffer

	f := NewFetcher(prov, store, m, applogger.Nop(), &out)
	_, err := f.Run(context.Background(), FetchParams{Tickers: []string{"A", "B", "C"}})
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, []string{"A", "B"}, prov.calls)
	assert.Nil(t, store.rows, "nothing persisted on failure")
	assert.Empty(t, out.String())
	assert.Contains(t, m.errs, "fetch")
}

func TestFetcherRunSaveError(t *testing.T) {
	prov := &fakeProvider{series: map[string][]models.ClosePoint{"A": closes(1, 2)}}
	store := &memStore{saveErr: errBoom}
	f := NewFetcher(prov, store, newFakeMetrics(), applogger.Nop(), &bytes.Buffer{})

	_, err := f.Run(context.Background(), FetchParams{Tickers: []string{"A"}})
	assert.ErrorIs(t, err, errBoom)
}
