package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "NavScan/pkg/http"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "DSU", "gmtoffset": -18000},
      "timestamp": [1388673000, 1388759400, 1389018600, 1389105000],
      "indicators": {
        "quote": [{"close": [10.0, 10.1, null, 10.3]}],
        "adjclose": [{"adjclose": [5.0, 5.05, null, 5.15]}]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, xhttp.NewClient(xhttp.WithTimeout(5*time.Second)), 100)
}

func TestFetchClosesParsesAdjustedSeries(t *testing.T) {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 1, 10, 0, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/DSU", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1388534400", q.Get("period1"))
		assert.Equal(t, "1389312000", q.Get("period2"))
		assert.Equal(t, "1d", q.Get("interval"))
		_, _ = w.Write([]byte(chartBody))
	})

	got, err := c.FetchCloses(context.Background(), "DSU", start, end)
	require.NoError(t, err)

	require.Len(t, got, 3, "null close is dropped")
	assert.Equal(t, time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, 5.0, got[0].Close)
	assert.Equal(t, time.Date(2014, 1, 3, 0, 0, 0, 0, time.UTC), got[1].Date)
	assert.Equal(t, time.Date(2014, 1, 7, 0, 0, 0, 0, time.UTC), got[2].Date)
	assert.Equal(t, 5.15, got[2].Close)
}

func TestFetchClosesUnknownTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := c.FetchCloses(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())

	require.Error(t, err)
	assert.True(t, xhttp.IsNotFound(err))
}

func TestFetchClosesEmptySeries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"X"},"timestamp":[],"indicators":{"quote":[{"close":[]}]}}],"error":null}}`))
	})

	_, err := c.FetchCloses(context.Background(), "X", time.Now().AddDate(0, -1, 0), time.Now())

	assert.True(t, errors.Is(err, ErrNoData))
}

func TestFetchClosesProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`))
	})

	_, err := c.FetchCloses(context.Background(), "X", time.Now().AddDate(0, -1, 0), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid input")
}

func TestFetchClosesRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchCloses(context.Background(), "DSU", time.Now().AddDate(0, -1, 0), time.Now())

	require.Error(t, err)
	assert.True(t, xhttp.IsRateLimited(err))
	assert.Contains(t, err.Error(), "requests_per_second")
}
