package yahoo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"NavScan/internal/domain/models"
	drepo "NavScan/internal/domain/repository"
	xhttp "NavScan/pkg/http"
	"NavScan/pkg/util"
)

// ErrNoData is returned when a ticker yields no usable closing prices.
var ErrNoData = errors.New("yahoo: no price data")

// Client implements PriceProvider backed by the Yahoo Finance chart API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *rate.Limiter
}

// New creates a Yahoo chart client. rps bounds the request rate; burst is one.
func New(baseURL string, http *xhttp.Client, rps float64) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

var _ drepo.PriceProvider = (*Client)(nil)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// FetchCloses returns adjusted daily closes for ticker in [start, end),
// ordered by date. Days with a missing close are dropped.
func (c *Client) FetchCloses(ctx context.Context, ticker string, start, end time.Time) ([]models.ClosePoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + url.PathEscape(ticker),
		QueryParams: map[string][]string{
			"period1":              {strconv.FormatInt(start.Unix(), 10)},
			"period2":              {strconv.FormatInt(end.Unix(), 10)},
			"interval":             {"1d"},
			"events":               {"div,splits"},
			"includeAdjustedClose": {"true"},
		},
	}, &resp)
	if xhttp.IsRateLimited(err) {
		return nil, fmt.Errorf("yahoo %s: rate limited, lower fetch.provider.requests_per_second: %w", ticker, err)
	}
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo %s: %s: %s", ticker, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, ticker)
	}

	points := parseResult(resp.Chart.Result[0])
	if len(points) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, ticker)
	}
	return points, nil
}

// parseResult pairs timestamps with adjusted closes (falling back to raw
// closes), converting each bar time to the exchange-local calendar date.
func parseResult(r chartResult) []models.ClosePoint {
	var closes []*float64
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) > 0 {
		closes = r.Indicators.AdjClose[0].AdjClose
	} else if len(r.Indicators.Quote) > 0 {
		closes = r.Indicators.Quote[0].Close
	}

	byDay := make(map[int64]models.ClosePoint, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		v := *closes[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		day := util.Day(time.Unix(ts+r.Meta.GMTOffset, 0).UTC())
		// the last bar of a live session can repeat the previous day
		byDay[day.Unix()] = models.ClosePoint{Date: day, Close: v}
	}

	out := make([]models.ClosePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
