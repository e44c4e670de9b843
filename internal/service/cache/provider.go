package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"NavScan/internal/domain/models"
	drepo "NavScan/internal/domain/repository"
	applogger "NavScan/pkg/logger"
	"NavScan/pkg/util"
)

// CachedProvider serves closing-price series from a BytesCache, falling back
// to the wrapped provider on a miss. Cache failures are logged and bypassed.
type CachedProvider struct {
	next  drepo.PriceProvider
	cache BytesCache
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedProvider(next drepo.PriceProvider, c BytesCache, ttl time.Duration, l *applogger.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: c, ttl: ttl, l: l}
}

var _ drepo.PriceProvider = (*CachedProvider)(nil)

type cachedPoint struct {
	D string  `json:"d"`
	C float64 `json:"c"`
}

// Key builds the cache key for one ticker and date window.
func Key(ticker string, start, end time.Time) string {
	return fmt.Sprintf("navscan:closes:%s:%s:%s", ticker, util.FormatDate(start), util.FormatDate(end))
}

func (p *CachedProvider) FetchCloses(ctx context.Context, ticker string, start, end time.Time) ([]models.ClosePoint, error) {
	key := Key(ticker, start, end)

	if b, ok, err := p.cache.GetBytes(ctx, key); err != nil {
		p.l.Warn("price cache read failed", applogger.String("key", key), applogger.Error(err))
	} else if ok {
		if points, err := decode(b); err == nil {
			p.l.Debug("price cache hit", applogger.String("ticker", ticker), applogger.Int("rows", len(points)))
			return points, nil
		}
	}

	points, err := p.next.FetchCloses(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}

	if b, err := encode(points); err == nil {
		if err := p.cache.SetBytes(ctx, key, b, p.ttl); err != nil {
			p.l.Warn("price cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return points, nil
}

func encode(points []models.ClosePoint) ([]byte, error) {
	out := make([]cachedPoint, len(points))
	for i, p := range points {
		out[i] = cachedPoint{D: util.FormatDate(p.Date), C: p.Close}
	}
	return json.Marshal(out)
}

func decode(b []byte) ([]models.ClosePoint, error) {
	var in []cachedPoint
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, err
	}
	out := make([]models.ClosePoint, len(in))
	for i, p := range in {
		d, err := util.ParseDate(p.D)
		if err != nil {
			return nil, err
		}
		out[i] = models.ClosePoint{Date: d, Close: p.C}
	}
	return out, nil
}
