package repository

import (
	"context"
	"errors"
	"time"

	"NavScan/internal/domain/models"
)

// ErrEmptyDataset is returned when a persisted dataset holds no rows.
var ErrEmptyDataset = errors.New("dataset is empty")

// PriceProvider returns a date-ordered closing price series for one ticker.
type PriceProvider interface {
	FetchCloses(ctx context.Context, ticker string, start, end time.Time) ([]models.ClosePoint, error)
}

// DatasetStore persists the flat (Ticker, Date, NAV, Return) table shared by
// the fetch and analyze stages. Row order is preserved.
type DatasetStore interface {
	Save(ctx context.Context, records []models.PriceRecord) error
	Load(ctx context.Context) ([]models.PriceRecord, error)
	Location() string
}

// SummaryPublisher fans classification results out to downstream consumers.
type SummaryPublisher interface {
	Publish(ctx context.Context, summaries []models.TickerSummary) error
	Close() error
}

type Metrics interface {
	RecordRows(stage, ticker string, n int)
	RecordTicker(s models.TickerSummary)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
