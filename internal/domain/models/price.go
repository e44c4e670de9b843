package models

import (
	"database/sql"
	"time"
)

// ClosePoint is one daily closing price as returned by a price provider.
type ClosePoint struct {
	Date  time.Time
	Close float64
}

// PriceRecord is one trading day of one ticker in the flat dataset.
// Return is invalid on the first row of every ticker.
type PriceRecord struct {
	Ticker string
	Date   time.Time
	NAV    float64
	Return sql.NullFloat64
}

// TaggedRecord extends PriceRecord with the anomaly flags.
// Cluster always implies Outlier.
type TaggedRecord struct {
	PriceRecord
	ZScore  sql.NullFloat64
	Outlier bool
	Cluster bool
}
