package models

import "time"

// VolPoint is one rolling-volatility observation. Valid is false until the
// trailing window is fully populated.
type VolPoint struct {
	Date  time.Time
	Sigma float64
	Valid bool
}

// VolatilitySeries is a per-ticker, date-indexed rolling volatility.
type VolatilitySeries struct {
	Ticker string
	Points []VolPoint
}

