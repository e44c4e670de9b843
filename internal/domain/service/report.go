package service

import (
	"NavScan/internal/domain/models"
)

// Reporter writes the per-run artifacts of the analysis stage and returns the
// path of every file it produced.
type Reporter interface {
	WriteBursts(ticker string, rows []models.TaggedRecord) (string, error)
	RenderNAV(ticker string, rows []models.TaggedRecord) (string, error)
	RenderVolatility(tickers []string, series map[string]models.VolatilitySeries, peerMedian []models.VolPoint) (string, error)
}
