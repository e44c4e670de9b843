package analytics

import "NavScan/pkg/config"

// Params holds every threshold the tagger, volatility and classifier use.
type Params struct {
	ZThresh           float64 // |z| above this marks an outlier
	Window            int     // trailing rows considered for burst clustering
	MinHits           int     // outliers needed inside Window to form a burst
	VolWindow         int     // rolling volatility window in rows
	VolGap            float64 // own/peer volatility ratio below this is "smooth"
	AnomalyBurstDays  int
	AnomalySmoothDays int
}

// DefaultParams returns the stock thresholds.
func DefaultParams() Params {
	return Params{
		ZThresh:           3.0,
		Window:            10,
		MinHits:           3,
		VolWindow:         60,
		VolGap:            0.4,
		AnomalyBurstDays:  10,
		AnomalySmoothDays: 50,
	}
}

// ParamsFromConfig maps the analysis section of the configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	a := cfg.Analysis
	return Params{
		ZThresh:           a.ZThresh,
		Window:            a.Window,
		MinHits:           a.MinHits,
		VolWindow:         a.VolWindow,
		VolGap:            a.VolGap,
		AnomalyBurstDays:  a.AnomalyBurstDays,
		AnomalySmoothDays: a.AnomalySmoothDays,
	}
}
