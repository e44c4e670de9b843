package models

import "time"

// Label is the per-ticker classification outcome.
type Label string

const (
	LabelAnomaly      Label = "Anomaly"
	LabelBurst        Label = "Burst"
	LabelOutliersOnly Label = "Normal (outliers only)"
	LabelNoAnomaly    Label = "No anomaly"
)

// TickerSummary is the per-ticker outcome of the analysis stage.
type TickerSummary struct {
	Ticker     string    `json:"ticker"`
	Rows       int       `json:"rows"`
	BurstDays  int       `json:"burst_days"`
	Outliers   int       `json:"outliers"`
	SmoothDays int       `json:"smooth_days"`
	Label      Label     `json:"label"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
}
