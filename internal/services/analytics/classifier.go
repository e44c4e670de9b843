package analytics

import "NavScan/internal/domain/models"

// Counts are the per-ticker aggregates the classification rule looks at.
type Counts struct {
	BurstDays  int
	Outliers   int
	SmoothDays int
}

// Classify applies the label rules in order; the first match wins.
func Classify(c Counts, p Params) models.Label {
	switch {
	case c.BurstDays >= p.AnomalyBurstDays && c.SmoothDays >= p.AnomalySmoothDays:
		return models.LabelAnomaly
	case c.BurstDays >= p.AnomalyBurstDays:
		return models.LabelBurst
	case c.Outliers > 0:
		return models.LabelOutliersOnly
	default:
		return models.LabelNoAnomaly
	}
}
