package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NavScan/internal/domain/models"
)

func TestRecorderTickerGauges(t *testing.T) {
	r := New()

	r.RecordTicker(models.TickerSummary{Ticker: "DSU", BurstDays: 12, Outliers: 30, SmoothDays: 4, Label: models.LabelBurst})
	r.RecordTicker(models.TickerSummary{Ticker: "DSU", BurstDays: 0, Outliers: 2, Label: models.LabelOutliersOnly})

	assert.Equal(t, 0.0, testutil.ToFloat64(r.burstDays.WithLabelValues("DSU")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.outliers.WithLabelValues("DSU")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.label), "relabelling replaces the previous label")
}

func TestRecorderFlush(t *testing.T) {
	r := New()
	r.RecordRows("fetch", "DSU", 10)
	r.RecordError("fetch")

	path := filepath.Join(t.TempDir(), "navscan.prom")
	require.NoError(t, r.Flush(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `navscan_rows_total{stage="fetch",ticker="DSU"} 10`)
	assert.Contains(t, string(b), "navscan_last_run_timestamp_seconds")

	assert.NoError(t, r.Flush(""))
}
