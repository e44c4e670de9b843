package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"NavScan/internal/domain/models"
	domsvc "NavScan/internal/domain/service"
	"NavScan/internal/repository"
	"NavScan/internal/services/analytics"
	applogger "NavScan/pkg/logger"
)

// Options controls chart geometry. Sizes are in inches.
type Options struct {
	Dir          string
	Width        float64
	VolHeight    float64
	NAVHeight    float64
	NAVSMAPeriod int
	VolWindow    int
}

// FileReporter writes burst CSVs and PNG charts into a single directory.
type FileReporter struct {
	opts Options
	l    *applogger.Logger
}

func NewFileReporter(opts Options, l *applogger.Logger) *FileReporter {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &FileReporter{opts: opts, l: l}
}

var _ domsvc.Reporter = (*FileReporter)(nil)

// BurstsFile is the burst CSV name for ticker.
func BurstsFile(ticker string) string { return strings.ToLower(ticker) + "_bursts.csv" }

// NAVPlotFile is the NAV chart name for ticker.
func NAVPlotFile(ticker string) string { return strings.ToLower(ticker) + "_nav_plot.png" }

// VolPlotFile is the combined volatility chart name.
const VolPlotFile = "all_vol_plot.png"

var burstHeader = []string{"Ticker", "Date", "NAV", "Return", "Outlier", "Cluster"}

func (r *FileReporter) path(name string) (string, error) {
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(r.opts.Dir, name), nil
}

// WriteBursts writes the rows flagged as cluster members, in date order. A
// ticker without bursts still gets a header-only file.
func (r *FileReporter) WriteBursts(ticker string, rows []models.TaggedRecord) (string, error) {
	path, err := r.path(BurstsFile(ticker))
	if err != nil {
		return "", err
	}

	bursts := analytics.Bursts(rows)
	recs := make([]models.PriceRecord, len(bursts))
	for i, b := range bursts {
		recs[i] = b.PriceRecord
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create bursts file: %w", err)
	}
	defer f.Close()

	err = repository.WriteRecords(f, burstHeader, recs, func(i int) []string {
		return []string{strconv.FormatBool(bursts[i].Outlier), strconv.FormatBool(bursts[i].Cluster)}
	})
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close bursts file: %w", err)
	}

	r.l.Debug("bursts written", applogger.String("path", path), applogger.Int("rows", len(recs)))
	return path, nil
}
