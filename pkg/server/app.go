package server

import (
	"context"
	"time"

	"NavScan/internal/domain/models"
	"NavScan/internal/usecase"
	"NavScan/pkg/config"
	applogger "NavScan/pkg/logger"
)

type FetchStage interface {
	Run(ctx context.Context, p usecase.FetchParams) (int, error)
}

type AnalyzeStage interface {
	Run(ctx context.Context) ([]models.TickerSummary, error)
}

// MetricsFlusher persists collected metrics at the end of a run.
type MetricsFlusher interface {
	Flush(path string) error
}

// App encapsulates one batch invocation of the pipeline.
type App struct {
	cfg      *config.Config
	fetcher  FetchStage
	analyzer AnalyzeStage
	metrics  MetricsFlusher
	l        *applogger.Logger
	now      func() time.Time
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, f FetchStage, a AnalyzeStage, m MetricsFlusher, l *applogger.Logger) *App {
	return &App{cfg: cfg, fetcher: f, analyzer: a, metrics: m, l: l, now: time.Now}
}

// Fetch runs the download stage.
func (a *App) Fetch(ctx context.Context) error {
	err := a.fetch(ctx)
	a.flush()
	return err
}

// Analyze runs the analysis stage over the persisted dataset.
func (a *App) Analyze(ctx context.Context) error {
	_, err := a.analyzer.Run(ctx)
	a.flush()
	return err
}

// Run executes fetch then analyze; a fetch failure skips analysis.
func (a *App) Run(ctx context.Context) error {
	defer a.flush()
	if err := a.fetch(ctx); err != nil {
		return err
	}
	_, err := a.analyzer.Run(ctx)
	return err
}

func (a *App) fetch(ctx context.Context) error {
	start, end := a.cfg.FetchRange(a.now())
	_, err := a.fetcher.Run(ctx, usecase.FetchParams{
		Tickers: a.cfg.Fetch.Tickers,
		Start:   start,
		End:     end,
	})
	return err
}

func (a *App) flush() {
	if !a.cfg.Metrics.Enabled {
		return
	}
	if err := a.metrics.Flush(a.cfg.Metrics.TextfilePath); err != nil {
		a.l.Warn("metrics flush failed", applogger.Error(err))
		return
	}
	a.l.Debug("metrics flushed", applogger.String("path", a.cfg.Metrics.TextfilePath))
}
