package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"NavScan/internal/domain/models"
	domrepo "NavScan/internal/domain/repository"
	domsvc "NavScan/internal/domain/service"
	"NavScan/internal/services/analytics"
	applogger "NavScan/pkg/logger"
)

// CompletionLine is printed after the last per-ticker summary.
const CompletionLine = "Stage B complete – burst CSVs, plots, and summaries created."

// Analyzer runs the anomaly analysis over the persisted dataset and produces
// the per-run artifacts.
type Analyzer struct {
	store     domrepo.DatasetStore
	reporter  domsvc.Reporter
	publisher domrepo.SummaryPublisher
	metrics   domrepo.Metrics
	params    analytics.Params
	l         *applogger.Logger
	out       io.Writer
}

func NewAnalyzer(
	s domrepo.DatasetStore,
	r domsvc.Reporter,
	pub domrepo.SummaryPublisher,
	m domrepo.Metrics,
	p analytics.Params,
	l *applogger.Logger,
	out io.Writer,
) *Analyzer {
	return &Analyzer{store: s, reporter: r, publisher: pub, metrics: m, params: p, l: l, out: out}
}

// Run loads the dataset, classifies every ticker and writes the report.
func (a *Analyzer) Run(ctx context.Context) ([]models.TickerSummary, error) {
	start := time.Now()
	a.l.Info("analyze stage started", applogger.String("dataset", a.store.Location()))

	rows, err := a.store.Load(ctx)
	if err != nil {
		a.metrics.RecordError("load")
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	res, err := analytics.Analyze(rows, a.params)
	if err != nil {
		return nil, err
	}

	path, err := a.reporter.RenderVolatility(res.TickerNames(), res.SeriesByTicker(), res.PeerMedian)
	if err != nil {
		a.metrics.RecordError("render")
		return nil, fmt.Errorf("render volatility chart: %w", err)
	}
	a.l.Info("volatility chart written", applogger.String("path", path))

	p := message.NewPrinter(language.English)
	summaries := make([]models.TickerSummary, 0, len(res.Tickers))
	for _, tr := range res.Tickers {
		if err := a.report(tr); err != nil {
			a.metrics.RecordError("report")
			return nil, err
		}

		s := tr.Summary()
		summaries = append(summaries, s)
		a.metrics.RecordRows("analyze", s.Ticker, s.Rows)
		a.metrics.RecordTicker(s)
		p.Fprintf(a.out, "%s: rows %d | bursts %d | outliers %d | smooth %d | %s\n",
			s.Ticker, s.Rows, s.BurstDays, s.Outliers, s.SmoothDays, s.Label)
	}

	if err := a.publisher.Publish(ctx, summaries); err != nil {
		a.metrics.RecordError("publish")
		return nil, fmt.Errorf("publish summaries: %w", err)
	}

	a.metrics.RecordLatency("analyze_stage", time.Since(start).Seconds())
	a.l.Info("analyze stage finished",
		applogger.Int("tickers", len(summaries)),
		applogger.Int("rows", len(rows)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	fmt.Fprintf(a.out, "\n%s\n", CompletionLine)
	return summaries, nil
}

func (a *Analyzer) report(tr analytics.TickerResult) error {
	burstPath, err := a.reporter.WriteBursts(tr.Ticker, tr.Rows)
	if err != nil {
		return fmt.Errorf("write bursts %s: %w", tr.Ticker, err)
	}
	navPath, err := a.reporter.RenderNAV(tr.Ticker, tr.Rows)
	if err != nil {
		return fmt.Errorf("render nav chart %s: %w", tr.Ticker, err)
	}
	a.l.Debug("ticker report written",
		applogger.String("ticker", tr.Ticker),
		applogger.String("bursts_csv", burstPath),
		applogger.String("nav_chart", navPath),
		applogger.String("label", string(tr.Label)),
	)
	return nil
}
