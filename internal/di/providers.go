package di

import (
	"context"
	"fmt"
	"io"
	"os"

	domrepo "NavScan/internal/domain/repository"
	domsvc "NavScan/internal/domain/service"
	"NavScan/internal/report"
	internalrepo "NavScan/internal/repository"
	icache "NavScan/internal/service/cache"
	"NavScan/internal/service/yahoo"
	"NavScan/internal/services/analytics"
	"NavScan/internal/usecase"
	pkgch "NavScan/pkg/clickhouse"
	"NavScan/pkg/config"
	xhttp "NavScan/pkg/http"
	pkgkafka "NavScan/pkg/kafka"
	applogger "NavScan/pkg/logger"
	"NavScan/pkg/metrics"
	"NavScan/pkg/server"
)

// ProvideLogger builds the process logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideStdout is where the console report goes.
func ProvideStdout() io.Writer {
	return os.Stdout
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideBytesCache returns nil when caching is disabled.
func ProvideBytesCache(cfg *config.Config) (icache.BytesCache, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}
	if cfg.Cache.Backend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Fetch.Provider.Timeout)
		defer cancel()
		rc, err := icache.NewRedisCache(ctx, icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	return icache.NewTTLCache(), func() {}, nil
}

// ProvidePriceProvider builds the Yahoo client, wrapped in the cache when one is configured.
func ProvidePriceProvider(cfg *config.Config, c icache.BytesCache, l *applogger.Logger) domrepo.PriceProvider {
	p := cfg.Fetch.Provider
	hc := xhttp.NewClient(
		xhttp.WithTimeout(p.Timeout),
		xhttp.WithUserAgent(p.UserAgent),
	)
	var provider domrepo.PriceProvider = yahoo.New(p.BaseURL, hc, p.RequestsPerSecond)
	if c != nil {
		provider = icache.NewCachedProvider(provider, c, cfg.Cache.TTL, l.With(applogger.String("component", "price_cache")))
	}
	return provider
}

// ProvideDatasetStore selects the dataset backend. The ClickHouse backend
// opens its own connection and creates the table on first use.
func ProvideDatasetStore(cfg *config.Config, l *applogger.Logger) (domrepo.DatasetStore, func(), error) {
	if cfg.Dataset.Backend != "clickhouse" {
		return internalrepo.NewCSVDatasetStore(cfg.Dataset.Path), func() {}, nil
	}

	ch := cfg.ClickHouse
	ctx, cancel := context.WithTimeout(context.Background(), ch.DialTimeout+ch.WriteTimeout)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(ch.Host, ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewClickHouseDatasetStore(client.DB(), ch.Database, ch.Table, l.With(applogger.String("component", "clickhouse")))
	if err := client.InitSchema(ctx, store.SchemaDDL()); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, func() { _ = client.Close() }, nil
}

// ProvideSummaryPublisher returns a Kafka publisher, or a no-op one when Kafka is disabled.
func ProvideSummaryPublisher(cfg *config.Config) (domrepo.SummaryPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, func() {}, nil
	}
	k := cfg.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithTopic(k.Topic),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithMaxAttempts(k.MaxAttempts),
		pkgkafka.WithWriteTimeout(k.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaSummaryPublisher(producer)
	return pub, func() { _ = pub.Close() }, nil
}

// ProvideReporter creates the file reporter for burst CSVs and charts.
func ProvideReporter(cfg *config.Config, l *applogger.Logger) domsvc.Reporter {
	o := cfg.Output
	return report.NewFileReporter(report.Options{
		Dir:          o.Dir,
		Width:        o.ChartWidth,
		VolHeight:    o.VolHeight,
		NAVHeight:    o.NAVHeight,
		NAVSMAPeriod: o.NAVSMAPeriod,
		VolWindow:    cfg.Analysis.VolWindow,
	}, l.With(applogger.String("component", "report")))
}

// ProvideParams maps the analysis thresholds.
func ProvideParams(cfg *config.Config) analytics.Params {
	return analytics.ParamsFromConfig(cfg)
}

// ProvideFetcher creates the fetch stage.
func ProvideFetcher(p domrepo.PriceProvider, s domrepo.DatasetStore, m *metrics.Recorder, l *applogger.Logger, out io.Writer) *usecase.Fetcher {
	return usecase.NewFetcher(p, s, m, l.With(applogger.String("stage", "fetch")), out)
}

// ProvideAnalyzer creates the analysis stage.
func ProvideAnalyzer(
	s domrepo.DatasetStore,
	r domsvc.Reporter,
	pub domrepo.SummaryPublisher,
	m *metrics.Recorder,
	p analytics.Params,
	l *applogger.Logger,
	out io.Writer,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(s, r, pub, m, p, l.With(applogger.String("stage", "analyze")), out)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, f *usecase.Fetcher, a *usecase.Analyzer, m *metrics.Recorder, l *applogger.Logger) *server.App {
	return server.New(cfg, f, a, m, l)
}
