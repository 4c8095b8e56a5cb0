package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	dservice "FinDash/internal/domain/service"
	"FinDash/internal/handler/api"
	internalrepo "FinDash/internal/repository"
	"FinDash/internal/service/cache"
	"FinDash/internal/service/fred"
	emetrics "FinDash/internal/service/metrics"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/service/twelvedata"
	"FinDash/internal/service/yahoo"
	"FinDash/internal/services/momentum"
	"FinDash/internal/services/regime"
	"FinDash/internal/services/signals"
	"FinDash/internal/usecase"
	pkgch "FinDash/pkg/clickhouse"
	"FinDash/pkg/config"
	xhttp "FinDash/pkg/http"
	pkgkafka "FinDash/pkg/kafka"
	applogger "FinDash/pkg/logger"
	"FinDash/pkg/metrics"
	"FinDash/pkg/server"
)

const initTimeout = 10 * time.Second

// Toolkit is the usecase layer without the HTTP surface, for one-shot CLI commands.
type Toolkit struct {
	Signals   *usecase.SignalsUseCase
	Macro     *usecase.MacroUseCase
	Storage   domrepo.Storage
	Publisher domrepo.Publisher
}

// Close releases the storage backend and the publisher.
func (t *Toolkit) Close() error {
	perr := t.Publisher.Close()
	if err := t.Storage.Close(); err != nil {
		return err
	}
	return perr
}

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry returns a private registry so repeated initialisation in tests never double-registers.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) domrepo.Metrics {
	return metrics.New(reg)
}

func ProvideEndpointMetrics(reg *prometheus.Registry) *emetrics.Endpoint {
	return emetrics.NewEndpoint(reg)
}

// ProvideStorage opens the configured backend and makes sure its schema exists.
func ProvideStorage(cfg *config.Config, l *applogger.Logger) (domrepo.Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	var store domrepo.Storage
	switch cfg.Backend.Type {
	case "clickhouse":
		ch, err := pkgch.NewClient(ctx,
			pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		s := internalrepo.NewCHStore(ch)
		s.SetLogger(l)
		store = s
	case "memory":
		store = internalrepo.NewMemoryStore()
	default:
		s, err := internalrepo.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		s.SetLogger(l)
		store = s
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s schema: %w", cfg.Backend.Type, err)
	}
	l.Info("storage ready", applogger.String("backend", cfg.Backend.Type))
	return store, nil
}

// ProvidePublisher writes signals to Kafka when enabled and discards them otherwise.
func ProvidePublisher(cfg *config.Config) (domrepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer), nil
}

// ProvideCache prefers Redis and falls back to the in-process TTL cache.
func ProvideCache(cfg *config.Config, l *applogger.Logger) cache.BytesCache {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewTTLCache()
	}
	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		l.Warn("redis unavailable, using in-process cache",
			applogger.String("addr", cfg.Cache.Redis.Addr), applogger.Error(err))
		_ = rc.Close()
		return cache.NewTTLCache()
	}
	return rc
}

func breakerClient(name string, cfg *config.Config, timeout time.Duration) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(timeout),
		xhttp.WithBreaker(name, cfg.Breaker.MaxFailures, cfg.Breaker.OpenTimeout),
	)
}

// ProvideMarketProviders orders price sources: Twelve Data when a key is set, then Yahoo.
func ProvideMarketProviders(cfg *config.Config, m domrepo.Metrics) []dservice.MarketDataProvider {
	var out []dservice.MarketDataProvider
	if cfg.TwelveData.APIKey != "" {
		out = append(out, twelvedata.New(cfg.TwelveData.APIKey, cfg.TwelveData.BaseURL,
			breakerClient("twelvedata", cfg, cfg.TwelveData.Timeout), m))
	}
	out = append(out, yahoo.New(cfg.Yahoo.BaseURL, breakerClient("yahoo", cfg, cfg.Yahoo.Timeout), m))
	return out
}

func ProvideMacroProvider(cfg *config.Config, m domrepo.Metrics) dservice.MacroProvider {
	return fred.New(cfg.FRED.APIKey, cfg.FRED.BaseURL, breakerClient("fred", cfg, cfg.FRED.Timeout), m)
}

func ProvideMarketData(cfg *config.Config, providers []dservice.MarketDataProvider, store domrepo.Storage,
	c cache.BytesCache, m domrepo.Metrics, l *applogger.Logger) *usecase.MarketData {
	return usecase.NewMarketData(providers, store, c, usecase.MarketDataConfig{
		Interval: domrepo.NormalizeInterval(cfg.Market.Interval),
		Bars:     cfg.Market.HistoryBars,
		TTL:      cfg.Cache.TTL.Indicators,
	}, m, l)
}

func ProvidePlaybook(cfg *config.Config) (regime.Playbook, error) {
	pb, err := regime.LoadPlaybook(cfg.Regime.PlaybookPath)
	if err != nil {
		return nil, err
	}
	return pb, nil
}

func ProvideQuoteBook(cfg *config.Config) *usecase.QuoteBook {
	return usecase.NewQuoteBook(cfg.TwelveData.QuoteMaxAge)
}

// ProvideQuoteCollector returns nil unless live quotes are enabled and a key is set.
func ProvideQuoteCollector(cfg *config.Config, book *usecase.QuoteBook, m domrepo.Metrics, l *applogger.Logger) *usecase.QuoteCollector {
	if !cfg.TwelveData.StreamEnabled || cfg.TwelveData.APIKey == "" {
		return nil
	}
	stream := twelvedata.NewStream(
		cfg.TwelveData.APIKey,
		cfg.TwelveData.WebSocketURL,
		cfg.Market.Symbols,
		cfg.TwelveData.ReconnectDelay,
		cfg.TwelveData.PingInterval,
		l,
	)
	return usecase.NewQuoteCollector(stream, book, m, l)
}

func ProvideIndicatorsUseCase(md *usecase.MarketData) *usecase.IndicatorsUseCase {
	return usecase.NewIndicatorsUseCase(md)
}

func ProvideSignalsUseCase(cfg *config.Config, md *usecase.MarketData, store domrepo.Storage, pub domrepo.Publisher,
	m domrepo.Metrics, l *applogger.Logger) *usecase.SignalsUseCase {
	w := models.SignalWeights{
		RSI:       cfg.Signals.Weights.RSI,
		Bollinger: cfg.Signals.Weights.Bollinger,
		MACD:      cfg.Signals.Weights.MACD,
		ZScore:    cfg.Signals.Weights.ZScore,
	}
	return usecase.NewSignalsUseCase(md, signals.NewGenerator(), w, store, pub, m, l, cfg.Signals.BatchConcurrency)
}

func ProvideMomentumUseCase(cfg *config.Config, md *usecase.MarketData, book *usecase.QuoteBook,
	c cache.BytesCache, l *applogger.Logger) *usecase.MomentumUseCase {
	return usecase.NewMomentumUseCase(md, momentum.NewScorer(), book, c, usecase.MomentumConfig{
		Benchmark:   strings.ToUpper(cfg.Market.Benchmark),
		Names:       cfg.Market.Names,
		TTL:         cfg.Cache.TTL.Momentum,
		Concurrency: cfg.Signals.BatchConcurrency,
	}, l)
}

func ProvideMacroUseCase(cfg *config.Config, p dservice.MacroProvider, store domrepo.Storage, pb regime.Playbook,
	c cache.BytesCache, m domrepo.Metrics, l *applogger.Logger) *usecase.MacroUseCase {
	s := cfg.FRED.Series
	ref := func(v config.Series) usecase.SeriesRef { return usecase.SeriesRef{ID: v.ID, Units: v.Units} }
	return usecase.NewMacroUseCase(p, store, pb, c, usecase.MacroConfig{
		Inputs: usecase.RegimeInputs{
			GDPGrowth:    ref(s.GDPGrowth),
			Inflation:    ref(s.Inflation),
			Unemployment: ref(s.Unemployment),
			YieldCurve:   ref(s.YieldCurve),
			FedFunds:     ref(s.FedFunds),
			ISM:          ref(s.ISM),
		},
		TTL: cfg.Cache.TTL.Macro,
	}, m, l)
}

func ProvideHandlers(cfg *config.Config, l *applogger.Logger, ep *emetrics.Endpoint,
	ind *usecase.IndicatorsUseCase, sig *usecase.SignalsUseCase,
	mom *usecase.MomentumUseCase, mac *usecase.MacroUseCase) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewIndicatorsHandler(l, ind, ep),
		api.NewSignalsHandler(l, sig, ep),
		api.NewMomentumHandler(l, mom, cfg.Market.Symbols, ep),
		api.NewMacroHandler(l, mac, ep),
	}
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, handlers []xhttp.Handler,
	lim *ratelimit.Limiter, reg *prometheus.Registry) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithRateLimiter(lim),
		xhttp.WithRegistry(reg),
	}
	path := cfg.Metrics.Path
	if !cfg.Metrics.Enabled {
		path = ""
	}
	opts = append(opts, xhttp.WithMetricsPath(path))
	return xhttp.NewServer(l, handlers, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, collector *usecase.QuoteCollector,
	lim *ratelimit.Limiter, store domrepo.Storage, pub domrepo.Publisher) *server.App {
	return server.New(cfg, l, srv, collector, lim, store, pub)
}

func ProvideToolkit(sig *usecase.SignalsUseCase, mac *usecase.MacroUseCase, store domrepo.Storage, pub domrepo.Publisher) *Toolkit {
	return &Toolkit{Signals: sig, Macro: mac, Storage: store, Publisher: pub}
}
