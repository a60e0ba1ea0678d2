package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"SignalDesk/internal/decision"
	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/handler/api"
	internalrepo "SignalDesk/internal/repository"
	"SignalDesk/internal/services/analyzers"
	"SignalDesk/internal/usecase"
	"SignalDesk/pkg/cache"
	pkgch "SignalDesk/pkg/clickhouse"
	"SignalDesk/pkg/config"
	xhttp "SignalDesk/pkg/http"
	pkgkafka "SignalDesk/pkg/kafka"
	applogger "SignalDesk/pkg/logger"
	"SignalDesk/pkg/metrics"
	"SignalDesk/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + cfg.ClickHouse.CandleTable + " (" +
			"bucket DateTime, symbol String, tf String, " +
			"open Float64, high Float64, low Float64, close Float64, vol Float64" +
			") ENGINE=ReplacingMergeTree ORDER BY (symbol, tf, bucket)",
		"CREATE TABLE IF NOT EXISTS " + cfg.ClickHouse.SignalTable + " (" +
			"emitted_at DateTime, symbol String, signal String, confidence Float64, " +
			"price_level Float64, resolved UInt8, pnl_pct Float64, tier String, decision_json String" +
			") ENGINE=MergeTree ORDER BY (symbol, emitted_at)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideCache creates the candle cache: layered memory+Redis when Redis is
// enabled, plain in-memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideCandleStore creates the ClickHouse candle store behind the cache.
func ProvideCandleStore(chClient *pkgch.Client, cacheSvc cache.Service, cfg *config.Config, l *applogger.Logger) domrepo.CandleStore {
	store := internalrepo.NewCHCandleStore(chClient, cfg.ClickHouse.CandleTable)
	store.SetLogger(l)
	return internalrepo.NewCachedCandleStore(store, cacheSvc, cfg.Redis.TTL, l)
}

// ProvideSignalLog creates the ClickHouse signal log.
func ProvideSignalLog(chClient *pkgch.Client, cfg *config.Config) domrepo.SignalLog {
	return internalrepo.NewCHSignalLog(chClient.DB(), cfg.ClickHouse.SignalTable)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideDecisionPublisher wraps the producer, or returns nil when Kafka is
// disabled. Downstream code treats a nil publisher as "do not publish".
func ProvideDecisionPublisher(producer *pkgkafka.Producer, cfg *config.Config, l *applogger.Logger) domrepo.DecisionPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaDecisionPublisher(producer, cfg.Kafka.Topic, l)
}

// ProvideAnalyzers builds the analyzer set: the built-in reference analyzers
// plus the remote HTTP analyzer when configured.
func ProvideAnalyzers(cfg *config.Config) []domsvc.Analyzer {
	set := []domsvc.Analyzer{
		analyzers.NewTrendAnalyzer(),
		analyzers.NewMomentumAnalyzer(),
		analyzers.NewWeeklyTailsAnalyzer(),
	}
	if cfg.Analyzers.Remote.Enabled {
		set = append(set, analyzers.NewRemoteAnalyzer(
			cfg.Analyzers.Remote.Name,
			cfg.Analyzers.Remote.BaseURL,
			cfg.Analyzers.Remote.Timeout,
		))
	}
	return set
}

// ProvideResolver creates the analyzer resolver.
func ProvideResolver(set []domsvc.Analyzer, cfg *config.Config, l *applogger.Logger) *usecase.AnalyzerResolver {
	return usecase.NewAnalyzerResolver(set, cfg.Analyzers.Disabled, l)
}

// ProvideStrategy converts the config strategy section into the domain record.
func ProvideStrategy(cfg *config.Config) models.StrategyConfig {
	return models.StrategyConfig{
		Weights:             cfg.Strategy.Weights,
		ConfidenceThreshold: cfg.Strategy.ConfidenceThreshold,
		CriticalModules:     cfg.Strategy.CriticalModules,
		AnchorModule:        cfg.Strategy.AnchorModule,
		HoldingPeriodDays:   cfg.Strategy.HoldingPeriodDays,
		WarmupSteps:         cfg.Strategy.WarmupSteps,
	}
}

// ProvideEngine creates the decision engine.
func ProvideEngine(l *applogger.Logger) *decision.Engine {
	return decision.NewEngine(l)
}

// ProvideDecideUseCase creates the live decision use case.
func ProvideDecideUseCase(
	store domrepo.CandleStore,
	resolver *usecase.AnalyzerResolver,
	engine *decision.Engine,
	signalLog domrepo.SignalLog,
	publisher domrepo.DecisionPublisher,
	m domrepo.Metrics,
	strategy models.StrategyConfig,
	cacheSvc cache.Service,
	l *applogger.Logger,
) *usecase.DecideUseCase {
	return usecase.NewDecideUseCase(store, resolver, engine, signalLog, publisher, m, strategy, cacheSvc, l)
}

// ProvideBacktestUseCase creates the walk-forward backtest use case.
func ProvideBacktestUseCase(
	store domrepo.CandleStore,
	resolver *usecase.AnalyzerResolver,
	engine *decision.Engine,
	signalLog domrepo.SignalLog,
	m domrepo.Metrics,
	strategy models.StrategyConfig,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(store, resolver, engine, signalLog, m, strategy, cfg.Backtest.RiskFreeRate, l)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	decide *usecase.DecideUseCase,
	backtest *usecase.BacktestUseCase,
	signalLog domrepo.SignalLog,
	store domrepo.CandleStore,
) xhttp.Handler {
	return api.NewDecisionsEchoHandler(l, decide, backtest, signalLog, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher domrepo.DecisionPublisher,
	signalLog domrepo.SignalLog,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, l, handler, chClient, publisher, signalLog, cacheSvc)
}
