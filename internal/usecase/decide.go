package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SignalDesk/internal/decision"
	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	"SignalDesk/pkg/cache"
	applogger "SignalDesk/pkg/logger"
)

// History depths loaded for one decision. Enough for the slowest analyzer
// lookbacks with headroom; both are closed-candle counts as of the decision
// instant.
const (
	dailyLookback  = 400
	weeklyLookback = 160
)

// DecideUseCase serves one live decision per request: load closed candles as
// of the requested instant, resolve analyzers, run the engine, then log and
// publish the result.
type DecideUseCase struct {
	store     domrepo.CandleStore
	resolver  *AnalyzerResolver
	engine    *decision.Engine
	signalLog domrepo.SignalLog
	publisher domrepo.DecisionPublisher
	metrics   domrepo.Metrics
	strategy  models.StrategyConfig
	cache     cache.Service
	cacheTTL  time.Duration
	logger    *applogger.Logger
	timeout   time.Duration
}

func NewDecideUseCase(
	store domrepo.CandleStore,
	resolver *AnalyzerResolver,
	engine *decision.Engine,
	signalLog domrepo.SignalLog,
	publisher domrepo.DecisionPublisher,
	metrics domrepo.Metrics,
	strategy models.StrategyConfig,
	cacheSvc cache.Service,
	logger *applogger.Logger,
) *DecideUseCase {
	return &DecideUseCase{
		store:     store,
		resolver:  resolver,
		engine:    engine,
		signalLog: signalLog,
		publisher: publisher,
		metrics:   metrics,
		strategy:  strategy,
		cache:     cacheSvc,
		cacheTTL:  time.Minute,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

// Decide derives the decision for symbol as of `at`. Candle loading is the
// only fallible step; everything downstream is total.
func (uc *DecideUseCase) Decide(ctx context.Context, symbol string, at time.Time) (*models.DecisionResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// The cache key pins the decision instant to the minute so a burst of
	// identical requests shares one evaluation without ever serving a result
	// computed for a different instant.
	key := cache.GenerateKeyWithParams("decision", symbol, at.Truncate(time.Minute).Unix())
	if uc.cache != nil {
		var cached models.DecisionResult
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("decision cache read failed", applogger.Error(err))
		}
	}

	daily, err := uc.store.GetCandlesUpTo(ctx, symbol, at, dailyLookback, domrepo.TFDaily)
	if err != nil {
		uc.metrics.RecordError("candle_load")
		return nil, fmt.Errorf("load daily candles: %w", err)
	}
	weekly, err := uc.store.GetCandlesUpTo(ctx, symbol, at, weeklyLookback, domrepo.TFWeekly)
	if err != nil {
		uc.metrics.RecordError("candle_load")
		return nil, fmt.Errorf("load weekly candles: %w", err)
	}

	dctx := models.DecisionContext{
		Symbol:       symbol,
		ClosedDaily:  daily,
		ClosedWeekly: weekly,
		Timestamp:    at,
		Strategy:     uc.strategy,
	}

	results := uc.resolver.Resolve(ctx, dctx)
	res := uc.engine.Decide(ctx, dctx, results)

	uc.metrics.RecordDecision(symbol, string(res.Signal))
	if gate, ok := res.Metrics["failed_gate"].(string); ok {
		uc.metrics.RecordGateFailure(symbol, gate)
	}
	uc.metrics.RecordLatency("decide", time.Since(start).Seconds())

	uc.persist(ctx, symbol, at, &res)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, res, uc.cacheTTL); err != nil {
			uc.logger.Warn("decision cache write failed", applogger.Error(err))
		}
	}

	uc.logger.Info("decision",
		applogger.String("symbol", symbol),
		applogger.String("signal", string(res.Signal)),
		applogger.Float64("confidence", res.Confidence),
		applogger.Time("at", at),
	)
	return &res, nil
}

// persist appends every decision to the flat signal log and publishes
// directional ones downstream. Both are best-effort: a logging or transport
// failure never blocks the decision.
func (uc *DecideUseCase) persist(ctx context.Context, symbol string, at time.Time, res *models.DecisionResult) {
	if uc.signalLog != nil {
		rec := &models.SignalRecord{Symbol: symbol, EmittedAt: at, Decision: *res}
		if err := uc.signalLog.Append(ctx, rec); err != nil {
			uc.metrics.RecordError("signal_log")
			uc.logger.Warn("signal log append failed", applogger.Error(err))
		}
	}
	if uc.publisher != nil && res.Signal != models.SignalHold {
		if err := uc.publisher.Publish(ctx, symbol, res); err != nil {
			uc.metrics.RecordError("publish")
			uc.logger.Warn("decision publish failed", applogger.Error(err))
		}
	}
}
