package usecase

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/backtest"
	"SignalDesk/internal/decision"
	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	applogger "SignalDesk/pkg/logger"
)

// BacktestUseCase loads the historical series, drives the walk-forward
// backtester over it, and persists the resulting signal history.
type BacktestUseCase struct {
	store        domrepo.CandleStore
	resolver     *AnalyzerResolver
	engine       *decision.Engine
	signalLog    domrepo.SignalLog
	metrics      domrepo.Metrics
	strategy     models.StrategyConfig
	riskFreeRate float64
	logger       *applogger.Logger
}

func NewBacktestUseCase(
	store domrepo.CandleStore,
	resolver *AnalyzerResolver,
	engine *decision.Engine,
	signalLog domrepo.SignalLog,
	metrics domrepo.Metrics,
	strategy models.StrategyConfig,
	riskFreeRate float64,
	logger *applogger.Logger,
) *BacktestUseCase {
	return &BacktestUseCase{
		store:        store,
		resolver:     resolver,
		engine:       engine,
		signalLog:    signalLog,
		metrics:      metrics,
		strategy:     strategy,
		riskFreeRate: riskFreeRate,
		logger:       logger,
	}
}

// RunParams bounds one walk-forward run.
type RunParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Warmup int // overrides strategy warmup when >= 0
}

// Run executes the walk-forward backtest for the requested range. The run
// respects ctx cancellation; a cancelled run returns the partial history
// accumulated so far.
func (uc *BacktestUseCase) Run(ctx context.Context, p RunParams) (*models.BacktestResponse, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if !p.To.After(p.From) {
		return nil, fmt.Errorf("backtest range [%v, %v) is empty", p.From, p.To)
	}
	start := time.Now()

	daily, err := uc.store.GetCandles(ctx, p.Symbol, p.From, p.To, domrepo.TFDaily)
	if err != nil {
		return nil, fmt.Errorf("load daily series: %w", err)
	}
	weekly, err := uc.store.GetCandles(ctx, p.Symbol, p.From, p.To, domrepo.TFWeekly)
	if err != nil {
		return nil, fmt.Errorf("load weekly series: %w", err)
	}

	strategy := uc.strategy
	if p.Warmup >= 0 {
		strategy.WarmupSteps = p.Warmup
	}

	bt := backtest.New(uc.engine.Decide, uc.resolver.Resolve, uc.logger, uc.metrics)
	res, err := bt.Run(ctx, backtest.Config{
		Symbol:       p.Symbol,
		Strategy:     strategy,
		RiskFreeRate: uc.riskFreeRate,
	}, daily, weekly)
	if err != nil {
		return nil, err
	}

	if uc.signalLog != nil && len(res.Records) > 0 {
		if err := uc.signalLog.AppendBatch(ctx, res.Records); err != nil {
			uc.metrics.RecordError("signal_log")
			uc.logger.Warn("backtest signal log append failed", applogger.Error(err))
		}
	}

	uc.metrics.RecordLatency("backtest", time.Since(start).Seconds())
	uc.logger.Info("backtest finished",
		applogger.String("symbol", p.Symbol),
		applogger.Int("signals", res.Summary.TotalSignals),
		applogger.Int("resolved", res.Summary.ResolvedSignals),
		applogger.Float64("accuracy", res.Summary.Accuracy),
		applogger.Duration("took_ms", time.Since(start)),
	)

	return &models.BacktestResponse{
		Symbol:  p.Symbol,
		Records: res.Records,
		Summary: res.Summary,
	}, nil
}
