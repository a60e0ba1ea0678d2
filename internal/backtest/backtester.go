package backtest

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	applogger "SignalDesk/pkg/logger"
)

// DecisionFunc re-derives one decision from a leak-free context. Both the
// live engine and test doubles satisfy it.
type DecisionFunc func(ctx context.Context, dctx models.DecisionContext, results map[string]models.AnalysisResult) models.DecisionResult

// ResolveFunc produces the per-module analysis results for one historical
// step from the sliced (as-of) context. Implementations must convert analyzer
// failures into ERROR-status results rather than returning an error.
type ResolveFunc func(ctx context.Context, dctx models.DecisionContext) map[string]models.AnalysisResult

// Config controls one walk-forward run.
type Config struct {
	Symbol       string
	Strategy     models.StrategyConfig
	RiskFreeRate float64
}

// Result is the ordered signal history of one run plus its summary.
type Result struct {
	Symbol  string
	Records []models.SignalRecord
	Summary models.PerformanceSummary
}

// Backtester walks an ordered weekly timeline, re-deriving the decision at
// each step from only the data closed as of that step, then validating
// emitted signals against the full daily series after the holding period.
type Backtester struct {
	decide  DecisionFunc
	resolve ResolveFunc
	logger  *applogger.Logger
	metrics StepMetrics
}

// StepMetrics receives per-step observations; satisfied by the Prometheus
// recorder and by a no-op in tests.
type StepMetrics interface {
	RecordBacktestStep(symbol string, signal string)
	RecordBacktestStepError(symbol string)
}

type noopMetrics struct{}

func (noopMetrics) RecordBacktestStep(string, string) {}
func (noopMetrics) RecordBacktestStepError(string)    {}

func New(decide DecisionFunc, resolve ResolveFunc, logger *applogger.Logger, metrics StepMetrics) *Backtester {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Backtester{decide: decide, resolve: resolve, logger: logger, metrics: metrics}
}

// Run executes the walk-forward loop over the weekly series. The first
// Strategy.WarmupSteps weekly candles only build history and are never
// decision points. Cancelling ctx stops iteration; each step is
// self-contained so no cleanup is needed.
func (b *Backtester) Run(ctx context.Context, cfg Config, daily, weekly models.CandleSeries) (Result, error) {
	if weekly.IsEmpty() {
		return Result{}, fmt.Errorf("backtest %s: weekly series is empty", cfg.Symbol)
	}
	if daily.IsEmpty() {
		return Result{}, fmt.Errorf("backtest %s: daily series is empty", cfg.Symbol)
	}

	res := Result{Symbol: cfg.Symbol}
	holdSteps := 0

	for i := cfg.Strategy.WarmupSteps; i < weekly.Len(); i++ {
		if err := ctx.Err(); err != nil {
			// Partial history is still a valid result set.
			break
		}
		ts := weekly.At(i).Bucket

		rec, hold := b.step(ctx, cfg, ts, daily, weekly)
		if hold {
			holdSteps++
			continue
		}
		if rec != nil {
			rec.Outcome = ValidateOutcome(rec, cfg.Strategy.HoldingPeriodDays, daily)
			res.Records = append(res.Records, *rec)
		}
	}

	res.Summary = Summarize(res.Records, holdSteps, cfg.RiskFreeRate)
	return res, nil
}

// step derives one decision at ts. Returns (nil, false) when the step
// failed and was skipped, (nil, true) for HOLD, and a pending record for a
// directional signal. Never lets a per-step failure abort the loop.
func (b *Backtester) step(ctx context.Context, cfg Config, ts time.Time, daily, weekly models.CandleSeries) (rec *models.SignalRecord, hold bool) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Error("backtest step recovered",
					applogger.String("symbol", cfg.Symbol),
					applogger.String("step", ts.Format(time.RFC3339)),
					applogger.Any("panic", r),
				)
			}
			b.metrics.RecordBacktestStepError(cfg.Symbol)
			rec, hold = nil, false
		}
	}()

	// The inclusive slice at ts is the sole no-look-ahead mechanism: every
	// candle the engine sees is closed at or before the decision instant.
	dctx := models.DecisionContext{
		Symbol:       cfg.Symbol,
		ClosedDaily:  daily.UpTo(ts),
		ClosedWeekly: weekly.UpTo(ts),
		Timestamp:    ts,
		Strategy:     cfg.Strategy,
	}

	results := b.resolve(ctx, dctx)
	dec := b.decide(ctx, dctx, results)
	b.metrics.RecordBacktestStep(cfg.Symbol, string(dec.Signal))

	if dec.Signal == models.SignalHold {
		return nil, true
	}
	return &models.SignalRecord{
		Symbol:    cfg.Symbol,
		EmittedAt: ts,
		Decision:  dec,
	}, false
}
