package decision

import (
	"context"
	"fmt"
	"sort"

	"SignalDesk/internal/domain/models"
	applogger "SignalDesk/pkg/logger"
)

// Engine turns a set of resolved analysis results into one gated decision.
// Stateless and re-entrant; safe to share between the live path and the
// backtester.
type Engine struct {
	logger *applogger.Logger
}

func NewEngine(logger *applogger.Logger) *Engine {
	return &Engine{logger: logger}
}

// Decide runs the combiner, then the gates, then assembles the result.
// Total function: any
// failure, including a panic below, is demoted to a zero-confidence HOLD so
// callers can loop over thousands of historical steps unattended.
func (e *Engine) Decide(ctx context.Context, dctx models.DecisionContext, results map[string]models.AnalysisResult) (res models.DecisionResult) {
	price := lastClose(dctx)

	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Error("decision engine recovered",
					applogger.String("symbol", dctx.Symbol),
					applogger.Any("panic", r),
				)
			}
			res = models.HoldResult(dctx.Timestamp, price, fmt.Sprintf("decision engine failure: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return models.HoldResult(dctx.Timestamp, price, fmt.Sprintf("decision cancelled: %v", err))
	}

	scores := Combine(results, dctx.Strategy.Weights)
	outcome := EvaluateGates(results, scores, dctx.Strategy)

	reasons := make([]string, 0, 3)
	reasons = append(reasons, outcome.Reason)
	reasons = append(reasons, healthSummary(results))
	reasons = append(reasons, fmt.Sprintf("scores: long=%.4f short=%.4f (threshold %.4f)",
		scores.LongScore, scores.ShortScore, dctx.Strategy.ConfidenceThreshold))

	metrics := map[string]interface{}{
		"long_score":   scores.LongScore,
		"short_score":  scores.ShortScore,
		"total_weight": scores.TotalWeight,
	}
	for name, c := range scores.Contributions {
		metrics["contribution_"+name] = c
	}
	if !outcome.Passed {
		metrics["failed_gate"] = outcome.FailedGate
	}

	return models.DecisionResult{
		Signal:            outcome.Signal,
		Confidence:        outcome.Confidence,
		Reasons:           reasons,
		Metrics:           metrics,
		PriceLevel:        price,
		AnalysisTimestamp: dctx.Timestamp,
	}
}

// healthSummary reports which modules were OK vs not, in stable name order
// so identical inputs produce identical reasons.
func healthSummary(results map[string]models.AnalysisResult) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := make([]string, 0, len(names))
	bad := make([]string, 0, len(names))
	for _, name := range names {
		if results[name].Status == models.StatusOK {
			ok = append(ok, name)
		} else {
			bad = append(bad, fmt.Sprintf("%s=%s", name, results[name].Status))
		}
	}
	return fmt.Sprintf("modules ok=%v unhealthy=%v", ok, bad)
}

func lastClose(dctx models.DecisionContext) float64 {
	if c, ok := dctx.ClosedDaily.Last(); ok {
		return c.Close
	}
	if c, ok := dctx.ClosedWeekly.Last(); ok {
		return c.Close
	}
	return 0
}
