package analyzers

import (
	"context"
	"fmt"
	"math"

	"SignalDesk/internal/domain/models"
)

const tailsLookbackWeeks = 8

// WeeklyTailsAnalyzer reads buying and selling pressure from candle wicks on
// the weekly timeframe. Persistent lower wicks mean dip buyers keep stepping
// in; persistent upper wicks mean rallies keep getting sold.
type WeeklyTailsAnalyzer struct{}

func NewWeeklyTailsAnalyzer() *WeeklyTailsAnalyzer { return &WeeklyTailsAnalyzer{} }

func (a *WeeklyTailsAnalyzer) Name() string { return "weekly_tails" }

func (a *WeeklyTailsAnalyzer) Analyze(_ context.Context, dctx models.DecisionContext) (models.AnalysisResult, error) {
	series := dctx.ClosedWeekly
	if series.Len() < tailsLookbackWeeks {
		return models.NewAnalysisResult(models.StatusDegraded, models.StateNeutral, 0, 0,
			fmt.Sprintf("weekly_tails: need %d weekly candles, have %d", tailsLookbackWeeks, series.Len())), nil
	}

	recent := series.Candles()[series.Len()-tailsLookbackWeeks:]
	var lower, upper float64
	for _, c := range recent {
		bodyLow := math.Min(c.Open, c.Close)
		bodyHigh := math.Max(c.Open, c.Close)
		rng := c.High - c.Low
		if rng <= 0 {
			continue
		}
		lower += (bodyLow - c.Low) / rng
		upper += (c.High - bodyHigh) / rng
	}

	total := lower + upper
	if total == 0 {
		return models.NewAnalysisResult(models.StatusOK, models.StateNeutral, 0, 0,
			"weekly_tails: no wicks in lookback"), nil
	}

	// balance in [-1, 1], positive when lower wicks dominate
	balance := (lower - upper) / total
	score := math.Abs(balance)

	state := models.StateNeutral
	switch {
	case balance > 0.1:
		state = models.StateUp
	case balance < -0.1:
		state = models.StateDown
	default:
		score = 0
	}

	reason := fmt.Sprintf("weekly_tails: lower=%.2f upper=%.2f balance=%.2f over %d weeks", lower, upper, balance, tailsLookbackWeeks)
	return models.NewAnalysisResult(models.StatusOK, state, score, 0, reason), nil
}
