package analyzers

import (
	"context"
	"fmt"
	"math"

	"SignalDesk/internal/domain/models"
)

const (
	trendFastPeriod = 10
	trendSlowPeriod = 30
)

// TrendAnalyzer reads the direction of the weekly close through a fast/slow
// moving-average crossover. Conviction grows with the relative spread
// between the two averages.
type TrendAnalyzer struct{}

func NewTrendAnalyzer() *TrendAnalyzer { return &TrendAnalyzer{} }

func (a *TrendAnalyzer) Name() string { return "trend" }

func (a *TrendAnalyzer) Analyze(_ context.Context, dctx models.DecisionContext) (models.AnalysisResult, error) {
	x := closes(dctx.ClosedWeekly)
	if len(x) < trendSlowPeriod {
		return models.NewAnalysisResult(models.StatusDegraded, models.StateNeutral, 0, 0,
			fmt.Sprintf("trend: need %d weekly closes, have %d", trendSlowPeriod, len(x))), nil
	}

	fast, okF := last(sma(x, trendFastPeriod))
	slow, okS := last(sma(x, trendSlowPeriod))
	if !okF || !okS || slow == 0 {
		return models.NewAnalysisResult(models.StatusDegraded, models.StateNeutral, 0, 0,
			"trend: averages not available"), nil
	}

	spread := (fast - slow) / slow
	// 4% spread between averages saturates conviction
	score := math.Min(math.Abs(spread)/0.04, 1.0)

	state := models.StateNeutral
	switch {
	case spread > 0:
		state = models.StateUp
	case spread < 0:
		state = models.StateDown
	}

	reason := fmt.Sprintf("trend: sma%d=%.2f sma%d=%.2f spread=%.4f", trendFastPeriod, fast, trendSlowPeriod, slow, spread)
	return models.NewAnalysisResult(models.StatusOK, state, score, 0, reason), nil
}
