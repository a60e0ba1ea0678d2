package analyzers

import (
	"context"
	"fmt"
	"math"

	"SignalDesk/internal/domain/models"
)

const momentumLookbackDays = 20

// MomentumAnalyzer scores the daily rate of change over a fixed lookback.
// A move of 10% over the lookback saturates conviction.
type MomentumAnalyzer struct{}

func NewMomentumAnalyzer() *MomentumAnalyzer { return &MomentumAnalyzer{} }

func (a *MomentumAnalyzer) Name() string { return "momentum" }

func (a *MomentumAnalyzer) Analyze(_ context.Context, dctx models.DecisionContext) (models.AnalysisResult, error) {
	x := closes(dctx.ClosedDaily)
	if len(x) <= momentumLookbackDays {
		return models.NewAnalysisResult(models.StatusDegraded, models.StateNeutral, 0, 0,
			fmt.Sprintf("momentum: need %d daily closes, have %d", momentumLookbackDays+1, len(x))), nil
	}

	r, ok := last(roc(x, momentumLookbackDays))
	if !ok {
		return models.NewAnalysisResult(models.StatusDegraded, models.StateNeutral, 0, 0,
			"momentum: rate of change not available"), nil
	}

	score := math.Min(math.Abs(r)/0.10, 1.0)

	state := models.StateNeutral
	switch {
	case r > 0:
		state = models.StateUp
	case r < 0:
		state = models.StateDown
	}

	reason := fmt.Sprintf("momentum: roc%d=%.4f", momentumLookbackDays, r)
	return models.NewAnalysisResult(models.StatusOK, state, score, 0, reason), nil
}
