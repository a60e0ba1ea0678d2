package backtest

import (
	"math"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func resolvedRecord(signal models.Signal, pnl float64) models.SignalRecord {
	return models.SignalRecord{
		Symbol:    "BTCUSDT",
		EmittedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Decision:  models.DecisionResult{Signal: signal, Confidence: 0.6},
		Outcome: &models.Outcome{
			PnlPct:  pnl,
			Success: pnl > 0,
			Tier:    models.TierExact,
		},
	}
}

func TestSummarizeCountsAndAccuracy(t *testing.T) {
	records := []models.SignalRecord{
		resolvedRecord(models.SignalLong, 10),
		resolvedRecord(models.SignalLong, -5),
		resolvedRecord(models.SignalShort, 4),
		{Symbol: "BTCUSDT", Decision: models.DecisionResult{Signal: models.SignalLong}}, // unresolved
	}
	sum := Summarize(records, 7, 0)

	if sum.TotalSignals != 4 || sum.ResolvedSignals != 3 || sum.UnresolvedSignals != 1 {
		t.Fatalf("counts wrong: %+v", sum)
	}
	if sum.HoldSteps != 7 {
		t.Fatalf("hold steps = %d, want 7", sum.HoldSteps)
	}
	if sum.LongCount != 2 || sum.LongWins != 1 || sum.ShortCount != 1 || sum.ShortWins != 1 {
		t.Fatalf("per-side counts wrong: %+v", sum)
	}
	if math.Abs(sum.Accuracy-2.0/3.0) > 1e-12 {
		t.Fatalf("accuracy = %v", sum.Accuracy)
	}
	if sum.BestPnlPct != 10 || sum.WorstPnlPct != -5 {
		t.Fatalf("best/worst wrong: %+v", sum)
	}
	if math.Abs(sum.NetPnlPct-9) > 1e-12 {
		t.Fatalf("net pnl = %v, want 9", sum.NetPnlPct)
	}
}

func TestMaxDrawdownBounds(t *testing.T) {
	cases := []struct {
		name string
		pnls []float64
	}{
		{"monotonic gains", []float64{5, 5, 5}},
		{"single crash", []float64{-60}},
		{"recovery", []float64{20, -30, 40}},
		{"total wipeout", []float64{-100, -50}},
		{"empty", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dd := maxDrawdown(tc.pnls)
			if dd < 0 || dd > 100 {
				t.Fatalf("drawdown %v out of [0,100]", dd)
			}
		})
	}
}

func TestMaxDrawdownPeakToTrough(t *testing.T) {
	// equity runs 1.0, 1.2, 0.84: peak 1.2 to trough 0.84 is a 30% drawdown
	dd := maxDrawdown([]float64{20, -30})
	if math.Abs(dd-30) > 1e-9 {
		t.Fatalf("drawdown = %v, want 30", dd)
	}
}

func TestSharpeDegenerateCases(t *testing.T) {
	if s := sharpe([]float64{5}, 0); s != 0 {
		t.Fatalf("single trade sharpe = %v, want 0", s)
	}
	if s := sharpe([]float64{2, 2, 2}, 0); s != 0 {
		t.Fatalf("zero variance sharpe = %v, want 0", s)
	}
	if s := sharpe([]float64{3, -1, 4, 2}, 0); s <= 0 {
		t.Fatalf("positive-mean series should have positive sharpe, got %v", s)
	}
}

func TestProfitFactorSentinelWhenNoLosses(t *testing.T) {
	records := []models.SignalRecord{
		resolvedRecord(models.SignalLong, 5),
		resolvedRecord(models.SignalLong, 3),
	}
	sum := Summarize(records, 0, 0)
	if sum.ProfitFactor != ProfitFactorNoLosses {
		t.Fatalf("profit factor = %v, want sentinel %v", sum.ProfitFactor, ProfitFactorNoLosses)
	}
}

func TestRecoveryFactor(t *testing.T) {
	records := []models.SignalRecord{
		resolvedRecord(models.SignalLong, 20),
		resolvedRecord(models.SignalLong, -30),
		resolvedRecord(models.SignalLong, 40),
	}
	sum := Summarize(records, 0, 0)
	if sum.MaxDrawdownPct <= 0 {
		t.Fatalf("expected drawdown, got %v", sum.MaxDrawdownPct)
	}
	want := sum.NetPnlPct / sum.MaxDrawdownPct
	if math.Abs(sum.RecoveryFactor-want) > 1e-12 {
		t.Fatalf("recovery factor = %v, want %v", sum.RecoveryFactor, want)
	}
}
