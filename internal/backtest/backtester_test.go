package backtest

import (
	"context"
	"testing"
	"time"

	"SignalDesk/internal/decision"
	"SignalDesk/internal/domain/models"
)

func weekAt(w int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*w)
}

func weeklySeries(n int) models.CandleSeries {
	cs := make([]models.Candle, n)
	for i := range cs {
		price := 100 + float64(i)
		cs[i] = models.Candle{Bucket: weekAt(i), Symbol: "BTCUSDT", Open: price, High: price, Low: price, Close: price}
	}
	return models.NewCandleSeries(cs)
}

func dailyCovering(weeks int) models.CandleSeries {
	cs := make([]models.Candle, weeks*7)
	for i := range cs {
		price := 100 + float64(i)/7
		cs[i] = models.Candle{Bucket: weekAt(0).AddDate(0, 0, i), Symbol: "BTCUSDT", Open: price, High: price, Low: price, Close: price}
	}
	return models.NewCandleSeries(cs)
}

func testStrategy() models.StrategyConfig {
	return models.StrategyConfig{
		Weights:             map[string]float64{"trend": 1},
		ConfidenceThreshold: 0.5,
		CriticalModules:     []string{"trend"},
		AnchorModule:        "trend",
		HoldingPeriodDays:   14,
		WarmupSteps:         3,
	}
}

func alwaysLong(context.Context, models.DecisionContext) map[string]models.AnalysisResult {
	return map[string]models.AnalysisResult{
		"trend": models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.8, 0.8, "up"),
	}
}

func engineDecide() DecisionFunc {
	e := decision.NewEngine(nil)
	return e.Decide
}

func TestRunEmitsAfterWarmup(t *testing.T) {
	bt := New(engineDecide(), alwaysLong, nil, nil)
	cfg := Config{Symbol: "BTCUSDT", Strategy: testStrategy()}

	res, err := bt.Run(context.Background(), cfg, dailyCovering(12), weeklySeries(12))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// 12 weekly steps minus 3 warmup steps.
	if got := len(res.Records) + res.Summary.HoldSteps; got != 9 {
		t.Fatalf("decided steps = %d, want 9", got)
	}
	if len(res.Records) == 0 {
		t.Fatal("expected emitted signals")
	}
	for _, rec := range res.Records {
		if rec.Decision.Signal == models.SignalHold {
			t.Fatalf("HOLD must never become a signal record: %+v", rec)
		}
	}
}

func TestRunNoLookAhead(t *testing.T) {
	// Record the daily slice length each step sees; every slice must end at
	// or before the step timestamp.
	var seen []struct {
		ts   time.Time
		last time.Time
	}
	spy := func(_ context.Context, dctx models.DecisionContext) map[string]models.AnalysisResult {
		if c, ok := dctx.ClosedDaily.Last(); ok {
			seen = append(seen, struct {
				ts   time.Time
				last time.Time
			}{dctx.Timestamp, c.Bucket})
		}
		return alwaysLong(nil, dctx)
	}

	bt := New(engineDecide(), spy, nil, nil)
	cfg := Config{Symbol: "BTCUSDT", Strategy: testStrategy()}
	if _, err := bt.Run(context.Background(), cfg, dailyCovering(12), weeklySeries(12)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen) == 0 {
		t.Fatal("resolver never called")
	}
	for _, s := range seen {
		if s.last.After(s.ts) {
			t.Fatalf("leak: step %v saw daily candle %v", s.ts, s.last)
		}
	}
}

func TestRunStepPanicSkipsStep(t *testing.T) {
	calls := 0
	panicky := func(ctx context.Context, dctx models.DecisionContext) map[string]models.AnalysisResult {
		calls++
		if calls == 2 {
			panic("resolver exploded")
		}
		return alwaysLong(ctx, dctx)
	}

	bt := New(engineDecide(), panicky, nil, nil)
	cfg := Config{Symbol: "BTCUSDT", Strategy: testStrategy()}
	res, err := bt.Run(context.Background(), cfg, dailyCovering(12), weeklySeries(12))
	if err != nil {
		t.Fatalf("a step failure must never abort the run: %v", err)
	}
	if calls != 9 {
		t.Fatalf("loop stopped early: %d resolver calls, want 9", calls)
	}
	// one step lost to the panic
	if got := len(res.Records) + res.Summary.HoldSteps; got != 8 {
		t.Fatalf("decided steps = %d, want 8", got)
	}
}

func TestRunCancellationStopsIterating(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	counting := func(c context.Context, dctx models.DecisionContext) map[string]models.AnalysisResult {
		calls++
		if calls == 2 {
			cancel()
		}
		return alwaysLong(c, dctx)
	}

	bt := New(engineDecide(), counting, nil, nil)
	cfg := Config{Symbol: "BTCUSDT", Strategy: testStrategy()}
	res, err := bt.Run(ctx, cfg, dailyCovering(12), weeklySeries(12))
	if err != nil {
		t.Fatalf("cancellation is not an error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("resolver calls = %d, want 2", calls)
	}
	if len(res.Records) > 2 {
		t.Fatalf("records after cancel: %d", len(res.Records))
	}
}

func TestRunEmptySeriesErrors(t *testing.T) {
	bt := New(engineDecide(), alwaysLong, nil, nil)
	cfg := Config{Symbol: "BTCUSDT", Strategy: testStrategy()}
	if _, err := bt.Run(context.Background(), cfg, models.CandleSeries{}, weeklySeries(4)); err == nil {
		t.Fatal("expected error for empty daily series")
	}
	if _, err := bt.Run(context.Background(), cfg, dailyCovering(4), models.CandleSeries{}); err == nil {
		t.Fatal("expected error for empty weekly series")
	}
}
