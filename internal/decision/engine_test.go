package decision

import (
	"context"
	"reflect"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func day(d int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func dailySeries(closes ...float64) models.CandleSeries {
	cs := make([]models.Candle, len(closes))
	for i, c := range closes {
		cs[i] = models.Candle{Bucket: day(i), Symbol: "BTCUSDT", Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	return models.NewCandleSeries(cs)
}

func testContext(ts time.Time) models.DecisionContext {
	return models.DecisionContext{
		Symbol:      "BTCUSDT",
		ClosedDaily: dailySeries(100, 101, 102),
		Timestamp:   ts,
		Strategy:    baseConfig(),
	}
}

func TestDecideConfirmedLongScenario(t *testing.T) {
	e := NewEngine(nil)
	results := map[string]models.AnalysisResult{
		"A": models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.83, 0.5, ""),
		"B": models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.5, 0.1, ""),
		"C": models.ErrorResult("down"),
	}
	res := e.Decide(context.Background(), testContext(day(2)), results)

	if res.Signal != models.SignalLong {
		t.Fatalf("signal = %v, want LONG; reasons=%v", res.Signal, res.Reasons)
	}
	if res.Confidence != 0.6 {
		t.Fatalf("confidence = %v, want 0.6", res.Confidence)
	}
	if res.PriceLevel != 102 {
		t.Fatalf("price level = %v, want last close 102", res.PriceLevel)
	}
	if len(res.Reasons) != 3 {
		t.Fatalf("expected gate/health/score reasons in order, got %v", res.Reasons)
	}
	if res.Metrics["long_score"] != 0.6 {
		t.Fatalf("metrics long_score = %v", res.Metrics["long_score"])
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	e := NewEngine(nil)
	results := map[string]models.AnalysisResult{
		"A": models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.8, 0.5, "trend up"),
		"B": models.NewAnalysisResult(models.StatusDegraded, models.StateLong, 0.4, 0.1, "stale data"),
		"C": models.NewAnalysisResult(models.StatusOK, models.StateShort, 0.2, 0.05, "overbought"),
	}
	a := e.Decide(context.Background(), testContext(day(2)), results)
	b := e.Decide(context.Background(), testContext(day(2)), results)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different results:\n%+v\n%+v", a, b)
	}
}

func TestDecideHealthGateNamesModuleInMetrics(t *testing.T) {
	e := NewEngine(nil)
	results := map[string]models.AnalysisResult{
		"A": models.ErrorResult("feed gap"),
		"B": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.2, ""),
	}
	res := e.Decide(context.Background(), testContext(day(2)), results)
	if res.Signal != models.SignalHold {
		t.Fatalf("signal = %v, want HOLD", res.Signal)
	}
	if res.Metrics["failed_gate"] != GateHealth {
		t.Fatalf("failed_gate = %v, want %s", res.Metrics["failed_gate"], GateHealth)
	}
}

func TestDecideEmptyResultsIsTotal(t *testing.T) {
	e := NewEngine(nil)
	res := e.Decide(context.Background(), testContext(day(2)), nil)
	if res.Signal != models.SignalHold {
		t.Fatalf("empty results must HOLD, got %+v", res)
	}
	if res.Metrics["failed_gate"] != GateHealth {
		t.Fatalf("missing critical module should fail health gate, got %v", res.Metrics["failed_gate"])
	}
}

func TestDecideCancelledContextHolds(t *testing.T) {
	e := NewEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := e.Decide(ctx, testContext(day(2)), nil)
	if res.Signal != models.SignalHold || res.Confidence != 0 {
		t.Fatalf("cancelled context should HOLD with zero confidence, got %+v", res)
	}
}

func TestDecideNoLookAhead(t *testing.T) {
	e := NewEngine(nil)
	results := map[string]models.AnalysisResult{
		"A": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.6, ""),
	}

	ts := day(2)
	base := testContext(ts)
	baseRes := e.Decide(context.Background(), base, results)

	// Appending future rows beyond ts must not change the decision once the
	// context is sliced to ts.
	extended := dailySeries(100, 101, 102, 500, 9)
	future := models.DecisionContext{
		Symbol:      base.Symbol,
		ClosedDaily: extended.UpTo(ts),
		Timestamp:   ts,
		Strategy:    base.Strategy,
	}
	futRes := e.Decide(context.Background(), future, results)

	if !reflect.DeepEqual(baseRes, futRes) {
		t.Fatalf("future rows changed the decision:\n%+v\n%+v", baseRes, futRes)
	}
}
