package decision

import (
	"strings"
	"testing"

	"SignalDesk/internal/domain/models"
)

func baseConfig() models.StrategyConfig {
	return models.StrategyConfig{
		Weights:             map[string]float64{"A": 0.6, "B": 0.2, "C": 0.2},
		ConfidenceThreshold: 0.5,
		CriticalModules:     []string{"A"},
		AnchorModule:        "A",
		HoldingPeriodDays:   14,
	}
}

func TestGatesConfirmedLong(t *testing.T) {
	// A=0.5 long, B=0.1 long, C errored: long score 0.6 clears every gate.
	results := map[string]models.AnalysisResult{
		"A": models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.83, 0.5, ""),
		"B": models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.5, 0.1, ""),
		"C": models.ErrorResult("indicator failed"),
	}
	scores := Combine(results, baseConfig().Weights)
	out := EvaluateGates(results, scores, baseConfig())

	if !out.Passed {
		t.Fatalf("expected pass, failed gate %s: %s", out.FailedGate, out.Reason)
	}
	if out.Signal != models.SignalLong {
		t.Fatalf("signal = %v, want LONG", out.Signal)
	}
	if out.Confidence != 0.6 {
		t.Fatalf("confidence = %v, want 0.6", out.Confidence)
	}
}

func TestHealthGateBlocksUnhealthyCritical(t *testing.T) {
	results := map[string]models.AnalysisResult{
		"A": models.ErrorResult("broken"),
		"B": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.2, ""),
	}
	out := EvaluateGates(results, Combine(results, baseConfig().Weights), baseConfig())
	if out.Passed || out.FailedGate != GateHealth {
		t.Fatalf("expected health gate failure, got %+v", out)
	}
	if !strings.Contains(out.Reason, `"A"`) {
		t.Fatalf("reason should name the module: %s", out.Reason)
	}
}

func TestHealthGateAbsentCriticalCountsAsFailure(t *testing.T) {
	results := map[string]models.AnalysisResult{
		"B": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.2, ""),
	}
	out := EvaluateGates(results, Combine(results, baseConfig().Weights), baseConfig())
	if out.Passed || out.FailedGate != GateHealth {
		t.Fatalf("expected health gate failure for missing critical, got %+v", out)
	}
}

func TestAnchorGateBlocksHoldAnchor(t *testing.T) {
	// Anchor holds while B alone leans long: gate 2 fails before threshold
	// even gets a say.
	results := map[string]models.AnalysisResult{
		"A": models.NewAnalysisResult(models.StatusOK, models.StateHold, 0, 0, "no edge"),
		"B": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.3, ""),
	}
	out := EvaluateGates(results, Combine(results, baseConfig().Weights), baseConfig())
	if out.Passed || out.Signal != models.SignalHold {
		t.Fatalf("expected HOLD, got %+v", out)
	}
	if out.FailedGate != GateAnchor {
		t.Fatalf("failed gate = %s, want %s", out.FailedGate, GateAnchor)
	}
}

func TestAnchorGateBlocksDisagreeingAnchor(t *testing.T) {
	results := map[string]models.AnalysisResult{
		"A": models.NewAnalysisResult(models.StatusOK, models.StateShort, 0.5, 0.3, ""),
		"B": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.2, ""),
		"C": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.2, ""),
	}
	// long 0.4 vs short 0.3: winner is LONG, anchor says SHORT
	out := EvaluateGates(results, Combine(results, baseConfig().Weights), baseConfig())
	if out.Passed || out.FailedGate != GateAnchor {
		t.Fatalf("expected anchor gate failure, got %+v", out)
	}
}

func TestThresholdGateInclusiveBoundary(t *testing.T) {
	cfg := baseConfig()
	results := map[string]models.AnalysisResult{
		"A": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.5, ""),
	}
	out := EvaluateGates(results, Combine(results, cfg.Weights), cfg)
	if !out.Passed {
		t.Fatalf("score equal to threshold must pass: %+v", out)
	}

	results["A"] = models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.4999, "")
	out = EvaluateGates(results, Combine(results, cfg.Weights), cfg)
	if out.Passed || out.FailedGate != GateThreshold {
		t.Fatalf("score below threshold must fail threshold gate: %+v", out)
	}
}
