package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
)

type stubAnalyzer struct {
	name string
	res  models.AnalysisResult
	err  error
	boom bool
}

func (s stubAnalyzer) Name() string { return s.name }

func (s stubAnalyzer) Analyze(context.Context, models.DecisionContext) (models.AnalysisResult, error) {
	if s.boom {
		panic("indicator out of range")
	}
	return s.res, s.err
}

func resolverContext() models.DecisionContext {
	return models.DecisionContext{
		Symbol: "BTCUSDT",
		Strategy: models.StrategyConfig{
			Weights: map[string]float64{"trend": 0.6, "momentum": 0.4, "broken": 0.2},
		},
	}
}

func TestResolveAppliesWeights(t *testing.T) {
	analyzers := []domsvc.Analyzer{
		stubAnalyzer{name: "trend", res: models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.5, 0, "up")},
		stubAnalyzer{name: "momentum", res: models.NewAnalysisResult(models.StatusOK, models.StateShort, 1.0, 0, "down")},
	}
	r := NewAnalyzerResolver(analyzers, nil, nil)
	out := r.Resolve(context.Background(), resolverContext())

	if got := out["trend"].Contribution; got != 0.3 {
		t.Fatalf("trend contribution = %v, want score*weight = 0.3", got)
	}
	if got := out["momentum"].Contribution; got != 0.4 {
		t.Fatalf("momentum contribution = %v, want 0.4", got)
	}
}

func TestResolveConvertsErrors(t *testing.T) {
	analyzers := []domsvc.Analyzer{
		stubAnalyzer{name: "broken", err: errors.New("feed gap")},
	}
	r := NewAnalyzerResolver(analyzers, nil, nil)
	out := r.Resolve(context.Background(), resolverContext())

	res := out["broken"]
	if res.Status != models.StatusError {
		t.Fatalf("status = %v, want error", res.Status)
	}
	if res.Contribution != 0 || res.State != models.StateNeutral {
		t.Fatalf("error result not normalized: %+v", res)
	}
	if !strings.Contains(res.Reason, "feed gap") {
		t.Fatalf("reason should carry the error text: %q", res.Reason)
	}
}

func TestResolveConvertsPanics(t *testing.T) {
	analyzers := []domsvc.Analyzer{
		stubAnalyzer{name: "broken", boom: true},
		stubAnalyzer{name: "trend", res: models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0, "")},
	}
	r := NewAnalyzerResolver(analyzers, nil, nil)
	out := r.Resolve(context.Background(), resolverContext())

	if out["broken"].Status != models.StatusError {
		t.Fatalf("panicking analyzer must surface as error result: %+v", out["broken"])
	}
	// the healthy analyzer is unaffected
	if out["trend"].Status != models.StatusOK || out["trend"].Contribution != 0.6 {
		t.Fatalf("healthy analyzer corrupted: %+v", out["trend"])
	}
}

func TestResolveDisabledAnalyzer(t *testing.T) {
	analyzers := []domsvc.Analyzer{
		stubAnalyzer{name: "trend", res: models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0, "")},
	}
	r := NewAnalyzerResolver(analyzers, []string{"trend"}, nil)
	out := r.Resolve(context.Background(), resolverContext())

	if out["trend"].Status != models.StatusDisabled {
		t.Fatalf("status = %v, want disabled", out["trend"].Status)
	}
	if out["trend"].Contribution != 0 {
		t.Fatalf("disabled analyzer contributed %v", out["trend"].Contribution)
	}
}
