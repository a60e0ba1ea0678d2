package decision

import (
	"testing"

	"SignalDesk/internal/domain/models"
)

func TestCombineSplitsSides(t *testing.T) {
	results := map[string]models.AnalysisResult{
		"trend":    models.NewAnalysisResult(models.StatusOK, models.StateLong, 0.8, 0.4, "up"),
		"momentum": models.NewAnalysisResult(models.StatusOK, models.StateDown, 0.6, 0.15, "fading"),
		"tails":    models.NewAnalysisResult(models.StatusOK, models.StateNeutral, 0.5, 0.1, "mixed"),
	}
	weights := map[string]float64{"trend": 0.5, "momentum": 0.25, "tails": 0.25}

	s := Combine(results, weights)
	if s.LongScore != 0.4 {
		t.Fatalf("long score = %v, want 0.4", s.LongScore)
	}
	if s.ShortScore != 0.15 {
		t.Fatalf("short score = %v, want 0.15", s.ShortScore)
	}
	if s.TotalWeight != 1.0 {
		t.Fatalf("total weight = %v, want 1.0", s.TotalWeight)
	}
	// neutral module contributes to neither side but stays traceable
	if s.Contributions["tails"] != 0.1 {
		t.Fatalf("tails contribution = %v, want 0.1", s.Contributions["tails"])
	}
}

func TestCombineUpDownAliasDirections(t *testing.T) {
	results := map[string]models.AnalysisResult{
		"a": models.NewAnalysisResult(models.StatusOK, models.StateUp, 1, 0.3, ""),
		"b": models.NewAnalysisResult(models.StatusOK, models.StateShort, 1, 0.2, ""),
	}
	s := Combine(results, map[string]float64{"a": 0.3, "b": 0.2})
	if s.LongScore != 0.3 || s.ShortScore != 0.2 {
		t.Fatalf("got long=%v short=%v", s.LongScore, s.ShortScore)
	}
}

func TestCombineAbsentModuleIsZeroNotError(t *testing.T) {
	weights := map[string]float64{"trend": 0.6, "missing": 0.4}
	results := map[string]models.AnalysisResult{
		"trend": models.NewAnalysisResult(models.StatusOK, models.StateLong, 1, 0.6, ""),
	}
	s := Combine(results, weights)
	if s.LongScore != 0.6 {
		t.Fatalf("long score = %v, want 0.6", s.LongScore)
	}
	if s.TotalWeight != 1.0 {
		t.Fatalf("total weight should count configured weights, got %v", s.TotalWeight)
	}
}

func TestCombineErrorStatusContributesNothing(t *testing.T) {
	// NewAnalysisResult normalizes non-OK results to zero contribution even
	// when the analyzer claimed otherwise.
	res := models.NewAnalysisResult(models.StatusError, models.StateLong, 0.9, 0.9, "boom")
	if res.Contribution != 0 || res.State != models.StateNeutral {
		t.Fatalf("error result not normalized: %+v", res)
	}
	s := Combine(map[string]models.AnalysisResult{"x": res}, map[string]float64{"x": 1})
	if s.LongScore != 0 || s.ShortScore != 0 {
		t.Fatalf("error result leaked into scores: %+v", s)
	}
}

func TestWinningTieIsHold(t *testing.T) {
	s := CombinedScores{LongScore: 0.3, ShortScore: 0.3}
	sig, conf := s.Winning()
	if sig != models.SignalHold || conf != 0 {
		t.Fatalf("tie should be HOLD/0, got %v/%v", sig, conf)
	}
}
