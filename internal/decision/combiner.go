package decision

import (
	"SignalDesk/internal/domain/models"
)

// CombinedScores is the combiner's output: weighted directional scores plus
// the per-module contributions kept for traceability.
type CombinedScores struct {
	LongScore     float64
	ShortScore    float64
	TotalWeight   float64
	Contributions map[string]float64
}

// Winning returns the higher-scoring side and its score. Ties resolve to
// HOLD: equal long and short pressure is no edge at all.
func (s CombinedScores) Winning() (models.Signal, float64) {
	switch {
	case s.LongScore > s.ShortScore:
		return models.SignalLong, s.LongScore
	case s.ShortScore > s.LongScore:
		return models.SignalShort, s.ShortScore
	default:
		return models.SignalHold, 0
	}
}

// Combine folds per-module analysis results into weighted long/short scores.
// Pure function: directional states add their contribution to the matching
// side, HOLD/NEUTRAL states count toward neither but stay visible in the
// contribution map. Modules configured but absent from results contribute
// zero rather than erroring.
func Combine(results map[string]models.AnalysisResult, weights map[string]float64) CombinedScores {
	out := CombinedScores{Contributions: make(map[string]float64, len(results))}

	for name := range weights {
		out.TotalWeight += weights[name]
	}

	for name, res := range results {
		out.Contributions[name] = res.Contribution
		side, directional := res.State.Side()
		if !directional {
			continue
		}
		switch side {
		case models.SignalLong:
			out.LongScore += res.Contribution
		case models.SignalShort:
			out.ShortScore += res.Contribution
		}
	}
	return out
}
