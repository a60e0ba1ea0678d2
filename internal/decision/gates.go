package decision

import (
	"fmt"

	"SignalDesk/internal/domain/models"
)

// Gate names, reported in DecisionResult metrics when a gate blocks a trade.
const (
	GateHealth    = "health"
	GateAnchor    = "anchor"
	GateThreshold = "threshold"
)

// GateOutcome is the tagged result of running the gate chain. Gate failures
// are expected control flow, never errors.
type GateOutcome struct {
	Passed     bool
	Signal     models.Signal
	Confidence float64
	FailedGate string // empty when Passed
	Reason     string
}

// EvaluateGates runs the three gates in fixed order against the combined
// scores: module health for critical analyzers, directional agreement of the
// anchor module, then the confidence threshold. The first failing gate wins
// and forces HOLD with a named reason.
func EvaluateGates(results map[string]models.AnalysisResult, scores CombinedScores, cfg models.StrategyConfig) GateOutcome {
	// Health gate runs before any scoring is considered: a broken critical
	// analyzer must never be traded through.
	for _, name := range cfg.CriticalModules {
		res, ok := results[name]
		if !ok {
			return failed(GateHealth, fmt.Sprintf("critical module %q missing from results", name))
		}
		if res.Status != models.StatusOK {
			return failed(GateHealth, fmt.Sprintf("critical module %q unhealthy: %s", name, res.Status))
		}
	}

	winner, score := scores.Winning()
	if winner == models.SignalHold {
		return failed(GateThreshold, "no directional edge: long and short scores balanced")
	}

	// Anchor gate: the designated module must itself agree with the side
	// the combined scores point to.
	anchor, ok := results[cfg.AnchorModule]
	if !ok {
		return failed(GateAnchor, fmt.Sprintf("anchor module %q missing from results", cfg.AnchorModule))
	}
	anchorSide, directional := anchor.State.Side()
	if !directional {
		return failed(GateAnchor, fmt.Sprintf("anchor module %q is %s while scores favor %s", cfg.AnchorModule, anchor.State, winner))
	}
	if anchorSide != winner {
		return failed(GateAnchor, fmt.Sprintf("anchor module %q points %s against winning side %s", cfg.AnchorModule, anchorSide, winner))
	}

	// Threshold gate, inclusive boundary: a score exactly at the threshold
	// passes.
	if score < cfg.ConfidenceThreshold {
		return failed(GateThreshold, fmt.Sprintf("winning score %.4f below confidence threshold %.4f", score, cfg.ConfidenceThreshold))
	}

	return GateOutcome{
		Passed:     true,
		Signal:     winner,
		Confidence: score,
		Reason:     fmt.Sprintf("%s confirmed with confidence %.4f", winner, score),
	}
}

func failed(gate, reason string) GateOutcome {
	return GateOutcome{
		Passed:     false,
		Signal:     models.SignalHold,
		FailedGate: gate,
		Reason:     reason,
	}
}
