package models

import "fmt"

// StrategyConfig is the validated configuration record the decision engine
// and backtester consume. Validation runs once at construction; the engine
// never re-checks fields defensively.
type StrategyConfig struct {
	Weights             map[string]float64 `yaml:"weights" json:"weights"`
	ConfidenceThreshold float64            `yaml:"confidence_threshold" json:"confidence_threshold" default:"0.5"`
	CriticalModules     []string           `yaml:"critical_modules" json:"critical_modules"`
	AnchorModule        string             `yaml:"anchor_module" json:"anchor_module"`
	HoldingPeriodDays   int                `yaml:"holding_period_days" json:"holding_period_days" default:"14"`
	WarmupSteps         int                `yaml:"warmup_steps" json:"warmup_steps" default:"26"`
}

// Validate checks the record once, at load time.
func (c StrategyConfig) Validate() error {
	if len(c.Weights) == 0 {
		return fmt.Errorf("strategy: weights cannot be empty")
	}
	for name, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("strategy: weight for %q must be non-negative, got %v", name, w)
		}
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("strategy: confidence_threshold must be in [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.AnchorModule == "" {
		return fmt.Errorf("strategy: anchor_module is required")
	}
	if _, ok := c.Weights[c.AnchorModule]; !ok {
		return fmt.Errorf("strategy: anchor_module %q has no configured weight", c.AnchorModule)
	}
	for _, name := range c.CriticalModules {
		if _, ok := c.Weights[name]; !ok {
			return fmt.Errorf("strategy: critical module %q has no configured weight", name)
		}
	}
	if c.HoldingPeriodDays <= 0 {
		return fmt.Errorf("strategy: holding_period_days must be positive, got %d", c.HoldingPeriodDays)
	}
	if c.WarmupSteps < 0 {
		return fmt.Errorf("strategy: warmup_steps must be non-negative, got %d", c.WarmupSteps)
	}
	return nil
}

// Weight returns the configured weight for a module, zero when absent.
func (c StrategyConfig) Weight(module string) float64 {
	return c.Weights[module]
}

// IsCritical reports whether the module is subject to the health gate.
func (c StrategyConfig) IsCritical(module string) bool {
	for _, m := range c.CriticalModules {
		if m == module {
			return true
		}
	}
	return false
}
