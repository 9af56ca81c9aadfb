// Package analytics derives shopping intelligence from purchase history:
// price trends, purchase frequency, seasonal pricing, store recommendations,
// route planning, savings summaries, and bulk-purchase comparisons.
package analytics

import (
	"github.com/hearthward/grocer/internal/service"
)

// Default thresholds, overridable through Config.
const (
	DefaultMinMonthlySamples   = 2
	DefaultPremiumThresholdPct = 15.0
	DefaultPriceAlertPct       = 15.0
	DefaultRestockUrgentRatio  = 1.5
)

// Config tunes the analyzer's thresholds. The zero value selects defaults.
type Config struct {
	MinMonthlySamples   int
	PremiumThresholdPct float64
	PriceAlertPct       float64
	RestockUrgentRatio  float64
}

func (c Config) withDefaults() Config {
	if c.MinMonthlySamples <= 0 {
		c.MinMonthlySamples = DefaultMinMonthlySamples
	}
	if c.PremiumThresholdPct <= 0 {
		c.PremiumThresholdPct = DefaultPremiumThresholdPct
	}
	if c.PriceAlertPct <= 0 {
		c.PriceAlertPct = DefaultPriceAlertPct
	}
	if c.RestockUrgentRatio <= 0 {
		c.RestockUrgentRatio = DefaultRestockUrgentRatio
	}
	return c
}

// Analyzer computes read-only analytics over stored history.
type Analyzer struct {
	storage service.Storage
	cfg     Config
}

// New creates an analyzer with the given configuration.
func New(storage service.Storage, cfg Config) *Analyzer {
	return &Analyzer{storage: storage, cfg: cfg.withDefaults()}
}
