// Package config defines all configuration structures for the NanoForge
// compiler.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// CompilerConfig holds the tunables of the parameter pipeline.  Every field
// has a physically-motivated default applied by ApplyDefaults; overriding them
// changes compiled coefficients, so overrides belong in experiments, not
// production runs.
type CompilerConfig struct {
	// ElectronegativityDecay is the cumulative decay factor applied to the
	// second and subsequent primary electronegativity contributions of a bond.
	ElectronegativityDecay float64 `mapstructure:"electronegativity_decay"`

	// ElectronegativityBeta is the weight applied to secondary (two-bond)
	// electronegativity contributions.
	ElectronegativityBeta float64 `mapstructure:"electronegativity_beta"`

	// HydrogenMassScale is the default hydrogen-mass-repartitioning factor
	// used when a descriptor leaves its own scale unset.
	HydrogenMassScale float64 `mapstructure:"hydrogen_mass_scale"`

	// CorrectorWorkers bounds the task pool of the electronegativity
	// corrector.  Zero selects GOMAXPROCS.
	CorrectorWorkers int `mapstructure:"corrector_workers"`

	// DiagonalizerRetries bounds the perturb-and-retry loop of the 3×3
	// eigen-decomposition.
	DiagonalizerRetries int `mapstructure:"diagonalizer_retries"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "console"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// MetricsConfig holds Prometheus metrics parameters.
type MetricsConfig struct {
	// Enabled is loaded with the rest of the configuration; neither the
	// client nor the compiler reads it.  Metrics are registered and recorded
	// whenever a registerer is passed to client.WithMetrics.
	Enabled bool `mapstructure:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Config — the aggregate
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object for the compiler library.
type Config struct {
	Compiler CompilerConfig `mapstructure:"compiler"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Validate checks cross-field and range constraints.  It assumes
// ApplyDefaults has already run, so zero values that have defaults never
// reach this point.
func (c *Config) Validate() error {
	cc := c.Compiler
	if cc.ElectronegativityDecay <= 0 || cc.ElectronegativityDecay >= 1 {
		return fmt.Errorf("config: electronegativity_decay must be in (0, 1), got %v", cc.ElectronegativityDecay)
	}
	if cc.ElectronegativityBeta < 0 || cc.ElectronegativityBeta > 1 {
		return fmt.Errorf("config: electronegativity_beta must be in [0, 1], got %v", cc.ElectronegativityBeta)
	}
	if cc.HydrogenMassScale < 1 {
		return fmt.Errorf("config: hydrogen_mass_scale must be ≥ 1, got %v", cc.HydrogenMassScale)
	}
	if cc.CorrectorWorkers < 0 {
		return fmt.Errorf("config: corrector_workers must be ≥ 0, got %d", cc.CorrectorWorkers)
	}
	if cc.DiagonalizerRetries < 1 {
		return fmt.Errorf("config: diagonalizer_retries must be ≥ 1, got %d", cc.DiagonalizerRetries)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log level %q is not one of debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log format %q is not one of json|console", c.Log.Format)
	}
	return nil
}
