// Package config provides configuration loading, defaults, and validation for
// the NanoForge compiler.
package config

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultElectronegativityDecay is the published MM4 damping factor for
	// stacked primary electronegativity contributions.
	DefaultElectronegativityDecay = 0.62

	// DefaultElectronegativityBeta is the published weight for secondary
	// (two-bond) contributions.
	DefaultElectronegativityBeta = 0.40

	// DefaultHydrogenMassScale doubles each hydrogen's mass and removes the
	// difference from the bonded heavy atom.
	DefaultHydrogenMassScale = 2.0

	// DefaultDiagonalizerRetries bounds the perturb-and-retry loop of the
	// eigen-decomposition.
	DefaultDiagonalizerRetries = 8

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stderr"

	DefaultMetricsNamespace = "nanoforge"
)

// ApplyDefaults fills every zero-value field in cfg with the compiler default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Compiler ──────────────────────────────────────────────────────────────
	if cfg.Compiler.ElectronegativityDecay == 0 {
		cfg.Compiler.ElectronegativityDecay = DefaultElectronegativityDecay
	}
	if cfg.Compiler.ElectronegativityBeta == 0 {
		cfg.Compiler.ElectronegativityBeta = DefaultElectronegativityBeta
	}
	if cfg.Compiler.HydrogenMassScale == 0 {
		cfg.Compiler.HydrogenMassScale = DefaultHydrogenMassScale
	}
	if cfg.Compiler.DiagonalizerRetries == 0 {
		cfg.Compiler.DiagonalizerRetries = DefaultDiagonalizerRetries
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = DefaultLogOutput
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// NewDefaultConfig returns a Config populated entirely from defaults.
// It always passes Validate.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
