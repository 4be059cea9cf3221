package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig_PassesValidation(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 0.62, cfg.Compiler.ElectronegativityDecay, 1e-12)
	assert.InDelta(t, 0.40, cfg.Compiler.ElectronegativityBeta, 1e-12)
	assert.InDelta(t, 2.0, cfg.Compiler.HydrogenMassScale, 1e-12)
	assert.Equal(t, DefaultDiagonalizerRetries, cfg.Compiler.DiagonalizerRetries)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "nanoforge", cfg.Metrics.Namespace)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.Compiler.ElectronegativityDecay = 0.5
	cfg.Compiler.CorrectorWorkers = 3
	cfg.Log.Level = "debug"
	ApplyDefaults(cfg)

	assert.InDelta(t, 0.5, cfg.Compiler.ElectronegativityDecay, 1e-12)
	assert.Equal(t, 3, cfg.Compiler.CorrectorWorkers)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields still default.
	assert.InDelta(t, 0.40, cfg.Compiler.ElectronegativityBeta, 1e-12)
}

func TestApplyDefaults_NilIsSafe(t *testing.T) {
	t.Parallel()
	ApplyDefaults(nil)
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"decay at one", func(c *Config) { c.Compiler.ElectronegativityDecay = 1 }},
		{"decay negative", func(c *Config) { c.Compiler.ElectronegativityDecay = -0.1 }},
		{"beta above one", func(c *Config) { c.Compiler.ElectronegativityBeta = 1.5 }},
		{"mass scale below one", func(c *Config) { c.Compiler.HydrogenMassScale = 0.5 }},
		{"negative workers", func(c *Config) { c.Compiler.CorrectorWorkers = -1 }},
		{"negative retries", func(c *Config) { c.Compiler.DiagonalizerRetries = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nanoforge.yaml")
	content := []byte("compiler:\n  electronegativity_decay: 0.55\n  corrector_workers: 2\nlog:\n  level: warn\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, cfg.Compiler.ElectronegativityDecay, 1e-12)
	assert.Equal(t, 2, cfg.Compiler.CorrectorWorkers)
	assert.Equal(t, "warn", cfg.Log.Level)
	// Defaults fill what the file omits.
	assert.InDelta(t, 0.40, cfg.Compiler.ElectronegativityBeta, 1e-12)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValueRejected(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nanoforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compiler:\n  electronegativity_decay: 1.5\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv_Override(t *testing.T) {
	t.Setenv("NANOFORGE_LOG_LEVEL", "debug")
	t.Setenv("NANOFORGE_COMPILER_CORRECTOR_WORKERS", "5")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Compiler.CorrectorWorkers)
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustLoad("/nonexistent/nanoforge.yaml") })
}
