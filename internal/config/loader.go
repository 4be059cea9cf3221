// Package config provides configuration loading, defaults, and validation for
// the NanoForge compiler.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all compiler settings.
const envPrefix = "NANOFORGE"

// newViper builds a pre-configured Viper instance with the compiler's standard
// settings: YAML file type, NANOFORGE_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like
// "compiler.electronegativity_decay" resolve to
// "NANOFORGE_COMPILER_ELECTRONEGATIVITY_DECAY".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to all fields in the Config struct.  Viper's
	// AutomaticEnv does not pick up nested environment variables unless they
	// are present in the configuration file or explicitly bound.
	bindEnvs(v, Config{})

	return v
}

// bindEnvs recursively binds each field of the given struct to an environment
// variable using its "mapstructure" tag.
func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ift := reflect.TypeOf(iface)
	if ift.Kind() == reflect.Ptr {
		ift = ift.Elem()
	}
	for i := 0; i < ift.NumField(); i++ {
		field := ift.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "," {
			continue
		}
		newParts := append(parts, tag)
		if field.Type.Kind() == reflect.Struct {
			bindEnvs(v, reflect.New(field.Type).Elem().Interface(), newParts...)
		} else {
			key := strings.Join(newParts, ".")
			_ = v.BindEnv(key)
		}
	}
}

// Load reads the YAML file at configPath, merges any NANOFORGE_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from NANOFORGE_* environment variables,
// with no config file required.
//
// Environment variable naming convention:
//
//	NANOFORGE_<SECTION>_<FIELD>   e.g.  NANOFORGE_LOG_LEVEL,
//	NANOFORGE_COMPILER_CORRECTOR_WORKERS
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading the safe subset of settings (log level, corrector workers);
// settings that change compiled coefficients should only ever be read at
// compile time.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// The change produced an invalid config; skip the callback so the
			// process never observes a broken state.
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
