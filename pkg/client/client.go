// Package client is the public entry point of the NanoForge library: it
// compiles force-field parameter descriptors into parameter sets and
// constructs rigid bodies over them.  All heavy lifting lives in internal
// packages; this package only wires configuration, logging, and metrics.
package client

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/turtacn/nanoforge/internal/compiler"
	"github.com/turtacn/nanoforge/internal/config"
	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	promcollect "github.com/turtacn/nanoforge/internal/monitoring/prometheus"
	"github.com/turtacn/nanoforge/pkg/rigidbody"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// Client compiles descriptors and builds rigid bodies.  A Client is immutable
// after construction and safe for concurrent use.
type Client struct {
	cfg      *config.Config
	logger   logging.Logger
	metrics  *promcollect.CompileMetrics
	compiler *compiler.Compiler
}

// Option customizes Client construction.
type Option func(*Client)

// WithConfigFile loads tunables from the YAML file at path; load failures
// leave the defaults in place.
func WithConfigFile(path string) Option {
	return func(c *Client) {
		cfg, err := config.Load(path)
		if err == nil {
			c.cfg = cfg
		}
	}
}

// WithConfig supplies a pre-built configuration.
func WithConfig(cfg *config.Config) Option {
	return func(c *Client) { c.cfg = cfg }
}

// WithLogging builds a zap-backed logger from the supplied log settings.
func WithLogging(level, format string) Option {
	return func(c *Client) {
		l, err := logging.NewLogger(logging.LogConfig{Level: level, Format: format})
		if err == nil {
			c.logger = l
		}
	}
}

// WithLogger supplies an existing logger (used by tests with MockLogger).
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics registers compile metrics on the given Prometheus registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = promcollect.NewCompileMetrics(reg, c.cfg.Metrics.Namespace)
	}
}

// New constructs a Client with defaults: default tunables, nop logger, no
// metrics.
func New(opts ...Option) *Client {
	c := &Client{
		cfg:    config.NewDefaultConfig(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.compiler = compiler.New(c.cfg, c.logger, c.metrics)
	return c
}

// Compile runs the parameter pipeline over the descriptor.  A failed compile
// returns no parameter set.
func (c *Client) Compile(desc *forcefield.Descriptor) (*forcefield.ParameterSet, error) {
	return c.compiler.Compile(desc)
}

// NewRigidBody constructs a rigid body from a compiled parameter set and
// initial state.
func (c *Client) NewRigidBody(desc forcefield.RigidBodyDescriptor) (*rigidbody.Body, error) {
	return rigidbody.New(desc,
		rigidbody.WithLogger(c.logger.Named("rigidbody")),
		rigidbody.WithDiagonalizerRetries(c.cfg.Compiler.DiagonalizerRetries))
}

// Merge concatenates two parameter sets into a fresh third with index
// rebasing; neither input is mutated.
func (c *Client) Merge(a, b *forcefield.ParameterSet) *forcefield.ParameterSet {
	return forcefield.Merge(a, b)
}
