// Package compiler orchestrates the parameter pipeline: topology → typing →
// bond, angle, and torsion resolution → electronegativity correction →
// nonbonded exceptions.  Pass order is strict and every pass sees all earlier
// outputs as immutable; a failed pass yields no parameter set.
package compiler

import (
	"time"

	"github.com/turtacn/nanoforge/internal/config"
	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/monitoring/prometheus"
	"github.com/turtacn/nanoforge/internal/params"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/internal/typing"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// Compiler runs the parameter pipeline.  A Compiler is immutable after
// construction and safe for concurrent use; each Compile call works on its
// own state.
type Compiler struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *prometheus.CompileMetrics
}

// New constructs a Compiler.  A nil cfg selects defaults; a nil logger
// selects the nop logger; metrics may be nil to disable collection.
func New(cfg *config.Config, logger logging.Logger, metrics *prometheus.CompileMetrics) *Compiler {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Compiler{cfg: cfg, logger: logger.Named("compiler"), metrics: metrics}
}

// Compile runs every pass over the descriptor and returns the compiled
// parameter set, or the first fault encountered.  Partial output is never
// returned.
func (c *Compiler) Compile(desc *forcefield.Descriptor) (*forcefield.ParameterSet, error) {
	if desc == nil {
		return nil, errors.InvalidParam("descriptor must not be nil")
	}
	if desc.HydrogenMassScale == 0 {
		d := *desc
		d.HydrogenMassScale = c.cfg.Compiler.HydrogenMassScale
		desc = &d
	}
	start := time.Now()
	set := forcefield.NewParameterSet()
	log := c.logger.With(logging.String("set_id", set.ID))

	topo, err := timed(c, "topology", func() (*topology.Topology, error) {
		return topology.Build(desc, log.Named("topology"))
	})
	if err != nil {
		return nil, c.fail(err)
	}

	assign, err := timed(c, "typing", func() (*typing.Assignment, error) {
		return typing.Assign(desc, topo, log.Named("typing"))
	})
	if err != nil {
		return nil, c.fail(err)
	}
	c.fillAtoms(desc, topo, assign, set)

	if err := c.timedErr("bonds", func() error {
		return params.ResolveBonds(desc, topo, assign, set, log.Named("bonds"))
	}); err != nil {
		return nil, c.fail(err)
	}
	if err := c.timedErr("angles", func() error {
		return params.ResolveAngles(desc, topo, assign, set, log.Named("angles"))
	}); err != nil {
		return nil, c.fail(err)
	}
	if err := c.timedErr("torsions", func() error {
		return params.ResolveTorsions(desc, topo, assign, set, log.Named("torsions"))
	}); err != nil {
		return nil, c.fail(err)
	}

	corrector := params.CorrectorConfig{
		Decay:   c.cfg.Compiler.ElectronegativityDecay,
		Beta:    c.cfg.Compiler.ElectronegativityBeta,
		Workers: c.cfg.Compiler.CorrectorWorkers,
	}
	if err := c.timedErr("electronegativity", func() error {
		return params.ApplyElectronegativity(desc, topo, assign, set, corrector, log.Named("electronegativity"))
	}); err != nil {
		return nil, c.fail(err)
	}

	// Length zeroing for a disabled stretch term is deferred until the
	// corrections above have run against the true equilibrium lengths.
	if !desc.EffectiveOptions().Has(forcefield.ForceStretch) {
		for b := range set.Bonds.EquilibriumLengths {
			set.Bonds.EquilibriumLengths[b] = 0
		}
	}

	if err := c.timedErr("nonbonded", func() error {
		return params.BuildNonbonded(desc, topo, assign, set, log.Named("nonbonded"))
	}); err != nil {
		return nil, c.fail(err)
	}

	if c.metrics != nil {
		c.metrics.ObserveCompile(time.Since(start), set.Atoms.Count())
	}
	log.Info("compile complete",
		logging.Int("atoms", set.Atoms.Count()),
		logging.Duration("elapsed", time.Since(start)))
	return set, nil
}

// fillAtoms copies the typing pass output and ring list into the set.
func (c *Compiler) fillAtoms(desc *forcefield.Descriptor, topo *topology.Topology,
	assign *typing.Assignment, set *forcefield.ParameterSet) {

	set.Atoms = forcefield.Atoms{
		AtomicNumbers: append([]uint8(nil), desc.AtomicNumbers...),
		Codes:         assign.Codes,
		RingClasses:   assign.RingClasses,
		CenterTypes:   assign.CenterTypes,
		Masses:        assign.Masses,
		DefaultMasses: assign.DefaultMasses,
		Charges:       make([]float64, len(desc.AtomicNumbers)),
		Epsilons:      assign.Epsilons,
		Radii:         assign.Radii,
	}
	set.Rings = forcefield.Rings{
		Indices: append([][8]uint32(nil), topo.Rings...),
		Sizes:   append([]uint8(nil), topo.RingSizes...),
	}
}

// fail records the fault metric and passes the error through unchanged.
func (c *Compiler) fail(err error) error {
	if c.metrics != nil {
		c.metrics.ObserveFault(errors.GetCode(err).String())
	}
	return err
}

// timed wraps a pass returning a value, recording its duration.  It is a
// free function because methods cannot carry type parameters.
func timed[T any](c *Compiler, pass string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	if c.metrics != nil {
		c.metrics.ObservePass(pass, time.Since(start))
	}
	return out, err
}

// timedErr wraps a pass returning only an error.
func (c *Compiler) timedErr(pass string, fn func() error) error {
	start := time.Now()
	err := fn()
	if c.metrics != nil {
		c.metrics.ObservePass(pass, time.Since(start))
	}
	return err
}
