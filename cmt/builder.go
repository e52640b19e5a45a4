package cmt

import (
	"log"
	"os"

	"github.com/sarchlab/cmtsim/sim"
)

// Builder builds clock-management tiles.
type Builder struct {
	engine    sim.Engine
	name      string
	cfg       Config
	lockDelay sim.VTimeInPs
	logger    *log.Logger
}

// MakeBuilder creates a Builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		name:      "CMT",
		cfg:       DefaultConfig(),
		lockDelay: DefaultLockDelay,
	}
}

// WithEngine sets the engine that drives the tile.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithName sets the name of the tile.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithConfig sets the static configuration of the tile.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithLockDelay sets the stabilization delay before lock asserts.
func (b Builder) WithLockDelay(d sim.VTimeInPs) Builder {
	b.lockDelay = d
	return b
}

// WithLogger sets the logger that receives the diagnostic reports.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// Build creates the tile and schedules its free-running sub-tick generator.
func (b Builder) Build() *CMT {
	if b.engine == nil {
		panic("cmt: an engine is required to build a CMT")
	}

	if b.lockDelay <= 0 {
		panic("cmt: lock delay must be positive")
	}

	if b.logger == nil {
		b.logger = log.New(os.Stderr, "", 0)
	}

	return newCMT(b)
}
