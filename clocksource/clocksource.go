// Package clocksource provides a free-running reference clock generator. It
// drives the reference inputs of a clock-management tile the way a crystal
// oscillator would on a board.
package clocksource

import (
	"log"
	"math"

	"github.com/sarchlab/cmtsim/signal"
	"github.com/sarchlab/cmtsim/sim"
)

// A ClockSource toggles its output line at a fixed period.
type ClockSource struct {
	*sim.ComponentBase

	engine     sim.EventScheduler
	halfPeriod sim.VTimeInPs
	running    bool

	// Out is the generated clock line.
	Out *signal.Line
}

type toggleEvent struct {
	*sim.EventBase
}

// New creates a clock source with the given period in nanoseconds.
func New(name string, engine sim.EventScheduler, periodNs float64) *ClockSource {
	if periodNs <= 0 {
		log.Panic("clocksource: period must be positive")
	}

	half := sim.VTimeInPs(math.Round(periodNs * 1000 / 2))
	if half <= 0 {
		log.Panic("clocksource: period too short to represent")
	}

	c := &ClockSource{
		ComponentBase: sim.NewComponentBase(name),
		engine:        engine,
		halfPeriod:    half,
		Out:           signal.NewLine(name + ".Out"),
	}

	return c
}

// Start drives the line low and schedules the first rising edge at the given
// time.
func (c *ClockSource) Start(at sim.VTimeInPs) {
	if c.running {
		return
	}

	c.running = true
	c.Out.Set(at, signal.Low)
	c.engine.Schedule(&toggleEvent{
		EventBase: sim.NewEventBase(at+c.halfPeriod, c),
	})
}

// Stop lets the current half-period finish and stops toggling.
func (c *ClockSource) Stop() {
	c.running = false
}

// Handle toggles the output and schedules the next edge.
func (c *ClockSource) Handle(e sim.Event) error {
	if !c.running {
		return nil
	}

	now := e.Time()

	if c.Out.Level() == signal.High {
		c.Out.Set(now, signal.Low)
	} else {
		c.Out.Set(now, signal.High)
	}

	c.engine.Schedule(&toggleEvent{
		EventBase: sim.NewEventBase(now+c.halfPeriod, c),
	})

	return nil
}
