package signal

import (
	"github.com/sarchlab/cmtsim/sim"
)

// A Driver applies scheduled level changes to lines. It is the stimulus side
// of a testbench: reset sequences and select-line changes are described as
// future drive events before or during a run.
type Driver struct {
	engine sim.EventScheduler
}

type driveEvent struct {
	*sim.EventBase
	line  *Line
	level Level
}

// NewDriver creates a Driver that schedules on the given engine.
func NewDriver(engine sim.EventScheduler) *Driver {
	return &Driver{engine: engine}
}

// Drive schedules the line to change to the given level at the given time.
func (d *Driver) Drive(line *Line, at sim.VTimeInPs, level Level) {
	d.engine.Schedule(&driveEvent{
		EventBase: sim.NewEventBase(at, d),
		line:      line,
		level:     level,
	})
}

// Handle applies one scheduled level change.
func (d *Driver) Handle(e sim.Event) error {
	evt := e.(*driveEvent)
	evt.line.Set(evt.Time(), evt.level)
	return nil
}
