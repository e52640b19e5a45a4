package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInPs
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler is a handler that is called after the simulation
// ends.
type SimulationEndHandler interface {
	Handle(now VTimeInPs)
}

// An Engine is a unit that keeps the discrete event simulation running.
//
// Clock models are free-running producers: they reschedule themselves on
// every tick and the event queue never drains. RunUntil is therefore the
// normal way to end a run; Run is only useful when every producer has
// quiesced.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run processes events until no events are left.
	Run() error

	// RunUntil processes events up to and including the given time, then
	// returns with any remaining events still scheduled.
	RunUntil(t VTimeInPs) error

	// Pause will pause the simulation until Continue is called.
	Pause()

	// Continue will continue the paused simulation.
	Continue()

	// RegisterSimulationEndHandler registers a handler that performs some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandlers.
	Finished()
}
