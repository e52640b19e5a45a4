package cmt

import "github.com/sarchlab/cmtsim/sim"

// subTickEvent drives one step of the waveform generator. The generation
// number invalidates ticks that were scheduled before a reconfiguration
// re-armed the generator.
type subTickEvent struct {
	*sim.EventBase
	generation uint64
}

func newSubTickEvent(
	t sim.VTimeInPs,
	handler sim.Handler,
	generation uint64,
) *subTickEvent {
	return &subTickEvent{
		EventBase:  sim.NewEventBase(t, handler),
		generation: generation,
	}
}

// lockEvent fires when the stabilization delay expires. The lock conditions
// are re-evaluated at this moment; the event commits the transition only if
// they still hold. The attempt number invalidates delays that were armed
// before an intervening reset.
type lockEvent struct {
	*sim.EventBase
	attempt uint64
}

func newLockEvent(
	t sim.VTimeInPs,
	handler sim.Handler,
	attempt uint64,
) *lockEvent {
	return &lockEvent{
		EventBase: sim.NewEventBase(t, handler),
		attempt:   attempt,
	}
}
