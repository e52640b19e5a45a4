package cmt

import (
	"math"

	"github.com/sarchlab/cmtsim/sim"
)

// idleWait is how long the sub-tick generator sleeps between checks while the
// tile has no valid sub-tick period.
const idleWait = 100 * sim.Microsecond

// subTickScheduler produces the delay sequence for the free-running sub-tick
// generator. The true sub-tick period is a real number of picoseconds, while
// events can only land on the integer picosecond grid. The scheduler keeps an
// integer floor delay plus the fractional remainder, and diffuses the
// remainder through an accumulator: whenever the accumulated error crosses
// half a picosecond, one tick is stretched or shrunk by one picosecond and
// the whole unit is paid back. The instantaneous jitter never exceeds one
// picosecond, and the long-run average delay equals the exact real-valued
// period instead of drifting from repeated truncation.
type subTickScheduler struct {
	floor sim.VTimeInPs
	frac  float64
	acc   float64
}

// setPeriodNs reconfigures the scheduler for a new sub-tick period. A
// non-positive period makes the scheduler inactive.
func (s *subTickScheduler) setPeriodNs(ns float64) {
	if ns <= 0 {
		s.floor = 0
		s.frac = 0
		s.acc = 0
		return
	}

	ps := ns * 1000
	whole := math.Floor(ps)
	s.floor = sim.VTimeInPs(whole)
	s.frac = ps - whole
	s.acc = 0
}

// active reports whether the scheduler has a usable period.
func (s *subTickScheduler) active() bool {
	return s.floor > 0
}

// nextDelay returns the delay to the next sub-tick.
func (s *subTickScheduler) nextDelay() sim.VTimeInPs {
	s.acc += s.frac

	delay := s.floor
	if s.acc >= 0.5 {
		delay++
		s.acc--
	} else if s.acc <= -0.5 {
		delay--
		s.acc++
	}

	return delay
}
