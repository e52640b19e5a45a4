package sim

import (
	"fmt"
	"math"
)

// VTimeInPs is virtual time, counted in integer picoseconds. A picosecond is
// the finest time resolution the simulation can represent; quantities that do
// not land on the grid (sub-tick periods of the modeled oscillators rarely do)
// must be tracked with an error-diffusion scheme on top of this type.
type VTimeInPs int64

// Units of virtual time.
const (
	Picosecond  VTimeInPs = 1
	Nanosecond  VTimeInPs = 1000
	Microsecond VTimeInPs = 1000 * 1000
	Millisecond VTimeInPs = 1000 * 1000 * 1000
)

// FromNanoseconds converts a real-valued duration in nanoseconds to virtual
// time, rounding to the nearest picosecond.
func FromNanoseconds(ns float64) VTimeInPs {
	return VTimeInPs(math.Round(ns * 1000))
}

// Nanoseconds returns the time as a real-valued number of nanoseconds.
func (t VTimeInPs) Nanoseconds() float64 {
	return float64(t) / 1000
}

// Seconds returns the time as a real-valued number of seconds.
func (t VTimeInPs) Seconds() float64 {
	return float64(t) * 1e-12
}

func (t VTimeInPs) String() string {
	return fmt.Sprintf("%dps", int64(t))
}
