// Package signal models single-bit signal lines. Lines are the boundary
// surface of the simulated hardware blocks: a component drives its output
// lines at event time, and anything wired to a line observes the new level at
// the same timestamp.
package signal

import (
	"github.com/sarchlab/cmtsim/sim"
)

// Level is the value carried by a line.
type Level int8

// Possible line levels. X models an undriven or unknown line, which is the
// state of every line before something drives it.
const (
	X    Level = -1
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	switch l {
	case Low:
		return "0"
	case High:
		return "1"
	default:
		return "x"
	}
}

// FromBool converts a boolean level to a Level.
func FromBool(b bool) Level {
	if b {
		return High
	}
	return Low
}

// A Listener is notified when the level of a line changes. It runs
// synchronously at the timestamp of the driving event.
type Listener func(now sim.VTimeInPs, level Level)

// A Line is a single-bit wire. It remembers its current level and notifies
// listeners on every level change. Lines are not safe for concurrent use;
// all driving happens from event handlers on the single engine goroutine.
type Line struct {
	name      string
	level     Level
	listeners []Listener
}

// NewLine creates a line with the given name. The line starts at X.
func NewLine(name string) *Line {
	return &Line{
		name:  name,
		level: X,
	}
}

// Name returns the name of the line.
func (l *Line) Name() string {
	return l.name
}

// Level returns the current level of the line.
func (l *Line) Level() Level {
	return l.level
}

// Set drives the line to the given level. Listeners fire only on a level
// change.
func (l *Line) Set(now sim.VTimeInPs, level Level) {
	if level == l.level {
		return
	}

	l.level = level
	for _, fn := range l.listeners {
		fn(now, level)
	}
}

// OnEdge registers a listener that is called on every level change.
func (l *Line) OnEdge(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

// Connect wires src to dst: every level change on src is copied to dst at the
// same timestamp. This is how the feedback loopback is closed externally.
//
// Connect is elaboration-time wiring. If src is already driven, its level is
// copied to dst stamped at time zero; connecting lines mid-run would hand
// listeners an edge in the past. Use a Driver for level changes during a run.
func Connect(src, dst *Line) {
	src.OnEdge(func(now sim.VTimeInPs, level Level) {
		dst.Set(now, level)
	})

	if src.Level() != X {
		dst.Set(0, src.Level())
	}
}
