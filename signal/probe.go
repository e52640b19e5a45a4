package signal

import (
	"github.com/sarchlab/cmtsim/sim"
)

// An Edge is one recorded level change on a line.
type Edge struct {
	Time  sim.VTimeInPs
	Level Level
}

// A Probe records every edge on a line and derives timing measurements from
// the record. Probes are how frequency and duty cycle are measured: by
// sampling edges, the same way a bench counter would.
type Probe struct {
	line  *Line
	edges []Edge
}

// NewProbe attaches a probe to a line.
func NewProbe(line *Line) *Probe {
	p := &Probe{line: line}
	line.OnEdge(func(now sim.VTimeInPs, level Level) {
		p.edges = append(p.edges, Edge{Time: now, Level: level})
	})
	return p
}

// Edges returns all recorded edges.
func (p *Probe) Edges() []Edge {
	return p.edges
}

// Reset discards all recorded edges.
func (p *Probe) Reset() {
	p.edges = p.edges[:0]
}

// RisingEdges returns the times of all recorded rising edges.
func (p *Probe) RisingEdges() []sim.VTimeInPs {
	var rises []sim.VTimeInPs
	for _, e := range p.edges {
		if e.Level == High {
			rises = append(rises, e.Time)
		}
	}
	return rises
}

// AveragePeriodNs returns the average period in nanoseconds measured between
// the first and last recorded rising edges. It returns 0 when fewer than two
// rising edges were seen.
func (p *Probe) AveragePeriodNs() float64 {
	rises := p.RisingEdges()
	if len(rises) < 2 {
		return 0
	}

	span := rises[len(rises)-1] - rises[0]
	return span.Nanoseconds() / float64(len(rises)-1)
}

// DutyCycle returns the fraction of time the line spent high between the
// first and last recorded edges. It returns 0 when fewer than two edges were
// seen.
func (p *Probe) DutyCycle() float64 {
	if len(p.edges) < 2 {
		return 0
	}

	var highTime sim.VTimeInPs
	for i := 1; i < len(p.edges); i++ {
		if p.edges[i-1].Level == High {
			highTime += p.edges[i].Time - p.edges[i-1].Time
		}
	}

	span := p.edges[len(p.edges)-1].Time - p.edges[0].Time
	if span == 0 {
		return 0
	}

	return float64(highTime) / float64(span)
}
