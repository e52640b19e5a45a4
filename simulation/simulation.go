// Package simulation assembles the pieces of a clock-management simulation:
// the event engine, the data recorder, the optional monitor, and the
// simulated tiles.
package simulation

import (
	"github.com/sarchlab/cmtsim/cmt"
	"github.com/sarchlab/cmtsim/datarecording"
	"github.com/sarchlab/cmtsim/monitoring"
	"github.com/sarchlab/cmtsim/sim"
	"github.com/sarchlab/cmtsim/tracing"
)

// A Simulation provides the services required to define and run a
// clock-management simulation.
type Simulation struct {
	id string

	engine       sim.Engine
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	waveTracer   *tracing.WaveTracer

	tiles         []*cmt.CMT
	tileNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetWaveTracer returns the waveform tracer used in the simulation.
func (s *Simulation) GetWaveTracer() *tracing.WaveTracer {
	return s.waveTracer
}

// RegisterTile registers a tile with the simulation, attaching it to the
// waveform tracer and the monitor.
func (s *Simulation) RegisterTile(t *cmt.CMT) {
	if _, exists := s.tileNameIndex[t.Name()]; exists {
		panic("tile " + t.Name() + " already registered")
	}

	s.tiles = append(s.tiles, t)
	s.tileNameIndex[t.Name()] = len(s.tiles) - 1

	s.waveTracer.Trace(t)
	if s.monitor != nil {
		s.monitor.RegisterTile(t)
	}
}

// GetTileByName returns a registered tile by name, or nil.
func (s *Simulation) GetTileByName(name string) *cmt.CMT {
	i, exists := s.tileNameIndex[name]
	if !exists {
		return nil
	}

	return s.tiles[i]
}

// Terminate flushes the recorder and invokes the engine's end handlers.
func (s *Simulation) Terminate() {
	s.engine.Finished()
	s.dataRecorder.Flush()
}
