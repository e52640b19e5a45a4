// Package tracing captures waveforms and state transitions of simulated
// clock-management tiles into a data recorder.
package tracing

import (
	"github.com/sarchlab/cmtsim/cmt"
	"github.com/sarchlab/cmtsim/datarecording"
	"github.com/sarchlab/cmtsim/signal"
	"github.com/sarchlab/cmtsim/sim"
)

// EdgeEntry is one recorded level change on a traced line.
type EdgeEntry struct {
	TimePs int64
	Line   string
	Level  int8
}

// LockEntry is one recorded lock transition.
type LockEntry struct {
	TimePs int64
	Tile   string
	Locked bool
}

// RecomputeEntry is one recorded derived-state recomputation.
type RecomputeEntry struct {
	TimePs       int64
	Tile         string
	Reference    string
	InputFreqMHz float64
	VCOFreqMHz   float64
}

// ViolationEntry is one recorded operating-range violation.
type ViolationEntry struct {
	TimePs    int64
	Tile      string
	Violation string
}

// A WaveTracer records every output edge, lock transition, recompute, and
// range violation of the tiles it traces.
type WaveTracer struct {
	timeTeller sim.TimeTeller
	recorder   datarecording.DataRecorder
}

// NewWaveTracer creates a WaveTracer writing into the given recorder.
func NewWaveTracer(
	timeTeller sim.TimeTeller,
	recorder datarecording.DataRecorder,
) *WaveTracer {
	t := &WaveTracer{
		timeTeller: timeTeller,
		recorder:   recorder,
	}

	t.recorder.CreateTable("edges", EdgeEntry{})
	t.recorder.CreateTable("lock_transitions", LockEntry{})
	t.recorder.CreateTable("recomputes", RecomputeEntry{})
	t.recorder.CreateTable("violations", ViolationEntry{})

	return t
}

// Trace starts tracing a tile.
func (t *WaveTracer) Trace(c *cmt.CMT) {
	for i := range c.ClkOut {
		t.traceLine(c.ClkOut[i])
	}
	t.traceLine(c.ClkFbOut)
	t.traceLine(c.Locked)

	c.AcceptHook(&tileHook{tracer: t, tile: c})
}

func (t *WaveTracer) traceLine(line *signal.Line) {
	line.OnEdge(func(now sim.VTimeInPs, level signal.Level) {
		t.recorder.InsertData("edges", EdgeEntry{
			TimePs: int64(now),
			Line:   line.Name(),
			Level:  int8(level),
		})
	})
}

type tileHook struct {
	tracer *WaveTracer
	tile   *cmt.CMT
}

// Func records tile state transitions announced through hooks.
func (h *tileHook) Func(ctx sim.HookCtx) {
	now := int64(h.tracer.timeTeller.CurrentTime())

	switch ctx.Pos {
	case cmt.HookPosLockChange:
		detail := ctx.Detail.(cmt.LockChangeDetail)
		h.tracer.recorder.InsertData("lock_transitions", LockEntry{
			TimePs: now,
			Tile:   h.tile.Name(),
			Locked: detail.Locked,
		})
	case cmt.HookPosRecompute:
		detail := ctx.Detail.(cmt.RecomputeDetail)
		h.tracer.recorder.InsertData("recomputes", RecomputeEntry{
			TimePs:       now,
			Tile:         h.tile.Name(),
			Reference:    detail.Reference,
			InputFreqMHz: detail.InputFreqMHz,
			VCOFreqMHz:   detail.VCOFreqMHz,
		})
	case cmt.HookPosRangeViolation:
		detail := ctx.Detail.(cmt.RangeViolationDetail)
		h.tracer.recorder.InsertData("violations", ViolationEntry{
			TimePs:    now,
			Tile:      h.tile.Name(),
			Violation: detail.Violation,
		})
	}
}
