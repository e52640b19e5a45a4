package cmt

import (
	"fmt"
	"log"

	"github.com/sarchlab/cmtsim/signal"
	"github.com/sarchlab/cmtsim/sim"
)

// CMT is the simulated clock-management tile. It consumes two reference
// clocks, a reference-select line, a reset line, and a feedback return line,
// and produces seven output clocks, a feedback clock, and a lock status line.
//
// All mutable state lives in this one struct and is only touched from event
// handlers on the engine, so ordering by event time is the only
// synchronization the model needs.
type CMT struct {
	*sim.ComponentBase

	engine    sim.Engine
	logger    *log.Logger
	cfg       Config
	lockDelay sim.VTimeInPs

	// Input lines.
	ClkIn1  *signal.Line
	ClkIn2  *signal.Line
	ClkSel  *signal.Line
	Reset   *signal.Line
	ClkFbIn *signal.Line

	// Output lines.
	ClkOut   [NumOutputs]*signal.Line
	ClkFbOut *signal.Line
	Locked   *signal.Line

	derived   derivedState
	rangeErrs []error
	sched     subTickScheduler
	channels  [NumChannels]channel

	locked      bool
	lockPending bool
	lockAttempt uint64
	generation  uint64
	fatalErr    error

	lastRefEdge [2]sim.VTimeInPs
}

func newCMT(b Builder) *CMT {
	c := &CMT{
		ComponentBase: sim.NewComponentBase(b.name),
		engine:        b.engine,
		logger:        b.logger,
		cfg:           b.cfg,
		lockDelay:     b.lockDelay,
	}

	c.ClkIn1 = signal.NewLine(b.name + ".ClkIn1")
	c.ClkIn2 = signal.NewLine(b.name + ".ClkIn2")
	c.ClkSel = signal.NewLine(b.name + ".ClkSel")
	c.Reset = signal.NewLine(b.name + ".Reset")
	c.ClkFbIn = signal.NewLine(b.name + ".ClkFbIn")
	for i := range c.ClkOut {
		c.ClkOut[i] = signal.NewLine(fmt.Sprintf("%s.ClkOut%d", b.name, i))
	}
	c.ClkFbOut = signal.NewLine(b.name + ".ClkFbOut")
	c.Locked = signal.NewLine(b.name + ".Locked")

	c.ClkIn1.OnEdge(func(now sim.VTimeInPs, _ signal.Level) {
		c.lastRefEdge[0] = now
	})
	c.ClkIn2.OnEdge(func(now sim.VTimeInPs, _ signal.Level) {
		c.lastRefEdge[1] = now
	})
	c.ClkSel.OnEdge(c.selectEdge)
	c.Reset.OnEdge(c.resetEdge)
	c.ClkFbIn.OnEdge(c.feedbackEdge)

	c.forceOutputsLow(0)
	c.Locked.Set(0, signal.Low)

	// Hardware recomputes as soon as it exists; with the select line still
	// undriven this leaves the tile in its quiescent idle state.
	c.recompute(0)

	return c
}

// Handle dispatches the tile's own events.
func (c *CMT) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *subTickEvent:
		c.handleSubTick(evt)
	case *lockEvent:
		c.handleLock(evt)
	default:
		log.Panicf("cannot handle event %T", e)
	}

	return nil
}

// Err returns the fatal error that terminated the simulated session, if any.
func (c *CMT) Err() error {
	return c.fatalErr
}

// IsLocked reports whether the tile currently asserts lock.
func (c *CMT) IsLocked() bool {
	return c.locked
}

// Config returns the static configuration of the tile.
func (c *CMT) Config() Config {
	return c.cfg
}

// VCOFreqMHz returns the internal oscillator frequency derived from the
// current reference selection. Zero when unconfigured.
func (c *CMT) VCOFreqMHz() float64 {
	return c.derived.vcoFreqMHz
}

// RangeErrors returns the operating-range violations found during the last
// recompute.
func (c *CMT) RangeErrors() []error {
	return c.rangeErrs
}

func (c *CMT) selectedReference() Reference {
	switch c.ClkSel.Level() {
	case signal.High:
		return RefClkIn1
	case signal.Low:
		return RefClkIn2
	default:
		return RefNone
	}
}

// selectEdge runs synchronously on every select-line change. Hardware
// recomputes immediately no matter what reset does; whether the caller was
// allowed to flip the line outside reset is the harness's problem.
func (c *CMT) selectEdge(now sim.VTimeInPs, _ signal.Level) {
	c.recompute(now)

	if c.Reset.Level() == signal.Low {
		c.tryScheduleLock(now)
	}
}

func (c *CMT) resetEdge(now sim.VTimeInPs, level signal.Level) {
	if level == signal.High {
		// Invalidate any stabilization delay in flight.
		c.lockAttempt++
		c.lockPending = false
		c.dropLock(now)
		return
	}

	if level == signal.Low {
		c.tryScheduleLock(now)
	}
}

// feedbackEdge runs on every feedback-input change. Loop continuity is a lock
// condition, so a loop that becomes valid after reset release must arm the
// stabilization delay just like the reset release itself.
func (c *CMT) feedbackEdge(now sim.VTimeInPs, _ signal.Level) {
	if c.Reset.Level() == signal.Low {
		c.tryScheduleLock(now)
	}
}

// recompute rebuilds the derived state from the configuration and the
// currently selected reference, re-arms the sub-tick generator, and emits the
// diagnostic report. It never patches the previous state.
func (c *CMT) recompute(now sim.VTimeInPs) {
	c.derived = computeDerived(c.cfg, c.selectedReference())

	c.rangeErrs = validateOperatingRange(c.cfg, c.derived)
	for _, err := range c.rangeErrs {
		c.logger.Printf("%s: warning: %v", c.Name(), err)
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosRangeViolation,
			Detail: RangeViolationDetail{Violation: err.Error()},
		})
	}

	c.sched.setPeriodNs(c.derived.subTickNs)
	for i := range c.channels {
		c.channels[i].retime(c.derived.channels[i])
	}

	// Restart the tick stream under the new timing. Ticks scheduled against
	// the old timing are invalidated by the generation bump.
	c.generation++
	delay := idleWait
	if c.sched.active() {
		delay = c.sched.nextDelay()
	}
	c.engine.Schedule(newSubTickEvent(now+delay, c, c.generation))

	c.logReport()
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRecompute,
		Detail: RecomputeDetail{
			Reference:    c.derived.ref.String(),
			InputFreqMHz: c.derived.inputFreqMHz,
			VCOFreqMHz:   c.derived.vcoFreqMHz,
			VCOPeriodNs:  c.derived.vcoPeriodNs,
		},
	})
}

func (c *CMT) handleSubTick(evt *subTickEvent) {
	if c.fatalErr != nil {
		return
	}

	if evt.generation != c.generation {
		return
	}

	now := evt.Time()

	if !c.sched.active() {
		c.engine.Schedule(newSubTickEvent(now+idleWait, c, c.generation))
		return
	}

	if c.locked {
		c.advanceChannels(now)

		if err := c.checkFeedbackLoop(); err != nil {
			c.failTopology(now, err)
			return
		}
	}

	c.engine.Schedule(newSubTickEvent(now+c.sched.nextDelay(), c, c.generation))
}

// advanceChannels applies one sub-tick to all channels. Levels are computed
// for every channel before any line is driven, so listeners never see a
// partially updated tick.
func (c *CMT) advanceChannels(now sim.VTimeInPs) {
	var levels [NumChannels]bool
	for i := range c.channels {
		levels[i] = c.channels[i].advance()
	}

	for i := 0; i < NumOutputs; i++ {
		c.ClkOut[i].Set(now, signal.FromBool(levels[i]))
	}
	c.ClkFbOut.Set(now, signal.FromBool(levels[FeedbackChannel]))
}

// checkFeedbackLoop verifies closed-loop continuity while the tile is out of
// reset and producing output. A broken loop means every output is
// meaningless, so this is fatal rather than a warning.
func (c *CMT) checkFeedbackLoop() error {
	if c.Reset.Level() != signal.Low {
		return nil
	}

	if c.ClkFbIn.Level() != c.ClkFbOut.Level() {
		return fmt.Errorf(
			"feedback loop broken: ClkFbIn=%s ClkFbOut=%s",
			c.ClkFbIn.Level(), c.ClkFbOut.Level())
	}

	return nil
}

func (c *CMT) failTopology(now sim.VTimeInPs, err error) {
	c.fatalErr = err
	c.logger.Printf("%s: fatal: %v", c.Name(), err)

	c.lockAttempt++
	c.lockPending = false
	c.dropLock(now)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosTopologyError,
		Detail: TopologyErrorDetail{Err: err},
	})
}

func (c *CMT) lockConditionsHold() bool {
	return c.Reset.Level() == signal.Low &&
		c.derived.valid() &&
		c.ClkFbIn.Level() == c.ClkFbOut.Level()
}

func (c *CMT) tryScheduleLock(now sim.VTimeInPs) {
	if c.fatalErr != nil || c.locked || c.lockPending {
		return
	}

	if !c.lockConditionsHold() {
		return
	}

	c.lockPending = true
	c.engine.Schedule(newLockEvent(now+c.lockDelay, c, c.lockAttempt))
}

func (c *CMT) handleLock(evt *lockEvent) {
	if evt.attempt != c.lockAttempt {
		return
	}

	c.lockPending = false

	if c.fatalErr != nil || c.locked {
		return
	}

	// The delay only arms the transition; the conditions must still hold at
	// the moment it would fire.
	if !c.lockConditionsHold() {
		return
	}

	c.assertLock(evt.Time())
}

func (c *CMT) assertLock(now sim.VTimeInPs) {
	c.locked = true

	for i := range c.channels {
		c.channels[i].arm()
	}

	c.Locked.Set(now, signal.High)
	c.logger.Printf("%s: locked at %s", c.Name(), now)
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosLockChange,
		Detail: LockChangeDetail{Locked: true},
	})
}

func (c *CMT) dropLock(now sim.VTimeInPs) {
	wasLocked := c.locked
	c.locked = false

	c.forceOutputsLow(now)
	c.Locked.Set(now, signal.Low)

	if wasLocked {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosLockChange,
			Detail: LockChangeDetail{Locked: false},
		})
	}
}

func (c *CMT) forceOutputsLow(now sim.VTimeInPs) {
	for i := 0; i < NumOutputs; i++ {
		c.ClkOut[i].Set(now, signal.Low)
		c.channels[i].position = 0
	}
	c.ClkFbOut.Set(now, signal.Low)
	c.channels[FeedbackChannel].position = 0
}

// logReport prints the human-readable frequency/duty/phase report emitted
// once per recompute.
func (c *CMT) logReport() {
	if !c.derived.valid() {
		c.logger.Printf("%s: reference %s not usable; outputs idle",
			c.Name(), c.derived.ref)
		return
	}

	c.logger.Printf("%s: ref=%s fin=%.3f MHz vco=%.3f MHz (period %.4f ns)",
		c.Name(), c.derived.ref, c.derived.inputFreqMHz,
		c.derived.vcoFreqMHz, c.derived.vcoPeriodNs)

	for i := range c.channels {
		t := c.derived.channels[i]
		periodNs := c.derived.subTickNs * float64(t.PeriodUnits)
		duty := float64(t.HighUnits) / float64(t.PeriodUnits)
		phaseDeg := float64(t.PhaseUnits) * 360 / float64(t.PeriodUnits)

		name := fmt.Sprintf("clkout%d", i)
		if i == FeedbackChannel {
			name = "clkfbout"
		}

		c.logger.Printf(
			"%s:   %s: period %.4f ns duty %.1f%% phase %.1f deg "+
				"(%d units, high %d, shift %d)",
			c.Name(), name, periodNs, duty*100, phaseDeg,
			t.PeriodUnits, t.HighUnits, t.PhaseUnits)
	}
}
