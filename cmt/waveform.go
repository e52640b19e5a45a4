package cmt

// channel is the runtime state of one output channel: its quantized timing
// plus a phase accumulator stepped once per sub-tick. All channels advance in
// the same tick handler, so within one tick no channel ever observes a
// half-updated sibling.
type channel struct {
	timing   channelTiming
	position int64
}

// arm initializes the phase accumulator at the moment lock asserts, so that
// the first rising edge after lock lands the configured phase offset after a
// nominal zero-phase edge.
func (c *channel) arm() {
	p := c.timing.PeriodUnits
	if p <= 0 {
		c.position = 0
		return
	}

	c.position = (p - c.timing.PhaseUnits%p) % p
}

// advance steps the phase accumulator by one sub-tick and returns the new
// output level.
func (c *channel) advance() bool {
	p := c.timing.PeriodUnits
	if p <= 0 {
		return false
	}

	c.position = (c.position + 1) % p
	return c.position < c.timing.HighUnits
}

// retime installs a new quantized timing, keeping the phase accumulator
// inside the new period.
func (c *channel) retime(t channelTiming) {
	c.timing = t
	if t.PeriodUnits > 0 {
		c.position %= t.PeriodUnits
	} else {
		c.position = 0
	}
}
