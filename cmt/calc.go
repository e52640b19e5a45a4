package cmt

import "math"

// derivedState holds everything recomputed from the configuration and the
// active reference selection. It is rebuilt from scratch on every selection
// change, never patched in place.
type derivedState struct {
	ref Reference

	inputPeriodNs float64
	inputFreqMHz  float64

	vcoFreqMHz  float64
	vcoPeriodNs float64
	subTickNs   float64

	channels [NumChannels]channelTiming
	raw      [NumChannels]rawChannel
}

// rawChannel is the real-valued, pre-quantization view of one channel. It
// only feeds the diagnostic report; waveform generation runs entirely on the
// quantized channelTiming.
type rawChannel struct {
	PeriodNs float64
	HighNs   float64
	PhaseNs  float64
}

// valid reports whether the derived state describes a running oscillator.
func (d derivedState) valid() bool {
	return d.vcoFreqMHz > 0 && d.subTickNs > 0
}

// computeDerived derives the VCO and per-channel timing from the
// configuration and the selected reference. It is a pure function; callers
// decide when it runs (on reference-selection change, not on every edge).
func computeDerived(cfg Config, ref Reference) derivedState {
	d := derivedState{ref: ref}

	switch ref {
	case RefClkIn1:
		d.inputPeriodNs = cfg.ClkIn1Period
	case RefClkIn2:
		d.inputPeriodNs = cfg.ClkIn2Period
	default:
		return d
	}

	if d.inputPeriodNs <= 0 || cfg.DivclkDivide < 1 {
		return d
	}

	d.inputFreqMHz = 1e3 / d.inputPeriodNs
	d.vcoFreqMHz = d.inputFreqMHz * cfg.ClkfboutMult / float64(cfg.DivclkDivide)

	if d.vcoFreqMHz <= 0 {
		return d
	}

	d.vcoPeriodNs = 1e3 / d.vcoFreqMHz
	d.subTickNs = d.vcoPeriodNs / UnitsPerCycle

	for i := 0; i < NumChannels; i++ {
		out := channelConfig(cfg, i)
		d.raw[i] = computeRawChannel(d.vcoPeriodNs, out)
		d.channels[i] = quantizeChannel(out, fractionalDivideAllowed(i))
	}

	return d
}

// channelConfig returns the effective configuration of a channel. The
// feedback channel is not directly configurable: it divides the VCO by the
// feedback multiplier, restoring the pre-divided input rate through the loop.
func channelConfig(cfg Config, i int) OutputConfig {
	if i == FeedbackChannel {
		return OutputConfig{
			Divide: cfg.ClkfboutMult,
			Phase:  0.0,
			Duty:   0.5,
		}
	}

	return cfg.Outputs[i]
}

// fractionalDivideAllowed tells whether a channel honors a fractional divide
// value. The hardware has fractional divide circuitry only on channel 0 and
// on the feedback divider.
func fractionalDivideAllowed(i int) bool {
	return i == 0 || i == FeedbackChannel
}

// computeRawChannel computes the ideal, continuous-valued channel timing in
// nanoseconds.
func computeRawChannel(vcoPeriodNs float64, out OutputConfig) rawChannel {
	var r rawChannel

	r.PeriodNs = vcoPeriodNs * out.Divide

	duty := out.Duty
	if duty < 0 {
		duty = 0
	}
	if duty > 1 {
		duty = 1
	}
	r.HighNs = duty * r.PeriodNs
	if r.HighNs < 1 {
		r.HighNs = 1
	}

	r.PhaseNs = math.Mod(out.Phase, 360) * r.PeriodNs / 360

	return r
}
