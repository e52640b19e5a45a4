package cmt

import "math"

// channelTiming is one channel's timing on the integer sub-tick grid of
// UnitsPerCycle units per VCO cycle. This grid is the physical phase-shifter
// resolution of the modeled hardware, so all waveform generation happens in
// these units: phase steps of 1 unit (1/8 VCO cycle), duty steps of 4 units
// (1/2 VCO cycle), minimum pulse of 8 units (1 VCO cycle).
type channelTiming struct {
	// PeriodUnits is the channel period in sub-tick units. Always at least
	// UnitsPerCycle.
	PeriodUnits int64

	// HighUnits is the number of units per period the output stays high.
	HighUnits int64

	// PhaseUnits is the phase offset in units, in [0, PeriodUnits).
	PhaseUnits int64
}

// dutyStepUnits is the granularity of the high time: half a VCO cycle.
const dutyStepUnits = UnitsPerCycle / 2

// quantizeChannel maps a channel's continuous-valued configuration onto the
// sub-tick grid, applying the same rounding, clamping, and minimum
// pulse-width rules the real device imposes.
func quantizeChannel(out OutputConfig, fractional bool) channelTiming {
	var t channelTiming

	divide := out.Divide
	if !fractional {
		divide = math.Round(divide)
	}

	t.PeriodUnits = int64(math.Round(divide * UnitsPerCycle))
	if t.PeriodUnits < UnitsPerCycle {
		t.PeriodUnits = UnitsPerCycle
	}

	t.HighUnits = quantizeHighTime(t.PeriodUnits, out.Duty)
	t.PhaseUnits = quantizePhase(t.PeriodUnits, out.Phase)

	return t
}

// quantizeHighTime converts a duty-cycle fraction to high time in units.
//
// With at least two VCO cycles per period, the high time moves in half-cycle
// steps and both the high and the low pulse must last at least one full VCO
// cycle. Below that there is no room to steer the duty cycle, and the
// hardware produces an even split.
func quantizeHighTime(periodUnits int64, duty float64) int64 {
	if periodUnits < 2*UnitsPerCycle {
		return periodUnits / 2
	}

	if duty < 0 {
		duty = 0
	}
	if duty > 1 {
		duty = 1
	}

	requested := duty * float64(periodUnits)
	high := int64(math.Round(requested/dutyStepUnits)) * dutyStepUnits

	if high < UnitsPerCycle {
		high = UnitsPerCycle
	}
	if high > periodUnits-UnitsPerCycle {
		high = periodUnits - UnitsPerCycle
	}

	return high
}

// quantizePhase converts a phase in degrees to units, wrapped into
// [0, periodUnits). Adding whole turns to the request does not change the
// result.
func quantizePhase(periodUnits int64, phaseDegrees float64) int64 {
	units := int64(math.Round(phaseDegrees * float64(periodUnits) / 360))

	units %= periodUnits
	if units < 0 {
		units += periodUnits
	}

	return units
}
