// Package cmt models a clock-management tile: a multi-output mixed-mode clock
// manager that multiplies one of two reference clocks up to an internal VCO
// and divides it back down into up to seven output clocks plus a feedback
// clock, with hardware-accurate phase and duty-cycle granularity.
package cmt

import (
	"github.com/sarchlab/cmtsim/sim"
)

// NumOutputs is the number of user output channels.
const NumOutputs = 7

// NumChannels counts the user outputs plus the feedback channel.
const NumChannels = NumOutputs + 1

// FeedbackChannel is the index of the feedback channel in per-channel arrays.
const FeedbackChannel = NumOutputs

// UnitsPerCycle is the number of phase-shift units in one VCO cycle. One unit
// is the finest phase granularity the modeled hardware can realize.
const UnitsPerCycle = 8

// DefaultLockDelay is the stabilization delay between the lock conditions
// becoming true and the lock output asserting. Real lock time depends on loop
// bandwidth; the model treats it as a constant.
const DefaultLockDelay = 1 * sim.Microsecond

// OutputConfig configures one output channel.
type OutputConfig struct {
	// Divide is the ratio between the VCO period and the channel period.
	// Only channel 0 honors a fractional value; the other channels round it
	// to the nearest integer.
	Divide float64

	// Phase is the phase offset in degrees.
	Phase float64

	// Duty is the fraction of the period the output spends high.
	Duty float64
}

// Config is the static configuration of a tile. It is fixed for the lifetime
// of the simulated instance.
type Config struct {
	// DivclkDivide pre-divides the selected reference clock. Supported
	// range is [1, 106].
	DivclkDivide int

	// ClkfboutMult multiplies the pre-divided reference up to the VCO.
	// Supported range is [2.0, 64.0].
	ClkfboutMult float64

	// ClkIn1Period and ClkIn2Period are the periods of the two reference
	// clocks in nanoseconds. Zero means the period is not known.
	ClkIn1Period float64
	ClkIn2Period float64

	// Outputs configures the seven output channels.
	Outputs [NumOutputs]OutputConfig
}

// DefaultConfig returns a configuration with a 100 MHz reference multiplied
// to an 800 MHz VCO and all outputs running at the VCO rate with a 50% duty
// cycle.
func DefaultConfig() Config {
	cfg := Config{
		DivclkDivide: 1,
		ClkfboutMult: 8.0,
		ClkIn1Period: 10.0,
	}

	for i := range cfg.Outputs {
		cfg.Outputs[i] = OutputConfig{
			Divide: 1.0,
			Phase:  0.0,
			Duty:   0.5,
		}
	}

	return cfg
}

// Reference identifies which reference clock drives the tile.
type Reference int

// The reference selection values. RefNone models an undriven select line.
const (
	RefNone Reference = iota
	RefClkIn1
	RefClkIn2
)

func (r Reference) String() string {
	switch r {
	case RefClkIn1:
		return "clkin1"
	case RefClkIn2:
		return "clkin2"
	default:
		return "none"
	}
}
