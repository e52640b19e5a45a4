package cmt

import "github.com/sarchlab/cmtsim/sim"

// HookPosRecompute triggers after the derived state is rebuilt on a
// reference-selection change.
var HookPosRecompute = &sim.HookPos{Name: "Recompute"}

// HookPosLockChange triggers when the lock output changes state.
var HookPosLockChange = &sim.HookPos{Name: "LockChange"}

// HookPosRangeViolation triggers once per operating-range violation found
// during a recompute.
var HookPosRangeViolation = &sim.HookPos{Name: "RangeViolation"}

// HookPosTopologyError triggers when the feedback loop is found broken.
var HookPosTopologyError = &sim.HookPos{Name: "TopologyError"}

// RecomputeDetail is the hook detail attached at HookPosRecompute.
type RecomputeDetail struct {
	Reference    string
	InputFreqMHz float64
	VCOFreqMHz   float64
	VCOPeriodNs  float64
}

// LockChangeDetail is the hook detail attached at HookPosLockChange.
type LockChangeDetail struct {
	Locked bool
}

// RangeViolationDetail is the hook detail attached at HookPosRangeViolation.
type RangeViolationDetail struct {
	Violation string
}

// TopologyErrorDetail is the hook detail attached at HookPosTopologyError.
type TopologyErrorDetail struct {
	Err error
}
