package cmt

import "fmt"

// Datasheet-style operating limits. Frequencies are in MHz.
const (
	minInputFreqMHz = 10.0
	maxInputFreqMHz = 800.0

	minVCOFreqMHz = 600.0
	maxVCOFreqMHz = 1200.0

	minClkfboutMult = 2.0
	maxClkfboutMult = 64.0

	minDivclkDivide = 1
	maxDivclkDivide = 106
)

// validateOperatingRange checks a configuration and its derived state against
// the supported operating limits. Violations are range errors: the simulated
// device keeps running with best-effort values, the way real silicon keeps
// toggling outside its datasheet window, but nothing about its behavior is
// guaranteed anymore.
func validateOperatingRange(cfg Config, d derivedState) []error {
	var errs []error

	if d.ref != RefNone && d.inputPeriodNs > 0 {
		if d.inputFreqMHz < minInputFreqMHz || d.inputFreqMHz > maxInputFreqMHz {
			errs = append(errs, fmt.Errorf(
				"input frequency %.3f MHz outside supported range [%.0f, %.0f]",
				d.inputFreqMHz, minInputFreqMHz, maxInputFreqMHz))
		}
	}

	if cfg.ClkfboutMult < minClkfboutMult || cfg.ClkfboutMult > maxClkfboutMult {
		errs = append(errs, fmt.Errorf(
			"feedback multiplier %.3f outside supported range [%.1f, %.1f]",
			cfg.ClkfboutMult, minClkfboutMult, maxClkfboutMult))
	}

	if cfg.DivclkDivide < minDivclkDivide || cfg.DivclkDivide > maxDivclkDivide {
		errs = append(errs, fmt.Errorf(
			"input divider %d outside supported range [%d, %d]",
			cfg.DivclkDivide, minDivclkDivide, maxDivclkDivide))
	}

	for i, out := range cfg.Outputs {
		if out.Divide < 1 {
			errs = append(errs, fmt.Errorf(
				"output %d divide %.3f must be at least 1", i, out.Divide))
		}
	}

	if d.vcoFreqMHz > 0 {
		if d.vcoFreqMHz < minVCOFreqMHz || d.vcoFreqMHz > maxVCOFreqMHz {
			errs = append(errs, fmt.Errorf(
				"VCO frequency %.3f MHz outside supported range [%.0f, %.0f]",
				d.vcoFreqMHz, minVCOFreqMHz, maxVCOFreqMHz))
		}
	}

	return errs
}
