package cmt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Frequency/Period Calculator", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.ClkIn1Period = 10.0
		cfg.ClkfboutMult = 9.0
		cfg.DivclkDivide = 1
	})

	It("should derive the VCO frequency from the selected reference", func() {
		d := computeDerived(cfg, RefClkIn1)

		Expect(d.inputFreqMHz).To(BeNumerically("~", 100.0, 1e-9))
		Expect(d.vcoFreqMHz).To(BeNumerically("~", 900.0, 1e-9))
		Expect(d.vcoPeriodNs).To(BeNumerically("~", 1.0/0.9, 1e-9))
		Expect(d.subTickNs).To(BeNumerically("~", 1.0/0.9/8, 1e-9))
		Expect(d.valid()).To(BeTrue())
	})

	It("should respect the input divider", func() {
		cfg.DivclkDivide = 2
		cfg.ClkfboutMult = 16.0

		d := computeDerived(cfg, RefClkIn1)

		Expect(d.vcoFreqMHz).To(BeNumerically("~", 800.0, 1e-9))
	})

	It("should use the second reference when selected", func() {
		cfg.ClkIn2Period = 20.0
		cfg.ClkfboutMult = 12.0

		d := computeDerived(cfg, RefClkIn2)

		Expect(d.inputFreqMHz).To(BeNumerically("~", 50.0, 1e-9))
		Expect(d.vcoFreqMHz).To(BeNumerically("~", 600.0, 1e-9))
	})

	It("should stay quiescent with no reference selected", func() {
		d := computeDerived(cfg, RefNone)

		Expect(d.valid()).To(BeFalse())
		Expect(d.subTickNs).To(BeZero())
	})

	It("should stay quiescent when the selected period is unknown", func() {
		d := computeDerived(cfg, RefClkIn2)

		Expect(d.valid()).To(BeFalse())
	})

	It("should scale channel periods by the divide value", func() {
		cfg.Outputs[2].Divide = 9.0

		d := computeDerived(cfg, RefClkIn1)

		Expect(d.raw[2].PeriodNs).To(BeNumerically("~", 10.0, 1e-9))
	})

	It("should run the feedback channel at the feedback divide", func() {
		d := computeDerived(cfg, RefClkIn1)

		// The loop restores the pre-divided input rate.
		Expect(d.raw[FeedbackChannel].PeriodNs).To(
			BeNumerically("~", 10.0, 1e-9))
	})

	It("should clamp the duty cycle into [0, 1]", func() {
		cfg.Outputs[0].Divide = 9.0
		cfg.Outputs[0].Duty = 1.5

		d := computeDerived(cfg, RefClkIn1)

		Expect(d.raw[0].HighNs).To(BeNumerically("~", d.raw[0].PeriodNs, 1e-9))
	})
})
