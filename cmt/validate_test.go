package cmt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parameter Validator", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.ClkIn1Period = 10.0
		cfg.ClkfboutMult = 9.0
	})

	It("should accept an in-range configuration", func() {
		d := computeDerived(cfg, RefClkIn1)

		Expect(validateOperatingRange(cfg, d)).To(BeEmpty())
	})

	It("should accept the VCO range boundaries", func() {
		cfg.ClkfboutMult = 6.0
		d := computeDerived(cfg, RefClkIn1)
		Expect(validateOperatingRange(cfg, d)).To(BeEmpty())

		cfg.ClkfboutMult = 12.0
		d = computeDerived(cfg, RefClkIn1)
		Expect(validateOperatingRange(cfg, d)).To(BeEmpty())
	})

	It("should flag a VCO below the supported range", func() {
		cfg.ClkfboutMult = 5.0

		d := computeDerived(cfg, RefClkIn1)

		errs := validateOperatingRange(cfg, d)
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Error()).To(ContainSubstring("VCO frequency"))
	})

	It("should flag a VCO above the supported range", func() {
		cfg.ClkfboutMult = 13.0

		d := computeDerived(cfg, RefClkIn1)

		Expect(validateOperatingRange(cfg, d)).NotTo(BeEmpty())
	})

	It("should flag an input frequency outside the supported range", func() {
		cfg.ClkIn1Period = 1.0 // 1000 MHz

		d := computeDerived(cfg, RefClkIn1)

		errs := validateOperatingRange(cfg, d)
		Expect(errs).NotTo(BeEmpty())
		Expect(errs[0].Error()).To(ContainSubstring("input frequency"))
	})

	It("should not judge the input frequency with no reference selected",
		func() {
			cfg.ClkfboutMult = 8.0
			d := computeDerived(cfg, RefNone)

			Expect(validateOperatingRange(cfg, d)).To(BeEmpty())
		})

	It("should flag an out-of-range multiplier", func() {
		cfg.ClkfboutMult = 1.0

		d := computeDerived(cfg, RefClkIn1)

		errs := validateOperatingRange(cfg, d)
		Expect(errs).NotTo(BeEmpty())
		Expect(errs[0].Error()).To(ContainSubstring("multiplier"))
	})

	It("should flag an out-of-range input divider", func() {
		cfg.DivclkDivide = 107

		d := computeDerived(cfg, RefClkIn1)

		errs := validateOperatingRange(cfg, d)
		Expect(errs).NotTo(BeEmpty())
	})

	It("should flag an output divide below one", func() {
		cfg.Outputs[3].Divide = 0.5

		d := computeDerived(cfg, RefClkIn1)

		errs := validateOperatingRange(cfg, d)
		Expect(errs).NotTo(BeEmpty())
		Expect(errs[0].Error()).To(ContainSubstring("output 3"))
	})
})
