package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VTimeInPs", func() {
	It("should convert from nanoseconds", func() {
		Expect(FromNanoseconds(1.0)).To(Equal(1 * Nanosecond))
		Expect(FromNanoseconds(0.5)).To(Equal(VTimeInPs(500)))
	})

	It("should round to the nearest picosecond", func() {
		Expect(FromNanoseconds(0.1388)).To(Equal(VTimeInPs(139)))
		Expect(FromNanoseconds(0.1384)).To(Equal(VTimeInPs(138)))
	})

	It("should convert back to nanoseconds", func() {
		Expect(VTimeInPs(1500).Nanoseconds()).To(BeNumerically("~", 1.5, 1e-12))
	})

	It("should format with a unit suffix", func() {
		Expect((2 * Microsecond).String()).To(Equal("2000000ps"))
	})
})
