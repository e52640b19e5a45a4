package cmt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cmtsim/sim"
)

var _ = Describe("Sub-tick Scheduler", func() {
	var s subTickScheduler

	It("should be inactive with a non-positive period", func() {
		s.setPeriodNs(0)
		Expect(s.active()).To(BeFalse())

		s.setPeriodNs(-1)
		Expect(s.active()).To(BeFalse())
	})

	It("should emit a constant delay for an exact period", func() {
		s.setPeriodNs(0.125) // 125 ps exactly

		for i := 0; i < 100; i++ {
			Expect(s.nextDelay()).To(Equal(sim.VTimeInPs(125)))
		}
	})

	It("should bound the instantaneous jitter to one picosecond", func() {
		periodNs := 1.0 / 0.9 / 8 // 900 MHz VCO
		s.setPeriodNs(periodNs)

		floor := sim.VTimeInPs(138)
		for i := 0; i < 10000; i++ {
			d := s.nextDelay()
			Expect(d).To(Or(Equal(floor), Equal(floor+1)))
		}
	})

	It("should converge to the exact period in the long run", func() {
		periodNs := 1.0 / 0.9 / 8
		s.setPeriodNs(periodNs)

		n := 100000
		var total sim.VTimeInPs
		for i := 0; i < n; i++ {
			total += s.nextDelay()
		}

		averageNs := total.Nanoseconds() / float64(n)
		Expect(averageNs).To(BeNumerically("~", periodNs, 1e-6))
	})

	It("should not drift after a reconfiguration", func() {
		s.setPeriodNs(0.7) // 700 ps, fractional remainder 0
		_ = s.nextDelay()

		s.setPeriodNs(0.13) // 130 ps
		n := 10000
		var total sim.VTimeInPs
		for i := 0; i < n; i++ {
			total += s.nextDelay()
		}

		averageNs := total.Nanoseconds() / float64(n)
		Expect(averageNs).To(BeNumerically("~", 0.13, 1e-6))
	})
})
