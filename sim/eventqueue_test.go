package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("EventQueueImpl", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *EventQueueImpl
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pop in order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			event := NewMockEvent(mockCtrl)
			event.EXPECT().
				Time().
				Return(VTimeInPs(rand.Int63n(1_000_000))).
				AnyTimes()
			queue.Push(event)
		}

		now := VTimeInPs(-1)
		for i := 0; i < numEvents; i++ {
			event := queue.Pop()
			Expect(event.Time() >= now).To(BeTrue())
			now = event.Time()
		}
	})

	It("should peek the earliest event", func() {
		early := NewMockEvent(mockCtrl)
		early.EXPECT().Time().Return(VTimeInPs(10)).AnyTimes()
		late := NewMockEvent(mockCtrl)
		late.EXPECT().Time().Return(VTimeInPs(20)).AnyTimes()

		queue.Push(late)
		queue.Push(early)

		Expect(queue.Peek().Time()).To(Equal(VTimeInPs(10)))
		Expect(queue.Len()).To(Equal(2))
	})
})
