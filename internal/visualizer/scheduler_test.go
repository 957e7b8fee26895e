package visualizer_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/audioswarm/internal/visualizer"
)

var _ = Describe("Queue", func() {
	var q *visualizer.Queue

	BeforeEach(func() {
		q = visualizer.NewQueue()
	})

	It("fires timers in deadline order", func() {
		var got []int
		q.AfterFunc(300*time.Millisecond, func() { got = append(got, 3) })
		q.AfterFunc(100*time.Millisecond, func() { got = append(got, 1) })
		q.AfterFunc(200*time.Millisecond, func() { got = append(got, 2) })
		q.AfterFunc(100*time.Millisecond, func() { got = append(got, 11) })

		q.Step(150 * time.Millisecond)
		Expect(got).To(Equal([]int{1, 11}))

		q.Step(time.Second)
		Expect(got).To(Equal([]int{1, 11, 2, 3}))
		Expect(q.Now()).To(Equal(1150 * time.Millisecond))
	})

	It("defers frames requested during a step", func() {
		count := 0
		var frame func()
		frame = func() {
			count++
			q.RequestFrame(frame)
		}
		q.RequestFrame(frame)

		q.Step(0)
		Expect(count).To(Equal(1))
		frames, _ := q.Pending()
		Expect(frames).To(Equal(1))

		q.Step(0)
		q.Step(0)
		Expect(count).To(Equal(3))
	})

	It("runs timers before frames", func() {
		var order []string
		q.RequestFrame(func() { order = append(order, "frame") })
		q.AfterFunc(10*time.Millisecond, func() { order = append(order, "timer") })

		q.Step(10 * time.Millisecond)
		Expect(order).To(Equal([]string{"timer", "frame"}))
		frames, timers := q.Pending()
		Expect(frames).To(BeZero())
		Expect(timers).To(BeZero())
	})
})
