package visualizer

import (
	"container/heap"
	"time"
)

// Scheduler is the host's cooperative timing primitive. Callbacks run on
// the host goroutine.
type Scheduler interface {
	// RequestFrame runs fn once, on the next display frame.
	RequestFrame(fn func())
	// AfterFunc runs fn once, after d has elapsed on the host clock.
	AfterFunc(d time.Duration, fn func())
}

// Queue is a Scheduler driven by explicit Step calls. Hosts call Step once
// per display frame with the elapsed time; tests step a virtual clock.
type Queue struct {
	now    time.Duration
	seq    uint64
	frames []func()
	timers timerHeap
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) RequestFrame(fn func()) {
	q.frames = append(q.frames, fn)
}

func (q *Queue) AfterFunc(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	q.seq++
	heap.Push(&q.timers, timer{at: q.now + d, seq: q.seq, fn: fn})
}

// Step advances the clock by dt, fires due timers in deadline order, then
// runs the frame callbacks requested before this call. Frames requested
// while stepping run on the next Step.
func (q *Queue) Step(dt time.Duration) {
	if dt > 0 {
		q.now += dt
	}
	frames := q.frames
	q.frames = nil

	for len(q.timers) > 0 && q.timers[0].at <= q.now {
		t := heap.Pop(&q.timers).(timer)
		t.fn()
	}
	for _, fn := range frames {
		fn()
	}
}

// Now returns the virtual time elapsed since the queue was created.
func (q *Queue) Now() time.Duration { return q.now }

// Pending reports queued frame callbacks and timers.
func (q *Queue) Pending() (frames, timers int) {
	return len(q.frames), len(q.timers)
}

type timer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timerHeap []timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}
