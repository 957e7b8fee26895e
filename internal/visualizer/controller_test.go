package visualizer_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/surface"
	"github.com/san-kum/audioswarm/internal/visualizer"
)

const tick = 100 * time.Millisecond

var _ = Describe("Controller", func() {
	var (
		q      *visualizer.Queue
		screen *surface.Memory
		c      *visualizer.Controller
	)

	BeforeEach(func() {
		q = visualizer.NewQueue()
		screen = surface.NewMemory(1)
		c = newController(q)
	})

	Describe("Start", func() {
		It("rejects incomplete options", func() {
			bad := []visualizer.Options{
				{Screen: screen, Width: 10, Height: 10},
				{Bands: testBands, Width: 10, Height: 10},
				{Bands: testBands, Screen: screen, Width: 0, Height: 10},
			}
			for _, opts := range bad {
				Expect(c.Start(opts)).To(MatchError(visualizer.ErrInvalidOptions))
			}
			Expect(c.Initialized()).To(BeFalse())
		})

		It("attaches the visible surface and builds the swarm idle", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			Expect(c.Initialized()).To(BeTrue())
			Expect(c.Running()).To(BeFalse())
			Expect(screen.Attached()).To(BeIdenticalTo(c.Visible()))
			Expect(c.Swarm().Len()).To(Equal(len(testBands)))
			Expect(c.Decay()).To(Equal(0.2))
		})

		It("ignores a second start", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			s := c.Swarm()
			Expect(c.Start(visualizer.Options{})).To(Succeed())
			Expect(c.Swarm()).To(BeIdenticalTo(s))
		})
	})

	Describe("audio frames", func() {
		It("does nothing before start", func() {
			c.OnAudioFrame(flat(-20, -20))
			Expect(c.Running()).To(BeFalse())
			frames, _ := q.Pending()
			Expect(frames).To(BeZero())
		})

		It("renders the first frame immediately and keeps animating", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.OnAudioFrame(flat(-40, -40))
			Expect(c.Running()).To(BeTrue())
			Expect(c.Frames()).To(Equal(uint64(1)))

			for i := 0; i < 5; i++ {
				q.Step(16 * time.Millisecond)
			}
			Expect(c.Frames()).To(Equal(uint64(6)))
		})

		It("maps dB to excitation with fallbacks", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.OnAudioFrame(audio.Spectrum{
				Left:  []float64{-36, -96, math.NaN(), 0},
				Right: []float64{-90, -90, -90, -90, -90},
			})

			left := c.Swarm().Left()
			Expect(left[0].Excitation()).To(Equal(60.0))
			Expect(left[1].Excitation()).To(Equal(1.0))
			Expect(left[2].Excitation()).To(Equal(1.0))
			Expect(left[3].Excitation()).To(Equal(96.0))
			Expect(left[4].Excitation()).To(Equal(1.0))
			for _, b := range c.Swarm().Right() {
				Expect(b.Excitation()).To(Equal(6.0))
			}
		})

		It("derives decay from the channel averages", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.OnAudioFrame(flat(-46, -76))

			l, r := c.Averages()
			Expect(l).To(BeNumerically("~", 50, 1e-9))
			Expect(r).To(BeNumerically("~", 20, 1e-9))
			Expect(c.Decay()).To(BeNumerically("~", 0.07, 1e-12))
		})

		It("composites the buffer onto the visible surface", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.OnAudioFrame(flat(-30, -30))

			img := screen.Attached().Image()
			lit := 0
			for i := 0; i < len(img.Pix); i += 4 {
				if img.Pix[i]|img.Pix[i+1]|img.Pix[i+2] != 0 {
					lit++
				}
			}
			Expect(lit).To(BeNumerically(">", 0))
		})

		It("notifies frame observers", func() {
			var seen []uint64
			c.OnFrame(func(frame uint64, s *boids.Swarm) {
				Expect(s).NotTo(BeNil())
				seen = append(seen, frame)
			})
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.OnAudioFrame(flat(-40, -40))
			q.Step(tick)
			Expect(seen).To(Equal([]uint64{1, 2}))
		})
	})

	Describe("pause and reset", func() {
		BeforeEach(func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.OnAudioFrame(flat(-40, -40))
		})

		It("stops the loop until the next audio frame", func() {
			c.HandleEvent(audio.Event{Kind: audio.EventPause})
			Expect(c.Running()).To(BeFalse())

			q.Step(tick)
			q.Step(tick)
			Expect(c.Frames()).To(Equal(uint64(1)))

			c.HandleEvent(audio.Event{Kind: audio.EventSpectrum, Spectrum: flat(-40, -40)})
			Expect(c.Running()).To(BeTrue())
			Expect(c.Frames()).To(Equal(uint64(2)))
		})

		It("keeps a single loop when resumed before the next frame", func() {
			c.HandleEvent(audio.Event{Kind: audio.EventReset})
			c.OnAudioFrame(flat(-40, -40))
			Expect(c.Frames()).To(Equal(uint64(2)))

			q.Step(tick)
			Expect(c.Frames()).To(Equal(uint64(3)))
			frames, _ := q.Pending()
			Expect(frames).To(Equal(1))
		})
	})

	Describe("Resize", func() {
		It("is a no-op before start", func() {
			c.Resize(640, 480)
			w, h := c.Size()
			Expect(w).To(BeZero())
			Expect(h).To(BeZero())
		})

		It("resizes surfaces and bounds without moving boids", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			before := c.Swarm().Left()[0].Position()

			c.Resize(320, 200)
			w, h := c.Visible().Size()
			Expect([]int{w, h}).To(Equal([]int{320, 200}))
			w, h = c.Buffer().Size()
			Expect([]int{w, h}).To(Equal([]int{320, 200}))
			bw, bh := c.Swarm().Bounds()
			Expect([]float64{bw, bh}).To(Equal([]float64{320, 200}))
			Expect(c.Swarm().Left()[0].Position()).To(Equal(before))
		})
	})

	Describe("Stop", func() {
		It("detaches and forgets the swarm", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.OnAudioFrame(flat(-40, -40))
			c.Stop()

			Expect(c.Initialized()).To(BeFalse())
			Expect(c.Running()).To(BeFalse())
			Expect(c.Swarm()).To(BeNil())
			Expect(screen.Attached()).To(BeNil())

			q.Step(tick)
			Expect(c.Frames()).To(Equal(uint64(1)))
			Expect(c.Stop).NotTo(Panic())
		})

		It("releases both surfaces", func() {
			for i := 0; i < 3; i++ {
				Expect(c.Start(startOptions(screen))).To(Succeed())
				Expect(screen.Live()).To(Equal(2))
				c.Stop()
				Expect(screen.Live()).To(BeZero())
			}
		})

		It("can start again afterwards", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.Stop()
			Expect(c.Start(startOptions(screen))).To(Succeed())
			Expect(c.Initialized()).To(BeTrue())
			Expect(screen.Attached()).NotTo(BeNil())
		})
	})

	Describe("fades", func() {
		It("fades in to opaque", func() {
			Expect(c.FadeIn(startOptions(screen))).To(Succeed())
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.1, 1e-9))

			for i := 0; i < 9; i++ {
				q.Step(tick)
			}
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 1, 1e-9))

			for i := 0; i < 5; i++ {
				q.Step(tick)
			}
			Expect(c.Buffer().Alpha()).To(Equal(1.0))
			_, timers := q.Pending()
			Expect(timers).To(BeZero())
		})

		It("fades out and then stops", func() {
			Expect(c.Start(startOptions(screen))).To(Succeed())
			c.FadeOut(0)
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.97, 1e-9))

			for i := 0; i < 30; i++ {
				q.Step(tick)
			}
			Expect(c.Initialized()).To(BeTrue())
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.07, 1e-9))

			for i := 0; i < 5; i++ {
				q.Step(tick)
			}
			Expect(c.Initialized()).To(BeFalse())
		})

		It("ignores fade in on a started controller", func() {
			Expect(c.FadeIn(startOptions(screen))).To(Succeed())
			q.Step(tick)
			q.Step(tick)
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.3, 1e-9))

			Expect(c.FadeIn(startOptions(screen))).To(Succeed())
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.3, 1e-9))
			_, timers := q.Pending()
			Expect(timers).To(Equal(1))
			Expect(screen.Live()).To(Equal(2))

			for i := 0; i < 10; i++ {
				q.Step(tick)
			}
			Expect(c.FadeIn(startOptions(screen))).To(Succeed())
			Expect(c.Buffer().Alpha()).To(Equal(1.0))
			_, timers = q.Pending()
			Expect(timers).To(BeZero())
		})

		It("cancels a running fade in when fading out", func() {
			Expect(c.FadeIn(startOptions(screen))).To(Succeed())
			for i := 0; i < 4; i++ {
				q.Step(tick)
			}
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.5, 1e-9))

			c.FadeOut(0.1)
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.4, 1e-9))
			q.Step(tick)
			Expect(c.Buffer().Alpha()).To(BeNumerically("~", 0.3, 1e-9))

			for i := 0; i < 10; i++ {
				q.Step(tick)
			}
			Expect(c.Initialized()).To(BeFalse())
			_, timers := q.Pending()
			Expect(timers).To(BeZero())
		})

		It("ignores fade out before start", func() {
			c.FadeOut(0.5)
			_, timers := q.Pending()
			Expect(timers).To(BeZero())
		})

		It("drops fade timers from a stopped session", func() {
			Expect(c.FadeIn(startOptions(screen))).To(Succeed())
			c.Stop()
			Expect(c.Start(startOptions(screen))).To(Succeed())

			for i := 0; i < 12; i++ {
				q.Step(tick)
			}
			Expect(c.Buffer().Alpha()).To(Equal(1.0))
			_, timers := q.Pending()
			Expect(timers).To(BeZero())
		})
	})
})
