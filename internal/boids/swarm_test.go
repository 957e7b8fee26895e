package boids_test

import (
	"errors"
	"image/color"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/vector"
)

func bands(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 20 * math.Pow(2, float64(i))
	}
	return out
}

func newSwarm(n int, w, h float64, p boids.Params, seed int64) *boids.Swarm {
	s, err := boids.New(bands(n), w, h, p, func(float64) color.Color { return color.White }, rand.New(rand.NewSource(seed)))
	Expect(err).NotTo(HaveOccurred())
	return s
}

func place(b *boids.Boid, x, y float64, heading vector.Vector) {
	b.Place(vector.FromCartesian(x, y), heading)
}

var _ = Describe("Swarm", func() {
	It("creates one boid per band per channel inside the bounds", func() {
		s := newSwarm(31, 800, 600, boids.DefaultParams(), 1)
		Expect(s.Left()).To(HaveLen(31))
		Expect(s.Right()).To(HaveLen(31))
		Expect(s.All()).To(HaveLen(62))
		for _, b := range s.All() {
			p := b.Position().Point()
			Expect(p.X).To(BeNumerically(">=", 0))
			Expect(p.X).To(BeNumerically("<", 800))
			Expect(p.Y).To(BeNumerically(">=", 0))
			Expect(p.Y).To(BeNumerically("<", 600))
			Expect(b.Heading().Magnitude).To(BeNumerically("<", 20))
		}
	})

	It("rejects an empty band list and invalid parameters", func() {
		_, err := boids.New(nil, 100, 100, boids.DefaultParams(), nil, nil)
		Expect(err).To(MatchError(boids.ErrNoBands))

		p := boids.DefaultParams()
		p.Visibility = 0
		_, err = boids.New(bands(2), 100, 100, p, nil, nil)
		Expect(errors.Is(err, boids.ErrParameterBounds)).To(BeTrue())
	})

	It("keeps the population size across ticks", func() {
		s := newSwarm(8, 400, 300, boids.DefaultParams(), 2)
		rec := &recorder{}
		for i := 0; i < 50; i++ {
			s.Run(rec)
			Expect(s.Left()).To(HaveLen(8))
			Expect(s.Right()).To(HaveLen(8))
		}
		Expect(rec.clears).To(Equal(50))
		Expect(rec.circles).To(HaveLen(50 * 16 * 3))
	})

	Describe("Neighbors", func() {
		It("never includes the boid itself and spans both channels", func() {
			s := newSwarm(2, 1000, 1000, boids.DefaultParams(), 3)
			place(s.Left()[0], 500, 500, vector.Vector{})
			place(s.Left()[1], 900, 900, vector.Vector{})
			place(s.Right()[0], 510, 500, vector.Vector{})
			place(s.Right()[1], 100, 100, vector.Vector{})

			n := s.Neighbors(s.Left()[0])
			Expect(n).To(ConsistOf(s.Right()[0]))
			Expect(n).NotTo(ContainElement(s.Left()[0]))

			for _, b := range s.All() {
				Expect(s.Neighbors(b)).NotTo(ContainElement(b))
			}
		})

		It("includes boids exactly at the visibility distance", func() {
			s := newSwarm(1, 1000, 1000, boids.DefaultParams(), 4)
			place(s.Left()[0], 500, 500, vector.Vector{})
			place(s.Right()[0], 530, 500, vector.Vector{})
			Expect(s.Neighbors(s.Left()[0])).To(HaveLen(1))
		})

		It("advances identically with the spatial index", func() {
			p := boids.DefaultParams()
			brute := newSwarm(31, 200, 200, p, 9)
			p.SpatialIndex = true
			indexed := newSwarm(31, 200, 200, p, 9)

			for tick := 0; tick < 25; tick++ {
				brute.Advance()
				indexed.Advance()
				for i, b := range indexed.All() {
					Expect(b.Pending()).To(Equal(brute.All()[i].Pending()))
				}
				brute.IntegrateAll()
				indexed.IntegrateAll()
				for i, b := range indexed.All() {
					Expect(b.Position()).To(Equal(brute.All()[i].Position()))
				}
			}
		})

		It("answers queries from current positions with the spatial index", func() {
			p := boids.DefaultParams()
			p.SpatialIndex = true
			s := newSwarm(2, 1000, 1000, p, 10)
			place(s.Left()[0], 100, 100, vector.Vector{})
			place(s.Left()[1], 110, 100, vector.Vector{})
			place(s.Right()[0], 800, 800, vector.Vector{})
			place(s.Right()[1], 900, 800, vector.Vector{})

			Expect(s.Neighbors(s.Left()[0])).To(ConsistOf(s.Left()[1]))

			s.Run(nil)
			place(s.Left()[0], 500, 500, vector.Vector{})
			place(s.Left()[1], 510, 500, vector.Vector{})
			Expect(s.Neighbors(s.Left()[0])).To(ConsistOf(s.Left()[1]))
			Expect(s.Neighbors(s.Right()[0])).To(BeEmpty())
		})
	})

	Describe("rules", func() {
		It("fires nothing for isolated boids with zero headings", func() {
			s := newSwarm(4, 1000, 1000, boids.DefaultParams(), 5)
			for i := 0; i < 4; i++ {
				place(s.Left()[i], 100+float64(i)*200, 300, vector.Vector{})
				place(s.Right()[i], 100+float64(i)*200, 700, vector.Vector{})
			}
			before := make([]vector.Point, 0, 8)
			for _, b := range s.All() {
				before = append(before, b.Position().Point())
			}

			s.Advance()
			for _, b := range s.All() {
				Expect(s.Neighbors(b)).To(BeEmpty())
				Expect(b.Pending()).To(BeEmpty())
			}
			s.IntegrateAll()

			for i, b := range s.All() {
				p := b.Position().Point()
				Expect(p.X).To(BeNumerically("~", before[i].X, 1e-9))
				Expect(p.Y).To(BeNumerically("~", before[i].Y, 1e-9))
			}
		})

		It("separates two boids that are too close", func() {
			s := newSwarm(1, 1000, 1000, boids.DefaultParams(), 6)
			heading := vector.New(math.Pi/2, 1)
			a, b := s.Left()[0], s.Right()[0]
			place(a, 500, 500, heading)
			place(b, 501, 500, heading)

			sepA, ok := s.Separation(a, s.Neighbors(a))
			Expect(ok).To(BeTrue())
			sepB, ok := s.Separation(b, s.Neighbors(b))
			Expect(ok).To(BeTrue())

			ax, _ := sepA.AsCartesian()
			bx, _ := sepB.AsCartesian()
			Expect(ax).To(BeNumerically("<", 0))
			Expect(bx).To(BeNumerically(">", 0))

			s.Advance()
			Expect(a.Pending()).To(HaveLen(3))
			px, _ := a.Pending()[2].AsCartesian()
			Expect(px).To(BeNumerically("~", ax, 1e-12))
		})

		It("pulls a boid at the left edge toward +x", func() {
			p := boids.DefaultParams()
			p.Cohesion, p.Alignment, p.Separation = 0, 0, 0
			s := newSwarm(1, 1000, 1000, p, 7)
			place(s.Left()[0], 0, 500, vector.Vector{})
			place(s.Right()[0], 900, 900, vector.Vector{})

			s.AdvanceBoid(s.Left()[0])
			var sx, sy float64
			for _, v := range s.Left()[0].Pending() {
				x, y := v.AsCartesian()
				sx += x
				sy += y
			}
			Expect(sx).To(BeNumerically(">", 0))
			Expect(math.Abs(sy)).To(BeNumerically("<", 1e-9))
		})

		It("fires on both axes in a corner", func() {
			s := newSwarm(1, 1000, 1000, boids.DefaultParams(), 8)
			place(s.Left()[0], 990, 5, vector.Vector{})
			av := s.Avoidance(s.Left()[0])
			Expect(av).To(HaveLen(2))
			x, _ := av[0].AsCartesian()
			_, y := av[1].AsCartesian()
			Expect(x).To(BeNumerically("<", 0))
			Expect(y).To(BeNumerically(">", 0))
		})

		It("sums neighbour headings for alignment", func() {
			s := newSwarm(2, 1000, 1000, boids.DefaultParams(), 10)
			place(s.Left()[0], 500, 500, vector.Vector{})
			place(s.Left()[1], 505, 500, vector.FromCartesian(2, 0))
			place(s.Right()[0], 495, 500, vector.FromCartesian(0, 3))
			place(s.Right()[1], 100, 100, vector.Vector{})

			v, ok := s.Alignment(s.Left()[0], s.Neighbors(s.Left()[0]))
			Expect(ok).To(BeTrue())
			x, y := v.AsCartesian()
			Expect(x).To(BeNumerically("~", 2, 1e-9))
			Expect(y).To(BeNumerically("~", 3, 1e-9))
		})
	})

	It("keeps boids where they are when the bounds change", func() {
		s := newSwarm(3, 500, 500, boids.DefaultParams(), 11)
		before := s.Left()[0].Position()
		s.SetBounds(100, 100)
		w, h := s.Bounds()
		Expect(w).To(Equal(100.0))
		Expect(h).To(Equal(100.0))
		Expect(s.Left()[0].Position()).To(Equal(before))
	})

	It("reports non-finite state", func() {
		s := newSwarm(2, 500, 500, boids.DefaultParams(), 12)
		Expect(s.Validate()).To(Succeed())

		s.Right()[1].Place(vector.Vector{Magnitude: math.NaN()}, vector.Vector{})
		err := s.Validate()
		Expect(errors.Is(err, boids.ErrInvalidState)).To(BeTrue())
		var se *boids.StateError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Channel).To(Equal(boids.Right))
		Expect(se.Index).To(Equal(1))
	})

	It("stays finite over a long run", func() {
		s := newSwarm(31, 800, 600, boids.DefaultParams(), 13)
		for i := 0; i < 2000; i++ {
			s.Run(nil)
		}
		Expect(s.Validate()).To(Succeed())
		for _, b := range s.All() {
			Expect(b.Heading().Magnitude).To(BeNumerically("<=", 20))
		}
	})
})
