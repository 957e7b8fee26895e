package boids_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/vector"
)

func newTestBoid() *boids.Boid {
	return boids.NewBoid(boids.Options{
		Position:             vector.FromCartesian(100, 100),
		Heading:              vector.New(0, 2),
		Radius:               3,
		MaxSpeed:             20,
		AdjustmentMultiplier: 0.15,
		ShowHeading:          true,
	})
}

var _ = Describe("Boid", func() {
	Describe("AdjustHeading", func() {
		It("cuts vectors longer than max speed to max speed times the multiplier", func() {
			b := newTestBoid()
			b.AdjustHeading(vector.New(1, 50))

			pending := b.Pending()
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].Magnitude).To(BeNumerically("~", 20*0.15, 1e-12))
			Expect(pending[0].Direction).To(BeNumerically("~", 1, 1e-12))
		})

		It("keeps vectors at or below max speed untouched", func() {
			b := newTestBoid()
			b.AdjustHeading(vector.New(2, 20))
			Expect(b.Pending()[0].Magnitude).To(Equal(20.0))
		})

		It("does not clamp negative magnitudes", func() {
			b := newTestBoid()
			b.AdjustHeading(vector.New(0, -500))
			Expect(b.Pending()[0].Magnitude).To(Equal(-500.0))
		})
	})

	Describe("Integrate", func() {
		It("sums adjustments, clears them and moves by the new heading", func() {
			b := newTestBoid()
			b.AdjustHeading(vector.FromCartesian(0, 3))
			b.AdjustHeading(vector.FromCartesian(1, 0))
			b.Integrate()

			Expect(b.Pending()).To(BeEmpty())
			hx, hy := b.Heading().AsCartesian()
			Expect(hx).To(BeNumerically("~", 3, 1e-9))
			Expect(hy).To(BeNumerically("~", 3, 1e-9))
			px, py := b.Position().AsCartesian()
			Expect(px).To(BeNumerically("~", 103, 1e-9))
			Expect(py).To(BeNumerically("~", 103, 1e-9))
		})

		It("never leaves the heading above max speed", func() {
			rng := rand.New(rand.NewSource(3))
			b := newTestBoid()
			for tick := 0; tick < 200; tick++ {
				for i := 0; i < rng.Intn(6); i++ {
					b.AdjustHeading(vector.New(rng.Float64()*2*math.Pi, rng.Float64()*100-20))
				}
				b.Integrate()
				Expect(b.Heading().Magnitude).To(BeNumerically("<=", b.MaxSpeed()))
			}
		})

		It("can overshoot for one tick only through the position, not the heading", func() {
			b := newTestBoid()
			b.AdjustHeading(vector.New(0, 20))
			b.AdjustHeading(vector.New(0, 20))
			b.Integrate()
			Expect(b.Heading().Magnitude).To(Equal(20.0))
			px, _ := b.Position().AsCartesian()
			Expect(px).To(BeNumerically("~", 120, 1e-9))
		})
	})

	Describe("RenderRadius", func() {
		DescribeTable("maps excitation to size",
			func(excitation, want float64) {
				b := newTestBoid()
				b.SetExcitation(excitation)
				Expect(b.RenderRadius()).To(Equal(want))
			},
			Entry("silence keeps the minimum", 0.0, 3.0),
			Entry("quiet clamps to the minimum", 28.0, 3.0),
			Entry("moderate", 50.0, math.Floor(math.Pow(50.0/28, 3))),
			Entry("loud has no upper bound", 280.0, 1000.0),
		)
	})

	Describe("Draw", func() {
		It("draws the heading line and three rings", func() {
			b := newTestBoid()
			rec := &recorder{}
			b.Draw(rec)

			Expect(rec.lines).To(Equal(1))
			Expect(rec.circles).To(HaveLen(3))
			Expect(rec.circles[0].R).To(BeNumerically("~", 2, 1e-12))
			Expect(rec.circles[1].R).To(BeNumerically("~", 1.5, 1e-12))
			Expect(rec.circles[2].R).To(Equal(3.0))
			Expect(rec.circles[2].LineWidth).To(Equal(2.0))
			Expect(rec.circles[2].X).To(BeNumerically("~", 100, 1e-9))
		})

		It("thickens the outer ring for large radii and resets afterwards", func() {
			b := newTestBoid()
			b.SetExcitation(100)
			rec := &recorder{}
			b.Draw(rec)
			Expect(rec.circles[2].LineWidth).To(Equal(3.0))
			Expect(b.Radius()).To(Equal(3.0))
		})

		It("skips the heading line when disabled", func() {
			b := boids.NewBoid(boids.Options{Position: vector.FromCartesian(5, 5)})
			rec := &recorder{}
			b.Draw(rec)
			Expect(rec.lines).To(BeZero())
		})
	})

	It("applies fallbacks for zero options", func() {
		b := boids.NewBoid(boids.Options{})
		Expect(b.Radius()).To(Equal(3.0))
		Expect(b.MaxSpeed()).To(Equal(15.0))
	})
})
