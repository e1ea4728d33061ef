package particle_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/morph/internal/particle"
	"github.com/san-kum/morph/internal/vec"
)

var _ = Describe("Particle", func() {
	var p *particle.Particle

	BeforeEach(func() {
		p = &particle.Particle{}
	})

	It("starts idle at the origin", func() {
		Expect(p.State).To(Equal(particle.Idle))
		Expect(p.Position.IsZero()).To(BeTrue())
		Expect(p.AngularVelocity.IsZero()).To(BeTrue())
	})

	Describe("SetTarget", func() {
		It("enters seeking", func() {
			p.SetTarget(vec.New(100, 0, 0))
			Expect(p.State).To(Equal(particle.Seeking))
			Expect(p.Target).To(Equal(vec.New(100, 0, 0)))
		})

		It("replaces an in-flight target", func() {
			p.SetTarget(vec.New(100, 0, 0))
			p.Tick()
			p.SetTarget(vec.New(0, -50, 0))
			Expect(p.State).To(Equal(particle.Seeking))
			Expect(p.Target).To(Equal(vec.New(0, -50, 0)))
		})
	})

	Describe("Tick", func() {
		It("closes five percent of the gap per tick", func() {
			p.SetTarget(vec.New(100, 0, 0))
			p.Tick()
			Expect(p.Position.X).To(BeNumerically("~", 5, 1e-12))
			p.Tick()
			Expect(p.Position.X).To(BeNumerically("~", 9.75, 1e-12))
		})

		It("stays seeking until the squared distance drops below the threshold", func() {
			p.SetTarget(vec.New(100, 0, 0))
			ticks := 0
			for p.State == particle.Seeking && ticks < 1000 {
				Expect(p.Position.DistanceSquared(p.Target)).To(BeNumerically(">=", particle.ConvergeThreshold))
				p.Tick()
				ticks++
			}
			// 100 * 0.95^n < sqrt(15) first holds at n = 64
			Expect(ticks).To(Equal(64))
			Expect(p.State).To(Equal(particle.Idle))
			Expect(p.Position).To(Equal(p.Target))
		})

		It("goes idle immediately when already on target", func() {
			p.Position = vec.New(3, 4, 5)
			p.SetTarget(vec.New(3, 4, 5))
			p.Tick()
			Expect(p.State).To(Equal(particle.Idle))
			Expect(p.Position).To(Equal(vec.New(3, 4, 5)))
		})

		It("keeps orbiting once idle while the target stays put", func() {
			p.Position = vec.New(10, 0, 0)
			p.SetTarget(vec.New(10, 0, 0))
			p.Tick()
			Expect(p.State).To(Equal(particle.Idle))

			p.AngularVelocity = vec.New(0, 0, 90)
			p.Tick()
			Expect(p.State).To(Equal(particle.Idle))
			Expect(p.Target).To(Equal(vec.New(10, 0, 0)))
			Expect(p.Position.X).To(BeNumerically("~", 0, 1e-12))
			Expect(p.Position.Y).To(BeNumerically("~", 10, 1e-12))
		})

		It("rotates position even when idle", func() {
			p.Position = vec.New(1, 0, 0)
			p.AngularVelocity = vec.New(0, 0, 90)
			p.Tick()
			Expect(p.State).To(Equal(particle.Idle))
			Expect(p.Position.X).To(BeNumerically("~", 0, 1e-12))
			Expect(p.Position.Y).To(BeNumerically("~", 1, 1e-12))
		})

		It("chases forever when the target outruns the closing rate", func() {
			p.SetTarget(vec.New(100, 0, 0))
			p.AngularVelocity = vec.New(0, 0, 90)
			for i := 0; i < 500; i++ {
				p.Tick()
			}
			Expect(p.State).To(Equal(particle.Seeking))
			Expect(p.Position.DistanceSquared(p.Target)).To(BeNumerically("<", 1e-6))
		})
	})

	Describe("State", func() {
		It("has readable names", func() {
			Expect(particle.Idle.String()).To(Equal("idle"))
			Expect(particle.Seeking.String()).To(Equal("seeking"))
		})
	})
})
