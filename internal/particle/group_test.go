package particle_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/morph/internal/particle"
	"github.com/san-kum/morph/internal/vec"
)

func constTarget(t vec.Vec3) particle.GeneratorFunc {
	return func(p *particle.Particle, _ particle.Selection) { p.SetTarget(t) }
}

var _ = Describe("Group", func() {
	var (
		arena *particle.Arena
		root  *particle.Group
	)

	BeforeEach(func() {
		var err error
		arena, err = particle.NewArena(1000, 7)
		Expect(err).NotTo(HaveOccurred())
		root = arena.Root()
	})

	Describe("Root", func() {
		It("holds every particle in index order", func() {
			Expect(root.Len()).To(Equal(1000))
			idx := root.Indices()
			for i := range idx {
				Expect(idx[i]).To(Equal(i))
			}
		})
	})

	Describe("Get", func() {
		It("selects nothing at zero", func() {
			g, err := root.Get(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(Equal(0))
		})

		It("selects everything at one", func() {
			g, err := root.Get(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(Equal(root.Len()))
		})

		It("selects roughly the requested fraction", func() {
			g, err := root.Get(0.3)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(BeNumerically("~", 300, 60))
		})

		It("compounds when derived from a sub-group", func() {
			big, err := particle.NewArena(20000, 3)
			Expect(err).NotTo(HaveOccurred())
			a, err := big.Root().Get(0.3)
			Expect(err).NotTo(HaveOccurred())
			b, err := a.Get(0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Len()).To(BeNumerically("~", 3000, 300))

			inParent := map[int]bool{}
			for _, i := range a.Indices() {
				inParent[i] = true
			}
			for _, i := range b.Indices() {
				Expect(inParent[i]).To(BeTrue())
			}
		})

		It("re-rolls membership on every call", func() {
			a, _ := root.Get(0.5)
			b, _ := root.Get(0.5)
			Expect(a.Indices()).NotTo(Equal(b.Indices()))
		})

		It("rejects probabilities outside [0, 1]", func() {
			for _, p := range []float64{-0.1, 1.01, 2, math.NaN()} {
				g, err := root.Get(p)
				Expect(g).To(BeNil())
				Expect(errors.Is(err, particle.ErrInvalidSelector)).To(BeTrue())
			}
		})

		It("never changes the parent", func() {
			before := root.Indices()
			_, _ = root.Get(0.2)
			Expect(root.Indices()).To(Equal(before))
		})
	})

	Describe("Sample", func() {
		It("is reproducible for a given source", func() {
			a, _ := root.Sample(rand.New(rand.NewSource(42)), 0.4)
			b, _ := root.Sample(rand.New(rand.NewSource(42)), 0.4)
			Expect(a.Indices()).To(Equal(b.Indices()))
			Expect(a.Name()).NotTo(Equal(b.Name()))
		})
	})

	Describe("Filter", func() {
		It("keeps exactly the matching members", func() {
			half, _ := root.Get(0.5)
			half.Shape(constTarget(vec.New(50, 0, 0)))

			seeking := root.Filter(particle.IsSeeking)
			idle := root.Filter(particle.IsIdle)
			Expect(seeking.Indices()).To(Equal(half.Indices()))
			Expect(seeking.Len() + idle.Len()).To(Equal(root.Len()))
		})

		It("is a snapshot that is not re-evaluated", func() {
			root.Shape(constTarget(vec.New(1, 0, 0)))
			seeking := root.Filter(particle.IsSeeking)
			Expect(seeking.Len()).To(Equal(1000))
			arena.Tick()
			Expect(root.Filter(particle.IsSeeking).Len()).To(Equal(0))
			Expect(seeking.Len()).To(Equal(1000))
		})

		It("matches by group lineage", func() {
			sub, _ := root.Get(0.5)
			subsub, _ := sub.Get(0.5)
			subsub.Shape(constTarget(vec.New(1, 1, 1)))

			Expect(root.Filter(particle.InGroup(sub.Name())).Indices()).To(Equal(subsub.Indices()))
			Expect(root.Filter(particle.InGroup(subsub.Name())).Indices()).To(Equal(subsub.Indices()))
			Expect(root.Filter(particle.InGroup("root/9999")).Len()).To(Equal(0))
		})
	})

	Describe("Shape", func() {
		It("zeroes rotation before calling the generator", func() {
			root.Rotation(1, 2, 3)
			calls := 0
			root.Shape(particle.GeneratorFunc(func(p *particle.Particle, sel particle.Selection) {
				Expect(p.AngularVelocity.IsZero()).To(BeTrue())
				p.SetTarget(vec.New(0, 0, 1))
				calls++
			}))
			Expect(calls).To(Equal(1000))
		})

		It("passes index and size within the group in order", func() {
			g, _ := root.Get(0.1)
			next := 0
			g.Shape(particle.GeneratorFunc(func(p *particle.Particle, sel particle.Selection) {
				Expect(sel.Index).To(Equal(next))
				Expect(sel.Size).To(Equal(g.Len()))
				Expect(sel.Rand).To(BeIdenticalTo(arena.Rand()))
				p.SetTarget(vec.Vec3{})
				next++
			}))
			Expect(next).To(Equal(g.Len()))
		})

		It("tags members with the group name", func() {
			g, _ := root.Get(0.2)
			g.Shape(constTarget(vec.New(1, 0, 0)))
			g.Each(func(_ int, p *particle.Particle) {
				Expect(p.Group).To(Equal(g.Name()))
			})
		})

		It("leaves members stationary unless rotation follows", func() {
			root.Rotation(1, 1, 1).Shape(constTarget(vec.New(20, 0, 0)))
			root.Each(func(_ int, p *particle.Particle) {
				Expect(p.AngularVelocity.IsZero()).To(BeTrue())
			})

			root.Shape(constTarget(vec.New(20, 0, 0))).Rotation(1, 0, 0)
			root.Each(func(_ int, p *particle.Particle) {
				Expect(p.AngularVelocity).To(Equal(vec.New(1, 0, 0)))
				Expect(p.State).To(Equal(particle.Seeking))
			})
		})

		It("is a no-op on an empty group", func() {
			empty, _ := root.Get(0)
			called := false
			empty.Shape(particle.GeneratorFunc(func(*particle.Particle, particle.Selection) { called = true })).Rotation(5, 5, 5)
			Expect(called).To(BeFalse())
			idle, seeking := arena.Counts()
			Expect(idle).To(Equal(1000))
			Expect(seeking).To(Equal(0))
		})
	})

	Describe("Rotation", func() {
		It("only touches members", func() {
			g, _ := root.Get(0.5)
			g.Rotation(1, -1, 0.5)
			inGroup := map[int]bool{}
			for _, i := range g.Indices() {
				inGroup[i] = true
			}
			for i := 0; i < arena.Len(); i++ {
				if inGroup[i] {
					Expect(arena.At(i).AngularVelocity).To(Equal(vec.New(1, -1, 0.5)))
				} else {
					Expect(arena.At(i).AngularVelocity.IsZero()).To(BeTrue())
				}
			}
		})
	})
})
