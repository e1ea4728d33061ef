package metrics

import (
	"math"

	"github.com/san-kum/morph/internal/particle"
)

// Spread is the mean distance of particles from the origin.
type Spread struct {
	value float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(a *particle.Arena, frame int) {
	ps := a.Particles()
	sum := 0.0
	for i := range ps {
		sum += ps[i].Position.Length()
	}
	s.value = sum / float64(len(ps))
}

func (s *Spread) Value() float64 { return s.value }
func (s *Spread) Reset()         { s.value = 0 }

// Chase is the mean distance to target among seeking particles, zero when
// none are seeking.
type Chase struct {
	value float64
}

func NewChase() *Chase { return &Chase{} }

func (c *Chase) Name() string { return "chase" }

func (c *Chase) Observe(a *particle.Arena, frame int) {
	ps := a.Particles()
	sum, n := 0.0, 0
	for i := range ps {
		if ps[i].State != particle.Seeking {
			continue
		}
		sum += math.Sqrt(ps[i].Position.DistanceSquared(ps[i].Target))
		n++
	}
	if n == 0 {
		c.value = 0
		return
	}
	c.value = sum / float64(n)
}

func (c *Chase) Value() float64 { return c.value }
func (c *Chase) Reset()         { c.value = 0 }
