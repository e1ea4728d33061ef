package particle

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/san-kum/morph/internal/vec"
)

// Selection tells a generator where a particle sits within the group being
// shaped, and which random source to draw from.
type Selection struct {
	Index int
	Size  int
	Rand  *rand.Rand
}

// Generator assigns a new target to a particle. Implementations must call
// p.SetTarget.
type Generator interface {
	Generate(p *Particle, sel Selection)
}

type GeneratorFunc func(p *Particle, sel Selection)

func (f GeneratorFunc) Generate(p *Particle, sel Selection) { f(p, sel) }

// Group is a snapshot of particle indices into an arena. Membership is fixed
// when the group is derived and is never re-evaluated.
type Group struct {
	arena   *Arena
	name    string
	indices []int
}

func (g *Group) Name() string   { return g.name }
func (g *Group) Len() int       { return len(g.indices) }
func (g *Group) Arena() *Arena  { return g.arena }
func (g *Group) Indices() []int { return append([]int(nil), g.indices...) }

// Each calls fn for every member in group order.
func (g *Group) Each(fn func(i int, p *Particle)) {
	for i, idx := range g.indices {
		fn(i, &g.arena.particles[idx])
	}
}

// Get derives a sub-group where each member is kept independently with
// probability p, drawing from the arena's random source.
func (g *Group) Get(p float64) (*Group, error) {
	return g.Sample(g.arena.rng, p)
}

// Sample is Get with an explicit random source.
func (g *Group) Sample(rng *rand.Rand, p float64) (*Group, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSelector, p)
	}
	idx := make([]int, 0, int(float64(len(g.indices))*p)+1)
	for _, i := range g.indices {
		if rng.Float64() < p {
			idx = append(idx, i)
		}
	}
	return &Group{arena: g.arena, name: g.arena.groupName(g.name), indices: idx}, nil
}

// Filter derives a sub-group of the members satisfying pred.
func (g *Group) Filter(pred func(p *Particle) bool) *Group {
	idx := make([]int, 0, len(g.indices))
	for _, i := range g.indices {
		if pred(&g.arena.particles[i]) {
			idx = append(idx, i)
		}
	}
	return &Group{arena: g.arena, name: g.arena.groupName(g.name), indices: idx}
}

// Shape stops every member rotating, tags it with this group and hands it to
// gen for a new target. Call Rotation afterwards to keep members moving.
func (g *Group) Shape(gen Generator) *Group {
	for _, i := range g.indices {
		p := &g.arena.particles[i]
		p.AngularVelocity = vec.Vec3{}
		p.Group = g.name
	}
	sel := Selection{Size: len(g.indices), Rand: g.arena.rng}
	for n, i := range g.indices {
		sel.Index = n
		gen.Generate(&g.arena.particles[i], sel)
	}
	return g
}

// Rotation sets the angular velocity, in degrees per tick, of every member.
func (g *Group) Rotation(x, y, z float64) *Group {
	r := vec.Vec3{X: x, Y: y, Z: z}
	for _, i := range g.indices {
		g.arena.particles[i].AngularVelocity = r
	}
	return g
}

func IsIdle(p *Particle) bool    { return p.State == Idle }
func IsSeeking(p *Particle) bool { return p.State == Seeking }

// InGroup matches particles whose last shape came from the named group or
// from any group derived from it.
func InGroup(name string) func(p *Particle) bool {
	return func(p *Particle) bool {
		return p.Group == name || strings.HasPrefix(p.Group, name+"/")
	}
}
