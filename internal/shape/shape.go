// Package shape computes target positions for particles. A Shape is a
// tagged value: its Kind selects the distribution and R, R2 and L carry the
// sizes. All angles are in degrees.
package shape

import (
	"math"
	"math/rand"

	"github.com/san-kum/morph/internal/particle"
	"github.com/san-kum/morph/internal/vec"
)

type Kind uint8

const (
	Ring Kind = iota + 1
	BallFill
	BallSurface
	BallSurfaceUniform
	CylinderRandom
	CylinderNormal
)

var kindNames = map[Kind]string{
	Ring:               "ring",
	BallFill:           "ball_fill",
	BallSurface:        "ball_surface",
	BallSurfaceUniform: "ball_surface_uniform",
	CylinderRandom:     "cylinder_random",
	CylinderNormal:     "cylinder_normal",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

type Shape struct {
	Kind Kind
	R    float64 // radius
	R2   float64 // ring thickness
	L    float64 // cylinder length, in bands
}

func NewRing(r, thickness float64) Shape    { return Shape{Kind: Ring, R: r, R2: thickness} }
func NewBallFill(r float64) Shape           { return Shape{Kind: BallFill, R: r} }
func NewBallSurface(r float64) Shape        { return Shape{Kind: BallSurface, R: r} }
func NewBallSurfaceUniform(r float64) Shape { return Shape{Kind: BallSurfaceUniform, R: r} }
func NewCylinderRandom(r float64) Shape     { return Shape{Kind: CylinderRandom, R: r} }
func NewCylinderNormal(r, length float64) Shape {
	return Shape{Kind: CylinderNormal, R: r, L: length}
}

// Generate implements particle.Generator.
func (s Shape) Generate(p *particle.Particle, sel particle.Selection) {
	p.SetTarget(s.Target(sel))
}

// Target computes a target position for the particle at sel.
func (s Shape) Target(sel particle.Selection) vec.Vec3 {
	rng := sel.Rand
	switch s.Kind {
	case Ring:
		theta := uniform(rng, 360)
		t := vec.New(s.R2*vec.Sin(theta), s.R2*vec.Cos(theta)+s.R-s.R2, 0)
		t.RotateX(uniform(rng, 360))
		return t
	case BallFill:
		theta, phi := uniform(rng, 360), uniform(rng, 360)
		return spherical(uniform(rng, s.R), theta, phi)
	case BallSurface:
		theta, phi := uniform(rng, 360), uniform(rng, 360)
		return spherical(s.R, theta, phi)
	case BallSurfaceUniform:
		theta, phi := UniformAngles(sel.Index, sel.Size)
		return spherical(s.R, theta, phi)
	case CylinderRandom:
		theta, phi := uniform(rng, 360), uniform(rng, 360)
		return cylinder(s.R, theta, phi)
	case CylinderNormal:
		theta := math.Floor(uniform(rng, 120)) * 3
		phi := math.Floor(uniform(rng, s.L)) * 3
		return cylinder(s.R, theta, phi)
	}
	return vec.Vec3{}
}

// UniformAngles returns the lattice angles used by ball_surface_uniform:
// theta sweeps [0, 720) across the selection, phi steps one degree per index.
func UniformAngles(index, size int) (theta, phi float64) {
	if size > 0 {
		theta = float64(index) / float64(size) * 720
	}
	return theta, float64(index % 360)
}

func spherical(r, theta, phi float64) vec.Vec3 {
	st, ct := vec.SinCos(theta)
	sp, cp := vec.SinCos(phi)
	return vec.New(r*st*cp, r*st*sp, r*ct)
}

func cylinder(r, theta, phi float64) vec.Vec3 {
	st, ct := vec.SinCos(theta)
	return vec.New(r*st, r*ct, r*vec.Cos(phi))
}

func uniform(rng *rand.Rand, max float64) float64 {
	return rng.Float64() * max
}
