package particle

import "github.com/san-kum/morph/internal/vec"

const (
	// LerpFactor is the fraction of the remaining distance closed each tick.
	LerpFactor = 0.05
	// ConvergeThreshold is the squared distance below which a seeking
	// particle snaps onto its target.
	ConvergeThreshold = 15.0
)

type State uint8

const (
	Idle State = iota
	Seeking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Seeking:
		return "seeking"
	default:
		return "unknown"
	}
}

// Particle is a single animated point.
type Particle struct {
	Position        vec.Vec3
	Target          vec.Vec3
	AngularVelocity vec.Vec3 // degrees per tick about X, Y, Z
	State           State
	Group           string // name of the group that last assigned a shape
}

// SetTarget replaces the destination and starts seeking it.
func (p *Particle) SetTarget(t vec.Vec3) {
	p.Target = t
	p.State = Seeking
}

// Tick advances the particle by one frame.
func (p *Particle) Tick() {
	if p.State == Seeking {
		p.Position.Lerp(p.Target, LerpFactor)
		p.Target.Rotate(p.AngularVelocity)
		if p.Position.DistanceSquared(p.Target) < ConvergeThreshold {
			p.Position = p.Target
			p.State = Idle
		}
	}
	p.Position.Rotate(p.AngularVelocity)
}

// TickTable is Tick with table-based trigonometry.
func (p *Particle) TickTable(t *vec.TrigTable) {
	if p.State == Seeking {
		p.Position.Lerp(p.Target, LerpFactor)
		p.Target.RotateTable(t, p.AngularVelocity)
		if p.Position.DistanceSquared(p.Target) < ConvergeThreshold {
			p.Position = p.Target
			p.State = Idle
		}
	}
	p.Position.RotateTable(t, p.AngularVelocity)
}
