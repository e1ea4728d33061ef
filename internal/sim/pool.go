package sim

import (
	"sync"

	"github.com/san-kum/morph/internal/vec"
)

// PositionPool recycles position snapshot buffers between frames.
type PositionPool struct {
	pool sync.Pool
	size int
}

func NewPositionPool(size int) *PositionPool {
	return &PositionPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]vec.Vec3, size)
			},
		},
	}
}

func (p *PositionPool) Get() []vec.Vec3 {
	return p.pool.Get().([]vec.Vec3)
}

func (p *PositionPool) Put(buf []vec.Vec3) {
	if len(buf) == p.size {
		p.pool.Put(buf)
	}
}

// Snapshot copies the simulator's current positions into a pooled buffer.
func (p *PositionPool) Snapshot(s *Simulator) []vec.Vec3 {
	return s.arena.Positions(p.Get())
}
