package particle

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/san-kum/morph/internal/vec"
)

const DefaultPopulation = 25000

// Arena owns every particle of a run by stable index, plus the shared
// random source used for selection and shape sampling.
//
// Group reassignment (Shape, Rotation) must happen between ticks. A tick,
// sequential or parallel, must never overlap a reassignment.
type Arena struct {
	particles []Particle
	rng       *rand.Rand
	trig      *vec.TrigTable
	nextGroup int
}

// NewArena creates size particles at the origin, idle and not rotating.
func NewArena(size int, seed int64) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPopulation, size)
	}
	return &Arena{
		particles: make([]Particle, size),
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

func (a *Arena) Len() int              { return len(a.particles) }
func (a *Arena) At(i int) *Particle    { return &a.particles[i] }
func (a *Arena) Rand() *rand.Rand      { return a.rng }
func (a *Arena) Particles() []Particle { return a.particles }

// UseTrigTable switches ticks to table lookup; nil restores exact trig.
func (a *Arena) UseTrigTable(t *vec.TrigTable) { a.trig = t }

// Root returns a group holding every particle.
func (a *Arena) Root() *Group {
	idx := make([]int, len(a.particles))
	for i := range idx {
		idx[i] = i
	}
	return &Group{arena: a, name: "root", indices: idx}
}

func (a *Arena) groupName(parent string) string {
	a.nextGroup++
	return fmt.Sprintf("%s/%d", parent, a.nextGroup)
}

// Tick advances every particle by one frame.
func (a *Arena) Tick() {
	a.tickRange(0, len(a.particles))
}

// TickParallel advances every particle by one frame across workers goroutines.
// Each particle only touches its own state, so any partition is valid.
func (a *Arena) TickParallel(workers int) {
	parallelFor(len(a.particles), 1024, workers, a.tickRange)
}

func (a *Arena) tickRange(start, end int) {
	if a.trig != nil {
		for i := start; i < end; i++ {
			a.particles[i].TickTable(a.trig)
		}
		return
	}
	for i := start; i < end; i++ {
		a.particles[i].Tick()
	}
}

// Positions copies current positions into dst, growing it if needed.
func (a *Arena) Positions(dst []vec.Vec3) []vec.Vec3 {
	if cap(dst) < len(a.particles) {
		dst = make([]vec.Vec3, len(a.particles))
	}
	dst = dst[:len(a.particles)]
	for i := range a.particles {
		dst[i] = a.particles[i].Position
	}
	return dst
}

// Counts returns how many particles are idle and how many are seeking.
func (a *Arena) Counts() (idle, seeking int) {
	for i := range a.particles {
		if a.particles[i].State == Seeking {
			seeking++
		} else {
			idle++
		}
	}
	return idle, seeking
}

// parallelFor executes fn over [0, n) split into at most workers chunks.
func parallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
