package metrics

import "github.com/san-kum/morph/internal/particle"

// Convergence is the fraction of particles that have reached their target.
type Convergence struct {
	value float64
}

func NewConvergence() *Convergence { return &Convergence{} }

func (c *Convergence) Name() string { return "convergence" }

func (c *Convergence) Observe(a *particle.Arena, frame int) {
	idle, _ := a.Counts()
	c.value = float64(idle) / float64(a.Len())
}

func (c *Convergence) Value() float64 { return c.value }
func (c *Convergence) Reset()         { c.value = 0 }

// SettleFrame records the first frame at which at least threshold of the
// population was idle. Value is -1 until that happens.
type SettleFrame struct {
	threshold float64
	frame     int
}

func NewSettleFrame(threshold float64) *SettleFrame {
	return &SettleFrame{threshold: threshold, frame: -1}
}

func (s *SettleFrame) Name() string { return "settle_frame" }

func (s *SettleFrame) Observe(a *particle.Arena, frame int) {
	if s.frame >= 0 {
		return
	}
	idle, _ := a.Counts()
	if float64(idle) >= s.threshold*float64(a.Len()) {
		s.frame = frame
	}
}

func (s *SettleFrame) Value() float64 { return float64(s.frame) }
func (s *SettleFrame) Reset()         { s.frame = -1 }
