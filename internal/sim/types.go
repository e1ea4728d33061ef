package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/morph/internal/particle"
)

type Metric interface {
	Name() string
	Observe(a *particle.Arena, frame int)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(a *particle.Arena, frame int)
}

type ObserverFunc func(a *particle.Arena, frame int)

func (f ObserverFunc) OnFrame(a *particle.Arena, frame int) { f(a, frame) }

type Config struct {
	Frames        int
	Workers       int
	FastTrig      bool
	LogEvery      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		Workers:       1,
		LogEvery:      100,
		ValidateState: true,
	}
}

type Result struct {
	Frames  int
	Elapsed time.Duration
	Metrics map[string]float64
	Series  map[string][]float64
	Errors  []error
}

// FPS is the achieved frame rate over the whole run.
func (r *Result) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

type SimError struct {
	Frame    int
	Particle int
	Message  string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d particle %d: %s", e.Frame, e.Particle, e.Message)
}
