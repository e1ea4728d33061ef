package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/morph/internal/particle"
	"github.com/san-kum/morph/internal/vec"
	"go.uber.org/zap"
)

// Simulator drives an arena frame by frame. It is the only thing that ticks
// particles, so scene changes issued between Step calls never race a tick.
type Simulator struct {
	arena     *particle.Arena
	metrics   []Metric
	observers []Observer
	frame     int
	lastLog   time.Time
	lastFrame int
}

func New(a *particle.Arena) *Simulator {
	return &Simulator{
		arena:     a,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		lastLog:   time.Now(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Arena() *particle.Arena { return s.arena }
func (s *Simulator) Frame() int             { return s.frame }
func (s *Simulator) Metrics() []Metric      { return s.metrics }
func (s *Simulator) Root() *particle.Group  { return s.arena.Root() }

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", cfg.Frames)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.LogEvery < 0 {
		return fmt.Errorf("log interval must not be negative, got %d", cfg.LogEvery)
	}
	return nil
}

// Step advances one frame, then feeds metrics and observers.
func (s *Simulator) Step(cfg Config) {
	if cfg.FastTrig {
		s.arena.UseTrigTable(vec.DefaultTrigTable)
	} else {
		s.arena.UseTrigTable(nil)
	}
	if cfg.Workers > 1 {
		s.arena.TickParallel(cfg.Workers)
	} else {
		s.arena.Tick()
	}

	for _, m := range s.metrics {
		m.Observe(s.arena, s.frame)
	}
	for _, o := range s.observers {
		o.OnFrame(s.arena, s.frame)
	}
	s.frame++
	s.logFrameRate(cfg.LogEvery)
}

// logFrameRate logs once every `every` frames since the last mark.
func (s *Simulator) logFrameRate(every int) {
	if every <= 0 || s.frame-s.lastFrame < every {
		return
	}
	now := time.Now()
	frames := s.frame - s.lastFrame
	fps := 0.0
	if elapsed := now.Sub(s.lastLog).Seconds(); elapsed > 0 {
		fps = float64(frames) / elapsed
	}
	idle, seeking := s.arena.Counts()
	zap.S().Infow("frame rate", "frame", s.frame, "frames", frames, "fps", fps, "idle", idle, "seeking", seeking)
	s.markLog(now)
}

func (s *Simulator) markLog(now time.Time) {
	s.lastLog, s.lastFrame = now, s.frame
}

func (s *Simulator) validate() error {
	ps := s.arena.Particles()
	for i := range ps {
		if !ps[i].Position.IsValid() || !ps[i].Target.IsValid() {
			return SimError{Frame: s.frame, Particle: i, Message: "invalid position (NaN/Inf)"}
		}
	}
	return nil
}

// Run advances cfg.Frames frames, recording every metric per frame.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	return s.RunWithCallback(ctx, cfg, nil)
}

// RunWithCallback is Run with a hook called before each frame. Returning
// false from the callback stops the run early. The callback may reassign
// groups; it never runs concurrently with a tick.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(frame int) bool) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range s.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, cfg.Frames)
	}

	start := time.Now()
	s.markLog(start)
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if callback != nil && !callback(s.frame) {
			break
		}

		s.Step(cfg)
		result.Frames++

		for _, m := range s.metrics {
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}

		if cfg.ValidateState {
			if err := s.validate(); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}
	}
	result.Elapsed = time.Since(start)

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
