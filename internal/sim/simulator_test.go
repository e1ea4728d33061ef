package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/morph/internal/metrics"
	"github.com/san-kum/morph/internal/particle"
	"github.com/san-kum/morph/internal/vec"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newSim(t *testing.T, n int) *Simulator {
	t.Helper()
	a, err := particle.NewArena(n, 1)
	if err != nil {
		t.Fatal(err)
	}
	return New(a)
}

func seekAll(s *Simulator, target vec.Vec3) {
	s.Root().Shape(particle.GeneratorFunc(func(p *particle.Particle, _ particle.Selection) {
		p.SetTarget(target)
	}))
}

func TestSimulatorRun(t *testing.T) {
	s := newSim(t, 100)
	seekAll(s, vec.New(100, 0, 0))
	s.AddMetric(metrics.NewConvergence())

	cfg := DefaultConfig()
	cfg.Frames = 80
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Frames != 80 || s.Frame() != 80 {
		t.Errorf("expected 80 frames, got %d / %d", result.Frames, s.Frame())
	}

	series := result.Series["convergence"]
	if len(series) != 80 {
		t.Fatalf("expected 80 samples, got %d", len(series))
	}
	if series[62] != 0 || series[63] != 1 {
		t.Errorf("expected convergence on frame 63, got %v then %v", series[62], series[63])
	}
	if result.Metrics["convergence"] != 1 {
		t.Errorf("expected final convergence 1, got %f", result.Metrics["convergence"])
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := newSim(t, 10)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative frames", Config{Frames: -1, Workers: 1}},
		{"no workers", Config{Frames: 10, Workers: 0}},
		{"negative log interval", Config{Frames: 10, Workers: 1, LogEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	s := newSim(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	result, err := s.Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Frames != 0 {
		t.Errorf("expected partial result with no frames, got %+v", result)
	}
}

func TestRunWithCallback_SceneChange(t *testing.T) {
	s := newSim(t, 50)
	seekAll(s, vec.New(10, 0, 0))

	cfg := DefaultConfig()
	cfg.Frames = 100
	result, err := s.RunWithCallback(context.Background(), cfg, func(frame int) bool {
		if frame == 20 {
			seekAll(s, vec.New(0, 80, 0))
		}
		return frame < 40
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Frames != 40 {
		t.Errorf("expected callback to stop at 40 frames, got %d", result.Frames)
	}
	idle, seeking := s.Arena().Counts()
	if seeking != 50 || idle != 0 {
		t.Errorf("expected every particle chasing the new target, got %d idle %d seeking", idle, seeking)
	}
}

func TestSimulatorObserver(t *testing.T) {
	s := newSim(t, 5)
	var frames []int
	s.AddObserver(ObserverFunc(func(a *particle.Arena, frame int) {
		frames = append(frames, frame)
	}))
	cfg := DefaultConfig()
	cfg.Frames = 3
	if _, err := s.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 || frames[0] != 0 || frames[2] != 2 {
		t.Errorf("unexpected observed frames %v", frames)
	}
}

func TestSimulatorValidateState(t *testing.T) {
	s := newSim(t, 5)
	p := s.Arena().At(3)
	p.Position = vec.New(math.NaN(), 0, 0)
	p.SetTarget(vec.New(10, 0, 0))

	cfg := DefaultConfig()
	cfg.Frames = 10
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	var simErr SimError
	if !errors.As(result.Errors[0], &simErr) || simErr.Particle != 3 {
		t.Errorf("unexpected error %v", result.Errors[0])
	}
	if result.Frames != 1 {
		t.Errorf("expected run to stop after first frame, got %d", result.Frames)
	}
}

func TestSimulatorParallelWorkers(t *testing.T) {
	seq := newSim(t, 4000)
	par := newSim(t, 4000)
	for _, s := range []*Simulator{seq, par} {
		s.Root().Shape(particle.GeneratorFunc(func(p *particle.Particle, sel particle.Selection) {
			p.SetTarget(vec.New(float64(sel.Index%50), 30, -20))
		})).Rotation(1, 0.5, 0)
	}

	cfg := DefaultConfig()
	cfg.Frames = 30
	if _, err := seq.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	cfg.Workers = 4
	if _, err := par.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4000; i++ {
		if seq.Arena().At(i).Position != par.Arena().At(i).Position {
			t.Fatalf("particle %d diverged between sequential and parallel runs", i)
		}
	}
}

func TestSimulatorFrameRateLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	s := newSim(t, 20)
	cfg := DefaultConfig()
	cfg.LogEvery = 100

	// a few frames stepped outside a run must not shorten the first interval
	for i := 0; i < 7; i++ {
		s.Step(cfg)
	}

	cfg.Frames = 250
	if _, err := s.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("frame rate").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 frame rate logs, got %d", len(entries))
	}
	for i, e := range entries {
		fields := e.ContextMap()
		if fields["frames"] != int64(100) {
			t.Errorf("log %d covers %v frames, want 100", i, fields["frames"])
		}
		if want := int64(7 + 100*(i+1)); fields["frame"] != want {
			t.Errorf("log %d at frame %v, want %d", i, fields["frame"], want)
		}
	}
}
