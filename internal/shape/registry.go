package shape

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnknownShape = errors.New("shape: unknown shape")
	ErrInvalidParam = errors.New("shape: invalid parameter")
)

type builder struct {
	defaults []float64
	build    func(p []float64) Shape
}

var registry = map[string]builder{
	"ring":                 {[]float64{100, 10}, func(p []float64) Shape { return NewRing(p[0], p[1]) }},
	"ball_fill":            {[]float64{100}, func(p []float64) Shape { return NewBallFill(p[0]) }},
	"ball_surface":         {[]float64{100}, func(p []float64) Shape { return NewBallSurface(p[0]) }},
	"ball_surface_uniform": {[]float64{100}, func(p []float64) Shape { return NewBallSurfaceUniform(p[0]) }},
	"cylinder_random":      {[]float64{100}, func(p []float64) Shape { return NewCylinderRandom(p[0]) }},
	"cylinder_normal":      {[]float64{100, 100}, func(p []float64) Shape { return NewCylinderNormal(p[0], p[1]) }},
}

// Names lists registered shape names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the parameters used when none are given.
func Defaults(name string) ([]float64, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, name)
	}
	return append([]float64(nil), b.defaults...), nil
}

// Parse builds a shape by name. Missing trailing parameters take their
// defaults; extra parameters are an error.
func Parse(name string, params []float64) (Shape, error) {
	b, ok := registry[name]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownShape, name, Names())
	}
	if len(params) > len(b.defaults) {
		return Shape{}, fmt.Errorf("%w: %s takes at most %d parameters, got %d", ErrInvalidParam, name, len(b.defaults), len(params))
	}
	p := append([]float64(nil), b.defaults...)
	copy(p, params)
	for i, v := range p {
		if v < 0 || math.IsNaN(v) {
			return Shape{}, fmt.Errorf("%w: %s parameter %d is %v", ErrInvalidParam, name, i, v)
		}
	}
	return b.build(p), nil
}
