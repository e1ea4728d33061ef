// Package compose loads and applies composition scripts. A script is a set
// of named scenes; each scene is an ordered list of steps that derive a
// group from the root, give it a shape and set its rotation.
package compose

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/san-kum/morph/internal/particle"
	"github.com/san-kum/morph/internal/shape"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownScene = errors.New("compose: unknown scene")
	ErrInvalidStep  = errors.New("compose: invalid step")
)

// Script binds scenes to the startup configuration and to input keys.
type Script struct {
	Name    string            `yaml:"name"`
	Initial string            `yaml:"initial"`
	Keys    map[string]string `yaml:"keys"`
	Scenes  map[string]Scene  `yaml:"scenes"`
}

type Scene struct {
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step selects from the root group, then optionally shapes and rotates the
// selection. Select is a chain of Bernoulli probabilities applied in order;
// Where filters by a named predicate before sampling.
type Step struct {
	Select   []float64  `yaml:"select,omitempty,flow"`
	Where    string     `yaml:"where,omitempty"`
	Shape    *ShapeSpec `yaml:"shape,omitempty"`
	Rotation []float64  `yaml:"rotation,omitempty,flow"`
}

type ShapeSpec struct {
	Kind   string    `yaml:"kind"`
	Params []float64 `yaml:"params,omitempty,flow"`
}

// LoadScript loads a script from a YAML file and validates it.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func SaveScript(path string, s *Script) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks scene references, selectors, shapes and rotations without
// touching any particles.
func (s *Script) Validate() error {
	if s.Initial != "" {
		if _, ok := s.Scenes[s.Initial]; !ok {
			return fmt.Errorf("%w: initial scene %q", ErrUnknownScene, s.Initial)
		}
	}
	for key, name := range s.Keys {
		if _, ok := s.Scenes[name]; !ok {
			return fmt.Errorf("%w: key %q maps to %q", ErrUnknownScene, key, name)
		}
	}
	for name, scene := range s.Scenes {
		for i, step := range scene.Steps {
			if err := step.validate(); err != nil {
				return fmt.Errorf("scene %s step %d: %w", name, i+1, err)
			}
		}
	}
	return nil
}

func (st Step) validate() error {
	for _, p := range st.Select {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("%w: select %v", particle.ErrInvalidSelector, p)
		}
	}
	if st.Where != "" {
		if _, err := predicate(st.Where); err != nil {
			return err
		}
	}
	if st.Shape != nil {
		if _, err := shape.Parse(st.Shape.Kind, st.Shape.Params); err != nil {
			return err
		}
	}
	if st.Rotation != nil && len(st.Rotation) != 3 {
		return fmt.Errorf("%w: rotation needs 3 values, got %d", ErrInvalidStep, len(st.Rotation))
	}
	for _, r := range st.Rotation {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: rotation %v is not finite", ErrInvalidStep, st.Rotation)
		}
	}
	if st.Shape == nil && st.Rotation == nil {
		return fmt.Errorf("%w: step needs a shape or a rotation", ErrInvalidStep)
	}
	return nil
}

// SceneNames returns every scene name in sorted order.
func (s *Script) SceneNames() []string {
	names := make([]string, 0, len(s.Scenes))
	for n := range s.Scenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SceneForKey returns the scene bound to key, if any.
func (s *Script) SceneForKey(key string) (string, bool) {
	name, ok := s.Keys[key]
	return name, ok
}

// Apply runs the named scene against root.
func (s *Script) Apply(root *particle.Group, name string) error {
	scene, ok := s.Scenes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	for i, step := range scene.Steps {
		g, err := step.Apply(root)
		if err != nil {
			return fmt.Errorf("scene %s step %d: %w", name, i+1, err)
		}
		zap.S().Debugw("step applied", "scene", name, "step", i+1, "group", g.Name(), "members", g.Len())
	}
	return nil
}

// ApplyInitial runs the initial scene, if one is set.
func (s *Script) ApplyInitial(root *particle.Group) error {
	if s.Initial == "" {
		return nil
	}
	return s.Apply(root, s.Initial)
}

// Apply derives the step's group from root and configures it.
func (st Step) Apply(root *particle.Group) (*particle.Group, error) {
	g := root
	if st.Where != "" {
		pred, err := predicate(st.Where)
		if err != nil {
			return nil, err
		}
		g = g.Filter(pred)
	}
	for _, p := range st.Select {
		var err error
		if g, err = g.Get(p); err != nil {
			return nil, err
		}
	}
	if st.Shape != nil {
		sh, err := shape.Parse(st.Shape.Kind, st.Shape.Params)
		if err != nil {
			return nil, err
		}
		g.Shape(sh)
	}
	if len(st.Rotation) == 3 {
		g.Rotation(st.Rotation[0], st.Rotation[1], st.Rotation[2])
	}
	return g, nil
}

func predicate(name string) (func(*particle.Particle) bool, error) {
	switch name {
	case "idle":
		return particle.IsIdle, nil
	case "seeking":
		return particle.IsSeeking, nil
	}
	if group, ok := strings.CutPrefix(name, "group:"); ok && group != "" {
		return particle.InGroup(group), nil
	}
	return nil, fmt.Errorf("%w: unknown predicate %q", ErrInvalidStep, name)
}
