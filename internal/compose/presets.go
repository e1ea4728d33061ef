package compose

import "sort"

func rot(x, y, z float64) []float64 { return []float64{x, y, z} }

func shp(kind string, params ...float64) *ShapeSpec {
	return &ShapeSpec{Kind: kind, Params: params}
}

// DefaultScript is the stock composition: a spinning ring with two counter
// rotating uniform balls carved out of it, and a "morph" scene bound to keys.
func DefaultScript() *Script {
	return &Script{
		Name:    "default",
		Initial: "initial",
		Keys: map[string]string{
			"1": "initial",
			"2": "morph",
			"3": "nebula",
			"4": "cylinders",
			"5": "settle",
		},
		Scenes: map[string]Scene{
			"initial": {
				Description: "ring with two nested uniform balls",
				Steps: []Step{
					{Shape: shp("ring", 100, 10), Rotation: rot(1, 0, 0)},
					{Select: []float64{0.3}, Shape: shp("ball_surface_uniform", 60), Rotation: rot(1, 1, 1)},
					{Select: []float64{0.3}, Shape: shp("ball_surface_uniform", 30), Rotation: rot(1, -1, -1)},
				},
			},
			"morph": {
				Description: "filled ball, a shell and a banded cylinder",
				Steps: []Step{
					{Shape: shp("ball_fill", 100), Rotation: rot(0.1, 0.4, 0)},
					{Select: []float64{0.8}, Shape: shp("ball_surface", 60)},
					{Select: []float64{0.5}, Shape: shp("cylinder_normal", 30)},
				},
			},
			"nebula": {
				Description: "loose cloud with a tight core",
				Steps: []Step{
					{Shape: shp("ball_fill", 120), Rotation: rot(0, 0.3, 0.1)},
					{Select: []float64{0.3, 0.5}, Shape: shp("ball_surface", 20), Rotation: rot(2, 0, 2)},
				},
			},
			"cylinders": {
				Description: "random and banded cylinders",
				Steps: []Step{
					{Shape: shp("cylinder_random", 80), Rotation: rot(0, 1, 0)},
					{Select: []float64{0.5}, Shape: shp("cylinder_normal", 40, 60), Rotation: rot(0, -1, 0)},
				},
			},
			"settle": {
				Description: "stop whatever is still seeking",
				Steps: []Step{
					{Where: "seeking", Rotation: rot(0, 0, 0)},
				},
			},
		},
	}
}

// Presets are built-in scripts selectable by name.
var Presets = map[string]func() *Script{
	"default": DefaultScript,
	"rings": func() *Script {
		return &Script{
			Name:    "rings",
			Initial: "rings",
			Keys:    map[string]string{"1": "rings", "2": "flip"},
			Scenes: map[string]Scene{
				"rings": {Steps: []Step{
					{Shape: shp("ring", 100, 10), Rotation: rot(1, 0, 0)},
					{Select: []float64{0.4}, Shape: shp("ring", 70, 6), Rotation: rot(0, 1, 0)},
					{Select: []float64{0.3}, Shape: shp("ring", 40, 4), Rotation: rot(0, 0, 1)},
				}},
				"flip": {Steps: []Step{
					{Where: "group:root", Rotation: rot(-1, 0, 0)},
				}},
			},
		}
	},
}

func GetPreset(name string) *Script {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
