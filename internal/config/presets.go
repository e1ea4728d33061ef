package config

import "sort"

var Presets = map[string]*Config{
	"small": {
		Population: 2000, Seed: 1, Preset: "default",
		Run:  RunConfig{Frames: 300, Workers: 1, LogEvery: DefaultLogEvery},
		View: ViewConfig{FPS: 30, Width: 60, Height: 20, Zoom: 1.0, Theme: "minimal"},
		Log:  LogConfig{Level: "info"},
	},
	"full": {
		Population: DefaultPopulation, Seed: 1, Preset: "default",
		Run:  RunConfig{Frames: 600, Workers: 4, LogEvery: DefaultLogEvery},
		View: ViewConfig{FPS: 60, Width: 100, Height: 32, Zoom: 1.0, Theme: "minimal"},
		Log:  LogConfig{Level: "info"},
	},
	"rings": {
		Population: 10000, Seed: 7, Preset: "rings",
		Run:  RunConfig{Frames: 600, Workers: 2, LogEvery: DefaultLogEvery},
		View: ViewConfig{FPS: 30, Width: 80, Height: 24, Zoom: 1.2, Theme: "ocean"},
		Log:  LogConfig{Level: "info"},
	},
	"fast": {
		Population: 50000, Seed: 1, Preset: "default",
		Run:  RunConfig{Frames: 1000, Workers: 8, FastTrig: true, LogEvery: DefaultLogEvery},
		View: ViewConfig{FPS: 60, Width: 100, Height: 32, Zoom: 1.0, Theme: "cyberpunk"},
		Log:  LogConfig{Level: "warn"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
