package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name      string
	Particles lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Good      lipgloss.Color
	Warn      lipgloss.Color
}

var (
	ThemeMinimal = Theme{
		Name:      "minimal",
		Particles: lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Border:    lipgloss.Color("#444444"),
		Good:      lipgloss.Color("#00ff00"),
		Warn:      lipgloss.Color("#ffaa00"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Particles: lipgloss.Color("#ff00ff"),
		Accent:    lipgloss.Color("#00ffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Border:    lipgloss.Color("#444466"),
		Good:      lipgloss.Color("#00ff00"),
		Warn:      lipgloss.Color("#ff8800"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Particles: lipgloss.Color("#00ff00"), // green phosphor
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Border:    lipgloss.Color("#003300"),
		Good:      lipgloss.Color("#88ff88"),
		Warn:      lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Particles: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Border:    lipgloss.Color("#0077be"),
		Good:      lipgloss.Color("#00ff88"),
		Warn:      lipgloss.Color("#ffcc00"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Particles: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Border:    lipgloss.Color("#ff6b6b"),
		Good:      lipgloss.Color("#5fd068"),
		Warn:      lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{
		ThemeMinimal,
		ThemeCyberpunk,
		ThemeRetro,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to minimal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
