package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// sceneMenu is the scene picker opened with "s".
type sceneMenu struct {
	open   bool
	names  []string
	cursor int
}

func (m *sceneMenu) show(names []string, current string) {
	m.open, m.names, m.cursor = true, names, 0
	for i, n := range names {
		if n == current {
			m.cursor = i
		}
	}
}

func (m *sceneMenu) move(d int) {
	if len(m.names) == 0 {
		return
	}
	m.cursor = (m.cursor + d + len(m.names)) % len(m.names)
}

func (m Model) updateMenu(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.menu.move(-1)
	case "down", "j":
		m.menu.move(1)
	case "enter":
		if len(m.menu.names) > 0 {
			m.applyScene(m.menu.names[m.menu.cursor])
		}
		m.menu.open = false
	case "esc", "s":
		m.menu.open = false
	}
	return m, nil
}

func (m Model) menuView() string {
	st := m.styles
	var b strings.Builder
	b.WriteString(st.header.Render("SCENES") + "\n")
	for i, name := range m.menu.names {
		desc := m.script.Scenes[name].Description
		line := name
		if desc != "" {
			line += "  " + st.muted.Render(desc)
		}
		if i == m.menu.cursor {
			b.WriteString(st.active.Render("> "+name) + strings.TrimPrefix(line, name) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString(st.muted.Render("↑↓ select  enter apply  esc close") + "\n")
	return b.String()
}
