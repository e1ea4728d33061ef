package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/morph/internal/compose"
	"github.com/san-kum/morph/internal/metrics"
	"github.com/san-kum/morph/internal/sim"
	"go.uber.org/zap"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statsWidth      = 44
	historyCapacity = 600
)

type TickMsg time.Time

// Options configures the live view. Step is passed to every Simulator.Step.
type Options struct {
	FPS    int
	Width  int
	Height int
	Zoom   float64
	Theme  string
	Step   sim.Config
}

// Model is the Bubble Tea model of the live view. Scene changes are applied
// from Update, between frames, so they never overlap a tick.
type Model struct {
	sim      *sim.Simulator
	script   *compose.Script
	step     sim.Config
	interval time.Duration

	canvas *Canvas
	camera *Camera
	pool   *sim.PositionPool
	conv   *metrics.Convergence
	chase  *metrics.Chase

	history  []float64
	theme    Theme
	styles   styles
	scene    string
	running  bool
	showAxes bool
	showHelp bool
	menu     sceneMenu
	visible  int
	err      error
	lastTick time.Time
	fps      float64
}

// NewModel wraps a simulator whose arena has already been composed. The
// script supplies the key bindings; scene is the name of the scene in effect.
func NewModel(s *sim.Simulator, script *compose.Script, scene string, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Step.Workers < 1 {
		opts.Step.Workers = 1
	}

	conv, chase := metrics.NewConvergence(), metrics.NewChase()
	s.AddMetric(conv)
	s.AddMetric(chase)

	cam := NewCamera()
	if opts.Zoom > 0 {
		cam.Zoom = opts.Zoom
	}
	theme := GetTheme(opts.Theme)

	return Model{
		sim:      s,
		script:   script,
		step:     opts.Step,
		interval: time.Second / time.Duration(opts.FPS),
		canvas:   NewCanvas(opts.Width, opts.Height),
		camera:   cam,
		pool:     sim.NewPositionPool(s.Arena().Len()),
		conv:     conv,
		chase:    chase,
		history:  make([]float64, 0, historyCapacity),
		theme:    theme,
		styles:   newStyles(theme),
		scene:    scene,
		running:  true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if m.menu.open {
			return m.updateMenu(msg.String())
		}
		return m.handleKey(msg.String())
	case TickMsg:
		m.measure(time.Time(msg))
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// handleKey gives script bindings precedence over the built-in controls,
// except for quitting.
func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key != "q" && key != "ctrl+c" {
		if name, ok := m.script.SceneForKey(key); ok {
			m.applyScene(name)
			return m, nil
		}
	}
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		if m.script.Initial != "" {
			m.applyScene(m.script.Initial)
		}
	case "s":
		m.menu.show(m.script.SceneNames(), m.scene)
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
	case "a":
		m.showAxes = !m.showAxes
	case "x":
		m.camera.RotateX(cameraStep)
	case "X":
		m.camera.RotateX(-cameraStep)
	case "y":
		m.camera.RotateY(cameraStep)
	case "Y":
		m.camera.RotateY(-cameraStep)
	case "z":
		m.camera.RotateZ(cameraStep)
	case "Z":
		m.camera.RotateZ(-cameraStep)
	case "c":
		m.camera.Reset()
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

func (m *Model) applyScene(name string) {
	if err := m.script.Apply(m.sim.Root(), name); err != nil {
		zap.S().Warnw("scene failed", "scene", name, "error", err)
		m.err = err
		return
	}
	zap.S().Infow("scene applied", "scene", name, "frame", m.sim.Frame())
	m.scene, m.err = name, nil
}

// advance steps one frame and records the convergence history.
func (m *Model) advance() {
	m.sim.Step(m.step)
	m.history = append(m.history, m.conv.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) measure(now time.Time) {
	if !m.lastTick.IsZero() {
		if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
			if m.fps == 0 {
				m.fps = 1 / dt
			} else {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
	}
	m.lastTick = now
}

func (m *Model) resize(w, h int) {
	cw, ch := w-statsWidth-4, h-1
	if cw < 10 {
		cw = 10
	}
	if ch < 5 {
		ch = 5
	}
	m.canvas.Resize(cw, ch)
}

// draw plots the current particle positions onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	pts := m.pool.Snapshot(m.sim)
	m.visible = RenderPoints(m.canvas, pts, m.camera)
	m.pool.Put(pts)
	if m.showAxes {
		RenderAxes(m.canvas, m.camera, 50)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("MORPH") + "\n")
	status := st.good.Render(AnimatedSpinner(m.sim.Frame()) + " RUNNING")
	if !m.running {
		status = st.warn.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	idle, seeking := m.sim.Arena().Counts()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Scene", m.scene)
	row("Frame", fmt.Sprintf("%d", m.sim.Frame()))
	row("Particles", fmt.Sprintf("%d (%d on screen)", m.sim.Arena().Len(), m.visible))
	row("Idle", fmt.Sprintf("%d", idle))
	row("Seeking", fmt.Sprintf("%d", seeking))
	row("Chase", fmt.Sprintf("%.2f", m.chase.Value()))
	row("FPS", fmt.Sprintf("%.1f", m.fps))
	row("Theme", m.theme.Name)
	s.WriteString(st.label.Render("Converged") + st.ProgressBar(m.conv.Value(), 20) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4), asciigraph.Width(30),
			asciigraph.LowerBound(0), asciigraph.UpperBound(1),
			asciigraph.Caption("converged"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(st.warn.Render(m.err.Error()) + "\n")
	}
	if m.menu.open {
		s.WriteString("\n" + m.menuView())
	}
	s.WriteString(st.help.Render("SP:Pause R:Replay S:Scenes Q:Quit\nT:Theme A:Axes xyz:Rotate +-:Zoom ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return m.helpView() + "\n\n" + mainView
	}
	return mainView
}

func (m Model) helpView() string {
	var keys []string
	for k, name := range m.script.Keys {
		keys = append(keys, fmt.Sprintf("║  %-8s - Scene %-18s ║", k, name))
	}
	sort.Strings(keys)
	return strings.Join(append([]string{
		"╔══════════════════════════════════════╗",
		"║          KEYBOARD SHORTCUTS          ║",
		"╠══════════════════════════════════════╣",
		"║  Space    - Pause/Resume             ║",
		"║  R        - Replay initial scene     ║",
		"║  S        - Scene menu               ║",
		"║  x/y/z    - Rotate camera            ║",
		"║  X/Y/Z    - Rotate camera back       ║",
		"║  C        - Reset camera             ║",
		"║  +/-      - Zoom                     ║",
		"║  A        - Toggle axes              ║",
		"║  T        - Cycle themes             ║",
		"║  Q        - Quit                     ║",
	}, append(keys, "╚══════════════════════════════════════╝")...), "\n")
}
