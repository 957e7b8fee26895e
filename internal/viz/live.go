package viz

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/config"
	"github.com/san-kum/audioswarm/internal/metrics"
	"github.com/san-kum/audioswarm/internal/palette"
	"github.com/san-kum/audioswarm/internal/surface"
	"github.com/san-kum/audioswarm/internal/visualizer"
)

const (
	panelWidth      = 44
	historyCapacity = 120
	minCols         = 10
	minRows         = 5
)

type TickMsg time.Time

// AudioMsg carries one source event into Update.
type AudioMsg audio.Event

// SourceDoneMsg reports that the source channel closed.
type SourceDoneMsg struct{}

type Options struct {
	Config *config.Config
	Events <-chan audio.Event
	Source string
	Theme  string
	Rng    *rand.Rand
	Logger *slog.Logger
}

// Model hosts a visualizer controller inside a Bubble Tea program.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger
	theme  Theme
	st     styles

	queue      *visualizer.Queue
	ctrl       *visualizer.Controller
	screen     *surface.Memory
	canvas     *Canvas
	recorder   *metrics.Recorder
	bandColors []colorful.Color

	events <-chan audio.Event
	source string

	cols, rows   int
	scale        float64
	started      bool
	held         bool
	sourceDone   bool
	showHelp     bool
	err          error
	lastTick     time.Time
	frame        int
	decayHistory []float64
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	theme := GetTheme(opts.Theme)

	colors := palette.Named(cfg.Palette)
	bands := cfg.BandList()
	bandColors := make([]colorful.Color, len(bands))
	for i, f := range bands {
		bandColors[i], _ = colorful.MakeColor(colors(f))
	}

	queue := visualizer.NewQueue()
	ctrl := visualizer.New(cfg.Swarm, cfg.Visual, queue, boids.ColorMapper(colors), opts.Rng, logger)
	recorder := metrics.NewRecorder(historyCapacity, metrics.Standard()...)
	ctrl.OnFrame(recorder.Observe)

	return Model{
		cfg:        cfg,
		logger:     logger,
		theme:      theme,
		st:         newStyles(theme),
		queue:      queue,
		ctrl:       ctrl,
		canvas:     NewCanvas(0, 0),
		recorder:   recorder,
		bandColors: bandColors,
		events:     opts.Events,
		source:     opts.Source,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), waitForEvent(m.events))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// waitForEvent reads one event; Update re-arms it after each message.
func waitForEvent(events <-chan audio.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return SourceDoneMsg{}
		}
		return AudioMsg(ev)
	}
}

// Update handles input, ticks and audio events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctrl.Stop()
			return m, tea.Quit
		case " ":
			m.held = !m.held
			if m.held {
				m.ctrl.Pause()
			}
		case "r":
			m.ctrl.Stop()
			m.recorder.Reset()
			m.decayHistory = m.decayHistory[:0]
			m.start()
		case "f":
			if m.ctrl.Initialized() {
				m.ctrl.FadeOut(0)
			} else {
				m.start()
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.st = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)

	case TickMsg:
		now := time.Time(msg)
		dt := time.Second / time.Duration(m.cfg.FPS)
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.queue.Step(dt)
		m.frame++
		if m.screen != nil && m.screen.Attached() != nil {
			m.canvas.DrawImage(m.screen.Attached().Image())
		} else {
			m.canvas.Clear()
		}
		return m, m.tick()

	case AudioMsg:
		if !m.held {
			m.ctrl.HandleEvent(audio.Event(msg))
			m.decayHistory = append(m.decayHistory, m.ctrl.Decay())
			if len(m.decayHistory) > historyCapacity {
				m.decayHistory = m.decayHistory[1:]
			}
		}
		return m, waitForEvent(m.events)

	case SourceDoneMsg:
		m.sourceDone = true
		m.ctrl.Pause()
		m.logger.Info("audio source finished")
	}
	return m, nil
}

// layout sizes the canvas to the terminal. The first call fixes the
// sub-pixel scale and starts the visualizer; later calls resize it.
func (m *Model) layout(width, height int) {
	m.cols = max(minCols, width-panelWidth-4)
	m.rows = max(minRows, height-1)
	m.canvas.Resize(m.cols, m.rows)

	subW, subH := float64(m.cols*2), float64(m.rows*4)
	if m.scale == 0 {
		m.scale = math.Min(subW/float64(m.cfg.Width), subH/float64(m.cfg.Height))
		m.screen = surface.NewMemory(m.scale)
		m.start()
		return
	}
	m.ctrl.Resize(m.logicalSize())
}

func (m *Model) logicalSize() (int, int) {
	return int(float64(m.cols*2) / m.scale), int(float64(m.rows*4) / m.scale)
}

func (m *Model) start() {
	if m.screen == nil {
		return
	}
	w, h := m.logicalSize()
	err := m.ctrl.FadeIn(visualizer.Options{
		Bands:  m.cfg.BandList(),
		Screen: m.screen,
		Width:  w,
		Height: h,
	})
	if err != nil {
		m.err = err
		m.logger.Error("visualizer start failed", "err", err)
		return
	}
	m.started = true
	m.logger.Debug("visualizer laid out", "cols", m.cols, "rows", m.rows, "scale", m.scale)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.st.paused.Render("ERROR")
	case !m.ctrl.Initialized():
		return m.st.paused.Render("STOPPED")
	case m.held:
		return m.st.paused.Render("HELD")
	case m.sourceDone:
		return m.st.paused.Render("ENDED")
	case m.ctrl.Running():
		return m.st.running.Render("RUNNING")
	}
	return m.st.paused.Render(AnimatedSpinner(m.frame) + " WAITING FOR AUDIO")
}

// View renders the canvas and the status panel.
func (m Model) View() string {
	if !m.started && m.err == nil {
		return "sizing terminal...\n"
	}

	var s strings.Builder
	s.WriteString(m.st.title.Render(GradientText("AUDIOSWARM", m.theme.Title, m.theme.Value)) + "\n")
	s.WriteString(m.status() + "\n\n")
	if m.err != nil {
		s.WriteString(m.st.value.Render(m.err.Error()) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Source", m.source)
	bands := len(m.cfg.BandList())
	row("Boids", fmt.Sprintf("%d x 2", bands))
	row("Decay", fmt.Sprintf("%.3f", m.ctrl.Decay()))
	l, r := m.ctrl.Averages()
	row("Level L/R", fmt.Sprintf("%.1f / %.1f", l, r))
	if buf := m.ctrl.Buffer(); buf != nil {
		row("Fade", ProgressBar(buf.Alpha(), 20))
	}
	for _, mt := range m.recorder.Metrics() {
		row(capitalize(mt.Name()), fmt.Sprintf("%.2f", mt.Last()))
	}

	if sw := m.ctrl.Swarm(); sw != nil {
		s.WriteString("\n")
		s.WriteString(m.st.label.Render("L") + Spectrum(excitations(sw.Left()), 96, m.bandColors) + "\n")
		s.WriteString(m.st.label.Render("R") + Spectrum(excitations(sw.Right()), 96, m.bandColors) + "\n")
	}

	if len(m.decayHistory) > 1 {
		chart := asciigraph.Plot(m.decayHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("decay"))
		s.WriteString("\n" + m.st.graph.Render(chart) + "\n")
	}

	if m.showHelp {
		s.WriteString(m.st.hint.Render("space hold input\nr     restart\nf     fade out/in\nt     theme ("+m.theme.Name+")\n?     close help\nq     quit"))
	} else {
		s.WriteString(m.st.hint.Render("SP:Hold R:Restart F:Fade T:Theme ?:Help Q:Quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), m.st.panel.Render(s.String()))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func excitations(bs []*boids.Boid) []float64 {
	out := make([]float64, len(bs))
	for i, b := range bs {
		out[i] = b.Excitation()
	}
	return out
}

// Run starts the terminal program and blocks until the user quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
