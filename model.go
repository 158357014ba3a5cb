package main

import (
	"fmt"
	"log"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/jeffnv/blockclock/internal/blockclock"
	"github.com/jeffnv/blockclock/internal/chime"
	"github.com/jeffnv/blockclock/internal/config"
	"github.com/jeffnv/blockclock/internal/render/stream"
	"github.com/jeffnv/blockclock/internal/render/term"
	"github.com/jeffnv/blockclock/internal/scene"
)

type tickMsg time.Time
type togglePauseMsg struct{}
type mirrorStoppedMsg struct{ err error }

const (
	scaleStep = 0.1
	minScale  = 0.1
)

type model struct {
	cfg      *config.Config
	graph    *scene.Graph
	clock    *blockclock.Clock
	renderer *term.Renderer
	source   clockwork.Clock
	loc      *time.Location
	log      *log.Logger
	chime    *chime.Chime
	footer   string

	paused bool
	done   bool

	width  int
	height int

	mirror     *stream.Server
	mirrorAddr string
	mirrorStop chan struct{}
	mirrorErr  error

	binaryPrevBits []bool
	binaryOffAt    []time.Time
}

func newModel(cfg *config.Config, source clockwork.Clock, logger *log.Logger, ch *chime.Chime, mirrorAddr string) model {
	m := model{
		cfg:      cfg,
		graph:    scene.NewGraph(),
		renderer: term.NewRenderer(),
		source:   source,
		loc:      location(cfg),
		log:      logger,
		chime:    ch,
		footer:   cfg.Terminal.Footer,
	}
	if mirrorAddr != "" {
		m.mirror = stream.NewServer(m.graph, stream.Options{AllowRemote: cfg.Stream.AllowRemote, Logger: logger})
		m.mirrorAddr = mirrorAddr
		m.mirrorStop = make(chan struct{})
	}
	m.clock = newClock(cfg, m.graph, configStrategy(cfg), logger, m.onChange())
	m.sync()
	return m
}

// onChange strikes the chime on the hour. It does not capture the model,
// which bubbletea copies on every update.
func (m model) onChange() func(string) {
	ch := m.chime
	return func(t string) {
		if ch != nil {
			ch.OnTime(t)
		}
	}
}

func (m model) now() time.Time {
	return m.source.Now().In(m.loc)
}

func doTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{doTick()}
	if m.mirror != nil {
		cmds = append(cmds, startMirror(m.mirror, m.mirrorAddr, m.mirrorStop))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			m.shutdown()
			return m, tea.Quit
		case " ":
			m.togglePause()
		case "s":
			m.swapStrategy()
		case "c":
			m.clock.SetColor(nextPaletteColor(m.clock.Color()))
		case "+", "=":
			m.clock.SetScale(m.clock.Scale() + scaleStep)
		case "-":
			if s := m.clock.Scale() - scaleStep; s >= minScale {
				m.clock.SetScale(s)
			}
		case "]":
			m.clock.SetPadding(m.clock.Padding() + m.clock.BlockSize()/20)
		case "[":
			m.clock.SetPadding(math.Max(0, m.clock.Padding()-m.clock.BlockSize()/20))
		case "left", "right", "up", "down":
			m.move(msg.String())
		case "0":
			m.clock.SetPosition(0, 0, 0)
		}
		m.publish()
		return m, nil

	case togglePauseMsg:
		m.togglePause()
		m.publish()
		return m, nil

	case tickMsg:
		if m.paused || m.done {
			return m, doTick()
		}
		m.sync()
		return m, doTick()

	case mirrorStoppedMsg:
		if msg.err != nil {
			m.log.Printf("mirror stopped: %v", msg.err)
			m.mirrorErr = msg.err
		}
		return m, nil
	}

	return m, nil
}

// sync applies the current time and pushes the scene to the mirror.
func (m *model) sync() {
	blockclock.Sync(m.clock, m.now())
	if m.footer == "binary" {
		m.updateBinaryFade()
	}
	m.publish()
}

func (m *model) publish() {
	if m.mirror != nil {
		m.mirror.Publish(m.clock.Time())
	}
}

func (m *model) togglePause() {
	m.paused = !m.paused
	if !m.paused {
		blockclock.Sync(m.clock, m.now())
	}
}

// swapStrategy rebuilds the clock with the other strategy and carries the
// current appearance over.
func (m *model) swapStrategy() {
	old := m.clock
	old.Close()

	c := newClock(m.cfg, m.graph, old.Strategy().Other(), m.log, m.onChange())
	c.SetColor(int(old.Color()))
	c.SetOffColor(int(old.OffColor()))
	c.SetScale(old.Scale())
	c.SetPadding(old.Padding())
	c.SetPosition(old.Position())
	m.clock = c
	blockclock.Sync(m.clock, m.now())
}

func (m *model) move(key string) {
	x, y, z := m.clock.Position()
	step := m.clock.Step()
	switch key {
	case "left":
		x -= step
	case "right":
		x += step
	case "up":
		y += step
	case "down":
		y -= step
	}
	m.clock.SetPosition(x, y, z)
}

func (m *model) shutdown() {
	m.clock.Close()
	if m.mirrorStop == nil {
		return
	}
	select {
	case <-m.mirrorStop:
	default:
		close(m.mirrorStop)
	}
}

func (m model) View() string {
	if m.done {
		return ""
	}

	var sections []string

	label := lipgloss.NewStyle().Bold(true).Foreground(colorLabel)
	sections = append(sections, label.Render(fmt.Sprintf("%s  ·  hide by %s", m.clock.Time(), m.clock.Strategy())))

	sections = append(sections, "")
	sections = append(sections, m.renderScene())

	if m.paused {
		style := lipgloss.NewStyle().Bold(true).Foreground(colorPaused)
		sections = append(sections, "")
		sections = append(sections, style.Render("PAUSED"))
	}

	if f := m.renderFooter(); f != "" {
		sections = append(sections, "")
		sections = append(sections, f)
	}

	help := lipgloss.NewStyle().Foreground(colorHelp)
	sections = append(sections, "")
	sections = append(sections, help.Render("q quit · space pause · s strategy · c color · +/- scale · [/] padding · arrows move"))
	if m.mirror != nil {
		sections = append(sections, help.Render(m.mirrorStatus()))
	}

	body := lipgloss.JoinVertical(lipgloss.Center, sections...)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// renderScene leaves room for the header, footer and help lines. A cube is
// two cells wide, so a 5-row clock needs about eleven columns per row.
func (m model) renderScene() string {
	h := m.height - 12
	if h < 5 {
		h = 5
	}
	w := m.width - 4
	if w > h*12 {
		w = h * 12
	}
	cubes, _ := m.graph.Snapshot()
	return m.renderer.Render(cubes, w, h)
}

func (m model) mirrorStatus() string {
	if m.mirrorErr != nil {
		return "mirror stopped: " + m.mirrorErr.Error()
	}
	return fmt.Sprintf("mirroring on http://%s/ · %d viewer(s)", m.mirrorAddr, m.mirror.Viewers())
}

func (m model) renderFooter() string {
	switch m.footer {
	case "bar":
		return m.renderBar()
	case "binary":
		return m.renderBinary()
	default:
		return ""
	}
}

// clockDigits returns the six digits of the displayed time.
func (m model) clockDigits() []int {
	var digits []int
	for _, r := range m.clock.Time() {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	return digits
}
