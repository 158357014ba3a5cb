package main

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffnv/blockclock/internal/blockclock"
	"github.com/jeffnv/blockclock/internal/config"
)

func testModel(t *testing.T, mutate func(*config.Config)) (model, *clockwork.FakeClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Clock.UTC = true
	if mutate != nil {
		mutate(cfg)
	}
	fc := clockwork.NewFakeClockAt(time.Date(2024, 3, 9, 10, 20, 30, 0, time.UTC))
	return newModel(cfg, fc, log.New(io.Discard, "", 0), nil, ""), fc
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_TickAppliesTime(t *testing.T) {
	m, fc := testModel(t, nil)
	assert.Equal(t, "10:20:30", m.clock.Time())

	fc.Advance(2 * time.Second)
	m = update(t, m, tickMsg(fc.Now()))
	assert.Equal(t, "10:20:32", m.clock.Time())
}

func TestModel_Pause(t *testing.T) {
	m, fc := testModel(t, nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.paused)

	fc.Advance(5 * time.Second)
	m = update(t, m, tickMsg(fc.Now()))
	assert.Equal(t, "10:20:30", m.clock.Time(), "paused clock holds its time")

	m = update(t, m, togglePauseMsg{})
	assert.False(t, m.paused)
	assert.Equal(t, "10:20:35", m.clock.Time(), "resuming catches up at once")
}

func TestModel_SwapStrategy(t *testing.T) {
	m, _ := testModel(t, nil)
	m = update(t, m, runes("c"))
	color := m.clock.Color()

	m = update(t, m, runes("s"))
	assert.Equal(t, blockclock.HideByColor, m.clock.Strategy())
	assert.Equal(t, m.clock.Len(), m.graph.Len(), "old blocks are removed from the scene")
	assert.Equal(t, color, m.clock.Color())
	assert.Equal(t, "10:20:30", m.clock.Time())

	m = update(t, m, runes("s"))
	assert.Equal(t, blockclock.HideByPosition, m.clock.Strategy())
	assert.Equal(t, m.clock.Len(), m.graph.Len())
}

func TestModel_ColorCycle(t *testing.T) {
	m, _ := testModel(t, nil)
	assert.Equal(t, uint32(0x4682b4), m.clock.Color())

	m = update(t, m, runes("c"))
	assert.Equal(t, uint32(palette[1]), m.clock.Color())

	for range palette[1:] {
		m = update(t, m, runes("c"))
	}
	assert.Equal(t, uint32(palette[1]), m.clock.Color(), "palette wraps around")
}

func TestModel_ScaleAndPadding(t *testing.T) {
	m, _ := testModel(t, nil)

	m = update(t, m, runes("+"))
	assert.InDelta(t, 1.1, m.clock.Scale(), 1e-9)
	for i := 0; i < 20; i++ {
		m = update(t, m, runes("-"))
	}
	assert.GreaterOrEqual(t, m.clock.Scale(), minScale)

	assert.Equal(t, 10.0, m.clock.Padding())
	m = update(t, m, runes("]"))
	assert.Equal(t, 15.0, m.clock.Padding())
	for i := 0; i < 5; i++ {
		m = update(t, m, runes("["))
	}
	assert.Equal(t, 0.0, m.clock.Padding())
}

func TestModel_Move(t *testing.T) {
	m, _ := testModel(t, nil)
	step := m.clock.Step()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	x, y, z := m.clock.Position()
	assert.Equal(t, step, x)
	assert.Equal(t, step, y)
	assert.Equal(t, 0.0, z)

	m = update(t, m, runes("0"))
	x, y, _ = m.clock.Position()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestModel_Quit(t *testing.T) {
	m, _ := testModel(t, nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	m = next.(model)
	assert.True(t, m.done)
	assert.Equal(t, 0, m.graph.Len())
	assert.Empty(t, m.View())
}

func TestModel_View(t *testing.T) {
	m, _ := testModel(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	v := m.View()
	assert.Contains(t, v, "10:20:30")
	assert.Contains(t, v, "hide by position")
	assert.Contains(t, v, "█")
	assert.Contains(t, v, "30s", "bar footer shows the second")

	m = update(t, m, runes(" "))
	assert.Contains(t, m.View(), "PAUSED")
}

func TestModel_BinaryFooter(t *testing.T) {
	m, fc := testModel(t, func(c *config.Config) { c.Terminal.Footer = "binary" })

	lines := strings.Split(m.renderBinary(), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[4], "H")
	assert.Contains(t, lines[4], "S")

	// 10:20:30 -> 10:20:31 turns bit 1 of the last digit on; 10:20:31 ->
	// 10:20:32 turns it off again and starts its fade.
	fc.Advance(time.Second)
	m = update(t, m, tickMsg(fc.Now()))
	fc.Advance(time.Second)
	m = update(t, m, tickMsg(fc.Now()))
	lastDigitBit1 := 5*4 + 3
	assert.Equal(t, fc.Now(), m.binaryOffAt[lastDigitBit1])
}

func TestStartMirror_StopsOnClose(t *testing.T) {
	m, _ := testModel(t, nil)
	m = newModel(m.cfg, m.source, m.log, nil, "127.0.0.1:0")
	require.NotNil(t, m.mirror)

	done := make(chan tea.Msg, 1)
	go func() { done <- startMirror(m.mirror, "127.0.0.1:0", m.mirrorStop)() }()

	m.shutdown()
	m.shutdown()

	select {
	case msg := <-done:
		assert.Equal(t, mirrorStoppedMsg{}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("mirror did not stop")
	}
}
