package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeffnv/blockclock/internal/render/term"
)

// minuteFraction is the progress through the current minute.
func (m model) minuteFraction() float64 {
	t := m.now()
	return (float64(t.Second()) + float64(t.Nanosecond())/1e9) / 60
}

// neonPulse returns the current pulse position and width for a neon sweep effect.
func neonPulse(now time.Time, width float64) (pos, pulseWidth float64) {
	const period = 2.0 // seconds per sweep
	t := math.Mod(float64(now.UnixMilli())/1000.0, period) / period
	pos = t * width
	pulseWidth = math.Max(width*0.05, 1.0)
	return
}

func pulseBoost(x, pulsePos, pulseWidth float64) float64 {
	dist := math.Abs(x - pulsePos)
	return math.Exp(-(dist * dist) / (2 * pulseWidth * pulseWidth))
}

// --- Bar ---

func (m model) renderBar() string {
	maxWidth := 60
	if m.width-4 < maxWidth {
		maxWidth = m.width - 4
	}
	if maxWidth < 10 {
		maxWidth = 10
	}

	frac := m.minuteFraction()
	filled := int(frac * float64(maxWidth))
	if filled > maxWidth {
		filled = maxWidth
	}

	baseColor := m.clock.Color()
	pulsePos, pulseW := neonPulse(m.source.Now(), float64(maxWidth))

	var bar strings.Builder
	for i := 0; i < maxWidth; i++ {
		boost := pulseBoost(float64(i), pulsePos, pulseW)
		base, ch := colorDim, "░"
		if i < filled {
			base, ch = baseColor, "█"
		}
		color := term.Modify(base, func(c term.HSL) term.HSL {
			c.L += boost * 0.35
			return c
		})
		bar.WriteString(lipgloss.NewStyle().Foreground(term.Color(color)).Render(ch))
	}

	sec := fmt.Sprintf(" %02ds", m.now().Second())
	secStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	return bar.String() + secStyle.Render(sec)
}

// --- Binary (BCD) ---

const binaryFadeDuration = 800 * time.Millisecond

var bitValues = []int{8, 4, 2, 1}

func (m *model) updateBinaryFade() {
	digits := m.clockDigits()
	totalBits := len(digits) * 4

	currentBits := make([]bool, totalBits)
	for di, d := range digits {
		for bi, bv := range bitValues {
			currentBits[di*4+bi] = d&bv != 0
		}
	}

	if len(m.binaryPrevBits) != totalBits {
		m.binaryPrevBits = currentBits
		m.binaryOffAt = make([]time.Time, totalBits)
		return
	}

	now := m.source.Now()
	for i := range currentBits {
		if m.binaryPrevBits[i] && !currentBits[i] {
			m.binaryOffAt[i] = now
		}
	}
	m.binaryPrevBits = currentBits
}

func (m model) renderBinary() string {
	digits := m.clockDigits()
	if len(digits) != 6 {
		return ""
	}
	labels := []string{"H", "M", "S"}

	baseColor := m.clock.Color()
	activeStyle := lipgloss.NewStyle().Foreground(term.Color(baseColor))
	inactiveStyle := lipgloss.NewStyle().Foreground(term.Color(colorDim))
	labelStyle := inactiveStyle
	now := m.source.Now()

	var rows [4]strings.Builder
	var labelRow strings.Builder

	for col, d := range digits {
		if col > 0 {
			gap := " "
			if col%2 == 0 {
				gap = "  "
			}
			for r := range rows {
				rows[r].WriteString(gap)
			}
			labelRow.WriteString(gap)
		}
		for r := range rows {
			if d&bitValues[r] != 0 {
				rows[r].WriteString(activeStyle.Render("██"))
				continue
			}
			bitIdx := col*4 + r
			if bitIdx < len(m.binaryOffAt) && !m.binaryOffAt[bitIdx].IsZero() {
				elapsed := now.Sub(m.binaryOffAt[bitIdx])
				if elapsed < binaryFadeDuration {
					fade := 1.0 - float64(elapsed)/float64(binaryFadeDuration)
					fadeColor := term.Modify(baseColor, func(c term.HSL) term.HSL {
						c.L = fade * 0.35
						c.S = c.S * fade
						return c
					})
					rows[r].WriteString(lipgloss.NewStyle().Foreground(term.Color(fadeColor)).Render("░░"))
					continue
				}
			}
			rows[r].WriteString(inactiveStyle.Render("░░"))
		}
		labelRow.WriteString(labelStyle.Render(labels[col/2] + " "))
	}

	var result []string
	for _, r := range rows {
		result = append(result, r.String())
	}
	result = append(result, labelRow.String())

	return strings.Join(result, "\n")
}
