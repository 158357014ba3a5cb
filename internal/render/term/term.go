// Package term rasterises a scene graph into lipgloss-styled terminal rows.
package term

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeffnv/blockclock/internal/scene"
)

const (
	faceChar = "█"
	edgeChar = "▌"
)

type cell struct {
	set  bool
	rgb  uint32
	char string
}

// Renderer draws cubes with a fixed camera. It caches lipgloss styles per
// color between frames.
type Renderer struct {
	Camera scene.Camera

	styles map[uint32]lipgloss.Style
}

func NewRenderer() *Renderer {
	return &Renderer{
		Camera: scene.DefaultCamera(2),
		styles: make(map[uint32]lipgloss.Style),
	}
}

// Render draws cubes into a w by h block of text. Cubes outside the camera's
// view volume are culled; nearer cubes overdraw farther ones.
func (r *Renderer) Render(cubes []scene.CubeState, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	view := r.Camera.Fit(cubes, w, h)

	visible := make([]scene.CubeState, 0, len(cubes))
	for _, c := range cubes {
		if r.Camera.Visible(c) {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Z < visible[j].Z })

	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
	}

	for _, c := range visible {
		x0, y0, x1, y1 := view.Rect(c)
		height := y1 - y0
		for y := max(y0, 0); y < min(y1, h); y++ {
			shaded := Gradient(c.Color, y-y0, height)
			for x := max(x0, 0); x < min(x1, w); x++ {
				if x == x1-1 && x1-x0 > 1 {
					grid[y][x] = cell{set: true, rgb: Shadow(shaded), char: edgeChar}
					continue
				}
				grid[y][x] = cell{set: true, rgb: shaded, char: faceChar}
			}
		}
	}

	rows := make([]string, h)
	for y, line := range grid {
		rows[y] = r.renderRow(line)
	}
	return strings.Join(rows, "\n")
}

// renderRow styles runs of same-colored cells together to keep escape
// sequences short.
func (r *Renderer) renderRow(line []cell) string {
	var sb strings.Builder
	for i := 0; i < len(line); {
		j := i + 1
		for j < len(line) && line[j].set == line[i].set && line[j].rgb == line[i].rgb {
			j++
		}

		if !line[i].set {
			sb.WriteString(strings.Repeat(" ", j-i))
		} else {
			var run strings.Builder
			for k := i; k < j; k++ {
				run.WriteString(line[k].char)
			}
			sb.WriteString(r.style(line[i].rgb).Render(run.String()))
		}
		i = j
	}
	return sb.String()
}

func (r *Renderer) style(rgb uint32) lipgloss.Style {
	if s, ok := r.styles[rgb]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(Color(rgb))
	r.styles[rgb] = s
	return s
}
