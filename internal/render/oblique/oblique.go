// Package oblique projects cubes onto a pixel screen as pairs of filled
// rectangles: a darker back face offset up and to the right, then the front
// face.
package oblique

import (
	"sort"

	"github.com/jeffnv/blockclock/internal/render/term"
	"github.com/jeffnv/blockclock/internal/scene"
)

// Depth is the screen offset of a cube's back face as a fraction of its
// projected edge.
const Depth = 0.25

// Quad is one filled rectangle.
type Quad struct {
	X, Y, W, H float32
	Color      uint32
}

// Project lays the cubes out on a w by h screen, keeping a margin for the
// back faces, and returns the quads of visible cubes farthest first.
func Project(cubes []scene.CubeState, cam scene.Camera, w, h int) []Quad {
	margin := int(float64(h) * 0.1)
	view := cam.Fit(cubes, w-2*margin, h-2*margin)
	view.Left -= float64(margin) / view.ZoomX
	view.Top += float64(margin) / view.ZoomY

	visible := make([]scene.CubeState, 0, len(cubes))
	for _, c := range cubes {
		if cam.Visible(c) {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Z < visible[j].Z })

	quads := make([]Quad, 0, 2*len(visible))
	for _, c := range visible {
		sx, sy := view.Project(c.X, c.Y)
		qw := float32(c.Extent() * view.ZoomX)
		qh := float32(c.Extent() * view.ZoomY)
		d := qw * Depth
		quads = append(quads,
			Quad{X: float32(sx) + d, Y: float32(sy) - d, W: qw, H: qh, Color: term.Shadow(c.Color)},
			Quad{X: float32(sx), Y: float32(sy), W: qw, H: qh, Color: c.Color},
		)
	}
	return quads
}
