// Package window hosts the clock in a desktop window.
package window

import (
	"errors"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jonboulle/clockwork"

	"github.com/jeffnv/blockclock/internal/blockclock"
	"github.com/jeffnv/blockclock/internal/render/oblique"
	"github.com/jeffnv/blockclock/internal/scene"
)

// ErrClosed is returned from Update when the user asks to quit.
var ErrClosed = errors.New("window closed")

var background = color.RGBA{0x08, 0x08, 0x10, 0xff}

// Game is an ebiten.Game that advances the clock from a clock source on
// every update and draws the scene graph.
type Game struct {
	Clock  *blockclock.Clock
	Graph  *scene.Graph
	Source clockwork.Clock
	Loc    *time.Location

	Width, Height int

	camera scene.Camera
}

var _ ebiten.Game = (*Game)(nil)

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ErrClosed
	}
	g.Tick()
	return nil
}

// Tick samples the clock source once.
func (g *Game) Tick() bool {
	now := g.Source.Now()
	if g.Loc != nil {
		now = now.In(g.Loc)
	}
	return blockclock.Sync(g.Clock, now)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	if g.camera.Aspect == 0 {
		g.camera = scene.DefaultCamera(1)
	}
	cubes, _ := g.Graph.Snapshot()
	for _, q := range oblique.Project(cubes, g.camera, g.Width, g.Height) {
		vector.DrawFilledRect(screen, q.X, q.Y, q.W, q.H, rgba(q.Color), false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.Width, g.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(10)
	err := ebiten.RunGame(g)
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

func rgba(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}
