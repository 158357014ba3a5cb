// Package scene is the in-memory scene graph the clock's cubes live in.
// Hosts read ordered snapshots from it to draw a frame.
package scene

import (
	"sort"
	"sync"

	"github.com/jeffnv/blockclock/internal/blockclock"
)

// CubeState is a value copy of one cube.
type CubeState struct {
	ID      int
	X, Y, Z float64
	Size    float64
	Scale   float64
	Color   uint32
}

// Extent returns the rendered edge length.
func (s CubeState) Extent() float64 {
	return s.Size * s.Scale
}

// Cube is a drawable owned by a Graph.
type Cube struct {
	g     *Graph
	state CubeState
}

func (c *Cube) SetPosition(x, y, z float64) {
	c.g.mu.Lock()
	c.state.X, c.state.Y, c.state.Z = x, y, z
	c.g.touchLocked(c)
	c.g.mu.Unlock()
}

func (c *Cube) SetScale(s float64) {
	c.g.mu.Lock()
	c.state.Scale = s
	c.g.touchLocked(c)
	c.g.mu.Unlock()
}

func (c *Cube) SetColor(rgb uint32) {
	c.g.mu.Lock()
	c.state.Color = rgb
	c.g.touchLocked(c)
	c.g.mu.Unlock()
}

// State returns a copy of the cube's current state.
func (c *Cube) State() CubeState {
	c.g.mu.RLock()
	defer c.g.mu.RUnlock()
	return c.state
}

// Graph implements blockclock.Scene. One goroutine mutates it; any number
// may take snapshots.
type Graph struct {
	mu      sync.RWMutex
	nextID  int
	live    map[int]*Cube
	version uint64
}

var _ blockclock.Scene = (*Graph)(nil)

func NewGraph() *Graph {
	return &Graph{live: make(map[int]*Cube)}
}

// NewBlock creates an unregistered cube.
func (g *Graph) NewBlock(size float64, rgb uint32) blockclock.Drawable {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := &Cube{
		g:     g,
		state: CubeState{ID: g.nextID, Size: size, Scale: 1, Color: rgb},
	}
	g.nextID++
	return c
}

// Add registers d. Drawables from another graph are ignored.
func (g *Graph) Add(d blockclock.Drawable) {
	c, ok := d.(*Cube)
	if !ok || c.g != g {
		return
	}
	g.mu.Lock()
	g.live[c.state.ID] = c
	g.version++
	g.mu.Unlock()
}

func (g *Graph) Remove(d blockclock.Drawable) {
	c, ok := d.(*Cube)
	if !ok || c.g != g {
		return
	}
	g.mu.Lock()
	if _, ok := g.live[c.state.ID]; ok {
		delete(g.live, c.state.ID)
		g.version++
	}
	g.mu.Unlock()
}

// Len returns the number of registered cubes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.live)
}

// Version increases whenever a registered cube or the registry changes.
func (g *Graph) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.version
}

// Snapshot returns the registered cubes ordered by id along with the version
// they were read at.
func (g *Graph) Snapshot() ([]CubeState, uint64) {
	g.mu.RLock()
	out := make([]CubeState, 0, len(g.live))
	for _, c := range g.live {
		out = append(out, c.state)
	}
	v := g.version
	g.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, v
}

func (g *Graph) touchLocked(c *Cube) {
	if _, ok := g.live[c.state.ID]; ok {
		g.version++
	}
}
