// Package blockclock drives a grid of cube drawables that spell out the
// current time. A Clock owns one drawable per cell of the encoded pattern and
// never allocates or frees drawables after construction; each time change
// only moves or recolors the existing ones.
package blockclock

import (
	"io"
	"log"

	"github.com/jeffnv/blockclock/internal/pattern"
)

// ColorSpace is the number of distinct 24-bit colors.
const ColorSpace = 1 << 24

// Drawable is the narrow capability the clock needs from a rendered cube.
type Drawable interface {
	SetPosition(x, y, z float64)
	SetScale(s float64)
	SetColor(rgb uint32)
}

// Scene creates drawables and tracks which ones are registered for drawing.
type Scene interface {
	NewBlock(size float64, rgb uint32) Drawable
	Add(d Drawable)
	Remove(d Drawable)
}

// Options configures a Clock. Zero fields take the defaults below.
type Options struct {
	Strategy     Strategy
	BlockSize    float64
	Padding      float64
	Scale        float64
	HiddenOffset float64

	// Color and OffColor of zero keep the defaults; use SetColor(0) for black.
	Color    int
	OffColor int

	// InitialTime is encoded to size the grid, "00:00:00" when empty.
	// StartEmpty builds from the empty string instead, which yields no blocks.
	InitialTime string
	StartEmpty  bool

	// Strict logs a warning whenever SetTime has to wrap an input.
	Strict bool
	Logger *log.Logger

	// OnChange runs after a new time string has been applied.
	OnChange func(time string)
}

const (
	DefaultBlockSize    = 100
	DefaultHiddenOffset = 1000000
	DefaultColor        = 0xffffff
	DefaultOffColor     = 0x202020
)

// Clock is the block grid. It is not safe for concurrent use; one host loop
// owns it.
type Clock struct {
	scene    Scene
	strategy Strategy
	blocks   []Drawable

	grid    pattern.Grid
	time    string
	applied string

	x, y, z      float64
	blockSize    float64
	padding      float64
	scale        float64
	hiddenOffset float64

	color    uint32
	offColor uint32

	strict   bool
	log      *log.Logger
	onChange func(string)
}

// New encodes the initial time, allocates one drawable per grid cell in
// row-major order, registers them with scene and places them.
func New(scene Scene, opts Options) *Clock {
	c := &Clock{
		scene:        scene,
		strategy:     opts.Strategy,
		time:         pattern.Zero,
		blockSize:    DefaultBlockSize,
		padding:      opts.Padding,
		scale:        1,
		hiddenOffset: DefaultHiddenOffset,
		color:        DefaultColor,
		offColor:     DefaultOffColor,
		strict:       opts.Strict,
		log:          opts.Logger,
		onChange:     opts.OnChange,
	}
	if opts.InitialTime != "" || opts.StartEmpty {
		c.time = opts.InitialTime
	}
	if opts.BlockSize > 0 {
		c.blockSize = opts.BlockSize
	}
	if opts.Scale > 0 {
		c.scale = opts.Scale
	}
	if opts.HiddenOffset > 0 {
		c.hiddenOffset = opts.HiddenOffset
	}
	if opts.Color != 0 {
		c.color = reduceColor(opts.Color)
	}
	if opts.OffColor != 0 {
		c.offColor = reduceColor(opts.OffColor)
	}
	if c.log == nil {
		c.log = log.New(io.Discard, "", 0)
	}

	c.createBlocks()
	return c
}

func (c *Clock) createBlocks() {
	c.grid = pattern.Encode(c.time)
	c.applied = c.time

	c.blocks = make([]Drawable, 0, c.grid.Cells())
	for r := 0; r < pattern.Rows; r++ {
		for col := 0; col < c.grid.Width(); col++ {
			c.blocks = append(c.blocks, c.scene.NewBlock(c.blockSize, c.color))
		}
	}
	for _, b := range c.blocks {
		c.scene.Add(b)
		b.SetScale(c.scale)
	}

	c.updateColors()
	c.updatePositions()
}

// SetTime applies hour:minute:second when the formatted time differs from
// the last one applied. It reports whether the blocks changed.
func (c *Clock) SetTime(hour, minute, second int) bool {
	if c.strict {
		if err := pattern.CheckTime(hour, minute, second); err != nil {
			c.log.Printf("blockclock: wrapping time input: %v", err)
		}
	}

	c.time = pattern.FormatTime(hour, minute, second)
	if c.time == c.applied {
		return false
	}

	next := pattern.Encode(c.time)
	if next.Width() != c.grid.Width() {
		// Block count is fixed at construction; a grid of another shape
		// cannot be mapped onto it.
		c.log.Printf("blockclock: %q needs %d columns, grid has %d", c.time, next.Width(), c.grid.Width())
		c.time = c.applied
		return false
	}

	c.applied = c.time
	c.grid = next
	c.apply()

	if c.onChange != nil {
		c.onChange(c.time)
	}
	return true
}

func (c *Clock) apply() {
	switch c.strategy {
	case HideByColor:
		c.updateColors()
	default:
		c.updatePositions()
	}
}

// SetPosition moves the grid origin (top-left block) to x, y, z.
func (c *Clock) SetPosition(x, y, z float64) {
	c.x, c.y, c.z = x, y, z
	c.updatePositions()
}

// SetScale rescales every block and recomputes their placement.
func (c *Clock) SetScale(s float64) {
	if s <= 0 {
		return
	}
	c.scale = s
	for _, b := range c.blocks {
		b.SetScale(s)
	}
	c.updatePositions()
}

// SetPadding sets the gap between neighbouring blocks.
func (c *Clock) SetPadding(p float64) {
	c.padding = p
	c.updatePositions()
}

// SetColor sets the lit color, reduced modulo the 24-bit color space.
func (c *Clock) SetColor(rgb int) {
	c.color = reduceColor(rgb)
	c.updateColors()
}

// SetOffColor sets the color of unlit blocks when hiding by color.
func (c *Clock) SetOffColor(rgb int) {
	c.offColor = reduceColor(rgb)
	c.updateColors()
}

// Close deregisters every block from the scene.
func (c *Clock) Close() {
	for _, b := range c.blocks {
		c.scene.Remove(b)
	}
}

// Time returns the last applied time string.
func (c *Clock) Time() string { return c.applied }

func (c *Clock) Grid() pattern.Grid { return c.grid }

func (c *Clock) Strategy() Strategy { return c.strategy }

// Len returns the number of blocks, fixed at construction.
func (c *Clock) Len() int { return len(c.blocks) }

func (c *Clock) Color() uint32 { return c.color }

func (c *Clock) OffColor() uint32 { return c.offColor }

func (c *Clock) Scale() float64 { return c.scale }

func (c *Clock) Padding() float64 { return c.padding }

func (c *Clock) BlockSize() float64 { return c.blockSize }

func (c *Clock) HiddenOffset() float64 { return c.hiddenOffset }

func (c *Clock) Position() (x, y, z float64) { return c.x, c.y, c.z }

// Block returns the drawable for cell (row, col), or nil outside the grid.
func (c *Clock) Block(row, col int) Drawable {
	w := c.grid.Width()
	if row < 0 || row >= pattern.Rows || col < 0 || col >= w {
		return nil
	}
	return c.blocks[row*w+col]
}

// Step is the distance between neighbouring block centres.
func (c *Clock) Step() float64 {
	return c.blockSize*c.scale + c.padding
}

func (c *Clock) updatePositions() {
	w := c.grid.Width()
	step := c.Step()
	for r := 0; r < pattern.Rows; r++ {
		for col := 0; col < w; col++ {
			z := c.z
			if c.strategy == HideByPosition && !c.grid[r][col] {
				z -= c.hiddenOffset
			}
			c.blocks[r*w+col].SetPosition(c.x+float64(col)*step, c.y-float64(r)*step, z)
		}
	}
}

func (c *Clock) updateColors() {
	if c.strategy != HideByColor {
		for _, b := range c.blocks {
			b.SetColor(c.color)
		}
		return
	}

	w := c.grid.Width()
	for r := 0; r < pattern.Rows; r++ {
		for col := 0; col < w; col++ {
			rgb := c.offColor
			if c.grid[r][col] {
				rgb = c.color
			}
			c.blocks[r*w+col].SetColor(rgb)
		}
	}
}

func reduceColor(rgb int) uint32 {
	rgb %= ColorSpace
	if rgb < 0 {
		rgb += ColorSpace
	}
	return uint32(rgb)
}
