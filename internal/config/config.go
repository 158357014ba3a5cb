package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeffnv/blockclock/internal/scene"
)

// DefaultPath is read when --config is not given. A missing default file is
// not an error.
const DefaultPath = "blockclock.yml"

// Config represents the top-level blockclock.yml configuration
type Config struct {
	Version  string         `yaml:"version"`
	Clock    ClockConfig    `yaml:"clock"`
	Terminal TerminalConfig `yaml:"terminal"`
	Window   WindowConfig   `yaml:"window"`
	Stream   StreamConfig   `yaml:"stream"`
	Chime    ChimeConfig    `yaml:"chime"`
	LogFile  string         `yaml:"log_file,omitempty"`
}

// ClockConfig holds the block grid parameters
type ClockConfig struct {
	Strategy     string   `yaml:"strategy"`                // "position" or "color"
	Color        Color    `yaml:"color"`                   // "#rrggbb" or integer, reduced mod 2^24
	OffColor     Color    `yaml:"off_color"`               // unlit color for strategy "color"
	BlockSize    float64  `yaml:"block_size"`              // edge length of one cube
	Padding      *float64 `yaml:"padding,omitempty"`       // gap between cubes
	Scale        float64  `yaml:"scale"`                   // cube scale factor
	HiddenOffset float64  `yaml:"hidden_offset,omitempty"` // z distance unlit cubes are pushed back
	Strict       bool     `yaml:"strict,omitempty"`        // log wrapped time inputs
	UTC          bool     `yaml:"utc,omitempty"`
}

// TerminalConfig controls the terminal host
type TerminalConfig struct {
	Footer string `yaml:"footer"` // "none", "bar" or "binary"
}

// WindowConfig controls the desktop window host
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// StreamConfig controls the websocket host
type StreamConfig struct {
	Listen      string `yaml:"listen"`
	AllowRemote bool   `yaml:"allow_remote,omitempty"`
	RecordDir   string `yaml:"record_dir,omitempty"`
}

// ChimeConfig controls the hourly chime
type ChimeConfig struct {
	Enabled bool     `yaml:"enabled"`
	Volume  *float64 `yaml:"volume,omitempty"`
}

// Color is a 24-bit color that unmarshals from "#rrggbb", "0xrrggbb" or a
// plain integer. Out-of-range integers are kept and reduced by the clock.
type Color struct {
	Value int
	Set   bool
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseColor(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = Color{Value: v, Set: true}
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	if !c.Set {
		return nil, nil
	}
	return fmt.Sprintf("#%06x", c.Value&0xffffff), nil
}

// ParseColor accepts "#rrggbb", "0xrrggbb" or a decimal integer.
func ParseColor(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return 0, fmt.Errorf("invalid color %q (use #rrggbb)", s)
		}
		v, err := strconv.ParseInt(s[1:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q (use #rrggbb)", s)
		}
		return int(v), nil
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseInt(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		return int(v), nil
	default:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q (use #rrggbb or an integer)", s)
		}
		return int(v), nil
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{Version: "1.0"}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

// Validate checks enums and sizes, then fills in defaults
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	switch c.Clock.Strategy {
	case "":
		c.Clock.Strategy = "position"
	case "position", "color":
	default:
		return fmt.Errorf("clock.strategy: invalid value %q (must be 'position' or 'color')", c.Clock.Strategy)
	}

	if !c.Clock.Color.Set {
		c.Clock.Color = Color{Value: 0x4682b4, Set: true}
	}
	if !c.Clock.OffColor.Set {
		c.Clock.OffColor = Color{Value: 0x202020, Set: true}
	}

	if c.Clock.BlockSize < 0 {
		return fmt.Errorf("clock.block_size must be > 0, got %g", c.Clock.BlockSize)
	}
	if c.Clock.BlockSize == 0 {
		c.Clock.BlockSize = 100
	}
	if c.Clock.Padding == nil {
		p := c.Clock.BlockSize / 10
		c.Clock.Padding = &p
	} else if *c.Clock.Padding < 0 {
		return fmt.Errorf("clock.padding must be >= 0, got %g", *c.Clock.Padding)
	}
	if c.Clock.Scale < 0 {
		return fmt.Errorf("clock.scale must be > 0, got %g", c.Clock.Scale)
	}
	if c.Clock.Scale == 0 {
		c.Clock.Scale = 1
	}
	if c.Clock.HiddenOffset < 0 {
		return fmt.Errorf("clock.hidden_offset must be > 0, got %g", c.Clock.HiddenOffset)
	}
	if c.Clock.HiddenOffset == 0 {
		c.Clock.HiddenOffset = 1000000
	}
	// Hidden cubes must land behind the hosts' view volume.
	if depth := scene.DefaultCamera(1).Depth; c.Clock.HiddenOffset <= depth {
		return fmt.Errorf("clock.hidden_offset must exceed the camera depth %g, got %g", depth, c.Clock.HiddenOffset)
	}

	switch c.Terminal.Footer {
	case "":
		c.Terminal.Footer = "bar"
	case "none", "bar", "binary":
	default:
		return fmt.Errorf("terminal.footer: invalid value %q (must be 'none', 'bar' or 'binary')", c.Terminal.Footer)
	}

	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Width == 0 {
		c.Window.Width = 960
	}
	if c.Window.Height == 0 {
		c.Window.Height = 240
	}

	if c.Stream.Listen == "" {
		c.Stream.Listen = "127.0.0.1:8787"
	}

	if c.Chime.Volume == nil {
		v := 0.5
		c.Chime.Volume = &v
	} else if *c.Chime.Volume < 0 || *c.Chime.Volume > 1 {
		return fmt.Errorf("chime.volume must be within [0, 1], got %g", *c.Chime.Volume)
	}

	return nil
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &c, nil
}

// LoadOrDefault loads path when it is set, otherwise DefaultPath if that
// file exists, otherwise Default().
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(DefaultPath)
}
