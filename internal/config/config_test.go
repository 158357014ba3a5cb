package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeffnv/blockclock/internal/blockclock"
	"github.com/jeffnv/blockclock/internal/pattern"
	"github.com/jeffnv/blockclock/internal/scene"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "blockclock.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoad_ValidConfig(t *testing.T) {
	p := writeConfig(t, `version: "1.0"
clock:
  strategy: color
  color: "#ff8800"
  off_color: 0x101010
  block_size: 50
  padding: 0
  scale: 2
  strict: true
terminal:
  footer: binary
stream:
  listen: ":9000"
  record_dir: frames
chime:
  enabled: true
  volume: 0.25
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "color", cfg.Clock.Strategy)
	assert.Equal(t, 0xff8800, cfg.Clock.Color.Value)
	assert.Equal(t, 0x101010, cfg.Clock.OffColor.Value)
	assert.Equal(t, 50.0, cfg.Clock.BlockSize)
	require.NotNil(t, cfg.Clock.Padding)
	assert.Equal(t, 0.0, *cfg.Clock.Padding)
	assert.Equal(t, 2.0, cfg.Clock.Scale)
	assert.True(t, cfg.Clock.Strict)
	assert.Equal(t, "binary", cfg.Terminal.Footer)
	assert.Equal(t, ":9000", cfg.Stream.Listen)
	assert.Equal(t, "frames", cfg.Stream.RecordDir)
	assert.True(t, cfg.Chime.Enabled)
	assert.Equal(t, 0.25, *cfg.Chime.Volume)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, "position", cfg.Clock.Strategy)
	assert.Equal(t, 0x4682b4, cfg.Clock.Color.Value)
	assert.Equal(t, 100.0, cfg.Clock.BlockSize)
	assert.Equal(t, 10.0, *cfg.Clock.Padding)
	assert.Equal(t, 1.0, cfg.Clock.Scale)
	assert.Equal(t, 1000000.0, cfg.Clock.HiddenOffset)
	assert.Equal(t, "bar", cfg.Terminal.Footer)
	assert.Equal(t, 960, cfg.Window.Width)
	assert.Equal(t, "127.0.0.1:8787", cfg.Stream.Listen)
	assert.Equal(t, 0.5, *cfg.Chime.Volume)

	assert.Equal(t, cfg, Default())
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/blockclock.yml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "version: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"version", `version: "2.0"`, "unsupported version"},
		{"strategy", "version: \"1.0\"\nclock:\n  strategy: fade", "clock.strategy"},
		{"color", "version: \"1.0\"\nclock:\n  color: \"#zzz\"", "invalid color"},
		{"block size", "version: \"1.0\"\nclock:\n  block_size: -1", "clock.block_size"},
		{"padding", "version: \"1.0\"\nclock:\n  padding: -1", "clock.padding"},
		{"hidden offset inside view", "version: \"1.0\"\nclock:\n  hidden_offset: 5000", "clock.hidden_offset"},
		{"footer", "version: \"1.0\"\nterminal:\n  footer: clock", "terminal.footer"},
		{"volume", "version: \"1.0\"\nchime:\n  volume: 2", "chime.volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_HiddenOffsetLeavesView(t *testing.T) {
	cam := scene.DefaultCamera(2)

	cfg := Default()
	cfg.Clock.HiddenOffset = cam.Depth
	require.Error(t, cfg.Validate())

	cfg.Clock.HiddenOffset = cam.Depth + 1
	require.NoError(t, cfg.Validate())

	g := scene.NewGraph()
	blockclock.New(g, blockclock.Options{HiddenOffset: cfg.Clock.HiddenOffset})
	cubes, _ := g.Snapshot()
	visible := 0
	for _, c := range cubes {
		if cam.Visible(c) {
			visible++
		}
	}
	assert.Equal(t, pattern.Encode(pattern.Zero).LitCount(), visible)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#4682b4", 0x4682b4},
		{"0xffffff", 0xffffff},
		{"16777216", 16777216},
		{"-1", -1},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "#12345", "blue", "0xgg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestColor_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(struct {
		C Color `yaml:"c"`
	}{Color{Value: 0x4682b4, Set: true}})
	require.NoError(t, err)
	assert.Equal(t, "c: '#4682b4'\n", string(out))
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(DefaultPath, []byte("version: \"1.0\"\nclock:\n  strategy: color\n"), 0644))
	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "color", cfg.Clock.Strategy)
}
