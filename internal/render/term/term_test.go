package term

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffnv/blockclock/internal/blockclock"
	"github.com/jeffnv/blockclock/internal/pattern"
	"github.com/jeffnv/blockclock/internal/scene"
)

func renderClock(t *testing.T, strategy blockclock.Strategy) string {
	t.Helper()
	g := scene.NewGraph()
	blockclock.New(g, blockclock.Options{Strategy: strategy})
	cubes, _ := g.Snapshot()

	// 28 columns of cubes, two cells each, one row per cube.
	out := NewRenderer().Render(cubes, 56, 5)
	require.Len(t, strings.Split(out, "\n"), 5)
	return out
}

func TestRender_HideByPositionCullsUnlit(t *testing.T) {
	out := renderClock(t, blockclock.HideByPosition)
	lit := pattern.Encode(pattern.Zero).LitCount()

	assert.Equal(t, lit, strings.Count(out, faceChar))
	assert.Equal(t, lit, strings.Count(out, edgeChar))
}

func TestRender_HideByColorDrawsEveryCube(t *testing.T) {
	out := renderClock(t, blockclock.HideByColor)
	cells := pattern.Encode(pattern.Zero).Cells()

	assert.Equal(t, cells, strings.Count(out, faceChar))
	assert.Equal(t, cells, strings.Count(out, edgeChar))
}

func TestRender_Empty(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "", r.Render(nil, 0, 0))
	assert.Equal(t, "   \n   ", r.Render(nil, 3, 2))
}

func TestShade(t *testing.T) {
	assert.Equal(t, "#4682b4", Hex(0x4682b4))
	for _, c := range []uint32{0x000000, 0xffffff, 0x808080, 0xff0000, 0x00ff00, 0x0000ff, 0x4682b4, 0x202020} {
		assert.Equal(t, Hex(c), Hex(ToHSL(c).RGB()), "round trip")
	}
	assert.InDelta(t, 2.0/3.0, ToHSL(0x0000ff).H, 1e-9)

	base := uint32(0x4682b4)
	top := ToHSL(Gradient(base, 0, 4)).L
	bottom := ToHSL(Gradient(base, 3, 4)).L
	assert.Greater(t, top, bottom)
	assert.Less(t, ToHSL(Shadow(base)).L, ToHSL(base).L)
	assert.Equal(t, base, Gradient(base, 0, 1))
}
