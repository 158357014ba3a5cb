package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bits(s string) []bool {
	out := make([]bool, 0, len(s))
	for _, ch := range s {
		if ch == ' ' {
			continue
		}
		out = append(out, ch == '1')
	}
	return out
}

func TestGlyphTable(t *testing.T) {
	for d := 0; d < Digits; d++ {
		g, ok := Glyph(d)
		require.True(t, ok, "digit %d", d)
		assert.Len(t, g, 15)
		assert.Equal(t, bits(glyphSource[d]), g[:], "digit %d", d)
	}

	_, ok := Glyph(10)
	assert.False(t, ok)
	_, ok = Glyph(-1)
	assert.False(t, ok)
}

func TestEncode_Digits(t *testing.T) {
	for d := 0; d < Digits; d++ {
		g := Encode(string(rune('0' + d)))
		require.Equal(t, 4, g.Width(), "digit %d", d)

		glyph, _ := Glyph(d)
		for i, on := range glyph {
			assert.Equal(t, on, g.Lit(i/3, i%3), "digit %d cell %d", d, i)
		}
		for r := 0; r < Rows; r++ {
			assert.False(t, g.Lit(r, 3), "digit %d spacer row %d", d, r)
		}
	}
}

func TestEncode_Separators(t *testing.T) {
	for _, s := range []string{":", " ", "a", "-", "."} {
		g := Encode(s)
		require.Equal(t, 2, g.Width(), "input %q", s)
		for r := 0; r < Rows; r++ {
			assert.Equal(t, r%2 == 1, g.Lit(r, 0), "input %q row %d", s, r)
			assert.False(t, g.Lit(r, 1), "input %q spacer row %d", s, r)
		}
	}
}

func TestEncode_ZeroTime(t *testing.T) {
	g := Encode(Zero)

	want := [Rows]string{
		"1110 1110 00 1110 1110 00 1110 1110",
		"1010 1010 10 1010 1010 10 1010 1010",
		"1010 1010 00 1010 1010 00 1010 1010",
		"1010 1010 10 1010 1010 10 1010 1010",
		"1110 1110 00 1110 1110 00 1110 1110",
	}
	for r := range want {
		assert.Equal(t, bits(want[r]), g[r], "row %d", r)
	}
	assert.Equal(t, 28, g.Width())
	assert.Equal(t, 140, g.Cells())
}

func TestEncode_RowsEqualLength(t *testing.T) {
	inputs := []string{"", "0", ":", "12:34:56", "9999", "::", "1a2b3c", "23:59:59"}
	for _, in := range inputs {
		g := Encode(in)
		for r := 1; r < Rows; r++ {
			assert.Len(t, g[r], len(g[0]), "input %q row %d", in, r)
		}
		assert.Equal(t, ColumnsFor(in), g.Width(), "input %q", in)
	}
}

func TestEncode_AllDigitsWidth(t *testing.T) {
	for _, in := range []string{"0", "12", "123456", "00000000"} {
		assert.Equal(t, 4*len(in), Encode(in).Width(), "input %q", in)
	}
}

func TestEncode_Empty(t *testing.T) {
	g := Encode("")
	for r := 0; r < Rows; r++ {
		assert.NotNil(t, g[r])
		assert.Len(t, g[r], 0)
	}
	assert.Equal(t, 0, g.Cells())
	assert.Equal(t, "\n\n\n\n", g.String())
}

func TestEncode_Deterministic(t *testing.T) {
	a := Encode("12:34:56")
	b := Encode("12:34:56")
	assert.True(t, a.Equal(b))

	a[0][0] = !a[0][0]
	c := Encode("12:34:56")
	assert.True(t, b.Equal(c), "mutating a result must not leak into later calls")
	assert.False(t, a.Equal(c))
}

func TestGrid_String(t *testing.T) {
	s := Encode("1").String()
	lines := strings.Split(s, "\n")
	require.Len(t, lines, Rows)
	assert.Equal(t, "·█··", lines[0])
}

func TestGrid_LitOutOfRange(t *testing.T) {
	g := Encode("8")
	assert.False(t, g.Lit(-1, 0))
	assert.False(t, g.Lit(0, -1))
	assert.False(t, g.Lit(Rows, 0))
	assert.False(t, g.Lit(0, 4))
	assert.Equal(t, 13, g.LitCount())
}
