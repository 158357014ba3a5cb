// Package pattern encodes time strings into the dot-matrix grid drawn by the
// block clock. Digits use fixed 5x3 glyphs; every other character becomes a
// one-column separator lit on the odd rows.
package pattern

import "strings"

const (
	// Rows is the height of every glyph and of the encoded grid.
	Rows = 5
	// GlyphWidth is the number of columns in a digit glyph.
	GlyphWidth = 3
	// Digits is the number of entries in the glyph table.
	Digits = 10
)

// glyphSource is the row-major glyph table, one string per digit.
var glyphSource = [Digits]string{
	"111101101101111",
	"010010010010010",
	"111001111100111",
	"111001111001111",
	"101101111001001",
	"111100111001111",
	"111100111101111",
	"111101001001001",
	"111101111101111",
	"111101111001111",
}

var glyphs [Digits][Rows * GlyphWidth]bool

func init() {
	for d, src := range glyphSource {
		if len(src) != Rows*GlyphWidth {
			panic("pattern: malformed glyph for digit " + string(rune('0'+d)))
		}
		for i := 0; i < len(src); i++ {
			glyphs[d][i] = src[i] == '1'
		}
	}
}

// Glyph returns the row-major cells of digit d.
func Glyph(d int) ([Rows * GlyphWidth]bool, bool) {
	if d < 0 || d >= Digits {
		return [Rows * GlyphWidth]bool{}, false
	}
	return glyphs[d], true
}

// Grid holds one row of cells per glyph row. All rows have the same length.
type Grid [Rows][]bool

// Width returns the number of columns.
func (g Grid) Width() int {
	return len(g[0])
}

// Cells returns Rows*Width.
func (g Grid) Cells() int {
	return Rows * g.Width()
}

// Lit reports whether (row, col) is on. Out-of-range cells are off.
func (g Grid) Lit(row, col int) bool {
	if row < 0 || row >= Rows || col < 0 || col >= len(g[row]) {
		return false
	}
	return g[row][col]
}

// LitCount returns the number of lit cells.
func (g Grid) LitCount() int {
	n := 0
	for _, row := range g {
		for _, on := range row {
			if on {
				n++
			}
		}
	}
	return n
}

// Equal reports whether both grids have identical cells.
func (g Grid) Equal(o Grid) bool {
	for r := range g {
		if len(g[r]) != len(o[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// String draws the grid with one rune per cell.
func (g Grid) String() string {
	var sb strings.Builder
	for r, row := range g {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, on := range row {
			if on {
				sb.WriteString("█")
			} else {
				sb.WriteString("·")
			}
		}
	}
	return sb.String()
}

// ColumnsFor returns the grid width Encode produces for s.
func ColumnsFor(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			n += GlyphWidth + 1
		} else {
			n += 2
		}
	}
	return n
}

// Encode converts s into a lit-cell grid. Each digit contributes its glyph
// columns, each other byte a separator column, and every character is
// followed by one blank spacer column.
func Encode(s string) Grid {
	var g Grid
	width := ColumnsFor(s)
	for r := range g {
		g[r] = make([]bool, 0, width)
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isDigit(ch) {
			glyph := glyphs[ch-'0']
			for j, on := range glyph {
				g[j/GlyphWidth] = append(g[j/GlyphWidth], on)
			}
		} else {
			for r := range g {
				g[r] = append(g[r], r%2 == 1)
			}
		}

		for r := range g {
			g[r] = append(g[r], false)
		}
	}

	return g
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
