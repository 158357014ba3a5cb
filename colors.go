package main

import "github.com/charmbracelet/lipgloss"

var (
	colorLabel  = lipgloss.Color("#AAAAAA")
	colorPaused = lipgloss.Color("#FFAA00")
	colorHelp   = lipgloss.Color("#666666")

	colorDim uint32 = 0x555555
)

// palette is cycled with the c key. The first entry is the default clock
// color.
var palette = []int{
	0x4682b4, // steel blue
	0x55ff55,
	0xffff55,
	0xff5555,
	0xff55ff,
	0x55ffff,
	0xffffff,
}

// nextPaletteColor returns the palette entry after rgb, or the first entry
// when rgb is not in the palette.
func nextPaletteColor(rgb uint32) int {
	for i, c := range palette {
		if uint32(c) == rgb {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}
