package render

import (
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the candidate column colors (ANSI 256 codes). Large
// enough that the usual handful of columns all come out distinct.
var palette = []lipgloss.Color{
	"39", "203", "114", "215", "141", "81", "208", "162",
	"42", "227", "105", "75", "168", "120", "214", "69",
	"198", "156", "99", "216",
}

// assignColors picks one color per column from a shuffled copy of the
// palette. Colors repeat only when columns outnumber the palette, so
// assignment always terminates regardless of column count.
func assignColors(n int, rng *rand.Rand) []lipgloss.Color {
	shuffled := make([]lipgloss.Color, len(palette))
	copy(shuffled, palette)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	colors := make([]lipgloss.Color, n)
	for i := range colors {
		colors[i] = shuffled[i%len(shuffled)]
	}
	return colors
}
