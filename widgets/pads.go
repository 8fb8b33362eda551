package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pad is one cell of the on-screen grid mirror
type Pad struct {
	Color [3]uint8
	Lit   bool
	Pulse bool
}

// Glyphs used by the pad renderers
type Glyphs struct {
	Lit, Empty, Pulse rune
}

var DefaultGlyphs = Glyphs{Lit: '■', Empty: '□', Pulse: '◆'}

// RenderPad renders a single colored pad
func RenderPad(p Pad, g Glyphs) string {
	if !p.Lit {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")).Render(string(g.Empty))
	}
	glyph := g.Lit
	if p.Pulse {
		glyph = g.Pulse
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(p.Color))).Render(string(glyph))
}

// RenderPadGrid renders an 8x8 grid, index 0 is the top row. labels, when
// given, are printed to the right of each row.
func RenderPadGrid(grid [8][8]Pad, g Glyphs, labels []string) string {
	lines := make([]string, 0, 8)
	for row := 0; row < 8; row++ {
		var line strings.Builder
		for col := 0; col < 8; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			line.WriteString(RenderPad(grid[row][col], g))
		}
		if row < len(labels) && labels[row] != "" {
			line.WriteString("  ")
			line.WriteString(labels[row])
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderMeter draws value (0-1) as a bar of width cells
func RenderMeter(value float64, width int, on, off rune) string {
	if width <= 0 {
		return ""
	}
	value = math.Max(0, math.Min(1, value))
	n := int(math.Round(value * float64(width)))
	return strings.Repeat(string(on), n) + strings.Repeat(string(off), width-n)
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(Pad{Color: color, Lit: true}, DefaultGlyphs), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
