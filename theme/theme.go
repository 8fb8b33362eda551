package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Pad      rune // ■ lit pad
	PadEmpty rune // □ unused pad
	Pulse    rune // ◆ pulsing pad

	Cursor   rune // ▶ browse cursor
	MeterOn  rune // █ meter fill
	MeterOff rune // ░ meter track
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Plasma()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Pad:      '■',
			PadEmpty: '□',
			Pulse:    '◆',

			Cursor:   '▶',
			MeterOn:  '█',
			MeterOff: '░',
		},
	}
}

// Load returns the palette file at path as a theme, or the built-in ramp
// when path is empty.
func Load(path string) (*Theme, error) {
	if path == "" {
		return New(nil), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleCursor  = 0.6
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Color(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Hex(t.Palette.Lookup(norm))
}

// Hex converts raw pad RGB to a lipgloss color
func Hex(c [3]uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
