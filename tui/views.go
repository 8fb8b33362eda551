package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-vjgrid/midi"
	"go-vjgrid/rig"
	"go-vjgrid/stage"
	"go-vjgrid/theme"
	"go-vjgrid/widgets"
)

const meterWidth = 12

func glyphs(th *theme.Theme) widgets.Glyphs {
	return widgets.Glyphs{Lit: th.Symbols.Pad, Empty: th.Symbols.PadEmpty, Pulse: th.Symbols.Pulse}
}

// padGrid converts published LEDs (row 1 = top) into the widget grid
func padGrid(leds []rig.LEDState) [8][8]widgets.Pad {
	var grid [8][8]widgets.Pad
	for _, led := range leds {
		if led.Row < 1 || led.Row > 8 || led.Col < 1 || led.Col > 8 {
			continue
		}
		grid[led.Row-1][led.Col-1] = widgets.Pad{
			Color: led.Color,
			Lit:   true,
			Pulse: led.Channel == midi.ChannelPulse,
		}
	}
	return grid
}

func rowLabels(st rig.Status) []string {
	labels := []string{"cameras", "", "", "", "lights", "slots 1-8", "slots 9-16", "slots 17-24"}
	for _, e := range st.Effects {
		if e.Row >= 1 && e.Row <= len(labels) {
			label := strings.ToLower(e.Type)
			if e.Row == st.ActiveRow {
				label += " *"
			}
			labels[e.Row-1] = label
		}
	}
	return labels
}

func (m Model) effectsView(st rig.Status) string {
	titleStyle := lipgloss.NewStyle().Foreground(m.Theme.FG()).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	lines := []string{titleStyle.Render("Effects")}
	for _, e := range st.Effects {
		style := dimStyle
		if e.Row == st.ActiveRow {
			style = activeStyle
		}
		line := fmt.Sprintf("  %-10s %-16s", e.Type, e.PresetName)
		if e.HasLevel {
			line += " " + widgets.RenderMeter(e.Intensity, meterWidth, m.Theme.Symbols.MeterOn, m.Theme.Symbols.MeterOff)
		}
		lines = append(lines, style.Render(line))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("  transitions %d  queue %d", st.Transitions, st.QueueDepth)))
	return strings.Join(lines, "\n")
}

func (m Model) lightsView(st rig.Status) string {
	onStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	var on []string
	for i, lit := range st.Lights {
		if lit {
			on = append(on, onStyle.Render(m.Rig.LightName(i+1)))
		}
	}
	var slots []string
	for i, lit := range st.Slots {
		if lit {
			slots = append(slots, fmt.Sprintf("%d", i+1))
		}
	}

	lights := dimStyle.Render("lights: none")
	if len(on) > 0 {
		lights = "lights: " + strings.Join(on, " ")
	}
	active := dimStyle.Render(fmt.Sprintf("slots: 0/%d", stage.NumSlots))
	if len(slots) > 0 {
		active = "slots: " + strings.Join(slots, ",")
	}
	return lights + "\n" + active
}

func (m Model) snapshotsView(st rig.Status) string {
	titleStyle := lipgloss.NewStyle().Foreground(m.Theme.FG()).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	title := fmt.Sprintf("Snapshots (%d)", st.Snapshots)
	if st.Dirty {
		title += " unsaved"
	}
	lines := []string{titleStyle.Render(title)}

	if !st.Browsing {
		if st.LastSaved != "" {
			lines = append(lines, dimStyle.Render("  last saved "+st.LastSaved))
		}
		return strings.Join(lines, "\n")
	}

	if len(st.View) == 0 {
		lines = append(lines, dimStyle.Render("  nothing saved for this effect"))
		return strings.Join(lines, "\n")
	}
	for i, name := range st.View {
		if i == st.Cursor {
			lines = append(lines, cursorStyle.Render(fmt.Sprintf("%c %s", m.Theme.Symbols.Cursor, name)))
		} else {
			lines = append(lines, "  "+name)
		}
	}
	return strings.Join(lines, "\n")
}
