package rig

import (
	"context"
	"time"

	"go-vjgrid/debug"
	"go-vjgrid/effect"
	"go-vjgrid/midi"
	"go-vjgrid/router"
	"go-vjgrid/stage"
)

// LEDState is the desired colour of one pad
type LEDState struct {
	Row, Col int
	Color    [3]uint8 // RGB - controller maps to its palette
	Channel  uint8
}

// Pad colours
var (
	colorOff       = [3]uint8{0, 0, 0}
	colorCamera    = [3]uint8{40, 40, 40}
	colorCameraOn  = [3]uint8{255, 255, 255}
	colorRandomize = [3]uint8{128, 0, 255}
	colorLight     = [3]uint8{60, 40, 0}
	colorLightOn   = [3]uint8{255, 180, 0}
	colorSlot      = [3]uint8{0, 30, 0}
	colorSlotOn    = [3]uint8{0, 255, 0}
)

// dim and bright variants per effect type
var effectColors = map[string][2][3]uint8{
	"DoF":       {{0, 40, 60}, {0, 255, 255}},
	"PixelSort": {{60, 25, 0}, {255, 128, 0}},
	"Chromatic": {{60, 0, 60}, {255, 0, 255}},
}

// RenderLEDs computes the full pad state. Tick goroutine only.
func (r *Rig) RenderLEDs() []LEDState {
	leds := make([]LEDState, 0, midi.GridSize*midi.GridSize)

	for col := 1; col <= midi.GridSize; col++ {
		c := colorCamera
		if col == r.Cameras.Active() {
			c = colorCameraOn
		}
		leds = append(leds, LEDState{Row: router.RowCamera, Col: col, Color: c})
	}

	activeRow := r.Table.ActiveRow()
	for row := router.RowEffectFrom; row <= router.RowEffectTo; row++ {
		leds = append(leds, r.renderEffectRow(row, row == activeRow)...)
	}

	for col := 1; col <= stage.NumLightGroups; col++ {
		c := colorLight
		if r.Lights.On(col) {
			c = colorLightOn
		}
		leds = append(leds, LEDState{Row: router.RowLight, Col: col, Color: c})
	}

	for slot := 1; slot <= stage.NumSlots; slot++ {
		row := router.RowSlotFrom + (slot-1)/midi.GridSize
		col := (slot-1)%midi.GridSize + 1
		c := colorSlot
		if r.Slots.On(slot) {
			c = colorSlotOn
		}
		leds = append(leds, LEDState{Row: row, Col: col, Color: c})
	}

	return leds
}

func (r *Rig) renderEffectRow(row int, active bool) []LEDState {
	c := r.Table.ControllerFor(row)
	if c == nil {
		return nil
	}
	d, ok := c.(effect.Describer)
	if !ok {
		return nil
	}
	colors, ok := effectColors[c.EffectTypeName()]
	if !ok {
		colors = [2][3]uint8{{30, 30, 30}, {200, 200, 200}}
	}

	var leds []LEDState
	names := d.PresetNames()
	current := d.ActivePreset()
	for i, name := range names {
		col := i + 1
		if col >= router.RandomizeCol || name == "" {
			continue
		}
		led := LEDState{Row: row, Col: col, Color: colors[0]}
		if i == current {
			led.Color = colors[1]
			if active {
				led.Channel = midi.ChannelPulse
			}
		}
		leds = append(leds, led)
	}
	leds = append(leds, LEDState{Row: row, Col: router.RandomizeCol, Color: colorRandomize})
	return leds
}

func (r *Rig) render() []LEDState {
	leds := r.RenderLEDs()
	r.mu.Lock()
	r.leds = leds
	r.ledDirty = true
	r.mu.Unlock()
	return leds
}

// SetController sets the MIDI controller for LED feedback
func (r *Rig) SetController(c midi.Controller) {
	debug.Log("ctrl", "SetController called, resetting diff state")
	r.mu.Lock()
	r.controller = c
	r.prevLEDs = make(map[[2]int]LEDState) // diff will repaint everything
	r.ledDirty = true
	r.mu.Unlock()
}

// ledLoop runs at fixed FPS and flushes LED updates
func (r *Rig) ledLoop(ctx context.Context) {
	fps := r.cfg.Rig.LEDFPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.FlushLEDs()
		}
	}
}

// FlushLEDs sends only changed LEDs to the controller (diffing + batching)
func (r *Rig) FlushLEDs() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.ledDirty || r.controller == nil {
		return
	}
	r.ledDirty = false

	newMap := make(map[[2]int]LEDState, len(r.leds))
	var updates []midi.LEDUpdate

	for _, led := range r.leds {
		key := [2]int{led.Row, led.Col}
		newMap[key] = led

		if prev, ok := r.prevLEDs[key]; !ok || prev != led {
			updates = append(updates, midi.LEDUpdate{
				Row:     led.Row,
				Col:     led.Col,
				Color:   led.Color,
				Channel: led.Channel,
			})
		}
	}

	// Clear LEDs that are no longer present
	for key := range r.prevLEDs {
		if _, ok := newMap[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1], Color: colorOff})
		}
	}

	if len(updates) > 0 {
		debug.Log("led", "flushLEDs: batch=%d prev=%d", len(updates), len(r.prevLEDs))
		if err := r.controller.SetLEDBatch(updates); err != nil {
			debug.Log("led", "send failed: %v", err)
			// resend everything next frame
			r.prevLEDs = make(map[[2]int]LEDState)
			r.ledDirty = true
			return
		}
	}

	r.prevLEDs = newMap
}
