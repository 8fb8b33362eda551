package midi

import (
	"fmt"
	"sync/atomic"

	"go-vjgrid/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ledSendCount uint64

// FighterController handles a DJ TechTools Midi Fighter 64
type FighterController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	events  chan RawEvent
	dropped atomic.Uint64
}

// NewFighterController opens the ports of a Midi Fighter 64. Either port may be nil.
func NewFighterController(id string, inPort drivers.In, outPort drivers.Out) (*FighterController, error) {
	fc := &FighterController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		events:  make(chan RawEvent, 64),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		fc.send = send
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, fc.receive)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		fc.stopFunc = stop
	}

	return fc, nil
}

// receive runs on the driver's goroutine
func (fc *FighterController) receive(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8
	var ev RawEvent

	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		edge, _ := EdgeFromMessage(NoteOn, velocity)
		ev = RawEvent{Code: int(note), Edge: edge, Intensity: float64(velocity) / 127}
	case msg.GetNoteOff(&channel, &note, &velocity):
		ev = RawEvent{Code: int(note), Edge: Release}
	default:
		return
	}

	select {
	case fc.events <- ev:
	default:
		n := fc.dropped.Add(1)
		debug.Log("fighter", "event channel full, dropped note=%d (total %d)", note, n)
	}
}

func (fc *FighterController) ID() string {
	return fc.id
}

func (fc *FighterController) Name() string {
	if fc.inPort != nil {
		return fc.inPort.String()
	}
	return fc.id
}

func (fc *FighterController) Type() ControllerType {
	return ControllerFighter64
}

func (fc *FighterController) Events() <-chan RawEvent {
	return fc.events
}

// Dropped returns how many edges were lost because the consumer fell behind
func (fc *FighterController) Dropped() uint64 {
	return fc.dropped.Load()
}

// SetLEDBatch sends one NoteOn per update; the caller diffs so batches stay small
func (fc *FighterController) SetLEDBatch(updates []LEDUpdate) error {
	if fc.send == nil || len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		if u.Row < 1 || u.Row > GridSize || u.Col < 1 || u.Col > GridSize {
			continue
		}
		note := uint8(ToCode(u.Row, u.Col))
		channel := u.Channel
		if channel == 0 {
			channel = ChannelStatic
		}
		if err := fc.send(gomidi.NoteOn(channel, note, mapRGBToFighter(u.Color))); err != nil {
			return fmt.Errorf("send led %d,%d: %w", u.Row, u.Col, err)
		}
	}

	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	if count%100 < uint64(len(updates)) {
		debug.Log("mf64-send", "batch count=%d (this batch=%d)", count, len(updates))
	}

	return nil
}

// mapRGBToFighter finds the nearest Midi Fighter 64 palette colour for an RGB value
func mapRGBToFighter(rgb [3]uint8) uint8 {
	// Format: {velocity, R, G, B}
	palette := [][4]uint8{
		{0, 0, 0, 0},         // off
		{1, 40, 40, 40},      // dim white
		{3, 255, 255, 255},   // white
		{5, 255, 0, 0},       // red
		{7, 120, 0, 0},       // dim red
		{9, 255, 100, 0},     // orange
		{13, 255, 220, 0},    // yellow
		{21, 0, 255, 0},      // green
		{23, 0, 90, 0},       // dim green
		{37, 0, 200, 200},    // cyan
		{41, 0, 60, 90},      // dim cyan
		{45, 0, 80, 255},     // blue
		{47, 0, 30, 100},     // dim blue
		{49, 140, 0, 255},    // purple
		{53, 255, 0, 160},    // magenta
		{55, 100, 0, 60},     // dim magenta
		{60, 255, 60, 60},    // coral
		{84, 255, 150, 50},   // amber
	}

	bestMatch := uint8(0)
	bestDist := 1 << 30

	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])

	for _, p := range palette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			bestMatch = p[0]
		}
	}

	return bestMatch
}

func (fc *FighterController) Close() error {
	if fc.send != nil {
		var updates []LEDUpdate
		for row := 1; row <= GridSize; row++ {
			for col := 1; col <= GridSize; col++ {
				updates = append(updates, LEDUpdate{Row: row, Col: col})
			}
		}
		fc.SetLEDBatch(updates)
	}
	if fc.stopFunc != nil {
		fc.stopFunc()
	}
	close(fc.events)
	return nil
}
