package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerFighter64
)

func (t ControllerType) String() string {
	switch t {
	case ControllerFighter64:
		return "Midi Fighter 64"
	}
	return "unknown"
}

// LEDUpdate is a single pad colour change, addressed by logical grid position
type LEDUpdate struct {
	Row, Col int      // 1-8, row 1 = top
	Color    [3]uint8 // RGB - controller maps to its palette
	Channel  uint8    // animation channel, see ChannelStatic etc.
}

// Controller is the interface for grid input devices
type Controller interface {
	ID() string
	Name() string
	Type() ControllerType

	// Input edges from the hardware. Sent from the driver's callback
	// goroutine; consumers must hand them off, never mutate state directly.
	Events() <-chan RawEvent

	// Output to the controller
	SetLEDBatch(updates []LEDUpdate) error

	// Lifecycle
	Close() error
}

// LED animation channels on the Midi Fighter 64
const (
	ChannelStatic uint8 = 2 // MIDI channel 3: solid colour
	ChannelPulse  uint8 = 3 // MIDI channel 4: breathing
)
