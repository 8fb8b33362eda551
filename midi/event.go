package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Edge is the press/release transition of a single pad
type Edge int

const (
	Press Edge = iota
	Release
)

func (e Edge) String() string {
	if e == Press {
		return "press"
	}
	return "release"
}

// RawEvent is one edge as reported by the hardware, before any grid mapping.
// Intensity is velocity normalised to 0-1; routing ignores it for now.
type RawEvent struct {
	Code      int
	Edge      Edge
	Intensity float64
}

// EdgeFromMessage classifies a note message. Note on with velocity 0 is a release.
func EdgeFromMessage(msgType, velocity uint8) (Edge, bool) {
	switch msgType {
	case NoteOn:
		if velocity == 0 {
			return Release, true
		}
		return Press, true
	case NoteOff:
		return Release, true
	}
	return Press, false
}
