package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-vjgrid/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DefaultPortMatch selects Midi Fighter 64 ports by name
const DefaultPortMatch = "midi fighter 64"

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of grid controllers
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	match       string
}

// NewDeviceManager creates a device manager that claims ports whose name
// contains match (case-insensitive). Empty match uses DefaultPortMatch.
func NewDeviceManager(match string) *DeviceManager {
	if match == "" {
		match = DefaultPortMatch
	}
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		match:       strings.ToLower(match),
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Port enumeration can hang on CoreMIDI, so give it a deadline
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		debug.Log("devices", "port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		name := strings.ToLower(inPort.String())
		if !dm.matches(name) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var outPort drivers.Out
		for j, op := range outPorts {
			if strings.ToLower(op.String()) == name {
				outPort = outPorts[j]
				break
			}
		}

		fc, err := NewFighterController(id, inPorts[i], outPort)
		if err != nil {
			debug.Log("devices", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = fc
		dm.mu.Unlock()

		debug.Log("devices", "connected %s", id)
		dm.events <- DeviceEvent{
			Type:       DeviceConnected,
			Controller: fc,
			ID:         id,
		}
	}

	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		debug.Log("devices", "disconnected %s", id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func (dm *DeviceManager) matches(lowerName string) bool {
	return strings.Contains(lowerName, dm.match)
}

// MatchesPort reports whether a port name would be claimed with the given match string
func MatchesPort(portName, match string) bool {
	if match == "" {
		match = DefaultPortMatch
	}
	return strings.Contains(strings.ToLower(portName), strings.ToLower(match))
}
