// Package router turns grid edges into typed show-control events and
// fans them out to registered subscribers.
package router

import (
	"fmt"
	"sync"

	"go-vjgrid/debug"
	"go-vjgrid/midi"
)

// Kind identifies a routed event
type Kind int

const (
	CameraSelect Kind = iota
	EffectPresetSelect
	EffectRandomize
	LightToggle
	SceneSlotToggle
)

func (k Kind) String() string {
	switch k {
	case CameraSelect:
		return "CameraSelect"
	case EffectPresetSelect:
		return "EffectPresetSelect"
	case EffectRandomize:
		return "EffectRandomize"
	case LightToggle:
		return "LightToggle"
	case SceneSlotToggle:
		return "SceneSlotToggle"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Grid rows with a fixed meaning
const (
	RowCamera     = 1
	RowEffectFrom = 2
	RowEffectTo   = 4
	RowLight      = 5
	RowSlotFrom   = 6
	RowSlotTo     = 8

	RandomizeCol = 8
)

// Event is one routed input. Slot is only meaningful for preset and scene
// slot events; On only for scene slots.
type Event struct {
	Kind Kind
	Row  int
	Col  int
	Slot int
	Edge midi.Edge
	On   bool
}

// Route classifies a button edge. Rows 6-8 forward both edges so scene slots
// can act as momentary holds; every other row only reacts to presses.
func Route(btn midi.GridButton, edge midi.Edge) (Event, bool) {
	ev := Event{Row: btn.Row, Col: btn.Col, Edge: edge}

	switch {
	case btn.Row >= RowSlotFrom && btn.Row <= RowSlotTo:
		ev.Kind = SceneSlotToggle
		ev.Slot = (btn.Row-RowSlotFrom)*midi.GridSize + btn.Col
		ev.On = edge == midi.Press
		return ev, true
	case edge != midi.Press:
		return Event{}, false
	case btn.Row == RowCamera:
		ev.Kind = CameraSelect
		return ev, true
	case btn.Row >= RowEffectFrom && btn.Row <= RowEffectTo:
		if btn.Col == RandomizeCol {
			ev.Kind = EffectRandomize
			return ev, true
		}
		ev.Kind = EffectPresetSelect
		ev.Slot = btn.Col - 1
		return ev, true
	case btn.Row == RowLight:
		ev.Kind = LightToggle
		return ev, true
	}
	return Event{}, false
}

// SubscriptionID is returned by every registration call
type SubscriptionID uint64

type subscriber struct {
	id SubscriptionID
	fn func(Event)
}

// Router owns the subscriber lists. One instance is built at startup and
// handed to whoever needs to listen.
type Router struct {
	mu     sync.RWMutex
	nextID SubscriptionID
	subs   map[Kind][]subscriber
	kinds  map[SubscriptionID]Kind

	dropped uint64
}

func New() *Router {
	return &Router{
		subs:  make(map[Kind][]subscriber),
		kinds: make(map[SubscriptionID]Kind),
	}
}

// Subscribe registers fn for every event of kind
func (r *Router) Subscribe(kind Kind, fn func(Event)) SubscriptionID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.subs[kind] = append(r.subs[kind], subscriber{id: id, fn: fn})
	r.kinds[id] = kind
	return id
}

// Unsubscribe removes a registration. Unknown ids are ignored.
func (r *Router) Unsubscribe(id SubscriptionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind, ok := r.kinds[id]
	if !ok {
		return
	}
	delete(r.kinds, id)

	list := r.subs[kind]
	for i, s := range list {
		if s.id == id {
			// copy so a concurrent Publish iterating the old slice is unaffected
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			r.subs[kind] = next
			break
		}
	}
}

func (r *Router) OnCameraSelect(fn func(col int)) SubscriptionID {
	return r.Subscribe(CameraSelect, func(ev Event) { fn(ev.Col) })
}

func (r *Router) OnPresetSelect(fn func(row, slot int)) SubscriptionID {
	return r.Subscribe(EffectPresetSelect, func(ev Event) { fn(ev.Row, ev.Slot) })
}

func (r *Router) OnRandomize(fn func(row int)) SubscriptionID {
	return r.Subscribe(EffectRandomize, func(ev Event) { fn(ev.Row) })
}

func (r *Router) OnLightToggle(fn func(col int)) SubscriptionID {
	return r.Subscribe(LightToggle, func(ev Event) { fn(ev.Col) })
}

func (r *Router) OnSceneSlot(fn func(slot int, on bool)) SubscriptionID {
	return r.Subscribe(SceneSlotToggle, func(ev Event) { fn(ev.Slot, ev.On) })
}

// Publish delivers ev to the subscribers of its kind in registration order
func (r *Router) Publish(ev Event) {
	r.mu.RLock()
	list := r.subs[ev.Kind]
	r.mu.RUnlock()

	for _, s := range list {
		s.fn(ev)
	}
}

// Handle maps, routes and publishes a raw edge. Returns false when the edge
// was dropped (out of range code or a row/edge with no meaning).
func (r *Router) Handle(raw midi.RawEvent) bool {
	if !midi.IsInRange(raw.Code) {
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		debug.Log("router", "drop note=%d out of range", raw.Code)
		return false
	}

	btn := midi.FromCode(raw.Code)
	ev, ok := Route(btn, raw.Edge)
	if !ok {
		return false
	}

	debug.Log("router", "%s %s -> %s slot=%d on=%v", btn, raw.Edge, ev.Kind, ev.Slot, ev.On)
	r.Publish(ev)
	return true
}

// Dropped returns the number of out-of-range codes seen
func (r *Router) Dropped() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}
