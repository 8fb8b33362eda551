package rig

import (
	"go-vjgrid/effect"
	"go-vjgrid/stage"
)

// EffectStatus describes one effect row
type EffectStatus struct {
	Row        int
	Type       string
	Preset     int
	PresetName string
	Presets    []string
	Intensity  float64
	HasLevel   bool
}

// Status is a snapshot of rig state for other goroutines. Slices are never
// modified after publication.
type Status struct {
	Ticks       uint64
	Camera      int
	CameraName  string
	ActiveRow   int
	Effects     []EffectStatus
	Lights      []bool
	Slots       []bool
	Transitions int
	QueueDepth  int
	Dropped     uint64

	Snapshots int
	Browsing  bool
	Cursor    int
	View      []string
	Selected  string
	LastSaved string
	Dirty     bool
	LastError string

	// Pads mirrors the controller LEDs
	Pads []LEDState
}

func (r *Rig) publish(pads []LEDState) {
	st := Status{
		Pads:        pads,
		Ticks:       r.ticks,
		Camera:      r.Cameras.Active(),
		CameraName:  r.Cameras.ActiveName(),
		ActiveRow:   r.Table.ActiveRow(),
		Lights:      r.Lights.States(),
		Slots:       r.Slots.States(),
		Transitions: r.Scheduler.Active(),
		QueueDepth:  len(r.queue),
		Dropped:     r.dropped.Load(),
		Snapshots:   r.Store.Len(),
		Browsing:    r.Store.Browsing(),
		Cursor:      r.Store.Cursor(),
		LastSaved:   r.lastSaved,
		Dirty:       r.Store.Dirty(),
		LastError:   r.lastError,
	}

	for _, row := range r.Table.Rows() {
		c := r.Table.ControllerFor(row)
		if c == nil {
			continue
		}
		es := EffectStatus{Row: row, Type: c.EffectTypeName(), Preset: -1, PresetName: "None"}
		if d, ok := c.(effect.Describer); ok {
			es.Preset = d.ActivePreset()
			es.PresetName = d.ActivePresetName()
			es.Presets = d.PresetNames()
		}
		if in, ok := c.(effect.Intensifier); ok {
			es.Intensity = in.Intensity()
			es.HasLevel = true
		}
		st.Effects = append(st.Effects, es)
	}

	if st.Browsing {
		for _, rec := range r.Store.View() {
			st.View = append(st.View, rec.Name)
		}
		if rec, ok := r.Store.Selected(); ok {
			st.Selected = rec.Name
		}
	}

	r.statusMu.Lock()
	r.status = st
	r.statusMu.Unlock()
}

// Status returns the last published state
func (r *Rig) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}

// LightName is the configured name of the light group on col
func (r *Rig) LightName(col int) string {
	if col < 1 || col > stage.NumLightGroups {
		return ""
	}
	return r.Lights.Group(col).Name
}
