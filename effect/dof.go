package effect

import (
	"encoding/json"
	"fmt"
	"time"

	"go-vjgrid/transition"
)

const DefaultDoFDuration = 300 * time.Millisecond

type DoFMode int

const (
	Bokeh DoFMode = iota
	Gaussian
)

func (m DoFMode) String() string {
	if m == Gaussian {
		return "Gaussian"
	}
	return "Bokeh"
}

// DoFPreset is one depth of field parameter set
type DoFPreset struct {
	Name          string  `json:"presetName"`
	Mode          DoFMode `json:"mode"`
	FocusDistance float64 `json:"focusDistance"`
	FocalLength   float64 `json:"focalLength"`
	Aperture      float64 `json:"aperture"`
	GaussianStart float64 `json:"gaussianStart"`
	GaussianEnd   float64 `json:"gaussianEnd"`
}

type DoFBounds struct {
	FocusDistance Range
	FocalLength   Range
	Aperture      Range
	GaussianStart Range
	GaussianEnd   Range
}

func DefaultDoFBounds() DoFBounds {
	return DoFBounds{
		FocusDistance: R(0.5, 20),
		FocalLength:   R(10, 100),
		Aperture:      R(1, 16),
		GaussianStart: R(0, 5),
		GaussianEnd:   R(1, 20),
	}
}

func DefaultDoFLibrary() [LibrarySize]*DoFPreset {
	return [LibrarySize]*DoFPreset{
		{Name: "Sharp", Mode: Bokeh, FocusDistance: 10, FocalLength: 20, Aperture: 16, GaussianStart: 5, GaussianEnd: 20},
		{Name: "Portrait", Mode: Bokeh, FocusDistance: 2, FocalLength: 85, Aperture: 1.8, GaussianStart: 1, GaussianEnd: 6},
		{Name: "Macro", Mode: Bokeh, FocusDistance: 0.5, FocalLength: 100, Aperture: 1, GaussianStart: 0, GaussianEnd: 1},
		{Name: "Dreamy", Mode: Gaussian, FocusDistance: 4, FocalLength: 50, Aperture: 2.8, GaussianStart: 0.5, GaussianEnd: 4},
		{Name: "Background Blur", Mode: Gaussian, FocusDistance: 6, FocalLength: 35, Aperture: 5.6, GaussianStart: 3, GaussianEnd: 12},
		nil,
		nil,
	}
}

// DoF controls depth of field. It has no intensity param, so disabling is a
// preset choice (e.g. "Sharp") rather than a fade.
type DoF struct {
	params
	library [LibrarySize]*DoFPreset
	bounds  DoFBounds

	mode          *transition.Override[DoFMode]
	focusDistance *transition.Param
	focalLength   *transition.Param
	aperture      *transition.Param
	gaussianStart *transition.Param
	gaussianEnd   *transition.Param
}

func NewDoF(sched *transition.Scheduler, opts Options) *DoF {
	d := &DoF{
		params:  newParams("DoF", sched, opts),
		library: DefaultDoFLibrary(),
		bounds:  DefaultDoFBounds(),
		mode:    transition.NewOverride(Bokeh),
	}
	d.focusDistance = d.param("focusDistance", 10)
	d.focalLength = d.param("focalLength", 50)
	d.aperture = d.param("aperture", 5.6)
	d.gaussianStart = d.param("gaussianStart", 10)
	d.gaussianEnd = d.param("gaussianEnd", 30)
	return d
}

// SetLibrary replaces the preset library; nil entries are empty slots
func (d *DoF) SetLibrary(lib [LibrarySize]*DoFPreset) { d.library = lib }

func (d *DoF) Bounds() DoFBounds { return d.bounds }

func (d *DoF) ApplyPreset(slot int) {
	if slot < 0 || slot >= LibrarySize || d.library[slot] == nil {
		return
	}
	d.active = slot
	d.ApplyData(*d.library[slot])
}

func (d *DoF) ApplyData(p DoFPreset) {
	d.cancelAll()

	d.mode.Set(p.Mode)
	d.tween(d.focusDistance, p.FocusDistance)
	d.tween(d.focalLength, p.FocalLength)
	d.tween(d.aperture, p.Aperture)
	d.tween(d.gaussianStart, p.GaussianStart)
	d.tween(d.gaussianEnd, p.GaussianEnd)
}

func (d *DoF) randomPreset() DoFPreset {
	rng, b := d.opts.Rand, d.bounds
	mode := Gaussian
	if rng.Float64() > 0.5 {
		mode = Bokeh
	}
	return DoFPreset{
		Name:          "Random",
		Mode:          mode,
		FocusDistance: b.FocusDistance.Draw(rng),
		FocalLength:   b.FocalLength.Draw(rng),
		Aperture:      b.Aperture.Draw(rng),
		GaussianStart: b.GaussianStart.Draw(rng),
		GaussianEnd:   b.GaussianEnd.Draw(rng),
	}
}

func (d *DoF) Randomize() {
	p := d.randomPreset()
	d.active = -1
	d.ApplyData(p)
}

// State returns the live values as a preset
func (d *DoF) State(name string) DoFPreset {
	return DoFPreset{
		Name:          name,
		Mode:          d.mode.Get(),
		FocusDistance: d.focusDistance.Value(),
		FocalLength:   d.focalLength.Value(),
		Aperture:      d.aperture.Value(),
		GaussianStart: d.gaussianStart.Value(),
		GaussianEnd:   d.gaussianEnd.Value(),
	}
}

func (d *DoF) CaptureState(name string) string {
	data, _ := json.Marshal(d.State(name))
	return string(data)
}

func (d *DoF) Restore(payload string) error {
	var p DoFPreset
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return fmt.Errorf("%w: dof: %v", ErrBadPayload, err)
	}
	d.active = -1
	d.ApplyData(p)
	return nil
}

func (d *DoF) ActivePresetName() string {
	return presetName(d.library, d.active, func(p *DoFPreset) string { return p.Name })
}

// PresetNames lists the library, "" for empty slots
func (d *DoF) PresetNames() []string {
	names := make([]string, LibrarySize)
	for i, p := range d.library {
		if p != nil {
			names[i] = p.Name
		}
	}
	return names
}
