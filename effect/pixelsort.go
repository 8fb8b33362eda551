package effect

import (
	"encoding/json"
	"fmt"
	"time"

	"go-vjgrid/transition"
)

const DefaultPixelSortDuration = 250 * time.Millisecond

type SortAxis int

const (
	Horizontal SortAxis = iota
	Vertical
	BothAxes
)

func (a SortAxis) String() string {
	switch a {
	case Vertical:
		return "Vertical"
	case BothAxes:
		return "Both"
	}
	return "Horizontal"
}

type PixelProperty int

const (
	Luminance PixelProperty = iota
	Hue
	Saturation
	Brightness
)

func (p PixelProperty) String() string {
	return [...]string{"Luminance", "Hue", "Saturation", "Brightness"}[p&3]
}

type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// PixelSortPreset is one pixel sort parameter set. Strength is the
// intensity: a disabled preset fades it to zero.
type PixelSortPreset struct {
	Name          string        `json:"presetName"`
	Enabled       bool          `json:"enabled"`
	Strength      float64       `json:"strength"`
	SortAxis      SortAxis      `json:"sortAxis"`
	ThresholdMode PixelProperty `json:"thresholdMode"`
	ThresholdLow  float64       `json:"thresholdLow"`
	ThresholdHigh float64       `json:"thresholdHigh"`
	SortMode      PixelProperty `json:"sortMode"`
	SortOrder     SortOrder     `json:"sortOrder"`
	MaxSpanLength int           `json:"maxSpanLength"`
}

type PixelSortBounds struct {
	Strength      Range
	ThresholdLow  Range
	ThresholdHigh Range
	MaxSpanLength Range
}

func DefaultPixelSortBounds() PixelSortBounds {
	return PixelSortBounds{
		Strength:      R(0.3, 1),
		ThresholdLow:  R(0, 0.4),
		ThresholdHigh: R(0.5, 1),
		MaxSpanLength: R(0, 960),
	}
}

func DefaultPixelSortLibrary() [LibrarySize]*PixelSortPreset {
	return [LibrarySize]*PixelSortPreset{
		{Name: "Off", Enabled: false},
		{Name: "Subtle", Enabled: true, Strength: 0.35, SortAxis: Horizontal, ThresholdMode: Luminance, ThresholdLow: 0.3, ThresholdHigh: 0.8, SortMode: Luminance, MaxSpanLength: 120},
		{Name: "Melt", Enabled: true, Strength: 0.8, SortAxis: Vertical, ThresholdMode: Brightness, ThresholdLow: 0.1, ThresholdHigh: 0.9, SortMode: Brightness, SortOrder: Descending, MaxSpanLength: 640},
		{Name: "Hue Streaks", Enabled: true, Strength: 0.7, SortAxis: Horizontal, ThresholdMode: Hue, ThresholdLow: 0.2, ThresholdHigh: 0.7, SortMode: Hue, MaxSpanLength: 400},
		{Name: "Crosshatch", Enabled: true, Strength: 0.6, SortAxis: BothAxes, ThresholdMode: Saturation, ThresholdLow: 0.25, ThresholdHigh: 0.75, SortMode: Saturation, MaxSpanLength: 240},
		{Name: "Full Sort", Enabled: true, Strength: 1, SortAxis: Horizontal, ThresholdMode: Luminance, ThresholdLow: 0, ThresholdHigh: 1, SortMode: Luminance, MaxSpanLength: 0},
		nil,
	}
}

// PixelSort controls the pixel sorting pass
type PixelSort struct {
	params
	library [LibrarySize]*PixelSortPreset
	bounds  PixelSortBounds

	sortAxis      *transition.Override[SortAxis]
	thresholdMode *transition.Override[PixelProperty]
	sortMode      *transition.Override[PixelProperty]
	sortOrder     *transition.Override[SortOrder]
	maxSpanLength *transition.Override[int]

	strength      *transition.Param
	thresholdLow  *transition.Param
	thresholdHigh *transition.Param
}

func NewPixelSort(sched *transition.Scheduler, opts Options) *PixelSort {
	ps := &PixelSort{
		params:        newParams("PixelSort", sched, opts),
		library:       DefaultPixelSortLibrary(),
		bounds:        DefaultPixelSortBounds(),
		sortAxis:      transition.NewOverride(Horizontal),
		thresholdMode: transition.NewOverride(Luminance),
		sortMode:      transition.NewOverride(Luminance),
		sortOrder:     transition.NewOverride(Ascending),
		maxSpanLength: transition.NewOverride(0),
	}
	ps.strength = ps.param("strength", 0)
	ps.thresholdLow = ps.param("thresholdLow", 0.2)
	ps.thresholdHigh = ps.param("thresholdHigh", 0.8)
	return ps
}

func (ps *PixelSort) SetLibrary(lib [LibrarySize]*PixelSortPreset) { ps.library = lib }

func (ps *PixelSort) Bounds() PixelSortBounds { return ps.bounds }

// Intensity is the live strength
func (ps *PixelSort) Intensity() float64 { return ps.strength.Value() }

func (ps *PixelSort) ApplyPreset(slot int) {
	if slot < 0 || slot >= LibrarySize || ps.library[slot] == nil {
		return
	}
	ps.active = slot
	ps.ApplyData(*ps.library[slot])
}

func (ps *PixelSort) ApplyData(p PixelSortPreset) {
	ps.cancelAll()

	if !p.Enabled {
		ps.tween(ps.strength, 0)
		return
	}

	ps.sortAxis.Set(p.SortAxis)
	ps.thresholdMode.Set(p.ThresholdMode)
	ps.sortMode.Set(p.SortMode)
	ps.sortOrder.Set(p.SortOrder)
	ps.maxSpanLength.Set(p.MaxSpanLength)

	ps.tween(ps.strength, p.Strength)
	ps.tween(ps.thresholdLow, p.ThresholdLow)
	ps.tween(ps.thresholdHigh, p.ThresholdHigh)
}

func (ps *PixelSort) randomPreset() PixelSortPreset {
	rng, b := ps.opts.Rand, ps.bounds
	return PixelSortPreset{
		Name:          "Random",
		Enabled:       true,
		Strength:      b.Strength.Draw(rng),
		SortAxis:      SortAxis(rng.IntN(3)),
		ThresholdMode: PixelProperty(rng.IntN(4)),
		ThresholdLow:  b.ThresholdLow.Draw(rng),
		ThresholdHigh: b.ThresholdHigh.Draw(rng),
		SortMode:      PixelProperty(rng.IntN(4)),
		SortOrder:     SortOrder(rng.IntN(2)),
		MaxSpanLength: b.MaxSpanLength.DrawInt(rng),
	}
}

func (ps *PixelSort) Randomize() {
	p := ps.randomPreset()
	ps.active = -1
	ps.ApplyData(p)
}

func (ps *PixelSort) State(name string) PixelSortPreset {
	return PixelSortPreset{
		Name:          name,
		Enabled:       ps.strength.Value() > 0,
		Strength:      ps.strength.Value(),
		SortAxis:      ps.sortAxis.Get(),
		ThresholdMode: ps.thresholdMode.Get(),
		ThresholdLow:  ps.thresholdLow.Value(),
		ThresholdHigh: ps.thresholdHigh.Value(),
		SortMode:      ps.sortMode.Get(),
		SortOrder:     ps.sortOrder.Get(),
		MaxSpanLength: ps.maxSpanLength.Get(),
	}
}

func (ps *PixelSort) CaptureState(name string) string {
	data, _ := json.Marshal(ps.State(name))
	return string(data)
}

func (ps *PixelSort) Restore(payload string) error {
	var p PixelSortPreset
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return fmt.Errorf("%w: pixelsort: %v", ErrBadPayload, err)
	}
	ps.active = -1
	ps.ApplyData(p)
	return nil
}

func (ps *PixelSort) ActivePresetName() string {
	return presetName(ps.library, ps.active, func(p *PixelSortPreset) string { return p.Name })
}

// PresetNames lists the library, "" for empty slots
func (ps *PixelSort) PresetNames() []string {
	names := make([]string, LibrarySize)
	for i, p := range ps.library {
		if p != nil {
			names[i] = p.Name
		}
	}
	return names
}
