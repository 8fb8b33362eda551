package effect

import (
	"encoding/json"
	"fmt"
	"time"

	"go-vjgrid/transition"
)

const DefaultChromaticDuration = 250 * time.Millisecond

type DisplacementSource int

const (
	SourceLuminance DisplacementSource = iota
	SourceDepth
	SourceExternalMap
)

type ColorMode int

const (
	ColorRGB ColorMode = iota
	ColorCustomPalette
)

type ChannelBlendMode int

const (
	BlendAdditive ChannelBlendMode = iota
	BlendScreen
)

// Color is linear RGBA, 0-1
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

var (
	Red   = Color{R: 1, A: 1}
	Green = Color{G: 1, A: 1}
	Blue  = Color{B: 1, A: 1}
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ChromaticPreset is one chromatic displacement parameter set.
// DisplacementAmount is the intensity.
type ChromaticPreset struct {
	Name    string `json:"presetName"`
	Enabled bool   `json:"enabled"`

	DisplacementAmount float64            `json:"displacementAmount"`
	DisplacementSource DisplacementSource `json:"displacementSource"`
	DisplacementScale  float64            `json:"displacementScale"`
	DepthInfluence     float64            `json:"depthInfluence"`

	BlurRadius float64 `json:"blurRadius"`

	ChannelAAmount float64 `json:"channelAAmount"`
	ChannelAAngle  float64 `json:"channelAAngle"`
	ChannelBAmount float64 `json:"channelBAmount"`
	ChannelBAngle  float64 `json:"channelBAngle"`
	ChannelCAmount float64 `json:"channelCAmount"`
	ChannelCAngle  float64 `json:"channelCAngle"`

	ColorMode        ColorMode        `json:"colorMode"`
	ColorA           Color            `json:"colorA"`
	ColorB           Color            `json:"colorB"`
	ColorC           Color            `json:"colorC"`
	ChannelBlendMode ChannelBlendMode `json:"channelBlendMode"`

	UseObjectMask bool    `json:"useObjectMask"`
	MaskLayer     int     `json:"maskLayer"`
	MaskDilation  float64 `json:"maskDilation"`
	MaskFeather   float64 `json:"maskFeather"`

	UseRadialFalloff bool    `json:"useRadialFalloff"`
	Center           Vec2    `json:"center"`
	FalloffStart     float64 `json:"falloffStart"`
	FalloffEnd       float64 `json:"falloffEnd"`
	FalloffPower     float64 `json:"falloffPower"`
}

// NewChromaticPreset returns a preset with the field defaults a payload
// omitting them should decode to
func NewChromaticPreset(name string) ChromaticPreset {
	return ChromaticPreset{
		Name:         name,
		ColorA:       Red,
		ColorB:       Green,
		ColorC:       Blue,
		Center:       Vec2{X: 0.5, Y: 0.5},
		FalloffPower: 1,
	}
}

type ChromaticBounds struct {
	DisplacementAmount Range
	DisplacementScale  Range
	ChannelAmount      Range
	ChannelAngle       Range
	DepthInfluence     Range
	BlurRadius         Range
	FalloffStart       Range
	FalloffEnd         Range
	MaskDilation       Range
	MaskFeather        Range
	FalloffPower       Range
}

func DefaultChromaticBounds() ChromaticBounds {
	return ChromaticBounds{
		DisplacementAmount: R(0.01, 0.08),
		DisplacementScale:  R(0.5, 5),
		ChannelAmount:      R(-2, 2),
		ChannelAngle:       R(-180, 180),
		DepthInfluence:     R(0, 2),
		BlurRadius:         R(0, 10),
		FalloffStart:       R(0, 0.5),
		FalloffEnd:         R(0.5, 1.5),
		MaskDilation:       R(2, 16),
		MaskFeather:        R(1, 8),
		FalloffPower:       R(0.5, 3),
	}
}

func DefaultChromaticLibrary() [LibrarySize]*ChromaticPreset {
	off := NewChromaticPreset("Off")

	subtle := NewChromaticPreset("Subtle RGB")
	subtle.Enabled = true
	subtle.DisplacementAmount = 0.015
	subtle.DisplacementScale = 1
	subtle.ChannelAAmount, subtle.ChannelBAmount, subtle.ChannelCAmount = 1, 0, -1

	depth := NewChromaticPreset("Depth Split")
	depth.Enabled = true
	depth.DisplacementSource = SourceDepth
	depth.DisplacementAmount = 0.04
	depth.DisplacementScale = 2
	depth.DepthInfluence = 1.5
	depth.ChannelAAmount, depth.ChannelAAngle = 1.5, 0
	depth.ChannelBAmount, depth.ChannelBAngle = 1.5, 120
	depth.ChannelCAmount, depth.ChannelCAngle = 1.5, -120

	palette := NewChromaticPreset("Palette Burn")
	palette.Enabled = true
	palette.DisplacementAmount = 0.06
	palette.DisplacementScale = 3.5
	palette.BlurRadius = 4
	palette.ColorMode = ColorCustomPalette
	palette.ColorA = Color{R: 1, G: 0.2, B: 0.6, A: 1}
	palette.ColorB = Color{R: 0.1, G: 0.9, B: 1, A: 1}
	palette.ColorC = Color{R: 1, G: 0.85, B: 0.1, A: 1}
	palette.ChannelBlendMode = BlendScreen
	palette.ChannelAAmount, palette.ChannelBAmount, palette.ChannelCAmount = 2, -1.5, 1

	radial := NewChromaticPreset("Radial")
	radial.Enabled = true
	radial.DisplacementAmount = 0.05
	radial.DisplacementScale = 1.5
	radial.UseRadialFalloff = true
	radial.FalloffStart = 0.2
	radial.FalloffEnd = 1
	radial.FalloffPower = 2
	radial.ChannelAAmount, radial.ChannelCAmount = 1, -1

	masked := NewChromaticPreset("Object Mask")
	masked.Enabled = true
	masked.DisplacementAmount = 0.03
	masked.DisplacementScale = 2.5
	masked.UseObjectMask = true
	masked.MaskLayer = 1 << 8
	masked.MaskDilation = 6
	masked.MaskFeather = 3
	masked.ChannelAAmount, masked.ChannelBAmount = -1, 1

	return [LibrarySize]*ChromaticPreset{&off, &subtle, &depth, &palette, &radial, &masked, nil}
}

// Chromatic controls the chromatic displacement pass. Channel amounts and
// angles change the character of the effect so they snap; the rest fades.
type Chromatic struct {
	params
	library [LibrarySize]*ChromaticPreset
	bounds  ChromaticBounds

	displacementSource *transition.Override[DisplacementSource]
	colorMode          *transition.Override[ColorMode]
	channelBlendMode   *transition.Override[ChannelBlendMode]
	useObjectMask      *transition.Override[bool]
	maskLayer          *transition.Override[int]
	useRadialFalloff   *transition.Override[bool]
	center             *transition.Override[Vec2]
	colorA             *transition.Override[Color]
	colorB             *transition.Override[Color]
	colorC             *transition.Override[Color]
	channelAmounts     [3]*transition.Override[float64]
	channelAngles      [3]*transition.Override[float64]

	displacementAmount *transition.Param
	displacementScale  *transition.Param
	blurRadius         *transition.Param
	depthInfluence     *transition.Param
	maskDilation       *transition.Param
	maskFeather        *transition.Param
	falloffStart       *transition.Param
	falloffEnd         *transition.Param
	falloffPower       *transition.Param
}

func NewChromatic(sched *transition.Scheduler, opts Options) *Chromatic {
	def := NewChromaticPreset("")
	c := &Chromatic{
		params:             newParams("Chromatic", sched, opts),
		library:            DefaultChromaticLibrary(),
		bounds:             DefaultChromaticBounds(),
		displacementSource: transition.NewOverride(SourceLuminance),
		colorMode:          transition.NewOverride(ColorRGB),
		channelBlendMode:   transition.NewOverride(BlendAdditive),
		useObjectMask:      transition.NewOverride(false),
		maskLayer:          transition.NewOverride(0),
		useRadialFalloff:   transition.NewOverride(false),
		center:             transition.NewOverride(def.Center),
		colorA:             transition.NewOverride(def.ColorA),
		colorB:             transition.NewOverride(def.ColorB),
		colorC:             transition.NewOverride(def.ColorC),
	}
	for i := range c.channelAmounts {
		c.channelAmounts[i] = transition.NewOverride(0.0)
		c.channelAngles[i] = transition.NewOverride(0.0)
	}
	c.displacementAmount = c.param("displacementAmount", 0)
	c.displacementScale = c.param("displacementScale", 1)
	c.blurRadius = c.param("blurRadius", 0)
	c.depthInfluence = c.param("depthInfluence", 0)
	c.maskDilation = c.param("maskDilation", 0)
	c.maskFeather = c.param("maskFeather", 0)
	c.falloffStart = c.param("falloffStart", 0)
	c.falloffEnd = c.param("falloffEnd", 1)
	c.falloffPower = c.param("falloffPower", def.FalloffPower)
	return c
}

func (c *Chromatic) SetLibrary(lib [LibrarySize]*ChromaticPreset) { c.library = lib }

func (c *Chromatic) Bounds() ChromaticBounds { return c.bounds }

// Intensity is the live displacement amount
func (c *Chromatic) Intensity() float64 { return c.displacementAmount.Value() }

func (c *Chromatic) ApplyPreset(slot int) {
	if slot < 0 || slot >= LibrarySize || c.library[slot] == nil {
		return
	}
	c.active = slot
	c.ApplyData(*c.library[slot])
}

func (c *Chromatic) ApplyData(p ChromaticPreset) {
	c.cancelAll()

	if !p.Enabled {
		c.tween(c.displacementAmount, 0)
		return
	}

	c.displacementSource.Set(p.DisplacementSource)
	c.colorMode.Set(p.ColorMode)
	c.channelBlendMode.Set(p.ChannelBlendMode)
	c.useObjectMask.Set(p.UseObjectMask)
	c.maskLayer.Set(p.MaskLayer)
	c.useRadialFalloff.Set(p.UseRadialFalloff)
	c.center.Set(p.Center)
	c.colorA.Set(p.ColorA)
	c.colorB.Set(p.ColorB)
	c.colorC.Set(p.ColorC)

	amounts := [3]float64{p.ChannelAAmount, p.ChannelBAmount, p.ChannelCAmount}
	angles := [3]float64{p.ChannelAAngle, p.ChannelBAngle, p.ChannelCAngle}
	for i := range amounts {
		c.channelAmounts[i].Set(amounts[i])
		c.channelAngles[i].Set(angles[i])
	}

	c.tween(c.displacementAmount, p.DisplacementAmount)
	c.tween(c.displacementScale, p.DisplacementScale)
	c.tween(c.blurRadius, p.BlurRadius)
	c.tween(c.depthInfluence, p.DepthInfluence)
	c.tween(c.maskDilation, p.MaskDilation)
	c.tween(c.maskFeather, p.MaskFeather)
	c.tween(c.falloffStart, p.FalloffStart)
	c.tween(c.falloffEnd, p.FalloffEnd)
	c.tween(c.falloffPower, p.FalloffPower)
}

func (c *Chromatic) randomPreset() ChromaticPreset {
	rng, b := c.opts.Rand, c.bounds

	p := NewChromaticPreset("Random")
	p.Enabled = true
	p.DisplacementAmount = b.DisplacementAmount.Draw(rng)
	p.DisplacementSource = SourceLuminance
	p.DisplacementScale = b.DisplacementScale.Draw(rng)
	p.DepthInfluence = b.DepthInfluence.Draw(rng)
	p.BlurRadius = b.BlurRadius.Draw(rng)
	p.ChannelAAmount = b.ChannelAmount.Draw(rng)
	p.ChannelBAmount = b.ChannelAmount.Draw(rng)
	p.ChannelCAmount = b.ChannelAmount.Draw(rng)
	p.ChannelAAngle = b.ChannelAngle.Draw(rng)
	p.ChannelBAngle = b.ChannelAngle.Draw(rng)
	p.ChannelCAngle = b.ChannelAngle.Draw(rng)
	p.ColorMode = ColorRGB
	if rng.Float64() > 0.7 {
		p.ChannelBlendMode = BlendScreen
	}
	p.UseRadialFalloff = rng.Float64() > 0.5
	p.FalloffStart = b.FalloffStart.Draw(rng)
	p.FalloffEnd = b.FalloffEnd.Draw(rng)
	p.FalloffPower = b.FalloffPower.Draw(rng)
	p.MaskDilation = b.MaskDilation.Draw(rng)
	p.MaskFeather = b.MaskFeather.Draw(rng)
	return p
}

func (c *Chromatic) Randomize() {
	p := c.randomPreset()
	c.active = -1
	c.ApplyData(p)
}

func (c *Chromatic) State(name string) ChromaticPreset {
	return ChromaticPreset{
		Name:               name,
		Enabled:            c.displacementAmount.Value() > 0,
		DisplacementAmount: c.displacementAmount.Value(),
		DisplacementSource: c.displacementSource.Get(),
		DisplacementScale:  c.displacementScale.Value(),
		DepthInfluence:     c.depthInfluence.Value(),
		BlurRadius:         c.blurRadius.Value(),
		ChannelAAmount:     c.channelAmounts[0].Get(),
		ChannelAAngle:      c.channelAngles[0].Get(),
		ChannelBAmount:     c.channelAmounts[1].Get(),
		ChannelBAngle:      c.channelAngles[1].Get(),
		ChannelCAmount:     c.channelAmounts[2].Get(),
		ChannelCAngle:      c.channelAngles[2].Get(),
		ColorMode:          c.colorMode.Get(),
		ColorA:             c.colorA.Get(),
		ColorB:             c.colorB.Get(),
		ColorC:             c.colorC.Get(),
		ChannelBlendMode:   c.channelBlendMode.Get(),
		UseObjectMask:      c.useObjectMask.Get(),
		MaskLayer:          c.maskLayer.Get(),
		MaskDilation:       c.maskDilation.Value(),
		MaskFeather:        c.maskFeather.Value(),
		UseRadialFalloff:   c.useRadialFalloff.Get(),
		Center:             c.center.Get(),
		FalloffStart:       c.falloffStart.Value(),
		FalloffEnd:         c.falloffEnd.Value(),
		FalloffPower:       c.falloffPower.Value(),
	}
}

func (c *Chromatic) CaptureState(name string) string {
	data, _ := json.Marshal(c.State(name))
	return string(data)
}

func (c *Chromatic) Restore(payload string) error {
	p := NewChromaticPreset("")
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return fmt.Errorf("%w: chromatic: %v", ErrBadPayload, err)
	}
	c.active = -1
	c.ApplyData(p)
	return nil
}

func (c *Chromatic) ActivePresetName() string {
	return presetName(c.library, c.active, func(p *ChromaticPreset) string { return p.Name })
}

// PresetNames lists the library, "" for empty slots
func (c *Chromatic) PresetNames() []string {
	names := make([]string, LibrarySize)
	for i, p := range c.library {
		if p != nil {
			names[i] = p.Name
		}
	}
	return names
}
