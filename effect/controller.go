// Package effect holds the parameter state of the post-processing effects
// and the row table that dispatches grid presses to them. Nothing here
// renders; a renderer reads the live params.
package effect

import (
	"errors"
	"math/rand/v2"
	"time"

	"go-vjgrid/transition"
)

var (
	ErrInvalidRow = errors.New("effect: row must be 2, 3 or 4")
	ErrBadPayload = errors.New("effect: bad payload")
)

// LibrarySize is the number of preset slots per effect (grid columns 1-7)
const LibrarySize = 7

// Controller is the contract every effect row implements
type Controller interface {
	ApplyPreset(slot int) // out of range or empty slot is a no-op
	Randomize()
	CaptureState(name string) string
	EffectTypeName() string
}

// Restorer applies a payload previously produced by CaptureState
type Restorer interface {
	Restore(payload string) error
}

// Describer is implemented by controllers that can report their preset for display
type Describer interface {
	ActivePreset() int // -1 after randomize or restore
	ActivePresetName() string
	PresetNames() []string
}

// Intensifier is implemented by controllers with a primary intensity param
type Intensifier interface {
	Intensity() float64
}

// Options configures a controller. Duration <= 0 applies presets instantly.
type Options struct {
	Duration time.Duration
	Ease     transition.Ease
	Rand     *rand.Rand
}

// params is the plumbing shared by every controller: one transition group per
// tweened param, named "<type>/<param>".
type params struct {
	typeName string
	sched    *transition.Scheduler
	opts     Options
	active   int
	tweened  []*transition.Param
}

func newParams(typeName string, sched *transition.Scheduler, opts Options) params {
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>17))
	}
	if opts.Ease == nil {
		opts.Ease = transition.OutQuad
	}
	return params{typeName: typeName, sched: sched, opts: opts, active: -1}
}

// param registers a tweened float
func (b *params) param(name string, initial float64) *transition.Param {
	p := transition.NewParam(name, initial)
	b.tweened = append(b.tweened, p)
	return p
}

func (b *params) group(p *transition.Param) string {
	return b.typeName + "/" + p.Name()
}

func (b *params) tween(p *transition.Param, v float64) {
	b.sched.StartEased(b.group(p), p, v, b.opts.Duration, b.opts.Ease)
}

func (b *params) cancelAll() {
	for _, p := range b.tweened {
		b.sched.Cancel(b.group(p))
	}
}

// Groups lists the transition group ids this controller owns
func (b *params) Groups() []string {
	out := make([]string, len(b.tweened))
	for i, p := range b.tweened {
		out[i] = b.group(p)
	}
	return out
}

func (b *params) EffectTypeName() string { return b.typeName }
func (b *params) ActivePreset() int      { return b.active }

func presetName[T any](library [LibrarySize]*T, active int, name func(*T) string) string {
	if active < 0 || active >= LibrarySize || library[active] == nil {
		return "None"
	}
	return name(library[active])
}
