package stage

import (
	"fmt"
	"time"

	"go-vjgrid/debug"
	"go-vjgrid/transition"
)

const NumLightGroups = 8

// LightGroup configures one row 5 pad
type LightGroup struct {
	Name      string        `yaml:"name"`
	Intensity float64       `yaml:"intensity"`
	Duration  time.Duration `yaml:"duration"`
}

func DefaultLightGroups() []LightGroup {
	names := []string{"Key", "Fill", "Rim", "Back", "Strobe", "Wash L", "Wash R", "Spot"}
	out := make([]LightGroup, NumLightGroups)
	for i, n := range names {
		out[i] = LightGroup{Name: n, Intensity: 1, Duration: 200 * time.Millisecond}
	}
	return out
}

// Lights toggles eight light groups, fading each group's intensity
type Lights struct {
	sched     *transition.Scheduler
	groups    []LightGroup
	on        []bool
	intensity []*transition.Param
}

// NewLights fills missing or unnamed entries of groups from the defaults
func NewLights(sched *transition.Scheduler, groups []LightGroup) *Lights {
	defaults := DefaultLightGroups()
	for i := range defaults {
		if i < len(groups) && groups[i].Name != "" {
			defaults[i] = groups[i]
		}
	}

	l := &Lights{
		sched:     sched,
		groups:    defaults,
		on:        make([]bool, NumLightGroups),
		intensity: make([]*transition.Param, NumLightGroups),
	}
	for i := range l.intensity {
		l.intensity[i] = transition.NewParam(fmt.Sprintf("light/%d", i+1), 0)
	}
	return l
}

// Toggle flips the group for col (1-based) and fades toward its target or zero
func (l *Lights) Toggle(col int) {
	i := col - 1
	if i < 0 || i >= NumLightGroups {
		return
	}

	l.on[i] = !l.on[i]
	target := 0.0
	if l.on[i] {
		target = l.groups[i].Intensity
	}
	l.sched.StartTransition(l.intensity[i].Name(), l.intensity[i], target, l.groups[i].Duration)
	debug.Log("stage", "light %s on=%v", l.groups[i].Name, l.on[i])
}

func (l *Lights) On(col int) bool {
	if col < 1 || col > NumLightGroups {
		return false
	}
	return l.on[col-1]
}

func (l *Lights) Intensity(col int) float64 {
	if col < 1 || col > NumLightGroups {
		return 0
	}
	return l.intensity[col-1].Value()
}

// States returns the on/off state of every group
func (l *Lights) States() []bool {
	out := make([]bool, NumLightGroups)
	copy(out, l.on)
	return out
}

func (l *Lights) Group(col int) LightGroup {
	return l.groups[col-1]
}
