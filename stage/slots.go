package stage

import (
	"fmt"
	"time"

	"go-vjgrid/debug"
	"go-vjgrid/transition"
)

const NumSlots = 24

// SlotConfig configures one scene slot. Momentary slots follow the pad;
// toggle slots flip on each press.
type SlotConfig struct {
	Name      string        `yaml:"name"`
	Momentary bool          `yaml:"momentary"`
	Duration  time.Duration `yaml:"duration"`
}

func DefaultSlots() []SlotConfig {
	out := make([]SlotConfig, NumSlots)
	for i := range out {
		out[i] = SlotConfig{Name: fmt.Sprintf("Slot %d", i+1), Duration: 300 * time.Millisecond}
	}
	return out
}

// Slots shows and hides scene content by tweening a visibility scale.
// Hardware can repeat edges, so each slot tracks whether its pad is held.
type Slots struct {
	sched  *transition.Scheduler
	config []SlotConfig
	on     []bool
	held   []bool
	scale  []*transition.Param
}

func NewSlots(sched *transition.Scheduler, config []SlotConfig) *Slots {
	defaults := DefaultSlots()
	for i := range defaults {
		if i < len(config) && config[i].Name != "" {
			defaults[i] = config[i]
		}
	}

	s := &Slots{
		sched:  sched,
		config: defaults,
		on:     make([]bool, NumSlots),
		held:   make([]bool, NumSlots),
		scale:  make([]*transition.Param, NumSlots),
	}
	for i := range s.scale {
		s.scale[i] = transition.NewParam(fmt.Sprintf("slot/%d", i+1), 0)
	}
	return s
}

// Handle applies one edge for slot (1-24). Returns whether the slot changed.
func (s *Slots) Handle(slot int, pressed bool) bool {
	i := slot - 1
	if i < 0 || i >= NumSlots {
		return false
	}

	wasHeld := s.held[i]
	s.held[i] = pressed

	cfg := s.config[i]
	if cfg.Momentary {
		if s.on[i] == pressed {
			return false
		}
		s.on[i] = pressed
	} else {
		// toggle on a fresh press only
		if !pressed || wasHeld {
			return false
		}
		s.on[i] = !s.on[i]
	}

	target := 0.0
	if s.on[i] {
		target = 1
	}
	s.sched.StartEased(s.scale[i].Name(), s.scale[i], target, cfg.Duration, transition.InOutQuad)
	debug.Log("stage", "slot %d %s on=%v", slot, cfg.Name, s.on[i])
	return true
}

func (s *Slots) On(slot int) bool {
	if slot < 1 || slot > NumSlots {
		return false
	}
	return s.on[slot-1]
}

func (s *Slots) Scale(slot int) float64 {
	if slot < 1 || slot > NumSlots {
		return 0
	}
	return s.scale[slot-1].Value()
}

func (s *Slots) States() []bool {
	out := make([]bool, NumSlots)
	copy(out, s.on)
	return out
}

func (s *Slots) Config(slot int) SlotConfig {
	return s.config[slot-1]
}
