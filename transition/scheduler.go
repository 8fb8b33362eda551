// Package transition owns every in-flight parameter tween. It is driven from
// the tick goroutine only and does no locking of its own.
package transition

import (
	"sort"
	"time"
)

// Handle is one scheduled tween. At most one exists per group.
type Handle struct {
	Group     string
	Target    *Param
	Start     float64
	End       float64
	StartTime time.Duration
	Duration  time.Duration
	Ease      Ease
}

// Scheduler keeps its own clock so tests and the tick loop agree on time
type Scheduler struct {
	now     time.Duration
	handles map[string]*Handle
}

func NewScheduler() *Scheduler {
	return &Scheduler{handles: make(map[string]*Handle)}
}

// Now is the scheduler clock: the sum of every Advance so far
func (s *Scheduler) Now() time.Duration { return s.now }

// SetInstant writes v immediately. It does not touch any running tween.
func (s *Scheduler) SetInstant(p *Param, v float64) {
	p.write(v)
}

// StartTransition tweens p to end with OutQuad easing
func (s *Scheduler) StartTransition(group string, p *Param, end float64, dur time.Duration) {
	s.StartEased(group, p, end, dur, OutQuad)
}

// StartEased replaces whatever runs on group (its remaining interpolation is
// discarded) and starts from the current value. dur <= 0 writes end now.
func (s *Scheduler) StartEased(group string, p *Param, end float64, dur time.Duration, ease Ease) {
	delete(s.handles, group)

	if dur <= 0 {
		p.write(end)
		return
	}
	if ease == nil {
		ease = OutQuad
	}

	s.handles[group] = &Handle{
		Group:     group,
		Target:    p,
		Start:     p.Value(),
		End:       end,
		StartTime: s.now,
		Duration:  dur,
		Ease:      ease,
	}
}

// Advance moves the clock by dt and writes every live handle. Finished
// handles land exactly on their end value and are retired.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt > 0 {
		s.now += dt
	}

	for group, h := range s.handles {
		f := clamp01(float64(s.now-h.StartTime) / float64(h.Duration))
		if f >= 1 {
			h.Target.write(h.End)
			delete(s.handles, group)
			continue
		}
		h.Target.write(lerp(h.Start, h.End, h.Ease(f)))
	}
}

// Cancel drops the tween on group, leaving the target where it is.
// Cancelling an absent group is a no-op.
func (s *Scheduler) Cancel(group string) {
	delete(s.handles, group)
}

// Active is the number of live handles
func (s *Scheduler) Active() int {
	return len(s.handles)
}

// Pending returns a copy of the handle on group, if any
func (s *Scheduler) Pending(group string) (Handle, bool) {
	h, ok := s.handles[group]
	if !ok {
		return Handle{}, false
	}
	return *h, true
}

// Groups lists live group ids, sorted
func (s *Scheduler) Groups() []string {
	out := make([]string, 0, len(s.handles))
	for g := range s.handles {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
