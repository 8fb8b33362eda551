package stage

import (
	"testing"
	"time"

	"go-vjgrid/transition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameras(t *testing.T) {
	c := NewCameras()
	assert.Equal(t, 1, c.Active())
	assert.Equal(t, "Wide", c.ActiveName())

	c.Select(7)
	assert.Equal(t, "Figure8", c.ActiveName())

	c.Select(0)
	c.Select(9)
	assert.Equal(t, 7, c.Active())
}

func TestLights_ToggleFades(t *testing.T) {
	sched := transition.NewScheduler()
	l := NewLights(sched, []LightGroup{{Name: "Key", Intensity: 0.8, Duration: 100 * time.Millisecond}})

	l.Toggle(1)
	assert.True(t, l.On(1))
	_, ok := sched.Pending("light/1")
	require.True(t, ok)

	sched.Advance(time.Second)
	assert.Equal(t, 0.8, l.Intensity(1))

	l.Toggle(1)
	sched.Advance(time.Second)
	assert.False(t, l.On(1))
	assert.Equal(t, 0.0, l.Intensity(1))

	// defaults fill the rest
	assert.Equal(t, "Spot", l.Group(8).Name)

	l.Toggle(0)
	l.Toggle(9)
	assert.Equal(t, 0, sched.Active())
}

func TestLights_ToggleSupersedesRunningFade(t *testing.T) {
	sched := transition.NewScheduler()
	l := NewLights(sched, nil)

	l.Toggle(2)
	sched.Advance(50 * time.Millisecond)
	l.Toggle(2)
	assert.Equal(t, 1, sched.Active())

	sched.Advance(time.Second)
	assert.Equal(t, 0.0, l.Intensity(2))
}

func TestSlots_ToggleIgnoresRepeatedPress(t *testing.T) {
	sched := transition.NewScheduler()
	s := NewSlots(sched, nil)

	assert.True(t, s.Handle(17, true))
	assert.True(t, s.On(17))

	// bouncing hardware: second press with no release in between
	assert.False(t, s.Handle(17, true))
	assert.True(t, s.On(17))

	assert.False(t, s.Handle(17, false))
	assert.True(t, s.On(17))

	assert.True(t, s.Handle(17, true))
	assert.False(t, s.On(17))

	sched.Advance(time.Second)
	assert.Equal(t, 0.0, s.Scale(17))
}

func TestSlots_Momentary(t *testing.T) {
	sched := transition.NewScheduler()
	cfg := DefaultSlots()
	cfg[0].Momentary = true
	s := NewSlots(sched, cfg)

	assert.True(t, s.Handle(1, true))
	assert.False(t, s.Handle(1, true))
	sched.Advance(time.Second)
	assert.Equal(t, 1.0, s.Scale(1))

	assert.True(t, s.Handle(1, false))
	assert.False(t, s.Handle(1, false))
	assert.False(t, s.On(1))
	sched.Advance(time.Second)
	assert.Equal(t, 0.0, s.Scale(1))
}

func TestSlots_OutOfRange(t *testing.T) {
	s := NewSlots(transition.NewScheduler(), nil)
	assert.False(t, s.Handle(0, true))
	assert.False(t, s.Handle(25, true))
	assert.False(t, s.On(25))
	assert.Len(t, s.States(), NumSlots)
}
