package rig

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-vjgrid/config"
	"go-vjgrid/effect"
	"go-vjgrid/metrics"
	"go-vjgrid/midi"
	"go-vjgrid/snapshot"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu   sync.Mutex
	data []byte
}

func (m *memBackend) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, snapshot.ErrNotFound
	}
	return m.data, nil
}

func (m *memBackend) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memBackend) Close() error { return nil }

type fakeController struct {
	mu      sync.Mutex
	events  chan midi.RawEvent
	batches [][]midi.LEDUpdate
}

func newFakeController() *fakeController {
	return &fakeController{events: make(chan midi.RawEvent, 16)}
}

func (f *fakeController) ID() string                   { return "fake" }
func (f *fakeController) Name() string                 { return "Fake Fighter" }
func (f *fakeController) Type() midi.ControllerType    { return midi.ControllerFighter64 }
func (f *fakeController) Events() <-chan midi.RawEvent { return f.events }
func (f *fakeController) Close() error                 { return nil }

func (f *fakeController) SetLEDBatch(updates []midi.LEDUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]midi.LEDUpdate(nil), updates...))
	return nil
}

func (f *fakeController) lastBatch() []midi.LEDUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		return nil
	}
	return f.batches[len(f.batches)-1]
}

func (f *fakeController) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func newTestRig(t *testing.T) (*Rig, *metrics.Metrics) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Effects.Seed = 7
	m := metrics.New()
	return New(cfg, &memBackend{}, m), m
}

func press(row, col int) midi.RawEvent {
	return midi.RawEvent{Code: midi.ToCode(row, col), Edge: midi.Press, Intensity: 1}
}

func release(row, col int) midi.RawEvent {
	return midi.RawEvent{Code: midi.ToCode(row, col), Edge: midi.Release}
}

func TestHandleInput_AppliedOnTickInOrder(t *testing.T) {
	r, m := newTestRig(t)

	require.True(t, r.HandleInput(press(2, 2)))
	require.True(t, r.HandleInput(press(2, 4)))

	// nothing happens until the tick goroutine drains the queue
	assert.Equal(t, -1, r.DoF.ActivePreset())

	r.Tick(0)
	assert.Equal(t, 3, r.DoF.ActivePreset())
	assert.Equal(t, effect.RowDoF, r.Table.ActiveRow())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RoutedEvents.WithLabelValues("EffectPresetSelect")))

	st := r.Status()
	assert.Equal(t, uint64(1), st.Ticks)
	require.Len(t, st.Effects, 3)
	assert.Equal(t, "DoF", st.Effects[0].Type)
	assert.Equal(t, 3, st.Effects[0].Preset)
}

func TestHandleInput_QueueFullDrops(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rig.QueueSize = 2
	m := metrics.New()
	r := New(cfg, &memBackend{}, m)

	assert.True(t, r.HandleInput(press(1, 2)))
	assert.True(t, r.HandleInput(press(1, 3)))
	assert.False(t, r.HandleInput(press(1, 4)))

	assert.Equal(t, uint64(1), r.Dropped())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedInputs))

	r.Tick(0)
	assert.Equal(t, 3, r.Cameras.Active())
	assert.Equal(t, uint64(1), r.Status().Dropped)

	// drained, accepting again
	assert.True(t, r.HandleInput(press(1, 4)))
}

func TestHandleInput_InvalidCode(t *testing.T) {
	r, m := newTestRig(t)

	r.HandleInput(midi.RawEvent{Code: 12, Edge: midi.Press})
	r.Tick(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidCodes))
	assert.Equal(t, uint64(1), r.Router.Dropped())
	assert.Equal(t, 1, r.Cameras.Active())
}

func TestTick_AdvancesTransitions(t *testing.T) {
	r, _ := newTestRig(t)

	r.HandleInput(press(5, 1))
	r.Tick(0)
	assert.True(t, r.Lights.On(1))
	assert.Equal(t, 0.0, r.Lights.Intensity(1))
	assert.Equal(t, 1, r.Status().Transitions)

	r.Tick(100 * time.Millisecond)
	mid := r.Lights.Intensity(1)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)

	r.Tick(150 * time.Millisecond)
	assert.Equal(t, 1.0, r.Lights.Intensity(1))
	assert.Equal(t, 0, r.Status().Transitions)
}

func TestSceneSlots_ToggleOnPress(t *testing.T) {
	r := New(config.DefaultConfig(), &memBackend{}, nil)

	r.HandleInput(press(6, 1))
	r.HandleInput(release(6, 1))
	r.Tick(0)
	assert.True(t, r.Slots.On(1))

	r.HandleInput(press(8, 8))
	r.Tick(0)
	assert.True(t, r.Slots.On(24))
	assert.Equal(t, []bool{true}, r.Status().Slots[:1])
}

func TestSaveBrowseConfirm(t *testing.T) {
	r, m := newTestRig(t)

	r.HandleInput(press(2, 2))
	r.Save("look")
	r.Tick(time.Second)

	st := r.Status()
	assert.Equal(t, 1, st.Snapshots)
	assert.Equal(t, "look", st.LastSaved)
	assert.False(t, st.Dirty)
	assert.Empty(t, st.LastError)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotsSaved))

	r.HandleInput(press(2, 1))
	r.Tick(time.Second)
	assert.Equal(t, 0, r.DoF.ActivePreset())

	r.BeginBrowse()
	r.Tick(0)
	st = r.Status()
	assert.True(t, st.Browsing)
	assert.Equal(t, []string{"look"}, st.View)
	assert.Equal(t, "look", st.Selected)

	r.Confirm()
	r.Tick(time.Second)
	assert.Equal(t, -1, r.DoF.ActivePreset())
	rec, ok := r.Store.Selected()
	require.True(t, ok)
	assert.JSONEq(t, rec.Payload, r.DoF.CaptureState(rec.Name))

	r.EndBrowse()
	r.Tick(0)
	assert.False(t, r.Status().Browsing)
	assert.Nil(t, r.Status().View)
}

func TestLoad_ReadsBackend(t *testing.T) {
	be := &memBackend{}
	cfg := config.DefaultConfig()
	first := New(cfg, be, nil)
	first.Save("kept")
	first.Tick(0)

	second := New(cfg, be, nil)
	second.Load(context.Background())
	assert.Equal(t, 1, second.Status().Snapshots)
	assert.Empty(t, second.Status().LastError)
}

func TestRandomizeAll(t *testing.T) {
	r, _ := newTestRig(t)
	r.HandleInput(press(3, 2))
	r.Tick(0)
	require.Equal(t, 1, r.PixelSort.ActivePreset())

	r.RandomizeAll()
	r.Tick(0)
	assert.Equal(t, -1, r.DoF.ActivePreset())
	assert.Equal(t, -1, r.PixelSort.ActivePreset())
	assert.Equal(t, -1, r.Chromatic.ActivePreset())
}

func TestRenderLEDs(t *testing.T) {
	r, _ := newTestRig(t)
	r.HandleInput(press(1, 3))
	r.HandleInput(press(3, 2))
	r.Tick(0)

	leds := r.RenderLEDs()
	byKey := make(map[[2]int]LEDState, len(leds))
	for _, led := range leds {
		byKey[[2]int{led.Row, led.Col}] = led
	}

	assert.Equal(t, colorCameraOn, byKey[[2]int{1, 3}].Color)
	assert.Equal(t, colorCamera, byKey[[2]int{1, 1}].Color)

	// active preset on the active row pulses
	ps := byKey[[2]int{3, 2}]
	assert.Equal(t, midi.ChannelPulse, ps.Channel)
	assert.Equal(t, colorRandomize, byKey[[2]int{3, 8}].Color)

	// DoF has five presets, the rest of the row stays dark
	_, ok := byKey[[2]int{2, 6}]
	assert.False(t, ok)
	assert.Equal(t, uint8(0), byKey[[2]int{2, 1}].Channel)

	assert.Len(t, leds, 8+6+7+7+8+24)
}

func TestFlushLEDs_Diffs(t *testing.T) {
	r, _ := newTestRig(t)
	fc := newFakeController()
	r.SetController(fc)

	r.Tick(0)
	r.FlushLEDs()
	require.Equal(t, 1, fc.batchCount())
	assert.Len(t, fc.lastBatch(), 60)

	// nothing dirty, nothing sent
	r.FlushLEDs()
	assert.Equal(t, 1, fc.batchCount())

	// unchanged frame sends no batch
	r.Tick(0)
	r.FlushLEDs()
	assert.Equal(t, 1, fc.batchCount())

	r.HandleInput(press(1, 2))
	r.Tick(0)
	r.FlushLEDs()
	require.Equal(t, 2, fc.batchCount())
	batch := fc.lastBatch()
	assert.Len(t, batch, 2)
	for _, u := range batch {
		assert.Equal(t, 1, u.Row)
	}
}

func TestAttach_PumpsEvents(t *testing.T) {
	r, _ := newTestRig(t)
	fc := newFakeController()
	r.Attach(fc)

	fc.events <- press(1, 5)
	assert.Eventually(t, func() bool { return len(r.queue) == 1 }, time.Second, 5*time.Millisecond)
	r.Tick(0)
	assert.Equal(t, 5, r.Cameras.Active())

	r.Detach("other")
	r.mu.Lock()
	assert.NotNil(t, r.controller)
	r.mu.Unlock()

	r.Detach("fake")
	r.mu.Lock()
	assert.Nil(t, r.controller)
	r.mu.Unlock()
	close(fc.events)
}

func TestRun_StopsOnCancel(t *testing.T) {
	r, _ := newTestRig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	r.HandleInput(press(1, 7))
	assert.Eventually(t, func() bool { return r.Status().Camera == 7 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
