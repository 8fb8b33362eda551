// Package rig wires the grid, the effect rows, the stage and the snapshot
// store together and runs them on a single tick goroutine. Other goroutines
// (MIDI callbacks, the TUI) only enqueue work or read published Status.
package rig

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go-vjgrid/config"
	"go-vjgrid/debug"
	"go-vjgrid/effect"
	"go-vjgrid/metrics"
	"go-vjgrid/midi"
	"go-vjgrid/router"
	"go-vjgrid/snapshot"
	"go-vjgrid/stage"
	"go-vjgrid/transition"
)

// Rig owns all show state
type Rig struct {
	cfg     *config.Config
	metrics *metrics.Metrics

	Router    *router.Router
	Table     *effect.Table
	Scheduler *transition.Scheduler
	Store     *snapshot.Store
	Cameras   *stage.Cameras
	Lights    *stage.Lights
	Slots     *stage.Slots

	DoF       *effect.DoF
	PixelSort *effect.PixelSort
	Chromatic *effect.Chromatic

	queue   chan func()
	dropped atomic.Uint64
	ticks   uint64

	lastSaved string
	lastError string

	// LED rendering at fixed FPS
	mu         sync.Mutex
	controller midi.Controller
	leds       []LEDState
	ledDirty   bool
	prevLEDs   map[[2]int]LEDState

	statusMu sync.RWMutex
	status   Status

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// New builds a rig from cfg. m may be nil.
func New(cfg *config.Config, backend snapshot.Backend, m *metrics.Metrics) *Rig {
	if m == nil {
		m = metrics.New()
	}

	r := &Rig{
		cfg:        cfg,
		metrics:    m,
		Router:     router.New(),
		Table:      effect.NewTable(),
		Scheduler:  transition.NewScheduler(),
		Cameras:    stage.NewCameras(),
		queue:      make(chan func(), cfg.Rig.QueueSize),
		prevLEDs:   make(map[[2]int]LEDState),
		UpdateChan: make(chan struct{}, 1),
	}

	r.Lights = stage.NewLights(r.Scheduler, cfg.Lights)
	r.Slots = stage.NewSlots(r.Scheduler, cfg.Slots)

	r.DoF = effect.NewDoF(r.Scheduler, cfg.EffectOptions("DoF"))
	r.PixelSort = effect.NewPixelSort(r.Scheduler, cfg.EffectOptions("PixelSort"))
	r.Chromatic = effect.NewChromatic(r.Scheduler, cfg.EffectOptions("Chromatic"))
	// rows are constants in range, Register cannot fail here
	_ = r.Table.Register(effect.RowDoF, r.DoF)
	_ = r.Table.Register(effect.RowPixelSort, r.PixelSort)
	_ = r.Table.Register(effect.RowChromatic, r.Chromatic)

	r.Store = snapshot.New(backend, r.Table, snapshot.Options{ResumeCursor: cfg.Snapshots.ResumeCursor})
	r.Store.OnSaved(func(rec snapshot.Record) {
		r.lastSaved = rec.Name
		r.metrics.SnapshotsSaved.Inc()
	})

	r.wire()
	r.publish(r.render())
	return r
}

func (r *Rig) wire() {
	r.Router.OnCameraSelect(r.Cameras.Select)
	r.Router.OnPresetSelect(r.Table.SelectPreset)
	r.Router.OnRandomize(r.Table.Randomize)
	r.Router.OnLightToggle(r.Lights.Toggle)
	r.Router.OnSceneSlot(func(slot int, on bool) { r.Slots.Handle(slot, on) })

	for _, k := range []router.Kind{router.CameraSelect, router.EffectPresetSelect, router.EffectRandomize, router.LightToggle, router.SceneSlotToggle} {
		counter := r.metrics.RoutedEvents.WithLabelValues(k.String())
		r.Router.Subscribe(k, func(router.Event) { counter.Inc() })
	}
}

// Load reads persisted snapshots. Call before Run.
func (r *Rig) Load(ctx context.Context) {
	if err := r.Store.Load(ctx); err != nil {
		r.lastError = err.Error()
	}
	r.publish(r.render())
}

// enqueue hands fn to the tick goroutine. Never blocks; a full queue drops.
func (r *Rig) enqueue(what string, fn func()) bool {
	select {
	case r.queue <- fn:
		return true
	default:
		n := r.dropped.Add(1)
		r.metrics.DroppedInputs.Inc()
		debug.Log("rig", "queue full, dropped %s (total %d)", what, n)
		return false
	}
}

// HandleInput is safe to call from the MIDI callback goroutine
func (r *Rig) HandleInput(ev midi.RawEvent) bool {
	return r.enqueue("input", func() {
		if !midi.IsInRange(ev.Code) {
			r.metrics.InvalidCodes.Inc()
		}
		r.Router.Handle(ev)
	})
}

// Save captures the active effect. Empty name gets a timestamp name.
func (r *Rig) Save(name string) bool {
	return r.enqueue("save", func() {
		if _, ok := r.Store.Capture(context.Background(), name); !ok {
			return
		}
		if r.Store.Dirty() {
			r.metrics.SnapshotFailures.Inc()
			r.lastError = "snapshot not saved to disk: " + r.Store.LastError().Error()
		} else {
			r.lastError = ""
		}
	})
}

func (r *Rig) BeginBrowse() bool { return r.enqueue("browse", r.Store.BeginBrowse) }
func (r *Rig) EndBrowse() bool   { return r.enqueue("browse", r.Store.EndBrowse) }
func (r *Rig) Next() bool        { return r.enqueue("next", r.Store.Next) }
func (r *Rig) Previous() bool    { return r.enqueue("previous", r.Store.Previous) }

// Confirm restores the selected snapshot
func (r *Rig) Confirm() bool {
	return r.enqueue("confirm", func() {
		if err := r.Store.Confirm(); err != nil {
			r.lastError = err.Error()
		}
	})
}

// RandomizeAll rolls every effect row at once
func (r *Rig) RandomizeAll() bool {
	return r.enqueue("randomize all", r.Table.RandomizeAll)
}

// Tick drains queued work in FIFO order, then advances transitions by dt
// and publishes status. Only the tick goroutine calls this.
func (r *Rig) Tick(dt time.Duration) {
	start := time.Now()

	for done := false; !done; {
		select {
		case fn := <-r.queue:
			fn()
		default:
			done = true
		}
	}

	r.Scheduler.Advance(dt)
	r.ticks++

	r.publish(r.render())

	r.metrics.TickDuration.Observe(time.Since(start).Seconds())
	r.metrics.ActiveTransitions.Set(float64(r.Scheduler.Active()))
	r.metrics.QueueDepth.Set(float64(len(r.queue)))

	select {
	case r.UpdateChan <- struct{}{}:
	default:
	}
}

// Run ticks until ctx is done, then flushes unsaved snapshots
func (r *Rig) Run(ctx context.Context) error {
	interval := r.cfg.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	go r.ledLoop(ctx)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := r.Store.Flush(flushCtx); err != nil {
				debug.Log("rig", "final flush: %v", err)
			}
			return nil
		case now := <-ticker.C:
			r.Tick(now.Sub(last))
			last = now
		}
	}
}

// Attach makes c the LED target and pumps its edges into the queue
func (r *Rig) Attach(c midi.Controller) {
	r.SetController(c)
	go func() {
		for ev := range c.Events() {
			r.HandleInput(ev)
		}
	}()
}

// Detach clears the LED target if it is the controller with id
func (r *Rig) Detach(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.controller != nil && r.controller.ID() == id {
		r.controller = nil
	}
}

// Dropped counts inputs lost to a full queue
func (r *Rig) Dropped() uint64 { return r.dropped.Load() }
