// Package snapshot persists operator-captured effect states and lets the
// operator browse and recall them.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-vjgrid/debug"
	"go-vjgrid/effect"

	"github.com/google/uuid"
)

// Controllers is the part of the dispatch table the store needs
type Controllers interface {
	ActiveController() effect.Controller
	ControllerForType(effectType string) effect.Controller
}

type Options struct {
	// ResumeCursor keeps the previous cursor (clamped) when browsing starts
	// again instead of starting at the first record.
	ResumeCursor bool
	Now          func() time.Time
}

// Store holds the document in memory and writes it through to a Backend.
// It is used from the tick goroutine only.
type Store struct {
	backend     Backend
	controllers Controllers
	opts        Options

	records []Record
	dirty   bool
	lastErr error

	browsing bool
	cursor   int // -1 when the view is empty
	view     []int

	onSaved []func(Record)
}

func New(backend Backend, controllers Controllers, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		backend:     backend,
		controllers: controllers,
		opts:        opts,
		cursor:      -1,
	}
}

// Load replaces the in-memory document with the persisted one. A missing
// document is empty; a corrupt one is logged and treated as empty. Bad
// records are skipped. The returned error is for reporting only: the store
// is usable whatever happens.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		s.replace(nil)
		debug.Log("snapshots", "no saved document, starting empty")
		return nil
	}
	if err != nil {
		debug.Log("snapshots", "read failed: %v", err)
		return fmt.Errorf("read snapshots: %w", err)
	}

	records, skipped, err := Decode(data)
	if err != nil {
		s.replace(nil)
		debug.Log("snapshots", "%v, starting empty", err)
		return err
	}
	for _, e := range skipped {
		debug.Log("snapshots", "skipped %v", e)
	}

	s.replace(records)
	debug.Log("snapshots", "loaded %d records (%d skipped)", len(records), len(skipped))
	if len(skipped) > 0 {
		return fmt.Errorf("skipped %d malformed records: %w", len(skipped), errors.Join(skipped...))
	}
	return nil
}

// replace swaps the document and leaves recall mode, since the old view
// indexes records that no longer exist
func (s *Store) replace(records []Record) {
	s.records = records
	s.browsing = false
	s.view = nil
	s.cursor = -1
}

// OnSaved registers fn to run after every capture
func (s *Store) OnSaved(fn func(Record)) {
	s.onSaved = append(s.onSaved, fn)
}

// Capture records the active controller's live state. Without an active
// controller it does nothing and returns false. An empty name becomes
// "Saved_HH:MM:SS". A failed write is logged and the record kept; Dirty
// reports it until a later write succeeds.
func (s *Store) Capture(ctx context.Context, name string) (Record, bool) {
	c := s.controllers.ActiveController()
	if c == nil {
		debug.Log("snapshots", "capture ignored, no active controller")
		return Record{}, false
	}

	now := s.opts.Now()
	if name == "" {
		name = "Saved_" + now.Format("15:04:05")
	}

	rec := Record{
		ID:         uuid.NewString(),
		Name:       name,
		EffectType: c.EffectTypeName(),
		Payload:    c.CaptureState(name),
		SavedAt:    now.Format(time.RFC3339),
	}
	s.records = append(s.records, rec)

	if err := s.persist(ctx); err != nil {
		debug.Log("snapshots", "save %q not durable: %v", name, err)
	}

	debug.Log("snapshots", "captured %q (%s)", rec.Name, rec.EffectType)
	for _, fn := range s.onSaved {
		fn(rec)
	}
	return rec, true
}

// Flush retries a failed write
func (s *Store) Flush(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	data, err := Encode(s.records)
	if err == nil {
		err = s.backend.Write(ctx, data)
	}
	s.lastErr = err
	s.dirty = err != nil
	return err
}

// Dirty reports records that are in memory but not yet durably written
func (s *Store) Dirty() bool { return s.dirty }

func (s *Store) LastError() error { return s.lastErr }

// Records returns a copy of the whole document in save order
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int { return len(s.records) }

// BeginBrowse enters recall mode and recomputes the view for the active
// effect type (every record when nothing is active).
func (s *Store) BeginBrowse() {
	if s.browsing {
		return
	}
	s.browsing = true
	s.refreshView()

	switch {
	case len(s.view) == 0:
		s.cursor = -1
	case s.opts.ResumeCursor && s.cursor >= 0:
		s.cursor = min(s.cursor, len(s.view)-1)
	default:
		s.cursor = 0
	}
}

// EndBrowse leaves recall mode. The cursor keeps its value.
func (s *Store) EndBrowse() {
	s.browsing = false
}

func (s *Store) refreshView() {
	s.view = s.view[:0]
	active := ""
	if c := s.controllers.ActiveController(); c != nil {
		active = c.EffectTypeName()
	}
	for i, r := range s.records {
		if active == "" || r.EffectType == active {
			s.view = append(s.view, i)
		}
	}
}

// Next moves the cursor down, stopping at the last record
func (s *Store) Next() {
	if !s.browsing || len(s.view) == 0 {
		return
	}
	s.cursor = min(s.cursor+1, len(s.view)-1)
}

// Previous moves the cursor up, stopping at the first record
func (s *Store) Previous() {
	if !s.browsing || len(s.view) == 0 {
		return
	}
	s.cursor = max(s.cursor-1, 0)
}

// Confirm restores the record under the cursor on the controller for its
// effect type. No selection or no matching controller is a no-op.
func (s *Store) Confirm() error {
	rec, ok := s.Selected()
	if !ok {
		return nil
	}

	c := s.controllers.ControllerForType(rec.EffectType)
	if c == nil {
		debug.Log("snapshots", "no controller for %s", rec.EffectType)
		return nil
	}
	r, ok := c.(effect.Restorer)
	if !ok {
		debug.Log("snapshots", "%s cannot restore", rec.EffectType)
		return nil
	}

	if err := r.Restore(rec.Payload); err != nil {
		debug.Log("snapshots", "restore %q: %v", rec.Name, err)
		return fmt.Errorf("restore %q: %w", rec.Name, err)
	}
	debug.Log("snapshots", "restored %q", rec.Name)
	return nil
}

func (s *Store) Browsing() bool { return s.browsing }

// Cursor is the position in the filtered view, -1 when it is empty
func (s *Store) Cursor() int { return s.cursor }

// Selected returns the record under the cursor while browsing
func (s *Store) Selected() (Record, bool) {
	if !s.browsing || s.cursor < 0 || s.cursor >= len(s.view) {
		return Record{}, false
	}
	return s.records[s.view[s.cursor]], true
}

// View returns the records visible while browsing
func (s *Store) View() []Record {
	out := make([]Record, len(s.view))
	for i, idx := range s.view {
		out[i] = s.records[idx]
	}
	return out
}
