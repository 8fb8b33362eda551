package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vjgrid/config"
	"go-vjgrid/midi"
	"go-vjgrid/rig"
	"go-vjgrid/snapshot"
	"go-vjgrid/theme"
)

type memBackend struct{ data []byte }

func (m *memBackend) Read(context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, snapshot.ErrNotFound
	}
	return m.data, nil
}

func (m *memBackend) Write(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memBackend) Close() error { return nil }

func newTestModel(t *testing.T) (Model, *rig.Rig) {
	t.Helper()
	r := rig.New(config.DefaultConfig(), &memBackend{}, nil)
	return NewModel(r, nil, theme.New(nil)), r
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestQuickSave(t *testing.T) {
	m, r := newTestModel(t)
	send(m, key("s"))
	r.Tick(0)

	st := r.Status()
	assert.Equal(t, 1, st.Snapshots)
	assert.Contains(t, st.LastSaved, "Saved_")
}

func TestSaveAs(t *testing.T) {
	m, r := newTestModel(t)
	m = send(m, key("n"))
	require.True(t, m.naming)

	// keys go to the prompt, not the surface
	m = send(m, key("r"), key("i"), key("g"), key("enter"))
	assert.False(t, m.naming)

	r.Tick(0)
	assert.Equal(t, "rig", r.Status().LastSaved)
	assert.False(t, r.Status().Browsing)
}

func TestSaveAs_Escape(t *testing.T) {
	m, r := newTestModel(t)
	m = send(m, key("n"), key("x"), key("esc"))
	assert.False(t, m.naming)
	r.Tick(0)
	assert.Equal(t, 0, r.Status().Snapshots)
}

func TestBrowseAndRecall(t *testing.T) {
	m, r := newTestModel(t)
	r.Save("one")
	r.Save("two")
	r.Tick(0)

	m = send(m, key("r"))
	r.Tick(0)
	require.True(t, r.Status().Browsing)
	assert.Contains(t, m.View(), "one")

	m = send(m, key("down"))
	r.Tick(0)
	assert.Equal(t, "two", r.Status().Selected)

	m = send(m, key("enter"))
	r.Tick(0)
	assert.Equal(t, -1, r.DoF.ActivePreset())

	send(m, key("esc"))
	r.Tick(0)
	assert.False(t, r.Status().Browsing)
}

func TestNavigationIgnoredOutsideBrowse(t *testing.T) {
	m, r := newTestModel(t)
	r.Save("one")
	r.Tick(0)

	send(m, key("j"), key("enter"))
	r.Tick(0)
	assert.False(t, r.Status().Browsing)
	assert.Equal(t, -1, r.Status().Cursor)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, "", next.(Model).View())
}

func TestDeviceDisconnectClearsController(t *testing.T) {
	m, _ := newTestModel(t)
	m.controller = &midi.FighterController{}
	m = send(m, DeviceEventMsg{Type: midi.DeviceDisconnected, ID: "other"})
	assert.NotNil(t, m.controller)
}

func TestView(t *testing.T) {
	m, r := newTestModel(t)
	r.HandleInput(midi.RawEvent{Code: midi.ToCode(1, 2), Edge: midi.Press})
	r.Tick(0)

	out := m.View()
	assert.Contains(t, out, "cam 2")
	assert.Contains(t, out, "Effects")
	assert.Contains(t, out, "dof *")
	assert.Contains(t, out, "no controller")
}

func TestBrowseKeysWithinOneTick(t *testing.T) {
	m, r := newTestModel(t)
	r.Save("one")
	r.Save("two")
	r.HandleInput(midi.RawEvent{Code: midi.ToCode(2, 1), Edge: midi.Press})
	r.Tick(0)
	require.Equal(t, 0, r.DoF.ActivePreset())

	// no tick between the keys, status still says not browsing
	m = send(m, key("r"), key("j"), key("enter"))
	assert.True(t, m.browsing)
	r.Tick(0)

	st := r.Status()
	assert.True(t, st.Browsing)
	assert.Equal(t, "two", st.Selected)
	assert.Equal(t, -1, r.DoF.ActivePreset())

	m = send(m, key("r"), key("j"))
	assert.False(t, m.browsing)
	r.Tick(0)
	assert.False(t, r.Status().Browsing)
}
