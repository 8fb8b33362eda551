package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-vjgrid/midi"
	"go-vjgrid/rig"
	"go-vjgrid/theme"
	"go-vjgrid/widgets"
)

type Model struct {
	Rig       *rig.Rig
	DeviceMgr *midi.DeviceManager // nil when running without hardware
	Theme     *theme.Theme

	naming     bool
	browsing   bool // as requested here, ahead of the next published status
	nameInput  textinput.Model
	controller midi.Controller // current controller (may be nil)
	quitting   bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(r *rig.Rig, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "snapshot name"
	ti.Prompt = "name: "
	ti.CharLimit = 40
	ti.Width = 40

	return Model{
		Rig:       r,
		DeviceMgr: deviceMgr,
		Theme:     th,
		nameInput: ti,
	}
}

func ListenForUpdates(r *rig.Rig) tea.Cmd {
	return func() tea.Msg {
		<-r.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Rig),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.updateNaming(msg)
		}
		return m.updateKeys(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Rig)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.controller = event.Controller
			m.Rig.Attach(event.Controller)
		case midi.DeviceDisconnected:
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
			}
			m.Rig.Detach(event.ID)
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	browsing := m.browsing

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "s", "ctrl+s":
		m.Rig.Save("")

	case "n":
		m.naming = true
		m.nameInput.SetValue("")
		cmd := m.nameInput.Focus()
		return m, cmd

	case "R":
		m.Rig.RandomizeAll()

	case "r":
		if browsing {
			m.Rig.EndBrowse()
		} else {
			m.Rig.BeginBrowse()
		}
		m.browsing = !browsing

	case "esc":
		if browsing {
			m.Rig.EndBrowse()
			m.browsing = false
		}

	case "up", "k":
		if browsing {
			m.Rig.Previous()
		}

	case "down", "j":
		if browsing {
			m.Rig.Next()
		}

	case "enter":
		if browsing {
			m.Rig.Confirm()
		}
	}
	return m, nil
}

func (m Model) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.Rig.Save(strings.TrimSpace(m.nameInput.Value()))
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Rig.Status()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	deviceStatus := dimStyle.Render("no controller")
	if m.controller != nil {
		deviceStatus = m.controller.Name()
	}
	header := headerStyle.Render(fmt.Sprintf("go-vjgrid  cam %d %s", st.Camera, st.CameraName)) +
		"  " + deviceStatus

	grid := widgets.RenderPadGrid(padGrid(st.Pads), glyphs(m.Theme), rowLabels(st))

	left := lipgloss.JoinVertical(lipgloss.Left, grid, "", m.lightsView(st))
	right := lipgloss.JoinVertical(lipgloss.Left, m.effectsView(st), "", m.snapshotsView(st))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")

	if m.naming {
		out.WriteString(m.nameInput.View())
		out.WriteString("\n")
	}
	if st.LastError != "" {
		out.WriteString(warnStyle.Render(st.LastError))
		out.WriteString("\n")
	}
	if st.Dropped > 0 {
		out.WriteString(warnStyle.Render(fmt.Sprintf("dropped inputs: %d", st.Dropped)))
		out.WriteString("\n")
	}

	help := "s:save  n:save as  r:browse  R:randomize all  q:quit"
	if m.browsing {
		help = "j/k:select  enter:recall  esc/r:close  q:quit"
	}
	out.WriteString(dimStyle.Render(help))

	return out.String()
}
