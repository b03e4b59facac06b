// ABOUTME: Bubbletea model for the demo player TUI
// ABOUTME: Shows transport state, playback clock and buffer fill
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state.
type Model struct {
	// Stream
	track  string
	format string

	// Transport
	state     string
	outputMs  int
	writtenMs int

	// Buffer
	buffered int
	capacity int

	// Volume
	volume int
	muted  bool

	controls *Controls

	// Dimensions
	width  int
	height int
}

// NewModel creates a TUI model wired to the given controls.
func NewModel(controls *Controls) Model {
	return Model{
		state:    "closed",
		volume:   100,
		controls: controls,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderClock()
	s += m.renderControls()
	s += m.renderHelp()

	return s
}

// renderHeader renders track and format.
func (m Model) renderHeader() string {
	track := m.track
	if track == "" {
		track = "(no input)"
	}
	return fmt.Sprintf(`┌─ Outpour Player ─────────────────────────────────────┐
│ Track:  %-45s │
│ Format: %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(track, 45), m.format)
}

// renderClock renders transport state and the two playback clocks.
func (m Model) renderClock() string {
	return fmt.Sprintf("│ State:   %-43s │\n│ Output:  %-43s │\n│ Written: %-43s │\n",
		m.state, formatMs(m.outputMs), formatMs(m.writtenMs))
}

// renderControls renders volume and buffer fill.
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " (muted)"
	}

	fill := 0
	if m.capacity > 0 {
		fill = m.buffered * 100 / m.capacity
	}

	return fmt.Sprintf("│ Volume: [%s] %3d%%%-30s │\n│ Buffer: [%s] %3d%%%-30s │\n",
		renderBar(m.volume, 100, 10), m.volume, muteIcon,
		renderBar(fill, 100, 10), fill, "")
}

// renderHelp renders keyboard shortcuts.
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ ↑/↓:Volume  m:Mute  space:Pause  q:Quit              │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.controls != nil {
			select {
			case m.controls.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "up":
		m.volume += 5
		if m.volume > 100 {
			m.volume = 100
		}
		m.sendVolume()
	case "down":
		m.volume -= 5
		if m.volume < 0 {
			m.volume = 0
		}
		m.sendVolume()
	case "m":
		m.muted = !m.muted
		m.sendVolume()
	case " ":
		paused := m.state == "paused"
		if m.controls != nil {
			select {
			case m.controls.Transport <- TransportMsg{Pause: !paused}:
			default:
			}
		}
	}

	return m, nil
}

// sendVolume forwards the effective volume to the player.
func (m Model) sendVolume() {
	if m.controls == nil {
		return
	}
	v := m.volume
	if m.muted {
		v = 0
	}
	select {
	case m.controls.Volume <- VolumeChangeMsg{Left: v, Right: v}:
	default:
	}
}

// applyStatus updates model from a status message.
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Track != "" {
		m.track = msg.Track
	}
	if msg.Format != "" {
		m.format = msg.Format
	}
	if msg.State != "" {
		m.state = msg.State
	}
	m.outputMs = msg.OutputMs
	m.writtenMs = msg.WrittenMs
	m.buffered = msg.Buffered
	m.capacity = msg.Capacity
}

// StatusMsg updates TUI state.
type StatusMsg struct {
	Track     string
	Format    string
	State     string
	OutputMs  int
	WrittenMs int
	Buffered  int
	Capacity  int
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func formatMs(ms int) string {
	neg := ""
	if ms < 0 {
		neg = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%d:%02d.%03d", neg, ms/60000, (ms/1000)%60, ms%1000)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
