// ABOUTME: TUI initialization and control channels
// ABOUTME: Wraps the bubbletea program for the demo player
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeChangeMsg carries a logical volume change from the TUI.
type VolumeChangeMsg struct {
	Left  int
	Right int
}

// TransportMsg carries a pause/resume request from the TUI.
type TransportMsg struct {
	Pause bool
}

// QuitMsg signals that the user quit the TUI.
type QuitMsg struct{}

// Controls holds channels for TUI-to-player communication.
type Controls struct {
	Volume    chan VolumeChangeMsg
	Transport chan TransportMsg
	Quit      chan QuitMsg
}

// NewControls creates the control channel set.
func NewControls() *Controls {
	return &Controls{
		Volume:    make(chan VolumeChangeMsg, 10),
		Transport: make(chan TransportMsg, 10),
		Quit:      make(chan QuitMsg, 1),
	}
}

// Run starts the TUI.
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
