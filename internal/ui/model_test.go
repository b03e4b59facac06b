// ABOUTME: Tests for the TUI model
// ABOUTME: Covers key handling, status updates and render helpers
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(key string) tea.KeyMsg {
	if key == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestVolumeKeysClampAndForward(t *testing.T) {
	controls := NewControls()
	m := NewModel(controls)

	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.volume != 95 {
		t.Errorf("volume = %d after one down, want 95", m.volume)
	}
	select {
	case v := <-controls.Volume:
		if v.Left != 95 || v.Right != 95 {
			t.Errorf("volume message = %+v, want 95/95", v)
		}
	default:
		t.Error("no volume message sent")
	}

	// Up clamps at 100.
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.volume != 100 {
		t.Errorf("volume = %d, want clamped at 100", m.volume)
	}

	// Down clamps at 0.
	for i := 0; i < 25; i++ {
		m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.volume != 0 {
		t.Errorf("volume = %d, want clamped at 0", m.volume)
	}
}

func TestMuteSendsZeroVolume(t *testing.T) {
	controls := NewControls()
	m := NewModel(controls)
	drain(controls)

	m = update(m, keyMsg("m"))
	if !m.muted {
		t.Error("not muted after m")
	}
	select {
	case v := <-controls.Volume:
		if v.Left != 0 || v.Right != 0 {
			t.Errorf("muted volume message = %+v, want 0/0", v)
		}
	default:
		t.Error("no volume message sent on mute")
	}

	// Unmute restores the stored level.
	m = update(m, keyMsg("m"))
	select {
	case v := <-controls.Volume:
		if v.Left != 100 {
			t.Errorf("unmuted volume message = %+v, want 100", v)
		}
	default:
		t.Error("no volume message sent on unmute")
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	controls := NewControls()
	m := NewModel(controls)

	m = update(m, StatusMsg{State: "playing"})
	m = update(m, keyMsg(" "))
	select {
	case msg := <-controls.Transport:
		if !msg.Pause {
			t.Error("space while playing should request pause")
		}
	default:
		t.Error("no transport message sent")
	}

	m = update(m, StatusMsg{State: "paused"})
	_ = update(m, keyMsg(" "))
	select {
	case msg := <-controls.Transport:
		if msg.Pause {
			t.Error("space while paused should request resume")
		}
	default:
		t.Error("no transport message sent")
	}
}

func TestQuitKeySignals(t *testing.T) {
	controls := NewControls()
	m := NewModel(controls)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Error("q should produce the quit command")
	}
	select {
	case <-controls.Quit:
	default:
		t.Error("no quit message sent")
	}
}

func TestStatusMsgUpdatesModel(t *testing.T) {
	m := NewModel(nil)
	m = update(m, StatusMsg{
		Track:     "song.mp3",
		Format:    "S16_LE 44100Hz 2ch",
		State:     "playing",
		OutputMs:  61500,
		WrittenMs: 65000,
		Buffered:  400,
		Capacity:  800,
	})

	if m.track != "song.mp3" || m.state != "playing" {
		t.Errorf("model = %q/%q", m.track, m.state)
	}

	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	view := m.View()
	if !strings.Contains(view, "song.mp3") {
		t.Error("view missing track name")
	}
	if !strings.Contains(view, "1:01.500") {
		t.Error("view missing formatted output time")
	}
	if !strings.Contains(view, "50%") {
		t.Error("view missing buffer fill")
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		ms   int
		want string
	}{
		{0, "0:00.000"},
		{1500, "0:01.500"},
		{61500, "1:01.500"},
		{-400, "-0:00.400"},
	}
	for _, tt := range tests {
		if got := formatMs(tt.ms); got != tt.want {
			t.Errorf("formatMs(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(50, 100, 10); strings.Count(got, "█") != 5 {
		t.Errorf("renderBar(50%%) = %q, want half filled", got)
	}
	if got := renderBar(0, 100, 10); strings.Count(got, "░") != 10 {
		t.Errorf("renderBar(0%%) = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 45); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 60)
	got := truncate(long, 45)
	if len(got) != 45 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(long) = %q (len %d)", got, len(got))
	}
}

func drain(c *Controls) {
	for {
		select {
		case <-c.Volume:
		default:
			return
		}
	}
}
