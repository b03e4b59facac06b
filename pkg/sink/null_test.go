// ABOUTME: Tests for the null sink
// ABOUTME: Covers capture, frame accounting and realtime pacing
package sink

import (
	"bytes"
	"testing"
	"time"

	"github.com/outpour-audio/outpour-go/pkg/pcm"
)

var nullSpec = pcm.Spec{Format: pcm.FormatS16LE, Rate: 8000, Channels: 1}

func TestNullRequiresOpen(t *testing.T) {
	n := &Null{}
	if _, err := n.WriteFrames([]byte{0, 0}); err == nil {
		t.Error("WriteFrames before Open succeeded, want error")
	}
}

func TestNullRejectsInvalidSpec(t *testing.T) {
	n := &Null{}
	if err := n.Open(Config{Spec: pcm.Spec{}}); err == nil {
		t.Error("Open with zero spec succeeded, want error")
	}
}

func TestNullCapturesFrames(t *testing.T) {
	n := &Null{Capture: true}
	if err := n.Open(Config{Spec: nullSpec, BufferMs: 50}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	p := []byte{1, 2, 3, 4, 5, 6}
	frames, err := n.WriteFrames(p)
	if err != nil {
		t.Fatalf("WriteFrames failed: %v", err)
	}
	if frames != 3 {
		t.Errorf("WriteFrames = %d frames, want 3", frames)
	}
	if !bytes.Equal(n.Captured(), p) {
		t.Errorf("Captured() = %v, want %v", n.Captured(), p)
	}

	if n.HardwareBufferMs() != 50 {
		t.Errorf("HardwareBufferMs() = %d, want 50", n.HardwareBufferMs())
	}
	if n.Delay() != 0 {
		t.Errorf("Delay() = %d, want 0", n.Delay())
	}
}

func TestNullReopenDiscardsCapture(t *testing.T) {
	n := &Null{Capture: true}
	if err := n.Open(Config{Spec: nullSpec}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := n.WriteFrames([]byte{1, 2}); err != nil {
		t.Fatalf("WriteFrames failed: %v", err)
	}

	if err := n.Open(Config{Spec: nullSpec}); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if len(n.Captured()) != 0 {
		t.Error("capture survived reopen")
	}
}

func TestNullRealtimePacing(t *testing.T) {
	n := &Null{Realtime: true}
	if err := n.Open(Config{Spec: nullSpec}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// 400 frames at 8000Hz is 50ms of audio.
	start := time.Now()
	if _, err := n.WriteFrames(make([]byte, 800)); err != nil {
		t.Fatalf("WriteFrames failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("50ms write returned after %v, want realtime pacing", elapsed)
	}
}

func TestNullTransportCalls(t *testing.T) {
	n := &Null{}
	if err := n.Open(Config{Spec: nullSpec}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := n.Pause(); err != nil {
		t.Errorf("Pause = %v", err)
	}
	if err := n.Resume(); err != nil {
		t.Errorf("Resume = %v", err)
	}
	if err := n.Prepare(); err != nil {
		t.Errorf("Prepare = %v", err)
	}
	if err := n.Drop(); err != nil {
		t.Errorf("Drop = %v", err)
	}
	if err := n.Drain(); err != nil {
		t.Errorf("Drain = %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}
