// ABOUTME: In-memory sink for tests and examples
// ABOUTME: Optionally paces consumption in real time and captures frames
package sink

import (
	"fmt"
	"sync"
	"time"

	"github.com/outpour-audio/outpour-go/pkg/pcm"
)

// Null is a sink that accepts everything without touching hardware.
// With Realtime set it sleeps for the play duration of each write, so
// transport timing behaves like a real device; with Capture set it
// keeps every accepted byte for inspection.
type Null struct {
	// Realtime paces WriteFrames at the stream's sample rate.
	Realtime bool

	// Capture records accepted bytes, readable via Captured.
	Capture bool

	mu       sync.Mutex
	spec     pcm.Spec
	bufferMs int
	opened   bool
	paused   bool
	captured []byte
}

// Open records the stream parameters.
func (n *Null) Open(cfg Config) error {
	if err := cfg.Spec.Validate(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spec = cfg.Spec
	n.bufferMs = cfg.BufferMs
	n.opened = true
	n.captured = nil
	return nil
}

// WriteFrames accepts p in full.
func (n *Null) WriteFrames(p []byte) (int, error) {
	n.mu.Lock()
	if !n.opened {
		n.mu.Unlock()
		return 0, fmt.Errorf("null sink not opened")
	}
	if n.Capture {
		n.captured = append(n.captured, p...)
	}
	spec := n.spec
	n.mu.Unlock()

	if n.Realtime {
		time.Sleep(time.Duration(spec.BytesToMicros(len(p))) * time.Microsecond)
	}
	return spec.BytesToFrames(len(p)), nil
}

func (n *Null) Pause() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paused = true
	return nil
}

func (n *Null) Resume() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paused = false
	return nil
}

func (n *Null) Prepare() error { return n.Resume() }
func (n *Null) Drop() error    { return nil }
func (n *Null) Drain() error   { return nil }

// Delay reports zero; the null device holds nothing.
func (n *Null) Delay() int { return 0 }

func (n *Null) Recover(err error) error { return err }

func (n *Null) HardwareBufferMs() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bufferMs
}

func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = false
	return nil
}

// Captured returns a copy of all bytes accepted so far.
func (n *Null) Captured() []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]byte, len(n.captured))
	copy(out, n.captured)
	return out
}
