// ABOUTME: Sink interface definition
// ABOUTME: Common contract for audio output device backends
package sink

import (
	"errors"

	"github.com/outpour-audio/outpour-go/pkg/pcm"
)

// ErrNotSupported is returned by optional operations (hardware pause,
// drop) a backend cannot perform. Callers treat it as non-fatal.
var ErrNotSupported = errors.New("operation not supported by sink")

// Config carries the parameters negotiated at open time.
type Config struct {
	// Spec is the PCM format, rate and channel count to configure.
	Spec pcm.Spec

	// BufferMs is the requested hardware buffer duration. Backends may
	// negotiate a different value; see Sink.HardwareBufferMs.
	BufferMs int

	// Device optionally names a specific output device; empty selects
	// the backend default.
	Device string
}

// Sink is an audio output device accepting interleaved PCM frames.
//
// WriteFrames may block until the device accepts the data; every other
// method is expected to return promptly. Implementations must tolerate
// Pause/Drop/Delay being called from a different goroutine than
// WriteFrames.
type Sink interface {
	// Open configures the device. It fails if the requested parameters
	// cannot be satisfied.
	Open(cfg Config) error

	// WriteFrames plays p, which holds whole frames, blocking until the
	// device has accepted it. It returns the number of frames accepted,
	// which may be short when interrupted by an error.
	WriteFrames(p []byte) (int, error)

	// Pause halts playback keeping buffered audio; Resume continues it.
	Pause() error
	Resume() error

	// Prepare re-arms a device that was stopped or dropped so that the
	// next write starts playback.
	Prepare() error

	// Drop discards audio buffered inside the device.
	Drop() error

	// Drain blocks until the device has played out everything it holds.
	Drain() error

	// Delay reports the frames currently queued inside the device.
	Delay() int

	// Recover attempts to bring the device back after a failed write
	// (e.g. an underrun). A nil return means the device is usable again
	// and the failed write should be treated as having accepted zero
	// frames.
	Recover(err error) error

	// HardwareBufferMs reports the negotiated hardware buffer duration.
	HardwareBufferMs() int

	// Close releases the device.
	Close() error
}
