// ABOUTME: Transport controller owning ring buffer, clock, sink and pump
// ABOUTME: Implements open/write/pause/flush/drain/close and time reporting
package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/outpour-audio/outpour-go/pkg/pcm"
	"github.com/outpour-audio/outpour-go/pkg/sink"
	"github.com/rs/zerolog"
)

// State is the transport state of a session.
type State int

const (
	StateClosed State = iota
	StateBuffering
	StatePlaying
	StatePaused
	StateDraining
	StateFlushing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateBuffering:
		return "buffering"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateDraining:
		return "draining"
	case StateFlushing:
		return "flushing"
	}
	return "unknown"
}

// Options configures a Session.
type Options struct {
	// BufferMs is the target total buffer duration (hardware + soft).
	// Zero selects the 500ms default.
	BufferMs int

	// Device optionally names a specific output device; empty selects
	// the sink's default.
	Device string

	// DelayChunkMs, when positive, caps pump transfer chunks at that
	// many milliseconds of audio. Small chunks reduce the error in
	// delay measurement on devices that cannot account for a write in
	// progress, at some throughput cost.
	DelayChunkMs int

	// DisableHardwareDrain skips the sink drain on Drain(); buffered
	// device audio at the end of a stream is lost, so the hardware
	// buffer is kept small when this is set.
	DisableHardwareDrain bool

	// DisableHardwareDrop skips the sink drop on Flush()/Close(); the
	// device finishes playing stale samples after a seek.
	DisableHardwareDrop bool

	// Metrics optionally collects engine health; nil disables.
	Metrics *Metrics

	// Logger receives diagnostics; the zero value discards them.
	Logger zerolog.Logger
}

const defaultBufferMs = 500

// Hardware buffers larger than this defeat the drain workaround, which
// exists to bound the audio lost when snd-style drain is unavailable.
const drainWorkaroundMaxHardwareMs = 100

// Session is one open/close cycle of the playback engine. All transport
// operations except volume control are expected to be issued from a
// single controlling goroutine; time reporting may be polled from a UI
// context concurrently.
type Session struct {
	mu   sync.Mutex
	cond *sync.Cond

	opts Options
	log  zerolog.Logger
	snk  sink.Sink

	spec  pcm.Spec
	ring  *Ring
	clock Clock

	state        State
	prebuffer    bool // paused for buffering; cleared by the first blocking write
	paused       bool // paused by the user
	hwPaused     bool // sink accepted a hardware pause
	pausedTimeMs int

	quit        bool
	pumpRunning bool
	pumpDone    chan struct{}
}

// NewSession creates a session feeding the given sink. The sink is owned
// by the session between Open and Close.
func NewSession(snk sink.Sink, opts Options) *Session {
	if opts.BufferMs <= 0 {
		opts.BufferMs = defaultBufferMs
	}
	s := &Session{opts: opts, log: opts.Logger, snk: snk, state: StateClosed}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Open negotiates the format with the sink, sizes and allocates the soft
// buffer, and starts the pump. The session starts paused for buffering;
// playback begins on the first Write that would otherwise block.
func (s *Session) Open(spec pcm.Spec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		return fmt.Errorf("%w: session already open", ErrDeviceUnavailable)
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	s.log = s.opts.Logger.With().Str("session", uuid.New().String()).Logger()

	// Ask the device for roughly half of the target buffer; the soft
	// buffer covers the rest. Without hardware drain, audio held by the
	// device at end of stream is lost, so cap its share.
	hwReqMs := s.opts.BufferMs / 2
	if s.opts.DisableHardwareDrain && hwReqMs > drainWorkaroundMaxHardwareMs {
		hwReqMs = drainWorkaroundMaxHardwareMs
	}

	s.log.Debug().Stringer("spec", spec).Int("hw_ms", hwReqMs).Msg("opening sink")
	if err := s.snk.Open(sink.Config{Spec: spec, BufferMs: hwReqMs, Device: s.opts.Device}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	hardMs := s.snk.HardwareBufferMs()
	softMs := s.opts.BufferMs - hardMs
	if softMs < s.opts.BufferMs/2 {
		softMs = s.opts.BufferMs / 2
	}
	capacity := spec.MillisToBytes(softMs)
	if capacity <= 0 {
		if cerr := s.snk.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("sink close after failed open")
		}
		return fmt.Errorf("%w: %dms soft buffer at %v", ErrAllocationFailure, softMs, spec)
	}
	s.log.Debug().Int("hard_ms", hardMs).Int("soft_ms", softMs).Int("capacity", capacity).
		Msg("buffer sized")

	s.spec = spec
	s.ring = NewRing(capacity)
	s.clock.Reset(0)
	s.prebuffer = true
	s.paused = false
	s.hwPaused = false
	s.pausedTimeMs = 0
	s.quit = false
	s.state = StateBuffering
	s.pumpDone = make(chan struct{})

	go s.pump()
	for !s.pumpRunning {
		s.cond.Wait()
	}

	return nil
}

// Write copies p into the soft buffer, blocking while it is full. The
// first write that would block starts playback. Write returns ErrClosed
// if the session is torn down while it is waiting.
func (s *Session) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.quit || s.ring == nil {
			return ErrClosed
		}

		n := s.ring.Write(p)
		s.clock.RecordWrite(n, s.spec)
		s.opts.Metrics.addWritten(n)
		s.opts.Metrics.occupancy(s.ring.Occupied())
		p = p[n:]

		s.cond.Broadcast()
		if len(p) == 0 {
			return nil
		}

		if s.prebuffer { // buffering completed
			s.startPlayback()
		}
		s.cond.Wait()
	}
}

// Pause freezes or resumes playback. Pausing snapshots the current
// output time, which OutputTime reports verbatim until resume. A sink
// that rejects the hardware pause is logged and playback is simply not
// fed, which has the same audible effect with a larger device buffer.
func (s *Session) Pause(pause bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ring == nil {
		return
	}

	s.log.Debug().Bool("pause", pause).Msg("pause requested")
	if pause {
		if !s.paused && !s.prebuffer {
			s.pausedTimeMs = s.outputTimeLocked()
		}
		s.paused = true
		s.state = StatePaused
		if !s.prebuffer {
			if err := s.snk.Pause(); err != nil {
				s.log.Warn().Err(err).Msg("sink pause rejected")
			} else {
				s.hwPaused = true
			}
		}
		s.cond.Broadcast()
		return
	}

	s.paused = false
	if s.prebuffer {
		s.state = StateBuffering
		s.cond.Broadcast()
		return
	}
	s.kickSink()
	s.state = StatePlaying
	s.cond.Broadcast()
}

// Flush discards all buffered audio and resets the clock to targetMs,
// returning the session to the buffering state. Unless hardware drop is
// disabled, audio inside the device is discarded too; otherwise the
// device finishes playing stale samples.
func (s *Session) Flush(targetMs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ring == nil {
		return ErrClosed
	}

	s.log.Debug().Int("target_ms", targetMs).Msg("flush requested")
	s.state = StateFlushing
	s.clock.Reset(targetMs)
	s.prebuffer = true
	s.pausedTimeMs = targetMs

	if !s.opts.DisableHardwareDrop {
		if err := s.snk.Drop(); err != nil {
			s.log.Warn().Err(err).Msg("sink drop failed")
		}
		s.hwPaused = false
	}

	for s.ring.InFlight() > 0 {
		if s.quit {
			return ErrClosed
		}
		s.cond.Wait()
	}

	s.ring.Reset()
	s.opts.Metrics.occupancy(0)
	if s.paused {
		s.state = StatePaused
	} else {
		s.state = StateBuffering
	}
	s.cond.Broadcast()
	return nil
}

// Drain blocks until all buffered audio has been handed to the sink,
// then asks the device to play out what it holds. A session paused for
// buffering is resumed first so draining can make progress.
func (s *Session) Drain() error {
	s.mu.Lock()

	if s.ring == nil {
		s.mu.Unlock()
		return ErrClosed
	}

	s.log.Debug().Msg("drain requested")
	prev := s.state
	s.state = StateDraining

	for s.ring.Occupied() > 0 {
		if s.quit {
			s.mu.Unlock()
			return ErrClosed
		}
		if s.prebuffer {
			s.startPlayback()
			s.state = StateDraining
		} else {
			s.cond.Broadcast()
		}
		s.cond.Wait()
	}

	switch {
	case s.paused:
		s.state = StatePaused
	case s.prebuffer:
		s.state = prev
	default:
		s.state = StatePlaying
	}
	s.mu.Unlock()

	if !s.opts.DisableHardwareDrain {
		if err := s.snk.Drain(); err != nil {
			s.log.Warn().Err(err).Msg("sink drain failed")
		}
	}
	return nil
}

// Close tears the session down: stops the pump, optionally drops device
// audio, and releases the buffer and the sink. Any goroutine blocked in
// Write, Drain or Flush unwinds with ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}

	s.log.Debug().Msg("closing session")
	s.quit = true

	if !s.opts.DisableHardwareDrop {
		if err := s.snk.Drop(); err != nil {
			s.log.Warn().Err(err).Msg("sink drop on close failed")
		}
	}

	s.cond.Broadcast()
	done := s.pumpDone
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	s.ring = nil
	s.state = StateClosed
	s.cond.Broadcast()
	s.mu.Unlock()

	return s.snk.Close()
}

// WrittenTime returns the duration of audio accepted so far in
// milliseconds.
func (s *Session) WrittenTime() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.WrittenTimeMs()
}

// SetWrittenTime re-anchors the written-time counter, e.g. after the
// caller performed a seek without flushing.
func (s *Session) SetWrittenTime(ms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Debug().Int("ms", ms).Msg("written time set")
	s.clock.Reset(ms)
}

// OutputTime returns the position currently audible at the speaker in
// milliseconds. While paused (including the initial buffering phase) it
// reports the time snapshotted when the pause began.
func (s *Session) OutputTime() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused || s.prebuffer || s.ring == nil {
		return s.pausedTimeMs
	}
	return s.outputTimeLocked()
}

// State reports the current transport state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Buffered returns the bytes currently buffered and the buffer capacity.
func (s *Session) Buffered() (occupied, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ring == nil {
		return 0, 0
	}
	return s.ring.Occupied(), s.ring.Capacity()
}

// outputTimeLocked computes the live output time. Bytes in flight with
// the sink are excluded from the local count because the device delay
// already covers them once accepted.
func (s *Session) outputTimeLocked() int {
	buffered := s.ring.Occupied() - s.ring.InFlight()
	return s.clock.OutputTimeMs(buffered, s.snk.Delay(), s.spec)
}

// startPlayback ends the prebuffering phase. While the user also holds
// a pause, the device is left alone; the resume starts it. Callers hold
// the lock.
func (s *Session) startPlayback() {
	s.log.Debug().Msg("starting playback")
	s.prebuffer = false

	if !s.paused {
		s.kickSink()
		s.state = StatePlaying
	}
	s.cond.Broadcast()
}

// kickSink gets the device running: a hardware-paused device is
// resumed, a stopped one re-armed. Callers hold the lock.
func (s *Session) kickSink() {
	var err error
	if s.hwPaused {
		err = s.snk.Resume()
	} else {
		err = s.snk.Prepare()
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("sink start failed")
	}
	s.hwPaused = false
}
