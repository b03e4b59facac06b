// ABOUTME: Malgo (miniaudio) sink with callback-fed playback
// ABOUTME: Bridges the engine's blocking writes to the device pull model
package sink

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/outpour-audio/outpour-go/pkg/pcm"
)

// Malgo is a Sink backed by miniaudio. The device pulls audio from a
// small internal queue via callback; WriteFrames blocks while the queue
// is full, which gives the engine the bounded blocking write it expects.
type Malgo struct {
	mctx   *malgo.AllocatedContext
	device *malgo.Device

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []byte // plain FIFO, compacted on read
	queueMax int
	spec     pcm.Spec
	bufferMs int
	started  bool
	closed   bool
}

// NewMalgo creates a malgo sink.
func NewMalgo() *Malgo {
	m := &Malgo{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func malgoFormat(f pcm.Format) (malgo.FormatType, error) {
	switch f {
	case pcm.FormatU8:
		return malgo.FormatU8, nil
	case pcm.FormatS16LE:
		return malgo.FormatS16, nil
	case pcm.FormatS24LE:
		return malgo.FormatS24, nil
	case pcm.FormatS32LE:
		return malgo.FormatS32, nil
	case pcm.FormatF32LE:
		return malgo.FormatF32, nil
	}
	return malgo.FormatUnknown, fmt.Errorf("malgo: unsupported format %v", f)
}

// Open initializes the miniaudio context and a playback device. The
// device is not started; Prepare starts it.
func (m *Malgo) Open(cfg Config) error {
	format, err := malgoFormat(cfg.Spec.Format)
	if err != nil {
		return err
	}

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("malgo: context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = uint32(cfg.Spec.Channels)
	deviceConfig.SampleRate = uint32(cfg.Spec.Rate)
	deviceConfig.Alsa.NoMMap = 1
	if cfg.BufferMs > 0 {
		deviceConfig.PeriodSizeInMilliseconds = uint32(cfg.BufferMs / 4)
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			m.fill(out)
		},
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, callbacks)
	if err != nil {
		if uerr := mctx.Uninit(); uerr == nil {
			mctx.Free()
		}
		return fmt.Errorf("malgo: device: %w", err)
	}

	m.mu.Lock()
	m.mctx = mctx
	m.device = device
	m.spec = cfg.Spec
	m.bufferMs = cfg.BufferMs
	m.queueMax = cfg.Spec.MillisToBytes(cfg.BufferMs)
	if m.queueMax < cfg.Spec.FrameBytes() {
		m.queueMax = cfg.Spec.FrameBytes()
	}
	m.queue = m.queue[:0]
	m.started = false
	m.closed = false
	m.mu.Unlock()
	return nil
}

// fill is the device callback: it copies queued bytes into out and
// zero-fills the rest on underrun.
func (m *Malgo) fill(out []byte) {
	m.mu.Lock()
	n := copy(out, m.queue)
	m.queue = m.queue[:copy(m.queue, m.queue[n:])]
	m.cond.Broadcast()
	m.mu.Unlock()

	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

// WriteFrames blocks until the whole chunk fits into the queue.
func (m *Malgo) WriteFrames(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	written := 0
	for written < len(p) {
		if m.closed {
			return m.spec.BytesToFrames(written), fmt.Errorf("malgo: sink closed")
		}
		room := m.queueMax - len(m.queue)
		if room == 0 {
			m.cond.Wait()
			continue
		}
		if room > len(p)-written {
			room = len(p) - written
		}
		m.queue = append(m.queue, p[written:written+room]...)
		written += room
	}
	return m.spec.BytesToFrames(written), nil
}

func (m *Malgo) Pause() error {
	m.mu.Lock()
	device, started := m.device, m.started
	m.started = false
	m.mu.Unlock()

	if device == nil {
		return fmt.Errorf("malgo: not opened")
	}
	if !started {
		return nil
	}
	if err := device.Stop(); err != nil {
		return fmt.Errorf("malgo: stop: %w", err)
	}
	return nil
}

func (m *Malgo) Resume() error { return m.Prepare() }

func (m *Malgo) Prepare() error {
	m.mu.Lock()
	device, started := m.device, m.started
	m.mu.Unlock()

	if device == nil {
		return fmt.Errorf("malgo: not opened")
	}
	if started {
		return nil
	}
	if err := device.Start(); err != nil {
		return fmt.Errorf("malgo: start: %w", err)
	}
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	return nil
}

// Drop discards the queue; a blocked write gets its space back at once.
func (m *Malgo) Drop() error {
	m.mu.Lock()
	m.queue = m.queue[:0]
	m.cond.Broadcast()
	m.mu.Unlock()
	return nil
}

// Drain blocks until the callback has consumed the queue.
func (m *Malgo) Drain() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.queue) > 0 && !m.closed {
		m.cond.Wait()
	}
	return nil
}

// Delay reports the frames queued but not yet passed to the device.
func (m *Malgo) Delay() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spec.BytesToFrames(len(m.queue))
}

// Recover restarts a stopped device; miniaudio handles underruns
// internally, so a restart is the only recovery there is.
func (m *Malgo) Recover(error) error {
	return m.Prepare()
}

func (m *Malgo) HardwareBufferMs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bufferMs
}

func (m *Malgo) Close() error {
	m.mu.Lock()
	m.closed = true
	m.cond.Broadcast()
	device, mctx := m.device, m.mctx
	m.device, m.mctx = nil, nil
	m.mu.Unlock()

	if device != nil {
		device.Uninit()
	}
	if mctx != nil {
		if err := mctx.Uninit(); err != nil {
			return fmt.Errorf("malgo: context uninit: %w", err)
		}
		mctx.Free()
	}
	return nil
}
