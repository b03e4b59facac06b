//go:build portaudio

// ABOUTME: PortAudio sink with blocking stream writes
// ABOUTME: Closest analogue to ALSA's blocking writei semantics
package sink

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/outpour-audio/outpour-go/pkg/pcm"
)

// PortAudio is a Sink backed by a blocking PortAudio stream. Only S16LE
// output is supported.
type PortAudio struct {
	mu       sync.Mutex
	stream   *portaudio.Stream
	buffer   []int16
	spec     pcm.Spec
	bufferMs int
	started  bool
}

// NewPortAudio creates a PortAudio sink.
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open initializes PortAudio and a default output stream. The stream is
// not started; Prepare starts it.
func (p *PortAudio) Open(cfg Config) error {
	if cfg.Spec.Format != pcm.FormatS16LE {
		return fmt.Errorf("portaudio: unsupported format %v (only S16_LE)", cfg.Spec.Format)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: initialize: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(
		0, cfg.Spec.Channels, float64(cfg.Spec.Rate),
		portaudio.FramesPerBufferUnspecified, &p.buffer)
	if err != nil {
		if terr := portaudio.Terminate(); terr != nil {
			return fmt.Errorf("portaudio: open: %v (terminate: %w)", err, terr)
		}
		return fmt.Errorf("portaudio: open: %w", err)
	}

	p.mu.Lock()
	p.stream = stream
	p.spec = cfg.Spec
	p.bufferMs = cfg.BufferMs
	p.started = false
	p.mu.Unlock()
	return nil
}

// WriteFrames converts the chunk to samples and issues one blocking
// stream write.
func (p *PortAudio) WriteFrames(b []byte) (int, error) {
	p.mu.Lock()
	stream := p.stream
	spec := p.spec
	p.mu.Unlock()

	if stream == nil {
		return 0, fmt.Errorf("portaudio: not opened")
	}

	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}

	p.mu.Lock()
	p.buffer = samples
	p.mu.Unlock()

	if err := stream.Write(); err != nil {
		// An underflowed write still consumed the buffer.
		if errors.Is(err, portaudio.OutputUnderflowed) {
			return spec.BytesToFrames(len(b)), err
		}
		return 0, err
	}
	return spec.BytesToFrames(len(b)), nil
}

func (p *PortAudio) Pause() error {
	p.mu.Lock()
	stream, started := p.stream, p.started
	p.started = false
	p.mu.Unlock()

	if stream == nil {
		return fmt.Errorf("portaudio: not opened")
	}
	if !started {
		return nil
	}
	return stream.Stop()
}

func (p *PortAudio) Resume() error { return p.Prepare() }

func (p *PortAudio) Prepare() error {
	p.mu.Lock()
	stream, started := p.stream, p.started
	p.mu.Unlock()

	if stream == nil {
		return fmt.Errorf("portaudio: not opened")
	}
	if started {
		return nil
	}
	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start: %w", err)
	}
	p.mu.Lock()
	p.started = true
	p.mu.Unlock()
	return nil
}

// Drop aborts the stream, discarding device-buffered audio; the next
// Prepare restarts it.
func (p *PortAudio) Drop() error {
	p.mu.Lock()
	stream, started := p.stream, p.started
	p.started = false
	p.mu.Unlock()

	if stream == nil {
		return fmt.Errorf("portaudio: not opened")
	}
	if !started {
		return nil
	}
	return stream.Abort()
}

// Drain stops the stream, which blocks until buffered audio has played.
func (p *PortAudio) Drain() error {
	p.mu.Lock()
	stream, started := p.stream, p.started
	p.started = false
	p.mu.Unlock()

	if stream == nil || !started {
		return nil
	}
	return stream.Stop()
}

// Delay estimates the device queue from the reported output latency.
func (p *PortAudio) Delay() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil || !p.started {
		return 0
	}
	info := p.stream.Info()
	if info == nil {
		return 0
	}
	return int(info.OutputLatency.Seconds() * float64(p.spec.Rate))
}

// Recover handles an underflow by restarting the stopped stream.
func (p *PortAudio) Recover(err error) error {
	if !errors.Is(err, portaudio.OutputUnderflowed) &&
		!errors.Is(err, portaudio.StreamIsStopped) {
		return err
	}
	return p.Prepare()
}

func (p *PortAudio) HardwareBufferMs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bufferMs
}

func (p *PortAudio) Close() error {
	p.mu.Lock()
	stream := p.stream
	p.stream = nil
	p.started = false
	p.mu.Unlock()

	if stream != nil {
		if err := stream.Close(); err != nil {
			return fmt.Errorf("portaudio: close: %w", err)
		}
	}
	return portaudio.Terminate()
}
