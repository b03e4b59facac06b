// ABOUTME: Oto-based sink, the default cross-platform backend
// ABOUTME: Feeds a persistent oto player through a pipe for blocking writes
package sink

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/outpour-audio/outpour-go/pkg/pcm"
)

// oto allows one context per process; every Oto sink shares it.
var (
	otoCtxMu   sync.Mutex
	otoCtx     *oto.Context
	otoCtxSpec pcm.Spec
)

// Oto is a Sink backed by the oto library. Only S16LE output is
// supported, and because oto cannot re-create its context, all sessions
// in one process must share a sample rate and channel count.
type Oto struct {
	mu         sync.Mutex
	ctx        *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	spec       pcm.Spec
	bufferMs   int
	gain       float64
}

// NewOto creates an oto sink.
func NewOto() *Oto {
	return &Oto{gain: 1.0}
}

// Open initializes the shared oto context and a player reading from a
// pipe. The player is not started; Prepare starts it.
func (o *Oto) Open(cfg Config) error {
	if cfg.Spec.Format != pcm.FormatS16LE {
		return fmt.Errorf("oto: unsupported format %v (only S16_LE)", cfg.Spec.Format)
	}

	otoCtxMu.Lock()
	if otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   cfg.Spec.Rate,
			ChannelCount: cfg.Spec.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   time.Duration(cfg.BufferMs) * time.Millisecond,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoCtxMu.Unlock()
			return fmt.Errorf("oto: context: %w", err)
		}
		<-readyChan
		otoCtx = ctx
		otoCtxSpec = cfg.Spec
	} else if otoCtxSpec.Rate != cfg.Spec.Rate || otoCtxSpec.Channels != cfg.Spec.Channels {
		otoCtxMu.Unlock()
		return fmt.Errorf("oto: context already initialized for %v, cannot reopen as %v",
			otoCtxSpec, cfg.Spec)
	}
	ctx := otoCtx
	otoCtxMu.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.ctx = ctx
	o.spec = cfg.Spec
	o.bufferMs = cfg.BufferMs
	o.newPlayerLocked()
	return nil
}

// newPlayerLocked (re)creates the pipe and the player reading from it.
// The player starts paused; Prepare starts it.
func (o *Oto) newPlayerLocked() {
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.ctx.NewPlayer(o.pipeReader)
	o.player.SetVolume(o.gain)
}

// WriteFrames blocks until the player has consumed p from the pipe.
func (o *Oto) WriteFrames(p []byte) (int, error) {
	o.mu.Lock()
	pw := o.pipeWriter
	spec := o.spec
	o.mu.Unlock()

	if pw == nil {
		return 0, fmt.Errorf("oto: not opened")
	}
	n, err := pw.Write(p)
	return spec.BytesToFrames(n), err
}

func (o *Oto) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return fmt.Errorf("oto: not opened")
	}
	o.player.Pause()
	return nil
}

func (o *Oto) Resume() error { return o.Prepare() }

func (o *Oto) Prepare() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return fmt.Errorf("oto: not opened")
	}
	o.player.Play()
	return nil
}

// Drop discards buffered audio by tearing down the pipe and the player.
// A write blocked in WriteFrames unblocks with a pipe error, which the
// pump ignores during a drop. A fresh, paused player takes over.
func (o *Oto) Drop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return fmt.Errorf("oto: not opened")
	}
	o.pipeReader.CloseWithError(io.ErrClosedPipe)
	o.pipeWriter.Close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("oto: player close on drop: %w", err)
	}
	o.newPlayerLocked()
	return nil
}

// Drain polls until the player's unplayed buffer is empty.
func (o *Oto) Drain() error {
	o.mu.Lock()
	bufferMs := o.bufferMs
	o.mu.Unlock()

	deadline := time.Now().Add(time.Duration(bufferMs+1000) * time.Millisecond)
	for {
		o.mu.Lock()
		player := o.player
		o.mu.Unlock()
		if player == nil || player.BufferedSize() == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("oto: drain timed out")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Delay reports the frames sitting in the player's unplayed buffer.
func (o *Oto) Delay() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return 0
	}
	return o.spec.BytesToFrames(int(o.player.BufferedSize()))
}

// Recover cannot revive a broken pipe; the error is final.
func (o *Oto) Recover(err error) error { return err }

func (o *Oto) HardwareBufferMs() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bufferMs
}

// Close releases the player; the process-wide context stays alive for
// the next session.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			o.player = nil
			return fmt.Errorf("oto: player close: %w", err)
		}
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	return nil
}

// SetGain adjusts software gain (0.0..1.0); used by the mixer bridge.
func (o *Oto) SetGain(gain float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gain = gain
	if o.player != nil {
		o.player.SetVolume(gain)
	}
}
