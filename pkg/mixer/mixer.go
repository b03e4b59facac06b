// ABOUTME: Volume/mixer bridge translating logical volume to sink controls
// ABOUTME: Handles mono elements and joined/independent mute switches
package mixer

import (
	"sync"

	"github.com/rs/zerolog"
)

// Channel selects a playback channel on an Element.
type Channel int

const (
	ChannelMono Channel = iota
	ChannelLeft
	ChannelRight
)

// Element is a sink-specific volume control. Capability queries drive
// how the Bridge maps a logical (left, right) pair onto it.
type Element interface {
	// Name identifies the element for diagnostics.
	Name() string

	// Mono reports whether the element has a single playback channel.
	Mono() bool

	// HasSwitch reports whether the element has a playback mute switch.
	HasSwitch() bool

	// SwitchJoined reports whether one switch controls all channels.
	SwitchJoined() bool

	// Volume returns the current level (0..100) of a channel.
	Volume(ch Channel) (int, error)

	// SetVolume sets the level (0..100) of a channel.
	SetVolume(ch Channel, volume int) error

	// SetSwitch sets the mute switch of a channel; on means audible.
	SetSwitch(ch Channel, on bool) error
}

// Bridge adapts logical per-channel volume (0..100 each) to an Element.
// It is safe for concurrent use from a UI poller; element errors are
// logged and swallowed so volume control never fails playback.
//
// A Bridge with a nil element is degraded: Volume reports zero and
// SetVolume is a no-op.
type Bridge struct {
	mu   sync.Mutex
	elem Element
	log  zerolog.Logger
}

// NewBridge creates a bridge over elem, which may be nil when the
// configured mixer element could not be opened.
func NewBridge(elem Element, log zerolog.Logger) *Bridge {
	b := &Bridge{elem: elem, log: log}
	if elem == nil {
		log.Warn().Msg("mixer element unavailable, volume control disabled")
	}
	return b
}

// Volume reads the current levels. A mono element is mirrored onto both
// channels.
func (b *Bridge) Volume() (left, right int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.elem == nil {
		return 0, 0
	}

	if b.elem.Mono() {
		v, err := b.elem.Volume(ChannelMono)
		if err != nil {
			b.log.Warn().Err(err).Str("element", b.elem.Name()).Msg("volume read failed")
			return 0, 0
		}
		return v, v
	}

	left = b.channelVolume(ChannelLeft)
	right = b.channelVolume(ChannelRight)
	return left, right
}

// SetVolume writes both channel levels. A mono element receives the
// louder channel. Where the element has mute switches, a zero level
// mutes: a joined switch follows the louder channel, independent
// switches follow each channel.
func (b *Bridge) SetVolume(left, right int) {
	left = clamp(left)
	right = clamp(right)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.elem == nil {
		return
	}

	louder := left
	if right > louder {
		louder = right
	}

	if b.elem.Mono() {
		b.apply(b.elem.SetVolume(ChannelMono, louder), "set volume")
		if b.elem.HasSwitch() {
			b.apply(b.elem.SetSwitch(ChannelMono, louder != 0), "set switch")
		}
		return
	}

	b.apply(b.elem.SetVolume(ChannelLeft, left), "set volume")
	b.apply(b.elem.SetVolume(ChannelRight, right), "set volume")

	if b.elem.HasSwitch() {
		if b.elem.SwitchJoined() {
			b.apply(b.elem.SetSwitch(ChannelLeft, louder != 0), "set switch")
		} else {
			b.apply(b.elem.SetSwitch(ChannelLeft, left != 0), "set switch")
			b.apply(b.elem.SetSwitch(ChannelRight, right != 0), "set switch")
		}
	}
}

func (b *Bridge) channelVolume(ch Channel) int {
	v, err := b.elem.Volume(ch)
	if err != nil {
		b.log.Warn().Err(err).Str("element", b.elem.Name()).Msg("volume read failed")
		return 0
	}
	return v
}

func (b *Bridge) apply(err error, op string) {
	if err != nil {
		b.log.Warn().Err(err).Str("element", b.elem.Name()).Msg(op + " failed")
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
