// ABOUTME: PCM format definitions and frame arithmetic
// ABOUTME: Defines sample formats and byte/frame/duration conversions
package pcm

import "fmt"

// Format identifies a raw PCM sample encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatS8
	FormatU8
	FormatS16LE
	FormatS16BE
	FormatU16LE
	FormatU16BE
	FormatS24LE
	FormatS24BE
	FormatS32LE
	FormatS32BE
	FormatF32LE
)

// SampleBytes returns the storage size of one sample in bytes.
func (f Format) SampleBytes() int {
	switch f {
	case FormatS8, FormatU8:
		return 1
	case FormatS16LE, FormatS16BE, FormatU16LE, FormatU16BE:
		return 2
	case FormatS24LE, FormatS24BE:
		return 3
	case FormatS32LE, FormatS32BE, FormatF32LE:
		return 4
	}
	return 0
}

// String returns the conventional format name.
func (f Format) String() string {
	switch f {
	case FormatS8:
		return "S8"
	case FormatU8:
		return "U8"
	case FormatS16LE:
		return "S16_LE"
	case FormatS16BE:
		return "S16_BE"
	case FormatU16LE:
		return "U16_LE"
	case FormatU16BE:
		return "U16_BE"
	case FormatS24LE:
		return "S24_LE"
	case FormatS24BE:
		return "S24_BE"
	case FormatS32LE:
		return "S32_LE"
	case FormatS32BE:
		return "S32_BE"
	case FormatF32LE:
		return "FLOAT_LE"
	}
	return "UNKNOWN"
}

// Spec describes a negotiated PCM stream: sample format, rate and channels.
type Spec struct {
	Format   Format
	Rate     int
	Channels int
}

// Validate checks that the spec describes a playable stream.
func (s Spec) Validate() error {
	if s.Format.SampleBytes() == 0 {
		return fmt.Errorf("unsupported sample format %v", s.Format)
	}
	if s.Rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", s.Rate)
	}
	if s.Channels <= 0 {
		return fmt.Errorf("invalid channel count %d", s.Channels)
	}
	return nil
}

// FrameBytes returns the size of one frame (one sample per channel).
func (s Spec) FrameBytes() int {
	return s.Format.SampleBytes() * s.Channels
}

// BytesToFrames converts a byte count to whole frames, truncating.
func (s Spec) BytesToFrames(n int) int {
	return n / s.FrameBytes()
}

// FramesToBytes converts a frame count to bytes.
func (s Spec) FramesToBytes(frames int) int {
	return frames * s.FrameBytes()
}

// BytesToMicros returns the play duration of n bytes in microseconds,
// truncating toward zero.
func (s Spec) BytesToMicros(n int) int64 {
	return int64(s.BytesToFrames(n)) * 1000000 / int64(s.Rate)
}

// MillisToBytes returns the byte length of ms milliseconds of audio,
// rounded down to a whole frame.
func (s Spec) MillisToBytes(ms int) int {
	frames := int64(ms) * int64(s.Rate) / 1000
	return s.FramesToBytes(int(frames))
}

func (s Spec) String() string {
	return fmt.Sprintf("%s %dHz %dch", s.Format, s.Rate, s.Channels)
}
