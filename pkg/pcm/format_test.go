// ABOUTME: Tests for PCM format definitions and frame arithmetic
// ABOUTME: Covers sample sizes, spec validation and duration conversions
package pcm

import (
	"testing"
)

func TestSampleBytes(t *testing.T) {
	tests := []struct {
		format Format
		want   int
	}{
		{FormatS8, 1},
		{FormatU8, 1},
		{FormatS16LE, 2},
		{FormatS16BE, 2},
		{FormatU16LE, 2},
		{FormatU16BE, 2},
		{FormatS24LE, 3},
		{FormatS24BE, 3},
		{FormatS32LE, 4},
		{FormatS32BE, 4},
		{FormatF32LE, 4},
		{FormatUnknown, 0},
	}

	for _, tt := range tests {
		if got := tt.format.SampleBytes(); got != tt.want {
			t.Errorf("%v.SampleBytes() = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if got := FormatS16LE.String(); got != "S16_LE" {
		t.Errorf("FormatS16LE.String() = %q, want S16_LE", got)
	}
	if got := FormatF32LE.String(); got != "FLOAT_LE" {
		t.Errorf("FormatF32LE.String() = %q, want FLOAT_LE", got)
	}
	if got := FormatUnknown.String(); got != "UNKNOWN" {
		t.Errorf("FormatUnknown.String() = %q, want UNKNOWN", got)
	}
}

func TestSpecValidate(t *testing.T) {
	valid := Spec{Format: FormatS16LE, Rate: 44100, Channels: 2}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}

	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown format", Spec{Format: FormatUnknown, Rate: 44100, Channels: 2}},
		{"zero rate", Spec{Format: FormatS16LE, Rate: 0, Channels: 2}},
		{"negative rate", Spec{Format: FormatS16LE, Rate: -1, Channels: 2}},
		{"zero channels", Spec{Format: FormatS16LE, Rate: 44100, Channels: 0}},
	}

	for _, tt := range tests {
		if err := tt.spec.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestFrameArithmetic(t *testing.T) {
	spec := Spec{Format: FormatS16LE, Rate: 44100, Channels: 2}

	if got := spec.FrameBytes(); got != 4 {
		t.Errorf("FrameBytes() = %d, want 4", got)
	}
	if got := spec.BytesToFrames(4000); got != 1000 {
		t.Errorf("BytesToFrames(4000) = %d, want 1000", got)
	}
	// Partial frames truncate.
	if got := spec.BytesToFrames(4003); got != 1000 {
		t.Errorf("BytesToFrames(4003) = %d, want 1000", got)
	}
	if got := spec.FramesToBytes(1000); got != 4000 {
		t.Errorf("FramesToBytes(1000) = %d, want 4000", got)
	}
}

func TestBytesToMicros(t *testing.T) {
	spec := Spec{Format: FormatS16LE, Rate: 44100, Channels: 2}

	// One second of audio.
	if got := spec.BytesToMicros(spec.FramesToBytes(44100)); got != 1000000 {
		t.Errorf("one second = %dus, want 1000000", got)
	}

	// Truncating division: one frame at 44100Hz is 22.67us.
	if got := spec.BytesToMicros(4); got != 22 {
		t.Errorf("one frame = %dus, want 22", got)
	}

	if got := spec.BytesToMicros(0); got != 0 {
		t.Errorf("zero bytes = %dus, want 0", got)
	}
}

func TestMillisToBytes(t *testing.T) {
	spec := Spec{Format: FormatS16LE, Rate: 8000, Channels: 1}

	// 500ms at 8000Hz mono S16 = 4000 frames = 8000 bytes.
	if got := spec.MillisToBytes(500); got != 8000 {
		t.Errorf("MillisToBytes(500) = %d, want 8000", got)
	}
	if got := spec.MillisToBytes(0); got != 0 {
		t.Errorf("MillisToBytes(0) = %d, want 0", got)
	}
}

func TestSpecString(t *testing.T) {
	spec := Spec{Format: FormatS16LE, Rate: 48000, Channels: 2}
	if got := spec.String(); got != "S16_LE 48000Hz 2ch" {
		t.Errorf("String() = %q", got)
	}
}
