// ABOUTME: Playback clock derived from bytes accepted from the producer
// ABOUTME: Integer-microsecond arithmetic, no wall-clock time source
package engine

import "github.com/outpour-audio/outpour-go/pkg/pcm"

// Clock tracks how much audio has been accepted from the producer and
// derives the current output time by subtracting what is still buffered
// locally and inside the device.
//
// All arithmetic is in int64 microseconds with truncating division, which
// bounds the accounting error to under a microsecond per write instead of
// under a millisecond.
type Clock struct {
	writtenMicros int64
}

// RecordWrite advances the written counter by the play duration of n
// bytes.
func (c *Clock) RecordWrite(n int, spec pcm.Spec) {
	c.writtenMicros += spec.BytesToMicros(n)
}

// WrittenTimeMs returns the total audio accepted so far in milliseconds.
func (c *Clock) WrittenTimeMs() int {
	return int(c.writtenMicros / 1000)
}

// Reset sets the written counter to the given millisecond position; used
// on flush/seek.
func (c *Clock) Reset(ms int) {
	c.writtenMicros = 1000 * int64(ms)
}

// OutputTimeMs returns the position currently audible at the speaker:
// written time minus locally buffered bytes and the device's internal
// delay. The result is not clamped and can be negative while the device
// still holds more audio than has been written after a reset.
func (c *Clock) OutputTimeMs(bufferedBytes, delayFrames int, spec pcm.Spec) int {
	pending := int64(spec.BytesToFrames(bufferedBytes)) + int64(delayFrames)
	return int((c.writtenMicros - pending*1000000/int64(spec.Rate)) / 1000)
}
