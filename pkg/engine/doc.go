// ABOUTME: Package documentation for the playback engine
// ABOUTME: Describes the session/pump/ring/clock architecture

// Package engine implements a ring-buffered PCM playback engine.
//
// A Session decouples a producer (decoder or application thread calling
// Write) from a consumer (the pump goroutine feeding a sink.Sink). All
// shared state is guarded by one mutex and one condition variable per
// session; Write blocks when the buffer is full, the pump blocks when it
// is empty or playback is paused, and Close unblocks everything.
//
// Playback starts lazily: a freshly opened session buffers writes until
// the first Write call that would otherwise block, which avoids an
// immediate underrun on start.
package engine
