// ABOUTME: Package documentation for audio sinks
// ABOUTME: Describes the device abstraction consumed by the engine

// Package sink abstracts the hardware/OS audio output device. A Sink
// accepts bounded blocking writes of interleaved PCM frames and exposes
// the transport controls the engine's pump needs: pause/resume, drop,
// drain, delay query and error recovery.
//
// Backends: Oto (default, cross-platform), Malgo (miniaudio), PortAudio
// (behind the "portaudio" build tag) and Null (in-memory, for tests and
// examples).
package sink
