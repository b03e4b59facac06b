//go:build !portaudio

// ABOUTME: PortAudio stub when the library is not enabled
// ABOUTME: Compile-time placeholder selected without the portaudio tag
package sink

import "fmt"

var errNoPortAudio = fmt.Errorf("portaudio support not enabled (build with -tags portaudio)")

// PortAudio sink (stub).
type PortAudio struct{}

// NewPortAudio creates a PortAudio sink stub.
func NewPortAudio() *PortAudio { return &PortAudio{} }

func (p *PortAudio) Open(Config) error               { return errNoPortAudio }
func (p *PortAudio) WriteFrames([]byte) (int, error) { return 0, errNoPortAudio }
func (p *PortAudio) Pause() error                    { return errNoPortAudio }
func (p *PortAudio) Resume() error                   { return errNoPortAudio }
func (p *PortAudio) Prepare() error                  { return errNoPortAudio }
func (p *PortAudio) Drop() error                     { return errNoPortAudio }
func (p *PortAudio) Drain() error                    { return errNoPortAudio }
func (p *PortAudio) Delay() int                      { return 0 }
func (p *PortAudio) Recover(err error) error         { return err }
func (p *PortAudio) HardwareBufferMs() int           { return 0 }
func (p *PortAudio) Close() error                    { return nil }
