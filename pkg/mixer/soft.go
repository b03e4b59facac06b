// ABOUTME: Software gain element for sinks without a hardware mixer
// ABOUTME: Mono-capable element forwarding a 0..100 level as a gain factor
package mixer

// SoftElement is a mono, switchless Element that stores a level and
// forwards it to a sink's software gain control. It is the fallback
// when no hardware mixer element is configured.
type SoftElement struct {
	name   string
	volume int
	apply  func(gain float64)
}

// NewSoftElement creates a software element named name. apply, if not
// nil, receives the level as a 0.0..1.0 gain on every change. The
// initial level is 100.
func NewSoftElement(name string, apply func(gain float64)) *SoftElement {
	return &SoftElement{name: name, volume: 100, apply: apply}
}

func (e *SoftElement) Name() string       { return e.name }
func (e *SoftElement) Mono() bool         { return true }
func (e *SoftElement) HasSwitch() bool    { return false }
func (e *SoftElement) SwitchJoined() bool { return false }

func (e *SoftElement) Volume(Channel) (int, error) {
	return e.volume, nil
}

func (e *SoftElement) SetVolume(_ Channel, volume int) error {
	e.volume = volume
	if e.apply != nil {
		e.apply(float64(volume) / 100.0)
	}
	return nil
}

func (e *SoftElement) SetSwitch(Channel, bool) error {
	return nil
}
