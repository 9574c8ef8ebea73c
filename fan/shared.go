package fan

import "sync"

// Shared serializes the mutating operations of one fan so that several
// goroutines can use it. Limit queries do not lock since they never mutate
// the device.
type Shared struct {
	mu sync.Mutex
	f  Fan
}

var (
	_ Fan           = (*Shared)(nil)
	_ PercentSetter = (*Shared)(nil)
	_ MaxSetter     = (*Shared)(nil)
	_ Stopper       = (*Shared)(nil)
)

// NewShared wraps f. After this call f must only be used through the
// returned Shared.
func NewShared(f Fan) *Shared {
	return &Shared{f: f}
}

func (s *Shared) MaxRPM() uint16 {
	return s.f.MaxRPM()
}

func (s *Shared) MinRPM() uint16 {
	return s.f.MinRPM()
}

func (s *Shared) MinStartRPM() uint16 {
	return s.f.MinStartRPM()
}

func (s *Shared) SetSpeedRPM(rpm uint16) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.SetSpeedRPM(rpm)
}

func (s *Shared) SetSpeedPercent(percent uint8) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SetSpeedPercent(s.f, percent)
}

func (s *Shared) SetSpeedMax() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SetSpeedMax(s.f)
}

func (s *Shared) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stop(s.f)
}

// SharedDevice is a Shared that also serializes speed readings.
type SharedDevice struct {
	*Shared
	s RPMSense
}

var _ Device = (*SharedDevice)(nil)

// NewSharedDevice wraps d.
func NewSharedDevice(d Device) *SharedDevice {
	return &SharedDevice{Shared: NewShared(d), s: d}
}

func (d *SharedDevice) RPM() (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.s.RPM()
}
