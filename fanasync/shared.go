package fanasync

import "context"

// Shared serializes the operations of one fan across goroutines. Waiting
// for the fan honors the caller's context.
type Shared struct {
	sem chan struct{}
	f   Fan
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
	return &Shared{sem: make(chan struct{}, 1), f: f}
}

func (s *Shared) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shared) release() {
	<-s.sem
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

func (s *Shared) SetSpeedRPM(ctx context.Context, rpm uint16) (uint16, error) {
	if err := s.acquire(ctx); err != nil {
		return 0, err
	}
	defer s.release()
	return s.f.SetSpeedRPM(ctx, rpm)
}

func (s *Shared) SetSpeedPercent(ctx context.Context, percent uint8) (uint16, error) {
	if err := s.acquire(ctx); err != nil {
		return 0, err
	}
	defer s.release()
	return SetSpeedPercent(ctx, s.f, percent)
}

func (s *Shared) SetSpeedMax(ctx context.Context) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return SetSpeedMax(ctx, s.f)
}

func (s *Shared) Stop(ctx context.Context) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return Stop(ctx, s.f)
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

func (d *SharedDevice) RPM(ctx context.Context) (uint16, error) {
	if err := d.acquire(ctx); err != nil {
		return 0, err
	}
	defer d.release()
	return d.s.RPM(ctx)
}
