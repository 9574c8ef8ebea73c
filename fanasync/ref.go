package fanasync

import "context"

// Ref is a delegation adapter forwarding every operation to a borrowed Fan.
// Derived operations go to the underlying fan's derived operations, never
// recomputed here.
type Ref struct {
	f Fan
}

var (
	_ Fan           = (*Ref)(nil)
	_ PercentSetter = (*Ref)(nil)
	_ MaxSetter     = (*Ref)(nil)
	_ Stopper       = (*Ref)(nil)
)

// Borrow returns a delegation adapter for f.
func Borrow(f Fan) *Ref {
	return &Ref{f: f}
}

// Unwrap returns the borrowed fan.
func (r *Ref) Unwrap() Fan {
	return r.f
}

func (r *Ref) SetSpeedRPM(ctx context.Context, rpm uint16) (uint16, error) {
	return r.f.SetSpeedRPM(ctx, rpm)
}

func (r *Ref) MaxRPM() uint16 {
	return r.f.MaxRPM()
}

func (r *Ref) MinRPM() uint16 {
	return r.f.MinRPM()
}

func (r *Ref) MinStartRPM() uint16 {
	return r.f.MinStartRPM()
}

func (r *Ref) SetSpeedPercent(ctx context.Context, percent uint8) (uint16, error) {
	return SetSpeedPercent(ctx, r.f, percent)
}

func (r *Ref) SetSpeedMax(ctx context.Context) error {
	return SetSpeedMax(ctx, r.f)
}

func (r *Ref) Stop(ctx context.Context) error {
	return Stop(ctx, r.f)
}

// SenseRef is the delegation adapter for RPMSense.
type SenseRef struct {
	s RPMSense
}

var _ RPMSense = (*SenseRef)(nil)

// BorrowSense returns a delegation adapter for s.
func BorrowSense(s RPMSense) *SenseRef {
	return &SenseRef{s: s}
}

// Unwrap returns the borrowed sensor.
func (r *SenseRef) Unwrap() RPMSense {
	return r.s
}

func (r *SenseRef) RPM(ctx context.Context) (uint16, error) {
	return r.s.RPM(ctx)
}

// DeviceRef borrows a Device, forwarding both capabilities.
type DeviceRef struct {
	*Ref
	*SenseRef
	d Device
}

var _ Device = (*DeviceRef)(nil)

// BorrowDevice returns a delegation adapter for d.
func BorrowDevice(d Device) *DeviceRef {
	return &DeviceRef{
		Ref:      Borrow(d),
		SenseRef: BorrowSense(d),
		d:        d,
	}
}

// Unwrap returns the borrowed device.
func (r *DeviceRef) Unwrap() Device {
	return r.d
}
