package middleware

import (
	"context"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/fanasync"
)

// Fan decorates a blocking fan.
type Fan struct {
	next fan.Fan
	opts options
}

var _ fan.Fan = (*Fan)(nil)

// Wrap decorates f with the given options.
func Wrap(f fan.Fan, opts ...Option) *Fan {
	return &Fan{next: f, opts: newOptions(opts)}
}

func (m *Fan) MaxRPM() uint16 {
	return m.next.MaxRPM()
}

func (m *Fan) MinRPM() uint16 {
	return m.next.MinRPM()
}

func (m *Fan) MinStartRPM() uint16 {
	return m.next.MinStartRPM()
}

func (m *Fan) SetSpeedRPM(rpm uint16) (uint16, error) {
	return m.opts.run(context.Background(), opSetSpeedRPM, rpm, func() (uint16, error) {
		return m.next.SetSpeedRPM(rpm)
	})
}

// Device decorates a blocking fan with a tachometer.
type Device struct {
	*Fan
	sense fan.RPMSense
}

var _ fan.Device = (*Device)(nil)

// WrapDevice decorates d with the given options.
func WrapDevice(d fan.Device, opts ...Option) *Device {
	return &Device{Fan: Wrap(d, opts...), sense: d}
}

func (m *Device) RPM() (uint16, error) {
	return m.opts.run(context.Background(), opRPM, 0, m.sense.RPM)
}

// AsyncFan decorates a context-aware fan. Retries wait on the caller's
// context.
type AsyncFan struct {
	next fanasync.Fan
	opts options
}

var _ fanasync.Fan = (*AsyncFan)(nil)

// WrapAsync decorates f with the given options.
func WrapAsync(f fanasync.Fan, opts ...Option) *AsyncFan {
	return &AsyncFan{next: f, opts: newOptions(opts)}
}

func (m *AsyncFan) MaxRPM() uint16 {
	return m.next.MaxRPM()
}

func (m *AsyncFan) MinRPM() uint16 {
	return m.next.MinRPM()
}

func (m *AsyncFan) MinStartRPM() uint16 {
	return m.next.MinStartRPM()
}

func (m *AsyncFan) SetSpeedRPM(ctx context.Context, rpm uint16) (uint16, error) {
	return m.opts.run(ctx, opSetSpeedRPM, rpm, func() (uint16, error) {
		return m.next.SetSpeedRPM(ctx, rpm)
	})
}

// AsyncDevice decorates a context-aware fan with a tachometer.
type AsyncDevice struct {
	*AsyncFan
	sense fanasync.RPMSense
}

var _ fanasync.Device = (*AsyncDevice)(nil)

// WrapAsyncDevice decorates d with the given options.
func WrapAsyncDevice(d fanasync.Device, opts ...Option) *AsyncDevice {
	return &AsyncDevice{AsyncFan: WrapAsync(d, opts...), sense: d}
}

func (m *AsyncDevice) RPM(ctx context.Context) (uint16, error) {
	return m.opts.run(ctx, opRPM, 0, func() (uint16, error) {
		return m.sense.RPM(ctx)
	})
}
