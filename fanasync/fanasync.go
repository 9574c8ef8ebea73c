// Package fanasync is the context-aware counterpart of package fan.
//
// Operations that interact with the device take a context.Context and may
// park the calling goroutine while the device responds, e.g. while a bus
// transaction completes. Limit queries never wait and take no context.
//
// The data and error model is shared with package fan: errors classify
// through fan.Error and fan.KindOf, and percent arithmetic is
// fan.PercentToRPM.
//
// If ctx is cancelled during an operation, the operation returns the
// context error and the device is left in whatever state the driver
// defines. Nothing is rolled back.
package fanasync

import (
	"context"

	"codeberg.org/mutker/fanhal/fan"
)

// Fan is the context-aware speed-control capability.
type Fan interface {
	// SetSpeedRPM sets the fan's speed in absolute RPM and returns the
	// speed actually set.
	SetSpeedRPM(ctx context.Context, rpm uint16) (uint16, error)
	// MaxRPM returns the maximum RPM the fan is capable of running at.
	MaxRPM() uint16
	// MinRPM returns the minimum RPM the fan is capable of running at.
	MinRPM() uint16
	// MinStartRPM returns the minimum RPM needed for the fan to begin
	// running from a dead stop.
	MinStartRPM() uint16
}

// RPMSense is the context-aware speed-sensing capability.
type RPMSense interface {
	// RPM returns the fan's currently measured speed.
	RPM(ctx context.Context) (uint16, error)
}

// Device is a fan that can be both controlled and sensed.
type Device interface {
	Fan
	RPMSense
}

// PercentSetter may be implemented by a Fan to replace the derived
// SetSpeedPercent with an optimized version of identical behavior.
type PercentSetter interface {
	SetSpeedPercent(ctx context.Context, percent uint8) (uint16, error)
}

// MaxSetter may be implemented by a Fan to replace the derived SetSpeedMax.
type MaxSetter interface {
	SetSpeedMax(ctx context.Context) error
}

// Stopper may be implemented by a Fan to replace the derived Stop.
type Stopper interface {
	Stop(ctx context.Context) error
}

// LimitsOf returns the operating limits of f.
func LimitsOf(f Fan) fan.Limits {
	return fan.Limits{
		Max:      f.MaxRPM(),
		Min:      f.MinRPM(),
		MinStart: f.MinStartRPM(),
	}
}

// SetSpeedPercent sets the speed of f in percent of its maximum RPM. An
// out-of-range percent is reported as a *fan.PercentError without touching
// the device.
func SetSpeedPercent(ctx context.Context, f Fan, percent uint8) (uint16, error) {
	if err := fan.CheckPercent(percent); err != nil {
		return 0, err
	}
	if p, ok := f.(PercentSetter); ok {
		return p.SetSpeedPercent(ctx, percent)
	}

	return f.SetSpeedRPM(ctx, fan.PercentToRPM(f.MaxRPM(), percent))
}

// SetSpeedMax sets f to the maximum RPM it is capable of.
func SetSpeedMax(ctx context.Context, f Fan) error {
	if m, ok := f.(MaxSetter); ok {
		return m.SetSpeedMax(ctx)
	}

	_, err := f.SetSpeedRPM(ctx, f.MaxRPM())
	return err
}

// Stop stops f completely.
func Stop(ctx context.Context, f Fan) error {
	if s, ok := f.(Stopper); ok {
		return s.Stop(ctx)
	}

	_, err := f.SetSpeedRPM(ctx, 0)
	return err
}
