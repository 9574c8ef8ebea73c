package fantest

import (
	"context"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/fanasync"
)

// Overriding is a Recorder that also provides its own derived operations,
// as a driver optimizing them would. Each override is recorded under its
// own Op and then behaves exactly like the derived operation.
type Overriding struct {
	*Recorder
}

var (
	_ fan.PercentSetter = (*Overriding)(nil)
	_ fan.MaxSetter     = (*Overriding)(nil)
	_ fan.Stopper       = (*Overriding)(nil)
)

// NewOverriding returns an overriding recorder with the given limits.
func NewOverriding(maxRPM, minRPM, minStartRPM uint16) *Overriding {
	return &Overriding{Recorder: NewRecorder(maxRPM, minRPM, minStartRPM)}
}

func (o *Overriding) SetSpeedPercent(percent uint8) (uint16, error) {
	o.record(OpSetSpeedPercent, uint16(percent))
	return o.SetSpeedRPM(fan.PercentToRPM(o.MaxRPM(), percent))
}

func (o *Overriding) SetSpeedMax() error {
	o.record(OpSetSpeedMax, o.MaxRPM())
	_, err := o.SetSpeedRPM(o.MaxRPM())
	return err
}

func (o *Overriding) Stop() error {
	o.record(OpStop, 0)
	_, err := o.SetSpeedRPM(0)
	return err
}

// Async returns the context-aware view of o, keeping the overrides.
func (o *Overriding) Async() *AsyncOverriding {
	return &AsyncOverriding{AsyncRecorder: o.Recorder.Async(), o: o}
}

// AsyncOverriding is the context-aware view of an Overriding recorder.
type AsyncOverriding struct {
	*AsyncRecorder
	o *Overriding
}

var (
	_ fanasync.PercentSetter = (*AsyncOverriding)(nil)
	_ fanasync.MaxSetter     = (*AsyncOverriding)(nil)
	_ fanasync.Stopper       = (*AsyncOverriding)(nil)
)

func (a *AsyncOverriding) SetSpeedPercent(ctx context.Context, percent uint8) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return a.o.SetSpeedPercent(percent)
}

func (a *AsyncOverriding) SetSpeedMax(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.o.SetSpeedMax()
}

func (a *AsyncOverriding) Stop(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.o.Stop()
}
