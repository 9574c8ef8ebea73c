package fanasync

import (
	"context"
	"fmt"
	"slices"

	"codeberg.org/mutker/fanhal/fan"
	"golang.org/x/sync/errgroup"
)

// Bank drives several fans as one. Members are commanded concurrently;
// the first failure cancels the context passed to the others.
type Bank struct {
	fans []Fan
}

var _ Device = (*Bank)(nil)

// NewBank returns a bank of the given fans. Each member must be a distinct
// device, since members are driven from separate goroutines. It fails with
// a *fan.LimitsError when the members' limits do not overlap.
func NewBank(fans ...Fan) (*Bank, error) {
	b := &Bank{fans: fans}
	if l := LimitsOf(b); !l.Valid() {
		return nil, &fan.LimitsError{Limits: l}
	}

	return b, nil
}

// Len returns the number of fans in the bank.
func (b *Bank) Len() int {
	return len(b.fans)
}

// MaxRPM returns the lowest maximum of all members.
func (b *Bank) MaxRPM() uint16 {
	if len(b.fans) == 0 {
		return 0
	}

	maxRPM := b.fans[0].MaxRPM()
	for _, f := range b.fans[1:] {
		maxRPM = min(maxRPM, f.MaxRPM())
	}

	return maxRPM
}

// MinRPM returns the highest minimum of all members.
func (b *Bank) MinRPM() uint16 {
	var minRPM uint16
	for _, f := range b.fans {
		minRPM = max(minRPM, f.MinRPM())
	}

	return minRPM
}

// MinStartRPM returns the highest start speed of all members.
func (b *Bank) MinStartRPM() uint16 {
	var minStart uint16
	for _, f := range b.fans {
		minStart = max(minStart, f.MinStartRPM())
	}

	return minStart
}

// SetSpeedRPM commands every member and returns the lowest achieved speed.
func (b *Bank) SetSpeedRPM(ctx context.Context, rpm uint16) (uint16, error) {
	return b.each(ctx, func(ctx context.Context, f Fan) (uint16, error) {
		return f.SetSpeedRPM(ctx, rpm)
	})
}

// RPM returns the lowest measured speed of all members. Every member must
// implement RPMSense.
func (b *Bank) RPM(ctx context.Context) (uint16, error) {
	return b.each(ctx, func(ctx context.Context, f Fan) (uint16, error) {
		s, ok := f.(RPMSense)
		if !ok {
			return 0, fan.ErrNoSensor
		}
		return s.RPM(ctx)
	})
}

func (b *Bank) each(ctx context.Context, op func(context.Context, Fan) (uint16, error)) (uint16, error) {
	if len(b.fans) == 0 {
		return 0, nil
	}

	results := make([]uint16, len(b.fans))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range b.fans {
		g.Go(func() error {
			v, err := op(gctx, f)
			if err != nil {
				return fmt.Errorf("fan %d: %w", i, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return slices.Min(results), nil
}
