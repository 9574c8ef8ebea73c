package fanasync_test

import (
	"context"
	"testing"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/fanasync"
	"codeberg.org/mutker/fanhal/fantest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome struct {
	rpm uint16
	err error
}

func exercise(ctx context.Context, f fanasync.Fan) []outcome {
	var out []outcome
	add := func(rpm uint16, err error) {
		out = append(out, outcome{rpm, err})
	}

	add(f.MaxRPM(), nil)
	add(f.MinRPM(), nil)
	add(f.MinStartRPM(), nil)
	add(f.SetSpeedRPM(ctx, 1500))
	add(fanasync.SetSpeedPercent(ctx, f, 35))
	add(fanasync.SetSpeedPercent(ctx, f, 101))
	add(0, fanasync.SetSpeedMax(ctx, f))
	add(0, fanasync.Stop(ctx, f))

	return out
}

func TestRefTransparency(t *testing.T) {
	ctx := context.Background()

	direct := fantest.NewRecorder(3150, 0, 1120)
	borrowed := fantest.NewRecorder(3150, 0, 1120)

	assert.Equal(t, exercise(ctx, direct.Async()), exercise(ctx, fanasync.Borrow(fanasync.Borrow(borrowed.Async()))))
	assert.Equal(t, direct.Calls(), borrowed.Calls())
}

func TestRefForwardsToOverrides(t *testing.T) {
	ctx := context.Background()

	direct := fantest.NewOverriding(3150, 0, 1120)
	borrowed := fantest.NewOverriding(3150, 0, 1120)

	assert.Equal(t, exercise(ctx, direct.Async()), exercise(ctx, fanasync.Borrow(borrowed.Async())))
	assert.Equal(t, direct.Calls(), borrowed.Calls())
}

func TestRefTransparencyOnError(t *testing.T) {
	ctx := context.Background()
	driverErr := &fantest.Error{K: fan.KindPeripheral, Msg: "bus timeout"}

	direct := fantest.NewRecorder(3150, 0, 1120)
	direct.Err = driverErr
	borrowed := fantest.NewRecorder(3150, 0, 1120)
	borrowed.Err = driverErr

	assert.Equal(t, exercise(ctx, direct.Async()), exercise(ctx, fanasync.BorrowDevice(borrowed.Async())))

	_, err := fanasync.BorrowDevice(borrowed.Async()).RPM(ctx)
	got, ok := fan.As[*fantest.Error](err)
	require.True(t, ok)
	assert.Same(t, driverErr, got)
}

func TestSenseRef(t *testing.T) {
	ctx := context.Background()
	r := fantest.NewRecorder(3150, 0, 1120)
	_, err := r.SetSpeedRPM(900)
	require.NoError(t, err)

	rpm, err := fanasync.BorrowSense(r.Async()).RPM(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(900), rpm)

	a := r.Async()
	assert.Same(t, a, fanasync.Borrow(a).Unwrap())
	assert.Same(t, a, fanasync.BorrowSense(a).Unwrap())

	var d fanasync.Device = fanasync.BorrowDevice(a).Unwrap()
	assert.Same(t, a, d)
}
