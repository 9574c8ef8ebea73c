package fanasync_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/fanasync"
	"codeberg.org/mutker/fanhal/fansim"
	"codeberg.org/mutker/fanhal/fantest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSpeedPercent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		percent uint8
		want    uint16
	}{
		{50, 1575},
		{35, 1102},
		{0, 0},
		{100, 3150},
	}

	for _, tt := range tests {
		r := fantest.NewRecorder(3150, 0, 1120)
		got, err := fanasync.SetSpeedPercent(ctx, r.Async(), tt.percent)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "percent %d", tt.percent)
		assert.Equal(t, []uint16{tt.want}, r.Targets(), "percent %d", tt.percent)
	}
}

func TestSetSpeedPercentOutOfRange(t *testing.T) {
	r := fantest.NewRecorder(3150, 0, 1120)

	_, err := fanasync.SetSpeedPercent(context.Background(), r.Async(), 101)
	assert.True(t, fan.IsKind(err, fan.KindInvalidSpeed))
	assert.Empty(t, r.Calls())
}

func TestSetSpeedMaxAndStop(t *testing.T) {
	ctx := context.Background()
	r := fantest.NewRecorder(3150, 0, 1120)

	require.NoError(t, fanasync.SetSpeedMax(ctx, r.Async()))
	require.NoError(t, fanasync.Stop(ctx, r.Async()))
	assert.Equal(t, []uint16{3150, 0}, r.Targets())
}

func TestOverridesAreUsed(t *testing.T) {
	ctx := context.Background()
	o := fantest.NewOverriding(3150, 0, 1120)

	_, err := fanasync.SetSpeedPercent(ctx, o.Async(), 50)
	require.NoError(t, err)
	require.NoError(t, fanasync.SetSpeedMax(ctx, o.Async()))
	require.NoError(t, fanasync.Stop(ctx, o.Async()))

	assert.Equal(t, []fantest.Call{
		{Op: fantest.OpSetSpeedPercent, Arg: 50},
		{Op: fantest.OpSetSpeedRPM, Arg: 1575},
		{Op: fantest.OpSetSpeedMax, Arg: 3150},
		{Op: fantest.OpSetSpeedRPM, Arg: 3150},
		{Op: fantest.OpStop, Arg: 0},
		{Op: fantest.OpSetSpeedRPM, Arg: 0},
	}, o.Calls())
}

func TestMatchesBlockingVariant(t *testing.T) {
	ctx := context.Background()
	quantize := func(rpm uint16) uint16 { return rpm - rpm%25 }

	for _, percent := range []uint8{0, 1, 33, 50, 99, 100, 101} {
		blocking := fantest.NewRecorder(3150, 0, 1120)
		blocking.Achieve = quantize
		async := fantest.NewRecorder(3150, 0, 1120)
		async.Achieve = quantize

		want, wantErr := fan.SetSpeedPercent(blocking, percent)
		got, gotErr := fanasync.SetSpeedPercent(ctx, async.Async(), percent)

		assert.Equal(t, want, got, "percent %d", percent)
		assert.Equal(t, wantErr, gotErr, "percent %d", percent)
		assert.Equal(t, blocking.Calls(), async.Calls(), "percent %d", percent)
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := fantest.NewRecorder(3150, 0, 1120)

	_, err := fanasync.SetSpeedPercent(ctx, r.Async(), 50)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, fanasync.Stop(ctx, r.Async()), context.Canceled)
	assert.Empty(t, r.Calls())
}

func TestCancelledWhileWaiting(t *testing.T) {
	sim, err := fansim.New(fansim.Profile{
		Name:    "slow",
		MaxRPM:  3150,
		Latency: time.Hour,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = fanasync.SetSpeedPercent(ctx, sim.Async(), 50)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	rpm, err := sim.RPM()
	require.NoError(t, err)
	assert.Zero(t, rpm)
}

func TestLimitsOf(t *testing.T) {
	r := fantest.NewRecorder(3150, 200, 1120)
	assert.Equal(t, fan.Limits{Max: 3150, Min: 200, MinStart: 1120}, fanasync.LimitsOf(r.Async()))
}
