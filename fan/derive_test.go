package fan_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/fantest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentToRPMExhaustive(t *testing.T) {
	for maxRPM := 0; maxRPM <= math.MaxUint16; maxRPM++ {
		for percent := 0; percent <= fan.MaxPercent; percent++ {
			want := uint16(uint64(maxRPM) * uint64(percent) / 100)
			if got := fan.PercentToRPM(uint16(maxRPM), uint8(percent)); got != want {
				t.Fatalf("PercentToRPM(%d, %d) = %d, want %d", maxRPM, percent, got, want)
			}
		}
	}
}

func TestPercentToRPMNoOverflow(t *testing.T) {
	assert.Equal(t, uint16(65535), fan.PercentToRPM(65535, 100))
	assert.Equal(t, uint16(32767), fan.PercentToRPM(65535, 50))
	assert.Equal(t, uint16(0), fan.PercentToRPM(65535, 0))
}

func TestSetSpeedPercentScenario(t *testing.T) {
	tests := []struct {
		percent uint8
		want    uint16
	}{
		{50, 1575},
		{35, 1102},
		{0, 0},
		{100, 3150},
		{1, 31},
	}

	for _, tt := range tests {
		r := fantest.NewRecorder(3150, 0, 1120)
		got, err := fan.SetSpeedPercent(r, tt.percent)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "percent %d", tt.percent)
		assert.Equal(t, []uint16{tt.want}, r.Targets(), "percent %d", tt.percent)
	}
}

func TestSetSpeedPercentMatchesAbsolute(t *testing.T) {
	for _, maxRPM := range []uint16{0, 1, 99, 3150, 65535} {
		viaPercent := fantest.NewRecorder(maxRPM, 0, 0)
		direct := fantest.NewRecorder(maxRPM, 0, 0)

		_, err := fan.SetSpeedPercent(viaPercent, 0)
		require.NoError(t, err)
		_, err = direct.SetSpeedRPM(0)
		require.NoError(t, err)

		_, err = fan.SetSpeedPercent(viaPercent, 100)
		require.NoError(t, err)
		_, err = direct.SetSpeedRPM(direct.MaxRPM())
		require.NoError(t, err)

		assert.Equal(t, direct.Targets(), viaPercent.Targets(), "max %d", maxRPM)
	}
}

func TestSetSpeedPercentReturnsAchieved(t *testing.T) {
	r := fantest.NewRecorder(3150, 0, 1120)
	r.Achieve = func(rpm uint16) uint16 { return rpm - rpm%100 }

	got, err := fan.SetSpeedPercent(r, 35)
	require.NoError(t, err)
	assert.Equal(t, uint16(1100), got)
	assert.Equal(t, []uint16{1102}, r.Targets())
}

func TestSetSpeedPercentOutOfRange(t *testing.T) {
	for _, percent := range []uint8{101, 200, 255} {
		r := fantest.NewRecorder(3150, 0, 1120)

		_, err := fan.SetSpeedPercent(r, percent)
		require.Error(t, err)
		assert.Equal(t, fan.KindInvalidSpeed, fan.KindOf(err))

		var pe *fan.PercentError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, percent, pe.Percent)
		assert.Empty(t, r.Calls(), "device must not be touched")
	}
}

func TestSetSpeedMax(t *testing.T) {
	r := fantest.NewRecorder(3150, 0, 1120)
	r.Achieve = func(uint16) uint16 { return 3000 }

	require.NoError(t, fan.SetSpeedMax(r))
	assert.Equal(t, []uint16{3150}, r.Targets())
}

func TestStop(t *testing.T) {
	r := fantest.NewRecorder(3150, 0, 1120)

	require.NoError(t, fan.Stop(r))
	assert.Equal(t, []uint16{0}, r.Targets())
}

func TestDerivedOperationsPropagateErrors(t *testing.T) {
	driverErr := &fantest.Error{K: fan.KindPeripheral, Msg: "pwm timer stalled"}
	r := fantest.NewRecorder(3150, 0, 1120)
	r.Err = driverErr

	_, err := fan.SetSpeedPercent(r, 50)
	assert.ErrorIs(t, err, driverErr)
	assert.ErrorIs(t, fan.SetSpeedMax(r), driverErr)
	assert.ErrorIs(t, fan.Stop(r), driverErr)
	assert.Len(t, r.Calls(), 3)
}

func TestDerivedOperationsUseOverrides(t *testing.T) {
	o := fantest.NewOverriding(3150, 0, 1120)

	got, err := fan.SetSpeedPercent(o, 35)
	require.NoError(t, err)
	assert.Equal(t, uint16(1102), got)
	require.NoError(t, fan.SetSpeedMax(o))
	require.NoError(t, fan.Stop(o))

	assert.Equal(t, []fantest.Call{
		{Op: fantest.OpSetSpeedPercent, Arg: 35},
		{Op: fantest.OpSetSpeedRPM, Arg: 1102},
		{Op: fantest.OpSetSpeedMax, Arg: 3150},
		{Op: fantest.OpSetSpeedRPM, Arg: 3150},
		{Op: fantest.OpStop, Arg: 0},
		{Op: fantest.OpSetSpeedRPM, Arg: 0},
	}, o.Calls())
}

func TestOverrideStillRejectsOutOfRangePercent(t *testing.T) {
	o := fantest.NewOverriding(3150, 0, 1120)

	_, err := fan.SetSpeedPercent(o, 101)
	assert.True(t, fan.IsKind(err, fan.KindInvalidSpeed))
	assert.Empty(t, o.Calls())
}

func TestLimitsOf(t *testing.T) {
	r := fantest.NewRecorder(3150, 0, 1120)

	l := fan.LimitsOf(r)
	assert.Equal(t, fan.Limits{Max: 3150, Min: 0, MinStart: 1120}, l)
	assert.True(t, l.Valid())
	assert.False(t, fan.Limits{Max: 1000, Min: 600, MinStart: 500}.Valid())
	assert.False(t, fan.Limits{Max: 1000, Min: 0, MinStart: 1500}.Valid())
}
