package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFromCode(t *testing.T) {
	errFactory := errors.New()

	tests := []struct {
		code errors.ErrorCode
		want fan.ErrorKind
	}{
		{errors.ErrSpeedOutOfRange, fan.KindInvalidSpeed},
		{errors.ErrBelowMinimum, fan.KindInvalidSpeed},
		{errors.ErrPeripheralFault, fan.KindPeripheral},
		{errors.ErrTimeout, fan.KindPeripheral},
		{errors.ErrInvalidConfig, fan.KindOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := errFactory.New(tt.code)
			assert.Equal(t, tt.want, err.Kind())
			assert.Equal(t, tt.want, fan.KindOf(err))
		})
	}
}

func TestKindFallsBackToCause(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.Wrap(errors.ErrInvalidConfig, fan.KindPeripheral)
	assert.Equal(t, fan.KindPeripheral, err.Kind())

	err = errFactory.Wrap(errors.ErrInvalidConfig, stderrors.New("boom"))
	assert.Equal(t, fan.KindOther, err.Kind())
}

func TestKindSurvivesWrapping(t *testing.T) {
	errFactory := errors.New()

	err := fmt.Errorf("set fan: %w", errFactory.New(errors.ErrPeripheralFault))
	assert.True(t, fan.IsKind(err, fan.KindPeripheral))
	assert.True(t, errors.HasCode(err, errors.ErrPeripheralFault))
	assert.False(t, errors.HasCode(err, errors.ErrTimeout))

	appErr, ok := fan.As[errors.Error](err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrPeripheralFault, appErr.Code())
}

func TestErrorMessage(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.New(errors.ErrSpeedOutOfRange)
	assert.Equal(t, "Requested speed exceeds the fan's maximum", err.Error())

	err = err.WithData("rpm 4000 > 3150")
	assert.Equal(t, "Requested speed exceeds the fan's maximum: rpm 4000 > 3150", err.Error())

	err = errFactory.WithMessage(errors.ErrInvalidConfig, "custom")
	assert.Equal(t, "custom", err.Error())

	cause := stderrors.New("bus stuck")
	wrapped := errFactory.Wrap(errors.ErrPeripheralFault, cause)
	assert.Equal(t, "Fault on the peripheral driving the fan: bus stuck", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}
