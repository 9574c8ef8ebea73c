package errors

import "codeberg.org/mutker/fanhal/fan"

// Common error codes
const (
	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidProfile  ErrorCode = "invalid_fan_profile"
	ErrDuplicateFan    ErrorCode = "duplicate_fan_name"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Speed errors
	ErrSpeedOutOfRange ErrorCode = "speed_out_of_range"
	ErrBelowMinimum    ErrorCode = "speed_below_minimum"

	// Peripheral errors
	ErrPeripheralFault ErrorCode = "peripheral_fault"
	ErrTimeout         ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read config file",
	ErrInvalidProfile:  "Invalid fan profile",
	ErrDuplicateFan:    "Duplicate fan name",
	ErrInvalidLogLevel: "Invalid log level",
	ErrSpeedOutOfRange: "Requested speed exceeds the fan's maximum",
	ErrBelowMinimum:    "Requested speed is below the fan's minimum",
	ErrPeripheralFault: "Fault on the peripheral driving the fan",
	ErrTimeout:         "Operation timed out",
}

// Fan error kinds per code. Codes without an entry classify by their cause.
var errorKinds = map[ErrorCode]fan.ErrorKind{
	ErrSpeedOutOfRange: fan.KindInvalidSpeed,
	ErrBelowMinimum:    fan.KindInvalidSpeed,
	ErrPeripheralFault: fan.KindPeripheral,
	ErrTimeout:         fan.KindPeripheral,
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}

// GetErrorKind returns the fan error kind for a given error code
func GetErrorKind(code ErrorCode) (fan.ErrorKind, bool) {
	kind, ok := errorKinds[code]
	return kind, ok
}
