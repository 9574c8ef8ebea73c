package fan

import (
	"errors"
	"fmt"
)

// Error is implemented by every error a fan driver returns.
//
// Drivers are free to define richer error types. By mapping them onto an
// ErrorKind, generic control code can still react to them without knowing
// the concrete type.
type Error interface {
	error
	// Kind converts the error to a generic fan error kind.
	Kind() ErrorKind
}

// ErrorKind represents a common set of fan operation errors.
//
// New kinds may be added in later versions. Code switching over an ErrorKind
// must keep a default case.
type ErrorKind uint8

const (
	// KindOther is a different error. The underlying error may contain more
	// information.
	KindOther ErrorKind = iota
	// KindPeripheral is an error on the underlying peripheral supporting the
	// fan, e.g. a PWM fault for a PWM-driven fan or a DAC fault for a
	// voltage-driven one.
	KindPeripheral
	// KindInvalidSpeed means the fan cannot operate at the requested speed.
	KindInvalidSpeed
)

// Kind returns k, so that an ErrorKind can be used as an error on its own.
func (k ErrorKind) Kind() ErrorKind {
	return k
}

func (k ErrorKind) Error() string {
	switch k {
	case KindPeripheral:
		return "an error occurred on the underlying peripheral"
	case KindInvalidSpeed:
		return "fan is not capable of operating at the requested speed"
	case KindOther:
		return "a different error occurred, the underlying error may contain more information"
	default:
		return fmt.Sprintf("fan error kind %d", uint8(k))
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindPeripheral:
		return "peripheral"
	case KindInvalidSpeed:
		return "invalid_speed"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// KindOf classifies err by the first Error found in its wrap chain.
// Errors that carry no classification, and nil, report KindOther.
func KindOf(err error) ErrorKind {
	var fe Error
	if errors.As(err, &fe) {
		return fe.Kind()
	}

	return KindOther
}

// IsKind reports whether err is non-nil and classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// As finds the first error in err's chain of the driver error type E.
// Adapters return the device's errors unchanged, so this recovers the
// concrete type no matter how many adapters sit in between.
func As[E Error](err error) (E, bool) {
	var target E
	if errors.As(err, &target) {
		return target, true
	}

	return target, false
}

// Infallible is the error type of devices whose operations cannot fail.
// Such devices always return a nil error; no Infallible value is ever
// returned, so its methods are unreachable.
type Infallible struct{}

func (Infallible) Error() string {
	panic("fan: unreachable: Infallible error")
}

func (Infallible) Kind() ErrorKind {
	panic("fan: unreachable: Infallible error")
}

// PercentError reports a speed percentage outside [0, 100].
type PercentError struct {
	Percent uint8
}

func (e *PercentError) Error() string {
	return fmt.Sprintf("fan: speed percent %d out of range [0, %d]", e.Percent, MaxPercent)
}

func (*PercentError) Kind() ErrorKind {
	return KindInvalidSpeed
}
