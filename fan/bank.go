package fan

import (
	"errors"
	"fmt"
)

// ErrNoSensor is returned when a speed reading is requested from a fan
// without a tachometer.
var ErrNoSensor = errors.New("fan: device does not sense speed")

// Bank drives several fans as a single one, e.g. the fan heads of one
// cooler. Its limits are the range every member supports.
type Bank struct {
	fans []Fan
}

var _ Device = (*Bank)(nil)

// LimitsError reports fans that have no common operating range, e.g. one
// fan's maximum below another's start speed.
type LimitsError struct {
	Limits Limits
}

func (e *LimitsError) Error() string {
	return fmt.Sprintf("fan: no common speed range: want min %d <= min start %d <= max %d",
		e.Limits.Min, e.Limits.MinStart, e.Limits.Max)
}

func (*LimitsError) Kind() ErrorKind {
	return KindInvalidSpeed
}

// NewBank returns a bank of the given fans. It fails with a *LimitsError
// when the members' limits do not overlap.
func NewBank(fans ...Fan) (*Bank, error) {
	b := &Bank{fans: fans}
	if l := LimitsOf(b); !l.Valid() {
		return nil, &LimitsError{Limits: l}
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

// SetSpeedRPM commands every member in order and returns the lowest
// achieved speed. It stops at the first failing member; members before it
// keep their new speed.
func (b *Bank) SetSpeedRPM(rpm uint16) (uint16, error) {
	if len(b.fans) == 0 {
		return 0, nil
	}

	lowest := uint16(0)
	for i, f := range b.fans {
		achieved, err := f.SetSpeedRPM(rpm)
		if err != nil {
			return 0, fmt.Errorf("fan %d: %w", i, err)
		}
		if i == 0 || achieved < lowest {
			lowest = achieved
		}
	}

	return lowest, nil
}

// RPM returns the lowest measured speed of all members. Every member must
// implement RPMSense.
func (b *Bank) RPM() (uint16, error) {
	if len(b.fans) == 0 {
		return 0, nil
	}

	lowest := uint16(0)
	for i, f := range b.fans {
		s, ok := f.(RPMSense)
		if !ok {
			return 0, fmt.Errorf("fan %d: %w", i, ErrNoSensor)
		}
		rpm, err := s.RPM()
		if err != nil {
			return 0, fmt.Errorf("fan %d: %w", i, err)
		}
		if i == 0 || rpm < lowest {
			lowest = rpm
		}
	}

	return lowest, nil
}
