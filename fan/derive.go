package fan

// MaxPercent is the largest valid speed percentage.
const MaxPercent = 100

// PercentToRPM returns floor(maxRPM * percent / 100). The product is
// computed in 32 bits so it cannot overflow for any uint16 speed.
// percent must be in [0, MaxPercent].
func PercentToRPM(maxRPM uint16, percent uint8) uint16 {
	return uint16(uint32(maxRPM) * uint32(percent) / MaxPercent)
}

// CheckPercent returns a *PercentError if percent is above MaxPercent.
func CheckPercent(percent uint8) error {
	if percent > MaxPercent {
		return &PercentError{Percent: percent}
	}

	return nil
}

// SetSpeedPercent sets the speed of f in percent of its maximum RPM and
// returns the speed actually set. An out-of-range percent is reported as a
// KindInvalidSpeed error without touching the device.
func SetSpeedPercent(f Fan, percent uint8) (uint16, error) {
	if err := CheckPercent(percent); err != nil {
		return 0, err
	}
	if p, ok := f.(PercentSetter); ok {
		return p.SetSpeedPercent(percent)
	}

	return f.SetSpeedRPM(PercentToRPM(f.MaxRPM(), percent))
}

// SetSpeedMax sets f to the maximum RPM it is capable of.
func SetSpeedMax(f Fan) error {
	if m, ok := f.(MaxSetter); ok {
		return m.SetSpeedMax()
	}

	_, err := f.SetSpeedRPM(f.MaxRPM())
	return err
}

// Stop stops f completely.
func Stop(f Fan) error {
	if s, ok := f.(Stopper); ok {
		return s.Stop()
	}

	_, err := f.SetSpeedRPM(0)
	return err
}
