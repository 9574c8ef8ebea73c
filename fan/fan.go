package fan

// Fan is the blocking speed-control capability. Every call runs to
// completion on the device before returning.
//
// The limit queries reflect fixed device characteristics and must not
// mutate device state. Conforming drivers keep
// 0 <= MinRPM <= MinStartRPM <= MaxRPM.
//
// SetSpeedRPM mutates the device; callers must not issue it on the same
// handle from more than one goroutine at a time (see Shared).
type Fan interface {
	// MaxRPM returns the maximum RPM the fan is capable of running at.
	MaxRPM() uint16
	// MinRPM returns the minimum RPM the fan is capable of running at.
	MinRPM() uint16
	// MinStartRPM returns the minimum RPM needed for the fan to begin
	// running from a dead stop, which may equal MinRPM.
	MinStartRPM() uint16
	// SetSpeedRPM sets the fan's speed in absolute RPM and returns the
	// speed actually set, which may differ from rpm.
	SetSpeedRPM(rpm uint16) (uint16, error)
}

// RPMSense is the blocking speed-sensing (tachometer) capability.
type RPMSense interface {
	// RPM returns the fan's currently measured speed.
	RPM() (uint16, error)
}

// Device is a fan that can be both controlled and sensed.
type Device interface {
	Fan
	RPMSense
}

// PercentSetter may be implemented by a Fan to replace the derived
// SetSpeedPercent with an optimized version. The observable behavior must
// stay identical to the derived one.
type PercentSetter interface {
	SetSpeedPercent(percent uint8) (uint16, error)
}

// MaxSetter may be implemented by a Fan to replace the derived SetSpeedMax.
type MaxSetter interface {
	SetSpeedMax() error
}

// Stopper may be implemented by a Fan to replace the derived Stop.
type Stopper interface {
	Stop() error
}

// Limits is a snapshot of a fan's operating limits.
type Limits struct {
	Max, Min, MinStart uint16
}

// Valid reports whether l satisfies Min <= MinStart <= Max.
func (l Limits) Valid() bool {
	return l.Min <= l.MinStart && l.MinStart <= l.Max
}

// LimitsOf returns the operating limits of f.
func LimitsOf(f Fan) Limits {
	return Limits{
		Max:      f.MaxRPM(),
		Min:      f.MinRPM(),
		MinStart: f.MinStartRPM(),
	}
}
