package fantest

import (
	"fmt"

	"codeberg.org/mutker/fanhal/fan"
)

// CheckLimits verifies the limit invariant drivers must keep:
// 0 <= MinRPM <= MinStartRPM <= MaxRPM, with stable answers across calls.
func CheckLimits(f fan.Fan) error {
	l := fan.LimitsOf(f)
	if !l.Valid() {
		return fmt.Errorf("fantest: want min %d <= min start %d <= max %d", l.Min, l.MinStart, l.Max)
	}
	if again := fan.LimitsOf(f); again != l {
		return fmt.Errorf("fantest: limits changed between queries: %+v then %+v", l, again)
	}

	return nil
}
