// Package fan defines the blocking interface between fan drivers and the
// code that controls fans.
//
// A driver implements Fan to control speed, RPMSense to read it, or both.
// Control code is written against those interfaces and never learns which
// peripheral (PWM channel, DAC, I2C fan controller) moves the air.
//
// Percent control, SetSpeedMax and Stop are derived from SetSpeedRPM by
// the package functions of the same name. Drivers may provide faster
// versions through PercentSetter, MaxSetter and Stopper, with the same
// observable behavior.
//
// Errors returned by a driver map onto an ErrorKind through the Error
// interface, which lets generic code retry peripheral faults or reject
// impossible speeds:
//
//	if _, err := fan.SetSpeedPercent(f, 40); fan.IsKind(err, fan.KindPeripheral) {
//		// retry
//	}
//
// The context-aware variant of this package lives in fanasync.
package fan
