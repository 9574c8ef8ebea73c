// Package fantest provides test doubles and conformance checks for code
// built on packages fan and fanasync.
package fantest

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/fanasync"
)

// Op names a recorded device interaction.
type Op string

const (
	OpSetSpeedRPM     Op = "set_speed_rpm"
	OpSetSpeedPercent Op = "set_speed_percent"
	OpSetSpeedMax     Op = "set_speed_max"
	OpStop            Op = "stop"
	OpRPM             Op = "rpm"
)

// Call is one recorded interaction. Arg is the requested RPM or percent.
type Call struct {
	Op  Op
	Arg uint16
}

// Error is a driver error with a fixed classification.
type Error struct {
	K   fan.ErrorKind
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("fantest: %s: %s", e.K, e.Msg)
}

func (e *Error) Kind() fan.ErrorKind {
	return e.K
}

// Recorder is a fan that records every interaction. By default it achieves
// exactly the requested speed and never fails.
type Recorder struct {
	Limits fan.Limits
	// Achieve maps a requested speed to the achieved one.
	Achieve func(rpm uint16) uint16
	// Err, when set, is returned by every mutating call and speed reading.
	Err error

	mu    sync.Mutex
	calls []Call
	rpm   uint16
}

var _ fan.Device = (*Recorder)(nil)

// NewRecorder returns a recorder with the given limits.
func NewRecorder(maxRPM, minRPM, minStartRPM uint16) *Recorder {
	return &Recorder{Limits: fan.Limits{Max: maxRPM, Min: minRPM, MinStart: minStartRPM}}
}

func (r *Recorder) MaxRPM() uint16 {
	return r.Limits.Max
}

func (r *Recorder) MinRPM() uint16 {
	return r.Limits.Min
}

func (r *Recorder) MinStartRPM() uint16 {
	return r.Limits.MinStart
}

func (r *Recorder) SetSpeedRPM(rpm uint16) (uint16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Op: OpSetSpeedRPM, Arg: rpm})
	if r.Err != nil {
		return 0, r.Err
	}

	achieved := rpm
	if r.Achieve != nil {
		achieved = r.Achieve(rpm)
	}
	r.rpm = achieved

	return achieved, nil
}

func (r *Recorder) RPM() (uint16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Op: OpRPM})
	if r.Err != nil {
		return 0, r.Err
	}

	return r.rpm, nil
}

// Calls returns a copy of the recorded interactions.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)

	return calls
}

// Targets returns the speeds passed to SetSpeedRPM, in order.
func (r *Recorder) Targets() []uint16 {
	var targets []uint16
	for _, c := range r.Calls() {
		if c.Op == OpSetSpeedRPM {
			targets = append(targets, c.Arg)
		}
	}

	return targets
}

// Reset forgets the recorded interactions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(op Op, arg uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Arg: arg})
}

// Async returns a context-aware view of r recording into the same log.
// A call with a done context is not recorded.
func (r *Recorder) Async() *AsyncRecorder {
	return &AsyncRecorder{r: r}
}

// AsyncRecorder is the context-aware view of a Recorder.
type AsyncRecorder struct {
	r *Recorder
}

var _ fanasync.Device = (*AsyncRecorder)(nil)

func (a *AsyncRecorder) MaxRPM() uint16 {
	return a.r.MaxRPM()
}

func (a *AsyncRecorder) MinRPM() uint16 {
	return a.r.MinRPM()
}

func (a *AsyncRecorder) MinStartRPM() uint16 {
	return a.r.MinStartRPM()
}

func (a *AsyncRecorder) SetSpeedRPM(ctx context.Context, rpm uint16) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return a.r.SetSpeedRPM(rpm)
}

func (a *AsyncRecorder) RPM(ctx context.Context) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return a.r.RPM()
}
