// Package middleware decorates fans with logging, metrics and retries.
//
// Unlike the delegation adapters of package fan, a decorated fan adds
// behavior, so derived operations are computed on the decorator and pass
// through its SetSpeedRPM. The result of every derived operation is the
// same; it is only observed.
package middleware

import (
	"context"
	"time"

	"codeberg.org/mutker/fanhal/fan"
	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
)

const (
	opSetSpeedRPM = "set_speed_rpm"
	opRPM         = "rpm"
)

// Option configures a decorated fan.
type Option func(*options)

type options struct {
	name     string
	log      zerolog.Logger
	metrics  *Metrics
	attempts uint
	delay    time.Duration
}

// WithName sets the fan name used in log fields and metric labels.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger logs every device interaction to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithMetrics records every device interaction in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRetry retries interactions that fail with a peripheral fault, up to
// attempts tries in total, waiting delay between them. Other failures are
// returned at once.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.attempts = attempts
		o.delay = delay
	}
}

func newOptions(opts []Option) options {
	o := options{
		name:     "fan",
		log:      zerolog.Nop(),
		attempts: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// run performs one device interaction with retries, logging and metrics.
func (o *options) run(ctx context.Context, op string, arg uint16, call func() (uint16, error)) (uint16, error) {
	var result uint16
	attempt := func() error {
		v, err := call()
		if err != nil {
			return err
		}
		result = v
		return nil
	}

	var err error
	if o.attempts > 1 {
		err = retry.Do(attempt,
			retry.Context(ctx),
			retry.Attempts(o.attempts),
			retry.Delay(o.delay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return fan.IsKind(err, fan.KindPeripheral)
			}),
			retry.OnRetry(func(n uint, err error) {
				// Also called after the final attempt, when no retry follows.
				if n+1 >= o.attempts {
					return
				}
				o.log.Warn().
					Str("fan", o.name).
					Str("op", op).
					Uint("attempt", n+1).
					Err(err).
					Msg("Peripheral fault, retrying")
				o.metrics.retried(o.name, op)
			}),
		)
	} else {
		err = attempt()
	}

	o.observe(op, arg, result, err)

	return result, err
}

func (o *options) observe(op string, arg, result uint16, err error) {
	if err != nil {
		kind := fan.KindOf(err)
		o.log.Error().
			Str("fan", o.name).
			Str("op", op).
			Uint16("rpm", arg).
			Stringer("kind", kind).
			Err(err).
			Msg("Fan operation failed")
		o.metrics.failed(o.name, op, kind)
		return
	}

	switch op {
	case opSetSpeedRPM:
		o.log.Debug().
			Str("fan", o.name).
			Str("op", op).
			Uint16("rpm", arg).
			Uint16("achieved", result).
			Msg("Set fan speed")
		o.metrics.commanded(o.name, arg, result)
	case opRPM:
		o.log.Debug().
			Str("fan", o.name).
			Str("op", op).
			Uint16("measured", result).
			Msg("Read fan speed")
		o.metrics.measured(o.name, result)
	}
}
