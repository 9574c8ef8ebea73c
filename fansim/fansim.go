// Package fansim provides virtual fans that implement both the blocking
// and the context-aware fan contracts. They model quantized speed control,
// start-up from standstill and injectable peripheral faults, which makes
// them useful for exercising control code without hardware.
package fansim

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/fanhal/fan"
	"codeberg.org/mutker/fanhal/fanasync"
	"codeberg.org/mutker/fanhal/internal/config"
	"codeberg.org/mutker/fanhal/internal/errors"
	"codeberg.org/mutker/fanhal/internal/logger"
	"github.com/rs/zerolog"
)

// Profile describes a simulated fan.
type Profile struct {
	Name        string
	MaxRPM      uint16
	MinRPM      uint16
	MinStartRPM uint16
	// Step quantizes commanded speeds down to a multiple of Step. Zero or
	// one means exact.
	Step uint16
	// Latency is how long each device interaction takes.
	Latency time.Duration
}

// Validate checks that p keeps MinRPM <= MinStartRPM <= MaxRPM.
func (p Profile) Validate() error {
	errFactory := errors.New()

	limits := fan.Limits{Max: p.MaxRPM, Min: p.MinRPM, MinStart: p.MinStartRPM}
	if !limits.Valid() {
		return errFactory.WithData(errors.ErrInvalidProfile,
			fmt.Sprintf("%s: want min %d <= min start %d <= max %d", p.Name, p.MinRPM, p.MinStartRPM, p.MaxRPM))
	}
	if p.Latency < 0 {
		return errFactory.WithData(errors.ErrInvalidProfile, fmt.Sprintf("%s: negative latency", p.Name))
	}

	return nil
}

const component = "fansim"

// Option configures a simulated fan.
type Option func(*options)

type options struct {
	log   *zerolog.Logger
	level *zerolog.Level
}

// WithLogger logs device interactions to l instead of the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = &l
	}
}

func withLevel(lvl zerolog.Level) Option {
	return func(o *options) {
		o.level = &lvl
	}
}

func (o *options) logger() logger.Logger {
	if o.log == nil {
		return logger.With(component)
	}

	l := o.log.With().Str("component", component).Logger()
	if o.level != nil {
		l = l.Level(*o.level)
	}

	return logger.New(l)
}

// Fan is a simulated fan. Like a real device handle it does no locking;
// callers must not use one Fan from several goroutines at once.
type Fan struct {
	profile Profile
	rpm     uint16
	fault   errors.Error
	log     logger.Logger
}

var _ fan.Device = (*Fan)(nil)

// New returns a stopped simulated fan.
func New(p Profile, opts ...Option) (*Fan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return &Fan{
		profile: p,
		log:     o.logger(),
	}, nil
}

// Load reads fan profiles from the config file at path, or from the
// default locations when path is empty. Logging is set up at the configured
// level before the fans are built.
func Load(path string, opts ...Option) (map[string]*Fan, error) {
	var cfgOpts []config.Option
	if path != "" {
		cfgOpts = append(cfgOpts, config.WithConfigFile(path))
	}

	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		return nil, err
	}
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	fans, err := FromConfig(cfg, append(opts[:len(opts):len(opts)], withLevel(lvl.Zerolog()))...)
	if err != nil {
		return nil, err
	}

	if len(fans) == 0 {
		logger.Warn().Str("config", path).Msg("No simulated fans configured")
	} else {
		logger.Info().Str("config", path).Int("fans", len(fans)).Msg("Loaded simulated fans")
	}

	return fans, nil
}

// FromConfig builds one simulated fan per configured profile, keyed by
// name.
func FromConfig(cfg *config.Config, opts ...Option) (map[string]*Fan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fans := make(map[string]*Fan, len(cfg.Fans))
	for _, fp := range cfg.Fans {
		f, err := New(Profile{
			Name:        fp.Name,
			MaxRPM:      uint16(fp.MaxRPM),
			MinRPM:      uint16(fp.MinRPM),
			MinStartRPM: uint16(fp.MinStartRPM),
			Step:        uint16(fp.Step),
			Latency:     fp.Latency,
		}, opts...)
		if err != nil {
			return nil, err
		}
		fans[fp.Name] = f
	}

	return fans, nil
}

// Profile returns the profile f was created with.
func (f *Fan) Profile() Profile {
	return f.profile
}

// InjectFault makes the next device interaction fail with a peripheral
// error wrapping cause.
func (f *Fan) InjectFault(cause error) {
	f.fault = errors.New().Wrap(errors.ErrPeripheralFault, cause)
}

func (f *Fan) MaxRPM() uint16 {
	return f.profile.MaxRPM
}

func (f *Fan) MinRPM() uint16 {
	return f.profile.MinRPM
}

func (f *Fan) MinStartRPM() uint16 {
	return f.profile.MinStartRPM
}

// SetSpeedRPM commands the fan. Zero stops it. Other speeds must lie in
// [MinRPM, MaxRPM]; they are quantized down to the profile's step, and a
// fan starting from standstill runs at least at MinStartRPM.
func (f *Fan) SetSpeedRPM(rpm uint16) (uint16, error) {
	if err := f.takeFault("set_speed_rpm"); err != nil {
		return 0, err
	}

	achieved, err := f.resolve(rpm)
	if err != nil {
		f.log.Debug().Str("fan", f.profile.Name).Uint16("rpm", rpm).Err(err).Msg("Rejected speed")
		return 0, err
	}

	f.rpm = achieved
	f.log.Debug().
		Str("fan", f.profile.Name).
		Uint16("rpm", rpm).
		Uint16("achieved", achieved).
		Msg("Set fan speed")

	return achieved, nil
}

// RPM reports the current speed as an ideal tachometer would.
func (f *Fan) RPM() (uint16, error) {
	if err := f.takeFault("rpm"); err != nil {
		return 0, err
	}

	return f.rpm, nil
}

func (f *Fan) takeFault(op string) error {
	if f.fault == nil {
		return nil
	}

	err := f.fault
	f.fault = nil
	f.log.ErrorWithContext(err, component, op).Str("fan", f.profile.Name).Msg("Injected fault")

	return err
}

func (f *Fan) resolve(rpm uint16) (uint16, error) {
	errFactory := errors.New()
	p := f.profile

	if rpm == 0 {
		return 0, nil
	}
	if rpm > p.MaxRPM {
		return 0, errFactory.WithData(errors.ErrSpeedOutOfRange, fmt.Sprintf("%d > %d", rpm, p.MaxRPM))
	}
	if rpm < p.MinRPM {
		return 0, errFactory.WithData(errors.ErrBelowMinimum, fmt.Sprintf("%d < %d", rpm, p.MinRPM))
	}

	achieved := rpm
	if p.Step > 1 {
		achieved -= achieved % p.Step
	}
	achieved = max(achieved, p.MinRPM)
	if f.rpm == 0 {
		achieved = max(achieved, p.MinStartRPM)
	}

	return achieved, nil
}

// Async returns the context-aware view of f. Both views drive the same
// simulated device.
func (f *Fan) Async() *AsyncFan {
	return &AsyncFan{f: f}
}

// AsyncFan is the context-aware view of a simulated fan. Each interaction
// waits for the profile's latency; a cancelled interaction leaves the fan
// untouched.
type AsyncFan struct {
	f *Fan
}

var _ fanasync.Device = (*AsyncFan)(nil)

func (a *AsyncFan) MaxRPM() uint16 {
	return a.f.MaxRPM()
}

func (a *AsyncFan) MinRPM() uint16 {
	return a.f.MinRPM()
}

func (a *AsyncFan) MinStartRPM() uint16 {
	return a.f.MinStartRPM()
}

func (a *AsyncFan) SetSpeedRPM(ctx context.Context, rpm uint16) (uint16, error) {
	if err := a.wait(ctx); err != nil {
		return 0, err
	}

	return a.f.SetSpeedRPM(rpm)
}

func (a *AsyncFan) RPM(ctx context.Context) (uint16, error) {
	if err := a.wait(ctx); err != nil {
		return 0, err
	}

	return a.f.RPM()
}

func (a *AsyncFan) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}
	if a.f.profile.Latency == 0 {
		return nil
	}

	timer := time.NewTimer(a.f.profile.Latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return contextError(ctx.Err())
	}
}

// contextError reports an expired deadline as a device timeout. The
// context error stays in the chain.
func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New().Wrap(errors.ErrTimeout, err)
	}

	return err
}
