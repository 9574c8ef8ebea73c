package logger

import (
	"io"
	"os"
	"time"

	"codeberg.org/mutker/fanhal/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Zerolog returns the matching zerolog level
func (l LogLevel) Zerolog() zerolog.Level {
	return zerolog.Level(l)
}

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the global logger to write to stdout at the given level
func Init(level string, isService bool) error {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	return InitWithWriter(output, level)
}

// InitWithWriter initializes the global logger with a custom writer
func InitWithWriter(w io.Writer, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	log = zerolog.New(w).With().Timestamp().Logger().Level(lvl.Zerolog())

	return nil
}

// ParseLevel converts a configured level name to a LogLevel
func ParseLevel(level string) (LogLevel, error) {
	switch level {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return 0, errors.New().WithData(errors.ErrInvalidLogLevel, level)
	}
}

// IsService reports whether the process runs under a service manager,
// whose journal timestamps every line itself
func IsService() bool {
	for _, env := range []string{"INVOCATION_ID", "SERVICE_NAME", "FANHAL_SERVICE"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}

	return os.Getppid() == 1
}

// New returns a Logger backed by l
func New(l zerolog.Logger) Logger {
	return &zlogger{l: &l}
}

// With returns a Logger that adds the component field to every event. It
// follows the global logger, including later calls to Init.
func With(component string) Logger {
	return &zlogger{l: &log, component: component}
}

type zlogger struct {
	l         *zerolog.Logger
	component string
}

func (z *zlogger) event(e *zerolog.Event) *LogEvent {
	if z.component != "" {
		e = e.Str("component", z.component)
	}
	return &LogEvent{e}
}

func (z *zlogger) Debug() *LogEvent {
	return z.event(z.l.Debug())
}

func (z *zlogger) Info() *LogEvent {
	return z.event(z.l.Info())
}

func (z *zlogger) Warn() *LogEvent {
	return z.event(z.l.Warn())
}

func (z *zlogger) Error() *LogEvent {
	return z.event(z.l.Error())
}

func (z *zlogger) ErrorWithCode(err errors.Error) *LogEvent {
	return z.event(withCode(z.l.Error(), err))
}

func (z *zlogger) ErrorWithContext(err errors.Error, component, operation string) *LogEvent {
	return &LogEvent{withCode(z.l.Error(), err).
		Str("component", component).
		Str("operation", operation)}
}

func withCode(e *zerolog.Event, err errors.Error) *zerolog.Event {
	return e.
		Str("error_code", string(err.Code())).
		Str("error_kind", err.Kind().String()).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}
