package middleware

import (
	"codeberg.org/mutker/fanhal/fan"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "fanhal"
	subSystem = "fan"
)

// Metrics holds the Prometheus collectors shared by decorated fans.
// A nil *Metrics records nothing.
type Metrics struct {
	// Total number of speed commands
	commands *prometheus.CounterVec
	// Total number of failed operations per error kind
	failures *prometheus.CounterVec
	// Total number of retried operations
	retries *prometheus.CounterVec
	// Last commanded and achieved speed
	target   *prometheus.GaugeVec
	achieved *prometheus.GaugeVec
	// Last measured speed
	speed *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "commands_total",
			Help:      "Total number of speed commands a fan accepted",
		}, []string{"fan"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "failures_total",
			Help:      "Total number of failed fan operations",
		}, []string{"fan", "op", "kind"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "retries_total",
			Help:      "Total number of fan operations retried after a peripheral fault",
		}, []string{"fan", "op"}),
		target: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "target_rpm",
			Help:      "Last speed commanded to a fan",
		}, []string{"fan"}),
		achieved: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "achieved_rpm",
			Help:      "Speed a fan reported as set by the last command",
		}, []string{"fan"}),
		speed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "measured_rpm",
			Help:      "Last speed read from a fan's tachometer",
		}, []string{"fan"}),
	}

	for _, c := range []prometheus.Collector{m.commands, m.failures, m.retries, m.target, m.achieved, m.speed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Commands returns the command counter of the named fan.
func (m *Metrics) Commands(name string) prometheus.Counter {
	return m.commands.WithLabelValues(name)
}

// Retries returns the retry counter of the named fan for op.
func (m *Metrics) Retries(name, op string) prometheus.Counter {
	return m.retries.WithLabelValues(name, op)
}

// Failures returns the failure counter of the named fan for op and kind.
func (m *Metrics) Failures(name, op string, kind fan.ErrorKind) prometheus.Counter {
	return m.failures.WithLabelValues(name, op, kind.String())
}

func (m *Metrics) commanded(name string, target, achieved uint16) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name).Inc()
	m.target.WithLabelValues(name).Set(float64(target))
	m.achieved.WithLabelValues(name).Set(float64(achieved))
}

func (m *Metrics) measured(name string, rpm uint16) {
	if m == nil {
		return
	}
	m.speed.WithLabelValues(name).Set(float64(rpm))
}

func (m *Metrics) failed(name, op string, kind fan.ErrorKind) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(name, op, kind.String()).Inc()
}

func (m *Metrics) retried(name, op string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(name, op).Inc()
}
