package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/fanhal/internal/errors"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "FANHAL"
	DefaultLogLevel  = LogLevelInfo

	configName = "fanhal"
	configType = "toml"
)

var configPaths = []string{"/etc/fanhal", "."}

// Config holds the simulated fan profiles and the log level
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Fans     []FanProfile `mapstructure:"fans"`
}

// FanProfile describes the limits and behavior of one simulated fan
type FanProfile struct {
	Name        string        `mapstructure:"name"`
	MaxRPM      int           `mapstructure:"max_rpm"`
	MinRPM      int           `mapstructure:"min_rpm"`
	MinStartRPM int           `mapstructure:"min_start_rpm"`
	Step        int           `mapstructure:"step"`
	Latency     time.Duration `mapstructure:"latency"`
}

// Load reads the configuration from file and environment. Without an
// explicit file, the <PREFIX>_CONFIG environment variable is consulted,
// then the default search paths. A missing file in the search paths is
// not an error.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("log_level", string(DefaultLogLevel))

	path := o.configPath
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, p := range configPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the log level and every fan profile
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	seen := make(map[string]bool, len(c.Fans))
	for _, p := range c.Fans {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return errFactory.WithData(errors.ErrDuplicateFan, p.Name)
		}
		seen[p.Name] = true
	}

	return nil
}

// Validate checks that the profile fits in 16-bit speeds and keeps
// 0 <= min_rpm <= min_start_rpm <= max_rpm
func (p FanProfile) Validate() error {
	errFactory := errors.New()

	invalid := func(field string, value any, reason string) error {
		return errFactory.WithData(errors.ErrInvalidProfile, FieldError{
			Fan:    p.Name,
			Field:  field,
			Value:  value,
			Reason: reason,
		})
	}

	if p.Name == "" {
		return invalid("name", p.Name, "must not be empty")
	}

	speeds := []struct {
		field string
		value int
	}{
		{"max_rpm", p.MaxRPM},
		{"min_rpm", p.MinRPM},
		{"min_start_rpm", p.MinStartRPM},
		{"step", p.Step},
	}
	for _, s := range speeds {
		if s.value < 0 || s.value > math.MaxUint16 {
			return invalid(s.field, s.value, fmt.Sprintf("must be in [0, %d]", math.MaxUint16))
		}
	}

	if p.MinRPM > p.MinStartRPM {
		return invalid("min_rpm", p.MinRPM, "must not exceed min_start_rpm")
	}
	if p.MinStartRPM > p.MaxRPM {
		return invalid("min_start_rpm", p.MinStartRPM, "must not exceed max_rpm")
	}
	if p.Latency < 0 {
		return invalid("latency", p.Latency, "must not be negative")
	}

	return nil
}
