package qprogress

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/theapemachine/errnie"
)

const (
	DefaultTotal       = 100
	DefaultWidth       = 50
	DefaultDelay       = 100 * time.Millisecond
	DefaultMinInterval = 50 * time.Millisecond
)

// Config keys, shared by the config file, the environment and the CLI flags.
const (
	KeyTotal          = "total"
	KeyWidth          = "width"
	KeyQuantumStyle   = "quantum_style"
	KeyColor          = "color"
	KeyCollapseFactor = "collapse_factor"
	KeyUncertainty    = "uncertainty_level"
	KeyDelay          = "delay"
	KeyMinInterval    = "min_interval"
	KeyLabel          = "label"
)

type Config struct {
	Total          int
	Width          int
	QuantumStyle   bool
	Color          bool
	CollapseFactor CollapseFactor
	Uncertainty    UncertaintyLevel
	Delay          time.Duration
	MinInterval    time.Duration
	Label          string
}

func NewConfig() *Config {
	return &Config{
		Total:          DefaultTotal,
		Width:          DefaultWidth,
		QuantumStyle:   true,
		Color:          false,
		CollapseFactor: DefaultCollapseFactor,
		Uncertainty:    DefaultUncertainty,
		Delay:          DefaultDelay,
		MinInterval:    DefaultMinInterval,
	}
}

// Validate reports the first setting that cannot be used to build a QuantumState.
func (c *Config) Validate() error {
	switch {
	case c.Total <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidTotal, c.Total)
	case c.Width <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidWidth, c.Width)
	case !c.CollapseFactor.valid():
		return fmt.Errorf("%w: got %v", ErrInvalidCollapseFactor, c.CollapseFactor)
	case !c.Uncertainty.valid():
		return fmt.Errorf("%w: got %v", ErrInvalidUncertainty, c.Uncertainty)
	}
	return nil
}

/*
LoadConfig resolves a Config from, in increasing order of precedence, the
built-in defaults, a YAML config file and QPROGRESS_* environment variables.

When path is empty the file is looked up as qprogress.yaml in the working
directory and in $HOME/.config/qprogress; a missing file is not an error.
*/
func LoadConfig(path string) (*Config, error) {
	v := NewViper()

	if err := ReadConfig(v, path); err != nil {
		return nil, err
	}

	return ConfigFromViper(v)
}

// ReadConfig merges the config file at path, or the first qprogress.yaml
// found in the search paths when path is empty, into v.
func ReadConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("qprogress")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "qprogress"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		errnie.Info("ReadConfig - no config file found, using defaults")
	}

	return nil
}

// NewViper returns a viper instance carrying the defaults and environment
// bindings for every config key.
func NewViper() *viper.Viper {
	defaults := NewConfig()

	v := viper.New()
	v.SetDefault(KeyTotal, defaults.Total)
	v.SetDefault(KeyWidth, defaults.Width)
	v.SetDefault(KeyQuantumStyle, defaults.QuantumStyle)
	v.SetDefault(KeyColor, defaults.Color)
	v.SetDefault(KeyCollapseFactor, float64(defaults.CollapseFactor))
	v.SetDefault(KeyUncertainty, float64(defaults.Uncertainty))
	v.SetDefault(KeyDelay, defaults.Delay)
	v.SetDefault(KeyMinInterval, defaults.MinInterval)
	v.SetDefault(KeyLabel, defaults.Label)

	v.SetEnvPrefix("QPROGRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// ConfigFromViper reads every config key out of v and validates the result.
func ConfigFromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Total:          v.GetInt(KeyTotal),
		Width:          v.GetInt(KeyWidth),
		QuantumStyle:   v.GetBool(KeyQuantumStyle),
		Color:          v.GetBool(KeyColor),
		CollapseFactor: CollapseFactor(v.GetFloat64(KeyCollapseFactor)),
		Uncertainty:    UncertaintyLevel(v.GetFloat64(KeyUncertainty)),
		Delay:          v.GetDuration(KeyDelay),
		MinInterval:    v.GetDuration(KeyMinInterval),
		Label:          v.GetString(KeyLabel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// settings collects everything a QuantumState is built from.
type settings struct {
	config *Config
	rng    *rand.Rand
	out    io.Writer
	clock  func() time.Time
}

// Option configures a QuantumState at construction.
type Option func(*settings)

// WithConfig replaces every config value at once. Options given after it
// still override individual fields.
func WithConfig(cfg *Config) Option {
	return func(s *settings) {
		copied := *cfg
		s.config = &copied
	}
}

func WithCollapseFactor(factor float64) Option {
	return func(s *settings) {
		s.config.CollapseFactor = CollapseFactor(factor)
	}
}

func WithUncertainty(level float64) Option {
	return func(s *settings) {
		s.config.Uncertainty = UncertaintyLevel(level)
	}
}

func WithWidth(width int) Option {
	return func(s *settings) {
		s.config.Width = width
	}
}

func WithQuantumStyle(enabled bool) Option {
	return func(s *settings) {
		s.config.QuantumStyle = enabled
	}
}

func WithColor(enabled bool) Option {
	return func(s *settings) {
		s.config.Color = enabled
	}
}

// WithLabel prints label in front of every frame.
func WithLabel(label string) Option {
	return func(s *settings) {
		s.config.Label = label
	}
}

// WithDelay sets the pause between frames of the animated helpers.
func WithDelay(delay time.Duration) Option {
	return func(s *settings) {
		s.config.Delay = delay
	}
}

// WithMinInterval sets the shortest time between two throttled redraws.
func WithMinInterval(interval time.Duration) Option {
	return func(s *settings) {
		s.config.MinInterval = interval
	}
}

// WithSeed makes every random draw of the instance reproducible.
func WithSeed(seed1, seed2 uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewPCG(seed1, seed2))
	}
}

// WithRand hands the instance an existing random source.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		s.rng = r
	}
}

// WithOutput redirects rendering, which goes to os.Stdout by default.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		s.out = w
	}
}

// WithClock replaces time.Now for elapsed time measurements.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{
		config: NewConfig(),
		out:    os.Stdout,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return s
}
