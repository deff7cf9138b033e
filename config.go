package assent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/assent/policy"
	"github.com/viant/assent/service/messaging/memory"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of a Coordinator configuration. It
// can be decoded from YAML, TOML or JSON. The zero-value is useful: every
// section falls back to its defaults.
type Config struct {
	Keys    policy.Config `json:"keys" yaml:"keys" toml:"keys"`
	Events  EventsConfig  `json:"events" yaml:"events" toml:"events"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing" toml:"tracing"`
	Log     LogConfig     `json:"log" yaml:"log" toml:"log"`
}

// EventsConfig controls the in-memory lifecycle event queue, read through
// Coordinator.Events. Events published while the buffer is full are dropped
// unless DeadLetter is set.
type EventsConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled" toml:"enabled"`
	Buffer     int  `json:"buffer" yaml:"buffer" toml:"buffer"`
	MaxRetries int  `json:"maxRetries" yaml:"maxRetries" toml:"maxRetries"`
	DeadLetter bool `json:"deadLetter" yaml:"deadLetter" toml:"deadLetter"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty" toml:"serviceName,omitempty"`
	OutputFile  string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" toml:"outputFile,omitempty"`
}

// LogConfig sets the minimum level of the coordinator logger.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to NewFromConfig.
func DefaultConfig() *Config {
	queue := memory.DefaultConfig()
	return &Config{
		Events: EventsConfig{
			Buffer:     queue.QueueBuffer,
			MaxRetries: queue.MaxRetries,
		},
		Tracing: TracingConfig{ServiceName: "assent"},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if _, err := policy.FromConfig(&c.Keys); err != nil {
		errs = append(errs, err)
	}
	if c.Events.Buffer < 0 {
		errs = append(errs, fmt.Errorf("events.buffer must be >= 0"))
	}
	if c.Events.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("events.maxRetries must be >= 0"))
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		errs = append(errs, fmt.Errorf("tracing.serviceName is required when tracing is enabled"))
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig downloads and decodes a configuration file. The format is picked
// by extension: .yaml/.yml, .toml or .json. Unset fields keep their defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	cfg := DefaultConfig()
	switch ext := strings.ToLower(path.Ext(URL)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q: %v", ext, URL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromConfig creates a Coordinator from cfg. Options are applied after the
// configuration, so they take precedence; the configured log level is applied
// last to whichever logger is in effect.
func NewFromConfig(cfg *Config, options ...Option) (*Coordinator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	keys, err := policy.FromConfig(&cfg.Keys)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithKeyValidator(keys)}
	if cfg.Events.Enabled {
		queueConfig := memory.DefaultConfig()
		queueConfig.QueueBuffer = cfg.Events.Buffer
		queueConfig.MaxRetries = cfg.Events.MaxRetries
		queueConfig.DeadLetter = cfg.Events.DeadLetter
		opts = append(opts, WithEventQueue(memory.NewQueue[Event](queueConfig)))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, WithTracing(cfg.Tracing.ServiceName, Version, cfg.Tracing.OutputFile))
	}
	ret := New(append(opts, options...)...)
	if cfg.Log.Level != "" {
		level, _ := zerolog.ParseLevel(cfg.Log.Level)
		ret.logger = ret.logger.Level(level)
	}
	return ret, nil
}
