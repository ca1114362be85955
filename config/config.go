// Package config defines the structures to configure the path follower and its parts.
package config

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/pathfollower/base/sim"
	"go.viam.com/pathfollower/follow"
	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/record"
)

// DefaultRepository is the path repository used when none is configured.
const DefaultRepository = "paths"

// Config describes a path follower deployment.
type Config struct {
	ConfigFilePath string `json:"-"`

	Repository string            `json:"repository"`
	Follow     follow.Parameters `json:"follow"`
	Record     record.Thresholds `json:"record"`
	Locator    LocatorConfig     `json:"locator"`
	Sim        sim.Config        `json:"sim"`
	Log        LogConfig         `json:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Repository: DefaultRepository,
		Follow:     follow.DefaultParameters(),
		Record:     record.DefaultThresholds(),
		Locator:    LocatorConfig{RestartDelay: Duration(time.Second)},
		Sim:        sim.DefaultConfig(),
		Log:        LogConfig{Level: "info"},
	}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	if c.Repository == "" {
		return goutils.NewConfigValidationFieldRequiredError("", "repository")
	}
	if err := c.Follow.Validate("follow"); err != nil {
		return err
	}
	if err := c.Record.Validate(); err != nil {
		return goutils.NewConfigValidationError("record", err)
	}
	if err := c.Locator.Validate("locator"); err != nil {
		return err
	}
	if err := c.Sim.Validate(); err != nil {
		return goutils.NewConfigValidationError("sim", err)
	}
	return c.Log.Validate("log")
}

// Read reads a config from the given file.
func Read(filePath string) (*Config, error) {
	//nolint:gosec
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	cfg, err := FromReader(f)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = filePath
	return cfg, nil
}

// FromReader decodes a config on top of the defaults and validates it. Fields missing from the
// input keep their default values.
func FromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level    string                        `json:"level"`
	File     *logging.FileAppenderConfig   `json:"file,omitempty"`
	Patterns []logging.LoggerPatternConfig `json:"patterns,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (c *LogConfig) Validate(path string) error {
	if _, err := logging.LevelFromString(c.Level); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	if c.File != nil && c.File.Filename == "" {
		return goutils.NewConfigValidationFieldRequiredError(path+".file", "filename")
	}
	for _, p := range c.Patterns {
		if !logging.ValidatePattern(p.Pattern) {
			return goutils.NewConfigValidationError(path, errors.Errorf("invalid logger pattern %q", p.Pattern))
		}
		if _, err := logging.LevelFromString(p.Level); err != nil {
			return goutils.NewConfigValidationError(path, err)
		}
	}
	return nil
}

// Apply sets the level of logger and of every logger in registry, then attaches the file appender
// if one is configured. The returned function closes the file.
func (c *LogConfig) Apply(registry *logging.Registry, logger logging.Logger) (func() error, error) {
	level, err := logging.LevelFromString(c.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	if err := registry.UpdateConfig(c.Patterns, level, logger); err != nil {
		return nil, err
	}
	if c.File == nil {
		return func() error { return nil }, nil
	}
	appender := logging.NewFileAppender(*c.File)
	logger.AddAppender(appender)
	return appender.Close, nil
}

// Duration is a time.Duration that reads from JSON strings such as "1.5s".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "durations are strings such as \"1s\"")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
