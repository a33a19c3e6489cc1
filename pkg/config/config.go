// Package config loads and validates the YAML configuration that
// binds assertion templates to scenario types.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"digital.vasic.flicker/pkg/scenario"
	"digital.vasic.flicker/pkg/template"
	"digital.vasic.flicker/pkg/trace"
)

// Config holds the settings of a flicker run.
type Config struct {
	// Name identifies the run in reports.
	Name string `json:"name" yaml:"name"`

	// ResultsDir is the directory where reports are written.
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// LogsDir is the directory where log files are written.
	LogsDir string `json:"logs_dir" yaml:"logs_dir"`

	// Verbose enables debug logging, including one line per
	// checker attempt.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// LogLevel is one of debug, info, warn or error. Empty means
	// info.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// MaxConcurrency bounds the number of scenarios evaluated at
	// once. Zero means one at a time.
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency"`

	// Timeout bounds a whole run. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Scenarios lists the assertions to run per scenario type.
	Scenarios []ScenarioConfig `json:"scenarios" yaml:"scenarios"`
}

// ScenarioConfig binds components and assertion templates to a
// scenario type.
type ScenarioConfig struct {
	// Type is the scenario type (e.g., "APP_LAUNCH").
	Type string `json:"type" yaml:"type"`

	// Components maps scenario specific names to component
	// strings in "package/class" form. A class starting with a
	// dot is relative to the package. Strings without a slash
	// match by class name only.
	Components map[string]string `json:"components,omitempty" yaml:"components,omitempty"`

	// Assertions are evaluated in order.
	Assertions []template.Definition `json:"assertions" yaml:"assertions"`
}

// Default returns a Config with sensible defaults and no
// scenarios.
func Default() *Config {
	return &Config{
		Name:           "flicker",
		ResultsDir:     "results",
		LogsDir:        "logs",
		MaxConcurrency: 4,
		Timeout:        2 * time.Minute,
	}
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save marshals the config to YAML and writes it to path,
// creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate checks the config for errors that can be detected
// without traces.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf(
			"max_concurrency must not be negative, got %d",
			c.MaxConcurrency,
		))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf(
			"timeout must not be negative, got %s", c.Timeout,
		))
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}

	seen := make(map[string]bool, len(c.Scenarios))
	for i, sc := range c.Scenarios {
		if sc.Type == "" {
			errs = append(errs, fmt.Errorf(
				"scenario %d: type is required", i,
			))
			continue
		}
		if seen[sc.Type] {
			errs = append(errs, fmt.Errorf(
				"duplicate scenario type: %s", sc.Type,
			))
		}
		seen[sc.Type] = true

		if err := sc.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Scenario returns the config of the given scenario type.
func (c *Config) Scenario(scenarioType string) (*ScenarioConfig, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Type == scenarioType {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// Validate checks that every component parses and every name an
// assertion refers to resolves.
func (s *ScenarioConfig) Validate() error {
	components, err := s.ResolveComponents()
	if err != nil {
		return err
	}

	resolves := func(name string) bool {
		if _, ok := components[name]; ok {
			return true
		}
		_, ok := trace.LookupComponent(name)
		return ok
	}

	var errs []error
	for _, def := range s.Assertions {
		if err := def.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("scenario %s: %w", s.Type, err))
			continue
		}
		names := append([]string{def.Component, def.From}, def.Ignore...)
		for _, name := range names {
			if name == "" || resolves(name) {
				continue
			}
			errs = append(errs, fmt.Errorf(
				"scenario %s: template %s: %w: %s",
				s.Type, def.Template, scenario.ErrUnknownComponent, name,
			))
		}
	}
	return errors.Join(errs...)
}

// ResolveComponents parses the component strings of the scenario.
func (s *ScenarioConfig) ResolveComponents() (map[string]trace.ComponentMatcher, error) {
	out := make(map[string]trace.ComponentMatcher, len(s.Components))
	for name, value := range s.Components {
		m, err := parseComponent(value)
		if err != nil {
			return nil, fmt.Errorf(
				"scenario %s: component %s: %w", s.Type, name, err,
			)
		}
		out[name] = m
	}
	return out, nil
}

// Apply binds the scenario components to sc.
func (s *ScenarioConfig) Apply(sc *scenario.Scenario) error {
	components, err := s.ResolveComponents()
	if err != nil {
		return err
	}
	for name, m := range components {
		sc.WithComponent(name, m)
	}
	return nil
}

func parseComponent(value string) (trace.ComponentMatcher, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("empty component")
	}
	if !strings.Contains(value, "/") {
		return trace.NewComponent("", value), nil
	}
	return trace.ParseComponent(value)
}
