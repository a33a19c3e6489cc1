package config

import (
	"errors"

	"digital.vasic.flicker/pkg/env"
)

// ApplyEnv overrides run settings with FLICKER_* variables:
// FLICKER_NAME, FLICKER_RESULTS_DIR, FLICKER_LOGS_DIR,
// FLICKER_VERBOSE, FLICKER_LOG_LEVEL, FLICKER_MAX_CONCURRENCY and
// FLICKER_TIMEOUT.
// Scenarios can only be configured in YAML.
func (c *Config) ApplyEnv(l env.Loader) error {
	c.Name = l.GetWithDefault(env.Prefix+"NAME", c.Name)
	c.ResultsDir = l.GetWithDefault(env.Prefix+"RESULTS_DIR", c.ResultsDir)
	c.LogsDir = l.GetWithDefault(env.Prefix+"LOGS_DIR", c.LogsDir)
	c.LogLevel = l.GetWithDefault(env.Prefix+"LOG_LEVEL", c.LogLevel)

	var errs []error
	if v, ok, err := l.GetBool(env.Prefix + "VERBOSE"); err != nil {
		errs = append(errs, err)
	} else if ok {
		c.Verbose = v
	}
	if v, ok, err := l.GetInt(env.Prefix + "MAX_CONCURRENCY"); err != nil {
		errs = append(errs, err)
	} else if ok {
		c.MaxConcurrency = v
	}
	if v, ok, err := l.GetDuration(env.Prefix + "TIMEOUT"); err != nil {
		errs = append(errs, err)
	} else if ok {
		c.Timeout = v
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return c.Validate()
}
