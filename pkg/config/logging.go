package config

import (
	"fmt"
	"io"

	"digital.vasic.flicker/pkg/logging"
)

// Level is the configured log level. Verbose forces debug.
func (c *Config) Level() logging.LogLevel {
	if c.Verbose {
		return logging.LevelDebug
	}
	return logging.ParseLevel(c.LogLevel)
}

// NewLogger builds the logger of a run: JSON files in LogsDir
// and, when console is not nil, human readable lines on console.
func (c *Config) NewLogger(console io.Writer) (logging.Logger, error) {
	level := c.Level()
	file, err := logging.SetupLogging(c.LogsDir, level)
	if err != nil {
		return nil, fmt.Errorf("set up logging in %s: %w", c.LogsDir, err)
	}
	if console == nil {
		return file, nil
	}
	return logging.NewMultiLogger(
		logging.NewConsoleLoggerTo(console, level, false),
		file,
	), nil
}
