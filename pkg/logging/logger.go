// Package logging provides structured logging for flicker runs
// with JSON, console, and multi-destination output.
package logging

import "strings"

// Logger is implemented by every flicker log destination. The
// checker logs one debug entry per attempt; the runner logs run
// and scenario milestones and one verdict per assertion.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)

	// WithFields derives a logger that adds fields to every
	// entry. The derived logger shares its parent's outputs.
	WithFields(fields ...Field) Logger

	// LogVerdict records the outcome of one assertion template
	// evaluated against a scenario.
	LogVerdict(verdict VerdictLog)

	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// VerdictLog captures a single assertion outcome.
type VerdictLog struct {
	Timestamp  string   `json:"timestamp"`
	RunID      string   `json:"run_id"`
	Scenario   string   `json:"scenario"`
	Assertion  string   `json:"assertion"`
	Group      string   `json:"group"`
	Passed     bool     `json:"passed"`
	Message    string   `json:"message,omitempty"`
	Facts      []string `json:"facts,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

// LogLevel orders entries by severity. Loggers drop entries
// below their configured level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel converts a case-insensitive level name into a
// LogLevel. Unknown names map to LevelInfo.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
