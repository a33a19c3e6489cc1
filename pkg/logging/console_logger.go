package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// ConsoleLogger writes human readable lines, one per entry.
// Verdicts of failed assertions are followed by their facts,
// indented. Loggers derived with WithFields share the writer and
// its lock.
type ConsoleLogger struct {
	mu     *sync.Mutex
	output io.Writer
	level  LogLevel
	color  bool
	fields map[string]any
}

// NewConsoleLogger creates a colored logger on stdout. When
// verbose is true, debug messages are emitted.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}
	return NewConsoleLoggerTo(os.Stdout, level, true)
}

// NewConsoleLoggerTo creates a logger on w that drops entries
// below level.
func NewConsoleLoggerTo(w io.Writer, level LogLevel, color bool) *ConsoleLogger {
	return &ConsoleLogger{
		mu:     &sync.Mutex{},
		output: w,
		level:  level,
		color:  color,
		fields: make(map[string]any),
	}
}

func (c *ConsoleLogger) paint(color, s string) string {
	if !c.color {
		return s
	}
	return color + s + colorReset
}

func (c *ConsoleLogger) log(
	level LogLevel, color, msg string, fields []Field, details ...string,
) {
	if level < c.level {
		return
	}

	var sb strings.Builder
	sb.WriteString(c.paint(colorGray, time.Now().Format("15:04:05")))
	fmt.Fprintf(&sb, " [%s] %s", c.paint(color, fmt.Sprintf("%-5s", level)), msg)

	keys := maps.Keys(c.fields)
	slices.Sort(keys)
	pairs := make([]string, 0, len(keys)+len(fields))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, c.fields[k]))
	}
	for _, f := range fields {
		pairs = append(pairs, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	if len(pairs) > 0 {
		sb.WriteString(" " + c.paint(colorGray, strings.Join(pairs, " ")))
	}
	sb.WriteByte('\n')

	for _, d := range details {
		sb.WriteString("        " + d + "\n")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.output, sb.String())
}

func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, colorBlue, msg, fields)
}

func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, colorYellow, msg, fields)
}

func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, colorRed, msg, fields)
}

func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	c.log(LevelDebug, colorGray, msg, fields)
}

// WithFields returns a logger that adds fields to every entry.
// Later fields override earlier ones with the same key.
func (c *ConsoleLogger) WithFields(fields ...Field) Logger {
	merged := maps.Clone(c.fields)
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	child := *c
	child.fields = merged
	return &child
}

// LogVerdict prints PASS, FAIL, or WARN for a failed non-blocking
// assertion, followed by the message and facts of a failure.
func (c *ConsoleLogger) LogVerdict(verdict VerdictLog) {
	fields := []Field{ScenarioField(verdict.Scenario)}
	if verdict.Passed {
		c.log(LevelInfo, colorGreen, "PASS "+verdict.Assertion, fields)
		return
	}

	details := make([]string, 0, len(verdict.Facts)+1)
	if verdict.Message != "" {
		details = append(details, verdict.Message)
	}
	details = append(details, verdict.Facts...)

	if verdict.Group == "non_blocking" {
		c.log(LevelWarn, colorYellow, "WARN "+verdict.Assertion, fields, details...)
		return
	}
	c.log(LevelError, colorRed, "FAIL "+verdict.Assertion, fields, details...)
}

// Close is a no-op for ConsoleLogger.
func (c *ConsoleLogger) Close() error {
	return nil
}
