package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/maps"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = json.Marshal

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LoggerConfig configures the JSONLogger.
type LoggerConfig struct {
	// OutputPath is the main log file. Empty means stdout.
	OutputPath string
	// VerdictPath receives one VerdictLog per line. Empty means
	// verdicts are written to the main log.
	VerdictPath string
	Level       LogLevel
	Fields      map[string]any
}

// jsonSink is shared by a JSONLogger and every logger derived
// from it with WithFields.
type jsonSink struct {
	mu       sync.Mutex
	output   io.Writer
	verdicts io.Writer
	closed   bool
}

func (s *jsonSink) write(w io.Writer, v any) {
	data, err := jsonMarshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	_, _ = w.Write(append(data, '\n'))
}

// JSONLogger implements Logger with JSON Lines output.
type JSONLogger struct {
	sink   *jsonSink
	level  LogLevel
	fields map[string]any
}

// NewJSONLogger opens the configured files, creating parent
// directories as needed.
func NewJSONLogger(config LoggerConfig) (*JSONLogger, error) {
	sink := &jsonSink{output: os.Stdout}

	if config.OutputPath != "" {
		file, err := openAppend(config.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		sink.output = file
	}

	if config.VerdictPath != "" {
		file, err := openAppend(config.VerdictPath)
		if err != nil {
			if c, ok := sink.output.(io.Closer); ok && sink.output != os.Stdout {
				_ = c.Close()
			}
			return nil, fmt.Errorf("open verdict log: %w", err)
		}
		sink.verdicts = file
	}

	fields := maps.Clone(config.Fields)
	if fields == nil {
		fields = make(map[string]any)
	}
	return &JSONLogger{sink: sink, level: config.Level, fields: fields}, nil
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func (l *JSONLogger) log(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}
	if len(l.fields)+len(fields) > 0 {
		entry.Fields = maps.Clone(l.fields)
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	l.sink.write(l.sink.output, entry)
}

func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields)
}

func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields)
}

func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields)
}

// WithFields returns a logger writing to the same files with
// fields merged into every entry.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	merged := maps.Clone(l.fields)
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &JSONLogger{sink: l.sink, level: l.level, fields: merged}
}

// LogVerdict writes verdict to the verdict log. Without one, the
// verdict becomes a main log entry at INFO when it passed and
// WARN otherwise.
func (l *JSONLogger) LogVerdict(verdict VerdictLog) {
	if verdict.Timestamp == "" {
		verdict.Timestamp = time.Now().Format(time.RFC3339Nano)
	}

	if l.sink.verdicts != nil {
		l.sink.write(l.sink.verdicts, verdict)
		return
	}

	level := LevelInfo
	if !verdict.Passed {
		level = LevelWarn
	}
	fields := []Field{
		RunIDField(verdict.RunID),
		ScenarioField(verdict.Scenario),
		AssertionField(verdict.Assertion),
		StringField("group", verdict.Group),
		BoolField("passed", verdict.Passed),
	}
	if verdict.Message != "" {
		fields = append(fields, StringField("reason", verdict.Message))
	}
	l.log(level, "assertion verdict", fields)
}

// Close closes the files behind the logger. Derived loggers stop
// writing too. Closing twice is a no-op.
func (l *JSONLogger) Close() error {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, w := range []io.Writer{s.output, s.verdicts} {
		if c, ok := w.(io.Closer); ok && w != os.Stdout {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// SetupLogging creates a JSON logger writing flicker.log and
// verdicts.log in logsDir.
func SetupLogging(logsDir string, level LogLevel) (*JSONLogger, error) {
	return NewJSONLogger(LoggerConfig{
		OutputPath:  filepath.Join(logsDir, "flicker.log"),
		VerdictPath: filepath.Join(logsDir, "verdicts.log"),
		Level:       level,
	})
}
