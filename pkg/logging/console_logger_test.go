package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedConsole(level LogLevel) (*ConsoleLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewConsoleLoggerTo(&buf, level, false), &buf
}

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		emit  func(l *ConsoleLogger)
		level string
		msg   string
	}{
		{"info", func(l *ConsoleLogger) { l.Info("hello") }, "[INFO ]", "hello"},
		{"warn", func(l *ConsoleLogger) { l.Warn("careful") }, "[WARN ]", "careful"},
		{"error", func(l *ConsoleLogger) { l.Error("broken") }, "[ERROR]", "broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedConsole(LevelInfo)
			tt.emit(logger)
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.msg)
			assert.NotContains(t, buf.String(), "\033[")
		})
	}
}

func TestConsoleLogger_Threshold(t *testing.T) {
	quiet, quietBuf := newBufferedConsole(LevelInfo)
	quiet.Debug("hidden")
	assert.Empty(t, quietBuf.String())

	loud, loudBuf := newBufferedConsole(LevelDebug)
	loud.Debug("shown")
	assert.Contains(t, loudBuf.String(), "[DEBUG] shown")

	errorsOnly, errBuf := newBufferedConsole(LevelError)
	errorsOnly.Info("dropped")
	errorsOnly.Warn("dropped")
	errorsOnly.Error("kept")
	assert.Equal(t, 1, strings.Count(errBuf.String(), "\n"))
}

func TestConsoleLogger_WithFields(t *testing.T) {
	logger, buf := newBufferedConsole(LevelInfo)

	child := logger.WithFields(ScenarioField("APP_CLOSE"), RunIDField("r1"))
	child.Info("evaluating", IntField("entries", 12))
	logger.Info("parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run_id=r1 scenario=APP_CLOSE entries=12")
	assert.NotContains(t, lines[1], "scenario=")
}

func TestConsoleLogger_WithFieldsOverrides(t *testing.T) {
	logger, buf := newBufferedConsole(LevelInfo)

	logger.WithFields(ScenarioField("A")).
		WithFields(ScenarioField("B")).
		Info("x")

	assert.Contains(t, buf.String(), "scenario=B")
	assert.NotContains(t, buf.String(), "scenario=A")
}

func TestConsoleLogger_LogVerdict(t *testing.T) {
	logger, buf := newBufferedConsole(LevelInfo)

	logger.LogVerdict(VerdictLog{
		Scenario:  "APP_LAUNCH",
		Assertion: "AppLayerBecomesVisible",
		Passed:    true,
	})
	logger.LogVerdict(VerdictLog{
		Scenario:  "APP_LAUNCH",
		Assertion: "AppWindowBecomesTopWindow",
		Group:     "blocking",
		Message:   "Assertion never passed",
		Facts:     []string{"Expected: top window"},
	})
	logger.LogVerdict(VerdictLog{
		Scenario:  "APP_LAUNCH",
		Assertion: "NavBarLayerIsVisible",
		Group:     "non_blocking",
		Message:   "Layer is invisible",
	})

	out := buf.String()
	assert.Contains(t, out, "PASS AppLayerBecomesVisible scenario=APP_LAUNCH")
	assert.Contains(t, out, "[ERROR] FAIL AppWindowBecomesTopWindow")
	assert.Contains(t, out, "        Assertion never passed\n")
	assert.Contains(t, out, "        Expected: top window\n")
	assert.Contains(t, out, "[WARN ] WARN NavBarLayerIsVisible")
}

func TestConsoleLogger_Colored(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, LevelInfo, true).Error("boom")
	assert.Contains(t, buf.String(), colorRed)
	assert.Contains(t, buf.String(), colorReset)
}

func TestConsoleLogger_Close(t *testing.T) {
	assert.NoError(t, NewConsoleLogger(false).Close())
}
