package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestJSONLogger_Stdout(t *testing.T) {
	logger, err := NewJSONLogger(LoggerConfig{Level: LevelInfo})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, logger.Close())
}

func TestJSONLogger_File(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "flicker.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelDebug,
	})
	require.NoError(t, err)

	logger.Info("hello", LogField("key", "val"))
	logger.Debug("debug msg")
	require.NoError(t, logger.Close())

	lines := readLines(t, logPath)
	require.Len(t, lines, 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "val", entry.Fields["key"])
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelWarn,
	})
	require.NoError(t, err)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept")
	require.NoError(t, logger.Close())

	assert.Len(t, readLines(t, logPath), 2)
}

func TestJSONLogger_WithFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fields.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelInfo,
		Fields:     map[string]any{"run_id": "r1"},
	})
	require.NoError(t, err)

	child := logger.WithFields(ScenarioField("APP_LAUNCH"))
	child.Info("child message")
	require.NoError(t, logger.Close())

	child.Info("after parent closed")

	lines := readLines(t, logPath)
	require.Len(t, lines, 1)
	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "r1", entry.Fields["run_id"])
	assert.Equal(t, "APP_LAUNCH", entry.Fields["scenario"])
}

func TestJSONLogger_LogVerdict_DedicatedFile(t *testing.T) {
	dir := t.TempDir()
	verdictPath := filepath.Join(dir, "verdicts.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath:  filepath.Join(dir, "flicker.log"),
		VerdictPath: verdictPath,
		Level:       LevelInfo,
	})
	require.NoError(t, err)

	logger.LogVerdict(VerdictLog{
		RunID:     "run-7",
		Scenario:  "APP_LAUNCH",
		Assertion: "AppLayerBecomesVisible",
		Passed:    true,
	})
	require.NoError(t, logger.Close())

	lines := readLines(t, verdictPath)
	require.Len(t, lines, 1)
	var verdict VerdictLog
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &verdict))
	assert.Equal(t, "run-7", verdict.RunID)
	assert.True(t, verdict.Passed)
	assert.NotEmpty(t, verdict.Timestamp)
}

func TestJSONLogger_LogVerdict_FallsBackToMainLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "flicker.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelInfo,
	})
	require.NoError(t, err)

	logger.LogVerdict(VerdictLog{Assertion: "FocusChanges"})
	require.NoError(t, logger.Close())

	lines := readLines(t, logPath)
	require.Len(t, lines, 1)
	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "FocusChanges", entry.Fields["assertion"])
}

func TestJSONLogger_MarshalErrorDropsEntry(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "marshal.log")

	original := jsonMarshal
	jsonMarshal = func(any) ([]byte, error) {
		return nil, errors.New("boom")
	}
	defer func() { jsonMarshal = original }()

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelInfo,
	})
	require.NoError(t, err)
	logger.Info("lost")
	require.NoError(t, logger.Close())

	assert.Empty(t, readLines(t, logPath))
}

func TestJSONLogger_ClosedLoggerNoop(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "closed.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelInfo,
	})
	require.NoError(t, err)
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	logger.Info("after close")

	assert.Empty(t, readLines(t, logPath))
}

func TestSetupLogging(t *testing.T) {
	dir := t.TempDir()
	logger, err := SetupLogging(dir, LevelDebug)
	require.NoError(t, err)

	logger.Debug("setup test")
	logger.LogVerdict(VerdictLog{Assertion: "a", Passed: true})
	require.NoError(t, logger.Close())

	assert.Len(t, readLines(t, filepath.Join(dir, "flicker.log")), 1)
	assert.Len(t, readLines(t, filepath.Join(dir, "verdicts.log")), 1)
}
