package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	for _, r := range makeTestResults() {
		require.NoError(t, AppendToHistory(path, r))
	}

	entries, err := LoadHistory(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "APP_LAUNCH", entries[0].Scenario)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "5s", entries[0].Duration)
	assert.Equal(t, 1, entries[0].AssertionsPassed)
	assert.Equal(t, 4, entries[0].AssertionsTotal)
	assert.Equal(t,
		[]string{"app_layer_becomes_visible(OPENING_APP)"},
		entries[0].BlockingFailures,
	)
	assert.Equal(t, "ROTATION", entries[2].Scenario)
}

func TestAppendToHistory_BadPath(t *testing.T) {
	err := AppendToHistory(
		filepath.Join(t.TempDir(), "missing", "history.jsonl"),
		makeTestResult(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open history file")
}

func TestLoadHistory_Missing(t *testing.T) {
	entries, err := LoadHistory(filepath.Join(t.TempDir(), "none.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadHistory_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n\nnot json\n"), 0644))

	_, err := LoadHistory(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history line 3")
}
