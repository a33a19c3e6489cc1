package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMasterSummary_Basic(t *testing.T) {
	summary := BuildMasterSummary(makeTestResults())

	assert.NotEmpty(t, summary.ID)
	assert.NotZero(t, summary.GeneratedAt)
	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 3, summary.TotalScenarios)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Errored)
	assert.Equal(t, 0.5, summary.PassRate, "skipped scenarios are excluded")
	assert.Len(t, summary.Scenarios, 3)
}

func TestBuildMasterSummary_Empty(t *testing.T) {
	summary := BuildMasterSummary(nil)

	assert.Equal(t, 0, summary.TotalScenarios)
	assert.Equal(t, float64(0), summary.PassRate)
	assert.Empty(t, summary.Scenarios)
}

func TestBuildMasterSummary_AssertionCounts(t *testing.T) {
	summary := BuildMasterSummary(makeTestResults())

	launch := summary.Scenarios[0]
	assert.Equal(t, 1, launch.AssertionsPassed)
	assert.Equal(t, 1, launch.AssertionsSkipped)
	assert.Equal(t, 4, launch.AssertionsTotal)
	assert.Equal(t,
		[]string{"app_layer_becomes_visible(OPENING_APP)"},
		launch.BlockingFailures,
	)

	assert.Equal(t, 1, summary.Scenarios[1].AssertionsPassed)
	assert.Empty(t, summary.Scenarios[1].BlockingFailures)
}

func TestSaveMasterSummary(t *testing.T) {
	dir := t.TempDir()
	summary := BuildMasterSummary(makeTestResults())

	require.NoError(t, SaveMasterSummary(summary, dir))

	matches, err := filepath.Glob(filepath.Join(dir, "master_summary_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var decoded MasterSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.ID, decoded.ID)

	matches, err = filepath.Glob(filepath.Join(dir, "master_summary_*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	target, err := os.Readlink(filepath.Join(dir, "latest_summary.json"))
	require.NoError(t, err)
	assert.Equal(t, "master_summary_"+summary.GeneratedAt.Format("20060102_150405")+".json", target)
	_, err = os.Readlink(filepath.Join(dir, "latest_summary.md"))
	require.NoError(t, err)
}

func TestSaveMasterSummary_ReplacesLatest(t *testing.T) {
	dir := t.TempDir()
	summary := BuildMasterSummary(makeTestResults())

	require.NoError(t, SaveMasterSummary(summary, dir))
	require.NoError(t, SaveMasterSummary(summary, dir))

	_, err := os.Stat(filepath.Join(dir, "latest_summary.json"))
	assert.NoError(t, err)
}

func TestSaveMasterSummary_BadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := SaveMasterSummary(BuildMasterSummary(nil), filepath.Join(file, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create ")
}

func TestGenerateSummaryMarkdown(t *testing.T) {
	md := generateSummaryMarkdown(BuildMasterSummary(makeTestResults()))

	assert.Contains(t, md, "**Run ID:** run-1")
	assert.Contains(t, md, "| APP_LAUNCH | FAILED | 5s | 1/3 |")
	assert.Contains(t, md, "| APP_CLOSE | PASSED | 2s | 1/1 |")
	assert.Contains(t, md, "| ROTATION | SKIPPED | 0s | 0/0 |")
	assert.Contains(t, md, "### APP_LAUNCH")
	assert.Contains(t, md, "1 blocking assertion failed:")
	assert.Contains(t, md, "- `app_layer_becomes_visible(OPENING_APP)`")
	assert.Contains(t, md, "| Total | 3 scenarios |")
	assert.Contains(t, md, "| Pass Rate | 50% |")
	assert.NotContains(t, md, "### ROTATION")
}
