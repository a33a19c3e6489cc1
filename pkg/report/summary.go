package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"digital.vasic.flicker/pkg/scenario"
)

// MasterSummary represents an aggregated summary of a run.
type MasterSummary struct {
	ID             string            `json:"id"`
	RunID          string            `json:"run_id,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Scenarios      []ScenarioSummary `json:"scenarios"`
	TotalScenarios int               `json:"total_scenarios"`
	Passed         int               `json:"passed"`
	Failed         int               `json:"failed"`
	Skipped        int               `json:"skipped"`
	Errored        int               `json:"errored"`
	TotalDuration  time.Duration     `json:"total_duration"`
	PassRate       float64           `json:"pass_rate"`
}

// ScenarioSummary represents a summary of a single scenario.
type ScenarioSummary struct {
	Scenario          string        `json:"scenario"`
	Status            string        `json:"status"`
	Duration          time.Duration `json:"duration"`
	AssertionsPassed  int           `json:"assertions_passed"`
	AssertionsSkipped int           `json:"assertions_skipped"`
	AssertionsTotal   int           `json:"assertions_total"`

	// BlockingFailures names the failed blocking assertions.
	BlockingFailures []string `json:"blocking_failures,omitempty"`

	Error string `json:"error,omitempty"`
}

// BuildMasterSummary creates a master summary from scenario
// results. The pass rate ignores skipped scenarios.
func BuildMasterSummary(
	results []*scenario.Result,
) *MasterSummary {
	summary := &MasterSummary{
		ID: fmt.Sprintf(
			"summary_%s",
			time.Now().Format("20060102_150405"),
		),
		GeneratedAt: time.Now(),
		Scenarios: make(
			[]ScenarioSummary, 0, len(results),
		),
	}

	for _, r := range results {
		if summary.RunID == "" {
			summary.RunID = r.RunID
		}

		ss := ScenarioSummary{
			Scenario:        r.Scenario,
			Status:          r.Status,
			Duration:        r.Duration,
			AssertionsTotal: len(r.Assertions),
			Error:           r.Error,
		}
		for _, a := range r.Assertions {
			switch {
			case a.Skipped:
				ss.AssertionsSkipped++
			case a.Passed:
				ss.AssertionsPassed++
			}
		}
		for _, a := range r.BlockingFailures() {
			ss.BlockingFailures = append(ss.BlockingFailures, a.Name)
		}

		summary.Scenarios = append(summary.Scenarios, ss)
		summary.TotalScenarios++
		summary.TotalDuration += r.Duration

		switch r.Status {
		case scenario.StatusPassed:
			summary.Passed++
		case scenario.StatusSkipped:
			summary.Skipped++
		case scenario.StatusError:
			summary.Errored++
		default:
			summary.Failed++
		}
	}

	if evaluated := summary.TotalScenarios - summary.Skipped; evaluated > 0 {
		summary.PassRate = float64(summary.Passed) / float64(evaluated)
	}

	return summary
}

// SaveMasterSummary writes summary as master_summary_<ts>.json
// and .md under outputDir and repoints the latest_summary links
// at them.
func SaveMasterSummary(summary *MasterSummary, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", outputDir, err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	stamp := summary.GeneratedAt.Format("20060102_150405")
	artifacts := []struct {
		ext  string
		data []byte
	}{
		{"json", data},
		{"md", []byte(generateSummaryMarkdown(summary))},
	}
	for _, a := range artifacts {
		name := "master_summary_" + stamp + "." + a.ext
		if err := os.WriteFile(filepath.Join(outputDir, name), a.data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}

		// Symlinks are best effort; some filesystems lack them.
		latest := filepath.Join(outputDir, "latest_summary."+a.ext)
		_ = os.Remove(latest)
		_ = os.Symlink(name, latest)
	}
	return nil
}

// generateSummaryMarkdown creates markdown from a master
// summary.
func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString("# Flicker - Master Summary\n\n")
	fmt.Fprintf(&sb, "**Summary ID:** %s\n\n", summary.ID)
	if summary.RunID != "" {
		fmt.Fprintf(&sb, "**Run ID:** %s\n\n", summary.RunID)
	}
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Scenario | Status | Duration | Assertions |\n")
	sb.WriteString("|----------|--------|----------|------------|\n")

	for _, s := range summary.Scenarios {
		fmt.Fprintf(&sb, "| %s | %s | %v | %d/%d |\n",
			s.Scenario, strings.ToUpper(s.Status), s.Duration,
			s.AssertionsPassed, s.AssertionsTotal-s.AssertionsSkipped,
		)
	}

	var failing []ScenarioSummary
	for _, s := range summary.Scenarios {
		if len(s.BlockingFailures) > 0 || s.Status == scenario.StatusError {
			failing = append(failing, s)
		}
	}
	if len(failing) > 0 {
		sb.WriteString("\n## Failures\n\n")
		for _, s := range failing {
			fmt.Fprintf(&sb, "### %s\n\n", s.Scenario)
			if len(s.BlockingFailures) > 0 {
				fmt.Fprintf(&sb, "%s failed:\n\n",
					countOf(len(s.BlockingFailures), "blocking assertion"))
				for _, name := range s.BlockingFailures {
					fmt.Fprintf(&sb, "- `%s`\n", name)
				}
				sb.WriteString("\n")
			} else {
				fmt.Fprintf(&sb, "%s\n\n", s.Error)
			}
		}
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total | %s |\n", countOf(summary.TotalScenarios, "scenario"))
	fmt.Fprintf(&sb, "| Passed | %d |\n", summary.Passed)
	fmt.Fprintf(&sb, "| Failed | %d |\n", summary.Failed)
	fmt.Fprintf(&sb, "| Skipped | %d |\n", summary.Skipped)
	fmt.Fprintf(&sb, "| Errors | %d |\n", summary.Errored)
	fmt.Fprintf(&sb, "| Pass Rate | %.0f%% |\n", summary.PassRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n", summary.TotalDuration)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by flicker*\n")

	return sb.String()
}
