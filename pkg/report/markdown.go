package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jinzhu/inflection"

	"digital.vasic.flicker/pkg/scenario"
)

// MarkdownReporter generates Markdown reports that list every
// assertion with the facts of its failure.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a single scenario
// result.
func (r *MarkdownReporter) GenerateReport(
	result *scenario.Result,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateMasterSummary creates a Markdown summary of all
// scenario results.
func (r *MarkdownReporter) GenerateMasterSummary(
	results []*scenario.Result,
) ([]byte, error) {
	return []byte(generateSummaryMarkdown(BuildMasterSummary(results))), nil
}

// WriteReport writes a Markdown report to the specified writer.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	result *scenario.Result,
) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Scenario Report: %s\n\n", result.Scenario)
	fmt.Fprintf(&sb, "**Run ID:** %s\n\n", result.RunID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		result.EndTime.Format(time.RFC3339))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Status | %s |\n", strings.ToUpper(result.Status))
	fmt.Fprintf(&sb, "| Duration | %v |\n", result.Duration)
	fmt.Fprintf(&sb, "| Assertions | %s |\n",
		countOf(len(result.Assertions), "assertion"))
	if result.Error != "" {
		fmt.Fprintf(&sb, "| Reason | %s |\n", escapeCell(result.Error))
	}

	sb.WriteString("\n## Assertions\n\n")
	if len(result.Assertions) == 0 {
		sb.WriteString("No assertions were evaluated.\n")
	}
	for _, a := range result.Assertions {
		fmt.Fprintf(&sb, "- %s `%s` (%s)\n",
			assertionMark(a), a.Name, a.Group)
		if a.Passed {
			continue
		}
		if a.Message != "" {
			fmt.Fprintf(&sb, "  - %s\n", a.Message)
		}
		for _, f := range a.Facts {
			fmt.Fprintf(&sb, "    - %s\n", f)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func assertionMark(a scenario.AssertionResult) string {
	switch {
	case a.Skipped:
		return "SKIPPED"
	case a.Passed:
		return "PASSED"
	case a.IsBlocking():
		return "FAILED"
	default:
		return "WARNING"
	}
}

// countOf renders "1 assertion" or "3 assertions".
func countOf(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
