// Package report renders scenario results as JSON and Markdown
// reports and keeps a run history.
package report

import (
	"io"

	"digital.vasic.flicker/pkg/scenario"
)

// Reporter defines the interface for generating scenario reports.
type Reporter interface {
	// GenerateReport creates a report for a single scenario
	// result.
	GenerateReport(result *scenario.Result) ([]byte, error)

	// GenerateMasterSummary creates a summary of all scenario
	// results.
	GenerateMasterSummary(
		results []*scenario.Result,
	) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, result *scenario.Result) error
}
