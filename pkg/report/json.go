package report

import (
	"encoding/json"
	"io"

	"digital.vasic.flicker/pkg/scenario"
)

// JSONReporter generates JSON reports from scenario results.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport creates a JSON report for a single scenario
// result.
func (r *JSONReporter) GenerateReport(
	result *scenario.Result,
) ([]byte, error) {
	return r.marshal(result)
}

// GenerateMasterSummary creates a JSON summary of all scenario
// results.
func (r *JSONReporter) GenerateMasterSummary(
	results []*scenario.Result,
) ([]byte, error) {
	return r.marshal(BuildMasterSummary(results))
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	result *scenario.Result,
) error {
	data, err := r.GenerateReport(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
