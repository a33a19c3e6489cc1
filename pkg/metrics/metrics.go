// Package metrics records counts and durations of scenario and
// assertion evaluations.
package metrics

import "time"

// AssertionMetrics defines the interface for recording evaluation
// metrics.
type AssertionMetrics interface {
	// RecordScenario records the evaluation of a scenario.
	RecordScenario(scenarioType, status string, duration time.Duration)
	// RecordAssertion records the evaluation of a template.
	RecordAssertion(scenarioType, template string, passed bool)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
	// SetActiveScenarios sets the gauge of scenarios being
	// evaluated.
	SetActiveScenarios(count int)
}

// NoopMetrics is a no-op implementation of AssertionMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordScenario(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordAssertion(_, _ string, _ bool)         {}
func (NoopMetrics) IncrementRunTotal()                          {}
func (NoopMetrics) SetActiveScenarios(_ int)                    {}
