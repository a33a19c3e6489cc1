package runner

import (
	"time"

	"digital.vasic.flicker/pkg/logging"
	"digital.vasic.flicker/pkg/metrics"
	"digital.vasic.flicker/pkg/monitor"
	"digital.vasic.flicker/pkg/template"
)

// RunnerOption configures a DefaultRunner.
type RunnerOption func(*DefaultRunner)

// WithRegistry sets the template registry used to build
// assertions.
func WithRegistry(reg template.Registry) RunnerOption {
	return func(r *DefaultRunner) {
		r.registry = reg
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *DefaultRunner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics sink used by the runner.
func WithMetrics(m metrics.AssertionMetrics) RunnerOption {
	return func(r *DefaultRunner) {
		r.metrics = m
	}
}

// WithCollector sets the collector that receives scenario and
// assertion events.
func WithCollector(c *monitor.EventCollector) RunnerOption {
	return func(r *DefaultRunner) {
		r.collector = c
	}
}

// WithMaxConcurrency sets the default number of scenarios
// evaluated at once, for configs that do not specify their own.
func WithMaxConcurrency(n int) RunnerOption {
	return func(r *DefaultRunner) {
		r.maxConcurrency = n
	}
}

// WithTimeout sets the default run timeout, for configs that do
// not specify their own.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *DefaultRunner) {
		r.timeout = timeout
	}
}

// WithPreHook adds a hook run before a scenario is evaluated.
func WithPreHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a hook run after a scenario is evaluated.
func WithPostHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}
