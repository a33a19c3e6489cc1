// Package runner evaluates the configured assertion templates
// against recorded scenarios. Scenarios run in parallel; the
// templates of a scenario run one after the other.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"digital.vasic.flicker/pkg/assertion"
	"digital.vasic.flicker/pkg/config"
	"digital.vasic.flicker/pkg/logging"
	"digital.vasic.flicker/pkg/metrics"
	"digital.vasic.flicker/pkg/monitor"
	"digital.vasic.flicker/pkg/scenario"
	"digital.vasic.flicker/pkg/template"
)

// Runner defines the interface for scenario evaluation.
type Runner interface {
	// RunScenario evaluates defs against a single scenario.
	RunScenario(
		ctx context.Context,
		sc *scenario.Scenario,
		defs []template.Definition,
	) (*scenario.Result, error)

	// Run evaluates every scenario against the assertions cfg
	// configures for its type.
	Run(
		ctx context.Context,
		cfg *config.Config,
		scenarios []*scenario.Scenario,
	) ([]*scenario.Result, error)
}

// Hook is a function invoked before or after a scenario is
// evaluated.
type Hook func(ctx context.Context, sc *scenario.Scenario) error

// DefaultRunner is the standard Runner implementation. Templates
// create fresh subjects on every evaluation, so no checker is
// shared between goroutines.
type DefaultRunner struct {
	registry       template.Registry
	logger         logging.Logger
	metrics        metrics.AssertionMetrics
	collector      *monitor.EventCollector
	maxConcurrency int
	timeout        time.Duration
	preHooks       []Hook
	postHooks      []Hook

	active atomic.Int32
}

// NewRunner creates a DefaultRunner with the supplied options.
func NewRunner(opts ...RunnerOption) *DefaultRunner {
	r := &DefaultRunner{
		registry:       template.NewRegistry(),
		logger:         logging.NullLogger{},
		metrics:        metrics.NoopMetrics{},
		maxConcurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates scenarios under a new run ID. Scenarios whose
// type has no config entry are skipped. The config's concurrency
// and timeout take precedence over the runner defaults.
func (r *DefaultRunner) Run(
	ctx context.Context,
	cfg *config.Config,
	scenarios []*scenario.Scenario,
) ([]*scenario.Result, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	runID := uuid.NewString()
	r.metrics.IncrementRunTotal()

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = r.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	concurrency := cfg.MaxConcurrency
	if concurrency == 0 {
		concurrency = r.maxConcurrency
	}

	r.logger.Info("run_started",
		logging.RunIDField(runID),
		logging.StringField("name", cfg.Name),
		logging.IntField("scenarios", len(scenarios)),
		logging.IntField("max_concurrency", concurrency),
	)

	results, err := runParallel(ctx, r, runID, cfg, scenarios, concurrency)
	if err != nil {
		r.logger.Error("run_aborted",
			logging.RunIDField(runID),
			logging.ErrorField(err),
		)
		return results, fmt.Errorf("run %s: %w", runID, err)
	}

	r.logger.Info("run_completed",
		logging.RunIDField(runID),
		logging.IntField("results", len(results)),
	)
	return results, nil
}

var errNilScenario = errors.New("scenario is nil")

// runConfigured looks up the config entry of sc and evaluates it.
func (r *DefaultRunner) runConfigured(
	ctx context.Context,
	runID string,
	cfg *config.Config,
	sc *scenario.Scenario,
) (*scenario.Result, error) {
	if sc == nil {
		result := newResult(runID, nil)
		r.finish(result, scenario.StatusError, errNilScenario.Error())
		return result, nil
	}

	scCfg, ok := cfg.Scenario(sc.Type)
	if !ok {
		result := newResult(runID, sc)
		r.finish(result, scenario.StatusSkipped, fmt.Sprintf(
			"no assertions configured for scenario %s", sc.Type,
		))
		return result, nil
	}

	if err := scCfg.Apply(sc); err != nil {
		result := newResult(runID, sc)
		r.finish(result, scenario.StatusError, err.Error())
		return result, nil
	}

	return r.runScenario(ctx, runID, sc, scCfg.Assertions)
}

// RunScenario evaluates defs against sc under a new run ID.
func (r *DefaultRunner) RunScenario(
	ctx context.Context,
	sc *scenario.Scenario,
	defs []template.Definition,
) (*scenario.Result, error) {
	if sc == nil {
		return nil, errNilScenario
	}
	return r.runScenario(ctx, uuid.NewString(), sc, defs)
}

// runScenario evaluates every definition in order. A failed
// blocking assertion fails the scenario; a template that cannot
// be built or evaluated makes it an error. A scenario none of
// whose templates apply is skipped.
func (r *DefaultRunner) runScenario(
	ctx context.Context,
	runID string,
	sc *scenario.Scenario,
	defs []template.Definition,
) (*scenario.Result, error) {
	result := newResult(runID, sc)

	r.metrics.SetActiveScenarios(int(r.active.Add(1)))
	defer func() {
		r.metrics.SetActiveScenarios(int(r.active.Add(-1)))
	}()

	if r.collector != nil {
		r.collector.EmitStarted(runID, sc.Type)
	}
	r.logger.Info("scenario_started",
		logging.RunIDField(runID),
		logging.ScenarioField(sc.Type),
		logging.IntField("assertions", len(defs)),
	)

	for _, hook := range r.preHooks {
		if err := hook(ctx, sc); err != nil {
			r.finish(result, scenario.StatusError,
				fmt.Sprintf("pre-hook failed: %v", err))
			return result, nil
		}
	}

	var firstErr string
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			r.finish(result, scenario.StatusError,
				fmt.Sprintf("evaluation cancelled: %v", err))
			return result, err
		}

		ar, err := r.evaluate(sc, def)
		result.Assertions = append(result.Assertions, ar)
		if err != nil && firstErr == "" {
			firstErr = fmt.Sprintf("%s: %v", ar.Name, err)
		}
		r.record(result, ar)
	}

	for _, hook := range r.postHooks {
		if err := hook(ctx, sc); err != nil {
			r.logger.Warn("post_hook_warning",
				logging.ScenarioField(sc.Type),
				logging.ErrorField(err),
			)
		}
	}

	switch {
	case firstErr != "":
		r.finish(result, scenario.StatusError, firstErr)
	case allSkipped(result.Assertions):
		r.finish(result, scenario.StatusSkipped,
			"no template applies to the recorded traces")
	case len(result.BlockingFailures()) > 0:
		n := len(result.BlockingFailures())
		r.finish(result, scenario.StatusFailed,
			fmt.Sprintf("%d blocking assertion(s) failed", n))
	default:
		r.finish(result, scenario.StatusPassed, "")
	}
	return result, nil
}

// evaluate builds and runs one template. The returned error is
// set when the template could not be built or evaluated; an
// assertion violation is a failed result, not an error.
func (r *DefaultRunner) evaluate(
	sc *scenario.Scenario,
	def template.Definition,
) (scenario.AssertionResult, error) {
	ar := scenario.AssertionResult{
		Name:     def.Template,
		Template: def.Template,
		Group:    def.EffectiveGroup(),
	}
	start := time.Now()

	tmpl, err := r.registry.Build(def)
	if err != nil {
		ar.Message = err.Error()
		ar.Duration = time.Since(start)
		return ar, err
	}
	ar.Name = tmpl.Name()

	err = safeEvaluate(tmpl, sc)
	ar.Duration = time.Since(start)

	var violation *assertion.Error
	switch {
	case err == nil:
		ar.Passed = true
	case errors.Is(err, template.ErrNotApplicable):
		ar.Skipped = true
		ar.Message = err.Error()
	case errors.As(err, &violation):
		ar.Message = firstLine(err.Error())
		ar.Facts = violation.AllFacts()
	default:
		ar.Message = err.Error()
		return ar, err
	}
	return ar, nil
}

// safeEvaluate turns a panicking template into an error.
func safeEvaluate(tmpl template.Template, sc *scenario.Scenario) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("template %s panicked: %v", tmpl.Name(), p)
		}
	}()
	return tmpl.Evaluate(sc)
}

// record reports an assertion outcome to the logger, metrics and
// collector. Skipped assertions are only logged at debug level.
func (r *DefaultRunner) record(
	result *scenario.Result,
	ar scenario.AssertionResult,
) {
	if ar.Skipped {
		r.logger.Debug("assertion_skipped",
			logging.ScenarioField(result.Scenario),
			logging.AssertionField(ar.Name),
		)
		return
	}

	facts := make([]string, len(ar.Facts))
	for i, f := range ar.Facts {
		facts[i] = f.String()
	}
	r.logger.LogVerdict(logging.VerdictLog{
		Timestamp:  time.Now().Format(time.RFC3339),
		RunID:      result.RunID,
		Scenario:   result.Scenario,
		Assertion:  ar.Name,
		Group:      ar.Group,
		Passed:     ar.Passed,
		Message:    ar.Message,
		Facts:      facts,
		DurationMs: ar.Duration.Milliseconds(),
	})

	r.metrics.RecordAssertion(result.Scenario, ar.Template, ar.Passed)
	if r.collector != nil {
		r.collector.EmitAssertion(
			result.RunID, result.Scenario, ar.Name, ar.Passed, ar.Message,
		)
	}
}

// finish sets the final status and timing of result and reports
// it.
func (r *DefaultRunner) finish(
	result *scenario.Result,
	status, msg string,
) {
	result.Status = status
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	if status != scenario.StatusPassed {
		result.Error = msg
	}

	r.metrics.RecordScenario(result.Scenario, status, result.Duration)
	if r.collector != nil {
		r.collector.EmitFinished(
			result.RunID, result.Scenario, status, msg, result.Duration,
		)
	}

	fields := []logging.Field{
		logging.RunIDField(result.RunID),
		logging.ScenarioField(result.Scenario),
		logging.StringField("status", status),
		logging.DurationField(result.Duration),
	}
	if msg != "" {
		fields = append(fields, logging.StringField("reason", msg))
	}
	switch status {
	case scenario.StatusError:
		r.logger.Error("scenario_completed", fields...)
	case scenario.StatusFailed:
		r.logger.Warn("scenario_completed", fields...)
	default:
		r.logger.Info("scenario_completed", fields...)
	}
}

func newResult(runID string, sc *scenario.Scenario) *scenario.Result {
	result := &scenario.Result{
		RunID:     runID,
		Status:    scenario.StatusRunning,
		StartTime: time.Now(),
	}
	if sc != nil {
		result.Scenario = sc.Type
	}
	return result
}

func allSkipped(results []scenario.AssertionResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, ar := range results {
		if !ar.Skipped {
			return false
		}
	}
	return true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
