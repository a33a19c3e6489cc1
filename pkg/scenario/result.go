package scenario

import (
	"time"

	"digital.vasic.flicker/pkg/assertion"
)

// Status constants for scenario evaluation outcomes.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Assertion groups. A failure in a blocking assertion fails the
// scenario; a non-blocking failure is only reported.
const (
	GroupBlocking    = "blocking"
	GroupNonBlocking = "non_blocking"
)

// Result captures the outcome of evaluating every assertion of one
// scenario.
type Result struct {
	// RunID identifies the run the scenario was evaluated in.
	RunID string `json:"run_id"`

	// Scenario is the scenario type.
	Scenario string `json:"scenario"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	// Assertions holds the outcome of every template, in
	// configuration order.
	Assertions []AssertionResult `json:"assertions"`

	// Error contains the error message if the scenario could not
	// be evaluated.
	Error string `json:"error,omitempty"`
}

// AssertionResult captures the outcome of a single template.
type AssertionResult struct {
	// Name is the assertion name, including its component.
	Name string `json:"name"`

	// Template is the template that produced the assertion.
	Template string `json:"template"`

	// Group is GroupBlocking or GroupNonBlocking.
	Group string `json:"group"`

	Passed  bool `json:"passed"`
	Skipped bool `json:"skipped,omitempty"`

	// Message is the first line of the failure, empty on
	// success.
	Message string `json:"message,omitempty"`

	// Facts holds the diagnostic facts of the failure.
	Facts []assertion.Fact `json:"facts,omitempty"`

	Duration time.Duration `json:"duration"`
}

// IsBlocking reports whether a failure of the assertion fails the
// scenario.
func (a AssertionResult) IsBlocking() bool {
	return a.Group != GroupNonBlocking
}

// AllPassed returns true if every evaluated assertion passed.
// Skipped assertions are ignored.
func (r *Result) AllPassed() bool {
	for _, a := range r.Assertions {
		if !a.Passed && !a.Skipped {
			return false
		}
	}
	return true
}

// BlockingFailures returns the failed blocking assertions.
func (r *Result) BlockingFailures() []AssertionResult {
	var out []AssertionResult
	for _, a := range r.Assertions {
		if !a.Passed && !a.Skipped && a.IsBlocking() {
			out = append(out, a)
		}
	}
	return out
}

// IsFinal returns true if the status is a terminal state.
func (r *Result) IsFinal() bool {
	switch r.Status {
	case StatusPassed, StatusFailed, StatusSkipped, StatusError:
		return true
	}
	return false
}
