package assertion

import (
	"errors"
	"strings"
)

var (
	// ErrNeverPassed is the cause of a checker failure where no
	// entry ever satisfied the first assertion.
	ErrNeverPassed = errors.New("assertion never passed")

	// ErrNeverFailed is the cause of a checker failure where the
	// trace ended while an assertion still held and mandatory
	// assertions after it were never reached.
	ErrNeverFailed = errors.New("assertion never failed")
)

// Error is an assertion violation. Predicates signal that an
// entry does not satisfy a check by returning an *Error (directly
// or wrapped); any other error is treated as a fault and aborts
// evaluation unchanged.
type Error struct {
	// Message is the human-readable failure summary.
	Message string `json:"message"`

	// Subject is the string form of the entry responsible for
	// the failure.
	Subject string `json:"subject,omitempty"`

	// Timestamp identifies the entry in the trace, when known.
	Timestamp string `json:"timestamp,omitempty"`

	Expected []Fact `json:"expected,omitempty"`
	Actual   []Fact `json:"actual,omitempty"`

	// Facts holds any additional diagnostic context.
	Facts []Fact `json:"facts,omitempty"`

	// Trace lists every assertion attempt made by the checker up
	// to the decisive failure.
	Trace []Attempt `json:"trace,omitempty"`

	cause error
}

// Error renders the message followed by every fact, one per line.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Timestamp != "" {
		sb.WriteString("\nWhere?: ")
		sb.WriteString(e.Timestamp)
	}
	for _, f := range e.AllFacts() {
		sb.WriteString("\n")
		sb.WriteString(f.String())
	}
	if e.Subject != "" {
		sb.WriteString("\nSubject: ")
		sb.WriteString(e.Subject)
	}
	if len(e.Trace) > 0 {
		sb.WriteString("\nAssertion trace:")
		for _, a := range e.Trace {
			sb.WriteString("\n\t")
			sb.WriteString(a.String())
		}
	}
	return sb.String()
}

// Unwrap returns the failure cause, if any, so that callers can
// use errors.Is with ErrNeverPassed and ErrNeverFailed.
func (e *Error) Unwrap() error { return e.cause }

// AllFacts returns expected, actual and extra facts in that order.
func (e *Error) AllFacts() []Fact {
	facts := make(
		[]Fact, 0,
		len(e.Expected)+len(e.Actual)+len(e.Facts),
	)
	facts = append(facts, e.Expected...)
	facts = append(facts, e.Actual...)
	facts = append(facts, e.Facts...)
	return facts
}

// IsViolation reports whether err is (or wraps) an assertion
// violation.
func IsViolation(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// withTrace returns a copy of the violation in err with the
// attempt log attached and, when name is set, an "Assertion" fact
// naming the failing step. A violation wrapped with %w is copied
// too; the copy keeps err as its cause so the wrapping context
// stays reachable through errors.Is and errors.As.
// Non-violations are returned unchanged.
func withTrace(err error, trace []Attempt, name string) error {
	var e *Error
	if !errors.As(err, &e) || e == nil {
		return err
	}
	traced := *e
	traced.Trace = append([]Attempt(nil), trace...)
	if name != "" && !hasFact(e.Facts, "Assertion") {
		traced.Facts = append(
			append([]Fact(nil), e.Facts...), NewFact("Assertion", name),
		)
	}
	if err != error(e) {
		traced.cause = err
	}
	return &traced
}

func hasFact(facts []Fact, key string) bool {
	for _, f := range facts {
		if f.Key == key {
			return true
		}
	}
	return false
}
