// Package assertion implements the trace assertion interpreter:
// named predicates over trace entries, compound groups of them,
// and the Checker state machine that walks an ordered trace
// against an ordered chain of assertions.
package assertion

import (
	"fmt"

	"digital.vasic.flicker/pkg/logging"
)

// Attempt records one evaluation of an assertion against an
// entry.
type Attempt struct {
	AssertionIndex int    `json:"assertion_index"`
	AssertionCount int    `json:"assertion_count"`
	EntryIndex     int    `json:"entry_index"`
	EntryCount     int    `json:"entry_count"`
	Assertion      string `json:"assertion"`
	Entry          string `json:"entry"`
}

// String renders the attempt as "i/M:[name]\tEntry: j/N entry"
// with one-based positions.
func (a Attempt) String() string {
	return fmt.Sprintf(
		"%d/%d:[%s]\tEntry: %d/%d %s",
		a.AssertionIndex+1, a.AssertionCount, a.Assertion,
		a.EntryIndex+1, a.EntryCount, a.Entry,
	)
}

// Option configures a Checker.
type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger sets the logger receiving one debug line per
// attempt.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Checker runs a sequence of compound assertions over a sequence
// of entries. Each assertion must hold for a contiguous run of at
// least one entry, and control moves to the next assertion when
// the current one stops holding.
//
// A Checker is built and then consumed by a single goroutine; it
// is not safe for concurrent use.
type Checker[T any] struct {
	assertions              []*CompoundAssertion[T]
	skipUntilFirstAssertion bool
	logger                  logging.Logger
}

// NewChecker creates an empty Checker.
func NewChecker[T any](opts ...Option) *Checker[T] {
	o := options{logger: logging.NullLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Checker[T]{logger: o.logger}
}

// Add registers predicate as a new step.
func (c *Checker[T]) Add(
	name string,
	optional bool,
	predicate Predicate[T],
) {
	c.assertions = append(
		c.assertions,
		NewCompoundAssertion(name, optional, predicate),
	)
}

// Append adds predicate to the most recent step so it is checked
// against the same entries. On an empty checker it behaves like
// Add.
func (c *Checker[T]) Append(
	name string,
	optional bool,
	predicate Predicate[T],
) {
	if len(c.assertions) == 0 {
		c.Add(name, optional, predicate)
		return
	}
	c.assertions[len(c.assertions)-1].Add(name, optional, predicate)
}

// SkipUntilFirstAssertion ignores failures at the start of the
// trace until the first assertion passes for the first time. If
// nothing ever passes, Test still fails with ErrNeverPassed.
func (c *Checker[T]) SkipUntilFirstAssertion() {
	c.skipUntilFirstAssertion = true
}

// IsEmpty reports whether no step has been registered.
func (c *Checker[T]) IsEmpty() bool { return len(c.assertions) == 0 }

// Len returns the number of registered steps.
func (c *Checker[T]) Len() int { return len(c.assertions) }

// Assertions returns the registered steps in order.
func (c *Checker[T]) Assertions() []*CompoundAssertion[T] {
	return append([]*CompoundAssertion[T](nil), c.assertions...)
}

// Test walks entries against the registered steps. It returns nil
// when every step held in order, the decisive violation (with the
// attempt log attached) otherwise, and any non-violation error a
// predicate returned unchanged. Test does not modify the checker
// or the entries, so repeated calls give the same result.
func (c *Checker[T]) Test(entries []T) error {
	if len(c.assertions) == 0 || len(entries) == 0 {
		return nil
	}

	total := len(c.assertions)
	entryIndex := 0
	assertionIndex := 0
	lastPassed := -1
	var attempts []Attempt

	for assertionIndex < total && entryIndex < len(entries) {
		current := c.assertions[assertionIndex]
		entry := entries[entryIndex]

		attempt := Attempt{
			AssertionIndex: assertionIndex,
			AssertionCount: total,
			EntryIndex:     entryIndex,
			EntryCount:     len(entries),
			Assertion:      current.Name(),
			Entry:          fmt.Sprint(entry),
		}
		attempts = append(attempts, attempt)
		c.logger.Debug(attempt.String(),
			logging.AssertionField(current.Name()),
			logging.IntField("assertion_index", assertionIndex),
			logging.EntryField(entryIndex),
		)

		err := current.Invoke(entry)
		if err == nil {
			lastPassed = assertionIndex
			entryIndex++
			continue
		}
		if !IsViolation(err) {
			return err
		}

		// Failures at the start of the trace are ignored until
		// something passes.
		if c.skipUntilFirstAssertion && lastPassed == -1 {
			entryIndex++
			continue
		}
		// An optional step that fails is considered passed and
		// skipped without consuming the entry.
		if current.Optional() {
			lastPassed = assertionIndex
			assertionIndex++
			continue
		}
		if lastPassed != assertionIndex {
			return withTrace(err, attempts, current.Name())
		}
		assertionIndex++
		if assertionIndex == total {
			return withTrace(err, attempts, current.Name())
		}
	}

	if lastPassed == -1 {
		facts := make([]Fact, total)
		for i, a := range c.assertions {
			facts[i] = NewFact(fmt.Sprintf("Assertion%d", i), a.Name())
		}
		failure := NewMessageBuilder().
			ForSubject(entries[0]).
			SetMessage(fmt.Sprintf(
				"Assertion never passed %s", c.assertions[0].Name(),
			)).
			AddExtraDescription(facts...).
			WithCause(ErrNeverPassed).
			Build()
		return withTrace(failure, attempts, "")
	}

	var untested []*CompoundAssertion[T]
	if assertionIndex+1 < total {
		untested = c.assertions[assertionIndex+1:]
	}
	for _, a := range untested {
		if a.Optional() {
			continue
		}

		b := NewMessageBuilder().
			ForSubject(entries[len(entries)-1]).
			SetMessage(fmt.Sprintf(
				"Assertion %d never failed: %s",
				assertionIndex, c.assertions[assertionIndex].Name(),
			)).
			WithCause(ErrNeverFailed)
		for _, p := range c.assertions[:assertionIndex] {
			b.AddExtraDescription(NewFact("Passed", p.Name()))
		}
		for _, u := range untested {
			b.AddExtraDescription(NewFact("Untested", u.Name()))
		}
		return withTrace(b.Build(), attempts, "")
	}

	return nil
}

// Equal reports whether both checkers have the same skip policy
// and pairwise equal steps.
func (c *Checker[T]) Equal(other *Checker[T]) bool {
	if other == nil ||
		c.skipUntilFirstAssertion != other.skipUntilFirstAssertion ||
		len(c.assertions) != len(other.assertions) {
		return false
	}
	for i, a := range c.assertions {
		if !a.Equal(other.assertions[i]) {
			return false
		}
	}
	return true
}
