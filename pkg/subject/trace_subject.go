// Package subject provides the fluent assertion API over traces.
//
// Entry subjects wrap a single trace entry and expose checks that
// return an assertion violation when they do not hold. Trace
// subjects register such checks, step by step, into an
// assertion.Checker and run it over every entry of the trace:
//
//	err := subject.NewLayersTraceSubject(layers).
//		IsVisible(app).
//		Then().
//		IsInvisible(app).
//		ForAllEntries()
package subject

import (
	"errors"
	"fmt"

	"digital.vasic.flicker/pkg/assertion"
	"digital.vasic.flicker/pkg/trace"
)

// ErrEmptyTrace is returned by ForAllEntries on a trace without
// entries.
var ErrEmptyTrace = errors.New("trace is empty")

// TraceSubject registers assertions over the entries of one trace.
// Calls between two Then calls are checked against the same
// entries; each Then starts a new step.
type TraceSubject[E trace.Entry] struct {
	trace    *trace.Trace[E]
	checker  *assertion.Checker[E]
	newBlock bool
}

func newTraceSubject[E trace.Entry](
	tr *trace.Trace[E],
	opts ...assertion.Option,
) *TraceSubject[E] {
	if tr == nil {
		tr = &trace.Trace[E]{}
	}
	return &TraceSubject[E]{
		trace:    tr,
		checker:  assertion.NewChecker[E](opts...),
		newBlock: true,
	}
}

// Trace returns the trace under test.
func (s *TraceSubject[E]) Trace() *trace.Trace[E] { return s.trace }

// AddAssertion registers fn under name.
func (s *TraceSubject[E]) AddAssertion(
	name string,
	fn assertion.Predicate[E],
	opts ...AssertionOption,
) {
	o := applyOptions(opts)
	if s.newBlock {
		s.checker.Add(name, o.optional, fn)
	} else {
		s.checker.Append(name, o.optional, fn)
	}
	s.newBlock = false
}

// Then starts a new step: the next assertion must start holding
// once the current ones stop.
func (s *TraceSubject[E]) Then() {
	s.newBlock = true
}

// SkipUntilFirstAssertion ignores failures until the first step
// holds for the first time.
func (s *TraceSubject[E]) SkipUntilFirstAssertion() {
	s.checker.SkipUntilFirstAssertion()
}

// HasAssertions reports whether any assertion was registered.
func (s *TraceSubject[E]) HasAssertions() bool {
	return !s.checker.IsEmpty()
}

// Test runs the registered assertions over every entry.
func (s *TraceSubject[E]) Test() error {
	return s.checker.Test(s.trace.Entries)
}

// ForAllEntries is Test, but fails on an empty trace.
func (s *TraceSubject[E]) ForAllEntries() error {
	if s.trace.IsEmpty() {
		return ErrEmptyTrace
	}
	return s.Test()
}

// VisibleEntriesShownMoreThanOneConsecutiveTime fails when an
// element is visible in a single entry only, with no visible
// neighbour before or after it. This holds at the edges of the
// trace too: an element seen only in the first or the last entry
// fails.
func (s *TraceSubject[E]) VisibleEntriesShownMoreThanOneConsecutiveTime(
	visible func(E) []string,
) error {
	entries := s.trace.Entries
	runStart := make(map[string]int)
	var previous []string

	singleton := func(name string, at int) error {
		b := assertion.NewMessageBuilder().
			ForSubject(entries[at]).
			SetMessage(fmt.Sprintf("%s is not visible for 2 entries", name)).
			AddExtraDescription(assertion.NewFact("Shown at", entries[at].Time()))
		if at+1 < len(entries) {
			b.AddExtraDescription(
				assertion.NewFact("Gone at", entries[at+1].Time()),
			)
		}
		return b.Build()
	}

	for i, e := range entries {
		names := visible(e)
		current := toSet(names)

		for _, name := range previous {
			if _, ok := current[name]; ok {
				continue
			}
			if runStart[name] == i-1 {
				return singleton(name, i-1)
			}
			delete(runStart, name)
		}

		previous = previous[:0]
		for _, name := range names {
			if _, ok := runStart[name]; !ok {
				runStart[name] = i
			}
			previous = append(previous, name)
		}
	}

	last := len(entries) - 1
	for _, name := range previous {
		if runStart[name] == last {
			return singleton(name, last)
		}
	}
	return nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
