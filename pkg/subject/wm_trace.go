package subject

import (
	"fmt"
	"strings"

	"digital.vasic.flicker/pkg/assertion"
	"digital.vasic.flicker/pkg/trace"
)

// DefaultIgnoredWindows are skipped by
// VisibleWindowsShownMoreThanOneConsecutiveEntry when no ignore
// list is given.
var DefaultIgnoredWindows = []trace.ComponentMatcher{
	trace.SplashScreen,
	trace.Snapshot,
}

// WindowManagerTraceSubject is the assertion DSL over a
// WindowManager trace.
type WindowManagerTraceSubject struct {
	*TraceSubject[*trace.WindowManagerState]
	opts []assertion.Option
}

// NewWindowManagerTraceSubject creates a subject over tr.
func NewWindowManagerTraceSubject(
	tr *trace.WindowManagerTrace,
	opts ...assertion.Option,
) *WindowManagerTraceSubject {
	return &WindowManagerTraceSubject{
		TraceSubject: newTraceSubject(tr, opts...),
		opts:         opts,
	}
}

func (s *WindowManagerTraceSubject) add(
	name string,
	opts []AssertionOption,
	check func(*WindowManagerStateSubject) error,
) *WindowManagerTraceSubject {
	s.AddAssertion(name, func(st *trace.WindowManagerState) error {
		return check(NewWindowManagerStateSubject(st))
	}, opts...)
	return s
}

// matcherCheck registers a named check against one component.
func (s *WindowManagerTraceSubject) matcherCheck(
	method string,
	m trace.ComponentMatcher,
	opts []AssertionOption,
	check func(*WindowManagerStateSubject, trace.ComponentMatcher) error,
) *WindowManagerTraceSubject {
	return s.add(
		fmt.Sprintf("%s(%s)", method, m.WindowIdentifier()), opts,
		func(st *WindowManagerStateSubject) error { return check(st, m) },
	)
}

// Then starts a new assertion step.
func (s *WindowManagerTraceSubject) Then() *WindowManagerTraceSubject {
	s.TraceSubject.Then()
	return s
}

// SkipUntilFirstAssertion ignores failures until the first step
// holds.
func (s *WindowManagerTraceSubject) SkipUntilFirstAssertion() *WindowManagerTraceSubject {
	s.TraceSubject.SkipUntilFirstAssertion()
	return s
}

// Assert registers a custom check.
func (s *WindowManagerTraceSubject) Assert(
	name string,
	check func(*WindowManagerStateSubject) error,
	opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.add(name, opts, check)
}

// Contains adds a step requiring a window matching m.
func (s *WindowManagerTraceSubject) Contains(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("contains", m, opts,
		(*WindowManagerStateSubject).Contains)
}

// NotContains adds a step requiring no window to match m.
func (s *WindowManagerTraceSubject) NotContains(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("notContains", m, opts,
		(*WindowManagerStateSubject).NotContains)
}

// ContainsAppWindow adds a step requiring an app window matching m.
func (s *WindowManagerTraceSubject) ContainsAppWindow(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("containsAppWindow", m, opts,
		(*WindowManagerStateSubject).ContainsAppWindow)
}

// ContainsNonAppWindow adds a step requiring a non-app window
// matching m.
func (s *WindowManagerTraceSubject) ContainsNonAppWindow(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("containsNonAppWindow", m, opts,
		(*WindowManagerStateSubject).ContainsNonAppWindow)
}

// IsAppWindowVisible adds a step requiring a visible app window
// matching m.
func (s *WindowManagerTraceSubject) IsAppWindowVisible(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isAppWindowVisible", m, opts,
		(*WindowManagerStateSubject).IsAppWindowVisible)
}

// IsAppWindowInvisible is the inverse of IsAppWindowVisible.
func (s *WindowManagerTraceSubject) IsAppWindowInvisible(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isAppWindowInvisible", m, opts,
		(*WindowManagerStateSubject).IsAppWindowInvisible)
}

// IsNonAppWindowVisible adds a step requiring a visible non-app
// window matching m.
func (s *WindowManagerTraceSubject) IsNonAppWindowVisible(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isNonAppWindowVisible", m, opts,
		(*WindowManagerStateSubject).IsNonAppWindowVisible)
}

// IsNonAppWindowInvisible is the inverse of IsNonAppWindowVisible.
func (s *WindowManagerTraceSubject) IsNonAppWindowInvisible(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isNonAppWindowInvisible", m, opts,
		(*WindowManagerStateSubject).IsNonAppWindowInvisible)
}

// IsAppWindowOnTop adds a step requiring the top visible app window
// to match m.
func (s *WindowManagerTraceSubject) IsAppWindowOnTop(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isAppWindowOnTop", m, opts,
		(*WindowManagerStateSubject).IsAppWindowOnTop)
}

// IsAppWindowNotOnTop is the inverse of IsAppWindowOnTop.
func (s *WindowManagerTraceSubject) IsAppWindowNotOnTop(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isAppWindowNotOnTop", m, opts,
		(*WindowManagerStateSubject).IsAppWindowNotOnTop)
}

// IsPinned adds a step requiring a pinned window matching m.
func (s *WindowManagerTraceSubject) IsPinned(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isPinned", m, opts,
		(*WindowManagerStateSubject).IsPinned)
}

// IsNotPinned is the inverse of IsPinned.
func (s *WindowManagerTraceSubject) IsNotPinned(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isNotPinned", m, opts,
		(*WindowManagerStateSubject).IsNotPinned)
}

// IsFocused adds a step requiring focus on a window matching m.
func (s *WindowManagerTraceSubject) IsFocused(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.matcherCheck("isFocused", m, opts,
		(*WindowManagerStateSubject).IsFocused)
}

// IsAboveWindow adds a step requiring above to sit over below.
func (s *WindowManagerTraceSubject) IsAboveWindow(
	above, below trace.ComponentMatcher, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.add(
		fmt.Sprintf("isAboveWindow(%s, %s)",
			above.WindowIdentifier(), below.WindowIdentifier()),
		opts,
		func(st *WindowManagerStateSubject) error {
			return st.IsAboveWindow(above, below)
		},
	)
}

// HasNoVisibleAppWindow adds a step failing on any visible app
// window.
func (s *WindowManagerTraceSubject) HasNoVisibleAppWindow(
	opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.add("hasNoVisibleAppWindow", opts,
		(*WindowManagerStateSubject).HasNoVisibleAppWindow)
}

// IsKeyguardShowing adds a step requiring the keyguard.
func (s *WindowManagerTraceSubject) IsKeyguardShowing(
	opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.add("isKeyguardShowing", opts,
		(*WindowManagerStateSubject).IsKeyguardShowing)
}

// IsHomeActivityVisible adds a step requiring a visible home window.
func (s *WindowManagerTraceSubject) IsHomeActivityVisible(
	opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.add("isHomeActivityVisible", opts,
		(*WindowManagerStateSubject).IsHomeActivityVisible)
}

// IsHomeActivityInvisible is the inverse of IsHomeActivityVisible.
func (s *WindowManagerTraceSubject) IsHomeActivityInvisible(
	opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.add("isHomeActivityInvisible", opts,
		(*WindowManagerStateSubject).IsHomeActivityInvisible)
}

// HasRotation adds a step requiring the given display rotation.
func (s *WindowManagerTraceSubject) HasRotation(
	rotation int, opts ...AssertionOption,
) *WindowManagerTraceSubject {
	return s.add(fmt.Sprintf("hasRotation(%d)", rotation), opts,
		func(st *WindowManagerStateSubject) error {
			return st.HasRotation(rotation)
		})
}

// VisibleWindowsShownMoreThanOneConsecutiveEntry fails when a
// window is visible for a single entry only.
func (s *WindowManagerTraceSubject) VisibleWindowsShownMoreThanOneConsecutiveEntry(
	ignore ...trace.ComponentMatcher,
) error {
	if len(ignore) == 0 {
		ignore = DefaultIgnoredWindows
	}
	return s.VisibleEntriesShownMoreThanOneConsecutiveTime(
		func(st *trace.WindowManagerState) []string {
			return NewWindowManagerStateSubject(st).VisibleWindowNames(ignore...)
		},
	)
}

// FocusChanges fails unless the focused window goes through names,
// in order, over consecutive focus changes. Each name only needs
// to be part of the focused window name.
func (s *WindowManagerTraceSubject) FocusChanges(names ...string) error {
	if len(names) == 0 {
		return nil
	}

	var focus []string
	for _, st := range s.Trace().Entries {
		if st.FocusedWindow == "" {
			continue
		}
		if n := len(focus); n > 0 && focus[n-1] == st.FocusedWindow {
			continue
		}
		focus = append(focus, st.FocusedWindow)
	}

	for i := 0; i+len(names) <= len(focus); i++ {
		matched := true
		for j, name := range names {
			if !strings.Contains(focus[i+j], name) {
				matched = false
				break
			}
		}
		if matched {
			return nil
		}
	}

	b := assertion.NewMessageBuilder().
		SetMessage("Focus did not change as expected").
		SetExpected(strings.Join(names, " -> ")).
		SetActualValue(strings.Join(focus, " -> "))
	if last, ok := s.Trace().Last(); ok {
		b.ForSubject(last)
	}
	return b.Build()
}

// ForRange returns a subject over the states whose elapsed time
// lies in [from, to]. Registered assertions are not carried over.
func (s *WindowManagerTraceSubject) ForRange(
	from, to int64,
) *WindowManagerTraceSubject {
	return NewWindowManagerTraceSubject(
		s.Trace().SliceByElapsed(from, to), s.opts...,
	)
}

// First returns a subject for the first state.
func (s *WindowManagerTraceSubject) First() (*WindowManagerStateSubject, error) {
	st, ok := s.Trace().First()
	if !ok {
		return nil, ErrEmptyTrace
	}
	return NewWindowManagerStateSubject(st), nil
}

// Last returns a subject for the last state.
func (s *WindowManagerTraceSubject) Last() (*WindowManagerStateSubject, error) {
	st, ok := s.Trace().Last()
	if !ok {
		return nil, ErrEmptyTrace
	}
	return NewWindowManagerStateSubject(st), nil
}
