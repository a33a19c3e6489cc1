package subject

import (
	"fmt"
	"strings"

	"digital.vasic.flicker/pkg/assertion"
	"digital.vasic.flicker/pkg/trace"
)

// WindowManagerStateSubject checks a single WindowManager state.
type WindowManagerStateSubject struct {
	state *trace.WindowManagerState
}

// NewWindowManagerStateSubject wraps state.
func NewWindowManagerStateSubject(
	state *trace.WindowManagerState,
) *WindowManagerStateSubject {
	return &WindowManagerStateSubject{state: state}
}

// State returns the wrapped state.
func (s *WindowManagerStateSubject) State() *trace.WindowManagerState {
	return s.state
}

func (s *WindowManagerStateSubject) builder() *assertion.MessageBuilder {
	return assertion.NewMessageBuilder().ForSubject(s.state)
}

func (s *WindowManagerStateSubject) missing(m trace.ComponentMatcher) error {
	return s.builder().
		ForInvalidElement(m.WindowIdentifier(), true).
		Build()
}

func (s *WindowManagerStateSubject) matching(
	m trace.ComponentMatcher,
	keep func(trace.WindowState) bool,
) []trace.WindowState {
	var out []trace.WindowState
	for _, w := range s.state.Filter(m) {
		if keep == nil || keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func isApp(w trace.WindowState) bool    { return w.IsAppWindow }
func isNonApp(w trace.WindowState) bool { return !w.IsAppWindow }

// Contains fails when no window matches m.
func (s *WindowManagerStateSubject) Contains(m trace.ComponentMatcher) error {
	if len(s.matching(m, nil)) > 0 {
		return nil
	}
	return s.missing(m)
}

// NotContains fails when a window matches m.
func (s *WindowManagerStateSubject) NotContains(m trace.ComponentMatcher) error {
	found := s.matching(m, nil)
	if len(found) == 0 {
		return nil
	}
	return s.builder().
		ForInvalidElement(m.WindowIdentifier(), false).
		SetActual(windowFacts("Found", found)...).
		Build()
}

// ContainsAppWindow fails unless an app window matches m.
func (s *WindowManagerStateSubject) ContainsAppWindow(
	m trace.ComponentMatcher,
) error {
	if len(s.matching(m, isApp)) > 0 {
		return nil
	}
	return s.missing(m)
}

// ContainsNonAppWindow fails unless a system window matches m.
func (s *WindowManagerStateSubject) ContainsNonAppWindow(
	m trace.ComponentMatcher,
) error {
	if len(s.matching(m, isNonApp)) > 0 {
		return nil
	}
	return s.missing(m)
}

func (s *WindowManagerStateSubject) checkVisibility(
	m trace.ComponentMatcher,
	kind func(trace.WindowState) bool,
	wantVisible bool,
) error {
	found := s.matching(m, kind)
	if len(found) == 0 {
		if wantVisible {
			return s.missing(m)
		}
		return nil
	}

	var visible []trace.WindowState
	for _, w := range found {
		if w.IsVisible() {
			visible = append(visible, w)
		}
	}
	if (len(visible) > 0) == wantVisible {
		return nil
	}

	b := s.builder().ForIncorrectVisibility(m.WindowIdentifier(), wantVisible)
	if wantVisible {
		b.SetActual(windowFacts("Is Invisible", found)...)
	} else {
		b.SetActual(windowFacts("Is Visible", visible)...)
	}
	return b.Build()
}

// IsAppWindowVisible fails unless an app window matching m is
// visible.
func (s *WindowManagerStateSubject) IsAppWindowVisible(
	m trace.ComponentMatcher,
) error {
	return s.checkVisibility(m, isApp, true)
}

// IsAppWindowInvisible fails when an app window matching m is
// visible. A missing window counts as invisible.
func (s *WindowManagerStateSubject) IsAppWindowInvisible(
	m trace.ComponentMatcher,
) error {
	return s.checkVisibility(m, isApp, false)
}

func (s *WindowManagerStateSubject) IsNonAppWindowVisible(
	m trace.ComponentMatcher,
) error {
	return s.checkVisibility(m, isNonApp, true)
}

func (s *WindowManagerStateSubject) IsNonAppWindowInvisible(
	m trace.ComponentMatcher,
) error {
	return s.checkVisibility(m, isNonApp, false)
}

// IsAppWindowOnTop fails unless the top visible app window matches
// m.
func (s *WindowManagerStateSubject) IsAppWindowOnTop(
	m trace.ComponentMatcher,
) error {
	if len(s.matching(m, isApp)) == 0 {
		return s.missing(m)
	}
	top, ok := s.state.TopVisibleAppWindow()
	if ok && m.MatchesWindow(top) {
		return nil
	}
	actual := "none"
	if ok {
		actual = top.Name
	}
	return s.builder().
		SetMessage("Incorrect top window").
		SetExpected(m.WindowIdentifier()).
		SetActualValue(actual).
		Build()
}

// IsAppWindowNotOnTop fails when the top visible app window
// matches m.
func (s *WindowManagerStateSubject) IsAppWindowNotOnTop(
	m trace.ComponentMatcher,
) error {
	top, ok := s.state.TopVisibleAppWindow()
	if !ok || !m.MatchesWindow(top) {
		return nil
	}
	return s.builder().
		SetMessage("Incorrect top window").
		SetExpected(fmt.Sprintf("not %s", m.WindowIdentifier())).
		SetActualValue(top.Name).
		Build()
}

// HasNoVisibleAppWindow fails when any app window is visible.
func (s *WindowManagerStateSubject) HasNoVisibleAppWindow() error {
	var visible []trace.WindowState
	for _, w := range s.state.AppWindows() {
		if w.IsVisible() {
			visible = append(visible, w)
		}
	}
	if len(visible) == 0 {
		return nil
	}
	return s.builder().
		SetMessage("Found visible app windows").
		SetExpected("no visible app windows").
		SetActual(windowFacts("Is Visible", visible)...).
		Build()
}

// IsKeyguardShowing fails unless the keyguard is showing.
func (s *WindowManagerStateSubject) IsKeyguardShowing() error {
	return Check(s.state.KeyguardShowing, "Keyguard showing").
		For(s.state).
		IsEqual(true)
}

func (s *WindowManagerStateSubject) homeVisible() bool {
	for _, w := range s.state.Windows {
		if w.IsHome && w.IsVisible() {
			return true
		}
	}
	return false
}

// IsHomeActivityVisible fails unless a home window is visible.
func (s *WindowManagerStateSubject) IsHomeActivityVisible() error {
	return Check(s.homeVisible(), "Home activity visible").
		For(s.state).
		IsEqual(true)
}

// IsHomeActivityInvisible fails when a home window is visible.
func (s *WindowManagerStateSubject) IsHomeActivityInvisible() error {
	return Check(s.homeVisible(), "Home activity visible").
		For(s.state).
		IsEqual(false)
}

// HasRotation fails unless the display has the given rotation.
func (s *WindowManagerStateSubject) HasRotation(rotation int) error {
	return Check(s.state.Rotation, "Rotation").
		For(s.state).
		IsEqual(rotation)
}

func (s *WindowManagerStateSubject) checkPinned(
	m trace.ComponentMatcher,
	want bool,
) error {
	found := s.matching(m, nil)
	if len(found) == 0 {
		return s.missing(m)
	}
	pinned := false
	for _, w := range found {
		pinned = pinned || w.Pinned
	}
	return Check(pinned, fmt.Sprintf("Pinned %s", m.WindowIdentifier())).
		For(s.state).
		IsEqual(want)
}

// IsPinned fails unless a window matching m is pinned.
func (s *WindowManagerStateSubject) IsPinned(m trace.ComponentMatcher) error {
	return s.checkPinned(m, true)
}

// IsNotPinned fails when a window matching m is pinned.
func (s *WindowManagerStateSubject) IsNotPinned(m trace.ComponentMatcher) error {
	return s.checkPinned(m, false)
}

// IsFocused fails unless the focused window matches m.
func (s *WindowManagerStateSubject) IsFocused(m trace.ComponentMatcher) error {
	if strings.Contains(s.state.FocusedWindow, m.WindowIdentifier()) {
		return nil
	}
	return s.builder().
		SetMessage("Incorrect focused window").
		SetExpected(m.WindowIdentifier()).
		SetActualValue(s.state.FocusedWindow).
		Build()
}

// IsAboveWindow fails unless the first window matching above is
// higher in z order than the first one matching below.
func (s *WindowManagerStateSubject) IsAboveWindow(
	above, below trace.ComponentMatcher,
) error {
	ai := s.state.IndexOf(above)
	if ai < 0 {
		return s.missing(above)
	}
	bi := s.state.IndexOf(below)
	if bi < 0 {
		return s.missing(below)
	}
	if ai < bi {
		return nil
	}
	return s.builder().
		SetMessage("Incorrect window order").
		SetExpected(fmt.Sprintf(
			"%s above %s", above.WindowIdentifier(), below.WindowIdentifier(),
		)).
		SetActualValue(fmt.Sprintf(
			"%s above %s", below.WindowIdentifier(), above.WindowIdentifier(),
		)).
		Build()
}

// IsEmpty fails when the state has any window.
func (s *WindowManagerStateSubject) IsEmpty() error {
	return Check(len(s.state.Windows), "State should not have windows").
		For(s.state).
		IsEqual(0)
}

// IsNotEmpty fails when the state has no windows.
func (s *WindowManagerStateSubject) IsNotEmpty() error {
	return CheckOrdered(len(s.state.Windows), "State should have windows").
		For(s.state).
		IsGreater(0)
}

// VisibleWindowNames returns the names of the visible windows that
// none of ignore match.
func (s *WindowManagerStateSubject) VisibleWindowNames(
	ignore ...trace.ComponentMatcher,
) []string {
	var names []string
	for _, w := range s.state.VisibleWindows() {
		if !matchesAnyWindow(ignore, w) {
			names = append(names, w.Name)
		}
	}
	return names
}

func matchesAnyWindow(
	matchers []trace.ComponentMatcher,
	w trace.WindowState,
) bool {
	for _, m := range matchers {
		if m.MatchesWindow(w) {
			return true
		}
	}
	return false
}

func windowFacts(key string, windows []trace.WindowState) []assertion.Fact {
	facts := make([]assertion.Fact, len(windows))
	for i, w := range windows {
		facts[i] = assertion.NewFact(key, w.String())
	}
	return facts
}

func (s *WindowManagerStateSubject) String() string {
	return s.state.String()
}
