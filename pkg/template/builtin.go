package template

import (
	"errors"
	"fmt"

	"digital.vasic.flicker/pkg/scenario"
	"digital.vasic.flicker/pkg/subject"
	"digital.vasic.flicker/pkg/trace"
)

// registerBuiltins adds every built-in template to factories.
func registerBuiltins(factories map[string]Factory) {
	factories["visible_layers_shown_more_than_one_consecutive_entry"] = visibleLayersShownMoreThanOnce
	factories["visible_windows_shown_more_than_one_consecutive_entry"] = visibleWindowsShownMoreThanOnce
	factories["entire_screen_covered_always"] = fixedFactory("", entireScreenCovered, nil)

	factories["nav_bar_layer_is_visible_always"] = fixedFactory("NAV_BAR", layerVisibleAlways, nil)
	factories["status_bar_layer_is_visible_always"] = fixedFactory("STATUS_BAR", layerVisibleAlways, nil)

	factories["app_layer_is_visible_at_start"] = componentFactory(layerAtStart(true), nil)
	factories["app_layer_is_visible_at_end"] = componentFactory(layerAtEnd(true), nil)
	factories["app_layer_is_invisible_at_start"] = componentFactory(layerAtStart(false), nil)
	factories["app_layer_is_invisible_at_end"] = componentFactory(layerAtEnd(false), nil)
	factories["app_layer_is_visible_always"] = componentFactory(layerVisibleAlways, nil)
	factories["app_layer_becomes_visible"] = componentFactory(appLayerBecomesVisible, nil)
	factories["app_layer_becomes_invisible"] = componentFactory(layerBecomesInvisible, nil)
	factories["app_layer_covers_full_screen_at_start"] = componentFactory(coversFullScreen(true), nil)
	factories["app_layer_covers_full_screen_at_end"] = componentFactory(coversFullScreen(false), nil)
	factories["layer_becomes_visible"] = componentFactory(layerBecomesVisible, nil)
	factories["layer_becomes_invisible"] = componentFactory(layerBecomesInvisible, nil)

	factories["app_window_is_visible_at_start"] = componentFactory(nil, windowAtStart(true))
	factories["app_window_is_visible_at_end"] = componentFactory(nil, windowAtEnd(true))
	factories["app_window_is_invisible_at_start"] = componentFactory(nil, windowAtStart(false))
	factories["app_window_is_invisible_at_end"] = componentFactory(nil, windowAtEnd(false))
	factories["app_window_is_visible_always"] = componentFactory(nil, windowVisibleAlways)
	factories["app_window_becomes_visible"] = componentFactory(nil, windowBecomesVisible)
	factories["app_window_becomes_invisible"] = componentFactory(nil, windowBecomesInvisible)
	factories["app_window_becomes_top_window"] = componentFactory(nil, windowBecomesTopWindow)
	factories["app_window_is_top_window_at_start"] = componentFactory(nil, windowOnTop(true))
	factories["app_window_on_top_at_end"] = componentFactory(nil, windowOnTop(false))
	factories["window_becomes_pinned"] = componentFactory(nil, windowBecomesPinned)
	factories["has_at_most_one_window_matching"] = componentFactory(nil, atMostOneWindow)

	factories["screen_locked_at_start"] = fixedFactory("", nil, screenLockedAtStart)
	factories["focus_changes"] = focusChanges
}

func visibleLayersShownMoreThanOnce(def Definition) (Template, error) {
	return &ignoringTemplate{
		def: def,
		layers: func(s *subject.LayersTraceSubject, ignore []trace.ComponentMatcher) error {
			return s.VisibleLayersShownMoreThanOneConsecutiveEntry(ignore...)
		},
	}, nil
}

func visibleWindowsShownMoreThanOnce(def Definition) (Template, error) {
	return &ignoringTemplate{
		def: def,
		wm: func(s *subject.WindowManagerTraceSubject, ignore []trace.ComponentMatcher) error {
			return s.VisibleWindowsShownMoreThanOneConsecutiveEntry(ignore...)
		},
	}, nil
}

func entireScreenCovered(s *subject.LayersTraceSubject, _ trace.ComponentMatcher) error {
	return s.Assert("entireScreenCovered",
		(*subject.LayerTraceEntrySubject).VisibleRegionCoversDisplays,
	).ForAllEntries()
}

func layerVisibleAlways(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error {
	return s.IsVisible(m).ForAllEntries()
}

func layerAtStart(visible bool) layersFunc {
	return func(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error {
		first, err := s.First()
		if err != nil {
			return err
		}
		return layerVisibility(first, m, visible)
	}
}

func layerAtEnd(visible bool) layersFunc {
	return func(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error {
		last, err := s.Last()
		if err != nil {
			return err
		}
		return layerVisibility(last, m, visible)
	}
}

func layerVisibility(e *subject.LayerTraceEntrySubject, m trace.ComponentMatcher, visible bool) error {
	if visible {
		return e.IsVisible(m)
	}
	return e.IsInvisible(m)
}

// appLayerBecomesVisible tolerates a snapshot or splash screen
// between the app being hidden and shown.
func appLayerBecomesVisible(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error {
	return s.IsInvisible(m).
		Then().
		IsVisible(trace.Snapshot, subject.Optional()).
		Then().
		IsSplashScreenVisibleFor(m, subject.Optional()).
		Then().
		IsVisible(m).
		ForAllEntries()
}

func layerBecomesVisible(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error {
	return s.IsInvisible(m).Then().IsVisible(m).ForAllEntries()
}

func layerBecomesInvisible(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error {
	return s.IsVisible(m).Then().IsInvisible(m).ForAllEntries()
}

func coversFullScreen(atStart bool) layersFunc {
	return func(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error {
		pick := s.Last
		if atStart {
			pick = s.First
		}
		e, err := pick()
		if err != nil {
			return err
		}
		displays := e.Entry().PhysicalDisplays()
		if len(displays) == 0 {
			return e.ContainsAtLeastOneDisplay()
		}
		return e.VisibleRegionCovers(m, displays[0].Bounds)
	}
}

func windowAtStart(visible bool) wmFunc {
	return func(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
		first, err := s.First()
		if err != nil {
			return err
		}
		return windowVisibility(first, m, visible)
	}
}

func windowAtEnd(visible bool) wmFunc {
	return func(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
		last, err := s.Last()
		if err != nil {
			return err
		}
		return windowVisibility(last, m, visible)
	}
}

func windowVisibility(st *subject.WindowManagerStateSubject, m trace.ComponentMatcher, visible bool) error {
	if visible {
		return st.IsAppWindowVisible(m)
	}
	return st.IsAppWindowInvisible(m)
}

func windowVisibleAlways(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
	return s.IsAppWindowVisible(m).ForAllEntries()
}

func windowBecomesVisible(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
	return s.IsAppWindowInvisible(m).Then().IsAppWindowVisible(m).ForAllEntries()
}

func windowBecomesInvisible(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
	return s.IsAppWindowVisible(m).Then().IsAppWindowInvisible(m).ForAllEntries()
}

// windowBecomesTopWindow tolerates a starting window on top while
// the app is being launched.
func windowBecomesTopWindow(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
	return s.IsAppWindowNotOnTop(m).
		Then().
		IsAppWindowOnTop(trace.Or(trace.Snapshot, trace.SplashScreen), subject.Optional()).
		Then().
		IsAppWindowOnTop(m).
		ForAllEntries()
}

func windowOnTop(atStart bool) wmFunc {
	return func(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
		pick := s.Last
		if atStart {
			pick = s.First
		}
		st, err := pick()
		if err != nil {
			return err
		}
		return st.IsAppWindowOnTop(m)
	}
}

func windowBecomesPinned(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
	return s.IsNotPinned(m).Then().IsPinned(m).ForAllEntries()
}

func atMostOneWindow(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error {
	return s.Assert(
		fmt.Sprintf("hasAtMostOneWindowMatching(%s)", m.WindowIdentifier()),
		func(st *subject.WindowManagerStateSubject) error {
			return subject.CheckOrdered(
				len(st.State().Filter(m)),
				fmt.Sprintf("Windows matching %s", m.WindowIdentifier()),
			).For(st.State()).IsLowerOrEqual(1)
		},
	).ForAllEntries()
}

func screenLockedAtStart(s *subject.WindowManagerTraceSubject, _ trace.ComponentMatcher) error {
	first, err := s.First()
	if err != nil {
		return err
	}
	return first.IsKeyguardShowing()
}

// focusChanges checks that focus moves from def.From, when set, to
// def.Component.
func focusChanges(def Definition) (Template, error) {
	if def.Component == "" {
		return nil, errors.New("component is required")
	}
	return &focusTemplate{def: def}, nil
}

type focusTemplate struct {
	def Definition
}

func (t *focusTemplate) Name() string {
	if t.def.From == "" {
		return fmt.Sprintf("%s(%s)", t.def.Template, t.def.Component)
	}
	return fmt.Sprintf("%s(%s, %s)", t.def.Template, t.def.From, t.def.Component)
}

func (t *focusTemplate) Evaluate(sc *scenario.Scenario) error {
	if !sc.HasWindowManager() {
		return ErrNotApplicable
	}

	var names []string
	if t.def.From != "" {
		from, err := sc.Component(t.def.From)
		if err != nil {
			return err
		}
		names = append(names, from.WindowIdentifier())
	}
	to, err := sc.Component(t.def.Component)
	if err != nil {
		return err
	}
	names = append(names, to.WindowIdentifier())

	return subject.NewWindowManagerTraceSubject(sc.WM).FocusChanges(names...)
}
