package subject

import (
	"fmt"
	"strings"

	"digital.vasic.flicker/pkg/assertion"
	"digital.vasic.flicker/pkg/trace"
)

// LayerTraceEntrySubject checks a single SurfaceFlinger entry.
// Every check returns nil when it holds and an *assertion.Error
// otherwise.
type LayerTraceEntrySubject struct {
	entry *trace.LayerTraceEntry
}

// NewLayerTraceEntrySubject wraps entry.
func NewLayerTraceEntrySubject(
	entry *trace.LayerTraceEntry,
) *LayerTraceEntrySubject {
	return &LayerTraceEntrySubject{entry: entry}
}

// Entry returns the wrapped entry.
func (s *LayerTraceEntrySubject) Entry() *trace.LayerTraceEntry {
	return s.entry
}

func (s *LayerTraceEntrySubject) builder() *assertion.MessageBuilder {
	return assertion.NewMessageBuilder().ForSubject(s.entry)
}

// Contains fails when no layer matches m.
func (s *LayerTraceEntrySubject) Contains(m trace.ComponentMatcher) error {
	if len(s.entry.Filter(m)) > 0 {
		return nil
	}
	return s.builder().
		ForInvalidElement(m.LayerIdentifier(), true).
		Build()
}

// NotContains fails when a layer matches m.
func (s *LayerTraceEntrySubject) NotContains(m trace.ComponentMatcher) error {
	found := s.entry.Filter(m)
	if len(found) == 0 {
		return nil
	}
	return s.builder().
		ForInvalidElement(m.LayerIdentifier(), false).
		SetActual(layerFacts("Found", found)...).
		Build()
}

// IsVisible fails unless a layer matching m is visible.
func (s *LayerTraceEntrySubject) IsVisible(m trace.ComponentMatcher) error {
	found := s.entry.Filter(m)
	if len(found) == 0 {
		return s.builder().
			ForInvalidElement(m.LayerIdentifier(), true).
			Build()
	}
	for _, l := range found {
		if l.IsVisible() {
			return nil
		}
	}

	facts := make([]assertion.Fact, 0, len(found))
	for _, l := range found {
		reason := strings.Join(l.VisibilityReason, ", ")
		if reason == "" {
			reason = "unknown"
		}
		facts = append(facts, assertion.NewFact(
			fmt.Sprintf("Is Invisible (%s)", l), reason,
		))
	}
	return s.builder().
		ForIncorrectVisibility(m.LayerIdentifier(), true).
		SetActual(facts...).
		Build()
}

// IsInvisible fails when a layer matching m is visible. A missing
// layer counts as invisible.
func (s *LayerTraceEntrySubject) IsInvisible(m trace.ComponentMatcher) error {
	var visible []trace.Layer
	for _, l := range s.entry.Filter(m) {
		if l.IsVisible() {
			visible = append(visible, l)
		}
	}
	if len(visible) == 0 {
		return nil
	}
	return s.builder().
		ForIncorrectVisibility(m.LayerIdentifier(), false).
		SetActual(layerFacts("Is Visible", visible)...).
		Build()
}

// IsSplashScreenVisibleFor fails unless a visible splash screen
// layer is a descendant of a layer matching m.
func (s *LayerTraceEntrySubject) IsSplashScreenVisibleFor(
	m trace.ComponentMatcher,
) error {
	owners := s.entry.Filter(m)
	if len(owners) == 0 {
		return s.builder().
			ForInvalidElement(m.LayerIdentifier(), true).
			Build()
	}

	ids := make(map[int]struct{}, len(owners))
	for _, l := range owners {
		ids[l.ID] = struct{}{}
	}
	for _, l := range s.entry.Filter(trace.SplashScreen) {
		if l.IsVisible() && s.descendsFrom(l, ids) {
			return nil
		}
	}
	return s.builder().
		ForIncorrectVisibility(
			fmt.Sprintf("Splash screen for %s", m.LayerIdentifier()), true,
		).
		Build()
}

func (s *LayerTraceEntrySubject) descendsFrom(
	l trace.Layer,
	ancestors map[int]struct{},
) bool {
	seen := make(map[int]struct{})
	for {
		if _, ok := ancestors[l.ParentID]; ok {
			return true
		}
		if _, ok := seen[l.ParentID]; ok {
			return false
		}
		seen[l.ParentID] = struct{}{}
		parent, ok := s.entry.LayerByID(l.ParentID)
		if !ok {
			return false
		}
		l = parent
	}
}

// HasColor fails unless a visible layer matching m draws a color.
func (s *LayerTraceEntrySubject) HasColor(m trace.ComponentMatcher) error {
	return s.checkColor(m, true)
}

// HasNoColor fails when a visible layer matching m draws a color.
func (s *LayerTraceEntrySubject) HasNoColor(m trace.ComponentMatcher) error {
	return s.checkColor(m, false)
}

func (s *LayerTraceEntrySubject) checkColor(
	m trace.ComponentMatcher,
	want bool,
) error {
	found := s.entry.Filter(m)
	if len(found) == 0 {
		return s.builder().
			ForInvalidElement(m.LayerIdentifier(), true).
			Build()
	}

	var colored []trace.Layer
	for _, l := range found {
		if l.IsVisible() && l.HasColor() {
			colored = append(colored, l)
		}
	}
	if (len(colored) > 0) == want {
		return nil
	}

	expected := "has color"
	if !want {
		expected = "has no color"
	}
	return s.builder().
		SetMessage("Incorrect color").
		SetExpected(expected).
		AddExtraDescription(
			assertion.NewFact("Element", m.LayerIdentifier()),
		).
		SetActual(layerFacts("Colored", colored)...).
		Build()
}

// IsEmpty fails when the entry has any layer.
func (s *LayerTraceEntrySubject) IsEmpty() error {
	return Check(len(s.entry.Layers), "Entry should not have layers").
		For(s.entry).
		IsEqual(0)
}

// IsNotEmpty fails when the entry has no layers.
func (s *LayerTraceEntrySubject) IsNotEmpty() error {
	return CheckOrdered(len(s.entry.Layers), "Entry should have layers").
		For(s.entry).
		IsGreater(0)
}

// ContainsAtLeastOneDisplay fails when no physical display was
// composited.
func (s *LayerTraceEntrySubject) ContainsAtLeastOneDisplay() error {
	return CheckOrdered(
		len(s.entry.PhysicalDisplays()), "Entry should contain a display",
	).For(s.entry).IsGreater(0)
}

// HasRoundedCorners fails unless a visible layer matching m has a
// corner radius.
func (s *LayerTraceEntrySubject) HasRoundedCorners(
	m trace.ComponentMatcher,
) error {
	found := s.entry.Filter(m)
	if len(found) == 0 {
		return s.builder().
			ForInvalidElement(m.LayerIdentifier(), true).
			Build()
	}
	for _, l := range found {
		if l.IsVisible() && l.CornerRadius > 0 {
			return nil
		}
	}
	return s.builder().
		SetMessage("No rounded corners").
		AddExtraDescription(
			assertion.NewFact("Element", m.LayerIdentifier()),
		).
		Build()
}

// VisibleRegion returns the bounding box of the visible layers
// matching m.
func (s *LayerTraceEntrySubject) VisibleRegion(m trace.ComponentMatcher) trace.Rect {
	var region trace.Rect
	for _, l := range s.entry.Filter(m) {
		if l.IsVisible() {
			region = region.Union(l.Bounds)
		}
	}
	return region
}

// VisibleRegionCovers fails unless the visible region of m covers
// rect.
func (s *LayerTraceEntrySubject) VisibleRegionCovers(
	m trace.ComponentMatcher,
	rect trace.Rect,
) error {
	region := s.VisibleRegion(m)
	if region.Contains(rect) {
		return nil
	}
	return s.builder().
		ForIncorrectRegion("visible").
		SetExpected(rect).
		SetActualValue(region).
		AddExtraDescription(
			assertion.NewFact("Element", m.LayerIdentifier()),
		).
		Build()
}

// VisibleRegionCoversDisplays fails unless the bounding box of all
// visible layers covers every physical display.
func (s *LayerTraceEntrySubject) VisibleRegionCoversDisplays() error {
	var region trace.Rect
	for _, l := range s.entry.VisibleLayers() {
		region = region.Union(l.Bounds)
	}
	for _, d := range s.entry.PhysicalDisplays() {
		if region.Contains(d.Bounds) {
			continue
		}
		return s.builder().
			ForIncorrectRegion("visible").
			SetExpected(d.Bounds).
			SetActualValue(region).
			AddExtraDescription(assertion.NewFact("Display", d.Name)).
			Build()
	}
	return nil
}

// VisibleLayerNames returns the names of the visible layers that
// none of ignore match.
func (s *LayerTraceEntrySubject) VisibleLayerNames(
	ignore ...trace.ComponentMatcher,
) []string {
	var names []string
	for _, l := range s.entry.VisibleLayers() {
		if !matchesAnyLayer(ignore, l) {
			names = append(names, l.Name)
		}
	}
	return names
}

func matchesAnyLayer(matchers []trace.ComponentMatcher, l trace.Layer) bool {
	for _, m := range matchers {
		if m.MatchesLayer(l) {
			return true
		}
	}
	return false
}

func layerFacts(key string, layers []trace.Layer) []assertion.Fact {
	facts := make([]assertion.Fact, len(layers))
	for i, l := range layers {
		facts[i] = assertion.NewFact(key, l.String())
	}
	return facts
}

func (s *LayerTraceEntrySubject) String() string {
	return s.entry.String()
}
