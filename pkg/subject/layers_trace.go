package subject

import (
	"fmt"

	"golang.org/x/exp/slices"

	"digital.vasic.flicker/pkg/assertion"
	"digital.vasic.flicker/pkg/trace"
)

// DefaultIgnoredLayers are skipped by
// VisibleLayersShownMoreThanOneConsecutiveEntry when no ignore list
// is given. Splash screens, snapshots and the edge extensions of
// transition animations are expected to flash.
var DefaultIgnoredLayers = []trace.ComponentMatcher{
	trace.SplashScreen,
	trace.Snapshot,
	trace.ImeSnapshot,
	trace.EdgeExtension,
}

// LayersTraceSubject is the assertion DSL over a SurfaceFlinger
// trace.
type LayersTraceSubject struct {
	*TraceSubject[*trace.LayerTraceEntry]
	opts []assertion.Option
}

// NewLayersTraceSubject creates a subject over tr. The options are
// passed to the underlying checker.
func NewLayersTraceSubject(
	tr *trace.LayersTrace,
	opts ...assertion.Option,
) *LayersTraceSubject {
	return &LayersTraceSubject{
		TraceSubject: newTraceSubject(tr, opts...),
		opts:         opts,
	}
}

func (s *LayersTraceSubject) add(
	name string,
	opts []AssertionOption,
	check func(*LayerTraceEntrySubject) error,
) *LayersTraceSubject {
	s.AddAssertion(name, func(e *trace.LayerTraceEntry) error {
		return check(NewLayerTraceEntrySubject(e))
	}, opts...)
	return s
}

// Then starts a new assertion step.
func (s *LayersTraceSubject) Then() *LayersTraceSubject {
	s.TraceSubject.Then()
	return s
}

// SkipUntilFirstAssertion ignores failures until the first step
// holds.
func (s *LayersTraceSubject) SkipUntilFirstAssertion() *LayersTraceSubject {
	s.TraceSubject.SkipUntilFirstAssertion()
	return s
}

// Assert registers a custom check.
func (s *LayersTraceSubject) Assert(
	name string,
	check func(*LayerTraceEntrySubject) error,
	opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(name, opts, check)
}

// Contains adds a step requiring a layer matching m.
func (s *LayersTraceSubject) Contains(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(
		fmt.Sprintf("contains(%s)", m.LayerIdentifier()), opts,
		func(e *LayerTraceEntrySubject) error { return e.Contains(m) },
	)
}

// NotContains adds a step requiring no layer to match m.
func (s *LayersTraceSubject) NotContains(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(
		fmt.Sprintf("notContains(%s)", m.LayerIdentifier()), opts,
		func(e *LayerTraceEntrySubject) error { return e.NotContains(m) },
	)
}

// IsVisible adds a step requiring a visible layer matching m.
func (s *LayersTraceSubject) IsVisible(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(
		fmt.Sprintf("isVisible(%s)", m.LayerIdentifier()), opts,
		func(e *LayerTraceEntrySubject) error { return e.IsVisible(m) },
	)
}

// IsInvisible adds a step requiring layers matching m to be hidden
// or missing.
func (s *LayersTraceSubject) IsInvisible(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(
		fmt.Sprintf("isInvisible(%s)", m.LayerIdentifier()), opts,
		func(e *LayerTraceEntrySubject) error { return e.IsInvisible(m) },
	)
}

// IsSplashScreenVisibleFor adds a step requiring a visible splash
// screen under a layer matching m.
func (s *LayersTraceSubject) IsSplashScreenVisibleFor(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(
		fmt.Sprintf("isSplashScreenVisibleFor(%s)", m.LayerIdentifier()), opts,
		func(e *LayerTraceEntrySubject) error {
			return e.IsSplashScreenVisibleFor(m)
		},
	)
}

// HasColor adds a step requiring a visible layer matching m to draw
// a color.
func (s *LayersTraceSubject) HasColor(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(
		fmt.Sprintf("hasColor(%s)", m.LayerIdentifier()), opts,
		func(e *LayerTraceEntrySubject) error { return e.HasColor(m) },
	)
}

// HasNoColor is the inverse of HasColor.
func (s *LayersTraceSubject) HasNoColor(
	m trace.ComponentMatcher, opts ...AssertionOption,
) *LayersTraceSubject {
	return s.add(
		fmt.Sprintf("hasNoColor(%s)", m.LayerIdentifier()), opts,
		func(e *LayerTraceEntrySubject) error { return e.HasNoColor(m) },
	)
}

// VisibleLayersShownMoreThanOneConsecutiveEntry fails when a layer
// is visible for a single entry only. DefaultIgnoredLayers are
// skipped when ignore is empty.
func (s *LayersTraceSubject) VisibleLayersShownMoreThanOneConsecutiveEntry(
	ignore ...trace.ComponentMatcher,
) error {
	if len(ignore) == 0 {
		ignore = DefaultIgnoredLayers
	}
	return s.VisibleEntriesShownMoreThanOneConsecutiveTime(
		func(e *trace.LayerTraceEntry) []string {
			return NewLayerTraceEntrySubject(e).VisibleLayerNames(ignore...)
		},
	)
}

// HasFrameSequence fails unless the first layer matching m goes
// through frames, in order and without gaps, over consecutive
// entries. Repeated frame numbers are collapsed.
func (s *LayersTraceSubject) HasFrameSequence(
	m trace.ComponentMatcher,
	frames ...int64,
) error {
	if len(frames) == 0 {
		return nil
	}

	var observed []int64
	for _, e := range s.Trace().Entries {
		found := e.Filter(m)
		if len(found) == 0 {
			continue
		}
		frame := found[0].CurrFrame
		if n := len(observed); n > 0 && observed[n-1] == frame {
			continue
		}
		observed = append(observed, frame)
	}

	if containsRun(observed, frames) {
		return nil
	}

	b := assertion.NewMessageBuilder().
		SetMessage("Frame sequence not found").
		SetExpected(frames).
		SetActualValue(observed).
		AddExtraDescription(
			assertion.NewFact("Element", m.LayerIdentifier()),
		)
	if last, ok := s.Trace().Last(); ok {
		b.ForSubject(last)
	}
	return b.Build()
}

// ForRange returns a subject over the entries whose elapsed time
// lies in [from, to]. Registered assertions are not carried over.
func (s *LayersTraceSubject) ForRange(from, to int64) *LayersTraceSubject {
	return NewLayersTraceSubject(s.Trace().SliceByElapsed(from, to), s.opts...)
}

// ForSystemUptimeRange is ForRange on the system uptime clock.
func (s *LayersTraceSubject) ForSystemUptimeRange(
	from, to int64,
) *LayersTraceSubject {
	return NewLayersTraceSubject(
		s.Trace().SliceBySystemUptime(from, to), s.opts...,
	)
}

// First returns a subject for the first entry.
func (s *LayersTraceSubject) First() (*LayerTraceEntrySubject, error) {
	e, ok := s.Trace().First()
	if !ok {
		return nil, ErrEmptyTrace
	}
	return NewLayerTraceEntrySubject(e), nil
}

// Last returns a subject for the last entry.
func (s *LayersTraceSubject) Last() (*LayerTraceEntrySubject, error) {
	e, ok := s.Trace().Last()
	if !ok {
		return nil, ErrEmptyTrace
	}
	return NewLayerTraceEntrySubject(e), nil
}

// EntryAt returns a subject for the entry recorded at the given
// elapsed time.
func (s *LayersTraceSubject) EntryAt(
	elapsedNanos int64,
) (*LayerTraceEntrySubject, error) {
	e, err := s.Trace().EntryAt(elapsedNanos)
	if err != nil {
		return nil, err
	}
	return NewLayerTraceEntrySubject(e), nil
}

// containsRun reports whether want appears in got as a contiguous
// run.
func containsRun[T comparable](got, want []T) bool {
	for i := 0; i+len(want) <= len(got); i++ {
		if slices.Equal(got[i:i+len(want)], want) {
			return true
		}
	}
	return false
}
