// Package scenario describes a recorded transition and the outcome
// of evaluating assertion templates against it.
package scenario

import (
	"errors"
	"fmt"

	"digital.vasic.flicker/pkg/trace"
)

// ErrUnknownComponent is returned when a component name resolves
// neither to a scenario component nor to a well-known one.
var ErrUnknownComponent = errors.New("unknown component")

// Scenario is one recorded transition, such as an app launch, with
// the traces captured while it ran. Either trace may be nil when
// it was not recorded.
type Scenario struct {
	// Type names the transition (e.g., "APP_LAUNCH").
	Type string `json:"type"`

	Layers *trace.LayersTrace        `json:"layers,omitempty"`
	WM     *trace.WindowManagerTrace `json:"wm,omitempty"`

	// Components maps scenario specific names such as
	// "OPENING_APP" to the component they stand for.
	Components map[string]trace.ComponentMatcher `json:"-"`
}

// New creates a Scenario of the given type.
func New(scenarioType string) *Scenario {
	return &Scenario{
		Type:       scenarioType,
		Components: make(map[string]trace.ComponentMatcher),
	}
}

// WithLayers sets the SurfaceFlinger trace.
func (s *Scenario) WithLayers(tr *trace.LayersTrace) *Scenario {
	s.Layers = tr
	return s
}

// WithWindowManager sets the WindowManager trace.
func (s *Scenario) WithWindowManager(tr *trace.WindowManagerTrace) *Scenario {
	s.WM = tr
	return s
}

// WithComponent binds name to m.
func (s *Scenario) WithComponent(name string, m trace.ComponentMatcher) *Scenario {
	if s.Components == nil {
		s.Components = make(map[string]trace.ComponentMatcher)
	}
	s.Components[name] = m
	return s
}

// HasLayers reports whether a non-empty layers trace is attached.
func (s *Scenario) HasLayers() bool {
	return s.Layers != nil && !s.Layers.IsEmpty()
}

// HasWindowManager reports whether a non-empty WindowManager trace
// is attached.
func (s *Scenario) HasWindowManager() bool {
	return s.WM != nil && !s.WM.IsEmpty()
}

// Component resolves name, looking at the scenario components
// first and at the well-known system components second.
func (s *Scenario) Component(name string) (trace.ComponentMatcher, error) {
	if m, ok := s.Components[name]; ok {
		return m, nil
	}
	if m, ok := trace.LookupComponent(name); ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, name)
}
