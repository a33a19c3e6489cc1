package template

import (
	"errors"
	"fmt"

	"digital.vasic.flicker/pkg/scenario"
	"digital.vasic.flicker/pkg/subject"
	"digital.vasic.flicker/pkg/trace"
)

type (
	layersFunc func(s *subject.LayersTraceSubject, m trace.ComponentMatcher) error
	wmFunc     func(s *subject.WindowManagerTraceSubject, m trace.ComponentMatcher) error
)

// traceTemplate runs a layers part and a WindowManager part, each
// only when the matching trace was recorded.
type traceTemplate struct {
	def    Definition
	layers layersFunc
	wm     wmFunc
}

func (t *traceTemplate) Name() string {
	if t.def.Component == "" {
		return t.def.Template
	}
	return fmt.Sprintf("%s(%s)", t.def.Template, t.def.Component)
}

func (t *traceTemplate) Evaluate(sc *scenario.Scenario) error {
	var m trace.ComponentMatcher
	if t.def.Component != "" {
		var err error
		if m, err = sc.Component(t.def.Component); err != nil {
			return err
		}
	}

	ran := false
	if t.wm != nil && sc.HasWindowManager() {
		ran = true
		if err := t.wm(subject.NewWindowManagerTraceSubject(sc.WM), m); err != nil {
			return err
		}
	}
	if t.layers != nil && sc.HasLayers() {
		ran = true
		if err := t.layers(subject.NewLayersTraceSubject(sc.Layers), m); err != nil {
			return err
		}
	}
	if !ran {
		return ErrNotApplicable
	}
	return nil
}

// componentFactory returns a Factory for templates that need a
// component.
func componentFactory(layers layersFunc, wm wmFunc) Factory {
	return func(def Definition) (Template, error) {
		if def.Component == "" {
			return nil, errors.New("component is required")
		}
		return &traceTemplate{def: def, layers: layers, wm: wm}, nil
	}
}

// fixedFactory returns a Factory for templates bound to a
// well-known component.
func fixedFactory(component string, layers layersFunc, wm wmFunc) Factory {
	return func(def Definition) (Template, error) {
		if def.Component == "" {
			def.Component = component
		}
		return &traceTemplate{def: def, layers: layers, wm: wm}, nil
	}
}

// ignoreList resolves the names in def.Ignore against sc.
func ignoreList(sc *scenario.Scenario, def Definition) ([]trace.ComponentMatcher, error) {
	matchers := make([]trace.ComponentMatcher, 0, len(def.Ignore))
	for _, name := range def.Ignore {
		m, err := sc.Component(name)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// ignoringTemplate backs the consecutive visibility templates,
// which take a list of components to skip instead of a single one.
type ignoringTemplate struct {
	def    Definition
	layers func(s *subject.LayersTraceSubject, ignore []trace.ComponentMatcher) error
	wm     func(s *subject.WindowManagerTraceSubject, ignore []trace.ComponentMatcher) error
}

func (t *ignoringTemplate) Name() string { return t.def.Template }

func (t *ignoringTemplate) Evaluate(sc *scenario.Scenario) error {
	ignore, err := ignoreList(sc, t.def)
	if err != nil {
		return err
	}
	switch {
	case t.layers != nil && sc.HasLayers():
		return t.layers(subject.NewLayersTraceSubject(sc.Layers), ignore)
	case t.wm != nil && sc.HasWindowManager():
		return t.wm(subject.NewWindowManagerTraceSubject(sc.WM), ignore)
	default:
		return ErrNotApplicable
	}
}
