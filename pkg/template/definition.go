// Package template provides named assertion templates that can be
// configured per scenario, and the registry they are built from.
// Each template evaluates one or more trace subject assertions
// against the traces of a scenario.
package template

import (
	"errors"
	"fmt"

	"digital.vasic.flicker/pkg/scenario"
)

// ErrNotApplicable is returned by Template.Evaluate when the
// scenario lacks every trace the template checks.
var ErrNotApplicable = errors.New("template not applicable")

// Definition configures a single template for a scenario.
type Definition struct {
	// Template is the registered template name (e.g.,
	// "app_layer_becomes_visible").
	Template string `json:"template" yaml:"template"`

	// Component names the component under test. Scenario
	// components (e.g., "OPENING_APP") take precedence over
	// well-known ones (e.g., "STATUS_BAR").
	Component string `json:"component,omitempty" yaml:"component,omitempty"`

	// From names the component focus is expected to move away
	// from. Only used by focus_changes.
	From string `json:"from,omitempty" yaml:"from,omitempty"`

	// Ignore lists components skipped by the consecutive
	// visibility templates.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Group is scenario.GroupBlocking (the default) or
	// scenario.GroupNonBlocking.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
}

// EffectiveGroup returns the group, defaulting to blocking.
func (d Definition) EffectiveGroup() string {
	if d.Group == "" {
		return scenario.GroupBlocking
	}
	return d.Group
}

// Validate checks the fields that do not depend on a registry.
func (d Definition) Validate() error {
	if d.Template == "" {
		return errors.New("template name is required")
	}
	switch d.EffectiveGroup() {
	case scenario.GroupBlocking, scenario.GroupNonBlocking:
		return nil
	default:
		return fmt.Errorf(
			"template %s: unknown group %q", d.Template, d.Group,
		)
	}
}

// Template is a configured assertion ready to run against a
// scenario.
type Template interface {
	// Name identifies the assertion, including its component.
	Name() string

	// Evaluate runs the assertion. It returns nil when it holds,
	// an assertion violation when it does not, ErrNotApplicable
	// when the scenario has none of the traces it needs, and any
	// other error when it could not be evaluated.
	Evaluate(sc *scenario.Scenario) error
}
