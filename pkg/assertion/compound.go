package assertion

import "strings"

// CompoundAssertion groups named assertions that are evaluated
// together against the same entry, forming a single step of the
// checker. It always holds at least one assertion.
type CompoundAssertion[T any] struct {
	assertions []NamedAssertion[T]
}

// NewCompoundAssertion creates a CompoundAssertion holding one
// assertion.
func NewCompoundAssertion[T any](
	name string,
	optional bool,
	predicate Predicate[T],
) *CompoundAssertion[T] {
	return &CompoundAssertion[T]{
		assertions: []NamedAssertion[T]{
			NewNamedAssertion(name, optional, predicate),
		},
	}
}

// Add appends another assertion to the group.
func (c *CompoundAssertion[T]) Add(
	name string,
	optional bool,
	predicate Predicate[T],
) {
	c.assertions = append(
		c.assertions,
		NewNamedAssertion(name, optional, predicate),
	)
}

// Optional reports whether every member is optional.
func (c *CompoundAssertion[T]) Optional() bool {
	for _, a := range c.assertions {
		if !a.Optional() {
			return false
		}
	}
	return true
}

// Name joins the member names with " and ".
func (c *CompoundAssertion[T]) Name() string {
	names := make([]string, len(c.assertions))
	for i, a := range c.assertions {
		names[i] = a.Name()
	}
	return strings.Join(names, " and ")
}

// Assertions returns a copy of the members in insertion order.
func (c *CompoundAssertion[T]) Assertions() []NamedAssertion[T] {
	return append([]NamedAssertion[T](nil), c.assertions...)
}

type failedAssertion[T any] struct {
	assertion NamedAssertion[T]
	err       error
}

// Invoke runs every member against entry. The first failure of a
// mandatory member is returned. Failures of optional members are
// only returned when the whole group is optional, so the checker
// can still see that the step did not hold.
func (c *CompoundAssertion[T]) Invoke(entry T) error {
	var failures []failedAssertion[T]

	for _, a := range c.assertions {
		err := a.Invoke(entry)
		if err == nil {
			continue
		}
		if !IsViolation(err) {
			return err
		}
		failures = append(failures, failedAssertion[T]{
			assertion: a,
			err:       err,
		})
	}

	for _, f := range failures {
		if !f.assertion.Optional() {
			return f.err
		}
	}

	if len(failures) > 0 && c.Optional() {
		return failures[0].err
	}

	return nil
}

// Equal compares members pairwise with NamedAssertion.Equal.
func (c *CompoundAssertion[T]) Equal(
	other *CompoundAssertion[T],
) bool {
	if other == nil || len(c.assertions) != len(other.assertions) {
		return false
	}
	for i, a := range c.assertions {
		if !a.Equal(other.assertions[i]) {
			return false
		}
	}
	return true
}

// String returns the compound name.
func (c *CompoundAssertion[T]) String() string { return c.Name() }
