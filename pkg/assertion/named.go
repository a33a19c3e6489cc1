package assertion

// Predicate checks a single trace entry. It returns nil when the
// entry satisfies the check and an *Error when it does not.
type Predicate[T any] func(entry T) error

// NamedAssertion is a predicate with a name and an optional flag.
// It is immutable once created.
type NamedAssertion[T any] struct {
	name      string
	optional  bool
	predicate Predicate[T]
}

// NewNamedAssertion creates a NamedAssertion. The predicate must
// not be nil.
func NewNamedAssertion[T any](
	name string,
	optional bool,
	predicate Predicate[T],
) NamedAssertion[T] {
	return NamedAssertion[T]{
		name:      name,
		optional:  optional,
		predicate: predicate,
	}
}

// Name returns the assertion name.
func (a NamedAssertion[T]) Name() string { return a.name }

// Optional reports whether a failure of this assertion may be
// tolerated.
func (a NamedAssertion[T]) Optional() bool { return a.optional }

// Invoke runs the predicate against entry.
func (a NamedAssertion[T]) Invoke(entry T) error {
	return a.predicate(entry)
}

// Equal compares name and optional flag only. Predicates are
// closures and cannot be compared, so two assertions with the
// same name and flag are considered equal whatever they check.
func (a NamedAssertion[T]) Equal(other NamedAssertion[T]) bool {
	return a.name == other.name && a.optional == other.optional
}

// String returns the assertion name.
func (a NamedAssertion[T]) String() string { return a.name }
