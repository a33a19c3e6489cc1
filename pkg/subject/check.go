package subject

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"

	"digital.vasic.flicker/pkg/assertion"
)

// CheckSubject compares a single value and reports mismatches as
// assertion violations.
type CheckSubject[T comparable] struct {
	actual  T
	name    string
	subject any
}

// Check starts a check on actual. name becomes the failure
// message.
func Check[T comparable](actual T, name string) CheckSubject[T] {
	return CheckSubject[T]{actual: actual, name: name}
}

// For attributes failures to subject.
func (c CheckSubject[T]) For(subject any) CheckSubject[T] {
	c.subject = subject
	return c
}

// IsEqual fails unless the value equals expected.
func (c CheckSubject[T]) IsEqual(expected T) error {
	if c.actual == expected {
		return nil
	}
	return c.fail(expected)
}

// IsNotEqual fails when the value equals expected.
func (c CheckSubject[T]) IsNotEqual(expected T) error {
	if c.actual != expected {
		return nil
	}
	return c.fail(fmt.Sprintf("not %v", expected))
}

func (c CheckSubject[T]) fail(expected any) error {
	return violation(c.subject, c.name, expected, c.actual)
}

// OrderedSubject compares an ordered value.
type OrderedSubject[T cmp.Ordered] struct {
	CheckSubject[T]
}

// CheckOrdered starts a check on an ordered value.
func CheckOrdered[T cmp.Ordered](actual T, name string) OrderedSubject[T] {
	return OrderedSubject[T]{Check(actual, name)}
}

// For attributes failures to subject.
func (c OrderedSubject[T]) For(subject any) OrderedSubject[T] {
	c.subject = subject
	return c
}

func (c OrderedSubject[T]) IsLower(expected T) error {
	return c.compare(c.actual < expected, "<", expected)
}

func (c OrderedSubject[T]) IsLowerOrEqual(expected T) error {
	return c.compare(c.actual <= expected, "<=", expected)
}

func (c OrderedSubject[T]) IsGreater(expected T) error {
	return c.compare(c.actual > expected, ">", expected)
}

func (c OrderedSubject[T]) IsGreaterOrEqual(expected T) error {
	return c.compare(c.actual >= expected, ">=", expected)
}

func (c OrderedSubject[T]) compare(ok bool, op string, expected T) error {
	if ok {
		return nil
	}
	return c.fail(fmt.Sprintf("%s %v", op, expected))
}

// SliceSubject checks membership in a slice.
type SliceSubject[T comparable] struct {
	actual  []T
	name    string
	subject any
}

// CheckSlice starts a check on a slice.
func CheckSlice[T comparable](actual []T, name string) SliceSubject[T] {
	return SliceSubject[T]{actual: actual, name: name}
}

// For attributes failures to subject.
func (c SliceSubject[T]) For(subject any) SliceSubject[T] {
	c.subject = subject
	return c
}

// Contains fails unless expected is an element of the slice.
func (c SliceSubject[T]) Contains(expected T) error {
	if slices.Contains(c.actual, expected) {
		return nil
	}
	return violation(
		c.subject, c.name, fmt.Sprintf("contains %v", expected), c.actual,
	)
}

func violation(subject any, msg string, expected, actual any) error {
	b := assertion.NewMessageBuilder().SetMessage(msg)
	if subject != nil {
		b.ForSubject(subject)
	}
	return b.SetExpected(expected).SetActualValue(actual).Build()
}
