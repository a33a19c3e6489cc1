package assertion

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFact_String(t *testing.T) {
	assert.Equal(t, "Expected: 42", NewFact("Expected", 42).String())
	assert.Equal(t, "Element", NewFact("Element", nil).String())
}

func TestError_Render(t *testing.T) {
	err := NewMessageBuilder().
		ForSubject(simpleEntry{index: 3, data: 7}).
		SetMessage("data is 42").
		SetExpected(42).
		SetActualValue(7).
		AddExtraDescription(NewFact("Layer", "StatusBar")).
		Build()

	assert.Equal(t,
		"data is 42\n"+
			"Where?: 3ns\n"+
			"Expected: 42\n"+
			"Actual: 7\n"+
			"Layer: StatusBar\n"+
			"Subject: entry#3(7)",
		err.Error())
}

func TestError_AllFactsOrder(t *testing.T) {
	err := &Error{
		Expected: []Fact{NewFact("e", 1)},
		Actual:   []Fact{NewFact("a", 2)},
		Facts:    []Fact{NewFact("f", 3)},
	}

	assert.Equal(t, []Fact{
		NewFact("e", 1), NewFact("a", 2), NewFact("f", 3),
	}, err.AllFacts())
}

func TestIsViolation(t *testing.T) {
	v := NewMessageBuilder().SetMessage("x").Build()

	assert.True(t, IsViolation(v))
	assert.True(t, IsViolation(fmt.Errorf("ctx: %w", v)))
	assert.False(t, IsViolation(errors.New("plain")))
	assert.False(t, IsViolation(nil))
}

func TestWithTrace_LeavesNonViolationsAlone(t *testing.T) {
	plain := errors.New("plain")
	assert.Same(t, plain, withTrace(plain, []Attempt{{}}, "step"))
}

func TestWithTrace_UnwrapsWrappedViolations(t *testing.T) {
	inner := NewMessageBuilder().SetMessage("layer is invisible").Build()
	wrapped := fmt.Errorf("statusBar: %w", inner)

	err := withTrace(wrapped, []Attempt{{Assertion: "isVisible(StatusBar)"}}, "isVisible(StatusBar)")

	var violation *Error
	require.True(t, errors.As(err, &violation))
	assert.NotSame(t, inner, violation)
	assert.Len(t, violation.Trace, 1)
	assert.Equal(t, []Fact{NewFact("Assertion", "isVisible(StatusBar)")}, violation.Facts)
	assert.ErrorIs(t, err, wrapped)
	assert.Empty(t, inner.Trace)
	assert.Empty(t, inner.Facts)
}

func TestWithTrace_KeepsExistingAssertionFact(t *testing.T) {
	v := NewMessageBuilder().
		SetMessage("x").
		AddExtraDescription(NewFact("Assertion", "custom")).
		Build()

	var violation *Error
	require.True(t, errors.As(withTrace(v, nil, "step"), &violation))
	assert.Equal(t, []Fact{NewFact("Assertion", "custom")}, violation.Facts)
}

func TestMessageBuilder_InvalidElement(t *testing.T) {
	missing := NewMessageBuilder().
		ForInvalidElement("StatusBar", true).Build()
	assert.Equal(t, "Element does not exist", missing.Message)
	assert.Equal(t, []Fact{
		NewFact("Expected", "exists"),
		NewFact("Element", "StatusBar"),
	}, missing.Expected)

	present := NewMessageBuilder().
		ForInvalidElement("StatusBar", false).Build()
	assert.Equal(t, "Element exists", present.Message)
}

func TestMessageBuilder_IncorrectVisibility(t *testing.T) {
	err := NewMessageBuilder().
		ForIncorrectVisibility("NavigationBar", false).Build()

	assert.Equal(t, "Incorrect visibility", err.Message)
	assert.Equal(t, NewFact("Expected", "invisible"), err.Expected[0])
}

func TestMessageBuilder_BuildIsSnapshot(t *testing.T) {
	b := NewMessageBuilder().SetMessage("first").
		AddExtraDescription(NewFact("k", 1))
	first := b.Build()

	b.SetMessage("second").AddExtraDescription(NewFact("k", 2))
	second := b.Build()

	assert.Equal(t, "first", first.Message)
	require.Len(t, first.Facts, 1)
	assert.Len(t, second.Facts, 2)
}

func TestMessageBuilder_WithCause(t *testing.T) {
	err := NewMessageBuilder().WithCause(ErrNeverPassed).Build()
	assert.ErrorIs(t, err, ErrNeverPassed)
}
