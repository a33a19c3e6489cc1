package assertion

import "fmt"

// Timestamped is implemented by subjects that can describe their
// position in a trace.
type Timestamped interface {
	TimestampString() string
}

// MessageBuilder assembles an *Error step by step.
type MessageBuilder struct {
	err Error
}

// NewMessageBuilder creates an empty MessageBuilder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// ForSubject records the entry (or subject) the failure is
// attributed to.
func (b *MessageBuilder) ForSubject(subject any) *MessageBuilder {
	b.err.Subject = fmt.Sprint(subject)
	if ts, ok := subject.(Timestamped); ok {
		b.err.Timestamp = ts.TimestampString()
	}
	return b
}

// SetMessage sets the failure summary.
func (b *MessageBuilder) SetMessage(msg string) *MessageBuilder {
	b.err.Message = msg
	return b
}

// ForInvalidElement describes a component that was expected to
// be present (or absent) in the entry.
func (b *MessageBuilder) ForInvalidElement(
	element string,
	expectExists bool,
) *MessageBuilder {
	if expectExists {
		b.err.Message = "Element does not exist"
		b.err.Expected = []Fact{NewFact("Expected", "exists")}
	} else {
		b.err.Message = "Element exists"
		b.err.Expected = []Fact{NewFact("Expected", "not exists")}
	}
	b.err.Expected = append(
		b.err.Expected, NewFact("Element", element),
	)
	return b
}

// ForIncorrectVisibility describes a component with the wrong
// visibility.
func (b *MessageBuilder) ForIncorrectVisibility(
	element string,
	expectVisible bool,
) *MessageBuilder {
	b.err.Message = "Incorrect visibility"
	expected := "invisible"
	if expectVisible {
		expected = "visible"
	}
	b.err.Expected = []Fact{
		NewFact("Expected", expected),
		NewFact("Element", element),
	}
	return b
}

// ForIncorrectRegion describes a region check failure.
func (b *MessageBuilder) ForIncorrectRegion(
	region string,
) *MessageBuilder {
	b.err.Message = fmt.Sprintf("Incorrect %s region", region)
	return b
}

// SetExpected records the expected value.
func (b *MessageBuilder) SetExpected(value any) *MessageBuilder {
	b.err.Expected = append(
		b.err.Expected, NewFact("Expected", value),
	)
	return b
}

// SetActual replaces the observed facts.
func (b *MessageBuilder) SetActual(facts ...Fact) *MessageBuilder {
	b.err.Actual = append([]Fact(nil), facts...)
	return b
}

// SetActualValue records a single observed value.
func (b *MessageBuilder) SetActualValue(value any) *MessageBuilder {
	return b.SetActual(NewFact("Actual", value))
}

// AddExtraDescription appends diagnostic facts.
func (b *MessageBuilder) AddExtraDescription(
	facts ...Fact,
) *MessageBuilder {
	b.err.Facts = append(b.err.Facts, facts...)
	return b
}

// WithCause sets the error returned by Unwrap.
func (b *MessageBuilder) WithCause(cause error) *MessageBuilder {
	b.err.cause = cause
	return b
}

// Build returns the assembled error. The builder can keep being
// used afterwards without affecting the returned value.
func (b *MessageBuilder) Build() *Error {
	e := b.err
	e.Expected = append([]Fact(nil), b.err.Expected...)
	e.Actual = append([]Fact(nil), b.err.Actual...)
	e.Facts = append([]Fact(nil), b.err.Facts...)
	return &e
}
