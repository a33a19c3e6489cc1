package assertion

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.flicker/pkg/logging"
)

type simpleEntry struct {
	index int
	data  int
}

func (e simpleEntry) String() string {
	return fmt.Sprintf("entry#%d(%d)", e.index, e.data)
}

func (e simpleEntry) TimestampString() string {
	return fmt.Sprintf("%dns", e.index)
}

func entries(data ...int) []simpleEntry {
	out := make([]simpleEntry, len(data))
	for i, d := range data {
		out[i] = simpleEntry{index: i, data: d}
	}
	return out
}

func isData(want int) Predicate[simpleEntry] {
	return func(e simpleEntry) error {
		if e.data == want {
			return nil
		}
		return NewMessageBuilder().
			ForSubject(e).
			SetMessage(fmt.Sprintf("data is %d", want)).
			SetExpected(want).
			SetActualValue(e.data).
			Build()
	}
}

var (
	isData42 = isData(42)
	isData0  = isData(0)
	isData1  = isData(1)
)

type recordingLogger struct {
	logging.NullLogger
	debug []string
}

func (r *recordingLogger) Debug(msg string, _ ...logging.Field) {
	r.debug = append(r.debug, msg)
}

func TestChecker_EmptyRangePasses(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, isData42)

	assert.NoError(t, c.Test(nil))
}

func TestChecker_NoAssertionsPasses(t *testing.T) {
	c := NewChecker[simpleEntry]()

	assert.True(t, c.IsEmpty())
	assert.NoError(t, c.Test(entries(42, 0, 0, 0, 0)))
}

func TestChecker_Passes(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *Checker[simpleEntry])
		data  []int
	}{
		{
			name: "changing assertions",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData42", false, isData42)
				c.Add("isData0", false, isData0)
			},
			data: []int{42, 0, 0, 0, 0},
		},
		{
			name: "optional start",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData1", true, isData1)
				c.Add("isData42", false, isData42)
				c.Add("isData0", false, isData0)
			},
			data: []int{42, 0, 0, 0, 0},
		},
		{
			name: "optional end",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData42", false, isData42)
				c.Add("isData0", false, isData0)
				c.Add("isData1", true, isData1)
			},
			data: []int{42, 0, 0, 0, 0},
		},
		{
			name: "optional middle",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData42", false, isData42)
				c.Add("isData1", true, isData1)
				c.Add("isData0", false, isData0)
			},
			data: []int{42, 0, 0, 0, 0},
		},
		{
			name: "multiple optionals",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData1", true, isData1)
				c.Add("isData1", true, isData1)
				c.Add("isData42", false, isData42)
				c.Add("isData1", true, isData1)
				c.Add("isData1", true, isData1)
				c.Add("isData0", false, isData0)
				c.Add("isData1", true, isData1)
				c.Add("isData1", true, isData1)
			},
			data: []int{42, 0, 0, 0, 0},
		},
		{
			name: "single assertion always holding",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData42", false, isData42)
			},
			data: []int{42, 42, 42, 42, 42},
		},
		{
			name: "skip until first success",
			build: func(c *Checker[simpleEntry]) {
				c.SkipUntilFirstAssertion()
				c.Add("isData42", false, isData42)
				c.Add("isData0", false, isData0)
			},
			data: []int{0, 42, 0, 0, 0},
		},
		{
			name: "contiguous runs",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData42", false, isData42)
				c.Add("isData0", false, isData0)
			},
			data: []int{42, 42, 0, 0},
		},
		{
			name: "optional bypassed without consuming entry",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData1", true, isData1)
				c.Add("isData0", false, isData0)
			},
			data: []int{0},
		},
		{
			name: "appended predicates share a step",
			build: func(c *Checker[simpleEntry]) {
				c.Add("isData42", false, isData42)
				c.Append("isData1", true, isData1)
				c.Add("isData0", false, isData0)
			},
			data: []int{42, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker[simpleEntry]()
			tt.build(c)
			assert.NoError(t, c.Test(entries(tt.data...)))
		})
	}
}

func TestChecker_FailsWhenStartingAssertionFails(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, isData42)
	c.Add("isData0", false, isData0)

	err := c.Test(entries(0, 0, 0, 0, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data is 42")

	var violation *Error
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "0ns", violation.Timestamp)
	require.Len(t, violation.Trace, 1)
	assert.Equal(t, 0, violation.Trace[0].EntryIndex)
	assert.Contains(t, err.Error(), "Assertion trace:")
	assert.Contains(t, err.Error(), "1/2:[isData42]\tEntry: 1/5 entry#0(0)")
}

func TestChecker_FailsWhenStartingAssertionAlwaysPasses(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, isData42)
	c.Add("isData0", false, isData0)

	err := c.Test(entries(42, 42, 42, 42, 42))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never failed: isData42")
	assert.ErrorIs(t, err, ErrNeverFailed)

	var violation *Error
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "4ns", violation.Timestamp)
	assert.Equal(t, []Fact{NewFact("Untested", "isData0")}, violation.Facts)
	assert.Len(t, violation.Trace, 5)
}

func TestChecker_NeverFailedListsPassedAssertions(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, isData42)
	c.Add("isData0", false, isData0)
	c.Add("isData1", false, isData1)

	err := c.Test(entries(42, 0, 0))
	require.ErrorIs(t, err, ErrNeverFailed)
	assert.Contains(t, err.Error(), "Assertion 1 never failed: isData0")

	var violation *Error
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, []Fact{
		NewFact("Passed", "isData42"),
		NewFact("Untested", "isData1"),
	}, violation.Facts)
}

func TestChecker_FailsWhenCompoundAssertionFails(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42/0", false, func(e simpleEntry) error {
		if err := isData42(e); err != nil {
			return err
		}
		return isData0(e)
	})

	err := c.Test(entries(0, 0, 0, 0, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data is 42")
}

func TestChecker_NeverPassed(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.SkipUntilFirstAssertion()
	c.Add("isData42", false, isData42)
	c.Add("isData0", true, isData0)

	err := c.Test(entries(1, 1, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNeverPassed)
	assert.Contains(t, err.Error(), "Assertion never passed isData42")

	var violation *Error
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "0ns", violation.Timestamp)
	assert.Equal(t, []Fact{
		NewFact("Assertion0", "isData42"),
		NewFact("Assertion1", "isData0"),
	}, violation.Facts)
}

func TestChecker_RegressionInsideRunFails(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, isData42)
	c.Add("isData0", false, isData0)

	err := c.Test(entries(42, 0, 42))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data is 0")
	assert.False(t, errors.Is(err, ErrNeverFailed))
}

func TestChecker_LastAssertionFailureIsRaised(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, isData42)

	err := c.Test(entries(42, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data is 42")
}

func TestChecker_OptionalThenMandatoryMustMatchNextEntry(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData1", true, isData1)
	c.Add("isData0", false, isData0)

	err := c.Test(entries(42, 42, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data is 0")
}

func TestChecker_NonViolationErrorPropagates(t *testing.T) {
	fault := errors.New("decoder exploded")

	c := NewChecker[simpleEntry]()
	c.SkipUntilFirstAssertion()
	c.Add("faulty", true, func(simpleEntry) error { return fault })

	err := c.Test(entries(1, 2))
	assert.Same(t, fault, err)
}

func TestChecker_WrappedViolationIsClassified(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData1", true, func(e simpleEntry) error {
		if err := isData1(e); err != nil {
			return fmt.Errorf("wrapped: %w", err)
		}
		return nil
	})
	c.Add("isData0", false, isData0)

	assert.NoError(t, c.Test(entries(0, 0)))
}

func TestChecker_Idempotent(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, isData42)
	c.Add("isData0", false, isData0)
	data := entries(42, 42, 0)

	require.NoError(t, c.Test(data))
	require.NoError(t, c.Test(data))
	assert.Equal(t, entries(42, 42, 0), data)

	failing := entries(0)
	first := c.Test(failing)
	second := c.Test(failing)
	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
}

func TestChecker_TraceDoesNotMutatePredicateError(t *testing.T) {
	shared := NewMessageBuilder().SetMessage("always").Build()

	c := NewChecker[simpleEntry]()
	c.Add("always", false, func(simpleEntry) error { return shared })

	err := c.Test(entries(1))
	require.Error(t, err)

	var violation *Error
	require.True(t, errors.As(err, &violation))
	assert.NotSame(t, shared, violation)
	assert.Len(t, violation.Trace, 1)
	assert.Empty(t, shared.Trace)
}

func TestChecker_AttachesTraceToWrappedViolation(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Add("isData42", false, func(e simpleEntry) error {
		if err := isData42(e); err != nil {
			return fmt.Errorf("entry %d: %w", e.data, err)
		}
		return nil
	})

	err := c.Test(entries(42, 7))
	require.Error(t, err)

	var violation *Error
	require.True(t, errors.As(err, &violation))
	assert.Len(t, violation.Trace, 2)
	assert.Contains(t, violation.Facts, NewFact("Assertion", "isData42"))
	assert.Contains(t, err.Error(), "Assertion trace:")
}

func TestChecker_LogsEveryAttempt(t *testing.T) {
	logger := &recordingLogger{}

	c := NewChecker[simpleEntry](WithLogger(logger))
	c.Add("isData42", false, isData42)
	c.Add("isData0", false, isData0)

	require.NoError(t, c.Test(entries(42, 0)))
	assert.Equal(t, []string{
		"1/2:[isData42]\tEntry: 1/2 entry#0(42)",
		"1/2:[isData42]\tEntry: 2/2 entry#1(0)",
		"2/2:[isData0]\tEntry: 2/2 entry#1(0)",
	}, logger.debug)
}

func TestChecker_AppendOnEmptyActsLikeAdd(t *testing.T) {
	c := NewChecker[simpleEntry]()
	c.Append("isData42", false, isData42)

	assert.Equal(t, 1, c.Len())
	assert.False(t, c.IsEmpty())
}

func TestChecker_Equal(t *testing.T) {
	build := func(skip bool) *Checker[simpleEntry] {
		c := NewChecker[simpleEntry]()
		if skip {
			c.SkipUntilFirstAssertion()
		}
		c.Add("isData42", false, isData42)
		c.Append("isData1", true, isData1)
		return c
	}

	assert.True(t, build(false).Equal(build(false)))
	assert.False(t, build(false).Equal(build(true)))
	assert.False(t, build(false).Equal(nil))

	other := build(false)
	other.Add("isData0", false, isData0)
	assert.False(t, build(false).Equal(other))
}

func TestAttempt_String(t *testing.T) {
	a := Attempt{
		AssertionIndex: 1,
		AssertionCount: 3,
		EntryIndex:     4,
		EntryCount:     10,
		Assertion:      "isVisible(StatusBar)",
		Entry:          "1s",
	}

	assert.Equal(t,
		"2/3:[isVisible(StatusBar)]\tEntry: 5/10 1s", a.String())
}
