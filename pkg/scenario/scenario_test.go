package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.flicker/pkg/trace"
)

func TestScenario_Component(t *testing.T) {
	app := trace.NewComponent("com.example", "com.example.Main")
	s := New("APP_LAUNCH").WithComponent("OPENING_APP", app)

	m, err := s.Component("OPENING_APP")
	require.NoError(t, err)
	assert.Equal(t, app, m)

	m, err = s.Component("STATUS_BAR")
	require.NoError(t, err)
	assert.Equal(t, trace.StatusBar, m)

	_, err = s.Component("CLOSING_APP")
	assert.ErrorIs(t, err, ErrUnknownComponent)
}

func TestScenario_ComponentOverridesWellKnown(t *testing.T) {
	custom := trace.NewComponent("", "CustomStatusBar")
	s := (&Scenario{Type: "X"}).WithComponent("STATUS_BAR", custom)

	m, err := s.Component("STATUS_BAR")
	require.NoError(t, err)
	assert.Equal(t, custom, m)
}

func TestScenario_Traces(t *testing.T) {
	s := New("APP_LAUNCH")
	assert.False(t, s.HasLayers())
	assert.False(t, s.HasWindowManager())

	s.WithLayers(trace.NewLayersTrace()).
		WithWindowManager(trace.NewWindowManagerTrace(&trace.WindowManagerState{}))
	assert.False(t, s.HasLayers())
	assert.True(t, s.HasWindowManager())
}

func TestResult_AllPassed(t *testing.T) {
	r := &Result{Assertions: []AssertionResult{
		{Name: "a", Passed: true},
		{Name: "b", Skipped: true},
	}}
	assert.True(t, r.AllPassed())

	r.Assertions = append(r.Assertions, AssertionResult{Name: "c"})
	assert.False(t, r.AllPassed())
}

func TestResult_BlockingFailures(t *testing.T) {
	r := &Result{Assertions: []AssertionResult{
		{Name: "a", Group: GroupBlocking},
		{Name: "b", Group: GroupNonBlocking},
		{Name: "c", Group: ""},
		{Name: "d", Group: GroupBlocking, Passed: true},
		{Name: "e", Group: GroupBlocking, Skipped: true},
	}}

	failures := r.BlockingFailures()
	require.Len(t, failures, 2)
	assert.Equal(t, "a", failures[0].Name)
	assert.Equal(t, "c", failures[1].Name)
}

func TestResult_IsFinal(t *testing.T) {
	tests := []struct {
		status string
		final  bool
	}{
		{StatusPending, false},
		{StatusRunning, false},
		{StatusPassed, true},
		{StatusFailed, true},
		{StatusSkipped, true},
		{StatusError, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			r := &Result{Status: tt.status}
			assert.Equal(t, tt.final, r.IsFinal())
		})
	}
}
