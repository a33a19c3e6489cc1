package monitor

import "time"

// EventType represents the type of evaluation event.
type EventType string

const (
	EventStarted         EventType = "started"
	EventPassed          EventType = "passed"
	EventFailed          EventType = "failed"
	EventSkipped         EventType = "skipped"
	EventError           EventType = "error"
	EventAssertionPassed EventType = "assertion_passed"
	EventAssertionFailed EventType = "assertion_failed"
)

// Event represents a lifecycle event of a scenario or of one of
// its assertions.
type Event struct {
	Type      EventType     `json:"type"`
	RunID     string        `json:"run_id,omitempty"`
	Scenario  string        `json:"scenario"`
	Assertion string        `json:"assertion,omitempty"`
	Status    string        `json:"status,omitempty"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
