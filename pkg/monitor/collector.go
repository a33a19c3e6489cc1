// Package monitor collects scenario and assertion events while a
// run is in progress.
package monitor

import (
	"sync"
	"time"

	"golang.org/x/exp/slices"
)

// EventCollector captures evaluation events and timing data. It
// is safe for concurrent use.
type EventCollector struct {
	mu       sync.RWMutex
	events   []Event
	handlers []func(Event)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total            int           `json:"total"`
	Passed           int           `json:"passed"`
	Failed           int           `json:"failed"`
	Skipped          int           `json:"skipped"`
	Errored          int           `json:"errored"`
	AssertionsPassed int           `json:"assertions_passed"`
	AssertionsFailed int           `json:"assertions_failed"`
	StartTime        time.Time     `json:"start_time"`
	Duration         time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]Event, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers. Handlers run
// outside the lock and may call back into the collector.
func (c *EventCollector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.stats.Total++
	switch event.Type {
	case EventPassed:
		c.stats.Passed++
	case EventFailed:
		c.stats.Failed++
	case EventSkipped:
		c.stats.Skipped++
	case EventError:
		c.stats.Errored++
	case EventAssertionPassed:
		c.stats.AssertionsPassed++
	case EventAssertionFailed:
		c.stats.AssertionsFailed++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := slices.Clone(c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitStarted emits a scenario started event.
func (c *EventCollector) EmitStarted(runID, scenario string) {
	c.Emit(Event{
		Type:     EventStarted,
		RunID:    runID,
		Scenario: scenario,
		Status:   "running",
	})
}

// EmitFinished emits the event matching a scenario's final
// status: passed, failed, skipped or error.
func (c *EventCollector) EmitFinished(
	runID, scenario, status, msg string,
	duration time.Duration,
) {
	c.Emit(Event{
		Type:     EventType(status),
		RunID:    runID,
		Scenario: scenario,
		Status:   status,
		Message:  msg,
		Duration: duration,
	})
}

// EmitAssertion emits an assertion_passed or assertion_failed
// event.
func (c *EventCollector) EmitAssertion(
	runID, scenario, assertion string,
	passed bool,
	msg string,
) {
	event := Event{
		Type:      EventAssertionPassed,
		RunID:     runID,
		Scenario:  scenario,
		Assertion: assertion,
		Status:    "passed",
		Message:   msg,
	}
	if !passed {
		event.Type = EventAssertionFailed
		event.Status = "failed"
	}
	c.Emit(event)
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.events)
}

// EventsFor returns the events of one scenario, in emission order.
func (c *EventCollector) EventsFor(scenario string) []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []Event
	for _, e := range c.events {
		if e.Scenario == scenario {
			result = append(result, e)
		}
	}
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
