package metrics

import (
	"sync"
	"time"
)

// Counters implements AssertionMetrics in memory. It is safe for
// concurrent use, as the runner records from several goroutines.
type Counters struct {
	mu         sync.Mutex
	scenarios  map[string]int
	assertions map[string]int
	durations  map[string][]time.Duration
	runTotal   int
	active     int
}

// NewCounters creates an empty Counters.
func NewCounters() *Counters {
	return &Counters{
		scenarios:  make(map[string]int),
		assertions: make(map[string]int),
		durations:  make(map[string][]time.Duration),
	}
}

func (m *Counters) RecordScenario(scenarioType, status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[scenarioType+":"+status]++
	m.durations[scenarioType] = append(m.durations[scenarioType], duration)
}

func (m *Counters) RecordAssertion(scenarioType, template string, passed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assertions[assertionKey(scenarioType, template, passed)]++
}

func (m *Counters) IncrementRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runTotal++
}

func (m *Counters) SetActiveScenarios(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// ScenarioCount returns the count for a scenario type and status.
func (m *Counters) ScenarioCount(scenarioType, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scenarios[scenarioType+":"+status]
}

// AssertionCount returns how often template passed (or failed) in
// scenarios of the given type.
func (m *Counters) AssertionCount(scenarioType, template string, passed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assertions[assertionKey(scenarioType, template, passed)]
}

// Durations returns a copy of the recorded durations of a
// scenario type.
func (m *Counters) Durations(scenarioType string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.durations[scenarioType]...)
}

// RunTotal returns the total number of runs.
func (m *Counters) RunTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runTotal
}

// ActiveScenarios returns the current active scenarios gauge.
func (m *Counters) ActiveScenarios() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func assertionKey(scenarioType, template string, passed bool) string {
	status := "failed"
	if passed {
		status = "passed"
	}
	return scenarioType + ":" + template + ":" + status
}
