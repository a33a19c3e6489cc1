package logging

import "time"

// LogField creates a Field from a key-value pair.
func LogField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func StringField(key, value string) Field   { return Field{Key: key, Value: value} }
func IntField(key string, value int) Field   { return Field{Key: key, Value: value} }
func BoolField(key string, value bool) Field { return Field{Key: key, Value: value} }

// ErrorField stores err's message under "error", or "<nil>".
func ErrorField(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// RunIDField tags an entry with the run it belongs to.
func RunIDField(runID string) Field {
	return Field{Key: "run_id", Value: runID}
}

// ScenarioField tags an entry with the scenario type it belongs
// to.
func ScenarioField(scenarioType string) Field {
	return Field{Key: "scenario", Value: scenarioType}
}

// AssertionField tags an entry with an assertion name.
func AssertionField(name string) Field {
	return Field{Key: "assertion", Value: name}
}

// DurationField stores d in whole milliseconds under
// "duration_ms".
func DurationField(d time.Duration) Field {
	return Field{Key: "duration_ms", Value: d.Milliseconds()}
}

// EntryField tags an entry with the index of a trace entry.
func EntryField(index int) Field {
	return Field{Key: "entry_index", Value: index}
}
