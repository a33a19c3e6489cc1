package assertion

import "fmt"

// Fact is a key/value pair attached to an assertion failure to
// describe what was expected, what was observed, or any other
// context useful in a test report.
type Fact struct {
	Key   string `json:"key"`
	Value any    `json:"value,omitempty"`
}

// NewFact creates a Fact.
func NewFact(key string, value any) Fact {
	return Fact{Key: key, Value: value}
}

// String renders the fact as "key: value", or just the key when
// the fact carries no value.
func (f Fact) String() string {
	if f.Value == nil {
		return f.Key
	}
	return fmt.Sprintf("%s: %v", f.Key, f.Value)
}
