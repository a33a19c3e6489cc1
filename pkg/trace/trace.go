// Package trace models the WindowManager and SurfaceFlinger
// traces that assertions are evaluated against. Decoding is done
// elsewhere; this package only exposes the properties that
// subjects query.
package trace

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// ErrEntryNotFound is returned when no entry has the requested
// timestamp.
var ErrEntryNotFound = errors.New("entry not found")

// Entry is a single time-stamped state in a trace.
type Entry interface {
	Time() Timestamp
}

// Trace is a time-ordered sequence of entries.
type Trace[E Entry] struct {
	Entries []E `json:"entries" yaml:"entries"`
}

// Len returns the number of entries.
func (t *Trace[E]) Len() int { return len(t.Entries) }

// IsEmpty reports whether the trace has no entries.
func (t *Trace[E]) IsEmpty() bool { return len(t.Entries) == 0 }

// First returns the first entry.
func (t *Trace[E]) First() (E, bool) {
	var zero E
	if t.IsEmpty() {
		return zero, false
	}
	return t.Entries[0], true
}

// Last returns the last entry.
func (t *Trace[E]) Last() (E, bool) {
	var zero E
	if t.IsEmpty() {
		return zero, false
	}
	return t.Entries[len(t.Entries)-1], true
}

// EntryAt returns the entry recorded exactly at the given elapsed
// time.
func (t *Trace[E]) EntryAt(elapsedNanos int64) (E, error) {
	i := slices.IndexFunc(t.Entries, func(e E) bool {
		return e.Time().ElapsedNanos == elapsedNanos
	})
	if i < 0 {
		var zero E
		return zero, fmt.Errorf("%w: elapsed %d", ErrEntryNotFound, elapsedNanos)
	}
	return t.Entries[i], nil
}

// SliceByElapsed returns the entries whose elapsed time lies in
// [from, to].
func (t *Trace[E]) SliceByElapsed(from, to int64) *Trace[E] {
	return t.slice(from, to, func(ts Timestamp) int64 {
		return ts.ElapsedNanos
	})
}

// SliceBySystemUptime returns the entries whose system uptime
// lies in [from, to].
func (t *Trace[E]) SliceBySystemUptime(from, to int64) *Trace[E] {
	return t.slice(from, to, func(ts Timestamp) int64 {
		return ts.SystemUptimeNanos
	})
}

func (t *Trace[E]) slice(
	from, to int64,
	clock func(Timestamp) int64,
) *Trace[E] {
	out := &Trace[E]{}
	for _, e := range t.Entries {
		ts := clock(e.Time())
		if ts >= from && ts <= to {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}
