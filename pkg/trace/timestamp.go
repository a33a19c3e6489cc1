package trace

import (
	"fmt"
	"time"
)

// Timestamp locates a trace entry on the device clocks. Any clock
// that was not recorded is zero.
type Timestamp struct {
	ElapsedNanos      int64 `json:"elapsed_nanos" yaml:"elapsed_nanos"`
	SystemUptimeNanos int64 `json:"system_uptime_nanos" yaml:"system_uptime_nanos"`
	UnixNanos         int64 `json:"unix_nanos" yaml:"unix_nanos"`
}

// Elapsed creates a Timestamp from the elapsed-realtime clock only.
func Elapsed(nanos int64) Timestamp {
	return Timestamp{ElapsedNanos: nanos}
}

// Empty reports whether no clock was recorded.
func (t Timestamp) Empty() bool {
	return t.ElapsedNanos == 0 &&
		t.SystemUptimeNanos == 0 &&
		t.UnixNanos == 0
}

// String renders the most precise clock available.
func (t Timestamp) String() string {
	switch {
	case t.UnixNanos != 0:
		return time.Unix(0, t.UnixNanos).UTC().
			Format("2006-01-02T15:04:05.000000000")
	case t.ElapsedNanos != 0:
		return time.Duration(t.ElapsedNanos).String()
	case t.SystemUptimeNanos != 0:
		return fmt.Sprintf("uptime %s",
			time.Duration(t.SystemUptimeNanos))
	default:
		return "<NO TIMESTAMP>"
	}
}
