package trace

import (
	"fmt"
	"strings"
)

// WindowState is one window known to WindowManager.
type WindowState struct {
	Token       string `json:"token" yaml:"token"`
	Name        string `json:"name" yaml:"name"`
	IsAppWindow bool   `json:"is_app_window" yaml:"is_app_window"`
	Visible     bool   `json:"visible" yaml:"visible"`
	Bounds      Rect   `json:"bounds" yaml:"bounds"`
	Pinned      bool   `json:"pinned" yaml:"pinned"`
	IsHome      bool   `json:"is_home" yaml:"is_home"`
	Z           int    `json:"z" yaml:"z"`
}

// IsVisible reports whether the window is shown with a non-empty
// frame.
func (w WindowState) IsVisible() bool {
	return w.Visible && !w.Bounds.IsEmpty()
}

func (w WindowState) String() string {
	if w.Token == "" {
		return w.Name
	}
	return fmt.Sprintf("%s %s", w.Token, w.Name)
}

// WindowManagerState is one WindowManager dump. Windows are
// ordered top to bottom.
type WindowManagerState struct {
	Timestamp       Timestamp     `json:"timestamp" yaml:"timestamp"`
	Windows         []WindowState `json:"windows" yaml:"windows"`
	FocusedWindow   string        `json:"focused_window" yaml:"focused_window"`
	FocusedApp      string        `json:"focused_app" yaml:"focused_app"`
	KeyguardShowing bool          `json:"keyguard_showing" yaml:"keyguard_showing"`
	Rotation        int           `json:"rotation" yaml:"rotation"`
	Display         Rect          `json:"display" yaml:"display"`
}

// Time implements Entry.
func (s *WindowManagerState) Time() Timestamp { return s.Timestamp }

// TimestampString identifies the state in failure reports.
func (s *WindowManagerState) TimestampString() string {
	return s.Timestamp.String()
}

// VisibleWindows returns the visible windows, top first.
func (s *WindowManagerState) VisibleWindows() []WindowState {
	return s.windows(func(w WindowState) bool { return w.IsVisible() })
}

// AppWindows returns the application windows, top first.
func (s *WindowManagerState) AppWindows() []WindowState {
	return s.windows(func(w WindowState) bool { return w.IsAppWindow })
}

// NonAppWindows returns the system windows, top first.
func (s *WindowManagerState) NonAppWindows() []WindowState {
	return s.windows(func(w WindowState) bool { return !w.IsAppWindow })
}

// TopVisibleAppWindow returns the highest visible app window.
func (s *WindowManagerState) TopVisibleAppWindow() (WindowState, bool) {
	for _, w := range s.Windows {
		if w.IsAppWindow && w.IsVisible() {
			return w, true
		}
	}
	return WindowState{}, false
}

// Filter returns every window matched by m, top first.
func (s *WindowManagerState) Filter(m ComponentMatcher) []WindowState {
	return s.windows(m.MatchesWindow)
}

// IndexOf returns the position (0 is top) of the first window
// matched by m, or -1.
func (s *WindowManagerState) IndexOf(m ComponentMatcher) int {
	for i, w := range s.Windows {
		if m.MatchesWindow(w) {
			return i
		}
	}
	return -1
}

func (s *WindowManagerState) windows(
	keep func(WindowState) bool,
) []WindowState {
	var out []WindowState
	for _, w := range s.Windows {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func (s *WindowManagerState) String() string {
	names := make([]string, 0, len(s.Windows))
	for _, w := range s.VisibleWindows() {
		names = append(names, w.Name)
	}
	return fmt.Sprintf("%s [%s]", s.Timestamp, strings.Join(names, ", "))
}

// WindowManagerTrace is an ordered WindowManager trace.
type WindowManagerTrace = Trace[*WindowManagerState]

// NewWindowManagerTrace creates a WindowManagerTrace over states,
// which must already be sorted by time.
func NewWindowManagerTrace(
	states ...*WindowManagerState,
) *WindowManagerTrace {
	return &WindowManagerTrace{Entries: states}
}
