package trace

import (
	"fmt"
	"strings"
)

// ComponentMatcher selects the layers and windows that belong to
// a component.
type ComponentMatcher interface {
	MatchesLayer(layer Layer) bool
	MatchesWindow(window WindowState) bool
	LayerIdentifier() string
	WindowIdentifier() string
	String() string
}

// ComponentNameMatcher matches by package and class name. Either
// part may be empty, in which case only the other one is used.
type ComponentNameMatcher struct {
	Package string `json:"package" yaml:"package"`
	Class   string `json:"class" yaml:"class"`
}

// NewComponent creates a ComponentNameMatcher.
func NewComponent(pkg, class string) ComponentNameMatcher {
	return ComponentNameMatcher{Package: pkg, Class: class}
}

// ParseComponent parses "package/class". A class starting with a
// dot is relative to the package.
func ParseComponent(s string) (ComponentNameMatcher, error) {
	sep := strings.IndexByte(s, '/')
	if sep < 0 || sep+1 >= len(s) {
		return ComponentNameMatcher{}, fmt.Errorf(
			"parse component %q: missing package/class separator", s,
		)
	}
	pkg := s[:sep]
	class := s[sep+1:]
	if strings.HasPrefix(class, ".") {
		class = pkg + class
	}
	return NewComponent(pkg, class), nil
}

// WindowIdentifier returns the name WindowManager gives the
// component's windows.
func (c ComponentNameMatcher) WindowIdentifier() string {
	switch {
	case c.Package != "" && c.Class != "":
		return c.Package + "/" + c.Class
	case c.Package != "":
		return c.Package
	default:
		return c.Class
	}
}

// LayerIdentifier returns the prefix SurfaceFlinger gives the
// component's layers. Layers of activities are suffixed with
// "#<id>".
func (c ComponentNameMatcher) LayerIdentifier() string {
	name := c.WindowIdentifier()
	if strings.Contains(name, "/") && !strings.Contains(name, "#") {
		name += "#"
	}
	return name
}

// MatchesLayer implements ComponentMatcher.
func (c ComponentNameMatcher) MatchesLayer(layer Layer) bool {
	return strings.Contains(layer.Name, c.LayerIdentifier())
}

// MatchesWindow implements ComponentMatcher.
func (c ComponentNameMatcher) MatchesWindow(window WindowState) bool {
	return strings.Contains(window.Name, c.WindowIdentifier())
}

// String returns the short form, with the package prefix removed
// from the class name.
func (c ComponentNameMatcher) String() string {
	if c.Package == "" || c.Class == "" {
		return c.WindowIdentifier()
	}
	return c.Package + "/" + strings.TrimPrefix(c.Class, c.Package)
}

type orMatcher struct {
	matchers []ComponentMatcher
}

// Or matches anything matched by at least one of matchers.
func Or(matchers ...ComponentMatcher) ComponentMatcher {
	return orMatcher{matchers: matchers}
}

func (o orMatcher) MatchesLayer(layer Layer) bool {
	for _, m := range o.matchers {
		if m.MatchesLayer(layer) {
			return true
		}
	}
	return false
}

func (o orMatcher) MatchesWindow(window WindowState) bool {
	for _, m := range o.matchers {
		if m.MatchesWindow(window) {
			return true
		}
	}
	return false
}

func (o orMatcher) LayerIdentifier() string {
	return o.join(ComponentMatcher.LayerIdentifier)
}

func (o orMatcher) WindowIdentifier() string {
	return o.join(ComponentMatcher.WindowIdentifier)
}

func (o orMatcher) String() string {
	return o.join(ComponentMatcher.String)
}

func (o orMatcher) join(part func(ComponentMatcher) string) string {
	parts := make([]string, len(o.matchers))
	for i, m := range o.matchers {
		parts[i] = part(m)
	}
	return strings.Join(parts, " or ")
}

// Well-known system components.
var (
	NavBar            = NewComponent("", "NavigationBar0")
	TaskBar           = NewComponent("", "Taskbar")
	StatusBar         = NewComponent("", "StatusBar")
	Rotation          = NewComponent("", "RotationLayer")
	IME               = NewComponent("", "InputMethod")
	ImeSnapshot       = NewComponent("", "IME-snapshot-surface")
	SplashScreen      = NewComponent("", "Splash Screen")
	Snapshot          = NewComponent("", "SnapshotStartingWindow")
	Letterbox         = NewComponent("", "Letterbox")
	PipContentOverlay = NewComponent("", "PipContentOverlay")
	SplitDivider      = NewComponent("", "StageCoordinatorSplitDivider")
	NotificationShade = NewComponent("", "NotificationShade")
	VolumeDialog      = NewComponent("", "VolumeDialog")
	EdgeExtension     = NewComponent("", "Edge Extension")
	Launcher          = NewComponent(
		"com.google.android.apps.nexuslauncher",
		"com.google.android.apps.nexuslauncher.NexusLauncherActivity",
	)
)

var wellKnown = map[string]ComponentMatcher{
	"NAV_BAR":             NavBar,
	"TASK_BAR":            TaskBar,
	"STATUS_BAR":          StatusBar,
	"ROTATION":            Rotation,
	"IME":                 IME,
	"IME_SNAPSHOT":        ImeSnapshot,
	"SPLASH_SCREEN":       SplashScreen,
	"SNAPSHOT":            Snapshot,
	"LETTERBOX":           Letterbox,
	"PIP_CONTENT_OVERLAY": PipContentOverlay,
	"SPLIT_DIVIDER":       SplitDivider,
	"NOTIFICATION_SHADE":  NotificationShade,
	"VOLUME_DIALOG":       VolumeDialog,
	"EDGE_EXTENSION":      EdgeExtension,
	"LAUNCHER":            Launcher,
}

// LookupComponent resolves a well-known component by its
// upper-case name, as used in configuration files.
func LookupComponent(name string) (ComponentMatcher, bool) {
	m, ok := wellKnown[strings.ToUpper(name)]
	return m, ok
}
