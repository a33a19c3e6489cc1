package trace

import (
	"fmt"
	"strings"
)

// Color is a layer fill color. Components are in [0, 1]; a
// negative component means the layer has no color.
type Color struct {
	R float32 `json:"r" yaml:"r"`
	G float32 `json:"g" yaml:"g"`
	B float32 `json:"b" yaml:"b"`
	A float32 `json:"a" yaml:"a"`
}

// IsEmpty reports whether the color draws nothing.
func (c Color) IsEmpty() bool {
	return c.A <= 0 || c.R < 0 || c.G < 0 || c.B < 0
}

// Layer is one SurfaceFlinger layer as seen in a single entry.
type Layer struct {
	ID               int      `json:"id" yaml:"id"`
	ParentID         int      `json:"parent_id" yaml:"parent_id"`
	Name             string   `json:"name" yaml:"name"`
	Visible          bool     `json:"visible" yaml:"visible"`
	VisibilityReason []string `json:"visibility_reason,omitempty" yaml:"visibility_reason,omitempty"`
	Bounds           Rect     `json:"bounds" yaml:"bounds"`
	Color            Color    `json:"color" yaml:"color"`
	Z                int      `json:"z" yaml:"z"`
	CurrFrame        int64    `json:"curr_frame" yaml:"curr_frame"`
	HasBuffer        bool     `json:"has_buffer" yaml:"has_buffer"`
	CornerRadius     float32  `json:"corner_radius" yaml:"corner_radius"`
}

// IsVisible reports whether the layer is drawn on screen.
func (l Layer) IsVisible() bool {
	return l.Visible && !l.Bounds.IsEmpty()
}

// HasColor reports whether the layer draws a solid color.
func (l Layer) HasColor() bool {
	return !l.Color.IsEmpty()
}

// String returns the layer name, which SurfaceFlinger already
// suffixes with the layer id.
func (l Layer) String() string {
	if l.Name == "" {
		return fmt.Sprintf("#%d", l.ID)
	}
	return l.Name
}

// Display is a logical display composited in an entry.
type Display struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Bounds    Rect   `json:"bounds" yaml:"bounds"`
	IsVirtual bool   `json:"is_virtual" yaml:"is_virtual"`
}

// LayerTraceEntry is one SurfaceFlinger dump. Layers are ordered
// bottom to top.
type LayerTraceEntry struct {
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp"`
	Displays  []Display `json:"displays,omitempty" yaml:"displays,omitempty"`
	Layers    []Layer   `json:"layers" yaml:"layers"`
}

// Time implements Entry.
func (e *LayerTraceEntry) Time() Timestamp { return e.Timestamp }

// TimestampString identifies the entry in failure reports.
func (e *LayerTraceEntry) TimestampString() string {
	return e.Timestamp.String()
}

// VisibleLayers returns the visible layers in z order.
func (e *LayerTraceEntry) VisibleLayers() []Layer {
	var out []Layer
	for _, l := range e.Layers {
		if l.IsVisible() {
			out = append(out, l)
		}
	}
	return out
}

// Filter returns every layer matched by m.
func (e *LayerTraceEntry) Filter(m ComponentMatcher) []Layer {
	var out []Layer
	for _, l := range e.Layers {
		if m.MatchesLayer(l) {
			out = append(out, l)
		}
	}
	return out
}

// LayerByID returns the layer with the given id.
func (e *LayerTraceEntry) LayerByID(id int) (Layer, bool) {
	for _, l := range e.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// PhysicalDisplays returns the displays backed by a screen.
func (e *LayerTraceEntry) PhysicalDisplays() []Display {
	var out []Display
	for _, d := range e.Displays {
		if !d.IsVirtual {
			out = append(out, d)
		}
	}
	return out
}

func (e *LayerTraceEntry) String() string {
	names := make([]string, 0, len(e.Layers))
	for _, l := range e.VisibleLayers() {
		names = append(names, l.Name)
	}
	return fmt.Sprintf("%s [%s]", e.Timestamp, strings.Join(names, ", "))
}

// LayersTrace is an ordered SurfaceFlinger trace.
type LayersTrace = Trace[*LayerTraceEntry]

// NewLayersTrace creates a LayersTrace over entries, which must
// already be sorted by time.
func NewLayersTrace(entries ...*LayerTraceEntry) *LayersTrace {
	return &LayersTrace{Entries: entries}
}
