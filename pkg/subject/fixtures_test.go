package subject

import (
	"fmt"

	"digital.vasic.flicker/pkg/trace"
)

var (
	app      = trace.NewComponent("com.example", "com.example.Main")
	other    = trace.NewComponent("com.other", "com.other.Settings")
	fullRect = trace.NewRect(0, 0, 1080, 2400)
)

func appLayer(id int, visible bool) trace.Layer {
	return trace.Layer{
		ID:      id,
		Name:    fmt.Sprintf("com.example/com.example.Main#%d", id),
		Visible: visible,
		Bounds:  fullRect,
	}
}

func statusBarLayer() trace.Layer {
	return trace.Layer{
		ID:      100,
		Name:    "StatusBar#100",
		Visible: true,
		Bounds:  trace.NewRect(0, 0, 1080, 100),
	}
}

// layersTrace builds one entry per flag, with the app layer
// visible when the flag is set.
func layersTrace(visible ...bool) *trace.LayersTrace {
	entries := make([]*trace.LayerTraceEntry, len(visible))
	for i, v := range visible {
		entries[i] = &trace.LayerTraceEntry{
			Timestamp: trace.Timestamp{
				ElapsedNanos:      int64(i + 1),
				SystemUptimeNanos: int64(i+1) * 10,
			},
			Displays: []trace.Display{{ID: 0, Bounds: fullRect}},
			Layers:   []trace.Layer{statusBarLayer(), appLayer(1, v)},
		}
	}
	return trace.NewLayersTrace(entries...)
}

func appWindow(visible bool) trace.WindowState {
	return trace.WindowState{
		Name:        "com.example/com.example.Main",
		IsAppWindow: true,
		Visible:     visible,
		Bounds:      fullRect,
	}
}

func homeWindow(visible bool) trace.WindowState {
	return trace.WindowState{
		Name:        "com.google.android.apps.nexuslauncher/com.google.android.apps.nexuslauncher.NexusLauncherActivity",
		IsAppWindow: true,
		Visible:     visible,
		Bounds:      fullRect,
		IsHome:      true,
	}
}

func statusBarWindow() trace.WindowState {
	return trace.WindowState{
		Name:    "StatusBar",
		Visible: true,
		Bounds:  trace.NewRect(0, 0, 1080, 100),
	}
}

// wmTrace builds one state per flag: the app window on top of the
// launcher when set, the launcher alone otherwise.
func wmTrace(appVisible ...bool) *trace.WindowManagerTrace {
	states := make([]*trace.WindowManagerState, len(appVisible))
	for i, v := range appVisible {
		st := &trace.WindowManagerState{
			Timestamp: trace.Elapsed(int64(i + 1)),
			Display:   fullRect,
		}
		st.Windows = append(st.Windows, statusBarWindow())
		if v {
			st.Windows = append(st.Windows, appWindow(true))
			st.FocusedWindow = appWindow(true).Name
		} else {
			st.FocusedWindow = homeWindow(true).Name
		}
		st.Windows = append(st.Windows, homeWindow(!v))
		states[i] = st
	}
	return trace.NewWindowManagerTrace(states...)
}
