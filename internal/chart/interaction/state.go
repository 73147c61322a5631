package interaction

import (
	"fmt"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/tooltip"
)

// State is the pointer state machine position.
type State int

const (
	// Idle means the pointer is outside the chart.
	Idle State = iota
	// Hovering means the pointer is inside the chart without a press.
	Hovering
	// Dragging means the pointer is pressed inside the chart.
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "hovering":
		*s = Hovering
	case "dragging":
		*s = Dragging
	default:
		return fmt.Errorf("unknown interaction state %q", text)
	}
	return nil
}

// EventKind identifies a pointer event.
type EventKind string

// Pointer event kinds.
const (
	EventEnter EventKind = "enter"
	EventMove  EventKind = "move"
	EventLeave EventKind = "leave"
	EventDown  EventKind = "down"
	EventUp    EventKind = "up"
)

// ParseEventKind validates a textual event kind.
func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(s); k {
	case EventEnter, EventMove, EventLeave, EventDown, EventUp:
		return k, nil
	default:
		return "", fmt.Errorf("unknown pointer event %q", s)
	}
}

// PointerEvent is a pointer event in page coordinates.
type PointerEvent struct {
	Kind  EventKind `json:"kind"`
	PageX float64   `json:"page_x"`
	PageY float64   `json:"page_y"`
}

// PointerState is the last known pointer position. X and Y are local to the
// plotting area; Data is only meaningful when HasData is set.
type PointerState struct {
	Inside  bool                    `json:"inside"`
	X       float64                 `json:"x"`
	Y       float64                 `json:"y"`
	PageX   float64                 `json:"page_x"`
	PageY   float64                 `json:"page_y"`
	Data    geometry.DataCoordinate `json:"data"`
	HasData bool                    `json:"has_data"`
}

// CrosshairState is the position of the crosshair lines in local pixels.
type CrosshairState struct {
	Visible bool    `json:"visible"`
	PixelX  float64 `json:"pixel_x"`
	PixelY  float64 `json:"pixel_y"`
	// Snapped is set when PixelX was pulled onto a data point.
	Snapped bool `json:"snapped"`
	// Sticky is set while the crosshair is held after the pointer left.
	Sticky bool `json:"sticky"`
}

// Popover is where the tooltip popover should be drawn. Coordinates are page
// coordinates when Portal is set, local pixels otherwise.
type Popover struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Portal  bool    `json:"portal"`
}

// Snapshot is an immutable copy of the interaction state.
type Snapshot struct {
	ID          string              `json:"id"`
	Version     uint64              `json:"version"`
	State       State               `json:"state"`
	Pointer     PointerState        `json:"pointer"`
	Crosshair   CrosshairState      `json:"crosshair"`
	Tooltip     tooltip.Tooltip     `json:"tooltip"`
	Popover     Popover             `json:"popover"`
	Highlighted string              `json:"highlighted,omitempty"`
	Bounds      geometry.PlotBounds `json:"bounds"`
	Offset      geometry.RootOffset `json:"offset"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	s.Tooltip = s.Tooltip.Clone()
	return s
}
