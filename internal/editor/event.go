package editor

import (
	"github.com/Faultbox/latticeffd/internal/picking"
	"github.com/Faultbox/latticeffd/pkg/math"
)

// EventType identifies a user interaction.
type EventType int

const (
	EventNone EventType = iota
	EventPick           // Ray: select the handle under the cursor
	EventDrag           // Ray, View: move the selected handle across the view plane
	EventRelease        // end a drag
	EventMoveHandle     // Index, Position: set a control point directly
	EventSpanCount      // Axis, Value: span-count slider
	EventSubdLevel      // Value: subdivision slider
	EventReset
	EventToggleMode
	EventShowEvalPoints // Enabled
)

// Event represents a processed UI event.
type Event struct {
	Type     EventType
	Ray      picking.Ray
	View     math.Vec3
	Index    int
	Position math.Vec3
	Axis     int
	Value    int
	Enabled  bool
}

func (t EventType) String() string {
	switch t {
	case EventPick:
		return "pick"
	case EventDrag:
		return "drag"
	case EventRelease:
		return "release"
	case EventMoveHandle:
		return "move_handle"
	case EventSpanCount:
		return "span_count"
	case EventSubdLevel:
		return "subd_level"
	case EventReset:
		return "reset"
	case EventToggleMode:
		return "toggle_mode"
	case EventShowEvalPoints:
		return "show_eval_points"
	default:
		return "none"
	}
}
