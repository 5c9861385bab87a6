package director

import (
	"fmt"

	"github.com/jmikh/recordio-sub002/internal/geom"
)

// Reason explains why the camera moves.
type Reason string

const (
	ReasonClick        Reason = "click"
	ReasonHover        Reason = "hover"
	ReasonURLChange    Reason = "url_change"
	ReasonInactivity   Reason = "inactivity"
	ReasonFinalZoomout Reason = "final_zoomout"
	ReasonScroll       Reason = "scroll"
	ReasonDrag         Reason = "drag"
	ReasonTyping       Reason = "typing"
	ReasonAuto         Reason = "auto"
	ReasonManual       Reason = "manual"
)

var reasons = map[Reason]bool{
	ReasonClick:        true,
	ReasonHover:        true,
	ReasonURLChange:    true,
	ReasonInactivity:   true,
	ReasonFinalZoomout: true,
	ReasonScroll:       true,
	ReasonDrag:         true,
	ReasonTyping:       true,
	ReasonAuto:         true,
	ReasonManual:       true,
}

// ParseReason validates a reason read from a project or schedule file.
func ParseReason(s string) (Reason, error) {
	r := Reason(s)
	if !reasons[r] {
		return "", fmt.Errorf("unknown zoom reason %q", s)
	}
	return r, nil
}

// ZoomsOut reports whether the reason always targets the full frame.
func (r Reason) ZoomsOut() bool {
	return r == ReasonInactivity || r == ReasonFinalZoomout || r == ReasonURLChange
}

// ActionType distinguishes generated keyframes from user-authored ones.
type ActionType string

const (
	ActionAuto   ActionType = "auto"
	ActionManual ActionType = "manual"
)

// FocusArea is a moment at which the camera should look at Rect.
// Timestamp is output time; Rect is in source space.
type FocusArea struct {
	Timestamp float64   `json:"timestamp" yaml:"timestamp"`
	Rect      geom.Rect `json:"rect" yaml:"rect"`
	Reason    Reason    `json:"reason" yaml:"reason"`
}

// ZoomAction is a viewport keyframe. The transition runs from
// OutputEndTimeMs-DurationMs to OutputEndTimeMs; Rect is in output space.
type ZoomAction struct {
	ID              string     `json:"id" yaml:"id"`
	OutputEndTimeMs float64    `json:"outputEndTimeMs" yaml:"output_end_time_ms"`
	DurationMs      float64    `json:"durationMs" yaml:"duration_ms"`
	Rect            geom.Rect  `json:"rect" yaml:"rect"`
	Reason          Reason     `json:"reason" yaml:"reason"`
	Type            ActionType `json:"type" yaml:"type"`
}

// Start is the output time at which the transition begins.
func (a ZoomAction) Start() float64 { return a.OutputEndTimeMs - a.DurationMs }

// Validate checks a single action read from outside the engine.
func (a ZoomAction) Validate() error {
	if _, err := ParseReason(string(a.Reason)); err != nil {
		return fmt.Errorf("action %s: %w", a.ID, err)
	}
	if a.Type != ActionAuto && a.Type != ActionManual {
		return fmt.Errorf("action %s: unknown type %q", a.ID, a.Type)
	}
	if a.DurationMs < 0 {
		return fmt.Errorf("action %s: negative duration %.1fms", a.ID, a.DurationMs)
	}
	if a.Rect.Empty() {
		return fmt.Errorf("action %s: empty viewport %+v", a.ID, a.Rect)
	}
	return nil
}

// Schedule is the committed result of one regeneration: the focus areas it
// was built from and the zoom actions ordered by start time. Readers must
// treat it as immutable.
type Schedule struct {
	Version    string       `json:"version" yaml:"version"`
	Output     geom.Size    `json:"output" yaml:"output"`
	FocusAreas []FocusArea  `json:"focusAreas" yaml:"focus_areas"`
	Actions    []ZoomAction `json:"actions" yaml:"actions"`
}

const ScheduleVersion = "1.0"
