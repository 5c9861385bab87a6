// Package focus extracts the moments worth looking at from a recording's
// remapped event stream.
package focus

import (
	"iter"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/events"
	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/logging"
)

// CursorState is the position of a single forward pass over the events.
// Step never mutates a state it is given.
type CursorState struct {
	Current    float64
	EventIndex int
	Hover      HoverDetector
	Done       bool

	pending    candidate
	hasPending bool
}

// candidate is the next thing the camera could look at. event is nil for
// a detected hover.
type candidate struct {
	at    float64
	index int
	event events.Event
	hover Hover
}

// Focuser turns output-time events into focus areas.
type Focuser struct {
	explicit []events.Event
	hover    HoverDetector
	viewport geom.Rect
	duration float64
	settings config.FocusSettings
	log      zerolog.Logger
}

// New prepares a Focuser. ue must already be in output time; sourceSize is
// the raw capture size, which bounds every focus rect.
func New(ue *events.UserEvents, sourceSize geom.Size, outputDuration float64, s config.FocusSettings, logger zerolog.Logger) *Focuser {
	return &Focuser{
		explicit: ue.Explicit(),
		hover:    NewHoverDetector(ue.MousePositions, disruptionsOf(ue), sourceSize, s),
		viewport: geom.FullRect(sourceSize),
		duration: outputDuration,
		settings: s,
		log:      logging.Component(logger, "focus"),
	}
}

// Start returns the state before the first event.
func (f *Focuser) Start() CursorState {
	return CursorState{Hover: f.hover}
}

// Step emits the next focus area. ok is false once the final zoom-out has
// been emitted.
func (f *Focuser) Step(s CursorState) (CursorState, director.FocusArea, bool) {
	if s.Done {
		return s, director.FocusArea{}, false
	}

	if s.hasPending {
		c := s.pending
		s.pending, s.hasPending = candidate{}, false
		return f.process(s, c)
	}

	c, ok := f.next(s)
	if !ok {
		at := math.Max(s.Current, math.Min(s.Current+f.settings.FinalZoomoutDelayMs, f.duration-f.settings.FinalZoomoutTailMs))
		s.Done = true
		return s, director.FocusArea{Timestamp: at, Rect: f.viewport, Reason: director.ReasonFinalZoomout}, true
	}

	if gap := c.at - s.Current; gap >= f.settings.InactivityMs {
		area := director.FocusArea{
			Timestamp: s.Current + f.settings.InactivityBufferMs,
			Rect:      f.viewport,
			Reason:    director.ReasonInactivity,
		}
		s.pending, s.hasPending = c, true
		s.Current = c.at - 1
		return s, area, true
	}

	return f.process(s, c)
}

// next finds the earliest candidate: a hover strictly before the next
// explicit event, otherwise that event.
func (f *Focuser) next(s CursorState) (candidate, bool) {
	var (
		explicit candidate
		found    bool
	)
	for i := s.EventIndex; i < len(f.explicit); i++ {
		e := f.explicit[i]
		if events.EndOf(e) < s.Current {
			continue
		}
		explicit = candidate{at: math.Max(e.Time(), s.Current), index: i, event: e}
		found = true
		break
	}

	limit := math.Inf(1)
	if found {
		limit = explicit.at
	}
	if h, ok := s.Hover.FindNext(s.Current, limit); ok {
		return candidate{at: h.Start, index: -1, hover: h}, true
	}
	return explicit, found
}

func (f *Focuser) process(s CursorState, c candidate) (CursorState, director.FocusArea, bool) {
	advance := f.settings.PointEventAdvanceMs
	var (
		rect   geom.Rect
		reason director.Reason
	)

	switch e := c.event.(type) {
	case nil:
		side := s.Hover.MinSide()
		rect = geom.RectAround(c.hover.Box.Center(), math.Max(c.hover.Box.Width, side), math.Max(c.hover.Box.Height, side))
		reason = director.ReasonHover
	case events.Click:
		side := f.settings.ClickBoxFraction * math.Max(f.viewport.Width, f.viewport.Height)
		rect = geom.RectAround(e.Point(), side, side)
		reason = director.ReasonClick
	case events.URLChange:
		rect = f.viewport
		reason = director.ReasonURLChange
		advance = f.settings.URLChangeAdvanceMs
	case events.HoveredCard:
		rect = f.targetRect(e)
		reason = director.ReasonHover
	case events.Scroll:
		rect = f.targetRect(e)
		reason = director.ReasonScroll
	case events.Drag:
		rect = f.targetRect(e)
		reason = director.ReasonDrag
	case events.Keyboard:
		rect = f.targetRect(e)
		reason = director.ReasonTyping
	default:
		rect = f.targetRect(e)
		reason = director.ReasonAuto
	}

	if clipped, ok := rect.Intersect(f.viewport); ok {
		rect = clipped
	} else {
		rect = f.viewport
	}

	at := math.Max(c.at, s.Current)
	if c.event != nil {
		s.EventIndex = c.index + 1
	}
	s.Current = at + advance
	// A range event holds the cursor until it ends.
	if r, ok := c.event.(events.Ranged); ok {
		s.Current = math.Max(at, r.End()) + advance
	}
	s.Hover = s.Hover.AdvancePast(math.Max(s.Current, c.hover.End))

	return s, director.FocusArea{Timestamp: at, Rect: rect, Reason: reason}, true
}

func (f *Focuser) targetRect(e events.Event) geom.Rect {
	if r := events.TargetOf(e); r != nil {
		return *r
	}
	f.log.Warn().
		Str("kind", string(e.Kind())).
		Float64("at", e.Time()).
		Msg("event has no target rect, focusing full viewport")
	return f.viewport
}

// Areas yields focus areas in timestamp order. The sequence can be ranged
// over more than once; each pass starts from the beginning.
func (f *Focuser) Areas() iter.Seq[director.FocusArea] {
	return func(yield func(director.FocusArea) bool) {
		s := f.Start()
		for {
			var (
				area director.FocusArea
				ok   bool
			)
			s, area, ok = f.Step(s)
			if !ok || !yield(area) {
				return
			}
		}
	}
}

// AllFocusAreas drains a fresh Focuser over ue.
func AllFocusAreas(ue *events.UserEvents, sourceSize geom.Size, outputDuration float64, s config.FocusSettings, logger zerolog.Logger) []director.FocusArea {
	return slices.Collect(New(ue, sourceSize, outputDuration, s, logger).Areas())
}
