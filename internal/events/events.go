package events

import (
	"github.com/jmikh/recordio-sub002/internal/geom"
)

// Kind identifies the event variant.
type Kind string

const (
	KindClick         Kind = "click"
	KindMousePosition Kind = "mousepos"
	KindDrag          Kind = "drag"
	KindScroll        Kind = "scroll"
	KindKeyboard      Kind = "keyboard"
	KindURLChange     Kind = "urlchange"
	KindHoveredCard   Kind = "hover"
)

// Event is a single timestamped user input. Timestamps are milliseconds,
// on the source clock until remapped.
type Event interface {
	Kind() Kind
	Time() float64
}

// Ranged is implemented by events that last over an interval.
type Ranged interface {
	Event
	End() float64
}

// Targeted is implemented by events that may carry the bounds of the UI
// element they touched.
type Targeted interface {
	Event
	Target() *geom.Rect
}

type Click struct {
	Timestamp  float64    `json:"timestamp"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Button     string     `json:"button,omitempty"`
	TargetRect *geom.Rect `json:"targetRect,omitempty"`
}

func (e Click) Kind() Kind         { return KindClick }
func (e Click) Time() float64      { return e.Timestamp }
func (e Click) Target() *geom.Rect { return e.TargetRect }
func (e Click) Point() geom.Point  { return geom.Point{X: e.X, Y: e.Y} }

type MousePosition struct {
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

func (e MousePosition) Kind() Kind        { return KindMousePosition }
func (e MousePosition) Time() float64     { return e.Timestamp }
func (e MousePosition) Point() geom.Point { return geom.Point{X: e.X, Y: e.Y} }

type Drag struct {
	Timestamp  float64    `json:"timestamp"`
	EndTime    float64    `json:"endTime"`
	StartX     float64    `json:"startX"`
	StartY     float64    `json:"startY"`
	EndX       float64    `json:"endX"`
	EndY       float64    `json:"endY"`
	TargetRect *geom.Rect `json:"targetRect,omitempty"`
}

func (e Drag) Kind() Kind         { return KindDrag }
func (e Drag) Time() float64      { return e.Timestamp }
func (e Drag) End() float64       { return e.EndTime }
func (e Drag) Target() *geom.Rect { return e.TargetRect }

type Scroll struct {
	Timestamp  float64    `json:"timestamp"`
	EndTime    float64    `json:"endTime"`
	DeltaY     float64    `json:"deltaY,omitempty"`
	TargetRect *geom.Rect `json:"targetRect,omitempty"`
}

func (e Scroll) Kind() Kind         { return KindScroll }
func (e Scroll) Time() float64      { return e.Timestamp }
func (e Scroll) End() float64       { return e.EndTime }
func (e Scroll) Target() *geom.Rect { return e.TargetRect }

// Keyboard is a typing burst into one element.
type Keyboard struct {
	Timestamp  float64    `json:"timestamp"`
	EndTime    float64    `json:"endTime"`
	Keys       string     `json:"keys,omitempty"`
	TargetRect *geom.Rect `json:"targetRect,omitempty"`
}

func (e Keyboard) Kind() Kind         { return KindKeyboard }
func (e Keyboard) Time() float64      { return e.Timestamp }
func (e Keyboard) End() float64       { return e.EndTime }
func (e Keyboard) Target() *geom.Rect { return e.TargetRect }

type URLChange struct {
	Timestamp float64 `json:"timestamp"`
	URL       string  `json:"url"`
}

func (e URLChange) Kind() Kind    { return KindURLChange }
func (e URLChange) Time() float64 { return e.Timestamp }

// HoveredCard is a span during which the pointer rested on a UI card.
type HoveredCard struct {
	Timestamp  float64    `json:"timestamp"`
	EndTime    float64    `json:"endTime"`
	TargetRect *geom.Rect `json:"targetRect,omitempty"`
}

func (e HoveredCard) Kind() Kind         { return KindHoveredCard }
func (e HoveredCard) Time() float64      { return e.Timestamp }
func (e HoveredCard) End() float64       { return e.EndTime }
func (e HoveredCard) Target() *geom.Rect { return e.TargetRect }

// EndOf returns the end of a ranged event or the timestamp of a point event.
func EndOf(e Event) float64 {
	if r, ok := e.(Ranged); ok {
		return r.End()
	}
	return e.Time()
}

// TargetOf returns the target rect of e, if it has one.
func TargetOf(e Event) *geom.Rect {
	if t, ok := e.(Targeted); ok {
		return t.Target()
	}
	return nil
}
