// Package renderer answers per-frame viewport queries against a committed
// zoom schedule. Every function here is pure and safe to call from many
// goroutines with arbitrary, non-monotonic times.
package renderer

import (
	"cmp"
	"math"
	"slices"

	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/geom"
)

// ViewportState describes the viewport at a moment of output time.
type ViewportState struct {
	Rect          geom.Rect
	Zoom          float64 // output width / viewport width
	Transitioning bool
	Action        int // index of the governing action, -1 before the first
}

// ViewportAt returns the interpolated viewport at t (output ms).
func ViewportAt(actions []director.ZoomAction, t float64, output geom.Size) geom.Rect {
	return StateAt(actions, t, output).Rect
}

// StateAt walks the actions in start order. An action governs from its
// start until it completes or the next action starts; an interrupted action
// hands over from wherever it actually was.
func StateAt(actions []director.ZoomAction, t float64, output geom.Size) ViewportState {
	actions = SortedByStart(actions)

	state := ViewportState{Rect: geom.FullRect(output), Action: -1}
	for i, a := range actions {
		start := a.Start()
		if t < start {
			break
		}

		last := i == len(actions)-1
		limit := t
		if !last {
			limit = math.Min(t, actions[i+1].Start())
		}

		p := Progress(a, limit)
		state.Rect = geom.Lerp(state.Rect, a.Rect, EaseInOut(p))
		state.Action = i

		if last || t < actions[i+1].Start() {
			state.Transitioning = p < 1
			break
		}
	}

	state.Zoom = zoomLevel(state.Rect, output)
	return state
}

// Progress is how far a's transition has run at t, in [0, 1].
func Progress(a director.ZoomAction, t float64) float64 {
	if a.DurationMs <= 0 || t >= a.OutputEndTimeMs {
		return 1
	}
	return geom.Clamp01((t - a.Start()) / a.DurationMs)
}

// EaseInOut is the quadratic ease-in-out curve.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func zoomLevel(viewport geom.Rect, output geom.Size) float64 {
	if !(viewport.Width > 0) {
		return 1
	}
	return output.Width / viewport.Width
}

// SortedByStart returns actions unchanged when already ordered, otherwise a
// sorted copy. The caller's slice is never reordered.
func SortedByStart(actions []director.ZoomAction) []director.ZoomAction {
	for i := 1; i < len(actions); i++ {
		if actions[i].Start() < actions[i-1].Start() {
			sorted := slices.Clone(actions)
			slices.SortStableFunc(sorted, func(a, b director.ZoomAction) int {
				return cmp.Compare(a.Start(), b.Start())
			})
			return sorted
		}
	}
	return actions
}
