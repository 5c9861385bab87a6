package camera

import (
	"math"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/renderer"
)

// fullScreenTolerance is how far, in output pixels, a viewport may be from
// the full canvas and still count as zoomed out.
const fullScreenTolerance = 0.5

// MotionState is the overlay size at a moment. It is recomputed every frame.
type MotionState struct {
	SizeScale       float64 `json:"sizeScale"`
	IsTransitioning bool    `json:"isTransitioning"`
}

// StateAt follows the first zoom-in and the first full-screen action after
// it: full size before the zoom-in, shrinking during it, shrunk until the
// zoom-out, growing back during it, and full size afterwards. Without a
// zoom-out the overlay stays shrunk.
func StateAt(actions []director.ZoomAction, t float64, output geom.Size, shrinkScale float64) MotionState {
	actions = renderer.SortedByStart(actions)

	in := -1
	for i, a := range actions {
		if !isFullScreen(a.Rect, output) {
			in = i
			break
		}
	}
	if in < 0 {
		return MotionState{SizeScale: 1}
	}
	zoomIn := actions[in]

	out := -1
	for j := in + 1; j < len(actions); j++ {
		if isFullScreen(actions[j].Rect, output) {
			out = j
			break
		}
	}

	if t < zoomIn.Start() {
		return MotionState{SizeScale: 1}
	}

	// A zoom-out that starts before the zoom-in finishes cuts it short.
	shrinkEnd := zoomIn.OutputEndTimeMs
	if out >= 0 {
		shrinkEnd = math.Min(shrinkEnd, actions[out].Start())
	}
	if t < shrinkEnd {
		return MotionState{SizeScale: shrinkAt(zoomIn, t, shrinkScale), IsTransitioning: true}
	}

	reached := shrinkAt(zoomIn, shrinkEnd, shrinkScale)
	if out < 0 {
		return MotionState{SizeScale: reached}
	}

	zoomOut := actions[out]
	if t < zoomOut.Start() {
		return MotionState{SizeScale: reached}
	}
	if t < zoomOut.OutputEndTimeMs {
		p := renderer.EaseInOut(renderer.Progress(zoomOut, t))
		return MotionState{SizeScale: geom.LerpFloat(reached, 1, p), IsTransitioning: true}
	}
	return MotionState{SizeScale: 1}
}

func shrinkAt(zoomIn director.ZoomAction, t, shrinkScale float64) float64 {
	return geom.LerpFloat(1, shrinkScale, renderer.EaseInOut(renderer.Progress(zoomIn, t)))
}

func isFullScreen(r geom.Rect, output geom.Size) bool {
	return r.ApproxEqual(geom.FullRect(output), fullScreenTolerance)
}

// OverlayAt returns where the overlay is drawn at t. With auto-shrink off it
// never moves.
func OverlayAt(cam config.CameraSettings, actions []director.ZoomAction, t float64, output geom.Size) (geom.Rect, MotionState) {
	if !cam.AutoShrink {
		return Rect(cam), MotionState{SizeScale: 1}
	}
	state := StateAt(actions, t, output, cam.ShrinkScale)
	scaled := ScaleSettings(cam, state.SizeScale, AnchorOf(cam, output))
	return Rect(scaled), state
}
