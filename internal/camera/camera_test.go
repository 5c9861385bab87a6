package camera

import (
	"math"
	"testing"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/geom"
)

var output = geom.Size{Width: 1920, Height: 1080}

func zoom(end, dur float64, r geom.Rect) director.ZoomAction {
	return director.ZoomAction{OutputEndTimeMs: end, DurationMs: dur, Rect: r, Reason: director.ReasonAuto, Type: director.ActionAuto}
}

var (
	zoomedIn = geom.Rect{X: 425, Y: 235, Width: 960, Height: 540}
	fullView = geom.FullRect(output)
)

func TestAnchorOf(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Anchor
	}{
		{"top left", 20, 20, AnchorTopLeft},
		{"top right", 1500, 20, AnchorTopRight},
		{"bottom left", 20, 800, AnchorBottomLeft},
		{"bottom right", 1440, 760, AnchorBottomRight},
		{"centered", 860, 410, AnchorTopLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := config.CameraSettings{X: tt.x, Y: tt.y, Width: 200, Height: 260}
			if got := AnchorOf(cam, output); got != tt.want {
				t.Errorf("AnchorOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScaleSettingsKeepsCorner(t *testing.T) {
	cam := config.CameraSettings{X: 100, Y: 200, Width: 400, Height: 260}

	tests := []struct {
		anchor Anchor
		corner func(c config.CameraSettings) geom.Point
	}{
		{AnchorTopLeft, func(c config.CameraSettings) geom.Point { return geom.Point{X: c.X, Y: c.Y} }},
		{AnchorTopRight, func(c config.CameraSettings) geom.Point { return geom.Point{X: c.X + c.Width, Y: c.Y} }},
		{AnchorBottomLeft, func(c config.CameraSettings) geom.Point { return geom.Point{X: c.X, Y: c.Y + c.Height} }},
		{AnchorBottomRight, func(c config.CameraSettings) geom.Point { return geom.Point{X: c.X + c.Width, Y: c.Y + c.Height} }},
	}

	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			scaled := ScaleSettings(cam, 0.5, tt.anchor)
			if scaled.Width != 200 || scaled.Height != 130 {
				t.Errorf("size = %vx%v, want 200x130", scaled.Width, scaled.Height)
			}
			if before, after := tt.corner(cam), tt.corner(scaled); before != after {
				t.Errorf("anchored corner moved from %+v to %+v", before, after)
			}
		})
	}
}

func TestStateAtPhases(t *testing.T) {
	actions := []director.ZoomAction{
		zoom(3000, 750, zoomedIn),
		zoom(9000, 750, fullView),
	}

	tests := []struct {
		name          string
		t             float64
		scale         float64
		transitioning bool
	}{
		{"before zoom-in", 1000, 1, false},
		{"mid zoom-in", 2625, 0.75, true},
		{"zoom-in done", 3000, 0.5, false},
		{"plateau", 5000, 0.5, false},
		{"mid zoom-out", 8625, 0.75, true},
		{"zoom-out done", 9000, 1, false},
		{"long after", 100000, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StateAt(actions, tt.t, output, 0.5)
			if math.Abs(got.SizeScale-tt.scale) > 1e-9 || got.IsTransitioning != tt.transitioning {
				t.Errorf("StateAt(%.0f) = %+v, want scale %v transitioning %v", tt.t, got, tt.scale, tt.transitioning)
			}
		})
	}
}

func TestStaysShrunkWithoutZoomOut(t *testing.T) {
	actions := []director.ZoomAction{
		zoom(3000, 750, zoomedIn),
		zoom(6000, 750, geom.Rect{X: 0, Y: 0, Width: 960, Height: 540}),
	}
	if got := StateAt(actions, 100000, output, 0.4); got.SizeScale != 0.4 {
		t.Errorf("scale = %v, want 0.4", got.SizeScale)
	}
}

func TestLeadingFullScreenIgnored(t *testing.T) {
	actions := []director.ZoomAction{
		zoom(1000, 750, fullView),
		zoom(3000, 750, zoomedIn),
	}
	if got := StateAt(actions, 1500, output, 0.5); got.SizeScale != 1 {
		t.Errorf("scale = %v, want 1 before the first zoom-in", got.SizeScale)
	}
	if got := StateAt(actions, 3000, output, 0.5); got.SizeScale != 0.5 {
		t.Errorf("scale = %v, want 0.5 after the zoom-in", got.SizeScale)
	}
}

func TestZoomOutInterruptsShrink(t *testing.T) {
	in := zoom(3000, 750, zoomedIn)  // 2250..3000
	out := zoom(3300, 750, fullView) // 2550..3300
	actions := []director.ZoomAction{in, out}

	// Progress 0.4 eases to 0.32, so the shrink reached 1 - 0.5*0.32.
	const cut = 0.84

	before := StateAt(actions, 2549.999, output, 0.5)
	at := StateAt(actions, 2550, output, 0.5)
	if math.Abs(before.SizeScale-cut) > 1e-4 {
		t.Errorf("scale just before cut = %v, want ~%v", before.SizeScale, cut)
	}
	if math.Abs(at.SizeScale-cut) > 1e-12 {
		t.Errorf("zoom-out should start from %v, got %v", cut, at.SizeScale)
	}
	if !at.IsTransitioning {
		t.Error("expected transitioning at the cut")
	}
	if got := StateAt(actions, 3300, output, 0.5); got.SizeScale != 1 {
		t.Errorf("after zoom-out scale = %v, want 1", got.SizeScale)
	}
}

func TestNoZoomIn(t *testing.T) {
	if got := StateAt(nil, 5000, output, 0.5); got.SizeScale != 1 || got.IsTransitioning {
		t.Errorf("empty schedule state = %+v", got)
	}
}

func TestOverlayAt(t *testing.T) {
	cam := config.DefaultCameraSettings()
	actions := []director.ZoomAction{zoom(3000, 750, zoomedIn)}

	rect, state := OverlayAt(cam, actions, 5000, output)
	want := geom.Rect{X: 1640, Y: 890, Width: 200, Height: 130}
	if rect != want || state.SizeScale != 0.5 {
		t.Errorf("overlay = %+v (%+v), want %+v", rect, state, want)
	}

	cam.AutoShrink = false
	rect, _ = OverlayAt(cam, actions, 5000, output)
	if rect != Rect(cam) {
		t.Errorf("overlay without auto-shrink moved to %+v", rect)
	}
}
