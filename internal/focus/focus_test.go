package focus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/events"
	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/logging"
)

var screen = geom.Size{Width: 1920, Height: 1080}

func areasFor(t *testing.T, ue *events.UserEvents, duration float64) []director.FocusArea {
	t.Helper()
	ue.Normalize()
	areas := AllFocusAreas(ue, screen, duration, config.DefaultFocusSettings(), zerolog.Nop())
	for i, a := range areas {
		t.Logf("area %d: t=%.0f reason=%s rect=%+v", i, a.Timestamp, a.Reason, a.Rect)
	}
	return areas
}

func reasonsOf(areas []director.FocusArea) []director.Reason {
	out := make([]director.Reason, len(areas))
	for i, a := range areas {
		out[i] = a.Reason
	}
	return out
}

func sameReasons(a, b []director.Reason) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestClickBox(t *testing.T) {
	ue := &events.UserEvents{MouseClicks: []events.Click{{Timestamp: 1000, X: 500, Y: 400}}}
	areas := areasFor(t, ue, 10000)

	want := []director.Reason{director.ReasonClick, director.ReasonFinalZoomout}
	if !sameReasons(reasonsOf(areas), want) {
		t.Fatalf("reasons = %v, want %v", reasonsOf(areas), want)
	}

	// 0.2 * 1920 = 384
	box := geom.Rect{X: 308, Y: 208, Width: 384, Height: 384}
	if !areas[0].Rect.ApproxEqual(box, 1e-9) {
		t.Errorf("click rect = %+v, want %+v", areas[0].Rect, box)
	}
	if areas[1].Timestamp != 3001 {
		t.Errorf("final zoom-out at %.0f, want 3001", areas[1].Timestamp)
	}
	if areas[1].Rect != geom.FullRect(screen) {
		t.Errorf("final zoom-out must show the full frame, got %+v", areas[1].Rect)
	}
}

func TestClickBoxClippedAtEdge(t *testing.T) {
	ue := &events.UserEvents{MouseClicks: []events.Click{{Timestamp: 1000, X: 10, Y: 10}}}
	areas := areasFor(t, ue, 10000)

	want := geom.Rect{X: 0, Y: 0, Width: 202, Height: 202}
	if !areas[0].Rect.ApproxEqual(want, 1e-9) {
		t.Errorf("edge click rect = %+v, want %+v", areas[0].Rect, want)
	}
}

func TestInactivityDefersTarget(t *testing.T) {
	tests := []struct {
		name       string
		second     float64
		inactivity bool
	}{
		{"exactly threshold", 6001, true},
		{"well past threshold", 9000, true},
		{"just under threshold", 6000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ue := &events.UserEvents{MouseClicks: []events.Click{
				{Timestamp: 1000, X: 500, Y: 400},
				{Timestamp: tt.second, X: 900, Y: 600},
			}}
			areas := areasFor(t, ue, 30000)

			want := []director.Reason{director.ReasonClick, director.ReasonClick, director.ReasonFinalZoomout}
			if tt.inactivity {
				want = []director.Reason{director.ReasonClick, director.ReasonInactivity, director.ReasonClick, director.ReasonFinalZoomout}
			}
			if !sameReasons(reasonsOf(areas), want) {
				t.Fatalf("reasons = %v, want %v", reasonsOf(areas), want)
			}

			if tt.inactivity {
				if areas[1].Timestamp != 3001 {
					t.Errorf("inactivity at %.0f, want 3001", areas[1].Timestamp)
				}
				if areas[1].Rect != geom.FullRect(screen) {
					t.Errorf("inactivity must show the full frame, got %+v", areas[1].Rect)
				}
				if areas[2].Timestamp != tt.second {
					t.Errorf("deferred click at %.0f, want %.0f", areas[2].Timestamp, tt.second)
				}
			}
		})
	}
}

func TestURLChangeShowsFullFrame(t *testing.T) {
	ue := &events.UserEvents{
		URLChanges:  []events.URLChange{{Timestamp: 2000, URL: "https://example.com"}},
		MouseClicks: []events.Click{{Timestamp: 4000, X: 100, Y: 100}},
	}
	areas := areasFor(t, ue, 20000)

	if areas[0].Reason != director.ReasonURLChange || areas[0].Rect != geom.FullRect(screen) {
		t.Errorf("first area = %+v, want full-frame url change", areas[0])
	}
	// The url change pushes the cursor 1000ms ahead.
	if areas[len(areas)-1].Timestamp != 6001 {
		t.Errorf("final zoom-out at %.0f, want 6001", areas[len(areas)-1].Timestamp)
	}
}

func TestMissingTargetFallsBackWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf)

	ue := &events.UserEvents{Scrolls: []events.Scroll{{Timestamp: 1000, EndTime: 1500, DeltaY: 200}}}
	ue.Normalize()
	areas := AllFocusAreas(ue, screen, 10000, config.DefaultFocusSettings(), logger)

	if areas[0].Reason != director.ReasonScroll {
		t.Fatalf("first reason = %s, want scroll", areas[0].Reason)
	}
	if areas[0].Rect != geom.FullRect(screen) {
		t.Errorf("scroll without target should focus full frame, got %+v", areas[0].Rect)
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("expected a warning, log was: %s", buf.String())
	}
}

func TestOngoingRangeEventIsStillACandidate(t *testing.T) {
	target := &geom.Rect{X: 100, Y: 100, Width: 300, Height: 200}
	ue := &events.UserEvents{
		URLChanges: []events.URLChange{{Timestamp: 500, URL: "a"}},
		Scrolls:    []events.Scroll{{Timestamp: 1000, EndTime: 4000, TargetRect: target}},
	}
	areas := areasFor(t, ue, 10000)

	if len(areas) != 3 {
		t.Fatalf("got %d areas, want 3", len(areas))
	}
	if areas[1].Reason != director.ReasonScroll || areas[1].Timestamp != 1500 {
		t.Errorf("scroll area = %+v, want scroll at 1500", areas[1])
	}
	if areas[1].Rect != *target {
		t.Errorf("scroll rect = %+v, want %+v", areas[1].Rect, *target)
	}
}

func TestRangeEventHoldsCursorUntilItEnds(t *testing.T) {
	target := &geom.Rect{X: 200, Y: 200, Width: 600, Height: 400}
	tests := []struct {
		name  string
		click []events.Click
		want  []director.Reason
		times []float64
	}{
		{
			name:  "late click",
			click: []events.Click{{Timestamp: 21000, X: 900, Y: 500}},
			want:  []director.Reason{director.ReasonScroll, director.ReasonClick, director.ReasonFinalZoomout},
			times: []float64{1000, 21000, 23001},
		},
		{
			name:  "nothing after",
			want:  []director.Reason{director.ReasonScroll, director.ReasonFinalZoomout},
			times: []float64{1000, 22001},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ue := &events.UserEvents{
				Scrolls:     []events.Scroll{{Timestamp: 1000, EndTime: 20000, TargetRect: target}},
				MouseClicks: tt.click,
			}
			areas := areasFor(t, ue, 30000)

			if !sameReasons(reasonsOf(areas), tt.want) {
				t.Fatalf("reasons = %v, want %v", reasonsOf(areas), tt.want)
			}
			for i, at := range tt.times {
				if areas[i].Timestamp != at {
					t.Errorf("area %d at %.0f, want %.0f", i, areas[i].Timestamp, at)
				}
			}
		})
	}
}

func TestTargetedKinds(t *testing.T) {
	target := &geom.Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		name   string
		ue     *events.UserEvents
		reason director.Reason
	}{
		{"hovered card", &events.UserEvents{HoveredCards: []events.HoveredCard{{Timestamp: 100, EndTime: 900, TargetRect: target}}}, director.ReasonHover},
		{"drag", &events.UserEvents{Drags: []events.Drag{{Timestamp: 100, EndTime: 900, TargetRect: target}}}, director.ReasonDrag},
		{"keyboard", &events.UserEvents{KeyboardEvents: []events.Keyboard{{Timestamp: 100, EndTime: 900, Keys: "abc", TargetRect: target}}}, director.ReasonTyping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			areas := areasFor(t, tt.ue, 5000)
			if areas[0].Reason != tt.reason || areas[0].Rect != *target {
				t.Errorf("area = %+v, want %s on %+v", areas[0], tt.reason, *target)
			}
		})
	}
}

func TestHoverDwell(t *testing.T) {
	var positions []events.MousePosition
	for ts := 1000.0; ts <= 2500; ts += 100 {
		positions = append(positions, events.MousePosition{Timestamp: ts, X: 800 + float64(int(ts)%3), Y: 600})
	}
	ue := &events.UserEvents{
		MousePositions: positions,
		MouseClicks:    []events.Click{{Timestamp: 5000, X: 100, Y: 100}},
	}
	areas := areasFor(t, ue, 20000)

	want := []director.Reason{director.ReasonHover, director.ReasonClick, director.ReasonFinalZoomout}
	if !sameReasons(reasonsOf(areas), want) {
		t.Fatalf("reasons = %v, want %v", reasonsOf(areas), want)
	}
	if areas[0].Timestamp != 1000 {
		t.Errorf("hover at %.0f, want 1000", areas[0].Timestamp)
	}
	// Grown to the 0.1 * 1920 minimum square.
	if areas[0].Rect.Width != 192 || areas[0].Rect.Height != 192 {
		t.Errorf("hover rect = %+v, want 192x192", areas[0].Rect)
	}
}

func TestClickDisruptsHover(t *testing.T) {
	var positions []events.MousePosition
	for ts := 1000.0; ts <= 2500; ts += 100 {
		positions = append(positions, events.MousePosition{Timestamp: ts, X: 800, Y: 600})
	}
	ue := &events.UserEvents{
		MousePositions: positions,
		MouseClicks:    []events.Click{{Timestamp: 1800, X: 800, Y: 600}},
	}
	areas := areasFor(t, ue, 20000)

	want := []director.Reason{director.ReasonClick, director.ReasonFinalZoomout}
	if !sameReasons(reasonsOf(areas), want) {
		t.Errorf("reasons = %v, want %v", reasonsOf(areas), want)
	}
}

func TestStepIsPure(t *testing.T) {
	ue := &events.UserEvents{MouseClicks: []events.Click{
		{Timestamp: 1000, X: 500, Y: 400},
		{Timestamp: 9000, X: 900, Y: 600},
	}}
	ue.Normalize()
	f := New(ue, screen, 20000, config.DefaultFocusSettings(), zerolog.Nop())

	s0 := f.Start()
	s1, a1, ok1 := f.Step(s0)
	s1b, a1b, ok1b := f.Step(s0)
	if !ok1 || !ok1b || a1 != a1b || s1.Current != s1b.Current {
		t.Fatalf("stepping the same state twice gave different results: %+v vs %+v", a1, a1b)
	}

	_, a2, _ := f.Step(s1)
	if a2.Reason != director.ReasonInactivity {
		t.Errorf("second area = %s, want inactivity", a2.Reason)
	}
	if s0.Current != 0 || s0.EventIndex != 0 {
		t.Error("Step mutated its input state")
	}
}

func TestAreasOrderedAndExhaustible(t *testing.T) {
	ue := &events.UserEvents{
		MouseClicks: []events.Click{{Timestamp: 100, X: 1, Y: 1}, {Timestamp: 300, X: 2, Y: 2}, {Timestamp: 12000, X: 3, Y: 3}},
		URLChanges:  []events.URLChange{{Timestamp: 200, URL: "x"}},
	}
	ue.Normalize()
	f := New(ue, screen, 12500, config.DefaultFocusSettings(), zerolog.Nop())

	var areas []director.FocusArea
	for a := range f.Areas() {
		areas = append(areas, a)
	}
	for i := 1; i < len(areas); i++ {
		if areas[i].Timestamp < areas[i-1].Timestamp {
			t.Errorf("area %d at %.0f precedes %.0f", i, areas[i].Timestamp, areas[i-1].Timestamp)
		}
	}
	if areas[len(areas)-1].Reason != director.ReasonFinalZoomout {
		t.Errorf("last area = %s, want final_zoomout", areas[len(areas)-1].Reason)
	}

	s := f.Start()
	for {
		var ok bool
		s, _, ok = f.Step(s)
		if !ok {
			break
		}
	}
	if _, _, ok := f.Step(s); ok {
		t.Error("Step after the final zoom-out must report done")
	}
}

func TestNoEvents(t *testing.T) {
	areas := areasFor(t, &events.UserEvents{}, 1000)
	if len(areas) != 1 || areas[0].Reason != director.ReasonFinalZoomout {
		t.Fatalf("areas = %+v, want a single final zoom-out", areas)
	}
	if areas[0].Timestamp != 500 {
		t.Errorf("final zoom-out at %.0f, want 500", areas[0].Timestamp)
	}
}
