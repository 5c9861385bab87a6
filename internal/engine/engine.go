// Package engine wires the mappers, focus extraction, scheduler and
// per-frame queries into one regenerate-then-query pipeline.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jmikh/recordio-sub002/internal/camera"
	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/events"
	"github.com/jmikh/recordio-sub002/internal/focus"
	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/logging"
	"github.com/jmikh/recordio-sub002/internal/renderer"
	"github.com/jmikh/recordio-sub002/internal/timeline"
	"github.com/jmikh/recordio-sub002/internal/viewmap"
)

var ErrNoSchedule = errors.New("no schedule has been generated")

// Snapshot is one committed regeneration. It is never modified after it is
// published, so frames can be read from it concurrently.
type Snapshot struct {
	Schedule *director.Schedule
	Camera   config.CameraSettings
	Time     *timeline.Mapper
	View     *viewmap.Mapper
}

// FrameState is everything a painter needs for one output frame.
type FrameState struct {
	TimeMs   float64              `json:"timeMs"`
	SourceMs float64              `json:"sourceMs"`
	Viewport geom.Rect            `json:"viewport"`
	Zoom     float64              `json:"zoom"`
	Camera   camera.MotionState   `json:"camera"`
	Overlay  geom.Rect            `json:"overlay"`
	Render   *viewmap.RenderRects `json:"render,omitempty"`
	Action   int                  `json:"action"`
}

// Duration is the length of the edited timeline in ms.
func (s *Snapshot) Duration() float64 { return s.Time.OutputDuration() }

// Frame answers the per-frame query at output time t.
func (s *Snapshot) Frame(t float64) FrameState {
	output := s.View.OutputSize()
	vs := renderer.StateAt(s.Schedule.Actions, t, output)
	overlay, motion := camera.OverlayAt(s.Camera, s.Schedule.Actions, t, output)

	return FrameState{
		TimeMs:   t,
		SourceMs: s.Time.OutputToSource(t),
		Viewport: vs.Rect,
		Zoom:     vs.Zoom,
		Camera:   motion,
		Overlay:  overlay,
		Render:   s.View.ResolveRenderRects(vs.Rect),
		Action:   vs.Action,
	}
}

// Engine owns the current snapshot. Regenerate builds a new one off to the
// side and swaps it in; readers keep whichever snapshot they loaded.
type Engine struct {
	cfg     *config.Config
	base    zerolog.Logger
	log     zerolog.Logger
	current atomic.Pointer[Snapshot]
}

func New(cfg *config.Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:  cfg,
		base: logger,
		log:  logging.Component(logger, "engine"),
	}
}

// Current returns the published snapshot, or nil before the first Regenerate.
func (e *Engine) Current() *Snapshot { return e.current.Load() }

// Regenerate rebuilds the schedule from scratch. On error the previously
// published snapshot stays in place.
func (e *Engine) Regenerate(session *Session) (*Snapshot, error) {
	start := time.Now()

	if err := session.Validate(); err != nil {
		return nil, err
	}
	zoom, cam, padding := session.settings(e.cfg)

	tm, err := timeline.NewMapper(session.Windows)
	if err != nil {
		return nil, fmt.Errorf("build time mapper: %w", err)
	}
	output := geom.Size{Width: float64(e.cfg.Output.Width), Height: float64(e.cfg.Output.Height)}
	vm := viewmap.New(session.Input, output, padding, session.Crop)
	if vm.ContentRect().Empty() {
		return nil, fmt.Errorf("%w: nothing of the input is visible on a %vx%v canvas",
			ErrInvalidSession, output.Width, output.Height)
	}

	schedule := &director.Schedule{Version: director.ScheduleVersion, Output: output}

	if zoom.IsAuto {
		ue := events.Remap(&session.Events, tm)
		schedule.FocusAreas = focus.AllFocusAreas(ue, session.Input, tm.OutputDuration(), e.cfg.Focus, e.base)
		schedule.Actions, err = director.NewDirector(zoom, vm, e.base).Schedule(schedule.FocusAreas)
		if err != nil {
			return nil, fmt.Errorf("schedule zoom: %w", err)
		}
	} else {
		schedule.Actions = renderer.SortedByStart(slices.Clone(session.ManualActions))
	}

	snap := &Snapshot{Schedule: schedule, Camera: cam, Time: tm, View: vm}
	e.current.Store(snap)

	e.log.Info().
		Bool("auto", zoom.IsAuto).
		Int("focus_areas", len(schedule.FocusAreas)).
		Int("actions", len(schedule.Actions)).
		Float64("duration_ms", tm.OutputDuration()).
		Dur("took", time.Since(start)).
		Msg("schedule regenerated")

	return snap, nil
}

// Frame queries the current snapshot.
func (e *Engine) Frame(t float64) (FrameState, error) {
	snap := e.current.Load()
	if snap == nil {
		return FrameState{}, ErrNoSchedule
	}
	return snap.Frame(t), nil
}

// SampleTrack evaluates every output frame at fps, split across workers.
// All frames come from the same snapshot even if Regenerate runs meanwhile.
func (e *Engine) SampleTrack(ctx context.Context, fps, workers int) ([]FrameState, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNoSchedule
	}
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}
	if workers <= 0 {
		workers = 1
	}

	count := int(math.Floor(snap.Duration()*float64(fps)/1000)) + 1
	frames := make([]FrameState, count)
	chunk := (count + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < count; lo += chunk {
		hi := min(lo+chunk, count)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				frames[i] = snap.Frame(float64(i) * 1000 / float64(fps))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.log.Debug().Int("frames", count).Int("workers", workers).Msg("track sampled")
	return frames, nil
}
