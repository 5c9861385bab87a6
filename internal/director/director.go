package director

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/logging"
	"github.com/jmikh/recordio-sub002/internal/viewmap"
)

var (
	ErrUnsortedFocusAreas = errors.New("focus areas are not ordered by timestamp")
	ErrInvalidSettings    = errors.New("invalid zoom settings")
)

// sizeTolerance is how much a viewport may change size, in output pixels,
// before it counts as a new zoom level.
const sizeTolerance = 0.1

// Director turns focus areas into a zoom schedule.
type Director struct {
	Settings config.ZoomSettings
	View     *viewmap.Mapper
	log      zerolog.Logger
}

// NewDirector creates a Director for the given output mapping.
func NewDirector(settings config.ZoomSettings, view *viewmap.Mapper, logger zerolog.Logger) *Director {
	return &Director{
		Settings: settings,
		View:     view,
		log:      logging.Component(logger, "director"),
	}
}

// CalculateZoomSchedule converts focus areas into non-overlapping zoom
// actions ordered by start time.
func CalculateZoomSchedule(areas []FocusArea, settings config.ZoomSettings, view *viewmap.Mapper) ([]ZoomAction, error) {
	return NewDirector(settings, view, zerolog.Nop()).Schedule(areas)
}

// scheduleState is the accumulator threaded through the fold.
type scheduleState struct {
	lastViewport geom.Rect
	lastMustSee  geom.Rect
	hasMustSee   bool
	actions      []ZoomAction
}

// Schedule folds areas into zoom actions.
func (d *Director) Schedule(areas []FocusArea) ([]ZoomAction, error) {
	if err := d.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if d.View == nil || d.View.OutputRect().Empty() {
		return nil, fmt.Errorf("%w: empty output canvas", ErrInvalidSettings)
	}
	for i := 1; i < len(areas); i++ {
		if areas[i].Timestamp < areas[i-1].Timestamp {
			return nil, fmt.Errorf("%w: area %d at %.1fms follows %.1fms",
				ErrUnsortedFocusAreas, i, areas[i].Timestamp, areas[i-1].Timestamp)
		}
	}

	acc := scheduleState{lastViewport: d.View.OutputRect()}
	for _, area := range areas {
		acc = d.step(acc, area)
	}

	d.log.Debug().
		Int("focus_areas", len(areas)).
		Int("actions", len(acc.actions)).
		Msg("zoom schedule calculated")

	return acc.actions, nil
}

func (d *Director) step(acc scheduleState, area FocusArea) scheduleState {
	mustSee, viewport := d.target(area)

	if acc.lastViewport.Contains(mustSee) && sameSize(acc.lastViewport, viewport) {
		d.log.Debug().
			Float64("at", area.Timestamp).
			Str("reason", string(area.Reason)).
			Msg("target already in view, skipping")
		return acc
	}

	duration := d.Settings.MaxZoomDurationMs
	n := len(acc.actions)

	if n > 0 {
		prev := acc.actions[n-1]
		if area.Timestamp-duration < prev.OutputEndTimeMs {
			gap := area.Timestamp - prev.OutputEndTimeMs
			if gap < d.Settings.MinZoomDurationMs {
				return d.merge(acc, mustSee, area)
			}
			duration = gap
			d.log.Debug().
				Float64("at", area.Timestamp).
				Float64("duration_ms", gap).
				Msg("shrinking zoom to fit after previous action")
		}
	}

	acc.actions = append(acc.actions, ZoomAction{
		ID:              fmt.Sprintf("auto-%d", n+1),
		OutputEndTimeMs: area.Timestamp,
		DurationMs:      duration,
		Rect:            viewport,
		Reason:          area.Reason,
		Type:            ActionAuto,
	})
	acc.lastViewport = viewport
	acc.lastMustSee = mustSee
	acc.hasMustSee = true
	return acc
}

// merge widens the previous action so it also covers mustSee.
func (d *Director) merge(acc scheduleState, mustSee geom.Rect, area FocusArea) scheduleState {
	union := mustSee
	if acc.hasMustSee {
		union = acc.lastMustSee.Union(mustSee)
	}
	viewport := d.fitViewport(union)

	last := len(acc.actions) - 1
	acc.actions[last].Rect = viewport
	acc.lastViewport = viewport
	acc.lastMustSee = union
	acc.hasMustSee = true

	d.log.Debug().
		Float64("at", area.Timestamp).
		Str("into", acc.actions[last].ID).
		Msg("too close to previous action, merged")
	return acc
}

// target returns the output-space rect that must be visible for area and
// the viewport chosen to show it.
func (d *Director) target(area FocusArea) (mustSee, viewport geom.Rect) {
	if area.Reason.ZoomsOut() || area.Rect.Contains(d.View.EffectiveInput()) {
		full := d.View.OutputRect()
		return full, full
	}
	mustSee = d.View.InputToOutputRect(area.Rect)
	return mustSee, d.fitViewport(mustSee)
}

// fitViewport returns the smallest viewport with the output aspect ratio that
// contains r, no smaller than output/maxZoom, centered on r and kept on canvas.
func (d *Director) fitViewport(r geom.Rect) geom.Rect {
	out := d.View.OutputSize()
	full := d.View.OutputRect()
	aspect := out.Width / out.Height

	w := math.Max(math.Max(r.Width, r.Height*aspect), out.Width/d.Settings.MaxZoom)
	if w >= out.Width {
		return full
	}
	h := w * out.Height / out.Width

	return geom.RectAround(r.Center(), w, h).ClampInside(full)
}

func sameSize(a, b geom.Rect) bool {
	return math.Abs(a.Width-b.Width) <= sizeTolerance && math.Abs(a.Height-b.Height) <= sizeTolerance
}
