package focus

import (
	"math"
	"sort"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/events"
	"github.com/jmikh/recordio-sub002/internal/geom"
)

// Hover is a dwell region derived from consecutive mouse positions.
type Hover struct {
	Start float64
	End   float64
	Box   geom.Rect
}

// HoverDetector scans mouse positions for places where the pointer rested.
// It is a value type: AdvancePast returns a new detector and the position and
// disruption slices are never modified.
type HoverDetector struct {
	positions   []events.MousePosition
	disruptions []float64
	maxExtent   float64
	minDwell    float64
	margin      float64
	index       int
}

// NewHoverDetector builds a detector over time-sorted positions. Disruptions
// are the times of clicks, scroll starts and drag starts.
func NewHoverDetector(positions []events.MousePosition, disruptions []float64, viewport geom.Size, s config.FocusSettings) HoverDetector {
	d := append([]float64(nil), disruptions...)
	sort.Float64s(d)
	return HoverDetector{
		positions:   positions,
		disruptions: d,
		maxExtent:   s.HoverRadiusFraction * math.Max(viewport.Width, viewport.Height),
		minDwell:    s.HoverMinDwellMs,
		margin:      s.HoverDisruptionMs,
	}
}

// MinSide is the smallest edge of a hover focus rect.
func (h HoverDetector) MinSide() float64 { return h.maxExtent }

// FindNext returns the first hover that starts at or after from and strictly
// before limit.
func (h HoverDetector) FindNext(from, limit float64) (Hover, bool) {
	p := h.positions
	i := h.index
	for i < len(p) && p[i].Timestamp < from {
		i++
	}

	for ; i < len(p) && p[i].Timestamp < limit; i++ {
		first := p[i]
		box := geom.Rect{X: first.X, Y: first.Y}
		end := first.Timestamp
		disruption := h.nextDisruption(first.Timestamp)

		for j := i + 1; j < len(p); j++ {
			next := p[j]
			if disruption-next.Timestamp < h.margin {
				break
			}
			grown := box.Union(geom.Rect{X: next.X, Y: next.Y})
			if math.Max(grown.Width, grown.Height) > h.maxExtent {
				break
			}
			box = grown
			end = next.Timestamp
		}

		if end-first.Timestamp >= h.minDwell {
			return Hover{Start: first.Timestamp, End: end, Box: box}, true
		}
	}
	return Hover{}, false
}

// AdvancePast returns a detector that ignores positions at or before t.
func (h HoverDetector) AdvancePast(t float64) HoverDetector {
	for h.index < len(h.positions) && h.positions[h.index].Timestamp <= t {
		h.index++
	}
	return h
}

// nextDisruption returns the first disruption strictly after t.
func (h HoverDetector) nextDisruption(t float64) float64 {
	i := sort.Search(len(h.disruptions), func(i int) bool { return h.disruptions[i] > t })
	if i == len(h.disruptions) {
		return math.Inf(1)
	}
	return h.disruptions[i]
}

// disruptionsOf collects the hover-breaking moments of ue.
func disruptionsOf(ue *events.UserEvents) []float64 {
	var d []float64
	for _, c := range ue.MouseClicks {
		d = append(d, c.Timestamp)
	}
	for _, s := range ue.Scrolls {
		d = append(d, s.Timestamp)
	}
	for _, dr := range ue.Drags {
		d = append(d, dr.Timestamp)
	}
	return d
}
