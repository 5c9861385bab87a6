package events

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jmikh/recordio-sub002/internal/timeline"
)

// UserEvents is the categorized input stream captured alongside a recording.
type UserEvents struct {
	MouseClicks    []Click         `json:"mouseClicks"`
	MousePositions []MousePosition `json:"mousePositions"`
	Drags          []Drag          `json:"drags"`
	Scrolls        []Scroll        `json:"scrolls"`
	KeyboardEvents []Keyboard      `json:"keyboardEvents"`
	URLChanges     []URLChange     `json:"urlChanges"`
	HoveredCards   []HoveredCard   `json:"hoveredCards"`
}

// Parse decodes a UserEvents JSON document and normalizes it.
func Parse(data []byte) (*UserEvents, error) {
	var ue UserEvents
	if err := json.Unmarshal(data, &ue); err != nil {
		return nil, fmt.Errorf("decode user events: %w", err)
	}
	ue.Normalize()
	return &ue, nil
}

// Normalize repairs ranged events whose end precedes their start and sorts
// every category by timestamp.
func (u *UserEvents) Normalize() {
	for i := range u.Drags {
		u.Drags[i].EndTime = max(u.Drags[i].EndTime, u.Drags[i].Timestamp)
	}
	for i := range u.Scrolls {
		u.Scrolls[i].EndTime = max(u.Scrolls[i].EndTime, u.Scrolls[i].Timestamp)
	}
	for i := range u.KeyboardEvents {
		u.KeyboardEvents[i].EndTime = max(u.KeyboardEvents[i].EndTime, u.KeyboardEvents[i].Timestamp)
	}
	for i := range u.HoveredCards {
		u.HoveredCards[i].EndTime = max(u.HoveredCards[i].EndTime, u.HoveredCards[i].Timestamp)
	}

	sortByTime(u.MouseClicks)
	sortByTime(u.MousePositions)
	sortByTime(u.Drags)
	sortByTime(u.Scrolls)
	sortByTime(u.KeyboardEvents)
	sortByTime(u.URLChanges)
	sortByTime(u.HoveredCards)
}

func sortByTime[E Event](s []E) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time() < s[j].Time() })
}

// All merges every category into one list ordered by timestamp.
func (u *UserEvents) All() []Event {
	all := make([]Event, 0, u.Len())
	all = appendEvents(all, u.MouseClicks)
	all = appendEvents(all, u.URLChanges)
	all = appendEvents(all, u.Drags)
	all = appendEvents(all, u.Scrolls)
	all = appendEvents(all, u.KeyboardEvents)
	all = appendEvents(all, u.HoveredCards)
	all = appendEvents(all, u.MousePositions)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Time() < all[j].Time() })
	return all
}

// Explicit returns the events that can become focus targets on their own,
// ordered by timestamp. Mouse positions are excluded.
func (u *UserEvents) Explicit() []Event {
	all := u.All()
	out := all[:0]
	for _, e := range all {
		if e.Kind() != KindMousePosition {
			out = append(out, e)
		}
	}
	return out
}

func appendEvents[E Event](dst []Event, src []E) []Event {
	for _, e := range src {
		dst = append(dst, e)
	}
	return dst
}

func (u *UserEvents) Len() int {
	return len(u.MouseClicks) + len(u.MousePositions) + len(u.Drags) + len(u.Scrolls) +
		len(u.KeyboardEvents) + len(u.URLChanges) + len(u.HoveredCards)
}

// Remap converts every timestamp to output time. Point events that fall in
// a trimmed gap are dropped; ranged events keep the envelope of their
// visible part. Coordinates stay in source space.
func Remap(u *UserEvents, tm *timeline.Mapper) *UserEvents {
	out := &UserEvents{}

	for _, e := range u.MouseClicks {
		if t := tm.SourceToOutput(e.Timestamp); t >= 0 {
			e.Timestamp = t
			out.MouseClicks = append(out.MouseClicks, e)
		}
	}
	for _, e := range u.MousePositions {
		if t := tm.SourceToOutput(e.Timestamp); t >= 0 {
			e.Timestamp = t
			out.MousePositions = append(out.MousePositions, e)
		}
	}
	for _, e := range u.URLChanges {
		if t := tm.SourceToOutput(e.Timestamp); t >= 0 {
			e.Timestamp = t
			out.URLChanges = append(out.URLChanges, e)
		}
	}
	for _, e := range u.Drags {
		if r, ok := tm.SourceRangeToOutputRange(e.Timestamp, &e.EndTime); ok {
			e.Timestamp, e.EndTime = r.Start, r.End
			out.Drags = append(out.Drags, e)
		}
	}
	for _, e := range u.Scrolls {
		if r, ok := tm.SourceRangeToOutputRange(e.Timestamp, &e.EndTime); ok {
			e.Timestamp, e.EndTime = r.Start, r.End
			out.Scrolls = append(out.Scrolls, e)
		}
	}
	for _, e := range u.KeyboardEvents {
		if r, ok := tm.SourceRangeToOutputRange(e.Timestamp, &e.EndTime); ok {
			e.Timestamp, e.EndTime = r.Start, r.End
			out.KeyboardEvents = append(out.KeyboardEvents, e)
		}
	}
	for _, e := range u.HoveredCards {
		if r, ok := tm.SourceRangeToOutputRange(e.Timestamp, &e.EndTime); ok {
			e.Timestamp, e.EndTime = r.Start, r.End
			out.HoveredCards = append(out.HoveredCards, e)
		}
	}

	out.Normalize()
	return out
}
