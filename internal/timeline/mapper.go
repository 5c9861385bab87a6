package timeline

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvertedWindow     = errors.New("window ends before it starts")
	ErrNegativeWindow     = errors.New("window starts before zero")
	ErrOverlappingWindows = errors.New("windows overlap or are out of order")
)

// Window is a kept span of the source recording, optionally sped up or
// slowed down. Times are milliseconds on the source clock.
type Window struct {
	ID      string  `json:"id,omitempty" yaml:"id,omitempty"`
	StartMs float64 `json:"startMs" yaml:"start_ms"`
	EndMs   float64 `json:"endMs" yaml:"end_ms"`
	Speed   float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
}

// EffectiveSpeed returns the playback multiplier, treating unset or
// non-positive speeds as 1.0.
func (w Window) EffectiveSpeed() float64 {
	if w.Speed > 0 && !math.IsInf(w.Speed, 0) {
		return w.Speed
	}
	return 1.0
}

func (w Window) SourceLength() float64 { return w.EndMs - w.StartMs }

func (w Window) OutputLength() float64 { return w.SourceLength() / w.EffectiveSpeed() }

// Range is a closed interval in milliseconds.
type Range struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

type span struct {
	Window
	outStart float64
	outEnd   float64
}

// Mapper converts between source time and output time for a trim/speed schedule.
type Mapper struct {
	spans          []span
	outputDuration float64
}

// NewMapper validates windows and precomputes their output offsets.
// Zero-length windows are accepted and ignored.
func NewMapper(windows []Window) (*Mapper, error) {
	m := &Mapper{}
	prevEnd := math.Inf(-1)
	out := 0.0

	for i, w := range windows {
		if w.StartMs < 0 {
			return nil, fmt.Errorf("window %d (%s): %w", i, w.ID, ErrNegativeWindow)
		}
		if w.EndMs < w.StartMs {
			return nil, fmt.Errorf("window %d (%s): %w", i, w.ID, ErrInvertedWindow)
		}
		if w.StartMs < prevEnd {
			return nil, fmt.Errorf("window %d (%s) starts at %.1fms before previous end %.1fms: %w",
				i, w.ID, w.StartMs, prevEnd, ErrOverlappingWindows)
		}
		prevEnd = w.EndMs

		if w.SourceLength() == 0 {
			continue
		}
		length := w.OutputLength()
		m.spans = append(m.spans, span{Window: w, outStart: out, outEnd: out + length})
		out += length
	}

	m.outputDuration = out
	return m, nil
}

// OutputDuration is the total length of the edited timeline.
func (m *Mapper) OutputDuration() float64 { return m.outputDuration }

// SourceToOutput returns the first output time at which sourceMs is shown,
// or -1 if it falls in a trimmed gap. Window edges are inclusive.
func (m *Mapper) SourceToOutput(sourceMs float64) float64 {
	for _, s := range m.spans {
		if sourceMs >= s.StartMs && sourceMs <= s.EndMs {
			return s.outStart + (sourceMs-s.StartMs)/s.EffectiveSpeed()
		}
	}
	return -1
}

// OutputToSource is the inverse of SourceToOutput. It returns -1 for
// negative times and times past the end of the last window. Window edges
// are inclusive; a time shared by two windows maps into the earlier one.
func (m *Mapper) OutputToSource(outputMs float64) float64 {
	if outputMs < 0 {
		return -1
	}
	for _, s := range m.spans {
		if outputMs >= s.outStart && outputMs <= s.outEnd {
			return s.StartMs + (outputMs-s.outStart)*s.EffectiveSpeed()
		}
	}
	return -1
}

// SourceRangeToOutputRange maps [startMs, endMs] to the envelope of its
// visible output pieces. A nil endMs maps the single point startMs.
// ok is false when nothing of the range is visible.
func (m *Mapper) SourceRangeToOutputRange(startMs float64, endMs *float64) (Range, bool) {
	if endMs == nil {
		out := m.SourceToOutput(startMs)
		if out < 0 {
			return Range{}, false
		}
		return Range{Start: out, End: out}, true
	}

	end := *endMs
	if end < startMs {
		return Range{}, false
	}

	found := false
	var r Range
	for _, s := range m.spans {
		lo := math.Max(startMs, s.StartMs)
		hi := math.Min(end, s.EndMs)
		if lo > hi {
			continue
		}
		outLo := s.outStart + (lo-s.StartMs)/s.EffectiveSpeed()
		outHi := s.outStart + (hi-s.StartMs)/s.EffectiveSpeed()
		if !found {
			r.Start = outLo
			found = true
		}
		r.End = outHi
	}
	return r, found
}
