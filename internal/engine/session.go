package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jmikh/recordio-sub002/internal/config"
	"github.com/jmikh/recordio-sub002/internal/director"
	"github.com/jmikh/recordio-sub002/internal/events"
	"github.com/jmikh/recordio-sub002/internal/geom"
	"github.com/jmikh/recordio-sub002/internal/timeline"
)

var ErrInvalidSession = errors.New("invalid session")

// Session is an editing session as saved by the host editor: the capture
// geometry, the trim/speed windows, the captured events in source time, and
// per-project overrides of the zoom and camera settings.
type Session struct {
	Input         geom.Size              `json:"inputSize"`
	Crop          *geom.Rect             `json:"crop,omitempty"`
	Padding       *float64               `json:"padding,omitempty"`
	Windows       []timeline.Window      `json:"windows"`
	Events        events.UserEvents      `json:"events"`
	Zoom          *config.ZoomSettings   `json:"zoom,omitempty"`
	Camera        *config.CameraSettings `json:"camera,omitempty"`
	ManualActions []director.ZoomAction  `json:"manualActions,omitempty"`
}

// LoadSession reads and validates a session file.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", path, err)
	}
	s.Events.Normalize()
	return &s, nil
}

// Save writes the session as indented JSON.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks what can be checked without building the mappers.
func (s *Session) Validate() error {
	if s.Input.Empty() {
		return fmt.Errorf("%w: empty input size %vx%v", ErrInvalidSession, s.Input.Width, s.Input.Height)
	}
	if s.Crop != nil && s.Crop.Empty() {
		return fmt.Errorf("%w: empty crop %+v", ErrInvalidSession, *s.Crop)
	}
	if s.Padding != nil && (*s.Padding < 0 || *s.Padding >= 0.5) {
		return fmt.Errorf("%w: padding %.3f must be in [0, 0.5)", ErrInvalidSession, *s.Padding)
	}
	if len(s.Windows) == 0 {
		return fmt.Errorf("%w: no output windows", ErrInvalidSession)
	}
	if s.Zoom != nil {
		if err := s.Zoom.Validate(); err != nil {
			return fmt.Errorf("%w: zoom override: %v", ErrInvalidSession, err)
		}
	}
	if s.Camera != nil {
		if err := s.Camera.Validate(); err != nil {
			return fmt.Errorf("%w: camera override: %v", ErrInvalidSession, err)
		}
	}
	for _, a := range s.ManualActions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSession, err)
		}
	}
	return nil
}

// settings merges the session overrides over cfg.
func (s *Session) settings(cfg *config.Config) (config.ZoomSettings, config.CameraSettings, float64) {
	zoom, cam, padding := cfg.Zoom, cfg.Camera, cfg.Output.Padding
	if s.Zoom != nil {
		zoom = *s.Zoom
	}
	if s.Camera != nil {
		cam = *s.Camera
	}
	if s.Padding != nil {
		padding = *s.Padding
	}
	return zoom, cam, padding
}
