package director

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteSchedule writes a schedule to path. Files ending in .json are
// written as JSON, anything else as YAML.
func WriteSchedule(schedule *Schedule, path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(schedule, "", "  ")
	} else {
		data, err = yaml.Marshal(schedule)
	}
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSchedule reads a schedule written by WriteSchedule and validates
// every action in it.
func ReadSchedule(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var schedule Schedule
	if isJSON(path) {
		err = json.Unmarshal(data, &schedule)
	} else {
		err = yaml.Unmarshal(data, &schedule)
	}
	if err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", path, err)
	}

	for _, a := range schedule.Actions {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", path, err)
		}
	}
	return &schedule, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
