package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anindilla/fix-my-form/internal/geometry"
)

// FileConfig is the on-disk tuning schema. Every field is optional;
// omitted fields keep their package defaults, so partial configs are safe.
type FileConfig struct {
	VisibilityThreshold *float64 `json:"visibility_threshold,omitempty"`
	Strictness          *string  `json:"strictness,omitempty"`
	MotionThreshold     *float64 `json:"motion_threshold,omitempty"`
	MinMovementFrames   *int     `json:"min_movement_frames,omitempty"`
	SmoothingWindow     *int     `json:"smoothing_window,omitempty"`
	MinRepDuration      *int     `json:"min_rep_duration,omitempty"`
	SingleRep           *bool    `json:"single_rep,omitempty"`
}

// LoadConfig reads a tuning file and merges it over the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := fc.validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	if fc.VisibilityThreshold != nil {
		cfg.Geometry.VisibilityThreshold = *fc.VisibilityThreshold
	}
	if fc.Strictness != nil {
		cfg.Geometry.Strictness = geometry.Strictness(*fc.Strictness)
	}
	if fc.MotionThreshold != nil {
		cfg.Motion.MotionThreshold = *fc.MotionThreshold
	}
	if fc.MinMovementFrames != nil {
		cfg.Motion.MinMovementFrames = *fc.MinMovementFrames
	}
	if fc.SmoothingWindow != nil {
		cfg.Reps.SmoothingWindow = *fc.SmoothingWindow
	}
	if fc.MinRepDuration != nil {
		cfg.Reps.MinRepDuration = *fc.MinRepDuration
	}
	if fc.SingleRep != nil {
		cfg.SingleRep = *fc.SingleRep
	}

	return cfg, nil
}

// validate rejects values that would silently disable parts of the
// pipeline.
func (fc *FileConfig) validate() error {
	if fc.VisibilityThreshold != nil && (*fc.VisibilityThreshold <= 0 || *fc.VisibilityThreshold > 1) {
		return fmt.Errorf("visibility_threshold %.3f outside (0,1]", *fc.VisibilityThreshold)
	}
	if fc.Strictness != nil {
		switch geometry.Strictness(*fc.Strictness) {
		case geometry.StrictnessLenient, geometry.StrictnessStrict:
		default:
			return fmt.Errorf("strictness must be %q or %q, got %q",
				geometry.StrictnessLenient, geometry.StrictnessStrict, *fc.Strictness)
		}
	}
	if fc.MotionThreshold != nil && *fc.MotionThreshold <= 0 {
		return fmt.Errorf("motion_threshold must be positive")
	}
	if fc.MinMovementFrames != nil && *fc.MinMovementFrames <= 0 {
		return fmt.Errorf("min_movement_frames must be positive")
	}
	if fc.SmoothingWindow != nil && *fc.SmoothingWindow <= 0 {
		return fmt.Errorf("smoothing_window must be positive")
	}
	if fc.MinRepDuration != nil && *fc.MinRepDuration <= 0 {
		return fmt.Errorf("min_rep_duration must be positive")
	}
	return nil
}
