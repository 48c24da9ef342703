package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anindilla/fix-my-form/internal/geometry"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Partial(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"strictness":"strict","motion_threshold":0.03}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geometry.Strictness != geometry.StrictnessStrict {
		t.Errorf("expected strict, got %q", cfg.Geometry.Strictness)
	}
	if cfg.Motion.MotionThreshold != 0.03 {
		t.Errorf("expected motion threshold 0.03, got %f", cfg.Motion.MotionThreshold)
	}
	// Omitted fields stay at their zero values so package defaults apply.
	if cfg.Reps.SmoothingWindow != 0 {
		t.Errorf("expected untouched smoothing window, got %d", cfg.Reps.SmoothingWindow)
	}
	if cfg.SingleRep {
		t.Error("expected single_rep to default off")
	}
}

func TestLoadConfig_RejectsNonJSON(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", "strictness: strict")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for non-json extension")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad strictness", `{"strictness":"brutal"}`, "strictness"},
		{"zero threshold", `{"visibility_threshold":0}`, "visibility_threshold"},
		{"threshold above one", `{"visibility_threshold":1.2}`, "visibility_threshold"},
		{"negative motion", `{"motion_threshold":-0.1}`, "motion_threshold"},
		{"zero window", `{"smoothing_window":0}`, "smoothing_window"},
		{"malformed", `{"strictness":`, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "tuning.json", tt.body)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
