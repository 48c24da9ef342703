package pose

import (
	"math"
	"strings"
	"testing"
)

func validLandmarksJSON() string {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < NumLandmarks; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"x":0.5,"y":0.5,"z":0,"visibility":0.9}`)
	}
	b.WriteString("]")
	return b.String()
}

func TestDecodeStream_Valid(t *testing.T) {
	input := `[{"frame_index":0,"timestamp":0.0,"landmarks":` + validLandmarksJSON() + `},
	           {"frame_index":1,"timestamp":0.033,"landmarks":` + validLandmarksJSON() + `}]`

	frames, err := DecodeStream(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1].FrameIndex != 1 {
		t.Errorf("expected frame index 1, got %d", frames[1].FrameIndex)
	}
	if frames[0].Landmarks[LeftHip].Visibility != 0.9 {
		t.Errorf("landmark visibility not preserved")
	}
}

func TestDecodeStream_WrongLandmarkCount(t *testing.T) {
	input := `[{"frame_index":0,"timestamp":0.0,"landmarks":[{"x":0.5,"y":0.5,"z":0,"visibility":1}]}]`

	_, err := DecodeStream(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for malformed landmark array")
	}
	if !strings.Contains(err.Error(), "33") {
		t.Errorf("error should name the expected landmark count, got: %v", err)
	}
}

func TestDecodeStream_InvalidJSON(t *testing.T) {
	if _, err := DecodeStream(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNewFrame_Validation(t *testing.T) {
	landmarks := make([]Landmark, NumLandmarks)
	if _, err := NewFrame(0, 0, landmarks); err != nil {
		t.Errorf("unexpected error for 33 landmarks: %v", err)
	}

	if _, err := NewFrame(0, 0, landmarks[:32]); err == nil {
		t.Error("expected error for 32 landmarks")
	}
	if _, err := NewFrame(0, 0, append(landmarks, Landmark{})); err == nil {
		t.Error("expected error for 34 landmarks")
	}
}

func TestValidateStream_VisibilityRange(t *testing.T) {
	frames := []Frame{{}}
	if err := ValidateStream(frames); err != nil {
		t.Errorf("unexpected error for zero-value frame: %v", err)
	}

	frames[0].Landmarks[Nose].Visibility = 1.5
	err := ValidateStream(frames)
	if err == nil {
		t.Fatal("expected error for visibility above 1")
	}
	if !strings.Contains(err.Error(), "visibility") {
		t.Errorf("expected error mentioning visibility, got: %v", err)
	}
}

func TestDistance(t *testing.T) {
	d := Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4})
	if math.Abs(d-5) > 0.0001 {
		t.Errorf("expected distance 5, got %f", d)
	}
}

func TestMidpoint(t *testing.T) {
	m := Midpoint(Point{X: 0, Y: 0}, Point{X: 1, Y: 2})
	if m.X != 0.5 || m.Y != 1 {
		t.Errorf("expected (0.5, 1), got (%f, %f)", m.X, m.Y)
	}
}
