package pose

import (
	"encoding/json"
	"fmt"
	"io"
)

// wireFrame mirrors the collaborator's JSON layout, where landmarks arrive
// as a variable-length array that must be validated before use.
type wireFrame struct {
	FrameIndex int        `json:"frame_index"`
	Timestamp  float64    `json:"timestamp"`
	Landmarks  []Landmark `json:"landmarks"`
}

// DecodeStream reads a JSON array of pose frames and validates each one.
// A frame whose landmark array is not exactly 33 entries is a structural
// error and fails the whole decode; partial geometry on malformed input is
// worse than no result.
func DecodeStream(r io.Reader) ([]Frame, error) {
	var wire []wireFrame
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode pose stream: %w", err)
	}

	frames := make([]Frame, 0, len(wire))
	for i, wf := range wire {
		f, err := NewFrame(wf.FrameIndex, wf.Timestamp, wf.Landmarks)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

// NewFrame builds a validated Frame from a raw landmark slice.
func NewFrame(index int, timestamp float64, landmarks []Landmark) (Frame, error) {
	if len(landmarks) != NumLandmarks {
		return Frame{}, fmt.Errorf("expected %d landmarks, got %d", NumLandmarks, len(landmarks))
	}

	f := Frame{FrameIndex: index, Timestamp: timestamp}
	copy(f.Landmarks[:], landmarks)
	return f, nil
}

// ValidateStream checks every frame of an already-decoded stream.
// Callers constructing frames by hand should run this before analysis.
func ValidateStream(frames []Frame) error {
	for i, f := range frames {
		for j, lm := range f.Landmarks {
			if lm.Visibility < 0 || lm.Visibility > 1 {
				return fmt.Errorf("frame %d landmark %d: visibility %.3f outside [0,1]", i, j, lm.Visibility)
			}
		}
	}
	return nil
}
