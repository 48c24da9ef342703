package reps

import "github.com/anindilla/fix-my-form/internal/pose"

// SingleRepFallback treats the entire movement window as one repetition.
// It stands in for the angle-cycle segmenter when cyclic detection is not
// wanted, keeping the rest of the pipeline oblivious to which variant ran.
type SingleRepFallback struct{}

// NewSingleRepFallback creates the fallback segmenter.
func NewSingleRepFallback() *SingleRepFallback {
	return &SingleRepFallback{}
}

// DetectReps returns one rep spanning all frames, or nil for empty input.
func (s *SingleRepFallback) DetectReps(frames []pose.Frame) []Rep {
	if len(frames) == 0 {
		return nil
	}
	return []Rep{wholeWindow(frames)}
}
