// Package pose defines the body keypoint model consumed by the analysis
// pipeline. Frames are produced by an external pose-detection collaborator;
// this package only models and validates them.
package pose

import "math"

// Body landmark indices following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark is a single tracked body keypoint in normalized image space
// (0..1 on both axes) with a detection-confidence score.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Point represents a 2D point in normalized image space.
type Point struct {
	X float64
	Y float64
}

// Frame is one detected pose: 33 landmarks in the fixed semantic index
// order, plus the source frame index and timestamp. Frames are read-only
// once constructed.
type Frame struct {
	FrameIndex int                    `json:"frame_index"`
	Timestamp  float64                `json:"timestamp"`
	Landmarks  [NumLandmarks]Landmark `json:"landmarks"`
}

// Point returns the 2D image-space position of the landmark at index i.
func (f *Frame) Point(i int) Point {
	lm := f.Landmarks[i]
	return Point{X: lm.X, Y: lm.Y}
}

// Visible reports whether the landmark at index i meets the given
// visibility threshold.
func (f *Frame) Visible(i int, threshold float64) bool {
	return f.Landmarks[i].Visibility >= threshold
}

// Distance calculates the Euclidean distance between two 2D points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
