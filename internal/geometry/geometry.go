// Package geometry computes joint angles and derived body measures from a
// single pose frame. Every measure distinguishes "measured as zero" from
// "unmeasurable": degenerate geometry or low-visibility landmarks yield
// ok=false, never a sentinel value.
package geometry

import (
	"math"

	"github.com/anindilla/fix-my-form/internal/pose"
)

// minVectorLength is the degenerate-geometry cutoff for angle computation.
const minVectorLength = 1e-6

// Strictness selects how aggressively low-confidence landmarks are rejected.
type Strictness string

const (
	// StrictnessLenient accepts landmarks at visibility >= 0.5.
	StrictnessLenient Strictness = "lenient"
	// StrictnessStrict requires visibility >= 0.7.
	StrictnessStrict Strictness = "strict"
)

// Config holds configuration options for geometric measurement.
type Config struct {
	// VisibilityThreshold is the minimum landmark visibility for a
	// measurement to be trusted. Zero means derive it from Strictness.
	VisibilityThreshold float64

	// Strictness picks the default visibility threshold when
	// VisibilityThreshold is unset.
	Strictness Strictness
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		VisibilityThreshold: 0.5,
		Strictness:          StrictnessLenient,
	}
}

// threshold resolves the effective visibility threshold.
func (c Config) threshold() float64 {
	if c.VisibilityThreshold > 0 {
		return c.VisibilityThreshold
	}
	if c.Strictness == StrictnessStrict {
		return 0.7
	}
	return 0.5
}

// Side selects the left or right half of the body for paired joints.
type Side string

const (
	// SideLeft measures the left-side joint chain.
	SideLeft Side = "left"
	// SideRight measures the right-side joint chain.
	SideRight Side = "right"
)

// Angle returns the angle at vertex formed by the segments vertex→a and
// vertex→b, in degrees within [0,180]. Returns ok=false when either segment
// is shorter than 1e-6, so callers can tell an unmeasurable angle apart
// from a genuine zero.
func Angle(a, vertex, b pose.Point) (float64, bool) {
	v1 := pose.Point{X: a.X - vertex.X, Y: a.Y - vertex.Y}
	v2 := pose.Point{X: b.X - vertex.X, Y: b.Y - vertex.Y}

	n1 := math.Hypot(v1.X, v1.Y)
	n2 := math.Hypot(v2.X, v2.Y)
	if n1 < minVectorLength || n2 < minVectorLength {
		return 0, false
	}

	cos := (v1.X*v2.X + v1.Y*v2.Y) / (n1 * n2)
	// Clamp against floating point drift before acos.
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, true
}

// Measurer computes derived body measures from pose frames, gating every
// measurement on landmark visibility.
type Measurer struct {
	cfg Config
}

// NewMeasurer creates a Measurer with the given configuration.
func NewMeasurer(cfg Config) *Measurer {
	return &Measurer{cfg: cfg}
}

// visible reports whether every listed landmark clears the threshold.
func (m *Measurer) visible(f *pose.Frame, indices ...int) bool {
	th := m.cfg.threshold()
	for _, i := range indices {
		if !f.Visible(i, th) {
			return false
		}
	}
	return true
}

// sideIndices returns the hip, knee and ankle indices for a side.
func sideIndices(side Side) (hip, knee, ankle int) {
	if side == SideRight {
		return pose.RightHip, pose.RightKnee, pose.RightAnkle
	}
	return pose.LeftHip, pose.LeftKnee, pose.LeftAnkle
}

// KneeAngle measures the hip-knee-ankle angle for one side.
func (m *Measurer) KneeAngle(f *pose.Frame, side Side) (float64, bool) {
	hip, knee, ankle := sideIndices(side)
	if !m.visible(f, hip, knee, ankle) {
		return 0, false
	}
	return Angle(f.Point(hip), f.Point(knee), f.Point(ankle))
}

// HipAngle measures the shoulder-hip-knee angle for one side.
func (m *Measurer) HipAngle(f *pose.Frame, side Side) (float64, bool) {
	shoulder := pose.LeftShoulder
	hip, knee, _ := sideIndices(side)
	if side == SideRight {
		shoulder = pose.RightShoulder
	}
	if !m.visible(f, shoulder, hip, knee) {
		return 0, false
	}
	return Angle(f.Point(shoulder), f.Point(hip), f.Point(knee))
}

// MeanHipAngle averages the left and right shoulder-hip-knee angles.
// Falls back to a single side when only one is measurable.
func (m *Measurer) MeanHipAngle(f *pose.Frame) (float64, bool) {
	left, lok := m.HipAngle(f, SideLeft)
	right, rok := m.HipAngle(f, SideRight)
	switch {
	case lok && rok:
		return (left + right) / 2, true
	case lok:
		return left, true
	case rok:
		return right, true
	}
	return 0, false
}

// MeanKneeAngle averages the left and right hip-knee-ankle angles.
func (m *Measurer) MeanKneeAngle(f *pose.Frame) (float64, bool) {
	left, lok := m.KneeAngle(f, SideLeft)
	right, rok := m.KneeAngle(f, SideRight)
	switch {
	case lok && rok:
		return (left + right) / 2, true
	case lok:
		return left, true
	case rok:
		return right, true
	}
	return 0, false
}

// HipDepth measures the vertical offset of the hip midpoint relative to the
// knee midpoint in normalized image space. Positive means the hips sit
// below knee level (image Y grows downward).
func (m *Measurer) HipDepth(f *pose.Frame) (float64, bool) {
	if !m.visible(f, pose.LeftHip, pose.RightHip, pose.LeftKnee, pose.RightKnee) {
		return 0, false
	}
	hipY := (f.Point(pose.LeftHip).Y + f.Point(pose.RightHip).Y) / 2
	kneeY := (f.Point(pose.LeftKnee).Y + f.Point(pose.RightKnee).Y) / 2
	return hipY - kneeY, true
}

// BackAngle measures the lean of the shoulder-hip line from vertical, in
// degrees. Zero means a perfectly upright torso.
func (m *Measurer) BackAngle(f *pose.Frame) (float64, bool) {
	if !m.visible(f, pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip) {
		return 0, false
	}
	shoulder := pose.Midpoint(f.Point(pose.LeftShoulder), f.Point(pose.RightShoulder))
	hip := pose.Midpoint(f.Point(pose.LeftHip), f.Point(pose.RightHip))

	dx := shoulder.X - hip.X
	dy := shoulder.Y - hip.Y
	if math.Hypot(dx, dy) < minVectorLength {
		return 0, false
	}

	// Image Y grows downward, so up the torso is -dy.
	return math.Abs(math.Atan2(dx, -dy) * 180 / math.Pi), true
}

// KneeValgus measures inward knee collapse as a signed horizontal offset of
// the knees relative to the ankles, averaged over both legs. Positive means
// the knees are caving inward.
func (m *Measurer) KneeValgus(f *pose.Frame) (float64, bool) {
	if !m.visible(f, pose.LeftKnee, pose.RightKnee, pose.LeftAnkle, pose.RightAnkle) {
		return 0, false
	}
	left := f.Point(pose.LeftKnee).X - f.Point(pose.LeftAnkle).X
	right := f.Point(pose.RightAnkle).X - f.Point(pose.RightKnee).X
	return (left + right) / 2, true
}

// StanceWidth measures ankle separation as a ratio of shoulder width.
// Used by the sumo deadlift standard, where stance is wider than shoulders.
func (m *Measurer) StanceWidth(f *pose.Frame) (float64, bool) {
	if !m.visible(f, pose.LeftAnkle, pose.RightAnkle, pose.LeftShoulder, pose.RightShoulder) {
		return 0, false
	}
	ankles := pose.Distance(f.Point(pose.LeftAnkle), f.Point(pose.RightAnkle))
	shoulders := pose.Distance(f.Point(pose.LeftShoulder), f.Point(pose.RightShoulder))
	if shoulders < minVectorLength {
		return 0, false
	}
	return ankles / shoulders, true
}

// BarPath approximates implement tracking via shoulder/hip horizontal
// alignment, since no object detection is available. A ratio near 1.0
// means the load is stacked over the hips.
func (m *Measurer) BarPath(f *pose.Frame) (float64, bool) {
	if !m.visible(f, pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip) {
		return 0, false
	}
	shoulder := pose.Midpoint(f.Point(pose.LeftShoulder), f.Point(pose.RightShoulder))
	hip := pose.Midpoint(f.Point(pose.LeftHip), f.Point(pose.RightHip))

	torso := pose.Distance(shoulder, hip)
	if torso < minVectorLength {
		return 0, false
	}
	// 1.0 is a perfectly vertical line; horizontal drift shrinks the ratio.
	return 1 - math.Abs(shoulder.X-hip.X)/torso, true
}
