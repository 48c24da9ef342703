package analysis

import (
	"math"

	"github.com/anindilla/fix-my-form/internal/geometry"
	"github.com/anindilla/fix-my-form/internal/pose"
	"github.com/anindilla/fix-my-form/internal/standards"
)

// sampler measures one quantity on one frame. ok=false means unmeasurable
// for that frame; the sample is dropped, never zero-filled.
type sampler func(m *geometry.Measurer, f *pose.Frame) (float64, bool)

// aggregate reduces a rep's per-frame samples to the single value graded
// against the catalog.
type aggregate int

const (
	// aggMin grades the deepest value of the rep (bottom positions).
	aggMin aggregate = iota
	// aggMax grades the most extreme value of the rep (lockout, worst lean).
	aggMax
	// aggMean grades the rep average (path and stance metrics).
	aggMean
)

// MetricSpec declares one scored metric: how to sample it per frame and
// how to reduce a rep's samples.
type MetricSpec struct {
	Name   string
	Sample sampler
	Reduce aggregate
}

// IssueTier is one severity band of an issue check. Tiers are evaluated
// most-severe first; the first matching tier wins.
type IssueTier struct {
	Severity Severity
	When     func(v float64) bool
	Message  string
}

// IssueCheck is a per-frame form check: a sampled quantity plus its
// severity tiers.
type IssueCheck struct {
	Type   string
	Sample sampler
	Tiers  []IssueTier
}

// Profile is the declarative description of how one exercise is analyzed:
// which metrics are scored and which frame-level checks run. Adding an
// exercise means adding a profile and catalog entries, not a new analyzer.
type Profile struct {
	Exercise standards.Exercise
	Metrics  []MetricSpec
	Checks   []IssueCheck
}

func meanHip(m *geometry.Measurer, f *pose.Frame) (float64, bool)  { return m.MeanHipAngle(f) }
func meanKnee(m *geometry.Measurer, f *pose.Frame) (float64, bool) { return m.MeanKneeAngle(f) }
func backAngle(m *geometry.Measurer, f *pose.Frame) (float64, bool) { return m.BackAngle(f) }
func kneeValgus(m *geometry.Measurer, f *pose.Frame) (float64, bool) { return m.KneeValgus(f) }
func hipDepth(m *geometry.Measurer, f *pose.Frame) (float64, bool)  { return m.HipDepth(f) }
func barPath(m *geometry.Measurer, f *pose.Frame) (float64, bool)   { return m.BarPath(f) }
func stanceWidth(m *geometry.Measurer, f *pose.Frame) (float64, bool) {
	return m.StanceWidth(f)
}

// absValgus folds valgus into a magnitude so the tracking standard grades
// drift in either direction; the engine drops non-positive samples.
func absValgus(m *geometry.Measurer, f *pose.Frame) (float64, bool) {
	v, ok := m.KneeValgus(f)
	if !ok {
		return 0, false
	}
	return math.Abs(v), true
}

// squatChecks are shared by the squat family; torsoCritical/torsoMajor
// differ between back and front squat (the front rack tolerates less lean).
func squatChecks(torsoCritical, torsoMajor float64) []IssueCheck {
	return []IssueCheck{
		{
			Type:   "depth",
			Sample: hipDepth,
			Tiers: []IssueTier{
				{SeverityMajor, func(v float64) bool { return v < -0.05 },
					"Not reaching proper depth - aim to get hip crease below knee level"},
			},
		},
		{
			Type:   "back_angle",
			Sample: backAngle,
			Tiers: []IssueTier{
				{SeverityCritical, func(v float64) bool { return v > torsoCritical },
					"Excessive forward lean - maintain more upright torso"},
				{SeverityMajor, func(v float64) bool { return v > torsoMajor },
					"Torso leaning forward - keep chest up and core braced"},
			},
		},
		{
			Type:   "knee_tracking",
			Sample: kneeValgus,
			Tiers: []IssueTier{
				{SeverityMajor, func(v float64) bool { return math.Abs(v) > 0.1 },
					"Knees caving inward - focus on pushing knees out over toes"},
			},
		},
		{
			Type:   "knee_angle",
			Sample: meanKnee,
			Tiers: []IssueTier{
				{SeverityMajor, func(v float64) bool { return v > 120 },
					"Not reaching full depth - aim for 90 degrees or less at knees"},
			},
		},
	}
}

// deadliftChecks mirror the hip-hinge fault model: spinal safety first,
// then hip height, then knee bend.
func deadliftChecks(hipMajorBelow, hipMinorBelow float64) []IssueCheck {
	return []IssueCheck{
		{
			Type:   "back_rounding",
			Sample: backAngle,
			Tiers: []IssueTier{
				{SeverityCritical, func(v float64) bool { return v > 45 },
					"Dangerous back rounding - maintain neutral spine"},
				{SeverityMajor, func(v float64) bool { return v > 30 },
					"Back is rounding - maintain neutral spine throughout"},
			},
		},
		{
			Type:   "hip_angle",
			Sample: meanHip,
			Tiers: []IssueTier{
				{SeverityMajor, func(v float64) bool { return v < hipMajorBelow },
					"Hips are too low - this is a hip hinge, not a squat"},
				{SeverityMinor, func(v float64) bool { return v < hipMinorBelow },
					"Hips could be slightly higher for better hip hinge"},
			},
		},
		{
			Type:   "knee_angle",
			Sample: meanKnee,
			Tiers: []IssueTier{
				{SeverityMajor, func(v float64) bool { return v < 80 },
					"Knees are too bent - keep them relatively straight"},
				{SeverityMinor, func(v float64) bool { return v < 90 },
					"Knees could be slightly straighter"},
			},
		},
	}
}

// profiles is the strategy table keyed by exercise type.
var profiles = map[standards.Exercise]Profile{
	standards.BackSquat: {
		Exercise: standards.BackSquat,
		Metrics: []MetricSpec{
			{Name: "depth", Sample: meanHip, Reduce: aggMin},
			{Name: "knee_angle", Sample: meanKnee, Reduce: aggMin},
			{Name: "torso_angle", Sample: backAngle, Reduce: aggMax},
			{Name: "knee_tracking", Sample: absValgus, Reduce: aggMax},
			{Name: "bar_path", Sample: barPath, Reduce: aggMean},
		},
		Checks: squatChecks(45, 30),
	},
	standards.FrontSquat: {
		Exercise: standards.FrontSquat,
		Metrics: []MetricSpec{
			{Name: "depth", Sample: meanHip, Reduce: aggMin},
			{Name: "knee_angle", Sample: meanKnee, Reduce: aggMin},
			{Name: "torso_angle", Sample: backAngle, Reduce: aggMax},
			{Name: "knee_tracking", Sample: absValgus, Reduce: aggMax},
			{Name: "bar_path", Sample: barPath, Reduce: aggMean},
		},
		Checks: squatChecks(35, 20),
	},
	standards.ConventionalDeadlift: {
		Exercise: standards.ConventionalDeadlift,
		Metrics: []MetricSpec{
			{Name: "hip_angle", Sample: meanHip, Reduce: aggMin},
			{Name: "knee_angle", Sample: meanKnee, Reduce: aggMin},
			{Name: "back_angle", Sample: backAngle, Reduce: aggMax},
			{Name: "bar_path", Sample: barPath, Reduce: aggMean},
			{Name: "hip_extension", Sample: meanHip, Reduce: aggMax},
		},
		Checks: deadliftChecks(20, 30),
	},
	standards.SumoDeadlift: {
		Exercise: standards.SumoDeadlift,
		Metrics: []MetricSpec{
			{Name: "hip_angle", Sample: meanHip, Reduce: aggMin},
			{Name: "knee_angle", Sample: meanKnee, Reduce: aggMin},
			{Name: "stance_width", Sample: stanceWidth, Reduce: aggMean},
			{Name: "torso_angle", Sample: backAngle, Reduce: aggMax},
			{Name: "bar_path", Sample: barPath, Reduce: aggMean},
		},
		Checks: append(deadliftChecks(40, 50), IssueCheck{
			Type:   "stance_width",
			Sample: stanceWidth,
			Tiers: []IssueTier{
				{SeverityMinor, func(v float64) bool { return v < 1.1 },
					"Stance too narrow for sumo - set feet wider than shoulders"},
			},
		}),
	},
}

// ProfileFor returns the analysis profile for an exercise type.
func ProfileFor(exercise standards.Exercise) (Profile, bool) {
	p, ok := profiles[exercise]
	return p, ok
}
