// Package standards holds the research-based biomechanics thresholds used
// to grade exercise form. This is configuration data, not logic: the tables
// can be revised against new research without touching the scoring code.
// Sources: NSCA guidelines, Starting Strength, biomechanics literature.
package standards

import "fmt"

// Exercise identifies one supported exercise type.
type Exercise string

const (
	// BackSquat is the high-bar/low-bar back squat.
	BackSquat Exercise = "back-squat"
	// FrontSquat is the front-racked squat variant.
	FrontSquat Exercise = "front-squat"
	// ConventionalDeadlift is the conventional-stance deadlift.
	ConventionalDeadlift Exercise = "conventional-deadlift"
	// SumoDeadlift is the wide-stance deadlift variant.
	SumoDeadlift Exercise = "sumo-deadlift"
)

// Exercises lists every exercise with a catalog entry.
func Exercises() []Exercise {
	return []Exercise{BackSquat, FrontSquat, ConventionalDeadlift, SumoDeadlift}
}

// ParseExercise validates an exercise name from external input.
func ParseExercise(s string) (Exercise, error) {
	for _, ex := range Exercises() {
		if s == string(ex) {
			return ex, nil
		}
	}
	return "", fmt.Errorf("unknown exercise type %q", s)
}

// Category is a form-quality band for a measured metric.
type Category string

const (
	// Excellent is textbook form.
	Excellent Category = "excellent"
	// Good is solid form with small deviations.
	Good Category = "good"
	// Acceptable is passable form that warrants coaching.
	Acceptable Category = "acceptable"
	// Poor is form outside all acceptable bands.
	Poor Category = "poor"
	// Unknown marks a metric or exercise with no catalog entry.
	Unknown Category = "unknown"
	// Failed marks a metric that could not be measured at all.
	Failed Category = "failed"
)

// CategoryOrder is the fixed matching order; the first category whose
// range contains a value wins.
var CategoryOrder = []Category{Excellent, Good, Acceptable, Poor}

// categoryScores maps each quality band to its fixed numeric score. These
// are catalog-level constants, not per-metric tunables.
var categoryScores = map[Category]int{
	Excellent:  95,
	Good:       80,
	Acceptable: 65,
	Poor:       40,
}

// CategoryScore returns the numeric score for a quality band. Bands with
// no configured score (unknown, failed) fall back to the poor score.
func CategoryScore(c Category) int {
	if s, ok := categoryScores[c]; ok {
		return s
	}
	return categoryScores[Poor]
}

// Range is an inclusive [Low, High] band in degrees or ratio units.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether v falls within the range, inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Mid returns the range midpoint, used for deviation reporting.
func (r Range) Mid() float64 {
	return (r.Low + r.High) / 2
}

// MetricStandard is the category band table for one metric of one
// exercise. PoorOpen marks metrics whose poor band is "anything outside
// acceptable" rather than an explicit range.
type MetricStandard struct {
	Ranges   map[Category]Range
	PoorOpen bool
}

// exerciseStandards maps (exercise, metric) to its category bands.
var exerciseStandards = map[Exercise]map[string]MetricStandard{
	BackSquat: {
		// Hip angle at the bottom position, degrees.
		"depth": {Ranges: map[Category]Range{
			Excellent:  {85, 95},
			Good:       {95, 105},
			Acceptable: {105, 120},
			Poor:       {120, 180},
		}},
		// Knee angle at the bottom position, degrees.
		"knee_angle": {Ranges: map[Category]Range{
			Excellent:  {80, 100},
			Good:       {70, 80},
			Acceptable: {60, 70},
			Poor:       {0, 60},
		}},
		// Forward lean from vertical, degrees.
		"torso_angle": {Ranges: map[Category]Range{
			Excellent:  {0, 15},
			Good:       {15, 30},
			Acceptable: {30, 45},
			Poor:       {45, 90},
		}},
		// Valgus/varus offset, normalized image units.
		"knee_tracking": {Ranges: map[Category]Range{
			Excellent:  {-0.02, 0.02},
			Good:       {-0.05, -0.02},
			Acceptable: {-0.08, -0.05},
		}, PoorOpen: true},
		// Vertical bar path ratio.
		"bar_path": {Ranges: map[Category]Range{
			Excellent:  {0.95, 1.05},
			Good:       {0.90, 0.95},
			Acceptable: {0.85, 0.90},
			Poor:       {0, 0.85},
		}},
	},
	FrontSquat: {
		"depth": {Ranges: map[Category]Range{
			Excellent:  {85, 95},
			Good:       {95, 105},
			Acceptable: {105, 120},
			Poor:       {120, 180},
		}},
		"knee_angle": {Ranges: map[Category]Range{
			Excellent:  {80, 100},
			Good:       {70, 80},
			Acceptable: {60, 70},
			Poor:       {0, 60},
		}},
		// Tighter than the back squat: the front rack demands an upright torso.
		"torso_angle": {Ranges: map[Category]Range{
			Excellent:  {0, 10},
			Good:       {10, 20},
			Acceptable: {20, 35},
			Poor:       {35, 90},
		}},
		"knee_tracking": {Ranges: map[Category]Range{
			Excellent:  {-0.02, 0.02},
			Good:       {-0.05, -0.02},
			Acceptable: {-0.08, -0.05},
		}, PoorOpen: true},
		"bar_path": {Ranges: map[Category]Range{
			Excellent:  {0.95, 1.05},
			Good:       {0.90, 0.95},
			Acceptable: {0.85, 0.90},
			Poor:       {0, 0.85},
		}},
	},
	ConventionalDeadlift: {
		// Hip angle at the start position, degrees.
		"hip_angle": {Ranges: map[Category]Range{
			Excellent:  {35, 50},
			Good:       {30, 35},
			Acceptable: {25, 30},
			Poor:       {0, 25},
		}},
		// Knee angle at the start position, degrees.
		"knee_angle": {Ranges: map[Category]Range{
			Excellent:  {120, 140},
			Good:       {110, 120},
			Acceptable: {100, 110},
			Poor:       {0, 100},
		}},
		// Spine deviation from neutral, degrees.
		"back_angle": {Ranges: map[Category]Range{
			Excellent:  {0, 10},
			Good:       {10, 20},
			Acceptable: {20, 30},
			Poor:       {30, 90},
		}},
		"bar_path": {Ranges: map[Category]Range{
			Excellent:  {0.95, 1.05},
			Good:       {0.90, 0.95},
			Acceptable: {0.85, 0.90},
			Poor:       {0, 0.85},
		}},
		// Hip extension at lockout, degrees.
		"hip_extension": {Ranges: map[Category]Range{
			Excellent:  {160, 180},
			Good:       {150, 160},
			Acceptable: {140, 150},
			Poor:       {0, 140},
		}},
	},
	SumoDeadlift: {
		// More upright hip position than conventional.
		"hip_angle": {Ranges: map[Category]Range{
			Excellent:  {70, 90},
			Good:       {60, 70},
			Acceptable: {50, 60},
			Poor:       {0, 50},
		}},
		"knee_angle": {Ranges: map[Category]Range{
			Excellent:  {100, 120},
			Good:       {90, 100},
			Acceptable: {80, 90},
			Poor:       {0, 80},
		}},
		// Ankle separation relative to shoulder width.
		"stance_width": {Ranges: map[Category]Range{
			Excellent:  {1.5, 2.0},
			Good:       {1.3, 1.5},
			Acceptable: {1.1, 1.3},
			Poor:       {0, 1.1},
		}},
		"torso_angle": {Ranges: map[Category]Range{
			Excellent:  {0, 15},
			Good:       {15, 25},
			Acceptable: {25, 40},
			Poor:       {40, 90},
		}},
		"bar_path": {Ranges: map[Category]Range{
			Excellent:  {0.95, 1.05},
			Good:       {0.90, 0.95},
			Acceptable: {0.85, 0.90},
			Poor:       {0, 0.85},
		}},
	},
}

// exerciseWeights maps (exercise, metric) to the metric's contribution to
// the overall score. Weights for each exercise sum to 1.0.
var exerciseWeights = map[Exercise]map[string]float64{
	BackSquat: {
		"depth":         0.30,
		"knee_angle":    0.25,
		"torso_angle":   0.20,
		"knee_tracking": 0.15,
		"bar_path":      0.10,
	},
	FrontSquat: {
		"depth":         0.25,
		"knee_angle":    0.25,
		"torso_angle":   0.25, // upright torso matters more in the front rack
		"knee_tracking": 0.15,
		"bar_path":      0.10,
	},
	ConventionalDeadlift: {
		"hip_angle":     0.25,
		"knee_angle":    0.20,
		"back_angle":    0.30, // spinal safety dominates
		"bar_path":      0.15,
		"hip_extension": 0.10,
	},
	SumoDeadlift: {
		"hip_angle":    0.25,
		"knee_angle":   0.20,
		"stance_width": 0.20,
		"torso_angle":  0.20,
		"bar_path":     0.15,
	},
}

// StandardsFor returns the metric band tables for an exercise. The map is
// shared and must not be mutated.
func StandardsFor(ex Exercise) map[string]MetricStandard {
	return exerciseStandards[ex]
}

// WeightsFor returns the metric weights for an exercise. The map is shared
// and must not be mutated.
func WeightsFor(ex Exercise) map[string]float64 {
	return exerciseWeights[ex]
}
