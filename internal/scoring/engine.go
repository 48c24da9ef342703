// Package scoring grades measured form metrics against the standards
// catalog and assembles weighted overall scores with coaching feedback.
package scoring

import (
	"fmt"
	"log"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/anindilla/fix-my-form/internal/standards"
)

// defaultWeight applies to metrics missing from the catalog weight table,
// so an unanticipated metric still contributes instead of being dropped.
const defaultWeight = 0.1

// MetricScore is the graded result for one metric.
type MetricScore struct {
	Score      int                `json:"score"`
	Category   standards.Category `json:"category"`
	Value      float64            `json:"value"`
	IdealRange standards.Range    `json:"ideal_range"`
	Deviation  float64            `json:"deviation"`
	Message    string             `json:"message"`
}

// Result is the graded outcome for a whole exercise.
type Result struct {
	OverallScore        int                    `json:"overall_score"`
	Breakdown           map[string]MetricScore `json:"breakdown"`
	Strengths           []string               `json:"strengths"`
	AreasForImprovement []string               `json:"areas_for_improvement"`
	SpecificCues        []string               `json:"specific_cues"`
}

// Engine scores metrics for one exercise type. It is a pure function of
// its inputs and the process-wide catalog, so a single Engine is safe for
// concurrent use.
type Engine struct {
	exercise  standards.Exercise
	standards map[string]standards.MetricStandard
	weights   map[string]float64
}

// NewEngine creates a scoring engine for the given exercise type. An
// exercise without catalog entries still yields an engine; every metric
// then scores as unknown.
func NewEngine(exercise standards.Exercise) *Engine {
	st := standards.StandardsFor(exercise)
	if len(st) == 0 {
		log.Printf("scoring: no standards found for exercise type %q", exercise)
	}
	return &Engine{
		exercise:  exercise,
		standards: st,
		weights:   standards.WeightsFor(exercise),
	}
}

// ScoreMetric grades one metric from its per-frame samples. Non-positive
// samples are excluded before averaging; metrics where zero or negative
// values are meaningful must pre-filter their own samples. An empty or
// fully excluded sample set yields a failed result (score 0), which is
// distinguishable downstream from a genuinely poor score.
func (e *Engine) ScoreMetric(name string, samples []float64) MetricScore {
	st, ok := e.standards[name]
	if !ok {
		log.Printf("scoring: unknown metric %q for %s", name, e.exercise)
		return MetricScore{
			Score:      50,
			Category:   standards.Unknown,
			IdealRange: standards.Range{Low: 0, High: 100},
			Message:    fmt.Sprintf("Unknown metric: %s", name),
		}
	}

	usable := make([]float64, 0, len(samples))
	for _, v := range samples {
		if v > 0 {
			usable = append(usable, v)
		}
	}
	if len(usable) == 0 {
		return failedMetric(name, "no measurement")
	}
	value := stat.Mean(usable, nil)

	category, ideal := categorize(value, st)
	score := standards.CategoryScore(category)

	return MetricScore{
		Score:      score,
		Category:   category,
		Value:      round1(value),
		IdealRange: ideal,
		Deviation:  round1(math.Abs(value - ideal.Mid())),
		Message:    metricMessage(name, value, category, ideal),
	}
}

// ScoreExercise grades a full metric set: each metric is scored, weighted
// by the catalog, and summed into the overall score. The feedback lists are
// never empty.
func (e *Engine) ScoreExercise(metrics map[string][]float64) Result {
	res := Result{Breakdown: make(map[string]MetricScore, len(metrics))}

	var overall float64
	for name, samples := range metrics {
		ms := e.ScoreMetric(name, samples)
		res.Breakdown[name] = ms

		weight, ok := e.weights[name]
		if !ok {
			weight = defaultWeight
		}
		overall += float64(ms.Score) * weight

		switch {
		case ms.Score >= 80:
			res.Strengths = append(res.Strengths, ms.Message)
		case ms.Score < 60:
			res.AreasForImprovement = append(res.AreasForImprovement, ms.Message)
			res.SpecificCues = append(res.SpecificCues, cueFor(name))
		}
	}

	res.OverallScore = clampScore(int(overall))

	if len(res.Strengths) == 0 {
		res.Strengths = append(res.Strengths, "Good effort on the exercise!")
	}
	if len(res.AreasForImprovement) == 0 {
		res.AreasForImprovement = append(res.AreasForImprovement, "Continue practicing to improve form")
	}
	if len(res.SpecificCues) == 0 {
		res.SpecificCues = append(res.SpecificCues, "Focus on maintaining proper technique throughout the movement")
	}

	return res
}

// categorize walks the fixed category order and returns the first band
// containing the value. A value matching nothing is poor; metrics with an
// open-ended poor band report the acceptable bounds as their ideal range.
func categorize(value float64, st standards.MetricStandard) (standards.Category, standards.Range) {
	for _, cat := range standards.CategoryOrder {
		r, ok := st.Ranges[cat]
		if !ok {
			continue
		}
		if r.Contains(value) {
			return cat, r
		}
	}

	if r, ok := st.Ranges[standards.Poor]; ok {
		return standards.Poor, r
	}
	if st.PoorOpen {
		if r, ok := st.Ranges[standards.Acceptable]; ok {
			return standards.Poor, r
		}
	}
	return standards.Poor, standards.Range{Low: 0, High: 100}
}

// failedMetric builds the result for a metric that could not be measured.
func failedMetric(name, reason string) MetricScore {
	return MetricScore{
		Score:      0,
		Category:   standards.Failed,
		IdealRange: standards.Range{Low: 0, High: 100},
		Message:    fmt.Sprintf("Could not measure %s - %s", displayName(name), reason),
	}
}

// metricMessage renders the human-readable line for a graded metric.
func metricMessage(name string, value float64, category standards.Category, ideal standards.Range) string {
	display := displayName(name)
	switch category {
	case standards.Excellent:
		return fmt.Sprintf("Excellent %s: %.1f°", display, value)
	case standards.Good:
		return fmt.Sprintf("Good %s: %.1f°", display, value)
	case standards.Acceptable:
		return fmt.Sprintf("Acceptable %s: %.1f°", display, value)
	}
	return fmt.Sprintf("Needs improvement in %s: %.1f° (ideal: %g-%g°)", display, value, ideal.Low, ideal.High)
}

// metricCues maps metric names to their improvement cue.
var metricCues = map[string]string{
	"depth":         "Focus on reaching proper depth while maintaining form",
	"knee_angle":    "Work on knee positioning throughout the movement",
	"torso_angle":   "Maintain proper torso position and avoid excessive lean",
	"knee_tracking": "Keep knees tracking over your toes",
	"bar_path":      "Focus on maintaining a vertical bar path",
	"hip_angle":     "Work on hip positioning and mobility",
	"back_angle":    "Maintain neutral spine throughout the movement",
	"stance_width":  "Adjust your stance width for optimal positioning",
	"hip_extension": "Focus on full hip extension at the top",
}

// cueFor returns the coaching cue for a metric.
func cueFor(name string) string {
	if cue, ok := metricCues[name]; ok {
		return cue
	}
	return "Focus on proper technique for this aspect"
}

// displayName turns a metric key into prose ("knee_angle" -> "knee angle").
func displayName(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
