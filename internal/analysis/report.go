// Package analysis orchestrates the full grading pipeline for one exercise
// video: movement windowing, rep segmentation, per-frame measurement,
// severity-tiered issue detection and weighted scoring.
package analysis

import (
	"github.com/anindilla/fix-my-form/internal/motion"
	"github.com/anindilla/fix-my-form/internal/scoring"
	"github.com/anindilla/fix-my-form/internal/standards"
)

// Severity classifies a detected form issue.
type Severity string

const (
	// SeverityCritical marks issues with injury potential.
	SeverityCritical Severity = "critical"
	// SeverityMajor marks clear technique faults.
	SeverityMajor Severity = "major"
	// SeverityMinor marks small deviations worth a cue.
	SeverityMinor Severity = "minor"
)

// severityPenalty is subtracted from the per-rep baseline for each issue.
var severityPenalty = map[Severity]int{
	SeverityCritical: 30,
	SeverityMajor:    15,
	SeverityMinor:    5,
}

// repBaseline and repFloor bound the per-rep score. The floor is above
// zero: a completed rep always reflects some attempt.
const (
	repBaseline = 70
	repFloor    = 30
)

// Issue is one detected form problem on one frame.
type Issue struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// RepSummary reports one repetition: its frame interval, its
// severity-penalized score and the issues found in it.
type RepSummary struct {
	Index      int     `json:"index"`
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	Duration   int     `json:"duration"`
	Score      int     `json:"score"`
	Issues     []Issue `json:"issues,omitempty"`
}

// Report is the complete graded assessment for one analysis call. It is
// immutable after construction and serializes to flat JSON.
type Report struct {
	Exercise            standards.Exercise             `json:"exercise"`
	OverallScore        int                            `json:"overall_score"`
	Strengths           []string                       `json:"strengths"`
	AreasForImprovement []string                       `json:"areas_for_improvement"`
	SpecificCues        []string                       `json:"specific_cues"`
	ExerciseBreakdown   map[string]scoring.MetricScore `json:"exercise_breakdown"`
	Reps                []RepSummary                   `json:"reps,omitempty"`
	Movement            *motion.Summary                `json:"movement,omitempty"`
	Diagnostic          string                         `json:"diagnostic,omitempty"`
}

// repScore computes the severity-penalized score for one rep: a 70-point
// baseline minus per-issue penalties, floored at 30.
func repScore(issues []Issue) int {
	score := repBaseline
	for _, issue := range issues {
		score -= severityPenalty[issue.Severity]
	}
	if score < repFloor {
		return repFloor
	}
	return score
}
