package analysis

import (
	"context"
	"fmt"
	"log"

	"github.com/anindilla/fix-my-form/internal/geometry"
	"github.com/anindilla/fix-my-form/internal/motion"
	"github.com/anindilla/fix-my-form/internal/pose"
	"github.com/anindilla/fix-my-form/internal/reps"
	"github.com/anindilla/fix-my-form/internal/scoring"
	"github.com/anindilla/fix-my-form/internal/standards"
)

// missingDataScore is the documented floor score reported when no usable
// pose frames were supplied. Missing input is a diagnosable condition, not
// a zero-grade performance.
const missingDataScore = 50

// Config gathers the tunables of the whole pipeline. The zero value is
// usable; every field falls back to its package default.
type Config struct {
	Geometry geometry.Config
	Motion   motion.Config
	Reps     reps.Config

	// SingleRep disables cyclic rep detection and grades the movement
	// window as one repetition.
	SingleRep bool
}

// Analyzer grades one exercise type. A single analysis call is fully
// sequential; independent calls may run concurrently since the analyzer
// holds no mutable state beyond construction.
type Analyzer struct {
	profile   Profile
	measurer  *geometry.Measurer
	motion    *motion.Segmenter
	segmenter reps.Segmenter
	engine    *scoring.Engine
}

// NewAnalyzer creates an analyzer for the given exercise type. Exercise
// types without a profile are rejected up front.
func NewAnalyzer(exercise standards.Exercise, cfg Config) (*Analyzer, error) {
	profile, ok := ProfileFor(exercise)
	if !ok {
		return nil, fmt.Errorf("no analysis profile for exercise type %q", exercise)
	}

	measurer := geometry.NewMeasurer(cfg.Geometry)

	var segmenter reps.Segmenter
	if cfg.SingleRep {
		segmenter = reps.NewSingleRepFallback()
	} else {
		segmenter = reps.NewAngleSegmenter(measurer, cfg.Reps)
	}

	return &Analyzer{
		profile:   profile,
		measurer:  measurer,
		motion:    motion.NewSegmenter(cfg.Motion),
		segmenter: segmenter,
		engine:    scoring.NewEngine(exercise),
	}, nil
}

// Analyze runs the full pipeline over a pose stream and produces the
// graded report. The context bounds the whole call: on cancellation the
// partial computation is discarded and the context error is returned,
// never a silently truncated report. Structurally invalid input fails
// fast; an empty stream degrades to a floor report instead.
func (a *Analyzer) Analyze(ctx context.Context, frames []pose.Frame) (*Report, error) {
	if err := pose.ValidateStream(frames); err != nil {
		return nil, fmt.Errorf("invalid pose stream: %w", err)
	}
	if len(frames) == 0 {
		return a.missingDataReport(), nil
	}

	window := a.motion.DetectMovementPeriod(frames)
	summary := a.motion.Analyze(frames)
	active := frames[window.Start : window.End+1]

	detected := a.segmenter.DetectReps(active)
	log.Printf("analysis: %s, %d frames, window %d-%d, %d reps",
		a.profile.Exercise, len(frames), window.Start, window.End, len(detected))

	// One sample slice per metric, pooled across reps; rep aggregates are
	// appended only when measurable so absence propagates as absence.
	metricSamples := make(map[string][]float64, len(a.profile.Metrics))
	for _, spec := range a.profile.Metrics {
		metricSamples[spec.Name] = nil
	}

	repSummaries := make([]RepSummary, 0, len(detected))
	for i, rep := range detected {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis aborted: %w", err)
		}

		issues := a.checkRep(rep)
		for _, spec := range a.profile.Metrics {
			if v, ok := a.reduceRep(rep, spec); ok {
				metricSamples[spec.Name] = append(metricSamples[spec.Name], v)
			}
		}

		repSummaries = append(repSummaries, RepSummary{
			Index:      i,
			StartFrame: window.Start + rep.StartFrame,
			EndFrame:   window.Start + rep.EndFrame,
			Duration:   rep.Duration,
			Score:      repScore(issues),
			Issues:     issues,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis aborted: %w", err)
	}

	result := a.engine.ScoreExercise(metricSamples)

	return &Report{
		Exercise:            a.profile.Exercise,
		OverallScore:        result.OverallScore,
		Strengths:           result.Strengths,
		AreasForImprovement: result.AreasForImprovement,
		SpecificCues:        result.SpecificCues,
		ExerciseBreakdown:   result.Breakdown,
		Reps:                repSummaries,
		Movement:            &summary,
	}, nil
}

// checkRep runs every frame-level issue check across a rep. Within a check,
// the most severe matching tier wins per frame.
func (a *Analyzer) checkRep(rep reps.Rep) []Issue {
	var issues []Issue
	for fi := range rep.Frames {
		frame := &rep.Frames[fi]
		for _, check := range a.profile.Checks {
			v, ok := check.Sample(a.measurer, frame)
			if !ok {
				continue
			}
			for _, tier := range check.Tiers {
				if tier.When(v) {
					issues = append(issues, Issue{
						Type:     check.Type,
						Severity: tier.Severity,
						Message:  tier.Message,
					})
					break
				}
			}
		}
	}
	return issues
}

// reduceRep collapses a rep's per-frame samples of one metric into its
// graded value. Unmeasurable frames are skipped; a rep with no measurable
// frame yields no sample at all.
func (a *Analyzer) reduceRep(rep reps.Rep, spec MetricSpec) (float64, bool) {
	var (
		sum   float64
		best  float64
		count int
	)

	for fi := range rep.Frames {
		v, ok := spec.Sample(a.measurer, &rep.Frames[fi])
		if !ok {
			continue
		}
		if count == 0 {
			best = v
		}
		switch spec.Reduce {
		case aggMin:
			if v < best {
				best = v
			}
		case aggMax:
			if v > best {
				best = v
			}
		}
		sum += v
		count++
	}

	if count == 0 {
		return 0, false
	}
	if spec.Reduce == aggMean {
		return sum / float64(count), true
	}
	return best, true
}

// missingDataReport is the fixed-floor report for an empty pose stream.
func (a *Analyzer) missingDataReport() *Report {
	return &Report{
		Exercise:     a.profile.Exercise,
		OverallScore: missingDataScore,
		Strengths:    []string{"Good effort on the exercise!"},
		AreasForImprovement: []string{
			"Unable to detect a pose in the video. Ensure the person is clearly visible and well-lit.",
		},
		SpecificCues: []string{
			"Try recording from a side angle for better analysis",
		},
		ExerciseBreakdown: map[string]scoring.MetricScore{},
		Diagnostic:        "no usable pose frames supplied",
	}
}
