// Package motion partitions a pose stream into setup, active movement and
// rest, and selects the dominant movement window for downstream rep
// segmentation.
package motion

import (
	"log"

	"gonum.org/v1/gonum/stat"

	"github.com/anindilla/fix-my-form/internal/pose"
)

// activeLandmarks are the joints whose displacement signals exercise
// movement: shoulders, elbows, wrists, hips, knees and ankles.
var activeLandmarks = []int{
	pose.LeftShoulder, pose.RightShoulder,
	pose.LeftElbow, pose.RightElbow,
	pose.LeftWrist, pose.RightWrist,
	pose.LeftHip, pose.RightHip,
	pose.LeftKnee, pose.RightKnee,
	pose.LeftAnkle, pose.RightAnkle,
}

// landmarkVisibility is the fixed visibility cut for motion scoring. Motion
// scoring is deliberately independent of the geometry strictness setting;
// it only needs landmarks stable enough to difference.
const landmarkVisibility = 0.5

// minFramesForDetection is the smallest stream worth segmenting. Below this
// the whole range is returned without computing scores.
const minFramesForDetection = 10

// Segment is a closed interval of frame indices.
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of frames covered by the segment.
func (s Segment) Len() int {
	return s.End - s.Start + 1
}

// Summary is descriptive movement telemetry for the final report. The
// setup/rest counts are independent of the dominant segment choice.
type Summary struct {
	TotalFrames  int       `json:"total_frames"`
	SetupFrames  int       `json:"setup_frames"`
	RestFrames   int       `json:"rest_frames"`
	ActiveFrames int       `json:"active_frames"`
	AvgMotion    float64   `json:"avg_motion"`
	MaxMotion    float64   `json:"max_motion"`
	Segments     []Segment `json:"segments,omitempty"`
}

// Segmenter detects when actual exercise movement starts and ends within a
// pose stream, separating it from static setup and rest.
type Segmenter struct {
	threshold         float64
	minMovementFrames int
}

// Config holds configuration options for movement detection.
type Config struct {
	// MotionThreshold is the minimum mean landmark displacement between
	// consecutive frames to classify the gap as moving.
	MotionThreshold float64

	// MinMovementFrames is the minimum length of a moving run to count as
	// a candidate movement segment.
	MinMovementFrames int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MotionThreshold:   0.02,
		MinMovementFrames: 10,
	}
}

// NewSegmenter creates a Segmenter from the given configuration, filling in
// defaults for unset fields.
func NewSegmenter(cfg Config) *Segmenter {
	def := DefaultConfig()
	if cfg.MotionThreshold <= 0 {
		cfg.MotionThreshold = def.MotionThreshold
	}
	if cfg.MinMovementFrames <= 0 {
		cfg.MinMovementFrames = def.MinMovementFrames
	}
	return &Segmenter{
		threshold:         cfg.MotionThreshold,
		minMovementFrames: cfg.MinMovementFrames,
	}
}

// SetThreshold overrides the motion threshold. Values <= 0 are ignored.
func (s *Segmenter) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	s.threshold = threshold
}

// Scores computes the motion score for each consecutive frame pair: the
// mean Euclidean displacement of the active landmarks visible in both
// frames. A pair with no mutually visible landmarks scores zero. The result
// has len(frames)-1 entries.
func Scores(frames []pose.Frame) []float64 {
	if len(frames) < 2 {
		return nil
	}

	scores := make([]float64, 0, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		scores = append(scores, frameMotion(&frames[i-1], &frames[i]))
	}
	return scores
}

// frameMotion computes the motion score between two frames.
func frameMotion(prev, curr *pose.Frame) float64 {
	var total float64
	var valid int

	for _, id := range activeLandmarks {
		if prev.Landmarks[id].Visibility <= landmarkVisibility ||
			curr.Landmarks[id].Visibility <= landmarkVisibility {
			continue
		}
		total += pose.Distance(prev.Point(id), curr.Point(id))
		valid++
	}

	if valid == 0 {
		return 0
	}
	return total / float64(valid)
}

// DetectMovementPeriod finds the contiguous frame range containing the main
// exercise movement. It always returns a valid window: when no movement
// clears the thresholds the entire range is used, since producing a coarse
// window beats producing none.
func (s *Segmenter) DetectMovementPeriod(frames []pose.Frame) Segment {
	whole := Segment{Start: 0, End: len(frames) - 1}
	if len(frames) < minFramesForDetection {
		log.Printf("motion: insufficient pose data (%d frames), using entire range", len(frames))
		return whole
	}

	scores := Scores(frames)
	segments := s.findMovementSegments(scores)
	if len(segments) == 0 {
		log.Printf("motion: no movement segments detected, using entire range")
		return whole
	}

	// Longest segment wins; earliest start breaks ties. Segments arrive in
	// ascending start order so > keeps the earliest on equal length.
	main := segments[0]
	for _, seg := range segments[1:] {
		if seg.Len() > main.Len() {
			main = seg
		}
	}

	log.Printf("motion: movement period frames %d-%d (%d frames)", main.Start, main.End, main.Len())
	return main
}

// findMovementSegments merges consecutive moving gaps into candidate
// segments and discards those shorter than the minimum run length. Indices
// are gap indices, i.e. frame indices of the first frame of each pair.
func (s *Segmenter) findMovementSegments(scores []float64) []Segment {
	var segments []Segment
	inMovement := false
	start := 0

	for i, score := range scores {
		if score > s.threshold {
			if !inMovement {
				inMovement = true
				start = i
			}
			continue
		}
		if inMovement {
			if i-start >= s.minMovementFrames {
				segments = append(segments, Segment{Start: start, End: i})
			}
			inMovement = false
		}
	}

	// Movement running to the end of the stream.
	if inMovement && len(scores)-start >= s.minMovementFrames {
		segments = append(segments, Segment{Start: start, End: len(scores) - 1})
	}

	return segments
}

// Analyze produces the full movement telemetry for a stream: candidate
// segments, setup and rest lengths and motion statistics.
func (s *Segmenter) Analyze(frames []pose.Frame) Summary {
	sum := Summary{TotalFrames: len(frames)}
	if len(frames) < 2 {
		return sum
	}

	scores := Scores(frames)
	sum.Segments = s.findMovementSegments(scores)
	sum.AvgMotion = stat.Mean(scores, nil)
	for _, v := range scores {
		if v > sum.MaxMotion {
			sum.MaxMotion = v
		}
	}

	setupEnd, restStart := s.setupAndRest(scores)
	sum.SetupFrames = setupEnd
	sum.RestFrames = len(frames) - restStart
	sum.ActiveFrames = restStart - setupEnd

	return sum
}

// setupAndRest finds the static period at the start (searched within the
// first third) and the static tail at the end (searched within the last
// half) of the score series.
func (s *Segmenter) setupAndRest(scores []float64) (setupEnd, restStart int) {
	restStart = len(scores)

	for i := 0; i < len(scores)/3; i++ {
		if scores[i] > s.threshold {
			setupEnd = i
			break
		}
	}

	for i := len(scores) - 1; i > len(scores)/2; i-- {
		if scores[i] > s.threshold {
			restStart = i + 1
			break
		}
	}

	return setupEnd, restStart
}
