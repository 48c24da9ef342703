// Package reps splits an active movement window into individual exercise
// repetitions by tracking cycles in a representative joint-angle signal.
package reps

import (
	"log"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/anindilla/fix-my-form/internal/geometry"
	"github.com/anindilla/fix-my-form/internal/pose"
)

// neutralAngle is substituted for frames where the signal angle is
// unmeasurable, keeping the series dense for smoothing. Smoothing tolerates
// isolated substitutions; it cannot tolerate gaps.
const neutralAngle = 90

// Rep is one detected repetition: a closed frame interval plus the frames
// it covers. Owned by the segmenter, consumed read-only by the analyzer.
type Rep struct {
	StartFrame int
	EndFrame   int
	Frames     []pose.Frame
	Duration   int
}

// Segmenter is the capability interface for rep detection. The angle-cycle
// implementation is the default; SingleRepFallback is the degraded variant
// selected when cyclic detection is unavailable or undesired.
type Segmenter interface {
	// DetectReps splits the frames into repetitions. Implementations must
	// never return zero reps for a non-empty input.
	DetectReps(frames []pose.Frame) []Rep
}

// Config holds configuration options for rep segmentation.
type Config struct {
	// SmoothingWindow is the centered moving-average window applied to the
	// angle series before extremum detection.
	SmoothingWindow int

	// MinRepDuration is both the minimum rep length in frames and the
	// minimum spacing between detected extrema.
	MinRepDuration int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		SmoothingWindow: 5,
		MinRepDuration:  10,
	}
}

// AngleSegmenter detects reps from cycles in the mean hip angle. Peaks of
// the smoothed signal are the standing position, valleys the bottom of the
// lift; each valley anchors one rep delimited by the surrounding peaks.
type AngleSegmenter struct {
	measurer        *geometry.Measurer
	smoothingWindow int
	minRepDuration  int
}

// NewAngleSegmenter creates an AngleSegmenter using the given measurer,
// filling in defaults for unset config fields.
func NewAngleSegmenter(m *geometry.Measurer, cfg Config) *AngleSegmenter {
	def := DefaultConfig()
	if cfg.SmoothingWindow <= 0 {
		cfg.SmoothingWindow = def.SmoothingWindow
	}
	if cfg.MinRepDuration <= 0 {
		cfg.MinRepDuration = def.MinRepDuration
	}
	return &AngleSegmenter{
		measurer:        m,
		smoothingWindow: cfg.SmoothingWindow,
		minRepDuration:  cfg.MinRepDuration,
	}
}

// DetectReps splits the movement window into repetitions. Segmentation
// never fails outright: when fewer than two extrema are found, or no
// interval survives the duration filter, the whole window is returned as a
// single rep.
func (s *AngleSegmenter) DetectReps(frames []pose.Frame) []Rep {
	if len(frames) == 0 {
		return nil
	}
	if len(frames) < s.minRepDuration {
		return []Rep{wholeWindow(frames)}
	}

	signal := s.Signal(frames)
	smoothed := Smooth(signal, s.smoothingWindow)

	intervals := s.findRepIntervals(smoothed)
	if len(intervals) == 0 {
		log.Printf("reps: no clear rep cycles found, treating window as one rep")
		return []Rep{wholeWindow(frames)}
	}

	reps := make([]Rep, 0, len(intervals))
	for _, iv := range intervals {
		reps = append(reps, Rep{
			StartFrame: iv.start,
			EndFrame:   iv.end,
			Frames:     frames[iv.start : iv.end+1],
			Duration:   iv.end - iv.start + 1,
		})
	}

	log.Printf("reps: detected %d reps", len(reps))
	return reps
}

// Signal builds the representative angle series: the mean hip angle per
// frame, with the neutral angle substituted where unmeasurable.
func (s *AngleSegmenter) Signal(frames []pose.Frame) []float64 {
	signal := make([]float64, len(frames))
	for i := range frames {
		angle, ok := s.measurer.MeanHipAngle(&frames[i])
		if !ok {
			angle = neutralAngle
		}
		signal[i] = angle
	}
	return signal
}

// Smooth applies a centered moving average of the given window size,
// shrinking the window at the series boundaries.
func Smooth(signal []float64, window int) []float64 {
	if len(signal) < window || window < 2 {
		return signal
	}

	half := window / 2
	smoothed := make([]float64, len(signal))
	for i := range signal {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(signal) {
			hi = len(signal)
		}
		smoothed[i] = stat.Mean(signal[lo:hi], nil)
	}
	return smoothed
}

type interval struct {
	start int
	end   int
}

// findRepIntervals locates rep boundaries in the smoothed signal. Each
// detected valley yields one rep spanning from the preceding peak (or the
// window start) to the following peak (or the window end). N clean
// oscillation cycles therefore yield exactly N reps.
func (s *AngleSegmenter) findRepIntervals(signal []float64) []interval {
	peaks := findExtrema(signal, s.minRepDuration, false)
	valleys := findExtrema(signal, s.minRepDuration, true)
	if len(valleys) == 0 {
		return nil
	}

	peaks, valleys = enforceSpacing(signal, peaks, valleys, s.minRepDuration)
	if len(valleys) == 0 {
		return nil
	}

	var intervals []interval
	for _, v := range valleys {
		iv := interval{start: 0, end: len(signal) - 1}
		for _, p := range peaks {
			if p < v && p > iv.start {
				iv.start = p
			}
			if p > v && (iv.end == len(signal)-1 || p < iv.end) {
				iv.end = p
			}
		}
		if iv.end-iv.start >= s.minRepDuration {
			intervals = append(intervals, iv)
		}
	}

	return intervals
}

// findExtrema locates local maxima (or minima when invert is set) at least
// distance frames apart. Plateaus count once, at their midpoint. When two
// candidates are closer than distance, the more extreme one survives.
func findExtrema(signal []float64, distance int, invert bool) []int {
	value := func(i int) float64 {
		if invert {
			return -signal[i]
		}
		return signal[i]
	}

	var candidates []int
	i := 1
	for i < len(signal)-1 {
		if value(i) <= value(i-1) {
			i++
			continue
		}
		// Walk any plateau.
		j := i
		for j < len(signal)-1 && value(j+1) == value(i) {
			j++
		}
		if j < len(signal)-1 && value(j+1) < value(i) {
			candidates = append(candidates, (i+j)/2)
		}
		i = j + 1
	}

	if len(candidates) <= 1 {
		return candidates
	}

	// Highest-priority-first selection, then restore index order.
	sort.Slice(candidates, func(a, b int) bool {
		return value(candidates[a]) > value(candidates[b])
	})
	var kept []int
	for _, c := range candidates {
		ok := true
		for _, k := range kept {
			if abs(c-k) < distance {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, c)
		}
	}
	sort.Ints(kept)
	return kept
}

// enforceSpacing applies the minimum separation across extrema of both
// kinds. When a peak and a valley collide, the one deviating further from
// the series mean survives.
func enforceSpacing(signal []float64, peaks, valleys []int, distance int) (outPeaks, outValleys []int) {
	mean := stat.Mean(signal, nil)

	type extremum struct {
		index  int
		valley bool
	}
	merged := make([]extremum, 0, len(peaks)+len(valleys))
	for _, p := range peaks {
		merged = append(merged, extremum{index: p})
	}
	for _, v := range valleys {
		merged = append(merged, extremum{index: v, valley: true})
	}
	sort.Slice(merged, func(a, b int) bool { return merged[a].index < merged[b].index })

	var kept []extremum
	for _, e := range merged {
		if len(kept) == 0 || e.index-kept[len(kept)-1].index >= distance {
			kept = append(kept, e)
			continue
		}
		prev := kept[len(kept)-1]
		if math.Abs(signal[e.index]-mean) > math.Abs(signal[prev.index]-mean) {
			kept[len(kept)-1] = e
		}
	}

	for _, e := range kept {
		if e.valley {
			outValleys = append(outValleys, e.index)
		} else {
			outPeaks = append(outPeaks, e.index)
		}
	}
	return outPeaks, outValleys
}

// wholeWindow wraps the full frame range as a single rep.
func wholeWindow(frames []pose.Frame) Rep {
	return Rep{
		StartFrame: 0,
		EndFrame:   len(frames) - 1,
		Frames:     frames,
		Duration:   len(frames),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
