package reps

import (
	"math"
	"testing"

	"github.com/anindilla/fix-my-form/internal/geometry"
	"github.com/anindilla/fix-my-form/internal/pose"
)

// hipAngleFrame builds a frame whose left-side shoulder-hip-knee angle is
// exactly the given value in degrees. The right side is hidden so the mean
// hip angle equals the left angle.
func hipAngleFrame(angleDeg float64) pose.Frame {
	f := pose.Frame{}

	hip := pose.Point{X: 0.5, Y: 0.5}
	knee := pose.Point{X: 0.5, Y: 0.7}

	theta := angleDeg * math.Pi / 180
	shoulder := pose.Point{
		X: hip.X + 0.25*math.Sin(theta),
		Y: hip.Y + 0.25*math.Cos(theta),
	}

	set := func(id int, p pose.Point) {
		f.Landmarks[id] = pose.Landmark{X: p.X, Y: p.Y, Visibility: 0.9}
	}
	set(pose.LeftShoulder, shoulder)
	set(pose.LeftHip, hip)
	set(pose.LeftKnee, knee)
	return f
}

func framesFromSignal(signal []float64) []pose.Frame {
	frames := make([]pose.Frame, len(signal))
	for i, a := range signal {
		frames[i] = hipAngleFrame(a)
	}
	return frames
}

func newTestSegmenter(cfg Config) *AngleSegmenter {
	return NewAngleSegmenter(geometry.NewMeasurer(geometry.DefaultConfig()), cfg)
}

func TestDetectReps_SingleSquatCycle(t *testing.T) {
	// Scenario: one clean dip 170 -> 90 -> 170 splits into exactly one rep
	// covering the whole dip.
	signal := []float64{170, 170, 170, 90, 90, 90, 170, 170, 170}
	frames := framesFromSignal(signal)

	s := newTestSegmenter(Config{MinRepDuration: 2})
	reps := s.DetectReps(frames)

	if len(reps) != 1 {
		t.Fatalf("expected exactly 1 rep, got %d", len(reps))
	}
	rep := reps[0]
	if rep.StartFrame > 3 || rep.EndFrame < 5 {
		t.Errorf("rep (%d,%d) does not cover the dip at frames 3-5", rep.StartFrame, rep.EndFrame)
	}
	if rep.Duration != rep.EndFrame-rep.StartFrame+1 {
		t.Errorf("duration %d inconsistent with interval (%d,%d)", rep.Duration, rep.StartFrame, rep.EndFrame)
	}
}

func TestDetectReps_CountsFullCycles(t *testing.T) {
	// A clean oscillation of N full cycles yields exactly N reps, one per
	// bottom position.
	const (
		period = 20
		cycles = 3
	)
	signal := make([]float64, period*cycles+1)
	for t := range signal {
		signal[t] = 130 + 40*math.Cos(2*math.Pi*float64(t)/period)
	}

	s := newTestSegmenter(DefaultConfig())
	reps := s.DetectReps(framesFromSignal(signal))

	if len(reps) != cycles {
		t.Fatalf("expected %d reps for %d cycles, got %d", cycles, cycles, len(reps))
	}

	// Each rep should contain its bottom position.
	bottoms := []int{10, 30, 50}
	for i, rep := range reps {
		if bottoms[i] < rep.StartFrame || bottoms[i] > rep.EndFrame {
			t.Errorf("rep %d (%d,%d) does not contain bottom at %d",
				i, rep.StartFrame, rep.EndFrame, bottoms[i])
		}
	}
}

func TestDetectReps_MoreCycles(t *testing.T) {
	for _, cycles := range []int{1, 2, 5, 8} {
		const period = 24
		signal := make([]float64, period*cycles+1)
		for t := range signal {
			signal[t] = 130 + 40*math.Cos(2*math.Pi*float64(t)/period)
		}

		s := newTestSegmenter(DefaultConfig())
		reps := s.DetectReps(framesFromSignal(signal))
		if len(reps) != cycles {
			t.Errorf("cycles=%d: expected %d reps, got %d", cycles, cycles, len(reps))
		}
	}
}

func TestDetectReps_FallbackNeverZero(t *testing.T) {
	streams := [][]pose.Frame{
		framesFromSignal([]float64{90}),
		framesFromSignal([]float64{90, 90, 90}),
		framesFromSignal(make([]float64, 40)), // all zero angles -> neutral substitution
		framesFromSignal([]float64{170, 160, 150, 140, 130, 120, 110, 100, 95, 90, 88, 85}), // monotone, no cycle
	}

	s := newTestSegmenter(DefaultConfig())
	for i, frames := range streams {
		reps := s.DetectReps(frames)
		if len(reps) == 0 {
			t.Errorf("stream %d: segmenter returned zero reps for non-empty input", i)
			continue
		}
		if len(reps) == 1 && (reps[0].StartFrame != 0 || reps[0].EndFrame != len(frames)-1) {
			t.Errorf("stream %d: fallback rep (%d,%d) does not span the window of %d frames",
				i, reps[0].StartFrame, reps[0].EndFrame, len(frames))
		}
	}
}

func TestDetectReps_EmptyInput(t *testing.T) {
	s := newTestSegmenter(DefaultConfig())
	if reps := s.DetectReps(nil); reps != nil {
		t.Errorf("expected nil for empty input, got %d reps", len(reps))
	}
}

func TestSignal_NeutralSubstitution(t *testing.T) {
	// A frame with no visible landmarks is unmeasurable; the signal
	// substitutes the neutral angle to stay dense.
	frames := []pose.Frame{hipAngleFrame(150), {}, hipAngleFrame(150)}

	s := newTestSegmenter(DefaultConfig())
	signal := s.Signal(frames)

	if len(signal) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(signal))
	}
	if math.Abs(signal[0]-150) > 0.1 {
		t.Errorf("expected ~150 for measurable frame, got %f", signal[0])
	}
	if signal[1] != neutralAngle {
		t.Errorf("expected neutral angle %d for unmeasurable frame, got %f", neutralAngle, signal[1])
	}
}

func TestSmooth(t *testing.T) {
	// Short series pass through untouched.
	short := []float64{1, 2}
	got := Smooth(short, 5)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected short series unchanged, got %v", got)
	}

	// A spike is attenuated but the mean stays put on a flat series.
	flat := []float64{90, 90, 90, 150, 90, 90, 90}
	smoothed := Smooth(flat, 5)
	if smoothed[3] >= 150 {
		t.Errorf("expected spike attenuated, got %f", smoothed[3])
	}
	if smoothed[3] <= 90 {
		t.Errorf("expected spike to still raise the window mean, got %f", smoothed[3])
	}
}

func TestFindExtrema_MinimumSpacing(t *testing.T) {
	// Two maxima 2 apart with distance 3: only the higher survives.
	signal := []float64{0, 5, 0, 6, 0}
	got := findExtrema(signal, 3, false)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("expected single extremum at 3, got %v", got)
	}

	// With distance 1 both survive.
	got = findExtrema(signal, 1, false)
	if len(got) != 2 {
		t.Errorf("expected both extrema, got %v", got)
	}
}

func TestFindExtrema_Plateau(t *testing.T) {
	// A flat top counts once, at its midpoint.
	signal := []float64{0, 1, 5, 5, 5, 1, 0}
	got := findExtrema(signal, 1, false)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("expected plateau midpoint 3, got %v", got)
	}

	// A plateau running into the boundary is not an extremum.
	signal = []float64{0, 1, 5, 5, 5}
	if got := findExtrema(signal, 1, false); len(got) != 0 {
		t.Errorf("expected no extremum for boundary plateau, got %v", got)
	}
}

func TestSingleRepFallback(t *testing.T) {
	frames := framesFromSignal([]float64{170, 90, 170, 90, 170})

	s := NewSingleRepFallback()
	reps := s.DetectReps(frames)
	if len(reps) != 1 {
		t.Fatalf("expected 1 rep, got %d", len(reps))
	}
	if reps[0].StartFrame != 0 || reps[0].EndFrame != 4 || reps[0].Duration != 5 {
		t.Errorf("expected rep spanning all 5 frames, got %+v", reps[0])
	}

	if got := s.DetectReps(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
