// signal-plot renders the rep-detection angle signal of a pose stream as
// an HTML line chart: raw mean hip angle, smoothed series and per-pair
// motion scores. Debugging aid for tuning segmentation thresholds.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anindilla/fix-my-form/internal/geometry"
	"github.com/anindilla/fix-my-form/internal/motion"
	"github.com/anindilla/fix-my-form/internal/pose"
	"github.com/anindilla/fix-my-form/internal/reps"
)

func main() {
	var (
		inputPath = flag.String("input", "", "path to pose stream JSON (required)")
		outPath   = flag.String("out", "signal.html", "output HTML path")
		window    = flag.Int("window", 5, "smoothing window")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	frames, err := pose.DecodeStream(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to decode pose stream: %v", err)
	}
	if len(frames) == 0 {
		log.Fatalf("Pose stream is empty")
	}

	measurer := geometry.NewMeasurer(geometry.DefaultConfig())
	segmenter := reps.NewAngleSegmenter(measurer, reps.Config{SmoothingWindow: *window})

	raw := segmenter.Signal(frames)
	smoothed := reps.Smooth(raw, *window)
	motionScores := motion.Scores(frames)

	xAxis := make([]string, len(raw))
	rawData := make([]opts.LineData, len(raw))
	smoothData := make([]opts.LineData, len(raw))
	motionData := make([]opts.LineData, len(raw))
	for i := range raw {
		xAxis[i] = fmt.Sprintf("%d", i)
		rawData[i] = opts.LineData{Value: raw[i]}
		smoothData[i] = opts.LineData{Value: smoothed[i]}
		if i > 0 {
			// Scale motion onto the angle axis so all three series share a plot.
			motionData[i] = opts.LineData{Value: motionScores[i-1] * 1000}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Rep Signal",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Hip angle signal",
			Subtitle: fmt.Sprintf("%d frames, smoothing window %d", len(frames), *window),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "degrees"}),
	)

	line.SetXAxis(xAxis).
		AddSeries("raw", rawData).
		AddSeries("smoothed", smoothData).
		AddSeries("motion x1000", motionData)

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer out.Close()

	if err := line.Render(out); err != nil {
		log.Fatalf("Failed to render chart: %v", err)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
