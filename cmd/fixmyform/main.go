package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/anindilla/fix-my-form/internal/analysis"
	"github.com/anindilla/fix-my-form/internal/pose"
	"github.com/anindilla/fix-my-form/internal/standards"
	"github.com/anindilla/fix-my-form/internal/store"
)

func main() {
	var (
		inputPath    = flag.String("input", "", "path to pose stream JSON (required)")
		exerciseName = flag.String("exercise", string(standards.BackSquat), "exercise type")
		configPath   = flag.String("config", "", "optional tuning config JSON")
		dbPath       = flag.String("db", "", "optional SQLite path to persist the report")
		timeout      = flag.Duration("timeout", 30*time.Second, "analysis timeout")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	exercise, err := standards.ParseExercise(*exerciseName)
	if err != nil {
		log.Fatalf("Invalid exercise: %v", err)
	}

	var cfg analysis.Config
	if *configPath != "" {
		cfg, err = analysis.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
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

	analyzer, err := analysis.NewAnalyzer(exercise, cfg)
	if err != nil {
		log.Fatalf("Failed to create analyzer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := analyzer.Analyze(ctx, frames)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *dbPath != "" {
		st, err := store.NewSQLiteStore(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer st.Close()

		id := uuid.NewString()
		if err := st.Put(id, report); err != nil {
			log.Fatalf("Failed to store report: %v", err)
		}
		fmt.Fprintf(os.Stderr, "stored report %s\n", id)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
	fmt.Println(string(out))
}
