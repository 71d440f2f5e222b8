package main

import (
	"fmt"
	"io"
	"time"

	"buildlens/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	stages := []struct {
		label string
		stage pipeline.Stage
	}{
		{"scanned", pipeline.StageScan},
		{"parsed", pipeline.StageParse},
		{"folded", pipeline.StageFold},
		{"analyzed", pipeline.StageAnalyze},
	}
	for _, s := range stages {
		if !timings.Has(s.stage) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", s.label, toMillis(timings.Duration(s.stage)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
