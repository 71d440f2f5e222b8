package pipeline

import (
	"context"
	"time"

	"buildlens/internal/analysis"
)

// AnalyzeResult bundles the collected timeline with its aggregated report.
type AnalyzeResult struct {
	Result
	Report *analysis.Report
}

// Analyze runs Collect and aggregates the folded timeline into a report.
// On a collection error the partial result is still returned so callers
// can print whatever diagnostics were gathered.
func Analyze(ctx context.Context, req Request, opts analysis.Options) (AnalyzeResult, error) {
	var res AnalyzeResult

	collected, err := Collect(ctx, req)
	res.Result = collected
	if err != nil {
		return res, err
	}

	analyzeStart := time.Now()
	emitRun(req.Progress, StageAnalyze, StatusWorking, nil, 0)
	res.Report = analysis.Run(collected.Store, collected.Names, opts)
	res.Timings.Set(StageAnalyze, time.Since(analyzeStart))
	emitRun(req.Progress, StageAnalyze, StatusDone, nil, res.Timings.Duration(StageAnalyze))

	return res, nil
}
