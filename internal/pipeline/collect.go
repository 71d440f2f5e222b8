// Package pipeline orchestrates a full analysis run: discover trace
// files, parse them in parallel, fold the survivors into one timeline
// and aggregate the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"buildlens/internal/diag"
	"buildlens/internal/scan"
	"buildlens/internal/timeline"
)

// ErrEmptyTraceSet reports a run in which not a single trace survived
// parsing. Callers treat it as fatal.
var ErrEmptyTraceSet = errors.New("no usable traces")

// Request configures a collection run.
type Request struct {
	// Root is the directory scanned for *.json traces. Ignored when
	// Files is set.
	Root string
	// Files, when non-empty, is an explicit trace list that bypasses
	// the scan stage. Порядок сохраняется как есть.
	Files []string
	// Window filters scanned files by modification time.
	Window scan.Window
	// Jobs limits parse parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds the run-level diagnostic bag.
	MaxDiagnostics int
	// Progress, when non-nil, receives stage events.
	Progress ProgressSink
}

// Result is the outcome of Collect.
type Result struct {
	Store *timeline.Store
	Names *timeline.NameTable
	Bag   *diag.Bag

	Timings      Timings
	FilesScanned int
	FilesParsed  int
	FilesSkipped int
	EventCount   int
}

// fileOutcome хранит результат разбора одного файла. Индексы уникальны
// для каждой горутины, мьютекс не нужен.
type fileOutcome struct {
	records []timeline.Record
	bag     *diag.Bag
	skipped bool
}

// Collect scans (unless req.Files is given), parses each trace
// concurrently and folds the surviving records into a single shared
// store, strictly in file-list order so that the resulting tree is
// identical no matter how many workers ran.
func Collect(ctx context.Context, req Request) (Result, error) {
	var res Result
	res.Bag = diag.NewBag(req.MaxDiagnostics)

	files := req.Files
	if len(files) == 0 {
		scanStart := time.Now()
		emitRun(req.Progress, StageScan, StatusWorking, nil, 0)
		found, err := scan.Files(req.Root, req.Window)
		res.Timings.Set(StageScan, time.Since(scanStart))
		if err != nil {
			err = fmt.Errorf("scan %s: %w", req.Root, err)
			emitRun(req.Progress, StageScan, StatusFailed, err, res.Timings.Duration(StageScan))
			return res, err
		}
		emitRun(req.Progress, StageScan, StatusDone, nil, res.Timings.Duration(StageScan))
		files = found
	}
	res.FilesScanned = len(files)

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]fileOutcome, len(files))

	parseStart := time.Now()
	emitQueued(req.Progress, files)
	emitRun(req.Progress, StageParse, StatusWorking, nil, 0)

	g, gctx := errgroup.WithContext(ctx)
	if len(files) > 0 {
		g.SetLimit(min(jobs, len(files)))
	}

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				fileStart := time.Now()
				emitFile(req.Progress, path, StageParse, StatusWorking, nil, 0)

				bag := diag.NewBag(req.MaxDiagnostics)
				outcomes[i].bag = bag
				report := diag.BagReporter{Bag: bag}

				data, err := os.ReadFile(path)
				if err != nil {
					diag.Warn(report, diag.IOReadFile, path, err.Error())
					emitFile(req.Progress, path, StageParse, StatusFailed, err, time.Since(fileStart))
					return nil
				}

				records, err := timeline.ParseTrace(data)
				switch {
				case errors.Is(err, timeline.ErrNotCompilerTrace):
					// Не clang-трасса: пропускаем молча, без диагностики.
					outcomes[i].skipped = true
					emitFile(req.Progress, path, StageParse, StatusSkipped, nil, time.Since(fileStart))
					return nil
				case err != nil:
					diag.Warn(report, diag.TraceMalformed, path, err.Error())
					emitFile(req.Progress, path, StageParse, StatusFailed, err, time.Since(fileStart))
					return nil
				}
				if len(records) == 0 {
					diag.Warn(report, diag.TraceNoEvents, path, "trace holds no timed events")
					outcomes[i].skipped = true
					emitFile(req.Progress, path, StageParse, StatusSkipped, nil, time.Since(fileStart))
					return nil
				}

				outcomes[i].records = records
				emitFile(req.Progress, path, StageParse, StatusDone, nil, time.Since(fileStart))
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		res.Timings.Set(StageParse, time.Since(parseStart))
		emitRun(req.Progress, StageParse, StatusFailed, err, res.Timings.Duration(StageParse))
		return res, err
	}
	res.Timings.Set(StageParse, time.Since(parseStart))
	emitRun(req.Progress, StageParse, StatusDone, nil, res.Timings.Duration(StageParse))

	// Свёртка строго в порядке списка файлов: дерево и интернер
	// не зависят от числа воркеров.
	foldStart := time.Now()
	emitRun(req.Progress, StageFold, StatusWorking, nil, 0)

	var capHint uint
	for i := range outcomes {
		capHint += uint(len(outcomes[i].records))
	}
	res.Store = timeline.NewStore(capHint)
	res.Names = timeline.NewNameTable()
	builder := timeline.NewBuilder(res.Store, res.Names)

	for i := range outcomes {
		out := &outcomes[i]
		if out.bag != nil {
			res.Bag.Merge(out.bag)
		}
		switch {
		case len(out.records) > 0:
			res.FilesParsed++
			res.EventCount += builder.AddFile(out.records)
		case out.skipped:
			res.FilesSkipped++
		}
	}
	res.Timings.Set(StageFold, time.Since(foldStart))
	emitRun(req.Progress, StageFold, StatusDone, nil, res.Timings.Duration(StageFold))

	if res.FilesParsed == 0 {
		diag.Error(diag.BagReporter{Bag: res.Bag}, diag.RunEmptyTraceSet, "", "no usable traces")
		return res, ErrEmptyTraceSet
	}
	return res, nil
}
