package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"buildlens/internal/analysis"
	"buildlens/internal/pipeline"
	"buildlens/internal/ui"
)

type analyzeOutcome struct {
	result pipeline.AnalyzeResult
	err    error
}

// runAnalyzeWithUI drives the pipeline behind a Bubble Tea progress view.
// Quitting the view (Ctrl-C) cancels the pipeline context.
func runAnalyzeWithUI(ctx context.Context, title string, files []string, req pipeline.Request, opts analysis.Options) (pipeline.AnalyzeResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Analyze(ctx, req, opts)
		outcomeCh <- analyzeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// Вью больше не читает события; отцепляем конвейер, чтобы он не
	// завис на заполненном канале, и дожидаемся итога.
	cancel()
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
