package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gsp/internal/driver"
	"gsp/internal/pipeline"
	"gsp/internal/ui"
)

type generateOutcome struct {
	results []driver.Result
	err     error
}

// runGenerateWithUI runs GenerateAll while a Bubble Tea progress view
// consumes its events. The view quits once the event channel is closed.
func runGenerateWithUI(ctx context.Context, title string, reqs []driver.Request, opts driver.Options) ([]driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	files := make([]string, len(reqs))
	for i, req := range reqs {
		files[i] = pipeline.DisplayName(req.Template, opts.BaseDir)
	}

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.GenerateAll(ctx, reqs, optsCopy)
		outcomeCh <- generateOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы генерация не встала на полном канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
