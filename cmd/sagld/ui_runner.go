package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sagld/internal/driver"
	"sagld/internal/ui"
)

type checkOutcome struct {
	results []driver.CheckResult
	err     error
}

func runCheckWithUI(ctx context.Context, title string, files []string, dir string, jobs int) ([]driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		results, err := driver.CheckDir(ctx, dir, jobs, driver.ChannelSink{Ch: events})
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
